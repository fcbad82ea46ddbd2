package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/futig/fundfacts/internal/builder"
	"github.com/futig/fundfacts/internal/index"
	"go.uber.org/zap"
)

func main() {
	env := flag.String("env", "local", "environment name, selects the .env.<env> file")
	mode := flag.String("mode", builder.ModeBuild, "build (replace the index) or append (add to the published index)")
	input := flag.String("input", "data/raw", "comma-separated document files or directories")
	skipDuplicates := flag.Bool("skip-duplicates", false, "in append mode, drop chunks whose text is already indexed")
	flag.Parse()

	indexer, err := builder.BuildIndexer(*env)
	if err != nil {
		log.Fatal("Failed to build indexer: ", err)
	}
	defer indexer.Close()
	logger := indexer.Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := indexer.Run(ctx, *mode, splitInputs(*input), index.AppendOptions{SkipDuplicates: *skipDuplicates})
	if err != nil {
		logger.Error("indexing failed", zap.String("mode", *mode), zap.Error(err))
		indexer.Close()
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		logger.Error("failed to print report", zap.Error(err))
	}
}

func splitInputs(s string) []string {
	var inputs []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			inputs = append(inputs, p)
		}
	}
	return inputs
}
