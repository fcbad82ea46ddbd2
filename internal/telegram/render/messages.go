package render

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/futig/fundfacts/internal/entity"
	"github.com/futig/fundfacts/internal/source"
)

const (
	MsgWelcome = `👋 Hi! I answer factual questions about mutual fund schemes using official documents.

Ask me about:
• Expense ratios and exit loads
• Minimum SIP and lump sum amounts
• Lock-in periods and benchmarks
• Downloading statements

I don't give investment advice or compare funds.`

	MsgHelp = `🤖 Bot commands:

/start - Show the welcome message
/help - Show this help

Just type a question, for example:
"What is the expense ratio of HDFC Mid Cap Fund?"

Every answer lists the documents it was based on.`

	MsgUnknownCommand = `❌ Unknown command. Use /help`
	MsgTextOnly       = `✍️ Please send your question as text.`

	ErrGeneric      = `❌ Something went wrong. Please try again.`
	ErrEmptyQuery   = `✍️ Please type a question about a mutual fund.`
	ErrRetrieval    = `❌ I couldn't search the fund documents right now. Please try again later.`
	ErrTimeout      = `❌ That took too long. Please try again.`
	ErrNetworkIssue = `❌ Connection problem. Please try again shortly.`

	sourcesHeader     = "📄 Sources:"
	suggestionsHeader = "💡 You could ask:"
)

// Answer formats a bundle for a chat message: the answer, then numbered sources
// with readable names, then suggested questions.
func Answer(bundle *entity.AnswerBundle) string {
	if bundle == nil {
		return ErrGeneric
	}

	var sb strings.Builder
	sb.WriteString(bundle.Answer)

	if len(bundle.Sources) > 0 {
		sb.WriteString("\n\n")
		sb.WriteString(sourcesHeader)
		for i, id := range bundle.Sources {
			name := source.DisplayName(id)
			if name == id {
				fmt.Fprintf(&sb, "\n%d. %s", i+1, name)
				continue
			}
			fmt.Fprintf(&sb, "\n%d. %s\n   %s", i+1, name, id)
		}
	}

	if len(bundle.Suggestions) > 0 {
		sb.WriteString("\n\n")
		sb.WriteString(suggestionsHeader)
		for _, s := range bundle.Suggestions {
			sb.WriteString("\n• ")
			sb.WriteString(s)
		}
	}

	return sb.String()
}

// ClassifyError maps a pipeline error to the message shown to the user.
func ClassifyError(err error) string {
	if err == nil {
		return ErrGeneric
	}

	switch {
	case errors.Is(err, entity.ErrEmptyQuery):
		return ErrEmptyQuery
	case errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout
	case errors.Is(err, entity.ErrRetrieval):
		return ErrRetrieval
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return ErrTimeout
		}
		return ErrNetworkIssue
	}

	return ErrGeneric
}
