package source

import (
	"path"
	"strings"
)

type rule struct {
	needles []string
	name    string
}

// First match wins.
var docTypes = []rule{
	{needles: []string{"kim"}, name: "KIM"},
	{needles: []string{"sid"}, name: "SID"},
	{needles: []string{"factsheet", "fact"}, name: "Factsheet"},
	{needles: []string{"presentation"}, name: "Presentation"},
	{needles: []string{"hdfcfund.com/explore/mutual-funds"}, name: "Fund Page"},
}

var funds = []rule{
	{needles: []string{"mid-cap", "midcap"}, name: "HDFC Mid Cap Fund"},
	{needles: []string{"large-cap", "large_cap"}, name: "HDFC Large Cap Fund"},
	{needles: []string{"small-cap", "small_cap"}, name: "HDFC Small Cap Fund"},
	{needles: []string{"flexi-cap", "flexi_cap"}, name: "HDFC Flexi Cap Fund"},
	{needles: []string{"multi-cap", "multi_cap"}, name: "HDFC Multi Cap Fund"},
}

// DisplayName turns a source identifier into a label such as "HDFC Mid Cap Fund - KIM".
// Identifiers that are not URLs are file names and are shown by base name.
func DisplayName(id string) string {
	if id == "" {
		return "Source Document"
	}
	lower := strings.ToLower(id)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return path.Base(id)
	}

	return match(funds, lower, "HDFC Fund") + " - " + match(docTypes, lower, "Document")
}

// DisplayNames maps DisplayName over ids.
func DisplayNames(ids []string) []string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = DisplayName(id)
	}
	return names
}

func match(rules []rule, s, fallback string) string {
	for _, r := range rules {
		for _, n := range r.needles {
			if strings.Contains(s, n) {
				return r.name
			}
		}
	}
	return fallback
}
