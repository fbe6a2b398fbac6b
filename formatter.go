package docchat

import (
	"fmt"
	"sort"
	"strings"
)

// NoSourceFound is rendered in place of citations when an answer has none.
const NoSourceFound = "No source found"

// CollectSources returns the distinct non-empty sources of results, sorted.
func CollectSources(results []SearchResult) []string {
	seen := make(map[string]struct{}, len(results))
	sources := make([]string, 0, len(results))
	for _, r := range results {
		if r.Source == "" {
			continue
		}
		if _, ok := seen[r.Source]; ok {
			continue
		}
		seen[r.Source] = struct{}{}
		sources = append(sources, r.Source)
	}
	sort.Strings(sources)
	return sources
}

// FormatSources renders a numbered citation block.
//
//	Sources:
//	1. https://a.com
//	2. https://b.com
func FormatSources(sources []string) string {
	if len(sources) == 0 {
		return NoSourceFound
	}

	var b strings.Builder
	b.WriteString("Sources:\n")
	for i, s := range sources {
		fmt.Fprintf(&b, "%d. %s\n", i+1, s)
	}
	return b.String()
}

// FormatReply renders an answer followed by its citation block.
func FormatReply(reply *Reply) string {
	return reply.Answer + " \n\n " + FormatSources(reply.Sources)
}

// FormatBytes formats a byte count in human-readable form.
func FormatBytes(n int) string {
	const (
		kb = 1024
		mb = kb * 1024
	)
	switch {
	case n >= mb:
		return fmt.Sprintf("%.1f MB", float64(n)/mb)
	case n >= kb:
		return fmt.Sprintf("%.1f KB", float64(n)/kb)
	}
	return fmt.Sprintf("%d B", n)
}

// FormatTokens formats a token count, rounding thousands.
func FormatTokens(n int) string {
	if n < 1000 {
		return fmt.Sprintf("~%d tokens", n)
	}
	return fmt.Sprintf("~%dk tokens", (n+500)/1000)
}
