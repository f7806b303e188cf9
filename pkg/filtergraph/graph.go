// Package filtergraph models an engine filter chain as a list of typed
// stages and serializes it to the engine's textual filter syntax.
//
// A Graph is serialized as comma-separated stages, each written as
// name=key=value:key=value. Values containing filter metacharacters are
// single-quoted so that expressions such as between(t,0,3) survive the
// engine's option parser intact.
package filtergraph

import (
	"strconv"
	"strings"
)

// Stage is one filter in a Graph. The set of stages is closed: ZoomPan,
// DrawText and Fade.
type Stage interface {
	// Name returns the engine filter name.
	Name() string

	// Options returns the filter options in serialization order.
	Options() []Option

	sealed()
}

// Option is a single key=value filter argument.
type Option struct {
	Key   string
	Value string
}

// Graph is an ordered filter chain.
type Graph []Stage

// String serializes the graph to the engine's filter syntax.
func (g Graph) String() string {
	parts := make([]string, 0, len(g))
	for _, s := range g {
		parts = append(parts, formatStage(s))
	}
	return strings.Join(parts, ",")
}

// Append returns the graph with stages added at the end.
func (g Graph) Append(stages ...Stage) Graph {
	return append(g, stages...)
}

func formatStage(s Stage) string {
	opts := s.Options()
	if len(opts) == 0 {
		return s.Name()
	}

	var b strings.Builder
	b.WriteString(s.Name())
	b.WriteByte('=')
	for i, opt := range opts {
		if i > 0 {
			b.WriteByte(':')
		}
		b.WriteString(opt.Key)
		b.WriteByte('=')
		b.WriteString(quote(opt.Value))
	}
	return b.String()
}

// metachars are the characters that end or split an unquoted option value.
const metachars = ",:;'\\[]= \t"

// quote wraps v in single quotes when it contains filter metacharacters.
// A literal quote is written as '\'' (close, escaped quote, reopen).
func quote(v string) string {
	if !strings.ContainsAny(v, metachars) {
		return v
	}
	return "'" + strings.ReplaceAll(v, "'", `'\''`) + "'"
}

// formatNumber renders a float without trailing zeros ("1.5", "0.0015", "3").
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
