// Package tooltip formats hover and detail text for graph elements. Output
// is plain text; callers apply their own styling.
package tooltip

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/yrangana/sigview/pkg/model"
)

const (
	// LabelMaxWidth bounds hover labels.
	LabelMaxWidth = 50
	// FragmentMaxWidth bounds each description fragment.
	FragmentMaxWidth = 300

	ellipsis = "..."
)

// separator splits description text into fragments. The marker is matched
// case-insensitively, so "<SEP>" and "<sep>" behave the same.
var separator = regexp.MustCompile(`(?i)<sep>`)

// TruncateLabel keeps the first LabelMaxWidth cells of a label and appends
// an ellipsis when text was cut. Width is measured in display cells, not
// bytes; the ellipsis sits outside the limit so the kept text is the full
// limit-width prefix.
func TruncateLabel(s string) string {
	return truncate(s, LabelMaxWidth)
}

func truncate(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "") + ellipsis
}

// Fragments splits a description on the separator marker, trims each piece,
// drops empty pieces, and bounds each fragment to the detail width.
func Fragments(description string) []string {
	var out []string
	for _, part := range separator.Split(description, -1) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, truncate(part, FragmentMaxWidth))
	}
	return out
}

// NodeHover is the one-line hover text for a node.
func NodeHover(id string, attrs *model.NodeAttributes) string {
	label := attrs.Label
	if label == "" {
		label = id
	}
	text := TruncateLabel(label)
	if attrs.Category != "" {
		text += " [" + attrs.Category + "]"
	}
	return text
}

// EdgeHover is the one-line hover text for an edge. Weight is shown at
// reduced precision; the modal shows the full value.
func EdgeHover(e *model.Edge) string {
	label := e.Attrs.Label
	if label == "" {
		label = e.Source + " - " + e.Target
	}
	text := TruncateLabel(label)
	if e.Attrs.Weight != 0 {
		text += fmt.Sprintf(" (%.2f)", e.Attrs.Weight)
	}
	return text
}

// NodeDetail is the multi-line detail text for a node: label, typing, then
// description fragments, then any extra attributes in stable order.
func NodeDetail(id string, attrs *model.NodeAttributes) string {
	var b strings.Builder
	label := attrs.Label
	if label == "" {
		label = id
	}
	fmt.Fprintf(&b, "%s\n", label)
	if attrs.Category != "" {
		fmt.Fprintf(&b, "category: %s\n", attrs.Category)
	}
	if attrs.EntityType != "" {
		fmt.Fprintf(&b, "type: %s\n", attrs.EntityType)
	}
	if attrs.Importance != 0 {
		fmt.Fprintf(&b, "importance: %.4f\n", attrs.Importance)
	}
	for _, frag := range Fragments(attrs.Description) {
		fmt.Fprintf(&b, "\n%s\n", frag)
	}
	writeExtra(&b, attrs.Extra)
	return strings.TrimRight(b.String(), "\n")
}

// EdgeDetail is the multi-line modal text for an edge. The endpoints show
// their full node labels, untruncated, falling back to ids when a label is
// empty. Weight appears at full precision here.
func EdgeDetail(e *model.Edge, sourceLabel, targetLabel string) string {
	var b strings.Builder
	if e.Attrs.Label != "" {
		fmt.Fprintf(&b, "%s\n", e.Attrs.Label)
	}
	if sourceLabel == "" {
		sourceLabel = e.Source
	}
	if targetLabel == "" {
		targetLabel = e.Target
	}
	fmt.Fprintf(&b, "%s - %s\n", sourceLabel, targetLabel)
	if e.Attrs.Weight != 0 {
		fmt.Fprintf(&b, "weight: %.4f\n", e.Attrs.Weight)
	}
	if e.Attrs.Keyword != "" {
		fmt.Fprintf(&b, "keyword: %s\n", e.Attrs.Keyword)
	}
	for _, frag := range Fragments(e.Attrs.Description) {
		fmt.Fprintf(&b, "\n%s\n", frag)
	}
	writeExtra(&b, e.Attrs.Extra)
	return strings.TrimRight(b.String(), "\n")
}

// writeExtra appends unrecognized attributes sorted by key so output is
// stable across runs.
func writeExtra(b *strings.Builder, extra map[string]any) {
	if len(extra) == 0 {
		return
	}
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	b.WriteString("\n")
	for _, k := range keys {
		fmt.Fprintf(b, "%s: %v\n", k, extra[k])
	}
}
