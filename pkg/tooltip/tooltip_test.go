package tooltip

import (
	"strings"
	"testing"

	"github.com/yrangana/sigview/pkg/model"
)

func TestTruncateLabel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"short untouched", "hello", "hello"},
		{"exact width untouched", strings.Repeat("x", 50), strings.Repeat("x", 50)},
		{"long keeps full width plus ellipsis", strings.Repeat("x", 60), strings.Repeat("x", 50) + "..."},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateLabel(tt.input); got != tt.want {
				t.Errorf("TruncateLabel(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFragments(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"single", "one piece", []string{"one piece"}},
		{"split", "first<SEP>second", []string{"first", "second"}},
		{"case insensitive marker", "a<sep>b<Sep>c", []string{"a", "b", "c"}},
		{"empty pieces dropped", "<SEP>only<SEP><SEP>", []string{"only"}},
		{"whitespace pieces dropped", "  <SEP>  x  ", []string{"x"}},
		{"empty input", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fragments(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("Fragments(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("fragment %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestFragments_LongFragmentTruncated(t *testing.T) {
	// 400 chars at a 300-char limit keeps exactly the 300-char prefix, with
	// the ellipsis marker after it.
	long := strings.Repeat("y", 400)
	got := Fragments(long)
	if len(got) != 1 {
		t.Fatalf("got %d fragments, want 1", len(got))
	}
	if want := strings.Repeat("y", FragmentMaxWidth) + "..."; got[0] != want {
		t.Errorf("fragment = %d chars %q..., want %d-char prefix plus ellipsis",
			len(got[0]), got[0][:10], FragmentMaxWidth)
	}
}

func TestNodeHover(t *testing.T) {
	attrs := &model.NodeAttributes{Label: "auth service", Category: "infra"}
	if got := NodeHover("n1", attrs); got != "auth service [infra]" {
		t.Errorf("NodeHover = %q", got)
	}
	if got := NodeHover("n1", &model.NodeAttributes{}); got != "n1" {
		t.Errorf("fallback to id failed: %q", got)
	}
}

func TestEdgeHover_WeightPrecision(t *testing.T) {
	e := &model.Edge{
		Source: "a", Target: "b",
		Attrs: model.EdgeAttributes{Weight: 0.123456},
	}
	got := EdgeHover(e)
	if !strings.Contains(got, "0.12") {
		t.Errorf("hover missing two-decimal weight: %q", got)
	}
	if strings.Contains(got, "0.1235") {
		t.Errorf("hover shows full precision: %q", got)
	}
}

func TestEdgeDetail_FullPrecisionAndFragments(t *testing.T) {
	e := &model.Edge{
		Source: "a", Target: "b",
		Attrs: model.EdgeAttributes{
			Weight:      0.123456,
			Description: "first part<SEP>second part",
			Extra:       map[string]any{"zeta": 1, "alpha": "x"},
		},
	}
	got := EdgeDetail(e, "", "")
	if !strings.Contains(got, "weight: 0.1235") {
		t.Errorf("detail missing four-decimal weight:\n%s", got)
	}
	if !strings.Contains(got, "first part") || !strings.Contains(got, "second part") {
		t.Errorf("detail missing fragments:\n%s", got)
	}
	if strings.Index(got, "alpha:") > strings.Index(got, "zeta:") {
		t.Errorf("extra keys not sorted:\n%s", got)
	}
}

func TestEdgeDetail_EndpointLabels(t *testing.T) {
	e := &model.Edge{Source: "a", Target: "b"}

	got := EdgeDetail(e, "Auth Service", "Billing Service")
	if !strings.Contains(got, "Auth Service - Billing Service") {
		t.Errorf("detail missing endpoint labels:\n%s", got)
	}

	// Endpoint labels are shown in full, never truncated.
	long := strings.Repeat("z", 80)
	if got := EdgeDetail(e, long, "b"); !strings.Contains(got, long) {
		t.Errorf("long endpoint label truncated:\n%s", got)
	}

	if got := EdgeDetail(e, "", ""); !strings.Contains(got, "a - b") {
		t.Errorf("empty labels must fall back to ids:\n%s", got)
	}
}

func TestNodeDetail(t *testing.T) {
	attrs := &model.NodeAttributes{
		Label:       "cache",
		Category:    "infra",
		EntityType:  "service",
		Description: "keeps hot keys<SEP>evicts cold ones",
	}
	got := NodeDetail("n1", attrs)
	for _, want := range []string{"cache", "category: infra", "type: service", "keeps hot keys", "evicts cold ones"} {
		if !strings.Contains(got, want) {
			t.Errorf("detail missing %q:\n%s", want, got)
		}
	}
}
