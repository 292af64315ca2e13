package tooltip

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"pgregory.net/rapid"
)

func TestTruncateLabel_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := rapid.String().Draw(t, "s")
		out := TruncateLabel(s)

		if max := LabelMaxWidth + runewidth.StringWidth(ellipsis); runewidth.StringWidth(out) > max {
			t.Fatalf("TruncateLabel(%q) width %d exceeds %d", s, runewidth.StringWidth(out), max)
		}
		if runewidth.StringWidth(s) <= LabelMaxWidth {
			if out != s {
				t.Fatalf("short label rewritten: %q -> %q", s, out)
			}
		} else {
			if !strings.HasSuffix(out, ellipsis) {
				t.Fatalf("truncated label %q lacks ellipsis", out)
			}
			// The kept text is an untouched prefix of the input.
			if !strings.HasPrefix(s, strings.TrimSuffix(out, ellipsis)) {
				t.Fatalf("truncated label %q is not a prefix of %q", out, s)
			}
		}
	})
}

func TestFragments_Properties(t *testing.T) {
	markers := []string{"<sep>", "<SEP>", "<Sep>"}
	rapid.Check(t, func(t *rapid.T) {
		parts := rapid.SliceOfN(rapid.StringMatching(`[ -~]{0,400}`), 0, 6).Draw(t, "parts")

		var b strings.Builder
		for i, p := range parts {
			if i > 0 {
				b.WriteString(markers[rapid.IntRange(0, len(markers)-1).Draw(t, "marker")])
			}
			b.WriteString(separator.ReplaceAllString(p, ""))
		}

		frags := Fragments(b.String())
		if len(frags) > len(parts) {
			t.Fatalf("%d fragments from %d parts", len(frags), len(parts))
		}
		for _, f := range frags {
			if strings.TrimSpace(f) == "" {
				t.Fatalf("blank fragment survived: %q", f)
			}
			if max := FragmentMaxWidth + runewidth.StringWidth(ellipsis); runewidth.StringWidth(f) > max {
				t.Fatalf("fragment width %d exceeds %d", runewidth.StringWidth(f), max)
			}
			if separator.MatchString(f) {
				t.Fatalf("separator marker survived in %q", f)
			}
		}
	})
}
