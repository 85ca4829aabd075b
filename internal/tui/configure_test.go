package tui

import (
	"strings"
	"testing"
)

func TestMaskAPIKey(t *testing.T) {
	cases := []struct {
		key  string
		want string
	}{
		{"", "not set"},
		{"short", "***"},
		{"dg_1234567890abcdef", "dg_1234...cdef"},
	}
	for _, c := range cases {
		if got := maskAPIKey(c.key); got != c.want {
			t.Errorf("maskAPIKey(%q) = %q, want %q", c.key, got, c.want)
		}
	}
}

func TestRenderStatusOmitsEmptyFields(t *testing.T) {
	out := RenderStatus("idle", "", "", "")
	if !strings.Contains(out, "idle") {
		t.Fatalf("state missing from %q", out)
	}
	if strings.Contains(out, "confidence") {
		t.Fatalf("empty confidence rendered: %q", out)
	}

	out = RenderStatus("failed", "English (US)", "0.92", "no speech detected - try again")
	for _, want := range []string{"failed", "English (US)", "confidence 0.92", "no speech"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %q", want, out)
		}
	}
}
