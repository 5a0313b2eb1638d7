package docs

import (
	"errors"
	"strings"
	"testing"

	"github.com/tengjizhang/scrub/internal/store"
)

func TestSafeName(t *testing.T) {
	tests := map[string]string{
		"notes":                "notes",
		"My Notes":             "My-Notes",
		"  padded  ":           "padded",
		"café résumé":          "cafe-resume",
		"ﬁle":                  "file",
		"a  b\t\tc":            "a-b-c",
		"a - b":                "a-b",
		"../../etc/passwd":     "etcpasswd",
		"...hidden":            "hidden",
		"--flag":               "flag",
		"report_2024.v2.html":  "report_2024.v2.html",
		"<script>x</script>":   "scriptxscript",
		"emoji 🎉 party":        "emoji-party",
		"C:\\windows\\system": "Cwindowssystem",
	}
	for in, want := range tests {
		got, err := SafeName(in)
		if err != nil {
			t.Fatalf("SafeName(%q) error: %v", in, err)
		}
		if got != want {
			t.Fatalf("SafeName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSafeName_CapsLength(t *testing.T) {
	got, err := SafeName(strings.Repeat("ab", 100))
	if err != nil {
		t.Fatalf("SafeName long: %v", err)
	}
	if len(got) != maxNameBytes {
		t.Fatalf("len = %d, want %d", len(got), maxNameBytes)
	}
}

func TestWithSuffix(t *testing.T) {
	if got := WithSuffix("Weekly-update", "ab12"); got != "Weekly-update-ab12" {
		t.Fatalf("WithSuffix = %q", got)
	}
	long, _ := SafeName(strings.Repeat("ab", 100))
	got := WithSuffix(long, "ab12")
	if len(got) != maxNameBytes || !strings.HasSuffix(got, "-ab12") {
		t.Fatalf("WithSuffix long = %q (len %d)", got, len(got))
	}
	if again, err := SafeName(got); err != nil || again != got {
		t.Fatalf("suffixed name is not stable under SafeName: %q, %v", again, err)
	}
	if got := WithSuffix(strings.Repeat("a", maxNameBytes-6)+"-x", "ab12"); strings.Contains(got, "--") {
		t.Fatalf("WithSuffix left a double dash: %q", got)
	}
}

func TestSafeName_Errors(t *testing.T) {
	for _, in := range []string{"", "   ", "???", "日本語", "---"} {
		if _, err := SafeName(in); !errors.Is(err, store.ErrMissingField) {
			t.Fatalf("SafeName(%q): expected ErrMissingField, got %v", in, err)
		}
	}
	for _, in := range []string{".", "..", " .. "} {
		_, err := SafeName(in)
		if !errors.Is(err, store.ErrInvalidInput) || errors.Is(err, store.ErrMissingField) {
			t.Fatalf("SafeName(%q): expected reserved-name ErrInvalidInput, got %v", in, err)
		}
	}
}
