package feed

import (
	"strings"
	"testing"
)

func TestCleanHTML(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "tags entities and whitespace",
			in:   "<p>Hello&nbsp;&amp;  world</p>",
			want: "Hello & world",
		},
		{
			name: "nested markup",
			in:   "<div><b>Breaking</b>: <a href=\"x\">new model</a>\n\treleased</div>",
			want: "Breaking: new model released",
		},
		{
			name: "plain text untouched",
			in:   "already clean",
			want: "already clean",
		},
		{
			name: "quotes and apostrophes",
			in:   "&quot;GPT&quot; isn&#39;t &lt;done&gt;",
			want: "\"GPT\" isn't <done>",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := CleanHTML(tc.in); got != tc.want {
				t.Fatalf("CleanHTML(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("a", 1200)
	got := Truncate(long, 1000)
	if len([]rune(got)) != 1003 {
		t.Fatalf("truncated length = %d, want 1003 (1000 + ellipsis)", len([]rune(got)))
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("truncated string should end with ellipsis marker: %q", got[990:])
	}

	if short := Truncate("short", 1000); short != "short" {
		t.Fatalf("Truncate should keep strings under the limit: %q", short)
	}

	// Rune-safe: multi-byte characters must not be split.
	cjk := strings.Repeat("新", 12)
	if got := Truncate(cjk, 10); got != strings.Repeat("新", 10)+"..." {
		t.Fatalf("unexpected multi-byte truncation: %q", got)
	}
}
