package markdown

import (
	"strings"
	"testing"
)

func TestToHTMLBasics(t *testing.T) {
	out, err := ToHTML("# Title\n\nSome **bold** text.")
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	if !strings.Contains(out, "<h1") || !strings.Contains(out, "Title") {
		t.Errorf("missing heading in %q", out)
	}
	if !strings.Contains(out, "<strong>bold</strong>") {
		t.Errorf("missing bold span in %q", out)
	}
}

func TestToHTMLGFMTable(t *testing.T) {
	out, err := ToHTML("| a | b |\n|---|---|\n| 1 | 2 |")
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	if !strings.Contains(out, "<table>") {
		t.Errorf("GFM table not rendered: %q", out)
	}
}

func TestToHTMLRawHTMLPassthrough(t *testing.T) {
	out, err := ToHTML(`before <div class="legacy">kept</div> after`)
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	if !strings.Contains(out, `<div class="legacy">kept</div>`) {
		t.Errorf("raw HTML was escaped: %q", out)
	}
}

func TestToHTMLCodeHighlighting(t *testing.T) {
	out, err := ToHTML("```go\nfmt.Println(\"hi\")\n```")
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	// Highlighted output inlines style attributes instead of a bare <pre><code>.
	if !strings.Contains(out, "<pre") || !strings.Contains(out, "style=") {
		t.Errorf("fenced block not highlighted: %q", out)
	}
}
