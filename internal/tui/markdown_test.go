package tui

import (
	"strings"
	"testing"
)

func TestRenderMarkdown_RendersForTerminal(t *testing.T) {
	t.Setenv(markdownStyleEnv, "ascii")

	src := "# TUI keys\n\nPress `x` to check the **selected** node."
	got := RenderMarkdown(src, 60)
	if got == "" || got == src {
		t.Fatalf("expected rendered output, got %q", got)
	}
	for _, want := range []string{"TUI keys", "selected", "node"} {
		if !strings.Contains(got, want) {
			t.Fatalf("rendered output missing %q:\n%s", want, got)
		}
	}
}

func TestRenderMarkdown_Empty(t *testing.T) {
	t.Setenv(markdownStyleEnv, "ascii")

	if got := RenderMarkdown("  \n", 40); got != "" {
		t.Fatalf("RenderMarkdown(blank) = %q", got)
	}
}

func TestMarkdownStyle(t *testing.T) {
	setGlyphs(glyphSetUnicode)
	t.Cleanup(func() { setGlyphs(glyphSetUnicode) })

	tests := []struct {
		env    string
		glyphs glyphSet
		want   string
	}{
		{env: "light", glyphs: glyphSetUnicode, want: "light"},
		{env: " NoTTY ", glyphs: glyphSetASCII, want: "notty"},
		{env: "", glyphs: glyphSetUnicode, want: "dark"},
		{env: "", glyphs: glyphSetASCII, want: "ascii"},
		{env: "sparkly", glyphs: glyphSetUnicode, want: "dark"},
	}
	for _, tt := range tests {
		t.Setenv(markdownStyleEnv, tt.env)
		setGlyphs(tt.glyphs)
		if got := markdownStyle(); got != tt.want {
			t.Fatalf("markdownStyle(env=%q, glyphs=%s) = %q, want %q", tt.env, glyphsName(tt.glyphs), got, tt.want)
		}
	}
}
