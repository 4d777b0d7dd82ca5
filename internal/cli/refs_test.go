package cli

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/matzehuels/railtrack/pkg/source"
)

func TestRefsTable(t *testing.T) {
	refs := []source.Ref{
		{Name: "HEAD", Kind: source.KindHead, Target: "0123456789abcdef"},
		{Name: "main", Kind: source.KindBranch, Target: "0123456789abcdef"},
		{Name: "v1.0", Kind: source.KindTag, Target: "fedcba9876543210"},
	}
	out := ansi.Strip(refsTable(refs))
	lines := strings.Split(out, "\n")

	// top border, header, separator, three rows, bottom border
	if len(lines) != 7 {
		t.Fatalf("table has %d lines, want 7:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "╭") {
		t.Errorf("expected a rounded border, got %q", lines[0])
	}
	for _, want := range []string{"Ref", "Kind", "Commit"} {
		if !strings.Contains(lines[1], want) {
			t.Errorf("header %q missing %q", lines[1], want)
		}
	}
	rows := []struct{ name, kind, commit string }{
		{"HEAD", "head", "0123456"},
		{"main", "branch", "0123456"},
		{"v1.0", "tag", "fedcba9"},
	}
	for i, want := range rows {
		line := lines[3+i]
		for _, cell := range []string{want.name, want.kind, want.commit} {
			if !strings.Contains(line, cell) {
				t.Errorf("row %d = %q, missing %q", i, line, cell)
			}
		}
	}
}

func TestShortID(t *testing.T) {
	if got := shortID("0123456789abcdef"); got != "0123456" {
		t.Errorf("shortID = %q", got)
	}
	if got := shortID("abc"); got != "abc" {
		t.Errorf("shortID of a short id = %q", got)
	}
}
