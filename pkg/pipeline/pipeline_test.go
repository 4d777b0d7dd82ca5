package pipeline

import (
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/railtrack/pkg/dag"
	errs "github.com/matzehuels/railtrack/pkg/errors"
	"github.com/matzehuels/railtrack/pkg/source"
)

func rec(id string, sec int64, parents ...string) dag.Record {
	r := dag.Record{ID: dag.ID(id), Time: time.Unix(sec, 0), Message: "commit " + id}
	for _, p := range parents {
		r.Parents = append(r.Parents, dag.ID(p))
	}
	return r
}

// mergeHistory is a branch off a and its merge back in d.
func mergeHistory() []dag.Record {
	return []dag.Record{
		rec("a", 1),
		rec("b", 2, "a"),
		rec("c", 3, "a"),
		rec("d", 4, "b", "c"),
	}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"text", false},
		{"json", false},
		{"dot", false},
		{"svg", false},
		{"png", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && errs.GetCode(err) != errs.ErrCodeInvalidFormat {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, errs.GetCode(err))
		}
	}
}

func TestOptions_ValidateAndSetDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("zero options: %v", err)
	}
	if opts.Reference != DefaultReference {
		t.Errorf("Reference = %q, want %q", opts.Reference, DefaultReference)
	}
	if opts.Logger == nil {
		t.Error("Logger not defaulted")
	}
	if opts.MaxCommits != 0 {
		t.Errorf("MaxCommits = %d, want 0 (unlimited)", opts.MaxCommits)
	}

	tests := []struct {
		name string
		opts Options
		code errs.Code
	}{
		{"negative limit", Options{MaxCommits: -1}, errs.ErrCodeInvalidInput},
		{"bad ref pattern", Options{Refs: []string{"a..b"}}, errs.ErrCodeInvalidReference},
		{"bad reference", Options{Reference: "-x"}, errs.ErrCodeInvalidReference},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errs.GetCode(err); got != tt.code {
				t.Errorf("code = %s, want %s", got, tt.code)
			}
		})
	}
}

func TestResult_Decorations(t *testing.T) {
	res, err := BuildLayout(mergeHistory(), "d")
	if err != nil {
		t.Fatal(err)
	}
	res.Refs = []source.Ref{
		{Name: source.HEAD, Kind: source.KindHead, Target: "d"},
		{Name: "main", Kind: source.KindBranch, Target: "d"},
		{Name: "v1", Kind: source.KindTag, Target: "a"},
	}
	deco := res.Decorations()
	if got := strings.Join(deco["d"], ","); got != "HEAD,main" {
		t.Errorf("decorations of d = %q, want HEAD,main", got)
	}
	if got := strings.Join(deco["a"], ","); got != "v1" {
		t.Errorf("decorations of a = %q", got)
	}

	var nilRes *Result
	if nilRes.Decorations() != nil {
		t.Error("nil result should have no decorations")
	}
	if res.String() != "4 commits, 6 rows, 2 lanes" {
		t.Errorf("String() = %q", res.String())
	}
}
