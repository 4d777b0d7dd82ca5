package cli

import (
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/matzehuels/railtrack/pkg/pipeline"
)

func TestStatsLine(t *testing.T) {
	tests := []struct {
		name   string
		stats  pipeline.Stats
		cached bool
		want   string
	}{
		{
			name:  "fresh",
			stats: pipeline.Stats{Commits: 4, Rows: 6, Lanes: 2},
			want:  "4 commits · 6 rows · 2 lanes · fresh",
		},
		{
			name:   "cached with skipped records",
			stats:  pipeline.Stats{Commits: 3, Rows: 3, Lanes: 1, Skipped: 2},
			cached: true,
			want:   "3 commits · 3 rows · 1 lanes · 2 skipped · cached",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ansi.Strip(statsLine(tt.stats, tt.cached)); got != tt.want {
				t.Errorf("statsLine = %q, want %q", got, tt.want)
			}
		})
	}
}
