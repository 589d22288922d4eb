package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestString(t *testing.T) {
	color.NoColor = true
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	t.Cleanup(func() { Version, GitCommit, BuildDate = origVersion, origCommit, origDate })

	tests := []struct {
		version, commit, date string
		want                  string
	}{
		{"0.1.0-dev", "", "", "layercheck 0.1.0-dev"},
		{"1.2.3", "abc123", "", "layercheck 1.2.3 (commit abc123)"},
		{"1.2.3+meta", "abc123", "2024-01-15", "layercheck 1.2.3+meta (commit abc123, built 2024-01-15)"},
		{"nightly", "", "", "layercheck nightly"},
	}
	for _, tt := range tests {
		Version, GitCommit, BuildDate = tt.version, tt.commit, tt.date
		if got := String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
