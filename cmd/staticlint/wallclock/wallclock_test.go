package wallclock

import (
	"testing"

	"golang.org/x/tools/go/analysis/analysistest"
)

func TestAnalyzer(t *testing.T) {
	analysistest.Run(t, analysistest.TestData(), Analyzer,
		"shortlinks/internal/service",
		"shortlinks/internal/app",
	)
}

func TestGuarded(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{path: "github.com/tempizhere/shortlinks/internal/service", want: true},
		{path: "github.com/tempizhere/shortlinks/internal/repository", want: true},
		{path: "internal/service", want: true},
		{path: "github.com/tempizhere/shortlinks/internal/app", want: false},
		{path: "github.com/tempizhere/shortlinks/internal/servicex", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := guarded(tt.path); got != tt.want {
				t.Errorf("guarded(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}
