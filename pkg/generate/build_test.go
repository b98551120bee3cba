package generate

import (
	"reflect"
	"testing"

	"github.com/matzehuels/mdgraph/pkg/cache"
	"github.com/matzehuels/mdgraph/pkg/errors"
)

func TestParseStrategies(t *testing.T) {
	got := ParseStrategies(" Simulate, network,,template ")
	want := []string{"simulate", "network", "template"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseStrategies() = %v, want %v", got, want)
	}
	if got := ParseStrategies(""); len(got) != 0 {
		t.Errorf("ParseStrategies(\"\") = %v", got)
	}
}

func TestBuild(t *testing.T) {
	withCreds := DefaultConfig()
	withCreds.HuggingFace.Token = "hf"
	withCreds.Claude.APIKey = "sk"

	claudeOnly := withCreds
	claudeOnly.Strategies = []string{"claude", "template"}

	tests := []struct {
		name string
		cfg  Config
		want []string
	}{
		{"defaults without credentials", DefaultConfig(), []string{"simulate", "template"}},
		{"defaults with credentials", withCreds, []string{"simulate", "huggingface", "claude", "template"}},
		{"explicit network strategy", claudeOnly, []string{"claude", "template"}},
		{"empty list uses defaults", Config{}, []string{"simulate", "template"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Build(tt.cfg, cache.NewNullCache(), nil)
			if err != nil {
				t.Fatalf("Build() error: %v", err)
			}
			if got := g.Strategies(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Strategies() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name       string
		strategies []string
	}{
		{"unknown", []string{"simulate", "oracle"}},
		{"nothing enabled", []string{"network"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(Config{Strategies: tt.strategies}, nil, nil)
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("Build() = %v, want INVALID_INPUT", err)
			}
		})
	}
}
