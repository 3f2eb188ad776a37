package main

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func TestUseSample(t *testing.T) {
	input := filepath.Join("data", "admissions.csv")

	tests := []struct {
		name     string
		settings Settings
		category string
		options  string
	}{
		{"defaults", Settings{}, "site", filepath.Join("data", "options.yaml")},
		{"user category kept", Settings{CategoryColumn: "ward"}, "ward", filepath.Join("data", "options.yaml")},
		{"user options kept", Settings{Options: "mine.yaml"}, "site", "mine.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.settings
			useSample(&s, input)
			if s.Input != input {
				t.Errorf("Expected input %s, got %s", input, s.Input)
			}
			if s.CategoryColumn != tt.category {
				t.Errorf("Expected category column %q, got %q", tt.category, s.CategoryColumn)
			}
			if s.Options != tt.options {
				t.Errorf("Expected options %q, got %q", tt.options, s.Options)
			}
		})
	}
}

func TestRunSample(t *testing.T) {
	var s Settings
	useSample(&s, filepath.Join("data", "admissions.csv"))
	s.DateColumn, s.ValueColumn, s.DateFormat, s.Format = "date", "value", "2006-01-02", "json"
	s.Output = filepath.Join(t.TempDir(), "out.json")

	if err := run(s, zap.NewNop().Sugar()); err != nil {
		t.Fatalf("run: %v", err)
	}
}
