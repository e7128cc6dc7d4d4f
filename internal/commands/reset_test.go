package commands

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klabast/wb-services/planning-bilans/internal/app"
)

func TestRunReset(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		input      string
		wantErr    error
		wantExists bool
	}{
		{"confirmed", nil, "y\n", nil, false},
		{"declined", nil, "n\n", app.ErrAborted, true},
		{"yes flag", []string{"-yes"}, "", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			chdir(t, dir)
			t.Setenv("PLANNING_STORAGE_DIR", dir)
			t.Setenv("PLANNING_LOG_LEVEL", "error")

			path := filepath.Join(dir, "btp-planning-data.json")
			if err := os.WriteFile(path, []byte(`{"currentWeek":"2026-W05"}`), 0644); err != nil {
				t.Fatal(err)
			}

			var out bytes.Buffer
			err := runReset(tt.args, strings.NewReader(tt.input), &out)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("runReset() error = %v, want %v", err, tt.wantErr)
			}

			_, statErr := os.Stat(path)
			if exists := statErr == nil; exists != tt.wantExists {
				t.Errorf("file exists = %v, want %v", exists, tt.wantExists)
			}
		})
	}
}
