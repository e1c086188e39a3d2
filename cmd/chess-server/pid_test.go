package main

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

func TestPIDFileLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chess.pid")

	pf, err := acquirePIDFile(path, true)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got := strings.TrimSpace(string(data)); got != strconv.Itoa(os.Getpid()) {
		t.Errorf("PID file = %q; want %d", got, os.Getpid())
	}

	if _, err := acquirePIDFile(path, true); err == nil || !strings.Contains(err.Error(), "another instance") {
		t.Errorf("second acquire error = %v; want lock conflict", err)
	}

	pf.Release()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("PID file still present after release: %v", err)
	}
}

func TestPIDFileExisting(t *testing.T) {
	tests := []struct {
		name    string
		content string
		lock    bool
		wantErr string
	}{
		{"corrupt without lock is overwritten", "garbage", false, ""},
		{"corrupt with lock", "garbage", true, "corrupted"},
		{"dead owner with lock", "2147483646", true, "defunct"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "chess.pid")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("write: %v", err)
			}

			pf, err := acquirePIDFile(path, tt.lock)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("acquire: %v", err)
				}
				pf.Release()
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v; want it to mention %q", err, tt.wantErr)
			}
		})
	}
}
