package services

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIsAllowedUpload(t *testing.T) {
	cases := []struct {
		name     string
		filename string
		size     int64
		want     bool
	}{
		{"pdf within limit", "timesheet.pdf", 1024, true},
		{"docx within limit", "contract.docx", 2048, true},
		{"uppercase extension", "SCAN.PDF", 1024, true},
		{"exactly at the size cap", "timesheet.pdf", MaxUploadSize, true},
		{"over the size cap", "timesheet.pdf", MaxUploadSize + 1, false},
		{"empty file", "timesheet.pdf", 0, false},
		{"executable", "malware.exe", 1024, false},
		{"no extension", "timesheet", 1024, false},
		{"disallowed image type", "photo.gif", 1024, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsAllowedUpload(tc.filename, tc.size); got != tc.want {
				t.Errorf("IsAllowedUpload(%q, %d) = %v, want %v", tc.filename, tc.size, got, tc.want)
			}
		})
	}
}

func TestRemoveStoredDeletesFiles(t *testing.T) {
	dir := t.TempDir()
	stored := []string{
		filepath.Join(dir, "a_timesheet.pdf"),
		filepath.Join(dir, "b_register.jpg"),
	}
	for _, path := range stored {
		if err := os.WriteFile(path, []byte("upload"), 0o644); err != nil {
			t.Fatalf("failed to stage file: %v", err)
		}
	}

	svc := NewFileUploadService()
	// A path that never made it to disk must not abort the cleanup.
	svc.RemoveStored(append(stored, filepath.Join(dir, "missing.pdf")))

	for _, path := range stored {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Errorf("%s still on disk after cleanup (err=%v)", path, err)
		}
	}
}
