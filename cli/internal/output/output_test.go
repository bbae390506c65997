package output

import (
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/filevault/backend/cli/internal/api"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()
	w.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return string(out)
}

func TestListing(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		out := captureStdout(t, func() { Listing(nil, nil) })
		if strings.TrimSpace(out) != "Empty." {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("folders before files", func(t *testing.T) {
		out := captureStdout(t, func() {
			Listing(
				[]api.Folder{{Name: "Reports", UpdatedAt: time.Now()}},
				[]api.File{{Name: "a.pdf", Size: 2048, MimeType: "application/pdf", UpdatedAt: time.Now()}},
			)
		})
		lines := strings.Split(strings.TrimSpace(out), "\n")
		if len(lines) != 3 {
			t.Fatalf("expected header plus two rows, got %q", out)
		}
		if !strings.HasPrefix(lines[1], "Reports/") {
			t.Errorf("expected folder row first, got %q", lines[1])
		}
		if !strings.Contains(lines[2], "2.0 KB") || !strings.Contains(lines[2], "pdf") {
			t.Errorf("unexpected file row %q", lines[2])
		}
	})
}

func TestFileDetail(t *testing.T) {
	desc := "quarterly"
	out := captureStdout(t, func() {
		FileDetail(api.File{ID: "f-1", Name: "a.pdf", OriginalName: "A.PDF", Description: &desc, StorageKey: "users/u/root/a_1.pdf"})
	})
	for _, want := range []string{"Original Name:", "quarterly", "Folder:", "users/u/root/a_1.pdf"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		input int64
		want  string
	}{
		{0, "0 B"},
		{1, "1 B"},
		{512, "512 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1048576, "1.0 MB"},
		{1073741824, "1.0 GB"},
		{1099511627776, "1.0 TB"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := FormatSize(tt.input)
			if got != tt.want {
				t.Errorf("FormatSize(%d) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRelativeTime(t *testing.T) {
	t.Run("just now", func(t *testing.T) {
		got := RelativeTime(time.Now())
		if got != "just now" {
			t.Errorf("expected 'just now', got %q", got)
		}
	})

	t.Run("minutes ago", func(t *testing.T) {
		got := RelativeTime(time.Now().Add(-5 * time.Minute))
		if got != "5m ago" {
			t.Errorf("expected '5m ago', got %q", got)
		}
	})

	t.Run("hours ago", func(t *testing.T) {
		got := RelativeTime(time.Now().Add(-3 * time.Hour))
		if got != "3h ago" {
			t.Errorf("expected '3h ago', got %q", got)
		}
	})

	t.Run("days ago", func(t *testing.T) {
		got := RelativeTime(time.Now().Add(-7 * 24 * time.Hour))
		if got != "7d ago" {
			t.Errorf("expected '7d ago', got %q", got)
		}
	})

	t.Run("date format for old timestamps", func(t *testing.T) {
		old := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
		got := RelativeTime(old)
		if got != "2024-01-15" {
			t.Errorf("expected date format, got %q", got)
		}
	})
}

func TestShortMIME(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"application/pdf", "pdf"},
		{"image/png", "png"},
		{"text/plain", "plain"},
		{"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "sheet"},
		{"inode/directory", "directory"},
		{"plaintext", "plaintext"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := shortMIME(tt.input)
			if got != tt.want {
				t.Errorf("shortMIME(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
