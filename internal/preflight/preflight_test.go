package preflight

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCheckConfigFile(t *testing.T) {
	tests := []struct {
		name        string
		content     *string
		wantErr     bool
		wantInvalid bool
	}{
		{
			name:    "missing file",
			content: nil,
			wantErr: false,
		},
		{
			name:    "valid TOML",
			content: ptr("[web]\nhost = \"0.0.0.0\"\nport = 8080\n\n[database]\nurl = \"sqlite://x.db\"\n"),
			wantErr: false,
		},
		{
			name:    "empty file",
			content: ptr(""),
			wantErr: false,
		},
		{
			name:        "invalid TOML",
			content:     ptr("[web\nhost = \n"),
			wantErr:     true,
			wantInvalid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if tt.content != nil {
				if err := os.WriteFile(path, []byte(*tt.content), 0o600); err != nil {
					t.Fatal(err)
				}
			}

			err := CheckConfigFile(path)

			if (err != nil) != tt.wantErr {
				t.Errorf("CheckConfigFile() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got := errors.Is(err, ErrInvalidTOML); got != tt.wantInvalid {
				t.Errorf("errors.Is(err, ErrInvalidTOML) = %v, want %v", got, tt.wantInvalid)
			}
		})
	}
}

func TestCheckConfigFile_ReportsPosition(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("a = 1\nb = = 2\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	err := CheckConfigFile(path)
	if err == nil {
		t.Fatal("CheckConfigFile() error = nil, want error")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error does not carry the line number: %v", err)
	}
}

func TestSQLitePath(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		want   string
		wantOK bool
	}{
		{name: "absolute path", url: "sqlite:///app/data/m3u-proxy.db", want: "/app/data/m3u-proxy.db", wantOK: true},
		{name: "relative path", url: "sqlite://data/m3u.db", want: "data/m3u.db", wantOK: true},
		{name: "query parameters", url: "sqlite:///app/data/m3u.db?mode=rwc", want: "/app/data/m3u.db", wantOK: true},
		{name: "in memory", url: "sqlite://:memory:", wantOK: false},
		{name: "empty path", url: "sqlite://", wantOK: false},
		{name: "postgres", url: "postgres://user@db/m3u", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SQLitePath(tt.url)
			if ok != tt.wantOK {
				t.Fatalf("SQLitePath(%q) ok = %v, want %v", tt.url, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("SQLitePath(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestCheckDatabaseURL(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "not-a-dir")
	if err := os.WriteFile(file, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{name: "existing directory", url: "sqlite://" + filepath.Join(dir, "m3u.db"), wantErr: false},
		{name: "missing directory", url: "sqlite://" + filepath.Join(dir, "missing", "m3u.db"), wantErr: true},
		{name: "parent is a file", url: "sqlite://" + filepath.Join(file, "m3u.db"), wantErr: true},
		{name: "non sqlite url", url: "postgres://db/m3u", wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckDatabaseURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("CheckDatabaseURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func ptr(s string) *string {
	return &s
}
