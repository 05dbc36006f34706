package repolist

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sample = "url\tinvitation\tstars\tlanguage\n" +
	"github.com/octo/hello\n" +
	"\tjoin us\n" +
	"120\n" +
	"Python\n" +
	"https://github.com/octo/world.git\n" +
	"\n" +
	"7\n" +
	"Java\n" +
	"\n"

func TestParse(t *testing.T) {
	entries, err := Parse(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, expected 2", len(entries))
	}

	first := entries[0]
	if first.URL != "https://github.com/octo/hello" {
		t.Errorf("URL = %q, expected https prefix", first.URL)
	}
	if first.Invitation != "join us" || first.Stars != "120" || first.Language != "Python" {
		t.Errorf("first entry = %+v", first)
	}
	if entries[1].URL != "https://github.com/octo/world.git" || entries[1].Invitation != "" {
		t.Errorf("second entry = %+v", entries[1])
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "incomplete group", input: "header\nhttps://a/b/c\ninv\n"},
		{name: "empty url", input: "header\n\ninv\n1\nGo\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(tt.input)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestParse_HeaderOnly(t *testing.T) {
	entries, err := Parse(strings.NewReader("url\tinvitation\tstars\tlanguage\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("got %d entries, expected 0", len(entries))
	}
}

func TestEntry_Name(t *testing.T) {
	tests := map[string]string{
		"https://github.com/octo/hello":       "hello",
		"https://github.com/octo/hello.git":   "hello",
		"https://github.com/octo/hello/":      "hello",
		"git@github.com:octo/hello-world.git": "hello-world",
	}
	for url, want := range tests {
		if got := (Entry{URL: url}).Name(); got != want {
			t.Errorf("Name(%q) = %q, expected %q", url, got, want)
		}
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "repos.txt")
	if err := os.WriteFile(path, []byte(sample), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	entries, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("got %d entries, expected 2", len(entries))
	}

	if _, err := Load(context.Background(), filepath.Join(t.TempDir(), "absent.txt")); err == nil {
		t.Error("expected error for a missing file")
	}
}

func TestLoad_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/list.txt" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(sample))
	}))
	defer srv.Close()

	entries, err := Load(context.Background(), srv.URL+"/list.txt")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(entries) != 2 || entries[0].Language != "Python" {
		t.Errorf("entries = %+v", entries)
	}

	if _, err := Load(context.Background(), srv.URL+"/missing.txt"); err == nil {
		t.Error("expected error for a 404 response")
	}
}
