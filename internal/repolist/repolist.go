// Package repolist reads the list of repositories to process.
//
// The list is a text file whose first line is a header. Every following group of
// four lines describes one repository: url, invitation, stars, language.
package repolist

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// Entry is one repository of the list.
type Entry struct {
	URL        string
	Invitation string
	Stars      string
	Language   string
}

// Name returns the last segment of the URL, used to name per-repository output.
func (e Entry) Name() string {
	u := strings.TrimSuffix(strings.TrimRight(e.URL, "/"), ".git")
	if i := strings.LastIndex(u, "/"); i >= 0 {
		return u[i+1:]
	}
	return u
}

const fieldsPerEntry = 4

// Parse reads a repository list.
func Parse(r io.Reader) ([]Entry, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.ReplaceAll(sc.Text(), "\t", "")
		lines = append(lines, strings.TrimRight(line, "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read repository list: %w", err)
	}

	if len(lines) > 0 {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines)%fieldsPerEntry != 0 {
		return nil, fmt.Errorf("repository list: %d lines after the header, expected groups of %d", len(lines), fieldsPerEntry)
	}

	entries := make([]Entry, 0, len(lines)/fieldsPerEntry)
	for i := 0; i < len(lines); i += fieldsPerEntry {
		url := strings.TrimSpace(lines[i])
		if url == "" {
			return nil, fmt.Errorf("repository list: empty url at line %d", i+2)
		}
		if !strings.Contains(url, "https://") {
			url = "https://" + url
		}
		entries = append(entries, Entry{
			URL:        url,
			Invitation: lines[i+1],
			Stars:      lines[i+2],
			Language:   lines[i+3],
		})
	}
	return entries, nil
}

// Load reads a repository list from a local file or an http(s) URL.
func Load(ctx context.Context, source string) ([]Entry, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return fetch(ctx, http.DefaultClient, source)
	}

	f, err := os.Open(source)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

func fetch(ctx context.Context, client *http.Client, url string) ([]Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch repository list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("fetch repository list: %s: %s", url, resp.Status)
	}
	return Parse(resp.Body)
}
