package stargazers

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"
)

// fakeAPI serves fixed pages. Pages are 1-based; failures are keyed by login.
type fakeAPI struct {
	fullName   string
	stars      int
	stargazers [][]string
	starred    map[string][][]string
	failUsers  map[string]error
	// limitOnce makes the first call for a login fail with a rate limit.
	limitOnce map[string]bool
	calls     map[string]int
}

func (f *fakeAPI) Repository(ctx context.Context, owner, repo string) (string, int, error) {
	return f.fullName, f.stars, nil
}

func (f *fakeAPI) Stargazers(ctx context.Context, owner, repo string, page int) ([]string, int, error) {
	return pageOf(f.stargazers, page)
}

func (f *fakeAPI) Starred(ctx context.Context, user string, page int) ([]string, int, error) {
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[user]++
	if f.limitOnce[user] && f.calls[user] == 1 {
		return nil, 0, &RateLimitedError{Reset: time.Now().Add(time.Hour), Err: errors.New("403")}
	}
	if err := f.failUsers[user]; err != nil {
		return nil, 0, err
	}
	return pageOf(f.starred[user], page)
}

func pageOf(pages [][]string, page int) ([]string, int, error) {
	if page < 1 || page > len(pages) {
		return nil, 0, nil
	}
	next := page + 1
	if next > len(pages) {
		next = 0
	}
	return pages[page-1], next, nil
}

func noSleep(ctx context.Context, d time.Duration) error { return nil }

func TestCollector_Collect(t *testing.T) {
	api := &fakeAPI{
		fullName:   "octo/hello",
		stars:      3,
		stargazers: [][]string{{"alice", "bob"}, {"carol"}},
		starred: map[string][][]string{
			"alice": {{"octo/hello", "x/one"}, {"x/two"}},
			"bob":   {{"x/one", "x/three", "x/four"}},
			"carol": {{"x/one"}},
		},
	}

	c := NewCollector(api, 3, 0)
	c.Sleep = noSleep
	got, err := c.Collect(context.Background(), "octo", "hello")
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	// bob reaches the limit after two repositories; the repository itself is never counted as starred.
	expected := []RepoCount{
		{Name: "octo/hello", Count: 3},
		{Name: "x/one", Count: 3},
		{Name: "x/three", Count: 1},
		{Name: "x/two", Count: 1},
	}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Collect = %v, expected %v", got, expected)
	}
}

func TestCollector_TopCommon(t *testing.T) {
	api := &fakeAPI{
		fullName:   "octo/hello",
		stars:      10,
		stargazers: [][]string{{"alice", "bob"}},
		starred: map[string][][]string{
			"alice": {{"a/a", "b/b"}},
			"bob":   {{"b/b", "c/c"}},
		},
	}

	c := NewCollector(api, 100, 2)
	got, err := c.Collect(context.Background(), "octo", "hello")
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	expected := []RepoCount{{Name: "octo/hello", Count: 10}, {Name: "b/b", Count: 2}}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Collect = %v, expected %v", got, expected)
	}
}

func TestCollector_SkipsFailingUsers(t *testing.T) {
	api := &fakeAPI{
		fullName:   "octo/hello",
		stars:      2,
		stargazers: [][]string{{"ghost", "alice"}},
		starred: map[string][][]string{
			"alice": {{"x/one"}},
		},
		failUsers: map[string]error{"ghost": errors.New("404 Not Found")},
	}

	var skipped []string
	c := NewCollector(api, 100, 0)
	c.OnUser = func(login string, err error) {
		if err != nil {
			skipped = append(skipped, login)
		}
	}
	got, err := c.Collect(context.Background(), "octo", "hello")
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("Collect = %v, expected two entries", got)
	}
	if !reflect.DeepEqual(skipped, []string{"ghost"}) {
		t.Errorf("skipped = %v, expected [ghost]", skipped)
	}
}

func TestCollector_RetriesAfterRateLimit(t *testing.T) {
	api := &fakeAPI{
		fullName:   "octo/hello",
		stars:      1,
		stargazers: [][]string{{"alice"}},
		starred:    map[string][][]string{"alice": {{"x/one"}}},
		limitOnce:  map[string]bool{"alice": true},
	}

	var waits []time.Duration
	c := NewCollector(api, 100, 0)
	c.Sleep = func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}
	got, err := c.Collect(context.Background(), "octo", "hello")
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(waits) != 1 || waits[0] <= 0 {
		t.Errorf("waits = %v, expected one positive wait", waits)
	}
	if api.calls["alice"] != 2 {
		t.Errorf("Starred calls = %d, expected the same page retried once", api.calls["alice"])
	}
	if len(got) != 2 || got[1].Name != "x/one" {
		t.Errorf("Collect = %v", got)
	}
}

func TestCollector_Cancelled(t *testing.T) {
	api := &fakeAPI{
		fullName:   "octo/hello",
		stargazers: [][]string{{"alice"}},
		starred:    map[string][][]string{"alice": {{"x/one"}}},
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewCollector(api, 100, 0).Collect(ctx, "octo", "hello")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, expected context.Canceled", err)
	}
}

func TestCounter_MostCommon(t *testing.T) {
	c := Counter{"b": 2, "a": 2, "c": 5, "d": 1}

	tests := []struct {
		n        int
		expected []string
	}{
		{n: 0, expected: []string{"c", "a", "b", "d"}},
		{n: 2, expected: []string{"c", "a"}},
		{n: 10, expected: []string{"c", "a", "b", "d"}},
	}
	for _, tt := range tests {
		got := c.MostCommon(tt.n)
		names := make([]string, len(got))
		for i, rc := range got {
			names[i] = rc.Name
		}
		if !reflect.DeepEqual(names, tt.expected) {
			t.Errorf("MostCommon(%d) = %v, expected %v", tt.n, names, tt.expected)
		}
	}
}

func TestParseRepoName(t *testing.T) {
	tests := []struct {
		ref       string
		wantOwner string
		wantRepo  string
		wantErr   bool
	}{
		{ref: "github.com/octo/hello", wantOwner: "octo", wantRepo: "hello"},
		{ref: "https://github.com/octo/hello", wantOwner: "octo", wantRepo: "hello"},
		{ref: "HTTPS://GitHub.com/Octo/Hello.git", wantOwner: "Octo", wantRepo: "Hello"},
		{ref: "octo/hello/", wantOwner: "octo", wantRepo: "hello"},
		{ref: "octo/hello", wantOwner: "octo", wantRepo: "hello"},
		{ref: "github.com/octo", wantErr: true},
		{ref: "github.com/octo/hello/tree/main", wantErr: true},
		{ref: "hello", wantErr: true},
		{ref: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			owner, repo, err := ParseRepoName(tt.ref)
			if tt.wantErr {
				if !errors.Is(err, ErrBadRepoName) {
					t.Errorf("err = %v, expected ErrBadRepoName", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRepoName: %v", err)
			}
			if owner != tt.wantOwner || repo != tt.wantRepo {
				t.Errorf("ParseRepoName = %s/%s, expected %s/%s", owner, repo, tt.wantOwner, tt.wantRepo)
			}
		})
	}
}
