// Package stargazers counts which repositories the stargazers of a repository also starred.
package stargazers

import (
	"errors"
	"fmt"
	"strings"
)

// ErrBadRepoName is returned for repository references that are not owner/repo.
var ErrBadRepoName = errors.New("wrong repository format, expected github.com/owner/repo or owner/repo")

// ParseRepoName extracts owner and repository from github.com/owner/repo,
// https://github.com/owner/repo or owner/repo.
func ParseRepoName(ref string) (owner, repo string, err error) {
	s := strings.TrimSpace(ref)
	lower := strings.ToLower(s)
	for _, scheme := range []string{"https://", "http://"} {
		if strings.HasPrefix(lower, scheme) {
			s = s[len(scheme):]
			lower = lower[len(scheme):]
			break
		}
	}
	s = strings.TrimSuffix(strings.TrimRight(s, "/"), ".git")

	parts := strings.Split(s, "/")
	if strings.EqualFold(parts[0], "github.com") || strings.EqualFold(parts[0], "www.github.com") {
		parts = parts[1:]
	}
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w: %q", ErrBadRepoName, ref)
	}
	return parts[0], parts[1], nil
}
