package git

import (
	"fmt"
	"strings"
)

// ParseAuthor splits a "Name <email>" author string.
//
// The email is the text between the first '<' and the next '>'. The display
// name is the trimmed text before '<', and Name is its first whitespace token.
// Without a "<...>" pair the string is malformed: names are still filled from
// the whole text, Email stays empty and ErrMalformedAuthor is returned.
func ParseAuthor(s string) (AuthorInfo, error) {
	s = strings.TrimSpace(s)

	open := strings.IndexByte(s, '<')
	if open == -1 {
		return authorFromName(s, ""), fmt.Errorf("%w: %q", ErrMalformedAuthor, s)
	}
	closing := strings.IndexByte(s[open+1:], '>')
	if closing == -1 {
		return authorFromName(s[:open], ""), fmt.Errorf("%w: %q", ErrMalformedAuthor, s)
	}

	email := strings.TrimSpace(s[open+1 : open+1+closing])
	return authorFromName(s[:open], email), nil
}

func authorFromName(name, email string) AuthorInfo {
	display := strings.Join(strings.Fields(name), " ")
	first := display
	if idx := strings.IndexByte(display, ' '); idx != -1 {
		first = display[:idx]
	}
	return AuthorInfo{Name: first, DisplayName: display, Email: email}
}
