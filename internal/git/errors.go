package git

import "errors"

var (
	// ErrDecode is returned when blob content is not valid UTF-8 text.
	ErrDecode = errors.New("blob content is not decodable text")
	// ErrBlobNotFound is returned when a blob id cannot be resolved.
	ErrBlobNotFound = errors.New("blob not found")
	// ErrRepositoryUnavailable is returned when a repository cannot be opened, cloned or iterated.
	ErrRepositoryUnavailable = errors.New("repository unavailable")
	// ErrMalformedAuthor is returned when an author string has no "<email>" part.
	ErrMalformedAuthor = errors.New("malformed author")
	// ErrNoContent is returned when neither side of a diff has content.
	ErrNoContent = errors.New("no content on either side")
)
