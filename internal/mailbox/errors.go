package mailbox

import "errors"

var (
	errEmpty         = errors.New("mailbox: path must not be empty")
	errSlashBoundary = errors.New("mailbox: path must not start or end with '/'")
	errDoubleSlash   = errors.New("mailbox: path must not contain '//'")
	errPercent       = errors.New("mailbox: path must not contain '%' (reserved for SQL LIKE escaping)")
	errEmptySegment  = errors.New("mailbox: path must not contain an empty segment")
)
