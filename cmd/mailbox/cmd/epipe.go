package cmd

import (
	"errors"
	"syscall"
)

// isEPIPE reports whether err is (or wraps) a broken-pipe write failure,
// the expected outcome of piping one-shot command output into `head` or
// `less` and letting the reader exit early. A nil err is not EPIPE.
func isEPIPE(err error) bool {
	return err != nil && errors.Is(err, syscall.EPIPE)
}
