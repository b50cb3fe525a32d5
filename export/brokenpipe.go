package export

import (
	"errors"
	"io"
	"syscall"
)

// IsBrokenPipe reports whether err comes from writing to a closed pipe,
// as when output is piped into head.
func IsBrokenPipe(err error) bool {
	return err != nil && (errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe))
}
