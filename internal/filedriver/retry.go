package filedriver

import (
	"errors"
	"syscall"

	"github.com/mimecast/xgrep/internal/constants"
)

func retryLimit() int {
	return constants.MaxReadRetries
}

// isEINTR reports whether err was caused by a syscall interrupted by a
// signal, the one condition §7 calls out for transparent retry rather
// than surfacing to the caller.
func isEINTR(err error) bool {
	return errors.Is(err, syscall.EINTR)
}
