// Package tcp wraps raw socket reads with the retry discipline the
// engine promises: "interrupted" and "would-block" conditions are
// transparently retried, every other error is surfaced untouched.
package tcp

import (
	"errors"
	"io"
	"net"
	"syscall"
)

// Read reads once into p, retrying transient failures.
func Read(conn net.Conn, p []byte) (n int, err error) {
	for {
		n, err = conn.Read(p)
		if err != nil && n == 0 && isTransient(err) {
			continue
		}

		return n, err
	}
}

// ReadFull fills p completely, retrying transient failures. A peer
// disconnect before p is full is reported as io.ErrUnexpectedEOF.
func ReadFull(conn net.Conn, p []byte) error {
	for read := 0; read < len(p); {
		n, err := conn.Read(p[read:])
		read += n

		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			if read < len(p) {
				return io.ErrUnexpectedEOF
			}

			return nil
		case isTransient(err):
		default:
			return err
		}
	}

	return nil
}

func isTransient(err error) bool {
	return errors.Is(err, syscall.EINTR) || errors.Is(err, syscall.EAGAIN)
}
