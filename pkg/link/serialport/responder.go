package serialport

import (
	"context"
	"io"

	"github.com/robotalks/rover.go/pkg/framework"
	"github.com/robotalks/rover.go/pkg/link"
)

// Responder is the follower-side transport service: it pumps the
// serial port one byte at a time, replying to each leader query. It
// owns the one-exchange transmit pipeline: the byte written for
// query n is the one the follower staged during query n-1, matching
// the preloaded transmit buffer of the synchronous hardware link.
type Responder struct {
	ReadWriter io.ReadWriter
	Follower   *link.Follower

	staged byte
}

// NewResponder creates a Responder pumping rw into follower.
func NewResponder(rw io.ReadWriter, follower *link.Follower) *Responder {
	return &Responder{
		ReadWriter: rw,
		Follower:   follower,
		staged:     byte(follower.Command()),
	}
}

// Run implements Runnable.
func (r *Responder) Run(ctx context.Context) error {
	if closer, ok := r.ReadWriter.(io.Closer); ok {
		return framework.RunWithContextCloser(ctx, closer, r.pump)
	}
	return framework.RunWithContext(ctx, r.pump)
}

func (r *Responder) pump() error {
	buf := make([]byte, 1)
	for {
		n, err := r.ReadWriter.Read(buf)
		if err != nil {
			return err
		}
		if n == 0 {
			continue
		}
		if _, err = r.ReadWriter.Write([]byte{r.staged}); err != nil {
			return err
		}
		r.staged = r.Follower.Respond(buf[0])
	}
}
