package serialport

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/rover.go/pkg/link"
)

type scriptedPort struct {
	in  []byte
	out []byte
}

func (p *scriptedPort) Read(b []byte) (int, error) {
	if len(p.in) == 0 {
		return 0, io.EOF
	}
	b[0] = p.in[0]
	p.in = p.in[1:]
	return 1, nil
}

func (p *scriptedPort) Write(b []byte) (int, error) {
	p.out = append(p.out, b...)
	return len(b), nil
}

func TestResponderTransmitPipeline(t *testing.T) {
	follower := link.NewFollower()
	port := &scriptedPort{in: []byte{
		link.QueryByte, link.QueryByte, link.QueryByte,
		link.QueryByte, link.QueryByte,
	}}
	r := NewResponder(port, follower)
	follower.SetCommand(link.CmdDriveFwdFull)

	err := r.Run(context.Background())
	require.ErrorIs(t, err, io.EOF)
	// Each reply is the byte staged during the previous exchange:
	// the initial buffer load, then the flag/value frame.
	require.Equal(t, []byte{0x00, 0xFF, 0x09, 0x09, 0x09}, port.out)
}

func TestResponderWriteErrorStops(t *testing.T) {
	follower := link.NewFollower()
	r := NewResponder(&failingPort{}, follower)
	err := r.Run(context.Background())
	require.ErrorIs(t, err, errWriteFail)
}

type failingPort struct{}

var errWriteFail = errors.New("write failed")

func (p *failingPort) Read(b []byte) (int, error) {
	b[0] = link.QueryByte
	return 1, nil
}

func (p *failingPort) Write(b []byte) (int, error) {
	return 0, errWriteFail
}
