// Package serialport carries the command link over a serial port.
package serialport

import (
	"flag"
	"fmt"
	"io"

	"go.bug.st/serial"

	"github.com/robotalks/rover.go/internal/syncutil"
)

// Config defines the serial port settings for the link.
type Config struct {
	Device   string
	BaudRate int
}

var defaultConfig = Config{
	BaudRate: 115200,
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Device, "link-serial", defaultConfig.Device, "Serial device of the command link.")
	flag.IntVar(&defaultConfig.BaudRate, "link-baud", defaultConfig.BaudRate, "Baud rate of the command link.")
}

// NewConfig creates the default configuration.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Open opens the configured serial port.
func (c *Config) Open() (io.ReadWriteCloser, error) {
	if c.Device == "" {
		return nil, fmt.Errorf("serial device not specified")
	}
	port, err := serial.Open(c.Device, &serial.Mode{BaudRate: c.BaudRate})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", c.Device, err)
	}
	return port, nil
}

// Exchanger implements link.Exchanger on the leader side: one query
// byte out, one reply byte in per exchange.
type Exchanger struct {
	lock syncutil.Mutex
	rw   io.ReadWriter
}

// NewExchanger creates an Exchanger over rw.
func NewExchanger(rw io.ReadWriter) *Exchanger {
	return &Exchanger{rw: rw}
}

// Exchange implements link.Exchanger.
func (e *Exchanger) Exchange(out byte) (byte, error) {
	e.lock.Lock()
	defer e.lock.Unlock()
	if _, err := e.rw.Write([]byte{out}); err != nil {
		return 0, err
	}
	buf := make([]byte, 1)
	for {
		n, err := e.rw.Read(buf)
		if err != nil {
			return 0, err
		}
		if n > 0 {
			return buf[0], nil
		}
	}
}
