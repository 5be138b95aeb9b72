// Package transport delivers a single Pelco-D packet over a serial port.
//
// A session runs open, configure, write, drain and close in that order.
// Once a port has been opened it is always drained and closed, whatever
// step fails afterwards.
package transport

import (
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"pelcosend/internal/pelco"
)

// Line settings are fixed at 8N1; only the baud rate is configurable.
const (
	DataBits = 8
	StopBits = 1
)

var (
	ErrPortUnavailable = errors.New("port unavailable")
	ErrConfigFailed    = errors.New("port configuration failed")
	ErrWriteFailed     = errors.New("write failed")
	ErrShortWrite      = errors.New("short write")
	ErrInvalidPacket   = errors.New("invalid packet")

	// ErrDrainUnsupported is returned by drivers that cannot wait for
	// output to be transmitted
	ErrDrainUnsupported = errors.New("drain not supported by driver")

	errWriteTimeout = errors.New("write timed out")
)

// Port is an open, exclusively held serial device
type Port interface {
	io.WriteCloser

	// Status reads the current device state. It must succeed before the
	// line settings are changed.
	Status() error

	// SetMode applies baud rate with 8 data bits, one stop bit and no parity
	SetMode(baud int) error

	SetReadTimeout(t time.Duration) error

	// Drain blocks until buffered output has been transmitted
	Drain() error
}

// OpenFunc opens device using cfg for the initial line settings.
type OpenFunc func(device string, cfg Config) (Port, error)

// Timeouts bound each transfer to constant + multiplier per byte.
type Timeouts struct {
	ReadInterval    time.Duration
	ReadConstant    time.Duration
	ReadMultiplier  time.Duration
	WriteConstant   time.Duration
	WriteMultiplier time.Duration
}

// DefaultTimeouts returns 50ms constants and 10ms per byte in both directions.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		ReadInterval:    50 * time.Millisecond,
		ReadConstant:    50 * time.Millisecond,
		ReadMultiplier:  10 * time.Millisecond,
		WriteConstant:   50 * time.Millisecond,
		WriteMultiplier: 10 * time.Millisecond,
	}
}

// ReadTotal is the read bound for a transfer of n bytes
func (t Timeouts) ReadTotal(n int) time.Duration {
	return t.ReadConstant + time.Duration(n)*t.ReadMultiplier
}

// WriteTotal is the write bound for a transfer of n bytes
func (t Timeouts) WriteTotal(n int) time.Duration {
	return t.WriteConstant + time.Duration(n)*t.WriteMultiplier
}

// Config holds the serial settings for one session
type Config struct {
	Device   string
	BaudRate int
	Timeouts Timeouts
}

// Result describes a completed write
type Result struct {
	Device  string
	Packet  pelco.Packet
	Written int
}

// Complete reports whether every byte of the packet was written
func (r Result) Complete() bool {
	return r.Written == pelco.PacketLen
}

// Sender runs one open → configure → write → drain → close session per Send.
type Sender struct {
	Open    OpenFunc
	Logger  *log.Logger
	Verbose bool
}

// NewSender creates a Sender that opens ports with open and logs to logger.
// A nil logger discards all output.
func NewSender(open OpenFunc, logger *log.Logger) *Sender {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Sender{Open: open, Logger: logger}
}

func (s *Sender) debugf(format string, args ...any) {
	if s.Verbose {
		s.Logger.Printf(format, args...)
	}
}

// Send writes p to cfg.Device. A short write returns the Result together
// with ErrShortWrite; the port has still been drained and closed. A write
// that runs past the write timeout counts as a short write of 0 bytes,
// since the driver would have forced it to complete at that point.
func (s *Sender) Send(cfg Config, p pelco.Packet) (res Result, err error) {
	res = Result{Device: cfg.Device, Packet: p}
	if !p.Valid() {
		return res, fmt.Errorf("%w: %s", ErrInvalidPacket, p)
	}

	port, err := s.Open(cfg.Device, cfg)
	if err != nil {
		return res, fmt.Errorf("%w: unable to open %s: %v", ErrPortUnavailable, cfg.Device, err)
	}
	s.debugf("opened %s", cfg.Device)
	defer s.release(port, cfg.Device)

	if err := configure(port, cfg); err != nil {
		return res, err
	}
	s.debugf("configured %s: %d baud, %d data bits, %d stop bit, no parity", cfg.Device, cfg.BaudRate, DataBits, StopBits)

	n, err := write(port, p.Bytes(), cfg.Timeouts.WriteTotal(pelco.PacketLen))
	res.Written = n
	switch {
	case errors.Is(err, errWriteTimeout):
		return res, fmt.Errorf("%w: %v, %d of %d bytes written to %s", ErrShortWrite, err, n, pelco.PacketLen, cfg.Device)
	case err != nil:
		return res, fmt.Errorf("%w: %s: %v", ErrWriteFailed, cfg.Device, err)
	}
	s.debugf("wrote %d bytes to %s", n, cfg.Device)

	if !res.Complete() {
		return res, fmt.Errorf("%w: %d of %d bytes written to %s", ErrShortWrite, n, pelco.PacketLen, cfg.Device)
	}
	return res, nil
}

// configure reads the device state before changing it, then applies the
// line settings and the read timeout.
func configure(port Port, cfg Config) error {
	if err := port.Status(); err != nil {
		return fmt.Errorf("%w: error getting device state: %v", ErrConfigFailed, err)
	}
	if err := port.SetMode(cfg.BaudRate); err != nil {
		return fmt.Errorf("%w: error setting device parameters: %v", ErrConfigFailed, err)
	}
	if err := port.SetReadTimeout(cfg.Timeouts.ReadTotal(pelco.PacketLen)); err != nil {
		return fmt.Errorf("%w: error setting timeouts: %v", ErrConfigFailed, err)
	}
	return nil
}

type writeResult struct {
	n   int
	err error
}

// write issues a single Write call and gives up after limit.
// A timed out call keeps running until the port is closed.
func write(w io.Writer, b []byte, limit time.Duration) (int, error) {
	done := make(chan writeResult, 1)
	go func() {
		n, err := w.Write(b)
		done <- writeResult{n, err}
	}()

	timer := time.NewTimer(limit)
	defer timer.Stop()

	select {
	case r := <-done:
		return r.n, r.err
	case <-timer.C:
		return 0, fmt.Errorf("%w after %v", errWriteTimeout, limit)
	}
}

// release drains and closes port, logging any failure.
func (s *Sender) release(port Port, device string) {
	if err := port.Drain(); errors.Is(err, ErrDrainUnsupported) {
		s.debugf("flush skipped on %s: %v", device, err)
	} else if err != nil {
		s.Logger.Printf("Warning: failed to flush %s: %v", device, err)
	}
	if err := port.Close(); err != nil {
		s.Logger.Printf("Warning: failed to close %s: %v", device, err)
		return
	}
	s.debugf("closed %s", device)
}
