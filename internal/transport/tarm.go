package transport

import (
	"fmt"
	"time"

	"github.com/tarm/serial"

	"pelcosend/internal/pelco"
)

// tarmPort wraps github.com/tarm/serial. tarm applies every setting when
// the port is opened and cannot change them afterwards.
type tarmPort struct {
	*serial.Port
	baud        int
	readTimeout time.Duration
}

// OpenTarm opens device with github.com/tarm/serial
func OpenTarm(device string, cfg Config) (Port, error) {
	readTimeout := cfg.Timeouts.ReadTotal(pelco.PacketLen)
	port, err := serial.OpenPort(&serial.Config{
		Name:        device,
		Baud:        cfg.BaudRate,
		Size:        DataBits,
		Parity:      serial.ParityNone,
		StopBits:    serial.Stop1,
		ReadTimeout: readTimeout,
	})
	if err != nil {
		return nil, err
	}
	return &tarmPort{Port: port, baud: cfg.BaudRate, readTimeout: readTimeout}, nil
}

// Status has nothing to query; an open tarm port is in the state it was opened with
func (p *tarmPort) Status() error {
	if p.Port == nil {
		return fmt.Errorf("port is not open")
	}
	return nil
}

func (p *tarmPort) SetMode(baud int) error {
	if baud != p.baud {
		return fmt.Errorf("tarm driver cannot change baud rate from %d to %d on an open port", p.baud, baud)
	}
	return nil
}

// SetReadTimeout accepts any timeout at least as long as the one set at open.
// tarm rounds read timeouts to tenths of a second on posix systems anyway.
func (p *tarmPort) SetReadTimeout(t time.Duration) error {
	if t < p.readTimeout {
		return fmt.Errorf("tarm driver cannot shorten read timeout to %v", t)
	}
	return nil
}

// Drain cannot wait for transmission with tarm. Its Flush discards unsent
// data, so nothing is called and ErrDrainUnsupported is reported instead.
func (p *tarmPort) Drain() error {
	return ErrDrainUnsupported
}
