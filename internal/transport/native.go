package transport

import (
	"errors"
	"fmt"
	"syscall"

	"go.bug.st/serial"
)

// nativePort wraps a go.bug.st/serial port
type nativePort struct {
	serial.Port
}

func lineMode(baud int) *serial.Mode {
	return &serial.Mode{
		BaudRate: baud,
		DataBits: DataBits,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
}

// OpenNative opens device with go.bug.st/serial. On unix the port is
// locked with TIOCEXCL, so a second open of the same device fails.
func OpenNative(device string, cfg Config) (Port, error) {
	port, err := serial.Open(device, lineMode(cfg.BaudRate))
	if err != nil {
		return nil, describePortError(err)
	}
	return &nativePort{Port: port}, nil
}

// Status queries the modem status lines, which fails on a dead handle.
// Ptys and some USB bridges have no modem lines; on those the query is
// rejected as unsupported and the handle is still usable.
func (p *nativePort) Status() error {
	_, err := p.GetModemStatusBits()
	if err != nil && !modemStatusUnsupported(err) {
		return err
	}
	return nil
}

func modemStatusUnsupported(err error) bool {
	var portErr *serial.PortError
	if errors.As(err, &portErr) && portErr.Code() == serial.FunctionNotImplemented {
		return true
	}
	return errors.Is(err, syscall.ENOTTY) || errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOSYS)
}

// SetMode reapplies the line settings. The driver reads the current
// termios/DCB and only rewrites the fields in the mode.
func (p *nativePort) SetMode(baud int) error {
	return p.Port.SetMode(lineMode(baud))
}

func describePortError(err error) error {
	var portErr *serial.PortError
	if !errors.As(err, &portErr) {
		return err
	}
	switch portErr.Code() {
	case serial.PortNotFound:
		return fmt.Errorf("no such device: %w", err)
	case serial.PortBusy:
		return fmt.Errorf("device is in use: %w", err)
	case serial.PermissionDenied:
		return fmt.Errorf("permission denied: %w", err)
	case serial.InvalidSpeed:
		return fmt.Errorf("baud rate rejected by driver: %w", err)
	default:
		return err
	}
}
