// Package cli parses the pelcosend command line.
//
// Options follow the DOS style of the original tool (/camera 2 /com5),
// and the - prefix is accepted as well.
package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"pelcosend/internal/transport"
)

const (
	DefaultBaudRate = 2400
	DefaultPort     = 3
	DefaultCamera   = 1

	maxByteValue = 255
)

var (
	// ErrArgument is wrapped by every parse error
	ErrArgument = errors.New("invalid argument")
	// ErrUsage means no arguments were given
	ErrUsage = fmt.Errorf("%w: missing preset", ErrArgument)
	// ErrInvalidPreset means the first argument is not a preset in 1-255
	ErrInvalidPreset = fmt.Errorf("%w: invalid preset specified", ErrArgument)
)

// Options is a validated command line
type Options struct {
	Preset   int
	Camera   int
	BaudRate int
	Port     int
	Device   string // overrides Port when set
	Driver   string
	List     bool
	Verbose  bool
}

// DeviceName returns the explicit device, or the path derived from Port
func (o Options) DeviceName() string {
	if o.Device != "" {
		return o.Device
	}
	return transport.DeviceName(o.Port)
}

// SerialConfig builds the transport settings for these options
func (o Options) SerialConfig() transport.Config {
	return transport.Config{
		Device:   o.DeviceName(),
		BaudRate: o.BaudRate,
		Timeouts: transport.DefaultTimeouts(),
	}
}

func argError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrArgument, fmt.Sprintf(format, args...))
}

// Parse reads args, which exclude the program name. The first argument
// must be the preset unless it is /list.
func Parse(args []string) (Options, error) {
	opts := Options{
		Camera:   DefaultCamera,
		BaudRate: DefaultBaudRate,
		Port:     DefaultPort,
		Driver:   transport.DefaultDriver,
	}
	if len(args) == 0 {
		return opts, ErrUsage
	}

	argn := 0
	if name, ok := option(args[0]); ok && name == "list" {
		opts.List = true
		argn++
	} else {
		preset, err := byteValue(args[0])
		if err != nil {
			return opts, fmt.Errorf("%w %q", ErrInvalidPreset, args[0])
		}
		opts.Preset = preset
		argn++
	}

	next := func(what string) (string, error) {
		argn++
		if argn >= len(args) {
			return "", argError("%s requires a value", what)
		}
		return args[argn], nil
	}

	for ; argn < len(args); argn++ {
		name, ok := option(args[argn])
		if !ok {
			return opts, argError("unexpected argument %q", args[argn])
		}

		switch {
		case strings.HasPrefix(name, "baud"):
			v, err := next("baud rate")
			if err != nil {
				return opts, err
			}
			baud, err := strconv.Atoi(v)
			if err != nil || baud <= 0 {
				return opts, argError("baud rate error %q", v)
			}
			opts.BaudRate = baud

		case strings.HasPrefix(name, "com"):
			suffix := strings.TrimPrefix(name, "com")
			if suffix == "" {
				return opts, argError("com port number error")
			}
			port, err := strconv.Atoi(suffix)
			if err != nil || port < 0 {
				return opts, argError("com port number error %q", suffix)
			}
			opts.Port = port

		case name == "camera":
			v, err := next("camera")
			if err != nil {
				return opts, err
			}
			camera, err := byteValue(v)
			if err != nil {
				return opts, argError("camera_id error %q", v)
			}
			opts.Camera = camera

		case name == "device":
			v, err := next("device")
			if err != nil {
				return opts, err
			}
			opts.Device = v

		case name == "driver":
			v, err := next("driver")
			if err != nil {
				return opts, err
			}
			if _, err := transport.Driver(v); err != nil {
				return opts, argError("%v", err)
			}
			opts.Driver = v

		case name == "list":
			opts.List = true

		case name == "v" || name == "verbose":
			opts.Verbose = true

		default:
			return opts, argError("unknown option %q", args[argn])
		}
	}

	return opts, nil
}

// option strips a leading / or - and lowercases the rest
func option(arg string) (string, bool) {
	if len(arg) < 2 || (arg[0] != '/' && arg[0] != '-') {
		return "", false
	}
	return strings.ToLower(strings.TrimLeft(arg, "/-")), true
}

// byteValue parses an integer in the range 1-255
func byteValue(s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if v < 1 || v > maxByteValue {
		return 0, fmt.Errorf("%d out of range 1-%d", v, maxByteValue)
	}
	return v, nil
}

// Usage returns the help text for prog
func Usage(prog string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Usage:\n\t%s CAMERA_PRESET [/camera CAMERA_ID] [/baudrate BAUDRATE] [/comN] [/device PATH] [/driver %s] [/v]\n", prog, strings.Join(transport.DriverNames(), "|"))
	fmt.Fprintf(&b, "\t%s /list\n\n", prog)
	fmt.Fprintf(&b, "Example:\n\t%s 1 /camera 2 /com%d\n\n", prog, DefaultPort)
	fmt.Fprintf(&b, "Defaults: camera %d, baud rate %d, COM%d (%s)\n", DefaultCamera, DefaultBaudRate, DefaultPort, transport.DeviceName(DefaultPort))
	return b.String()
}
