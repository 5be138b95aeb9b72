// pelcosend moves a Pelco-D camera to a stored preset.
//
//	pelcosend CAMERA_PRESET [/camera CAMERA_ID] [/baudrate BAUDRATE] [/comN]
package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"pelcosend/internal/cli"
	"pelcosend/internal/pelco"
	"pelcosend/internal/transport"
)

func main() {
	prog := filepath.Base(os.Args[0])
	logger := log.New(os.Stderr, prog+": ", 0)

	err := run(prog, os.Args[1:], logger, transport.Driver)
	os.Exit(exitCode(err))
}

type driverLookup func(name string) (transport.OpenFunc, error)

func run(prog string, args []string, logger *log.Logger, lookup driverLookup) error {
	opts, err := cli.Parse(args)
	if err != nil {
		if !errors.Is(err, cli.ErrUsage) {
			logger.Printf("%v", err)
		}
		if errors.Is(err, cli.ErrUsage) || errors.Is(err, cli.ErrInvalidPreset) {
			fmt.Fprint(logger.Writer(), cli.Usage(prog))
		}
		return err
	}

	if opts.List {
		return listPorts(logger)
	}

	open, err := lookup(opts.Driver)
	if err != nil {
		logger.Printf("%v", err)
		return err
	}

	cfg := opts.SerialConfig()
	packet := pelco.CallPreset(opts.Camera, opts.Preset)

	via := cfg.Device
	if opts.Device == "" {
		via = fmt.Sprintf("COM%d (%s)", opts.Port, cfg.Device)
	}
	logger.Printf("Set preset (%d) on camera (%d) via %s, baud rate (%d)",
		opts.Preset, opts.Camera, via, cfg.BaudRate)

	sender := transport.NewSender(open, logger)
	sender.Verbose = opts.Verbose

	res, err := sender.Send(cfg, packet)
	switch {
	case err == nil:
		logger.Printf("%s (%d bytes written to %s)", res.Packet, res.Written, res.Device)
	case errors.Is(err, transport.ErrShortWrite):
		logger.Printf("Error sending packet. %d bytes written to %s", res.Written, res.Device)
	default:
		logger.Printf("%v", err)
	}
	return err
}

func listPorts(logger *log.Logger) error {
	ports, err := transport.ListPorts()
	if err != nil {
		logger.Printf("%v", err)
		return err
	}
	if len(ports) == 0 {
		logger.Printf("No serial ports found")
		return nil
	}
	for _, p := range ports {
		logger.Printf("%s", p)
	}
	return nil
}

// exitCode maps a run error to the process status. A short write still
// counts as a completed attempt.
func exitCode(err error) int {
	if err == nil || errors.Is(err, transport.ErrShortWrite) {
		return 0
	}
	return 1
}
