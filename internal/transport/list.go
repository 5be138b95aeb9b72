package transport

import (
	"fmt"

	"go.bug.st/serial/enumerator"
)

// PortInfo describes a serial port found on the system
type PortInfo struct {
	Name         string
	USB          bool
	VID, PID     string
	SerialNumber string
}

func (p PortInfo) String() string {
	if !p.USB {
		return p.Name
	}
	s := fmt.Sprintf("%s (USB VID=%s PID=%s", p.Name, p.VID, p.PID)
	if p.SerialNumber != "" {
		s += " serial=" + p.SerialNumber
	}
	return s + ")"
}

// ListPorts returns the serial ports present on the system
func ListPorts() ([]PortInfo, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}

	ports := make([]PortInfo, 0, len(details))
	for _, d := range details {
		ports = append(ports, PortInfo{
			Name:         d.Name,
			USB:          d.IsUSB,
			VID:          d.VID,
			PID:          d.PID,
			SerialNumber: d.SerialNumber,
		})
	}
	return ports, nil
}
