//go:build !windows

package transport

import "fmt"

// DeviceName returns the device path for a numbered serial port
func DeviceName(port int) string {
	return fmt.Sprintf("/dev/ttyS%d", port)
}
