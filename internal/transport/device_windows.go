package transport

import "fmt"

// DeviceName returns the device path for a numbered serial port. The
// \\.\ prefix is required for COM10 and above.
func DeviceName(port int) string {
	return fmt.Sprintf(`\\.\COM%d`, port)
}
