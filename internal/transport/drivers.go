package transport

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultDriver is used when no driver is named
const DefaultDriver = "native"

var drivers = map[string]OpenFunc{
	"native": OpenNative,
	"tarm":   OpenTarm,
}

// Driver looks up an open function by name
func Driver(name string) (OpenFunc, error) {
	open, ok := drivers[name]
	if !ok {
		return nil, fmt.Errorf("unknown driver %q (available: %s)", name, strings.Join(DriverNames(), ", "))
	}
	return open, nil
}

// DriverNames returns the registered driver names in order
func DriverNames() []string {
	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
