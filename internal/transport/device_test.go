//go:build !windows

package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeviceName(t *testing.T) {
	assert.Equal(t, "/dev/ttyS3", DeviceName(3))
	assert.Equal(t, "/dev/ttyS12", DeviceName(12))
}
