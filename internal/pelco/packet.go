package pelco

import (
	"fmt"
	"strings"
)

const (
	// PacketLen is the fixed length of every Pelco-D packet
	PacketLen = 7

	syncByte   = 0xFF
	callPreset = 0x07 // command 2 for "go to preset"
)

// Packet is one Pelco-D frame:
//
//	[0] sync  [1] address  [2] cmd1  [3] cmd2  [4] data1  [5] data2  [6] checksum
type Packet [PacketLen]byte

// CallPreset builds the packet that moves camera address to the stored preset.
// Both values are truncated to a single byte, so 256 encodes as 0.
func CallPreset(address, preset int) Packet {
	var p Packet
	p[0] = syncByte
	p[1] = byte(address)
	p[2] = 0x00
	p[3] = callPreset
	p[4] = 0x00 // data1 is unused by call preset
	p[5] = byte(preset)
	p[6] = Checksum(p)
	return p
}

// Checksum returns the sum of bytes 1 through 5, modulo 256.
func Checksum(p Packet) byte {
	var sum byte
	for _, b := range p[1 : PacketLen-1] {
		sum += b // wraps at 256
	}
	return sum
}

// Valid reports whether p starts with the sync byte and carries a correct checksum.
func (p Packet) Valid() bool {
	return p[0] == syncByte && p[6] == Checksum(p)
}

// Address returns the camera address field
func (p Packet) Address() byte { return p[1] }

// Preset returns the data2 field, the preset number for call preset
func (p Packet) Preset() byte { return p[5] }

// Bytes returns the wire form of the packet
func (p Packet) Bytes() []byte {
	b := make([]byte, PacketLen)
	copy(b, p[:])
	return b
}

// String formats the packet as space separated hex, e.g. "FF 01 00 07 00 01 09".
func (p Packet) String() string {
	parts := make([]string, PacketLen)
	for i, b := range p {
		parts[i] = fmt.Sprintf("%02X", b)
	}
	return strings.Join(parts, " ")
}
