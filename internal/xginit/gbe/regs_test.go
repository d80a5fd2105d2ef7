package gbe

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"xginit/internal/xginit/mac"
)

func TestPackMACWords(t *testing.T) {
	tests := []struct {
		name string
		addr mac.Addr
		high uint32
		low  uint32
	}{
		{"zero", mac.Addr{}, 0, 0},
		{"sequential", mac.Addr{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff}, 0xaabbccdd, 0x0000eeff},
		{"low octets only", mac.Addr{0, 0, 0, 0, 0x12, 0x34}, 0, 0x00001234},
		{"high octets only", mac.Addr{0x01, 0x02, 0x03, 0x04, 0, 0}, 0x01020304, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			high, low := packMACWords(tt.addr)
			assert.Equal(t, tt.high, high)
			assert.Equal(t, tt.low, low)
		})
	}
}

func TestUnpackMACWords(t *testing.T) {
	addr := unpackMACWords(0xaabbccdd, 0x0000eeff)
	assert.Equal(t, mac.Addr{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff}, addr)
}

func TestUnpackIgnoresUpperLowWord(t *testing.T) {
	// The core reports junk in the upper half of the low word; it is not
	// part of the address.
	addr := unpackMACWords(0x010203fe, 0xdead1234)
	assert.Equal(t, mac.Addr{0x01, 0x02, 0x03, 0xfe, 0x12, 0x34}, addr)
}

func TestPackUnpackRoundTrip(t *testing.T) {
	addrs := []mac.Addr{
		{0x00, 0x11, 0x22, 0x33, 0x44, 0x55},
		{0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
		{0x02, 0x00, 0x00, 0x00, 0x00, 0x01},
	}
	for _, a := range addrs {
		assert.Equal(t, a, unpackMACWords(packMACWords(a)))
	}
}
