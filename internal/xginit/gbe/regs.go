// Package gbe owns the 10GbE core's register map and the reset-sequenced
// bring-up state machine that programs a MAC address into it.
package gbe

import "xginit/internal/xginit/mac"

// 10GbE core register offsets.
const (
	regUsrMacHigh = 0x00 // user MAC address, octets 0-3
	regUsrMacLow  = 0x04 // user MAC address, octets 4-5 in the low 16 bits
	regUsrIP      = 0x08
	regTest       = 0x0c
	regSysMacHigh = 0x10 // MAC the core is actually running with
	regSysMacLow  = 0x14
	regUsrMacCfg  = 0x18 // write 1 to latch the user MAC into the core
)

// Only the low 16 bits of the MAC-low words carry address octets; the upper
// half is not part of the MAC and is masked off before comparison.
const sysMacLowMask = 0x0000ffff

// packMACWords splits a MAC address into the two 32-bit register words,
// big-endian: octets 0-3 fill the high word from the top, octets 4-5 fill
// the low 16 bits of the low word.
func packMACWords(a mac.Addr) (high, low uint32) {
	high = uint32(a[0])<<24 | uint32(a[1])<<16 | uint32(a[2])<<8 | uint32(a[3])
	low = uint32(a[4])<<8 | uint32(a[5])
	return high, low
}

// unpackMACWords reconstructs the MAC address observed in a pair of register
// words, ignoring the non-address upper half of the low word.
func unpackMACWords(high, low uint32) mac.Addr {
	return mac.Addr{
		byte(high >> 24),
		byte(high >> 16),
		byte(high >> 8),
		byte(high),
		byte(low >> 8),
		byte(low),
	}
}
