// Package mac provides the 6-octet hardware address type and the formatting,
// parsing, and policy-validation rules shared by the EEPROM store and the
// core initializer.
package mac

import (
	"fmt"

	"xginit/pkg/errors"
)

// AddrLen is the length of an Ethernet hardware address in octets.
const AddrLen = 6

// formattedLen is the length of a formatted address: six two-digit octets
// plus five separators.
const formattedLen = 17

// Addr is a 6-octet hardware address in big-endian network order.
// Any 6 bytes are representable; semantic validity is a separate policy
// check (Validate).
type Addr [AddrLen]byte

// Format renders the address as six lowercase hex octets joined by colons,
// e.g. "aa:bb:cc:dd:ee:ff". The length check mirrors the write path's
// paranoia about programming a garbled address into hardware; with
// fixed-width formatting it should be unreachable.
func Format(a Addr) (string, error) {
	s := fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x", a[0], a[1], a[2], a[3], a[4], a[5])
	if len(s) != formattedLen {
		return "", fmt.Errorf("unable to format MAC address: got %d characters", len(s))
	}
	return s, nil
}

// String implements fmt.Stringer for log output.
func (a Addr) String() string {
	s, err := Format(a)
	if err != nil {
		return "<unformattable>"
	}
	return s
}

// Parse accepts the same colon-separated hex-octet layout Format produces.
// Fewer than 6 octet groups is an error; text beyond the sixth octet is
// ignored.
func Parse(text string) (Addr, error) {
	var a Addr
	n, err := fmt.Sscanf(text, "%x:%x:%x:%x:%x:%x", &a[0], &a[1], &a[2], &a[3], &a[4], &a[5])
	if n < AddrLen {
		if err == nil {
			err = fmt.Errorf("expected %d octets, got %d", AddrLen, n)
		}
		return Addr{}, errors.NewParseError(text, err)
	}
	return a, nil
}
