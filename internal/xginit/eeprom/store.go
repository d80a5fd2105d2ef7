// Package eeprom reads and writes the board's authoritative MAC address,
// kept at a fixed byte offset inside a small I2C EEPROM.
package eeprom

import (
	"xginit/internal/xginit/mac"
	"xginit/pkg/logger"
	"xginit/pkg/platform"
)

// Store accesses the 6-byte MAC address record of one EEPROM device.
// It performs single length-checked transfers; persistence verification
// (write, settle, re-read) is the caller's contract, the store does not
// auto-verify.
type Store struct {
	dev    platform.I2CDev
	addr   uint16
	offset uint8
	logger *logger.Logger
}

// New creates a store for the EEPROM at the given device address and byte
// offset on an open I2C bus. The caller retains ownership of the bus handle.
func New(dev platform.I2CDev, addr uint16, offset uint8) *Store {
	return &Store{
		dev:    dev,
		addr:   addr,
		offset: offset,
		logger: logger.WithField("component", "eeprom"),
	}
}

// Read fetches the stored MAC address. A short read is an error, not a
// partial result.
func (s *Store) Read() (mac.Addr, error) {
	buf, err := s.dev.Read(s.addr, s.offset, mac.AddrLen)
	if err != nil {
		return mac.Addr{}, err
	}

	var a mac.Addr
	copy(a[:], buf)

	s.logger.Debug("read stored MAC address", "mac", a, "device", s.addr, "offset", s.offset)
	return a, nil
}

// Write stores a MAC address. The EEPROM needs its internal write cycle to
// complete before the value can be trusted; callers must settle and re-read
// to confirm persistence.
func (s *Store) Write(a mac.Addr) error {
	if err := s.dev.Write(s.addr, s.offset, a[:]); err != nil {
		return err
	}

	s.logger.Debug("wrote MAC address", "mac", a, "device", s.addr, "offset", s.offset)
	return nil
}
