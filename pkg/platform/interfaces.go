// Package platform abstracts the hardware transports xginit drives:
// memory-mapped register windows, GPIO output lines, and byte-addressed
// I2C devices. The core packages depend only on these interfaces; the
// Linux implementation lives behind a build tag and tests substitute
// in-memory fakes.
package platform

// Platform provides access to all hardware transports.
type Platform interface {
	// MapRegisters maps a window of device registers, typically a UIO device.
	MapRegisters(path string, offset int64, length int) (RegisterRegion, error)
	// OpenLine opens one GPIO line on the given chip for exclusive use.
	OpenLine(chipPath string, line uint32) (Line, error)
	// OpenI2C opens an I2C bus adapter.
	OpenI2C(busPath string) (I2CDev, error)
}

// RegisterRegion is an exclusively-owned handle to a mapped window of device
// registers. Accesses are 32-bit, 4-byte aligned, and bounds-checked; the
// component that mapped the region is its only user.
type RegisterRegion interface {
	Read32(offset uint32) (uint32, error)
	Write32(offset uint32, value uint32) error
	Close() error
}

// Line is an exclusively-owned handle to one GPIO line. It must be requested
// as an output before its value can be driven.
type Line interface {
	// RequestOutput configures the line as an output with the given initial
	// value, registering consumer as the owner visible in gpioinfo.
	RequestOutput(consumer string, initial int) error
	// SetValue drives the line to 0 or 1.
	SetValue(value int) error
	Close() error
}

// I2CDev is a handle to an I2C bus adapter performing byte-offset-addressed
// transfers against a device address. Short transfers are errors, not
// partial results.
type I2CDev interface {
	Read(addr uint16, offset uint8, n int) ([]byte, error)
	Write(addr uint16, offset uint8, data []byte) error
	Close() error
}
