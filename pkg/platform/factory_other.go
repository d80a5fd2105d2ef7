//go:build !linux

package platform

import "fmt"

// NewPlatform on non-Linux systems returns a platform whose every operation
// fails. It exists so the tool cross-compiles for development; the hardware
// transports are Linux-only.
func NewPlatform() Platform {
	return unsupportedPlatform{}
}

type unsupportedPlatform struct{}

func (unsupportedPlatform) MapRegisters(path string, offset int64, length int) (RegisterRegion, error) {
	return nil, fmt.Errorf("register mapping is only supported on linux")
}

func (unsupportedPlatform) OpenLine(chipPath string, line uint32) (Line, error) {
	return nil, fmt.Errorf("GPIO lines are only supported on linux")
}

func (unsupportedPlatform) OpenI2C(busPath string) (I2CDev, error) {
	return nil, fmt.Errorf("I2C devices are only supported on linux")
}
