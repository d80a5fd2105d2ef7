//go:build linux

package platform

// NewPlatform creates the Linux platform implementation.
// xginit targets FPGA boards running Linux, so no OS detection is needed.
func NewPlatform() Platform {
	return &linuxPlatform{}
}
