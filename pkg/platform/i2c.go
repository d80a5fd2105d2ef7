//go:build linux

package platform

import (
	"fmt"

	"golang.org/x/sys/unix"

	"xginit/pkg/errors"
)

func (p *linuxPlatform) OpenI2C(busPath string) (I2CDev, error) {
	fd, err := unix.Open(busPath, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, errors.WrapResourceError(busPath, "open", err)
	}
	return &i2cDev{fd: fd, path: busPath}, nil
}

type i2cDev struct {
	fd   int
	path string
}

// i2cSlave is the I2C_SLAVE ioctl from <linux/i2c-dev.h>; x/sys/unix does
// not export the i2c-dev constants.
const i2cSlave = 0x0703

func (d *i2cDev) setSlave(addr uint16) error {
	return unix.IoctlSetInt(d.fd, i2cSlave, int(addr))
}

// Read performs an offset-addressed read: a one-byte write selecting the
// device's internal byte offset, then an n-byte read. A short read is an
// error, never a partial result.
func (d *i2cDev) Read(addr uint16, offset uint8, n int) ([]byte, error) {
	if err := d.setSlave(addr); err != nil {
		return nil, errors.WrapTransportError(d.path, "set-slave", err)
	}

	if _, err := unix.Write(d.fd, []byte{offset}); err != nil {
		return nil, errors.WrapTransportError(d.path, "write-offset", err)
	}

	buf := make([]byte, n)
	got, err := unix.Read(d.fd, buf)
	if err != nil {
		return nil, errors.WrapTransportError(d.path, "read", err)
	}
	if got != n {
		return nil, errors.WrapTransportError(d.path, "read",
			fmt.Errorf("%w: got %d of %d bytes", errors.ErrShortTransfer, got, n))
	}
	return buf, nil
}

// Write performs an offset-addressed write: the offset byte and payload go
// out in a single transfer so the device sees one contiguous page write.
func (d *i2cDev) Write(addr uint16, offset uint8, data []byte) error {
	if err := d.setSlave(addr); err != nil {
		return errors.WrapTransportError(d.path, "set-slave", err)
	}

	msg := make([]byte, 0, len(data)+1)
	msg = append(msg, offset)
	msg = append(msg, data...)

	wrote, err := unix.Write(d.fd, msg)
	if err != nil {
		return errors.WrapTransportError(d.path, "write", err)
	}
	if wrote != len(msg) {
		return errors.WrapTransportError(d.path, "write",
			fmt.Errorf("%w: wrote %d of %d bytes", errors.ErrShortTransfer, wrote, len(msg)))
	}
	return nil
}

func (d *i2cDev) Close() error {
	if d.fd < 0 {
		return nil
	}
	err := unix.Close(d.fd)
	d.fd = -1
	return err
}
