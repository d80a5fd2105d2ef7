//go:build linux

package platform

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"

	"xginit/pkg/errors"
)

// GPIO v2 character device uAPI (linux/gpio.h). x/sys/unix does not wrap
// these, so the request structures and ioctl numbers are declared here.
// Layouts must match the kernel exactly.

const (
	gpioIoctlType       = 0xb4
	gpioGetLineNr       = 0x07
	gpioLineSetValuesNr = 0x0f

	gpioV2LineFlagOutput = 1 << 3

	gpioV2LineAttrIDOutputValues = 2

	gpioMaxNameSize = 32
)

type gpioV2LineAttribute struct {
	id      uint32
	padding uint32
	value   uint64
}

type gpioV2LineConfigAttribute struct {
	attr gpioV2LineAttribute
	mask uint64
}

type gpioV2LineConfig struct {
	flags    uint64
	numAttrs uint32
	padding  [5]uint32
	attrs    [10]gpioV2LineConfigAttribute
}

type gpioV2LineRequest struct {
	offsets         [64]uint32
	consumer        [gpioMaxNameSize]byte
	config          gpioV2LineConfig
	numLines        uint32
	eventBufferSize uint32
	padding         [5]uint32
	fd              int32
}

type gpioV2LineValues struct {
	bits uint64
	mask uint64
}

func iowr(nr, size uintptr) uintptr {
	return 3<<30 | size<<16 | gpioIoctlType<<8 | nr
}

func ioctl(fd int, req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

func (p *linuxPlatform) OpenLine(chipPath string, line uint32) (Line, error) {
	// The chip is only needed to issue the line request, which is deferred
	// to RequestOutput. Probe it here so acquisition errors surface before
	// any hardware is touched.
	fd, err := unix.Open(chipPath, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, errors.WrapResourceError(chipPath, "open", err)
	}
	_ = unix.Close(fd)

	return &gpioLine{chipPath: chipPath, line: line, fd: -1}, nil
}

type gpioLine struct {
	chipPath string
	line     uint32
	fd       int // line handle fd, -1 until requested
}

func (l *gpioLine) RequestOutput(consumer string, initial int) error {
	chipFd, err := unix.Open(l.chipPath, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return errors.WrapResourceError(l.chipPath, "open", err)
	}
	defer unix.Close(chipFd)

	var req gpioV2LineRequest
	req.offsets[0] = l.line
	req.numLines = 1
	copy(req.consumer[:gpioMaxNameSize-1], consumer)
	req.config.flags = gpioV2LineFlagOutput
	req.config.numAttrs = 1
	req.config.attrs[0].attr.id = gpioV2LineAttrIDOutputValues
	if initial != 0 {
		req.config.attrs[0].attr.value = 1
	}
	req.config.attrs[0].mask = 1

	getLineIoctl := iowr(gpioGetLineNr, unsafe.Sizeof(req))
	if err := ioctl(chipFd, getLineIoctl, unsafe.Pointer(&req)); err != nil {
		return errors.WrapResourceError(l.chipPath, "request-output", fmt.Errorf("line %d: %w", l.line, err))
	}

	l.fd = int(req.fd)
	return nil
}

func (l *gpioLine) SetValue(value int) error {
	if l.fd < 0 {
		return errors.WrapTransportError(l.chipPath, "set-value", fmt.Errorf("line %d not requested as output", l.line))
	}

	values := gpioV2LineValues{mask: 1}
	if value != 0 {
		values.bits = 1
	}

	setValuesIoctl := iowr(gpioLineSetValuesNr, unsafe.Sizeof(values))
	if err := ioctl(l.fd, setValuesIoctl, unsafe.Pointer(&values)); err != nil {
		return errors.WrapTransportError(l.chipPath, "set-value", fmt.Errorf("line %d: %w", l.line, err))
	}
	return nil
}

func (l *gpioLine) Close() error {
	if l.fd < 0 {
		return nil
	}
	err := unix.Close(l.fd)
	l.fd = -1
	return err
}
