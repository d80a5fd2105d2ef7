//go:build linux

package platform

import (
	"fmt"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"

	"xginit/pkg/errors"
)

type linuxPlatform struct{}

// MapRegisters maps length bytes of the device at path starting at offset.
// For UIO devices the offset selects the mapping index times the page size;
// the boards xginit runs on expose a single window at offset 0.
func (p *linuxPlatform) MapRegisters(path string, offset int64, length int) (RegisterRegion, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_SYNC|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, errors.WrapResourceError(path, "open", err)
	}

	mem, err := unix.Mmap(fd, offset, length, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	// The mapping keeps its own reference; the descriptor is no longer needed.
	_ = unix.Close(fd)
	if err != nil {
		return nil, errors.WrapResourceError(path, "mmap", err)
	}

	return &mmioRegion{mem: mem, path: path}, nil
}

// mmioRegion accesses a mapped register window with single 32-bit loads and
// stores. Going through sync/atomic guarantees the compiler never splits or
// widens an access, which device registers do not tolerate.
type mmioRegion struct {
	mem  []byte
	path string
}

func (r *mmioRegion) checkOffset(offset uint32, op string) error {
	if r.mem == nil {
		return errors.WrapTransportError(r.path, op, fmt.Errorf("region is closed"))
	}
	if offset%4 != 0 {
		return errors.WrapTransportError(r.path, op, fmt.Errorf("offset %#x is not 32-bit aligned", offset))
	}
	if int(offset)+4 > len(r.mem) {
		return errors.WrapTransportError(r.path, op, fmt.Errorf("offset %#x outside %#x-byte window", offset, len(r.mem)))
	}
	return nil
}

func (r *mmioRegion) Read32(offset uint32) (uint32, error) {
	if err := r.checkOffset(offset, "read32"); err != nil {
		return 0, err
	}
	return atomic.LoadUint32((*uint32)(unsafe.Pointer(&r.mem[offset]))), nil
}

func (r *mmioRegion) Write32(offset uint32, value uint32) error {
	if err := r.checkOffset(offset, "write32"); err != nil {
		return err
	}
	atomic.StoreUint32((*uint32)(unsafe.Pointer(&r.mem[offset])), value)
	return nil
}

func (r *mmioRegion) Close() error {
	if r.mem == nil {
		return nil
	}
	err := unix.Munmap(r.mem)
	r.mem = nil
	if err != nil {
		return errors.WrapResourceError(r.path, "munmap", err)
	}
	return nil
}
