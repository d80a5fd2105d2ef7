package mdio

import (
	"time"

	"xginit/pkg/errors"
	"xginit/pkg/logger"
	"xginit/pkg/platform"
)

// Config holds the engine's poll tuning. The defaults are empirically tuned
// to the peripheral (see pkg/config) and bound the worst-case blocking time
// per phase to PollLimit * PollInterval.
type Config struct {
	// PollInterval is the sleep between busy-bit polls, and the settle
	// between the address-phase setup writes.
	PollInterval time.Duration
	// PollLimit is the maximum number of busy-bit polls per phase.
	PollLimit int
}

// Engine performs PHY register reads and writes through the memory-mapped
// MDIO peripheral. It owns the peripheral's register region exclusively.
//
// A failed transaction leaves the peripheral and the targeted PHY register
// in an unspecified state; the engine never retries, callers decide whether
// to retry whole operations.
type Engine struct {
	regs   platform.RegisterRegion
	cfg    Config
	logger *logger.Logger
}

// New creates an engine over a mapped MDIO peripheral region.
func New(regs platform.RegisterRegion, cfg Config) *Engine {
	if cfg.PollLimit < 1 {
		cfg.PollLimit = 1
	}
	return &Engine{
		regs:   regs,
		cfg:    cfg,
		logger: logger.WithField("component", "mdio"),
	}
}

// Write writes value to a physical register in a PHY device over MDIO.
// The operation happens over two serial transactions: the first transfers
// the register address, the second transfers the write data.
func (e *Engine) Write(port, device uint8, register, value uint16) error {
	if err := e.setAddress(port, device, register); err != nil {
		return errors.WrapProtocolError("write", port, device, register, err)
	}

	e.logger.Debug("writing PHY register",
		"port", port, "device", device, "register", register, "value", value)

	if err := e.regs.Write32(regAddress1, packAddress1(opWrite, port, device)); err != nil {
		return errors.WrapProtocolError("write", port, device, register, err)
	}
	if err := e.regs.Write32(regWriteBuf, uint32(value)); err != nil {
		return errors.WrapProtocolError("write", port, device, register, err)
	}
	if err := e.start(); err != nil {
		return errors.WrapProtocolError("write", port, device, register, err)
	}
	if err := e.waitNotBusy(); err != nil {
		return errors.WrapProtocolError("write", port, device, register, err)
	}

	return nil
}

// Read reads a physical register in a PHY device over MDIO. After the read
// transaction completes the result is fetched from the peripheral's read
// buffer.
func (e *Engine) Read(port, device uint8, register uint16) (uint16, error) {
	if err := e.setAddress(port, device, register); err != nil {
		return 0, errors.WrapProtocolError("read", port, device, register, err)
	}

	e.logger.Debug("reading PHY register",
		"port", port, "device", device, "register", register)

	if err := e.regs.Write32(regAddress1, packAddress1(opRead, port, device)); err != nil {
		return 0, errors.WrapProtocolError("read", port, device, register, err)
	}
	if err := e.start(); err != nil {
		return 0, errors.WrapProtocolError("read", port, device, register, err)
	}
	if err := e.waitNotBusy(); err != nil {
		return 0, errors.WrapProtocolError("read", port, device, register, err)
	}

	result, err := e.regs.Read32(regReadBuf)
	if err != nil {
		return 0, errors.WrapProtocolError("read", port, device, register, err)
	}

	return uint16(result), nil
}

// setAddress runs the address phase: latch the target register address into
// the PHY before the data phase moves the value. The settle sleeps between
// setup writes match the peripheral's tested timing.
func (e *Engine) setAddress(port, device uint8, register uint16) error {
	if err := e.regs.Write32(regAddress1, packAddress1(opSetAddress, port, device)); err != nil {
		return err
	}
	time.Sleep(e.cfg.PollInterval)

	if err := e.regs.Write32(regAddress2, uint32(register)); err != nil {
		return err
	}
	time.Sleep(e.cfg.PollInterval)

	if err := e.start(); err != nil {
		return err
	}
	time.Sleep(e.cfg.PollInterval)

	return e.waitNotBusy()
}

// start kicks off the transaction described by the address registers.
func (e *Engine) start() error {
	return e.regs.Write32(regCtrl, ctrlEnable|ctrlReqBusy)
}

// waitNotBusy polls the control register until the request/busy bit clears.
// Exhausting the poll budget is a timeout error; the transaction state is
// then unspecified.
func (e *Engine) waitNotBusy() error {
	for i := 0; i < e.cfg.PollLimit; i++ {
		ctrl, err := e.regs.Read32(regCtrl)
		if err != nil {
			return err
		}
		if ctrl&ctrlReqBusy == 0 {
			return nil
		}
		time.Sleep(e.cfg.PollInterval)
	}
	return errors.ErrPollTimeout
}
