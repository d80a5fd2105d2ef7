package gbe

import (
	"fmt"
	"time"

	"xginit/internal/xginit/mac"
	"xginit/internal/xginit/mdio"
	"xginit/pkg/errors"
	"xginit/pkg/logger"
	"xginit/pkg/platform"
)

const lineConsumer = "xginit"

// PhyWriter is the slice of the MDIO engine the initializer needs to
// configure the PHY while the core is held in reset.
type PhyWriter interface {
	Write(port, device uint8, register, value uint16) error
	Read(port, device uint8, register uint16) (uint16, error)
}

// Config tunes the bring-up sequence.
type Config struct {
	// CommitSettle is slept after the MAC words land and again before a
	// rollback, giving the core time to latch.
	CommitSettle time.Duration
	// ValidMacPrefix is the address policy forwarded to mac.Validate.
	ValidMacPrefix string
	// PhyReadback reads back every PHY register around its write and logs
	// the values. Purely diagnostic; it never changes control flow.
	PhyReadback bool
}

// Initializer drives the single-shot 10GbE core bring-up: assert reset,
// configure the PHY, program and latch the user MAC, release reset, verify
// the running MAC. On verification mismatch the core is put back into reset
// rather than left running with a wrong address.
//
// An Initializer is good for one Run; the state machine never goes
// backwards except for the rollback transition.
type Initializer struct {
	regs   platform.RegisterRegion
	reset  *ResetSequencer
	phy    PhyWriter
	cfg    Config
	state  State
	logger *logger.Logger
}

// NewInitializer assembles an initializer over a mapped core region. phy
// may be nil when no PHY operations will be run.
func NewInitializer(regs platform.RegisterRegion, reset *ResetSequencer, phy PhyWriter, cfg Config) *Initializer {
	return &Initializer{
		regs:   regs,
		reset:  reset,
		phy:    phy,
		cfg:    cfg,
		state:  StateIdle,
		logger: logger.WithField("component", "gbe-init"),
	}
}

// State reports the state machine's current position.
func (in *Initializer) State() State {
	return in.state
}

// Run executes the full bring-up with the given MAC address and PHY
// operations. Any error before reset release leaves the core in reset; a
// verification mismatch rolls it back into reset and returns a consistency
// error carrying the intended and observed addresses.
func (in *Initializer) Run(addr mac.Addr, ops []mdio.Operation) error {
	if in.state != StateIdle {
		return fmt.Errorf("initializer already ran (state %s)", in.state)
	}

	if err := in.reset.Acquire(lineConsumer); err != nil {
		return fmt.Errorf("asserting 10GbE core reset: %w", err)
	}
	in.state = StateResetAsserted
	in.logger.Info("10GbE core held in reset")

	if err := in.configurePhy(ops); err != nil {
		in.logger.Error("PHY configuration failed, leaving 10GbE core in reset", "error", err)
		return err
	}
	in.state = StatePhyConfigured

	if !mac.Validate(in.cfg.ValidMacPrefix, addr, true) {
		in.logger.Error("refusing to program invalid MAC address, leaving 10GbE core in reset",
			"mac", addr.String())
		return errors.NewValidationError(addr.String(), "rejected by address policy")
	}

	if err := in.programMAC(addr); err != nil {
		in.logger.Error("MAC programming failed, leaving 10GbE core in reset", "error", err)
		return err
	}
	in.state = StateMacProgrammed

	if err := in.reset.Release(); err != nil {
		return fmt.Errorf("releasing 10GbE core reset: %w", err)
	}
	in.state = StateVerifying

	return in.verify(addr)
}

// configurePhy pushes the PHY register writes while the core is in reset.
func (in *Initializer) configurePhy(ops []mdio.Operation) error {
	if len(ops) == 0 {
		return nil
	}
	if in.phy == nil {
		return fmt.Errorf("PHY operations configured but no MDIO engine available")
	}

	for _, op := range ops {
		if in.cfg.PhyReadback {
			in.readbackPhy("before write", op)
		}
		in.logger.Info("writing PHY register",
			"port", op.Port, "device", op.Device,
			"register", fmt.Sprintf("%#04x", op.Register),
			"value", fmt.Sprintf("%#04x", op.Value))
		if err := in.phy.Write(op.Port, op.Device, op.Register, op.Value); err != nil {
			return err
		}
		if in.cfg.PhyReadback {
			in.readbackPhy("after write", op)
		}
	}
	return nil
}

// readbackPhy logs the current value of an operation's target register.
// Failures are logged and swallowed; diagnostics never abort the sequence.
func (in *Initializer) readbackPhy(stage string, op mdio.Operation) {
	value, err := in.phy.Read(op.Port, op.Device, op.Register)
	if err != nil {
		in.logger.Warn("PHY readback failed", "stage", stage,
			"port", op.Port, "device", op.Device,
			"register", fmt.Sprintf("%#04x", op.Register), "error", err)
		return
	}
	in.logger.Info("PHY readback", "stage", stage,
		"port", op.Port, "device", op.Device,
		"register", fmt.Sprintf("%#04x", op.Register),
		"value", fmt.Sprintf("%#04x", value))
}

// programMAC writes the user MAC words and latches them with the config
// strobe. The settle between the words and the strobe is required for the
// core to pick both words up.
func (in *Initializer) programMAC(addr mac.Addr) error {
	high, low := packMACWords(addr)
	in.logger.Info("programming user MAC address", "mac", addr.String(),
		"high", fmt.Sprintf("%#08x", high), "low", fmt.Sprintf("%#08x", low))

	if err := in.regs.Write32(regUsrMacHigh, high); err != nil {
		return fmt.Errorf("writing user MAC high word: %w", err)
	}
	if err := in.regs.Write32(regUsrMacLow, low); err != nil {
		return fmt.Errorf("writing user MAC low word: %w", err)
	}
	time.Sleep(in.cfg.CommitSettle)

	if err := in.regs.Write32(regUsrMacCfg, 1); err != nil {
		return fmt.Errorf("latching user MAC: %w", err)
	}
	return nil
}

// verify reads the MAC the core is actually running with and compares it
// against the intended one. On mismatch the core is driven back into reset;
// a running core with the wrong address is worse than no core at all.
func (in *Initializer) verify(intended mac.Addr) error {
	wantHigh, wantLow := packMACWords(intended)

	gotHigh, err := in.regs.Read32(regSysMacHigh)
	if err != nil {
		return in.rollback(intended, fmt.Errorf("reading system MAC high word: %w", err))
	}
	gotLow, err := in.regs.Read32(regSysMacLow)
	if err != nil {
		return in.rollback(intended, fmt.Errorf("reading system MAC low word: %w", err))
	}

	if gotHigh == wantHigh && gotLow&sysMacLowMask == wantLow&sysMacLowMask {
		in.state = StateReleased
		in.logger.Info("10GbE core initialized", "mac", intended.String())
		return nil
	}

	observed := unpackMACWords(gotHigh, gotLow)
	in.logger.Error("system MAC does not match programmed MAC",
		"intended", intended.String(), "observed", observed.String())
	return in.rollback(intended,
		errors.NewConsistencyError("10GbE core MAC", intended.String(), observed.String()))
}

// rollback re-asserts reset after a failed verification, best effort: if
// even the reset line fails there is nothing left to do but report it.
func (in *Initializer) rollback(intended mac.Addr, cause error) error {
	time.Sleep(in.cfg.CommitSettle)
	if err := in.reset.Assert(); err != nil {
		in.logger.Error("unable to re-assert 10GbE core reset after failed verification",
			"error", err)
	}
	in.state = StateRolledBack
	in.logger.Warn("10GbE core rolled back into reset", "intended", intended.String())
	return cause
}
