// Package app wires configuration, the platform layer, and the domain
// packages into the three operations the CLI exposes: query, store, and
// init. Each operation acquires only the hardware handles it needs and
// releases them before returning.
package app

import (
	"fmt"
	"io"
	"os"
	"time"

	"xginit/internal/xginit/eeprom"
	"xginit/internal/xginit/gbe"
	"xginit/internal/xginit/mac"
	"xginit/internal/xginit/mdio"
	"xginit/pkg/config"
	"xginit/pkg/errors"
	"xginit/pkg/logger"
	"xginit/pkg/platform"
)

// App executes xginit operations against a platform.
type App struct {
	cfg      *config.Config
	platform platform.Platform
	out      io.Writer
	logger   *logger.Logger
}

// New creates an application over the given configuration and platform.
func New(cfg *config.Config, p platform.Platform) *App {
	return &App{
		cfg:      cfg,
		platform: p,
		out:      os.Stdout,
		logger:   logger.WithField("component", "app"),
	}
}

// SetOutput redirects the query output, used by tests.
func (a *App) SetOutput(w io.Writer) {
	a.out = w
}

func (a *App) openStore() (*eeprom.Store, io.Closer, error) {
	res := a.cfg.Resources
	dev, err := a.platform.OpenI2C(res.MacEepromBus)
	if err != nil {
		return nil, nil, errors.WrapResourceError(res.MacEepromBus, "open", err)
	}
	return eeprom.New(dev, res.MacEepromAddress, res.MacEepromOffset), dev, nil
}

// Query reads the MAC address out of the EEPROM and prints it. The address
// is printed even when it fails the policy; the policy failure is reported
// through the returned error so scripts can branch on the exit status.
func (a *App) Query() error {
	store, dev, err := a.openStore()
	if err != nil {
		return err
	}
	defer dev.Close()

	addr, err := store.Read()
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, addr.String())

	if !mac.Validate(a.cfg.Policy.ValidMacPrefix, addr, false) {
		return errors.NewValidationError(addr.String(), "rejected by address policy")
	}
	return nil
}

// Store validates a MAC address, writes it to the EEPROM, and reads it back
// to confirm the EEPROM actually took it. The readback happens after the
// device's write-cycle settle; reading earlier returns stale data.
func (a *App) Store(text string) error {
	addr, err := mac.Parse(text)
	if err != nil {
		return err
	}
	if !mac.Validate(a.cfg.Policy.ValidMacPrefix, addr, true) {
		return errors.NewValidationError(addr.String(), "rejected by address policy")
	}

	store, dev, err := a.openStore()
	if err != nil {
		return err
	}
	defer dev.Close()

	if err := store.Write(addr); err != nil {
		return err
	}
	time.Sleep(a.cfg.Timing.EepromSettle)

	readback, err := store.Read()
	if err != nil {
		return fmt.Errorf("reading back stored MAC: %w", err)
	}
	if readback != addr {
		return errors.NewConsistencyError("MAC EEPROM", addr.String(), readback.String())
	}

	a.logger.Info("MAC address stored", "mac", addr.String())
	return nil
}

// Initialize brings up the 10GbE core with the MAC address stored in the
// EEPROM. The address is checked against the policy before any hardware is
// touched; an invalid stored address aborts with the core untouched.
func (a *App) Initialize() error {
	store, dev, err := a.openStore()
	if err != nil {
		return err
	}
	addr, err := store.Read()
	dev.Close()
	if err != nil {
		return err
	}

	// Pre-check before any hardware is touched. The bring-up run validates
	// again and owns the empty-prefix warning, so it is suppressed here.
	if !mac.Validate(a.cfg.Policy.ValidMacPrefix, addr, false) {
		return errors.NewValidationError(addr.String(), "rejected by address policy")
	}

	res := a.cfg.Resources
	timing := a.cfg.Timing

	core, err := a.platform.MapRegisters(res.GbeUio, 0, res.MapLength)
	if err != nil {
		return errors.WrapResourceError(res.GbeUio, "map", err)
	}
	defer core.Close()

	ops := mdio.ParseOperations(a.cfg.Policy.MdioRegWrites)
	var phy gbe.PhyWriter
	if len(ops) > 0 {
		mdioRegs, err := a.platform.MapRegisters(res.MdioUio, 0, res.MapLength)
		if err != nil {
			return errors.WrapResourceError(res.MdioUio, "map", err)
		}
		defer mdioRegs.Close()
		phy = mdio.New(mdioRegs, mdio.Config{
			PollInterval: timing.MdioPollInterval,
			PollLimit:    timing.MdioPollLimit,
		})
	}

	line, err := a.platform.OpenLine(res.ResetGpioChip, res.ResetGpioLine)
	if err != nil {
		return errors.WrapResourceError(res.ResetGpioChip, "open line", err)
	}
	defer line.Close()

	bringup := gbe.NewInitializer(core,
		gbe.NewResetSequencer(line, timing.ResetSettle),
		phy,
		gbe.Config{
			CommitSettle:   timing.CommitSettle,
			ValidMacPrefix: a.cfg.Policy.ValidMacPrefix,
			PhyReadback:    a.cfg.Policy.PhyReadback,
		})

	return bringup.Run(addr, ops)
}
