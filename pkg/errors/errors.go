// Package errors provides standardized error handling for xginit.
// It implements structured error types with proper wrapping and classification
// so callers can tell a poll timeout from a transport fault from a policy
// rejection without parsing message strings.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions
var (
	// Protocol errors
	ErrPollTimeout = errors.New("busy bit did not clear within poll budget")

	// Transfer errors
	ErrShortTransfer = errors.New("short transfer")

	// MAC address errors
	ErrMalformedMAC     = errors.New("malformed MAC address")
	ErrInvalidMAC       = errors.New("MAC address rejected by policy")
	ErrReadbackMismatch = errors.New("readback does not match programmed value")

	// Configuration errors
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ResourceError represents a failure to acquire a hardware resource:
// mapping a register region, requesting a GPIO line, or opening an I2C device.
// Resource errors are always fatal and abort before any hardware mutation.
type ResourceError struct {
	Resource  string
	Operation string
	Err       error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("resource %s: operation %s: %v", e.Resource, e.Operation, e.Err)
}

func (e *ResourceError) Unwrap() error {
	return e.Err
}

// TransportError represents a register read/write or I2C transfer that failed
// at the platform layer.
type TransportError struct {
	Device    string
	Operation string
	Err       error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s: operation %s: %v", e.Device, e.Operation, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ProtocolError represents a failed MDIO transaction. It carries the full
// bus coordinates of the operation so the operator can find the PHY register
// that was being touched.
type ProtocolError struct {
	Port      uint8
	Device    uint8
	Register  uint16
	Operation string
	Err       error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("mdio %s port %d dev %d reg 0x%04x: %v", e.Operation, e.Port, e.Device, e.Register, e.Err)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// ValidationError represents a MAC address that failed policy checks or
// could not be parsed. Validation errors abort before mutating hardware.
type ValidationError struct {
	Address string
	Reason  string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Address != "" {
		return fmt.Sprintf("MAC address %s is not valid: %s", e.Address, e.Reason)
	}
	return fmt.Sprintf("MAC address is not valid: %s", e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ConsistencyError represents a post-commit readback that does not match what
// was programmed, either in the core's system MAC registers or in the EEPROM.
type ConsistencyError struct {
	Target   string
	Intended string
	Observed string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("%s: programmed %s, read back %s: %v", e.Target, e.Intended, e.Observed, ErrReadbackMismatch)
}

func (e *ConsistencyError) Unwrap() error {
	return ErrReadbackMismatch
}

// Error wrapping constructors
func WrapResourceError(resource, operation string, err error) error {
	if err == nil {
		return nil
	}
	return &ResourceError{Resource: resource, Operation: operation, Err: err}
}

func WrapTransportError(device, operation string, err error) error {
	if err == nil {
		return nil
	}
	return &TransportError{Device: device, Operation: operation, Err: err}
}

func WrapProtocolError(operation string, port, device uint8, register uint16, err error) error {
	if err == nil {
		return nil
	}
	return &ProtocolError{Operation: operation, Port: port, Device: device, Register: register, Err: err}
}

func NewValidationError(address, reason string) error {
	return &ValidationError{Address: address, Reason: reason, Err: ErrInvalidMAC}
}

func NewParseError(text string, err error) error {
	return &ValidationError{Address: text, Reason: "unable to parse", Err: fmt.Errorf("%w: %v", ErrMalformedMAC, err)}
}

func NewConsistencyError(target, intended, observed string) error {
	return &ConsistencyError{Target: target, Intended: intended, Observed: observed}
}

func NewConfigError(section, field string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("config %s.%s: %w: %v", section, field, ErrInvalidConfig, err)
}

// Error classification functions
func IsResourceError(err error) bool {
	var re *ResourceError
	return errors.As(err, &re)
}

func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

func IsProtocolError(err error) bool {
	var pe *ProtocolError
	return errors.As(err, &pe)
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsConsistencyError(err error) bool {
	var ce *ConsistencyError
	return errors.As(err, &ce)
}

func IsTimeoutError(err error) bool {
	return errors.Is(err, ErrPollTimeout)
}

// Error extraction helpers
func GetMdioCoordinates(err error) (port, device uint8, register uint16, ok bool) {
	var pe *ProtocolError
	if errors.As(err, &pe) {
		return pe.Port, pe.Device, pe.Register, true
	}
	return 0, 0, 0, false
}

func GetValidationReason(err error) (string, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Reason, true
	}
	return "", false
}
