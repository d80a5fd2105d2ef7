package gbe

// State is the bring-up state machine's position. Released and RolledBack
// are terminal; no transition is ever retried.
type State int

const (
	StateIdle State = iota
	StateResetAsserted
	StatePhyConfigured
	StateMacProgrammed
	StateVerifying
	StateReleased
	StateRolledBack
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateResetAsserted:
		return "reset-asserted"
	case StatePhyConfigured:
		return "phy-configured"
	case StateMacProgrammed:
		return "mac-programmed"
	case StateVerifying:
		return "verifying"
	case StateReleased:
		return "released"
	case StateRolledBack:
		return "rolled-back"
	default:
		return "unknown"
	}
}
