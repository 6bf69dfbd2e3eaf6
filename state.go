package slotchecker

import "fmt"

// State is a phase of the polling loop.
type State int32

const (
	// StateIdle means Run has not started yet.
	StateIdle State = iota

	// StateCheckingConfig compares the config file against the loaded snapshot.
	StateCheckingConfig

	// StateReloading loads a new config snapshot before restarting the cycle.
	StateReloading

	// StateQuerying searches the booking service.
	StateQuerying

	// StateNotifying reports every slot found.
	StateNotifying

	// StateSleeping waits for the refresh interval.
	StateSleeping
)

// String returns the state name used in logs.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCheckingConfig:
		return "checking_config"
	case StateReloading:
		return "reloading"
	case StateQuerying:
		return "querying"
	case StateNotifying:
		return "notifying"
	case StateSleeping:
		return "sleeping"
	}
	return fmt.Sprintf("state(%d)", int32(s))
}
