package types

import "time"

// State is a step of the deployment state machine
type State int

const (
	Idle State = iota
	ResolvingSource
	Validating
	Preparing
	Applying
	ConfiguringBoot
	CleaningUp
	Unmounting
	Done
)

var stateNames = [...]string{
	Idle:            "Idle",
	ResolvingSource: "ResolvingSource",
	Validating:      "Validating",
	Preparing:       "Preparing",
	Applying:        "Applying",
	ConfiguringBoot: "ConfiguringBoot",
	CleaningUp:      "CleaningUp",
	Unmounting:      "Unmounting",
	Done:            "Done",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "Unknown"
	}
	return stateNames[s]
}

// MarshalText renders the state by name
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Destructive reports whether the state changes the target disk
func (s State) Destructive() bool {
	return s == Preparing || s == Applying || s == ConfiguringBoot
}

// Event is one progress line
type Event struct {
	DeploymentID string    `json:"deployment_id"`
	State        State     `json:"state"`
	Message      string    `json:"message"`
	// Detail carries raw tool output when there is some worth showing
	Detail string    `json:"detail,omitempty"`
	Time   time.Time `json:"time"`
}
