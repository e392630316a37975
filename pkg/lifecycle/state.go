package lifecycle

// State is the position of a run within its phase sequence.
type State string

const (
	// Idle is the state before any phase ran.
	Idle State = "idle"
	// Configured means the appliances carry the run's feature configuration.
	Configured State = "configured"
	// Running means traffic flowed and measurements were collected.
	Running State = "running"
	// Validated means the collected measurements were judged.
	Validated State = "validated"
	// CleanedUp is the terminal state. It is reachable from every other
	// state since cleanup always runs, even after a failed phase.
	CleanedUp State = "cleaned-up"
)
