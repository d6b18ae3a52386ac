package domain

// Phase represents the lifecycle state of a room.
type Phase string

const (
	PhaseWaiting   Phase = "WAITING_FOR_PLAYERS" // room created, fewer than two players
	PhaseSetup     Phase = "SETUP"               // duel only: collecting secret words
	PhaseActive    Phase = "ACTIVE"              // guesses accepted
	PhaseFinished  Phase = "FINISHED"            // win/loss recorded, words revealed
	PhaseAbandoned Phase = "ABANDONED"           // a player disconnected permanently
)

// String returns the string representation of the phase.
func (p Phase) String() string {
	return string(p)
}

// CanTransitionTo checks if a transition from the current phase to the
// target phase is valid.
func (p Phase) CanTransitionTo(target Phase) bool {
	validTransitions := map[Phase][]Phase{
		PhaseWaiting:  {PhaseSetup, PhaseActive, PhaseAbandoned},
		PhaseSetup:    {PhaseActive, PhaseAbandoned},
		PhaseActive:   {PhaseFinished, PhaseAbandoned},
		PhaseFinished: {PhaseSetup, PhaseActive, PhaseAbandoned}, // rematch
	}

	allowed, ok := validTransitions[p]
	if !ok {
		return false
	}

	for _, phase := range allowed {
		if phase == target {
			return true
		}
	}
	return false
}
