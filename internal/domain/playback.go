package domain

// PlaybackPhase is the transport state of the playback engine.
type PlaybackPhase string

const (
	PhaseIdle    PlaybackPhase = "IDLE"
	PhaseLoading PlaybackPhase = "LOADING"
	PhasePlaying PlaybackPhase = "PLAYING"
	PhasePaused  PlaybackPhase = "PAUSED"
	// Reserved for renderer-side transition effects.
	PhaseTransitioning PlaybackPhase = "TRANSITIONING"
	PhaseBlackout      PlaybackPhase = "BLACKOUT"
	PhaseError         PlaybackPhase = "ERROR"
)
