package domain

// Channel is a logical connection group. Operators connect to the control
// channel, renderers to the show channel.
type Channel string

const (
	ChannelControl Channel = "control"
	ChannelShow    Channel = "show"
)

// Message is the wire envelope for both channels.
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Control-channel inbound message types.
const (
	MsgControlPlay         = "CONTROL_PLAY"
	MsgControlPause        = "CONTROL_PAUSE"
	MsgControlJump         = "CONTROL_JUMP"
	MsgControlSkip         = "CONTROL_SKIP"
	MsgControlSaveTimeline = "CONTROL_SAVE_TIMELINE"
	MsgControlPing         = "CONTROL_PING"
)

// Control-channel outbound message types.
const (
	MsgControlPong             = "CONTROL_PONG"
	MsgControlError            = "CONTROL_ERROR"
	MsgControlCommandRejected  = "CONTROL_COMMAND_REJECTED"
	MsgControlStorageDegraded  = "CONTROL_STORAGE_DEGRADED"
	MsgControlShowFpsUpdate    = "SHOW_FPS_UPDATE"
	MsgControlShowStatusUpdate = "SHOW_STATUS_UPDATE"
)

// Show-channel inbound message types.
const (
	MsgShowStatus    = "SHOW_STATUS"
	MsgShowError     = "SHOW_ERROR"
	MsgShowFpsUpdate = "SHOW_FPS_UPDATE"
	MsgShowPing      = "SHOW_PING"
)

// Show-channel outbound message types.
const (
	MsgShowPlay         = "SHOW_PLAY"
	MsgShowPause        = "SHOW_PAUSE"
	MsgShowJump         = "SHOW_JUMP"
	MsgShowSkip         = "SHOW_SKIP"
	MsgShowLoadTimeline = "SHOW_LOAD_TIMELINE"
	MsgShowSetTimecode  = "SHOW_SET_TIMECODE"
	MsgShowPong         = "SHOW_PONG"
)
