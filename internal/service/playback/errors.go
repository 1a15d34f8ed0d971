package playback

import "errors"

var (
	ErrNoTimelineLoaded          = errors.New("no timeline loaded")
	ErrIndexOutOfRange           = errors.New("index out of range")
	ErrInvalidTimelineDefinition = errors.New("invalid timeline definition")
)
