package connection

import (
	"errors"
	"time"

	"github.com/primetime/server/internal/domain"
)

var (
	ErrNotFound      = errors.New("session not found")
	ErrAlreadyExists = errors.New("session already exists")
)

// Session describes one live connection on a channel.
type Session struct {
	Id          string         `json:"id"`
	Channel     domain.Channel `json:"channel"`
	ConnectedAt time.Time      `json:"connected_at"`
}
