package inmemory

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/primetime/server/internal/domain"
	"github.com/primetime/server/internal/repository/connection"
)

type session struct {
	conn        *websocket.Conn
	id          string
	channel     domain.Channel
	connectedAt time.Time
	// gorilla conns allow one concurrent writer; every write to the conn
	// goes through this mutex.
	writeMu sync.Mutex
}

type repo struct {
	mu           sync.RWMutex
	connList     map[*websocket.Conn]*session
	idList       map[string]*session
	writeTimeout time.Duration
	logger       *slog.Logger
}

func NewRepo(writeTimeout time.Duration, logger *slog.Logger) *repo {
	return &repo{
		connList:     make(map[*websocket.Conn]*session),
		idList:       make(map[string]*session),
		writeTimeout: writeTimeout,
		logger:       logger,
	}
}

func (r *repo) Add(conn *websocket.Conn, sessionId string, channel domain.Channel) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.connList[conn] != nil || r.idList[sessionId] != nil {
		return connection.ErrAlreadyExists
	}

	s := &session{
		conn:        conn,
		id:          sessionId,
		channel:     channel,
		connectedAt: time.Now(),
	}
	r.connList[conn] = s
	r.idList[sessionId] = s

	return nil
}

func (r *repo) RemoveByConn(conn *websocket.Conn) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.connList[conn]
	if !ok {
		return connection.ErrNotFound
	}
	conn.Close()

	delete(r.connList, conn)
	delete(r.idList, s.id)

	return nil
}

func (r *repo) RemoveBySessionId(sessionId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.idList[sessionId]
	if !ok {
		return connection.ErrNotFound
	}
	s.conn.Close()

	delete(r.connList, s.conn)
	delete(r.idList, s.id)

	return nil
}

func (r *repo) GetSession(conn *websocket.Conn) (connection.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.connList[conn]
	if !ok {
		return connection.Session{}, connection.ErrNotFound
	}

	return connection.Session{Id: s.id, Channel: s.channel, ConnectedAt: s.connectedAt}, nil
}

func (r *repo) Count(channel domain.Channel) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, s := range r.connList {
		if s.channel == channel {
			count++
		}
	}

	return count
}

// SendTo writes msg to a single session. A failed write closes and removes the
// session.
func (r *repo) SendTo(sessionId string, msg *domain.Message) error {
	r.mu.RLock()
	s, ok := r.idList[sessionId]
	r.mu.RUnlock()
	if !ok {
		return connection.ErrNotFound
	}

	return r.send(s, msg)
}

// SendToConn writes msg to the session owning conn.
func (r *repo) SendToConn(conn *websocket.Conn, msg *domain.Message) error {
	r.mu.RLock()
	s, ok := r.connList[conn]
	r.mu.RUnlock()
	if !ok {
		return connection.ErrNotFound
	}

	return r.send(s, msg)
}

// Broadcast writes msg to every session on channel. Delivery is best effort:
// a dead or stalled recipient is dropped without affecting the others.
func (r *repo) Broadcast(channel domain.Channel, msg *domain.Message) {
	r.mu.RLock()
	targets := make([]*session, 0, len(r.connList))
	for _, s := range r.connList {
		if s.channel == channel {
			targets = append(targets, s)
		}
	}
	r.mu.RUnlock()

	for _, s := range targets {
		if err := r.send(s, msg); err != nil {
			r.logger.Debug("dropped broadcast recipient",
				"session_id", s.id,
				"channel", string(s.channel),
				"error", err,
			)
		}
	}
}

func (r *repo) send(s *session, msg *domain.Message) error {
	s.writeMu.Lock()
	s.conn.SetWriteDeadline(time.Now().Add(r.writeTimeout))
	err := s.conn.WriteJSON(msg)
	s.writeMu.Unlock()

	if err != nil {
		r.RemoveByConn(s.conn)
		return err
	}

	return nil
}
