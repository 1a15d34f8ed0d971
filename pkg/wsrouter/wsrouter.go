package wsrouter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
)

type message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type HandlerFunc func(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error

type Middleware func(next HandlerFunc) HandlerFunc

type WSRouter struct {
	routes      map[string]HandlerFunc
	middlewares []Middleware
}

func New() *WSRouter {
	return &WSRouter{routes: make(map[string]HandlerFunc)}
}

// Use appends a middleware to the chain applied to every handler. Must be
// called before Handle.
func (r *WSRouter) Use(mw Middleware) {
	r.middlewares = append(r.middlewares, mw)
}

func (r *WSRouter) Handle(messageType string, handler HandlerFunc) {
	for i := len(r.middlewares) - 1; i >= 0; i-- {
		handler = r.middlewares[i](handler)
	}
	r.routes[messageType] = handler
}

// ServeConn reads messages from conn until the connection fails and routes
// each one by its type. Handler errors do not terminate the connection; they
// are surfaced through the middleware chain only. Unknown message types are
// skipped: ServeConn itself never writes to conn, so it cannot race writers
// that serialize on the session's write lock.
func (r *WSRouter) ServeConn(ctx context.Context, conn *websocket.Conn) error {
	defer conn.Close()

	for {
		var msg message
		if err := conn.ReadJSON(&msg); err != nil {
			return fmt.Errorf("failed to read message: %w", err)
		}

		handler, exists := r.routes[msg.Type]
		if !exists {
			continue
		}

		handlerCtx := context.WithValue(ctx, messageTypeKey, msg.Type)
		handler(handlerCtx, conn, msg.Payload)
	}
}

// Typed adapts a handler taking a decoded payload of type T into a HandlerFunc.
func Typed[T any](handler func(ctx context.Context, conn *websocket.Conn, input T) error) HandlerFunc {
	return func(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
		var input T
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &input); err != nil {
				return fmt.Errorf("failed to decode payload: %w", err)
			}
		}
		return handler(ctx, conn, input)
	}
}
