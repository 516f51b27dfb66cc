package cdp

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
)

var _ WebSocketable = &WebSocket{}

// WebSocket client for the devtools protocol, it wraps gorilla/websocket
type WebSocket struct {
	// Dialer is usually used for proxy
	Dialer *websocket.Dialer

	// WriteBufferSize of the dialer, default is 1MB
	WriteBufferSize int

	conn *websocket.Conn
}

// Connect to browser
func (ws *WebSocket) Connect(ctx context.Context, url string, header http.Header) error {
	if ws.conn != nil {
		panic("duplicated connection: " + url)
	}

	dialer := *websocket.DefaultDialer
	if ws.Dialer != nil {
		dialer = *ws.Dialer
	}
	dialer.WriteBufferSize = ws.WriteBufferSize
	if dialer.WriteBufferSize == 0 {
		dialer.WriteBufferSize = 1024 * 1024
	}

	conn, res, err := dialer.DialContext(ctx, url, header)
	if res != nil && res.Body != nil {
		_ = res.Body.Close()
	}
	if err != nil {
		return err
	}

	// the conn ignores the ctx once it's established
	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	ws.conn = conn
	return nil
}

// Send a text message
func (ws *WebSocket) Send(data []byte) error {
	if ws.conn == nil {
		return ErrNotConnected
	}
	return ws.conn.WriteMessage(websocket.TextMessage, data)
}

// Read a text message, other message types are skipped
func (ws *WebSocket) Read() ([]byte, error) {
	if ws.conn == nil {
		return nil, ErrNotConnected
	}
	for {
		msgType, data, err := ws.conn.ReadMessage()
		if err != nil {
			return nil, err
		}
		if msgType == websocket.TextMessage {
			return data, nil
		}
	}
}

// ErrNotConnected is returned when the WebSocket is used before Connect
var ErrNotConnected = errors.New("websocket not connected")
