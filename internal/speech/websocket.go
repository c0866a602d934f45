package speech

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// DefaultHandshakeTimeout bounds the WebSocket opening handshake.
const DefaultHandshakeTimeout = 10 * time.Second

// WebSocketSource reads transcript messages from a WebSocket connection.
type WebSocketSource struct {
	conn      *websocket.Conn
	closeOnce sync.Once
	closeErr  error
}

// DialWebSocket connects to a transcription endpoint.
func DialWebSocket(ctx context.Context, url string, header http.Header) (*WebSocketSource, error) {
	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: DefaultHandshakeTimeout,
	}
	conn, resp, err := dialer.DialContext(ctx, url, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: %w (status %d)", url, err, resp.StatusCode)
		}
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return NewWebSocketSource(conn), nil
}

// NewWebSocketSource wraps an open connection.
func NewWebSocketSource(conn *websocket.Conn) *WebSocketSource {
	return &WebSocketSource{conn: conn}
}

// Next implements TranscriptSource. Messages that carry no transcript are
// skipped. A normal close from the peer ends the source with io.EOF.
func (s *WebSocketSource) Next(ctx context.Context) (Transcript, error) {
	stop := context.AfterFunc(ctx, func() {
		s.conn.SetReadDeadline(time.Now())
	})
	defer stop()

	for {
		messageType, message, err := s.conn.ReadMessage()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return Transcript{}, ctxErr
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return Transcript{}, io.EOF
			}
			return Transcript{}, err
		}
		if messageType != websocket.TextMessage {
			continue
		}

		t, err := ParseTranscript(message)
		if errors.Is(err, ErrNoTranscript) {
			continue
		}
		if err != nil {
			return Transcript{}, err
		}
		return t, nil
	}
}

// Close sends a close frame and closes the connection.
func (s *WebSocketSource) Close() error {
	s.closeOnce.Do(func() {
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		s.closeErr = s.conn.Close()
	})
	return s.closeErr
}
