package server

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	wsReadTimeout  = 60 * time.Second
	wsPingInterval = 30 * time.Second
	wsMaxMessage   = maxRequestBytes
)

// WebSocket upgrader with reasonable defaults.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketConnWriter is an interface for writing WebSocket messages.
type WebSocketConnWriter interface {
	WriteMessage(messageType int, data []byte) error
}

// WebSocketRenderRequest is one render request on a WebSocket connection.
// The optional ID is echoed back in the response.
type WebSocketRenderRequest struct {
	ID string `json:"id,omitempty"`
	RenderRequest
}

// WebSocketRenderResponse carries a base64 encoded image or an error.
type WebSocketRenderResponse struct {
	Type        string `json:"type"`
	Status      string `json:"status"` // "completed" or "error"
	RequestID   string `json:"request_id,omitempty"`
	Format      string `json:"format,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
	Data        string `json:"data,omitempty"`
	Error       string `json:"error,omitempty"`
	ErrorType   string `json:"error_type,omitempty"`
}

// barcodeWebSocketHandler streams renders over a WebSocket connection.
func (s *Server) barcodeWebSocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Failed to upgrade connection to WebSocket", "error", err)
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	websocketConnections.Inc()
	defer websocketConnections.Dec()

	slog.Info("WebSocket connection established", "remote_addr", r.RemoteAddr)

	s.handleWebSocketConnection(conn, getClientIP(r))
}

// handleWebSocketConnection reads messages until the client goes away.
func (s *Server) handleWebSocketConnection(conn *websocket.Conn, clientID string) {
	conn.SetReadLimit(wsMaxMessage)
	_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
		return nil
	})

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(wsPingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(10*time.Second)); err != nil {
					return
				}
			}
		}
	}()

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Error("WebSocket error", "error", err)
			}
			return
		}

		websocketMessagesTotal.WithLabelValues("received").Inc()

		if messageType == websocket.TextMessage {
			s.handleWebSocketMessage(conn, clientID, data)
		}
	}
}

// handleWebSocketMessage renders one request and writes the response. Every
// message is charged to clientID like a /barcode request.
func (s *Server) handleWebSocketMessage(conn WebSocketConnWriter, clientID string, data []byte) {
	var req WebSocketRenderRequest
	if err := json.Unmarshal(data, &req); err != nil {
		s.sendWebSocketError(conn, "", "invalid_request", fmt.Sprintf("Failed to parse request: %v", err))
		return
	}

	id := req.ID
	if id == "" {
		var err error
		if id, err = gonanoid.New(); err != nil {
			id = ""
		}
	}

	if err := s.allow(clientID); err != nil {
		s.sendWebSocketError(conn, id, "rate_limited", err.Error())
		return
	}

	out, err := s.renderObserved(req.RenderRequest)
	if err != nil {
		s.sendWebSocketError(conn, id, errorType(err), err.Error())
		return
	}

	s.sendWebSocketResponse(conn, WebSocketRenderResponse{
		Type:        "barcode",
		Status:      "completed",
		RequestID:   id,
		Format:      out.format.String(),
		ContentType: out.format.ContentType(),
		Width:       out.width,
		Height:      out.height,
		Data:        base64.StdEncoding.EncodeToString(out.data),
	})
}

// sendWebSocketResponse sends a response message over WebSocket.
func (s *Server) sendWebSocketResponse(conn WebSocketConnWriter, response WebSocketRenderResponse) {
	data, err := json.Marshal(response)
	if err != nil {
		slog.Error("Failed to marshal WebSocket response", "error", err)
		return
	}

	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.Error("Failed to send WebSocket message", "error", err)
		return
	}

	websocketMessagesTotal.WithLabelValues("sent").Inc()
}

// sendWebSocketError sends an error message over WebSocket.
func (s *Server) sendWebSocketError(conn WebSocketConnWriter, requestID, errorType, message string) {
	s.sendWebSocketResponse(conn, WebSocketRenderResponse{
		Type:      "error",
		Status:    "error",
		RequestID: requestID,
		Error:     message,
		ErrorType: errorType,
	})
}
