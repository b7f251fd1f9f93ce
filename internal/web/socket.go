package web

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ziadkadry99/contact-draft/internal/draft"
)

// Frame types.
const (
	frameGenerate = "generate"
	frameStatus   = "status"
	frameBusy     = "busy"
	frameOutput   = "output"
	frameError    = "error"
)

// clientFrame is the incoming WebSocket message format.
type clientFrame struct {
	Type    string `json:"type"`          // "generate"
	ID      string `json:"id,omitempty"`   // echoed on every reply; generated when empty
	Content string `json:"content"`
}

// serverFrame is the outgoing WebSocket message format.
type serverFrame struct {
	Type    string `json:"type"` // "status", "busy", "output" or "error"
	ID      string `json:"id,omitempty"`
	Content string `json:"content"`
	Busy    *bool  `json:"busy,omitempty"`
}

// handleWebSocket processes generate frames one at a time, so a connection
// never has more than one draft in flight.
func (h *Handlers) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade", zap.Error(err))
		return
	}
	defer conn.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read", zap.Error(err))
			}
			return
		}

		var req clientFrame
		if err := json.Unmarshal(msg, &req); err != nil {
			h.send(conn, serverFrame{Type: frameError, Content: "invalid message format"})
			continue
		}

		switch req.Type {
		case frameGenerate:
			h.generate(conn, r, req)
		default:
			h.send(conn, serverFrame{Type: frameError, ID: req.ID, Content: "unknown message type: " + req.Type})
		}
	}
}

func (h *Handlers) generate(conn *websocket.Conn, r *http.Request, req clientFrame) {
	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}

	ui := draft.UI{
		Output: draft.OutputFunc(func(text string) {
			h.send(conn, serverFrame{Type: frameOutput, ID: id, Content: text})
		}),
		Busy: socketBusy{h: h, conn: conn, id: id},
		Notifier: draft.NotifierFunc(func(message string) {
			h.send(conn, serverFrame{Type: frameError, ID: id, Content: message})
		}),
	}

	orch, err := h.factory.New(ui, draft.WithStatusListener(func(s draft.Status) {
		h.send(conn, serverFrame{Type: frameStatus, ID: id, Content: s.String()})
	}))
	if err != nil {
		h.logger.Error("creating orchestrator", zap.Error(err))
		h.send(conn, serverFrame{Type: frameError, ID: id, Content: err.Error()})
		return
	}

	if err := orch.Generate(r.Context(), req.Content); err != nil {
		h.logger.Debug("draft failed", zap.String("id", id), zap.Error(err))
	}
}

// socketBusy forwards busy transitions as frames.
type socketBusy struct {
	h    *Handlers
	conn *websocket.Conn
	id   string
}

func (b socketBusy) ShowBusy() { b.set(true) }
func (b socketBusy) HideBusy() { b.set(false) }

func (b socketBusy) set(busy bool) {
	b.h.send(b.conn, serverFrame{Type: frameBusy, ID: b.id, Busy: &busy})
}

func (h *Handlers) send(conn *websocket.Conn, f serverFrame) {
	if err := conn.WriteJSON(f); err != nil {
		h.logger.Warn("websocket write", zap.Error(err))
	}
}
