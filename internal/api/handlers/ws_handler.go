package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/elevohq/interview-engine/internal/services"
	"github.com/elevohq/interview-engine/internal/utils"
)

// WSHandler runs the turn exchange over a websocket. It goes through the same
// service path as POST /session/:session_id/turn, so the lock and gates apply
// identically.
type WSHandler struct {
	svc      services.InterviewService
	upgrader websocket.Upgrader
}

// NewWSHandler builds the socket endpoint. An empty allowedOrigins list
// accepts any origin; otherwise the Origin header must match exactly.
func NewWSHandler(svc services.InterviewService, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		svc: svc,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return originAllowed(allowedOrigins, r.Header.Get("Origin"))
			},
		},
	}
}

func originAllowed(allowed []string, origin string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if strings.EqualFold(strings.TrimSpace(a), origin) {
			return true
		}
	}
	return false
}

type wsClientMsg struct {
	Type   string `json:"type"` // answer | end | hints
	Answer string `json:"answer"`
}

type wsConn struct {
	c  *websocket.Conn
	mu sync.Mutex
}

func (w *wsConn) writeJSON(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.c.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return w.c.WriteJSON(v)
}

func (h *WSHandler) SessionWS(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	sessionID := c.Param("session_id")
	if sessionID == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, "WSHandler.SessionWS", "missing session_id", nil))
		return
	}

	// authorize before upgrading
	sess, turns, err := h.svc.Get(c.Request.Context(), userID, sessionID)
	if err != nil {
		writeError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// upgrade already wrote response in most cases
		return
	}
	defer conn.Close()

	wc := &wsConn{c: conn}
	ctx := c.Request.Context()

	// replay state so a reconnecting client can resume mid-interview
	_ = wc.writeJSON(gin.H{"type": "state", "session": sess, "turns": turns})

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Minute))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Minute))
		return nil
	})

	for {
		_, data, rerr := conn.ReadMessage()
		if rerr != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Minute))

		var msg wsClientMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			_ = wc.writeJSON(gin.H{"type": "error", "code": utils.CodeInvalidArgument, "message": "invalid json"})
			continue
		}

		switch msg.Type {
		case "answer", "end":
			reqType := "answer"
			if msg.Type == "end" {
				reqType = "end"
			}
			out, err := h.svc.Advance(ctx, userID, sessionID, services.TurnInput{
				Answer:      msg.Answer,
				RequestType: reqType,
			})
			if err != nil {
				wc.writeServiceError(err)
				continue
			}
			_ = wc.writeJSON(gin.H{"type": "turn", "turn": out})
			if out.Completed {
				return
			}

		case "hints":
			out, err := h.svc.Hints(ctx, userID, sessionID)
			if err != nil {
				wc.writeServiceError(err)
				continue
			}
			_ = wc.writeJSON(gin.H{"type": "hints", "hints": out.Items, "provider": out.Provider, "model": out.Model})

		default:
			_ = wc.writeJSON(gin.H{"type": "error", "code": utils.CodeInvalidArgument, "message": "unknown message type"})
		}
	}
}

func (w *wsConn) writeServiceError(err error) {
	code := utils.CodeInternal
	msg := "internal error"
	var ae *utils.AppError
	if errors.As(err, &ae) {
		code = ae.Code
		msg = ae.Message
	}
	_ = w.writeJSON(gin.H{"type": "error", "code": code, "message": msg})
}
