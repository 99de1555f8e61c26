package gateway

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
)

// wsChatRequest is one client turn on the chat socket.
type wsChatRequest struct {
	AgentID  string `json:"agentId"`
	Message  string `json:"message"`
	ThreadID string `json:"threadId,omitempty"`
}

// wsFrame is a server frame on the chat socket.
type wsFrame struct {
	Type  string `json:"type"` // delta | done | error
	Text  string `json:"text,omitempty"`
	Error string `json:"error,omitempty"`
}

// handleWebSocket upgrades the connection and runs a sequential chat
// loop: one request frame in, a stream of delta frames out, closed by a
// done frame. Turns never interleave on a single connection.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	s.log.Info().Str("remote", conn.RemoteAddr().String()).Msg("chat socket connected")

	for {
		var req wsChatRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn().Err(err).Msg("chat socket read failed")
			}
			return
		}

		if strings.TrimSpace(req.Message) == "" || req.AgentID == "" {
			if err := conn.WriteJSON(wsFrame{Type: "error", Error: "agentId and message are required"}); err != nil {
				return
			}
			continue
		}

		ctx, cancel := context.WithTimeout(r.Context(), chatTimeout)
		var reply strings.Builder
		for fragment := range s.bridge.ChatRemote(ctx, req.AgentID, req.Message, req.ThreadID) {
			reply.WriteString(fragment)
			if err := conn.WriteJSON(wsFrame{Type: "delta", Text: fragment}); err != nil {
				cancel()
				return
			}
		}
		cancel()

		if s.transcripts != nil && reply.Len() > 0 {
			if err := s.transcripts.RecordExchange(req.AgentID, req.Message, reply.String()); err != nil {
				s.log.Warn().Err(err).Str("agent", req.AgentID).Msg("recording transcript failed")
			}
		}

		if err := conn.WriteJSON(wsFrame{Type: "done"}); err != nil {
			return
		}
	}
}
