package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/vigtec/agentportal/internal/agent"
	"github.com/vigtec/agentportal/internal/domain"
	"github.com/vigtec/agentportal/internal/store"
)

// chatTimeout bounds one full chat exchange.
const chatTimeout = 5 * time.Minute

// registerRoutes sets up all HTTP routes on the server mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /api/agents", s.handleCreateAgent)
	mux.HandleFunc("GET /api/agents", s.handleListAgents)
	mux.HandleFunc("GET /api/tools", s.handleListTools)
	mux.HandleFunc("GET /api/agents/{id}", s.handleGetAgent)
	mux.HandleFunc("POST /api/agents/{id}/chat", s.handleChat)
	mux.HandleFunc("GET /api/agents/{id}/history", s.handleHistory)
	mux.HandleFunc("GET /ws", s.handleWebSocket)
}

// createAgentRequest is the creation payload.
type createAgentRequest struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Purpose      string   `json:"purpose"`
	Personality  string   `json:"personality,omitempty"`
	Capabilities []string `json:"capabilities,omitempty"`
	Rules        []string `json:"rules,omitempty"`
	ToolNames    []string `json:"toolNames,omitempty"`
}

// remoteAgentResponse mirrors a RemoteAgentSummary on the wire, tagged
// with its source.
type remoteAgentResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Model       string   `json:"model"`
	CreatedAt   string   `json:"createdAt"`
	Source      string   `json:"source"`
	HasTools    bool     `json:"hasTools"`
	ToolTypes   []string `json:"toolTypes,omitempty"`
}

func toAgentResponse(a domain.RemoteAgentSummary) remoteAgentResponse {
	return remoteAgentResponse{
		ID:          a.ID,
		Name:        a.Name,
		Description: a.Description,
		Model:       a.Model,
		CreatedAt:   a.CreatedAt,
		Source:      "foundry",
		HasTools:    a.HasTools,
		ToolTypes:   a.ToolTypes,
	}
}

func (s *Server) handleCreateAgent(w http.ResponseWriter, r *http.Request) {
	var req createAgentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Purpose) == "" {
		writeJSONError(w, http.StatusBadRequest, "name and purpose are required")
		return
	}

	// The instruction document is composed locally before anything
	// remote happens; the local registry write never waits on the
	// remote service.
	cfg := s.registry.CreateConfig(req.Name, req.Description, agent.InstructionSpec{
		Purpose:      req.Purpose,
		Personality:  req.Personality,
		Capabilities: req.Capabilities,
		Rules:        req.Rules,
	})

	created, err := s.catalog.Create(r.Context(), req.Name, cfg.Instructions, s.model, req.ToolNames)
	if err != nil {
		s.log.Error().Err(err).Str("name", req.Name).Msg("agent creation failed")
		writeJSONError(w, http.StatusInternalServerError, "error creating agent: "+err.Error())
		return
	}

	resp := toAgentResponse(*created)
	resp.Description = req.Description
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListAgents(w http.ResponseWriter, r *http.Request) {
	agents, err := s.catalog.List(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("listing agents failed")
		writeJSONError(w, http.StatusInternalServerError, "error listing agents: "+err.Error())
		return
	}

	out := make([]remoteAgentResponse, 0, len(agents))
	for _, a := range agents {
		out = append(out, toAgentResponse(a))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	tools, err := s.directory.ListTools(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("listing tools failed")
		writeJSONError(w, http.StatusInternalServerError, "error listing tools: "+err.Error())
		return
	}
	if tools == nil {
		tools = []domain.ToolConnection{}
	}
	writeJSON(w, http.StatusOK, tools)
}

func (s *Server) handleGetAgent(w http.ResponseWriter, r *http.Request) {
	cfg, ok := s.registry.Get(r.PathValue("id"))
	if !ok {
		writeJSONError(w, http.StatusNotFound, "agent not found")
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// chatRequest is the chat payload.
type chatRequest struct {
	Message  string `json:"message"`
	ThreadID string `json:"threadId,omitempty"`
}

// handleChat streams chat fragments as chunked plain text, in arrival
// order. The full reply is recorded to the transcript store (when
// enabled) only after the stream has ended.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	agentID := r.PathValue("id")

	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Message == "" {
		writeJSONError(w, http.StatusBadRequest, "message is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), chatTimeout)
	defer cancel()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	flusher, _ := w.(http.Flusher)

	var reply strings.Builder
	for fragment := range s.bridge.ChatRemote(ctx, agentID, req.Message, req.ThreadID) {
		if _, err := w.Write([]byte(fragment)); err != nil {
			return
		}
		reply.WriteString(fragment)
		if flusher != nil {
			flusher.Flush()
		}
	}

	if s.transcripts != nil && reply.Len() > 0 {
		if err := s.transcripts.RecordExchange(agentID, req.Message, reply.String()); err != nil {
			s.log.Warn().Err(err).Str("agent", agentID).Msg("recording transcript failed")
		}
	}
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.transcripts == nil {
		writeJSONError(w, http.StatusNotFound, "transcript store is not enabled")
		return
	}
	entries, err := s.transcripts.History(r.PathValue("id"), 0)
	if err != nil {
		s.log.Error().Err(err).Msg("reading transcripts failed")
		writeJSONError(w, http.StatusInternalServerError, "error reading history: "+err.Error())
		return
	}
	if entries == nil {
		entries = []store.TranscriptEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// decodeJSON parses a JSON request body with unknown fields tolerated.
func decodeJSON(r *http.Request, out any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(out)
}
