package foundry

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// httpResponsesClient implements ResponsesClient over the project's
// OpenAI-compatible surface.
type httpResponsesClient struct {
	c *HTTPClient
}

// openaiURL builds a URL under the project's /openai/v1 surface.
func (r *httpResponsesClient) openaiURL(path string) string {
	return fmt.Sprintf("%s/openai/v1%s?api-version=%s", r.c.endpoint, path, r.c.apiVersion)
}

func (r *httpResponsesClient) CreateConversation(ctx context.Context) (string, error) {
	var out struct {
		ID string `json:"id"`
	}
	if err := r.c.do(ctx, http.MethodPost, r.openaiURL("/conversations"), struct{}{}, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", fmt.Errorf("conversation create returned no id")
	}
	return out.ID, nil
}

func (r *httpResponsesClient) CreateResponse(ctx context.Context, req ResponseRequest) (*Response, error) {
	if req.Agent != nil && req.Model != "" {
		return nil, fmt.Errorf("agent reference and model are mutually exclusive")
	}

	var resp Response
	if err := r.c.do(ctx, http.MethodPost, r.openaiURL("/responses"), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// streamBody is the request body of a streamed ephemeral-agent exchange.
type streamBody struct {
	Model        string         `json:"model"`
	Instructions string         `json:"instructions,omitempty"`
	Conversation string         `json:"conversation,omitempty"`
	Input        []InputMessage `json:"input"`
	Stream       bool           `json:"stream"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

func (r *httpResponsesClient) StreamAgentChat(ctx context.Context, req AgentChatRequest) (<-chan StreamEvent, error) {
	body := streamBody{
		Model:        req.Model,
		Instructions: req.Instructions,
		Conversation: req.Conversation,
		Input:        []InputMessage{{Role: "user", Content: req.Message}},
		Stream:       true,
	}
	if req.Name != "" {
		body.Metadata = map[string]any{"agent_name": req.Name}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	events := make(chan StreamEvent)
	go r.streamRequest(ctx, events, payload)
	return events, nil
}

// streamEventBody is one SSE data payload from the responses stream.
type streamEventBody struct {
	Type  string `json:"type"`
	Delta string `json:"delta,omitempty"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// streamRequest performs the streamed exchange and forwards deltas in
// arrival order. The channel is always closed and the HTTP body always
// released, whether the stream completes, fails, or is cancelled.
func (r *httpResponsesClient) streamRequest(ctx context.Context, events chan<- StreamEvent, payload []byte) {
	defer close(events)

	emit := func(evt StreamEvent) bool {
		select {
		case events <- evt:
			return true
		case <-ctx.Done():
			return false
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.openaiURL("/responses"), bytes.NewReader(payload))
	if err != nil {
		emit(StreamEvent{Type: "error", Error: fmt.Sprintf("creating request: %v", err)})
		return
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	if err := r.c.authorize(httpReq); err != nil {
		emit(StreamEvent{Type: "error", Error: err.Error()})
		return
	}

	resp, err := r.c.http.Do(httpReq)
	if err != nil {
		emit(StreamEvent{Type: "error", Error: fmt.Sprintf("request failed: %v", err)})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		emit(StreamEvent{Type: "error", Error: fmt.Sprintf("agent service error (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))})
		return
	}

	scanner := newServerSentEventScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		dataStr := strings.TrimPrefix(line, "data: ")
		if dataStr == "[DONE]" {
			break
		}

		var event streamEventBody
		if err := json.Unmarshal([]byte(dataStr), &event); err != nil {
			continue
		}

		switch event.Type {
		case "response.output_text.delta":
			if event.Delta != "" {
				if !emit(StreamEvent{Type: "delta", Text: event.Delta}) {
					return
				}
			}
		case "response.failed", "error":
			msg := "stream failed"
			if event.Error != nil && event.Error.Message != "" {
				msg = event.Error.Message
			}
			emit(StreamEvent{Type: "error", Error: msg})
			return
		case "response.completed":
			// fall through to the final done event below
		}
	}

	// A transport failure mid-stream (connection dropped before the
	// terminal chunk) must not pass as a clean completion.
	if err := scanner.Err(); err != nil {
		emit(StreamEvent{Type: "error", Error: fmt.Sprintf("stream interrupted: %v", err)})
		return
	}

	emit(StreamEvent{Type: "done"})
}

// serverSentEventScanner reads Server-Sent Events line by line.
type serverSentEventScanner struct {
	scanner *bufio.Scanner
}

func newServerSentEventScanner(r io.Reader) *serverSentEventScanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 256*1024), 256*1024)
	return &serverSentEventScanner{scanner: scanner}
}

func (s *serverSentEventScanner) Scan() bool { return s.scanner.Scan() }

func (s *serverSentEventScanner) Text() string { return s.scanner.Text() }

func (s *serverSentEventScanner) Err() error { return s.scanner.Err() }
