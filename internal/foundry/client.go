// Package foundry is the adapter over the remote agent-hosting service:
// agent directory, connection inventory, and the responses chat API.
package foundry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/vigtec/agentportal/internal/logging"
)

// Client is the contract the rest of the portal programs against.
// The production implementation talks HTTP to the project endpoint;
// tests substitute in-package fakes.
type Client interface {
	// ListAgents enumerates every agent in the remote directory.
	ListAgents(ctx context.Context) ([]AgentRecord, error)

	// GetAgent fetches one agent by name or id.
	GetAgent(ctx context.Context, nameOrID string) (*AgentRecord, error)

	// CreateAgent registers a new agent with the given definition and
	// returns whatever record the remote assigns.
	CreateAgent(ctx context.Context, name string, def *PromptAgentDefinition) (*AgentRecord, error)

	// ListConnections enumerates the remote connection inventory.
	ListConnections(ctx context.Context) ([]ConnectionRecord, error)

	// Responses returns the chat-completion sub-client.
	Responses() ResponsesClient
}

// ResponsesClient drives chat exchanges against the remote service.
type ResponsesClient interface {
	// CreateConversation opens a new conversation thread and returns its id.
	CreateConversation(ctx context.Context) (string, error)

	// CreateResponse submits input and returns the structured response.
	CreateResponse(ctx context.Context, req ResponseRequest) (*Response, error)

	// StreamAgentChat runs one streamed exchange with an ephemeral agent.
	// The returned channel is closed when the stream ends.
	StreamAgentChat(ctx context.Context, req AgentChatRequest) (<-chan StreamEvent, error)
}

// HTTPClient is the production Client backed by the project endpoint.
type HTTPClient struct {
	endpoint   string
	apiVersion string
	tokens     oauth2.TokenSource
	http       *http.Client
	log        *logging.Logger
}

// NewHTTPClient creates a client for the given project endpoint.
func NewHTTPClient(endpoint, apiVersion string, tokens oauth2.TokenSource, log *logging.Logger) *HTTPClient {
	return &HTTPClient{
		endpoint:   strings.TrimRight(endpoint, "/"),
		apiVersion: apiVersion,
		tokens:     tokens,
		http:       &http.Client{Timeout: 120 * time.Second},
		log:        log.Sub("foundry"),
	}
}

// listPage is the envelope of paged list endpoints.
type listPage[T any] struct {
	Value    []T    `json:"value"`
	NextLink string `json:"nextLink,omitempty"`
}

func (c *HTTPClient) ListAgents(ctx context.Context) ([]AgentRecord, error) {
	return listAll[AgentRecord](ctx, c, c.url("/agents"))
}

func (c *HTTPClient) GetAgent(ctx context.Context, nameOrID string) (*AgentRecord, error) {
	var rec AgentRecord
	if err := c.do(ctx, http.MethodGet, c.url("/agents/"+url.PathEscape(nameOrID)), nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *HTTPClient) CreateAgent(ctx context.Context, name string, def *PromptAgentDefinition) (*AgentRecord, error) {
	body := struct {
		Name       string                 `json:"name"`
		Definition *PromptAgentDefinition `json:"definition"`
	}{Name: name, Definition: def}

	var rec AgentRecord
	if err := c.do(ctx, http.MethodPost, c.url("/agents"), body, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *HTTPClient) ListConnections(ctx context.Context) ([]ConnectionRecord, error) {
	return listAll[ConnectionRecord](ctx, c, c.url("/connections"))
}

func (c *HTTPClient) Responses() ResponsesClient {
	return &httpResponsesClient{c: c}
}

// listAll follows nextLink pages until the enumeration is exhausted,
// preserving remote order.
func listAll[T any](ctx context.Context, c *HTTPClient, first string) ([]T, error) {
	var all []T
	next := first
	for next != "" {
		var page listPage[T]
		if err := c.do(ctx, http.MethodGet, next, nil, &page); err != nil {
			return nil, err
		}
		all = append(all, page.Value...)
		next = page.NextLink
	}
	return all, nil
}

// url builds an API URL with the api-version query parameter.
func (c *HTTPClient) url(path string) string {
	return fmt.Sprintf("%s%s?api-version=%s", c.endpoint, path, url.QueryEscape(c.apiVersion))
}

// do performs one authenticated request/response cycle. A fresh token is
// acquired per call and released with the request; nothing is reused
// across operations.
func (c *HTTPClient) do(ctx context.Context, method, rawURL string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if err := c.authorize(req); err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("agent service error (%d): %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("parsing response: %w", err)
		}
	}
	return nil
}

// authorize attaches a bearer token obtained for this one operation.
func (c *HTTPClient) authorize(req *http.Request) error {
	tok, err := c.tokens.Token()
	if err != nil {
		return fmt.Errorf("acquiring credential: %w", err)
	}
	tok.SetAuthHeader(req)
	return nil
}
