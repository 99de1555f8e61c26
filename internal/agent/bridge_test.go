package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vigtec/agentportal/internal/foundry"
	"github.com/vigtec/agentportal/internal/logging"
)

// fakeClient is an in-memory foundry.Client for bridge tests.
type fakeClient struct {
	agents    map[string]*foundry.AgentRecord
	getErr    error
	responses *fakeResponses
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		agents:    make(map[string]*foundry.AgentRecord),
		responses: &fakeResponses{},
	}
}

func (f *fakeClient) ListAgents(ctx context.Context) ([]foundry.AgentRecord, error) {
	var out []foundry.AgentRecord
	for _, rec := range f.agents {
		out = append(out, *rec)
	}
	return out, nil
}

func (f *fakeClient) GetAgent(ctx context.Context, nameOrID string) (*foundry.AgentRecord, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	rec, ok := f.agents[nameOrID]
	if !ok {
		return nil, errors.New("agent not found")
	}
	return rec, nil
}

func (f *fakeClient) CreateAgent(ctx context.Context, name string, def *foundry.PromptAgentDefinition) (*foundry.AgentRecord, error) {
	rec := &foundry.AgentRecord{ID: "agt-" + name, Name: name}
	f.agents[rec.ID] = rec
	return rec, nil
}

func (f *fakeClient) ListConnections(ctx context.Context) ([]foundry.ConnectionRecord, error) {
	return nil, nil
}

func (f *fakeClient) Responses() foundry.ResponsesClient { return f.responses }

// fakeResponses scripts the responses sub-client.
type fakeResponses struct {
	conversationID  string
	conversationErr error

	response    *foundry.Response
	responseErr error
	lastRequest foundry.ResponseRequest

	streamEvents []foundry.StreamEvent
	streamErr    error
}

func (f *fakeResponses) CreateConversation(ctx context.Context) (string, error) {
	if f.conversationErr != nil {
		return "", f.conversationErr
	}
	if f.conversationID == "" {
		return "conv-1", nil
	}
	return f.conversationID, nil
}

func (f *fakeResponses) CreateResponse(ctx context.Context, req foundry.ResponseRequest) (*foundry.Response, error) {
	f.lastRequest = req
	if f.responseErr != nil {
		return nil, f.responseErr
	}
	return f.response, nil
}

func (f *fakeResponses) StreamAgentChat(ctx context.Context, req foundry.AgentChatRequest) (<-chan foundry.StreamEvent, error) {
	if f.streamErr != nil {
		return nil, f.streamErr
	}
	ch := make(chan foundry.StreamEvent, len(f.streamEvents))
	for _, evt := range f.streamEvents {
		ch <- evt
	}
	close(ch)
	return ch, nil
}

func collect(ch <-chan string) []string {
	var out []string
	for fragment := range ch {
		out = append(out, fragment)
	}
	return out
}

func testBridge(client foundry.Client) (*Bridge, *ConfigRegistry) {
	registry := NewConfigRegistry()
	return NewBridge(client, registry, "gpt-4o", logging.New(nil, "silent")), registry
}

func TestChatLocal_UnknownAgent(t *testing.T) {
	bridge, _ := testBridge(newFakeClient())

	got := collect(bridge.ChatLocal(context.Background(), "missing", "hi"))
	require.Len(t, got, 1)
	assert.Equal(t, `Error: agent "missing" not found.`, got[0])
}

func TestChatLocal_StreamsDeltas(t *testing.T) {
	client := newFakeClient()
	client.responses.streamEvents = []foundry.StreamEvent{
		{Type: "delta", Text: "Hello"},
		{Type: "delta", Text: ", world"},
		{Type: "done"},
	}
	bridge, registry := testBridge(client)
	cfg := registry.CreateConfig("helper", "", InstructionSpec{Purpose: "help"})

	got := collect(bridge.ChatLocal(context.Background(), cfg.ID, "hi"))
	assert.Equal(t, []string{"Hello", ", world"}, got)
}

func TestChatLocal_StreamError(t *testing.T) {
	client := newFakeClient()
	client.responses.streamEvents = []foundry.StreamEvent{
		{Type: "delta", Text: "partial"},
		{Type: "error", Error: "stream failed"},
	}
	bridge, registry := testBridge(client)
	cfg := registry.CreateConfig("helper", "", InstructionSpec{Purpose: "help"})

	got := collect(bridge.ChatLocal(context.Background(), cfg.ID, "hi"))
	require.Len(t, got, 2)
	assert.Equal(t, "partial", got[0])
	assert.Contains(t, got[1], "stream failed")
}

func TestChatLocal_ConversationFailure(t *testing.T) {
	client := newFakeClient()
	client.responses.conversationErr = errors.New("boom")
	bridge, registry := testBridge(client)
	cfg := registry.CreateConfig("helper", "", InstructionSpec{Purpose: "help"})

	got := collect(bridge.ChatLocal(context.Background(), cfg.ID, "hi"))
	require.Len(t, got, 1)
	assert.Contains(t, got[0], "boom")
}

func remoteAgent(id, name string, def any) *foundry.AgentRecord {
	return &foundry.AgentRecord{
		ID:   id,
		Name: name,
		Versions: &foundry.AgentVersions{
			Latest: &foundry.AgentVersion{Version: "3", Definition: def},
		},
	}
}

func TestChatRemote_EmitsTextParts(t *testing.T) {
	client := newFakeClient()
	client.agents["agt-1"] = remoteAgent("agt-1", "helper", nil)
	client.responses.response = &foundry.Response{
		Output: []foundry.OutputItem{
			{Type: "message", Content: []foundry.ContentPart{{Text: "first"}, {Text: "second"}}},
			{Type: "tool_call"},
			{Content: []foundry.ContentPart{{Text: "third"}}},
		},
	}
	bridge, _ := testBridge(client)

	got := collect(bridge.ChatRemote(context.Background(), "agt-1", "hi", ""))
	assert.Equal(t, []string{"first", "second", "third"}, got)

	req := client.responses.lastRequest
	require.NotNil(t, req.Agent)
	assert.Equal(t, "agent_reference", req.Agent.Type)
	assert.Equal(t, "helper", req.Agent.Name)
	assert.Equal(t, "3", req.Agent.Version)
	assert.Empty(t, req.Model)
}

func TestChatRemote_ThreadsConversation(t *testing.T) {
	client := newFakeClient()
	client.agents["agt-1"] = remoteAgent("agt-1", "helper", nil)
	client.responses.response = &foundry.Response{}
	bridge, _ := testBridge(client)

	collect(bridge.ChatRemote(context.Background(), "agt-1", "hi", "conv-9"))
	assert.Equal(t, "conv-9", client.responses.lastRequest.Conversation)
}

func TestChatRemote_DefaultVersion(t *testing.T) {
	client := newFakeClient()
	client.agents["agt-1"] = &foundry.AgentRecord{ID: "agt-1", Name: "helper"}
	client.responses.response = &foundry.Response{}
	bridge, _ := testBridge(client)

	collect(bridge.ChatRemote(context.Background(), "agt-1", "hi", ""))
	assert.Equal(t, "1", client.responses.lastRequest.Agent.Version)
}

func TestChatRemote_FetchFailure(t *testing.T) {
	client := newFakeClient()
	client.getErr = errors.New("lookup broke")
	bridge, _ := testBridge(client)

	got := collect(bridge.ChatRemote(context.Background(), "agt-1", "hi", ""))
	require.Len(t, got, 1)
	assert.Contains(t, got[0], "lookup broke")
}

func TestChatRemote_ServerErrorWithMCPTool(t *testing.T) {
	def := map[string]any{
		"model": "gpt-4o",
		"tools": []any{map[string]any{"type": "mcp"}},
	}
	client := newFakeClient()
	client.agents["agt-1"] = remoteAgent("agt-1", "helper", def)
	client.responses.responseErr = errors.New("agent service error (500): internal")
	bridge, _ := testBridge(client)

	got := collect(bridge.ChatRemote(context.Background(), "agt-1", "hi", ""))
	require.Len(t, got, 1)
	assert.Equal(t, mcpKnownIssueFragment, got[0])
}

func TestChatRemote_ServerErrorWithoutTools(t *testing.T) {
	client := newFakeClient()
	client.agents["agt-1"] = remoteAgent("agt-1", "helper", nil)
	client.responses.responseErr = errors.New("agent service error (500): internal")
	bridge, _ := testBridge(client)

	got := collect(bridge.ChatRemote(context.Background(), "agt-1", "hi", ""))
	require.Len(t, got, 1)
	assert.NotEqual(t, mcpKnownIssueFragment, got[0])
	assert.Contains(t, got[0], "500")
}

func TestChatRemote_NonServerErrorWithMCPTool(t *testing.T) {
	def := &foundry.PromptAgentDefinition{
		Model: "gpt-4o",
		Tools: []foundry.MCPToolSpec{{Type: "mcp"}},
	}
	client := newFakeClient()
	client.agents["agt-1"] = remoteAgent("agt-1", "helper", def)
	client.responses.responseErr = errors.New("agent service error (429): slow down")
	bridge, _ := testBridge(client)

	got := collect(bridge.ChatRemote(context.Background(), "agt-1", "hi", ""))
	require.Len(t, got, 1)
	assert.NotEqual(t, mcpKnownIssueFragment, got[0])
	assert.Contains(t, got[0], "429")
}

func TestChatRemote_Cancellation(t *testing.T) {
	client := newFakeClient()
	client.agents["agt-1"] = remoteAgent("agt-1", "helper", nil)
	client.responses.response = &foundry.Response{
		Output: []foundry.OutputItem{
			{Content: []foundry.ContentPart{{Text: "a"}, {Text: "b"}, {Text: "c"}}},
		},
	}
	bridge, _ := testBridge(client)

	ctx, cancel := context.WithCancel(context.Background())
	ch := bridge.ChatRemote(ctx, "agt-1", "hi", "")
	<-ch // take one fragment, then walk away
	cancel()

	// The producer must shut down and close the channel.
	for range ch {
	}
}
