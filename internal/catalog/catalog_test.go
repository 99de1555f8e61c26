package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vigtec/agentportal/internal/foundry"
	"github.com/vigtec/agentportal/internal/logging"
)

// fakeClient is an in-memory foundry.Client for catalog tests.
type fakeClient struct {
	agents      []foundry.AgentRecord
	listErr     error
	connections []foundry.ConnectionRecord
	connErr     error

	createdName string
	createdDef  *foundry.PromptAgentDefinition
	createErr   error
}

func (f *fakeClient) ListAgents(ctx context.Context) ([]foundry.AgentRecord, error) {
	return f.agents, f.listErr
}

func (f *fakeClient) GetAgent(ctx context.Context, nameOrID string) (*foundry.AgentRecord, error) {
	for i := range f.agents {
		if f.agents[i].ID == nameOrID || f.agents[i].Name == nameOrID {
			return &f.agents[i], nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeClient) CreateAgent(ctx context.Context, name string, def *foundry.PromptAgentDefinition) (*foundry.AgentRecord, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.createdName = name
	f.createdDef = def
	return &foundry.AgentRecord{ID: "agt-new", Name: name}, nil
}

func (f *fakeClient) ListConnections(ctx context.Context) ([]foundry.ConnectionRecord, error) {
	return f.connections, f.connErr
}

func (f *fakeClient) Responses() foundry.ResponsesClient { return nil }

func testCatalog(client *fakeClient) *Catalog {
	log := logging.New(nil, "silent")
	return New(client, NewConnectionDirectory(client, "never", log), log)
}

func TestCatalogList_NormalizesBothDefinitionShapes(t *testing.T) {
	mapping := map[string]any{
		"model": "gpt-4o",
		"tools": []any{map[string]any{"type": "mcp"}},
	}
	typed := &foundry.PromptAgentDefinition{
		Model: "gpt-4o",
		Tools: []foundry.MCPToolSpec{{Type: "mcp"}},
	}

	client := &fakeClient{agents: []foundry.AgentRecord{
		{ID: "a1", Name: "mapped", Versions: &foundry.AgentVersions{Latest: &foundry.AgentVersion{Definition: mapping}}},
		{ID: "a2", Name: "typed", Versions: &foundry.AgentVersions{Latest: &foundry.AgentVersion{Definition: typed}}},
	}}

	list, err := testCatalog(client).List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, list[0].Model, list[1].Model)
	assert.Equal(t, list[0].HasTools, list[1].HasTools)
	assert.Equal(t, list[0].ToolTypes, list[1].ToolTypes)
	assert.True(t, list[0].HasTools)
	assert.Equal(t, []string{"mcp"}, list[0].ToolTypes)
}

func TestCatalogList_HasToolsMatchesToolTypes(t *testing.T) {
	client := &fakeClient{agents: []foundry.AgentRecord{
		{ID: "a1", Name: "bare"},
		{ID: "a2", Name: "no-tools", Versions: &foundry.AgentVersions{Latest: &foundry.AgentVersion{
			Definition: map[string]any{"model": "gpt-4o"},
		}}},
		{ID: "a3", Name: "tooled", Versions: &foundry.AgentVersions{Latest: &foundry.AgentVersion{
			Definition: map[string]any{"tools": []any{map[string]any{"type": "mcp"}}},
		}}},
	}}

	list, err := testCatalog(client).List(context.Background())
	require.NoError(t, err)

	for _, a := range list {
		assert.Equal(t, a.HasTools, len(a.ToolTypes) > 0, "agent %s", a.Name)
	}
}

func TestCatalogList_NamelessAgent(t *testing.T) {
	client := &fakeClient{agents: []foundry.AgentRecord{{ID: "a1"}}}

	list, err := testCatalog(client).List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "unnamed", list[0].Name)
}

func TestCatalogList_VersionMetadata(t *testing.T) {
	client := &fakeClient{agents: []foundry.AgentRecord{
		{ID: "a1", Name: "x", Versions: &foundry.AgentVersions{Latest: &foundry.AgentVersion{
			Description: "does things",
			CreatedAt:   "2026-02-01T10:00:00Z",
			Definition:  map[string]any{"model": "gpt-4o"},
		}}},
	}}

	list, err := testCatalog(client).List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "does things", list[0].Description)
	assert.Equal(t, "2026-02-01T10:00:00Z", list[0].CreatedAt)
	assert.Equal(t, "gpt-4o", list[0].Model)
}

func TestCatalogList_RemoteFailure(t *testing.T) {
	client := &fakeClient{listErr: errors.New("down")}
	_, err := testCatalog(client).List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "down")
}

func TestCatalogCreate_SanitizesName(t *testing.T) {
	client := &fakeClient{}
	created, err := testCatalog(client).Create(context.Background(), "FAQ Bot!!", "instructions", "gpt-4o", nil)
	require.NoError(t, err)

	assert.Equal(t, "FAQ-Bot", client.createdName)
	assert.Equal(t, "FAQ-Bot", created.Name)
	assert.Equal(t, "agt-new", created.ID)
	assert.Equal(t, "gpt-4o", created.Model)
	assert.Empty(t, created.Description)
	assert.Empty(t, created.CreatedAt)
}

func TestCatalogCreate_NoToolsMeansNoToolsField(t *testing.T) {
	client := &fakeClient{}
	_, err := testCatalog(client).Create(context.Background(), "helper", "i", "gpt-4o", nil)
	require.NoError(t, err)

	require.NotNil(t, client.createdDef)
	assert.Equal(t, "prompt_agent", client.createdDef.Kind)
	assert.Nil(t, client.createdDef.Tools)
}

func TestCatalogCreate_ResolvesTools(t *testing.T) {
	client := &fakeClient{connections: []foundry.ConnectionRecord{
		{ID: "c1", Name: "search", Type: "REMOTE_TOOL", Target: "https://search.example"},
		{ID: "c2", Name: "db", Type: "AZURE_STORAGE", Target: "https://db.example"},
	}}

	_, err := testCatalog(client).Create(context.Background(), "helper", "i", "gpt-4o", []string{"search", "missing"})
	require.NoError(t, err)

	require.NotNil(t, client.createdDef)
	require.Len(t, client.createdDef.Tools, 1)
	tool := client.createdDef.Tools[0]
	assert.Equal(t, "mcp", tool.Type)
	assert.Equal(t, "search", tool.ServerLabel)
	assert.Equal(t, "https://search.example", tool.ServerURL)
	assert.Equal(t, "c1", tool.ProjectConnectionID)
	assert.Equal(t, []string{}, tool.AllowedTools)
	assert.Equal(t, "never", tool.RequireApproval)
}

func TestCatalogCreate_RemoteFailure(t *testing.T) {
	client := &fakeClient{createErr: errors.New("quota exceeded")}
	_, err := testCatalog(client).Create(context.Background(), "helper", "i", "gpt-4o", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}
