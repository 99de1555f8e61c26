package gateway

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vigtec/agentportal/internal/foundry"
)

func dialChatSocket(t *testing.T, mux *http.ServeMux) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestWebSocket_ChatTurn(t *testing.T) {
	client := &fakeClient{
		responses: &fakeResponses{response: &foundry.Response{
			Output: []foundry.OutputItem{
				{Content: []foundry.ContentPart{{Text: "Hi"}, {Text: "!"}}},
			},
		}},
		agents: []foundry.AgentRecord{{ID: "agt-1", Name: "helper"}},
	}
	_, mux := testServer(t, client)
	conn := dialChatSocket(t, mux)

	require.NoError(t, conn.WriteJSON(wsChatRequest{AgentID: "agt-1", Message: "hello"}))

	var frames []wsFrame
	for {
		var f wsFrame
		require.NoError(t, conn.ReadJSON(&f))
		frames = append(frames, f)
		if f.Type == "done" || f.Type == "error" {
			break
		}
	}

	require.Len(t, frames, 3)
	assert.Equal(t, wsFrame{Type: "delta", Text: "Hi"}, frames[0])
	assert.Equal(t, wsFrame{Type: "delta", Text: "!"}, frames[1])
	assert.Equal(t, wsFrame{Type: "done"}, frames[2])
}

func TestWebSocket_SequentialTurns(t *testing.T) {
	client := &fakeClient{
		responses: &fakeResponses{response: &foundry.Response{
			Output: []foundry.OutputItem{{Content: []foundry.ContentPart{{Text: "ok"}}}},
		}},
		agents: []foundry.AgentRecord{{ID: "agt-1", Name: "helper"}},
	}
	_, mux := testServer(t, client)
	conn := dialChatSocket(t, mux)

	for turn := 0; turn < 2; turn++ {
		require.NoError(t, conn.WriteJSON(wsChatRequest{AgentID: "agt-1", Message: "hello"}))

		var f wsFrame
		require.NoError(t, conn.ReadJSON(&f))
		assert.Equal(t, "delta", f.Type)
		require.NoError(t, conn.ReadJSON(&f))
		assert.Equal(t, "done", f.Type)
	}
}

func TestWebSocket_RejectsEmptyRequest(t *testing.T) {
	_, mux := testServer(t, &fakeClient{responses: &fakeResponses{}})
	conn := dialChatSocket(t, mux)

	require.NoError(t, conn.WriteJSON(wsChatRequest{}))

	var f wsFrame
	require.NoError(t, conn.ReadJSON(&f))
	assert.Equal(t, "error", f.Type)
	assert.NotEmpty(t, f.Error)
}
