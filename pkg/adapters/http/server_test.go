package http

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/contrib/pkg/adapters/memory"
	"github.com/aretw0/contrib/pkg/domain"
	"github.com/aretw0/contrib/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T, opts ...Option) (http.Handler, *memory.Host) {
	t.Helper()
	host := memory.NewHost()
	host.Registry().Register("ext.greet", func(ctx context.Context, args ...any) (any, error) {
		if len(args) == 0 {
			return nil, errors.New("missing name")
		}
		return "hello " + args[0].(string), nil
	})
	return NewHandler(host, host.ContextStore(), opts...), host
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestServer_Health(t *testing.T) {
	h, _ := newTestHandler(t)

	w := do(t, h, "GET", "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = do(t, h, "GET", "/info", "")
	assert.Contains(t, w.Body.String(), `"app":"contrib-http"`)

	w = do(t, h, "OPTIONS", "/context", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_Manifest(t *testing.T) {
	h, _ := newTestHandler(t)
	assert.Equal(t, http.StatusNotFound, do(t, h, "GET", "/manifest", "").Code)

	m := domain.NewManifest()
	m.AddCommand(domain.CommandDescriptor{ID: "ext.greet", Title: "Greet"})
	h, _ = newTestHandler(t, WithManifest(func() *domain.Manifest { return m }))

	w := do(t, h, "GET", "/manifest", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"activationEvents": ["onCommand:ext.greet"],
		"contributes": {"commands": [{"command": "ext.greet", "title": "Greet"}]}
	}`, w.Body.String())
}

func TestServer_Context(t *testing.T) {
	h, host := newTestHandler(t, WithSchema(schema.Schema{"ext.count": schema.Int()}))
	ctx := context.Background()

	assert.Equal(t, http.StatusNoContent, do(t, h, "PUT", "/context/ext.lang", `"go"`).Code)
	assert.Equal(t, http.StatusNoContent, do(t, h, "PUT", "/context/ext.count", `3`).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, do(t, h, "PUT", "/context/ext.count", `"three"`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, "PUT", "/context/ext.lang", `{`).Code)

	v, err := host.ContextStore().Get(ctx, "ext.lang")
	require.NoError(t, err)
	assert.Equal(t, "go", v)

	w := do(t, h, "GET", "/context", "")
	assert.JSONEq(t, `{"ext.lang":"go","ext.count":3}`, w.Body.String())

	assert.Equal(t, http.StatusNoContent, do(t, h, "DELETE", "/context/ext.lang", "").Code)
	_, err = host.ContextStore().Get(ctx, "ext.lang")
	assert.ErrorIs(t, err, domain.ErrContextKeyNotFound)
}

func TestServer_ExecuteCommand(t *testing.T) {
	h, _ := newTestHandler(t)

	w := do(t, h, "POST", "/commands/ext.greet", `{"args":["world"]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"result":"hello world"}`, w.Body.String())

	assert.Equal(t, http.StatusInternalServerError, do(t, h, "POST", "/commands/ext.greet", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, "POST", "/commands/ext.missing", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, "POST", "/commands/setContext", `{"args":["k",1]}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, "POST", "/commands/ext.greet", `[`).Code)
}

func TestServer_EvalWhen(t *testing.T) {
	h, _ := newTestHandler(t)
	do(t, h, "PUT", "/context/editorLangId", `"go"`)

	w := do(t, h, "POST", "/when/eval", `{"clause":"editorLangId == go && !editorReadonly"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp EvalResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Result)
	assert.Equal(t, []string{"editorLangId == go", "editorReadonly"}, resp.Atoms)

	w = do(t, h, "POST", "/when/eval", `{"clause":"editorLangId == go","values":{"editorLangId":"rust"}}`)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Result)

	w = do(t, h, "POST", "/when/eval", `{"clause":""}`)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Result, "the empty clause is unsatisfiable")
	assert.Empty(t, resp.Atoms)

	assert.Equal(t, http.StatusBadRequest, do(t, h, "POST", "/when/eval", `{"clause":"a && "}`).Code)
}

func TestServer_Metrics(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("contrib_up 1\n"))
	})
	h, _ := newTestHandler(t, WithMetrics(metrics))
	assert.Equal(t, "contrib_up 1\n", do(t, h, "GET", "/metrics", "").Body.String())

	h, _ = newTestHandler(t)
	assert.Equal(t, http.StatusNotFound, do(t, h, "GET", "/metrics", "").Code)
}

func TestSubscribeEvents(t *testing.T) {
	h, _ := newTestHandler(t)
	srv := httptest.NewServer(h)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", srv.URL+"/events?watch=ext.ready", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	lines := bufio.NewScanner(resp.Body)
	readData := func() string {
		for lines.Scan() {
			if data, ok := strings.CutPrefix(lines.Text(), "data: "); ok {
				return data
			}
		}
		return ""
	}
	require.Equal(t, "connected", readData(), "subscription is registered before the ping")

	for _, path := range []string{"/context/ext.other", "/context/ext.ready"} {
		put, err := http.NewRequest("PUT", srv.URL+path, strings.NewReader("true"))
		require.NoError(t, err)
		putResp, err := http.DefaultClient.Do(put)
		require.NoError(t, err)
		putResp.Body.Close()
	}

	var event domain.ContextEvent
	require.NoError(t, json.Unmarshal([]byte(readData()), &event))
	assert.Equal(t, "ext.ready", event.Key, "unwatched keys are filtered")
	assert.Equal(t, true, event.Value)
	assert.Equal(t, domain.EventContextSet, event.Type)
}

func TestStreamManager_DropsWhenFull(t *testing.T) {
	sm := NewStreamManager()
	ch, cancel := sm.Subscribe()
	for range 20 {
		sm.Broadcast("k", "msg")
	}
	assert.Len(t, ch, 10)
	cancel()
	cancel()
}
