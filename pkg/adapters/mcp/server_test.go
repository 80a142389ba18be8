package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/contrib/pkg/adapters/memory"
	"github.com/aretw0/contrib/pkg/domain"
	"github.com/aretw0/contrib/pkg/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, opts ...Option) (*Server, *memory.Host) {
	t.Helper()
	host := memory.NewHost()
	host.Registry().Register("ext.sum", func(ctx context.Context, args ...any) (any, error) {
		total := 0.0
		for _, a := range args {
			n, ok := a.(float64)
			if !ok {
				return nil, errors.New("arguments must be numbers")
			}
			total += n
		}
		return total, nil
	})
	return NewServer(host, host.ContextStore(), opts...), host
}

func call(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return tc.Text
}

func TestListCommands(t *testing.T) {
	s, _ := newTestServer(t)
	res, err := s.handleListCommands(context.Background(), call(nil))
	require.NoError(t, err)
	assert.Equal(t, "[]", text(t, res))

	m := domain.NewManifest()
	m.AddCommand(domain.CommandDescriptor{ID: "ext.sum", Title: "Sum"})
	s, _ = newTestServer(t, WithManifest(func() *domain.Manifest { return m }))
	res, err = s.handleListCommands(context.Background(), call(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"command":"ext.sum","title":"Sum"}]`, text(t, res))
}

func TestExecuteCommand(t *testing.T) {
	s, _ := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleExecuteCommand(ctx, call(map[string]any{"id": "ext.sum", "args": "[1, 2, 3.5]"}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "6.5", text(t, res))

	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"missing id", map[string]any{}, "id is required"},
		{"set context", map[string]any{"id": "setContext"}, "use set_context"},
		{"bad args", map[string]any{"id": "ext.sum", "args": "{"}, "args must be a JSON array"},
		{"unknown", map[string]any{"id": "ext.nope"}, "command not found"},
		{"handler error", map[string]any{"id": "ext.sum", "args": `["x"]`}, "arguments must be numbers"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := s.handleExecuteCommand(ctx, call(tt.args))
			require.NoError(t, err)
			assert.True(t, res.IsError)
			assert.Contains(t, text(t, res), tt.want)
		})
	}
}

func TestContextTools(t *testing.T) {
	s, host := newTestServer(t, WithSchema(schema.Schema{"ext.count": schema.Int()}))
	ctx := context.Background()

	res, err := s.handleSetContext(ctx, call(map[string]any{"key": "ext.count", "value": "2"}))
	require.NoError(t, err)
	assert.False(t, res.IsError)

	res, err = s.handleSetContext(ctx, call(map[string]any{"key": "ext.count", "value": `"two"`}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = s.handleGetContext(ctx, call(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"ext.count":2}`, text(t, res))

	res, err = s.handleSetContext(ctx, call(map[string]any{"key": "ext.count"}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	_, err = host.ContextStore().Get(ctx, "ext.count")
	assert.ErrorIs(t, err, domain.ErrContextKeyNotFound)

	res, err = s.handleSetContext(ctx, call(map[string]any{}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestEvaluateWhen(t *testing.T) {
	s, host := newTestServer(t)
	ctx := context.Background()
	require.NoError(t, host.ContextStore().Set(ctx, "resourceFilename", "main_test.go"))

	out, err := s.handleEvaluateWhen(ctx, call(nil), map[string]interface{}{
		"clause": "resourceFilename ~= _test\\.go$ || explorerResourceIsFolder",
	})
	require.NoError(t, err)
	assert.True(t, out.Result)
	assert.Equal(t, []string{`resourceFilename ~= _test\.go$`, "explorerResourceIsFolder"}, out.Atoms)

	out, err = s.handleEvaluateWhen(ctx, call(nil), map[string]interface{}{
		"clause": "explorerResourceIsFolder",
		"values": `{"explorerResourceIsFolder": true}`,
	})
	require.NoError(t, err)
	assert.True(t, out.Result)

	_, err = s.handleEvaluateWhen(ctx, call(nil), map[string]interface{}{"clause": "k ~= ("})
	assert.Error(t, err)
	_, err = s.handleEvaluateWhen(ctx, call(nil), map[string]interface{}{"clause": "k", "values": "["})
	assert.Error(t, err)
}
