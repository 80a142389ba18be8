package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/contrib/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testContributions = `
commands:
  - id: ext.format
    title: Format Document
menus:
  editor/context:
    - command: ext.format
      when: editorLangId == go
context:
  ext.count: int
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCLI(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	file := writeFile(t, dir, "contributions.yaml", testContributions)

	t.Run("version", func(t *testing.T) {
		out, err := run(t, "version")
		require.NoError(t, err)
		assert.Contains(t, out, "contrib version ")
	})

	t.Run("check", func(t *testing.T) {
		out, err := run(t, "check", "-f", file)
		require.NoError(t, err)
		assert.Contains(t, out, "is valid!")

		bad := writeFile(t, dir, "bad.yaml", "commands:\n  - title: x\n")
		out, err = run(t, "check", "-f", bad)
		assert.Error(t, err)
		assert.Contains(t, out, "commands[0].id: required")
	})

	t.Run("manifest merge", func(t *testing.T) {
		pkg := writeFile(t, dir, "package.json", `{"name":"ext","activationEvents":["onStartupFinished"],"contributes":{"keybindings":[]}}`)

		out, err := run(t, "manifest", "-f", file, "--format", "json", "--merge", pkg)
		require.NoError(t, err)

		var doc map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &doc))
		assert.Equal(t, "ext", doc["name"])
		assert.Equal(t, []any{"onStartupFinished", "onCommand:ext.format"}, doc["activationEvents"])
		contributes := doc["contributes"].(map[string]any)
		assert.Contains(t, contributes, "keybindings")
		assert.Contains(t, contributes, "commands")
	})

	t.Run("eval", func(t *testing.T) {
		out, err := run(t, "eval", "-f", file, "editorLangId == go && ext.count == 2", "--set", "editorLangId=go", "--set", "ext.count=2")
		require.NoError(t, err)
		assert.Equal(t, "true\n", out)
	})

	t.Run("inspect mermaid", func(t *testing.T) {
		out, err := run(t, "inspect", "-f", file, "--format", "mermaid", "--set", "editorLangId=rust")
		require.NoError(t, err)
		assert.Contains(t, out, `menu_editor_context -- "editorLangId == go" --> cmd_ext_format`)
		assert.Contains(t, out, "class cmd_ext_format hidden;")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := run(t, "manifest", "-f", filepath.Join(dir, "missing.yaml"), "--format", "json", "--merge", "")
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestParseValues(t *testing.T) {
	values, err := parseValues([]string{"a=1", "b=true", "c=go", `d=["x"]`, "e="})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"a": 1.0,
		"b": true,
		"c": "go",
		"d": []any{"x"},
		"e": "",
	}, values)

	_, err = parseValues([]string{"novalue"})
	assert.Error(t, err)
}

func TestStoreMiddlewares(t *testing.T) {
	key := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{7}, 32))

	mws, err := storeMiddlewares(config.RedisConfig{})
	require.NoError(t, err)
	assert.Empty(t, mws)

	mws, err = storeMiddlewares(config.RedisConfig{
		EncryptionKey: key,
		FallbackKeys:  []string{key},
		Mask:          []string{"password"},
	})
	require.NoError(t, err)
	assert.Len(t, mws, 2)

	_, err = storeMiddlewares(config.RedisConfig{EncryptionKey: "c2hvcnQ="})
	assert.ErrorContains(t, err, "invalid redis encryption key")

	_, err = storeMiddlewares(config.RedisConfig{EncryptionKey: key, FallbackKeys: []string{"!"}})
	assert.ErrorContains(t, err, "invalid redis fallback key")

	_, err = storeMiddlewares(config.RedisConfig{Mask: []string{"("}})
	assert.ErrorContains(t, err, "invalid redis mask pattern")
}
