package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/contrib/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const contributionsYAML = `
commands:
  - id: ext.format
    title: Format Document
    category: Ext
    icon: $(symbol-color)
  - id: ext.preview
    title: Preview
    activates: false
    icon:
      light: light.svg
      dark: dark.svg
menus:
  editor/context:
    - command: ext.format
      group: 1_modification
      when: editorLangId == go && !editorReadonly
    - command: ext.preview
      alt: ext.format
context:
  ext.lang: string
  ext.count: int
`

func TestParse_YAML(t *testing.T) {
	f, err := Parse([]byte(contributionsYAML), FormatYAML)
	require.NoError(t, err)

	require.Len(t, f.Commands, 2)
	assert.Equal(t, domain.IconPath("$(symbol-color)"), f.Commands[0].Icon)
	assert.Equal(t, domain.ThemedIcon(domain.ThemeMap{Light: "light.svg", Dark: "dark.svg"}), f.Commands[1].Icon)
	assert.False(t, f.Commands[1].ActivatesOnCommand())

	m, err := f.Manifest()
	require.NoError(t, err)
	assert.Equal(t, []string{"onCommand:ext.format"}, m.ActivationEvents)
	assert.Equal(t, []domain.MenuItem{
		{Command: "ext.format", Group: "1_modification", When: "editorLangId == go && !editorReadonly"},
		{Command: "ext.preview", Alt: "ext.format"},
	}, m.Contributes.Menus["editor/context"])

	s, err := f.Schema()
	require.NoError(t, err)
	assert.Equal(t, "int", s["ext.count"].Name())
}

func TestLoad_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contributions.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"commands": [{"id": "ext.a", "title": "A", "icon": {"highContrast": "hc.svg"}}],
		"menus": {"commandPalette": [{"command": "ext.a", "when": "ext.count == 3"}]}
	}`), 0o644))

	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "hc.svg", f.Commands[0].Icon.Themes.HighContrast)

	m, err := f.Manifest()
	require.NoError(t, err)
	assert.Equal(t, "ext.count == 3", m.Contributes.Menus["commandPalette"][0].When)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Parse([]byte("commands: [}"), FormatYAML)
	assert.Error(t, err)

	_, err = Parse([]byte("command: []"), FormatYAML)
	assert.ErrorContains(t, err, "command", "unknown fields are rejected")
}

func TestFile_Validate(t *testing.T) {
	f, err := Parse([]byte(`
commands:
  - id: ext.a
  - id: ext.a
  - title: no id
menus:
  view/title:
    - when: "a && "
    - command: ext.a
      when: "k ~= ("
context:
  ext.k: map
`), FormatYAML)
	require.NoError(t, err)

	err = f.Validate()
	require.Error(t, err)

	var keys []string
	for _, e := range ValidationErrors(err) {
		var ve *ValidationError
		require.ErrorAs(t, e, &ve)
		keys = append(keys, ve.Key)
	}
	assert.Equal(t, []string{
		"commands[1].id",
		"commands[2].id",
		"menus[view/title][0].command",
		"menus[view/title][0].when",
		"menus[view/title][1].when",
		"context.ext.k",
	}, keys)

	_, err = f.Manifest()
	assert.Error(t, err)
	_, err = f.Schema()
	assert.Error(t, err)
}
