package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/aretw0/contrib/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestManifest_AddCommand(t *testing.T) {
	m := domain.NewManifest()
	no := false

	m.AddCommand(domain.CommandDescriptor{ID: "ext.hello", Title: "Hello", Category: "Ext"})
	m.AddCommand(domain.CommandDescriptor{ID: "ext.quiet", Title: "Quiet", Activates: &no})
	m.AddActivationEvent("onCommand:ext.hello")

	assert.Equal(t, []string{"onCommand:ext.hello"}, m.ActivationEvents)
	require.Len(t, m.Contributes.Commands, 2)
	assert.Equal(t, "Ext", m.Contributes.Commands[0].Category)

	c, ok := m.Command("ext.quiet")
	require.True(t, ok)
	assert.Equal(t, "Quiet", c.Title)
}

func TestManifest_JSON(t *testing.T) {
	m := domain.NewManifest()
	m.AddCommand(domain.CommandDescriptor{ID: "a", Title: "A", Icon: domain.IconPath("$(play)")})
	m.AddCommand(domain.CommandDescriptor{ID: "b", Title: "B", Icon: domain.ThemedIcon(domain.ThemeMap{Light: "l.svg", Dark: "d.svg"})})
	m.AddMenuItems("editor/title", domain.MenuItem{Command: "a", When: "editorFocus", Group: "navigation"})

	data, err := json.Marshal(m)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"activationEvents": ["onCommand:a", "onCommand:b"],
		"contributes": {
			"commands": [
				{"command": "a", "title": "A", "icon": "$(play)"},
				{"command": "b", "title": "B", "icon": {"light": "l.svg", "dark": "d.svg"}}
			],
			"menus": {
				"editor/title": [{"command": "a", "when": "editorFocus", "group": "navigation"}]
			}
		}
	}`, string(data))

	var decoded domain.Manifest
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "$(play)", decoded.Contributes.Commands[0].Icon.Path)
	require.NotNil(t, decoded.Contributes.Commands[1].Icon.Themes)
	assert.Equal(t, "d.svg", decoded.Contributes.Commands[1].Icon.Themes.Dark)
}

func TestIcon_YAML(t *testing.T) {
	var d struct {
		Plain  *domain.Icon `yaml:"plain"`
		Themed *domain.Icon `yaml:"themed"`
	}
	src := "plain: icon.svg\nthemed:\n  light: l.svg\n  highContrast: hc.svg\n"
	require.NoError(t, yaml.Unmarshal([]byte(src), &d))

	assert.Equal(t, "icon.svg", d.Plain.Path)
	assert.Equal(t, "hc.svg", d.Themed.Themes.HighContrast)

	out, err := yaml.Marshal(d)
	require.NoError(t, err)
	assert.Contains(t, string(out), "plain: icon.svg")
	assert.Contains(t, string(out), "highContrast: hc.svg")
}

func TestManifest_Validate(t *testing.T) {
	m := domain.NewManifest()
	m.AddCommand(domain.CommandDescriptor{ID: "a"})
	require.NoError(t, m.Validate())

	m.AddCommand(domain.CommandDescriptor{ID: "a"})
	assert.ErrorIs(t, m.Validate(), domain.ErrInvalidManifest)

	m = domain.NewManifest()
	m.AddMenuItems("commandPalette", domain.MenuItem{When: "false"})
	assert.ErrorIs(t, m.Validate(), domain.ErrInvalidManifest)
}

func TestManifest_MergeInto(t *testing.T) {
	var pkg map[string]any
	require.NoError(t, json.Unmarshal([]byte(`{
		"name": "my-ext",
		"activationEvents": ["onStartupFinished", "onCommand:a"],
		"contributes": {
			"configuration": {"title": "My Ext"},
			"commands": [{"command": "stale"}]
		}
	}`), &pkg))

	m := domain.NewManifest()
	m.AddCommand(domain.CommandDescriptor{ID: "a", Title: "A"})
	m.AddCommand(domain.CommandDescriptor{ID: "b", Title: "B"})

	merged, err := m.MergeInto(pkg)
	require.NoError(t, err)

	assert.Equal(t, "my-ext", merged["name"])
	assert.Equal(t, []string{"onStartupFinished", "onCommand:a", "onCommand:b"}, merged["activationEvents"])

	contributes := merged["contributes"].(map[string]any)
	assert.Contains(t, contributes, "configuration")
	commands := contributes["commands"].([]any)
	require.Len(t, commands, 2)
	assert.Equal(t, "a", commands[0].(map[string]any)["command"])
}
