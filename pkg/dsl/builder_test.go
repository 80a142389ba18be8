package dsl

import (
	"encoding/json"
	"testing"

	"github.com/aretw0/contrib/pkg/domain"
	"github.com/aretw0/contrib/pkg/when"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Manifest(t *testing.T) {
	b := New()

	b.Command("ext.format").
		Title("Format Document").
		Category("Ext").
		Icon("$(symbol-color)")

	b.Command("ext.preview").
		Title("Preview").
		ThemedIcon(domain.ThemeMap{Light: "light.svg", Dark: "dark.svg"}).
		NoActivation()

	b.Menu("editor/context").
		Item("ext.format").
		Alt("ext.preview").
		Group("1_modification").
		WhenFunc(func(wc when.Context) bool {
			return wc.Get("editorLangId").Equals("go") && !wc.Get("editorReadonly").Truthy()
		}).
		Item("ext.preview").
		When("resourceExtname == .md")

	m, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, []string{"onCommand:ext.format"}, m.ActivationEvents)
	require.Len(t, m.Contributes.Commands, 2)
	assert.Equal(t, "Format Document", m.Contributes.Commands[0].Title)

	items := m.Contributes.Menus["editor/context"]
	require.Len(t, items, 2)
	assert.Equal(t, domain.MenuItem{
		Command: "ext.format",
		Alt:     "ext.preview",
		When:    "editorLangId == go && !editorReadonly",
		Group:   "1_modification",
	}, items[0])
	assert.Equal(t, domain.MenuItem{Command: "ext.preview", When: "resourceExtname == .md"}, items[1])

	data, err := json.Marshal(m.Contributes.Commands[1])
	require.NoError(t, err)
	assert.JSONEq(t, `{"command":"ext.preview","title":"Preview","icon":{"light":"light.svg","dark":"dark.svg"}}`, string(data))
}

func TestBuilder_SameIDReturnsSameBuilder(t *testing.T) {
	b := New()
	assert.Same(t, b.Command("a"), b.Command("a"))
	assert.Same(t, b.Menu("m"), b.Menu("m"))

	b.Menu("empty")
	m, err := b.Build()
	require.NoError(t, err)
	assert.Empty(t, m.Contributes.Menus, "menus without items are not contributed")
}

func TestBuilder_CollectsErrors(t *testing.T) {
	b := New()
	b.Command("ext.a")

	deep := func(wc when.Context) bool {
		for i := range 40 {
			if !wc.Get("k" + string(rune('a'+i%26)) + string(rune('a'+i/26))).Truthy() {
				return false
			}
		}
		return true
	}
	flaky := 0
	b.Menu("m1").Item("ext.a").WhenFunc(deep)
	b.Menu("m2").Item("ext.a").WhenFunc(func(wc when.Context) bool {
		flaky++
		if flaky == 1 {
			return wc.Get("x").Truthy()
		}
		return wc.Get("y").Truthy()
	})

	_, err := b.Build()
	require.Error(t, err)
	assert.ErrorIs(t, err, when.ErrDepthExceeded)
	assert.ErrorIs(t, err, when.ErrNonDeterministic)
	assert.Contains(t, err.Error(), "menu m1")
	assert.Contains(t, err.Error(), "menu m2")
}

func TestBuilder_Validate(t *testing.T) {
	b := New()
	b.Command("")
	_, err := b.Build()
	assert.ErrorIs(t, err, domain.ErrInvalidManifest)
}
