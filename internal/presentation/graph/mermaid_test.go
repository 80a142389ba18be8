package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/contrib/internal/presentation/graph"
	"github.com/aretw0/contrib/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func testManifest() *domain.Manifest {
	m := domain.NewManifest()
	m.AddCommand(domain.CommandDescriptor{ID: "ext.run", Title: "Run \"it\""})
	m.AddCommand(domain.CommandDescriptor{ID: "ext.debug"})
	m.AddMenuItems("editor/title",
		domain.MenuItem{Command: "ext.run", Alt: "ext.debug", Group: "navigation", When: "editorLangId == go"},
	)
	m.AddMenuItems("commandPalette",
		domain.MenuItem{Command: "ext.debug", When: "inDebugMode"},
	)
	return m
}

func TestGenerateMermaid(t *testing.T) {
	out := graph.GenerateMermaid(testManifest(), nil)

	for _, want := range []string{
		"graph LR\n",
		`menu_commandPalette(("commandPalette"))`,
		`menu_editor_title(("editor/title"))`,
		`cmd_ext_run["Run 'it' <br/> ext.run"]`,
		`cmd_ext_debug["ext.debug"]`,
		`menu_editor_title -- "navigation: editorLangId == go" --> cmd_ext_run`,
		`cmd_ext_run -. alt .-> cmd_ext_debug`,
		`menu_commandPalette -- "inDebugMode" --> cmd_ext_debug`,
	} {
		assert.Contains(t, out, want)
	}
	assert.Equal(t, 1, strings.Count(out, `cmd_ext_debug["ext.debug"]`), "commands are declared once")
	assert.NotContains(t, out, "classDef")
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	out := graph.GenerateMermaid(testManifest(), &graph.Overlay{
		Values: map[string]any{"editorLangId": "go"},
	})

	assert.Contains(t, out, "class cmd_ext_run visible;")
	assert.Contains(t, out, "class cmd_ext_debug hidden;")
}
