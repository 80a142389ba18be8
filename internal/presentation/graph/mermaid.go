package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/contrib/pkg/domain"
	"github.com/aretw0/contrib/pkg/when"
)

// Overlay contains context values used to highlight the visible menu items.
type Overlay struct {
	Values map[string]any
}

// GenerateMermaid produces a Mermaid flowchart of the menus of a manifest.
// It applies semantic styling:
// - Menu: ((Circle))
// - Command: [Rectangle], labelled with its title when it has one
// - Edge from menu to command, labelled with the group and when-clause
// - Dotted edge from a command to its alt command
// With an overlay, commands are classed visible or hidden by evaluating each
// when-clause against the overlay values.
func GenerateMermaid(m *domain.Manifest, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	titles := make(map[string]string)
	for _, c := range m.Contributes.Commands {
		titles[c.Command] = c.Title
	}

	declared := make(map[string]bool)
	declare := func(id string) string {
		safeID := "cmd_" + sanitizeMermaidID(id)
		if declared[safeID] {
			return safeID
		}
		declared[safeID] = true
		label := id
		if title := titles[id]; title != "" {
			label = title + " <br/> " + id
		}
		sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", safeID, escape(label)))
		return safeID
	}

	visible := make(map[string]bool)
	hidden := make(map[string]bool)

	for _, menuID := range m.MenuIDs() {
		safeMenu := "menu_" + sanitizeMermaidID(menuID)
		sb.WriteString(fmt.Sprintf("    %s((\"%s\"))\n", safeMenu, escape(menuID)))

		for _, item := range m.Contributes.Menus[menuID] {
			safeCmd := declare(item.Command)

			var label []string
			if item.Group != "" {
				label = append(label, item.Group)
			}
			if item.When != "" {
				label = append(label, item.When)
			}
			arrow := "-->"
			if len(label) > 0 {
				arrow = fmt.Sprintf("-- \"%s\" -->", escape(strings.Join(label, ": ")))
			}
			sb.WriteString(fmt.Sprintf("    %s %s %s\n", safeMenu, arrow, safeCmd))

			if item.Alt != "" {
				safeAlt := declare(item.Alt)
				sb.WriteString(fmt.Sprintf("    %s -. alt .-> %s\n", safeCmd, safeAlt))
			}

			if overlay != nil {
				if itemVisible(item.When, overlay.Values) {
					visible[safeCmd] = true
				} else {
					hidden[safeCmd] = true
				}
			}
		}
	}

	// Apply Overlay Styles
	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visible fill:#e8f5e9,stroke:#2e7d32,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef hidden fill:#eeeeee,stroke:#9e9e9e,stroke-dasharray:4,color:#000;\n")

		for _, id := range sortedKeys(visible) {
			sb.WriteString(fmt.Sprintf("    class %s visible;\n", id))
		}
		for _, id := range sortedKeys(hidden) {
			// A command shown in any menu counts as visible.
			if !visible[id] {
				sb.WriteString(fmt.Sprintf("    class %s hidden;\n", id))
			}
		}
	}

	return sb.String()
}

func itemVisible(clause string, values map[string]any) bool {
	if clause == "" {
		return true
	}
	dnf, err := when.Parse(clause)
	if err != nil {
		return false
	}
	ok, err := dnf.EvalValues(values)
	return err == nil && ok
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
