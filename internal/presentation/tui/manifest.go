package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/contrib/pkg/domain"
)

// ManifestMarkdown describes a manifest as a markdown document.
func ManifestMarkdown(m *domain.Manifest) string {
	var sb strings.Builder
	sb.WriteString("# Contributions\n\n")

	sb.WriteString("## Activation events\n\n")
	if len(m.ActivationEvents) == 0 {
		sb.WriteString("_none_\n\n")
	}
	for _, e := range m.ActivationEvents {
		fmt.Fprintf(&sb, "- `%s`\n", e)
	}
	if len(m.ActivationEvents) > 0 {
		sb.WriteString("\n")
	}

	sb.WriteString("## Commands\n\n")
	if len(m.Contributes.Commands) == 0 {
		sb.WriteString("_none_\n\n")
	} else {
		sb.WriteString("| Command | Title | Category |\n|---|---|---|\n")
		for _, c := range m.Contributes.Commands {
			fmt.Fprintf(&sb, "| `%s` | %s | %s |\n", c.Command, cell(c.Title), cell(c.Category))
		}
		sb.WriteString("\n")
	}

	for _, id := range m.MenuIDs() {
		fmt.Fprintf(&sb, "## Menu `%s`\n\n", id)
		sb.WriteString("| Command | Alt | Group | When |\n|---|---|---|---|\n")
		for _, item := range m.Contributes.Menus[id] {
			when := ""
			if item.When != "" {
				when = "`" + item.When + "`"
			}
			fmt.Fprintf(&sb, "| `%s` | %s | %s | %s |\n", item.Command, cell(item.Alt), cell(item.Group), cell(when))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func cell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
