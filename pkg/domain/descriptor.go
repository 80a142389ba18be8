package domain

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// CommandDescriptor declares a command.
type CommandDescriptor struct {
	// ID is the unique command id.
	ID string `json:"id" yaml:"id" mapstructure:"id"`

	// Title is the human-readable command title.
	Title string `json:"title" yaml:"title" mapstructure:"title"`

	// Activates controls whether invoking the command activates the extension.
	// Nil means true.
	Activates *bool `json:"activates,omitempty" yaml:"activates,omitempty" mapstructure:"activates"`

	// Category is shown as a prefix of the title.
	Category string `json:"category,omitempty" yaml:"category,omitempty" mapstructure:"category"`

	// Icon is either a single icon or one icon per theme.
	Icon *Icon `json:"icon,omitempty" yaml:"icon,omitempty" mapstructure:"icon"`
}

// ActivatesOnCommand reports whether the command adds an onCommand activation event.
func (d CommandDescriptor) ActivatesOnCommand() bool {
	return d.Activates == nil || *d.Activates
}

// Contribution returns the manifest entry for the command.
func (d CommandDescriptor) Contribution() CommandContribution {
	return CommandContribution{
		Command:  d.ID,
		Title:    d.Title,
		Category: d.Category,
		Icon:     d.Icon,
	}
}

// ThemeMap holds one value per color theme kind.
type ThemeMap struct {
	Light            string `json:"light,omitempty" yaml:"light,omitempty" mapstructure:"light"`
	Dark             string `json:"dark,omitempty" yaml:"dark,omitempty" mapstructure:"dark"`
	HighContrast     string `json:"highContrast,omitempty" yaml:"highContrast,omitempty" mapstructure:"highContrast"`
	HighContrastDark string `json:"highContrastDark,omitempty" yaml:"highContrastDark,omitempty" mapstructure:"highContrastDark"`
}

// Icon is either a path (or codicon reference) or a ThemeMap.
// It serializes as a plain string in the first case and as an object otherwise.
type Icon struct {
	Path   string
	Themes *ThemeMap
}

// IconPath returns an Icon for a single path.
func IconPath(path string) *Icon {
	return &Icon{Path: path}
}

// ThemedIcon returns an Icon with per-theme paths.
func ThemedIcon(themes ThemeMap) *Icon {
	return &Icon{Themes: &themes}
}

func (i Icon) MarshalJSON() ([]byte, error) {
	if i.Themes != nil {
		return json.Marshal(i.Themes)
	}
	return json.Marshal(i.Path)
}

func (i *Icon) UnmarshalJSON(data []byte) error {
	var path string
	if err := json.Unmarshal(data, &path); err == nil {
		*i = Icon{Path: path}
		return nil
	}
	var themes ThemeMap
	if err := json.Unmarshal(data, &themes); err != nil {
		return fmt.Errorf("icon must be a string or a theme map: %w", err)
	}
	*i = Icon{Themes: &themes}
	return nil
}

func (i Icon) MarshalYAML() (any, error) {
	if i.Themes != nil {
		return i.Themes, nil
	}
	return i.Path, nil
}

func (i *Icon) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*i = Icon{Path: value.Value}
		return nil
	case yaml.MappingNode:
		var themes ThemeMap
		if err := value.Decode(&themes); err != nil {
			return err
		}
		*i = Icon{Themes: &themes}
		return nil
	default:
		return fmt.Errorf("line %d: icon must be a string or a theme map", value.Line)
	}
}
