package domain

import (
	"fmt"
	"slices"
)

// CommandContribution is a command as it appears in contributes.commands.
type CommandContribution struct {
	Command  string `json:"command" yaml:"command"`
	Title    string `json:"title,omitempty" yaml:"title,omitempty"`
	Category string `json:"category,omitempty" yaml:"category,omitempty"`
	Icon     *Icon  `json:"icon,omitempty" yaml:"icon,omitempty"`
}

// MenuItem is one entry of contributes.menus[<menu id>].
type MenuItem struct {
	Command string `json:"command" yaml:"command" mapstructure:"command"`
	Alt     string `json:"alt,omitempty" yaml:"alt,omitempty" mapstructure:"alt"`
	When    string `json:"when,omitempty" yaml:"when,omitempty" mapstructure:"when"`
	Group   string `json:"group,omitempty" yaml:"group,omitempty" mapstructure:"group"`
}

// Contributes is the contributes section of an extension manifest.
type Contributes struct {
	Commands []CommandContribution `json:"commands,omitempty" yaml:"commands,omitempty"`
	Menus    map[string][]MenuItem `json:"menus,omitempty" yaml:"menus,omitempty"`
}

// Manifest is the part of package.json that contrib owns.
type Manifest struct {
	ActivationEvents []string    `json:"activationEvents" yaml:"activationEvents"`
	Contributes      Contributes `json:"contributes" yaml:"contributes"`
}

// NewManifest returns an empty manifest.
func NewManifest() *Manifest {
	return &Manifest{ActivationEvents: []string{}}
}

// AddActivationEvent appends an event unless it is already present.
func (m *Manifest) AddActivationEvent(event string) {
	if !slices.Contains(m.ActivationEvents, event) {
		m.ActivationEvents = append(m.ActivationEvents, event)
	}
}

// AddCommand contributes a command and its activation event.
func (m *Manifest) AddCommand(d CommandDescriptor) {
	m.Contributes.Commands = append(m.Contributes.Commands, d.Contribution())
	if d.ActivatesOnCommand() {
		m.AddActivationEvent("onCommand:" + d.ID)
	}
}

// AddMenuItems appends items to a menu.
func (m *Manifest) AddMenuItems(menuID string, items ...MenuItem) {
	if m.Contributes.Menus == nil {
		m.Contributes.Menus = make(map[string][]MenuItem)
	}
	m.Contributes.Menus[menuID] = append(m.Contributes.Menus[menuID], items...)
}

// Command looks up a contributed command by id.
func (m *Manifest) Command(id string) (CommandContribution, bool) {
	for _, c := range m.Contributes.Commands {
		if c.Command == id {
			return c, true
		}
	}
	return CommandContribution{}, false
}

// MenuIDs returns the menu ids in sorted order.
func (m *Manifest) MenuIDs() []string {
	ids := make([]string, 0, len(m.Contributes.Menus))
	for id := range m.Contributes.Menus {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Validate checks for empty or duplicate command ids and menu items without a command.
func (m *Manifest) Validate() error {
	seen := make(map[string]bool)
	for i, c := range m.Contributes.Commands {
		if c.Command == "" {
			return fmt.Errorf("%w: command #%d has no id", ErrInvalidManifest, i)
		}
		if seen[c.Command] {
			return fmt.Errorf("%w: command %q contributed twice", ErrInvalidManifest, c.Command)
		}
		seen[c.Command] = true
	}
	for _, id := range m.MenuIDs() {
		for i, item := range m.Contributes.Menus[id] {
			if item.Command == "" {
				return fmt.Errorf("%w: menu %q item #%d has no command", ErrInvalidManifest, id, i)
			}
		}
	}
	return nil
}
