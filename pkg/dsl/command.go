package dsl

import "github.com/aretw0/contrib/pkg/domain"

// CommandBuilder provides a fluent API for configuring a command.
type CommandBuilder struct {
	descriptor domain.CommandDescriptor
}

// Title sets the human-readable title.
func (c *CommandBuilder) Title(title string) *CommandBuilder {
	c.descriptor.Title = title
	return c
}

// Category sets the title prefix shown in the command palette.
func (c *CommandBuilder) Category(category string) *CommandBuilder {
	c.descriptor.Category = category
	return c
}

// Icon sets a single icon path or codicon reference.
func (c *CommandBuilder) Icon(path string) *CommandBuilder {
	c.descriptor.Icon = domain.IconPath(path)
	return c
}

// ThemedIcon sets one icon per color theme kind.
func (c *CommandBuilder) ThemedIcon(themes domain.ThemeMap) *CommandBuilder {
	c.descriptor.Icon = domain.ThemedIcon(themes)
	return c
}

// NoActivation keeps the command out of the activation events.
func (c *CommandBuilder) NoActivation() *CommandBuilder {
	activates := false
	c.descriptor.Activates = &activates
	return c
}

// Descriptor returns the underlying domain.CommandDescriptor.
func (c *CommandBuilder) Descriptor() domain.CommandDescriptor {
	return c.descriptor
}
