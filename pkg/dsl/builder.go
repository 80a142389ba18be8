package dsl

import (
	"errors"
	"fmt"

	"github.com/aretw0/contrib/pkg/domain"
	"github.com/aretw0/contrib/pkg/when"
)

// Builder manages the manifest construction.
type Builder struct {
	opts []when.Option

	commands []*CommandBuilder
	byID     map[string]*CommandBuilder
	menus    []*MenuBuilder
	byMenu   map[string]*MenuBuilder
}

// New creates a new manifest builder. The options are used for every
// function clause compiled by Build.
func New(opts ...when.Option) *Builder {
	return &Builder{
		opts:   opts,
		byID:   make(map[string]*CommandBuilder),
		byMenu: make(map[string]*MenuBuilder),
	}
}

// Command declares a contributed command.
// If the command already exists, it returns the existing builder.
func (b *Builder) Command(id string) *CommandBuilder {
	if cb, ok := b.byID[id]; ok {
		return cb
	}
	cb := &CommandBuilder{descriptor: domain.CommandDescriptor{ID: id}}
	b.byID[id] = cb
	b.commands = append(b.commands, cb)
	return cb
}

// Menu declares a menu. If the menu already exists, it returns the existing builder.
func (b *Builder) Menu(id string) *MenuBuilder {
	if mb, ok := b.byMenu[id]; ok {
		return mb
	}
	mb := &MenuBuilder{id: id, builder: b}
	b.byMenu[id] = mb
	b.menus = append(b.menus, mb)
	return mb
}

// Build compiles every when-clause and assembles the manifest.
// All compile errors are reported together.
func (b *Builder) Build() (*domain.Manifest, error) {
	m := domain.NewManifest()
	for _, cb := range b.commands {
		m.AddCommand(cb.descriptor)
	}

	var errs []error
	for _, mb := range b.menus {
		items := make([]domain.MenuItem, 0, len(mb.items))
		for _, ib := range mb.items {
			item, err := ib.build()
			if err != nil {
				errs = append(errs, fmt.Errorf("menu %s: %w", mb.id, err))
				continue
			}
			items = append(items, item)
		}
		if len(items) > 0 {
			m.AddMenuItems(mb.id, items...)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}
