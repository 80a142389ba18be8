package dsl

import (
	"fmt"

	"github.com/aretw0/contrib/pkg/domain"
	"github.com/aretw0/contrib/pkg/when"
)

// MenuBuilder collects the items of one menu.
type MenuBuilder struct {
	id      string
	builder *Builder
	items   []*ItemBuilder
}

// Item appends an entry that runs the given command.
func (m *MenuBuilder) Item(command string) *ItemBuilder {
	ib := &ItemBuilder{menu: m, item: domain.MenuItem{Command: command}}
	m.items = append(m.items, ib)
	return ib
}

// ItemBuilder provides a fluent API for configuring a menu entry.
type ItemBuilder struct {
	menu   *MenuBuilder
	item   domain.MenuItem
	clause when.Clause
}

// Alt sets the command run when the item is clicked with the alt key held.
func (i *ItemBuilder) Alt(command string) *ItemBuilder {
	i.item.Alt = command
	return i
}

// Group places the item in a named group.
func (i *ItemBuilder) Group(group string) *ItemBuilder {
	i.item.Group = group
	return i
}

// When guards the item with a hand-written clause.
func (i *ItemBuilder) When(clause string) *ItemBuilder {
	i.clause = when.Raw(clause)
	return i
}

// WhenFunc guards the item with a predicate function, compiled by Build.
func (i *ItemBuilder) WhenFunc(fn when.Func) *ItemBuilder {
	i.clause = when.New(fn, i.menu.builder.opts...)
	return i
}

// Item starts the next entry of the same menu.
func (i *ItemBuilder) Item(command string) *ItemBuilder {
	return i.menu.Item(command)
}

func (i *ItemBuilder) build() (domain.MenuItem, error) {
	out := i.item
	if i.clause != nil {
		clause, err := i.clause.Compile()
		if err != nil {
			return domain.MenuItem{}, fmt.Errorf("when clause of %s: %w", out.Command, err)
		}
		out.When = clause
	}
	return out, nil
}
