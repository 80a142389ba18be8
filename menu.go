package contrib

import (
	"fmt"
	"sync"

	"github.com/aretw0/contrib/pkg/domain"
	"github.com/aretw0/contrib/pkg/when"
)

// MenuItem describes one entry added to a Menu.
type MenuItem struct {
	Command *Command
	Alt     *Command
	When    when.Clause
}

// Menu is a reference to a host menu. Menus need no registration.
type Menu struct {
	c  *Contributions
	id string

	mu    sync.Mutex
	items []domain.MenuItem
}

// ID returns the menu id.
func (m *Menu) ID() string {
	return m.id
}

// Group adds items to a named group of the menu. Clauses are compiled
// immediately; if any fails, none of the items are added.
func (m *Menu) Group(name string, items ...MenuItem) error {
	compiled := make([]domain.MenuItem, 0, len(items))
	for _, item := range items {
		out, err := m.compile(item)
		if err != nil {
			return err
		}
		out.Group = name
		compiled = append(compiled, out)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, compiled...)
	return nil
}

// Add adds an ungrouped item to the menu.
func (m *Menu) Add(item MenuItem) error {
	out, err := m.compile(item)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, out)
	return nil
}

// Items returns the compiled entries added so far.
func (m *Menu) Items() []domain.MenuItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.MenuItem(nil), m.items...)
}

func (m *Menu) compile(item MenuItem) (domain.MenuItem, error) {
	if item.Command == nil {
		return domain.MenuItem{}, fmt.Errorf("menu %s: item has no command", m.id)
	}

	out := domain.MenuItem{Command: item.Command.ID()}
	if item.Alt != nil {
		out.Alt = item.Alt.ID()
	}
	if item.When != nil {
		clause, err := item.When.Compile()
		if err != nil {
			return domain.MenuItem{}, fmt.Errorf("menu %s: when clause of %s: %w", m.id, out.Command, err)
		}
		out.When = clause
	}
	return out, nil
}

func (m *Menu) String() string {
	return "Menu(" + m.id + ")"
}

func (m *Menu) registered() bool {
	return true
}

func (m *Menu) contribute(manifest *domain.Manifest) {
	items := m.Items()
	if len(items) == 0 {
		return
	}
	manifest.AddMenuItems(m.id, items...)
}
