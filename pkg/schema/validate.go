package schema

import (
	"fmt"
	"slices"

	"github.com/aretw0/contrib/pkg/domain"
	"github.com/aretw0/contrib/pkg/when"
)

// Schema maps context keys to their declared types.
type Schema map[string]Type

// Validate checks the values of declared keys. Undeclared keys belong to the
// host and are accepted as is; a nil value clears a key and is always valid.
func Validate(s Schema, values map[string]any) error {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	var errs []error
	for _, key := range keys {
		if err := s.ValidateValue(key, values[key]); err != nil {
			errs = append(errs, err)
		}
	}
	return aggregate(errs)
}

// ValidateValue checks a single context value.
func (s Schema) ValidateValue(key string, value any) error {
	typ, ok := s[key]
	if !ok || value == nil {
		return nil
	}
	if err := typ.Validate(value); err != nil {
		return &ValidationError{Key: key, Reason: err.Error(), Value: value}
	}
	return nil
}

// Validate reports every problem of the file at once.
func (f *File) Validate() error {
	var errs []error

	seen := make(map[string]bool)
	for i, cmd := range f.Commands {
		path := fmt.Sprintf("commands[%d].id", i)
		switch {
		case cmd.ID == "":
			errs = append(errs, &ValidationError{Key: path, Reason: "required"})
		case seen[cmd.ID]:
			errs = append(errs, &ValidationError{Key: path, Reason: fmt.Sprintf("duplicate command %q", cmd.ID)})
		}
		seen[cmd.ID] = true
	}

	menuIDs := make([]string, 0, len(f.Menus))
	for id := range f.Menus {
		menuIDs = append(menuIDs, id)
	}
	slices.Sort(menuIDs)
	for _, id := range menuIDs {
		for i, item := range f.Menus[id] {
			path := fmt.Sprintf("menus[%s][%d]", id, i)
			if item.Command == "" {
				errs = append(errs, &ValidationError{Key: path + ".command", Reason: "required"})
			}
			if item.When == "" {
				continue
			}
			if _, err := when.Parse(item.When); err != nil {
				errs = append(errs, &ValidationError{Key: path + ".when", Reason: err.Error()})
			}
		}
	}

	keys := make([]string, 0, len(f.Context))
	for key := range f.Context {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		if _, err := ParseType(f.Context[key]); err != nil {
			errs = append(errs, &ValidationError{Key: "context." + key, Reason: err.Error()})
		}
	}

	return aggregate(errs)
}

// Schema returns the declared context key types.
func (f *File) Schema() (Schema, error) {
	s := make(Schema, len(f.Context))
	var errs []error
	for key, name := range f.Context {
		typ, err := ParseType(name)
		if err != nil {
			errs = append(errs, &ValidationError{Key: "context." + key, Reason: err.Error()})
			continue
		}
		s[key] = typ
	}
	if err := aggregate(errs); err != nil {
		return nil, err
	}
	return s, nil
}

// Manifest validates the file and converts it to a manifest. Menus are
// emitted in sorted order; items keep their file order.
func (f *File) Manifest() (*domain.Manifest, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	m := domain.NewManifest()
	for _, cmd := range f.Commands {
		m.AddCommand(cmd)
	}
	for id, items := range f.Menus {
		if len(items) > 0 {
			m.AddMenuItems(id, items...)
		}
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}
