package domain

import (
	"encoding/json"
	"fmt"
)

// MergeInto writes the manifest into a decoded package.json document.
// Existing activation events are kept and new ones appended; the commands and
// menus owned by the manifest replace whatever the document had. Other fields,
// including other keys of contributes, are left untouched.
func (m *Manifest) MergeInto(pkg map[string]any) (map[string]any, error) {
	if pkg == nil {
		pkg = make(map[string]any)
	}

	events := []string{}
	if existing, ok := pkg["activationEvents"].([]any); ok {
		for _, e := range existing {
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("activationEvents contains a non-string value %v", e)
			}
			events = append(events, s)
		}
	}
	merged := &Manifest{ActivationEvents: events}
	for _, e := range m.ActivationEvents {
		merged.AddActivationEvent(e)
	}
	pkg["activationEvents"] = merged.ActivationEvents

	contributes, _ := pkg["contributes"].(map[string]any)
	if contributes == nil {
		contributes = make(map[string]any)
	}

	// Round-trip through JSON so the document only holds plain values.
	raw, err := json.Marshal(m.Contributes)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal contributes: %w", err)
	}
	var owned map[string]any
	if err := json.Unmarshal(raw, &owned); err != nil {
		return nil, fmt.Errorf("failed to decode contributes: %w", err)
	}
	for k, v := range owned {
		contributes[k] = v
	}
	pkg["contributes"] = contributes

	return pkg, nil
}
