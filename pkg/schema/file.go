package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/aretw0/contrib/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// File is the declarative form of an extension's contributions.
type File struct {
	Commands []domain.CommandDescriptor  `mapstructure:"commands"`
	Menus    map[string][]domain.MenuItem `mapstructure:"menus"`
	Context  map[string]string            `mapstructure:"context"`
}

// Format selects the decoder used by Parse.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatOf guesses the format from a file name. Anything that is not .json is YAML.
func FormatOf(path string) Format {
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		return FormatJSON
	}
	return FormatYAML
}

// Load reads and decodes a contributions file. It does not validate it.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read contributions file: %w", err)
	}
	f, err := Parse(data, FormatOf(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes a contributions document. Unknown fields are rejected.
func Parse(data []byte, format Format) (*File, error) {
	var raw map[string]any
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse yaml: %w", err)
		}
	}

	var f File
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  mapstructure.DecodeHookFuncType(iconHook),
		ErrorUnused: true,
		Result:      &f,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode contributions: %w", err)
	}
	return &f, nil
}

var iconType = reflect.TypeOf(domain.Icon{})

// iconHook accepts both spellings of an icon: a path or a theme map.
func iconHook(from, to reflect.Type, data any) (any, error) {
	if to != iconType {
		return data, nil
	}
	switch v := data.(type) {
	case string:
		return domain.Icon{Path: v}, nil
	case map[string]any:
		var themes domain.ThemeMap
		if err := mapstructure.Decode(v, &themes); err != nil {
			return nil, fmt.Errorf("icon: %w", err)
		}
		return domain.Icon{Themes: &themes}, nil
	default:
		return data, nil
	}
}
