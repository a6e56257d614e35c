package core

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// YAMLFileLoader reads raw configuration values from a YAML document. An
// empty Path or a missing file yields no values so defaults apply.
type YAMLFileLoader struct {
	Path string
	// Section selects a nested mapping, e.g. "connector_runtime".
	Section string
}

func NewYAMLFileLoader(path string) *YAMLFileLoader {
	return &YAMLFileLoader{Path: path}
}

func (l *YAMLFileLoader) LoadRaw(context.Context) (map[string]any, error) {
	if l == nil || strings.TrimSpace(l.Path) == "" {
		return map[string]any{}, nil
	}
	data, err := os.ReadFile(l.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("core: read config %s: %w", l.Path, err)
	}
	return decodeYAMLConfig(data, l.Section)
}

func decodeYAMLConfig(data []byte, section string) (map[string]any, error) {
	raw := map[string]any{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("core: parse config: %w", err)
	}
	section = strings.TrimSpace(section)
	if section == "" {
		return raw, nil
	}
	nested, ok := raw[section]
	if !ok || nested == nil {
		return map[string]any{}, nil
	}
	values, ok := nested.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("core: config section %q is not a mapping", section)
	}
	return values, nil
}
