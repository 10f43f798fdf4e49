package config

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"gopkg.in/yaml.v3"
)

// YAMLLoader is a kong.ConfigurationLoader reading flag defaults from a flat
// YAML document. Keys are flag names, written with dashes or underscores:
//
//	window: 4096
//	bins: 64
//	window_function: blackman-harris
//	volume: 0.3
//
// Values given on the command line still win.
func YAMLLoader(r io.Reader) (kong.Resolver, error) {
	values := map[string]any{}
	if err := yaml.NewDecoder(r).Decode(&values); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return kong.ResolverFunc(func(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
		raw, ok := lookup(values, flag.Name)
		if !ok {
			return nil, nil
		}
		switch v := raw.(type) {
		case nil:
			return nil, nil
		case map[string]any, []any:
			return nil, fmt.Errorf("config key %q: expected a single value", flag.Name)
		case string:
			return v, nil
		default:
			// kong parses flag values from their string form
			return fmt.Sprint(v), nil
		}
	}), nil
}

func lookup(values map[string]any, name string) (any, bool) {
	if v, ok := values[name]; ok {
		return v, true
	}
	v, ok := values[strings.ReplaceAll(name, "-", "_")]
	return v, ok
}
