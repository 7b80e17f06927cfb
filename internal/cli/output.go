package cli

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// emit writes v in the --output format.
func (a *app) emit(v any) error {
	if a.output == "json" {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")

		return enc.Encode(v)
	}
	enc := yaml.NewEncoder(a.out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}

	return enc.Close()
}
