package level

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/l1jgo/chopper/internal/scripting"
)

// LoadYAML reads a YAML level. Inline on_update_script sources are compiled
// in engine; engine may be nil when no entity carries a script.
func LoadYAML(path string, engine *scripting.Engine) (*Description, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var d Description
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for i := range d.Entities {
		c := &d.Entities[i].Components
		if c.OnUpdateScript == "" {
			continue
		}
		if engine == nil {
			return nil, errors.New("level: on_update_script needs a script engine")
		}
		fn, err := engine.CompileFunction(c.OnUpdateScript)
		if err != nil {
			return nil, fmt.Errorf("%s entity %d: %w", path, i, err)
		}
		c.OnUpdate = fn
	}
	return &d, nil
}

// Load picks the reader by file extension.
func Load(path string, engine *scripting.Engine) (*Description, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".lua":
		return LoadLua(path, engine)
	case ".yaml", ".yml":
		return LoadYAML(path, engine)
	default:
		return nil, fmt.Errorf("level: unsupported level file %s", path)
	}
}
