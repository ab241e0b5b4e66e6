package macro

import (
	"embed"
	"fmt"
	"os"
	"path"
	"sort"
	"sync"
)

//go:embed macros/*.yaml
var builtinFS embed.FS

var (
	builtins     map[string]*Macro
	builtinsErr  error
	builtinsOnce sync.Once
)

func loadBuiltins() {
	builtinsOnce.Do(func() {
		entries, err := builtinFS.ReadDir("macros")
		if err != nil {
			builtinsErr = fmt.Errorf("failed to read built-in macros: %w", err)
			return
		}

		builtins = make(map[string]*Macro, len(entries))
		for _, e := range entries {
			data, err := builtinFS.ReadFile(path.Join("macros", e.Name()))
			if err != nil {
				builtinsErr = fmt.Errorf("failed to read %s: %w", e.Name(), err)
				return
			}
			m, err := Parse(data)
			if err != nil {
				builtinsErr = fmt.Errorf("built-in %s: %w", e.Name(), err)
				return
			}
			builtins[m.Name] = m
		}
	})
}

// Builtin returns the embedded macros sorted by name.
func Builtin() ([]*Macro, error) {
	loadBuiltins()
	if builtinsErr != nil {
		return nil, builtinsErr
	}

	list := make([]*Macro, 0, len(builtins))
	for _, m := range builtins {
		list = append(list, m)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

// Get returns the embedded macro called name.
func Get(name string) (*Macro, error) {
	loadBuiltins()
	if builtinsErr != nil {
		return nil, builtinsErr
	}

	m, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("unknown macro %q (see 'roku-macro list')", name)
	}
	return m, nil
}

// LoadFile reads and validates a macro from disk.
func LoadFile(filename string) (*Macro, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read macro file: %w", err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return m, nil
}
