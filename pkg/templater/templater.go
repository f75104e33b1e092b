// Package templater renders source files into the text that is lexed and
// parsed, keeping a map from rendered text back to the source.
package templater

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/leapstack-labs/sqlint/pkg/core"
)

// Templater renders a source file.
//
// A nil TemplatedFile with violations means rendering produced no output; the
// violations are then the file's status. A non-nil error is fatal for the file.
type Templater interface {
	Name() string
	Process(in, fname string, cfg *core.Config) (*TemplatedFile, []*core.SQLTemplaterError, error)
}

// ErrUnknownTemplater is returned for a templater name that is not registered.
var ErrUnknownTemplater = errors.New("unknown templater")

var (
	registryMu sync.RWMutex
	registry   = map[string]func() Templater{}
)

// Register makes a templater constructor available by name.
func Register(name string, factory func() Templater) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[strings.ToLower(name)] = factory
}

// Get constructs the templater registered under name.
func Get(name string) (Templater, error) {
	registryMu.RLock()
	factory, ok := registry[strings.ToLower(name)]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownTemplater, name, strings.Join(List(), ", "))
	}
	return factory(), nil
}

// List returns the registered templater names, sorted.
func List() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	Register("raw", func() Templater { return Raw{} })
	Register("starlark", func() Templater { return NewStarlark() })
}

// Raw passes the source through unchanged.
type Raw struct{}

// Name returns "raw".
func (Raw) Name() string { return "raw" }

// Process returns an untemplated file.
func (Raw) Process(in, fname string, _ *core.Config) (*TemplatedFile, []*core.SQLTemplaterError, error) {
	return NewTemplatedFile(in, fname, in, nil), nil, nil
}
