// Package sources holds the built-in fixture sources and a name-keyed registry of them.
//
// Each source registers itself from an init function; import sources/all to get every one.
package sources

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/Vodeneev/matchsync/internal/parser/extract"
	"github.com/Vodeneev/matchsync/internal/pkg/config"
	"github.com/Vodeneev/matchsync/internal/pkg/enums"
)

// Definition is everything needed to extract one source: where to go and how its page is laid out.
type Definition struct {
	Name string
	// WarmupURL is visited first, when set, so the target page sees a normal referrer and cookies.
	WarmupURL string
	URL       string
	Plan      extract.Plan
}

// Factory builds a definition, applying per-deployment overrides from cfg.
type Factory func(cfg config.SourceConfig) Definition

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

func Register(name string, f Factory) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		panic("sources: empty name in Register")
	}
	if f == nil {
		panic("sources: nil factory in Register for " + n)
	}

	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[n]; exists {
		panic("sources: duplicate registration for " + n)
	}
	registry[n] = f
}

func FactoryByName(name string) (Factory, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[n]
	return f, ok
}

func AvailableNames() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Resolve builds the definition for cfg.Name and stamps it with role.
func Resolve(cfg config.SourceConfig, role enums.Role) (Definition, error) {
	if !role.IsValid() {
		return Definition{}, fmt.Errorf("source %q: invalid role %q", cfg.Name, role)
	}
	f, ok := FactoryByName(cfg.Name)
	if !ok {
		return Definition{}, fmt.Errorf("unknown source %q (available: %v)", cfg.Name, AvailableNames())
	}
	def := f(cfg)
	def.Plan.Role = role
	if def.Plan.Source == "" {
		def.Plan.Source = def.Name
	}
	return def, nil
}

// ApplyOverrides copies the non-zero fields of cfg onto def.
func ApplyOverrides(def Definition, cfg config.SourceConfig) Definition {
	if cfg.URL != "" {
		def.URL = cfg.URL
	}
	if cfg.WarmupURL != "" {
		def.WarmupURL = cfg.WarmupURL
	}
	if cfg.MaxRecords > 0 {
		def.Plan.MaxRecords = cfg.MaxRecords
	}
	return def
}
