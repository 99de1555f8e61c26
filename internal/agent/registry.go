// Package agent holds the locally authored side of the portal: the
// instruction composer, name sanitizer, config registry, and the
// streaming chat bridge.
package agent

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vigtec/agentportal/internal/domain"
)

// ConfigRegistry is the in-process store of locally authored agent
// configurations. It is insert-only: configs are never updated or
// removed, and ids are freshly generated so conflicting writes to the
// same key cannot happen. The registry is torn down with the process;
// nothing is persisted.
type ConfigRegistry struct {
	mu      sync.RWMutex
	configs map[string]domain.AgentConfig
}

// NewConfigRegistry creates an empty registry.
func NewConfigRegistry() *ConfigRegistry {
	return &ConfigRegistry{configs: make(map[string]domain.AgentConfig)}
}

// CreateConfig composes instructions for the given description and
// registers the resulting config under a fresh id. The instruction
// composition is purely local; the registry write happens after it
// completes and never blocks on anything remote.
func (r *ConfigRegistry) CreateConfig(name, description string, spec InstructionSpec) domain.AgentConfig {
	cfg := domain.AgentConfig{
		ID:           newConfigID(),
		Name:         name,
		Description:  description,
		Instructions: ComposeInstructions(spec),
		CreatedAt:    time.Now(),
	}

	r.mu.Lock()
	r.configs[cfg.ID] = cfg
	r.mu.Unlock()
	return cfg
}

// Get returns the config with the given id.
func (r *ConfigRegistry) Get(id string) (domain.AgentConfig, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cfg, ok := r.configs[id]
	return cfg, ok
}

// List returns all registered configs, oldest first.
func (r *ConfigRegistry) List() []domain.AgentConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	configs := make([]domain.AgentConfig, 0, len(r.configs))
	for _, cfg := range r.configs {
		configs = append(configs, cfg)
	}
	sortConfigs(configs)
	return configs
}

// newConfigID returns a fresh short opaque token, unique within the
// process lifetime.
func newConfigID() string {
	return uuid.New().String()[:8]
}

func sortConfigs(configs []domain.AgentConfig) {
	sort.Slice(configs, func(i, j int) bool {
		return configs[i].CreatedAt.Before(configs[j].CreatedAt)
	})
}
