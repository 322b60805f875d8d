package providers

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// ProviderConfig describes one chat-completions provider the analysis
// service can talk to.
type ProviderConfig struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Endpoint     string `json:"endpoint"`
	DefaultModel string `json:"default_model"`
	KeyEnv       string `json:"key_env"`
}

type ProvidersFile struct {
	Providers []ProviderConfig `json:"providers"`
}

type Registry struct {
	mu        sync.RWMutex
	providers map[string]*ProviderConfig
}

func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]*ProviderConfig),
	}
}

// LoadFromFile reads the provider registry from a JSON file. When the file
// does not exist the built-in registry is returned instead, so a bare
// deployment still has working providers.
func LoadFromFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Defaults(), nil
		}
		return nil, fmt.Errorf("failed to read providers config: %w", err)
	}

	var file ProvidersFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse providers config: %w", err)
	}

	registry := NewRegistry()
	for i := range file.Providers {
		registry.Register(&file.Providers[i])
	}
	return registry, nil
}

// Defaults returns the built-in provider registry.
func Defaults() *Registry {
	registry := NewRegistry()
	registry.Register(&ProviderConfig{
		ID:           "openai",
		Name:         "OpenAI",
		Endpoint:     "https://api.openai.com/v1/chat/completions",
		DefaultModel: "gpt-4o-mini",
		KeyEnv:       "OPENAI_API_KEY",
	})
	registry.Register(&ProviderConfig{
		ID:           "glm",
		Name:         "GLM",
		Endpoint:     "https://api.z.ai/api/paas/v4/chat/completions",
		DefaultModel: "glm-4-plus",
		KeyEnv:       "GLM_API_KEY",
	})
	registry.Register(&ProviderConfig{
		ID:           "deepseek",
		Name:         "DeepSeek",
		Endpoint:     "https://api.deepseek.com/v1/chat/completions",
		DefaultModel: "deepseek-chat",
		KeyEnv:       "DEEPSEEK_API_KEY",
	})
	return registry
}

func (r *Registry) Register(cfg *ProviderConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[cfg.ID] = cfg
}

func (r *Registry) Get(id string) *ProviderConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.providers[id]
}

func (r *Registry) Exists(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.providers[id]
	return ok
}

func (r *Registry) All() []*ProviderConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*ProviderConfig, 0, len(r.providers))
	for _, p := range r.providers {
		result = append(result, p)
	}
	return result
}
