package ai

import (
	"context"
	"fmt"
	"strings"

	appErr "github.com/xxxsen/docindex/internal/pkg/errors"
)

// ErrUnavailable is returned when the embedding backend cannot serve a
// request (missing key, service down). Callers treat it as per-file
// skippable, never as a batch-fatal error.
var ErrUnavailable = appErr.ErrProviderUnavailable

// IEmbedProvider is one embedding backend. Providers register themselves by
// name and are selected through config.
type IEmbedProvider interface {
	Name() string
	Embed(ctx context.Context, model string, text string, taskType string) ([]float32, error)
	IsAvailable() bool
}

// IEmbedder binds a provider to a concrete model name.
type IEmbedder interface {
	Embed(ctx context.Context, text string, taskType string) ([]float32, error)
	ModelName() string
	IsAvailable() bool
}

type embedder struct {
	provider IEmbedProvider
	model    string
}

func NewEmbedder(p IEmbedProvider, model string) IEmbedder {
	return &embedder{provider: p, model: model}
}

func (e *embedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	return e.provider.Embed(ctx, e.model, text, taskType)
}

func (e *embedder) ModelName() string {
	return e.model
}

func (e *embedder) IsAvailable() bool {
	return e.provider.IsAvailable()
}

type ProviderFactory func(args interface{}) (IEmbedProvider, error)

var registry = map[string]ProviderFactory{}

func Register(name string, factory ProviderFactory) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || factory == nil {
		return
	}
	registry[key] = factory
}

func NewProvider(name string, args interface{}) (IEmbedProvider, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil, fmt.Errorf("ai.provider is required")
	}
	factory := registry[key]
	if factory == nil {
		return nil, fmt.Errorf("unsupported embedding provider: %s", name)
	}
	return factory(args)
}
