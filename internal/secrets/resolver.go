package secrets

import (
	"context"
	"errors"
	"os"
	"strings"
)

// Well-known secret names requested by the model gateway.
const (
	NameOpenAIEndpoint   = "azure-openai-endpoint"
	NameOpenAIAPIKey     = "azure-openai-api-key"
	NameOpenAIDeployment = "azure-openai-deployment"
	NameOpenAIAPIVersion = "azure-openai-api-version"
)

// ErrNotFound is returned when a resolver has no value for the given name.
var ErrNotFound = errors.New("secret not found")

// Resolver resolves named credentials from an external secret store.
type Resolver interface {
	Resolve(ctx context.Context, name string) (string, error)
}

// envFallbacks maps well-known secret names to their environment variables.
var envFallbacks = map[string]string{
	NameOpenAIEndpoint:   "AZURE_OPENAI_ENDPOINT",
	NameOpenAIAPIKey:     "AZURE_OPENAI_API_KEY",
	NameOpenAIDeployment: "AZURE_OPENAI_DEPLOYMENT",
	NameOpenAIAPIVersion: "AZURE_OPENAI_API_VERSION",
}

// EnvResolver resolves secrets from process environment variables.
type EnvResolver struct{}

// Resolve maps the well-known name to its env var and returns its value.
func (EnvResolver) Resolve(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key, ok := envFallbacks[name]
	if !ok {
		return "", ErrNotFound
	}
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return "", ErrNotFound
	}
	return val, nil
}

// StaticResolver serves secrets from a fixed map. Useful for tests and
// local development.
type StaticResolver map[string]string

// Resolve returns the mapped value or ErrNotFound.
func (r StaticResolver) Resolve(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	val, ok := r[name]
	if !ok || strings.TrimSpace(val) == "" {
		return "", ErrNotFound
	}
	return val, nil
}

// ResolveWithEnvFallback asks the resolver first and falls back to the
// process environment on a miss. A nil resolver consults the environment
// only. The empty string means the secret is absent from both sources.
func ResolveWithEnvFallback(ctx context.Context, resolver Resolver, name string) string {
	if resolver != nil {
		if val, err := resolver.Resolve(ctx, name); err == nil && strings.TrimSpace(val) != "" {
			return strings.TrimSpace(val)
		}
	}
	if key, ok := envFallbacks[name]; ok {
		return strings.TrimSpace(os.Getenv(key))
	}
	return ""
}
