package llm

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/ValeriiSysoiev/AI-Enable-Cyber-Maturity-Assessment-2-sub003/internal/secrets"
	"github.com/ValeriiSysoiev/AI-Enable-Cyber-Maturity-Assessment-2-sub003/internal/shared/telemetry"
)

// Mode is the terminal operating mode of the gateway.
type Mode string

const (
	// ModeMock serves canned deterministic text without network access.
	ModeMock Mode = "mock"
	// ModeLive forwards calls to the external provider.
	ModeLive Mode = "live"
)

const (
	maxAttempts    = 3
	retryBaseDelay = time.Second
)

// ProviderFactory constructs a live provider client from resolved credentials.
type ProviderFactory func(endpoint, apiKey, deployment, apiVersion string) (Client, error)

// Gateway owns the connection to the text-generation provider. It resolves
// credentials once per process; if endpoint, key and deployment cannot all be
// resolved, or live construction fails, it degrades to mock mode permanently.
// Initialization never fails the caller.
type Gateway struct {
	resolver secrets.Resolver
	factory  ProviderFactory

	initOnce  sync.Once
	mode      Mode
	client    Client
	baseDelay time.Duration
}

// NewGateway builds an uninitialized gateway. Initialization happens on the
// first Generate call and is guarded against concurrent first calls.
func NewGateway(resolver secrets.Resolver, factory ProviderFactory) *Gateway {
	return &Gateway{
		resolver:  resolver,
		factory:   factory,
		baseDelay: retryBaseDelay,
	}
}

// Mode reports the resolved operating mode, initializing if needed.
func (g *Gateway) Mode(ctx context.Context) Mode {
	g.init(ctx)
	return g.mode
}

func (g *Gateway) init(ctx context.Context) {
	g.initOnce.Do(func() {
		defer func() {
			// Initialization must never propagate a failure; anything
			// unexpected degrades to mock mode.
			if r := recover(); r != nil {
				g.mode = ModeMock
				g.client = MockClient{}
				telemetry.Error("llm.gateway.init", map[string]any{"mode": string(ModeMock), "panic": r})
			}
		}()

		endpoint := secrets.ResolveWithEnvFallback(ctx, g.resolver, secrets.NameOpenAIEndpoint)
		apiKey := secrets.ResolveWithEnvFallback(ctx, g.resolver, secrets.NameOpenAIAPIKey)
		deployment := secrets.ResolveWithEnvFallback(ctx, g.resolver, secrets.NameOpenAIDeployment)
		apiVersion := secrets.ResolveWithEnvFallback(ctx, g.resolver, secrets.NameOpenAIAPIVersion)

		if endpoint == "" || apiKey == "" || deployment == "" || g.factory == nil {
			g.mode = ModeMock
			g.client = MockClient{}
			telemetry.Info("llm.gateway.init", map[string]any{
				"mode":   string(ModeMock),
				"reason": "credentials incomplete",
			})
			return
		}

		client, err := g.factory(endpoint, apiKey, deployment, apiVersion)
		if err != nil {
			g.mode = ModeMock
			g.client = MockClient{}
			telemetry.Error("llm.gateway.init", map[string]any{
				"mode":  string(ModeMock),
				"error": err.Error(),
			})
			return
		}

		g.mode = ModeLive
		g.client = client
		telemetry.Info("llm.gateway.init", map[string]any{
			"mode":       string(ModeLive),
			"deployment": deployment,
		})
	})
}

// Generate returns generated text for the system/user prompt pair. In mock
// mode the canned text is returned. In live mode transient provider failures
// (rate limiting, connectivity) are retried with exponential backoff; all
// other failures surface immediately. Every failure is reported as *Error.
func (g *Gateway) Generate(ctx context.Context, system, user string) (string, error) {
	g.init(ctx)

	if g.mode == ModeMock {
		return g.client.Generate(ctx, system, user)
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			delay := g.baseDelay << (attempt - 1)
			log.Printf("llm retry attempt=%d delay=%s error=%v", attempt+1, delay, lastErr)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", &Error{Message: "canceled during retry backoff", Err: ctx.Err()}
			}
		}

		out, err := g.client.Generate(ctx, system, user)
		if err == nil {
			return out, nil
		}
		if !isTransient(err) {
			return "", asError(err)
		}
		lastErr = err
	}

	telemetry.Error("llm.generate", map[string]any{
		"attempts": maxAttempts,
		"error":    lastErr.Error(),
	})
	return "", &Error{Message: "retries exhausted", Err: lastErr}
}

var _ Client = (*Gateway)(nil)
