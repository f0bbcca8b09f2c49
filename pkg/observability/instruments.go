package observability

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Instruments holds the domain counters exported through the Prometheus
// endpoint.
type Instruments struct {
	Registrations        metric.Int64Counter
	Logins               metric.Int64Counter
	TokenRefreshes       metric.Int64Counter
	RefreshReuseDetected metric.Int64Counter
	ChatTurns            metric.Int64Counter
	ChatFallbacks        metric.Int64Counter
	ConversationsSwept   metric.Int64Counter
}

// NewInstruments registers the domain counters on the global meter provider.
func NewInstruments(serviceName string) (*Instruments, error) {
	meter := otel.Meter(serviceName)

	registrations, err := meter.Int64Counter("auth_registrations_total",
		metric.WithDescription("Successful user registrations"))
	if err != nil {
		return nil, fmt.Errorf("failed to create counter: %w", err)
	}

	logins, err := meter.Int64Counter("auth_logins_total",
		metric.WithDescription("Successful logins"))
	if err != nil {
		return nil, fmt.Errorf("failed to create counter: %w", err)
	}

	refreshes, err := meter.Int64Counter("auth_token_refreshes_total",
		metric.WithDescription("Successful refresh token rotations"))
	if err != nil {
		return nil, fmt.Errorf("failed to create counter: %w", err)
	}

	reuse, err := meter.Int64Counter("auth_refresh_reuse_detected_total",
		metric.WithDescription("Attempts to exchange an already revoked refresh token"))
	if err != nil {
		return nil, fmt.Errorf("failed to create counter: %w", err)
	}

	chatTurns, err := meter.Int64Counter("chat_turns_total",
		metric.WithDescription("Completed chat turns"))
	if err != nil {
		return nil, fmt.Errorf("failed to create counter: %w", err)
	}

	fallbacks, err := meter.Int64Counter("chat_fallbacks_total",
		metric.WithDescription("Chat turns answered with the fallback message"))
	if err != nil {
		return nil, fmt.Errorf("failed to create counter: %w", err)
	}

	swept, err := meter.Int64Counter("conversations_swept_total",
		metric.WithDescription("Idle conversations removed by the sweep"))
	if err != nil {
		return nil, fmt.Errorf("failed to create counter: %w", err)
	}

	return &Instruments{
		Registrations:        registrations,
		Logins:               logins,
		TokenRefreshes:       refreshes,
		RefreshReuseDetected: reuse,
		ChatTurns:            chatTurns,
		ChatFallbacks:        fallbacks,
		ConversationsSwept:   swept,
	}, nil
}
