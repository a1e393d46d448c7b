package health

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/aaravmahajanofficial/storefront/pkg/stripe"
	"github.com/hellofresh/health-go/v5"
	"github.com/hellofresh/health-go/v5/checks/postgres"
	healthRedis "github.com/hellofresh/health-go/v5/checks/redis"
)

// Version is reported by /health; overridden at build time with -ldflags.
var Version = "dev"

var errNoGateway = errors.New("payment gateway client is not configured")

// Endpoints are the dependencies probed in-process rather than by DSN.
type Endpoints struct {
	Gateway stripe.Client
}

// NewHealthHandler reports the store and cache as critical. The gateway is
// informational: browsing keeps working while checkout cannot.
func NewHealthHandler(cfg *config.Config, endpoints *Endpoints) (*health.Health, error) {
	checks := []health.Config{
		{
			Name:    "postgres",
			Timeout: 3 * time.Second,
			Check:   postgres.New(postgres.Config{DSN: cfg.Database.GetDSN()}),
		},
		{
			Name:    "redis",
			Timeout: 2 * time.Second,
			Check:   healthRedis.New(healthRedis.Config{DSN: cfg.RedisConnect.GetDSN()}),
		},
		{
			Name:      "payment-gateway",
			Timeout:   cfg.Stripe.Timeout,
			SkipOnErr: true,
			Check:     gatewayCheck(endpoints.Gateway),
		},
	}

	h, err := health.New(
		health.WithComponent(health.Component{Name: cfg.Otel.ServiceName, Version: Version}),
		health.WithSystemInfo(),
		health.WithChecks(checks...),
	)
	if err != nil {
		return nil, fmt.Errorf("health: %w", err)
	}

	return h, nil
}

func gatewayCheck(gateway stripe.Client) health.CheckFunc {
	return func(ctx context.Context) error {
		if gateway == nil {
			return errNoGateway
		}

		if err := gateway.Ping(ctx); err != nil {
			return fmt.Errorf("payment gateway ping: %w", err)
		}

		return nil
	}
}
