package health

import (
	"fmt"
	"time"

	"github.com/hellofresh/health-go/v5"
	healthHTTP "github.com/hellofresh/health-go/v5/checks/http"
	healthRedis "github.com/hellofresh/health-go/v5/checks/redis"

	"github.com/shopsmith/storefront/internal/config"
)

// NewHealthHandler reports on the two external collaborators: the product
// catalog and, when the cart lives there, Redis. The catalog check is
// SkipOnErr because the storefront degrades to empty listings rather than
// failing when the catalog is down.
func NewHealthHandler(cfg *config.Config, withRedis bool) (*health.Health, error) {
	checks := []health.Config{
		{
			Name:      "catalog",
			Timeout:   5 * time.Second,
			SkipOnErr: true,
			Check: healthHTTP.New(healthHTTP.Config{
				URL: cfg.Catalog.BaseURL + "/products/categories",
			}),
		},
	}

	if withRedis {
		checks = append(checks, health.Config{
			Name:      "redis",
			Timeout:   2 * time.Second,
			SkipOnErr: false,
			Check: healthRedis.New(healthRedis.Config{
				DSN: cfg.RedisConnect.GetDSN(),
			}),
		})
	}

	h, err := health.New(
		health.WithComponent(health.Component{
			Name:    "storefront",
			Version: "1.0.0",
		}),
		health.WithSystemInfo(),
		health.WithChecks(checks...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create health instance: %w", err)
	}

	return h, nil
}
