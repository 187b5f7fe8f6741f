// Package payment holds the simulated payment step. There is no real
// gateway behind it: a charge is a bounded delay plus a configurable
// decline rate, which is all the checkout flow needs to exercise its
// success and failure transitions.
package payment

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/shopsmith/storefront/internal/config"
)

// ErrDeclined is the single recoverable failure a charge can produce.
var ErrDeclined = errors.New("payment declined")

// Charge carries what the simulated gateway would see. The full card
// number never leaves the checkout flow.
type Charge struct {
	Amount    float64
	CardLast4 string
	CardName  string
}

type Processor interface {
	Charge(ctx context.Context, charge *Charge) error
}

type SimulatedProcessor struct {
	delay       time.Duration
	declineRate float64
}

func NewSimulatedProcessor(cfg *config.Payment) *SimulatedProcessor {
	return &SimulatedProcessor{delay: cfg.Delay, declineRate: cfg.DeclineRate}
}

// Charge waits out the configured delay, honouring cancellation, then
// declines with probability declineRate. No retry, no partial states.
func (p *SimulatedProcessor) Charge(ctx context.Context, _ *Charge) error {
	timer := time.NewTimer(p.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}

	if rand.Float64() < p.declineRate {
		return ErrDeclined
	}

	return nil
}
