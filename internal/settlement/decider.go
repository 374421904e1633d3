package settlement

import (
	"context"
	"math/rand"
	"sync"

	"github.com/kardzapp/kardz-backend/pkg/db/models"
)

// Decider reports whether a pending order's payment has arrived. The default
// implementation simulates the external transfer; a payment gateway callback
// can replace it without touching the loop.
type Decider interface {
	Settled(ctx context.Context, order *models.Order) (bool, error)
}

// RandomDecider settles each order independently with probability P.
type RandomDecider struct {
	P float64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomDecider builds a probability-based decider seeded from the source.
// A nil source falls back to the shared global generator.
func NewRandomDecider(p float64, src rand.Source) *RandomDecider {
	d := &RandomDecider{P: p}
	if src != nil {
		d.rng = rand.New(src)
	}
	return d
}

func (d *RandomDecider) Settled(_ context.Context, _ *models.Order) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.rng != nil {
		return d.rng.Float64() < d.P, nil
	}
	return rand.Float64() < d.P, nil
}
