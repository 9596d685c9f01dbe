package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/imf-ops/gadget-api/internal/models"
	"github.com/imf-ops/gadget-api/internal/repository"
	"github.com/imf-ops/gadget-api/internal/services"
)

var (
	adjectives = []string{"Exploding", "Silent", "Invisible", "Magnetic", "Collapsible", "Encrypted", "Self-Heating", "Holographic"}
	objects    = []string{"Pen", "Watch", "Umbrella", "Briefcase", "Lighter", "Lens", "Shoe", "Cufflink", "Tie Clip", "Face Mask"}
)

type seeder struct {
	gadgets repository.GadgetRepository
	rng     *rand.Rand
	now     time.Time
}

func randomName(rng *rand.Rand) string {
	return adjectives[rng.IntN(len(adjectives))] + " " + objects[rng.IntN(len(objects))]
}

// seed creates count gadgets with random statuses. Only DECOMMISSIONED
// gadgets get a decommission time, somewhere in the past year.
func (s *seeder) seed(ctx context.Context, count int) ([]models.Gadget, error) {
	out := make([]models.Gadget, 0, count)
	for i := 0; i < count; i++ {
		g := models.Gadget{
			Name:     randomName(s.rng),
			Codename: services.GenerateCodename(),
			Status:   models.GadgetStatuses[s.rng.IntN(len(models.GadgetStatuses))],
		}
		if g.Status == models.StatusDecommissioned {
			at := s.now.Add(-time.Duration(s.rng.Int64N(int64(365 * 24 * time.Hour)))).UTC()
			g.DecommissionedAt = &at
		}
		if err := s.gadgets.Create(ctx, &g); err != nil {
			return out, fmt.Errorf("seed gadget %d: %w", i, err)
		}
		out = append(out, g)
	}
	return out, nil
}
