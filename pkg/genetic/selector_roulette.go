package genetic

import (
	"fmt"
	"math/rand/v2"

	"github.com/samber/lo"

	"github.com/limaJavier/evotimetabling/pkg/model"
)

type rouletteSelector struct{}

func NewRouletteSelector() Selector {
	return &rouletteSelector{}
}

// Select draws a schedule with probability proportional to its fitness. When every schedule has zero fitness
// the draw is uniform
func (selector *rouletteSelector) Select(schedules []*model.Schedule, rng *rand.Rand) (*model.Schedule, error) {
	if len(schedules) == 0 {
		return nil, fmt.Errorf("%w: cannot select from an empty population", ErrInvalidArgument)
	}

	totalFitness := lo.SumBy(schedules, func(schedule *model.Schedule) float64 { return schedule.Fitness() })
	if totalFitness <= 0 {
		return schedules[rng.IntN(len(schedules))], nil
	}

	pick := rng.Float64() * totalFitness
	current := 0.0
	for _, schedule := range schedules {
		current += schedule.Fitness()
		if current > pick {
			return schedule, nil
		}
	}

	// Rounding errors may leave the pick unreached
	return schedules[len(schedules)-1], nil
}
