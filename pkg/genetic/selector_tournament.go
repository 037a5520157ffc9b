package genetic

import (
	"fmt"
	"math/rand/v2"

	"github.com/limaJavier/evotimetabling/pkg/model"
)

type tournamentSelector struct {
	size int
}

func NewTournamentSelector(size int) Selector {
	return &tournamentSelector{
		size: max(size, 1),
	}
}

// Select samples the tournament without replacement and returns its fittest member, the first sampled one
// winning ties
func (selector *tournamentSelector) Select(schedules []*model.Schedule, rng *rand.Rand) (*model.Schedule, error) {
	if len(schedules) == 0 {
		return nil, fmt.Errorf("%w: cannot select from an empty population", ErrInvalidArgument)
	}

	tournament := rng.Perm(len(schedules))[:min(selector.size, len(schedules))]

	winner := schedules[tournament[0]]
	for _, i := range tournament[1:] {
		if schedules[i].Fitness() > winner.Fitness() {
			winner = schedules[i]
		}
	}
	return winner, nil
}
