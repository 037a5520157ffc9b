package genetic

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/limaJavier/evotimetabling/pkg/model"
)

// Population is one generation of candidate schedules together with the strategy used to pick parents from it
type Population struct {
	schedules []*model.Schedule
	selector  Selector
}

func NewPopulation(schedules []*model.Schedule, selector Selector) (*Population, error) {
	if len(schedules) == 0 {
		return nil, fmt.Errorf("%w: population cannot be empty", ErrInvalidArgument)
	} else if selector == nil {
		return nil, fmt.Errorf("%w: population requires a selector", ErrInvalidArgument)
	} else if lo.Contains(schedules, nil) {
		return nil, fmt.Errorf("%w: population cannot contain nil schedules", ErrInvalidArgument)
	}

	return &Population{
		schedules: schedules,
		selector:  selector,
	}, nil
}

// BuildPopulation constructs size schedules concurrently. Every construction owns its ledger and its random
// generator, the generators being derived from rng before any worker starts
func BuildPopulation(
	ctx context.Context,
	builder *model.Builder,
	size int,
	workers int,
	rng *rand.Rand,
	selector Selector,
) (*Population, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: population size must be positive", ErrInvalidArgument)
	}

	rngs := make([]*rand.Rand, size)
	for i := range rngs {
		rngs[i] = deriveRand(rng)
	}

	schedules := make([]*model.Schedule, size)
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(workerCount(workers))
	for i := range size {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			schedules[i] = builder.Build(rngs[i])
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	return NewPopulation(schedules, selector)
}

// Evaluate scores every stale schedule concurrently
func (population *Population) Evaluate(ctx context.Context, workers int) error {
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(workerCount(workers))

	// The same schedule may be present twice, it must be scored by a single worker
	for _, schedule := range lo.Uniq(population.schedules) {
		if !schedule.Stale() {
			continue
		}
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			schedule.Fitness()
			return nil
		})
	}
	return group.Wait()
}

// Best returns the fittest schedule, the earliest one winning ties
func (population *Population) Best() *model.Schedule {
	best := population.schedules[0]
	for _, schedule := range population.schedules[1:] {
		if schedule.Fitness() > best.Fitness() {
			best = schedule
		}
	}
	return best
}

func (population *Population) BestFitness() float64 {
	return population.Best().Fitness()
}

// SelectParents draws two parents independently, so both may be the same schedule
func (population *Population) SelectParents(rng *rand.Rand) (*model.Schedule, *model.Schedule, error) {
	first, err := population.selector.Select(population.schedules, rng)
	if err != nil {
		return nil, nil, err
	}
	second, err := population.selector.Select(population.schedules, rng)
	if err != nil {
		return nil, nil, err
	}
	return first, second, nil
}

func (population *Population) Schedules() []*model.Schedule {
	return population.schedules
}

func (population *Population) Size() int {
	return len(population.schedules)
}

func (population *Population) Selector() Selector {
	return population.selector
}
