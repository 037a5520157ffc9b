package genetic

import (
	"cmp"
	"context"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/limaJavier/evotimetabling/pkg/model"
)

// EvolutionEngine produces the next generation of a population through elitism, crossover and mutation.
// It holds no random state, callers pass the generator explicitly
type EvolutionEngine struct {
	params    Parameters
	stateHook func(State)
}

func NewEvolutionEngine(params Parameters) (*EvolutionEngine, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &EvolutionEngine{
		params:    params,
		stateHook: func(State) {},
	}, nil
}

// Evolve returns a new evaluated population of the same size. The fittest EliteCount schedules are carried
// over unchanged, so the best fitness never decreases from one generation to the next
func (engine *EvolutionEngine) Evolve(ctx context.Context, population *Population, rng *rand.Rand) (*Population, error) {
	size := population.Size()

	//** Elitism
	engine.stateHook(StateSelecting)
	ranked := slices.Clone(population.Schedules())
	slices.SortStableFunc(ranked, func(a, b *model.Schedule) int {
		return cmp.Compare(b.Fitness(), a.Fitness())
	})
	next := make([]*model.Schedule, 0, size)
	next = append(next, ranked[:min(engine.params.EliteCount, size)]...)

	//** Breeding
	engine.stateHook(StateBreeding)
	for len(next) < size {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		first, second, err := population.SelectParents(rng)
		if err != nil {
			return nil, err
		}
		offspring, err := engine.Crossover(first, second, rng)
		if err != nil {
			return nil, err
		}
		engine.Mutate(offspring, rng)
		next = append(next, offspring)
	}

	//** Evaluation
	engine.stateHook(StateEvaluating)
	evolved, err := NewPopulation(next, population.Selector())
	if err != nil {
		return nil, err
	}
	if err := evolved.Evaluate(ctx, engine.params.Workers); err != nil {
		return nil, err
	}
	return evolved, nil
}

// Crossover recombines two parents gene by gene with equal probability. When no crossover happens the
// offspring is a copy of one parent chosen at random. The offspring is as long as the shorter parent
func (engine *EvolutionEngine) Crossover(first, second *model.Schedule, rng *rand.Rand) (*model.Schedule, error) {
	if first == nil || second == nil {
		return nil, fmt.Errorf("%w: crossover requires two parents", ErrInvalidArgument)
	}

	if rng.Float64() >= engine.params.CrossoverRate {
		if rng.IntN(2) == 0 {
			return first.Clone(), nil
		}
		return second.Clone(), nil
	}

	length := min(first.Len(), second.Len())
	classes := make([]model.ScheduledClass, length)
	for i := range length {
		if rng.IntN(2) == 0 {
			classes[i] = first.Class(i)
		} else {
			classes[i] = second.Class(i)
		}
	}
	return model.NewSchedule(first.Input(), first.Catalog(), classes...), nil
}

// Mutate moves one random class to another slot of the same duration, reporting whether the schedule changed.
// Half of the mutations shift the class one lecture step earlier or later on the same day, the rest pick any
// other slot of the catalog
func (engine *EvolutionEngine) Mutate(schedule *model.Schedule, rng *rand.Rand) bool {
	if schedule.Len() == 0 || rng.Float64() >= engine.params.MutationRate {
		return false
	}

	i := rng.IntN(schedule.Len())
	class := schedule.Class(i)

	var slot uint64
	var ok bool
	if rng.IntN(2) == 0 {
		slot, ok = shiftSlot(schedule.Catalog(), class.Slot, rng)
	} else {
		slot, ok = reassignSlot(schedule.Catalog(), class.Slot, rng)
	}
	if !ok {
		return false
	}

	class.Slot = slot
	schedule.SetClass(i, class)
	return true
}

func shiftSlot(catalog *model.TimeSlotCatalog, current uint64, rng *rand.Rand) (uint64, bool) {
	slot := catalog.Slot(current)
	step := catalog.LectureDuration()
	if rng.IntN(2) == 0 {
		step = -step
	}
	return catalog.Find(slot.Day, slot.Start+step, slot.Duration)
}

func reassignSlot(catalog *model.TimeSlotCatalog, current uint64, rng *rand.Rand) (uint64, bool) {
	pool := catalog.Lectures()
	if catalog.IsLab(current) {
		pool = catalog.Labs()
	}
	if len(pool) < 2 {
		return 0, false
	}

	// Draw among every slot but the last, standing in the last one for the current slot
	slot := pool[rng.IntN(len(pool)-1)]
	if slot == current {
		slot = pool[len(pool)-1]
	}
	return slot, true
}
