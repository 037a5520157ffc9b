package genetic

import (
	"math/rand/v2"
	"slices"

	"github.com/samber/lo"

	"github.com/limaJavier/evotimetabling/pkg/model"
)

const (
	TournamentSelection = "tournament"
	RouletteSelection   = "roulette"
)

type Selector interface {
	// Select picks one schedule as parent. Schedules are expected to be evaluated
	Select(schedules []*model.Schedule, rng *rand.Rand) (*model.Schedule, error)
}

var selectors = map[string]func(params Parameters) Selector{
	TournamentSelection: func(params Parameters) Selector {
		return NewTournamentSelector(params.TournamentSize)
	},
	RouletteSelection: func(Parameters) Selector {
		return NewRouletteSelector()
	},
}

func NewSelector(params Parameters) (Selector, error) {
	constructor, ok := selectors[params.Selection]
	if !ok {
		return nil, ErrInvalidArgument
	}
	return constructor(params), nil
}

func SelectionStrategies() []string {
	strategies := lo.Keys(selectors)
	slices.Sort(strategies)
	return strategies
}
