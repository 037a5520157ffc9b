package genetic

import (
	"fmt"
	"math/rand/v2"
	"runtime"

	"github.com/go-playground/validator/v10"

	"github.com/limaJavier/evotimetabling/pkg/model"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Parameters of the genetic algorithm
type Parameters struct {
	PopulationSize      int     `mapstructure:"population_size" validate:"gte=1"`
	Generations         int     `mapstructure:"generations" validate:"gte=1"`          // Generation budget, the initial population being the first generation
	MutationRate        float64 `mapstructure:"mutation_rate" validate:"gte=0,lte=1"`  // Probability of perturbing one gene of an offspring
	CrossoverRate       float64 `mapstructure:"crossover_rate" validate:"gte=0,lte=1"` // Probability of recombining two parents instead of copying one
	EliteCount          int     `mapstructure:"elite_count" validate:"gte=1,ltfield=PopulationSize"`
	TournamentSize      int     `mapstructure:"tournament_size" validate:"gte=1"`
	StagnationThreshold int     `mapstructure:"stagnation_threshold" validate:"gte=1"` // Consecutive generations with the same best fitness tolerated before stopping
	Selection           string  `mapstructure:"selection" validate:"required"`
	Workers             int     `mapstructure:"workers" validate:"gte=0"` // Zero means one worker per CPU
	MaxAttempts         int     `mapstructure:"max_attempts" validate:"gte=1"`
	Seed                uint64  `mapstructure:"seed"` // Zero means a random seed
	RepairRooms         bool    `mapstructure:"repair_rooms"`
}

func DefaultParameters() Parameters {
	return Parameters{
		PopulationSize:      150,
		Generations:         2000,
		MutationRate:        0.01,
		CrossoverRate:       0.75,
		EliteCount:          1,
		TournamentSize:      10,
		StagnationThreshold: 20,
		Selection:           TournamentSelection,
		Workers:             0,
		MaxAttempts:         model.DefaultMaxAttempts,
		Seed:                0,
		RepairRooms:         false,
	}
}

func (params Parameters) Validate() error {
	if err := validate.Struct(params); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	if _, ok := selectors[params.Selection]; !ok {
		return fmt.Errorf("%w: %v is not a valid selection strategy, allowed values are %v", ErrInvalidArgument, params.Selection, SelectionStrategies())
	}
	return nil
}

func workerCount(workers int) int {
	if workers <= 0 {
		return runtime.NumCPU()
	}
	return workers
}

func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// deriveRand creates an independent generator seeded from rng, so concurrent tasks never share one
func deriveRand(rng *rand.Rand) *rand.Rand {
	return rand.New(rand.NewPCG(rng.Uint64(), rng.Uint64()))
}
