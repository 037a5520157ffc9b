package genetic

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/limaJavier/evotimetabling/pkg/model"
)

type State int32

const (
	StateInitialized State = iota
	StateEvaluating
	StateSelecting
	StateBreeding
	StateTerminated
)

func (state State) String() string {
	return [...]string{"initialized", "evaluating", "selecting", "breeding", "terminated"}[state]
}

type StopReason int

const (
	StopBudget StopReason = iota
	StopStagnation
	StopPerfect
	StopCancelled
)

func (reason StopReason) String() string {
	return [...]string{"generation budget exhausted", "stagnation", "perfect fitness", "cancelled"}[reason]
}

type Result struct {
	RunId         string
	Best          *model.Schedule
	BestFitness   float64
	Generations   int       // Generations evaluated, the initial population included
	Reason        StopReason
	History       []float64 // Best fitness per generation
	RepairedSlots int
	Duration      time.Duration
}

// Optimizer drives the generational loop. It runs one optimization at a time
type Optimizer struct {
	input    *model.ModelInput
	catalog  *model.TimeSlotCatalog
	params   Parameters
	builder  *model.Builder
	engine   *EvolutionEngine
	selector Selector
	logger   *zap.Logger

	mutex sync.Mutex
	rng   *rand.Rand
	state atomic.Int32
}

func NewOptimizer(input *model.ModelInput, catalog *model.TimeSlotCatalog, params Parameters, logger *zap.Logger) (*Optimizer, error) {
	if input == nil || catalog == nil {
		return nil, fmt.Errorf("%w: optimizer requires a model input and a time-slot catalog", ErrInvalidArgument)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := model.ValidateCatalog(input, catalog); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	selector, err := NewSelector(params)
	if err != nil {
		return nil, err
	}
	engine, err := NewEvolutionEngine(params)
	if err != nil {
		return nil, err
	}

	optimizer := &Optimizer{
		input:    input,
		catalog:  catalog,
		params:   params,
		builder:  model.NewBuilder(input, catalog, params.MaxAttempts, logger),
		engine:   engine,
		selector: selector,
		logger:   logger,
		rng:      newRand(params.Seed),
	}
	engine.stateHook = optimizer.setState
	return optimizer, nil
}

func (optimizer *Optimizer) State() State {
	return State(optimizer.state.Load())
}

func (optimizer *Optimizer) setState(state State) {
	optimizer.state.Store(int32(state))
}

// Run builds the initial population and evolves it. On cancellation the best schedule found so far is
// returned together with the context's error
func (optimizer *Optimizer) Run(ctx context.Context) (Result, error) {
	optimizer.mutex.Lock()
	population, err := BuildPopulation(
		ctx,
		optimizer.builder,
		optimizer.params.PopulationSize,
		optimizer.params.Workers,
		optimizer.rng,
		optimizer.selector,
	)
	optimizer.mutex.Unlock()
	if err != nil {
		if ctx.Err() != nil {
			optimizer.setState(StateTerminated)
			return Result{Reason: StopCancelled}, err
		}
		return Result{}, err
	}

	return optimizer.RunFrom(ctx, population)
}

// RunFrom evolves the given population until the generation budget is exhausted, the best fitness stagnates,
// a perfect schedule is found or ctx is cancelled
func (optimizer *Optimizer) RunFrom(ctx context.Context, population *Population) (Result, error) {
	optimizer.mutex.Lock()
	defer optimizer.mutex.Unlock()

	result := Result{RunId: uuid.NewString()}
	logger := optimizer.logger.With(zap.String("run_id", result.RunId))
	start := time.Now()

	logger.Info("optimization started",
		zap.Int("population", population.Size()),
		zap.Int("generations", optimizer.params.Generations),
		zap.String("selection", optimizer.params.Selection),
	)

	optimizer.setState(StateEvaluating)
	if err := population.Evaluate(ctx, optimizer.params.Workers); err != nil {
		return optimizer.cancel(logger, result, start, err)
	}

	tracker := newStagnationTracker(optimizer.params.StagnationThreshold)
	for generation := 1; ; generation++ {
		best := population.Best()
		result.Best, result.BestFitness, result.Generations = best, best.Fitness(), generation
		result.History = append(result.History, best.Fitness())

		logger.Debug("generation evaluated",
			zap.Int("generation", generation),
			zap.Float64("best_fitness", best.Fitness()),
		)

		stagnant := tracker.observe(best.Fitness())
		if best.Fitness() == 1 {
			result.Reason = StopPerfect
			break
		} else if stagnant {
			result.Reason = StopStagnation
			break
		} else if generation >= optimizer.params.Generations {
			result.Reason = StopBudget
			break
		}

		if err := ctx.Err(); err != nil {
			return optimizer.cancel(logger, result, start, err)
		}

		next, err := optimizer.engine.Evolve(ctx, population, optimizer.rng)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return optimizer.cancel(logger, result, start, err)
		} else if err != nil {
			optimizer.setState(StateTerminated)
			return Result{}, err
		}
		population = next
	}
	optimizer.setState(StateTerminated)

	if optimizer.params.RepairRooms {
		optimizer.repairRooms(logger, &result)
	}

	result.Duration = time.Since(start)
	logger.Info("optimization finished",
		zap.Stringer("reason", result.Reason),
		zap.Int("generations", result.Generations),
		zap.Float64("best_fitness", result.BestFitness),
		zap.Duration("duration", result.Duration),
	)
	return result, nil
}

func (optimizer *Optimizer) cancel(logger *zap.Logger, result Result, start time.Time, err error) (Result, error) {
	optimizer.setState(StateTerminated)
	result.Reason = StopCancelled
	result.Duration = time.Since(start)
	logger.Warn("optimization cancelled",
		zap.Int("generations", result.Generations),
		zap.Float64("best_fitness", result.BestFitness),
		zap.Error(err),
	)
	return result, err
}

// repairRooms keeps the room-matched schedule only when it is at least as fit as the evolved one
func (optimizer *Optimizer) repairRooms(logger *zap.Logger, result *Result) {
	repaired, rewritten, err := model.AssignRooms(result.Best)
	if err != nil {
		logger.Warn("room repair failed", zap.Error(err))
		return
	}
	if rewritten == 0 || repaired.Fitness() < result.BestFitness {
		return
	}

	logger.Debug("rooms repaired",
		zap.Int("slots", rewritten),
		zap.Float64("before", result.BestFitness),
		zap.Float64("after", repaired.Fitness()),
	)
	result.Best, result.BestFitness, result.RepairedSlots = repaired, repaired.Fitness(), rewritten
}

// stagnationTracker counts consecutive generations sharing the same best fitness
type stagnationTracker struct {
	threshold int
	last      float64
	count     int
}

func newStagnationTracker(threshold int) *stagnationTracker {
	return &stagnationTracker{threshold: threshold}
}

// observe records a generation's best fitness and reports whether the run has stagnated
func (tracker *stagnationTracker) observe(fitness float64) bool {
	if tracker.count > 0 && fitness == tracker.last {
		tracker.count++
	} else {
		tracker.last, tracker.count = fitness, 1
	}
	return tracker.count > tracker.threshold
}
