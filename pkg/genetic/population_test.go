package genetic

import (
	"context"
	"errors"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limaJavier/evotimetabling/pkg/model"
)

func TestBuildPopulation(t *testing.T) {
	//** Arrange
	input, catalog := inputFromFile(t, "medium.json"), defaultCatalog(t)
	builder := model.NewBuilder(input, catalog, model.DefaultMaxAttempts, nil)

	//** Act
	population, err := BuildPopulation(context.Background(), builder, 20, 4, testRand(), NewTournamentSelector(3))

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, 20, population.Size())
	assert.Len(t, lo.Uniq(population.Schedules()), 20)
	for _, schedule := range population.Schedules() {
		assert.Equal(t, uint64(0), model.EvaluateConflicts(schedule).Room)
		assert.Equal(t, uint64(0), model.EvaluateConflicts(schedule).Professor)
	}

	require.NoError(t, population.Evaluate(context.Background(), 4))
	for _, schedule := range population.Schedules() {
		assert.False(t, schedule.Stale())
	}
}

func TestBuildPopulationIsReproducible(t *testing.T) {
	input, catalog := inputFromFile(t, "medium.json"), defaultCatalog(t)
	builder := model.NewBuilder(input, catalog, model.DefaultMaxAttempts, nil)

	first, err := BuildPopulation(context.Background(), builder, 8, 8, testRand(), NewRouletteSelector())
	require.NoError(t, err)
	second, err := BuildPopulation(context.Background(), builder, 8, 1, testRand(), NewRouletteSelector())
	require.NoError(t, err)

	for i := range 8 {
		assert.Equal(t, first.Schedules()[i].Classes(), second.Schedules()[i].Classes())
	}
}

func TestBuildPopulationCancelled(t *testing.T) {
	input, catalog := inputFromFile(t, "small.json"), defaultCatalog(t)
	builder := model.NewBuilder(input, catalog, model.DefaultMaxAttempts, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	population, err := BuildPopulation(ctx, builder, 10, 2, testRand(), NewRouletteSelector())

	assert.Nil(t, population)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestNewPopulationRejectsInvalidArguments(t *testing.T) {
	input, catalog := lectureOnlyInput(t), defaultCatalog(t)
	schedule := scheduleWithConflicts(input, catalog, 0)

	_, err := NewPopulation(nil, NewRouletteSelector())
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	_, err = NewPopulation([]*model.Schedule{schedule}, nil)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	_, err = NewPopulation([]*model.Schedule{schedule, nil}, NewRouletteSelector())
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestPopulationBest(t *testing.T) {
	input, catalog := lectureOnlyInput(t), defaultCatalog(t)
	schedules := []*model.Schedule{
		scheduleWithConflicts(input, catalog, 3),
		scheduleWithConflicts(input, catalog, 1),
		scheduleWithConflicts(input, catalog, 1),
		scheduleWithConflicts(input, catalog, 2),
	}
	population, err := NewPopulation(schedules, NewTournamentSelector(2))
	require.NoError(t, err)

	assert.Same(t, schedules[1], population.Best()) // Earliest wins ties
	assert.InDelta(t, 0.9, population.BestFitness(), 1e-9)

	first, second, err := population.SelectParents(testRand())
	assert.Nil(t, err)
	assert.Contains(t, schedules, first)
	assert.Contains(t, schedules, second)
}
