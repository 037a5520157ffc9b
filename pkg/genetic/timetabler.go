package genetic

import (
	"context"

	"go.uber.org/zap"

	"github.com/limaJavier/evotimetabling/pkg/model"
)

type geneticTimetabler struct {
	catalog *model.TimeSlotCatalog
	params  Parameters
	logger  *zap.Logger
}

func NewTimetabler(catalog *model.TimeSlotCatalog, params Parameters, logger *zap.Logger) model.Timetabler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &geneticTimetabler{
		catalog: catalog,
		params:  params,
		logger:  logger,
	}
}

// Build returns the best schedule found. When ctx is cancelled mid-run the best schedule so far is returned
// along with the context's error
func (timetabler *geneticTimetabler) Build(ctx context.Context, modelInput model.ModelInput) (*model.Schedule, error) {
	optimizer, err := NewOptimizer(&modelInput, timetabler.catalog, timetabler.params, timetabler.logger)
	if err != nil {
		return nil, err
	}

	result, err := optimizer.Run(ctx)
	if err != nil {
		return result.Best, err
	}
	return result.Best, nil
}

func (timetabler *geneticTimetabler) Verify(schedule *model.Schedule) bool {
	return model.Verify(schedule)
}
