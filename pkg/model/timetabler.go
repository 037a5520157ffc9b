package model

import "context"

type Timetabler interface {
	Build(
		ctx context.Context,
		modelInput ModelInput,
	) (schedule *Schedule, err error)

	Verify(
		schedule *Schedule,
	) bool
}
