package canon

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/satchel/pkg/types"
)

// Producer yields one raw structure from the data-access layer.
// It returns an error only on true backend failure, never for shape
// mismatches.
type Producer func() (any, error)

// Pipeline runs raw producer output through the standardizer and the
// advisory validator before it is wrapped for the wire. A validation
// failure is observability, not an error: the violations are logged
// and the standardized value is returned anyway. Hard failure is
// reserved for the producer itself (wrapped as BackendError) and for
// standardization failure.
//
// The pipeline holds no mutable state; one instance serves
// arbitrarily many concurrent callers.
type Pipeline struct {
	logger *zap.Logger
}

// NewPipeline creates a Pipeline logging through logger.
// A nil logger disables diagnostics.
func NewPipeline(logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{logger: logger}
}

// run is the generic standardize-then-validate composition.
func run[T any](p *Pipeline, shape types.Shape, standardize func(any) (T, error), f Producer) (T, error) {
	var zero T

	raw, err := f()
	if err != nil {
		return zero, &types.BackendError{Op: "fetch " + shape.String(), Err: err}
	}

	out, err := standardize(raw)
	if err != nil {
		return zero, err
	}

	verdict, err := Validate(shape, out)
	if err != nil {
		return zero, err
	}
	if !verdict.OK {
		p.logger.Warn("response failed structural validation",
			zap.Stringer("shape", shape),
			zap.Any("violations", verdict.Violations),
		)
	}
	return out, nil
}

// Model fetches and shapes a model summary.
func (p *Pipeline) Model(f Producer) (types.Model, error) {
	return run(p, types.ShapeModel, StandardizeModel, f)
}

// ModelType fetches and shapes a type descriptor.
func (p *Pipeline) ModelType(f Producer) (types.ModelType, error) {
	return run(p, types.ShapeModelType, StandardizeModelType, f)
}

// ModelFullData fetches and shapes a complete model record.
func (p *Pipeline) ModelFullData(f Producer) (types.ModelFullData, error) {
	return run(p, types.ShapeModelFullData, StandardizeModelFullData, f)
}

// Models fetches a row list and shapes each row into a model
// summary. A row that fails standardization fails the whole list with
// an index-qualified error.
func (p *Pipeline) Models(f func() ([]map[string]any, error)) ([]types.Model, error) {
	rows, err := f()
	if err != nil {
		return nil, &types.BackendError{Op: "fetch models", Err: err}
	}

	out := make([]types.Model, 0, len(rows))
	for i, row := range rows {
		model, err := StandardizeModel(row)
		if err != nil {
			return nil, nestErr(types.ShapeModel, "["+strconv.Itoa(i)+"]", err)
		}
		verdict, err := Validate(types.ShapeModel, model)
		if err != nil {
			return nil, err
		}
		if !verdict.OK {
			p.logger.Warn("response failed structural validation",
				zap.Stringer("shape", types.ShapeModel),
				zap.Int("row", i),
				zap.Any("violations", verdict.Violations),
			)
		}
		out = append(out, model)
	}
	return out, nil
}
