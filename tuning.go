package eskit

import (
	"context"

	"github.com/thalesfsp/ho"
)

// OptimizeChunkSize runs a hyperparameter optimization using the Gaussian
// Process and Upper Confidence Bound (UCB) as acquisition function against
// the loader chunk size, benchmarking LoadDocuments against the given
// dataset.
func (s *Stack) OptimizeChunkSize(
	// Context to be used in the optimization.
	ctx context.Context,

	// Index to load into during benchmarking.
	index string,

	// Dataset to be used in the optimization.
	dataset Dataset,

	// Load options to be optimized.
	opts *LoadOptions,

	// Optimization configuration.
	optimizationConfig ho.OptimizationConfig,

	// Parameter range to be optimized.
	parameterRange []ho.ParameterRange[int],
) ([]int, error) {
	if opts == nil {
		o, err := NewLoadOptions()
		if err != nil {
			return nil, err
		}

		opts = o
	}

	benchmarkFunc := func(params ...int) error {
		opts.ChunkSize = params[0]

		// Any failure must be returned so the Gaussian Process can learn
		// and steer away from the parameters that caused it.
		result, err := s.LoadDocuments(ctx, index, dataset, opts)
		if err != nil {
			return err
		}

		if len(result.Failures) > 0 {
			return result.Failures[0].Err
		}

		return nil
	}

	optimalSize := ho.OptimizeHyperparameters[int](
		optimizationConfig,
		benchmarkFunc,
		parameterRange...,
	)

	return optimalSize, nil
}
