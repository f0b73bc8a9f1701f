package grove

import (
	"math"

	"github.com/pkg/errors"
)

// UnlimitedDepth can be used as Config.MaxDepth to let
// features, purity and gain be the only bounds to
// the growth of a tree.
const UnlimitedDepth = math.MaxInt32

/*
Config holds the configuration for growing a tree, that is,
for when a node must not be split further.
*/
type Config struct {
	// MaxDepth is the maximum depth of the tree: nodes
	// at this depth are leaves. It must be at least 1.
	MaxDepth int
	// MinSamples is the minimum number of training samples
	// a node must have to attempt splitting it. It must be at
	// least 1.
	MinSamples int
	// Smoothing is the additive smoothing constant applied to
	// the label distributions of non-pure nodes. 0 means no
	// smoothing.
	Smoothing float64
	// GainEpsilon is the minimum information gain a split
	// must exceed to be accepted.
	GainEpsilon float64
	// MinimumEntropy is the maximum value of
	// entropy for a node that prevents it from
	// being branched out at all. In other words,
	// nodes whose training dataset has an
	// entropy equal or below this will not be
	// developed.
	MinimumEntropy float64
	// Pruner, if not nil, is applied to every candidate
	// partition of a node to determine if it is worth
	// incorporating into the tree.
	Pruner Pruner
	// Workers is the number of goroutines developing
	// nodes at a time when growing a tree.
	Workers int
}

// DefaultConfig returns a Config with unlimited depth, no
// smoothing, no gain threshold and a single worker.
func DefaultConfig() Config {
	return Config{
		MaxDepth:   UnlimitedDepth,
		MinSamples: 1,
		Workers:    1,
	}
}

// Validate returns an error wrapping ErrInvalidConfig if
// the configuration cannot be used to grow a tree.
func (c Config) Validate() error {
	switch {
	case c.MaxDepth < 1:
		return errors.Wrapf(ErrInvalidConfig, "max depth %d is below 1", c.MaxDepth)
	case c.MinSamples < 1:
		return errors.Wrapf(ErrInvalidConfig, "min samples %d is below 1", c.MinSamples)
	case c.Smoothing < 0 || math.IsNaN(c.Smoothing) || math.IsInf(c.Smoothing, 0):
		return errors.Wrapf(ErrInvalidConfig, "smoothing %v is not a non-negative number", c.Smoothing)
	case c.GainEpsilon < 0 || math.IsNaN(c.GainEpsilon):
		return errors.Wrapf(ErrInvalidConfig, "gain epsilon %v is not a non-negative number", c.GainEpsilon)
	case c.MinimumEntropy < 0 || math.IsNaN(c.MinimumEntropy):
		return errors.Wrapf(ErrInvalidConfig, "minimum entropy %v is not a non-negative number", c.MinimumEntropy)
	case c.Workers < 1:
		return errors.Wrapf(ErrInvalidConfig, "%d workers", c.Workers)
	}
	return nil
}
