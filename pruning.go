package grove

import (
	"context"
	"math"

	"github.com/pbanos/grove/dataset"
)

/*
Pruner is an interface wrapping the Prune method, that can be used
to decide whether a partition is good enough to become part of a tree
or if it must be pruned instead.

The Prune method takes a context, dataset and a partition of the dataset
and returns a boolean: true to indicate the partition must be pruned, false
to allow its adding to the tree and further development.
*/
type Pruner interface {
	Prune(ctx context.Context, s dataset.Dataset, p *Partition) (bool, error)
}

/*
PrunerFunc wraps a function with the Prune method signature to implement
the Pruner interface
*/
type PrunerFunc func(ctx context.Context, s dataset.Dataset, p *Partition) (bool, error)

/*
Prune takes a context.Context, a dataset and a partition and
invokes the PrunerFunc with those parameters to return its boolean result.
*/
func (pf PrunerFunc) Prune(ctx context.Context, s dataset.Dataset, p *Partition) (bool, error) {
	return pf(ctx, s, p)
}

/*
MDLPruner returns a Pruner whose Prune method evaluates a minimum information
gain for the partition following the minimum description length principle and
returns true if the partition information gain is below this minimum and false
otherwise.
This minimum is calculated as
(1/N) x log2(N-1) + (1/N) x [ log2 (3^k-2) - (k x Entropy(S) - k1 x Entropy(S1) - k2 x Entropy(S2) ... - ki x Entropy(Si)]
with
  - N being the number of samples in the dataset
  - k being the number of different labels on the dataset
  - k1, k2, ... ki being the number of different labels on the subset for the partition subtree 1, 2, ... i
  - S1, S2, ... Si being the subset for the partition subtree 1, 2, ... i
*/
func MDLPruner() Pruner {
	return PrunerFunc(func(ctx context.Context, s dataset.Dataset, p *Partition) (bool, error) {
		count, err := s.Count(ctx)
		if err != nil {
			return false, err
		}
		if count < 2 {
			return true, nil
		}
		n := float64(count)
		labels, err := s.CountLabels(ctx)
		if err != nil {
			return false, err
		}
		k := float64(len(labels))
		sEntropy, err := s.Entropy(ctx)
		if err != nil {
			return false, err
		}
		minimum := math.Log2(n-1.0) + math.Log2(math.Pow(3.0, k)-2) - k*sEntropy
		for _, st := range p.Tasks {
			stEntropy, err := st.Dataset.Entropy(ctx)
			if err != nil {
				return false, err
			}
			stLabels, err := st.Dataset.CountLabels(ctx)
			if err != nil {
				return false, err
			}
			minimum += float64(len(stLabels)) * stEntropy
		}
		minimum = minimum / n
		return minimum > p.informationGain, nil
	})
}

/*
FixedInformationGainPruner takes an informationGainThreshold float64 value
and returns a Pruner whose Prune method returns whether the informationGainThreshold
is greater or equal to the received partition's information gain
*/
func FixedInformationGainPruner(informationGainThreshold float64) Pruner {
	return PrunerFunc(func(ctx context.Context, s dataset.Dataset, p *Partition) (bool, error) {
		return informationGainThreshold >= p.informationGain, nil
	})
}

/*
NoPruner returns a Pruner whose Prune method always returns false, that is,
never prunes.
*/
func NoPruner() Pruner {
	return PrunerFunc(func(ctx context.Context, s dataset.Dataset, p *Partition) (bool, error) {
		return false, nil
	})
}
