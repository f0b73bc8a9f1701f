package grove

import (
	"context"
	"math"
	"sort"

	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/feature"
	"github.com/pbanos/grove/queue"
	"github.com/pbanos/grove/tree"
)

// gains closer than this are considered equal
const gainTolerance = 1e-12

/*
Partition represents a partition of a dataset according to a feature
into subtrees with an information gain to predict the label
*/
type Partition struct {
	Feature         feature.Feature
	Tasks           []*queue.Task
	informationGain float64
}

// InformationGain returns the reduction in label entropy achieved
// by the partition
func (p *Partition) InformationGain() float64 {
	return p.informationGain
}

/*
NewPartition takes a context.Context, a non-empty dataset and a feature and
returns the partition of the dataset by the values samples take for the
feature. There is a task for every observed value, in order of appearance,
with the subset of samples taking it. Samples not defining the feature
form their own subset, selected by an undefined criterion.
*/
func NewPartition(ctx context.Context, s dataset.Dataset, f feature.Feature) (*Partition, error) {
	values, err := s.FeatureValues(ctx, f)
	if err != nil {
		return nil, err
	}
	sEntropy, err := s.Entropy(ctx)
	if err != nil {
		return nil, err
	}
	count, err := s.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrEmptyDataset
	}
	totalCount := float64(count)
	informationGain := sEntropy
	tasks := make([]*queue.Task, 0, len(values))
	for _, value := range values {
		var fc feature.Criterion
		if value == nil {
			fc = feature.NewUndefinedCriterion(f)
		} else {
			fc = feature.NewDiscreteCriterion(f, value)
		}
		ns, err := s.SubsetWith(ctx, fc)
		if err != nil {
			return nil, err
		}
		nEntropy, err := ns.Entropy(ctx)
		if err != nil {
			return nil, err
		}
		subtreeCount, err := ns.Count(ctx)
		if err != nil {
			return nil, err
		}
		informationGain -= nEntropy * float64(subtreeCount) / totalCount
		tasks = append(tasks, &queue.Task{
			Node:    &tree.Node{FeatureCriterion: fc},
			Dataset: ns,
		})
	}
	informationGain = math.Min(math.Max(informationGain, 0), sEntropy)
	return &Partition{f, tasks, informationGain}, nil
}

/*
BestFeature takes a context, a dataset, a slice of candidate features and
a Config and returns the partition of the dataset with the highest
information gain among those of the candidates, or nil if there is no
informative one.

Partitions into a single subset, with a gain not above the config's
GainEpsilon or pruned by the config's Pruner are not informative.
Candidates are evaluated in lexicographic order of their names and ties
are resolved in favour of the first, so the result does not depend on
the order of the candidates.
*/
func BestFeature(ctx context.Context, s dataset.Dataset, candidates []feature.Feature, cfg *Config) (*Partition, error) {
	var best *Partition
	for _, f := range sortedFeatures(candidates) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p, err := NewPartition(ctx, s, f)
		if err != nil {
			return nil, err
		}
		if len(p.Tasks) < 2 || p.informationGain <= cfg.GainEpsilon+gainTolerance {
			continue
		}
		if best != nil && p.informationGain <= best.informationGain+gainTolerance {
			continue
		}
		if cfg.Pruner != nil {
			pruned, err := cfg.Pruner.Prune(ctx, s, p)
			if err != nil {
				return nil, err
			}
			if pruned {
				continue
			}
		}
		best = p
	}
	return best, nil
}

func sortedFeatures(features []feature.Feature) []feature.Feature {
	sorted := make([]feature.Feature, len(features))
	copy(sorted, features)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Name() < sorted[j].Name()
	})
	return sorted
}
