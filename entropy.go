package grove

import (
	"context"
	"sort"

	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/feature"
)

// FeatureGain is a feature along the information gain
// of partitioning a dataset with it
type FeatureGain struct {
	Feature feature.Feature
	Gain    float64
}

/*
Entropy takes a context and a dataset and returns the Shannon entropy in bits
of the labels of its samples: 0 when all share one label, 1 for two labels
evenly split. ErrEmptyDataset is returned for datasets without samples.
*/
func Entropy(ctx context.Context, s dataset.Dataset) (float64, error) {
	count, err := s.Count(ctx)
	if err != nil {
		return 0.0, err
	}
	if count == 0 {
		return 0.0, ErrEmptyDataset
	}
	return s.Entropy(ctx)
}

/*
InformationGain takes a context, a dataset and a feature and returns
the information gain of partitioning the dataset by the values of
the feature, samples not defining it forming a group of their own:

	Entropy(S) - Σv |Sv|/|S| Entropy(Sv)

The result is in [0, Entropy(S)].
*/
func InformationGain(ctx context.Context, s dataset.Dataset, f feature.Feature) (float64, error) {
	p, err := NewPartition(ctx, s, f)
	if err != nil {
		return 0.0, err
	}
	return p.informationGain, nil
}

/*
MostInformativeFeatures takes a context, a dataset, a slice of features and
a number n and returns the n features with the highest information gain on
the dataset, sorted by decreasing gain and then by name. A non-positive n
returns all the features.
*/
func MostInformativeFeatures(ctx context.Context, s dataset.Dataset, features []feature.Feature, n int) ([]FeatureGain, error) {
	result := make([]FeatureGain, 0, len(features))
	for _, f := range sortedFeatures(features) {
		g, err := InformationGain(ctx, s, f)
		if err != nil {
			return nil, err
		}
		result = append(result, FeatureGain{f, g})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Gain > result[j].Gain+gainTolerance
	})
	if n > 0 && n < len(result) {
		result = result[:n]
	}
	return result, nil
}
