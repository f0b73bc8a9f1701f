package dataset

import (
	"context"
	"sync"
	"testing"

	"github.com/pbanos/grove/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func toySamples() []Sample {
	return []Sample{
		NewSample(map[string]interface{}{"color": "red", "shape": "circle"}, "fruit"),
		NewSample(map[string]interface{}{"color": "red", "shape": "square"}, "toy"),
		NewSample(map[string]interface{}{"color": "green"}, "fruit"),
		NewSample(map[string]interface{}{"color": "green", "shape": "circle"}, "fruit"),
	}
}

func TestDatasetImplementations(t *testing.T) {
	ctx := context.Background()
	color := feature.NewDiscreteFeature("color", nil)
	shape := feature.NewDiscreteFeature("shape", nil)
	implementations := map[string]func([]Sample) Dataset{
		"memory intensive": NewMemoryIntensive,
		"cpu intensive":    NewCPUIntensive,
	}
	for name, newDataset := range implementations {
		t.Run(name, func(t *testing.T) {
			s := newDataset(toySamples())

			count, err := s.Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, 4, count)

			counts, err := s.CountLabels(ctx)
			require.NoError(t, err)
			assert.Equal(t, map[string]int{"fruit": 3, "toy": 1}, counts)

			h, err := s.Entropy(ctx)
			require.NoError(t, err)
			assert.InDelta(t, 0.8112781244591328, h, 1e-9)

			values, err := s.FeatureValues(ctx, shape)
			require.NoError(t, err)
			assert.Equal(t, []interface{}{"circle", "square", nil}, values)

			reds, err := s.SubsetWith(ctx, feature.NewDiscreteCriterion(color, "red"))
			require.NoError(t, err)
			samples, err := reds.Samples(ctx)
			require.NoError(t, err)
			require.Len(t, samples, 2)
			assert.Equal(t, "fruit", samples[0].Label())
			assert.Equal(t, "toy", samples[1].Label())
			h, err = reds.Entropy(ctx)
			require.NoError(t, err)
			assert.InDelta(t, 1.0, h, 1e-9)

			noShape, err := s.SubsetWith(ctx, feature.NewUndefinedCriterion(shape))
			require.NoError(t, err)
			count, err = noShape.Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, 1, count)
			criteria, err := noShape.Criteria(ctx)
			require.NoError(t, err)
			assert.Len(t, criteria, 1)

			greenCircles, err := s.SubsetWith(ctx, feature.NewDiscreteCriterion(color, "green"))
			require.NoError(t, err)
			greenCircles, err = greenCircles.SubsetWith(ctx, feature.NewDiscreteCriterion(shape, "circle"))
			require.NoError(t, err)
			count, err = greenCircles.Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, 1, count)
			h, err = greenCircles.Entropy(ctx)
			require.NoError(t, err)
			assert.Equal(t, 0.0, h)

			_, err = newDataset([]Sample{NewSample(map[string]interface{}{"shape": map[string]int{}}, "x")}).FeatureValues(ctx, shape)
			assert.ErrorIs(t, err, feature.ErrIncomparableValue)
		})
	}
}

func TestLabelsAndFeatures(t *testing.T) {
	ctx := context.Background()
	s := New(toySamples())
	labels, err := Labels(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, []string{"fruit", "toy"}, labels)

	features, err := Features(ctx, s)
	require.NoError(t, err)
	require.Len(t, features, 2)
	assert.Equal(t, "color", features[0].Name())
	assert.Equal(t, "shape", features[1].Name())
}

func TestEntropy(t *testing.T) {
	assert.Equal(t, 0.0, Entropy(nil))
	assert.Equal(t, 0.0, Entropy(map[string]int{"a": 5}))
	assert.InDelta(t, 1.0, Entropy(map[string]int{"a": 2, "b": 2, "c": 0}), 1e-12)
}

func TestCachedValuesUnderConcurrentUse(t *testing.T) {
	ctx := context.Background()
	implementations := map[string]func([]Sample) Dataset{
		"memory intensive": NewMemoryIntensive,
		"cpu intensive":    NewCPUIntensive,
	}
	for name, newDataset := range implementations {
		t.Run(name, func(t *testing.T) {
			s := newDataset(toySamples())
			var wg sync.WaitGroup
			entropies := make([]float64, 16)
			counts := make([]int, 16)
			for i := range entropies {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					var err error
					entropies[i], err = s.Entropy(ctx)
					assert.NoError(t, err)
					counts[i], err = s.Count(ctx)
					assert.NoError(t, err)
				}(i)
			}
			wg.Wait()
			for i := range entropies {
				assert.InDelta(t, 0.8112781244591328, entropies[i], 1e-12)
				assert.Equal(t, 4, counts[i])
			}
		})
	}
}
