package grove

import (
	"context"
	"testing"

	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntropy(t *testing.T) {
	ctx := context.Background()
	testCases := []struct {
		name     string
		labels   []string
		expected float64
	}{
		{"pure", []string{"a", "a", "a"}, 0.0},
		{"even", []string{"a", "b", "a", "b"}, 1.0},
		{"four labels", []string{"a", "b", "c", "d"}, 2.0},
		{"two thirds", []string{"a", "a", "b"}, 0.9182958340544896},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rows := make([]row, len(tc.labels))
			for i := range rows {
				rows[i] = row{}
			}
			h, err := Entropy(ctx, newDataset(tc.labels, rows...))
			require.NoError(t, err)
			assert.InDelta(t, tc.expected, h, 1e-9)
			assert.GreaterOrEqual(t, h, 0.0)
		})
	}
}

func TestEntropyOfEmptyDataset(t *testing.T) {
	_, err := Entropy(context.Background(), dataset.New(nil))
	assert.ErrorIs(t, err, ErrEmptyDataset)
}

func TestInformationGain(t *testing.T) {
	ctx := context.Background()
	s := toys()
	h, err := Entropy(ctx, s)
	require.NoError(t, err)

	shape, err := InformationGain(ctx, s, feature.NewDiscreteFeature("shape", nil))
	require.NoError(t, err)
	assert.InDelta(t, h, shape, 1e-9)

	color, err := InformationGain(ctx, s, feature.NewDiscreteFeature("color", nil))
	require.NoError(t, err)
	assert.InDelta(t, h-2.0/3.0, color, 1e-9)
	assert.Greater(t, shape, color)

	missing, err := InformationGain(ctx, s, feature.NewDiscreteFeature("weight", nil))
	require.NoError(t, err)
	assert.Equal(t, 0.0, missing)
}

func TestInformationGainCountsMissingValuesAsAGroup(t *testing.T) {
	ctx := context.Background()
	s := newDataset(
		[]string{"L1", "L1", "L2", "L2"},
		row{"a": "x"},
		row{"a": "x"},
		row{},
		row{},
	)
	g, err := InformationGain(ctx, s, feature.NewDiscreteFeature("a", nil))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, g, 1e-9)
}

func TestInformationGainRejectsIncomparableValues(t *testing.T) {
	ctx := context.Background()
	s := newDataset([]string{"L1"}, row{"a": []string{"x"}})
	_, err := InformationGain(ctx, s, feature.NewDiscreteFeature("a", nil))
	assert.ErrorIs(t, err, feature.ErrIncomparableValue)
}

func TestBestFeature(t *testing.T) {
	ctx := context.Background()
	cfg := DefaultConfig()
	color := feature.NewDiscreteFeature("color", nil)
	shape := feature.NewDiscreteFeature("shape", nil)

	p, err := BestFeature(ctx, toys(), []feature.Feature{color, shape}, &cfg)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "shape", p.Feature.Name())
	assert.Len(t, p.Tasks, 2)

	p, err = BestFeature(ctx, toys(), []feature.Feature{color}, &cfg)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "color", p.Feature.Name())

	cfg.GainEpsilon = 0.5
	p, err = BestFeature(ctx, toys(), []feature.Feature{color}, &cfg)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestBestFeatureBreaksTiesByName(t *testing.T) {
	ctx := context.Background()
	cfg := DefaultConfig()
	s := newDataset(
		[]string{"L1", "L2"},
		row{"a": "x", "b": "x"},
		row{"a": "y", "b": "y"},
	)
	a := feature.NewDiscreteFeature("a", nil)
	b := feature.NewDiscreteFeature("b", nil)
	for _, candidates := range [][]feature.Feature{{a, b}, {b, a}} {
		p, err := BestFeature(ctx, s, candidates, &cfg)
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, "a", p.Feature.Name())
	}
}

func TestBestFeatureSkipsSingleValueFeatures(t *testing.T) {
	ctx := context.Background()
	cfg := DefaultConfig()
	s := newDataset(
		[]string{"L1", "L2"},
		row{"a": "x"},
		row{"a": "x"},
	)
	p, err := BestFeature(ctx, s, []feature.Feature{feature.NewDiscreteFeature("a", nil)}, &cfg)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestMostInformativeFeatures(t *testing.T) {
	ctx := context.Background()
	features := []feature.Feature{
		feature.NewDiscreteFeature("weight", nil),
		feature.NewDiscreteFeature("color", nil),
		feature.NewDiscreteFeature("shape", nil),
	}
	fgs, err := MostInformativeFeatures(ctx, toys(), features, 0)
	require.NoError(t, err)
	require.Len(t, fgs, 3)
	assert.Equal(t, "shape", fgs[0].Feature.Name())
	assert.Equal(t, "color", fgs[1].Feature.Name())
	assert.Equal(t, "weight", fgs[2].Feature.Name())
	assert.Equal(t, 0.0, fgs[2].Gain)

	fgs, err = MostInformativeFeatures(ctx, toys(), features, 1)
	require.NoError(t, err)
	require.Len(t, fgs, 1)
	assert.Equal(t, "shape", fgs[0].Feature.Name())
}
