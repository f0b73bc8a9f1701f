package csv

import (
	"context"
	"strings"
	"testing"

	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const toys = `color,shape,kind
red,circle,fruit
red,square,toy
green,?,fruit
`

func TestReadDatasetWithoutFeatures(t *testing.T) {
	ctx := context.Background()
	ds, err := ReadDataset(strings.NewReader(toys), nil, "kind", dataset.New)
	require.NoError(t, err)

	count, err := ds.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	samples, err := ds.Samples(ctx)
	require.NoError(t, err)
	assert.Equal(t, "toy", samples[1].Label())

	shape := feature.NewDiscreteFeature("shape", nil)
	v, err := samples[2].ValueFor(ctx, shape)
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = samples[1].ValueFor(ctx, shape)
	require.NoError(t, err)
	assert.Equal(t, "square", v)
}

func TestReadDatasetWithFeatures(t *testing.T) {
	ctx := context.Background()
	shape := feature.NewDiscreteFeature("shape", []string{"circle", "square"})
	ds, err := ReadDataset(strings.NewReader(toys), []feature.Feature{shape}, "kind", dataset.New)
	require.NoError(t, err)

	features, err := dataset.Features(ctx, ds)
	require.NoError(t, err)
	require.Len(t, features, 1)
	assert.Equal(t, "shape", features[0].Name())
}

func TestReadDatasetInvalidValue(t *testing.T) {
	shape := feature.NewDiscreteFeature("shape", []string{"circle"})
	_, err := ReadDataset(strings.NewReader(toys), []feature.Feature{shape}, "kind", dataset.New)
	assert.Error(t, err)
}

func TestReadDatasetMissingLabelColumn(t *testing.T) {
	_, err := ReadDataset(strings.NewReader(toys), nil, "class", dataset.New)
	assert.Error(t, err)
}

func TestReadDatasetBySampleStops(t *testing.T) {
	var read int
	err := ReadDatasetBySample(strings.NewReader(toys), nil, "kind", func(i int, s dataset.Sample) (bool, error) {
		read++
		return i < 1, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, read)
}
