package json

import (
	"bytes"
	"context"
	"testing"

	"github.com/pbanos/grove"
	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/feature"
	fjson "github.com/pbanos/grove/feature/json"
	"github.com/pbanos/grove/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreeRoundTrip(t *testing.T) {
	ctx := context.Background()
	features := []feature.Feature{
		feature.NewDiscreteFeature("color", []string{"red", "green", "blue"}),
		feature.NewDiscreteFeature("shape", []string{"circle", "square"}),
	}
	samples := []dataset.Sample{
		dataset.NewSample(map[string]interface{}{"color": "red", "shape": "circle"}, "fruit"),
		dataset.NewSample(map[string]interface{}{"color": "red", "shape": "square"}, "toy"),
		dataset.NewSample(map[string]interface{}{"color": "green", "shape": "circle"}, "fruit"),
		dataset.NewSample(map[string]interface{}{"color": "blue"}, "toy"),
	}
	cfg := grove.DefaultConfig()
	cfg.Smoothing = 0.5
	m, err := grove.Grow(ctx, dataset.New(samples), features, cfg)
	require.NoError(t, err)

	ned := NewNodeEncodeDecoder(fjson.NewCriteriaEncodeDecoder(features), features)
	buf := &bytes.Buffer{}
	require.NoError(t, WriteJSONTree(ctx, m.Tree, ned, buf))

	rt := tree.New("", tree.NewMemoryNodeStore(), nil)
	require.NoError(t, ReadJSONTree(ctx, rt, ned, buf))
	assert.Equal(t, m.RootID, rt.RootID)
	assert.Equal(t, m.Labels, rt.Labels)
	assert.Equal(t, m.String(), rt.String())

	queries := []map[string]interface{}{
		{"color": "red", "shape": "circle"},
		{"color": "blue", "shape": "square"},
		{"color": "green"},
		{"shape": "triangle"},
		{},
	}
	for _, q := range queries {
		d1, err := m.ClassifyWithDistribution(ctx, feature.NewSample(q))
		require.NoError(t, err)
		d2, err := rt.ClassifyWithDistribution(ctx, feature.NewSample(q))
		require.NoError(t, err)
		assert.Equal(t, d1.Probabilities(), d2.Probabilities(), "query %v", q)
		assert.Equal(t, d1.Weight(), d2.Weight())
	}
}

func TestReadJSONTreeErrors(t *testing.T) {
	ctx := context.Background()
	ned := NewNodeEncodeDecoder(fjson.NewCriteriaEncodeDecoder(nil), nil)
	rt := tree.New("", tree.NewMemoryNodeStore(), nil)
	assert.Error(t, ReadJSONTree(ctx, rt, ned, bytes.NewBufferString(`{"nodes":[]}`)))
	assert.Error(t, ReadJSONTree(ctx, rt, ned, bytes.NewBufferString(`{"rootID":`)))
}
