package dot

import (
	"bytes"
	"context"
	"testing"

	"github.com/pbanos/grove/feature"
	"github.com/pbanos/grove/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	for name, expected := range map[string]Format{"dot": DOT, "svg": SVG, "png": PNG} {
		f, err := ParseFormat(name)
		require.NoError(t, err)
		assert.Equal(t, expected, f)
	}
	_, err := ParseFormat("gif")
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	ctx := context.Background()
	ns := tree.NewMemoryNodeStore()
	shape := feature.NewDiscreteFeature("shape", nil)
	root := &tree.Node{
		SubtreeFeature: shape,
		Distribution:   tree.NewDistributionFromProbabilities(map[string]float64{"fruit": 0.5, "toy": 0.5}, 2),
	}
	require.NoError(t, ns.Create(ctx, root))
	circle := &tree.Node{
		ParentID:         root.ID,
		FeatureCriterion: feature.NewDiscreteCriterion(shape, "circle"),
		Distribution:     tree.NewDistributionFromProbabilities(map[string]float64{"fruit": 1.0}, 1),
		Depth:            1,
	}
	missing := &tree.Node{
		ParentID:         root.ID,
		FeatureCriterion: feature.NewUndefinedCriterion(shape),
		Distribution:     tree.NewDistributionFromProbabilities(map[string]float64{"toy": 1.0}, 1),
		Depth:            1,
	}
	require.NoError(t, ns.Create(ctx, circle))
	require.NoError(t, ns.Create(ctx, missing))
	root.SubtreeIDs = []string{circle.ID, missing.ID}
	require.NoError(t, ns.Store(ctx, root))

	buf := &bytes.Buffer{}
	require.NoError(t, Render(ctx, tree.New(root.ID, ns, []string{"fruit", "toy"}), DOT, buf))
	out := buf.String()
	assert.Contains(t, out, "shape?")
	assert.Contains(t, out, "circle")
	assert.Contains(t, out, "(missing)")
	assert.Contains(t, out, "fruit (1.00, n=1)")
}
