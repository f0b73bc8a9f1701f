package csv

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteDataset(t *testing.T) {
	ctx := context.Background()
	features := []feature.Feature{
		feature.NewDiscreteFeature("color", nil),
		feature.NewDiscreteFeature("shape", nil),
	}
	ds, err := ReadDataset(strings.NewReader(toys), features, "kind", dataset.New)
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	require.NoError(t, WriteDataset(ctx, buf, ds, features, "kind"))
	assert.Equal(t, toys, buf.String())
}

func TestWriterCount(t *testing.T) {
	ctx := context.Background()
	buf := &bytes.Buffer{}
	w, err := NewWriter(buf, []feature.Feature{feature.NewDiscreteFeature("a", nil)}, "label")
	require.NoError(t, err)
	n, err := w.Write(ctx, []dataset.Sample{
		dataset.NewSample(map[string]interface{}{"a": 1}, "x"),
		dataset.NewSample(map[string]interface{}{}, "y"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, w.Count())
	require.NoError(t, w.Flush())
	assert.Equal(t, "a,label\n1,x\n?,y\n", buf.String())
}
