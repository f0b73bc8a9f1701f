package redisstore

import (
	"context"
	"os"
	"testing"

	"github.com/pbanos/grove/feature"
	fjson "github.com/pbanos/grove/feature/json"
	"github.com/pbanos/grove/tree"
	tjson "github.com/pbanos/grove/tree/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/redis.v5"
)

// newTestStore returns a store over the redis server at
// GROVE_TEST_REDIS_ADDR, skipping the test if it is not set.
func newTestStore(t *testing.T) tree.NodeStore {
	addr := os.Getenv("GROVE_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("GROVE_TEST_REDIS_ADDR not set")
	}
	rc := redis.NewClient(&redis.Options{Addr: addr})
	require.NoError(t, rc.Ping().Err())
	features := []feature.Feature{feature.NewDiscreteFeature("shape", nil)}
	ned := tjson.NewNodeEncodeDecoder(fjson.NewCriteriaEncodeDecoder(features), features)
	return New(rc, "grove-test", ned)
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	ns := newTestStore(t)
	defer ns.Close(ctx)

	shape := feature.NewDiscreteFeature("shape", nil)
	n := &tree.Node{
		FeatureCriterion: feature.NewDiscreteCriterion(shape, "circle"),
		Distribution:     tree.NewDistributionFromProbabilities(map[string]float64{"fruit": 1}, 2),
		Depth:            1,
	}
	require.NoError(t, ns.Create(ctx, n))
	require.NotEmpty(t, n.ID)

	got, err := ns.Get(ctx, n.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, n.ID, got.ID)
	assert.Equal(t, 1, got.Depth)
	assert.Equal(t, 1.0, got.Distribution.ProbabilityOf("fruit"))

	n.SubtreeFeature = shape
	n.SubtreeIDs = []string{"a", "b"}
	require.NoError(t, ns.Store(ctx, n))
	got, err = ns.Get(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got.SubtreeIDs)
	assert.Equal(t, "shape", got.SubtreeFeature.Name())

	require.NoError(t, ns.Delete(ctx, n))
	got, err = ns.Get(ctx, n.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}
