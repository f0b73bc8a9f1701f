package tree

import (
	"context"
	"fmt"
	"strings"

	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/feature"
	"github.com/pkg/errors"
)

// Tree represents a decision tree. It is composed of a
// NodeStore where all its nodes are stored, the id for the
// root node of the tree and the labels it was trained on.
//
// Once grown, a tree is not modified and can be used to
// classify samples from multiple goroutines at a time.
type Tree struct {
	NodeStore
	RootID string
	Labels []string
}

// New takes the ID for the root Node, a NodeStore and the labels of the
// training data and returns a tree composed of the nodes in the NodeStore
// connected to the node with the given root ID.
func New(rootID string, nodeStore NodeStore, labels []string) *Tree {
	return &Tree{nodeStore, rootID, labels}
}

/*
ClassifyWithDistribution takes a context and a sample and returns the label
distribution the tree assigns to the sample.

Starting at the root, while the current node is a decision node, the
sample's value for its feature selects the child to descend into. A value
that was never seen by the node during training, or an undefined value
when no training sample lacked the feature, stops the descent and the
node's fallback distribution is returned. Otherwise the distribution of
the reached leaf is returned.

An error is returned if the sample holds a value that cannot be compared,
or if nodes cannot be retrieved from the store.
*/
func (t *Tree) ClassifyWithDistribution(ctx context.Context, s feature.Sample) (*Distribution, error) {
	if t == nil {
		return nil, errors.New("nil tree cannot classify samples")
	}
	n, err := t.node(ctx, t.RootID)
	if err != nil {
		return nil, errors.Wrap(err, "classifying sample")
	}
	for !n.IsLeaf() {
		var selectedNode *Node
		for _, nID := range n.SubtreeIDs {
			subnode, err := t.node(ctx, nID)
			if err != nil {
				return nil, errors.Wrap(err, "classifying sample")
			}
			if subnode.FeatureCriterion == nil {
				continue
			}
			ok, err := subnode.FeatureCriterion.SatisfiedBy(ctx, s)
			if err != nil {
				return nil, errors.Wrap(err, "classifying sample")
			}
			if ok {
				selectedNode = subnode
				break
			}
		}
		if selectedNode == nil {
			break
		}
		n = selectedNode
	}
	if n.Distribution == nil {
		return nil, ErrCannotPredictFromSample
	}
	return n.Distribution, nil
}

/*
Classify takes a context and a sample and returns the most probable
label for the sample according to the tree. See ClassifyWithDistribution.
*/
func (t *Tree) Classify(ctx context.Context, s feature.Sample) (string, error) {
	d, err := t.ClassifyWithDistribution(ctx, s)
	if err != nil {
		return "", err
	}
	label, _ := d.MostProbable()
	return label, nil
}

/*
Test takes a context.Context and a labeled dataset and returns the rate of
samples in the dataset the tree classifies with their own label, or an
error if the dataset is empty or a sample cannot be classified.
*/
func (t *Tree) Test(ctx context.Context, s dataset.Dataset) (float64, error) {
	samples, err := s.Samples(ctx)
	if err != nil {
		return 0.0, err
	}
	if len(samples) == 0 {
		return 0.0, ErrCannotPredictFromEmptySet
	}
	var hits float64
	for _, sample := range samples {
		l, err := t.Classify(ctx, sample)
		if err != nil {
			return 0.0, err
		}
		if l == sample.Label() {
			hits += 1.0
		}
	}
	return hits / float64(len(samples)), nil
}

// Depth returns the depth of the deepest node in the tree,
// 0 for a tree consisting of a single leaf.
func (t *Tree) Depth(ctx context.Context) (int, error) {
	var depth int
	err := t.Traverse(ctx, false, func(_ context.Context, n *Node) error {
		if n.Depth > depth {
			depth = n.Depth
		}
		return nil
	})
	return depth, err
}

// Traverse takes a context, bottomup boolean and an
// error-returning function that takes a context and a node
// as parameters, and goes through the tree running the
// function with the context and every traversed node.
// Traverse will call the function with a parent node before
// calling it for its children if bottomup is false, and
// call it after its children if bottomup is true.
// If the given context times out or is cancelled, the context
// error is returned. If a node cannot be retrieved from the
// tree's node store, the obtained error is returned. If the
// call to the function returns an error, the traversing is
// aborted and the error is returned. Otherwise, when the
// traversing is over, nil is returned.
func (t *Tree) Traverse(ctx context.Context, bottomup bool, f func(context.Context, *Node) error) error {
	n, err := t.node(ctx, t.RootID)
	if err != nil {
		return err
	}
	return t.traverse(ctx, n, bottomup, f)
}

func (t *Tree) traverse(ctx context.Context, n *Node, bottomup bool, f func(context.Context, *Node) error) error {
	err := ctx.Err()
	if err != nil {
		return err
	}
	if !bottomup {
		if err = f(ctx, n); err != nil {
			return err
		}
	}
	for _, snID := range n.SubtreeIDs {
		sn, err := t.node(ctx, snID)
		if err != nil {
			return err
		}
		err = t.traverse(ctx, sn, bottomup, f)
		if err != nil {
			return err
		}
	}
	if bottomup {
		return f(ctx, n)
	}
	return nil
}

func (t *Tree) node(ctx context.Context, id string) (*Node, error) {
	n, err := t.NodeStore.Get(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "retrieving node %v", id)
	}
	if n == nil {
		return nil, errors.Errorf("node %v not found", id)
	}
	return n, nil
}

func (t *Tree) String() string {
	return t.subtreeString(context.Background(), t.RootID)
}

func (t *Tree) subtreeString(ctx context.Context, nodeID string) string {
	n, err := t.node(ctx, nodeID)
	if err != nil {
		return fmt.Sprintf("ERROR: %s\n", err.Error())
	}
	var result string
	if n.FeatureCriterion != nil {
		result = fmt.Sprintf("%v", n.FeatureCriterion)
	} else {
		result = "*"
	}
	if n.IsLeaf() {
		if n.Distribution != nil {
			label, _ := n.Distribution.MostProbable()
			result = fmt.Sprintf("%s => %s %v\n", result, label, n.Distribution)
		} else {
			result = fmt.Sprintf("%s\n", result)
		}
	} else {
		result = fmt.Sprintf("%s ? %s\n", result, n.SubtreeFeature.Name())
	}
	for i, subtreeID := range n.SubtreeIDs {
		for j, line := range strings.Split(t.subtreeString(ctx, subtreeID), "\n") {
			if len(line) == 0 {
				continue
			}
			switch {
			case j == 0:
				result = fmt.Sprintf("%s|__%s\n", result, line)
			case i == len(n.SubtreeIDs)-1:
				result = fmt.Sprintf("%s   %s\n", result, line)
			default:
				result = fmt.Sprintf("%s|  %s\n", result, line)
			}
		}
	}
	return result
}
