package tree

import (
	"github.com/pbanos/grove/feature"
)

/*
Node is a node of the tree. A node with a SubtreeFeature is a decision
node, one without it is a leaf.
*/
type Node struct {
	// An ID to identify the node
	ID string
	// The ID for the parent of the node in the tree
	ParentID string
	// An slice with the IDs of the nodes directly under this node
	SubtreeIDs []string
	// The label distribution of the training samples that satisfied node
	// constraints from the root of the tree up to this node. For leaves it
	// is the distribution returned when classifying, for decision nodes
	// it is the fallback used for values of SubtreeFeature not seen in
	// training.
	Distribution *Distribution
	// The constraint this node imposes on samples: the criterion that
	// applied to the parent node's set produces this node's set, and the
	// one a sample must satisfy to descend into this node when classifying.
	FeatureCriterion feature.Criterion
	// The feature on which nodes directly under this node impose a constraint,
	// nil for leaves.
	SubtreeFeature feature.Feature
	// Number of edges between the root and this node
	Depth int
}

// IsLeaf returns whether the node has no subtrees to descend into
func (n *Node) IsLeaf() bool {
	return n.SubtreeFeature == nil
}
