package queue

import (
	"fmt"

	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/feature"
	"github.com/pbanos/grove/tree"
)

// Task represents a tree.Node to be developed
// on a tree.Tree.
type Task struct {
	// The node to be developed
	Node *tree.Node
	// The dataset of training data with samples
	// satisfying the constraints on the node
	// and its ancestors.
	Dataset dataset.Dataset
	// The list of features that can be used
	// to split the node into branches.
	// It excludes the features used in
	// ancestor nodes.
	AvailableFeatures []feature.Feature
}

// ID returns a string that identifies the
// task, the ID of its Node.
func (t *Task) ID() string {
	return t.Node.ID
}

// Depth returns the depth of the task's node in the tree
func (t *Task) Depth() int {
	return t.Node.Depth
}

func (t *Task) String() string {
	return fmt.Sprintf("{Task %s depth %d}", t.Node.ID, t.Node.Depth)
}
