/*
Package dot renders trees as graphviz graphs.
*/
package dot

import (
	"context"
	"fmt"
	"io"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"github.com/pbanos/grove/feature"
	"github.com/pbanos/grove/tree"
	"github.com/pkg/errors"
)

// Format is an output format for rendered trees
type Format = graphviz.Format

// Supported formats
const (
	DOT = graphviz.XDOT
	SVG = graphviz.SVG
	PNG = graphviz.PNG
)

// ParseFormat takes a format name (dot, svg or png) and returns the
// corresponding Format or an error if it is not supported.
func ParseFormat(name string) (Format, error) {
	switch name {
	case "dot":
		return DOT, nil
	case "svg":
		return SVG, nil
	case "png":
		return PNG, nil
	}
	return "", errors.Errorf("unknown graph format %q", name)
}

/*
Render takes a context, a tree, a format and an io.Writer and draws the
tree onto the writer. Decision nodes are drawn as ellipses labelled with
the feature they split on, leaves as boxes labelled with their most
probable label, and every edge with the criterion that leads to the child.
*/
func Render(ctx context.Context, t *tree.Tree, format Format, w io.Writer) error {
	gv := graphviz.New()
	defer gv.Close()
	graph, err := gv.Graph()
	if err != nil {
		return errors.Wrap(err, "creating graph")
	}
	defer graph.Close()
	gnodes := make(map[string]*cgraph.Node)
	err = t.Traverse(ctx, false, func(ctx context.Context, n *tree.Node) error {
		gn, err := graph.CreateNode(fmt.Sprintf("n%s", n.ID))
		if err != nil {
			return errors.Wrapf(err, "drawing node %v", n.ID)
		}
		gn.SetLabel(nodeLabel(n))
		if n.IsLeaf() {
			gn.SetShape(cgraph.BoxShape)
		}
		gnodes[n.ID] = gn
		parent, ok := gnodes[n.ParentID]
		if !ok || n.FeatureCriterion == nil {
			return nil
		}
		e, err := graph.CreateEdge("", parent, gn)
		if err != nil {
			return errors.Wrapf(err, "drawing edge to node %v", n.ID)
		}
		e.SetLabel(edgeLabel(n.FeatureCriterion))
		return nil
	})
	if err != nil {
		return err
	}
	return gv.Render(graph, format, w)
}

func nodeLabel(n *tree.Node) string {
	if !n.IsLeaf() {
		return fmt.Sprintf("%s?", n.SubtreeFeature.Name())
	}
	if n.Distribution == nil {
		return "?"
	}
	label, p := n.Distribution.MostProbable()
	return fmt.Sprintf("%s (%.2f, n=%d)", label, p, n.Distribution.Weight())
}

func edgeLabel(c feature.Criterion) string {
	switch c := c.(type) {
	case feature.DiscreteCriterion:
		return fmt.Sprintf("%v", c.Value())
	case feature.UndefinedCriterion:
		return "(missing)"
	}
	return fmt.Sprintf("%v", c)
}
