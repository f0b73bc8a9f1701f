package json

import (
	"encoding/json"

	"github.com/pbanos/grove/feature"
	fjson "github.com/pbanos/grove/feature/json"
	"github.com/pbanos/grove/tree"
	"github.com/pkg/errors"
)

/*
NodeEncodeDecoder is an interface for objects
that allow encoding nodes into slices of
bytes and decoding them back to nodes.
*/
type NodeEncodeDecoder interface {

	//Encode receives a *tree.Node
	//and returns a slice of bytes with the node
	//encoded or an error if the encoding could not
	//be performed for some reason.
	Encode(*tree.Node) ([]byte, error)

	//Decode receives a slice of bytes
	//and returns a *tree.Node decoded from the
	//slice of bytes or an error if the decoding
	//could not be performed for some reason.
	Decode([]byte) (*tree.Node, error)
}

type nodeEncodeDecoder struct {
	fjson.CriteriaEncodeDecoder
	features []feature.Feature
}

type node struct {
	ID               string            `json:"id"`
	ParentID         string            `json:"pId,omitempty"`
	SubtreeIDs       []string          `json:"stIds,omitempty"`
	FeatureCriterion *json.RawMessage  `json:"c,omitempty"`
	SubtreeFeature   string            `json:"f,omitempty"`
	Distribution     *jsonDistribution `json:"dist,omitempty"`
	Depth            int               `json:"d,omitempty"`
}

type jsonDistribution struct {
	Probabilities map[string]float64 `json:"probs,omitempty"`
	Weight        int                `json:"w,omitempty"`
}

/*
NewNodeEncodeDecoder returns a NodeEncodeDecoder that uses the
given CriteriaEncodeDecoder to encode/decode nodes' feature criteria,
resolving the features nodes split on among the given ones.
*/
func NewNodeEncodeDecoder(ced fjson.CriteriaEncodeDecoder, features []feature.Feature) NodeEncodeDecoder {
	return &nodeEncodeDecoder{ced, features}
}

func (ned *nodeEncodeDecoder) Encode(n *tree.Node) ([]byte, error) {
	jn := &node{
		ID:       n.ID,
		ParentID: n.ParentID,
		Depth:    n.Depth,
	}
	if len(n.SubtreeIDs) > 0 {
		jn.SubtreeIDs = n.SubtreeIDs
	}
	if n.FeatureCriterion != nil {
		fc, err := ned.CriteriaEncodeDecoder.Encode(n.FeatureCriterion)
		if err != nil {
			return nil, errors.Wrapf(err, "encoding node %v", n.ID)
		}
		rfc := json.RawMessage(fc)
		jn.FeatureCriterion = &rfc
	}
	if n.Distribution != nil {
		jn.Distribution = &jsonDistribution{Probabilities: n.Distribution.Probabilities(), Weight: n.Distribution.Weight()}
	}
	if n.SubtreeFeature != nil {
		jn.SubtreeFeature = n.SubtreeFeature.Name()
	}
	return json.Marshal(jn)
}

func (ned *nodeEncodeDecoder) Decode(data []byte) (*tree.Node, error) {
	jn := &node{}
	err := json.Unmarshal(data, jn)
	if err != nil {
		return nil, err
	}
	n := &tree.Node{
		ID:       jn.ID,
		ParentID: jn.ParentID,
		Depth:    jn.Depth,
	}
	if jn.FeatureCriterion != nil {
		n.FeatureCriterion, err = ned.CriteriaEncodeDecoder.Decode(*jn.FeatureCriterion)
		if err != nil {
			return nil, errors.Wrapf(err, "decoding node %v", jn.ID)
		}
	}
	if jn.Distribution != nil {
		n.Distribution = tree.NewDistributionFromProbabilities(jn.Distribution.Probabilities, jn.Distribution.Weight)
	}
	if len(jn.SubtreeIDs) > 0 {
		n.SubtreeIDs = jn.SubtreeIDs
	}
	if jn.SubtreeFeature != "" {
		n.SubtreeFeature = fjson.FeatureNamed(ned.features, jn.SubtreeFeature)
	}
	return n, nil
}
