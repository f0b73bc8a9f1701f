package json

import (
	"encoding/json"

	"github.com/pbanos/grove/feature"
	"github.com/pkg/errors"
)

/*
CriteriaEncodeDecoder is an interface for objects
that allow encoding criteria into slices of
bytes and decoding them back to criteria.
*/
type CriteriaEncodeDecoder interface {

	//Encode receives a feature.Criterion
	//and returns a slice of bytes with the criterion
	//encoded or an error if the encoding could not
	//be performed for some reason.
	Encode(feature.Criterion) ([]byte, error)

	//Decode receives a slice of bytes
	//and returns a feature.Criterion decoded from the
	//slice of bytes or an error if the decoding
	//could not be performed for some reason.
	Decode([]byte) (feature.Criterion, error)
}

type jsonCriteriaEncodeDecoder []feature.Feature

type jsonCriterion struct {
	Type    string          `json:"t"`
	Feature string          `json:"f"`
	Value   json.RawMessage `json:"v,omitempty"`
}

// NewCriteriaEncodeDecoder takes a slice of feature.Feature and returns a
// CriteriaEncodeDecoder that marshals and unmarshals
// criteria into/from slices of bytes as JSON.
// Specifically, criteria are encoded as a JSON object
// with an "f" property set to the name of the feature
// of the criteria and a "t" property that can be one of
// "discrete" or "undefined":
//   - If the criteria is discrete it will have a "v"
//     property with the JSON value for the feature
//   - If the criteria is undefined it will have no additional
//     properties
//
// Features referenced by decoded criteria that are not in the
// given slice are decoded as open discrete features.
func NewCriteriaEncodeDecoder(features []feature.Feature) CriteriaEncodeDecoder {
	return jsonCriteriaEncodeDecoder(features)
}

func (jced jsonCriteriaEncodeDecoder) Encode(fc feature.Criterion) ([]byte, error) {
	switch c := fc.(type) {
	case feature.DiscreteCriterion:
		v, err := json.Marshal(c.Value())
		if err != nil {
			return nil, errors.Wrapf(err, "encoding value of criterion %v", c)
		}
		return json.Marshal(&jsonCriterion{
			Type:    "discrete",
			Feature: c.Feature().Name(),
			Value:   v,
		})
	case feature.UndefinedCriterion:
		return json.Marshal(&jsonCriterion{
			Type:    "undefined",
			Feature: c.Feature().Name(),
		})
	default:
		return nil, errors.Errorf("unknown type of feature.Criterion %T", fc)
	}
}

func (jced jsonCriteriaEncodeDecoder) Decode(data []byte) (feature.Criterion, error) {
	jc := &jsonCriterion{}
	err := json.Unmarshal(data, jc)
	if err != nil {
		return nil, err
	}
	f := FeatureNamed(jced, jc.Feature)
	switch jc.Type {
	case "discrete":
		var v interface{}
		err = json.Unmarshal(jc.Value, &v)
		if err != nil {
			return nil, errors.Wrapf(err, "decoding value for feature %s", jc.Feature)
		}
		return feature.NewDiscreteCriterion(f, v), nil
	case "undefined":
		return feature.NewUndefinedCriterion(f), nil
	}
	return nil, errors.Errorf("unknown feature criterion type '%s'", jc.Type)
}

// FeatureNamed returns the feature in features with the given name, or
// a new open discrete feature with that name if there is none.
func FeatureNamed(features []feature.Feature, name string) feature.Feature {
	for _, f := range features {
		if f.Name() == name {
			return f
		}
	}
	return feature.NewDiscreteFeature(name, nil)
}
