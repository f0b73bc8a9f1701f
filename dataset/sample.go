package dataset

import (
	"context"
	"fmt"
	"sort"

	"github.com/pbanos/grove/feature"
)

/*
Sample represents a labeled instance to learn from: a mapping of
feature names to values together with the label it belongs to.

Its ValueFor method returns the value of the sample corresponding to the feature
passed as parameter, or nil if the sample does not define it.

Its Label method returns the label of the sample.
*/
type Sample interface {
	feature.Sample
	Label() string
}

/*
FeatureNamer is implemented by samples that can enumerate the names of the
features they define.
*/
type FeatureNamer interface {
	FeatureNames() []string
}

type sample struct {
	featureValues map[string]interface{}
	label         string
}

/*
NewSample takes a map of feature string names to values and a label and returns
a sample.
*/
func NewSample(featureValues map[string]interface{}, label string) Sample {
	return &sample{featureValues, label}
}

func (s *sample) ValueFor(_ context.Context, f feature.Feature) (interface{}, error) {
	return s.featureValues[f.Name()], nil
}

func (s *sample) Label() string {
	return s.label
}

func (s *sample) FeatureNames() []string {
	names := make([]string, 0, len(s.featureValues))
	for n, v := range s.featureValues {
		if v != nil {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names
}

func (s *sample) String() string {
	return fmt.Sprintf("[%v -> %s]", s.featureValues, s.label)
}
