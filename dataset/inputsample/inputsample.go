/*
Package inputsample provides a feature.Sample whose values are read
from an io.Reader as they are needed, so that classifying it only asks
for the features on the path the tree takes.
*/
package inputsample

import (
	"bufio"
	"context"
	"io"

	"github.com/pbanos/grove/feature"
	"github.com/pkg/errors"
)

/*
FeatureValueRequester represents a way to ask
for feature values and reject the given values.
*/
type FeatureValueRequester interface {
	RequestValueFor(feature.Feature) error
	RejectValueFor(feature.Feature, interface{}) error
}

type readSample struct {
	obtainedValues        map[string]interface{}
	undefinedValue        string
	scanner               *bufio.Scanner
	featureValueRequester FeatureValueRequester
	features              []feature.Feature
}

/*
New takes an io.Reader, a slice of features, a
FeatureValueRequester and an undefinedValue coding string
and returns a feature.Sample.

The returned Sample ValueFor method reads feature values first
requesting them with the given FeatureValueRequester and
then reading them from the reader, one per line. A line
with the undefinedValue string stands for an undefined value.

Lines are read until one holds a valid value for the feature.
Invalid values are rejected with the FeatureValueRequester's
RejectValueFor method. Once read, a value is remembered and
will not be requested again.

Attempting to obtain a value for a feature not in the given
features slice returns an error.
*/
func New(r io.Reader, features []feature.Feature, featureValueRequester FeatureValueRequester, undefinedValue string) feature.Sample {
	return &readSample{make(map[string]interface{}), undefinedValue, bufio.NewScanner(r), featureValueRequester, features}
}

func (rs *readSample) ValueFor(ctx context.Context, f feature.Feature) (interface{}, error) {
	value, ok := rs.obtainedValues[f.Name()]
	if ok {
		return value, nil
	}
	var featureWithInfo feature.Feature
	for _, candidate := range rs.features {
		if f.Name() == candidate.Name() {
			featureWithInfo = candidate
			break
		}
	}
	if featureWithInfo == nil {
		return nil, errors.Errorf("have no information about feature %s, do not know how to read its value", f.Name())
	}
	err := rs.featureValueRequester.RequestValueFor(featureWithInfo)
	if err != nil {
		return nil, err
	}
	for rs.scanner.Scan() {
		if err = ctx.Err(); err != nil {
			return nil, err
		}
		line := rs.scanner.Text()
		if line == rs.undefinedValue {
			rs.obtainedValues[f.Name()] = nil
			return nil, nil
		}
		if ok, _ := featureWithInfo.Valid(line); ok {
			rs.obtainedValues[f.Name()] = line
			return line, nil
		}
		err = rs.featureValueRequester.RejectValueFor(featureWithInfo, line)
		if err != nil {
			return nil, err
		}
	}
	if err = rs.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.ErrUnexpectedEOF
}
