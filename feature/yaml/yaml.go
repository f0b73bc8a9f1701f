/*
Package yaml provides methods to parse feature.Feature specifications
also known as metadata, from YAML documents.
*/
package yaml

import (
	"os"
	"sort"

	"github.com/pbanos/grove/feature"
	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

/*
ReadFeatures takes a slice of bytes with a feature specification in YML and
returns a slice of features parsed from it, sorted by name, or an error.
The YML is expected to be an object containing a features property. The value for this
should be an object with a property for each feature with its name and either a
list of valid values or the string 'discrete' (or null) for a feature open
to any categorical value.
*/
func ReadFeatures(md []byte) ([]feature.Feature, error) {
	metadata := struct {
		Features map[string]interface{}
	}{}
	err := yaml.Unmarshal(md, &metadata)
	if err != nil {
		return nil, errors.Wrap(err, "parsing yml features")
	}
	if metadata.Features == nil {
		return nil, errors.New("metadata file has no feature information")
	}
	names := make([]string, 0, len(metadata.Features))
	for fn := range metadata.Features {
		names = append(names, fn)
	}
	sort.Strings(names)
	features := make([]feature.Feature, 0, len(names))
	for _, fn := range names {
		switch values := metadata.Features[fn].(type) {
		case nil:
			features = append(features, feature.NewDiscreteFeature(fn, nil))
		case string:
			if values != "discrete" {
				return nil, errors.Errorf("feature %s: unsupported feature kind %q", fn, values)
			}
			features = append(features, feature.NewDiscreteFeature(fn, nil))
		case []interface{}:
			stringVs := make([]string, 0, len(values))
			for _, v := range values {
				stringVs = append(stringVs, toString(v))
			}
			features = append(features, feature.NewDiscreteFeature(fn, stringVs))
		default:
			return nil, errors.Errorf("feature %s: invalid feature declaration of type %T", fn, values)
		}
	}
	return features, nil
}

/*
ReadFeaturesFromFile takes a filepath string, reads its contents and uses
ReadFeatures to parse it and return a slice of parsed features or an error.
If the file indicated by the filepath cannot be opened for reading an error
will be returned.
*/
func ReadFeaturesFromFile(filepath string) ([]feature.Feature, error) {
	md, err := os.ReadFile(filepath)
	if err != nil {
		return nil, errors.Wrapf(err, "reading features yml file %s", filepath)
	}
	features, err := ReadFeatures(md)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing features yml file %s", filepath)
	}
	return features, nil
}

func toString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := yaml.Marshal(v)
	if err != nil {
		return ""
	}
	s := string(b)
	for len(s) > 0 && s[len(s)-1] == '\n' {
		s = s[:len(s)-1]
	}
	return s
}
