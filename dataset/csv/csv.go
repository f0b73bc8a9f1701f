/*
Package csv reads labeled datasets from CSV streams.
*/
package csv

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/feature"
	"github.com/pkg/errors"
)

// UndefinedValue is the cell content that marks a feature
// as not defined for a sample. Empty cells are undefined too.
const UndefinedValue = "?"

/*
DatasetGenerator is a function that takes a slice of samples
and generates a dataset with them.
*/
type DatasetGenerator func([]dataset.Sample) dataset.Dataset

/*
ReadDataset takes an io.Reader for a CSV stream, a slice of features, the name
of the label column and a DatasetGenerator and returns a dataset.Dataset built
with the DatasetGenerator and the samples parsed from the reader or an error.

The header or first row of the CSV content is expected to name the columns. The
label column must be among them. If features is empty every other column
is read as an open discrete feature; otherwise only the columns of the given
features are read and columns of unknown features are ignored. The rest of the
rows should consist of valid values for the features, the '?' string or an
empty cell indicating an undefined value.
*/
func ReadDataset(reader io.Reader, features []feature.Feature, label string, dg DatasetGenerator) (dataset.Dataset, error) {
	samples := []dataset.Sample{}
	err := ReadDatasetBySample(reader, features, label, func(_ int, s dataset.Sample) (bool, error) {
		samples = append(samples, s)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return dg(samples), nil
}

/*
ReadDatasetBySample takes an io.Reader for a CSV stream, a slice of features,
the name of the label column and a lambda function on an integer and a
dataset.Sample that returns a boolean value.
It parses the samples from the reader and for each it calls the lambda function
with the sample and its index as parameters. If the lambda function returns true,
it will continue processing the next sample, otherwise it will stop. An error is
returned if something goes wrong when reading the stream or parsing a sample.
*/
func ReadDatasetBySample(reader io.Reader, features []feature.Feature, label string, lambda func(int, dataset.Sample) (bool, error)) error {
	r := csv.NewReader(reader)
	header, err := r.Read()
	if err != nil {
		return errors.Wrap(err, "reading header")
	}
	columns, labelIndex, err := parseCSVHeader(header, features, label)
	if err != nil {
		return err
	}
	for l := 2; ; l++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrap(err, "reading body")
		}
		sample, err := parseSampleFromCSVRow(row, columns, labelIndex)
		if err != nil {
			return errors.Wrapf(err, "parsing line %d", l)
		}
		ok, err := lambda(l-2, sample)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	return nil
}

/*
ReadDatasetFromFilePath takes a filepath string, a slice of features, the name
of the label column and a DatasetGenerator, opens the file to which the filepath
points to (os.Stdin if it is "") and uses ReadDataset to return a dataset.Dataset
or an error read from it.
*/
func ReadDatasetFromFilePath(filepath string, features []feature.Feature, label string, dg DatasetGenerator) (dataset.Dataset, error) {
	var f *os.File
	var err error
	if filepath == "" {
		f = os.Stdin
	} else {
		f, err = os.Open(filepath)
		if err != nil {
			return nil, errors.Wrap(err, "reading dataset")
		}
		defer f.Close()
	}
	ds, err := ReadDataset(f, features, label, dg)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing CSV file %s", filepath)
	}
	return ds, nil
}

// column is a feature read from a CSV column index
type column struct {
	index   int
	feature feature.Feature
}

func parseCSVHeader(header []string, features []feature.Feature, label string) ([]column, int, error) {
	featuresByName := make(map[string]feature.Feature)
	for _, f := range features {
		featuresByName[f.Name()] = f
	}
	labelIndex := -1
	var columns []column
	for i, name := range header {
		if name == label {
			labelIndex = i
			continue
		}
		f, ok := featuresByName[name]
		if !ok {
			if len(features) > 0 {
				continue
			}
			f = feature.NewDiscreteFeature(name, nil)
		}
		columns = append(columns, column{i, f})
	}
	if labelIndex < 0 {
		return nil, 0, errors.Errorf("parsing header: label column %q not found", label)
	}
	return columns, labelIndex, nil
}

func parseSampleFromCSVRow(row []string, columns []column, labelIndex int) (dataset.Sample, error) {
	featureValues := make(map[string]interface{})
	for _, c := range columns {
		v := row[c.index]
		if v == UndefinedValue || v == "" {
			continue
		}
		if ok, err := c.feature.Valid(v); !ok {
			return nil, errors.Wrapf(err, "invalid value %v for feature %s", v, c.feature.Name())
		}
		featureValues[c.feature.Name()] = v
	}
	label := row[labelIndex]
	if label == "" || label == UndefinedValue {
		return nil, errors.New("sample has no label")
	}
	return dataset.NewSample(featureValues, label), nil
}
