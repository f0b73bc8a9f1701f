package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/feature"
	"github.com/pkg/errors"
)

/*
Writer is an interface for a dataset to which samples
can be written to.
*/
type Writer interface {
	// Write will attempt to write the given
	// samples and will return the actually written
	// number of samples and an error (if not all samples
	// could be written)
	Write(context.Context, []dataset.Sample) (int, error)
	// Count returns the total number of samples written
	// to the writer
	Count() int
	// Flush ensures any pending written operations finish
	// before returning. It returns an error if that cannot
	// be ensured.
	Flush() error
}

type csvWriter struct {
	count    int
	features []feature.Feature
	w        *csv.Writer
}

/*
NewWriter takes an io.Writer, a slice of feature.Features and the name
of the label column and returns a Writer that will write samples on the
io.Writer, one row per sample with the values of the features followed
by the label.
*/
func NewWriter(writer io.Writer, features []feature.Feature, label string) (Writer, error) {
	w := csv.NewWriter(writer)
	record := make([]string, 0, len(features)+1)
	for _, f := range features {
		record = append(record, f.Name())
	}
	record = append(record, label)
	err := w.Write(record)
	if err != nil {
		return nil, errors.Wrap(err, "writing CSV header")
	}
	return &csvWriter{features: features, w: w}, nil
}

/*
WriteDataset takes a context, a writer, a dataset, a slice of features and
the name of the label column and dumps the dataset to the writer in CSV
format, specifying only the features in the given slice for the samples.
*/
func WriteDataset(ctx context.Context, writer io.Writer, s dataset.Dataset, features []feature.Feature, label string) error {
	cw, err := NewWriter(writer, features, label)
	if err != nil {
		return err
	}
	samples, err := s.Samples(ctx)
	if err != nil {
		return err
	}
	_, err = cw.Write(ctx, samples)
	if err != nil {
		return err
	}
	return cw.Flush()
}

func (cw *csvWriter) Count() int {
	return cw.count
}

func (cw *csvWriter) Write(ctx context.Context, samples []dataset.Sample) (int, error) {
	for n, sample := range samples {
		if err := cw.writeSample(ctx, sample); err != nil {
			return n, err
		}
	}
	return len(samples), nil
}

func (cw *csvWriter) writeSample(ctx context.Context, sample dataset.Sample) error {
	record := make([]string, 0, len(cw.features)+1)
	for _, f := range cw.features {
		v, err := sample.ValueFor(ctx, f)
		if err != nil {
			return err
		}
		if v == nil {
			record = append(record, UndefinedValue)
		} else {
			record = append(record, fmt.Sprintf("%v", v))
		}
	}
	record = append(record, sample.Label())
	err := cw.w.Write(record)
	if err != nil {
		return errors.Wrapf(err, "writing CSV row for sample %d", cw.count+1)
	}
	cw.count++
	return nil
}

func (cw *csvWriter) Flush() error {
	cw.w.Flush()
	return cw.w.Error()
}
