/*
Package mongodataset loads labeled datasets from a collection of a MongoDB
database and writes samples into one.

Each document of the collection is a sample: the label field holds its label
and every other field a feature value in its string form, missing or null
fields meaning the feature is not defined for the sample. The _id field is
never taken as a feature.
*/
package mongodataset

import (
	"context"
	"fmt"
	"strings"

	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/feature"
	"github.com/pkg/errors"
	mgo "gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"
)

const idField = "_id"

/*
Load takes a context, a MongoDB session, the name of a collection, the name of
the label field and a slice of features, and returns the samples read from the
collection of the session's default database in natural order. If features is
empty every field of the documents is read.
*/
func Load(ctx context.Context, session *mgo.Session, collection, label string, features []feature.Feature) ([]dataset.Sample, error) {
	if err := validateFieldNames(label, features); err != nil {
		return nil, err
	}
	query := session.DB("").C(collection).Find(nil)
	if len(features) > 0 {
		query = query.Select(projection(label, features))
	}
	iter := query.Iter()
	var samples []dataset.Sample
	var doc bson.M
	for iter.Next(&doc) {
		if err := ctx.Err(); err != nil {
			iter.Close()
			return nil, err
		}
		s, err := sampleFromDocument(doc, label)
		if err != nil {
			iter.Close()
			return nil, errors.Wrapf(err, "document %d of collection %s", len(samples)+1, collection)
		}
		samples = append(samples, s)
		doc = nil
	}
	if err := iter.Close(); err != nil {
		return nil, errors.Wrapf(err, "reading collection %s", collection)
	}
	return samples, nil
}

/*
Open takes the same parameters as Load plus a generator and returns a dataset built
by the generator with the samples loaded from the collection.
*/
func Open(ctx context.Context, session *mgo.Session, collection, label string, features []feature.Feature, dg func([]dataset.Sample) dataset.Dataset) (dataset.Dataset, error) {
	samples, err := Load(ctx, session, collection, label, features)
	if err != nil {
		return nil, err
	}
	return dg(samples), nil
}

/*
Write takes a context, a MongoDB session, the name of a collection, the name
of the label field, a slice of features and a slice of samples, and inserts a
document per sample into the collection holding its label and the values it
defines for the features. Sparse indexes are ensured on the feature fields.
It returns the number of documents inserted.
*/
func Write(ctx context.Context, session *mgo.Session, collection, label string, features []feature.Feature, samples []dataset.Sample) (int, error) {
	if err := validateFieldNames(label, features); err != nil {
		return 0, err
	}
	c := session.DB("").C(collection)
	for _, f := range features {
		err := c.EnsureIndex(mgo.Index{Key: []string{f.Name()}, Background: true, Sparse: true})
		if err != nil {
			return 0, errors.Wrapf(err, "indexing field %s of collection %s", f.Name(), collection)
		}
	}
	docs := make([]interface{}, 0, len(samples))
	for _, s := range samples {
		doc := bson.M{label: s.Label()}
		for _, f := range features {
			value, err := s.ValueFor(ctx, f)
			if err != nil {
				return 0, err
			}
			if value != nil {
				doc[f.Name()] = value
			}
		}
		docs = append(docs, doc)
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(docs) == 0 {
		return 0, nil
	}
	if err := c.Insert(docs...); err != nil {
		return 0, errors.Wrapf(err, "inserting into collection %s", collection)
	}
	return len(docs), nil
}

func projection(label string, features []feature.Feature) bson.M {
	fields := bson.M{idField: 0, label: 1}
	for _, f := range features {
		fields[f.Name()] = 1
	}
	return fields
}

func sampleFromDocument(doc bson.M, label string) (dataset.Sample, error) {
	lv := normalize(doc[label])
	if lv == nil {
		return nil, errors.New("sample has no label")
	}
	featureValues := make(map[string]interface{}, len(doc))
	for k, v := range doc {
		if k == label || k == idField {
			continue
		}
		v = normalize(v)
		if v != nil {
			featureValues[k] = v
		}
	}
	return dataset.NewSample(featureValues, lv.(string)), nil
}

func validateFieldNames(label string, features []feature.Feature) error {
	names := []string{label}
	for _, f := range features {
		names = append(names, f.Name())
	}
	for _, n := range names {
		if n == idField {
			return errors.Errorf("invalid field name %q: reserved collection field", idField)
		}
		if n == "" || strings.ContainsAny(n, ".$") {
			return errors.Errorf("invalid field name %q: empty or containing %q or %q", n, ".", "$")
		}
	}
	return nil
}

// normalize turns document values into their string form, the form CSV
// values take.
func normalize(v interface{}) interface{} {
	switch v := v.(type) {
	case nil:
		return nil
	case string:
		return v
	case bson.ObjectId:
		return v.Hex()
	default:
		return fmt.Sprintf("%v", v)
	}
}
