/*
Package sqldataset loads labeled datasets from a table of a SQL database.

Each row of the table is a sample: the label column holds its label and
every other selected column a feature value in its string form, NULL
meaning the feature is not defined for the sample.
*/
package sqldataset

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/feature"
	"github.com/pkg/errors"
)

/*
Load takes a context, a database handle, the name of a table, the name of the
label column and a slice of features, and returns the samples read from
the table in the order the database returns them. If features is empty
every column of the table is read.
*/
func Load(ctx context.Context, db *sqlx.DB, table, label string, features []feature.Feature) ([]dataset.Sample, error) {
	query, args, err := selectQuery(table, label, features).ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building select query")
	}
	rows, err := db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "querying table %s", table)
	}
	defer rows.Close()
	var samples []dataset.Sample
	for rows.Next() {
		row := make(map[string]interface{})
		err = rows.MapScan(row)
		if err != nil {
			return nil, errors.Wrapf(err, "scanning row %d of table %s", len(samples)+1, table)
		}
		s, err := sampleFromRow(row, label)
		if err != nil {
			return nil, errors.Wrapf(err, "row %d of table %s", len(samples)+1, table)
		}
		samples = append(samples, s)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading table %s", table)
	}
	return samples, nil
}

/*
Open takes the same parameters as Load plus a generator and returns a dataset built
by the generator with the samples loaded from the table.
*/
func Open(ctx context.Context, db *sqlx.DB, table, label string, features []feature.Feature, dg func([]dataset.Sample) dataset.Dataset) (dataset.Dataset, error) {
	samples, err := Load(ctx, db, table, label, features)
	if err != nil {
		return nil, err
	}
	return dg(samples), nil
}

func selectQuery(table, label string, features []feature.Feature) sq.SelectBuilder {
	if len(features) == 0 {
		return sq.Select("*").From(table)
	}
	columns := make([]string, 0, len(features)+1)
	for _, f := range features {
		columns = append(columns, f.Name())
	}
	return sq.Select(append(columns, label)...).From(table)
}

func sampleFromRow(row map[string]interface{}, label string) (dataset.Sample, error) {
	lv, ok := row[label]
	if !ok {
		return nil, errors.Errorf("label column %q not found", label)
	}
	lv = normalize(lv)
	if lv == nil {
		return nil, errors.New("sample has no label")
	}
	featureValues := make(map[string]interface{}, len(row)-1)
	for c, v := range row {
		if c == label {
			continue
		}
		v = normalize(v)
		if v != nil {
			featureValues[c] = v
		}
	}
	return dataset.NewSample(featureValues, fmt.Sprintf("%v", lv)), nil
}

// normalize turns driver values into their string form, the
// form CSV values take, so that trees grown from SQL tables keep
// classifying the same after a JSON round trip.
func normalize(v interface{}) interface{} {
	switch v := v.(type) {
	case nil:
		return nil
	case []byte:
		return string(v)
	case string:
		return v
	case time.Time:
		return v.Format(time.RFC3339Nano)
	default:
		return fmt.Sprintf("%v", v)
	}
}
