package main

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/dataset/csv"
	"github.com/pbanos/grove/dataset/mongodataset"
	"github.com/pbanos/grove/dataset/sqldataset"
	"github.com/pbanos/grove/feature"
	fjson "github.com/pbanos/grove/feature/json"
	"github.com/pbanos/grove/feature/yaml"
	"github.com/pbanos/grove/tree"
	tjson "github.com/pbanos/grove/tree/json"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	mgo "gopkg.in/mgo.v2"
)

// loadFeatures reads the features declared on the YAML file at
// the given path. Without a path there are no declared features and
// they are taken from the data.
func loadFeatures(path string) ([]feature.Feature, error) {
	if path == "" {
		return nil, nil
	}
	log.Infof("reading features from metadata at %s", path)
	return yaml.ReadFeaturesFromFile(path)
}

// openDataset reads a dataset from a PostgreSQL database (for
// postgres URLs), a SQLite3 file (for paths ending in .db) or
// a CSV file (STDIN if the input is empty).
func openDataset(ctx context.Context, input, table, label string, features []feature.Feature, dg csv.DatasetGenerator) (dataset.Dataset, error) {
	switch {
	case strings.HasPrefix(input, "postgresql://"), strings.HasPrefix(input, "postgres://"):
		return openSQLDataset(ctx, "postgres", input, table, label, features, dg)
	case strings.HasSuffix(input, ".db"):
		return openSQLDataset(ctx, "sqlite3", input, table, label, features, dg)
	case strings.HasPrefix(input, "mongodb://"):
		return openMongoDataset(ctx, input, table, label, features, dg)
	}
	if input == "" {
		log.Info("reading CSV dataset from STDIN")
	} else {
		log.Infof("reading CSV dataset from %s", input)
	}
	return csv.ReadDatasetFromFilePath(input, features, label, dg)
}

func openSQLDataset(ctx context.Context, driver, dsn, table, label string, features []feature.Feature, dg csv.DatasetGenerator) (dataset.Dataset, error) {
	log.WithFields(log.Fields{"driver": driver, "table": table}).Info("reading dataset from SQL database")
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s database", driver)
	}
	defer db.Close()
	return sqldataset.Open(ctx, db, table, label, features, dg)
}

func openMongoDataset(ctx context.Context, url, collection, label string, features []feature.Feature, dg csv.DatasetGenerator) (dataset.Dataset, error) {
	log.WithField("collection", collection).Info("reading dataset from MongoDB")
	session, err := mgo.Dial(url)
	if err != nil {
		return nil, errors.Wrap(err, "connecting to MongoDB")
	}
	defer session.Close()
	return mongodataset.Open(ctx, session, collection, label, features, dg)
}

func treeCodec(features []feature.Feature) tjson.NodeEncodeDecoder {
	return tjson.NewNodeEncodeDecoder(fjson.NewCriteriaEncodeDecoder(features), features)
}

func loadTree(ctx context.Context, path string, features []feature.Feature) (*tree.Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading tree in JSON from %s", path)
	}
	defer f.Close()
	t := tree.New("", tree.NewMemoryNodeStore(), nil)
	err = tjson.ReadJSONTree(ctx, t, treeCodec(features), f)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing tree in JSON from %s", path)
	}
	return t, nil
}

func writeTree(ctx context.Context, path string, t *tree.Tree, features []feature.Feature) error {
	return withOutput(path, func(w io.Writer) error {
		return tjson.WriteJSONTree(ctx, t, treeCodec(features), w)
	})
}

// withOutput calls f with the file at the given path, created or
// truncated, or with STDOUT if the path is empty.
func withOutput(path string, f func(io.Writer) error) error {
	if path == "" {
		return f(os.Stdout)
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err = f(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func withInput(path string, f func(io.Reader) error) error {
	if path == "" {
		return f(os.Stdin)
	}
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return f(file)
}
