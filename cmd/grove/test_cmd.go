package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pbanos/grove/dataset"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type testCmdConfig struct {
	treeInput     string
	dataInput     string
	metadataInput string
	label         string
	table         string
}

func testCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test the performance of a tree",
		Long:  `Test the performance of a tree against a labeled test data set`,
		RunE: func(cmd *cobra.Command, args []string) error {
			config := &testCmdConfig{
				treeInput:     viper.GetString("tree"),
				dataInput:     viper.GetString("input"),
				metadataInput: viper.GetString("metadata"),
				label:         viper.GetString("label"),
				table:         viper.GetString("table"),
			}
			if err := config.Validate(); err != nil {
				return err
			}
			return config.run(cmd.Context())
		},
	}
	cmd.Flags().StringP("input", "i", "", "path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL with data to test the tree against (defaults to STDIN, interpreted as CSV)")
	cmd.Flags().StringP("metadata", "m", "", "path to a YML file with metadata describing the features used on the tree")
	cmd.Flags().StringP("tree", "t", "", "path to a file from which the tree to test will be read and parsed as JSON (required)")
	cmd.Flags().StringP("label", "c", "", "name of the column holding the labels of the samples (required)")
	cmd.Flags().String("table", "samples", "name of the table or collection holding the data when the input is a database")
	return cmd
}

func (tcc *testCmdConfig) Validate() error {
	if tcc.treeInput == "" {
		return errors.New("required tree flag was not set")
	}
	if tcc.label == "" {
		return errors.New("required label flag was not set")
	}
	return nil
}

func (tcc *testCmdConfig) run(ctx context.Context) error {
	features, err := loadFeatures(tcc.metadataInput)
	if err != nil {
		return err
	}
	t, err := loadTree(ctx, tcc.treeInput, features)
	if err != nil {
		return err
	}
	testingSet, err := openDataset(ctx, tcc.dataInput, tcc.table, tcc.label, features, dataset.New)
	if err != nil {
		return errors.Wrap(err, "reading testing set")
	}
	count, err := testingSet.Count(ctx)
	if err != nil {
		return errors.Wrap(err, "counting testing set samples")
	}
	log.WithField("samples", count).Info("testing tree")
	accuracy, err := t.Test(ctx, testingSet)
	if err != nil {
		return errors.Wrap(err, "testing tree")
	}
	tw := newTable(os.Stdout, table.Row{"samples", "hits", "accuracy"})
	tw.AppendRow(table.Row{count, int(accuracy*float64(count) + 0.5), fmt.Sprintf("%.4f", accuracy)})
	tw.Render()
	return nil
}
