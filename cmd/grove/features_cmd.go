package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pbanos/grove"
	"github.com/pbanos/grove/dataset"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type featuresCmdConfig struct {
	dataInput     string
	metadataInput string
	label         string
	table         string
	number        int
}

func featuresCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "features",
		Short: "Rank the features of a set of data",
		Long:  `Rank the features of a set of labeled data by the information gain they provide on the labels`,
		RunE: func(cmd *cobra.Command, args []string) error {
			config := &featuresCmdConfig{
				dataInput:     viper.GetString("input"),
				metadataInput: viper.GetString("metadata"),
				label:         viper.GetString("label"),
				table:         viper.GetString("table"),
				number:        viper.GetInt("number"),
			}
			if config.label == "" {
				return errors.New("required label flag was not set")
			}
			return config.run(cmd.Context())
		},
	}
	cmd.Flags().StringP("input", "i", "", "path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL with the data (defaults to STDIN, interpreted as CSV)")
	cmd.Flags().StringP("metadata", "m", "", "path to a YML file with metadata describing the features to rank (defaults to every column of the input)")
	cmd.Flags().StringP("label", "c", "", "name of the column holding the labels of the samples (required)")
	cmd.Flags().String("table", "samples", "name of the table or collection holding the data when the input is a database")
	cmd.Flags().IntP("number", "n", 10, "number of features to show (0 for all)")
	return cmd
}

func (fcc *featuresCmdConfig) run(ctx context.Context) error {
	features, err := loadFeatures(fcc.metadataInput)
	if err != nil {
		return err
	}
	s, err := openDataset(ctx, fcc.dataInput, fcc.table, fcc.label, features, dataset.New)
	if err != nil {
		return errors.Wrap(err, "reading dataset")
	}
	if features == nil {
		features, err = dataset.Features(ctx, s)
		if err != nil {
			return err
		}
	}
	entropy, err := grove.Entropy(ctx, s)
	if err != nil {
		return err
	}
	fgs, err := grove.MostInformativeFeatures(ctx, s, features, fcc.number)
	if err != nil {
		return err
	}
	tw := newTable(os.Stdout, table.Row{"#", "feature", "information gain"})
	for i, fg := range fgs {
		tw.AppendRow(table.Row{i + 1, fg.Feature.Name(), fmt.Sprintf("%.4f", fg.Gain)})
	}
	tw.AppendFooter(table.Row{"", "label entropy", fmt.Sprintf("%.4f", entropy)})
	tw.Render()
	return nil
}
