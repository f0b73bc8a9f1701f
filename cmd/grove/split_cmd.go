package main

import (
	"context"
	"io"
	"math/rand"
	"time"

	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/dataset/csv"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type splitCmdConfig struct {
	setInput         string
	metadataInput    string
	label            string
	setOutput        string
	splitOutput      string
	splitProbability int
	seed             int64
}

func splitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "split",
		Short: "Split a set into two sets",
		Long:  `Split a CSV set into an output set and a split set, for instance to hold out samples to test a tree with`,
		RunE: func(cmd *cobra.Command, args []string) error {
			config := &splitCmdConfig{
				setInput:         viper.GetString("input"),
				metadataInput:    viper.GetString("metadata"),
				label:            viper.GetString("label"),
				setOutput:        viper.GetString("output"),
				splitOutput:      viper.GetString("split-output"),
				splitProbability: viper.GetInt("split-probability"),
				seed:             viper.GetInt64("seed"),
			}
			if err := config.Validate(); err != nil {
				return err
			}
			return config.run(cmd.Context())
		},
	}
	cmd.Flags().StringP("input", "i", "", "path to an input CSV file with the set to split (defaults to STDIN)")
	cmd.Flags().StringP("metadata", "m", "", "path to a YML file with metadata describing the features to keep (required)")
	cmd.Flags().StringP("label", "c", "", "name of the column holding the labels of the samples (required)")
	cmd.Flags().StringP("output", "o", "", "path to a file to dump the output set (defaults to STDOUT)")
	cmd.Flags().IntP("split-probability", "p", 20, "probability as percent integer that a sample of the set will be assigned to the split set")
	cmd.Flags().StringP("split-output", "s", "", "path to a file to dump the output of the split set (required)")
	cmd.Flags().Int64("seed", 0, "seed for the random assignment of samples (defaults to 0: time based)")
	return cmd
}

func (scc *splitCmdConfig) Validate() error {
	if scc.metadataInput == "" {
		return errors.New("required metadata flag was not set")
	}
	if scc.label == "" {
		return errors.New("required label flag was not set")
	}
	if scc.splitOutput == "" {
		return errors.New("required split-output flag was not set")
	}
	if scc.splitProbability <= 0 || scc.splitProbability > 100 {
		return errors.New("split-probability flag was set to an invalid value: it must be set to an integer between 1 and 100")
	}
	return nil
}

func (scc *splitCmdConfig) run(ctx context.Context) error {
	features, err := loadFeatures(scc.metadataInput)
	if err != nil {
		return err
	}
	seed := scc.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	randomizer := rand.New(rand.NewSource(seed))
	return withOutput(scc.setOutput, func(ow io.Writer) error {
		output, err := csv.NewWriter(ow, features, scc.label)
		if err != nil {
			return err
		}
		return withOutput(scc.splitOutput, func(sw io.Writer) error {
			splitOutput, err := csv.NewWriter(sw, features, scc.label)
			if err != nil {
				return err
			}
			splitter := func(i int, s dataset.Sample) (bool, error) {
				w := output
				if randomizer.Intn(100) < scc.splitProbability {
					w = splitOutput
				}
				_, err := w.Write(ctx, []dataset.Sample{s})
				return err == nil, err
			}
			err = withInput(scc.setInput, func(r io.Reader) error {
				return csv.ReadDatasetBySample(r, features, scc.label, splitter)
			})
			if err != nil {
				return err
			}
			if err = output.Flush(); err != nil {
				return err
			}
			if err = splitOutput.Flush(); err != nil {
				return err
			}
			log.Infof("input set with %d samples was split into sets with %d and %d samples", output.Count()+splitOutput.Count(), output.Count(), splitOutput.Count())
			return nil
		})
	})
}
