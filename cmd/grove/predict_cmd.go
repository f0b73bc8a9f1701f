package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pbanos/grove/dataset/csv"
	"github.com/pbanos/grove/dataset/inputsample"
	"github.com/pbanos/grove/feature"
	fjson "github.com/pbanos/grove/feature/json"
	"github.com/pbanos/grove/tree"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type predictCmdConfig struct {
	treeInput      string
	metadataInput  string
	undefinedValue string
	interactive    bool
}

type stdoutFeatureValueRequester string

func predictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict [feature=value ...]",
		Short: "Classify a sample",
		Long: `Use the loaded tree to classify a sample given as feature=value arguments,
or answering a reduced set of questions about its features with --interactive`,
		RunE: func(cmd *cobra.Command, args []string) error {
			config := &predictCmdConfig{
				treeInput:      viper.GetString("tree"),
				metadataInput:  viper.GetString("metadata"),
				undefinedValue: viper.GetString("undefined-value"),
				interactive:    viper.GetBool("interactive"),
			}
			if err := config.Validate(args); err != nil {
				return err
			}
			return config.run(cmd.Context(), args)
		},
	}
	cmd.Flags().StringP("tree", "t", "", "path to a file from which the tree will be read and parsed as JSON (required)")
	cmd.Flags().StringP("metadata", "m", "", "path to a YML file with metadata describing the features used on the tree")
	cmd.Flags().StringP("undefined-value", "u", csv.UndefinedValue, "value to input to define a sample's value for a feature as undefined")
	cmd.Flags().Bool("interactive", false, "ask for the values of the features the tree needs on STDIN")
	return cmd
}

func (pcc *predictCmdConfig) Validate(args []string) error {
	if pcc.treeInput == "" {
		return errors.New("required tree flag was not set")
	}
	if pcc.interactive && len(args) > 0 {
		return errors.New("feature values cannot be given as arguments in interactive mode")
	}
	return nil
}

func (pcc *predictCmdConfig) run(ctx context.Context, args []string) error {
	features, err := loadFeatures(pcc.metadataInput)
	if err != nil {
		return err
	}
	t, err := loadTree(ctx, pcc.treeInput, features)
	if err != nil {
		return err
	}
	var sample feature.Sample
	if pcc.interactive {
		features, err = treeFeatures(ctx, t, features)
		if err != nil {
			return err
		}
		sample = inputsample.New(os.Stdin, features, stdoutFeatureValueRequester(pcc.undefinedValue), pcc.undefinedValue)
	} else {
		sample, err = parseSample(args, pcc.undefinedValue)
		if err != nil {
			return err
		}
	}
	d, err := t.ClassifyWithDistribution(ctx, sample)
	if err != nil {
		return errors.Wrap(err, "classifying sample")
	}
	tw := newTable(os.Stdout, table.Row{"label", "probability"})
	for _, l := range d.Labels() {
		tw.AppendRow(table.Row{l, fmt.Sprintf("%.4f", d.ProbabilityOf(l))})
	}
	tw.Render()
	label, _ := d.MostProbable()
	fmt.Printf("Predicted label is %s (from %d training samples)\n", label, d.Weight())
	return nil
}

func parseSample(args []string, undefinedValue string) (feature.Sample, error) {
	values := make(map[string]interface{}, len(args))
	for _, arg := range args {
		parts := strings.SplitN(arg, "=", 2)
		if len(parts) != 2 || parts[0] == "" {
			return nil, errors.Errorf("expected feature=value argument, got %q", arg)
		}
		if parts[1] == undefinedValue || parts[1] == "" {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return feature.NewSample(values), nil
}

// treeFeatures returns the features the tree splits on, taken from
// the given ones when declared there.
func treeFeatures(ctx context.Context, t *tree.Tree, declared []feature.Feature) ([]feature.Feature, error) {
	var features []feature.Feature
	seen := make(map[string]bool)
	err := t.Traverse(ctx, false, func(_ context.Context, n *tree.Node) error {
		if n.SubtreeFeature != nil && !seen[n.SubtreeFeature.Name()] {
			seen[n.SubtreeFeature.Name()] = true
			features = append(features, fjson.FeatureNamed(declared, n.SubtreeFeature.Name()))
		}
		return nil
	})
	return features, err
}

func (sfvr stdoutFeatureValueRequester) RequestValueFor(f feature.Feature) error {
	if df, ok := f.(*feature.DiscreteFeature); ok && len(df.AvailableValues()) > 0 {
		fmt.Printf("Please provide the sample's %s:\n(valid values are %v or %s if undefined)\n", f.Name(), df.AvailableValues(), string(sfvr))
		return nil
	}
	fmt.Printf("Please provide the sample's %s:\n(or %s if undefined)\n", f.Name(), string(sfvr))
	return nil
}

func (sfvr stdoutFeatureValueRequester) RejectValueFor(f feature.Feature, value interface{}) error {
	if df, ok := f.(*feature.DiscreteFeature); ok {
		fmt.Printf("%v is not a valid value for the sample's %s. Please provide one of %v or %s if undefined.\n", value, f.Name(), df.AvailableValues(), string(sfvr))
		return nil
	}
	fmt.Printf("%v is not a valid value for the sample's %s. Please provide another one or %s if undefined.\n", value, f.Name(), string(sfvr))
	return nil
}
