package main

import (
	"context"
	"fmt"
	"io"

	"github.com/pbanos/grove/tree/dot"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type treeCmdConfig struct {
	treeInput     string
	metadataInput string
	format        string
	output        string
}

func treeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Show a tree",
		Long:  `Show a tree as indented text or render it as a graphviz graph`,
		RunE: func(cmd *cobra.Command, args []string) error {
			config := &treeCmdConfig{
				treeInput:     viper.GetString("tree"),
				metadataInput: viper.GetString("metadata"),
				format:        viper.GetString("format"),
				output:        viper.GetString("output"),
			}
			if err := config.Validate(); err != nil {
				return err
			}
			return config.run(cmd.Context())
		},
	}
	cmd.Flags().StringP("tree", "t", "", "path to a file from which the tree to show will be read and parsed as JSON (required)")
	cmd.Flags().StringP("metadata", "m", "", "path to a YML file with metadata describing the features used on the tree")
	cmd.Flags().StringP("format", "f", "text", "output format, one of text, dot, svg or png")
	cmd.Flags().StringP("output", "o", "", "path to a file to write the tree to (defaults to STDOUT)")
	return cmd
}

func (tcc *treeCmdConfig) Validate() error {
	if tcc.treeInput == "" {
		return errors.New("required tree flag was not set")
	}
	if tcc.format == "text" {
		return nil
	}
	_, err := dot.ParseFormat(tcc.format)
	return err
}

func (tcc *treeCmdConfig) run(ctx context.Context) error {
	features, err := loadFeatures(tcc.metadataInput)
	if err != nil {
		return err
	}
	t, err := loadTree(ctx, tcc.treeInput, features)
	if err != nil {
		return err
	}
	return withOutput(tcc.output, func(w io.Writer) error {
		if tcc.format == "text" {
			_, err := fmt.Fprint(w, t)
			return err
		}
		format, err := dot.ParseFormat(tcc.format)
		if err != nil {
			return err
		}
		return dot.Render(ctx, t, format, w)
	})
}
