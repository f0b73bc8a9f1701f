package main

import (
	"context"
	"strconv"
	"strings"

	"github.com/pbanos/grove"
	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/dataset/csv"
	"github.com/pbanos/grove/queue"
	"github.com/pbanos/grove/tree/redisstore"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/redis.v5"
)

type growCmdConfig struct {
	dataInput          string
	metadataInput      string
	output             string
	label              string
	table              string
	pruneStrategy      string
	maxDepth           int
	minSamples         int
	workers            int
	smoothing          float64
	gainEpsilon        float64
	minimumEntropy     float64
	cpuIntensiveSet    bool
	memoryIntensiveSet bool
	redisAddr          string
	redisDB            int
	redisPrefix        string
}

func growCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grow",
		Short: "Grow a tree from a set of data",
		Long:  `Grow a tree from a set of labeled data to classify samples into their labels.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadGrowCmdConfig()
			if err := config.Validate(); err != nil {
				return err
			}
			return config.run(cmd.Context())
		},
	}
	cmd.Flags().StringP("input", "i", "", "path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL with data to use to grow the tree (defaults to STDIN, interpreted as CSV)")
	cmd.Flags().StringP("metadata", "m", "", "path to a YML file with metadata describing the features to use (defaults to every column of the input)")
	cmd.Flags().StringP("output", "o", "", "path to a file to which the generated tree will be written in JSON format (defaults to STDOUT)")
	cmd.Flags().StringP("label", "c", "", "name of the column holding the labels the tree should predict (required)")
	cmd.Flags().String("table", "samples", "name of the table or collection holding the data when the input is a database")
	cmd.Flags().StringP("prune", "p", "none", "pruning strategy to apply, the following are valid: none, mdl (or default), minimum-information-gain:[VALUE]")
	cmd.Flags().Int("max-depth", 0, "maximum depth of the tree (defaults to 0: unlimited)")
	cmd.Flags().Int("min-samples", 1, "minimum number of samples a node must have to be split")
	cmd.Flags().Int("workers", 1, "number of nodes to develop at a time")
	cmd.Flags().Float64("smoothing", 0, "additive smoothing constant for label distributions")
	cmd.Flags().Float64("gain-epsilon", 0, "minimum information gain a split must exceed")
	cmd.Flags().Float64("minimum-entropy", 0, "entropy at or below which nodes are not split")
	cmd.Flags().Bool("memory-intensive", false, "force the use of memory-intensive subsetting to decrease time at the cost of increasing memory use")
	cmd.Flags().Bool("cpu-intensive", false, "force the use of cpu-intensive subsetting to decrease memory use at the cost of increasing time")
	cmd.Flags().String("redis-addr", "", "address of a redis server to keep the nodes of the tree while growing it (defaults to process memory)")
	cmd.Flags().Int("redis-db", 0, "redis database to keep the nodes on")
	cmd.Flags().String("redis-prefix", "grove", "prefix for the redis keys of the nodes")
	return cmd
}

func loadGrowCmdConfig() *growCmdConfig {
	return &growCmdConfig{
		dataInput:          viper.GetString("input"),
		metadataInput:      viper.GetString("metadata"),
		output:             viper.GetString("output"),
		label:              viper.GetString("label"),
		table:              viper.GetString("table"),
		pruneStrategy:      viper.GetString("prune"),
		maxDepth:           viper.GetInt("max-depth"),
		minSamples:         viper.GetInt("min-samples"),
		workers:            viper.GetInt("workers"),
		smoothing:          viper.GetFloat64("smoothing"),
		gainEpsilon:        viper.GetFloat64("gain-epsilon"),
		minimumEntropy:     viper.GetFloat64("minimum-entropy"),
		cpuIntensiveSet:    viper.GetBool("cpu-intensive"),
		memoryIntensiveSet: viper.GetBool("memory-intensive"),
		redisAddr:          viper.GetString("redis-addr"),
		redisDB:            viper.GetInt("redis-db"),
		redisPrefix:        viper.GetString("redis-prefix"),
	}
}

func (gcc *growCmdConfig) Validate() error {
	if gcc.label == "" {
		return errors.New("required label flag was not set")
	}
	if gcc.cpuIntensiveSet && gcc.memoryIntensiveSet {
		return errors.New("cannot set both memory-intensive and cpu-intensive flags at the same time")
	}
	if gcc.maxDepth < 0 {
		return errors.New("max-depth flag cannot be negative")
	}
	return nil
}

func (gcc *growCmdConfig) run(ctx context.Context) error {
	features, err := loadFeatures(gcc.metadataInput)
	if err != nil {
		return err
	}
	trainingSet, err := openDataset(ctx, gcc.dataInput, gcc.table, gcc.label, features, gcc.datasetGenerator())
	if err != nil {
		return errors.Wrap(err, "reading training set")
	}
	cfg, err := gcc.growConfig()
	if err != nil {
		return err
	}
	count, err := trainingSet.Count(ctx)
	if err != nil {
		return errors.Wrap(err, "counting training set samples")
	}
	log.WithFields(log.Fields{"samples": count, "label": gcc.label}).Info("growing tree")
	var m *grove.Model
	if gcc.redisAddr != "" {
		rc := redis.NewClient(&redis.Options{Addr: gcc.redisAddr, DB: gcc.redisDB})
		ns := redisstore.New(rc, gcc.redisPrefix, treeCodec(features))
		defer ns.Close(ctx)
		log.WithField("addr", gcc.redisAddr).Info("keeping nodes on redis")
		m, err = grove.GrowWith(ctx, trainingSet, features, cfg, queue.New(), ns)
	} else {
		m, err = grove.Grow(ctx, trainingSet, features, cfg)
	}
	if err != nil {
		return errors.Wrap(err, "growing the tree")
	}
	log.Info("done")
	log.Debugf("grown tree:\n%v", m.Tree)
	return writeTree(ctx, gcc.output, m.Tree, features)
}

func (gcc *growCmdConfig) datasetGenerator() csv.DatasetGenerator {
	if gcc.memoryIntensiveSet {
		return dataset.NewMemoryIntensive
	}
	if gcc.cpuIntensiveSet {
		return dataset.NewCPUIntensive
	}
	return dataset.New
}

func (gcc *growCmdConfig) growConfig() (grove.Config, error) {
	cfg := grove.DefaultConfig()
	if gcc.maxDepth > 0 {
		cfg.MaxDepth = gcc.maxDepth
	}
	cfg.MinSamples = gcc.minSamples
	cfg.Workers = gcc.workers
	cfg.Smoothing = gcc.smoothing
	cfg.GainEpsilon = gcc.gainEpsilon
	cfg.MinimumEntropy = gcc.minimumEntropy
	pruner, err := pruningStrategy(gcc.pruneStrategy)
	if err != nil {
		return cfg, err
	}
	cfg.Pruner = pruner
	return cfg, cfg.Validate()
}

func pruningStrategy(ps string) (grove.Pruner, error) {
	parsedPS := strings.SplitN(ps, ":", 2)
	switch parsedPS[0] {
	case "", "none":
		return nil, nil
	case "default", "mdl":
		return grove.MDLPruner(), nil
	case "minimum-information-gain":
		if len(parsedPS) < 2 {
			return nil, errors.New("minimum-information-gain pruning strategy requires a value")
		}
		minimum, err := strconv.ParseFloat(parsedPS[1], 64)
		if err != nil {
			return nil, errors.Wrap(err, "parsing minimum-information-gain parameter")
		}
		return grove.FixedInformationGainPruner(minimum), nil
	}
	return nil, errors.Errorf("unknown pruning strategy %s", ps)
}
