package main

import (
	"context"
	"os"
	"os/signal"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cliParser().ExecuteContext(ctx)
	stop()
	if err != nil {
		log.WithError(err).Fatal("cannot execute command")
	}
}

func cliParser() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "grove",
		Short: "grove is a tool to grow decision trees",
		Long:  `A tool to grow decision trees that classify samples from your data, test them, and use them to classify new samples`,

		SilenceUsage:  true,
		SilenceErrors: true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cmd)
		},
	}
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log progress information")
	rootCmd.PersistentFlags().Bool("debug", false, "log debugging information, including the development of every node")
	rootCmd.PersistentFlags().String("config", "", "path to a YAML file with values for the flags of the command")
	rootCmd.AddCommand(
		versionCmd(),
		growCmd(),
		testCmd(),
		predictCmd(),
		treeCmd(),
		featuresCmd(),
		splitCmd(),
	)
	return rootCmd
}

// initConfig layers flag values, GROVE_* environment variables and
// the optional config file with viper, and sets up logging.
func initConfig(cmd *cobra.Command) error {
	viper.SetEnvPrefix("GROVE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return errors.Wrap(err, "binding flags")
	}
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		viper.SetConfigType("yaml")
		if err := viper.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "reading config file %s", configFile)
		}
	}
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	switch {
	case viper.GetBool("debug"):
		log.SetLevel(log.DebugLevel)
	case viper.GetBool("verbose"):
		log.SetLevel(log.InfoLevel)
	default:
		log.SetLevel(log.WarnLevel)
	}
	return nil
}
