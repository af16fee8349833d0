// Package cmd provides the root command and CLI setup for makemod.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"makemod.dev/pkg/makemod/internal/adapter"
	"makemod.dev/pkg/makemod/internal/controller"
	"makemod.dev/pkg/makemod/internal/domain"
	m "makemod.dev/pkg/makemod/internal/model"
)

var fsAdapter adapter.ModuleFSAdapter
var summaryStore adapter.SummaryStore

// chdirFlag moves the process into the repository root before generating.
var chdirFlag string

// verboseFlag switches file logging to Debug.
var verboseFlag bool

// logFileFlag overrides the log file location.
var logFileFlag string

// summaryFlag overrides where the run summary is written.
var summaryFlag string

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	fsAdapter = adapter.NewLocalModuleFSAdapter()
	summaryStore = adapter.NewSummaryStore()
}

const rootLongDescription = `makemod scans a source tree laid out in the CASM convention (include/,
src/, apps/, tests/unit/), classifies files by role, and generates the
Makemodule.am build fragments together with one run_test_<group>.in wrapper
per unit-test group. It then rewrites the marker-delimited managed regions
of Makefile.am and configure.ac to reference everything it generated.

Repeated runs are idempotent; nothing outside the managed regions is ever
touched. Run it from (or point --chdir at) the repository root before
bootstrapping the build.`

// rootCmd represents the base command; invoking makemod with no arguments
// runs the full generation pipeline.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "makemod",
		Short: "Generate Makemodule.am build fragments",
		Long:  rootLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd)
		},
	}
}

func runGenerate(cmd *cobra.Command) error {
	if chdirFlag != "" && chdirFlag != "." {
		if err := os.Chdir(chdirFlag); err != nil {
			return fmt.Errorf("change to repository root: %w", err)
		}

		// A makemod.yaml in the target repository wins over one in the
		// invocation directory.
		reloadConfig()
	}

	configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))

	workflow := domain.NewWorkflow(fsAdapter, buildConfig())

	summary, err := workflow.Generate()

	ui := controller.NewUI(cmd, controller.IsTTY(os.Stdout))
	if uiErr := ui.DisplaySummary(cmd.Context(), summary, err); uiErr != nil {
		return uiErr
	}

	if err != nil {
		return err
	}

	return summaryStore.Save(m.Path(viper.GetString(summaryFileKey)), summary)
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&chdirFlag, chdirFlagName, "C", ".", "repository root to generate in")

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "log per-file decisions at debug level")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)

	cmd.PersistentFlags().StringVar(&logFileFlag, logFileFlagName, viper.GetString(logFilenameKey), "log file location")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(logFileFlagName), logFilenameKey)

	cmd.PersistentFlags().StringVar(&summaryFlag, summaryFlagName, viper.GetString(summaryFileKey), "run summary file location")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(summaryFlagName), summaryFileKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
