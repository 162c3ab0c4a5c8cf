// Package cmd provides the root command and CLI setup for covmeld.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mouse-blink/covmeld/internal/adapter"
	"github.com/mouse-blink/covmeld/internal/controller"
	"github.com/mouse-blink/covmeld/internal/domain"
	m "github.com/mouse-blink/covmeld/internal/model"
	"github.com/mouse-blink/covmeld/internal/render"
)

var fsAdapter adapter.FSAdapter
var gcovRunner *adapter.GcovRunner
var locator domain.Locator
var workflow domain.Workflow

// rootFlag is the coverage search root, shared by all output formats.
var rootFlag string

// verboseFlag switches the log level to debug.
var verboseFlag bool

// excludePatterns and includePatterns filter located artifacts by glob.
var excludePatterns []string
var includePatterns []string

var jobsFlag int
var tracefileFlags []string
var deleteFlag bool
var gcovKeepFlag bool
var gcovUseExistingFlag bool

// One output path variable per report format flag.
var (
	txtOutput             string
	lcovOutput            string
	coberturaOutput       string
	coberturaPrettyOutput string
	htmlDetailsOutput     string
	sonarqubeOutput       string
	jacocoOutput          string
	jsonOutput            string
	jsonPrettyOutput      string
	coverallsOutput       string
	coverallsPrettyOutput string
)

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	fsAdapter = adapter.NewLocalFSAdapter()
	gcovRunner = adapter.NewGcovRunner(adapter.NewLocalExecer(), fsAdapter, viper.GetString(gcovExecutableKey))
	locator = domain.NewLocator(fsAdapter)
	workflow = domain.NewWorkflow(fsAdapter, gcovRunner, locator)
}

const rootLongDescription = `covmeld discovers compiler-emitted coverage artifacts under a directory
tree, merges line and branch hit counts across runs, and renders the
merged model into standard report formats.

Without an output flag it prints a coverage summary to the console.
Output flags can be combined to write several formats in one run:

  covmeld --root build --lcov coverage.info --json coverage.json
  covmeld -r build --gcov-use-existing-files --cobertura-pretty cov.xml
  covmeld -a run1.json -a run2.json --txt merged.txt`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "covmeld",
		Short: "Merge coverage artifacts and render coverage reports",
		Long:  rootLongDescription,
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			configureLogger(viper.GetString(logFilenameKey), verboseFlag)

			args := domain.RunArgs{
				Root:             m.Path(viper.GetString(rootFlagName)),
				Include:          viper.GetStringSlice(includeConfigKey),
				Exclude:          viper.GetStringSlice(excludeConfigKey),
				Tracefiles:       parsePaths(tracefileFlags),
				UseExistingFiles: viper.GetBool(gcovUseExistingKey),
				KeepGcovFiles:    viper.GetBool(gcovKeepKey),
				DeleteDataFiles:  viper.GetBool(deleteFlagName),
				Jobs:             viper.GetInt(jobsConfigKey),
				Outputs:          collectOutputs(),
			}

			model, summary, err := workflow.Run(cmd.Context(), args)
			if err != nil {
				return err
			}

			ui := controller.NewSimpleUI(cmd)

			return ui.DisplaySummary(cmd.Context(), model, summary)
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&rootFlag, rootFlagName, "r", viper.GetString(rootFlagName), "root directory to search for coverage artifacts")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(rootFlagName), rootFlagName)

	cmd.PersistentFlags().BoolVar(&verboseFlag, verboseFlagName, false, "enable debug logging")

	cmd.PersistentFlags().StringArrayVarP(&excludePatterns, excludeFlagName, "x", viper.GetStringSlice(excludeConfigKey), "exclude artifacts matching glob (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(excludeFlagName), excludeConfigKey)

	cmd.PersistentFlags().StringArrayVar(&includePatterns, includeFlagName, viper.GetStringSlice(includeConfigKey), "only include artifacts matching glob (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(includeFlagName), includeConfigKey)

	cmd.Flags().IntVarP(&jobsFlag, jobsFlagName, "j", viper.GetInt(jobsConfigKey), "number of artifacts parsed in parallel")
	bindFlagToConfig(cmd.Flags().Lookup(jobsFlagName), jobsConfigKey)

	cmd.Flags().StringArrayVarP(&tracefileFlags, addTracefileFlagName, "a", nil, "merge a previously emitted JSON tracefile (can be repeated)")
	cmd.Flags().BoolVarP(&deleteFlag, deleteFlagName, "d", viper.GetBool(deleteFlagName), "delete counter files after processing")
	bindFlagToConfig(cmd.Flags().Lookup(deleteFlagName), deleteFlagName)

	cmd.Flags().BoolVar(&gcovKeepFlag, gcovKeepFlagName, viper.GetBool(gcovKeepKey), "keep gcov's intermediate .gcov files")
	bindFlagToConfig(cmd.Flags().Lookup(gcovKeepFlagName), gcovKeepKey)

	cmd.Flags().BoolVar(&gcovUseExistingFlag, gcovUseExistingFlagName, viper.GetBool(gcovUseExistingKey), "parse existing .gcov files instead of running gcov")
	bindFlagToConfig(cmd.Flags().Lookup(gcovUseExistingFlagName), gcovUseExistingKey)

	cmd.Flags().StringVar(&txtOutput, "txt", "", "write the text report to the given file")
	cmd.Flags().StringVar(&lcovOutput, "lcov", "", "write an LCOV tracefile to the given file")
	cmd.Flags().StringVar(&coberturaOutput, "cobertura", "", "write a Cobertura XML report to the given file")
	cmd.Flags().StringVar(&coberturaPrettyOutput, "cobertura-pretty", "", "write an indented Cobertura XML report to the given file")
	cmd.Flags().StringVar(&htmlDetailsOutput, "html-details", "", "write an HTML details page to the given file")
	cmd.Flags().StringVar(&sonarqubeOutput, "sonarqube", "", "write a SonarQube coverage XML report to the given file")
	cmd.Flags().StringVar(&jacocoOutput, "jacoco", "", "write a JaCoCo XML report to the given file")
	cmd.Flags().StringVar(&jsonOutput, "json", "", "write a JSON tracefile to the given file")
	cmd.Flags().StringVar(&jsonPrettyOutput, "json-pretty", "", "write an indented JSON tracefile to the given file")
	cmd.Flags().StringVar(&coverallsOutput, "coveralls", "", "write a Coveralls JSON report to the given file")
	cmd.Flags().StringVar(&coverallsPrettyOutput, "coveralls-pretty", "", "write an indented Coveralls JSON report to the given file")
}

// collectOutputs maps the set output flags to renderer invocations.
func collectOutputs() []domain.Output {
	specs := []struct {
		path   string
		format render.Format
		pretty bool
	}{
		{txtOutput, render.FormatText, false},
		{lcovOutput, render.FormatLcov, false},
		{coberturaOutput, render.FormatCobertura, false},
		{coberturaPrettyOutput, render.FormatCobertura, true},
		{htmlDetailsOutput, render.FormatHTML, false},
		{sonarqubeOutput, render.FormatSonarqube, false},
		{jacocoOutput, render.FormatJacoco, false},
		{jsonOutput, render.FormatJSON, false},
		{jsonPrettyOutput, render.FormatJSON, true},
		{coverallsOutput, render.FormatCoveralls, false},
		{coverallsPrettyOutput, render.FormatCoveralls, true},
	}

	var outputs []domain.Output

	for _, spec := range specs {
		if spec.path == "" {
			continue
		}

		outputs = append(outputs, domain.Output{
			Format: spec.format,
			Path:   m.Path(spec.path),
			Pretty: spec.pretty,
		})
	}

	return outputs
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

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}
