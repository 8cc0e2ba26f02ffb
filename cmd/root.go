package cmd

import (
	"log"

	"candimatch/internal/matching"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "candimatch"
)

type Config struct {
	Preferences  *matching.Preferences `mapstructure:"preferences"`
	Matching     *MatchingConfig       `mapstructure:"matching"`
	ListingsFile string                `mapstructure:"listings-file"`
	OutputFile   string                `mapstructure:"output-file"`
}

// MatchingConfig tunes the thresholds of the pipeline. Omitted or zero
// values fall back to the built-in defaults; an explicit zero threshold
// is not supported.
type MatchingConfig struct {
	MinScore    float64           `mapstructure:"min-score"`
	SafetyFloor float64           `mapstructure:"safety-floor"`
	MaxAgeDays  int               `mapstructure:"max-age-days"`
	Weights     *matching.Weights `mapstructure:"weights"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "candimatch ranks collected job listings against a candidate profile",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("listings-file", "CANDIMATCH_LISTINGS_FILE"); err != nil {
		log.Fatalf("binding CANDIMATCH_LISTINGS_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is candimatch.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config needed only for run command now. If there is no config, we can skip initialization
	if runCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
