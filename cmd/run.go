package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"candimatch/internal/filtering"
	"candimatch/internal/listing"
	"candimatch/internal/logger"
	"candimatch/internal/matching"

	"github.com/manifoldco/promptui"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptYes            = "Export matches to the output file"
	PromptNo             = "No"
	PromptReportBySource = "Report by source"
	PromptRankedTable    = "Show ranked table"
	PromptInspectListing = "Inspect a listing"
	PromptMatchesToFile  = "Dump matches to a temporary file"

	defaultListingsFile = "listings.json"
	defaultOutputFile   = "matches.json"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "Proceed?",
	Items: []string{PromptYes, PromptNo, PromptReportBySource, PromptRankedTable, PromptInspectListing, PromptMatchesToFile},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the candimatch matching pipeline over collected listings",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("listings", "l", "", "file with collected listings to match. Default is listings.json.")
	runCmd.Flags().StringP("output", "o", "", "file to write ranked matches to. Default is matches.json.")
	runCmd.Flags().BoolP("auto-aprove", "y", false, "do not ask for confirmation if found suitable listings")
	runCmd.Flags().Bool("skip-recency", false, "match listings of any age, skipping the recency filter")

	viper.BindPFlag("listings-file", runCmd.Flags().Lookup("listings"))
	viper.BindPFlag("output-file", runCmd.Flags().Lookup("output"))
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the candimatch", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}

	if config.Preferences == nil {
		logger.Fatal("a preferences section is required to match listings against")
	}

	listingsFile := resolveListingsFile(config)

	listings, err := getListings(listingsFile, logger)
	if err != nil {
		logger.Fatal("getting collected listings", zap.Error(err),
			zap.String("hint", "point --listings (or listings-file) at a collector output file"),
		)
	}

	logger.Info("getting collected listings",
		zap.String("file", listingsFile),
		zap.Int("count", listings.Len()),
	)

	if listings.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no listings found"))
		return
	}

	matcher, filterConfig, err := prepareMatching(config)
	if err != nil {
		logger.Fatal("preparing the matching configuration", zap.Error(err))
	}

	deps := filtering.Deps{
		Logger:  logger,
		Matcher: matcher,
	}

	steps := filtering.DefaultSteps()
	if cmd.Flag("skip-recency").Value.String() == "true" {
		filtering.DisableByName(steps, "recency", "skip requested via flag")
	}

	matched, skipped, err := filtering.Run(ctx, filterConfig, deps, steps, listings)
	if err != nil {
		logger.Fatal("filtering failed", zap.Error(err))
	}

	if skipped > 0 {
		logger.Warn("some listings were skipped during scoring", zap.Int("skipped", skipped))
	}

	summary := matched.Summarize()
	logger.Info("matching completed",
		zap.Int("matches", summary.Total),
		zap.Float64("average_score", summary.AverageScore),
		zap.Int("excellent", summary.Excellent),
		zap.Int("good", summary.Good),
	)

	if matched.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no listings left after filters"))
		return
	}

	action := PromptYes
	for {
		var err error
		if cmd.Flag("auto-aprove").Value.String() == "false" {
			_, action, err = prompt.Run()
			if err != nil {
				logger.Fatal("exiting", zap.Error(err))
			}
		}

		logger.Info("current list of matches", zap.Int("count", matched.Len()))

		if err := handleAction(action, logger, config, matched); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, logger *zap.Logger, config *Config, matched *listing.Listings) error {
	switch action {
	case PromptYes:
		output := resolveOutputFile(config)
		if err := matched.ToFile(output); err != nil {
			return fmt.Errorf("writing matches to file: %w", err)
		}
		logger.Info("wrote ranked matches", zap.String("filename", output), zap.Int("count", matched.Len()))
		return errExit
	case PromptNo:
		logger.Info("exiting", zap.String("reason", "got no from prompt"))
		return errExit
	case PromptReportBySource:
		pretty, _ := json.MarshalIndent(matched.ReportBySource(), "", "  ")
		logger.Info(string(pretty), zap.Int("matches count", matched.Len()))
		return nil
	case PromptRankedTable:
		return renderRankedTable(os.Stdout, matched)
	case PromptInspectListing:
		return inspectListing(logger, matched)
	case PromptMatchesToFile:
		filename, err := matched.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func inspectListing(logger *zap.Logger, matched *listing.Listings) error {
	items := make([]string, 0, matched.Len())
	for _, l := range matched.Items {
		items = append(items, fmt.Sprintf("%s %s / %s / %.3f", l.ID, l.Title, l.Company, l.Score()))
	}

	picker := promptui.Select{
		Label: "Which listing?",
		Items: items,
	}

	_, selected, err := picker.Run()
	if err != nil {
		return err
	}

	id := strings.Split(selected, " ")[0]

	l := matched.FindByID(id)
	if l == nil {
		return fmt.Errorf("there is no such listing id %s", id)
	}

	pretty, _ := json.MarshalIndent(l, "", "  ")
	logger.Info(string(pretty), zap.String("listing_id", id))

	return nil
}

func renderRankedTable(w *os.File, matched *listing.Listings) error {
	table := tablewriter.NewWriter(w)
	table.Header("#", "Score", "Title", "Company", "Location", "Source")

	for i, l := range matched.Items {
		if err := table.Append([]string{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%.3f", l.Score()),
			logger.TruncateForLog(l.Title, 40),
			logger.TruncateForLog(l.Company, 25),
			logger.TruncateForLog(l.Location, 25),
			l.Source,
		}); err != nil {
			return err
		}
	}

	return table.Render()
}

func resolveListingsFile(config *Config) string {
	file := strings.TrimSpace(viper.GetString("listings-file"))
	if file == "" && config != nil {
		file = strings.TrimSpace(config.ListingsFile)
	}
	if file == "" {
		file = defaultListingsFile
	}
	return file
}

func resolveOutputFile(config *Config) string {
	file := strings.TrimSpace(viper.GetString("output-file"))
	if file == "" && config != nil {
		file = strings.TrimSpace(config.OutputFile)
	}
	if file == "" {
		file = defaultOutputFile
	}
	return file
}

// getListings reads a collector output file and normalizes its raw
// records into the common listing shape.
func getListings(path string, logger *zap.Logger) (*listing.Listings, error) {
	raw, err := listing.RawFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading listings: %w", err)
	}

	adapter := listing.NewMapAdapter("collector", nil)
	return listing.NormalizeAll(adapter, raw, logger), nil
}

func prepareMatching(config *Config) (*matching.Matcher, *filtering.Config, error) {
	weights := matching.DefaultWeights()
	filterConfig := &filtering.Config{Preferences: config.Preferences}

	if config.Matching != nil {
		filterConfig.MinScore = config.Matching.MinScore
		filterConfig.SafetyFloor = config.Matching.SafetyFloor
		filterConfig.MaxAgeDays = config.Matching.MaxAgeDays
		if config.Matching.Weights != nil {
			weights = *config.Matching.Weights
		}
	}

	if err := weights.Validate(); err != nil {
		return nil, nil, fmt.Errorf("validating weights: %w", err)
	}

	return matching.NewMatcher(config.Preferences, weights, nil), filterConfig, nil
}
