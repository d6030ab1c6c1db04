package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/hpextract/internal/model"
	"github.com/ppiankov/hpextract/internal/pipeline"
)

var runTimeout time.Duration

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Search PubMed and report occupations with suspected causative factors",
	Long: `Run performs one complete pass:
- Search PubMed for the query term and fetch each article (cached by PMID)
- Tag occupation words in every title and abstract
- Fold the mentions into one record per article
- Attach the chemicals and species annotated for each article
- Print one block per article followed by a summary

Example:
  hpextract run
  hpextract run --term "farmer's lung" --max-results 50
  hpextract run --lexicon ./occupations.txt --no-cache -v`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	defaults := model.DefaultConfig()
	flags := runCmd.Flags()

	// Query flags
	flags.String("term", defaults.Query.Term, "PubMed search term")
	flags.Int("max-results", defaults.Query.MaxResults, "maximum number of PMIDs to retrieve")
	flags.String("email", defaults.EUtils.Email, "contact email sent to E-utilities")
	flags.String("api-key", defaults.EUtils.APIKey, "NCBI API key")

	// Tagging and annotation flags
	flags.String("lexicon", defaults.Lexicon.Path, "occupation word list")
	flags.StringSlice("concepts", defaults.Annotation.Concepts, "annotation categories kept as causative factors (empty keeps all)")
	flags.Int("batch-size", defaults.Annotation.BatchSize, "PMIDs per annotation request")

	// HTTP flags
	flags.Duration("http-timeout", defaults.HTTP.Timeout, "per-request timeout")
	flags.String("ua", defaults.HTTP.UserAgent, "HTTP User-Agent")
	flags.Float64("rps", defaults.HTTP.RequestsPerSecond, "maximum outbound requests per second (0 disables limiting)")
	flags.Int("max-attempts", defaults.HTTP.MaxAttempts, "attempts per request for transient failures")

	// Cache flags
	flags.String("cache-dir", defaults.Cache.Dir, "directory holding one cached response per PMID")
	flags.Bool("no-cache", !defaults.Cache.Enabled, "disable cache (force fresh fetch)")

	flags.DurationVar(&runTimeout, "timeout", 0, "overall run timeout (0 means none)")

	for key, flag := range map[string]string{
		"query.term":               "term",
		"query.max_results":        "max-results",
		"eutils.email":             "email",
		"eutils.api_key":           "api-key",
		"lexicon.path":             "lexicon",
		"annotation.concepts":      "concepts",
		"annotation.batch_size":    "batch-size",
		"http.timeout":             "http-timeout",
		"http.user_agent":          "ua",
		"http.requests_per_second": "rps",
		"http.max_attempts":        "max-attempts",
		"cache.dir":                "cache-dir",
	} {
		_ = viper.BindPFlag(key, flags.Lookup(flag))
	}
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if noCache, _ := cmd.Flags().GetBool("no-cache"); noCache {
		cfg.Cache.Enabled = false
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, runTimeout)
		defer cancel()
	}

	logger := newLogger(os.Stderr, cfg.Output.Verbose)

	p, err := pipeline.NewFromConfig(cfg, logger)
	if err != nil {
		return fmt.Errorf("setup failed: %w", err)
	}

	report, err := p.Run(ctx)
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	if err := pipeline.NewRenderer().Render(cmd.OutOrStdout(), report); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	return nil
}

// loadConfig overlays config file, environment and flags onto the defaults
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	return cfg, nil
}
