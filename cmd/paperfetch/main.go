// Command paperfetch searches PubMed for papers matching a query, keeps
// those with at least one pharma/biotech-affiliated author, and writes
// the matches to a CSV file.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/JahnaviEra/pubmed-paper-fetcher/internal/classify"
	"github.com/JahnaviEra/pubmed-paper-fetcher/internal/config"
	"github.com/JahnaviEra/pubmed-paper-fetcher/internal/ncbi"
	"github.com/JahnaviEra/pubmed-paper-fetcher/internal/output"
	"github.com/JahnaviEra/pubmed-paper-fetcher/internal/pubmed"
)

var (
	flagFile     string
	flagMax      int
	flagDebug    bool
	flagJSON     bool
	flagHuman    bool
	flagAPIKey   string
	flagKeywords string
	flagConfig   string
	flagExport   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "paperfetch <query>",
	Short: "Find PubMed papers with pharma/biotech-affiliated authors",
	Long: `paperfetch queries PubMed for papers matching a search term, classifies
each author affiliation with a keyword heuristic, and exports papers that
have at least one pharmaceutical or biotech company author to a CSV file.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		kw, err := resolveKeywords()
		if err != nil {
			return err
		}

		client := newPubMedClient(cfg)
		query := strings.Join(args, " ")

		return runPipeline(cmd.Context(), client, cfg, kw, query, os.Stdout)
	},
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default: ./paperfetch.yaml or ~/.config/paperfetch/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagKeywords, "keywords", "", "YAML file with alternate classifier keyword sets")
	rootCmd.PersistentFlags().StringVar(&flagAPIKey, "api-key", "", "NCBI API key (or set NCBI_API_KEY env var)")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "d", false, "Enable debug output on stderr")

	rootCmd.Flags().StringVarP(&flagFile, "file", "f", config.DefaultOutputFile, "Output CSV filename")
	rootCmd.Flags().IntVarP(&flagMax, "max", "m", config.DefaultMaxResults, "Maximum number of results to fetch")
	rootCmd.Flags().BoolVar(&flagJSON, "json", false, "Output as structured JSON")
	rootCmd.Flags().BoolVarP(&flagHuman, "human", "H", false, "Rich colorful terminal output")

	keywordsCmd.Flags().StringVar(&flagExport, "export", "", "Write the active keyword sets to this YAML file")
	rootCmd.AddCommand(keywordsCmd)
}

func initConfig() {
	// .env first so NCBI_API_KEY can live there.
	_ = godotenv.Load()

	if flagConfig != "" {
		viper.SetConfigFile(flagConfig)
	} else {
		viper.SetConfigName("paperfetch")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "paperfetch"))
		}
	}

	config.SetDefaults(viper.GetViper())
	viper.SetEnvPrefix("PAPERFETCH")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		debugf("using config file: %s", viper.ConfigFileUsed())
	}
}

// resolveConfig merges file/env settings with command-line flags; an
// explicitly set flag wins over everything.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return config.Config{}, err
	}

	if cmd.Flags().Changed("file") {
		cfg.OutputFile = flagFile
	}
	if cmd.Flags().Changed("max") {
		cfg.MaxResults = flagMax
	}
	if flagAPIKey != "" {
		cfg.APIKey = flagAPIKey
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("NCBI_API_KEY")
	}

	if cfg.MaxResults <= 0 {
		return config.Config{}, fmt.Errorf("--max must be positive, got %d", cfg.MaxResults)
	}
	return cfg, nil
}

func resolveKeywords() (classify.Keywords, error) {
	if flagKeywords == "" {
		return classify.DefaultKeywords(), nil
	}
	kw, err := config.LoadKeywords(flagKeywords)
	if err != nil {
		return classify.Keywords{}, err
	}
	debugf("loaded %d academic and %d company terms from %s",
		len(kw.Academic), len(kw.Company), flagKeywords)
	return kw, nil
}

func newPubMedClient(cfg config.Config) *pubmed.Client {
	var opts []ncbi.Option
	if cfg.APIKey != "" {
		opts = append(opts, ncbi.WithAPIKey(cfg.APIKey))
	}
	if cfg.Tool != "" {
		opts = append(opts, ncbi.WithTool(cfg.Tool))
	}
	if cfg.Email != "" {
		opts = append(opts, ncbi.WithEmail(cfg.Email))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, ncbi.WithTimeout(cfg.Timeout))
	}

	client := pubmed.NewClient(ncbi.NewClient(opts...))
	client.ChunkSize = cfg.ChunkSize
	return client
}

// runPipeline is the whole run: search, fetch, classify, export. It is
// strictly sequential; any error aborts and surfaces to the caller.
func runPipeline(ctx context.Context, client *pubmed.Client, cfg config.Config, kw classify.Keywords, query string, w io.Writer) error {
	debugf("searching for %q (max %d)", query, cfg.MaxResults)
	search, err := client.Search(ctx, query, cfg.MaxResults)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	debugf("search matched %d record(s), returned %d PMID(s)", search.Count, len(search.IDs))

	var results []classify.Result
	var report pubmed.FetchReport
	if len(search.IDs) > 0 {
		var papers []pubmed.Paper
		papers, report, err = client.Fetch(ctx, search.IDs)
		if err != nil {
			return fmt.Errorf("fetch failed: %w", err)
		}
		debugf("fetched %d paper(s), skipped %d", report.Fetched, report.Skipped)

		results = kw.Filter(papers)
		debugf("%d paper(s) have company-affiliated authors", len(results))
	}

	if err := output.WriteCSV(cfg.OutputFile, results); err != nil {
		return err
	}
	debugf("wrote %s", cfg.OutputFile)

	summary := output.Summary{
		Query:   query,
		Found:   len(results),
		Report:  report,
		Results: results,
	}
	return output.FormatResults(w, summary, output.Config{JSON: flagJSON, Human: flagHuman})
}

// keywordsCmd shows or exports the active classifier keyword sets.
var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "Show or export the classifier keyword sets",
	Long: `Print the active academic and company keyword sets, or export them to a
YAML file with --export as a starting point for a custom --keywords file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		kw, err := resolveKeywords()
		if err != nil {
			return err
		}

		if flagExport != "" {
			if err := config.SaveKeywords(flagExport, kw); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote keyword sets to %s\n", flagExport)
			return nil
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Academic terms (always win):")
		for _, term := range kw.Academic {
			fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", term)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Company terms:")
		for _, term := range kw.Company {
			fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", term)
		}
		return nil
	},
}

func debugf(format string, args ...interface{}) {
	if flagDebug {
		fmt.Fprintf(os.Stderr, "debug: "+format+"\n", args...)
	}
}
