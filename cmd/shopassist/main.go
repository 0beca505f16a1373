// Package main provides the shopassist CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"shopassist/internal/assistant"
	"shopassist/internal/config"
	"shopassist/internal/provider"
	"shopassist/internal/session"
)

var (
	// Global flags
	verbose bool

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "shopassist",
	Short: "shopassist - AI Shopping Assistant",
	Long: `shopassist is a conversational shopping assistant.

Ask about products, comparisons, deals, or specifications. Answers are
generated by Gemini and optionally grounded with live web-search snippets.

Run without arguments to start the interactive chat interface.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip logger init for interactive mode (it has its own UI)
		if cmd.Use == "shopassist" && cmd.CalledAs() == "shopassist" {
			return nil
		}

		zapConfig := zap.NewProductionConfig()
		if verbose {
			zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapConfig.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: launch interactive chat
		return runInteractiveChat()
	},
}

// askCmd runs a single query through the pipeline and prints the reply.
var askCmd = &cobra.Command{
	Use:   "ask [query]",
	Short: "Ask a single question and print the answer",
	Long: `Runs one query through the full pipeline: greeting classification,
optional web-search grounding, and answer generation with the model
selected at startup.

Example:
  shopassist ask "compare iphone 15 and galaxy s24"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

// productsCmd searches the marketplace directly. This capability is separate
// from the question-answering pipeline.
var productsCmd = &cobra.Command{
	Use:   "products [query]",
	Short: "Search AliExpress for products",
	Long: `Searches the AliExpress marketplace and prints title, price and
rating for each hit. Requires ALIEXPRESS_KEY.

Example:
  shopassist products "mechanical keyboard"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runProducts,
}

var productLimit int

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	query := joinArgs(args)

	cfg, err := config.Load()
	if err != nil {
		logger.Warn("config load failed, using defaults", zap.Error(err))
	}
	for _, warning := range cfg.Warnings() {
		fmt.Fprintln(os.Stderr, "warning: "+warning)
	}

	gemini := provider.NewGeminiClient(cfg.GeminiAPIKey, logger)
	handle := assistant.ModelHandle{}
	if cfg.GeminiAPIKey != "" {
		handle = assistant.SelectModel(ctx, gemini, assistant.DefaultModelCandidates, logger)
	}

	var search provider.SearchClient
	if cfg.SerperAPIKey != "" {
		search = provider.NewSerperClient(cfg.SerperAPIKey, logger)
	}

	bot := assistant.New(
		assistant.NewAugmenter(search, logger),
		assistant.NewComposer(gemini, handle, logger),
		session.NewTranscript(),
		logger,
	)

	fmt.Println(bot.Respond(ctx, query))
	return nil
}

func runProducts(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	query := joinArgs(args)

	cfg, err := config.Load()
	if err != nil {
		logger.Warn("config load failed, using defaults", zap.Error(err))
	}
	if cfg.AliExpressAPIKey == "" {
		return fmt.Errorf("ALIEXPRESS_KEY not configured")
	}

	market := provider.NewAliExpressClient(cfg.AliExpressAPIKey, logger)
	products, err := market.Search(ctx, query, productLimit)
	if err != nil {
		return fmt.Errorf("product search failed: %w", err)
	}
	if len(products) == 0 {
		fmt.Println("No products found.")
		return nil
	}

	for i, p := range products {
		price := p.Price
		if price == "" {
			price = "N/A"
		}
		rating := p.Rating
		if rating == "" {
			rating = "N/A"
		}
		fmt.Printf("%2d. %s\n    price: %s  rating: %s\n", i+1, p.Title, price, rating)
	}
	return nil
}

func joinArgs(args []string) string {
	return strings.Join(args, " ")
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	productsCmd.Flags().IntVar(&productLimit, "limit", 8, "maximum number of products to list")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(productsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
