package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"twutter/internal/loadtest"
)

var (
	baseURL     string
	concurrency int

	seedCount int
	seedBulk  bool

	fetchLimit int
)

var rootCmd = &cobra.Command{
	Use:           "loadtest",
	Short:         "Exercise the feed API with generated traffic",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create sample users and generated posts",
	Args:  cobra.NoArgs,
	RunE:  runSeed,
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Time a single feed fetch",
	Args:  cobra.NoArgs,
	RunE:  runFetch,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "http://localhost:8080", "API base URL")
	rootCmd.PersistentFlags().IntVar(&concurrency, "concurrency", loadtest.DefaultConcurrency, "Maximum in-flight requests")

	seedCmd.Flags().IntVarP(&seedCount, "count", "n", 10, "Number of posts to create")
	seedCmd.Flags().BoolVar(&seedBulk, "bulk", false, "Use POST /posts/bulk instead of individual calls")

	fetchCmd.Flags().IntVarP(&fetchLimit, "limit", "l", 10000, "Page size for GET /posts")

	rootCmd.AddCommand(seedCmd, fetchCmd)
}

func newRunner() *loadtest.Runner {
	client := loadtest.NewClient(baseURL, nil)
	return loadtest.NewRunner(client, loadtest.NewGenerator(time.Now().UnixNano()), concurrency)
}

func runSeed(cmd *cobra.Command, args []string) error {
	result, err := newRunner().Seed(cmd.Context(), seedCount, seedBulk)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	loadtest.RenderSeed(cmd.OutOrStdout(), result)
	return nil
}

func runFetch(cmd *cobra.Command, args []string) error {
	result, err := newRunner().Fetch(cmd.Context(), fetchLimit)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	loadtest.RenderFetch(cmd.OutOrStdout(), result)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
