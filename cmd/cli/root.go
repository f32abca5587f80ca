package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"ingredient-safety/internal/core/ewg"
	"ingredient-safety/internal/core/faq"
	"ingredient-safety/internal/core/safety"
	"ingredient-safety/internal/infrastructure/config"
)

const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

var errUsage = errors.New("usage error")

// options 命令列旗標
type options struct {
	json       bool
	scraperURL string
	workers    int
	timeout    time.Duration
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "skincheck",
		Short: "Check cosmetic ingredient safety from the command line",
		Long: "Resolve each ingredient of a product label into a hazard score (1-10),\n" +
			"safety level, function and common use, using the curated catalog,\n" +
			"heuristic rules and optionally a remote scraping service.",
		Example: `  skincheck analyze "Water, Glycerin, Methylparaben"
  cat label.txt | skincheck analyze --json
  skincheck lookup oxybenzone
  skincheck faq "are parabens safe?"`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.BoolVar(&opts.json, "json", false, "Output as JSON")
	pf.StringVar(&opts.scraperURL, "scraper-url", "", "Base URL of the scraping service (enables remote lookups)")
	pf.IntVar(&opts.workers, "workers", 0, "Parallel lookups (defaults to ANALYSIS_WORKERS)")
	pf.DurationVar(&opts.timeout, "timeout", 2*time.Minute, "Overall timeout")

	root.AddCommand(newAnalyzeCmd(opts), newLookupCmd(opts), newFAQCmd(opts))
	return root
}

func newAnalyzeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [text]",
		Short: "Analyze a comma, semicolon or newline separated ingredient list",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := inputText(cmd, args)
			if err != nil {
				return err
			}

			analyzer, err := buildAnalyzer(opts)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			records := analyzer.Analyze(ctx, text)
			summary := safety.Summarize(records)
			if opts.json {
				return printJSON(cmd.OutOrStdout(), analyzeOutput{Ingredients: records, Summary: summary})
			}
			printRecords(cmd.OutOrStdout(), records, summary)
			return nil
		},
	}
}

func newLookupCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <name>",
		Short: "Show the safety profile of a single ingredient",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			analyzer, err := buildAnalyzer(opts)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			record, ok := analyzer.Lookup(ctx, strings.Join(args, " "))
			if !ok {
				return fmt.Errorf("%w: ingredient name is too short", errUsage)
			}
			if opts.json {
				return printJSON(cmd.OutOrStdout(), record)
			}
			printRecord(cmd.OutOrStdout(), record)
			return nil
		},
	}
}

func newFAQCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "faq <question>",
		Short: "Ask a general ingredient safety question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			responder, err := faq.NewResponder()
			if err != nil {
				return err
			}

			answer, err := responder.Answer(strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("%w: %v", errUsage, err)
			}
			if opts.json {
				return printJSON(cmd.OutOrStdout(), answer)
			}
			printAnswer(cmd.OutOrStdout(), answer)
			return nil
		},
	}
}

// inputText 取得成分文字：優先使用參數，否則讀取管線輸入
func inputText(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "", fmt.Errorf("%w: provide the ingredient list as an argument or pipe it via stdin", errUsage)
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

// buildAnalyzer 載入內建資料；指定爬蟲網址時啟用外部查詢
func buildAnalyzer(opts *options) (*safety.Analyzer, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if opts.scraperURL != "" {
		cfg.Scraper.Enabled = true
		cfg.Scraper.BaseURL = opts.scraperURL
	}
	if opts.workers > 0 {
		cfg.Analysis.Workers = opts.workers
	}

	catalog, err := safety.LoadCatalog(cfg.Analysis.CuratedPath, cfg.Analysis.FuzzyThreshold)
	if err != nil {
		return nil, err
	}
	rules, err := safety.LoadRules(cfg.Analysis.RulesPath)
	if err != nil {
		return nil, err
	}

	var remote safety.Remote
	if client := ewg.NewClient(cfg.Scraper, nil); client.Enabled() {
		remote = client
	}
	return safety.NewAnalyzer(catalog, rules, remote, cfg.Analysis.Workers), nil
}

func runCLI(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd(stdin, stdout, stderr)
	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(stderr, errorStyle.Render("error: "+err.Error()))
		if errors.Is(err, errUsage) || isCobraUsageError(err) {
			return ExitUsage
		}
		return ExitError
	}
	return ExitSuccess
}

// isCobraUsageError 參數數量或旗標錯誤
func isCobraUsageError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "accepts ") ||
		strings.Contains(msg, "requires at least") ||
		strings.HasPrefix(msg, "unknown command") ||
		strings.HasPrefix(msg, "unknown flag") ||
		strings.HasPrefix(msg, "unknown shorthand flag")
}
