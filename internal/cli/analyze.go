package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nuxa17/verbum/internal/model"
	"github.com/nuxa17/verbum/internal/pipeline"
	"github.com/nuxa17/verbum/internal/reader"
	"github.com/nuxa17/verbum/internal/report"
)

var (
	outJSON     string
	outMD       string
	deadline    time.Duration
	noCache     bool
	disabled    []string
	llmEnabled  bool
	llmProvider string
	llmModel    string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Analyze one document for manipulation patterns",
	Long: `Analyze reads a document (.txt, .md, .html, .docx, .rtf or stdin
when no file is given), runs every enabled detector and prints the
scored report.

Example:
  verbum analyze letter.txt
  verbum analyze letter.txt --json report.json --md report.md
  cat letter.txt | verbum analyze
  verbum analyze letter.txt --llm openai --llm-model gpt-4o-mini`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&outJSON, "json", "", "write the JSON report to this path")
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "write the Markdown report to this path")
	analyzeCmd.Flags().DurationVar(&deadline, "deadline", 0, "abort analysis after this duration (0 disables)")
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache (force reanalysis)")
	analyzeCmd.Flags().StringSliceVar(&disabled, "disable", nil, "categories to skip (e.g. absolute_language)")

	analyzeCmd.Flags().BoolVar(&llmEnabled, "llm", false, "generate an LLM summary of the report")
	analyzeCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, ollama)")
	analyzeCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name (provider default if empty)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyAnalyzeFlags(cfg)

	log := newLogger(cfg)

	p, err := pipeline.New(cfg, log)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}

	ctx := context.Background()

	var r *model.Report
	if len(args) == 0 {
		text, err := reader.Plain(os.Stdin)
		if err != nil {
			return err
		}
		r, err = p.AnalyzeText(ctx, "stdin", text)
		if err != nil {
			return fmt.Errorf("analyze: %w", err)
		}
	} else {
		r, err = p.AnalyzeFile(ctx, args[0])
		if err != nil {
			return fmt.Errorf("analyze %s: %w", args[0], err)
		}
	}

	// The report itself is timestamp-free; the run time lives here.
	log.WithFields(logrus.Fields{"document": r.DocumentID, "status": r.Status}).Debug("analysis finished")

	return writeReport(r, outJSON, outMD)
}

// applyAnalyzeFlags lets command-line flags override the merged
// configuration.
func applyAnalyzeFlags(cfg *model.Config) {
	if deadline > 0 {
		cfg.Analysis.Deadline = deadline
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if len(disabled) > 0 {
		cfg.Analysis.Disabled = append(cfg.Analysis.Disabled, disabled...)
	}
	if llmEnabled {
		cfg.LLM.Provider = llmProvider
		if llmModel != "" {
			cfg.LLM.Model = llmModel
		}
		if cfg.LLM.APIKey == "" {
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		}
		if cfg.LLM.BaseURL == "" {
			cfg.LLM.BaseURL = os.Getenv("OLLAMA_BASE_URL")
		}
	} else {
		cfg.LLM.Provider = ""
	}
}

// writeReport renders the report to the requested files; without any,
// the Markdown report goes to stdout.
func writeReport(r *model.Report, jsonPath, mdPath string) error {
	var rend report.Renderer

	if jsonPath != "" {
		f, err := os.Create(jsonPath)
		if err != nil {
			return fmt.Errorf("create %s: %w", jsonPath, err)
		}
		if err := rend.JSON(f, r); err != nil {
			f.Close()
			return fmt.Errorf("write %s: %w", jsonPath, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close %s: %w", jsonPath, err)
		}
	}

	if mdPath != "" {
		f, err := os.Create(mdPath)
		if err != nil {
			return fmt.Errorf("create %s: %w", mdPath, err)
		}
		if err := rend.Markdown(f, r); err != nil {
			f.Close()
			return fmt.Errorf("write %s: %w", mdPath, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close %s: %w", mdPath, err)
		}
	}

	if jsonPath == "" && mdPath == "" {
		return rend.Markdown(os.Stdout, r)
	}
	return nil
}
