package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/nuxa17/verbum/internal/model"
	"github.com/nuxa17/verbum/internal/pipeline"
	"github.com/nuxa17/verbum/internal/report"
	"github.com/nuxa17/verbum/internal/worker"
)

var (
	concurrency int
	outputDir   string
)

// batchExtensions are the formats picked up when scanning a directory.
var batchExtensions = map[string]struct{}{
	".txt": {}, ".md": {}, ".text": {},
	".html": {}, ".htm": {}, ".docx": {}, ".rtf": {},
}

var batchCmd = &cobra.Command{
	Use:   "batch <dir-or-list>",
	Short: "Analyze many documents in parallel",
	Long: `Batch analyzes a set of documents concurrently. The argument is
either a directory (every supported file in it is analyzed) or a text
file listing one document path per line.

Each run gets a unique id; reports land in <output-dir>/<run-id>/ as
<document-id>.json and <document-id>.md.

Example:
  verbum batch ./letters
  verbum batch filelist.txt --concurrency 8 --output-dir ./reports`,
	Args: cobra.ExactArgs(1),
	RunE: runBatchCmd,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./verbum-reports", "output directory for reports")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache (force reanalysis)")
	batchCmd.Flags().DurationVar(&deadline, "deadline", 0, "per-document analysis deadline (0 disables)")
}

func runBatchCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if deadline > 0 {
		cfg.Analysis.Deadline = deadline
	}

	log := newLogger(cfg)

	paths, err := collectInputs(args[0])
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no supported documents found in %s", args[0])
	}

	runID := uuid.NewString()
	runDir := filepath.Join(outputDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p, err := pipeline.New(cfg, log)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}

	log.WithFields(map[string]interface{}{
		"run":       runID,
		"documents": len(paths),
		"workers":   concurrency,
	}).Info("batch started")

	pool := worker.NewPool(concurrency, p.AnalyzeFile)
	outcomes := pool.Process(context.Background(), paths)

	var rend report.Renderer
	var failures int
	for _, o := range outcomes {
		if o.Err != nil {
			failures++
			log.WithError(o.Err).WithField("path", o.Path).Error("analysis failed")
			continue
		}

		base := filepath.Join(runDir, o.Report.DocumentID)
		if err := writeReportFile(rend.JSON, o.Report, base+".json"); err != nil {
			failures++
			log.WithError(err).WithField("path", o.Path).Error("write report failed")
			continue
		}
		if err := writeReportFile(rend.Markdown, o.Report, base+".md"); err != nil {
			failures++
			log.WithError(err).WithField("path", o.Path).Error("write report failed")
			continue
		}

		log.WithFields(map[string]interface{}{
			"path":    o.Path,
			"overall": fmt.Sprintf("%.2f", o.Report.Overall),
			"status":  o.Report.Status,
		}).Info("analyzed")
	}

	log.WithFields(map[string]interface{}{
		"run":      runID,
		"total":    len(outcomes),
		"failures": failures,
		"output":   runDir,
	}).Info("batch complete")

	if failures > 0 {
		return fmt.Errorf("%d of %d documents failed", failures, len(outcomes))
	}
	return nil
}

// collectInputs resolves the batch argument into document paths: all
// supported files of a directory, or the lines of a list file.
func collectInputs(arg string) ([]string, error) {
	info, err := os.Stat(arg)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", arg, err)
	}

	if info.IsDir() {
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("read directory %s: %w", arg, err)
		}
		var paths []string
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if _, ok := batchExtensions[strings.ToLower(filepath.Ext(e.Name()))]; ok {
				paths = append(paths, filepath.Join(arg, e.Name()))
			}
		}
		sort.Strings(paths)
		return paths, nil
	}

	f, err := os.Open(arg)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", arg, err)
	}
	defer f.Close()

	var paths []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		paths = append(paths, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", arg, err)
	}
	return paths, nil
}

func writeReportFile(render func(io.Writer, *model.Report) error, rep *model.Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := render(f, rep); err != nil {
		f.Close()
		return fmt.Errorf("render %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
