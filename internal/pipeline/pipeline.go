// Package pipeline orchestrates a full analysis run: annotation,
// concurrent detection, aggregation, report assembly and the optional
// cache and LLM summary around it.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nuxa17/verbum/internal/aggregate"
	"github.com/nuxa17/verbum/internal/annotate"
	"github.com/nuxa17/verbum/internal/cache"
	"github.com/nuxa17/verbum/internal/detect"
	"github.com/nuxa17/verbum/internal/lexicon"
	"github.com/nuxa17/verbum/internal/llm"
	"github.com/nuxa17/verbum/internal/model"
	"github.com/nuxa17/verbum/internal/reader"
	"github.com/nuxa17/verbum/internal/report"
)

// Pipeline runs analyses. It is immutable after New and safe for
// concurrent use.
type Pipeline struct {
	cfg        *model.Config
	log        *logrus.Logger
	store      *lexicon.Store
	annotator  *annotate.Annotator
	detectors  []detect.Detector
	aggregator *aggregate.Aggregator
	cache      cache.Cache
	summarizer *llm.Summarizer
}

// New builds a pipeline from the configuration. A broken lexical
// resource is a startup failure, not a degraded run.
func New(cfg *model.Config, log *logrus.Logger) (*Pipeline, error) {
	store, err := lexicon.Load(cfg.Lexicon.Path)
	if err != nil {
		return nil, err
	}

	summarizer, err := llm.NewSummarizer(cfg.LLM)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		cfg:        cfg,
		log:        log,
		store:      store,
		annotator:  annotate.New(store),
		detectors:  detect.Registry(&cfg.Analysis),
		aggregator: aggregate.New(&cfg.Analysis),
		summarizer: summarizer,
	}

	if cfg.Cache.Enabled {
		if cfg.Cache.Dir != "" {
			p.cache = cache.NewLayeredCache(cfg.Cache.TTL, cfg.Cache.Dir, cfg.Cache.TTL)
		} else {
			p.cache = cache.NewMemoryCache(cfg.Cache.TTL, 10*time.Minute)
		}
	}

	return p, nil
}

// AnalyzeFile reads one input file and analyzes its text.
func (p *Pipeline) AnalyzeFile(ctx context.Context, path string) (*model.Report, error) {
	text, err := reader.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return p.AnalyzeText(ctx, path, text)
}

// AnalyzeText analyzes text, serving unchanged (document, settings)
// pairs from the cache. Only complete runs are cached; degraded and
// cut-off runs are recomputed next time.
func (p *Pipeline) AnalyzeText(ctx context.Context, source, text string) (*model.Report, error) {
	var key string
	if p.cache != nil {
		key = cache.Key(text, string(p.cfg.Analysis.Fingerprint()))
		if data, found := p.cache.Get(key); found {
			var r model.Report
			if err := json.Unmarshal(data, &r); err == nil {
				p.log.WithField("document", r.DocumentID).Debug("report served from cache")
				return &r, nil
			}
			p.cache.Delete(key)
		}
	}

	r, err := p.Analyze(ctx, source, text)
	if err != nil {
		return nil, err
	}

	if p.cache != nil && r.Status == model.StatusComplete {
		if data, err := json.Marshal(r); err == nil {
			if err := p.cache.Set(key, data, p.cfg.Cache.TTL); err != nil {
				p.log.WithError(err).Warn("failed to cache report")
			}
		}
	}
	return r, nil
}

// Analyze runs the full pipeline over text. Identical input under
// identical settings always yields an identical report.
func (p *Pipeline) Analyze(ctx context.Context, source, text string) (*model.Report, error) {
	doc, err := p.annotator.Annotate(source, text)
	if err != nil {
		return nil, err
	}

	log := p.log.WithFields(logrus.Fields{"document": doc.ID, "source": source})

	if doc.Empty() {
		log.Debug("document is empty after sanitization")
		return p.build(doc, model.StatusComplete, p.aggregator.Aggregate(0, nil, nil))
	}

	if p.cfg.Analysis.Deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.Analysis.Deadline)
		defer cancel()
	}

	matches, unavailable := p.runDetectors(ctx, doc, log)

	switch ctx.Err() {
	case context.Canceled:
		// Partial results are discarded: a cancelled run reports
		// nothing rather than an arbitrary subset.
		log.Warn("analysis cancelled")
		allUnavailable := make(map[model.Category]bool)
		for _, cat := range model.Categories() {
			allUnavailable[cat] = true
		}
		return p.build(doc, model.StatusCancelled, p.aggregator.Aggregate(len(doc.Sentences), nil, allUnavailable))
	case context.DeadlineExceeded:
		log.Warn("analysis deadline exceeded")
		res := p.aggregator.Aggregate(len(doc.Sentences), matches, unavailable)
		return p.build(doc, model.StatusDeadlineExceeded, res)
	}

	status := model.StatusComplete
	if len(unavailable) > 0 {
		status = model.StatusDegraded
	}
	res := p.aggregator.Aggregate(len(doc.Sentences), matches, unavailable)

	r, err := p.build(doc, status, res)
	if err != nil {
		return nil, err
	}

	if p.summarizer != nil {
		summary, err := p.summarizer.Generate(ctx, r)
		if err != nil {
			log.WithError(err).Warn("llm summary failed")
		} else {
			r.LLM = summary
		}
	}
	return r, nil
}

// runDetectors executes every registered detector concurrently,
// bounded by the configured worker count. A faulting or panicking
// detector only takes its own category down; detectors not started
// before ctx expired are reported as unavailable.
func (p *Pipeline) runDetectors(ctx context.Context, doc *model.AnnotatedDocument, log *logrus.Entry) ([]model.Match, map[model.Category]bool) {
	type slot struct {
		matches []model.Match
		fault   error
		started bool
	}

	workers := p.cfg.Analysis.Workers
	if workers <= 0 {
		workers = len(p.detectors)
	}
	sem := make(chan struct{}, workers)
	slots := make([]slot, len(p.detectors))

	var wg sync.WaitGroup
	for i, d := range p.detectors {
		if ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
		case sem <- struct{}{}:
			slots[i].started = true
			wg.Add(1)
			go func(i int, d detect.Detector) {
				defer wg.Done()
				defer func() { <-sem }()
				ms, err := p.detect(d, doc)
				slots[i].matches, slots[i].fault = ms, err
			}(i, d)
		}
	}
	wg.Wait()

	var matches []model.Match
	unavailable := make(map[model.Category]bool)
	for i, d := range p.detectors {
		switch {
		case !slots[i].started:
			unavailable[d.Category()] = true
		case slots[i].fault != nil:
			log.WithError(slots[i].fault).WithField("detector", d.ID()).Warn("detector fault")
			unavailable[d.Category()] = true
		default:
			matches = append(matches, slots[i].matches...)
		}
	}
	return matches, unavailable
}

// detect runs one detector with panic isolation.
func (p *Pipeline) detect(d detect.Detector, doc *model.AnnotatedDocument) (ms []model.Match, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &model.DetectorFault{
				Detector: d.ID(),
				Category: d.Category(),
				Err:      fmt.Errorf("panic: %v", r),
			}
		}
	}()

	ms, derr := d.Detect(doc, p.store, &p.cfg.Analysis)
	if derr != nil {
		return nil, &model.DetectorFault{Detector: d.ID(), Category: d.Category(), Err: derr}
	}
	return ms, nil
}

func (p *Pipeline) build(doc *model.AnnotatedDocument, status model.Status, res aggregate.Result) (*model.Report, error) {
	return report.Build(report.Input{
		DocumentID: doc.ID,
		Source:     doc.Source,
		Status:     status,
		Sentences:  len(doc.Sentences),
		Tokens:     doc.TokenCount(),
		TextLen:    len(doc.Text),
		Scores:     res.Scores,
		Overall:    res.Overall,
		Matches:    res.Retained,
	})
}
