package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nuxa17/verbum/internal/cache"
	"github.com/nuxa17/verbum/internal/detect"
	"github.com/nuxa17/verbum/internal/lexicon"
	"github.com/nuxa17/verbum/internal/model"
	"github.com/nuxa17/verbum/internal/report"
)

const hostileText = "You always ruin everything, and if you don't fix this right now everyone will suffer! " +
	"Nobody ever listens to me. Either you apologize or we are done here. " +
	"Everyone knows this is your fault. Act before it is too late."

const neutralText = "The meeting is scheduled for 3 PM on Tuesday. " +
	"The agenda covers the quarterly budget review. " +
	"Attendance figures were collected last week. " +
	"The minutes will be circulated afterwards. " +
	"Lunch will be provided in the main hall."

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func newPipeline(t *testing.T, cfg *model.Config) *Pipeline {
	t.Helper()
	p, err := New(cfg, quietLogger())
	if err != nil {
		t.Fatalf("new pipeline: %v", err)
	}
	return p
}

func TestAnalyze_HostileText(t *testing.T) {
	p := newPipeline(t, model.DefaultConfig())

	r, err := p.Analyze(context.Background(), "letter.txt", hostileText)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if r.Status != model.StatusComplete {
		t.Fatalf("status = %s", r.Status)
	}
	if r.Overall <= 0 {
		t.Errorf("overall = %v, want > 0", r.Overall)
	}

	for _, cat := range []model.Category{model.CategoryGuiltInduction, model.CategoryFalseUrgency} {
		cs := r.CategoryScoreFor(cat)
		if cs == nil || cs.Score <= 0 {
			t.Errorf("%s score missing or zero: %+v", cat, cs)
		}
	}

	var guiltRun, urgencyPhrase bool
	for _, m := range r.Matches {
		if m.Excerpt == "always ruin everything" && m.Category == model.CategoryGuiltInduction {
			guiltRun = true
		}
		if m.Excerpt == "right now" && m.Category == model.CategoryFalseUrgency {
			urgencyPhrase = true
		}
	}
	if !guiltRun {
		t.Error("merged guilt cue run not in report")
	}
	if !urgencyPhrase {
		t.Error("urgency phrase not in report")
	}
}

func TestAnalyze_NeutralText(t *testing.T) {
	p := newPipeline(t, model.DefaultConfig())

	r, err := p.Analyze(context.Background(), "minutes.txt", neutralText)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if r.Status != model.StatusComplete {
		t.Fatalf("status = %s", r.Status)
	}
	if r.Overall != 0 || len(r.Matches) != 0 {
		t.Errorf("neutral text scored %v with %d matches: %+v", r.Overall, len(r.Matches), r.Matches)
	}
}

func TestAnalyze_EmptyDocument(t *testing.T) {
	p := newPipeline(t, model.DefaultConfig())

	r, err := p.Analyze(context.Background(), "", "   \n\t  ")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if r.Status != model.StatusComplete || r.Sentences != 0 || r.Overall != 0 {
		t.Errorf("empty document report: %+v", r)
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = false
	p := newPipeline(t, cfg)

	a, err := p.Analyze(context.Background(), "x", hostileText)
	if err != nil {
		t.Fatal(err)
	}
	b, err := p.Analyze(context.Background(), "x", hostileText)
	if err != nil {
		t.Fatal(err)
	}

	if a.DocumentID != b.DocumentID || a.Overall != b.Overall || len(a.Matches) != len(b.Matches) {
		t.Errorf("repeated analysis diverged: %+v vs %+v", a, b)
	}
	for i := range a.Matches {
		if a.Matches[i] != b.Matches[i] {
			t.Errorf("match %d diverged: %+v vs %+v", i, a.Matches[i], b.Matches[i])
		}
	}

	// Two fresh runs must render to identical bytes in every format.
	var rend report.Renderer
	var aj, bj, am, bm bytes.Buffer
	if err := rend.JSON(&aj, a); err != nil {
		t.Fatal(err)
	}
	if err := rend.JSON(&bj, b); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(aj.Bytes(), bj.Bytes()) {
		t.Errorf("JSON reports differ:\n%s\nvs\n%s", aj.String(), bj.String())
	}
	if err := rend.Markdown(&am, a); err != nil {
		t.Fatal(err)
	}
	if err := rend.Markdown(&bm, b); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(am.Bytes(), bm.Bytes()) {
		t.Errorf("Markdown reports differ:\n%s\nvs\n%s", am.String(), bm.String())
	}
}

func TestAnalyze_Cancelled(t *testing.T) {
	p := newPipeline(t, model.DefaultConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, err := p.Analyze(ctx, "x", hostileText)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if r.Status != model.StatusCancelled {
		t.Fatalf("status = %s", r.Status)
	}
	if len(r.Matches) != 0 || r.Overall != 0 {
		t.Error("cancelled run leaked partial results")
	}
	for _, cs := range r.Categories {
		if !cs.Unavailable {
			t.Errorf("category %s not marked unavailable", cs.Category)
		}
	}
}

func TestAnalyze_DeadlineExceeded(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Analysis.Deadline = time.Nanosecond
	p := newPipeline(t, cfg)

	r, err := p.Analyze(context.Background(), "x", hostileText)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if r.Status != model.StatusDeadlineExceeded {
		t.Fatalf("status = %s", r.Status)
	}
	if !r.Degraded() {
		t.Error("expected at least one unavailable category")
	}
}

// panicky stands in for the entity-pressure detector and blows up.
type panicky struct{}

func (panicky) ID() string               { return "entity-pressure" }
func (panicky) Category() model.Category { return model.CategoryEntityPressure }
func (panicky) Detect(*model.AnnotatedDocument, *lexicon.Store, *model.AnalysisConfig) ([]model.Match, error) {
	panic("index out of range")
}

func TestAnalyze_DetectorPanicDegrades(t *testing.T) {
	p := newPipeline(t, model.DefaultConfig())

	var detectors []detect.Detector
	for _, d := range p.detectors {
		if d.Category() != model.CategoryEntityPressure {
			detectors = append(detectors, d)
		}
	}
	p.detectors = append(detectors, panicky{})

	r, err := p.Analyze(context.Background(), "x", hostileText)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if r.Status != model.StatusDegraded {
		t.Fatalf("status = %s", r.Status)
	}

	cs := r.CategoryScoreFor(model.CategoryEntityPressure)
	if cs == nil || !cs.Unavailable {
		t.Errorf("faulted category not unavailable: %+v", cs)
	}
	if guilt := r.CategoryScoreFor(model.CategoryGuiltInduction); guilt == nil || guilt.Score <= 0 {
		t.Error("healthy categories must survive a faulting neighbor")
	}
}

// failing reports an error instead of panicking.
type failing struct{}

func (failing) ID() string               { return "entity-pressure" }
func (failing) Category() model.Category { return model.CategoryEntityPressure }
func (failing) Detect(*model.AnnotatedDocument, *lexicon.Store, *model.AnalysisConfig) ([]model.Match, error) {
	return nil, errors.New("resource gone")
}

func TestAnalyze_DetectorErrorWrappedAsFault(t *testing.T) {
	p := newPipeline(t, model.DefaultConfig())

	doc, err := p.annotator.Annotate("x", hostileText)
	if err != nil {
		t.Fatal(err)
	}

	_, ferr := p.detect(failing{}, doc)
	var fault *model.DetectorFault
	if !errors.As(ferr, &fault) {
		t.Fatalf("expected DetectorFault, got %v", ferr)
	}
	if fault.Detector != "entity-pressure" || fault.Category != model.CategoryEntityPressure {
		t.Errorf("fault = %+v", fault)
	}
}

func TestAnalyzeText_CacheHit(t *testing.T) {
	p := newPipeline(t, model.DefaultConfig())

	a, err := p.AnalyzeText(context.Background(), "x", hostileText)
	if err != nil {
		t.Fatal(err)
	}

	// Tag the cached entry; a second run on the same (text, settings)
	// pair must return the tagged copy, not a recomputation.
	tagged := *a
	tagged.Source = "served-from-cache"
	data, err := json.Marshal(&tagged)
	if err != nil {
		t.Fatal(err)
	}
	key := cache.Key(hostileText, string(p.cfg.Analysis.Fingerprint()))
	if err := p.cache.Set(key, data, time.Minute); err != nil {
		t.Fatal(err)
	}

	b, err := p.AnalyzeText(context.Background(), "x", hostileText)
	if err != nil {
		t.Fatal(err)
	}
	if b.Source != "served-from-cache" {
		t.Error("second analysis was recomputed instead of served from cache")
	}

	// A different text must miss.
	c, err := p.AnalyzeText(context.Background(), "y", neutralText)
	if err != nil {
		t.Fatal(err)
	}
	if c.Source != "y" {
		t.Errorf("different document served from cache: source = %q", c.Source)
	}
}

func TestAnalyzeText_CacheDisabled(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = false
	p := newPipeline(t, cfg)

	if p.cache != nil {
		t.Fatal("cache built despite being disabled")
	}
	if _, err := p.AnalyzeText(context.Background(), "x", hostileText); err != nil {
		t.Fatal(err)
	}
	r, err := p.AnalyzeText(context.Background(), "x", hostileText)
	if err != nil {
		t.Fatal(err)
	}
	if r.Status != model.StatusComplete {
		t.Fatalf("status = %s", r.Status)
	}
}

func TestNew_BadLexiconPath(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Lexicon.Path = "/nonexistent/lexicons.yaml"

	_, err := New(cfg, quietLogger())
	var rle *model.ResourceLoadError
	if !errors.As(err, &rle) {
		t.Fatalf("expected ResourceLoadError, got %v", err)
	}
}

func TestAnalyzeFile_UnsupportedFormat(t *testing.T) {
	p := newPipeline(t, model.DefaultConfig())

	_, err := p.AnalyzeFile(context.Background(), "report.xlsx")
	if err == nil || !strings.Contains(err.Error(), "unsupported format") {
		t.Fatalf("err = %v", err)
	}
}
