package model

import (
	"encoding/json"
	"sort"
	"time"
)

// Config holds all engine and tool settings. Values come from the
// config file, VERBUM_* environment variables and CLI flags, in
// ascending priority; unset keys take the defaults below.
type Config struct {
	Analysis AnalysisConfig `mapstructure:"analysis" yaml:"analysis" json:"analysis"`
	Lexicon  LexiconConfig  `mapstructure:"lexicon" yaml:"lexicon" json:"lexicon"`
	Cache    CacheConfig    `mapstructure:"cache" yaml:"cache" json:"cache"`
	Output   OutputConfig   `mapstructure:"output" yaml:"output" json:"output"`
	Log      LogConfig      `mapstructure:"log" yaml:"log" json:"log"`
	LLM      LLMConfig      `mapstructure:"llm" yaml:"llm" json:"llm"`
}

// AnalysisConfig carries the tunable parameters of the detection core.
type AnalysisConfig struct {
	// CategoryWeights weight the overall score. Missing categories
	// default to 1.0 (uniform).
	CategoryWeights map[string]float64 `mapstructure:"category_weights" yaml:"category_weights,omitempty" json:"category_weights,omitempty"`

	// Disabled lists categories whose detectors are skipped entirely.
	Disabled []string `mapstructure:"disabled" yaml:"disabled,omitempty" json:"disabled,omitempty"`

	// OverlapThreshold is the overlap fraction (of the smaller span)
	// above which two same-category matches merge. 0 merges on any
	// overlap.
	OverlapThreshold float64 `mapstructure:"overlap_threshold" yaml:"overlap_threshold" json:"overlap_threshold"`

	// MinSentences and PenaltyStrength define the short-document
	// penalty: below MinSentences each confidence is divided by
	// 1 + PenaltyStrength*(1 - n/MinSentences).
	MinSentences    int     `mapstructure:"min_sentences" yaml:"min_sentences" json:"min_sentences"`
	PenaltyStrength float64 `mapstructure:"penalty_strength" yaml:"penalty_strength" json:"penalty_strength"`

	// PolarityThreshold is the minimum |polarity| for the
	// polarity-extremity detector.
	PolarityThreshold float64 `mapstructure:"polarity_threshold" yaml:"polarity_threshold" json:"polarity_threshold"`

	// SubjectivityBonus scales lexical-cue confidence when sentence
	// subjectivity exceeds 0.5.
	SubjectivityBonus float64 `mapstructure:"subjectivity_bonus" yaml:"subjectivity_bonus" json:"subjectivity_bonus"`

	// Workers bounds concurrent detector execution. 0 means one
	// worker per detector.
	Workers int `mapstructure:"workers" yaml:"workers" json:"workers"`

	// Deadline aborts a run that exceeds it; 0 disables.
	Deadline time.Duration `mapstructure:"deadline" yaml:"deadline" json:"deadline"`
}

// LexiconConfig locates the lexical resources.
type LexiconConfig struct {
	// Path overrides the embedded default lexicon file.
	Path string `mapstructure:"path" yaml:"path,omitempty" json:"path,omitempty"`
}

// CacheConfig controls the analysis result cache.
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	Dir     string        `mapstructure:"dir" yaml:"dir,omitempty" json:"dir,omitempty"`
	TTL     time.Duration `mapstructure:"ttl" yaml:"ttl" json:"ttl"`
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	Verbose       bool `mapstructure:"verbose" yaml:"verbose" json:"verbose"`
	IncludeFooter bool `mapstructure:"include_footer" yaml:"include_footer" json:"include_footer"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" json:"level"`    // debug, info, warn, error
	Format string `mapstructure:"format" yaml:"format" json:"format"` // text or json
}

// LLMConfig configures the optional report summarizer.
type LLMConfig struct {
	Provider  string  `mapstructure:"provider" yaml:"provider,omitempty" json:"provider,omitempty"` // openai, ollama, ""
	Model     string  `mapstructure:"model" yaml:"model,omitempty" json:"model,omitempty"`
	APIKey    string  `mapstructure:"api_key" yaml:"-" json:"-"`
	BaseURL   string  `mapstructure:"base_url" yaml:"base_url,omitempty" json:"base_url,omitempty"`
	Timeout   int     `mapstructure:"timeout" yaml:"timeout" json:"timeout"` // seconds
	MaxTokens int     `mapstructure:"max_tokens" yaml:"max_tokens" json:"max_tokens"`
	RateLimit float64 `mapstructure:"rate_limit" yaml:"rate_limit" json:"rate_limit"` // requests/second in batch mode
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			OverlapThreshold:  0,
			MinSentences:      5,
			PenaltyStrength:   0.5,
			PolarityThreshold: 0.5,
			SubjectivityBonus: 0.25,
			Workers:           0,
			Deadline:          0,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     24 * time.Hour,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		LLM: LLMConfig{
			Timeout:   30,
			MaxTokens: 1000,
			RateLimit: 1,
		},
	}
}

// Weight returns the overall-score weight for c (default 1.0).
func (a *AnalysisConfig) Weight(c Category) float64 {
	if a.CategoryWeights == nil {
		return 1.0
	}
	if w, ok := a.CategoryWeights[string(c)]; ok {
		return w
	}
	return 1.0
}

// Enabled reports whether c's detector should run.
func (a *AnalysisConfig) Enabled(c Category) bool {
	for _, d := range a.Disabled {
		if d == string(c) {
			return false
		}
	}
	return true
}

// Fingerprint returns a stable serialization of the analysis settings,
// used as part of the result cache key. Map keys are sorted so that
// identical settings always produce identical bytes.
func (a *AnalysisConfig) Fingerprint() []byte {
	type kv struct {
		K string  `json:"k"`
		V float64 `json:"v"`
	}
	weights := make([]kv, 0, len(a.CategoryWeights))
	for k, v := range a.CategoryWeights {
		weights = append(weights, kv{k, v})
	}
	sort.Slice(weights, func(i, j int) bool { return weights[i].K < weights[j].K })

	disabled := append([]string(nil), a.Disabled...)
	sort.Strings(disabled)

	fp := struct {
		Weights  []kv     `json:"weights"`
		Disabled []string `json:"disabled"`
		Overlap  float64  `json:"overlap"`
		MinSent  int      `json:"min_sent"`
		Penalty  float64  `json:"penalty"`
		Polarity float64  `json:"polarity"`
		SubjBon  float64  `json:"subj_bonus"`
	}{weights, disabled, a.OverlapThreshold, a.MinSentences, a.PenaltyStrength, a.PolarityThreshold, a.SubjectivityBonus}

	b, _ := json.Marshal(fp)
	return b
}
