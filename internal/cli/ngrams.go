package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nuxa17/verbum/internal/annotate"
	"github.com/nuxa17/verbum/internal/lexicon"
	"github.com/nuxa17/verbum/internal/ngram"
	"github.com/nuxa17/verbum/internal/reader"
)

var (
	gramSize      int
	gramMinLen    int
	gramMaxLen    int
	gramMinFreq   int
	gramStopwords bool
	gramContains  []string
	gramExclude   []string
	gramSentences string
)

var ngramsCmd = &cobra.Command{
	Use:   "ngrams <file>",
	Short: "List recurring word n-grams in a document",
	Long: `Ngrams counts the recurring word pairs, triples or quadruples of a
document. Repeated phrasings ("act now", "last chance") are a quick
window into a text's rhetorical drumbeat.

Example:
  verbum ngrams letter.txt --n 2 --min-freq 2
  verbum ngrams letter.txt --n 3 --stopwords
  verbum ngrams letter.txt --sentences "act now"`,
	Args: cobra.ExactArgs(1),
	RunE: runNgrams,
}

func init() {
	rootCmd.AddCommand(ngramsCmd)

	ngramsCmd.Flags().IntVar(&gramSize, "n", 2, "gram size (2-4)")
	ngramsCmd.Flags().IntVar(&gramMinLen, "min-len", 0, "minimum word length")
	ngramsCmd.Flags().IntVar(&gramMaxLen, "max-len", 0, "maximum word length (0 = unbounded)")
	ngramsCmd.Flags().IntVar(&gramMinFreq, "min-freq", 2, "minimum frequency")
	ngramsCmd.Flags().BoolVar(&gramStopwords, "stopwords", false, "drop grams containing stopwords")
	ngramsCmd.Flags().StringSliceVar(&gramContains, "contains", nil, "keep only grams containing these words")
	ngramsCmd.Flags().StringSliceVar(&gramExclude, "exclude", nil, "drop grams containing these words")
	ngramsCmd.Flags().StringVar(&gramSentences, "sentences", "", "print the sentences containing this gram instead")
}

func runNgrams(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := lexicon.Load(cfg.Lexicon.Path)
	if err != nil {
		return err
	}

	text, err := reader.ReadFile(args[0])
	if err != nil {
		return err
	}

	doc, err := annotate.New(store).Annotate(args[0], text)
	if err != nil {
		return fmt.Errorf("annotate: %w", err)
	}

	if gramSentences != "" {
		words := strings.Fields(strings.ToLower(gramSentences))
		for _, s := range ngram.Sentences(doc, words) {
			fmt.Println(s)
		}
		return nil
	}

	grams, err := ngram.Run(doc, ngram.Query{
		N:             gramSize,
		MinWordLen:    gramMinLen,
		MaxWordLen:    gramMaxLen,
		MinFreq:       gramMinFreq,
		SkipStopwords: gramStopwords,
		Contains:      gramContains,
		Exclude:       gramExclude,
	})
	if err != nil {
		return err
	}

	for _, g := range grams {
		fmt.Printf("%6d  %s\n", g.Count, g.Text())
	}
	return nil
}
