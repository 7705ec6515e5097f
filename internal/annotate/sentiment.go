package annotate

import (
	"math"
	"strings"

	"github.com/nuxa17/verbum/internal/lexicon"
	"github.com/nuxa17/verbum/internal/model"
)

// negations flip the valence of words within the following window.
var negations = map[string]struct{}{
	"not": {}, "no": {}, "never": {}, "n't": {}, "cannot": {},
	"hardly": {}, "barely": {}, "neither": {}, "nor": {}, "without": {},
}

const (
	negationWindow = 3     // tokens a negation reaches forward
	negationFlip   = -0.75 // dampened flip, "not terrible" is not praise
	exclaimBoost   = 0.18  // per trailing exclamation mark
)

// scoreSentiment computes sentence polarity in [-1,1] and subjectivity
// in [0,1] from the store's valence, intensifier and hedge lexicons.
// A sentence without any scored token is neutral (0, 0).
func scoreSentiment(tokens []model.Token, store *lexicon.Store) (polarity, subjectivity float64) {
	if len(tokens) == 0 {
		return 0, 0
	}

	var sum float64
	scored := 0
	subjective := 0
	exclaims := 0

	for i, tok := range tokens {
		w := strings.ToLower(tok.Text)
		if w == "!" {
			exclaims++
			continue
		}
		if _, ok := negations[w]; ok {
			subjective++
			continue
		}
		if _, ok := store.Intensity(w); ok {
			subjective++
			continue
		}
		if store.IsHedge(w) {
			subjective++
			continue
		}

		v, ok := store.Valence(tok.Lemma)
		if !ok {
			v, ok = store.Valence(w)
		}
		if !ok {
			continue
		}

		// Look back for intensifiers and negations.
		for j := i - 1; j >= 0 && j >= i-negationWindow; j-- {
			prev := strings.ToLower(tokens[j].Text)
			if boost, ok := store.Intensity(prev); ok {
				v *= 1 + boost
			}
			if _, ok := negations[prev]; ok {
				v *= negationFlip
				break
			}
		}

		sum += v
		scored++
		subjective++
	}

	if exclaims > 0 {
		sum *= 1 + exclaimBoost*math.Min(float64(exclaims), 3)
	}

	if scored > 0 {
		// Saturating normalization: strong evidence approaches +/-1
		// without reaching it.
		polarity = sum / math.Sqrt(sum*sum+15)
	}

	subjectivity = math.Min(1, 3*float64(subjective)/float64(len(tokens)))
	return polarity, subjectivity
}
