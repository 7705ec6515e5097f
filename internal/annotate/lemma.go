package annotate

import "strings"

// irregular maps frequent irregular forms to their lemma.
var irregular = map[string]string{
	"am": "be", "is": "be", "are": "be", "was": "be", "were": "be", "been": "be", "being": "be",
	"has": "have", "had": "have", "having": "have",
	"does": "do", "did": "do", "done": "do",
	"goes": "go", "went": "go", "gone": "go",
	"said": "say", "says": "say",
	"made": "make", "gave": "give", "took": "take", "got": "get",
	"ran": "run", "came": "come", "saw": "see", "knew": "know",
	"children": "child", "men": "man", "women": "woman", "people": "person",
	"worse": "bad", "worst": "bad", "better": "good",
	"lost": "lose", "left": "leave", "felt": "feel", "kept": "keep",
	"told": "tell", "thought": "think", "found": "find", "meant": "mean",
	"paid": "pay", "broke": "break", "broken": "break", "ruined": "ruin",
	"lied": "lie", "lying": "lie",
}

// Lemma reduces word to a lower-cased dictionary form with a small
// irregular table and conservative suffix rules. It is intentionally
// approximate: cue matching always falls back to the surface form, so
// an imperfect lemma costs a lookup, never a false match.
func Lemma(word string) string {
	w := strings.ToLower(word)
	if l, ok := irregular[w]; ok {
		return l
	}
	if len(w) <= 3 {
		return w
	}

	switch {
	case strings.HasSuffix(w, "ies") && len(w) > 4:
		return w[:len(w)-3] + "y" // cities -> city
	case strings.HasSuffix(w, "sses"):
		return w[:len(w)-2] // passes -> pass
	case strings.HasSuffix(w, "xes"), strings.HasSuffix(w, "zes"),
		strings.HasSuffix(w, "ches"), strings.HasSuffix(w, "shes"):
		return w[:len(w)-2] // boxes -> box
	case strings.HasSuffix(w, "ss"), strings.HasSuffix(w, "us"), strings.HasSuffix(w, "is"):
		return w
	case strings.HasSuffix(w, "ing") && len(w) > 5:
		return undouble(w[:len(w)-3]) // running -> run
	case strings.HasSuffix(w, "ed") && len(w) > 4:
		return undouble(w[:len(w)-2]) // ruined -> ruin
	case strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "'s"):
		return w[:len(w)-1] // ruins -> ruin
	}
	return w
}

// undouble collapses a doubled final consonant left by suffix
// stripping (stopp -> stop).
func undouble(w string) string {
	n := len(w)
	if n >= 2 && w[n-1] == w[n-2] && !isVowel(w[n-1]) && w[n-1] != 's' && w[n-1] != 'l' {
		return w[:n-1]
	}
	return w
}

func isVowel(b byte) bool {
	switch b {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}
