package sentiment

import (
	"strings"
	"unicode"
)

// Finance-tuned polarity lexicon. Values are in [-1, 1]; a headline's score
// is the mean weight of matched terms, so a single strong word dominates a
// short title the way it does for a human reader.
var lexicon = map[string]float64{
	// Positive
	"beat":         0.6,
	"beats":        0.6,
	"record":       0.5,
	"strong":       0.5,
	"growth":       0.4,
	"surge":        0.7,
	"surges":       0.7,
	"soar":         0.8,
	"soars":        0.8,
	"rally":        0.6,
	"rallies":      0.6,
	"gain":         0.4,
	"gains":        0.4,
	"upgrade":      0.7,
	"upgraded":     0.7,
	"outperform":   0.6,
	"bullish":      0.7,
	"profit":       0.4,
	"profitable":   0.5,
	"dividend":     0.3,
	"buyback":      0.4,
	"expansion":    0.4,
	"innovative":   0.3,
	"breakthrough": 0.6,
	"exceeds":      0.6,
	"optimistic":   0.5,
	"momentum":     0.3,
	"recovery":     0.4,
	"rebound":      0.5,

	// Negative
	"miss":          -0.6,
	"misses":        -0.6,
	"weak":          -0.5,
	"decline":       -0.4,
	"declines":      -0.4,
	"plunge":        -0.8,
	"plunges":       -0.8,
	"crash":         -0.9,
	"slump":         -0.6,
	"drop":          -0.4,
	"drops":         -0.4,
	"fall":          -0.4,
	"falls":         -0.4,
	"downgrade":     -0.7,
	"downgraded":    -0.7,
	"underperform":  -0.6,
	"bearish":       -0.7,
	"loss":          -0.5,
	"losses":        -0.5,
	"lawsuit":       -0.6,
	"investigation": -0.5,
	"recall":        -0.5,
	"layoff":        -0.6,
	"layoffs":       -0.6,
	"bankruptcy":    -0.9,
	"default":       -0.7,
	"warning":       -0.5,
	"concern":       -0.4,
	"concerns":      -0.4,
	"risk":          -0.3,
	"cut":           -0.4,
	"cuts":          -0.4,
	"fraud":         -0.8,
	"scandal":       -0.7,
}

// negators flip the polarity of the following term.
var negators = map[string]bool{
	"not": true, "no": true, "never": true, "without": true,
	"fails": true, "failed": true,
}

// ScoreText scores a headline or snippet in [-1, 1].
// Zero means no lexicon term matched (treated as neutral).
func ScoreText(text string) float64 {
	words := tokenize(text)
	if len(words) == 0 {
		return 0
	}

	var sum float64
	var matched int
	negate := false

	for _, w := range words {
		if negators[w] {
			negate = true
			continue
		}
		weight, ok := lexicon[w]
		if !ok {
			continue
		}
		if negate {
			weight = -weight
			negate = false
		}
		sum += weight
		matched++
	}

	if matched == 0 {
		return 0
	}

	score := sum / float64(matched)
	if score > 1 {
		score = 1
	} else if score < -1 {
		score = -1
	}
	return score
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
