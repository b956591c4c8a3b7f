package scoring

import "strings"

var positiveWords = wordSet(
	"surge", "soar", "jump", "rally", "boom", "breakout", "record", "best",
	"beat", "exceed", "outperform", "upgrade", "bullish", "gain", "profit",
	"growth", "expand", "rise", "climb", "advance", "recover", "rebound",
	"up", "higher", "positive", "strong", "good", "better", "improve",
	"increase", "win", "success", "opportunity", "optimistic", "confident",
	"buy", "accumulate", "overweight", "recommend", "approve", "launch",
	"innovation", "breakthrough", "milestone", "partnership", "deal",
)

var negativeWords = wordSet(
	"crash", "plunge", "tank", "collapse", "crisis", "disaster", "worst",
	"miss", "fail", "downgrade", "bearish", "loss", "decline", "drop",
	"fall", "sink", "tumble", "slump", "selloff", "sell-off", "warning",
	"down", "lower", "negative", "weak", "bad", "worse", "concern",
	"decrease", "cut", "reduce", "risk", "threat", "uncertainty", "fear",
	"sell", "underweight", "avoid", "reject", "delay", "lawsuit", "fraud",
	"investigation", "recall", "layoff", "layoffs", "restructure",
)

var amplifierWords = wordSet(
	"very", "extremely", "significantly", "sharply", "dramatically",
	"massive", "huge", "major", "big", "substantial", "record",
)

var negatorWords = wordSet(
	"not", "no", "never", "neither", "without", "lack", "fail", "failed",
	"barely", "hardly", "unlikely", "despite",
)

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

const (
	amplifierFactor = 1.5
	negatorFactor   = -0.5
)

// HeadlineSentiment scores one headline in [-1, 1] from keyword counts.
// An amplifier scales the score by 1.5, a negator flips and halves it.
func HeadlineSentiment(text string) float64 {
	var positive, negative int
	var amplified, negated bool

	for _, raw := range strings.Fields(strings.ToLower(text)) {
		word := strings.Trim(raw, ".,!?;:'\"()[]")
		if _, ok := amplifierWords[word]; ok {
			amplified = true
		}
		if _, ok := negatorWords[word]; ok {
			negated = true
		}
		if _, ok := positiveWords[word]; ok {
			positive++
		} else if _, ok := negativeWords[word]; ok {
			negative++
		}
	}

	total := positive + negative
	if total == 0 {
		return 0
	}
	score := float64(positive-negative) / float64(total)
	if amplified {
		score *= amplifierFactor
	}
	if negated {
		score *= negatorFactor
	}
	return clamp(score)
}

// Sentiment is the mean headline score. No headlines means neutral.
func Sentiment(headlines []string) float64 {
	if len(headlines) == 0 {
		return 0
	}
	var sum float64
	for _, h := range headlines {
		sum += HeadlineSentiment(h)
	}
	return sum / float64(len(headlines))
}

// SentimentLabel renders a sentiment score for display.
func SentimentLabel(score float64) string {
	switch {
	case score >= 0.5:
		return "Very Positive"
	case score >= 0.2:
		return "Positive"
	case score > -0.2:
		return "Neutral"
	case score > -0.5:
		return "Negative"
	}
	return "Very Negative"
}
