package scoring

import (
	"fmt"
	"strings"
)

// Explain builds the plain-text rationale shown next to a pick.
func Explain(name, ticker string, display float64, tech Technicals, sentiment, fundamental float64) string {
	var parts []string

	switch {
	case display >= 30:
		parts = append(parts, fmt.Sprintf("%s (%s) shows a positive signal.", name, ticker))
	case display <= -30:
		parts = append(parts, fmt.Sprintf("%s (%s) shows a negative signal.", name, ticker))
	default:
		parts = append(parts, fmt.Sprintf("%s (%s) is currently neutral.", name, ticker))
	}

	if tech.Label != "" && tech.Label != "Neutral" {
		if strings.Contains(tech.Label, "Bullish") && tech.RSI != nil {
			parts = append(parts, fmt.Sprintf("Technical picture is %s with RSI at %.0f.", strings.ToLower(tech.Label), *tech.RSI))
		} else {
			parts = append(parts, fmt.Sprintf("Technical picture is %s.", strings.ToLower(tech.Label)))
		}
	}

	switch {
	case sentiment > 0.2:
		parts = append(parts, "News sentiment is positive.")
	case sentiment < -0.2:
		parts = append(parts, "News sentiment is negative.")
	}

	switch {
	case fundamental > 0.2:
		parts = append(parts, "Valuation is attractive versus the sector.")
	case fundamental < -0.2:
		parts = append(parts, "Valuation is rich versus the sector.")
	}

	return strings.Join(parts, " ")
}
