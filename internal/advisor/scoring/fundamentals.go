package scoring

const defaultSectorPE = 20.0

// SectorPE is the reference average P/E per GICS sector.
var SectorPE = map[string]float64{
	"Technology":             28,
	"Health Care":            22,
	"Financials":             14,
	"Consumer Discretionary": 25,
	"Consumer Staples":       22,
	"Industrials":            20,
	"Energy":                 12,
	"Utilities":              18,
	"Communication Services": 20,
	"Real Estate":            35,
	"Materials":              15,
}

// FundamentalScore rates a P/E against its sector average. Cheaper than the
// sector scores positive, more expensive scores negative, clamped to [-1, 1].
func FundamentalScore(pe float64, sector string) float64 {
	avg, ok := SectorPE[sector]
	if !ok {
		avg = defaultSectorPE
	}
	return clamp((avg - pe) / avg)
}
