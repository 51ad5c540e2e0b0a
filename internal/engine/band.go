package engine

import (
	"fmt"
	"math"
)

// Band is the qualitative classification of an overall average.
type Band struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

var (
	BandUngraded  = Band{Label: "Sin calificar", Color: "#999999"}
	BandExcellent = Band{Label: "Excelente", Color: "#27AE60"}
	BandGood      = Band{Label: "Bueno", Color: "#F39C12"}
	BandFair      = Band{Label: "Regular", Color: "#E74C3C"}
	BandPoor      = Band{Label: "Necesita mejorar", Color: "#E74C3C"}
)

// Classify maps a score to its band.
func Classify(score float64) Band {
	switch {
	case score == 0:
		return BandUngraded
	case score >= 4.5:
		return BandExcellent
	case score >= 3.5:
		return BandGood
	case score >= 2.5:
		return BandFair
	default:
		return BandPoor
	}
}

// FormatCompact renders a score as a single rounded digit (half up), or
// "N/A" for an ungraded score.
func FormatCompact(score float64) string {
	if score == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%d", int(math.Floor(score+0.5)))
}

// FormatDetailed renders a score with two decimals.
func FormatDetailed(score float64) string {
	return fmt.Sprintf("%.2f", score)
}
