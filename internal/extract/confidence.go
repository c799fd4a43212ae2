package extract

import "github.com/sells-group/esg-cli/internal/model"

// fieldWeights define the completeness score contribution per field. Usage
// dominates: it is the one field the rest of the pipeline depends on.
var fieldWeights = map[string]float64{
	"account_number":     0.15,
	"service_start_date": 0.15,
	"service_end_date":   0.15,
	"usage_amount":       0.35,
	"usage_unit":         0.05,
	"total_cost":         0.15,
}

// Confidence returns the weighted completeness score in [0,1] for a record.
// It is a heuristic, not a probability.
func Confidence(rec *model.ExtractionRecord) float64 {
	score := 0.0
	for field, populated := range rec.PopulatedFields() {
		if populated {
			score += fieldWeights[field]
		}
	}
	return score
}
