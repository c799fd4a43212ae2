package report

import (
	"regexp"
	"sort"
)

// requiredTopics maps each GRI 305 disclosure topic to the keywords that
// indicate the report covers it. Coverage is advisory: a missing topic
// produces a warning, never a verification failure.
var requiredTopics = map[string][]string{
	"emissions value":   {`metric\s+tons?`, `mtco2e`, `co2e`},
	"scope":             {`scope\s+[12]`},
	"methodology":       {`methodology`, `emission\s+factor`, `calculation`},
	"reporting period":  {`reporting\s+period`, `period`, `month`, `billing`},
	"standard":          {`gri\s*305`, `ghg\s+protocol`},
	"activity data":     {`kwh`, `kilowatt`, `therms?`, `usage`, `consumption`},
}

// CheckCompleteness returns the sorted list of required disclosure topics
// that reportText does not mention.
func CheckCompleteness(reportText string) []string {
	var missing []string
	for topic, keywords := range requiredTopics {
		covered := false
		for _, kw := range keywords {
			if regexp.MustCompile(`(?i)` + kw).MatchString(reportText) {
				covered = true
				break
			}
		}
		if !covered {
			missing = append(missing, topic)
		}
	}
	sort.Strings(missing)
	return missing
}
