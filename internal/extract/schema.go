package extract

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/sells-group/esg-cli/internal/model"
)

// billSchema is the contract the vision model must satisfy. Model output is
// never trusted as-is: it is schema-validated, decoded into a typed wire
// struct, and then folded into the same record shape every other tier
// produces.
const billSchema = `{
	"type": "object",
	"properties": {
		"account_number":     {"type": ["string", "null"]},
		"service_start_date": {"type": ["string", "null"], "pattern": "^\\d{4}-\\d{2}-\\d{2}$"},
		"service_end_date":   {"type": ["string", "null"], "pattern": "^\\d{4}-\\d{2}-\\d{2}$"},
		"total_usage":        {"type": ["number", "null"]},
		"usage_unit":         {"type": ["string", "null"]},
		"total_cost":         {"type": ["number", "null"]}
	},
	"required": ["account_number", "service_start_date", "service_end_date", "total_usage", "usage_unit", "total_cost"],
	"additionalProperties": true
}`

var compiledBillSchema = jsonschema.MustCompileString("bill.json", billSchema)

// jsonObjectPattern pulls the first JSON object out of model output that may
// be wrapped in prose or markdown fences.
var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

type billWire struct {
	AccountNumber    *string  `json:"account_number"`
	ServiceStartDate *string  `json:"service_start_date"`
	ServiceEndDate   *string  `json:"service_end_date"`
	TotalUsage       *float64 `json:"total_usage"`
	UsageUnit        *string  `json:"usage_unit"`
	TotalCost        *float64 `json:"total_cost"`
}

// DecodeModelJSON extracts, schema-validates, and decodes a bill record from
// raw model output.
func DecodeModelJSON(raw string) (model.ExtractionRecord, error) {
	var rec model.ExtractionRecord

	objText := jsonObjectPattern.FindString(raw)
	if objText == "" {
		return rec, eris.New("extract: no JSON object in model output")
	}

	var generic any
	if err := json.Unmarshal([]byte(objText), &generic); err != nil {
		return rec, eris.Wrap(err, "extract: parse model JSON")
	}
	if err := compiledBillSchema.Validate(generic); err != nil {
		return rec, eris.Wrap(err, "extract: model JSON fails bill schema")
	}

	var wire billWire
	if err := json.Unmarshal([]byte(objText), &wire); err != nil {
		return rec, eris.Wrap(err, "extract: decode model JSON")
	}

	rec.AccountNumber = wire.AccountNumber
	rec.ServiceStartDate = parseISODate(wire.ServiceStartDate)
	rec.ServiceEndDate = parseISODate(wire.ServiceEndDate)
	rec.UsageAmount = wire.TotalUsage
	rec.UsageUnit = canonicalUnit(wire.UsageUnit)
	rec.TotalCost = wire.TotalCost

	return rec, nil
}

func parseISODate(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil
	}
	return &t
}

func canonicalUnit(s *string) model.UsageUnit {
	if s == nil {
		return model.UnitUnknown
	}
	switch strings.ToLower(strings.TrimSpace(*s)) {
	case "kwh":
		return model.UnitKWh
	case "mwh":
		return model.UnitMWh
	case "therm", "therms":
		return model.UnitTherms
	case "ccf":
		return model.UnitCCF
	}
	return model.UnitUnknown
}
