package analysis

import (
	"regexp"
	"strings"
)

// Entity is a typed value found in a unit.
type Entity struct {
	Kind    string
	Value   string
	UnitIdx int
}

// Fact is a key/value statement found in a unit, with the unit text kept as
// evidence.
type Fact struct {
	Subject  string
	Value    string
	Evidence string
	UnitIdx  int
}

var (
	urlRE      = regexp.MustCompile(`https?://[^\s<>"')\]]+`)
	emailRE    = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	dateRE     = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b|\b\d{1,2}/\d{1,2}/\d{2,4}\b`)
	quantityRE = regexp.MustCompile(`\b\d+(?:\.\d+)?\s?(?:%|ms|s|kg|km|mb|gb|tb|usd|eur)\b`)
	// Two or more consecutive capitalized words, mid-sentence proper nouns.
	properRE = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)+\b`)

	// "Key: value" lines with a short key, the dominant fact shape in
	// operational documents and extracted CSV rows.
	factRE = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9 _\-]{0,40}):\s+(.+)$`)
)

// Entities scans every unit for typed values.
func Entities(units []string) []Entity {
	var entities []Entity
	for idx, unit := range units {
		for _, value := range urlRE.FindAllString(unit, -1) {
			entities = append(entities, Entity{Kind: "url", Value: value, UnitIdx: idx})
		}
		for _, value := range emailRE.FindAllString(unit, -1) {
			entities = append(entities, Entity{Kind: "email", Value: value, UnitIdx: idx})
		}
		for _, value := range dateRE.FindAllString(unit, -1) {
			entities = append(entities, Entity{Kind: "date", Value: value, UnitIdx: idx})
		}
		for _, value := range quantityRE.FindAllString(strings.ToLower(unit), -1) {
			entities = append(entities, Entity{Kind: "quantity", Value: value, UnitIdx: idx})
		}
		for _, value := range properRE.FindAllString(unit, -1) {
			entities = append(entities, Entity{Kind: "name", Value: value, UnitIdx: idx})
		}
	}
	return entities
}

// Facts extracts key/value statements. Only single-line "Key: value" shapes
// qualify; prose units produce no facts rather than low-confidence guesses.
func Facts(units []string) []Fact {
	var facts []Fact
	for idx, unit := range units {
		for _, line := range strings.Split(unit, "; ") {
			match := factRE.FindStringSubmatch(strings.TrimSpace(line))
			if match == nil {
				continue
			}
			facts = append(facts, Fact{
				Subject:  strings.TrimSpace(match[1]),
				Value:    strings.TrimSpace(match[2]),
				Evidence: unit,
				UnitIdx:  idx,
			})
		}
	}
	return facts
}
