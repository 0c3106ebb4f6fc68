package resolver

import (
	"strings"

	"fleet-assistant-backend/internal/model"
	"fleet-assistant-backend/internal/parse"
)

// MatchVehicles finds the vehicles an utterance refers to. A plate match is
// decisive and returns that vehicle alone; otherwise every vehicle whose name
// appears in the text, or that shares at least two name tokens with it
// (one for single-word names), is returned.
func MatchVehicles(text string, vehicles []model.Vehicle) []model.Vehicle {
	key := parse.NormalizeKey(text)
	if key == "" {
		return nil
	}

	for _, v := range vehicles {
		if plate := parse.NormalizeKey(v.Plate); plate != "" && strings.Contains(key, plate) {
			return []model.Vehicle{v}
		}
	}

	lower := strings.ToLower(text)
	var matches []model.Vehicle
	for _, v := range vehicles {
		if name := parse.NormalizeKey(v.Name); name != "" && strings.Contains(key, name) {
			matches = append(matches, v)
			continue
		}

		tokens := parse.Tokenize(v.Name)
		if len(tokens) == 0 {
			continue
		}
		need := min(2, len(tokens))
		hits := 0
		for _, tok := range tokens {
			if strings.Contains(lower, tok) {
				hits++
			}
		}
		if hits >= need {
			matches = append(matches, v)
		}
	}
	return matches
}

// vehicleKey identifies a vehicle across the raw and ranked lists.
func vehicleKey(v model.Vehicle) string {
	if v.ID != "" {
		return v.ID
	}
	return "\x00" + v.Name + "\x00" + v.Plate
}
