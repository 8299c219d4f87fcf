package scoring

import (
	"encoding/json"
	"sort"
	"strings"
)

// Answers holds questionnaire answers keyed by question id. Values are either
// a single string or an ordered multi-select list; anything else is ignored.
type Answers map[string]AnswerValue

// AnswerValue accepts both the single-string and the multi-select JSON shapes.
type AnswerValue struct {
	values []string
}

// UnmarshalJSON decodes "tag" as one value and ["a","b"] as many.
// Non-string payloads decode to an empty value rather than failing, since
// malformed answers must degrade to the neutral fallback, not error out.
func (v *AnswerValue) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single != "" {
			v.values = []string{single}
		}
		return nil
	}
	var multi []string
	if err := json.Unmarshal(data, &multi); err == nil {
		v.values = multi
		return nil
	}
	v.values = nil
	return nil
}

// MarshalJSON restores the original wire shape: one element marshals as a
// plain string.
func (v AnswerValue) MarshalJSON() ([]byte, error) {
	if len(v.values) == 1 {
		return json.Marshal(v.values[0])
	}
	return json.Marshal(v.values)
}

// Value builds a single-string answer.
func Value(s string) AnswerValue {
	return AnswerValue{values: []string{s}}
}

// Values builds a multi-select answer preserving order.
func Values(items ...string) AnswerValue {
	return AnswerValue{values: items}
}

// Record is the four-dimension score record. Every field is always present
// and bounded to [0, cap].
type Record struct {
	Passion    int `json:"passion"`
	Profession int `json:"profession"`
	Mission    int `json:"mission"`
	Vocation   int `json:"vocation"`
}

func (r *Record) get(d Dimension) int {
	switch d {
	case DimensionPassion:
		return r.Passion
	case DimensionProfession:
		return r.Profession
	case DimensionMission:
		return r.Mission
	case DimensionVocation:
		return r.Vocation
	}
	return 0
}

func (r *Record) set(d Dimension, value int) {
	switch d {
	case DimensionPassion:
		r.Passion = value
	case DimensionProfession:
		r.Profession = value
	case DimensionMission:
		r.Mission = value
	case DimensionVocation:
		r.Vocation = value
	}
}

// Aggregate computes the dimension scores for a set of answers against the
// table. It is pure: identical answers and table always produce an identical
// record. Unknown tags are ignored; contributions past the cap are discarded;
// a dimension with no contributing tags gets the neutral default so "no
// signal" stays distinguishable from "measured low".
func (t *Table) Aggregate(answers Answers) Record {
	var record Record

	for _, raw := range flatten(answers) {
		tag := strings.ToLower(strings.TrimSpace(raw))
		tw, ok := t.Tags[tag]
		if !ok {
			continue
		}
		total := record.get(tw.Dimension) + tw.Weight
		if total > t.Cap {
			total = t.Cap
		}
		record.set(tw.Dimension, total)
	}

	for _, d := range []Dimension{DimensionPassion, DimensionProfession, DimensionMission, DimensionVocation} {
		if record.get(d) == 0 {
			record.set(d, t.NeutralDefault)
		}
	}

	return record
}

// MatchedTags returns, per dimension, the distinct known tags present in the
// answers, sorted alphabetically. Useful for building narrative output from
// the same signal the scores are computed from.
func (t *Table) MatchedTags(answers Answers) map[Dimension][]string {
	seen := make(map[string]struct{})
	matched := make(map[Dimension][]string)

	for _, raw := range flatten(answers) {
		tag := strings.ToLower(strings.TrimSpace(raw))
		tw, ok := t.Tags[tag]
		if !ok {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		matched[tw.Dimension] = append(matched[tw.Dimension], tag)
	}

	for _, tags := range matched {
		sort.Strings(tags)
	}
	return matched
}

// flatten collects every answer value into one sequence. Order across keys is
// not guaranteed and nothing downstream may rely on it; additions are
// commutative up to the per-dimension cap.
func flatten(answers Answers) []string {
	var all []string
	for _, value := range answers {
		all = append(all, value.values...)
	}
	return all
}
