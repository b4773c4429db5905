package scoring

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// RequiredWeightTotal is the sum a weight set must reach before it can be saved.
const RequiredWeightTotal = 100.0

// WeightRow is one editable (term, value) pair. Value is NaN while the operator
// has typed something that is not a number.
type WeightRow struct {
	Term  string  `json:"term"`
	Value float64 `json:"value"`
}

// UnmarshalJSON accepts the value either as a JSON number or as the raw text an
// operator typed into the form.
func (r *WeightRow) UnmarshalJSON(data []byte) error {
	var raw struct {
		Term  string          `json:"term"`
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to decode weight row: %w", err)
	}

	r.Term = raw.Term
	r.Value = 0

	value := strings.TrimSpace(string(raw.Value))
	if value == "" || value == "null" {
		return nil
	}

	if strings.HasPrefix(value, `"`) {
		var s string
		if err := json.Unmarshal(raw.Value, &s); err != nil {
			return fmt.Errorf("failed to decode weight value: %w", err)
		}
		r.Value = ParseWeightValue(s)
		return nil
	}

	r.Value = ParseWeightValue(value)
	return nil
}

// ParseWeightValue coerces operator input to a number. Blank input counts as
// zero, anything that does not parse to a finite number is NaN.
func ParseWeightValue(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) {
		return math.NaN()
	}
	return v
}

// WeightSet is the in-progress list of weight rows owned by one editing session.
type WeightSet struct {
	rows []WeightRow
}

func NewWeightSet(rows ...WeightRow) *WeightSet {
	return &WeightSet{rows: append([]WeightRow(nil), rows...)}
}

// WeightSetFromMap seeds an editing session from a committed mapping, ordered by term.
func WeightSetFromMap(weights map[string]float64) *WeightSet {
	ws := &WeightSet{}
	for _, term := range sortedTerms(weights) {
		ws.rows = append(ws.rows, WeightRow{Term: term, Value: weights[term]})
	}
	return ws
}

func (ws *WeightSet) AddTerm() {
	ws.rows = append(ws.rows, WeightRow{})
}

// RemoveTerm drops the row at index. Out-of-range indexes are ignored.
func (ws *WeightSet) RemoveTerm(index int) {
	if !ws.inRange(index) {
		return
	}
	ws.rows = append(ws.rows[:index], ws.rows[index+1:]...)
}

func (ws *WeightSet) SetTerm(index int, term string) {
	if !ws.inRange(index) {
		return
	}
	ws.rows[index].Term = term
}

// SetValue stores the raw operator input, coerced with ParseWeightValue.
func (ws *WeightSet) SetValue(index int, raw string) {
	ws.SetNumber(index, ParseWeightValue(raw))
}

func (ws *WeightSet) SetNumber(index int, value float64) {
	if !ws.inRange(index) {
		return
	}
	ws.rows[index].Value = value
}

func (ws *WeightSet) Len() int {
	return len(ws.rows)
}

// Rows returns a copy of the editable rows.
func (ws *WeightSet) Rows() []WeightRow {
	out := make([]WeightRow, len(ws.rows))
	copy(out, ws.rows)
	return out
}

// Sum adds every numeric value that has been entered, including rows whose term
// is still blank. NaN rows are skipped.
func (ws *WeightSet) Sum() float64 {
	var sum float64
	for _, row := range ws.rows {
		if math.IsNaN(row.Value) {
			continue
		}
		sum += row.Value
	}
	return sum
}

// IsComplete reports whether the entered values add up to exactly 100.
func (ws *WeightSet) IsComplete() bool {
	return ws.Sum() == RequiredWeightTotal
}

// Commit builds the mapping that gets persisted: blank terms and non-finite values
// are dropped, terms are trimmed and the last duplicate wins. The returned sum is
// Sum(), computed before any filtering.
func (ws *WeightSet) Commit() (map[string]float64, float64) {
	mapping := make(map[string]float64)
	for _, row := range ws.rows {
		term := strings.TrimSpace(row.Term)
		if term == "" {
			continue
		}
		if math.IsNaN(row.Value) || math.IsInf(row.Value, 0) {
			continue
		}
		mapping[term] = row.Value
	}
	return mapping, ws.Sum()
}

func (ws *WeightSet) inRange(index int) bool {
	return index >= 0 && index < len(ws.rows)
}

func sortedTerms(weights map[string]float64) []string {
	terms := make([]string, 0, len(weights))
	for term := range weights {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	return terms
}
