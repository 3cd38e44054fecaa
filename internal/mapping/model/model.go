package model

import (
	"fmt"
	"strings"

	"sheetops/internal/table"
)

// Key columns both mapping inputs must carry.
const (
	ColASIN   = "ASIN"
	ColNewEAN = "New EAN"
	ColVendor = "VENDOR 8 DIGIT"

	MatchedPrefix = "Matched "
)

// KeyColumns lists the key columns in tuple order.
var KeyColumns = []string{ColASIN, ColNewEAN, ColVendor}

// MatchedColumns are the columns fuzzy mapping appends to the portal rows.
var MatchedColumns = []string{MatchedPrefix + ColASIN, MatchedPrefix + ColNewEAN, MatchedPrefix + ColVendor}

const (
	DefaultThreshold = 90
	MinThreshold     = 50
	MaxThreshold     = 100
)

// Method selects how rows are mapped.
type Method string

const (
	MethodRuleBased Method = "rule_based"
	MethodFuzzy     Method = "fuzzy"
)

// ParseMethod accepts the API names and the labels shown in the UI.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "rule_based", "rule-based", "rulebased", "exact":
		return MethodRuleBased, nil
	case "fuzzy", "fuzzy_matching", "fuzzy matching", "fuzzymatching":
		return MethodFuzzy, nil
	default:
		return "", fmt.Errorf("unknown mapping method %q", s)
	}
}

// KeyTuple identifies a record for matching and joining.
type KeyTuple struct {
	ASIN   table.Value
	NewEAN table.Value
	Vendor table.Value
}

func (k KeyTuple) Values() []table.Value {
	return []table.Value{k.ASIN, k.NewEAN, k.Vendor}
}

// Options controls a mapping run.
type Options struct {
	Method    Method
	Threshold float64 // 0..100, fuzzy only
	Workers   int     // fuzzy only; <1 means GOMAXPROCS

	// Key text normalization before scoring. Both off by default so scores
	// equal the plain ratio of the raw values.
	IgnoreCase bool
	TrimSpaces bool
}

// MatchCandidate is a catalogue key tuple with its score against a query.
type MatchCandidate struct {
	Index int      `json:"index"`
	Key   KeyTuple `json:"-"`
	Score float64  `json:"score"`
}

// MatchResult is the outcome for one portal row. Best is nil when no
// candidate reached the threshold.
type MatchResult struct {
	Source int             `json:"source"`
	Best   *MatchCandidate `json:"best,omitempty"`
}

// Summary describes a finished mapping run.
type Summary struct {
	Method    Method  `json:"method"`
	Threshold float64 `json:"threshold,omitempty"`
	Rows      int     `json:"rows"`
	Matched   int     `json:"matched"`
	Unmatched int     `json:"unmatched"`
}
