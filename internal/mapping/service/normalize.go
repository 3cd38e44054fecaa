package service

import (
	"strings"

	"sheetops/internal/mapping/model"
)

// keySep joins tuple fields. It cannot occur in spreadsheet text, so
// ("AB","C") and ("A","BC") stay distinct.
const keySep = "\x1f"

// keyText is the textual form of a key tuple that gets scored.
func keyText(k model.KeyTuple, opt model.Options) string {
	vals := k.Values()
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = normalize(v.String(), opt)
	}
	return strings.Join(parts, keySep)
}

// normalize applies the optional clean-ups to one field.
func normalize(s string, opt model.Options) string {
	if s == "" {
		return ""
	}
	out := s
	if opt.TrimSpaces {
		out = collapseSpaces(out)
	}
	if opt.IgnoreCase {
		out = strings.ToLower(out)
	}
	return out
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
