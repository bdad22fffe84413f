/**
 * Field extractor
 *
 * One canonical pattern table per tariff variant. Each pattern is
 * label, then anything (non-greedy), then a number with optional thousands
 * separators, then "kWh". The first match wins; a label with no match leaves
 * the field at 0 rather than failing, since two-period TOU bills legitimately
 * have no mid-peak line.
 */

package billing

import (
	"regexp"
	"strconv"
	"strings"
)

// number with optional thousands separators and decimals
const numberPat = `(\d[\d,]*(?:\.\d+)?)`

// fieldPattern binds a usage label's pattern to its slot on the record
type fieldPattern struct {
	re     *regexp.Regexp
	assign func(*BillRecord, float64)
}

func kwhPattern(label string) *regexp.Regexp {
	return regexp.MustCompile(`(?si)` + label + `.*?` + numberPat + `\s?kWh`)
}

var usagePatterns = map[BillType][]fieldPattern{
	BillTypeTOU: {
		// "Peak" must not match inside "Off-Peak" or "Mid-Peak"
		{kwhPattern(`(?:^|[^-\w])Peak\b`), func(r *BillRecord, v float64) { r.PeakKWh = v }},
		{kwhPattern(`Off[\s-]?Peak\b`), func(r *BillRecord, v float64) { r.OffPeakKWh = v }},
		{kwhPattern(`Mid[\s-]?Peak\b`), func(r *BillRecord, v float64) { r.MidPeakKWh = v }},
	},
	BillTypeTiered: {
		{kwhPattern(`Tier\s*1\b`), func(r *BillRecord, v float64) { r.Tier1KWh = v }},
		{kwhPattern(`Tier\s*2\b`), func(r *BillRecord, v float64) { r.Tier2KWh = v }},
	},
	BillTypeFlatULO: {
		{kwhPattern(`Total\s+Usage\b`), func(r *BillRecord, v float64) { r.TotalKWh = v }},
	},
}

// tolerant of an optional colon and a leading currency symbol
var costPattern = regexp.MustCompile(`(?si)Total\s+Amount\s+Due:?\s*\$?\s*` + numberPat)

// Extract applies the variant's pattern table to text and returns the record.
// It never fails: unmatched usage fields stay 0 and a missing cost line
// leaves TotalCost nil.
func Extract(text string, billType BillType) *BillRecord {
	record := &BillRecord{BillType: billType}

	for _, fp := range usagePatterns[billType] {
		m := fp.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if v, err := parseAmount(m[1]); err == nil {
			fp.assign(record, v)
		}
	}

	if m := costPattern.FindStringSubmatch(text); m != nil {
		if v, err := parseAmount(m[1]); err == nil {
			record.TotalCost = &v
		}
	}

	return record
}

// parseAmount parses a number tolerating surrounding whitespace and
// thousands separators, so "1,234.5" and "1234.5" yield the same value.
func parseAmount(s string) (float64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	return strconv.ParseFloat(s, 64)
}
