/**
 * Bill classifier
 *
 * Selects the tariff variant from structural keywords in the extracted text.
 * The checks overlap ("Peak" appears on almost every TOU bill, which may also
 * mention totals), so the order is a deliberate tie-break rule: TOU first,
 * then Tiered, then Flat/ULO.
 */

package billing

import (
	"strings"

	errs "github.com/saveawatt/billsense/internal/errors"
)

// Classify inspects text for tariff keywords and returns the bill type.
// First match wins; text with none of the keyword sets is not a supported
// bill and yields an UNRECOGNIZED_BILL error.
func Classify(text string) (BillType, error) {
	switch {
	case strings.Contains(text, "Time-of-Use") || strings.Contains(text, "Peak"):
		return BillTypeTOU, nil
	case strings.Contains(text, "Tier 1") && strings.Contains(text, "Tier 2"):
		return BillTypeTiered, nil
	case strings.Contains(text, "Total Usage"):
		return BillTypeFlatULO, nil
	}
	return "", errs.NewUnrecognizedBillError()
}
