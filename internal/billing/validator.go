/**
 * Record validator
 *
 * Catches extraction that silently failed: either a wrong document type got
 * past keyword classification, or every pattern missed on this bill's
 * formatting. Both cases leave all usage fields at zero.
 */

package billing

import (
	errs "github.com/saveawatt/billsense/internal/errors"
)

// Validate rejects a record whose populated usage fields are all exactly
// zero. A record with at least one non-zero usage field is valid even when
// the cost line was never found.
func Validate(record *BillRecord) error {
	for _, v := range record.UsageValues() {
		if v != 0 {
			return nil
		}
	}
	return errs.NewNoUsageDataError(string(record.BillType))
}
