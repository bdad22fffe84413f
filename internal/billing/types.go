/**
 * Bill record types
 *
 * A BillRecord is the canonical structured output of extraction. The tariff
 * variant is decided once by the classifier and never re-derived downstream;
 * exactly one variant field set is populated per record.
 */

package billing

import "encoding/json"

// BillType identifies the tariff structure of a bill
type BillType string

const (
	BillTypeTOU     BillType = "TOU"
	BillTypeTiered  BillType = "Tiered"
	BillTypeFlatULO BillType = "Flat/ULO"
)

// Valid reports whether bt is one of the three supported tariff structures
func (bt BillType) Valid() bool {
	switch bt {
	case BillTypeTOU, BillTypeTiered, BillTypeFlatULO:
		return true
	}
	return false
}

// BillRecord is the structured result of bill extraction. Usage fields that
// did not match in the source text are 0, never absent; TotalCost is nil when
// no cost line was found, since cost absence does not disqualify a bill.
type BillRecord struct {
	BillType   BillType
	PeakKWh    float64
	OffPeakKWh float64
	MidPeakKWh float64
	Tier1KWh   float64
	Tier2KWh   float64
	TotalKWh   float64
	TotalCost  *float64
}

// UsageValues returns the usage fields populated for the record's variant,
// in declaration order.
func (r *BillRecord) UsageValues() []float64 {
	switch r.BillType {
	case BillTypeTOU:
		return []float64{r.PeakKWh, r.OffPeakKWh, r.MidPeakKWh}
	case BillTypeTiered:
		return []float64{r.Tier1KWh, r.Tier2KWh}
	case BillTypeFlatULO:
		return []float64{r.TotalKWh}
	}
	return nil
}

// billRecordJSON is the wire shape of a BillRecord with every field present
type billRecordJSON struct {
	BillType   BillType `json:"bill_type"`
	PeakKWh    *float64 `json:"peak_kWh,omitempty"`
	OffPeakKWh *float64 `json:"off_peak_kWh,omitempty"`
	MidPeakKWh *float64 `json:"mid_peak_kWh,omitempty"`
	Tier1KWh   *float64 `json:"tier1_kWh,omitempty"`
	Tier2KWh   *float64 `json:"tier2_kWh,omitempty"`
	TotalKWh   *float64 `json:"total_kWh,omitempty"`
	TotalCost  *float64 `json:"total_cost"`
}

// MarshalJSON emits only the variant's usage fields, so a TOU record never
// carries tier fields and vice versa. Zeros within the variant are kept.
func (r BillRecord) MarshalJSON() ([]byte, error) {
	out := billRecordJSON{BillType: r.BillType, TotalCost: r.TotalCost}
	switch r.BillType {
	case BillTypeTOU:
		out.PeakKWh = &r.PeakKWh
		out.OffPeakKWh = &r.OffPeakKWh
		out.MidPeakKWh = &r.MidPeakKWh
	case BillTypeTiered:
		out.Tier1KWh = &r.Tier1KWh
		out.Tier2KWh = &r.Tier2KWh
	case BillTypeFlatULO:
		out.TotalKWh = &r.TotalKWh
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts the same wire shape; absent usage fields decode to 0
func (r *BillRecord) UnmarshalJSON(data []byte) error {
	var in billRecordJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*r = BillRecord{BillType: in.BillType, TotalCost: in.TotalCost}
	if in.PeakKWh != nil {
		r.PeakKWh = *in.PeakKWh
	}
	if in.OffPeakKWh != nil {
		r.OffPeakKWh = *in.OffPeakKWh
	}
	if in.MidPeakKWh != nil {
		r.MidPeakKWh = *in.MidPeakKWh
	}
	if in.Tier1KWh != nil {
		r.Tier1KWh = *in.Tier1KWh
	}
	if in.Tier2KWh != nil {
		r.Tier2KWh = *in.Tier2KWh
	}
	if in.TotalKWh != nil {
		r.TotalKWh = *in.TotalKWh
	}
	return nil
}
