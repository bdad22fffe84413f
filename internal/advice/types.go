/**
 * Advice request and payload types
 *
 * AdviceRequest carries the extracted bill record plus whatever household
 * context the caller supplies; the embedded bill_type is trusted as-is and
 * never re-derived. AdvicePayload mirrors the schema the generation service
 * is constrained to.
 */

package advice

import (
	"encoding/json"

	"github.com/saveawatt/billsense/internal/billing"
)

// HouseholdContext is optional caller-supplied context about the household
type HouseholdContext struct {
	HouseholdSize int                `json:"household_size,omitempty" validate:"omitempty,min=1,max=50"`
	SquareFootage int                `json:"square_footage,omitempty" validate:"omitempty,min=1"`
	Region        string             `json:"region,omitempty"`
	MonthlyUsage  float64            `json:"monthlyUsage,omitempty" validate:"omitempty,min=0"`
	MonthlyBill   float64            `json:"monthlyBill,omitempty" validate:"omitempty,min=0"`
	Rates         map[string]float64 `json:"rates,omitempty"`
}

// AdviceRequest is a validated bill record plus optional household context
type AdviceRequest struct {
	Bill    billing.BillRecord `json:"bill"`
	Context *HouseholdContext  `json:"context,omitempty"`
}

// UnmarshalJSON accepts either {"bill": {...}, "context": {...}} or the flat
// output of /analyze, which is how most callers feed the record back in
func (r *AdviceRequest) UnmarshalJSON(data []byte) error {
	type alias AdviceRequest
	var aux alias
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Bill.BillType == "" {
		var flat billing.BillRecord
		if err := json.Unmarshal(data, &flat); err != nil {
			return err
		}
		aux.Bill = flat
	}
	*r = AdviceRequest(aux)
	return nil
}

// Tip is a single actionable recommendation
type Tip struct {
	Title       string `json:"title" validate:"required"`
	Savings     string `json:"savings" validate:"required"`
	Description string `json:"description" validate:"required"`
	Cost        string `json:"cost" validate:"required"`
	Payback     string `json:"payback" validate:"required"`
	Category    string `json:"category" validate:"required,oneof=TOU Tiered Flat/ULO Personal Combined"`
}

// TipsBlock carries the usage estimates and exactly three tips
type TipsBlock struct {
	CurrentUsage     int     `json:"currentUsage"`
	CurrentBill      float64 `json:"currentBill"`
	EstimatedSavings int     `json:"estimatedSavings"`
	PercentageSaving int     `json:"percentageSaving"`
	EfficiencyScore  int     `json:"efficiencyScore" validate:"min=0,max=100"`
	Tips             []Tip   `json:"tips" validate:"required,len=3,dive"`
}

// Program is an assistance or efficiency program the household may qualify for
type Program struct {
	Name        string `json:"name" validate:"required"`
	Amount      string `json:"amount" validate:"required"`
	Description string `json:"description" validate:"required"`
	Eligibility string `json:"eligibility" validate:"required"`
	HowToApply  string `json:"howToApply" validate:"required"`
	Status      string `json:"status" validate:"required,oneof=Available Paused Varies"`
	URL         string `json:"url" validate:"required"`
}

// AdvicePayload is the structured output of the generation step
type AdvicePayload struct {
	Tips      TipsBlock `json:"tips" validate:"required"`
	Subsidies []Program `json:"subsidies" validate:"required,min=2,max=3,dive"`
}
