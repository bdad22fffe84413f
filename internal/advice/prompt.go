/**
 * Prompt builder
 *
 * Renders the advice request into a deterministic instruction block for the
 * generation service. The output schema is also passed as a structural
 * generation constraint (see schema.go); repeating the shape in prose
 * materially raises compliance and keeps response recovery tractable.
 */

package advice

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/saveawatt/billsense/internal/billing"
)

// Fallback constants for numeric derivations when the caller supplied no
// household context. percentageSaving is always
// round(estimatedSavings / currentBill * 100).
const (
	DefaultMonthlyUsage = 850
	DefaultMonthlyBill  = 125
)

// DefaultRegion scopes subsidy lookups when the caller gave no region
const DefaultRegion = "Ontario, Canada"

// RequiredCategories returns the category set the three tips must cover:
// the record's own tariff category plus Personal and Combined.
func RequiredCategories(billType billing.BillType) []string {
	return []string{string(billType), "Personal", "Combined"}
}

// BuildPrompt renders the request into the generation prompt. The rendering
// is a pure function of the request, so identical records produce identical
// prompts.
func BuildPrompt(req AdviceRequest) (string, error) {
	contextJSON, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to serialize advice request: %w", err)
	}

	region := DefaultRegion
	if req.Context != nil && req.Context.Region != "" {
		region = req.Context.Region
	}

	billType := req.Bill.BillType
	categories := RequiredCategories(billType)

	var b strings.Builder
	fmt.Fprintf(&b, "You are an energy-cost assistant for %s. Write at a grade-6 reading level. Be concise. No emojis.\n\n", region)

	fmt.Fprintf(&b, "CONTEXT (verbatim JSON from the app):\n%s\n\n", contextJSON)

	b.WriteString("RETURN FORMAT\n")
	b.WriteString("Return ONLY valid JSON with this exact shape and key names:\n\n")
	fmt.Fprintf(&b, `{
  "tips": {
    "currentUsage": <integer>,            // parse from context.monthlyUsage; default %d
    "currentBill": <number>,              // parse from context.monthlyBill; default %d
    "estimatedSavings": <integer>,        // realistic total $/month from all tips (not a simple sum)
    "percentageSaving": <integer>,        // round(estimatedSavings / currentBill * 100)
    "efficiencyScore": <integer>,         // 0-100, conservative estimate
    "tips": [
      {
        "title": <string>,
        "savings": <string>,              // "$<number>/month"
        "description": <string>,          // 1-2 short sentences, at most 20 words total
        "cost": <string>,                 // "$<number> upfront" or "$0"
        "payback": <string>,              // "Immediate" | "<N> months" | "<N> years"
        "category": <string>              // one of: "%s"
      }
      // exactly 3 tips total, one per category listed above, no duplicates
    ]
  },
  "subsidies": [
    {
      "name": <string>,
      "amount": <string>,                 // e.g. "Up to $8,000"
      "description": <string>,            // one concise sentence
      "eligibility": <string>,            // short, plain criteria
      "howToApply": <string>,             // short steps in one line; include phone/site if known
      "status": <string>,                 // "Available" | "Paused" | "Varies"
      "url": <string>                     // official link; if unsure use "(check eligibility at official site)"
    }
    // 2-3 electricity affordability/efficiency programs for the region above
  ]
}

`, DefaultMonthlyUsage, DefaultMonthlyBill, strings.Join(categories, `" | "`))

	b.WriteString("TASKS\n")
	switch billType {
	case billing.BillTypeTOU:
		b.WriteString("1) Include 1 unique tip that shifts use to off-peak plus low-cost actions. category=\"TOU\".\n")
	case billing.BillTypeTiered:
		b.WriteString("1) Include 1 unique tip to stay within the lower-cost tier. category=\"Tiered\".\n")
	case billing.BillTypeFlatULO:
		b.WriteString("1) Include 1 unique tip to reduce overall kWh. category=\"Flat/ULO\".\n")
	}
	b.WriteString("2) Include 1 unique tip based on personal information (e.g. household size, appliances). category=\"Personal\".\n")
	b.WriteString("3) Include 1 unique tip that uses BOTH the tariff structure and personal info. category=\"Combined\".\n")
	fmt.Fprintf(&b, "4) Add 2-3 assistance programs available in %s.\n\n", region)

	b.WriteString("RULES\n")
	fmt.Fprintf(&b, "- Programs for %s only. Do not invent programs; if unsure, set url to \"(check eligibility at official site)\".\n", region)
	b.WriteString("- Tips must be in concise, simple language and not repeat the same idea.\n")
	b.WriteString("- If a field is missing, infer gently or use \"not available\".\n")
	b.WriteString("- Output ONLY the JSON object, no markdown or extra text.\n\n")

	b.WriteString("NUMBERS\n")
	fmt.Fprintf(&b, "- currentUsage = int(context.monthlyUsage or %d)\n", DefaultMonthlyUsage)
	fmt.Fprintf(&b, "- currentBill  = float(context.monthlyBill or %d)\n", DefaultMonthlyBill)
	b.WriteString("- estimatedSavings = conservative, whole dollars/month across all tips (consider overlap).\n")
	b.WriteString("- percentageSaving = round(estimatedSavings / currentBill * 100).\n")

	return strings.TrimSpace(b.String()), nil
}
