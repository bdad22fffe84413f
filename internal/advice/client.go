/**
 * Advice client for the Gemini generation service
 *
 * Requests schema-constrained JSON with low temperature and a capped output
 * budget, then recovers the payload through a priority-ordered chain: the
 * same call can legitimately surface its result as candidate text, as a
 * bare finish reason, or as a prompt-feedback block, and each path carries
 * distinct remediation semantics for the caller. Nothing is retried here and
 * malformed JSON is rejected wholesale; retry policy belongs to the caller.
 */

package advice

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"github.com/saveawatt/billsense/internal/billing"
	errs "github.com/saveawatt/billsense/internal/errors"
)

// excerptLimit bounds the offending-text excerpt carried by a
// MALFORMED_RESPONSE error
const excerptLimit = 1000

// generator is the slice of genai.GenerativeModel the client depends on
type generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// ClientConfig holds generation-service configuration; credentials are
// injected here, never read from the environment at call time
type ClientConfig struct {
	APIKey          string
	Model           string
	Timeout         time.Duration
	MaxOutputTokens int32
	Temperature     float32
}

// Client invokes the generation service and decodes its responses
type Client struct {
	api      *genai.Client
	gen      generator
	timeout  time.Duration
	validate *validator.Validate
	log      zerolog.Logger
}

// NewClient creates a new advice client
func NewClient(ctx context.Context, cfg ClientConfig, log zerolog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("generation service API key is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("generation service model is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.MaxOutputTokens == 0 {
		cfg.MaxOutputTokens = 5000
	}

	api, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create generation client: %w", err)
	}

	model := api.GenerativeModel(cfg.Model)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = ResponseSchema()
	model.SetTemperature(cfg.Temperature)
	model.SetTopP(1)
	model.SetMaxOutputTokens(cfg.MaxOutputTokens)

	return &Client{
		api:      api,
		gen:      model,
		timeout:  cfg.Timeout,
		validate: validator.New(),
		log:      log,
	}, nil
}

// Close releases the underlying API connection
func (c *Client) Close() error {
	if c.api == nil {
		return nil
	}
	return c.api.Close()
}

// RequestAdvice builds the prompt for req, invokes the generation service
// and returns the decoded payload or a typed generation-stage error.
func (c *Client) RequestAdvice(ctx context.Context, req AdviceRequest) (*AdvicePayload, error) {
	if !req.Bill.BillType.Valid() {
		return nil, errs.NewInvalidInputError(fmt.Sprintf("unknown bill_type %q", req.Bill.BillType))
	}

	prompt, err := BuildPrompt(req)
	if err != nil {
		return nil, errs.NewInvalidInputError(err.Error())
	}

	// the generation round-trip is the only unbounded wait in the pipeline
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	c.log.Debug().Str("bill_type", string(req.Bill.BillType)).Int("prompt_chars", len(prompt)).
		Msg("requesting advice from generation service")

	resp, err := c.gen.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, errs.NewTransportError(err)
	}

	return c.recoverPayload(resp, req.Bill.BillType)
}

// recoverPayload walks the closed set of response shapes in priority order
func (c *Client) recoverPayload(resp *genai.GenerateContentResponse, billType billing.BillType) (*AdvicePayload, error) {
	// 1. candidate text, the primary channel on successful completion
	if text := candidateText(resp); text != "" {
		var payload AdvicePayload
		if err := json.Unmarshal([]byte(text), &payload); err != nil {
			return nil, errs.NewMalformedResponseError(excerpt(text), err)
		}
		if err := c.checkPayload(&payload, billType); err != nil {
			return nil, err
		}
		return &payload, nil
	}

	// 2. no usable text: the finish reason says why
	if len(resp.Candidates) > 0 {
		switch resp.Candidates[0].FinishReason {
		case genai.FinishReasonMaxTokens:
			return nil, errs.NewTruncatedOutputError()
		case genai.FinishReasonSafety:
			return nil, errs.NewSafetyBlockedError("candidate blocked by safety filters")
		}
	}

	// 3. blocked prompts produce no candidates at all, only prompt feedback
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
		return nil, errs.NewSafetyBlockedError(fmt.Sprintf("prompt blocked: %v", resp.PromptFeedback.BlockReason))
	}

	// 4. nothing recognizable came back
	return nil, errs.NewEmptyResponseError()
}

// checkPayload re-validates what the schema constraint cannot express:
// required fields, exactly one tip per required category, 2-3 subsidies.
// Violations reject the payload wholesale rather than guessing at repairs.
func (c *Client) checkPayload(payload *AdvicePayload, billType billing.BillType) error {
	if err := c.validate.Struct(payload); err != nil {
		return errs.NewMalformedResponseError(err.Error(), err)
	}

	required := RequiredCategories(billType)
	seen := make(map[string]bool, len(required))
	for _, tip := range payload.Tips.Tips {
		if seen[tip.Category] {
			return errs.NewMalformedResponseError(
				fmt.Sprintf("duplicate tip category %q", tip.Category), nil)
		}
		seen[tip.Category] = true
	}
	for _, cat := range required {
		if !seen[cat] {
			return errs.NewMalformedResponseError(
				fmt.Sprintf("missing tip category %q", cat), nil)
		}
	}
	return nil
}

// candidateText concatenates the text parts of the first candidate.
// Whitespace-only text counts as no text at all, so a truncated or blocked
// candidate with a blank part still resolves through its finish reason.
func candidateText(resp *genai.GenerateContentResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}
	cand := resp.Candidates[0]
	if cand.Content == nil {
		return ""
	}
	var text string
	for _, part := range cand.Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text += string(t)
		}
	}
	return strings.TrimSpace(text)
}

// excerpt truncates offending response text so error payloads stay bounded.
// The cut lands on a rune boundary to keep the excerpt valid UTF-8.
func excerpt(s string) string {
	if len(s) <= excerptLimit {
		return s
	}
	cut := excerptLimit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
