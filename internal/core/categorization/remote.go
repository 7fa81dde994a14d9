package categorization

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/core/domain"
	"google.golang.org/genai"
)

// Default Gemini models for the two remote layers. The fast model handles
// the bulk of ambiguous text; the reasoning model is the last resort.
const (
	DefaultFastModel      = "gemini-2.5-flash-lite"
	DefaultReasoningModel = "gemini-2.5-flash"

	// DefaultRemoteTimeout bounds every remote call. A timeout is treated
	// identically to any other layer failure and never reaches the user.
	DefaultRemoteTimeout = 8 * time.Second
)

const classifyPromptHeader = "You are a personal-finance transaction classifier.\n\n" +
	"Task:\n" +
	"- Classify the transaction description below into exactly one category.\n" +
	"- Output STRICT JSON only (no comments, no extra text).\n" +
	"- Output a single JSON object: {\"category\": string, \"confidence\": number}.\n" +
	"- \"confidence\" must be between 0 and 1.\n\n" +
	"Allowed categories: Transport, Food & Dining, Groceries, Entertainment, " +
	"Health, Housing, Utilities, Shopping, Education, Travel, Salary, Other.\n\n" +
	"Return ONLY valid raw JSON.\n" +
	"Do NOT wrap the response in code fences.\n" +
	"Do NOT use ```json or any Markdown.\n"

const reasoningPromptExtra = "\nThe description is ambiguous or colloquial. " +
	"Reason about the most likely merchant or purpose before answering, " +
	"but still output only the JSON object.\n"

// GeminiClassifier wraps a single remote classification call against one
// Gemini model. Both the fast and the reasoning layers share this shape and
// differ only in model, prompt and attributed source.
type GeminiClassifier struct {
	client  *genai.Client
	model   string
	source  domain.ClassificationSource
	timeout time.Duration
	deep    bool
}

// NewFastClassifier builds the ml_api layer.
func NewFastClassifier(client *genai.Client, model string, timeout time.Duration) *GeminiClassifier {
	return newGeminiClassifier(client, model, DefaultFastModel, domain.SourceMLAPI, timeout, false)
}

// NewReasoningClassifier builds the llm_fallback layer.
func NewReasoningClassifier(client *genai.Client, model string, timeout time.Duration) *GeminiClassifier {
	return newGeminiClassifier(client, model, DefaultReasoningModel, domain.SourceLLMFallback, timeout, true)
}

func newGeminiClassifier(client *genai.Client, model, fallbackModel string, source domain.ClassificationSource, timeout time.Duration, deep bool) *GeminiClassifier {
	if model == "" {
		model = fallbackModel
	}
	if timeout <= 0 {
		timeout = DefaultRemoteTimeout
	}
	return &GeminiClassifier{client: client, model: model, source: source, timeout: timeout, deep: deep}
}

// Predict sends the text to the model and parses the structured prediction.
func (g *GeminiClassifier) Predict(ctx context.Context, text string) (domain.ClassificationResult, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	prompt := classifyPromptHeader
	if g.deep {
		prompt += reasoningPromptExtra
	}
	prompt += "\nDescription: " + text + "\n"

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return domain.ClassificationResult{}, fmt.Errorf("generate content (%s): %w", g.model, err)
	}

	rawText := resp.Text()
	if rawText == "" {
		return domain.ClassificationResult{}, fmt.Errorf("empty response from model %s", g.model)
	}

	var prediction struct {
		Category   string  `json:"category"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(cleanModelJSON(rawText)), &prediction); err != nil {
		return domain.ClassificationResult{}, fmt.Errorf("unmarshal prediction: %w (raw: %s)", err, rawText)
	}
	if prediction.Category == "" {
		return domain.ClassificationResult{}, fmt.Errorf("model %s returned no category", g.model)
	}
	if prediction.Confidence < 0 {
		prediction.Confidence = 0
	} else if prediction.Confidence > 1 {
		prediction.Confidence = 1
	}

	return domain.ClassificationResult{
		Category:   prediction.Category,
		Confidence: prediction.Confidence,
		Source:     g.source,
	}, nil
}

// cleanModelJSON strips Markdown fences and surrounding junk if the model
// ignored the strict-JSON instructions.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	// Keep only from the first '{' to the last '}'.
	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}
	return s
}
