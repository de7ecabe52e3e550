package insights

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/genai"

	domainAnomaly "github.com/qualens/qualens/domains/anomaly"
	pkgError "github.com/qualens/qualens/pkg/error"
)

const systemPrompt = "You are a data-quality analyst. Explain the detected anomaly " +
	"to a data engineer in 3-5 sentences: what changed, the most likely causes, " +
	"and what to check first. Be concrete and avoid filler."

// Service turns detected anomalies into short narrative explanations using
// Gemini. It implements the anomaly usecase's Explainer.
type Service struct {
	apiKey string
	model  string
}

func NewService(apiKey, model string) *Service {
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &Service{apiKey: apiKey, model: model}
}

func (s *Service) Explain(ctx context.Context, a domainAnomaly.Anomaly) (string, string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  s.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", "", fmt.Errorf("create gemini client: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	contents := []*genai.Content{{
		Role:  genai.RoleUser,
		Parts: []*genai.Part{{Text: describeAnomaly(a)}},
	}}
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, ""),
	}

	resp, err := client.Models.GenerateContent(callCtx, s.model, contents, config)
	if err != nil {
		logrus.Warnf("[INSIGHTS] Gemini call failed: %v", err)
		return "", "", fmt.Errorf("generate explanation: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", "", pkgError.ServerError{Status: 502, Msg: "model returned an empty explanation"}
	}
	return text, s.model, nil
}

func describeAnomaly(a domainAnomaly.Anomaly) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Anomaly on table %q", a.TableName)
	if a.ColumnName != "" {
		fmt.Fprintf(&b, ", column %q", a.ColumnName)
	}
	fmt.Fprintf(&b, ".\nMetric: %s\nSeverity: %s\n", a.Metric, a.Severity)
	fmt.Fprintf(&b, "Observed value: %g (expected around %g)\n", a.Observed, a.Expected)
	if !a.DetectedAt.IsZero() {
		fmt.Fprintf(&b, "Detected at: %s\n", a.DetectedAt.Format(time.RFC3339))
	}
	return b.String()
}
