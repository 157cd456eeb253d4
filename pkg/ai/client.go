// Package ai turns audit data into plain-English summaries and personalized
// outreach emails. Deterministic scoring drives the narrative, the LLM writes
// the words, and template fallbacks keep the pipeline working offline.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/leadscope/leadscope/pkg/audit"
	"github.com/leadscope/leadscope/pkg/leadscore"
)

// LeadInfo carries the lead details the prompts need.
type LeadInfo struct {
	BusinessName string
	Industry     string
	Location     string
}

// Summary is the structured audit summary the model returns.
type Summary struct {
	Summary        string   `json:"summary"`
	BusinessImpact string   `json:"business_impact"`
	TopProblems    []string `json:"top_problems"`
	Urgency        string   `json:"urgency"`
}

// EmailDraft is a generated outreach email.
type EmailDraft struct {
	SubjectLine string `json:"subject_line"`
	EmailBody   string `json:"email_body"`
}

// Config controls which provider and model generate the outreach content.
type Config struct {
	Provider   string
	APIKey     string
	Model      string
	Endpoint   string
	HTTPClient *http.Client
}

// Generator produces audit summaries and outreach emails for a lead.
type Generator interface {
	Summarize(ctx context.Context, lead LeadInfo, snap audit.Snapshot, scoring leadscore.Result) (*Summary, error)
	ComposeEmail(ctx context.Context, lead LeadInfo, summary *Summary, service, senderName string) (*EmailDraft, error)
}

const (
	defaultProvider = "openai"
	defaultModel    = "gpt-4.1-mini"
	defaultEndpoint = "https://api.openai.com/v1/chat/completions"
)

// NewGenerator builds a concrete Generator based on the provided config.
func NewGenerator(cfg Config) (Generator, error) {
	cfg.Provider = strings.TrimSpace(strings.ToLower(cfg.Provider))
	if cfg.Provider == "" {
		cfg.Provider = defaultProvider
	}

	switch cfg.Provider {
	case "openai":
		return newOpenAIGenerator(cfg)
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", cfg.Provider)
	}
}

type httpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type openAIGenerator struct {
	apiKey   string
	model    string
	endpoint string
	client   httpClient
}

func newOpenAIGenerator(cfg Config) (*openAIGenerator, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("outreach generation requires an API key (set ai.api_key in config or OPENAI_API_KEY)")
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}

	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		endpoint = defaultEndpoint
	}

	client := httpClient(cfg.HTTPClient)
	if cfg.HTTPClient == nil {
		client = &http.Client{Timeout: 45 * time.Second}
	}

	return &openAIGenerator{
		apiKey:   apiKey,
		model:    model,
		endpoint: endpoint,
		client:   client,
	}, nil
}

// Summarize asks the model for a plain-English audit summary.
func (g *openAIGenerator) Summarize(ctx context.Context, lead LeadInfo, snap audit.Snapshot, scoring leadscore.Result) (*Summary, error) {
	content, err := g.complete(ctx, summaryPrompt(lead, snap))
	if err != nil {
		return nil, err
	}

	var summary Summary
	if err := json.Unmarshal([]byte(content), &summary); err != nil {
		return nil, fmt.Errorf("unable to parse AI summary: %w", err)
	}
	if summary.Summary == "" && len(summary.TopProblems) == 0 {
		return nil, errors.New("AI summary was empty")
	}
	return &summary, nil
}

// ComposeEmail asks the model for a personalized outreach email.
func (g *openAIGenerator) ComposeEmail(ctx context.Context, lead LeadInfo, summary *Summary, service, senderName string) (*EmailDraft, error) {
	content, err := g.complete(ctx, emailPrompt(lead, summary, service, senderName))
	if err != nil {
		return nil, err
	}

	var draft EmailDraft
	if err := json.Unmarshal([]byte(content), &draft); err != nil {
		return nil, fmt.Errorf("unable to parse AI email: %w", err)
	}
	if draft.SubjectLine == "" || draft.EmailBody == "" {
		return nil, errors.New("AI email was missing the subject or body")
	}
	return &draft, nil
}

func (g *openAIGenerator) complete(ctx context.Context, prompt string) (string, error) {
	reqBody := openAIChatRequest{
		Model: g.model,
		Messages: []openAIMessage{
			{Role: "user", Content: prompt},
		},
		Temperature:    0.4,
		ResponseFormat: openAIResponseFormat{Type: "json_object"},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var apiErrResp struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErrResp)
		if apiErrResp.Error.Message != "" {
			return "", fmt.Errorf("ai generation: %s", apiErrResp.Error.Message)
		}
		return "", fmt.Errorf("ai generation failed with HTTP %d", resp.StatusCode)
	}

	var apiResp openAIChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", err
	}

	if len(apiResp.Choices) == 0 || strings.TrimSpace(apiResp.Choices[0].Message.Content) == "" {
		return "", errors.New("ai generation returned an empty response")
	}

	return stripJSONFence(apiResp.Choices[0].Message.Content), nil
}

// stripJSONFence removes markdown code fences some models wrap JSON in.
func stripJSONFence(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```json") {
		text = text[len("```json"):]
	} else if strings.HasPrefix(text, "```") {
		text = text[len("```"):]
	}
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

type openAIChatRequest struct {
	Model          string               `json:"model"`
	Messages       []openAIMessage      `json:"messages"`
	Temperature    float64              `json:"temperature"`
	ResponseFormat openAIResponseFormat `json:"response_format"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponseFormat struct {
	Type string `json:"type"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}
