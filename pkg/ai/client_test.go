package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/leadscope/leadscope/pkg/audit"
	"github.com/leadscope/leadscope/pkg/leadscore"
)

type stubClient struct {
	status   int
	body     string
	lastBody []byte
}

func (s *stubClient) Do(req *http.Request) (*http.Response, error) {
	if req.Body != nil {
		s.lastBody, _ = io.ReadAll(req.Body)
	}
	status := s.status
	if status == 0 {
		status = 200
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader([]byte(s.body))),
		Header:     make(http.Header),
	}, nil
}

func chatResponse(content string) string {
	resp := map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"content": content}},
		},
	}
	b, _ := json.Marshal(resp)
	return string(b)
}

func testGenerator(t *testing.T, stub *stubClient) *openAIGenerator {
	t.Helper()
	g, err := newOpenAIGenerator(Config{APIKey: "test-key"})
	if err != nil {
		t.Fatalf("newOpenAIGenerator: %v", err)
	}
	g.client = stub
	return g
}

func TestNewGeneratorRequiresAPIKey(t *testing.T) {
	if _, err := NewGenerator(Config{}); err == nil {
		t.Fatal("expected an error without an API key")
	}
}

func TestNewGeneratorUnsupportedProvider(t *testing.T) {
	_, err := NewGenerator(Config{Provider: "llamafarm", APIKey: "x"})
	if err == nil || !strings.Contains(err.Error(), "unsupported AI provider") {
		t.Fatalf("expected unsupported provider error, got %v", err)
	}
}

func TestSummarizeParsesResponse(t *testing.T) {
	stub := &stubClient{body: chatResponse(`{
		"summary": "The site is slow.",
		"business_impact": "Customers leave.",
		"top_problems": ["slow load", "no ssl"],
		"urgency": "high"
	}`)}
	g := testGenerator(t, stub)

	summary, err := g.Summarize(context.Background(),
		LeadInfo{BusinessName: "Joe's Pizza", Industry: "restaurant", Location: "Portland"},
		audit.Snapshot{PerformanceScore: 20}, leadscore.Result{})
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if summary.Urgency != "high" || len(summary.TopProblems) != 2 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	// The prompt must carry the lead details.
	var sent openAIChatRequest
	if err := json.Unmarshal(stub.lastBody, &sent); err != nil {
		t.Fatalf("request body was not valid JSON: %v", err)
	}
	if len(sent.Messages) != 1 || !strings.Contains(sent.Messages[0].Content, "Joe's Pizza") {
		t.Fatalf("prompt missing business name: %+v", sent.Messages)
	}
	if sent.ResponseFormat.Type != "json_object" {
		t.Fatalf("response format = %q, want json_object", sent.ResponseFormat.Type)
	}
}

func TestSummarizeStripsCodeFence(t *testing.T) {
	fenced := "```json\n{\"summary\": \"ok\", \"top_problems\": [\"a\"], \"urgency\": \"low\"}\n```"
	g := testGenerator(t, &stubClient{body: chatResponse(fenced)})

	summary, err := g.Summarize(context.Background(), LeadInfo{BusinessName: "X"}, audit.Snapshot{}, leadscore.Result{})
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if summary.Summary != "ok" {
		t.Fatalf("summary = %q, want ok", summary.Summary)
	}
}

func TestComposeEmailRejectsIncompleteResponse(t *testing.T) {
	g := testGenerator(t, &stubClient{body: chatResponse(`{"subject_line": "hi"}`)})

	_, err := g.ComposeEmail(context.Background(), LeadInfo{BusinessName: "X"},
		&Summary{TopProblems: []string{"a"}}, "SEO Improvement", "Sam")
	if err == nil {
		t.Fatal("expected an error for a response without a body")
	}
}

func TestCompleteSurfacesAPIError(t *testing.T) {
	g := testGenerator(t, &stubClient{
		status: 429,
		body:   `{"error": {"message": "rate limit exceeded"}}`,
	})

	_, err := g.Summarize(context.Background(), LeadInfo{BusinessName: "X"}, audit.Snapshot{}, leadscore.Result{})
	if err == nil || !strings.Contains(err.Error(), "rate limit exceeded") {
		t.Fatalf("expected API error message, got %v", err)
	}
}

func TestStripJSONFence(t *testing.T) {
	tests := []struct{ in, want string }{
		{"{\"a\":1}", "{\"a\":1}"},
		{"```json\n{\"a\":1}\n```", "{\"a\":1}"},
		{"```\n{\"a\":1}\n```", "{\"a\":1}"},
		{"  {\"a\":1}  ", "{\"a\":1}"},
	}
	for _, tt := range tests {
		if got := stripJSONFence(tt.in); got != tt.want {
			t.Fatalf("stripJSONFence(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
