// Package gemini provides an AgentService adapter that retrieves passages
// from the RAG backend and generates answers with the Gemini API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/shukabase/shuka-cli/internal/core/domain"
	"github.com/shukabase/shuka-cli/internal/core/ports/driven"
	"github.com/shukabase/shuka-cli/internal/logger"
)

// Ensure Agent implements the interface.
var _ driven.AgentService = (*Agent)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultTimeout = 120 * time.Second
	DefaultTopK    = 10

	// Free-tier friendly: at most one generation every two seconds.
	defaultRateEvery = 2 * time.Second
)

// Config holds configuration for the Gemini agent.
type Config struct {
	// BaseURL is the Gemini API base URL (default: generativelanguage.googleapis.com).
	BaseURL string

	// Timeout is the per-request timeout (default: 120s).
	Timeout time.Duration

	// TopK is how many passages to request from the retrieval backend.
	TopK int
}

// Agent drives one turn: retrieve passages, then generate a cited answer.
type Agent struct {
	client  *http.Client
	baseURL string
	topK    int
	limiter *rate.Limiter
}

// New creates a new Gemini agent.
func New(cfg Config) *Agent {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.TopK == 0 {
		cfg.TopK = DefaultTopK
	}

	return &Agent{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.BaseURL,
		topK:    cfg.TopK,
		limiter: rate.NewLimiter(rate.Every(defaultRateEvery), 1),
	}
}

// Run executes one turn. Steps and source batches are delivered through the
// callbacks strictly before Run returns.
func (a *Agent) Run(
	ctx context.Context,
	query string,
	history []domain.Message,
	settings domain.AppSettings,
	onStep driven.StepCallback,
	onSources driven.SourcesCallback,
) (string, error) {
	logger.Section("Retrieval")
	onStep(domain.AgentStep{Type: domain.StepThought, Content: "Searching the Vedabase for relevant passages"})
	onStep(domain.AgentStep{Type: domain.StepAction, Content: "search: " + query})

	chunks, err := a.retrieve(ctx, query, settings)
	if err != nil {
		return "", fmt.Errorf("retrieval: %w", err)
	}
	if len(chunks) > 0 {
		onSources(chunks)
	}
	onStep(domain.AgentStep{
		Type:    domain.StepObservation,
		Content: fmt.Sprintf("Retrieved %d passages", len(chunks)),
	})

	logger.Section("Generation")
	onStep(domain.AgentStep{Type: domain.StepThought, Content: "Composing the answer"})
	return a.generate(ctx, query, history, chunks, settings)
}

// searchRequest is the retrieval backend request format.
type searchRequest struct {
	Query    string `json:"query"`
	Language string `json:"language"`
	TopK     int    `json:"top_k"`
}

// searchResponse is the retrieval backend response format.
type searchResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Results []struct {
		Text       string         `json:"text"`
		Book       string         `json:"book"`
		Chapter    domain.Locator `json:"chapter"`
		Verse      domain.Locator `json:"verse"`
		PageNumber domain.Locator `json:"page_number"`
		Score      float64        `json:"score"`
		HTMLPath   string         `json:"html_path"`
	} `json:"results"`
}

// retrieve fetches relevant passages from the RAG backend.
func (a *Agent) retrieve(ctx context.Context, query string, settings domain.AppSettings) ([]domain.SourceChunk, error) {
	body, err := json.Marshal(searchRequest{
		Query:    query,
		Language: settings.Language.String(),
		TopK:     a.topK,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, settings.BackendURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var searchResp searchResponse
	if err := json.Unmarshal(payload, &searchResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if !searchResp.Success {
		if searchResp.Error != "" {
			return nil, fmt.Errorf("backend error: %s", searchResp.Error)
		}
		return nil, fmt.Errorf("backend error (status %d)", resp.StatusCode)
	}

	chunks := make([]domain.SourceChunk, 0, len(searchResp.Results))
	for i, r := range searchResp.Results {
		id := r.HTMLPath
		if id == "" {
			id = fmt.Sprintf("%s-%s-%s-%d", r.Book, r.Chapter, r.Verse, i)
		}
		chunks = append(chunks, domain.SourceChunk{
			ID:         id,
			BookTitle:  r.Book,
			Chapter:    r.Chapter,
			Verse:      r.Verse,
			PageNumber: r.PageNumber,
			Content:    r.Text,
			Score:      clampScore(r.Score),
		})
	}

	logger.Debug("retrieved %d chunks for query %q", len(chunks), query)
	return chunks, nil
}

// generateRequest is the Gemini generateContent request format.
type generateRequest struct {
	SystemInstruction *generateContent  `json:"system_instruction,omitempty"`
	Contents          []generateContent `json:"contents"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

// generateContent is one Gemini content entry.
type generateContent struct {
	Role  string         `json:"role,omitempty"`
	Parts []generatePart `json:"parts"`
}

// generatePart is one Gemini content part.
type generatePart struct {
	Text string `json:"text"`
}

// generationConfig tunes Gemini generation.
type generationConfig struct {
	Temperature float64 `json:"temperature,omitempty"`
}

// generateResponse is the Gemini generateContent response format.
type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []generatePart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// generate calls Gemini with the windowed history, the user query, and the
// retrieved passages, and returns the final answer text.
func (a *Agent) generate(
	ctx context.Context,
	query string,
	history []domain.Message,
	chunks []domain.SourceChunk,
	settings domain.AppSettings,
) (string, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	contents := make([]generateContent, 0, len(history)+1)
	for _, m := range history {
		contents = append(contents, generateContent{
			Role:  string(m.Role),
			Parts: []generatePart{{Text: m.Text}},
		})
	}
	contents = append(contents, generateContent{
		Role:  string(domain.RoleUser),
		Parts: []generatePart{{Text: buildPrompt(query, chunks)}},
	})

	reqBody := generateRequest{
		SystemInstruction: &generateContent{Parts: []generatePart{{Text: systemPrompt(settings.Language)}}},
		Contents:          contents,
		GenerationConfig:  &generationConfig{Temperature: 0.3},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", a.baseURL, settings.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", settings.APIKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var genResp generateResponse
	if err := json.Unmarshal(payload, &genResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	// Error detail first: the status string (e.g. RESOURCE_EXHAUSTED) and
	// code must survive into the error message for classification.
	if genResp.Error != nil {
		return "", fmt.Errorf("gemini error %d %s: %s", genResp.Error.Code, genResp.Error.Status, genResp.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini error (status %d): %s", resp.StatusCode, string(payload))
	}
	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini: no response content returned")
	}

	var result strings.Builder
	for _, part := range genResp.Candidates[0].Content.Parts {
		result.WriteString(part.Text)
	}
	return result.String(), nil
}

// systemPrompt instructs the model to cite retrieved passages inline.
func systemPrompt(lang domain.Language) string {
	answerLang := "English"
	if lang == domain.LanguageRU {
		answerLang = "Russian"
	}
	return `You are a research assistant for the Bhaktivedanta Vedabase.
Answer strictly from the provided passages. After every claim drawn from a
passage, append its citation marker exactly as given, in the form [[id]].
Do not invent passages or markers. Keep Sanskrit terms transliterated.
Answer in ` + answerLang + `.`
}

// buildPrompt renders the user query together with the retrieved passages.
func buildPrompt(query string, chunks []domain.SourceChunk) string {
	var b strings.Builder
	b.WriteString("Passages:\n")
	for _, c := range chunks {
		fmt.Fprintf(&b, "[[%s]] %s (%s %s)\n%s\n\n", c.ID, c.BookTitle, c.Chapter, c.Verse, c.Content)
	}
	b.WriteString("Question: ")
	b.WriteString(query)
	return b.String()
}

// clampScore keeps relevance values inside [0,1]; keyword backends can
// report raw BM25 scores above 1.
func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}
