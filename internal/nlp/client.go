// Text-analysis client against an Ollama-compatible generate endpoint
package nlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Config holds the generation parameters. The engine never calls this
// client; callers that combine it with an editing session must serialize
// access themselves.
type Config struct {
	Model       string  `yaml:"model"`
	BaseURL     string  `yaml:"base_url"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
	TopP        float64 `yaml:"top_p"`
}

// DefaultConfig targets a local Ollama instance.
func DefaultConfig() Config {
	return Config{
		Model:       "qwen2.5:3b",
		BaseURL:     "http://localhost:11434",
		MaxTokens:   512,
		Temperature: 0.3,
		TopP:        0.9,
	}
}

type Client struct {
	cfg    Config
	http   *http.Client
	logger *logrus.Logger
}

func NewClient(cfg Config, logger *logrus.Logger) *Client {
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: 120 * time.Second},
		logger: logger,
	}
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
	NumPredict  int     `json:"num_predict"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Generate performs one non-streaming generate call and returns the
// trimmed model output.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	payload := generateRequest{
		Model:  c.cfg.Model,
		Prompt: prompt,
		Stream: false,
		Options: generateOptions{
			Temperature: c.cfg.Temperature,
			TopP:        c.cfg.TopP,
			NumPredict:  c.cfg.MaxTokens,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode generate request: %w", err)
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/api/generate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.WithFields(logrus.Fields{
		"model": c.cfg.Model,
		"url":   url,
	}).Debug("text generation request")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("generate call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generate call returned %s", resp.Status)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode generate response: %w", err)
	}
	return strings.TrimSpace(out.Response), nil
}

// Summarize condenses a medical record or report into a few key points.
func (c *Client) Summarize(ctx context.Context, text string) (string, error) {
	prompt := "You are a medical NLP assistant. Summarize the following text " +
		"into 3-5 short bullet points, keeping all key clinical information.\n\n" +
		"[Text]\n" + text + "\n\n[Summary]"
	return c.Generate(ctx, prompt)
}

// AnalyzeRecord extracts structured fields from free-form record text.
func (c *Client) AnalyzeRecord(ctx context.Context, text string) (string, error) {
	prompt := "You are a medical NLP assistant. Extract the key information " +
		"from the following medical record and fill in this template, writing " +
		"\"unknown\" for anything missing.\n\n[Record]\n" + text + "\n\n" +
		"[Template]\nName:\nSex:\nAge:\nChief complaint:\nHistory of present illness:\n" +
		"Past history:\nFindings:\nImpression:\nRecommended follow-up:\n\n" +
		"Fill in the template in order:"
	return c.Generate(ctx, prompt)
}

// SuggestDiagnosis proposes directions and follow-up checks. The output is
// advisory only and says so.
func (c *Client) SuggestDiagnosis(ctx context.Context, text string) (string, error) {
	prompt := "You are a clinical decision-support aid. Based on the record " +
		"below, list 2-4 possible diagnostic directions and 2-4 recommended " +
		"follow-up examinations. Do not state a definitive diagnosis.\n\n" +
		"[Record]\n" + text + "\n\nEnd with a note that this output is for " +
		"reference only and is not a medical diagnosis."
	return c.Generate(ctx, prompt)
}
