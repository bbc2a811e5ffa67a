package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ClientConfig carries the wire-level knobs of the remote judging service.
// LanguageIDs maps a language slug to the engine's language id; limits are
// sent with every submission.
type ClientConfig struct {
	BaseURL         string
	AuthToken       string
	LanguageIDs     map[string]int
	CPUTimeLimitSec int
	MemoryLimitKb   int
}

// Client submits one (language, source, stdin, expected output) unit to the
// remote judging service and returns the opaque token identifying the
// in-flight execution. It is stateless and safe for concurrent use.
type Client struct {
	httpClient *http.Client
	cfg        ClientConfig
}

func NewClient(cfg ClientConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cfg:        cfg,
	}
}

type submitRequest struct {
	LanguageID     int    `json:"language_id"`
	SourceCode     string `json:"source_code"`
	Stdin          string `json:"stdin"`
	ExpectedOutput string `json:"expected_output"`
	CPUTimeLimit   int    `json:"cpu_time_limit"`
	MemoryLimit    int    `json:"memory_limit"`
	EnableNetwork  bool   `json:"enable_network"`
}

type submitResponse struct {
	Token string `json:"token"`
	Error string `json:"error"`
}

// Submit performs the outbound submission call. Every error it returns is
// non-retryable at this layer: the caller records an infra-error outcome for
// the test case and moves on to the next one.
func (c *Client) Submit(ctx context.Context, language, source, stdin, expectedOutput string) (string, error) {
	languageID, ok := c.cfg.LanguageIDs[language]
	if !ok {
		return "", fmt.Errorf("unsupported language %q", language)
	}

	body, err := json.Marshal(submitRequest{
		LanguageID:     languageID,
		SourceCode:     source,
		Stdin:          stdin,
		ExpectedOutput: expectedOutput,
		CPUTimeLimit:   c.cfg.CPUTimeLimitSec,
		MemoryLimit:    c.cfg.MemoryLimitKb,
		EnableNetwork:  false,
	})
	if err != nil {
		return "", fmt.Errorf("marshal submit request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/submissions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build submit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.AuthToken != "" {
		req.Header.Set("X-Auth-Token", c.cfg.AuthToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("submit to judge: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read submit response: %w", err)
	}

	var parsed submitResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("decode submit response (status %d): %w", resp.StatusCode, err)
	}

	// The service reports quota/subscription rejections with a non-2xx code
	// and an error field.
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if parsed.Error != "" {
			return "", fmt.Errorf("judge rejected submission: %s", parsed.Error)
		}
		return "", fmt.Errorf("judge rejected submission with status %d", resp.StatusCode)
	}

	if parsed.Token == "" {
		return "", fmt.Errorf("judge response contains no token")
	}
	return parsed.Token, nil
}
