package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
)

// Local talks to a self-hosted model server exposing POST /generate, which
// takes a list of chat messages and answers {"generated_text": "..."}.
type Local struct {
	url        string
	httpClient *http.Client
	logger     *log.Logger
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type generateResponse struct {
	GeneratedText string `json:"generated_text"`
}

func NewLocal(logger *log.Logger, url string, httpClient *http.Client) *Local {
	return &Local{
		url:        url,
		httpClient: httpClient,
		logger:     logger,
	}
}

func (c *Local) Complete(ctx context.Context, system, user string) (string, error) {
	start := time.Now()
	messages := []chatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}

	payload, err := json.Marshal(messages)
	if err != nil {
		return "", errors.Wrap(err, "encode messages")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewBuffer(payload))
	if err != nil {
		return "", errors.Wrap(err, "build generate request")
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("Local generate request", "method", req.Method, "url", req.URL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "local generate")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", errors.Errorf("local generate failed: %d %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", errors.Wrap(err, "decode generate response")
	}

	c.logger.Debug("Local generate finished", "status", resp.StatusCode, "took", time.Since(start))
	return stripEcho(result.GeneratedText, user), nil
}

// stripEcho drops the prompt the model server may decode back in front of
// the completion. The echo is cut after the last copy of the user prompt, or
// failing that after the last copy of its final line, so a slightly altered
// echo of the system prompt cannot leak into the reply.
func stripEcho(text, user string) string {
	user = strings.TrimSpace(user)
	if user == "" {
		return text
	}
	if i := strings.LastIndex(text, user); i >= 0 {
		return text[i+len(user):]
	}

	lines := strings.Split(user, "\n")
	last := strings.TrimSpace(lines[len(lines)-1])
	if i := strings.LastIndex(text, last); i >= 0 && last != "" {
		return text[i+len(last):]
	}
	return text
}
