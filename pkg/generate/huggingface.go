package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/matzehuels/mdgraph/pkg/diagram"
	"github.com/matzehuels/mdgraph/pkg/errors"
	"github.com/matzehuels/mdgraph/pkg/observability"
)

// DefaultHuggingFaceURL is the inference endpoint used when none is configured.
const DefaultHuggingFaceURL = "https://api-inference.huggingface.co/models/microsoft/DialoGPT-medium"

// maxResponseBytes bounds how much of an inference response is read.
const maxResponseBytes = 1 << 20

// HuggingFaceStrategy asks a Hugging Face text generation endpoint for a
// diagram. It makes one attempt and does not retry.
type HuggingFaceStrategy struct {
	url     string
	token   string
	timeout time.Duration
	client  *http.Client
}

// NewHuggingFace returns the strategy, or nil when token is empty.
// An empty endpoint uses DefaultHuggingFaceURL; timeout <= 0 means none.
func NewHuggingFace(endpoint, token string, timeout time.Duration, client *http.Client) *HuggingFaceStrategy {
	if token == "" {
		return nil
	}
	if endpoint == "" {
		endpoint = DefaultHuggingFaceURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &HuggingFaceStrategy{url: endpoint, token: token, timeout: timeout, client: client}
}

// Name implements Strategy.
func (s *HuggingFaceStrategy) Name() string { return NameHuggingFace }

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

type hfParameters struct {
	MaxLength   int     `json:"max_length"`
	Temperature float64 `json:"temperature"`
}

type hfGeneration struct {
	GeneratedText string `json:"generated_text"`
}

// Generate implements Strategy.
func (s *HuggingFaceStrategy) Generate(ctx context.Context, req diagram.Request) Result {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	body, err := json.Marshal(hfRequest{
		Inputs:     prompt(req),
		Parameters: hfParameters{MaxLength: 500, Temperature: 0.7},
	})
	if err != nil {
		return failure(errors.Wrap(errors.ErrCodeInternal, err, "encode request"))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return failure(errors.Wrap(errors.ErrCodeInvalidInput, err, "build request"))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.token)

	host, path := endpointParts(s.url)
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, http.MethodPost, host, path)
	start := time.Now()

	resp, err := s.client.Do(httpReq)
	if err != nil {
		hooks.OnError(ctx, http.MethodPost, host, path, err)
		if ctx.Err() != nil {
			return failure(errors.Wrap(errors.ErrCodeTimeout, err, "hugging face request"))
		}
		return failure(errors.Wrap(errors.ErrCodeNetwork, err, "hugging face request"))
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, http.MethodPost, host, path, resp.StatusCode, time.Since(start))

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return failure(errors.Wrap(errors.ErrCodeNetwork, err, "read response"))
	}
	if resp.StatusCode != http.StatusOK {
		return failure(errors.New(errors.ErrCodeNetwork, "hugging face returned %d: %s", resp.StatusCode, truncate(string(data), 200)))
	}

	var gens []hfGeneration
	if err := json.Unmarshal(data, &gens); err != nil {
		return failure(errors.Wrap(errors.ErrCodeNetwork, err, "decode response"))
	}
	if len(gens) == 0 {
		return failure(errors.New(errors.ErrCodeGenerationFailed, "empty generation"))
	}

	src, ok := ExtractMermaid(gens[0].GeneratedText)
	if !ok {
		return failure(errors.New(errors.ErrCodeGenerationFailed, "no valid Mermaid code generated"))
	}
	return success(diagram.Response{Source: src, Origin: diagram.OriginAI})
}

func endpointParts(raw string) (host, path string) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", raw
	}
	return u.Host, u.Path
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return fmt.Sprintf("%s... (%d bytes)", s[:n], len(s))
}

var _ Strategy = (*HuggingFaceStrategy)(nil)
