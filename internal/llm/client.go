package llm

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/isaacphi/mapsxplr/internal/config"
	"github.com/isaacphi/mapsxplr/internal/domain"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/pkg/errors"
)

const defaultChunkSize = 4096

// Client talks to an OpenAI compatible chat-completion endpoint.
type Client struct {
	client    openai.Client
	cfg       config.Provider
	system    string
	tools     []domain.Tool
	logger    *slog.Logger
	chunkSize int
}

type ClientOption func(*Client)

// WithLogger sets the logger for the client and the streams it opens.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithChunkSize sets how many bytes are read from the body at a time.
func WithChunkSize(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.chunkSize = n
		}
	}
}

// WithHTTPClient replaces the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.client = openai.NewClient(append(c.requestOptions(), option.WithHTTPClient(hc))...)
	}
}

// NewClient creates a client offering the recommendPlace tool. It fails with
// domain.ErrMissingAPIKey when no key is configured.
func NewClient(cfg config.Provider, systemMessage string, opts ...ClientOption) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, domain.ErrMissingAPIKey
	}

	tool, err := domain.RecommendPlace()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build tool definition")
	}

	c := &Client{
		cfg:       cfg,
		system:    systemMessage,
		tools:     []domain.Tool{tool},
		logger:    slog.Default(),
		chunkSize: defaultChunkSize,
	}
	c.client = openai.NewClient(c.requestOptions()...)
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) requestOptions() []option.RequestOption {
	return []option.RequestOption{
		option.WithAPIKey(c.cfg.APIKey),
		option.WithBaseURL(strings.TrimSuffix(c.cfg.BaseURL, "/") + "/"),
		// Failures are surfaced to the caller, never retried.
		option.WithMaxRetries(0),
	}
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.cfg.Model
}

// Timeout returns the configured timeout for a whole request.
func (c *Client) Timeout() time.Duration {
	return c.cfg.Timeout
}

func (c *Client) params(prompt string) openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.cfg.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(c.system),
			openai.UserMessage(prompt),
		},
		ToolChoice: openai.ChatCompletionToolChoiceOptionUnionParam{
			OfAuto: openai.String("auto"),
		},
	}
	for _, tool := range c.tools {
		params.Tools = append(params.Tools, openai.ChatCompletionToolParam{
			Function: openai.FunctionDefinitionParam{
				Name:        tool.Name,
				Description: openai.String(tool.Description),
				Parameters:  openai.FunctionParameters(tool.Parameters),
			},
		})
	}
	if c.cfg.Temperature != nil {
		params.Temperature = openai.Float(*c.cfg.Temperature)
	}
	return params
}

// open sends the request and returns the response with its body unread.
// Non-2xx responses are returned as errors.
func (c *Client) open(ctx context.Context, prompt string) (*http.Response, error) {
	var resp *http.Response
	err := c.client.Post(ctx, "chat/completions", c.params(prompt), &resp,
		option.WithJSONSet("stream", true),
		option.WithHeader("Accept", "text/event-stream"),
	)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return nil, errors.Wrapf(err, "chat completion request failed with status %d", apiErr.StatusCode)
		}
		return nil, errors.Wrap(err, "chat completion request failed")
	}
	return resp, nil
}
