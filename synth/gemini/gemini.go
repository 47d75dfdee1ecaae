// Package gemini implements synth.Synthesizer on the Gemini API with an
// image-capable model, using the google.golang.org/genai client.
package gemini

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	// Formats a model may answer with.
	_ "image/jpeg"

	_ "golang.org/x/image/webp"
	"google.golang.org/genai"

	"github.com/gogpu/artboard"
	"github.com/gogpu/artboard/synth"
)

// Defaults.
const (
	DefaultModel      = "gemini-3-pro-image-preview"
	DefaultAPIVersion = "v1beta"
	DefaultTimeout    = 120 * time.Second
)

// ErrNoAPIKey is returned when the client has no API key.
var ErrNoAPIKey = errors.New("gemini: no API key")

// Option configures a Client.
type Option func(*Client)

// WithModel selects the model name.
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithEndpoint overrides the service base URL.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithRand sets the source used for mockup variations.
func WithRand(r *rand.Rand) Option {
	return func(c *Client) {
		c.rand = r
	}
}

// WithStyle appends a style suffix to every edit instruction.
func WithStyle(style string) Option {
	return func(c *Client) {
		c.style = style
	}
}

// Client calls the Gemini API. It is safe for concurrent use.
type Client struct {
	apiKey   string
	model    string
	endpoint string
	style    string
	http     *http.Client

	api func() (*genai.Client, error)

	mu   sync.Mutex // guards rand
	rand *rand.Rand
}

var _ synth.Synthesizer = (*Client)(nil)

// New returns a client authenticating with apiKey. The underlying genai
// client is created on first use.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey: apiKey,
		model:  DefaultModel,
		http:   &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.api = sync.OnceValues(c.dial)
	return c
}

func (c *Client) dial() (*genai.Client, error) {
	return genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:     c.apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: c.http,
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    c.endpoint,
			APIVersion: DefaultAPIVersion,
		},
	})
}

// Model returns the configured model name.
func (c *Client) Model() string { return c.model }

// Transform edits base according to instruction.
func (c *Client) Transform(ctx context.Context, instruction string, base image.Image) (image.Image, error) {
	return c.call(ctx, synth.OpTransform, synth.EditPrompt(instruction, c.style), base)
}

// Mockup applies artwork to the described product. Each call picks a new
// random vibe so repeated requests differ.
func (c *Client) Mockup(ctx context.Context, product string, artwork image.Image) (image.Image, error) {
	c.mu.Lock()
	v := synth.NewVariation(c.rand)
	c.mu.Unlock()
	return c.call(ctx, synth.OpMockup, synth.MockupPrompt(product, v), artwork)
}

// Generate creates a sticker image from a text description.
func (c *Client) Generate(ctx context.Context, subject, style string) (image.Image, error) {
	return c.call(ctx, synth.OpGenerate, synth.GeneratePrompt(subject, style), nil)
}

func (c *Client) call(ctx context.Context, op, prompt string, img image.Image) (image.Image, error) {
	out, err := c.generate(ctx, prompt, img)
	if err != nil {
		artboard.Logger().Warn("gemini: request failed", slog.String("op", op), slog.String("err", err.Error()))
		return nil, &artboard.SynthesisError{Op: op, Err: err}
	}
	return out, nil
}

func (c *Client) generate(ctx context.Context, prompt string, img image.Image) (image.Image, error) {
	if c.apiKey == "" {
		return nil, ErrNoAPIKey
	}
	api, err := c.api()
	if err != nil {
		return nil, fmt.Errorf("gemini: client: %w", err)
	}

	parts := make([]*genai.Part, 0, 2)
	if img != nil {
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("gemini: encode input: %w", err)
		}
		parts = append(parts, genai.NewPartFromBytes(buf.Bytes(), "image/png"))
	}
	parts = append(parts, genai.NewPartFromText(prompt))

	start := time.Now()
	resp, err := api.Models.GenerateContent(ctx, c.model,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)},
		&genai.GenerateContentConfig{
			ResponseModalities: []string{"TEXT", "IMAGE"},
			ImageConfig:        &genai.ImageConfig{AspectRatio: "1:1", ImageSize: "1K"},
		})
	if err != nil {
		return nil, err
	}
	artboard.Logger().Info("gemini: response",
		slog.String("model", c.model),
		slog.Duration("elapsed", time.Since(start)))
	return firstImage(resp)
}

// firstImage decodes the first inline image part of the first candidate.
func firstImage(resp *genai.GenerateContentResponse) (image.Image, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, artboard.ErrNoImage
	}
	for _, p := range resp.Candidates[0].Content.Parts {
		if p == nil || p.InlineData == nil || len(p.InlineData.Data) == 0 {
			continue
		}
		img, _, err := image.Decode(bytes.NewReader(p.InlineData.Data))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", artboard.ErrNoImage, err)
		}
		return img, nil
	}
	return nil, artboard.ErrNoImage
}
