package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/artboard"
)

func testImage(c color.RGBA) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := range 4 {
		for x := range 4 {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func pngBase64(t *testing.T, img image.Image) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

// Wire shapes the fake server decodes.
type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type generateRequest struct {
	Contents []struct {
		Role  string `json:"role"`
		Parts []part `json:"parts"`
	} `json:"contents"`
	GenerationConfig struct {
		ResponseModalities []string `json:"responseModalities"`
		ImageConfig        struct {
			AspectRatio string `json:"aspectRatio"`
			ImageSize   string `json:"imageSize"`
		} `json:"imageConfig"`
	} `json:"generationConfig"`
}

// fakeServer answers generateContent with handler and records the last
// request body.
func fakeServer(t *testing.T, handler func(w http.ResponseWriter, req generateRequest)) (*httptest.Server, *generateRequest) {
	t.Helper()
	var last generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1beta/models/test-model:generateContent", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-goog-api-key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&last))
		w.Header().Set("Content-Type", "application/json")
		handler(w, last)
	}))
	t.Cleanup(srv.Close)
	return srv, &last
}

func imageResponse(t *testing.T, img image.Image) func(http.ResponseWriter, generateRequest) {
	data := pngBase64(t, img)
	return func(w http.ResponseWriter, _ generateRequest) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []any{map[string]any{
				"content": map[string]any{"parts": []any{
					map[string]any{"text": "here you go"},
					map[string]any{"inlineData": map[string]any{"mimeType": "image/png", "data": data}},
				}},
			}},
		})
	}
}

func newTestClient(srv *httptest.Server, opts ...Option) *Client {
	return New("secret", append([]Option{
		WithEndpoint(srv.URL + "/"),
		WithModel("test-model"),
		WithHTTPClient(srv.Client()),
	}, opts...)...)
}

func TestTransform(t *testing.T) {
	want := testImage(color.RGBA{G: 255, A: 255})
	srv, last := fakeServer(t, imageResponse(t, want))
	c := newTestClient(srv)

	got, err := c.Transform(context.Background(), "make it green", testImage(color.RGBA{R: 255, A: 255}))
	require.NoError(t, err)
	r, g, _, _ := got.At(1, 1).RGBA()
	assert.Zero(t, r)
	assert.Equal(t, uint32(0xffff), g)

	require.Len(t, last.Contents, 1)
	assert.Equal(t, "user", last.Contents[0].Role)
	parts := last.Contents[0].Parts
	require.Len(t, parts, 2)
	require.NotNil(t, parts[0].InlineData, "image part must come first")
	assert.Equal(t, "image/png", parts[0].InlineData.MimeType)
	assert.Contains(t, parts[1].Text, `User Instruction: "make it green"`)
	assert.Equal(t, "1:1", last.GenerationConfig.ImageConfig.AspectRatio)
	assert.Equal(t, "1K", last.GenerationConfig.ImageConfig.ImageSize)
}

func TestMockupCarriesVariation(t *testing.T) {
	srv, last := fakeServer(t, imageResponse(t, testImage(color.RGBA{A: 255})))
	c := newTestClient(srv, WithRand(rand.New(rand.NewPCG(3, 4))))

	_, err := c.Mockup(context.Background(), "white mug", testImage(color.RGBA{A: 255}))
	require.NoError(t, err)
	prompt := last.Contents[0].Parts[1].Text
	assert.Contains(t, prompt, `Product Description: "white mug"`)
	assert.Contains(t, prompt, "Variation ID:")
}

func TestGenerateSendsNoImage(t *testing.T) {
	srv, last := fakeServer(t, imageResponse(t, testImage(color.RGBA{A: 255})))
	c := newTestClient(srv)

	_, err := c.Generate(context.Background(), "a rocket", "")
	require.NoError(t, err)
	require.Len(t, last.Contents[0].Parts, 1)
	assert.Nil(t, last.Contents[0].Parts[0].InlineData)
}

func TestNoImageInResponse(t *testing.T) {
	srv, _ := fakeServer(t, func(w http.ResponseWriter, _ generateRequest) {
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"sorry, no"}]}}]}`))
	})
	c := newTestClient(srv)

	_, err := c.Transform(context.Background(), "x", testImage(color.RGBA{A: 255}))
	require.Error(t, err)
	assert.ErrorIs(t, err, artboard.ErrSynthesis)
	assert.ErrorIs(t, err, artboard.ErrNoImage)

	var se *artboard.SynthesisError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "transform", se.Op)
}

func TestUndecodableImage(t *testing.T) {
	srv, _ := fakeServer(t, func(w http.ResponseWriter, _ generateRequest) {
		data := base64.StdEncoding.EncodeToString([]byte("garbage"))
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"inlineData":{"mimeType":"image/png","data":"` + data + `"}}]}}]}`))
	})
	_, err := newTestClient(srv).Mockup(context.Background(), "cap", testImage(color.RGBA{A: 255}))
	assert.ErrorIs(t, err, artboard.ErrNoImage)
}

func TestAPIError(t *testing.T) {
	srv, _ := fakeServer(t, func(w http.ResponseWriter, _ generateRequest) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`))
	})
	_, err := newTestClient(srv).Transform(context.Background(), "x", testImage(color.RGBA{A: 255}))

	require.Error(t, err)
	assert.ErrorIs(t, err, artboard.ErrSynthesis)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestNoAPIKey(t *testing.T) {
	_, err := New("").Transform(context.Background(), "x", testImage(color.RGBA{A: 255}))
	assert.ErrorIs(t, err, ErrNoAPIKey)
	assert.ErrorIs(t, err, artboard.ErrSynthesis)
}

func TestContextCanceled(t *testing.T) {
	srv, _ := fakeServer(t, imageResponse(t, testImage(color.RGBA{A: 255})))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestClient(srv).Transform(ctx, "x", testImage(color.RGBA{A: 255}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled) || strings.Contains(err.Error(), "canceled"))
}
