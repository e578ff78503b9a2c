// Package remote provides a palette source backed by the palette service,
// which analyses an uploaded JPEG or answers a free-text prompt.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/recolour/internal/colour"
	"github.com/jmylchreest/recolour/internal/image"
	"github.com/jmylchreest/recolour/internal/source"
	httputil "github.com/jmylchreest/recolour/internal/util/http"
)

const (
	// DefaultURL is where the palette service listens by default.
	DefaultURL = "http://127.0.0.1:5000"

	// DefaultTimeout bounds a single palette service request.
	DefaultTimeout = 30 * time.Second

	processImagePath  = "/process_image"
	processPromptPath = "/process_prompt"
)

// ImageResponse is the body returned by the image endpoint.
type ImageResponse struct {
	ColorPalettes [][]string `json:"color_palettes"`
}

// PromptRequest is the body sent to the prompt endpoint.
type PromptRequest struct {
	InputString string `json:"input_string"`
}

// PromptResponse is the body returned by the prompt endpoint; Palette holds
// whitespace-separated hex codes.
type PromptResponse struct {
	Palette *string `json:"palette"`
}

// Client talks to the palette service.
type Client struct {
	BaseURL string
	Timeout time.Duration
}

// NewClient returns a client for the service at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &Client{BaseURL: strings.TrimRight(baseURL, "/"), Timeout: timeout}
}

// ProcessImage uploads a JPEG and returns the palettes the service found.
func (c *Client) ProcessImage(ctx context.Context, jpegData []byte) ([]colour.Palette, error) {
	body, err := httputil.Post(ctx, c.BaseURL+processImagePath, "image/jpeg", bytes.NewReader(jpegData), httputil.FetchOptions{
		Timeout: c.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to send image to palette service: %w", err)
	}

	var resp ImageResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", source.ErrMalformedPalette, err)
	}
	return source.NormalisePalettes(resp.ColorPalettes)
}

// ProcessPrompt sends prompt verbatim and returns the single palette in the reply.
func (c *Client) ProcessPrompt(ctx context.Context, prompt string) (colour.Palette, error) {
	payload, err := json.Marshal(PromptRequest{InputString: prompt})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal prompt: %w", err)
	}

	body, err := httputil.Post(ctx, c.BaseURL+processPromptPath, "application/json", bytes.NewReader(payload), httputil.FetchOptions{
		Timeout: c.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to send prompt to palette service: %w", err)
	}

	var resp PromptResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", source.ErrMalformedPalette, err)
	}
	if resp.Palette == nil {
		return nil, fmt.Errorf("%w: response has no palette field", source.ErrMalformedPalette)
	}

	palettes, err := source.NormalisePalettes([][]string{source.SplitHexList(*resp.Palette)})
	if err != nil {
		return nil, err
	}
	return palettes[0], nil
}

// Source implements source.Source for the palette service.
type Source struct {
	url     string
	image   string
	prompt  string
	timeout time.Duration
	quality int
}

// New creates a remote source with the given service defaults.
func New(url string, timeout time.Duration) *Source {
	if url == "" {
		url = DefaultURL
	}
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &Source{url: url, timeout: timeout, quality: image.DefaultJPEGQuality}
}

// Name returns the source name.
func (s *Source) Name() string {
	return "remote"
}

// Description returns the source description.
func (s *Source) Description() string {
	return "Ask the palette service for palettes from an image or a text prompt"
}

// RegisterFlags registers source-specific flags with the cobra command.
func (s *Source) RegisterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.url, "remote.url", s.url, "Palette service base URL")
	cmd.Flags().StringVar(&s.image, "remote.image", "", "Image (file or HTTP(S) URL) to upload for analysis")
	cmd.Flags().StringVar(&s.prompt, "remote.prompt", "", "Text prompt describing the palette")
	cmd.Flags().DurationVar(&s.timeout, "remote.timeout", s.timeout, "Palette service request timeout")
	cmd.Flags().IntVar(&s.quality, "remote.jpeg-quality", s.quality, "JPEG quality used when uploading images (1-100)")
}

// Validate checks that exactly one of image or prompt is set.
func (s *Source) Validate() error {
	if !strings.HasPrefix(s.url, "http://") && !strings.HasPrefix(s.url, "https://") {
		return fmt.Errorf("--remote.url must start with http:// or https://")
	}
	switch {
	case s.image == "" && s.prompt == "":
		return fmt.Errorf("--remote.image or --remote.prompt is required")
	case s.image != "" && s.prompt != "":
		return fmt.Errorf("--remote.image and --remote.prompt are mutually exclusive")
	}
	if s.image != "" {
		if err := image.Validate(s.image); err != nil {
			return fmt.Errorf("invalid image: %w", err)
		}
	}
	if s.quality < 1 || s.quality > 100 {
		return fmt.Errorf("--remote.jpeg-quality must be between 1 and 100, got %d", s.quality)
	}
	return nil
}

// Generate requests palettes from the service.
func (s *Source) Generate(ctx context.Context, opts source.GenerateOptions) ([]colour.Palette, error) {
	logger := opts.Log().With("source", s.Name(), "url", s.url)
	client := NewClient(s.url, s.timeout)

	if s.prompt != "" {
		prompt := source.AugmentPrompt(s.prompt, opts.Count)
		logger.Debug("requesting prompt palette", "prompt", s.prompt)

		palette, err := client.ProcessPrompt(ctx, prompt)
		if err != nil {
			return nil, err
		}
		return []colour.Palette{palette}, nil
	}

	img, err := image.Load(ctx, s.image)
	if err != nil {
		return nil, fmt.Errorf("failed to load image: %w", err)
	}
	data, err := image.EncodeJPEG(image.Fit(img, image.DefaultMaxSide), s.quality)
	if err != nil {
		return nil, err
	}
	logger.Debug("uploading image", "path", s.image, "bytes", len(data))

	palettes, err := client.ProcessImage(ctx, data)
	if err != nil {
		return nil, err
	}
	logger.Debug("received palettes", "count", len(palettes))
	return palettes, nil
}
