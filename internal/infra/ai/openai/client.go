package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"
	"math/rand"
	"strings"

	"github.com/sashabaranov/go-openai"

	domai "github.com/archistudio/designcheck/internal/domain/ai"
	"github.com/archistudio/designcheck/internal/infra/ai/prompt"
)

const (
	maxTokens = 1024
	thumbSize = 256
)

type Client struct {
	*openai.Client
	ImageModel     string
	ReasoningModel string
}

func NewClient(apiKey, imageModel, reasoningModel string) *Client {
	return &Client{
		Client:         openai.NewClient(apiKey),
		ImageModel:     imageModel,
		ReasoningModel: reasoningModel,
	}
}

// GenerateImage renders an architectural concept via the Images API and
// derives a thumbnail locally.
func (c *Client) GenerateImage(ctx context.Context, req domai.GenerateRequest) (domai.GenerateResult, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return domai.GenerateResult{}, domai.ErrEmptyPrompt
	}

	model := c.ImageModel
	if model == "" {
		model = openai.CreateImageModelDallE3
	}

	// the Images API carries no seed parameter; keep one in the metadata so a
	// rerun with the same inputs is at least traceable
	seed := req.Seed
	if seed == 0 {
		seed = rand.Int63()
	}

	enhanced := prompt.BuildArchitecturePrompt(req.Prompt, req.ClimateZone, req.BuildingType, req.Orientation)

	resp, err := c.Client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         enhanced,
		Model:          model,
		N:              1,
		Size:           openai.CreateImageSize1024x1024,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		return domai.GenerateResult{}, wrapErr(err)
	}
	if len(resp.Data) == 0 {
		return domai.GenerateResult{}, fmt.Errorf("image response contained no data")
	}

	raw, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return domai.GenerateResult{}, fmt.Errorf("decode image payload: %w", err)
	}

	thumb, err := thumbnailPNG(raw)
	if err != nil {
		// the render itself succeeded; ship it without a thumbnail
		thumb = nil
	}

	return domai.GenerateResult{
		ImagePNG:       raw,
		ThumbnailPNG:   thumb,
		EnhancedPrompt: enhanced,
		Seed:           seed,
	}, nil
}

// Reason produces a short design rationale via chat completion
func (c *Client) Reason(ctx context.Context, base, climateZone, buildingType string, orientation int) (string, error) {
	model := c.ReasoningModel
	if model == "" {
		model = openai.GPT4oMini
	}
	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.ReasoningSystemPrompt()},
			{Role: openai.ChatMessageRoleUser, Content: prompt.ReasoningUserPrompt(base, climateZone, buildingType, orientation)},
		},
	}
	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	if strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") || strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5") {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}

	resp, err := c.Client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", wrapErr(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func wrapErr(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == 429 {
		return domai.ErrQuotaExceeded
	}
	return err
}

// thumbnailPNG downscales a PNG with nearest-neighbor sampling
func thumbnailPNG(raw []byte) ([]byte, error) {
	src, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= thumbSize && h <= thumbSize {
		return raw, nil
	}

	// preserve aspect ratio, longest edge becomes thumbSize
	tw, th := thumbSize, thumbSize
	if w > h {
		th = h * thumbSize / w
	} else {
		tw = w * thumbSize / h
	}

	dst := image.NewRGBA(image.Rect(0, 0, tw, th))
	for y := 0; y < th; y++ {
		for x := 0; x < tw; x++ {
			sx := bounds.Min.X + x*w/tw
			sy := bounds.Min.Y + y*h/th
			dst.Set(x, y, src.At(sx, sy))
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
