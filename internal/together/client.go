// Package together implements the upstream Together AI client behind the
// image tools. The API is OpenAI-compatible, so the official openai-go
// client is pointed at the Together base URL; Together-only generation
// parameters (width, height, steps, condition_image) travel as extra JSON
// body fields.
package together

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"atelier/internal/imaging"
	"atelier/internal/logging"
)

// DefaultBaseURL is the Together AI OpenAI-compatible endpoint root.
const DefaultBaseURL = "https://api.together.xyz/v1"

// DescribeInstruction is sent alongside the image on every describe call.
const DescribeInstruction = "Describe this image in detail."

// Options configures a Client. BaseURL and HTTPClient exist mostly for
// tests pointing at a fake upstream.
type Options struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// Client is a thin wrapper over the generation and chat endpoints. It is
// safe for concurrent use and performs no retries of its own beyond what
// the underlying SDK does.
type Client struct {
	api openai.Client
	log *slog.Logger
}

// New creates a Client for the given credentials.
func New(opts Options) *Client {
	base := opts.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}

	clientOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithBaseURL(base),
	}
	if opts.HTTPClient != nil {
		clientOpts = append(clientOpts, option.WithHTTPClient(opts.HTTPClient))
	}

	return &Client{
		api: openai.NewClient(clientOpts...),
		log: logging.New("together"),
	}
}

// GenerateRequest describes one call to the image generation endpoint.
// ConditionImage, when set, carries the base64-encoded source image for
// image-to-image editing.
type GenerateRequest struct {
	Model          string
	Prompt         string
	ConditionImage string
	Width          int
	Height         int
	Steps          int
	N              int
}

// GenerateImage calls the generation endpoint and returns the raw image
// references exactly as the provider shaped them (URL or inline base64).
func (c *Client) GenerateImage(ctx context.Context, req GenerateRequest) ([]imaging.Reference, error) {
	n := req.N
	if n <= 0 {
		n = 1
	}

	opts := []option.RequestOption{
		option.WithJSONSet("width", req.Width),
		option.WithJSONSet("height", req.Height),
		option.WithJSONSet("steps", req.Steps),
	}
	if req.ConditionImage != "" {
		opts = append(opts, option.WithJSONSet("condition_image", req.ConditionImage))
	}

	res, err := c.api.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt: req.Prompt,
		Model:  openai.ImageModel(req.Model),
		N:      openai.Int(int64(n)),
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", imaging.ErrUpstream, err)
	}

	c.log.Info("generation response received", "model", req.Model, "images", len(res.Data))

	refs := make([]imaging.Reference, len(res.Data))
	for i, d := range res.Data {
		refs[i] = imaging.Reference{URL: d.URL, B64JSON: d.B64JSON}
	}
	return refs, nil
}

// DescribeImage sends a multimodal chat completion: the image as a data
// URL plus a text instruction. Returns the model's text verbatim.
func (c *Client) DescribeImage(ctx context.Context, model, imageURL, instruction string) (string, error) {
	completion, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfArrayOfContentParts: []openai.ChatCompletionContentPartUnionParam{
							{
								OfImageURL: &openai.ChatCompletionContentPartImageParam{
									ImageURL: openai.ChatCompletionContentPartImageImageURLParam{URL: imageURL},
								},
							},
							{
								OfText: &openai.ChatCompletionContentPartTextParam{Text: instruction},
							},
						},
					},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", imaging.ErrUpstream, err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%w: completion returned no choices", imaging.ErrUpstream)
	}

	description := completion.Choices[0].Message.Content
	c.log.Info("description received", "model", model, "length", len(description))
	return description, nil
}
