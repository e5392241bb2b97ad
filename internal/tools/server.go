// Package tools exposes the three image tools over MCP. Handlers are
// stateless: each invocation validates its input, makes one upstream call,
// normalizes the result, and returns. There is no session, no cache, and
// no retry; errors are logged once and propagated unchanged to the
// protocol layer.
package tools

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"atelier/internal/config"
	"atelier/internal/imaging"
	"atelier/internal/logging"
	"atelier/internal/together"
)

// Generator is the upstream surface the handlers need. Satisfied by
// *together.Client.
type Generator interface {
	GenerateImage(ctx context.Context, req together.GenerateRequest) ([]imaging.Reference, error)
	DescribeImage(ctx context.Context, model, imageURL, instruction string) (string, error)
}

// Server wraps the MCP SDK server with the image tool handlers.
type Server struct {
	MCPServer *sdkmcp.Server

	cfg    *config.Config
	client Generator
	fetch  *imaging.Fetcher
	log    *slog.Logger
}

// NewServer creates an MCP server exposing generate_image, edit_image and
// describe_image, backed by the given upstream client.
func NewServer(cfg *config.Config, client Generator) *Server {
	s := &Server{
		cfg:    cfg,
		client: client,
		fetch:  imaging.NewFetcher(nil),
		log:    logging.New("tools"),
	}
	s.MCPServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: "atelier", Version: "dev"},
		nil,
	)
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "generate_image",
		Description: "Generate an image from a text description using Together AI.",
	}, s.handleGenerateImage)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "edit_image",
		Description: "Edit or transform an image based on a text description using a reference image.",
	}, s.handleEditImage)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "describe_image",
		Description: "Describe what's in an image using vision AI.",
	}, s.handleDescribeImage)
}

// --- Tool input/output types ---

type generateImageInput struct {
	Prompt string `json:"prompt" jsonschema:"a text description of the desired image"`
}

type editImageInput struct {
	ImagePath string `json:"image_path" jsonschema:"absolute path to the image file to edit"`
	Prompt    string `json:"prompt" jsonschema:"a text description of how to edit/transform the image"`
}

type describeImageInput struct {
	ImagePath string `json:"image_path" jsonschema:"absolute path to the image file to describe"`
}

type imageOutput struct {
	CaseID   string `json:"case_id"`
	MIMEType string `json:"mime_type"`
}

type describeOutput struct {
	Description string `json:"description"`
}

// --- Tool handlers ---

func (s *Server) handleGenerateImage(ctx context.Context, _ *sdkmcp.CallToolRequest, input generateImageInput) (*sdkmcp.CallToolResult, imageOutput, error) {
	s.log.Info("generate_image called",
		"prompt", truncate(input.Prompt, 100), "model", s.cfg.Text2ImageModel)

	if input.Prompt == "" {
		err := fmt.Errorf("%w: prompt is required", imaging.ErrInvalidInput)
		s.log.Error("generate_image failed", "error", err)
		return nil, imageOutput{}, err
	}

	artifact, err := s.generate(ctx, together.GenerateRequest{
		Model:  s.cfg.Text2ImageModel,
		Prompt: input.Prompt,
		Width:  s.cfg.Generate.Width,
		Height: s.cfg.Generate.Height,
		Steps:  s.cfg.Generate.Steps,
		N:      1,
	}, imaging.Meta{Prompt: input.Prompt})
	if err != nil {
		s.log.Error("generate_image failed",
			"prompt", truncate(input.Prompt, 100), "error", err)
		return nil, imageOutput{}, err
	}

	s.log.Info("generate_image completed", "case_id", artifact.CaseID, "mime_type", artifact.MIMEType)
	return imageResult(artifact), imageOutput{CaseID: artifact.CaseID, MIMEType: artifact.MIMEType}, nil
}

func (s *Server) handleEditImage(ctx context.Context, _ *sdkmcp.CallToolRequest, input editImageInput) (*sdkmcp.CallToolResult, imageOutput, error) {
	s.log.Info("edit_image called",
		"image_path", input.ImagePath, "prompt", truncate(input.Prompt, 100),
		"model", s.cfg.Image2ImageModel)

	if input.ImagePath == "" || input.Prompt == "" {
		err := fmt.Errorf("%w: image_path and prompt are required", imaging.ErrInvalidInput)
		s.log.Error("edit_image failed", "error", err)
		return nil, imageOutput{}, err
	}

	source, err := encodeFile(input.ImagePath)
	if err != nil {
		s.log.Error("edit_image failed", "image_path", input.ImagePath, "error", err)
		return nil, imageOutput{}, err
	}

	artifact, err := s.generate(ctx, together.GenerateRequest{
		Model:          s.cfg.Image2ImageModel,
		Prompt:         input.Prompt,
		ConditionImage: source,
		Width:          s.cfg.Generate.EditWidth,
		Height:         s.cfg.Generate.EditHeight,
		Steps:          s.cfg.Generate.Steps,
		N:              1,
	}, imaging.Meta{Prompt: input.Prompt, SourceImage: input.ImagePath})
	if err != nil {
		s.log.Error("edit_image failed",
			"image_path", input.ImagePath, "prompt", truncate(input.Prompt, 100), "error", err)
		return nil, imageOutput{}, err
	}

	s.log.Info("edit_image completed", "case_id", artifact.CaseID, "mime_type", artifact.MIMEType)
	return imageResult(artifact), imageOutput{CaseID: artifact.CaseID, MIMEType: artifact.MIMEType}, nil
}

func (s *Server) handleDescribeImage(ctx context.Context, _ *sdkmcp.CallToolRequest, input describeImageInput) (*sdkmcp.CallToolResult, describeOutput, error) {
	s.log.Info("describe_image called",
		"image_path", input.ImagePath, "model", s.cfg.Image2TextModel)

	if input.ImagePath == "" {
		err := fmt.Errorf("%w: image_path is required", imaging.ErrInvalidInput)
		s.log.Error("describe_image failed", "error", err)
		return nil, describeOutput{}, err
	}

	encoded, err := encodeFile(input.ImagePath)
	if err != nil {
		s.log.Error("describe_image failed", "image_path", input.ImagePath, "error", err)
		return nil, describeOutput{}, err
	}
	format, err := imaging.DetectFormat(encoded)
	if err != nil {
		s.log.Error("describe_image failed", "image_path", input.ImagePath, "error", err)
		return nil, describeOutput{}, err
	}

	description, err := s.client.DescribeImage(ctx,
		s.cfg.Image2TextModel, imaging.DataURL(format, encoded), together.DescribeInstruction)
	if err != nil {
		s.log.Error("describe_image failed", "image_path", input.ImagePath, "error", err)
		return nil, describeOutput{}, err
	}

	s.log.Info("describe_image completed", "description_length", len(description))
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: description}},
	}, describeOutput{Description: description}, nil
}

// generate runs the shared call → fetch → normalize pipeline for both
// image-producing tools.
func (s *Server) generate(ctx context.Context, req together.GenerateRequest, meta imaging.Meta) (*imaging.Artifact, error) {
	refs, err := s.client.GenerateImage(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		return nil, fmt.Errorf("%w: no images generated", imaging.ErrNoImageData)
	}

	encoded, err := s.fetch.Fetch(ctx, refs[0])
	if err != nil {
		return nil, err
	}
	return imaging.Normalize(encoded, meta)
}

// imageResult renders an artifact as MCP image content. The case ID and
// request provenance ride in the content metadata.
func imageResult(a *imaging.Artifact) *sdkmcp.CallToolResult {
	meta := map[string]any{"case_id": a.CaseID}
	for k, v := range a.Annotations {
		meta[k] = v
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{
			&sdkmcp.ImageContent{
				Data:     a.Data,
				MIMEType: a.MIMEType,
				Meta:     meta,
			},
		},
	}
}

// encodeFile reads a local image fully and returns it base64-encoded. The
// file handle is released before any further processing.
func encodeFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read source image: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
