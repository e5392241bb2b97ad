package main

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"atelier/internal/imaging"
	"atelier/internal/together"
)

var editOut string

var editCmd = &cobra.Command{
	Use:   "edit <image-path> <prompt>",
	Short: "Edit an image based on a text prompt",
	Args:  cobra.ExactArgs(2),
	RunE:  runEdit,
}

func init() {
	editCmd.Flags().StringVarP(&editOut, "out", "o", "edited", "Output path base (extension added by format)")
}

func runEdit(cmd *cobra.Command, args []string) error {
	imagePath, prompt := args[0], args[1]
	cfg, client, err := cliSetup()
	if err != nil {
		return err
	}

	source, err := os.ReadFile(imagePath)
	if err != nil {
		return fmt.Errorf("read source image: %w", err)
	}

	refs, err := client.GenerateImage(cmd.Context(), together.GenerateRequest{
		Model:          cfg.Image2ImageModel,
		Prompt:         prompt,
		ConditionImage: base64.StdEncoding.EncodeToString(source),
		Width:          cfg.Generate.EditWidth,
		Height:         cfg.Generate.EditHeight,
		Steps:          cfg.Generate.Steps,
		N:              1,
	})
	if err != nil {
		return err
	}
	if len(refs) == 0 {
		return fmt.Errorf("%w: no images generated", imaging.ErrNoImageData)
	}

	fetcher := imaging.NewFetcher(nil)
	encoded, err := fetcher.Fetch(cmd.Context(), refs[0])
	if err != nil {
		return err
	}
	artifact, err := imaging.Normalize(encoded, imaging.Meta{Prompt: prompt, SourceImage: imagePath})
	if err != nil {
		return err
	}

	path := outputPath(editOut, artifact.MIMEType, 0, 1)
	if err := os.WriteFile(path, artifact.Data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Printf("Wrote %s (case %s)\n", path, artifact.CaseID)
	return nil
}
