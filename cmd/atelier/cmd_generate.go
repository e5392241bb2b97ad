package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"atelier/internal/imaging"
	"atelier/internal/together"
)

var (
	generateOut   string
	generateCount int
)

var generateCmd = &cobra.Command{
	Use:   "generate <prompt>",
	Short: "Generate images from a text prompt",
	Args:  cobra.ExactArgs(1),
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateOut, "out", "o", "image", "Output path base (extension added by format)")
	generateCmd.Flags().IntVarP(&generateCount, "count", "n", 1, "Number of images to generate")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	prompt := args[0]
	cfg, client, err := cliSetup()
	if err != nil {
		return err
	}

	refs, err := client.GenerateImage(cmd.Context(), together.GenerateRequest{
		Model:  cfg.Text2ImageModel,
		Prompt: prompt,
		Width:  cfg.Generate.Width,
		Height: cfg.Generate.Height,
		Steps:  cfg.Generate.Steps,
		N:      generateCount,
	})
	if err != nil {
		return err
	}
	if len(refs) == 0 {
		return fmt.Errorf("%w: no images generated", imaging.ErrNoImageData)
	}

	fetcher := imaging.NewFetcher(nil)
	encoded, err := fetcher.FetchAll(cmd.Context(), refs)
	if err != nil {
		return err
	}

	for i, enc := range encoded {
		artifact, err := imaging.Normalize(enc, imaging.Meta{Prompt: prompt})
		if err != nil {
			return err
		}
		path := outputPath(generateOut, artifact.MIMEType, i, len(encoded))
		if err := os.WriteFile(path, artifact.Data, 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		fmt.Printf("Wrote %s (case %s)\n", path, artifact.CaseID)
	}
	return nil
}
