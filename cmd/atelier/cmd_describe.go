package main

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"atelier/internal/imaging"
	"atelier/internal/together"
)

var describeCmd = &cobra.Command{
	Use:   "describe <image-path>",
	Short: "Describe what's in an image",
	Args:  cobra.ExactArgs(1),
	RunE:  runDescribe,
}

func runDescribe(cmd *cobra.Command, args []string) error {
	imagePath := args[0]
	cfg, client, err := cliSetup()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(imagePath)
	if err != nil {
		return fmt.Errorf("read source image: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(data)

	format, err := imaging.DetectFormat(encoded)
	if err != nil {
		return err
	}

	description, err := client.DescribeImage(cmd.Context(),
		cfg.Image2TextModel, imaging.DataURL(format, encoded), together.DescribeInstruction)
	if err != nil {
		return err
	}

	fmt.Println(description)
	return nil
}
