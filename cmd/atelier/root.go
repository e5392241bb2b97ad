package main

import (
	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

// configPath is the optional YAML overlay applied on top of the
// environment, shared by all subcommands.
var configPath string

var rootCmd = &cobra.Command{
	Use:   "atelier",
	Short: "Image generation tools backed by Together AI",
	Long: "Atelier exposes text-to-image generation, image editing and image\n" +
		"description as MCP tools over stdio, or as one-shot CLI commands.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Optional YAML config overlay")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(describeCmd)
	rootCmd.Version = version
}
