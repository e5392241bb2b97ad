package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"atelier/internal/logging"
	"atelier/internal/together"
	"atelier/internal/tools"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP image tool server over stdio",
	Long: `Starts an MCP server over stdin/stdout exposing generate_image,
edit_image and describe_image. Diagnostics go to a per-process log file in
AGENT_SHARED_DIR (stdio carries the protocol).

The server monitors for parent process death. When the host disconnects,
the server self-terminates to prevent zombie processes.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logFile := logging.OpenFile(cfg.SharedDir)
	if logFile != nil {
		defer logFile.Close()
		logging.Init(slog.LevelInfo, "text", logFile)
	} else {
		fmt.Fprintf(os.Stderr, "failed to open log file in %s or %s; logging to stderr\n",
			cfg.SharedDir, os.TempDir())
		logging.Init(slog.LevelInfo, "text", os.Stderr)
	}

	log := logging.New("serve")
	log.Info("MCP server started",
		"pid", os.Getpid(),
		"text2image_model", cfg.Text2ImageModel,
		"image2image_model", cfg.Image2ImageModel,
		"image2text_model", cfg.Image2TextModel)

	client := together.New(together.Options{APIKey: cfg.APIKey, BaseURL: cfg.BaseURL})
	srv := tools.NewServer(cfg, client)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	tools.WatchParent(ctx, cancel)

	return srv.MCPServer.Run(ctx, &sdkmcp.StdioTransport{})
}
