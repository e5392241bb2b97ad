// atelier is the image tool CLI and MCP server.
//
// Usage:
//
//	atelier serve                       # MCP server over stdio
//	atelier generate "<prompt>" -o out  # text-to-image
//	atelier edit <image> "<prompt>"     # image-to-image
//	atelier describe <image>            # vision-to-text
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// Best-effort; configuration is validated per command.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
