package main

import (
	"fmt"
	"os"

	"github.com/aretw0/sform/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve <file>",
	Short: "Start the HTTP server",
	Long: `Serves the form over HTTP: JSON endpoints for reading and editing fields, a
Server-Sent Events stream of settled changes and Prometheus metrics on /metrics.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetString("port")

		err := cli.Serve(cli.ServeOptions{
			Path:  args[0],
			Port:  port,
			Debug: debugFlag(cmd),
			Mask:  maskFlag(cmd),
		})
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
}
