package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/sform"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of sform",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("sform version %s\n", strings.TrimSpace(sform.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
