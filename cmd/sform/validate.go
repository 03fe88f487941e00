package main

import (
	"os"

	"github.com/aretw0/sform/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a form file for consistency",
	Long:  `Compiles the form file and reports unknown rules, bad rule arguments, unsupported types and messages aimed at undeclared fields.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := cli.Validate(args[0], os.Stdout); err != nil {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
