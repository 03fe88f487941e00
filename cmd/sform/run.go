package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/aretw0/sform/internal/cli"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Edit a form interactively",
	Long: `Starts an interactive session over the form file. Type field=value to edit a field,
:help for the other commands.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		headless, _ := cmd.Flags().GetBool("headless")
		jsonMode, _ := cmd.Flags().GetBool("json")
		watchMode, _ := cmd.Flags().GetBool("watch")
		strict, _ := cmd.Flags().GetBool("strict")
		plain, _ := cmd.Flags().GetBool("plain")

		err := cli.Execute(cli.RunOptions{
			Path:     args[0],
			Headless: headless,
			JSON:     jsonMode,
			Watch:    watchMode,
			Strict:   strict,
			Debug:    debugFlag(cmd),
			Mask:     maskFlag(cmd),
			Pretty:   !plain && term.IsTerminal(int(os.Stdout.Fd())),
		})
		if err != nil {
			if !errors.Is(err, cli.ErrFormInvalid) {
				fmt.Printf("Error: %v\n", err)
			}
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("headless", false, "Run in headless mode (no banner, no signal handling)")
	runCmd.Flags().Bool("json", false, "Run in JSON mode (NDJSON input/output)")
	runCmd.Flags().BoolP("watch", "w", false, "Reload the form when its file changes")
	runCmd.Flags().Bool("strict", false, "Exit with status 1 when the form ends invalid")
	runCmd.Flags().Bool("plain", false, "Print raw markdown even on a terminal")
}
