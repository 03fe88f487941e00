package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/aretw0/sform/internal/cli"
	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:   "edit <file>",
	Short: "Apply edits to a form and print the settled result",
	Long: `Loads the form, applies every --set assignment in order and prints the settled form.
With --json the result carries the values parsed to their declared types.`,
	Example: `  sform edit signup.yaml --set name=Mara --set lastname=Smith
  sform edit signup.yaml --set age=41 --json --strict`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		set, _ := cmd.Flags().GetStringArray("set")
		jsonMode, _ := cmd.Flags().GetBool("json")
		strict, _ := cmd.Flags().GetBool("strict")

		err := cli.Edit(cli.EditOptions{
			Path:   args[0],
			Set:    set,
			JSON:   jsonMode,
			Strict: strict,
			Debug:  debugFlag(cmd),
			Mask:   maskFlag(cmd),
		})
		if err != nil {
			if !errors.Is(err, cli.ErrFormInvalid) {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(editCmd)

	editCmd.Flags().StringArray("set", nil, "Edit to apply, as id=value (repeatable)")
	editCmd.Flags().Bool("json", false, "Print the result as JSON")
	editCmd.Flags().Bool("strict", false, "Exit with status 1 when the settled form is invalid")
}
