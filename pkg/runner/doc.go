/*
Package runner implements the interactive edit loop and I/O orchestration for a form.

It is the bridge between a form and a person (or a program) typing edits. The runner
reads one command per line, applies edits, and presents the settled form through a
pluggable handler.

# Key Components

  - Runner: the loop. It stops on ":quit", end of input or an interrupt signal.
  - IOHandler: decouples how the form is shown and how commands are read.
  - TextHandler: a markdown table per settled edit, optionally rendered for a terminal.
  - JSONHandler: JSON Lines in and out, for scripted use.

# Commands

	name=Maria    edit field "name" with raw value "Maria"
	:show         print the form again
	:values       print the current values
	:help         list the commands
	:quit         stop (also "exit" and "quit")

# Usage

	r := runner.NewRunner(
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
	)

	if err := r.Run(ctx, form); err != nil {
		log.Fatal(err)
	}
*/
package runner
