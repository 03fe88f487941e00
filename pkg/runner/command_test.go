package runner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line string
		want Command
	}{
		{"name=Maria", Command{Kind: CommandEdit, Field: "name", Value: "Maria"}},
		{" name =a=b", Command{Kind: CommandEdit, Field: "name", Value: "a=b"}},
		{"name=", Command{Kind: CommandEdit, Field: "name", Value: ""}},
		{"", Command{Kind: CommandShow}},
		{":show", Command{Kind: CommandShow}},
		{":values", Command{Kind: CommandValues}},
		{"?", Command{Kind: CommandHelp}},
		{"exit", Command{Kind: CommandQuit}},
		{":q", Command{Kind: CommandQuit}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := ParseCommand(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCommand_Errors(t *testing.T) {
	for _, line := range []string{":frobnicate", "no equals sign", "=value"} {
		_, err := ParseCommand(line)
		assert.ErrorIs(t, err, ErrUnknownCommand, line)
	}
}
