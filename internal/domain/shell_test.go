package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseShellName(t *testing.T) {
	tests := map[string]ShellName{
		"/usr/local/bin/zsh": ShellZsh,
		" Bash ":             ShellBash,
		"bash":               ShellBash,
		"fish":               ShellUnknown,
		"":                   ShellUnknown,
	}
	for input, want := range tests {
		assert.Equal(t, want, ParseShellName(input), input)
	}
}

func TestShellStatusInstalled(t *testing.T) {
	assert.True(t, ShellStatus{ScriptExists: true, LinePresent: true}.Installed())
	assert.False(t, ShellStatus{ScriptExists: true}.Installed())
}
