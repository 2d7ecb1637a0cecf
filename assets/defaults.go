package assets

import (
	_ "embed"
)

// DefaultConfigYAML contains the embedded default configuration.
//
//go:embed defaults/config.yaml
var DefaultConfigYAML []byte

// DefaultBlacklistYAML is the commented template of the extra blacklist rules file.
//
//go:embed defaults/blacklist.yaml
var DefaultBlacklistYAML []byte

// BashHook is the error-log hook sourced from ~/.bashrc.
//
//go:embed shell/hook.bash
var BashHook string

// ZshHook is the error-log hook sourced from ~/.zshrc.
//
//go:embed shell/hook.zsh
var ZshHook string

// HookLogPlaceholder is replaced with the configured error log path.
const HookLogPlaceholder = "__ALEX_ERROR_LOG__"
