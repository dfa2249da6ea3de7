package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const statusLabelWidth = 16

// renderStatusLine formats "label: value" with the value colored by kind.
func renderStatusLine(label string, kind statusKind, value string, colorize bool) string {
	if colorize {
		if color := statusKindColor(kind); color != "" {
			value = color + value + ansiReset
		}
	}
	return fmt.Sprintf("  %-*s %s", statusLabelWidth, label+":", value)
}

func statusKindColor(kind statusKind) string {
	switch kind {
	case statusOK:
		return ansiGreen
	case statusWarn:
		return ansiYellow
	case statusError:
		return ansiRed
	case statusInfo:
		return ansiBlue
	default:
		return ""
	}
}

// runStatusKind maps ledger run and event states to a color.
func runStatusKind(status string) statusKind {
	switch strings.ToLower(status) {
	case "completed", "created", "updated":
		return statusOK
	case "halted", "warning", "running":
		return statusWarn
	case "failed", "rejected":
		return statusError
	default:
		return statusInfo
	}
}

func colorText(kind statusKind, value string, colorize bool) string {
	if !colorize || value == "" {
		return value
	}
	return statusKindColor(kind) + value + ansiReset
}

func renderSectionHeader(title string, colorize bool) []string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(line))
	if colorize {
		line = ansiBlue + line + ansiReset
		rule = ansiBlue + rule + ansiReset
	}
	return []string{line, rule}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
