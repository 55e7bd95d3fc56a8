package output

import (
	"io"
	"os"
	"runtime"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// SuccessIcon returns a green checkmark, or a plain one when color is off.
func SuccessIcon(noColor bool) string {
	if noColor {
		return "✓"
	}
	return color.New(color.FgGreen).Sprint("✓")
}

// ErrorIcon returns a red cross, or a plain one when color is off.
func ErrorIcon(noColor bool) string {
	if noColor {
		return "✗"
	}
	return color.New(color.FgRed).Sprint("✗")
}

// InfoIcon returns a blue info mark, or a plain one when color is off.
func InfoIcon(noColor bool) string {
	if noColor {
		return "ℹ"
	}
	return color.New(color.FgBlue).Sprint("ℹ")
}

// IsTerminal checks if the writer is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// SupportsColor reports whether stdout should get colored output.
// NO_COLOR and FORCE_COLOR take precedence over terminal detection.
func SupportsColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}

	if !IsTerminal(os.Stdout) {
		return false
	}

	// Modern Windows terminals handle ANSI without a TERM variable
	if runtime.GOOS == "windows" {
		return true
	}

	term := os.Getenv("TERM")
	if term == "" || term == "dumb" {
		return false
	}
	return true
}
