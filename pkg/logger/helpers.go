package logger

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Icons for different log types
const (
	IconSuccess = "✅"
	IconError   = "❌"
	IconRefresh = "🔄"
	IconCheck   = "✓"
	IconCross   = "✗"
)

// Success logs a success message with a green checkmark
func Success(args ...interface{}) {
	message := fmt.Sprint(args...)
	defaultLogger.Info(IconSuccess + " " + message)
}

// Successf logs a formatted success message
func Successf(format string, args ...interface{}) {
	Success(fmt.Sprintf(format, args...))
}

// Progress logs a progress message with a refresh icon
func Progress(args ...interface{}) {
	message := fmt.Sprint(args...)
	defaultLogger.Info(IconRefresh + " " + message)
}

// Progressf logs a formatted progress message
func Progressf(format string, args ...interface{}) {
	Progress(fmt.Sprintf(format, args...))
}

// LogSection creates a visual section separator
func LogSection(title string) {
	line := strings.Repeat("=", 50)

	if l, ok := defaultLogger.(*logger); ok && !l.noColor {
		c := color.New(color.FgCyan)
		c.Println(line)
		color.New(color.FgCyan, color.Bold).Println(title)
		c.Println(line)
	} else {
		fmt.Println(line)
		fmt.Println(title)
		fmt.Println(line)
	}
}
