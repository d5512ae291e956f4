package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	primaryColor   = lipgloss.Color("#A40000") // Jivevec red
	accentColor    = lipgloss.Color("#FFA500") // Orange/gold
	successColor   = lipgloss.Color("#00AA00") // Green
	mutedColor     = lipgloss.Color("#888888") // Gray
	highlightColor = lipgloss.Color("#FFFF00") // Yellow
	textColor      = lipgloss.Color("#FFFFFF") // White
)

// Styles
var (
	// Title style - bold red with fire emoji
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	// Subtitle style - muted gray
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)

	// Section header style
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor).
			MarginTop(1).
			MarginBottom(1)

	// Success message style
	SuccessStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(successColor)

	// Error message style
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	// Highlight style for important values
	HighlightStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(highlightColor)

	// Key-value pair styles
	KeyStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	ValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textColor)

	// Box style for framed content
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(1, 2).
			MarginTop(1).
			MarginBottom(1)
)

const (
	appTitle       = "Jivevec 🔥"
	appDescription = "Turn audio files into fixed-length MFCC feature vectors for similarity search and clustering."
)

// PrintBanner prints the application banner
func PrintBanner() {
	fmt.Fprintln(os.Stderr, TitleStyle.Render(appTitle))
	fmt.Fprintln(os.Stderr, SubtitleStyle.Render(appDescription))
	fmt.Fprintln(os.Stderr)
}

// PrintVersion prints version information
func PrintVersion(version string) {
	fmt.Println(TitleStyle.Render(appTitle))
	fmt.Printf("%s %s\n", KeyStyle.Render("Version:"), ValueStyle.Render(version))
	fmt.Println()
}

// PrintError prints an error message
func PrintError(message string) {
	FprintError(os.Stderr, message)
}

// FprintError writes a styled error message to w
func FprintError(w io.Writer, message string) {
	fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render("Error:"), message)
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", HighlightStyle.Render("Warning:"), message)
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", SuccessStyle.Render("✓"), message)
}

// PrintHeader prints a section header
func PrintHeader(w io.Writer, title string) {
	fmt.Fprintln(w, HeaderStyle.Render(title))
}

// PrintInfo prints an informational message
func PrintInfo(key, value string) {
	fmt.Printf("%s %s\n", KeyStyle.Render(key+":"), ValueStyle.Render(value))
}

// FormatDuration formats a duration nicely
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.0fms", d.Seconds()*1000)
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// PrintBox prints content in a styled box
func PrintBox(w io.Writer, content string) {
	fmt.Fprintln(w, BoxStyle.Render(content))
}

// PrintBatchSummary prints a batch summary in a box on stderr
func PrintBatchSummary(succeeded, failed int, elapsed time.Duration) {
	var b strings.Builder

	if failed == 0 {
		b.WriteString(SuccessStyle.Render("✓ Batch Complete!"))
	} else {
		b.WriteString(ErrorStyle.Render("Batch finished with failures"))
	}
	b.WriteString("\n\n")

	b.WriteString(KeyStyle.Render("Vectorised: "))
	b.WriteString(ValueStyle.Render(fmt.Sprintf("%d", succeeded)))
	b.WriteString("\n")

	b.WriteString(KeyStyle.Render("Failed:     "))
	b.WriteString(ValueStyle.Render(fmt.Sprintf("%d", failed)))
	b.WriteString("\n")

	b.WriteString(KeyStyle.Render("Time:       "))
	b.WriteString(ValueStyle.Render(FormatDuration(elapsed)))

	PrintBox(os.Stderr, b.String())
}
