package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Branding shared by the banner and help output
const (
	AppName = "Jivescope 🔥"
	Tagline = "Play an audio file and watch its stereo spectrum dance in step with the music."
)

var (
	brandRed   = lipgloss.Color("#A40000") // default bar colour
	okGreen    = lipgloss.Color("#00AA00")
	dimGray    = lipgloss.Color("#888888")
	alertAmber = lipgloss.Color("#FFFF00")
	plainWhite = lipgloss.Color("#FFFFFF")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(brandRed).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(dimGray).
			Italic(true)

	// HeaderStyle titles a block of PrintInfo lines
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(FireOrange).
			MarginTop(1)

	SuccessStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(okGreen)

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(brandRed)

	WarningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(alertAmber)

	KeyStyle = lipgloss.NewStyle().
			Foreground(dimGray)

	ValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(plainWhite)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(brandRed).
			Padding(1, 2).
			MarginTop(1)
)

// PrintBanner prints the app name and tagline
func PrintBanner() {
	fmt.Println(TitleStyle.Render(AppName))
	fmt.Println(SubtitleStyle.Render(Tagline))
}

// PrintVersion prints version information
func PrintVersion(version string) {
	fmt.Println(TitleStyle.Render(AppName))
	fmt.Printf("%s %s\n\n", KeyStyle.Render("Version:"), ValueStyle.Render(version))
}

// PrintError prints an error message to stderr
func PrintError(message string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", ErrorStyle.Render("Error:"), message)
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	fmt.Printf("%s %s\n", WarningStyle.Render("Warning:"), message)
}

// PrintSuccess prints a ticked message
func PrintSuccess(message string) {
	fmt.Printf("%s %s\n", SuccessStyle.Render("✓"), message)
}

// PrintInfo prints one aligned key/value line
func PrintInfo(key, value string) {
	fmt.Println(infoLine(key, value))
}

func infoLine(key, value string) string {
	return KeyStyle.Render(fmt.Sprintf("%-10s", key+":")) + " " + ValueStyle.Render(value)
}

// PrintSection prints a section header
func PrintSection(title string) {
	fmt.Println(HeaderStyle.Render(title))
}

// InputInfo describes the audio file and how it will be analysed
type InputInfo struct {
	Path       string
	SampleRate int
	Channels   int
	Duration   time.Duration
	Window     int
	Bins       int
}

// PrintInput prints the probed input and the analysis settings
func PrintInput(in InputInfo) {
	PrintSection("Input")
	for _, row := range inputRows(in) {
		PrintInfo(row[0], row[1])
	}
}

func inputRows(in InputInfo) [][2]string {
	channels := fmt.Sprintf("%d", in.Channels)
	switch in.Channels {
	case 1:
		channels = "mono"
	case 2:
		channels = "stereo"
	default:
		channels += " (first two analysed)"
	}

	window := fmt.Sprintf("%d frames", in.Window)
	if in.SampleRate > 0 {
		window += fmt.Sprintf(" (%s)", FormatDuration(time.Duration(in.Window)*time.Second/time.Duration(in.SampleRate)))
	}

	return [][2]string{
		{"File", in.Path},
		{"Format", fmt.Sprintf("%d Hz, %s", in.SampleRate, channels)},
		{"Length", FormatDuration(in.Duration)},
		{"Window", window},
		{"Bins", fmt.Sprintf("%d per channel", in.Bins)},
	}
}

// FormatDuration formats short durations in ms, longer ones in seconds
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.0fms", d.Seconds()*1000)
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// FormatBytes formats a byte count with a binary unit
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// PrintBox prints content in a styled box
func PrintBox(content string) {
	fmt.Println(BoxStyle.Render(content))
}

// PrintSnapshotSummary prints the result of a snapshot render in a box
func PrintSnapshotSummary(path string, at time.Duration, bins int, size int64, elapsed time.Duration) {
	PrintBox(snapshotSummary(path, at, bins, size, elapsed))
}

func snapshotSummary(path string, at time.Duration, bins int, size int64, elapsed time.Duration) string {
	rows := [][2]string{
		{"Output", path},
		{"Position", FormatDuration(at)},
		{"Bins", fmt.Sprintf("%d per channel", bins)},
		{"File Size", FormatBytes(size)},
		{"Rendered", FormatDuration(elapsed)},
	}

	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = infoLine(r[0], r[1])
	}
	return strings.Join(lines, "\n")
}
