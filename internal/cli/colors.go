package cli

import "github.com/charmbracelet/lipgloss"

// Fire palette shared by the help output, messages and the live view 🔥
var (
	FireYellow  = lipgloss.Color("#FFD700")
	FireOrange  = lipgloss.Color("#FF8C00")
	FireRed     = lipgloss.Color("#FF4500")
	FireCrimson = lipgloss.Color("#DC143C")

	// WarmGray is for labels and hints
	WarmGray = lipgloss.Color("#B8860B")
)

// SpectrumGradient colours spectrum bars from quiet (ember) to loud (gold)
var SpectrumGradient = []lipgloss.Color{
	"#8B0000",
	"#B22222",
	FireCrimson,
	FireRed,
	"#FF6347",
	FireOrange,
	"#FFA500",
	FireYellow,
}

// GradientColor picks the SpectrumGradient entry for a level in [0,1]
func GradientColor(level float64) lipgloss.Color {
	last := len(SpectrumGradient) - 1
	idx := min(max(int(level*float64(last)), 0), last)
	return SpectrumGradient[idx]
}
