package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
)

var (
	helpTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(FireYellow)

	helpTaglineStyle = lipgloss.NewStyle().
				Foreground(FireOrange).
				Italic(true)

	helpGroupStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(FireOrange)

	helpGroupNoteStyle = lipgloss.NewStyle().
				Foreground(WarmGray)

	helpFlagStyle = lipgloss.NewStyle().
			Foreground(FireYellow).
			Bold(true)

	helpArgStyle = lipgloss.NewStyle().
			Foreground(FireRed).
			Bold(true)

	helpHintStyle = lipgloss.NewStyle().
			Foreground(WarmGray).
			Italic(true)
)

// generalGroup collects flags without a group tag
const generalGroup = "General"

// helpEntry is one row of the help listing
type helpEntry struct {
	name string
	help string
	hint string // default or allowed values
}

// helpSection is a titled run of flags sharing a kong group
type helpSection struct {
	title   string
	note    string
	entries []helpEntry
}

// StyledHelpPrinter renders kong help in the fire theme, with flags listed
// under their kong group titles
func StyledHelpPrinter(_ kong.HelpOptions) kong.HelpPrinter {
	return func(_ kong.HelpOptions, ctx *kong.Context) error {
		return writeHelp(ctx.Stdout, ctx.Model)
	}
}

func writeHelp(w io.Writer, app *kong.Application) error {
	var sb strings.Builder

	sb.WriteString(helpTitleStyle.Render(AppName))
	sb.WriteString("\n")
	sb.WriteString(helpTaglineStyle.Render(Tagline))
	sb.WriteString("\n\n")

	sb.WriteString(helpGroupStyle.Render("Usage:"))
	sb.WriteString("\n  ")
	sb.WriteString(usageLine(app))
	sb.WriteString("\n")

	if args := positionalEntries(app.Node); len(args) > 0 {
		sb.WriteString("\n")
		sb.WriteString(helpGroupStyle.Render("Arguments:"))
		sb.WriteString("\n")
		writeEntries(&sb, args, helpArgStyle)
	}

	for _, sec := range flagSections(app.Node) {
		sb.WriteString("\n")
		sb.WriteString(helpGroupStyle.Render(sec.title + ":"))
		sb.WriteString("\n")
		if sec.note != "" {
			sb.WriteString("  ")
			sb.WriteString(helpGroupNoteStyle.Render(sec.note))
			sb.WriteString("\n")
		}
		writeEntries(&sb, sec.entries, helpFlagStyle)
	}

	sb.WriteString("\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

func usageLine(app *kong.Application) string {
	var parts []string
	parts = append(parts, app.Name)
	for _, arg := range app.Node.Positional {
		parts = append(parts, arg.Summary())
	}
	parts = append(parts, "[flags]")
	return strings.Join(parts, " ")
}

// writeEntries lines up the help text of a section in one column
func writeEntries(sb *strings.Builder, entries []helpEntry, nameStyle lipgloss.Style) {
	width := 0
	for _, e := range entries {
		width = max(width, lipgloss.Width(e.name))
	}

	for _, e := range entries {
		sb.WriteString("  ")
		sb.WriteString(nameStyle.Render(e.name))
		if e.help != "" || e.hint != "" {
			sb.WriteString(strings.Repeat(" ", width-lipgloss.Width(e.name)+2))
			sb.WriteString(e.help)
		}
		if e.hint != "" {
			sb.WriteString(" ")
			sb.WriteString(helpHintStyle.Render("(" + e.hint + ")"))
		}
		sb.WriteString("\n")
	}
}

func positionalEntries(node *kong.Node) []helpEntry {
	var out []helpEntry
	for _, arg := range node.Positional {
		out = append(out, helpEntry{name: arg.Summary(), help: arg.Help})
	}
	return out
}

// flagSections groups visible flags by kong group in the order groups first
// appear. Ungrouped flags, help included, come first.
func flagSections(node *kong.Node) []helpSection {
	general := helpSection{
		title:   generalGroup,
		entries: []helpEntry{{name: "-h, --help", help: "Show this help."}},
	}

	var grouped []*helpSection
	index := map[string]*helpSection{}

	for _, f := range node.Flags {
		if f.Hidden || f.Name == "help" {
			continue
		}

		entry := flagEntry(f)
		if f.Group == nil {
			general.entries = append(general.entries, entry)
			continue
		}

		sec, ok := index[f.Group.Key]
		if !ok {
			sec = &helpSection{title: f.Group.Title, note: f.Group.Description}
			if sec.title == "" {
				sec.title = f.Group.Key
			}
			index[f.Group.Key] = sec
			grouped = append(grouped, sec)
		}
		sec.entries = append(sec.entries, entry)
	}

	out := []helpSection{general}
	for _, sec := range grouped {
		out = append(out, *sec)
	}
	return out
}

func flagEntry(f *kong.Flag) helpEntry {
	name := "--" + f.Name
	if f.Short != 0 {
		name = fmt.Sprintf("-%c, %s", f.Short, name)
	}
	if !f.IsBool() && f.PlaceHolder != "" {
		name += "=" + strings.ToUpper(f.PlaceHolder)
	}

	var hint string
	switch {
	case f.Enum != "":
		hint = "one of: " + strings.Join(f.EnumSlice(), ", ")
		if f.HasDefault && f.Default != "" {
			hint += "; default: " + f.Default
		}
	case f.HasDefault && !f.IsBool() && f.Default != "":
		hint = "default: " + f.Default
	}

	return helpEntry{name: name, help: f.Help, hint: hint}
}
