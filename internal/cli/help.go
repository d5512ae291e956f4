package cli

import (
	"fmt"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
)

// Custom help styles - fire theme
var (
	helpTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(FireYellow).
			MarginBottom(1)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(FireOrange).
			Italic(true).
			MarginBottom(1)

	helpSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(FireOrange).
				MarginTop(1)

	helpFlagStyle = lipgloss.NewStyle().
			Foreground(FireYellow).
			Bold(true)

	helpArgStyle = lipgloss.NewStyle().
			Foreground(FireRed).
			Bold(true)

	helpDefaultStyle = lipgloss.NewStyle().
				Foreground(WarmGray).
				Italic(true)
)

// StyledHelpPrinter creates a custom help printer with Lipgloss styling
func StyledHelpPrinter(options kong.HelpOptions) kong.HelpPrinter {
	return kong.HelpPrinter(func(options kong.HelpOptions, ctx *kong.Context) error {
		var sb strings.Builder

		// Title and description
		sb.WriteString(helpTitleStyle.Render(appTitle))
		sb.WriteString("\n")
		sb.WriteString(helpDescStyle.Render(appDescription))
		sb.WriteString("\n")

		node := ctx.Selected()
		if node == nil {
			node = ctx.Model.Node
		}

		// Usage
		sb.WriteString(helpSectionStyle.Render("Usage:"))
		sb.WriteString("\n  ")
		sb.WriteString(usageLine(ctx, node))
		sb.WriteString("\n")

		// Commands section
		commands := getCommands(node)
		if len(commands) > 0 {
			sb.WriteString("\n")
			sb.WriteString(helpSectionStyle.Render("Commands:"))
			sb.WriteString("\n")
			for _, cmd := range commands {
				sb.WriteString("  ")
				sb.WriteString(helpArgStyle.Render(fmt.Sprintf("%-10s", cmd.name)))
				if cmd.help != "" {
					sb.WriteString("  ")
					sb.WriteString(cmd.help)
				}
				sb.WriteString("\n")
			}
		}

		// Arguments section
		args := getArguments(node)
		if len(args) > 0 {
			sb.WriteString("\n")
			sb.WriteString(helpSectionStyle.Render("Arguments:"))
			sb.WriteString("\n")
			for _, arg := range args {
				sb.WriteString("  ")
				sb.WriteString(helpArgStyle.Render(arg.name))
				if arg.help != "" {
					sb.WriteString("  ")
					sb.WriteString(arg.help)
				}
				sb.WriteString("\n")
			}
		}

		// Flags section
		flags := getFlags(ctx, node)
		if len(flags) > 0 {
			sb.WriteString("\n")
			sb.WriteString(helpSectionStyle.Render("Flags:"))
			sb.WriteString("\n")
			for _, flag := range flags {
				sb.WriteString("  ")
				sb.WriteString(helpFlagStyle.Render(flag.flags))
				if flag.help != "" {
					sb.WriteString("  ")
					sb.WriteString(flag.help)
				}
				if flag.defaultVal != "" {
					sb.WriteString(" ")
					sb.WriteString(helpDefaultStyle.Render("(default: " + flag.defaultVal + ")"))
				}
				sb.WriteString("\n")
			}
		}

		sb.WriteString("\n")
		fmt.Fprint(ctx.Stdout, sb.String())
		return nil
	})
}

type argument struct {
	name string
	help string
}

type flag struct {
	flags      string
	help       string
	defaultVal string
}

// usageLine renders "jivevec <command> <args> [flags]" for the selected node
func usageLine(ctx *kong.Context, node *kong.Node) string {
	if node == ctx.Model.Node {
		return fmt.Sprintf("%s <command> [flags]", ctx.Model.Name)
	}

	parts := []string{ctx.Model.Name, node.Name}
	for _, arg := range node.Positional {
		parts = append(parts, arg.Summary())
	}
	parts = append(parts, "[flags]")
	return strings.Join(parts, " ")
}

func getCommands(node *kong.Node) []argument {
	var commands []argument
	for _, child := range node.Children {
		if child.Hidden {
			continue
		}
		commands = append(commands, argument{name: child.Name, help: child.Help})
	}
	return commands
}

func getArguments(node *kong.Node) []argument {
	var args []argument

	// Parse arguments from the model
	for _, arg := range node.Positional {
		name := arg.Summary()
		help := arg.Help
		args = append(args, argument{name: name, help: help})
	}

	return args
}

func getFlags(ctx *kong.Context, node *kong.Node) []flag {
	var flags []flag

	// Always include help flag
	flags = append(flags, flag{
		flags: "-h, --help",
		help:  "Show context-sensitive help.",
	})

	// Global flags first, then the selected command's own
	nodeFlags := ctx.Model.Node.Flags
	if node != ctx.Model.Node {
		nodeFlags = append(append([]*kong.Flag(nil), nodeFlags...), node.Flags...)
	}

	for _, f := range nodeFlags {
		if f.Name == "help" {
			continue // Already added
		}

		flagStr := ""
		if f.Short != 0 {
			flagStr = fmt.Sprintf("-%c, --%s", f.Short, f.Name)
		} else {
			flagStr = fmt.Sprintf("--%s", f.Name)
		}

		if !f.IsBool() && f.PlaceHolder != "" {
			flagStr += "=" + strings.ToUpper(f.PlaceHolder)
		}

		// Only show default if it's a meaningful value (not empty, not type placeholder)
		defaultVal := ""
		if f.HasDefault && !f.IsBool() {
			val := f.Default
			if val != "" && val != "STRING" && val != "BOOL" {
				defaultVal = val
			}
		}

		flags = append(flags, flag{
			flags:      flagStr,
			help:       f.Help,
			defaultVal: defaultVal,
		})
	}

	return flags
}
