package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/itemshuffle/pkg/shuffle"
)

// Terminal palette (ANSI 256).
var (
	colorAccent = lipgloss.Color("36")
	colorOK     = lipgloss.Color("35")
	colorWarn   = lipgloss.Color("220")
	colorFail   = lipgloss.Color("167")
	colorValue  = lipgloss.Color("255")
	colorLabel  = lipgloss.Color("245")
	colorMuted  = lipgloss.Color("240")
	colorGold   = lipgloss.Color("178")
)

var (
	// StyleDim renders secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorMuted)
	// StyleValue renders data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorValue)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorAccent)
	styleLabel       = lipgloss.NewStyle().Foreground(colorLabel).Width(10)
	styleItem        = lipgloss.NewStyle().Foreground(colorAccent)
	styleSphere      = lipgloss.NewStyle().Foreground(colorGold).Bold(true)
)

// status is a one-character marker printed before a message.
type status struct {
	icon  string
	style lipgloss.Style
}

var (
	statusOK   = status{"✓", lipgloss.NewStyle().Foreground(colorOK)}
	statusFail = status{"✗", lipgloss.NewStyle().Foreground(colorFail)}
	statusWarn = status{"!", lipgloss.NewStyle().Foreground(colorWarn)}
	statusInfo = status{"›", lipgloss.NewStyle().Foreground(colorLabel)}
)

func (s status) print(msg string) {
	fmt.Println(s.style.Render(s.icon) + " " + msg)
}

func printSuccess(format string, args ...any) { statusOK.print(fmt.Sprintf(format, args...)) }
func printError(format string, args ...any)   { statusFail.print(fmt.Sprintf(format, args...)) }
func printInfo(format string, args ...any)    { statusInfo.print(fmt.Sprintf(format, args...)) }

func printWarning(format string, args ...any) {
	statusWarn.print(lipgloss.NewStyle().Foreground(colorWarn).Render(fmt.Sprintf(format, args...)))
}

// printDetail prints an indented muted line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile reports a file that was written.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render("→") + " " + StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Println(styleLabel.Render(key) + " " + StyleValue.Render(value))
}

// printStats prints the size of a reduction and whether it came from cache.
func printStats(locations, items int, cached bool) {
	source := StyleDim.Render("fresh")
	if cached {
		source = lipgloss.NewStyle().Foreground(colorOK).Render("cached")
	}
	dot := StyleDim.Render(" · ")
	fmt.Println("  " +
		StyleDim.Render(fmt.Sprintf("%d slots", locations)) + dot +
		StyleDim.Render(fmt.Sprintf("%d items", items)) + dot +
		source)
}

// printAudit warns about slots no placement can reach. Slots without any
// route are reported once, as such.
func printAudit(a shuffle.Audit) {
	for _, name := range a.NoRoutes {
		printWarning("slot %s has no way in", name)
	}
	for _, name := range a.Unreachable {
		if !slices.Contains(a.NoRoutes, name) {
			printWarning("slot %s can never be reached", name)
		}
	}
}

// printAssignment prints the slot → item table sorted by slot name.
func printAssignment(assignment map[string]string) {
	header := lipgloss.NewStyle().Foreground(colorLabel).Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("Slot", "Item").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return header
			case col == 1:
				return cell.Foreground(colorAccent)
			default:
				return cell
			}
		})
	for _, slot := range sortedSlots(assignment) {
		t.Row(slot, assignment[slot])
	}
	fmt.Println(t.Render())
}

// printSpheres prints the playthrough: each sphere is the set of slots a
// player can open with what the earlier spheres gave them.
func printSpheres(spheres [][]string, assignment map[string]string) {
	for i, sphere := range spheres {
		fmt.Println(styleSphere.Render(fmt.Sprintf("sphere %d", i)))
		var b strings.Builder
		for _, slot := range sphere {
			b.Reset()
			b.WriteString("  " + slot)
			if item, ok := assignment[slot]; ok {
				b.WriteString(StyleDim.Render(" → ") + styleItem.Render(item))
			}
			fmt.Println(b.String())
		}
	}
}
