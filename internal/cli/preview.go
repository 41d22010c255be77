package cli

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/skysim/skyplan/pkg/layout"
	"github.com/skysim/skyplan/pkg/plan"
	"github.com/skysim/skyplan/pkg/rng"
)

// previewCommand creates the preview command for terminal scatter display.
func (c *CLI) previewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "preview [plan.json]",
		Short: "Preview a layout plan in the terminal",
		Long: `Preview a layout plan as an ASCII scatter in the terminal.

The view rescales to the terminal size and marks each object with a dot.
Press r to re-roll the random layouts with a fresh seed, q to quit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := plan.ReadFile(args[0])
			if err != nil {
				return err
			}
			prog := tea.NewProgram(newPreviewModel(p))
			_, err = prog.Run()
			return err
		},
	}
}

// =============================================================================
// PreviewModel - Terminal scatter view
// =============================================================================

var (
	previewDotStyle  = lipgloss.NewStyle().Foreground(colorCyan)
	previewAxisStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// previewModel is the bubbletea model for the plan preview.
type previewModel struct {
	plan   plan.Plan
	shifts []layout.Shift
	seed   uint64
	width  int
	height int
	err    error
}

func newPreviewModel(p plan.Plan) previewModel {
	return previewModel{
		plan:   p,
		shifts: p.Shifts,
		seed:   p.Seed,
		width:  80,
		height: 24,
	}
}

func (m previewModel) Init() tea.Cmd {
	return nil
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc", "enter":
			return m, tea.Quit
		case "r":
			return m.reroll(), nil
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

// reroll regenerates the shifts with a fresh seed, rebuilding the planner
// from the plan's recorded provenance. Deterministic layouts come back
// unchanged, which is the point of a re-roll: only sampled positions move.
func (m previewModel) reroll() previewModel {
	planner, err := layout.New(m.plan.Kind, layout.Options{
		FieldDim:   m.plan.FieldDim,
		Buffer:     m.plan.Buffer,
		PixelScale: m.plan.PixelScale,
		Origin:     m.plan.Origin,
		SimpleBBox: m.plan.SimpleBBox,
		Logger:     layout.DiscardLogger(),
	})
	if err != nil {
		m.err = err
		return m
	}

	seed := m.seed + 1
	shifts, err := planner.GetShifts(rng.NewSeeded(seed), layout.Params{
		Density:    m.plan.Density,
		Separation: m.plan.Separation,
	})
	if err != nil {
		m.err = err
		return m
	}

	m.seed = seed
	m.shifts = shifts
	m.err = nil
	return m
}

func (m previewModel) View() string {
	cols := m.width - 4
	rows := m.height - 6
	if cols < 20 {
		cols = 20
	}
	if rows < 10 {
		rows = 10
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render(fmt.Sprintf("%s layout", m.plan.Kind)))
	b.WriteString("  ")
	b.WriteString(StyleDim.Render(fmt.Sprintf("%d objects · seed %d", len(m.shifts), m.seed)))
	b.WriteString("\n\n")
	b.WriteString(renderASCII(m.shifts, cols, rows))
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(StyleWarning.Render(fmt.Sprintf("re-roll failed: %v", m.err)))
		b.WriteString("\n")
	}
	b.WriteString(StyleDim.Render("r re-roll · q quit"))
	return b.String()
}

// renderASCII draws shifts onto a cols x rows character grid. The mapping
// keeps arcsec square by using a common scale for both axes, with terminal
// cells assumed twice as tall as wide.
func renderASCII(shifts []layout.Shift, cols, rows int) string {
	extent := 1.0
	for _, s := range shifts {
		extent = math.Max(extent, math.Abs(s.DX))
		extent = math.Max(extent, math.Abs(s.DY))
	}
	extent *= 1.1

	grid := make([][]bool, rows)
	for i := range grid {
		grid[i] = make([]bool, cols)
	}

	// Cell aspect ratio: a character cell is ~2x taller than wide.
	scaleX := float64(cols-1) / (2 * extent)
	scaleY := float64(rows-1) / (2 * extent)
	if scaleX/2 < scaleY {
		scaleY = scaleX / 2
	} else {
		scaleX = scaleY * 2
	}

	for _, s := range shifts {
		col := int(math.Round(float64(cols-1)/2 + s.DX*scaleX))
		row := int(math.Round(float64(rows-1)/2 - s.DY*scaleY))
		if col >= 0 && col < cols && row >= 0 && row < rows {
			grid[row][col] = true
		}
	}

	var b strings.Builder
	for _, line := range grid {
		b.WriteString(previewAxisStyle.Render("│"))
		var cells strings.Builder
		for _, set := range line {
			if set {
				cells.WriteString("●")
			} else {
				cells.WriteString(" ")
			}
		}
		b.WriteString(previewDotStyle.Render(cells.String()))
		b.WriteString(previewAxisStyle.Render("│"))
		b.WriteString("\n")
	}
	return b.String()
}
