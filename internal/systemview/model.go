package systemview

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/darkdragonsastro/draco-simulator/internal/system"
)

// row is one flattened, indented line of the body tree: a star or one of
// its planets/asteroid clusters, at whatever depth the orbit graph placed
// it (spec.md §3's Handle/Orbit arena, walked depth-first per star).
type row struct {
	handle         system.Handle
	depth          int
	semiMajorAxisM float64 // 0 for stars
}

// Model is the systemview BubbleTea program's state: the generated system,
// its flattened body list, which row is selected, and the last known
// terminal size.
type Model struct {
	sys      *system.StellarSystem
	rows     []row
	cursor   int
	width    int
	height   int
}

// New builds a Model over sys.
func New(sys *system.StellarSystem) Model {
	return Model{
		sys:  sys,
		rows: flatten(sys),
	}
}

func flatten(sys *system.StellarSystem) []row {
	var rows []row
	var walk func(indices []int, depth int)
	walk = func(indices []int, depth int) {
		for _, idx := range indices {
			if idx < 0 || idx >= len(sys.Orbits) {
				continue
			}
			orbit := sys.Orbits[idx]
			for _, det := range orbit.Details {
				rows = append(rows, row{handle: det.Object, depth: depth, semiMajorAxisM: orbit.SemiMajorAxis})
				walk(det.SubOrbits, depth+1)
			}
		}
	}

	for _, orbit := range sys.Orbits {
		if !orbit.Parent.IsNil() {
			continue
		}
		for _, det := range orbit.Details {
			rows = append(rows, row{handle: det.Object, depth: 0})
			walk(det.SubOrbits, 1)
		}
	}
	return rows
}

// Init satisfies tea.Model; this program needs no initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update satisfies tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			}
		}
	}
	return m, nil
}

// View satisfies tea.Model.
func (m Model) View() string {
	width := m.width
	if width <= 0 {
		width = 100
	}
	listWidth := width * 2 / 5
	detailWidth := width - listWidth - 6

	var list strings.Builder
	for i, r := range m.rows {
		line := m.rowLabel(r)
		line = strings.Repeat("  ", r.depth) + line
		if i == m.cursor {
			line = selectedRowStyle.Render("> " + line)
		} else {
			line = rowStyle.Render("  " + line)
		}
		list.WriteString(line + "\n")
	}

	detail := "no bodies generated"
	if len(m.rows) > 0 {
		detail = m.detailFor(m.rows[m.cursor])
	}

	header := titleStyle.Render(fmt.Sprintf("system %s", m.sys.ID))
	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		paneStyle.Width(listWidth).Height(m.bodyHeight()).Render(list.String()),
		paneStyle.Width(detailWidth).Height(m.bodyHeight()).Render(detail),
	)
	help := helpStyle.Render("↑/↓ or j/k: select   q/esc: quit")

	return lipgloss.JoinVertical(lipgloss.Left, header, panes, help)
}

func (m Model) bodyHeight() int {
	if m.height <= 6 {
		return 20
	}
	return m.height - 6
}

func (m Model) rowLabel(r row) string {
	switch r.handle.Type {
	case system.BodyStar:
		return starLabel(m.sys.Stars[r.handle.Index])
	case system.BodyPlanet:
		return planetLabel(m.sys.Planets[r.handle.Index])
	case system.BodyAsteroidCluster:
		return fmt.Sprintf("belt   cluster #%d", r.handle.Index)
	default:
		return "unknown body"
	}
}

func (m Model) detailFor(r row) string {
	var b strings.Builder
	switch r.handle.Type {
	case system.BodyStar:
		s := m.sys.Stars[r.handle.Index]
		fmt.Fprintf(&b, "Star\n\n")
		fmt.Fprintf(&b, "Mass:       %.3f Msun\n", s.Mass/solarMassKg)
		fmt.Fprintf(&b, "Luminosity: %.3e W\n", s.Luminosity)
		fmt.Fprintf(&b, "Teff:       %.0f K\n", s.Teff)
		fmt.Fprintf(&b, "Age:        %.3e yr\n", s.Age/(365.25*86400))
		fmt.Fprintf(&b, "Fe/H:       %.2f dex\n", s.FeH)
		fmt.Fprintf(&b, "Phase:      %v\n", s.Phase)
	case system.BodyPlanet:
		p := m.sys.Planets[r.handle.Index]
		fmt.Fprintf(&b, "Planet: %s\n\n", planetTypeName(p.Type))
		fmt.Fprintf(&b, "Semi-major axis: %.4f AU\n", r.semiMajorAxisM/auMeters)
		fmt.Fprintf(&b, "Radius:          %.3f Rearth\n", p.Radius/earthRadiusM)
		fmt.Fprintf(&b, "Balance temp:    %.1f K\n", p.BalanceTemperature)
		fmt.Fprintf(&b, "Moons:           %d\n", len(p.Moons))
		fmt.Fprintf(&b, "Rings:           %d\n", len(p.Rings))
		if p.Civilization != nil {
			fmt.Fprintf(&b, "Civilization:    tier %d\n", p.Civilization.Tier)
		}
	case system.BodyAsteroidCluster:
		ac := m.sys.AsteroidClusters[r.handle.Index]
		fmt.Fprintf(&b, "Asteroid cluster\n\n")
		fmt.Fprintf(&b, "Semi-major axis: %.4f AU\n", r.semiMajorAxisM/auMeters)
		fmt.Fprintf(&b, "Mass:            %.3e kg\n", ac.Mass.TotalKg())
	}
	return b.String()
}

const auMeters = 1.495978707e11
