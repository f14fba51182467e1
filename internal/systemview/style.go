// Package systemview implements the systemview TUI's rendering: a
// two-pane BubbleTea program (body list + detail pane) over a generated
// system.StellarSystem, styled with lipgloss and fatih/color following the
// same terminal-presentation idiom furan917-go-solar-system uses for
// spectral-class coloring.
package systemview

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/darkdragonsastro/draco-simulator/internal/stellarclass"
	"github.com/darkdragonsastro/draco-simulator/internal/system"
	"github.com/fatih/color"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213")).Padding(0, 1)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	selectedRowStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("236"))
	rowStyle         = lipgloss.NewStyle()
	dimStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	helpStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
)

// spectralColor maps a star's Morgan-Keenan spectral letter to the
// conventional color astronomers associate with it (O/B blue through M
// red), the same hue ladder furan917-go-solar-system's renderer uses for
// celestial-body coloring, applied here to fatih/color instead of a
// tcell-backed grid.
func spectralColor(class stellarclass.StellarClass) *color.Color {
	switch class.HSpectralClass {
	case stellarclass.SpectralO, stellarclass.SpectralWN, stellarclass.SpectralWNh, stellarclass.SpectralWC, stellarclass.SpectralWO:
		return color.New(color.FgBlue, color.Bold)
	case stellarclass.SpectralB:
		return color.New(color.FgCyan, color.Bold)
	case stellarclass.SpectralA:
		return color.New(color.FgHiWhite)
	case stellarclass.SpectralF:
		return color.New(color.FgWhite)
	case stellarclass.SpectralG:
		return color.New(color.FgYellow, color.Bold)
	case stellarclass.SpectralK:
		return color.New(color.FgHiYellow)
	case stellarclass.SpectralM, stellarclass.SpectralL, stellarclass.SpectralT, stellarclass.SpectralY:
		return color.New(color.FgRed)
	case stellarclass.SpectralDA, stellarclass.SpectralDB, stellarclass.SpectralDO, stellarclass.SpectralDC:
		return color.New(color.FgHiWhite, color.Bold)
	default:
		switch class.StarType {
		case stellarclass.BlackHole:
			return color.New(color.FgBlack, color.Bold)
		case stellarclass.NeutronStar:
			return color.New(color.FgHiMagenta)
		}
		return color.New(color.FgWhite)
	}
}

func starLabel(s system.Star) string {
	class := stellarclass.FromUint64(s.Class)
	c := spectralColor(class)
	return c.Sprintf("%s", fmt.Sprintf("star  %-6s  %.2f Msun  Teff=%.0fK", class.String(), s.Mass/solarMassKg, s.Teff))
}

const solarMassKg = 1.98892e30

func planetTypeName(t system.PlanetType) string {
	switch t {
	case system.PlanetRocky:
		return "Rocky"
	case system.PlanetTerra:
		return "Terra"
	case system.PlanetChthonian:
		return "Chthonian"
	case system.PlanetIcePlanet:
		return "Ice"
	case system.PlanetOceanic:
		return "Oceanic"
	case system.PlanetGasGiant:
		return "Gas Giant"
	case system.PlanetHotGasGiant:
		return "Hot Gas Giant"
	case system.PlanetIceGiant:
		return "Ice Giant"
	case system.PlanetHotIceGiant:
		return "Hot Ice Giant"
	case system.PlanetSubIceGiant:
		return "Sub-Ice Giant"
	case system.PlanetHotSubIceGiant:
		return "Hot Sub-Ice Giant"
	case system.PlanetRockyAsteroidCluster:
		return "Rocky Asteroid Belt"
	case system.PlanetRockyIceAsteroidCluster:
		return "Rocky/Ice Asteroid Belt"
	default:
		return "Unknown"
	}
}

func planetLabel(p system.Planet) string {
	label := fmt.Sprintf("planet %-24s %.2f Rearth  %.0fK", planetTypeName(p.Type), p.Radius/earthRadiusM, p.BalanceTemperature)
	if p.Civilization != nil {
		return color.New(color.FgGreen, color.Bold).Sprintf("%s", label+fmt.Sprintf("  [civilization tier %d]", p.Civilization.Tier))
	}
	return label
}

const earthRadiusM = 6.3710084e6
