package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).Padding(0, 1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")).Padding(0, 1)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
	cardStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1)
)

func (m *Model) View() string {
	var b strings.Builder

	switch m.view {
	case viewLogin:
		b.WriteString(m.loginView())
	case viewPlaces:
		b.WriteString(m.placesView())
	case viewReservations:
		b.WriteString(m.reservationsView())
	}

	if m.errText != "" {
		b.WriteString("\n" + errorStyle.Render("ERROR: "+m.errText))
		b.WriteString("\n" + statusStyle.Render("press any key to continue"))
	} else if m.loading {
		b.WriteString("\n" + statusStyle.Render("loading..."))
	} else if m.status != "" {
		b.WriteString("\n" + statusStyle.Render(m.status))
	}

	return b.String()
}

func (m *Model) loginView() string {
	var b strings.Builder

	header := "Sign in"
	if m.registering {
		header = "Create host account"
	}
	b.WriteString(titleStyle.Render("arrienda · " + header))
	b.WriteString("\n\n")

	for i := range m.inputs {
		b.WriteString("  " + m.inputs[i].View() + "\n")
	}

	b.WriteString("\n")
	b.WriteString(labelStyle.Render("  enter submit · tab next field · ctrl+r switch sign in/register · ctrl+c quit"))
	return b.String()
}

func (m *Model) placesView() string {
	var b strings.Builder

	header := "Your listings"
	if sess := m.session.Current(); sess != nil {
		header = fmt.Sprintf("Your listings · %s", sess.Name)
	}
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n")
	b.WriteString(m.placeList.View())
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("  enter reservations · r refresh · ctrl+l sign out · q quit"))
	return b.String()
}

func (m *Model) reservationsView() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Reservations · " + m.resPlace))
	b.WriteString("\n\n")

	if len(m.resItems) == 0 {
		b.WriteString(statusStyle.Render("no reservations for this listing"))
		b.WriteString("\n")
	}

	for _, r := range m.resItems {
		nights := "night"
		if r.Nights != 1 {
			nights = "nights"
		}
		card := fmt.Sprintf("%s\n%d %s · %s to %s\nTotal: Bs.%s",
			r.Guest, r.Nights, nights, r.Arrival, r.Departure, r.Total)
		b.WriteString(cardStyle.Render(card))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(labelStyle.Render("  esc back · q quit"))
	return b.String()
}
