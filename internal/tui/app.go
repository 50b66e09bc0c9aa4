// Package tui hosts the Bubble Tea program: login/register form,
// listings browser and reservations view over the core stores.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/v2/list"
	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"

	"github.com/maruizc/arrienda-host/internal/auth"
	"github.com/maruizc/arrienda-host/internal/place"
	"github.com/maruizc/arrienda-host/internal/reservation"
)

type view int

const (
	viewLogin view = iota
	viewPlaces
	viewReservations
)

// Messages emitted by background commands.
type signedInMsg struct{}
type placesMsg struct{ listings []place.Listing }
type reservationsMsg struct {
	placeName string
	items     []reservation.Reservation
}
type errMsg struct{ err error }

type placeItem struct {
	listing place.Listing
}

func (i placeItem) Title() string { return i.listing.Name }
func (i placeItem) Description() string {
	return fmt.Sprintf("%s · %s/night · %d guests", i.listing.City, i.listing.NightlyPrice, i.listing.Guests)
}
func (i placeItem) FilterValue() string { return i.listing.Name }

type Model struct {
	session      *auth.Store
	places       *place.Repository
	reservations *reservation.Aggregator

	view    view
	loading bool

	// Login/register form. registering toggles the extra fields.
	registering bool
	inputs      []textinput.Model
	focus       int

	placeList list.Model

	resPlace string
	resItems []reservation.Reservation

	// Blocking error prompt; any key acknowledges it.
	errText string
	status  string

	width, height int
}

func New(session *auth.Store, places *place.Repository, reservations *reservation.Aggregator) *Model {
	delegate := list.NewDefaultDelegate()
	l := list.New([]list.Item{}, delegate, 60, 20)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)

	m := &Model{
		session:      session,
		places:       places,
		reservations: reservations,
		view:         viewLogin,
		placeList:    l,
	}
	m.buildLoginInputs()

	if session.Current() != nil {
		m.view = viewPlaces
	}
	return m
}

func (m *Model) buildLoginInputs() {
	labels := []string{"email", "password"}
	if m.registering {
		labels = []string{"full name", "email", "phone", "password"}
	}

	m.inputs = make([]textinput.Model, len(labels))
	for i, label := range labels {
		ti := textinput.New()
		ti.Placeholder = label
		ti.CharLimit = 128
		ti.Prompt = "> "
		if label == "password" {
			ti.EchoMode = textinput.EchoPassword
		}
		m.inputs[i] = ti
	}
	m.focus = 0
	m.inputs[0].Focus()
}

func (m *Model) Init() tea.Cmd {
	if m.view == viewPlaces {
		m.loading = true
		return m.loadPlaces()
	}
	return textinput.Blink
}

// Commands

func (m *Model) signIn() tea.Cmd {
	values := make([]string, len(m.inputs))
	for i := range m.inputs {
		values[i] = m.inputs[i].Value()
	}
	registering := m.registering
	session := m.session

	return func() tea.Msg {
		var err error
		if registering {
			err = session.Register(context.Background(), values[0], values[1], values[2], values[3])
		} else {
			err = session.Login(context.Background(), values[0], values[1])
		}
		if err != nil {
			return errMsg{err}
		}
		return signedInMsg{}
	}
}

func (m *Model) loadPlaces() tea.Cmd {
	sess := m.session.Current()
	if sess == nil {
		return func() tea.Msg { return errMsg{fmt.Errorf("not signed in")} }
	}
	repo := m.places
	hostID := sess.ID

	return func() tea.Msg {
		listings, err := repo.ListForHost(context.Background(), hostID)
		if err != nil {
			return errMsg{err}
		}
		return placesMsg{listings}
	}
}

func (m *Model) loadReservations(l place.Listing) tea.Cmd {
	agg := m.reservations
	return func() tea.Msg {
		items, err := agg.ListForPlace(context.Background(), l.ID)
		if err != nil {
			return errMsg{err}
		}
		return reservationsMsg{placeName: l.Name, items: items}
	}
}

// Update

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.placeList.SetSize(msg.Width-4, msg.Height-6)
		return m, nil

	case errMsg:
		m.loading = false
		m.errText = msg.err.Error()
		return m, nil

	case signedInMsg:
		m.view = viewPlaces
		m.loading = true
		m.status = ""
		return m, m.loadPlaces()

	case placesMsg:
		m.loading = false
		items := make([]list.Item, len(msg.listings))
		for i, l := range msg.listings {
			items[i] = placeItem{listing: l}
		}
		m.placeList.SetItems(items)
		if len(items) == 0 {
			m.status = "no listings yet"
		} else {
			m.status = fmt.Sprintf("%d listings", len(items))
		}
		return m, nil

	case reservationsMsg:
		m.loading = false
		m.view = viewReservations
		m.resPlace = msg.placeName
		m.resItems = msg.items
		return m, nil

	case tea.KeyPressMsg:
		// A surfaced error blocks until acknowledged.
		if m.errText != "" {
			m.errText = ""
			return m, nil
		}
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch m.view {
	case viewLogin:
		return m.handleLoginKey(msg)
	case viewPlaces:
		return m.handlePlacesKey(msg)
	case viewReservations:
		return m.handleReservationsKey(msg)
	}
	return m, nil
}

func (m *Model) handleLoginKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "ctrl+r":
		m.registering = !m.registering
		m.buildLoginInputs()
		return m, nil
	case "tab", "down":
		m.moveFocus(1)
		return m, nil
	case "shift+tab", "up":
		m.moveFocus(-1)
		return m, nil
	case "enter":
		if m.focus < len(m.inputs)-1 {
			m.moveFocus(1)
			return m, nil
		}
		m.loading = true
		return m, m.signIn()
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) moveFocus(delta int) {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + len(m.inputs)) % len(m.inputs)
	m.inputs[m.focus].Focus()
}

func (m *Model) handlePlacesKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.loading = true
		return m, m.loadPlaces()
	case "ctrl+l":
		if err := m.session.Logout(); err != nil {
			m.errText = err.Error()
			return m, nil
		}
		m.view = viewLogin
		m.registering = false
		m.buildLoginInputs()
		m.placeList.SetItems(nil)
		m.status = ""
		return m, textinput.Blink
	case "enter":
		item, ok := m.placeList.SelectedItem().(placeItem)
		if !ok {
			return m, nil
		}
		m.loading = true
		return m, m.loadReservations(item.listing)
	}

	var cmd tea.Cmd
	m.placeList, cmd = m.placeList.Update(msg)
	return m, cmd
}

func (m *Model) handleReservationsKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "b":
		m.view = viewPlaces
		return m, nil
	}
	return m, nil
}

// Run launches the interactive program.
func Run(session *auth.Store, places *place.Repository, reservations *reservation.Aggregator) error {
	p := tea.NewProgram(New(session, places, reservations), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
