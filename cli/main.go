package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Styling
var (
	docStyle = lipgloss.NewStyle().Margin(1, 2)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#d45d79")).
			Padding(0, 1)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#30d158")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#ff453a")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#d45d79"))
)

// Model defines the application state
type Model struct {
	mainMenu    list.Model
	orderList   list.Model
	orderDetail *Order
	spinner     spinner.Model
	client      *ApiClient
	loading     bool
	currentView string
	status      string
	error       string
}

// item represents a list item
type item struct {
	title, desc string
	orderID     string
}

// FilterValue implements list.Item interface
func (i item) FilterValue() string { return i.title }

// Title implements list.Item interface
func (i item) Title() string { return i.title }

// Description implements list.Item interface
func (i item) Description() string { return i.desc }

// Messages produced by API calls
type ordersLoadedMsg []Order
type orderLoadedMsg *Order
type syncDoneMsg SyncResult
type apiErrorMsg string

// Initialize the model
func initialModel() Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	items := []list.Item{
		item{title: "Commandes", desc: "View the order calendar"},
		item{title: "Synchroniser", desc: "Pull new orders from the ordering platform"},
		item{title: "Exit", desc: "Exit the application"},
	}

	mainMenu := list.New(items, list.NewDefaultDelegate(), 0, 0)
	mainMenu.Title = "Douce Tentation"

	orderList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	orderList.Title = "Commandes"

	return Model{
		mainMenu:    mainMenu,
		orderList:   orderList,
		spinner:     s,
		client:      NewApiClient(),
		currentView: "main",
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tea.EnterAltScreen)
}

func (m Model) loadOrders() tea.Cmd {
	return func() tea.Msg {
		orders, err := m.client.GetOrders()
		if err != nil {
			return apiErrorMsg(err.Error())
		}
		return ordersLoadedMsg(orders)
	}
}

func (m Model) loadOrder(id string) tea.Cmd {
	return func() tea.Msg {
		order, err := m.client.GetOrder(id)
		if err != nil {
			return apiErrorMsg(err.Error())
		}
		return orderLoadedMsg(order)
	}
}

func (m Model) runSync() tea.Cmd {
	return func() tea.Msg {
		result, err := m.client.SyncNow()
		if err != nil {
			return apiErrorMsg(err.Error())
		}
		return syncDoneMsg(*result)
	}
}

// Update handles UI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc":
			switch m.currentView {
			case "detail":
				m.currentView = "orders"
			case "orders":
				m.currentView = "main"
			}
			m.error = ""
			return m, nil
		case "enter":
			switch m.currentView {
			case "main":
				selected, ok := m.mainMenu.SelectedItem().(item)
				if !ok {
					return m, nil
				}
				switch selected.title {
				case "Exit":
					return m, tea.Quit
				case "Commandes":
					m.currentView = "orders"
					m.loading = true
					m.error = ""
					return m, m.loadOrders()
				case "Synchroniser":
					m.loading = true
					m.error = ""
					m.status = ""
					return m, m.runSync()
				}
			case "orders":
				selected, ok := m.orderList.SelectedItem().(item)
				if ok && selected.orderID != "" {
					m.loading = true
					return m, m.loadOrder(selected.orderID)
				}
			}
		case "r":
			if m.currentView == "orders" {
				m.loading = true
				return m, m.loadOrders()
			}
		}

	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.mainMenu.SetSize(msg.Width-h, msg.Height-v)
		m.orderList.SetSize(msg.Width-h, msg.Height-v)

	case ordersLoadedMsg:
		m.loading = false
		items := make([]list.Item, 0, len(msg))
		for _, o := range msg {
			items = append(items, item{
				title:   fmt.Sprintf("%s %s · %s", o.Date, o.Time, o.Client),
				desc:    fmt.Sprintf("%s · %s · %s", o.Type, o.Size, o.Status),
				orderID: o.ID,
			})
		}
		m.orderList.SetItems(items)
		return m, nil

	case orderLoadedMsg:
		m.loading = false
		m.orderDetail = msg
		m.currentView = "detail"
		return m, nil

	case syncDoneMsg:
		m.loading = false
		m.status = fmt.Sprintf("Sync complete: %d new order(s)", msg.NewOrdersCount)
		return m, nil

	case apiErrorMsg:
		m.loading = false
		m.error = string(msg)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	switch m.currentView {
	case "main":
		m.mainMenu, cmd = m.mainMenu.Update(msg)
	case "orders":
		m.orderList, cmd = m.orderList.Update(msg)
	}
	return m, cmd
}

// View renders the UI
func (m Model) View() string {
	var b strings.Builder

	if m.loading {
		b.WriteString(m.spinner.View() + " Loading...\n\n")
	}
	if m.error != "" {
		b.WriteString(errorStyle.Render(m.error) + "\n\n")
	}
	if m.status != "" && m.currentView == "main" {
		b.WriteString(successStyle.Render(m.status) + "\n\n")
	}

	switch m.currentView {
	case "orders":
		b.WriteString(m.orderList.View())
		b.WriteString("\n(enter: detail · r: refresh · esc: back)")
	case "detail":
		b.WriteString(m.renderDetail())
		b.WriteString("\n(esc: back)")
	default:
		b.WriteString(m.mainMenu.View())
	}

	return docStyle.Render(b.String())
}

func (m Model) renderDetail() string {
	o := m.orderDetail
	if o == nil {
		return "No order selected."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(o.Type) + "\n\n")
	b.WriteString(labelStyle.Render("Client: ") + o.Client + "\n")
	if o.Phone != "" {
		b.WriteString(labelStyle.Render("Téléphone: ") + o.Phone + "\n")
	}
	b.WriteString(labelStyle.Render("Date: ") + o.Date + " " + o.Time + "\n")
	b.WriteString(labelStyle.Render("Taille: ") + o.Size + "\n")
	b.WriteString(labelStyle.Render("Statut: ") + o.Status + "\n")
	b.WriteString(labelStyle.Render("Source: ") + o.Source + "\n")

	if len(o.Items) > 0 {
		b.WriteString("\n" + labelStyle.Render("Articles:") + "\n")
		for _, it := range o.Items {
			b.WriteString(fmt.Sprintf("  %d× %s\n", it.Quantity, it.Name))
			if it.Instructions != "" {
				b.WriteString("     " + it.Instructions + "\n")
			}
		}
	}
	if len(o.Supplements) > 0 {
		b.WriteString("\n" + labelStyle.Render("Suppléments:") + "\n")
		for _, s := range o.Supplements {
			b.WriteString("  " + s + "\n")
		}
	}
	if o.Notes != "" {
		b.WriteString("\n" + labelStyle.Render("Notes: ") + o.Notes + "\n")
	}
	return b.String()
}

func main() {
	p := tea.NewProgram(initialModel(), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}
