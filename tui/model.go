package tui

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-midimon/config"
	"go-midimon/midi"
	"go-midimon/monitor"
	"go-midimon/theme"
	"go-midimon/widgets"
)

// Attacher starts consuming a newly connected source
type Attacher func(src midi.Source)

type Model struct {
	Monitor   *monitor.Monitor
	DeviceMgr *midi.DeviceManager
	Theme     *theme.Theme
	Config    *config.Config

	attach    Attacher
	sources   map[string]bool
	showSysEx bool
	width     int
	quitting  bool
}

type UpdateMsg struct{}

type DeviceEventMsg midi.DeviceEvent

var keys = []widgets.KeyBinding{
	{Key: "0", Desc: "all ch"},
	{Key: "1-8", Desc: "channel"},
	{Key: "s", Desc: "sysex"},
	{Key: "c", Desc: "clear"},
	{Key: "q", Desc: "quit"},
}

func NewModel(mon *monitor.Monitor, deviceMgr *midi.DeviceManager, th *theme.Theme, cfg *config.Config, attach Attacher) Model {
	return Model{
		Monitor:   mon,
		DeviceMgr: deviceMgr,
		Theme:     th,
		Config:    cfg,
		attach:    attach,
		sources:   make(map[string]bool),
		showSysEx: cfg.SysEx.Capture,
		width:     80,
	}
}

func ListenForUpdates(mon *monitor.Monitor) tea.Cmd {
	return func() tea.Msg {
		<-mon.UpdateChan
		return UpdateMsg{}
	}
}

func ListenForDevices(deviceMgr *midi.DeviceManager) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-deviceMgr.Events()
		if !ok {
			return nil
		}
		return DeviceEventMsg(event)
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{ListenForUpdates(m.Monitor)}
	if m.DeviceMgr != nil {
		cmds = append(cmds, ListenForDevices(m.DeviceMgr))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "c":
			m.Monitor.Clear()

		case "s":
			m.showSysEx = !m.showSysEx

		case "0":
			m.Monitor.SetFocus(monitor.AllChannels)

		case "1", "2", "3", "4", "5", "6", "7", "8":
			m.Monitor.SetFocus(int(msg.String()[0] - '1'))
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case UpdateMsg:
		return m, ListenForUpdates(m.Monitor)

	case DeviceEventMsg:
		event := midi.DeviceEvent(msg)
		switch event.Type {
		case midi.DeviceConnected:
			m.sources[event.ID] = true
			if m.attach != nil {
				m.attach(event.Source)
			}
		case midi.DeviceDisconnected:
			delete(m.sources, event.ID)
			m.Monitor.DisconnectSource(event.ID)
		}
		return m, ListenForDevices(m.DeviceMgr)
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	fgStyle := lipgloss.NewStyle().Foreground(m.Theme.FG())
	warnStyle := lipgloss.NewStyle().Foreground(m.Theme.Warning())

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(headerStyle.Render(m.header()))
	out.WriteString("\n\n")

	// Key view
	focus := m.Monitor.Focus()
	held := m.Monitor.Notes(focus)
	out.WriteString(widgets.RenderKeyboard(m.Theme, held, m.Config.UI.LowestNote, m.Config.UI.HighestNote))
	out.WriteString("\n")
	if names := widgets.HeldNames(held, 0, 127); len(names) > 0 {
		out.WriteString(fgStyle.Render(strings.Join(names, " ")))
	}
	out.WriteString("\n\n")

	// Plots
	plotWidth := m.width - 22
	if plotWidth < 8 {
		plotWidth = 8
	}
	for i, p := range m.Monitor.Plots() {
		out.WriteString(widgets.RenderPlot(m.Theme, i, p.Title, p.Values, plotWidth))
		out.WriteString("\n")
	}
	out.WriteString("\n")

	// Message log
	for _, line := range m.Monitor.Log() {
		out.WriteString(fgStyle.Render(line.String()))
		out.WriteString("\n")
	}

	if m.showSysEx {
		out.WriteString("\n")
		out.WriteString(dimStyle.Render("SysEx"))
		out.WriteString("\n")
		for _, line := range m.Monitor.SysExLog() {
			text := fmt.Sprintf("%s %-14s %s", line.Time.Format("15:04:05.000"), line.Source, line.Text)
			out.WriteString(fgStyle.Render(truncate(text, m.width)))
			out.WriteString("\n")
		}
	}

	if err := m.Monitor.ThruError(); err != nil {
		out.WriteString(warnStyle.Render("thru: " + err.Error()))
		out.WriteString("\n")
	}

	out.WriteString("\n")
	out.WriteString(dimStyle.Render(widgets.RenderKeyLine(keys)))
	return out.String()
}

func (m Model) header() string {
	ch := "all"
	if f := m.Monitor.Focus(); f != monitor.AllChannels {
		ch = fmt.Sprintf("%d", f+1)
	}

	ids := make([]string, 0, len(m.sources))
	for id := range m.sources {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	inputs := "no inputs"
	if len(ids) > 0 {
		inputs = strings.Join(ids, ", ")
	}

	return fmt.Sprintf("go-midimon  ch:%s  msgs:%d  [%s]", ch, m.Monitor.Total(), inputs)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 3 || len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}
