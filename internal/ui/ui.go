package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/chordgen/internal/models"
	"github.com/desertthunder/chordgen/internal/progression"
	"github.com/desertthunder/chordgen/internal/shared"
)

// slotsPerRow is the number of progression boxes drawn per row.
const slotsPerRow = 4

// Panel identifies which panel receives navigation keys.
type Panel int

const (
	ParamsPanel Panel = iota
	ChordsPanel
)

// Parameter rows in the parameters panel.
const (
	paramLength = iota
	paramTemperature
	paramRepetitiveness
	paramWindowSize
	paramCount
)

// Recorder persists successful generations and saved paths.
type Recorder interface {
	Record(req models.GenerationRequest, result models.GenerationResult) (*models.Generation, error)
	MarkSaved(g *models.Generation, path string) error
}

// Model represents the TUI application state.
type Model struct {
	ctx         context.Context
	controller  *progression.Controller
	dispatcher  *progression.Dispatcher
	recorder    Recorder
	panel       Panel
	paramCursor int
	chordList   list.Model
	spinner     spinner.Model
	help        help.Model
	keys        keyMap
	width       int
	height      int
	downloading bool
	saved       string
	lastGen     *models.Generation
	status      string
}

// NewModel creates a new TUI model with the provided dependencies. recorder may be nil.
func NewModel(ctx context.Context, controller *progression.Controller, dispatcher *progression.Dispatcher, recorder Recorder) *Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)

	chordList := list.New(nil, delegate, 30, 12)
	chordList.Title = "Chords"
	chordList.SetShowHelp(false)
	chordList.SetShowStatusBar(false)
	chordList.SetFilteringEnabled(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &Model{
		ctx:        ctx,
		controller: controller,
		dispatcher: dispatcher,
		recorder:   recorder,
		panel:      ParamsPanel,
		chordList:  chordList,
		spinner:    sp,
		help:       help.New(),
		keys:       newKeyMap(),
	}
}

// Init starts the one-shot catalog load.
func (m *Model) Init() tea.Cmd {
	return m.loadCatalog()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.chordList.SetSize(max(msg.Width/3, 20), max(msg.Height-12, 6))
		return m, nil
	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case Msg:
		return m.handleMsg(msg)
	case tea.KeyMsg:
		return m.handleKeys(msg)
	}
	return m, nil
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgCatalogLoaded:
		data := msg.data.(catalogData)
		m.controller.ApplyCatalog(data.labels, data.err)
		m.refreshChords()
		return m, nil
	case MsgGenerationDone:
		data := msg.data.(generationData)
		if data.err != nil {
			m.controller.FailGeneration(data.err)
			return m, nil
		}
		m.controller.ApplyGenerationResult(*data.result)
		m.lastGen = nil
		m.saved = ""
		return m, m.record(data.req, *data.result)
	case MsgDownloadDone:
		data := msg.data.(downloadData)
		m.downloading = false
		if data.err != nil {
			m.status = fmt.Sprintf("Download failed: %v", data.err)
			return m, nil
		}
		m.status = ""
		if current := m.controller.State().DownloadRef; current != nil && *current == data.ref {
			m.saved = data.dest
		} else {
			m.status = fmt.Sprintf("Saved earlier progression to %s", data.dest)
		}
		return m, m.markSaved(data.generation, data.dest)
	case MsgRecorded:
		data := msg.data.(recordedData)
		if data.err != nil {
			m.status = fmt.Sprintf("History: %v", data.err)
			return m, nil
		}
		// only accept the record of the progression currently shown
		if g := data.generation; g != nil {
			if current := m.controller.State().DownloadRef; current != nil && *current == g.DownloadRef() {
				m.lastGen = g
			}
		}
		return m, nil
	case MsgMarkedSaved:
		if err, _ := msg.data.(error); err != nil {
			m.status = fmt.Sprintf("History: %v", err)
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.quit) {
		return m, tea.Quit
	}

	// the seed-length notice blocks all other input until dismissed
	if m.controller.State().Notice != "" {
		if key.Matches(msg, m.keys.dismiss) {
			m.controller.DismissNotice()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.generate):
		return m, m.generate()
	case key.Matches(msg, m.keys.download):
		return m, m.download()
	case key.Matches(msg, m.keys.retry):
		if m.controller.State().Catalog == progression.CatalogFailed {
			return m, m.loadCatalog()
		}
		return m, nil
	case key.Matches(msg, m.keys.focus):
		if m.panel == ParamsPanel {
			m.panel = ChordsPanel
		} else {
			m.panel = ParamsPanel
		}
		return m, nil
	}

	if m.panel == ParamsPanel {
		return m.handleParamKeys(msg)
	}
	return m.handleChordKeys(msg)
}

func (m *Model) handleParamKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.up):
		m.paramCursor = (m.paramCursor + paramCount - 1) % paramCount
	case key.Matches(msg, m.keys.down):
		m.paramCursor = (m.paramCursor + 1) % paramCount
	case key.Matches(msg, m.keys.left):
		m.stepParam(-1)
	case key.Matches(msg, m.keys.right):
		m.stepParam(1)
	}
	return m, nil
}

func (m *Model) handleChordKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.toggle):
		if item, ok := m.chordList.SelectedItem().(chordItem); ok {
			m.controller.ToggleChord(item.option.Value)
			m.refreshChords()
		}
		return m, nil
	case key.Matches(msg, m.keys.clear):
		m.controller.ClearSelection()
		m.refreshChords()
		return m, nil
	}

	var cmd tea.Cmd
	m.chordList, cmd = m.chordList.Update(msg)
	return m, cmd
}

// stepParam moves the parameter under the cursor; the step functions clamp, so the result is always valid.
func (m *Model) stepParam(delta int) {
	_ = m.controller.UpdateParameters(func(p models.GenerationParameters) models.GenerationParameters {
		switch m.paramCursor {
		case paramLength:
			return p.StepLength(delta)
		case paramTemperature:
			return p.StepTemperature(delta)
		case paramRepetitiveness:
			return p.StepRepetitiveness(delta)
		default:
			return p.StepWindowSize(delta)
		}
	})
}

func (m *Model) refreshChords() {
	s := m.controller.State()
	m.chordList.SetItems(chordItems(s.Options, s.Selected))
}

func (m *Model) busy() bool {
	s := m.controller.State()
	return s.Generating || s.Catalog == progression.CatalogLoading || m.downloading
}

func (m *Model) loadCatalog() tea.Cmd {
	if err := m.controller.BeginCatalogLoad(); err != nil {
		return nil
	}
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		labels, err := m.controller.FetchCatalog(m.ctx)
		return catalogLoadedMsg(labels, err)
	})
}

func (m *Model) generate() tea.Cmd {
	req, err := m.controller.BeginGeneration()
	if err != nil {
		// validation sets the notice; an in-flight request is simply ignored
		return nil
	}
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		result, err := m.controller.Request(m.ctx, req)
		return generationDoneMsg(req, result, err)
	})
}

func (m *Model) download() tea.Cmd {
	ref := m.controller.State().DownloadRef
	if ref == nil || m.dispatcher == nil {
		return nil
	}
	m.downloading = true

	// bound to the entry shown when the download starts
	var gen *models.Generation
	if m.lastGen != nil && m.lastGen.DownloadRef() == *ref {
		gen = m.lastGen
	}

	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		dest, err := m.dispatcher.Download(m.ctx, ref)
		return downloadDoneMsg(*ref, gen, dest, err)
	})
}

func (m *Model) record(req models.GenerationRequest, result models.GenerationResult) tea.Cmd {
	if m.recorder == nil {
		return nil
	}
	return func() tea.Msg {
		g, err := m.recorder.Record(req, result)
		return recordedMsg(g, err)
	}
}

func (m *Model) markSaved(g *models.Generation, dest string) tea.Cmd {
	if m.recorder == nil || g == nil {
		return nil
	}
	return func() tea.Msg {
		return markedSavedMsg(m.recorder.MarkSaved(g, dest))
	}
}

// renderNotice keeps the notice within the terminal width, wrapping on words.
func (m *Model) renderNotice(text string) string {
	style := styles.notice
	if frame := style.GetHorizontalFrameSize(); m.width > frame && lipgloss.Width(text)+frame > m.width {
		style = style.Width(m.width - style.GetHorizontalBorderSize())
	}
	return style.Render(text)
}

// View renders the current state.
func (m *Model) View() string {
	s := m.controller.State()

	if s.Notice != "" {
		notice := m.renderNotice(s.Notice)
		return fmt.Sprintf("%s\n\n%s", notice, m.help.ShortHelpView([]key.Binding{m.keys.dismiss, m.keys.quit}))
	}

	title := styles.title.Render("Chord Progression Generator")
	panels := lipgloss.JoinHorizontal(lipgloss.Top, m.renderParams(s), "    ", m.renderChords(s))

	return strings.Join([]string{
		title,
		panels,
		m.renderSlots(),
		m.renderStatus(s),
		m.help.ShortHelpView(m.keys.ShortHelp()),
	}, "\n\n")
}

func (m *Model) renderParams(s progression.State) string {
	rows := []struct {
		name  string
		value string
	}{
		{"Length", fmt.Sprintf("%d", s.Params.Length)},
		{"Temperature", fmt.Sprintf("%.1f", s.Params.Temperature)},
		{"Repetitiveness", fmt.Sprintf("%.0f", s.Params.Repetitiveness)},
		{"Window size", fmt.Sprintf("%d", s.Params.WindowSize)},
	}

	var b strings.Builder
	b.WriteString(styles.cursor.Render("Parameters") + "\n")
	for i, r := range rows {
		line := fmt.Sprintf("  %-15s ‹ %s ›", r.name, r.value)
		if m.panel == ParamsPanel && i == m.paramCursor {
			line = styles.cursor.Render("> " + line[2:])
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m *Model) renderChords(s progression.State) string {
	switch s.Catalog {
	case progression.CatalogPending, progression.CatalogLoading:
		return fmt.Sprintf("%s Loading chords...", m.spinner.View())
	case progression.CatalogFailed:
		return styles.err.Render(fmt.Sprintf("Could not load chords: %v", s.CatalogErr)) + "\n" +
			styles.help.Render("press r to retry")
	}

	seed := "none"
	if len(s.Selected) > 0 {
		seed = styles.As(strings.Join(models.Strings(s.Selected), " → "), lipgloss.Color("#04B575"))
	}
	view := m.chordList.View()
	if len(s.Options) == 0 {
		view = styles.help.Render("The backend offered no chords.")
	}
	if m.panel != ChordsPanel {
		view = styles.help.Render(view)
	}
	return fmt.Sprintf("%s\nSeed: %s (%d/%d)", view, seed, len(s.Selected), s.Params.Length)
}

func (m *Model) renderSlots() string {
	slots := m.controller.Slots()

	var rows []string
	for start := 0; start < len(slots); start += slotsPerRow {
		end := min(start+slotsPerRow, len(slots))
		boxes := make([]string, 0, end-start)
		for _, slot := range slots[start:end] {
			if slot.Filled {
				boxes = append(boxes, styles.slot.Render(slot.Label))
			} else {
				boxes = append(boxes, styles.empty.Render(slot.Label))
			}
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, boxes...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *Model) renderStatus(s progression.State) string {
	var lines []string

	switch {
	case s.Generating:
		lines = append(lines, fmt.Sprintf("%s Generating...", m.spinner.View()))
	case m.downloading:
		lines = append(lines, fmt.Sprintf("%s Downloading...", m.spinner.View()))
	case s.Err != nil:
		lines = append(lines, styles.err.Render(fmt.Sprintf("Generation failed: %s", describe(s.Err))))
	}

	if s.HasDownload() {
		lines = append(lines, fmt.Sprintf("MIDI ready: %s (press d to download)", *s.DownloadRef))
	}
	if m.saved != "" {
		lines = append(lines, styles.ok.Render("✓ Saved "+m.saved))
	}
	if m.status != "" {
		lines = append(lines, styles.warn.Render(m.status))
	}

	return strings.Join(lines, "\n")
}

func describe(err error) string {
	switch {
	case errors.Is(err, shared.ErrMalformedResponse):
		return "the backend sent an unexpected response"
	case errors.Is(err, shared.ErrAPIRequest):
		return fmt.Sprintf("the backend could not be reached (%v)", err)
	default:
		return err.Error()
	}
}
