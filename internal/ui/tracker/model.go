// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tracker

import (
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/meetcost/internal/accrual"
	"github.com/jeranaias/meetcost/internal/classify"
	"github.com/jeranaias/meetcost/internal/config"
	"github.com/jeranaias/meetcost/internal/export"
	"github.com/jeranaias/meetcost/internal/history"
	"github.com/jeranaias/meetcost/internal/logging"
	"github.com/jeranaias/meetcost/internal/session"
	"github.com/jeranaias/meetcost/internal/ui/components"
	"github.com/jeranaias/meetcost/internal/ui/styles"
)

// =============================================================================
// TRACKER STATE
// =============================================================================

// Dialog is the modal prompt currently shown, if any.
type Dialog int

const (
	DialogNone         Dialog = iota
	DialogConfirmReset        // "Save this meeting before resetting?"
	DialogEditName            // name text input focused
)

// Options wires the tracker to its collaborators.
type Options struct {
	Manager *session.Manager
	Store   history.Store
	Config  *config.Config

	// ConfigChanges delivers reloaded configuration from config.Watcher.
	// Nil disables live reload.
	ConfigChanges <-chan *config.Config

	Logger *zap.Logger

	// Bell receives the terminal bell on milestones. Default: os.Stderr.
	Bell io.Writer

	// Now stamps exports. Default: time.Now.
	Now func() time.Time
}

// =============================================================================
// TRACKER MODEL
// =============================================================================

// Model is the Bubble Tea model for the meeting tracker.
type Model struct {
	mgr    *session.Manager
	store  history.Store
	cfg    *config.Config
	logger *zap.Logger
	bell   io.Writer
	now    func() time.Time

	theme   *styles.Theme
	keys    KeyMap
	help    help.Model
	roles   *components.RoleTable
	history *components.HistoryList
	input   textinput.Model

	width  int
	height int

	// gen is bumped by every start, stop, reset and quit so ticks already
	// in flight are recognised as stale.
	gen      int
	interval time.Duration

	dialog       Dialog
	selectedRole int
	sound        bool
	showHistory  bool
	records      []history.Record

	// pendingConfig holds a reload that arrived while running.
	pendingConfig *config.Config
	changes       <-chan *config.Config

	flash    string
	flashErr bool
	quitting bool
}

// New creates a tracker model.
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	mgr := opts.Manager
	if mgr == nil {
		mgr = session.NewManager(session.DefaultConfig())
	}
	bell := opts.Bell
	if bell == nil {
		bell = os.Stderr
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	theme := styles.NewTheme(cfg.UI.Theme)

	ti := textinput.New()
	ti.Prompt = "Meeting name: "
	ti.Placeholder = history.DefaultName
	ti.CharLimit = 80

	m := Model{
		mgr:      mgr,
		store:    opts.Store,
		cfg:      cfg,
		logger:   logging.OrNop(opts.Logger),
		bell:     bell,
		now:      now,
		theme:    theme,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		roles:    components.NewRoleTable(theme),
		history:  components.NewHistoryList(theme),
		input:    ti,
		interval: cfg.TickInterval(),
		sound:    cfg.Tracker.Sound,
		changes:  opts.ConfigChanges,
	}
	if m.interval <= 0 {
		m.interval = time.Second
	}
	return m
}

// Init resumes ticking for a restored running session and starts listening
// for config changes.
func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.mgr.Running() {
		cmds = append(cmds, m.tick())
	}
	if m.changes != nil {
		cmds = append(cmds, waitForConfig(m.changes))
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.theme.SetSize(msg.Width, msg.Height)
		m.roles.SetWidth(msg.Width - 4)
		m.history.SetWidth(msg.Width - 4)
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		return m.handleTick(msg)

	case configChangedMsg:
		return m.handleConfigChanged(msg)

	case savedMsg:
		if msg.err != nil {
			m.setError("save failed: " + msg.err.Error())
			m.logger.Error("history save failed", zap.Error(msg.err))
			return m, nil
		}
		m.setFlash("Saved \"" + msg.rec.Name + "\" to history")
		if m.showHistory {
			return m, m.loadHistory()
		}
		return m, nil

	case historyLoadedMsg:
		if msg.err != nil {
			m.setError("history: " + msg.err.Error())
			return m, nil
		}
		m.records = msg.records
		return m, nil

	case exportedMsg:
		if msg.err != nil {
			m.setError("export failed: " + msg.err.Error())
			return m, nil
		}
		m.setFlash("Exported to " + msg.path)
		return m, nil
	}

	return m, nil
}

// =============================================================================
// TICKS
// =============================================================================

func (m Model) tick() tea.Cmd {
	gen := m.gen
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg{gen: gen, at: t}
	})
}

func (m Model) handleTick(msg tickMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.gen || !m.mgr.Running() {
		return m, nil
	}

	_, crossed := m.mgr.Tick()
	if len(crossed) > 0 {
		last := crossed[len(crossed)-1]
		m.setFlash("🎉 " + last.Message)
		if m.sound {
			m.ringBell(last)
		}
	}
	return m, m.tick()
}

// ringBell rings once per milestone, twice above $1000.
func (m Model) ringBell(ms classify.Milestone) {
	rings := 1
	if ms.Threshold > 1000 {
		rings = 2
	}
	_, _ = io.WriteString(m.bell, strings.Repeat("\a", rings))
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.dialog {
	case DialogConfirmReset:
		return m.handleConfirmKey(msg)
	case DialogEditName:
		return m.handleNameKey(msg)
	}

	m.flash = ""
	m.flashErr = false

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Start):
		return m.start()

	case key.Matches(msg, m.keys.Pause):
		return m.pause()

	case key.Matches(msg, m.keys.Reset):
		if m.mgr.Snapshot().Elapsed > 0 {
			m.dialog = DialogConfirmReset
			return m, nil
		}
		return m.reset(false)

	case key.Matches(msg, m.keys.StopSave):
		return m.reset(true)

	case key.Matches(msg, m.keys.Export):
		return m, m.exportSummary()

	case key.Matches(msg, m.keys.History):
		m.showHistory = !m.showHistory
		if m.showHistory {
			return m, m.loadHistory()
		}
		return m, nil

	case key.Matches(msg, m.keys.Sound):
		m.sound = !m.sound
		if m.sound {
			m.setFlash("Sound on")
		} else {
			m.setFlash("Sound off")
		}
		return m, nil

	case key.Matches(msg, m.keys.Theme):
		m.setTheme(m.theme.Toggle())
		return m, nil

	case key.Matches(msg, m.keys.Name):
		m.dialog = DialogEditName
		m.input.SetValue(m.mgr.Name())
		m.input.CursorEnd()
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Outcome):
		next := m.mgr.Outcome().Next()
		if err := m.mgr.SetOutcome(next); err != nil {
			m.logger.Warn("checkpoint after outcome change failed", zap.Error(err))
		}
		m.setFlash("Outcome: " + next.Label())
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.selectedRole > 0 {
			m.selectedRole--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.selectedRole < m.roleCount()-1 {
			m.selectedRole++
		}
		return m, nil

	case key.Matches(msg, m.keys.Increase):
		return m.adjustHeadcount(1)

	case key.Matches(msg, m.keys.Decrease):
		return m.adjustHeadcount(-1)

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	return m, nil
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.dialog = DialogNone
		return m.reset(true)
	case key.Matches(msg, m.keys.Deny):
		m.dialog = DialogNone
		return m.reset(false)
	case key.Matches(msg, m.keys.CancelDlg):
		m.dialog = DialogNone
		return m, nil
	}
	return m, nil
}

func (m Model) handleNameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		m.dialog = DialogNone
		m.input.Blur()
		if err := m.mgr.SetName(strings.TrimSpace(m.input.Value())); err != nil {
			m.logger.Warn("checkpoint after rename failed", zap.Error(err))
		}
		return m, nil
	case key.Matches(msg, m.keys.CancelDlg):
		m.dialog = DialogNone
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// TRANSITIONS
// =============================================================================

func (m Model) start() (tea.Model, tea.Cmd) {
	if m.mgr.Running() {
		return m, nil
	}
	if _, err := m.mgr.Start(nil); err != nil {
		m.logger.Warn("checkpoint after start failed", zap.Error(err))
	}
	m.gen++
	return m, m.tick()
}

func (m Model) pause() (tea.Model, tea.Cmd) {
	if !m.mgr.Running() {
		return m, nil
	}
	if _, err := m.mgr.Pause(); err != nil {
		m.logger.Warn("checkpoint after pause failed", zap.Error(err))
	}
	m.gen++
	m.applyPendingConfig()
	return m, nil
}

// reset stops the meeting, optionally saving it first, and clears it.
func (m Model) reset(save bool) (tea.Model, tea.Cmd) {
	if m.mgr.Running() {
		if _, err := m.mgr.Pause(); err != nil {
			m.logger.Warn("checkpoint after pause failed", zap.Error(err))
		}
	}
	m.gen++

	var cmd tea.Cmd
	if save {
		if rec, ok := m.mgr.ToRecord(); ok {
			cmd = m.saveRecord(rec)
		} else {
			m.setFlash("Nothing to save yet")
		}
	}

	if err := m.mgr.Reset(); err != nil {
		m.logger.Warn("checkpoint after reset failed", zap.Error(err))
	}
	m.applyPendingConfig()
	return m, cmd
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.gen++
	m.quitting = true
	if err := m.mgr.Checkpoint(); err != nil {
		m.logger.Warn("final checkpoint failed", zap.Error(err))
	}
	return m, tea.Quit
}

func (m Model) adjustHeadcount(delta int) (tea.Model, tea.Cmd) {
	if m.mgr.Running() {
		m.setError("Pause the meeting to change attendees")
		return m, nil
	}

	rates := m.mgr.Rates()
	var next accrual.RateConfig
	if rates.Mode == accrual.ModeRoles {
		if m.selectedRole >= len(rates.Table) {
			return m, nil
		}
		role := rates.Table[m.selectedRole].Name
		var err error
		next, err = rates.WithHeadcount(role, rates.Headcount[role]+delta)
		if err != nil {
			m.setError(err.Error())
			return m, nil
		}
	} else {
		next = accrual.FlatConfig(rates.Attendees+delta, rates.HourlyRate)
	}

	if err := m.mgr.Configure(next); err != nil {
		m.logger.Warn("checkpoint after configure failed", zap.Error(err))
	}
	return m, nil
}

func (m Model) roleCount() int {
	rates := m.mgr.Rates()
	if rates.Mode == accrual.ModeRoles {
		return len(rates.Table)
	}
	return 1
}

// =============================================================================
// CONFIG RELOAD
// =============================================================================

func waitForConfig(ch <-chan *config.Config) tea.Cmd {
	return func() tea.Msg {
		cfg, ok := <-ch
		if !ok {
			return nil
		}
		return configChangedMsg{cfg: cfg}
	}
}

func (m Model) handleConfigChanged(msg configChangedMsg) (tea.Model, tea.Cmd) {
	var next tea.Cmd
	if m.changes != nil {
		next = waitForConfig(m.changes)
	}
	if msg.cfg == nil {
		return m, next
	}
	if m.mgr.Running() {
		m.pendingConfig = msg.cfg
		m.setFlash("Config changed; applies when paused")
		return m, next
	}
	m.applyConfig(msg.cfg)
	return m, next
}

func (m *Model) applyPendingConfig() {
	if m.pendingConfig == nil {
		return
	}
	cfg := m.pendingConfig
	m.pendingConfig = nil
	m.applyConfig(cfg)
}

func (m *Model) applyConfig(cfg *config.Config) {
	rates, err := cfg.RateConfig()
	if err != nil {
		m.setError("config: " + err.Error())
		return
	}
	if err := m.mgr.Configure(rates); err != nil {
		m.logger.Warn("apply config failed", zap.Error(err))
	}

	m.cfg = cfg
	m.sound = cfg.Tracker.Sound
	if d := cfg.TickInterval(); d > 0 {
		m.interval = d
	}
	if cfg.UI.Theme != m.theme.Mode {
		m.setTheme(styles.NewTheme(cfg.UI.Theme))
	}
	if m.selectedRole >= m.roleCount() {
		m.selectedRole = 0
	}
	m.setFlash("Config reloaded")
	m.logger.Info("config reloaded", zap.Float64("hourly_rate", rates.CombinedHourlyRate()))
}

// =============================================================================
// COMMANDS
// =============================================================================

func (m Model) saveRecord(rec history.Record) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		if store == nil {
			return savedMsg{rec: rec, err: errors.New("no history store")}
		}
		return savedMsg{rec: rec, err: store.Save(rec)}
	}
}

func (m Model) loadHistory() tea.Cmd {
	store := m.store
	return func() tea.Msg {
		if store == nil {
			return historyLoadedMsg{}
		}
		recs, err := store.List()
		return historyLoadedMsg{records: recs, err: err}
	}
}

func (m Model) exportSummary() tea.Cmd {
	summary := export.FromSession(m.mgr.GetStatus(), m.now())
	format := m.cfg.Export.Format
	opts := export.DefaultOptions()
	if m.cfg.Export.Dir != "" {
		opts.OutputDir = m.cfg.Export.Dir
	}
	if m.theme.IsDark {
		opts.Theme = "dark"
	}
	opts.Now = m.now

	return func() tea.Msg {
		exporter, err := export.ForFormat(format, opts)
		if err != nil {
			return exportedMsg{err: err}
		}
		path, err := export.ExportToFile(summary, exporter, opts)
		return exportedMsg{path: path, err: err}
	}
}

// =============================================================================
// HELPERS
// =============================================================================

func (m *Model) setTheme(theme *styles.Theme) {
	m.theme = theme
	m.roles.SetTheme(theme)
	m.history.SetTheme(theme)
}

func (m *Model) setFlash(s string) {
	m.flash = s
	m.flashErr = false
}

func (m *Model) setError(s string) {
	m.flash = s
	m.flashErr = true
}

// Dialog returns the open dialog.
func (m Model) Dialog() Dialog { return m.dialog }

// Generation returns the current tick generation.
func (m Model) Generation() int { return m.gen }

// Flash returns the current status line.
func (m Model) Flash() string { return m.flash }

// SoundOn reports whether milestone bells are enabled.
func (m Model) SoundOn() bool { return m.sound }

// PendingConfig returns a reload waiting for the meeting to pause.
func (m Model) PendingConfig() *config.Config { return m.pendingConfig }
