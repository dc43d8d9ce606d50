// Package tui is the full-screen client. A single Bubble Tea model owns the
// navigation machine, the live subscription manager, and the timeline
// controller; every screen renders off that one state.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"tableflip.dev/sphere/pkg/app"
	"tableflip.dev/sphere/pkg/blobstore"
	"tableflip.dev/sphere/pkg/diary"
	"tableflip.dev/sphere/pkg/docstore"
	"tableflip.dev/sphere/pkg/feed"
	"tableflip.dev/sphere/pkg/gallery"
	"tableflip.dev/sphere/pkg/identity"
	"tableflip.dev/sphere/pkg/live"
	"tableflip.dev/sphere/pkg/nav"
	"tableflip.dev/sphere/pkg/prefs"
	"tableflip.dev/sphere/pkg/project"
	"tableflip.dev/sphere/pkg/sphere"
	"tableflip.dev/sphere/pkg/timeline"
	"tableflip.dev/sphere/pkg/tui/events"
)

// Deps carries the collaborators the UI is built over.
type Deps struct {
	Store    docstore.Store
	Blobs    blobstore.Store
	Identity identity.Provider
	Service  *app.Service
	Prefs    *prefs.Store
}

// Run drives the UI until the user quits.
func Run(deps Deps) error {
	m := NewModel(deps)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

type Model struct {
	deps Deps

	machine    *nav.Machine
	controller *timeline.Controller
	manager    *live.Manager

	// events funnels callbacks from the machine, the identity watch, and
	// the live channels into the update loop.
	events    chan tea.Msg
	stopWatch context.CancelFunc

	current nav.Ref
	status  identity.Status
	session identity.Session

	sphereID string

	// live channel bookkeeping
	feedKey     live.Key
	invitesKey  live.Key
	releaseFeed func()
	releaseInv  func()

	posts   []feed.Post
	cursor  int
	invites []sphere.Invitation

	images   []gallery.Image
	imgIndex int

	entries  []diary.Entry
	projects []project.Project
	listIdx  int

	playImages []gallery.Image
	playIdx    int

	inputs []textinput.Model
	focus  int

	errText string
	width   int
	height  int
}

// NewModel wires the machine and subscriptions but starts nothing; Init
// kicks off the identity watch.
func NewModel(deps Deps) *Model {
	m := &Model{
		deps:       deps,
		controller: timeline.NewController(),
		manager:    live.NewManager(deps.Store, deps.Blobs),
		events:     make(chan tea.Msg, 64),
		status:     identity.StatusUnknown,
	}
	m.machine = nav.NewMachine(nav.NewMemoryHistory())
	m.machine.OnScreenChange(func(prev, next nav.Ref) {
		m.events <- events.ScreenChangedMsg{Prev: prev, Next: next}
	})
	return m
}

func (m *Model) Init() tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.stopWatch = cancel
	statuses, err := m.deps.Identity.Watch(ctx)
	if err != nil {
		m.errText = err.Error()
		return m.waitEvent
	}
	go func() {
		for s := range statuses {
			// The machine resolves any deferred fragment before the UI
			// hears about the change.
			m.machine.SetStatus(s)
			m.events <- events.StatusChangedMsg{Status: s}
		}
	}()
	return m.waitEvent
}

// waitEvent hands the next bridged event to Update. Re-armed after every
// event message.
func (m *Model) waitEvent() tea.Msg {
	return <-m.events
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case events.StatusChangedMsg:
		m.status = msg.Status
		if msg.Status == identity.StatusAuthenticated {
			if s, ok := m.deps.Identity.Session(); ok {
				m.session = s
			}
			return m, tea.Batch(m.openInvites(), m.waitEvent)
		}
		m.closeLive()
		m.session = identity.Session{}
		m.sphereID = ""
		return m, m.waitEvent

	case events.ScreenChangedMsg:
		cmd := m.enterScreen(msg.Prev, msg.Next)
		return m, tea.Batch(cmd, m.waitEvent)

	case events.RecordsMsg:
		m.applyRecords(msg)
		return m, m.waitEvent

	case events.LiveErrorMsg:
		m.errText = fmt.Sprintf("live channel %s closed: %v", msg.Key, msg.Err)
		if msg.Key == m.feedKey {
			m.releaseFeed = nil
		}
		if msg.Key == m.invitesKey {
			m.releaseInv = nil
		}
		return m, m.waitEvent

	case signedInMsg:
		// The status watch drives navigation; nothing more to do here.
		m.errText = ""
		return m, nil

	case errMsg:
		m.errText = msg.err.Error()
		return m, nil

	case sphereReadyMsg:
		m.sphereID = msg.id
		if m.session.UserID != "" {
			_ = m.deps.Prefs.SetLastSphere(m.session.UserID, msg.id)
		}
		return m, m.openFeed()

	case imagesMsg:
		m.images = msg.images
		m.clampIndexes()
		return m, nil

	case diaryMsg:
		m.entries = msg.entries
		m.clampIndexes()
		return m, nil

	case projectsMsg:
		m.projects = msg.projects
		m.clampIndexes()
		return m, nil

	case playMsg:
		m.playImages = msg.images
		m.playIdx = 0
		return m, nil

	case postDoneMsg:
		m.machine.Navigate(nav.NewRef(nav.Home, map[string]string{
			nav.ParamScrollToPost: msg.id,
		}))
		return m, nil
	}
	return m, nil
}

// enterScreen releases what the previous screen held and loads what the
// next one needs.
func (m *Model) enterScreen(prev, next nav.Ref) tea.Cmd {
	m.current = next
	m.errText = ""

	if prev.Screen == nav.Home && next.Screen != nav.Home {
		if m.releaseFeed != nil {
			m.releaseFeed()
			m.releaseFeed = nil
		}
	}

	switch next.Screen {
	case nav.Home:
		m.controller.Reset()
		if m.sphereID == "" {
			return m.pickSphere()
		}
		return m.openFeed()
	case nav.ImageBank:
		return m.loadImages()
	case nav.Diary:
		return m.loadDiary()
	case nav.Projects:
		return m.loadProjects()
	case nav.PlayProject:
		return m.loadPlayOrder(next.Param(nav.ParamProjectID))
	case nav.EditPost:
		m.setupInputs("What's happening?")
	case nav.Login:
		m.setupInputs("email", "password")
	case nav.Signup:
		m.setupInputs("name", "email", "password")
	case nav.ForgotPassword, nav.ConfirmEmail:
		m.setupInputs("email")
	case nav.CompleteProfile:
		m.setupInputs("display name")
	}
	return nil
}

func (m *Model) setupInputs(placeholders ...string) {
	m.inputs = make([]textinput.Model, len(placeholders))
	for i, ph := range placeholders {
		ti := textinput.New()
		ti.Placeholder = ph
		ti.CharLimit = 256
		if ph == "password" {
			ti.EchoMode = textinput.EchoPassword
		}
		m.inputs[i] = ti
	}
	m.focus = 0
	if len(m.inputs) > 0 {
		m.inputs[0].Focus()
	}
}

func (m *Model) clampIndexes() {
	if m.cursor >= len(m.posts) {
		m.cursor = len(m.posts) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.imgIndex >= len(m.images) {
		m.imgIndex = len(m.images) - 1
	}
	if m.imgIndex < 0 {
		m.imgIndex = 0
	}
	if m.listIdx > 0 && m.listIdx >= len(m.entries)+len(m.projects) {
		m.listIdx = 0
	}
}

func (m *Model) closeLive() {
	if m.releaseFeed != nil {
		m.releaseFeed()
		m.releaseFeed = nil
	}
	if m.releaseInv != nil {
		m.releaseInv()
		m.releaseInv = nil
	}
	m.posts = nil
	m.invites = nil
}
