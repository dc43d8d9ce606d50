package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"tableflip.dev/sphere/pkg/diary"
	"tableflip.dev/sphere/pkg/feed"
	"tableflip.dev/sphere/pkg/gallery"
	"tableflip.dev/sphere/pkg/live"
	"tableflip.dev/sphere/pkg/nav"
	"tableflip.dev/sphere/pkg/project"
	"tableflip.dev/sphere/pkg/sphere"
	"tableflip.dev/sphere/pkg/tui/events"
)

type errMsg struct{ err error }
type signedInMsg struct{}
type sphereReadyMsg struct{ id string }
type imagesMsg struct{ images []gallery.Image }
type diaryMsg struct{ entries []diary.Entry }
type projectsMsg struct{ projects []project.Project }
type playMsg struct{ images []gallery.Image }
type postDoneMsg struct{ id string }

// pickSphere chooses which sphere the feed shows: the last one used, or
// the first the user belongs to.
func (m *Model) pickSphere() tea.Cmd {
	userID := m.session.UserID
	return func() tea.Msg {
		if last := m.deps.Prefs.LastSphere(userID); last != "" {
			return sphereReadyMsg{id: last}
		}
		spheres, err := m.deps.Service.Spheres(context.Background(), userID)
		if err != nil {
			return errMsg{err}
		}
		if len(spheres) == 0 {
			return errMsg{errors.New("you are not in any sphere yet")}
		}
		return sphereReadyMsg{id: spheres[0].ID}
	}
}

// openFeed opens the home feed's live channel. Batches arrive through the
// event bridge in push order.
func (m *Model) openFeed() tea.Cmd {
	if m.sphereID == "" || m.releaseFeed != nil {
		return nil
	}
	q := feed.PostsQuery(m.sphereID)
	key := live.KeyFor(q)
	release, err := m.manager.Subscribe(q,
		func(records []live.Record) {
			m.events <- events.RecordsMsg{Key: key, Records: records}
		},
		func(err error) {
			m.events <- events.LiveErrorMsg{Key: key, Err: err}
		})
	if err != nil {
		m.errText = err.Error()
		return nil
	}
	m.feedKey = key
	m.releaseFeed = release
	return nil
}

// openInvites keeps the invitation channel open for the whole signed-in
// session; the badge it feeds is visible from every screen.
func (m *Model) openInvites() tea.Cmd {
	if m.session.Email == "" || m.releaseInv != nil {
		return nil
	}
	q := sphere.InvitesQuery(m.session.Email)
	key := live.KeyFor(q)
	release, err := m.manager.Subscribe(q,
		func(records []live.Record) {
			m.events <- events.RecordsMsg{Key: key, Records: records}
		},
		func(err error) {
			m.events <- events.LiveErrorMsg{Key: key, Err: err}
		})
	if err != nil {
		m.errText = err.Error()
		return nil
	}
	m.invitesKey = key
	m.releaseInv = release
	return nil
}

// applyRecords routes a live batch to the state it feeds.
func (m *Model) applyRecords(msg events.RecordsMsg) {
	switch msg.Key {
	case m.feedKey:
		m.posts = feed.PostsFromRecords(msg.Records)
		m.controller.SetMonths(feed.Months(m.posts))
		m.clampIndexes()
		if id := m.current.Param(nav.ParamScrollToPost); id != "" {
			m.scrollToPost(id)
		}
	case m.invitesKey:
		m.invites = sphere.InvitationsFromRecords(msg.Records)
	}
}

// scrollToPost moves the cursor to the named post and re-arms the
// scroll-driven timeline.
func (m *Model) scrollToPost(id string) {
	for i, p := range m.posts {
		if p.ID == id {
			m.cursor = i
			if p.CreatedAt != nil {
				m.controller.JumpToPost(p.ID, *p.CreatedAt)
			}
			return
		}
	}
}

func (m *Model) loadImages() tea.Cmd {
	sphereID := m.sphereID
	return func() tea.Msg {
		if sphereID == "" {
			return imagesMsg{}
		}
		images, err := m.deps.Service.Images(context.Background(), sphereID)
		if err != nil {
			return errMsg{err}
		}
		return imagesMsg{images: images}
	}
}

func (m *Model) loadDiary() tea.Cmd {
	userID := m.session.UserID
	return func() tea.Msg {
		entries, err := m.deps.Service.DiaryEntries(context.Background(), userID)
		if err != nil {
			return errMsg{err}
		}
		return diaryMsg{entries: entries}
	}
}

func (m *Model) loadProjects() tea.Cmd {
	sphereID := m.sphereID
	return func() tea.Msg {
		if sphereID == "" {
			return projectsMsg{}
		}
		projects, err := m.deps.Service.Projects(context.Background(), sphereID)
		if err != nil {
			return errMsg{err}
		}
		return projectsMsg{projects: projects}
	}
}

func (m *Model) loadPlayOrder(projectID string) tea.Cmd {
	return func() tea.Msg {
		images, err := m.deps.Service.PlayOrder(context.Background(), projectID)
		if err != nil {
			return errMsg{err}
		}
		return playMsg{images: images}
	}
}
