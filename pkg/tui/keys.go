package tui

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"tableflip.dev/sphere/pkg/identity"
	"tableflip.dev/sphere/pkg/nav"
)

var errIdentityReadOnly = errors.New("this identity provider does not accept signups")

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		m.shutdown()
		return m, tea.Quit
	}

	if m.current.Screen.AuthScreen() || m.current.Screen == nav.EditPost {
		return m.handleFormKey(msg)
	}

	switch key {
	case "q":
		m.shutdown()
		return m, tea.Quit
	case "1":
		m.machine.Navigate(nav.NewRef(nav.Home, nil))
	case "2":
		m.machine.Navigate(nav.NewRef(nav.ImageBank, nil))
	case "3":
		m.machine.Navigate(nav.NewRef(nav.Diary, nil))
	case "4":
		m.machine.Navigate(nav.NewRef(nav.Projects, nil))
	case "L":
		return m, m.signOut()
	}

	switch m.current.Screen {
	case nav.Home:
		return m.handleFeedKey(key)
	case nav.ImageBank:
		return m.handleImagesKey(key)
	case nav.Projects:
		return m.handleProjectsKey(key)
	case nav.PlayProject:
		return m.handlePlayKey(key)
	case nav.Diary:
		return m.handleDiaryKey(key)
	}
	return m, nil
}

func (m *Model) handleFeedKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "j", "down":
		if m.cursor < len(m.posts)-1 {
			m.cursor++
			m.observeCursor()
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
			m.observeCursor()
		}
	case "h", "left":
		// Timeline takes the wheel until the jump lands.
		if m.controller.Prev() {
			m.jumpCursorToCurrentMonth()
		}
	case "l", "right":
		if m.controller.Next() {
			m.jumpCursorToCurrentMonth()
		}
	case "n":
		m.machine.Navigate(nav.NewRef(nav.EditPost, nil))
	}
	return m, nil
}

// observeCursor reports the post under the cursor as the visible anchor.
// The controller ignores it while a programmatic jump is in flight.
func (m *Model) observeCursor() {
	if m.cursor < 0 || m.cursor >= len(m.posts) {
		return
	}
	p := m.posts[m.cursor]
	if p.CreatedAt != nil {
		m.controller.ObserveVisible(p.ID, *p.CreatedAt)
	}
}

// jumpCursorToCurrentMonth completes a prev/next jump: the cursor lands on
// the newest post of the target month and scroll-driving resumes from it.
func (m *Model) jumpCursorToCurrentMonth() {
	cur, ok := m.controller.Current()
	if !ok {
		return
	}
	for i, p := range m.posts {
		if p.CreatedAt == nil {
			continue
		}
		at := p.CreatedAt.UTC()
		if at.Year() == cur.Year() && at.Month() == cur.Month() {
			m.cursor = i
			m.controller.JumpToPost(p.ID, *p.CreatedAt)
			return
		}
	}
}

func (m *Model) handleImagesKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "j", "down":
		if m.imgIndex < len(m.images)-1 {
			m.imgIndex++
		}
	case "k", "up":
		if m.imgIndex > 0 {
			m.imgIndex--
		}
	case "enter", "p":
		if m.imgIndex < len(m.images) {
			m.machine.Navigate(nav.NewRef(nav.EditPost, map[string]string{
				nav.ParamImageID: m.images[m.imgIndex].ID,
			}))
		}
	}
	return m, nil
}

func (m *Model) handleProjectsKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "j", "down":
		if m.listIdx < len(m.projects)-1 {
			m.listIdx++
		}
	case "k", "up":
		if m.listIdx > 0 {
			m.listIdx--
		}
	case "enter":
		if m.listIdx < len(m.projects) {
			m.machine.Navigate(nav.NewRef(nav.PlayProject, map[string]string{
				nav.ParamProjectID: m.projects[m.listIdx].ID,
			}))
		}
	}
	return m, nil
}

func (m *Model) handlePlayKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "j", "down", "l", "right", " ":
		if m.playIdx < len(m.playImages)-1 {
			m.playIdx++
		}
	case "k", "up", "h", "left":
		if m.playIdx > 0 {
			m.playIdx--
		}
	case "esc":
		m.machine.Navigate(nav.NewRef(nav.Projects, nil))
	}
	return m, nil
}

func (m *Model) handleDiaryKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "j", "down":
		if m.listIdx < len(m.entries)-1 {
			m.listIdx++
		}
	case "k", "up":
		if m.listIdx > 0 {
			m.listIdx--
		}
	}
	return m, nil
}

// handleFormKey drives the text-input screens.
func (m *Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.current.Screen == nav.EditPost {
			m.machine.Navigate(nav.NewRef(nav.ImageBank, nil))
			return m, nil
		}
		if m.current.Screen != nav.Login {
			m.machine.Navigate(nav.NewRef(nav.Login, nil))
			return m, nil
		}
	case "tab", "shift+tab":
		if len(m.inputs) > 1 {
			m.inputs[m.focus].Blur()
			if msg.String() == "tab" {
				m.focus = (m.focus + 1) % len(m.inputs)
			} else {
				m.focus = (m.focus + len(m.inputs) - 1) % len(m.inputs)
			}
			m.inputs[m.focus].Focus()
		}
		return m, nil
	case "enter":
		return m, m.submitForm()
	case "ctrl+s":
		if m.current.Screen == nav.Login {
			m.machine.Navigate(nav.NewRef(nav.Signup, nil))
			return m, nil
		}
	case "ctrl+f":
		if m.current.Screen == nav.Login {
			m.machine.Navigate(nav.NewRef(nav.ForgotPassword, nil))
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.focus < len(m.inputs) {
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	}
	return m, cmd
}

func (m *Model) submitForm() tea.Cmd {
	values := make([]string, len(m.inputs))
	for i := range m.inputs {
		values[i] = strings.TrimSpace(m.inputs[i].Value())
	}

	switch m.current.Screen {
	case nav.Login:
		return m.signIn(values[0], values[1])
	case nav.Signup:
		return m.signUp(values[0], values[1], values[2])
	case nav.ForgotPassword:
		m.errText = "reset instructions sent (check " + values[0] + ")"
		return nil
	case nav.ConfirmEmail:
		m.machine.Navigate(nav.NewRef(nav.Login, nil))
		return nil
	case nav.CompleteProfile:
		m.session.DisplayName = values[0]
		m.machine.Navigate(nav.NewRef(nav.Home, nil))
		return nil
	case nav.EditPost:
		return m.composePost(values[0])
	}
	return nil
}

func (m *Model) signIn(email, password string) tea.Cmd {
	return func() tea.Msg {
		_, err := m.deps.Identity.SignIn(context.Background(), email, password)
		if err != nil {
			return errMsg{err}
		}
		return signedInMsg{}
	}
}

func (m *Model) signUp(name, email, password string) tea.Cmd {
	return func() tea.Msg {
		reg, ok := m.deps.Identity.(interface {
			Register(identity.Session, string)
		})
		if !ok {
			return errMsg{errIdentityReadOnly}
		}
		s := identity.Session{
			UserID:      uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+strings.ToLower(email))).String(),
			Email:       strings.ToLower(email),
			DisplayName: name,
		}
		reg.Register(s, password)
		if _, err := m.deps.Identity.SignIn(context.Background(), email, password); err != nil {
			return errMsg{err}
		}
		return signedInMsg{}
	}
}

func (m *Model) composePost(body string) tea.Cmd {
	imageID := m.current.Param(nav.ParamImageID)
	sphereID := m.sphereID
	authorID := m.session.UserID
	return func() tea.Msg {
		ctx := context.Background()
		if imageID == "" {
			p, err := m.deps.Service.CreatePost(ctx, sphereID, authorID, body, nil, "")
			if err != nil {
				return errMsg{err}
			}
			return postDoneMsg{id: p.ID}
		}
		p, err := m.deps.Service.CreatePostFromImage(ctx, sphereID, authorID, body, imageID)
		if err != nil {
			return errMsg{err}
		}
		return postDoneMsg{id: p.ID}
	}
}

func (m *Model) signOut() tea.Cmd {
	return func() tea.Msg {
		if err := m.deps.Identity.SignOut(context.Background()); err != nil {
			return errMsg{err}
		}
		return nil
	}
}

func (m *Model) shutdown() {
	m.closeLive()
	if m.stopWatch != nil {
		m.stopWatch()
	}
}
