package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/sphere/pkg/diary"
	"tableflip.dev/sphere/pkg/nav"
	"tableflip.dev/sphere/pkg/tui/components/monthpicker"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	faintStyle  = lipgloss.NewStyle().Faint(true)
	cursorStyle = lipgloss.NewStyle().Bold(true)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	badgeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.viewHeader())
	b.WriteString("\n\n")

	switch m.current.Screen {
	case nav.Home:
		b.WriteString(m.viewFeed())
	case nav.ImageBank:
		b.WriteString(m.viewImages())
	case nav.Diary:
		b.WriteString(m.viewDiary())
	case nav.Projects:
		b.WriteString(m.viewProjects())
	case nav.PlayProject:
		b.WriteString(m.viewPlay())
	case nav.EditPost:
		b.WriteString(m.viewForm("New post", "enter to post, esc for the image bank"))
	case nav.Login:
		b.WriteString(m.viewForm("Sign in", "enter to sign in, ctrl+s to sign up, ctrl+f if you forgot your password"))
	case nav.Signup:
		b.WriteString(m.viewForm("Create account", "enter to sign up, esc to go back"))
	case nav.ForgotPassword:
		b.WriteString(m.viewForm("Reset password", "enter to send reset instructions, esc to go back"))
	case nav.ConfirmEmail:
		b.WriteString(m.viewForm("Confirm your email", "enter once you have clicked the link"))
	case nav.CompleteProfile:
		b.WriteString(m.viewForm("Finish your profile", "enter to save"))
	}

	if m.errText != "" {
		b.WriteString("\n")
		b.WriteString(errStyle.Render(m.errText))
	}
	b.WriteString("\n")
	return b.String()
}

func (m *Model) viewHeader() string {
	title := titleStyle.Render("sphere")
	screen := faintStyle.Render(" · " + m.current.Screen.String())
	badge := ""
	if n := len(m.invites); n > 0 {
		badge = badgeStyle.Render(fmt.Sprintf("  %d invite(s) waiting", n))
	}
	return title + screen + badge
}

func (m *Model) viewFeed() string {
	var b strings.Builder

	cur, hasCur := m.controller.Current()
	left, right := "  ", "  "
	if m.controller.CanPrev() {
		left = faintStyle.Render("‹ ")
	}
	if m.controller.CanNext() {
		right = faintStyle.Render(" ›")
	}
	b.WriteString(left + monthpicker.Render(m.controller.Months(), cur, hasCur, monthpicker.DefaultOptions()) + right)
	b.WriteString("\n\n")

	if len(m.posts) == 0 {
		b.WriteString(faintStyle.Render("no posts yet, press n to write one"))
		return b.String()
	}

	width := m.width
	if width <= 0 || width > 100 {
		width = 100
	}

	for i, p := range m.posts {
		if hasCur && p.CreatedAt != nil {
			at := p.CreatedAt.UTC()
			if at.Year() != cur.Year() || at.Month() != cur.Month() {
				continue
			}
		}
		prefix := "  "
		style := lipgloss.NewStyle()
		if i == m.cursor {
			prefix = "> "
			style = cursorStyle
		}
		b.WriteString(style.Render(prefix + stampTime(p.CreatedAt)))
		if p.MediaURL != "" {
			b.WriteString(faintStyle.Render("  [media]"))
		}
		b.WriteString("\n")
		b.WriteString(wordwrap.String("    "+p.Body, width-4))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(faintStyle.Render("j/k posts · h/l months · n new post · 2 images · 3 diary · 4 projects · q quit"))
	return b.String()
}

func (m *Model) viewImages() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Image bank"))
	b.WriteString("\n\n")
	if len(m.images) == 0 {
		b.WriteString(faintStyle.Render("the bank is empty"))
		return b.String()
	}
	for i, img := range m.images {
		prefix := "  "
		style := lipgloss.NewStyle()
		if i == m.imgIndex {
			prefix = "> "
			style = cursorStyle
		}
		caption := img.Caption
		if caption == "" {
			caption = "(no caption)"
		}
		b.WriteString(style.Render(prefix+caption) + faintStyle.Render("  "+stampTime(img.CreatedAt)) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(faintStyle.Render("enter to post this image · 1 feed · q quit"))
	return b.String()
}

func (m *Model) viewDiary() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Diary"))
	b.WriteString("\n\n")
	if len(m.entries) == 0 {
		b.WriteString(faintStyle.Render("no entries yet"))
		return b.String()
	}
	for i, e := range m.entries {
		prefix := "  "
		style := lipgloss.NewStyle()
		if i == m.listIdx {
			prefix = "> "
			style = cursorStyle
		}
		b.WriteString(style.Render(prefix+diary.FormatDate(e.Date)) + "  " + e.Title + "\n")
		if i == m.listIdx && e.Body != "" {
			b.WriteString(faintStyle.Render("    "+e.Body) + "\n")
		}
	}
	return b.String()
}

func (m *Model) viewProjects() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Projects"))
	b.WriteString("\n\n")
	if len(m.projects) == 0 {
		b.WriteString(faintStyle.Render("no projects yet"))
		return b.String()
	}
	for i, p := range m.projects {
		prefix := "  "
		style := lipgloss.NewStyle()
		if i == m.listIdx {
			prefix = "> "
			style = cursorStyle
		}
		b.WriteString(style.Render(prefix+p.Name) + faintStyle.Render(fmt.Sprintf("  %s · %d items", p.Kind, len(p.ItemIDs))) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(faintStyle.Render("enter to play · 1 feed · q quit"))
	return b.String()
}

func (m *Model) viewPlay() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Playing"))
	b.WriteString("\n\n")
	if len(m.playImages) == 0 {
		b.WriteString(faintStyle.Render("this project has no images"))
		return b.String()
	}
	img := m.playImages[m.playIdx]
	caption := img.Caption
	if caption == "" {
		caption = "(no caption)"
	}
	b.WriteString(cursorStyle.Render(caption))
	b.WriteString("\n")
	if img.MediaURL != "" {
		b.WriteString(faintStyle.Render(img.MediaURL))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(faintStyle.Render(fmt.Sprintf("%d of %d · space for next · esc back", m.playIdx+1, len(m.playImages))))
	return b.String()
}

func (m *Model) viewForm(title, help string) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")
	for i := range m.inputs {
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(faintStyle.Render(help))
	return b.String()
}

func stampTime(t *time.Time) string {
	if t == nil {
		return "sending…"
	}
	return t.Local().Format("Jan 2, 2006 15:04")
}
