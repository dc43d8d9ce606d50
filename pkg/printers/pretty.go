package printers

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/sphere/pkg/diary"
	"tableflip.dev/sphere/pkg/feed"
	"tableflip.dev/sphere/pkg/gallery"
	"tableflip.dev/sphere/pkg/project"
	"tableflip.dev/sphere/pkg/sphere"
)

type PrettyPrint struct {
	ShowID bool
}

var (
	spacing = strings.Repeat(" ", len("171dff69f8b99dca  "))
)

func (pp *PrettyPrint) NewLine() {
	fmt.Println("")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)

	if pp.ShowID {
		_, _ = t.Print(spacing)
	}
	_, _ = t.Println(title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	if pp.ShowID {
		_, _ = t.Print(spacing)
	}
	_, _ = t.Print(title)
	_, _ = c.Printf(" - %d", count)

	switch count {
	case 1:
		_, _ = c.Println(" item")
	default:
		_, _ = c.Println(" items")
	}
}

func (pp *PrettyPrint) none() {
	f := color.New(color.Faint, color.Italic)
	if pp.ShowID {
		_, _ = f.Print(spacing)
	}
	_, _ = f.Print(" none\n\n")
}

func (pp *PrettyPrint) Posts(posts ...feed.Post) {
	if len(posts) == 0 {
		pp.none()
		return
	}

	t := color.New()
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	f := color.New(color.Faint)

	for _, p := range posts {
		if pp.ShowID {
			_, _ = y.Print(shortID(p.ID))
		}
		_, _ = f.Print(stamp(p.CreatedAt), "  ")
		_, _ = t.Print(p.Body)
		if p.MediaURL != "" {
			_, _ = f.Print("  [media]")
		}
		_, _ = t.Println("")
	}
	_, _ = t.Println("")
}

func (pp *PrettyPrint) Comments(comments ...feed.Comment) {
	if len(comments) == 0 {
		pp.none()
		return
	}
	t := color.New()
	f := color.New(color.Faint)
	for _, c := range comments {
		_, _ = f.Printf("  %s  ", stamp(c.CreatedAt))
		_, _ = t.Println(c.Body)
	}
	_, _ = t.Println("")
}

func (pp *PrettyPrint) Spheres(spheres ...sphere.Sphere) {
	if len(spheres) == 0 {
		pp.none()
		return
	}
	table := uitable.New()
	table.AddRow("NAME", "OWNER", "CREATED")
	if pp.ShowID {
		table.Rows = nil
		table.AddRow("ID", "NAME", "OWNER", "CREATED")
	}
	for _, s := range spheres {
		if pp.ShowID {
			table.AddRow(s.ID, s.Name, s.OwnerID, stamp(s.CreatedAt))
		} else {
			table.AddRow(s.Name, s.OwnerID, stamp(s.CreatedAt))
		}
	}
	fmt.Println(table)
	fmt.Println("")
}

func (pp *PrettyPrint) Invites(invites ...sphere.Invitation) {
	if len(invites) == 0 {
		pp.none()
		return
	}
	table := uitable.New()
	if pp.ShowID {
		table.AddRow("ID", "SPHERE", "FROM", "SENT")
	} else {
		table.AddRow("SPHERE", "FROM", "SENT")
	}
	for _, inv := range invites {
		if pp.ShowID {
			table.AddRow(inv.ID, inv.SphereName, inv.InviterID, stamp(inv.CreatedAt))
		} else {
			table.AddRow(inv.SphereName, inv.InviterID, stamp(inv.CreatedAt))
		}
	}
	fmt.Println(table)
	fmt.Println("")
}

func (pp *PrettyPrint) Members(members ...sphere.Member) {
	if len(members) == 0 {
		pp.none()
		return
	}
	table := uitable.New()
	table.AddRow("USER", "ROLE")
	for _, m := range members {
		table.AddRow(m.UserID, m.Role)
	}
	fmt.Println(table)
	fmt.Println("")
}

func (pp *PrettyPrint) Images(images ...gallery.Image) {
	if len(images) == 0 {
		pp.none()
		return
	}
	table := uitable.New()
	if pp.ShowID {
		table.AddRow("ID", "CAPTION", "UPLOADER", "UPLOADED")
	} else {
		table.AddRow("CAPTION", "UPLOADER", "UPLOADED")
	}
	for _, img := range images {
		if pp.ShowID {
			table.AddRow(img.ID, img.Caption, img.UploaderID, stamp(img.CreatedAt))
		} else {
			table.AddRow(img.Caption, img.UploaderID, stamp(img.CreatedAt))
		}
	}
	fmt.Println(table)
	fmt.Println("")
}

func (pp *PrettyPrint) DiaryEntries(entries ...diary.Entry) {
	if len(entries) == 0 {
		pp.none()
		return
	}
	t := color.New()
	b := color.New(color.Bold)
	f := color.New(color.Faint)
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	for _, e := range entries {
		if pp.ShowID {
			_, _ = y.Print(shortID(e.ID))
		}
		_, _ = f.Print(diary.FormatDate(e.Date), "  ")
		_, _ = b.Print(e.Title)
		if e.Body != "" {
			_, _ = t.Printf("  %s", e.Body)
		}
		_, _ = t.Println("")
	}
	_, _ = t.Println("")
}

func (pp *PrettyPrint) Projects(projects ...project.Project) {
	if len(projects) == 0 {
		pp.none()
		return
	}
	table := uitable.New()
	if pp.ShowID {
		table.AddRow("ID", "NAME", "KIND", "ITEMS")
	} else {
		table.AddRow("NAME", "KIND", "ITEMS")
	}
	for _, p := range projects {
		if pp.ShowID {
			table.AddRow(p.ID, p.Name, string(p.Kind), len(p.ItemIDs))
		} else {
			table.AddRow(p.Name, string(p.Kind), len(p.ItemIDs))
		}
	}
	fmt.Println(table)
	fmt.Println("")
}

func shortID(id string) string {
	if len(id) > 16 {
		id = id[:16]
	}
	return id + strings.Repeat(" ", len(spacing)-len(id))
}

func stamp(t *time.Time) string {
	if t == nil {
		return "(pending)"
	}
	return t.Local().Format("2006-01-02 15:04")
}
