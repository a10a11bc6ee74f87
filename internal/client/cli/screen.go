package cli

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/jarcover/internal/client/features/app"
	"github.com/dmitrijs2005/jarcover/internal/client/features/campaigns"
	"github.com/dmitrijs2005/jarcover/internal/client/features/details"
	"github.com/dmitrijs2005/jarcover/internal/client/features/templates"
	"github.com/dmitrijs2005/jarcover/internal/client/models"
	"github.com/dmitrijs2005/jarcover/internal/client/validation"
)

type screen int

const (
	screenList screen = iota
	screenAdd
	screenEdit
	screenTemplates
	screenAlert
)

func (s screen) String() string {
	switch s {
	case screenAdd:
		return "new"
	case screenEdit:
		return "edit"
	case screenTemplates:
		return "templates"
	case screenAlert:
		return "alert"
	default:
		return "list"
	}
}

// form is the details screen commands currently address: the add modal
// when it is open, otherwise the top of the navigation stack.
type form struct {
	state details.State
	wrap  func(details.Action) app.Action
	added bool
}

func (f form) send(st *AppStore, a details.Action) { st.Send(f.wrap(a)) }

func currentForm(st app.State) (form, bool) {
	if st.List.AddCampaign != nil {
		id := st.List.AddCampaignID
		return form{
			state: *st.List.AddCampaign,
			wrap: func(d details.Action) app.Action {
				return app.List{Action: campaigns.AddCampaign{ID: id, Action: d}}
			},
			added: true,
		}, true
	}
	if top, ok := st.Top(); ok {
		id := top.ID
		return form{
			state: top.State,
			wrap:  func(d details.Action) app.Action { return app.Path{ID: id, Action: d} },
		}, true
	}
	return form{}, false
}

func screenOf(st app.State) screen {
	f, ok := currentForm(st)
	if !ok {
		return screenList
	}
	switch f.state.Destination.(type) {
	case details.AlertDestination:
		return screenAlert
	case details.TemplatesDestination:
		return screenTemplates
	}
	if f.added {
		return screenAdd
	}
	return screenEdit
}

func (a *App) prompt() string {
	return fmt.Sprintf("jarcover (%s)> ", screenOf(a.store.State()))
}

// Help lists the commands of the current screen.
func (a *App) Help() string {
	switch screenOf(a.store.State()) {
	case screenAdd, screenEdit:
		return "Available commands: purpose <text>, target <amount>, link <url>, image <path>, " +
			"focus <name|target|link|none>, template, save, delete, back, list, exit"
	case screenTemplates:
		return "Available commands: pick <n>, drag <dx> <dy>, pinch <factor>, apply, close"
	case screenAlert:
		return "Available commands: yes, no"
	default:
		return "Available commands: list, new, open <n>, refresh, exit"
	}
}

func (a *App) printScreen() {
	a.printf("%s", a.render(a.store.State()))
}

func (a *App) render(st app.State) string {
	f, ok := currentForm(st)
	if !ok {
		return a.renderList(st.List)
	}
	switch d := f.state.Destination.(type) {
	case details.AlertDestination:
		return renderAlert(d.Alert)
	case details.TemplatesDestination:
		return renderTemplates(d.State)
	}
	return a.renderForm(f)
}

func (a *App) renderList(s campaigns.State) string {
	var b strings.Builder
	b.WriteString("Campaigns")
	if s.IsLoadingJars {
		b.WriteString(" (refreshing jar progress)")
	}
	b.WriteString(":\n")
	if len(s.Campaigns) == 0 {
		b.WriteString("  none yet, type 'new' to create one\n")
		return b.String()
	}
	for i, c := range s.Campaigns {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, a.summary(c))
	}
	return b.String()
}

func (a *App) summary(c models.Campaign) string {
	parts := []string{c.Purpose}
	if c.Purpose == "" {
		parts[0] = "(untitled)"
	}
	if c.Target != nil {
		parts = append(parts, "target "+a.format.FormatCurrency(*c.Target))
	}
	if c.Jar != nil {
		switch {
		case c.Jar.Details == nil:
			parts = append(parts, "jar unavailable")
		default:
			collected := "collected " + a.format.FormatCurrency(c.Jar.Details.Amount)
			if p, ok := c.Progress(); ok {
				collected += " (" + a.format.FormatPercent(p) + ")"
			}
			if !c.Jar.Details.IsActive() {
				collected += " closed"
			}
			parts = append(parts, collected)
		}
	}
	return strings.Join(parts, " | ")
}

func (a *App) renderForm(f form) string {
	s := f.state
	c := s.Campaign

	var b strings.Builder
	if f.added {
		b.WriteString("New campaign\n")
	} else {
		b.WriteString("Edit campaign\n")
	}

	line := func(field validation.Field, value string) {
		marker := " "
		if s.Focus == field && field != validation.FieldNone {
			marker = ">"
		}
		fmt.Fprintf(&b, " %s %-9s %s", marker, field.String()+":", value)
		for _, code := range s.ValidationErrors.For(field) {
			fmt.Fprintf(&b, "  ! %s", code)
		}
		b.WriteString("\n")
	}

	line(validation.FieldName, c.Purpose)
	line(validation.FieldTarget, c.FormattedTarget(a.format))
	line(validation.FieldLink, c.JarLink())

	image := "none"
	if c.Image != nil {
		image = fmt.Sprintf("%d bytes, scale %.2f, offset (%.0f, %.0f)",
			len(c.Image.Raw), c.Image.Scale, c.Image.Offset.X, c.Image.Offset.Y)
	}
	line(validation.FieldImage, image)

	tmpl := "none"
	if c.Template != nil {
		tmpl = c.Template.Name
	}
	line(validation.FieldTemplate, tmpl)

	switch {
	case s.IsSaving:
		b.WriteString("  saving cover...\n")
	case s.CanSave():
		b.WriteString("  unsaved changes, type 'save' to export the cover\n")
	}
	return b.String()
}

func renderTemplates(s templates.State) string {
	var b strings.Builder
	b.WriteString("Templates:\n")
	for i, t := range s.Templates {
		mark := " "
		if t.ID() == s.SelectedTemplateID {
			mark = "*"
		}
		fmt.Fprintf(&b, " %s %d. %s (%s, %s)\n", mark, i+1, t.Name, t.Gradient, t.Placement)
	}
	if img := s.Campaign.Image; img != nil {
		fmt.Fprintf(&b, "  photo: scale %.2f, offset (%.0f, %.0f)\n", img.Scale, img.Offset.X, img.Offset.Y)
	}
	return b.String()
}

func renderAlert(al details.Alert) string {
	if al.Message != "" {
		return fmt.Sprintf("%s\n  %s\n  (yes/no)\n", al.Title(), al.Message)
	}
	return fmt.Sprintf("%s (yes/no)\n", al.Title())
}

// notify reports results that arrive after the command that caused them.
// It runs under the store lock and only writes output.
func (a *App) notify(act app.Action, st app.State) {
	switch act := act.(type) {
	case app.List:
		if _, ok := act.Action.(campaigns.InitialLoadFinished); ok {
			a.printf("Jar progress refreshed.\n")
		}
	}

	if d, ok := unwrapDetails(act); ok {
		switch d := d.(type) {
		case details.ImageLoaded:
			if d.Err != nil {
				a.printf("Could not load image: %v\n", d.Err)
			} else {
				a.printf("Image loaded.\n")
			}
		case details.DelegateSaveCampaign:
			a.printf("Cover saved for %q.\n", d.Campaign.Purpose)
		}
	}

	f, ok := currentForm(st)
	var alert *details.Alert
	if ok {
		if al, found := f.state.Alert(); found {
			alert = &al
		}
	}
	if alert != nil && (a.lastAlert == nil || *a.lastAlert != *alert) {
		a.printf("%s", renderAlert(*alert))
	}
	a.lastAlert = alert
}

func unwrapDetails(act app.Action) (details.Action, bool) {
	switch act := act.(type) {
	case app.Path:
		return act.Action, true
	case app.List:
		if add, ok := act.Action.(campaigns.AddCampaign); ok {
			return add.Action, true
		}
	}
	return nil, false
}
