package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/jarcover/internal/client/features/app"
	"github.com/dmitrijs2005/jarcover/internal/client/features/campaigns"
	"github.com/dmitrijs2005/jarcover/internal/client/features/details"
	"github.com/dmitrijs2005/jarcover/internal/client/features/templates"
	"github.com/dmitrijs2005/jarcover/internal/client/features/transform"
	"github.com/dmitrijs2005/jarcover/internal/client/models"
	"github.com/dmitrijs2005/jarcover/internal/client/validation"
)

var (
	ErrNotHere  = errors.New("not available on this screen")
	ErrNoPhoto  = errors.New("load an image first")
	ErrNoChoice = errors.New("pick a template first")
)

// Execute runs one command against the current screen and prints the
// resulting screen.
func (a *App) Execute(ctx context.Context, cmd, rest string) error {
	st := a.store.State()
	scr := screenOf(st)

	var err error
	switch cmd {
	case "list":
		a.printf("%s", a.renderList(st.List))
		return nil
	case "refresh":
		a.store.Send(app.List{Action: campaigns.InitialLoad{}})
	case "new", "open":
		err = a.listCommand(st, scr, cmd, rest)
	case "yes", "no":
		err = a.alertCommand(st, scr, cmd)
	case "pick", "drag", "pinch", "apply":
		err = a.templatesCommand(st, scr, cmd, rest)
	case "close", "back":
		err = a.back(st, scr)
	case "purpose", "target", "link", "image", "focus", "template", "save", "delete":
		err = a.formCommand(st, scr, cmd, rest)
	default:
		return ErrUnknownCommand
	}
	if err != nil {
		return err
	}

	if screenOf(a.store.State()) != screenAlert {
		a.printScreen()
	}
	return nil
}

func (a *App) listCommand(st app.State, scr screen, cmd, rest string) error {
	if scr != screenList {
		return fmt.Errorf("%s: %w", cmd, ErrNotHere)
	}
	switch cmd {
	case "new":
		a.store.Send(app.List{Action: campaigns.CreateCampaign{}})
	case "open":
		i, err := parseIndex(rest, len(st.List.Campaigns))
		if err != nil {
			return err
		}
		a.store.Send(app.List{Action: campaigns.Select{ID: st.List.Campaigns[i].ID}})
	}
	return nil
}

func (a *App) alertCommand(st app.State, scr screen, cmd string) error {
	if scr != screenAlert {
		return fmt.Errorf("%s: %w", cmd, ErrNotHere)
	}
	f, _ := currentForm(st)
	if cmd == "yes" {
		f.send(a.store, details.AlertConfirmed{})
	} else {
		f.send(a.store, details.DismissDestination{})
	}
	return nil
}

func (a *App) back(st app.State, scr screen) error {
	f, ok := currentForm(st)
	switch {
	case !ok:
		return fmt.Errorf("back: %w", ErrNotHere)
	case scr == screenAlert || scr == screenTemplates:
		f.send(a.store, details.DismissDestination{})
	case f.added:
		a.store.Send(app.List{Action: campaigns.CancelCreate{}})
	default:
		a.store.Send(app.Pop{})
	}
	return nil
}

func (a *App) formCommand(st app.State, scr screen, cmd, rest string) error {
	if scr != screenAdd && scr != screenEdit {
		return fmt.Errorf("%s: %w", cmd, ErrNotHere)
	}
	f, _ := currentForm(st)

	switch cmd {
	case "purpose":
		a.moveFocus(f, validation.FieldName)
		f.send(a.store, details.SetPurpose{Text: rest})
	case "target":
		a.moveFocus(f, validation.FieldTarget)
		f.send(a.store, details.SetTarget{Text: rest})
	case "link":
		a.moveFocus(f, validation.FieldLink)
		f.send(a.store, details.SetLink{Text: rest})
	case "focus":
		if rest == "" {
			return fmt.Errorf("%w: focus <name|target|link|none>", ErrUsage)
		}
		f.send(a.store, details.SetFocus{Field: validation.ParseField(rest)})
	case "image":
		if rest == "" {
			return fmt.Errorf("%w: image <path>", ErrUsage)
		}
		f.send(a.store, details.LoadImage{Path: rest})
		a.printf("Loading %s...\n", rest)
	case "template":
		f.send(a.store, details.RequestTemplate{})
	case "save":
		if f.state.IsSaving {
			return errors.New("a save is already running")
		}
		f.send(a.store, details.Save{})
		if !f.state.CanSave() {
			// Unparsable target input leaves the campaign unchanged.
			if nf, ok := currentForm(a.store.State()); ok && len(nf.state.ValidationErrors.Target) > 0 {
				return nil
			}
			return errors.New("nothing to save")
		}
	case "delete":
		f.send(a.store, details.RequestDelete{ID: f.state.Campaign.ID})
	}
	return nil
}

// moveFocus focuses field unless it already has focus, so editing another
// field validates the one being left.
func (a *App) moveFocus(f form, field validation.Field) {
	if f.state.Focus != field {
		f.send(a.store, details.SetFocus{Field: field})
	}
}

func (a *App) templatesCommand(st app.State, scr screen, cmd, rest string) error {
	if scr != screenTemplates {
		return fmt.Errorf("%s: %w", cmd, ErrNotHere)
	}
	f, _ := currentForm(st)
	ts, _ := f.state.Templates()

	send := func(t templates.Action) { f.send(a.store, details.Templates{Action: t}) }

	switch cmd {
	case "pick":
		i, err := parseIndex(rest, len(ts.Templates))
		if err != nil {
			return err
		}
		send(templates.Select{Template: ts.Templates[i]})

	case "apply":
		if ts.SelectedTemplate() == nil {
			return ErrNoChoice
		}
		send(templates.Confirm{})

	case "drag":
		p, err := parsePoint(rest)
		if err != nil {
			return err
		}
		g, err := a.gesture(ts, send)
		if err != nil {
			return err
		}
		g.DragChanged(p)
		g.DragEnded()

	case "pinch":
		factor, err := parseFactor(rest)
		if err != nil {
			return err
		}
		g, err := a.gesture(ts, send)
		if err != nil {
			return err
		}
		v := g.Scale() * factor
		g.MagnifyChanged(v)
		g.MagnifyEnded(v)
	}
	return nil
}

// gesture seeds a transform controller from the photo shown in the picker;
// a finished gesture is reported back to the picker.
func (a *App) gesture(ts templates.State, send func(templates.Action)) (*transform.Controller, error) {
	if ts.Campaign.Image == nil {
		return nil, ErrNoPhoto
	}
	return transform.FromImage(ts.Campaign.Image, a.container,
		func(scale float64, offset models.Point, size models.Size) {
			send(templates.ImageTransformFinished{Scale: scale, Offset: offset, Size: size})
		}), nil
}
