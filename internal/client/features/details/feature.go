package details

import (
	"context"
	"image"
	"time"

	"github.com/dmitrijs2005/jarcover/internal/client/features/templates"
	"github.com/dmitrijs2005/jarcover/internal/client/models"
	"github.com/dmitrijs2005/jarcover/internal/client/money"
	"github.com/dmitrijs2005/jarcover/internal/client/store"
	"github.com/dmitrijs2005/jarcover/internal/client/validation"
	"github.com/dmitrijs2005/jarcover/internal/logging"
)

// DefaultRenderTimeout bounds render plus library write.
const DefaultRenderTimeout = 30 * time.Second

type Renderer interface {
	Render(ctx context.Context, c models.Campaign) (image.Image, error)
}

type PhotoLibrary interface {
	RequestPermission(ctx context.Context) (models.PermissionStatus, error)
	SaveImage(ctx context.Context, img image.Image) error
}

type SettingsOpener interface {
	OpenSettings(ctx context.Context) error
}

type ImageLoader interface {
	Load(ctx context.Context, path string) ([]byte, error)
}

// Feature carries the collaborators of the details reducer.
type Feature struct {
	Renderer      Renderer
	Library       PhotoLibrary
	Settings      SettingsOpener
	Images        ImageLoader
	Format        money.Format
	Catalog       []models.Template
	RenderTimeout time.Duration
	Logger        logging.Logger
}

func (f *Feature) logger() logging.Logger {
	if f.Logger == nil {
		return logging.Discard()
	}
	return f.Logger
}

func (f *Feature) catalog() []models.Template {
	if len(f.Catalog) == 0 {
		return templates.Catalog()
	}
	return f.Catalog
}

func (f *Feature) renderTimeout() time.Duration {
	if f.RenderTimeout <= 0 {
		return DefaultRenderTimeout
	}
	return f.RenderTimeout
}

func (f *Feature) validate(s *State, field validation.Field) {
	s.ValidationErrors = s.ValidationErrors.Set(field, validation.ValidateField(field, s.Campaign, f.Format))
	s.IsFormValid = s.ValidationErrors.IsEmpty()
}

// Reduce is the details reducer.
func (f *Feature) Reduce(s *State, a Action) store.Effect[Action] {
	switch a := a.(type) {
	case SetPurpose:
		s.Campaign.Purpose = a.Text
		f.validate(s, validation.FieldName)
		return store.None[Action]()

	case SetTarget:
		s.Campaign.SetFormattedTarget(a.Text, f.Format)
		return store.None[Action]()

	case SetLink:
		s.Campaign.SetJarLink(a.Text)
		return store.None[Action]()

	case SetFocus:
		prev := s.Focus
		s.Focus = a.Field
		if prev != a.Field && (prev == validation.FieldTarget || prev == validation.FieldLink) {
			f.validate(s, prev)
		}
		return store.None[Action]()

	case LoadImage:
		path := a.Path
		return store.Run(func(ctx context.Context, send store.Sender[Action]) {
			raw, err := f.Images.Load(ctx, path)
			send(ImageLoaded{Raw: raw, Err: err})
		})

	case ImageLoaded:
		if a.Err != nil {
			f.logger().Warn(context.Background(), "image load failed",
				"campaign_id", s.Campaign.ID, "error", a.Err)
			return store.None[Action]()
		}
		s.Campaign.SetImage(a.Raw)
		f.validate(s, validation.FieldImage)
		return store.None[Action]()

	case RequestTemplate:
		s.Destination = TemplatesDestination{State: templates.NewState(s.Campaign, f.catalog())}
		return store.None[Action]()

	case Templates:
		return f.reduceTemplates(s, a.Action)

	case RequestDelete:
		s.Destination = AlertDestination{Alert: Alert{Kind: AlertConfirmDelete, CampaignID: a.ID}}
		return store.None[Action]()

	case AlertConfirmed:
		return f.confirmAlert(s)

	case DismissDestination:
		s.Destination = nil
		return store.None[Action]()

	case Save:
		return f.save(s)

	case permissionResponse:
		return f.permissionResponse(s, a)

	case saveFinished:
		s.IsSaving = false
		if a.Err != nil {
			f.logger().Error(context.Background(), "cover saving failed",
				"campaign_id", a.Campaign.ID, "error", a.Err)
			s.Destination = AlertDestination{Alert: Alert{
				Kind:       AlertPhotoSavingFailed,
				CampaignID: a.Campaign.ID,
				Message:    a.Err.Error(),
			}}
			return store.None[Action]()
		}
		s.InitialCampaign = a.Campaign
		return f.delegateAndDismiss(s, DelegateSaveCampaign{Campaign: a.Campaign})

	case settingsOpened:
		if a.Err != nil {
			f.logger().Warn(context.Background(), "open settings failed", "error", a.Err)
		}
		return store.None[Action]()
	}

	return store.None[Action]()
}

func (f *Feature) reduceTemplates(s *State, a templates.Action) store.Effect[Action] {
	dest, ok := s.Destination.(TemplatesDestination)
	if !ok {
		return store.None[Action]()
	}

	child := dest.State
	eff := store.Map(templates.Reduce(&child, a), func(a templates.Action) Action { return Templates{Action: a} })
	s.Destination = TemplatesDestination{State: child}

	switch a := a.(type) {
	case templates.DelegateTemplateApplied:
		s.Destination = nil
		s.Campaign.SetTemplate(&a.Template)
		f.validate(s, validation.FieldTemplate)
	case templates.DelegateImageRepositioned:
		s.Campaign.SetTransform(a.Scale, a.Offset, a.Size)
	case templates.DelegateDismiss:
		s.Destination = nil
	}
	return eff
}

func (f *Feature) confirmAlert(s *State) store.Effect[Action] {
	alert, ok := s.Alert()
	if !ok {
		return store.None[Action]()
	}
	s.Destination = nil

	switch alert.Kind {
	case AlertConfirmDelete:
		return f.delegateAndDismiss(s, DelegateDeleteCampaign{ID: alert.CampaignID})
	case AlertPhotoLibraryDenied:
		return store.Run(func(ctx context.Context, send store.Sender[Action]) {
			send(settingsOpened{Err: f.Settings.OpenSettings(ctx)})
		})
	}
	return store.None[Action]()
}

func (f *Feature) delegateAndDismiss(s *State, delegate Action) store.Effect[Action] {
	eff := store.Send(delegate)
	if s.IsPresented {
		eff = store.Merge(eff, store.Send[Action](DelegateDismiss{}))
	}
	return eff
}

func (f *Feature) save(s *State) store.Effect[Action] {
	if !s.CanSave() {
		// Target text that does not parse leaves Campaign untouched, so
		// surface its error even though there is nothing to write.
		if !s.IsSaving {
			f.validate(s, validation.FieldTarget)
		}
		return store.None[Action]()
	}

	s.ValidationErrors = validation.ValidateForm(s.Campaign, f.Format)
	s.IsFormValid = s.ValidationErrors.IsEmpty()
	if !s.IsFormValid {
		s.Focus = validation.FieldNone
		return store.None[Action]()
	}

	s.IsSaving = true
	campaign := s.Campaign
	return store.Run(func(ctx context.Context, send store.Sender[Action]) {
		status, err := f.Library.RequestPermission(ctx)
		send(permissionResponse{Status: status, Err: err, Campaign: campaign})
	})
}

func (f *Feature) permissionResponse(s *State, a permissionResponse) store.Effect[Action] {
	if a.Err != nil {
		return f.Reduce(s, saveFinished{Campaign: a.Campaign, Err: a.Err})
	}
	if !a.Status.CanWrite() {
		s.IsSaving = false
		s.Destination = AlertDestination{Alert: Alert{Kind: AlertPhotoLibraryDenied, CampaignID: a.Campaign.ID}}
		return store.None[Action]()
	}

	campaign := a.Campaign
	timeout := f.renderTimeout()
	return store.Run(func(ctx context.Context, send store.Sender[Action]) {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		img, err := f.Renderer.Render(ctx, campaign)
		if err == nil {
			err = f.Library.SaveImage(ctx, img)
		}
		send(saveFinished{Campaign: campaign, Err: err})
	})
}
