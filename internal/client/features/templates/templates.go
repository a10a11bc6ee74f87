// Package templates implements the template picker: a dismissible child
// flow that reports its results to the parent only through delegate actions.
package templates

import (
	"github.com/dmitrijs2005/jarcover/internal/client/models"
	"github.com/dmitrijs2005/jarcover/internal/client/store"
	"github.com/google/uuid"
)

// State is the picker state. Campaign is a private copy.
type State struct {
	Campaign           models.Campaign
	SelectedTemplateID string
	Templates          []models.Template
}

// NewState seeds the picker with the campaign's current template selected.
func NewState(c models.Campaign, catalog []models.Template) State {
	s := State{Campaign: c, Templates: catalog}
	if c.Template != nil {
		s.SelectedTemplateID = c.Template.ID()
	}
	return s
}

// SelectedTemplate looks the selection up in the catalog.
func (s State) SelectedTemplate() *models.Template {
	if s.SelectedTemplateID == "" {
		return nil
	}
	for i := range s.Templates {
		if s.Templates[i].ID() == s.SelectedTemplateID {
			t := s.Templates[i]
			return &t
		}
	}
	return nil
}

type Action interface{ isTemplatesAction() }

type (
	Select struct{ Template models.Template }

	ImageTransformFinished struct {
		Scale  float64
		Offset models.Point
		Size   models.Size
	}

	// Confirm applies the selection. Callers gate it on a selection being
	// present; without one it does nothing.
	Confirm struct{}

	DelegateImageRepositioned struct {
		Scale      float64
		Offset     models.Point
		Size       models.Size
		CampaignID uuid.UUID
	}

	DelegateTemplateApplied struct {
		Template   models.Template
		CampaignID uuid.UUID
	}

	DelegateDismiss struct{}
)

func (Select) isTemplatesAction()                    {}
func (ImageTransformFinished) isTemplatesAction()    {}
func (Confirm) isTemplatesAction()                   {}
func (DelegateImageRepositioned) isTemplatesAction() {}
func (DelegateTemplateApplied) isTemplatesAction()   {}
func (DelegateDismiss) isTemplatesAction()           {}

// Reduce is the picker reducer.
func Reduce(s *State, a Action) store.Effect[Action] {
	switch a := a.(type) {
	case Select:
		s.SelectedTemplateID = a.Template.ID()
		s.Campaign.SetTransform(1, models.Point{}, models.Size{})
		return store.Send[Action](DelegateImageRepositioned{
			Scale:      1,
			CampaignID: s.Campaign.ID,
		})

	case ImageTransformFinished:
		s.Campaign.SetTransform(a.Scale, a.Offset, a.Size)
		return store.Send[Action](DelegateImageRepositioned{
			Scale:      a.Scale,
			Offset:     a.Offset,
			Size:       a.Size,
			CampaignID: s.Campaign.ID,
		})

	case Confirm:
		t := s.SelectedTemplate()
		if t == nil {
			return store.None[Action]()
		}
		return store.Merge(
			store.Send[Action](DelegateTemplateApplied{Template: *t, CampaignID: s.Campaign.ID}),
			store.Send[Action](DelegateDismiss{}),
		)
	}
	return store.None[Action]()
}
