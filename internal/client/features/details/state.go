// Package details implements the campaign edit/create flow: form binding,
// validation, the save pipeline and delete confirmation.
package details

import (
	"github.com/dmitrijs2005/jarcover/internal/client/features/templates"
	"github.com/dmitrijs2005/jarcover/internal/client/models"
	"github.com/dmitrijs2005/jarcover/internal/client/validation"
	"github.com/google/uuid"
)

// AlertKind selects which alert is shown.
type AlertKind int

const (
	AlertConfirmDelete AlertKind = iota + 1
	AlertPhotoSavingFailed
	AlertPhotoLibraryDenied
)

type Alert struct {
	Kind       AlertKind
	CampaignID uuid.UUID
	// Message carries the failure text for AlertPhotoSavingFailed.
	Message string
}

func (a Alert) Title() string {
	switch a.Kind {
	case AlertConfirmDelete:
		return "Delete this campaign?"
	case AlertPhotoSavingFailed:
		return "Photo saving failed"
	case AlertPhotoLibraryDenied:
		return "No access to the photo library. Open settings?"
	default:
		return ""
	}
}

// Destination is the child currently presented over the form, if any.
type Destination interface{ isDestination() }

type AlertDestination struct{ Alert Alert }

type TemplatesDestination struct{ State templates.State }

func (AlertDestination) isDestination()     {}
func (TemplatesDestination) isDestination() {}

// State is the form state. Campaign is a private draft; InitialCampaign is
// the last saved snapshot.
type State struct {
	Campaign         models.Campaign
	InitialCampaign  models.Campaign
	ValidationErrors validation.Errors
	IsFormValid      bool
	Focus            validation.Field
	Destination      Destination
	// IsPresented is set when a parent can dismiss this screen.
	IsPresented bool
	IsSaving    bool
}

func NewState(c models.Campaign, presented bool) State {
	return State{Campaign: c, InitialCampaign: c, IsPresented: presented}
}

// CanSave is false while the draft equals the saved snapshot or a save is
// in flight.
func (s State) CanSave() bool {
	return !s.IsSaving && !s.Campaign.Equal(s.InitialCampaign)
}

// Alert returns the presented alert, if any.
func (s State) Alert() (Alert, bool) {
	d, ok := s.Destination.(AlertDestination)
	return d.Alert, ok
}

// Templates returns the presented template picker, if any.
func (s State) Templates() (templates.State, bool) {
	d, ok := s.Destination.(TemplatesDestination)
	return d.State, ok
}
