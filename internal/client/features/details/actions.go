package details

import (
	"github.com/dmitrijs2005/jarcover/internal/client/features/templates"
	"github.com/dmitrijs2005/jarcover/internal/client/models"
	"github.com/dmitrijs2005/jarcover/internal/client/validation"
	"github.com/google/uuid"
)

type Action interface{ isDetailsAction() }

type (
	SetPurpose struct{ Text string }
	SetTarget  struct{ Text string }
	SetLink    struct{ Text string }
	SetFocus   struct{ Field validation.Field }

	// LoadImage reads a photo from disk off the event loop.
	LoadImage struct{ Path string }

	ImageLoaded struct {
		Raw []byte
		Err error
	}

	RequestTemplate struct{}

	// Templates wraps an action of the template picker.
	Templates struct{ Action templates.Action }

	RequestDelete struct{ ID uuid.UUID }

	AlertConfirmed struct{}

	// DismissDestination closes the presented alert or picker.
	DismissDestination struct{}

	Save struct{}

	permissionResponse struct {
		Status   models.PermissionStatus
		Err      error
		Campaign models.Campaign
	}

	saveFinished struct {
		Campaign models.Campaign
		Err      error
	}

	settingsOpened struct{ Err error }

	DelegateSaveCampaign   struct{ Campaign models.Campaign }
	DelegateDeleteCampaign struct{ ID uuid.UUID }
	DelegateDismiss        struct{}
)

func (SetPurpose) isDetailsAction()             {}
func (SetTarget) isDetailsAction()              {}
func (SetLink) isDetailsAction()                {}
func (SetFocus) isDetailsAction()               {}
func (LoadImage) isDetailsAction()              {}
func (ImageLoaded) isDetailsAction()            {}
func (RequestTemplate) isDetailsAction()        {}
func (Templates) isDetailsAction()              {}
func (RequestDelete) isDetailsAction()          {}
func (AlertConfirmed) isDetailsAction()         {}
func (DismissDestination) isDetailsAction()     {}
func (Save) isDetailsAction()                   {}
func (permissionResponse) isDetailsAction()     {}
func (saveFinished) isDetailsAction()           {}
func (settingsOpened) isDetailsAction()         {}
func (DelegateSaveCampaign) isDetailsAction()   {}
func (DelegateDeleteCampaign) isDetailsAction() {}
func (DelegateDismiss) isDetailsAction()        {}
