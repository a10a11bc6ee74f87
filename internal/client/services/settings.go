package services

import (
	"context"

	"github.com/dmitrijs2005/jarcover/internal/logging"
)

// LogSettingsOpener stands in for the OS settings screen of a terminal
// host: it tells the user where permissions are configured.
type LogSettingsOpener struct {
	Logger logging.Logger
	Hint   string
}

func (o LogSettingsOpener) OpenSettings(ctx context.Context) error {
	if o.Logger != nil {
		o.Logger.Info(ctx, "open settings requested", "hint", o.Hint)
	}
	return nil
}
