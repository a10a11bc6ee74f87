package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/jarcover/internal/client/models"
	"github.com/dmitrijs2005/jarcover/internal/client/repositories/blobs"
	"github.com/dmitrijs2005/jarcover/internal/common"
	"github.com/dmitrijs2005/jarcover/internal/logging"
)

type CampaignRepository interface {
	// Load never fails: unreadable data yields the previous generation or
	// an empty collection.
	Load(ctx context.Context) models.Campaigns
	Save(ctx context.Context, cs models.Campaigns) error
}

type campaignRepository struct {
	blobs  blobs.Repository
	key    string
	logger logging.Logger
}

func NewCampaignRepository(b blobs.Repository, logger logging.Logger) CampaignRepository {
	if logger == nil {
		logger = logging.Discard()
	}
	return &campaignRepository{blobs: b, key: common.CampaignsStorageKey, logger: logger}
}

func (r *campaignRepository) Load(ctx context.Context) models.Campaigns {
	cs, err := r.decode(ctx, r.blobs.Get)
	if err == nil {
		return cs
	}
	if !errors.Is(err, common.ErrNotFound) {
		r.logger.Warn(ctx, "campaigns unreadable, trying previous generation", "error", err)
	}

	cs, perr := r.decode(ctx, r.blobs.Previous)
	if perr == nil {
		if errors.Is(err, common.ErrNotFound) {
			r.logger.Warn(ctx, "campaigns missing, restored previous generation")
		}
		return cs
	}
	if !errors.Is(perr, common.ErrNotFound) {
		r.logger.Warn(ctx, "previous campaigns unreadable, starting empty", "error", perr)
	}
	return models.Campaigns{}
}

func (r *campaignRepository) decode(ctx context.Context, get func(context.Context, string) ([]byte, error)) (models.Campaigns, error) {
	b, err := get(ctx, r.key)
	if err != nil {
		return nil, err
	}
	return models.DecodeCampaigns(b)
}

func (r *campaignRepository) Save(ctx context.Context, cs models.Campaigns) error {
	b, err := models.EncodeCampaigns(cs)
	if err != nil {
		return err
	}
	if err := r.blobs.Set(ctx, r.key, b); err != nil {
		return fmt.Errorf("store campaigns: %w", err)
	}
	return nil
}
