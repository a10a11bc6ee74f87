// Package campaigns implements the campaign list: the owner of the
// persisted collection, donation jar refresh and the create flow.
package campaigns

import (
	"context"
	"strconv"
	"time"

	"github.com/dmitrijs2005/jarcover/internal/client/features/details"
	"github.com/dmitrijs2005/jarcover/internal/client/models"
	"github.com/dmitrijs2005/jarcover/internal/client/store"
	"github.com/dmitrijs2005/jarcover/internal/logging"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultSaveDebounce   = time.Second
	DefaultJarTimeout     = 15 * time.Second
	DefaultJarConcurrency = 8
	saveCancelID          = "campaigns.save"
	loadCancelID          = "campaigns.load"
	addGroupPrefix        = "campaigns.add."
)

type JarClient interface {
	LoadProgress(ctx context.Context, link string) (models.JarDetails, error)
}

type Repository interface {
	Save(ctx context.Context, cs models.Campaigns) error
}

// State is the list state. Campaigns is only ever replaced, never edited
// in place.
type State struct {
	Campaigns   models.Campaigns
	AddCampaign *details.State
	// AddCampaignID identifies the open create flow. Zero when none is open.
	AddCampaignID int
	IsLoadingJars bool

	lastAddID     int
	revision      uint64
	savedRevision uint64
}

func NewState(cs models.Campaigns) State {
	return State{Campaigns: cs}
}

// HasUnsavedChanges reports whether a mutation has not been written yet.
func (s State) HasUnsavedChanges() bool { return s.revision != s.savedRevision }

func (s *State) setCampaigns(cs models.Campaigns) {
	s.Campaigns = cs
	s.revision++
}

type Action interface{ isCampaignsAction() }

type (
	// InitialLoad refreshes jar details of every campaign with a link.
	InitialLoad struct{}

	JarDetailsLoaded struct {
		ID      uuid.UUID
		Details *models.JarDetails
	}

	InitialLoadFinished struct{}

	CreateCampaign struct{}
	CancelCreate   struct{}

	// AddCampaign wraps an action of the create flow identified by ID.
	// Actions addressed to a flow that is no longer open are dropped.
	AddCampaign struct {
		ID     int
		Action details.Action
	}

	Select struct{ ID uuid.UUID }

	Upsert struct{ Campaign models.Campaign }
	Remove struct{ ID uuid.UUID }

	// Flush writes pending changes immediately.
	Flush struct{}

	Persisted struct {
		Revision uint64
		Err      error
	}

	DelegateSelect struct{ ID uuid.UUID }
)

func (InitialLoad) isCampaignsAction()         {}
func (JarDetailsLoaded) isCampaignsAction()    {}
func (InitialLoadFinished) isCampaignsAction() {}
func (CreateCampaign) isCampaignsAction()      {}
func (CancelCreate) isCampaignsAction()        {}
func (AddCampaign) isCampaignsAction()         {}
func (Select) isCampaignsAction()              {}
func (Upsert) isCampaignsAction()              {}
func (Remove) isCampaignsAction()              {}
func (Flush) isCampaignsAction()               {}
func (Persisted) isCampaignsAction()           {}
func (DelegateSelect) isCampaignsAction()      {}

// Feature carries the collaborators of the list reducer.
type Feature struct {
	Details     *details.Feature
	Jars        JarClient
	Repo        Repository
	Clock       store.Clock
	NewID       func() uuid.UUID
	Debounce    time.Duration
	JarTimeout  time.Duration
	Concurrency int
	Logger      logging.Logger
}

func (f *Feature) logger() logging.Logger {
	if f.Logger == nil {
		return logging.Discard()
	}
	return f.Logger
}

func (f *Feature) newID() uuid.UUID {
	if f.NewID == nil {
		return uuid.New()
	}
	return f.NewID()
}

// Reduce applies a, then arms a debounced write if the collection changed.
func (f *Feature) Reduce(s *State, a Action) store.Effect[Action] {
	before := s.revision
	eff := f.reduce(s, a)
	if s.revision == before {
		return eff
	}
	return store.Merge(eff, f.persist(s, true))
}

func (f *Feature) reduce(s *State, a Action) store.Effect[Action] {
	switch a := a.(type) {
	case InitialLoad:
		return f.loadJars(s)

	case JarDetailsLoaded:
		i := s.Campaigns.Index(a.ID)
		if i < 0 {
			return store.None[Action]()
		}
		c := s.Campaigns[i]
		c.SetJarDetails(a.Details)
		s.setCampaigns(s.Campaigns.Upsert(c))
		return store.None[Action]()

	case InitialLoadFinished:
		s.IsLoadingJars = false
		return store.None[Action]()

	case CreateCampaign:
		eff := s.closeAdd()
		child := details.NewState(models.NewCampaign(f.newID()), true)
		s.lastAddID++
		s.AddCampaign = &child
		s.AddCampaignID = s.lastAddID
		return eff

	case CancelCreate:
		return s.closeAdd()

	case AddCampaign:
		return f.reduceAddCampaign(s, a)

	case Select:
		return store.Send[Action](DelegateSelect{ID: a.ID})

	case Upsert:
		s.setCampaigns(s.Campaigns.Upsert(a.Campaign))
		return store.None[Action]()

	case Remove:
		if s.Campaigns.Index(a.ID) < 0 {
			return store.None[Action]()
		}
		s.setCampaigns(s.Campaigns.Remove(a.ID))
		return store.None[Action]()

	case Flush:
		if !s.HasUnsavedChanges() {
			return store.None[Action]()
		}
		return f.persist(s, false)

	case Persisted:
		if a.Err != nil {
			f.logger().Warn(context.Background(), "persist campaigns failed",
				"revision", a.Revision, "error", a.Err)
			return store.None[Action]()
		}
		if a.Revision > s.savedRevision {
			s.savedRevision = a.Revision
		}
		return store.None[Action]()
	}

	return store.None[Action]()
}

func (f *Feature) reduceAddCampaign(s *State, a AddCampaign) store.Effect[Action] {
	if s.AddCampaign == nil || a.ID != s.AddCampaignID {
		return store.None[Action]()
	}

	id := a.ID
	child := *s.AddCampaign
	eff := store.Map(f.Details.Reduce(&child, a.Action), func(a details.Action) Action {
		return AddCampaign{ID: id, Action: a}
	}).Grouped(addGroup(id))
	s.AddCampaign = &child

	switch d := a.Action.(type) {
	case details.DelegateSaveCampaign:
		s.setCampaigns(s.Campaigns.Upsert(d.Campaign))
	case details.DelegateDeleteCampaign:
		if s.Campaigns.Index(d.ID) >= 0 {
			s.setCampaigns(s.Campaigns.Remove(d.ID))
		}
	case details.DelegateDismiss:
		eff = store.Merge(eff, s.closeAdd())
	}
	return eff
}

// closeAdd drops the open create flow and stops its in-flight work.
func (s *State) closeAdd() store.Effect[Action] {
	if s.AddCampaign == nil {
		return store.None[Action]()
	}
	id := s.AddCampaignID
	s.AddCampaign = nil
	s.AddCampaignID = 0
	return store.Cancel[Action](addGroup(id))
}

func addGroup(id int) string { return addGroupPrefix + strconv.Itoa(id) }

func (f *Feature) loadJars(s *State) store.Effect[Action] {
	targets := s.Campaigns.WithJarLinks()
	if len(targets) == 0 {
		s.IsLoadingJars = false
		return store.Cancel[Action](loadCancelID)
	}
	s.IsLoadingJars = true

	limit := f.Concurrency
	if limit <= 0 {
		limit = DefaultJarConcurrency
	}
	timeout := f.JarTimeout
	if timeout <= 0 {
		timeout = DefaultJarTimeout
	}
	log := f.logger()

	return store.Run(func(ctx context.Context, send store.Sender[Action]) {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(limit)

		for _, c := range targets {
			id, link := c.ID, c.JarLink()
			g.Go(func() error {
				rctx, cancel := context.WithTimeout(gctx, timeout)
				defer cancel()

				d, err := f.Jars.LoadProgress(rctx, link)
				if err != nil {
					log.Warn(rctx, "jar details unavailable", "campaign_id", id, "error", err)
					send(JarDetailsLoaded{ID: id})
					return nil
				}
				send(JarDetailsLoaded{ID: id, Details: &d})
				return nil
			})
		}

		_ = g.Wait()
		send(InitialLoadFinished{})
	}).Cancellable(loadCancelID)
}

func (f *Feature) persist(s *State, debounced bool) store.Effect[Action] {
	snapshot := s.Campaigns
	revision := s.revision
	log := f.logger()

	write := func(ctx context.Context, send store.Sender[Action]) {
		err := f.Repo.Save(ctx, snapshot)
		if err != nil {
			log.Warn(ctx, "campaigns write failed", "revision", revision, "error", err)
		} else {
			log.Debug(ctx, "campaigns written", "revision", revision, "count", len(snapshot))
		}
		send(Persisted{Revision: revision, Err: err})
	}

	if !debounced {
		return store.Run(write).Cancellable(saveCancelID)
	}

	d := f.Debounce
	if d <= 0 {
		d = DefaultSaveDebounce
	}
	clock := f.Clock
	if clock == nil {
		clock = store.RealClock()
	}
	return store.Debounce(saveCancelID, clock, d, write)
}
