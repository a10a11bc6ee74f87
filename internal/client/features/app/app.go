// Package app composes the list and the pushed edit screens into one
// navigation stack and routes delegate actions between them.
package app

import (
	"github.com/dmitrijs2005/jarcover/internal/client/features/campaigns"
	"github.com/dmitrijs2005/jarcover/internal/client/features/details"
	"github.com/dmitrijs2005/jarcover/internal/client/models"
	"github.com/dmitrijs2005/jarcover/internal/client/store"
)

// PathElement is one pushed edit screen. ID stays stable while the element
// is on the stack and is never reused.
type PathElement struct {
	ID    int
	State details.State
}

type State struct {
	List campaigns.State
	Path []PathElement

	nextID int
}

func NewState(cs models.Campaigns) State {
	return State{List: campaigns.NewState(cs)}
}

// Top returns the screen on top of the stack, if any.
func (s State) Top() (PathElement, bool) {
	if len(s.Path) == 0 {
		return PathElement{}, false
	}
	return s.Path[len(s.Path)-1], true
}

func (s State) index(id int) int {
	for i := range s.Path {
		if s.Path[i].ID == id {
			return i
		}
	}
	return -1
}

type Action interface{ isAppAction() }

type (
	// List wraps a list action.
	List struct{ Action campaigns.Action }

	// Path wraps an action for the stack element with the given ID.
	Path struct {
		ID     int
		Action details.Action
	}

	// Pop removes the top screen.
	Pop struct{}
)

func (List) isAppAction() {}
func (Path) isAppAction() {}
func (Pop) isAppAction()  {}

type Feature struct {
	List    *campaigns.Feature
	Details *details.Feature
}

func (f *Feature) Reduce(s *State, a Action) store.Effect[Action] {
	switch a := a.(type) {
	case List:
		eff := store.Map(f.List.Reduce(&s.List, a.Action), func(a campaigns.Action) Action { return List{Action: a} })
		if sel, ok := a.Action.(campaigns.DelegateSelect); ok {
			if c, found := s.List.Campaigns.Get(sel.ID); found {
				s.nextID++
				s.Path = appendPath(s.Path, PathElement{ID: s.nextID, State: details.NewState(c, true)})
			}
		}
		return eff

	case Path:
		return f.reducePath(s, a)

	case Pop:
		if len(s.Path) > 0 {
			s.Path = truncatePath(s.Path, len(s.Path)-1)
		}
		return store.None[Action]()
	}
	return store.None[Action]()
}

func (f *Feature) reducePath(s *State, a Path) store.Effect[Action] {
	i := s.index(a.ID)
	if i < 0 {
		return store.None[Action]()
	}

	child := s.Path[i].State
	id := a.ID
	eff := store.Map(f.Details.Reduce(&child, a.Action), func(a details.Action) Action { return Path{ID: id, Action: a} })

	path := make([]PathElement, len(s.Path))
	copy(path, s.Path)
	path[i].State = child
	s.Path = path

	switch d := a.Action.(type) {
	case details.DelegateSaveCampaign:
		eff = store.Merge(eff, store.Send[Action](List{Action: campaigns.Upsert{Campaign: d.Campaign}}))
	case details.DelegateDeleteCampaign:
		eff = store.Merge(eff, store.Send[Action](List{Action: campaigns.Remove{ID: d.ID}}))
	case details.DelegateDismiss:
		s.Path = truncatePath(s.Path, i)
	}
	return eff
}

func appendPath(p []PathElement, e PathElement) []PathElement {
	out := make([]PathElement, len(p), len(p)+1)
	copy(out, p)
	return append(out, e)
}

func truncatePath(p []PathElement, n int) []PathElement {
	out := make([]PathElement, n)
	copy(out, p[:n])
	return out
}
