package models

import "github.com/google/uuid"

// Campaigns is an ordered collection unique by ID. Mutating methods return
// a new slice and leave the receiver untouched.
type Campaigns []Campaign

// Index returns the position of id or -1.
func (cs Campaigns) Index(id uuid.UUID) int {
	for i := range cs {
		if cs[i].ID == id {
			return i
		}
	}
	return -1
}

func (cs Campaigns) Get(id uuid.UUID) (Campaign, bool) {
	if i := cs.Index(id); i >= 0 {
		return cs[i], true
	}
	return Campaign{}, false
}

// Upsert replaces the campaign with the same ID in place or appends it.
func (cs Campaigns) Upsert(c Campaign) Campaigns {
	out := make(Campaigns, len(cs), len(cs)+1)
	copy(out, cs)
	if i := out.Index(c.ID); i >= 0 {
		out[i] = c
		return out
	}
	return append(out, c)
}

// Remove drops the campaign with id if present.
func (cs Campaigns) Remove(id uuid.UUID) Campaigns {
	out := make(Campaigns, 0, len(cs))
	for _, c := range cs {
		if c.ID != id {
			out = append(out, c)
		}
	}
	return out
}

// WithJarLinks returns the campaigns that have a jar link.
func (cs Campaigns) WithJarLinks() Campaigns {
	var out Campaigns
	for _, c := range cs {
		if c.JarLink() != "" {
			out = append(out, c)
		}
	}
	return out
}
