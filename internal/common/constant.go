// Package common contains shared constants and sentinel errors used across
// jarcover components.
package common

// CampaignsStorageKey names the single persistence slot holding the whole
// campaigns collection.
const CampaignsStorageKey = "campaigns"

// PreviousSuffix is appended to a storage key to address the snapshot that
// was current before the latest write.
const PreviousSuffix = ".previous"
