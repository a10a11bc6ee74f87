package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// CodecVersion is the current persisted format version.
const CodecVersion = 1

var (
	ErrEmptyPayload       = errors.New("empty payload")
	ErrUnsupportedVersion = errors.New("unsupported campaigns format version")
)

type campaignsEnvelope struct {
	Version   int        `json:"version"`
	Campaigns []Campaign `json:"campaigns"`
}

// EncodeCampaigns serializes the collection, raw image bytes included.
func EncodeCampaigns(cs Campaigns) ([]byte, error) {
	list := []Campaign(cs)
	if list == nil {
		list = []Campaign{}
	}
	b, err := json.Marshal(campaignsEnvelope{Version: CodecVersion, Campaigns: list})
	if err != nil {
		return nil, fmt.Errorf("encode campaigns: %w", err)
	}
	return b, nil
}

// DecodeCampaigns parses a payload produced by EncodeCampaigns. Duplicate
// IDs collapse to the last occurrence.
func DecodeCampaigns(b []byte) (Campaigns, error) {
	if len(b) == 0 {
		return nil, ErrEmptyPayload
	}

	var env campaignsEnvelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, fmt.Errorf("decode campaigns: %w", err)
	}
	if env.Version != CodecVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, env.Version)
	}

	out := Campaigns{}
	for _, c := range env.Campaigns {
		out = out.Upsert(c)
	}
	return out, nil
}
