package juxta

import (
	"context"
	"time"
)

// SetStatus is the collation state of a comparison set.
type SetStatus string

// SetStatus constants.
const (
	SetNotCollated SetStatus = "NOT_COLLATED"
	SetCollating   SetStatus = "COLLATING"
	SetCollated    SetStatus = "COLLATED"
	SetError       SetStatus = "ERROR"
)

// ComparisonSet groups the witnesses that are collated against each other.
type ComparisonSet struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Status    SetStatus `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate returns an error if the set contains invalid fields.
func (s *ComparisonSet) Validate() error {
	if s.Name == "" {
		return Errorf(EINVALID, "comparison set name required")
	}
	switch s.Status {
	case SetNotCollated, SetCollating, SetCollated, SetError:
	default:
		return Errorf(EINVALID, "unknown comparison set status %q", s.Status)
	}
	return nil
}

// CollatorConfig is shared by the tokenizer and the collator.
type CollatorConfig struct {
	FilterWhitespace   bool `json:"filterWhitespace"`
	FilterPunctuation  bool `json:"filterPunctuation"`
	FilterCase         bool `json:"filterCase"`
	HyphenationEnabled bool `json:"hyphenationEnabled"`
}

// DefaultCollatorConfig returns the configuration new sets start with.
func DefaultCollatorConfig() CollatorConfig {
	return CollatorConfig{
		FilterWhitespace:  true,
		FilterPunctuation: true,
		FilterCase:        true,
	}
}

// ComparisonSetService represents a service for managing comparison sets.
type ComparisonSetService interface {
	// CreateSet creates a new comparison set with the default collator config.
	CreateSet(ctx context.Context, set *ComparisonSet) error

	// FindSetByID retrieves a set by ID.
	// Returns ENOTFOUND if set does not exist.
	FindSetByID(ctx context.Context, id string) (*ComparisonSet, error)

	// FindSets retrieves sets matching the filter.
	FindSets(ctx context.Context, filter SetFilter) ([]*ComparisonSet, error)

	// UpdateSetStatus changes the collation status of a set.
	UpdateSetStatus(ctx context.Context, id string, status SetStatus) error

	// FindSetWitnesses returns the witnesses attached to a set.
	FindSetWitnesses(ctx context.Context, setID string) ([]*Witness, error)

	// AddSetWitnesses attaches witnesses to a set. Already attached
	// witnesses are ignored.
	AddSetWitnesses(ctx context.Context, setID string, witnessIDs []string) error

	// RemoveSetWitnesses detaches all witnesses from a set. The witness
	// records themselves are kept.
	RemoveSetWitnesses(ctx context.Context, setID string) error

	// FindCollatorConfig returns the collator config of a set.
	FindCollatorConfig(ctx context.Context, setID string) (CollatorConfig, error)
}

// SetFilter represents a filter for FindSets.
type SetFilter struct {
	ID   *string `json:"id"`
	Name *string `json:"name"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// AlignmentService manages collation alignment data.
type AlignmentService interface {
	// ClearAlignments removes all alignment data of a set.
	ClearAlignments(ctx context.Context, setID string) error
}

// CacheService manages rendered views derived from collation results.
type CacheService interface {
	// DeleteHeatmap removes any cached heatmap for a set.
	DeleteHeatmap(ctx context.Context, setID string) error
}

// Tokenizer splits the witnesses of a set into tokens.
type Tokenizer interface {
	Tokenize(ctx context.Context, set *ComparisonSet, cfg CollatorConfig, status StatusSink) error
}

// Collator aligns the tokenized witnesses of a set.
type Collator interface {
	Collate(ctx context.Context, set *ComparisonSet, cfg CollatorConfig, status StatusSink) error
}
