package juxta

import (
	"context"
	"io"
	"time"
)

// Witness is one textual variant of a work under comparison.
type Witness struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	GroupID     string    `json:"groupId"`
	SourceID    string    `json:"sourceId"`
	Content     string    `json:"content"`
	ContentHash string    `json:"contentHash"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Validate returns an error if the witness contains invalid fields.
func (w *Witness) Validate() error {
	if w.Name == "" {
		return Errorf(EINVALID, "witness name required")
	}
	return nil
}

// WitnessInfo describes one variant present in a multi-variant source.
// It is used as the selector for a single extraction pass.
type WitnessInfo struct {
	ID      string `json:"id"`
	GroupID string `json:"groupId"`
	Name    string `json:"name"`
}

// Matches reports whether token names this witness by id or group id.
func (i *WitnessInfo) Matches(token string) bool {
	if token == "" {
		return false
	}
	return token == i.ID || (i.GroupID != "" && token == i.GroupID)
}

// WitnessParser scans a source for the witnesses it declares.
type WitnessParser interface {
	// ParseWitnesses returns the witness descriptors in document order.
	// Returns EINVALID if the source declares no witnesses.
	ParseWitnesses(r io.Reader) ([]WitnessInfo, error)
}

// WitnessService represents a service for managing witnesses.
type WitnessService interface {
	// CreateWitness creates a new witness together with its content.
	CreateWitness(ctx context.Context, w *Witness) error

	// FindWitnessByID retrieves a witness by ID.
	// Returns ENOTFOUND if witness does not exist.
	FindWitnessByID(ctx context.Context, id string) (*Witness, error)

	// FindWitnesses retrieves witnesses matching the filter.
	FindWitnesses(ctx context.Context, filter WitnessFilter) ([]*Witness, error)

	// UpdateWitnessContent replaces the content of a witness and releases
	// the superseded content.
	// Returns ENOTFOUND if witness does not exist.
	UpdateWitnessContent(ctx context.Context, id string, content string) (*Witness, error)

	// DeleteWitness permanently removes a witness and its annotations.
	// Returns ENOTFOUND if witness does not exist.
	DeleteWitness(ctx context.Context, id string) error
}

// WitnessFilter represents a filter for FindWitnesses.
type WitnessFilter struct {
	ID       *string `json:"id"`
	Name     *string `json:"name"`
	SourceID *string `json:"sourceId"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
