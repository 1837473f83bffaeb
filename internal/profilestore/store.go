// Package profilestore provides the profile sources behind matching.CandidateRetriever.
package profilestore

import (
	"context"

	"mentor-matching/internal/matching"
	"mentor-matching/internal/models"
)

// ProfileReader loads one profile. Implementations wrap matching.ErrProfileNotFound
// for unknown ids and matching.ErrStoreUnavailable for backend failures.
type ProfileReader interface {
	GetProfile(ctx context.Context, id string) (*models.Profile, error)
}

// RoleLister returns every profile holding role in one round trip.
type RoleLister interface {
	ListByRole(ctx context.Context, role models.Role) ([]*models.Profile, error)
}

// IDLister enumerates profile ids holding role, in a stable order.
type IDLister interface {
	ListIDs(ctx context.Context, role models.Role) ([]string, error)
}

// BatchRetriever serves the whole candidate pool from a single listing query.
type BatchRetriever struct {
	reader ProfileReader
	lister RoleLister
}

func NewBatchRetriever(reader ProfileReader, lister RoleLister) *BatchRetriever {
	return &BatchRetriever{reader: reader, lister: lister}
}

func (b *BatchRetriever) GetSubjectProfile(ctx context.Context, id string) (*models.Profile, error) {
	return b.reader.GetProfile(ctx, id)
}

func (b *BatchRetriever) ListOppositeRoleCandidates(ctx context.Context, subjectRole models.Role) ([]*models.Profile, error) {
	return b.lister.ListByRole(ctx, subjectRole.Opposite())
}

var _ matching.CandidateRetriever = (*BatchRetriever)(nil)
