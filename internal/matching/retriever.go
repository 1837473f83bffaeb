package matching

import (
	"context"
	"errors"

	"mentor-matching/internal/models"
)

// ErrStoreUnavailable is wrapped by retrievers when the backing store cannot
// serve a read at all, as opposed to a single missing or bad profile.
var ErrStoreUnavailable = errors.New("PROFILE_STORE_UNAVAILABLE")

// CandidateRetriever is the read side of the profile store used by the Ranker.
type CandidateRetriever interface {
	// GetSubjectProfile returns ErrProfileNotFound (wrapped) when id is unknown.
	GetSubjectProfile(ctx context.Context, id string) (*models.Profile, error)
	// ListOppositeRoleCandidates returns every profile whose role is the
	// opposite of subjectRole. Per-candidate read failures are skipped by
	// implementations, not returned.
	ListOppositeRoleCandidates(ctx context.Context, subjectRole models.Role) ([]*models.Profile, error)
}
