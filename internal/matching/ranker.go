package matching

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"mentor-matching/internal/common/logger"
	"mentor-matching/internal/common/metrics"
	"mentor-matching/internal/models"
)

// RelevanceFloor is the lowest percentage kept in a ranked list.
const RelevanceFloor = 10

const tracerName = "mentor-matching/matching"

// Ranker drives retrieval and scoring for one subject at a time.
type Ranker struct {
	retriever  CandidateRetriever
	calculator *Calculator
	logger     logger.Logger
	tracer     trace.Tracer
}

func NewRanker(retriever CandidateRetriever, calculator *Calculator, log logger.Logger) *Ranker {
	return &Ranker{
		retriever:  retriever,
		calculator: calculator,
		logger:     log.WithFields(map[string]interface{}{"component": "ranker"}),
		tracer:     otel.Tracer(tracerName),
	}
}

// RankCandidates scores the subject's opposite-role pool, sorts it by
// percentage (stable, so ties keep retrieval order) and drops results under
// RelevanceFloor.
func (r *Ranker) RankCandidates(ctx context.Context, subjectID string, olderMentorPreferred bool) ([]MatchResult, error) {
	ctx, span := r.tracer.Start(ctx, "matching.RankCandidates", trace.WithAttributes(
		attribute.String("subject.id", subjectID),
		attribute.Bool("older_mentor_preferred", olderMentorPreferred),
	))
	defer span.End()

	start := time.Now()
	results, poolSize, err := r.rank(ctx, subjectID, olderMentorPreferred)
	metrics.RankingDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RankingsTotal.WithLabelValues(outcomeFor(err)).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.logger.Warn("ranking failed", map[string]interface{}{
			"subjectId": subjectID,
			"error":     err.Error(),
		})
		return nil, err
	}

	metrics.RankingsTotal.WithLabelValues("success").Inc()
	span.SetAttributes(
		attribute.Int("candidates.pool", poolSize),
		attribute.Int("candidates.ranked", len(results)),
	)
	r.logger.Info("ranking completed", map[string]interface{}{
		"subjectId":  subjectID,
		"poolSize":   poolSize,
		"matchCount": len(results),
		"durationMs": time.Since(start).Milliseconds(),
	})
	return results, nil
}

func (r *Ranker) rank(ctx context.Context, subjectID string, olderMentorPreferred bool) ([]MatchResult, int, error) {
	subject, err := r.retriever.GetSubjectProfile(ctx, subjectID)
	if err != nil {
		return nil, 0, fmt.Errorf("load subject %s: %w", subjectID, err)
	}
	if err := subject.Validate(); err != nil {
		return nil, 0, err
	}

	wantRole := subject.Role().Opposite()
	candidates, err := r.retriever.ListOppositeRoleCandidates(ctx, subject.Role())
	if err != nil {
		return nil, 0, fmt.Errorf("list %s candidates: %w", wantRole, err)
	}

	results := make([]MatchResult, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate == nil || candidate.ID == subject.ID {
			continue
		}
		if err := candidate.Validate(); err != nil || candidate.Role() != wantRole {
			metrics.CandidatesSkipped.WithLabelValues("role_mismatch").Inc()
			r.logger.Warn("skipping candidate with unexpected role", map[string]interface{}{
				"subjectId":   subject.ID,
				"candidateId": candidate.ID,
			})
			continue
		}

		result, err := r.calculator.Calculate(subject, candidate, olderMentorPreferred)
		if err != nil {
			return nil, len(candidates), err
		}
		results = append(results, *result)
	}
	metrics.CandidatesScored.Add(float64(len(results)))

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Percentage > results[j].Percentage
	})

	ranked := make([]MatchResult, 0, len(results))
	for _, res := range results {
		if res.Percentage >= RelevanceFloor {
			ranked = append(ranked, res)
		}
	}
	return ranked, len(candidates), nil
}

// IsRecommendable reports whether targetID is currently in subjectID's ranked
// list and returns its result when it is.
func (r *Ranker) IsRecommendable(ctx context.Context, subjectID, targetID string, olderMentorPreferred bool) (bool, *MatchResult, error) {
	if subjectID == targetID {
		return false, nil, nil
	}
	ranked, err := r.RankCandidates(ctx, subjectID, olderMentorPreferred)
	if err != nil {
		return false, nil, err
	}
	for i := range ranked {
		if ranked[i].Candidate.ID == targetID {
			return true, &ranked[i], nil
		}
	}
	return false, nil, nil
}

func outcomeFor(err error) string {
	switch {
	case errors.Is(err, ErrProfileNotFound):
		return "subject_not_found"
	case errors.Is(err, ErrUnknownCategory):
		return "unknown_category"
	case errors.Is(err, models.ErrInvalidRole):
		return "invalid_profile"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "timeout"
	default:
		return "store_error"
	}
}
