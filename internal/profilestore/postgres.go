package profilestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"mentor-matching/internal/common/logger"
	"mentor-matching/internal/matching"
	"mentor-matching/internal/models"
)

const profileColumns = `id, first_name, last_name, is_mentor, is_mentee, age, education_level,
	profession, past_professions, county, religion, hobbies, skills, looking_for, industries`

const (
	queryProfileByID = `SELECT ` + profileColumns + ` FROM mentor_profiles WHERE id = $1`
	queryMentors     = `SELECT ` + profileColumns + ` FROM mentor_profiles WHERE is_mentor ORDER BY id`
	queryMentees     = `SELECT ` + profileColumns + ` FROM mentor_profiles WHERE is_mentee ORDER BY id`
	queryMentorIDs   = `SELECT id FROM mentor_profiles WHERE is_mentor ORDER BY id`
	queryMenteeIDs   = `SELECT id FROM mentor_profiles WHERE is_mentee ORDER BY id`

	upsertProfile = `INSERT INTO mentor_profiles (` + profileColumns + `, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW())
	ON CONFLICT (id) DO UPDATE SET
		first_name = EXCLUDED.first_name,
		last_name = EXCLUDED.last_name,
		is_mentor = EXCLUDED.is_mentor,
		is_mentee = EXCLUDED.is_mentee,
		age = EXCLUDED.age,
		education_level = EXCLUDED.education_level,
		profession = EXCLUDED.profession,
		past_professions = EXCLUDED.past_professions,
		county = EXCLUDED.county,
		religion = EXCLUDED.religion,
		hobbies = EXCLUDED.hobbies,
		skills = EXCLUDED.skills,
		looking_for = EXCLUDED.looking_for,
		industries = EXCLUDED.industries,
		updated_at = NOW()`
)

// PostgresStore reads profiles from the mentor_profiles table.
type PostgresStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewPostgresStore(db *sql.DB, log logger.Logger) *PostgresStore {
	return &PostgresStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"store": "postgres"}),
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProfile(row rowScanner) (*models.Profile, error) {
	var p models.Profile
	err := row.Scan(
		&p.ID, &p.FirstName, &p.LastName, &p.IsMentor, &p.IsMentee, &p.Age, &p.EducationLevel,
		&p.Profession, pq.Array(&p.PastProfessions), &p.County, &p.Religion,
		pq.Array(&p.Hobbies), pq.Array(&p.Skills), pq.Array(&p.LookingFor), pq.Array(&p.Industries),
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PostgresStore) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	p, err := scanProfile(s.db.QueryRowContext(ctx, queryProfileByID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", matching.ErrProfileNotFound, id)
	}
	if err != nil {
		return nil, storeError("get profile "+id, err)
	}
	return p, nil
}

func (s *PostgresStore) ListByRole(ctx context.Context, role models.Role) ([]*models.Profile, error) {
	query := queryMentees
	if role.IsMentor() {
		query = queryMentors
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, storeError("list "+string(role)+" profiles", err)
	}
	defer rows.Close()

	var out []*models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			s.logger.Warn("skipping unreadable profile row", map[string]interface{}{
				"role":  string(role),
				"error": err.Error(),
			})
			continue
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("list "+string(role)+" profiles", err)
	}
	return out, nil
}

func (s *PostgresStore) ListIDs(ctx context.Context, role models.Role) ([]string, error) {
	query := queryMenteeIDs
	if role.IsMentor() {
		query = queryMentorIDs
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, storeError("list "+string(role)+" ids", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, storeError("scan id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("list "+string(role)+" ids", err)
	}
	return ids, nil
}

// Upsert writes p, replacing any row with the same id.
func (s *PostgresStore) Upsert(ctx context.Context, p *models.Profile) error {
	_, err := s.db.ExecContext(ctx, upsertProfile,
		p.ID, p.FirstName, p.LastName, p.IsMentor, p.IsMentee, p.Age, p.EducationLevel,
		p.Profession, pq.Array(orEmpty(p.PastProfessions)), p.County, p.Religion,
		pq.Array(orEmpty(p.Hobbies)), pq.Array(orEmpty(p.Skills)), pq.Array(orEmpty(p.LookingFor)), pq.Array(orEmpty(p.Industries)),
	)
	if err != nil {
		return storeError("upsert profile "+p.ID, err)
	}
	return nil
}

// orEmpty avoids writing NULL into the NOT NULL array columns.
func orEmpty(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}

// storeError keeps deadline errors recognisable and marks everything else as
// a store outage.
func storeError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%w: %s: %v", matching.ErrStoreUnavailable, op, err)
}
