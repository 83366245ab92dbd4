package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SharathChampzz/Community-Streak/internal/types/leaderboard"
	"github.com/SharathChampzz/Community-Streak/internal/types/membership"
)

type pgMembershipStore struct {
	db *pgxpool.Pool
}

func (s *pgMembershipStore) Get(ctx context.Context, userID, eventID uuid.UUID) (*membership.Membership, error) {
	query := `
	SELECT user_id, event_id, streak_count, modified, created_at
	FROM user_events
	WHERE user_id = $1 AND event_id = $2
	`

	m := &membership.Membership{}
	err := s.db.QueryRow(ctx, query, userID, eventID).Scan(
		&m.UserID,
		&m.EventID,
		&m.StreakCount,
		&m.LastModified,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}

	return m, nil
}

func (s *pgMembershipStore) Insert(ctx context.Context, m *membership.Membership) (bool, error) {
	query := `
	INSERT INTO user_events (user_id, event_id, streak_count, modified, created_at)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (user_id, event_id) DO NOTHING
	`

	tag, err := s.db.Exec(ctx, query, m.UserID, m.EventID, m.StreakCount, m.LastModified, m.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("failed to insert membership: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

func (s *pgMembershipStore) Delete(ctx context.Context, userID, eventID uuid.UUID) (bool, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM user_events WHERE user_id = $1 AND event_id = $2`, userID, eventID)
	if err != nil {
		return false, fmt.Errorf("failed to delete membership: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// IncrementStreak is the only statement that grows a streak. The WHERE guard
// doubles as the idempotency check: once modified lands inside the current
// logical day, every further attempt that day matches zero rows.
func (s *pgMembershipStore) IncrementStreak(ctx context.Context, userID, eventID uuid.UUID, now, dayStart time.Time) (int, bool, error) {
	query := `
	UPDATE user_events
	SET streak_count = streak_count + 1, modified = $3
	WHERE user_id = $1 AND event_id = $2
	  AND (modified IS NULL OR modified < $4)
	RETURNING streak_count
	`

	var streak int
	err := s.db.QueryRow(ctx, query, userID, eventID, now, dayStart).Scan(&streak)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to increment streak: %w", err)
	}

	return streak, true, nil
}

func (s *pgMembershipStore) ResetStale(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
	UPDATE user_events
	SET streak_count = 0
	WHERE streak_count <> 0 AND (modified IS NULL OR modified < $1)
	`

	tag, err := s.db.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to reset stale streaks: %w", err)
	}

	return tag.RowsAffected(), nil
}

func (s *pgMembershipStore) TopByEvent(ctx context.Context, eventID uuid.UUID, limit int) ([]leaderboard.TopUser, error) {
	query := `
	SELECT ue.user_id, u.username, ue.streak_count
	FROM user_events ue
	JOIN users u ON u.id = ue.user_id
	WHERE ue.event_id = $1
	ORDER BY ue.streak_count DESC, ue.user_id ASC
	LIMIT $2
	`

	rows, err := s.db.Query(ctx, query, eventID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top users: %w", err)
	}
	defer rows.Close()

	top := []leaderboard.TopUser{}
	for rows.Next() {
		var tu leaderboard.TopUser
		if err := rows.Scan(&tu.UserID, &tu.Username, &tu.StreakCount); err != nil {
			return nil, fmt.Errorf("failed to scan top user: %w", err)
		}
		top = append(top, tu)
	}

	return top, rows.Err()
}

func (s *pgMembershipStore) RankOf(ctx context.Context, eventID, userID uuid.UUID) (int, error) {
	query := `
	SELECT rank FROM (
		SELECT user_id,
		       ROW_NUMBER() OVER (ORDER BY streak_count DESC, user_id ASC) AS rank
		FROM user_events
		WHERE event_id = $1
	) ranked
	WHERE user_id = $2
	`

	var rank int
	err := s.db.QueryRow(ctx, query, eventID, userID).Scan(&rank)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("failed to compute rank: %w", err)
	}

	return rank, nil
}

func (s *pgMembershipStore) CountByEvent(ctx context.Context, eventID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM user_events WHERE event_id = $1`, eventID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count memberships: %w", err)
	}

	return count, nil
}

func (s *pgMembershipStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]membership.Membership, error) {
	query := `
	SELECT user_id, event_id, streak_count, modified, created_at
	FROM user_events
	WHERE user_id = $1
	ORDER BY created_at ASC
	`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	defer rows.Close()

	var memberships []membership.Membership
	for rows.Next() {
		var m membership.Membership
		if err := rows.Scan(&m.UserID, &m.EventID, &m.StreakCount, &m.LastModified, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		memberships = append(memberships, m)
	}

	return memberships, rows.Err()
}
