package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/AbdellahBM/orema-camp/internal/models"
)

const registrationColumns = `id, name, email, phone, age, niveau_scolaire, school, org_status, previous_camps, can_pay_350dh,
        camp_expectation, extra_info, photo_path, status, score, score_explanation, approved_notified, created_at, updated_at`

// RegistrationRepository manages camp_registrations rows.
type RegistrationRepository struct {
	db          *sqlx.DB
	sessionRole string
}

// NewRegistrationRepository constructs a RegistrationRepository. sessionRole,
// when set, is assumed for statements issued on behalf of a caller session.
func NewRegistrationRepository(db *sqlx.DB, sessionRole string) *RegistrationRepository {
	return &RegistrationRepository{db: db, sessionRole: sessionRole}
}

func (r *RegistrationRepository) scoped(ctx context.Context, fn func(sqlx.ExtContext) error) error {
	return scoped(ctx, r.db, r.sessionRole, fn)
}

// Ping checks database connectivity.
func (r *RegistrationRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// List returns registrations matching the filter, newest first, plus the total count.
func (r *RegistrationRepository) List(ctx context.Context, filter models.RegistrationFilter) ([]models.Registration, int, error) {
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+search+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d OR phone ILIKE $%d)", n, n, n))
	}
	where := "WHERE " + strings.Join(conditions, " AND ")

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 10
	}
	if size > 100 {
		size = 100
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT %s
        FROM camp_registrations %s ORDER BY created_at DESC LIMIT %d OFFSET %d`, registrationColumns, where, size, offset)
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM camp_registrations %s", where)

	var (
		items []models.Registration
		total int
	)
	err := r.scoped(ctx, func(q sqlx.ExtContext) error {
		if err := sqlx.SelectContext(ctx, q, &items, query, args...); err != nil {
			return fmt.Errorf("list registrations: %w", err)
		}
		if err := sqlx.GetContext(ctx, q, &total, countQuery, args...); err != nil {
			return fmt.Errorf("count registrations: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ListByStatus returns every registration in status, oldest first.
func (r *RegistrationRepository) ListByStatus(ctx context.Context, status models.RegistrationStatus) ([]models.Registration, error) {
	query := fmt.Sprintf(`SELECT %s
        FROM camp_registrations WHERE status = $1 ORDER BY created_at ASC`, registrationColumns)
	var items []models.Registration
	err := r.scoped(ctx, func(q sqlx.ExtContext) error {
		if err := sqlx.SelectContext(ctx, q, &items, query, status); err != nil {
			return fmt.Errorf("list registrations by status: %w", err)
		}
		return nil
	})
	return items, err
}

// FindByID fetches a registration. A missing row yields sql.ErrNoRows.
func (r *RegistrationRepository) FindByID(ctx context.Context, id string) (*models.Registration, error) {
	query := fmt.Sprintf(`SELECT %s
        FROM camp_registrations WHERE id = $1`, registrationColumns)
	var reg models.Registration
	err := r.scoped(ctx, func(q sqlx.ExtContext) error {
		return sqlx.GetContext(ctx, q, &reg, query, id)
	})
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

// Create inserts a new registration. ID and CreatedAt must be set by the caller.
func (r *RegistrationRepository) Create(ctx context.Context, reg *models.Registration) error {
	query := `INSERT INTO camp_registrations (id, name, email, phone, age, niveau_scolaire, school, org_status, previous_camps,
        can_pay_350dh, camp_expectation, extra_info, photo_path, status, approved_notified, created_at)
        VALUES (:id, :name, :email, :phone, :age, :niveau_scolaire, :school, :org_status, :previous_camps,
        :can_pay_350dh, :camp_expectation, :extra_info, :photo_path, :status, :approved_notified, :created_at)`
	return r.scoped(ctx, func(q sqlx.ExtContext) error {
		if _, err := sqlx.NamedExecContext(ctx, q, query, reg); err != nil {
			return fmt.Errorf("create registration: %w", err)
		}
		return nil
	})
}

// Update replaces the applicant-editable fields.
func (r *RegistrationRepository) Update(ctx context.Context, reg *models.Registration) error {
	now := time.Now().UTC()
	reg.UpdatedAt = &now
	query := `UPDATE camp_registrations SET name = :name, email = :email, phone = :phone, age = :age,
        niveau_scolaire = :niveau_scolaire, school = :school, org_status = :org_status, previous_camps = :previous_camps,
        can_pay_350dh = :can_pay_350dh, camp_expectation = :camp_expectation, extra_info = :extra_info, updated_at = :updated_at
        WHERE id = :id`
	return r.scoped(ctx, func(q sqlx.ExtContext) error {
		res, err := sqlx.NamedExecContext(ctx, q, query, reg)
		if err != nil {
			return fmt.Errorf("update registration: %w", err)
		}
		return requireRow(res)
	})
}

// UpdateStatus sets the review status.
func (r *RegistrationRepository) UpdateStatus(ctx context.Context, id string, status models.RegistrationStatus) error {
	return r.scoped(ctx, func(q sqlx.ExtContext) error {
		res, err := q.ExecContext(ctx, `UPDATE camp_registrations SET status = $1, updated_at = $2 WHERE id = $3`, status, time.Now().UTC(), id)
		if err != nil {
			return fmt.Errorf("update registration status: %w", err)
		}
		return requireRow(res)
	})
}

// SaveScore writes score and explanation in one statement.
func (r *RegistrationRepository) SaveScore(ctx context.Context, id string, result models.ScoreResult) error {
	return r.scoped(ctx, func(q sqlx.ExtContext) error {
		res, err := q.ExecContext(ctx, `UPDATE camp_registrations SET score = $1, score_explanation = $2, updated_at = $3 WHERE id = $4`,
			result.Score, result.Explanation, time.Now().UTC(), id)
		if err != nil {
			return fmt.Errorf("save registration score: %w", err)
		}
		return requireRow(res)
	})
}

// MarkNotified flips approved_notified to true. It reports false when the flag
// was already set or the row is gone.
func (r *RegistrationRepository) MarkNotified(ctx context.Context, id string) (bool, error) {
	var affected int64
	err := r.scoped(ctx, func(q sqlx.ExtContext) error {
		res, err := q.ExecContext(ctx, `UPDATE camp_registrations SET approved_notified = true, updated_at = $1
        WHERE id = $2 AND approved_notified = false`, time.Now().UTC(), id)
		if err != nil {
			return fmt.Errorf("mark registration notified: %w", err)
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

// Delete removes a registration and returns its photo key.
func (r *RegistrationRepository) Delete(ctx context.Context, id string) (*string, error) {
	var photo *string
	err := r.scoped(ctx, func(q sqlx.ExtContext) error {
		return sqlx.GetContext(ctx, q, &photo, `DELETE FROM camp_registrations WHERE id = $1 RETURNING photo_path`, id)
	})
	if err != nil {
		return nil, err
	}
	return photo, nil
}

// CountByStatus aggregates the number of rows per status.
func (r *RegistrationRepository) CountByStatus(ctx context.Context) (models.RegistrationStats, error) {
	var rows []struct {
		Status models.RegistrationStatus `db:"status"`
		Count  int                       `db:"count"`
	}
	var stats models.RegistrationStats
	err := r.scoped(ctx, func(q sqlx.ExtContext) error {
		if err := sqlx.SelectContext(ctx, q, &rows, `SELECT status, COUNT(*) AS count FROM camp_registrations GROUP BY status`); err != nil {
			return fmt.Errorf("count registrations by status: %w", err)
		}
		return nil
	})
	if err != nil {
		return stats, err
	}
	for _, row := range rows {
		stats.Add(row.Status, row.Count)
	}
	return stats, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
