package schedule

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/agendafacil/booking-service/internal/domain"
	"github.com/agendafacil/booking-service/pkg/dbmetrics"
	"github.com/agendafacil/booking-service/pkg/psqlbuilder"
	"github.com/agendafacil/booking-service/pkg/types"
)

// Repository репозиторий расписаний работы заведений
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByEstablishment возвращает общие строки расписания заведения
// (professional_id IS NULL), отсортированные по дню недели
// Индивидуальные графики мастеров resolver'ом не используются
func (r *Repository) GetByEstablishment(ctx context.Context, establishmentID int64) ([]*domain.Schedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"establishment_id",
		"professional_id",
		"day_of_week",
		"is_open",
		"open_time",
		"close_time",
		"break_start",
		"break_end",
		"created_at",
		"updated_at",
	).
		From("schedules").
		Where(squirrel.Eq{"establishment_id": establishmentID}).
		Where("professional_id IS NULL").
		OrderBy("day_of_week ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByEstablishment - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByEstablishment - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	schedules := make([]*domain.Schedule, 0, 7)
	for rows.Next() {
		var s domain.Schedule
		var openTime, closeTime sql.NullString
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&s.ID,
			&s.EstablishmentID,
			&s.ProfessionalID,
			&s.DayOfWeek,
			&s.IsOpen,
			&openTime,
			&closeTime,
			&s.BreakStart,
			&s.BreakEnd,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByEstablishment - scan schedule: %v", ErrScanRow, err)
		}

		if openTime.Valid {
			s.OpenTime = normalizeTime(openTime.String)
		}
		if closeTime.Valid {
			s.CloseTime = normalizeTime(closeTime.String)
		}
		s.CreatedAt = createdAt.Time
		s.UpdatedAt = updatedAt.Time

		schedules = append(schedules, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByEstablishment - rows iteration: %v", ErrExecQuery, err)
	}

	return schedules, nil
}

// Upsert сохраняет строку расписания заведения на день недели
// Вызывается сервисом расписаний для каждого из 7 дней внутри транзакции
func (r *Repository) Upsert(ctx context.Context, s *domain.Schedule) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("schedules").
		Columns(
			"establishment_id",
			"professional_id",
			"day_of_week",
			"is_open",
			"open_time",
			"close_time",
			"break_start",
			"break_end",
		).
		Values(
			s.EstablishmentID,
			s.ProfessionalID,
			s.DayOfWeek,
			s.IsOpen,
			nullableTime(s.OpenTime),
			nullableTime(s.CloseTime),
			s.BreakStart,
			s.BreakEnd,
		).
		Suffix(`ON CONFLICT (establishment_id, day_of_week) WHERE professional_id IS NULL
			DO UPDATE SET
				is_open = EXCLUDED.is_open,
				open_time = EXCLUDED.open_time,
				close_time = EXCLUDED.close_time,
				break_start = EXCLUDED.break_start,
				break_end = EXCLUDED.break_end,
				updated_at = NOW()`).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// normalizeTime отбрасывает секунды из "HH:MM:SS", возвращаемого колонкой TIME
func normalizeTime(raw string) (ts types.TimeString) {
	if len(raw) >= 5 {
		raw = raw[:5]
	}
	return types.TimeString(raw)
}

// nullableTime пустое время пишем как NULL (закрытые дни)
func nullableTime(ts types.TimeString) interface{} {
	if ts.IsZero() {
		return nil
	}
	return ts
}
