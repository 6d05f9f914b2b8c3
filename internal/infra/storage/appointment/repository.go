package appointment

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/agendafacil/booking-service/internal/domain"
	"github.com/agendafacil/booking-service/pkg/dbmetrics"
	"github.com/agendafacil/booking-service/pkg/psqlbuilder"
	"github.com/agendafacil/booking-service/pkg/types"
)

// selectColumns колонки записи + денормализованные поля из joins
// customer_name/customer_phone/service_name/service_price не хранятся -
// всегда вычисляются при чтении
var selectColumns = []string{
	"a.id",
	"a.establishment_id",
	"a.customer_id",
	"a.professional_id",
	"a.service_id",
	"a.appointment_date",
	"a.start_time",
	"a.duration_minutes",
	"a.status",
	"a.notes",
	"a.cancelled_at",
	"a.created_at",
	"a.updated_at",
	"c.name AS customer_name",
	"c.phone AS customer_phone",
	"s.name AS service_name",
	"s.price AS service_price",
}

const joinedFrom = "appointments a"

// Repository репозиторий для работы с записями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую запись
// Если в контексте передана активная транзакция, использует её -
// это позволяет Booking Committer вставлять всю цепочку услуг атомарно
func (r *Repository) Create(ctx context.Context, apt *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"establishment_id",
			"customer_id",
			"professional_id",
			"service_id",
			"appointment_date",
			"start_time",
			"duration_minutes",
			"status",
			"notes",
		).
		Values(
			apt.EstablishmentID,
			apt.CustomerID,
			apt.ProfessionalID,
			apt.ServiceID,
			apt.AppointmentDate,
			apt.StartTime,
			apt.DurationMinutes,
			apt.Status,
			apt.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&apt.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	apt.CreatedAt = createdAt.Time
	apt.UpdatedAt = updatedAt.Time

	return apt, nil
}

// GetByID получает запись по ID с денормализованными полями
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(selectColumns...).
		From(joinedFrom).
		LeftJoin("customers c ON c.id = a.customer_id").
		LeftJoin("services s ON s.id = a.service_id").
		Where(squirrel.Eq{"a.id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	apt, err := r.scanAppointmentRow(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %v", ErrScanRow, err)
	}

	return apt, nil
}

// GetByProfessionalAndDate возвращает снапшот неотмененных записей мастера
// на указанную дату. Это рабочий набор Conflict Detector'а:
// внутри сериализуемой транзакции select фиксирует состояние,
// от которого валидируется коммит
func (r *Repository) GetByProfessionalAndDate(
	ctx context.Context,
	establishmentID int64,
	professionalID int64,
	date time.Time,
) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(selectColumns...).
		From(joinedFrom).
		LeftJoin("customers c ON c.id = a.customer_id").
		LeftJoin("services s ON s.id = a.service_id").
		Where(squirrel.Eq{
			"a.establishment_id": establishmentID,
			"a.professional_id":  professionalID,
			"a.appointment_date": date,
		}).
		Where(squirrel.NotEq{"a.status": domain.StatusCancelled}).
		OrderBy("a.start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByProfessionalAndDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProfessionalAndDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanAppointments(rows)
}

// GetByEstablishmentWithFilter получает записи заведения с гибкой фильтрацией
func (r *Repository) GetByEstablishmentWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(selectColumns...).
		From(joinedFrom).
		LeftJoin("customers c ON c.id = a.customer_id").
		LeftJoin("services s ON s.id = a.service_id").
		Where(squirrel.Eq{"a.establishment_id": filter.EstablishmentID}).
		OrderBy("a.appointment_date ASC, a.start_time ASC")

	if filter.ProfessionalID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"a.professional_id": *filter.ProfessionalID})
	}

	if filter.Date != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"a.appointment_date": *filter.Date})
	} else {
		if filter.StartDate != nil {
			selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"a.appointment_date": *filter.StartDate})
		}
		if filter.EndDate != nil {
			selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"a.appointment_date": *filter.EndDate})
		}
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"a.status": *filter.Status})
	} else if !filter.IncludeCancelled {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"a.status": domain.StatusCancelled})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByEstablishmentWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByEstablishmentWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanAppointments(rows)
}

// UpdateStatus обновляет статус записи
// start/duration этим путем не меняются - перенос идет через Reschedule
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	return r.requireRowAffected(result, "UpdateStatus")
}

// Cancel помечает запись отмененной и фиксирует момент отмены
func (r *Repository) Cancel(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", domain.StatusCancelled).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	return r.requireRowAffected(result, "Cancel")
}

// Reschedule переносит запись на новые дату/время/мастера
func (r *Repository) Reschedule(
	ctx context.Context,
	id int64,
	professionalID int64,
	date time.Time,
	startTime types.TimeString,
) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("professional_id", professionalID).
		Set("appointment_date", date).
		Set("start_time", startTime).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Reschedule - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Reschedule - execute update: %v", ErrExecQuery, err)
	}

	return r.requireRowAffected(result, "Reschedule")
}

// DeleteCancelledBefore удаляет отмененные записи, отмененные раньше cutoff
// Используется периодической очисткой
func (r *Repository) DeleteCancelledBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("appointments").
		Where(squirrel.Eq{"status": domain.StatusCancelled}).
		Where(squirrel.Lt{"cancelled_at": cutoff}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: DeleteCancelledBefore - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteCancelledBefore - execute delete: %v", ErrExecQuery, err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteCancelledBefore - rows affected: %v", ErrExecQuery, err)
	}

	return deleted, nil
}

func (r *Repository) requireRowAffected(result sql.Result, op string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - rows affected: %v", ErrExecQuery, op, err)
	}
	if affected == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanAppointmentRow(row rowScanner) (*domain.Appointment, error) {
	var apt domain.Appointment
	var createdAt, updatedAt sql.NullTime
	var customerName, customerPhone, serviceName sql.NullString
	var servicePrice sql.NullFloat64

	err := row.Scan(
		&apt.ID,
		&apt.EstablishmentID,
		&apt.CustomerID,
		&apt.ProfessionalID,
		&apt.ServiceID,
		&apt.AppointmentDate,
		&apt.StartTime,
		&apt.DurationMinutes,
		&apt.Status,
		&apt.Notes,
		&apt.CancelledAt,
		&createdAt,
		&updatedAt,
		&customerName,
		&customerPhone,
		&serviceName,
		&servicePrice,
	)
	if err != nil {
		return nil, err
	}

	apt.CreatedAt = createdAt.Time
	apt.UpdatedAt = updatedAt.Time
	apt.CustomerName = customerName.String
	apt.CustomerPhone = customerPhone.String
	apt.ServiceName = serviceName.String
	apt.ServicePrice = servicePrice.Float64

	return &apt, nil
}

func (r *Repository) scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		apt, err := r.scanAppointmentRow(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments: %v", ErrScanRow, err)
		}
		appointments = append(appointments, apt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows iteration: %v", ErrExecQuery, err)
	}

	return appointments, nil
}
