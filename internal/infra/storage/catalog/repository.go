package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/agendafacil/booking-service/internal/domain"
	"github.com/agendafacil/booking-service/pkg/dbmetrics"
	"github.com/agendafacil/booking-service/pkg/psqlbuilder"
)

// Repository read-only репозиторий каталога (услуги и мастера)
// CRUD каталога принадлежит дашборду, движку нужны только чтения
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория каталога
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetServicesByIDs возвращает активные услуги заведения в порядке,
// запрошенном клиентом. Порядок важен: цепочка услуг в бронировании
// вставляется именно в этом порядке
// Если хотя бы одна услуга не найдена или неактивна - ErrServiceNotFound
func (r *Repository) GetServicesByIDs(ctx context.Context, establishmentID int64, ids []int64) ([]*domain.ServiceOffering, error) {
	if len(ids) == 0 {
		return []*domain.ServiceOffering{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"establishment_id",
		"name",
		"category",
		"duration_minutes",
		"price",
		"is_active",
		"created_at",
		"updated_at",
	).
		From("services").
		Where(squirrel.Eq{
			"establishment_id": establishmentID,
			"id":               ids,
			"is_active":        true,
		}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetServicesByIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetServicesByIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	byID := make(map[int64]*domain.ServiceOffering, len(ids))
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetServicesByIDs - scan service: %v", ErrScanRow, err)
		}
		byID[svc.ID] = svc
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetServicesByIDs - rows iteration: %v", ErrExecQuery, err)
	}

	// Восстанавливаем запрошенный порядок
	ordered := make([]*domain.ServiceOffering, 0, len(ids))
	for _, id := range ids {
		svc, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: service id=%d", ErrServiceNotFound, id)
		}
		ordered = append(ordered, svc)
	}

	return ordered, nil
}

// GetServiceByID возвращает одну активную услугу заведения
func (r *Repository) GetServiceByID(ctx context.Context, establishmentID, serviceID int64) (*domain.ServiceOffering, error) {
	services, err := r.GetServicesByIDs(ctx, establishmentID, []int64{serviceID})
	if err != nil {
		return nil, err
	}
	return services[0], nil
}

// GetProfessionalByID возвращает активного мастера заведения
func (r *Repository) GetProfessionalByID(ctx context.Context, establishmentID, professionalID int64) (*domain.Professional, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"establishment_id",
		"name",
		"is_active",
		"created_at",
		"updated_at",
	).
		From("professionals").
		Where(squirrel.Eq{
			"id":               professionalID,
			"establishment_id": establishmentID,
			"is_active":        true,
		}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetProfessionalByID - build select query: %v", ErrBuildQuery, err)
	}

	var p domain.Professional
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&p.ID,
		&p.EstablishmentID,
		&p.Name,
		&p.IsActive,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrProfessionalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetProfessionalByID - scan professional: %v", ErrScanRow, err)
	}

	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time

	return &p, nil
}

func scanService(rows *sql.Rows) (*domain.ServiceOffering, error) {
	var svc domain.ServiceOffering
	var category sql.NullString
	var createdAt, updatedAt sql.NullTime

	err := rows.Scan(
		&svc.ID,
		&svc.EstablishmentID,
		&svc.Name,
		&category,
		&svc.DurationMinutes,
		&svc.Price,
		&svc.IsActive,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	svc.Category = category.String
	svc.CreatedAt = createdAt.Time
	svc.UpdatedAt = updatedAt.Time

	return &svc, nil
}
