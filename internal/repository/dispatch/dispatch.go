package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"shipping/internal/entities"
	"shipping/internal/repository"
)

var qb sq.StatementBuilderType = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const dispatchColumns = `id, status, sender_agency_id, receiver_agency_id, origin_dispatch_id,
	declared_parcels_count, declared_weight::text, declared_cost_in_cents,
	weight::text, cost_in_cents, received_parcels_count,
	payment_status, paid_in_cents, created_by_id, received_by_id,
	created_at, updated_at, dispatched_at, received_at`

type scanner interface {
	Scan(dest ...interface{}) error
}

type Repository struct {
	querier Querier
}

func New(querier Querier) *Repository {
	return &Repository{
		querier: querier,
	}
}

func (r *Repository) Create(ctx context.Context, dispatchModifyEntity entities.DispatchModify) (*entities.Dispatch, error) {
	dispatchModifyModel := FromDomainModify(&dispatchModifyEntity)

	values := dispatchModifyModel.columns()
	if _, ok := values["status"]; !ok {
		values["status"] = entities.DispatchDraft.String()
	}

	query, args, err := qb.
		Insert("dispatches").
		SetMap(values).
		Suffix("RETURNING " + dispatchColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected dispatch repository create error: %w", err)
	}

	dispatchModel, err := scanDispatch(r.querier.QueryRow(ctx, query, args...))
	if err != nil {
		if repository.IsPgErrorWithCode(err, repository.PgErrForeignKeyViolation) {
			return nil, fmt.Errorf("dispatch references unknown agency: %w", entities.ErrValidation)
		}
		return nil, fmt.Errorf("unexpected dispatch repository create error: %w", err)
	}

	return ToDomain(&dispatchModel), nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*entities.Dispatch, error) {
	return r.getByID(ctx, id, "")
}

func (r *Repository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.Dispatch, error) {
	return r.getByID(ctx, id, "FOR UPDATE")
}

func (r *Repository) getByID(ctx context.Context, id int64, lock string) (*entities.Dispatch, error) {
	query := `SELECT ` + dispatchColumns + `
		FROM dispatches
		WHERE id = $1 ` + lock

	dispatchModel, err := scanDispatch(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrDispatchNotFound
		}
		return nil, fmt.Errorf("unexpected dispatch repository getbyid error: %w", err)
	}

	return ToDomain(&dispatchModel), nil
}

func (r *Repository) GetByIDs(ctx context.Context, ids []int64) ([]entities.Dispatch, error) {
	return r.getByIDs(ctx, ids, false)
}

func (r *Repository) GetByIDsForUpdate(ctx context.Context, ids []int64) ([]entities.Dispatch, error) {
	return r.getByIDs(ctx, ids, true)
}

func (r *Repository) getByIDs(ctx context.Context, ids []int64, lock bool) ([]entities.Dispatch, error) {
	if len(ids) == 0 {
		return []entities.Dispatch{}, nil
	}

	builder := qb.
		Select(dispatchColumns).
		From("dispatches").
		Where(sq.Expr("id = ANY(?)", ids)).
		OrderBy("id")
	if lock {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected dispatch repository getbyids error: %w", err)
	}

	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("unexpected dispatch repository getbyids error: %w", err)
	}
	defer rows.Close()

	dispatchModels := make([]DispatchDB, 0, len(ids))
	for rows.Next() {
		dispatchModel, err := scanDispatch(rows)
		if err != nil {
			return nil, fmt.Errorf("unexpected dispatch repository getbyids error: %w", err)
		}
		dispatchModels = append(dispatchModels, dispatchModel)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("unexpected dispatch repository getbyids error: %w", err)
	}

	return ToDomainList(dispatchModels), nil
}

func (r *Repository) Update(ctx context.Context, dispatchModifyEntity entities.DispatchModify) (*entities.Dispatch, error) {
	dispatchModifyModel := FromDomainModify(&dispatchModifyEntity)

	query, args, err := qb.
		Update("dispatches").
		SetMap(dispatchModifyModel.columns()).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": dispatchModifyModel.ID}).
		Suffix("RETURNING " + dispatchColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected dispatch repository update error: %w", err)
	}

	dispatchModel, err := scanDispatch(r.querier.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrDispatchNotFound
		}
		return nil, fmt.Errorf("unexpected dispatch repository update error: %w", err)
	}

	return ToDomain(&dispatchModel), nil
}

// Delete удаляет отправку. Посылки и долги отвязываются через ON DELETE SET NULL,
// оплаты удаляются каскадом.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM dispatches WHERE id = $1`

	result, err := r.querier.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("unexpected dispatch repository delete error: %w", err)
	}

	if result.RowsAffected() == 0 {
		return entities.ErrDispatchNotFound
	}

	return nil
}

func (r *Repository) DeleteEmptyDraftsBefore(ctx context.Context, before time.Time) (int64, error) {
	query := `DELETE FROM dispatches d
		WHERE d.status = $1
			AND d.created_at < $2
			AND NOT EXISTS (SELECT 1 FROM parcels p WHERE p.dispatch_id = d.id)`

	result, err := r.querier.Exec(ctx, query, entities.DispatchDraft.String(), before)
	if err != nil {
		return 0, fmt.Errorf("unexpected dispatch repository deletedrafts error: %w", err)
	}

	return result.RowsAffected(), nil
}

func scanDispatch(row scanner) (DispatchDB, error) {
	var dispatchModel DispatchDB
	err := row.Scan(
		&dispatchModel.ID,
		&dispatchModel.Status,
		&dispatchModel.SenderAgencyID,
		&dispatchModel.ReceiverAgencyID,
		&dispatchModel.OriginDispatchID,
		&dispatchModel.DeclaredParcelsCount,
		&dispatchModel.DeclaredWeight,
		&dispatchModel.DeclaredCostInCents,
		&dispatchModel.Weight,
		&dispatchModel.CostInCents,
		&dispatchModel.ReceivedParcelsCount,
		&dispatchModel.PaymentStatus,
		&dispatchModel.PaidInCents,
		&dispatchModel.CreatedByID,
		&dispatchModel.ReceivedByID,
		&dispatchModel.CreatedAt,
		&dispatchModel.UpdatedAt,
		&dispatchModel.DispatchedAt,
		&dispatchModel.ReceivedAt,
	)
	return dispatchModel, err
}
