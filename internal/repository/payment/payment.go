package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"shipping/internal/entities"
	"shipping/internal/repository"
)

const paymentColumns = `id, dispatch_id, amount_in_cents, charge_in_cents, method,
	reference, date, notes, user_id, created_at`

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

func (r *Repository) Create(ctx context.Context, paymentEntity entities.DispatchPayment) (*entities.DispatchPayment, error) {
	paymentModel := FromDomain(&paymentEntity)
	query := `INSERT INTO dispatch_payments
			(dispatch_id, amount_in_cents, charge_in_cents, method, reference, date, notes, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + paymentColumns

	created, err := scanPayment(r.querier.QueryRow(
		ctx,
		query,
		paymentModel.DispatchID,
		paymentModel.AmountInCents,
		paymentModel.ChargeInCents,
		paymentModel.Method,
		paymentModel.Reference,
		paymentModel.Date,
		paymentModel.Notes,
		paymentModel.UserID,
	))
	if err != nil {
		if repository.IsPgErrorWithCode(err, repository.PgErrForeignKeyViolation) {
			return nil, entities.ErrDispatchNotFound
		}
		return nil, fmt.Errorf("unexpected payment repository create error: %w", err)
	}

	return ToDomain(&created), nil
}

func (r *Repository) GetByID(ctx context.Context, dispatchID, paymentID int64) (*entities.DispatchPayment, error) {
	query := `SELECT ` + paymentColumns + `
		FROM dispatch_payments
		WHERE id = $1 AND dispatch_id = $2`

	paymentModel, err := scanPayment(r.querier.QueryRow(ctx, query, paymentID, dispatchID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("unexpected payment repository getbyid error: %w", err)
	}

	return ToDomain(&paymentModel), nil
}

func (r *Repository) Delete(ctx context.Context, paymentID int64) error {
	query := `DELETE FROM dispatch_payments WHERE id = $1`

	result, err := r.querier.Exec(ctx, query, paymentID)
	if err != nil {
		return fmt.Errorf("unexpected payment repository delete error: %w", err)
	}

	if result.RowsAffected() == 0 {
		return entities.ErrPaymentNotFound
	}

	return nil
}

func (r *Repository) SumByDispatchID(ctx context.Context, dispatchID int64) (int64, error) {
	query := `SELECT COALESCE(SUM(amount_in_cents), 0)::bigint
		FROM dispatch_payments
		WHERE dispatch_id = $1`

	var total int64
	err := r.querier.QueryRow(ctx, query, dispatchID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("unexpected payment repository sum error: %w", err)
	}

	return total, nil
}

func scanPayment(row scanner) (PaymentDB, error) {
	var paymentModel PaymentDB
	err := row.Scan(
		&paymentModel.ID,
		&paymentModel.DispatchID,
		&paymentModel.AmountInCents,
		&paymentModel.ChargeInCents,
		&paymentModel.Method,
		&paymentModel.Reference,
		&paymentModel.Date,
		&paymentModel.Notes,
		&paymentModel.UserID,
		&paymentModel.CreatedAt,
	)
	return paymentModel, err
}
