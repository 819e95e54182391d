package debt

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

const debtColumns = `id, debtor_agency_id, creditor_agency_id, original_sender_agency_id,
	amount_in_cents, dispatch_id, relationship, status, notes, created_at, paid_at`

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

func (r *Repository) Create(ctx context.Context, debts []entities.InterAgencyDebt) ([]entities.InterAgencyDebt, error) {
	if len(debts) == 0 {
		return []entities.InterAgencyDebt{}, nil
	}

	builder := qb.
		Insert("inter_agency_debts").
		Columns(
			"debtor_agency_id",
			"creditor_agency_id",
			"original_sender_agency_id",
			"amount_in_cents",
			"dispatch_id",
			"relationship",
			"status",
			"notes",
			"paid_at",
		)
	for _, debt := range debts {
		debtModel := FromDomain(&debt)
		builder = builder.Values(
			debtModel.DebtorAgencyID,
			debtModel.CreditorAgencyID,
			debtModel.OriginalSenderAgencyID,
			debtModel.AmountInCents,
			debtModel.DispatchID,
			debtModel.Relationship,
			debtModel.Status,
			debtModel.Notes,
			debtModel.PaidAt,
		)
	}

	query, args, err := builder.Suffix("RETURNING " + debtColumns).ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected debt repository create error: %w", err)
	}

	created, err := r.queryDebts(ctx, query, args...)
	if err != nil {
		if repository.IsPgErrorWithCode(err, repository.PgErrCheckViolation) {
			return nil, fmt.Errorf("debt amount must be positive: %w", entities.ErrValidation)
		}
		return nil, fmt.Errorf("unexpected debt repository create error: %w", err)
	}
	return created, nil
}

func (r *Repository) CancelPendingByDispatchIDs(ctx context.Context, dispatchIDs []int64) (int64, error) {
	if len(dispatchIDs) == 0 {
		return 0, nil
	}

	query := `UPDATE inter_agency_debts
		SET status = $1
		WHERE dispatch_id = ANY($2) AND status = $3`

	result, err := r.querier.Exec(
		ctx,
		query,
		entities.DebtCancelled.String(),
		dispatchIDs,
		entities.DebtPending.String(),
	)
	if err != nil {
		return 0, fmt.Errorf("unexpected debt repository cancelpending error: %w", err)
	}

	return result.RowsAffected(), nil
}

// HasPaidDebtForParcel ищет PAID долг по любой отправке из журнала посылки.
func (r *Repository) HasPaidDebtForParcel(ctx context.Context, debtorAgencyID, creditorAgencyID, parcelID int64) (bool, error) {
	query := `SELECT EXISTS (
		SELECT 1
		FROM inter_agency_debts d
		WHERE d.status = $1
			AND d.debtor_agency_id = $2
			AND d.creditor_agency_id = $3
			AND d.dispatch_id IN (
				SELECT e.dispatch_id
				FROM parcel_events e
				WHERE e.parcel_id = $4 AND e.dispatch_id IS NOT NULL
			)
	)`

	var exists bool
	err := r.querier.QueryRow(
		ctx,
		query,
		entities.DebtPaid.String(),
		debtorAgencyID,
		creditorAgencyID,
		parcelID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("unexpected debt repository haspaid error: %w", err)
	}

	return exists, nil
}

func (r *Repository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.InterAgencyDebt, error) {
	query := `SELECT ` + debtColumns + `
		FROM inter_agency_debts
		WHERE id = $1
		FOR UPDATE`

	debtModel, err := scanDebt(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrDebtNotFound
		}
		return nil, fmt.Errorf("unexpected debt repository getbyid error: %w", err)
	}

	return ToDomain(&debtModel), nil
}

func (r *Repository) MarkPaid(ctx context.Context, id int64, paidAt time.Time) (*entities.InterAgencyDebt, error) {
	query := `UPDATE inter_agency_debts
		SET status = $2, paid_at = $3
		WHERE id = $1
		RETURNING ` + debtColumns

	debtModel, err := scanDebt(r.querier.QueryRow(ctx, query, id, entities.DebtPaid.String(), paidAt))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrDebtNotFound
		}
		return nil, fmt.Errorf("unexpected debt repository markpaid error: %w", err)
	}

	return ToDomain(&debtModel), nil
}

func (r *Repository) GetByDispatchID(ctx context.Context, dispatchID int64) ([]entities.InterAgencyDebt, error) {
	query := `SELECT ` + debtColumns + `
		FROM inter_agency_debts
		WHERE dispatch_id = $1
		ORDER BY id`

	debts, err := r.queryDebts(ctx, query, dispatchID)
	if err != nil {
		return nil, fmt.Errorf("unexpected debt repository getbydispatchid error: %w", err)
	}
	return debts, nil
}

func (r *Repository) queryDebts(ctx context.Context, query string, args ...interface{}) ([]entities.InterAgencyDebt, error) {
	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	debtModels := make([]DebtDB, 0, 8)
	for rows.Next() {
		debtModel, err := scanDebt(rows)
		if err != nil {
			return nil, err
		}
		debtModels = append(debtModels, debtModel)
	}

	err = rows.Err()
	if err != nil {
		return nil, err
	}

	return ToDomainList(debtModels), nil
}

func scanDebt(row scanner) (DebtDB, error) {
	var debtModel DebtDB
	err := row.Scan(
		&debtModel.ID,
		&debtModel.DebtorAgencyID,
		&debtModel.CreditorAgencyID,
		&debtModel.OriginalSenderAgencyID,
		&debtModel.AmountInCents,
		&debtModel.DispatchID,
		&debtModel.Relationship,
		&debtModel.Status,
		&debtModel.Notes,
		&debtModel.CreatedAt,
		&debtModel.PaidAt,
	)
	return debtModel, err
}
