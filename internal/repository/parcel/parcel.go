package parcel

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"shipping/internal/entities"
)

var qb sq.StatementBuilderType = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const parcelColumns = `id, tracking_number, order_id, origin_agency_id, agency_id,
	dispatch_id, status, weight::text, deleted_at, updated_at`

// отправки, которые больше не удерживают посылки
var completedDispatchStatuses = []string{
	entities.DispatchReceived.String(),
	entities.DispatchDiscrepancy.String(),
}

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

func (r *Repository) GetByTrackingNumberForUpdate(ctx context.Context, trackingNumber string) (*entities.Parcel, error) {
	query := `SELECT ` + parcelColumns + `
		FROM parcels
		WHERE tracking_number = $1
		FOR UPDATE`

	parcelModel, err := scanParcel(r.querier.QueryRow(ctx, query, trackingNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrParcelNotFound
		}
		return nil, fmt.Errorf("unexpected parcel repository getbytrackingnumber error: %w", err)
	}

	return ToDomain(&parcelModel), nil
}

func (r *Repository) GetByTrackingNumbers(ctx context.Context, trackingNumbers []string) ([]entities.Parcel, error) {
	return r.getByTrackingNumbers(ctx, trackingNumbers, false)
}

func (r *Repository) GetByTrackingNumbersForUpdate(ctx context.Context, trackingNumbers []string) ([]entities.Parcel, error) {
	return r.getByTrackingNumbers(ctx, trackingNumbers, true)
}

func (r *Repository) getByTrackingNumbers(ctx context.Context, trackingNumbers []string, lock bool) ([]entities.Parcel, error) {
	if len(trackingNumbers) == 0 {
		return []entities.Parcel{}, nil
	}

	builder := qb.
		Select(parcelColumns).
		From("parcels").
		Where(sq.Expr("tracking_number = ANY(?)", trackingNumbers)).
		OrderBy("id")
	if lock {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected parcel repository getbytrackingnumbers error: %w", err)
	}

	parcels, err := r.queryParcels(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("unexpected parcel repository getbytrackingnumbers error: %w", err)
	}
	return parcels, nil
}

func (r *Repository) GetByOrderIDForUpdate(ctx context.Context, orderID int64) ([]entities.Parcel, error) {
	query := `SELECT ` + parcelColumns + `
		FROM parcels
		WHERE order_id = $1
		ORDER BY id
		FOR UPDATE`

	parcels, err := r.queryParcels(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("unexpected parcel repository getbyorderid error: %w", err)
	}
	return parcels, nil
}

func (r *Repository) GetByDispatchID(ctx context.Context, dispatchID int64) ([]entities.Parcel, error) {
	query := `SELECT ` + parcelColumns + `
		FROM parcels
		WHERE dispatch_id = $1 AND deleted_at IS NULL
		ORDER BY id`

	parcels, err := r.queryParcels(ctx, query, dispatchID)
	if err != nil {
		return nil, fmt.Errorf("unexpected parcel repository getbydispatchid error: %w", err)
	}
	return parcels, nil
}

func (r *Repository) Update(ctx context.Context, parcelModifyEntity entities.ParcelModify) (*entities.Parcel, error) {
	parcelModifyModel := FromDomainModify(&parcelModifyEntity)

	builder := qb.
		Update("parcels")

	if parcelModifyModel.AgencyID != nil {
		builder = builder.Set("agency_id", parcelModifyModel.AgencyID)
	}
	if parcelModifyModel.Detach {
		builder = builder.Set("dispatch_id", nil)
	} else if parcelModifyModel.DispatchID != nil {
		builder = builder.Set("dispatch_id", parcelModifyModel.DispatchID)
	}
	if parcelModifyModel.Status != nil {
		builder = builder.Set("status", parcelModifyModel.Status)
	}

	builder = builder.Set("updated_at", sq.Expr("NOW()"))

	builder = builder.
		Where(sq.Eq{"id": parcelModifyModel.ID}).
		Suffix("RETURNING " + parcelColumns)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected parcel repository update error: %w", err)
	}

	parcelModel, err := scanParcel(r.querier.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrParcelNotFound
		}
		return nil, fmt.Errorf("unexpected parcel repository update error: %w", err)
	}

	return ToDomain(&parcelModel), nil
}

// ClaimForDispatch - один условный UPDATE: строка захватывается, только если
// посылка не удалена, в допустимом статусе, у нужного владельца и не едет
// в незавершенной отправке. Конкурентный захват той же посылки упрется в блокировку строки.
func (r *Repository) ClaimForDispatch(ctx context.Context, claim entities.ParcelClaim) ([]entities.Parcel, error) {
	if len(claim.ParcelIDs) == 0 {
		return []entities.Parcel{}, nil
	}

	builder := qb.
		Update("parcels").
		Set("dispatch_id", claim.DispatchID).
		Set("status", entities.ParcelInDispatch.String()).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Expr("id = ANY(?)", claim.ParcelIDs)).
		Where(sq.Eq{"deleted_at": nil}).
		Where(sq.Expr("status = ANY(?)", statusesToDB(claim.AllowedStatuses))).
		Where(sq.Or{
			sq.Eq{"dispatch_id": nil},
			sq.Expr(
				"EXISTS (SELECT 1 FROM dispatches d WHERE d.id = parcels.dispatch_id AND d.status = ANY(?))",
				completedDispatchStatuses,
			),
		})
	if claim.OwnerAgencyIDs != nil {
		builder = builder.Where(sq.Expr("agency_id = ANY(?)", claim.OwnerAgencyIDs))
	}
	builder = builder.Suffix("RETURNING " + parcelColumns)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected parcel repository claim error: %w", err)
	}

	parcels, err := r.queryParcels(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("unexpected parcel repository claim error: %w", err)
	}
	return parcels, nil
}

func (r *Repository) GetDispatchTotals(ctx context.Context, dispatchID int64) (*entities.DispatchTotals, error) {
	query := `SELECT
			COUNT(*),
			COALESCE(SUM(weight), 0)::text,
			COUNT(*) FILTER (WHERE status = $2),
			COALESCE(SUM(weight) FILTER (WHERE status = $2), 0)::text
		FROM parcels
		WHERE dispatch_id = $1 AND deleted_at IS NULL`

	var totals DispatchTotalsDB
	err := r.querier.QueryRow(ctx, query, dispatchID, entities.ParcelReceivedInDispatch.String()).
		Scan(
			&totals.ParcelsCount,
			&totals.Weight,
			&totals.ReceivedParcelsCount,
			&totals.ReceivedWeight,
		)
	if err != nil {
		return nil, fmt.Errorf("unexpected parcel repository gettotals error: %w", err)
	}

	return TotalsToDomain(&totals), nil
}

func (r *Repository) CreateEvents(ctx context.Context, events []entities.ParcelEvent) error {
	if len(events) == 0 {
		return nil
	}

	builder := qb.
		Insert("parcel_events").
		Columns("parcel_id", "type", "status", "dispatch_id", "user_id", "notes")
	for _, event := range events {
		builder = builder.Values(
			event.ParcelID,
			event.Type.String(),
			event.Status.String(),
			event.DispatchID,
			event.UserID,
			event.Notes,
		)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("unexpected parcel repository createevents error: %w", err)
	}

	_, err = r.querier.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("unexpected parcel repository createevents error: %w", err)
	}
	return nil
}

func (r *Repository) GetEvents(ctx context.Context, parcelID int64) ([]entities.ParcelEvent, error) {
	query := `SELECT id, parcel_id, type, status, dispatch_id, user_id, notes, created_at
		FROM parcel_events
		WHERE parcel_id = $1
		ORDER BY created_at, id`

	rows, err := r.querier.Query(ctx, query, parcelID)
	if err != nil {
		return nil, fmt.Errorf("unexpected parcel repository getevents error: %w", err)
	}
	defer rows.Close()

	events := make([]entities.ParcelEvent, 0, 8)
	for rows.Next() {
		var eventModel ParcelEventDB
		err := rows.Scan(
			&eventModel.ID,
			&eventModel.ParcelID,
			&eventModel.Type,
			&eventModel.Status,
			&eventModel.DispatchID,
			&eventModel.UserID,
			&eventModel.Notes,
			&eventModel.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("unexpected parcel repository getevents error: %w", err)
		}
		events = append(events, EventToDomain(&eventModel))
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("unexpected parcel repository getevents error: %w", err)
	}

	return events, nil
}

func (r *Repository) queryParcels(ctx context.Context, query string, args ...interface{}) ([]entities.Parcel, error) {
	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	parcelModels := make([]ParcelDB, 0, 8)
	for rows.Next() {
		parcelModel, err := scanParcel(rows)
		if err != nil {
			return nil, err
		}
		parcelModels = append(parcelModels, parcelModel)
	}

	err = rows.Err()
	if err != nil {
		return nil, err
	}

	return ToDomainList(parcelModels), nil
}

func scanParcel(row scanner) (ParcelDB, error) {
	var parcelModel ParcelDB
	err := row.Scan(
		&parcelModel.ID,
		&parcelModel.TrackingNumber,
		&parcelModel.OrderID,
		&parcelModel.OriginAgencyID,
		&parcelModel.AgencyID,
		&parcelModel.DispatchID,
		&parcelModel.Status,
		&parcelModel.Weight,
		&parcelModel.DeletedAt,
		&parcelModel.UpdatedAt,
	)
	return parcelModel, err
}
