package agency

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"shipping/internal/entities"
	"shipping/internal/service/hierarchy"
)

type Repository struct {
	querier Querier
}

func New(querier Querier) *Repository {
	return &Repository{
		querier: querier,
	}
}

func (r *Repository) GetAgencyByID(ctx context.Context, id int64) (*entities.Agency, error) {
	query := `SELECT id, name, parent_agency_id, is_forwarder
		FROM agencies
		WHERE id = $1`

	var agencyModel AgencyDB
	err := r.querier.QueryRow(ctx, query, id).
		Scan(
			&agencyModel.ID,
			&agencyModel.Name,
			&agencyModel.ParentAgencyID,
			&agencyModel.IsForwarder,
		)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, hierarchy.ErrAgencyNotFound
		}
		return nil, fmt.Errorf("unexpected agency repository getbyid error: %w", err)
	}

	return ToDomain(&agencyModel), nil
}

// GetDescendantIDs обходит поддерево рекурсивным CTE. UNION отсекает циклы в данных.
func (r *Repository) GetDescendantIDs(ctx context.Context, id int64) ([]int64, error) {
	query := `WITH RECURSIVE subtree(id) AS (
			SELECT id FROM agencies WHERE parent_agency_id = $1
			UNION
			SELECT a.id FROM agencies a JOIN subtree s ON a.parent_agency_id = s.id
		)
		SELECT id FROM subtree WHERE id <> $1 ORDER BY id`

	rows, err := r.querier.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("unexpected agency repository getdescendants error: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0, 8)
	for rows.Next() {
		var descendantID int64
		if err := rows.Scan(&descendantID); err != nil {
			return nil, fmt.Errorf("unexpected agency repository getdescendants error: %w", err)
		}
		ids = append(ids, descendantID)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("unexpected agency repository getdescendants error: %w", err)
	}

	return ids, nil
}

func (r *Repository) GetPricingAgreement(ctx context.Context, sellerAgencyID, buyerAgencyID, productID, serviceID int64) (int64, error) {
	query := `SELECT price_in_cents
		FROM pricing_agreements
		WHERE seller_agency_id = $1
			AND buyer_agency_id = $2
			AND product_id = $3
			AND service_id = $4`

	var price int64
	err := r.querier.QueryRow(ctx, query, sellerAgencyID, buyerAgencyID, productID, serviceID).Scan(&price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, hierarchy.ErrPricingNotFound
		}
		return 0, fmt.Errorf("unexpected agency repository getpricing error: %w", err)
	}

	return price, nil
}
