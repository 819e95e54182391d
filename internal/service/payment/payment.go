package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"shipping/internal/entities"
	"shipping/pkg/logger"
)

var hundred = decimal.NewFromInt(100)

type Service struct {
	repository     Repository
	dispatches     DispatchRepository
	txManager      TxManager
	cardFeePercent decimal.Decimal
	log            paymentLogger
}

func New(
	repository Repository,
	dispatches DispatchRepository,
	txManager TxManager,
	cardFeePercent decimal.Decimal,
	log paymentLogger,
) *Service {
	return &Service{
		repository:     repository,
		dispatches:     dispatches,
		txManager:      txManager,
		cardFeePercent: cardFeePercent,
		log:            log.With(logger.NewField("component", "dispatch-payments")),
	}
}

// Input - данные новой оплаты. Нулевая дата заменяется текущей.
type Input struct {
	DispatchID    int64
	AmountInCents int64
	Method        entities.PaymentMethod
	Reference     string
	Date          time.Time
	Notes         string
}

// Receipt - созданная оплата и отправка с обновленным статусом оплаты.
type Receipt struct {
	Payment  *entities.DispatchPayment
	Dispatch *entities.Dispatch
}

func (s *Service) AddPayment(ctx context.Context, input Input, actor entities.Actor) (*Receipt, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if input.Date.IsZero() {
		input.Date = time.Now().UTC()
	}

	var receipt *Receipt
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		dispatch, err := s.lockPayable(ctx, input.DispatchID, actor)
		if err != nil {
			return err
		}
		if dispatch.PaymentStatus == entities.PaymentPaid {
			return ErrAlreadyPaid
		}
		if input.AmountInCents > dispatch.CostInCents-dispatch.PaidInCents {
			return ErrAmountExceedsDue
		}

		payment := entities.DispatchPayment{
			DispatchID:    dispatch.ID,
			AmountInCents: input.AmountInCents,
			Method:        input.Method,
			Reference:     input.Reference,
			Date:          input.Date,
			Notes:         input.Notes,
			UserID:        actor.UserID,
		}
		if input.Method.IsCard() {
			payment.ChargeInCents = CardCharge(input.AmountInCents, s.cardFeePercent)
		}

		created, err := s.repository.Create(ctx, payment)
		if err != nil {
			return fmt.Errorf("create payment: %w", err)
		}
		updated, err := s.refreshPaid(ctx, dispatch)
		if err != nil {
			return err
		}

		receipt = &Receipt{Payment: created, Dispatch: updated}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("payment added",
		logger.NewField("dispatch", input.DispatchID),
		logger.NewField("payment", receipt.Payment.ID),
		logger.NewField("amount", receipt.Payment.AmountInCents),
		logger.NewField("payment_status", receipt.Dispatch.PaymentStatus.String()),
	)
	return receipt, nil
}

func (s *Service) DeletePayment(ctx context.Context, dispatchID, paymentID int64, actor entities.Actor) (*entities.Dispatch, error) {
	if dispatchID <= 0 {
		return nil, ErrInvalidDispatchID
	}
	if paymentID <= 0 {
		return nil, ErrInvalidPaymentID
	}

	var updated *entities.Dispatch
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		dispatch, err := s.dispatches.GetByIDForUpdate(ctx, dispatchID)
		if err != nil {
			return fmt.Errorf("get dispatch: %w", err)
		}
		if !canRecord(dispatch, actor) {
			return ErrNotReceiver
		}

		if _, err := s.repository.GetByID(ctx, dispatchID, paymentID); err != nil {
			return fmt.Errorf("get payment: %w", err)
		}
		if err := s.repository.Delete(ctx, paymentID); err != nil {
			return fmt.Errorf("delete payment: %w", err)
		}

		updated, err = s.refreshPaid(ctx, dispatch)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// CardCharge - комиссия процессинга карты, округление вверх до цента.
func CardCharge(amountInCents int64, percent decimal.Decimal) int64 {
	return decimal.NewFromInt(amountInCents).Mul(percent).Div(hundred).Ceil().IntPart()
}

func (s *Service) lockPayable(ctx context.Context, dispatchID int64, actor entities.Actor) (*entities.Dispatch, error) {
	dispatch, err := s.dispatches.GetByIDForUpdate(ctx, dispatchID)
	if err != nil {
		return nil, fmt.Errorf("get dispatch: %w", err)
	}
	if dispatch.Status != entities.DispatchReceived {
		return nil, ErrDispatchNotReceived
	}
	if !canRecord(dispatch, actor) {
		return nil, ErrNotReceiver
	}
	return dispatch, nil
}

// refreshPaid пересчитывает сумму оплат и статус оплаты по фактическим записям.
func (s *Service) refreshPaid(ctx context.Context, dispatch *entities.Dispatch) (*entities.Dispatch, error) {
	paid, err := s.repository.SumByDispatchID(ctx, dispatch.ID)
	if err != nil {
		return nil, fmt.Errorf("sum payments: %w", err)
	}
	status := entities.DerivePaymentStatus(paid, dispatch.CostInCents)

	updated, err := s.dispatches.Update(ctx, entities.DispatchModify{
		ID:            &dispatch.ID,
		PaidInCents:   &paid,
		PaymentStatus: &status,
	})
	if err != nil {
		return nil, fmt.Errorf("update dispatch payment status: %w", err)
	}
	return updated, nil
}

func canRecord(dispatch *entities.Dispatch, actor entities.Actor) bool {
	if actor.CanBypass() {
		return true
	}
	return dispatch.ReceiverAgencyID != nil && actor.ActsFor(*dispatch.ReceiverAgencyID)
}
