package parcels_scanned

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/IBM/sarama"
	"shipping/internal/entities"
	"shipping/pkg/logger"
)

type Handler struct {
	receptionService         Service
	log                      handlerLogger
	messageProcessingTimeout time.Duration
}

func New(log handlerLogger, receptionService Service, timeout time.Duration) *Handler {
	handlerLog := log.With()

	return &Handler{
		receptionService:         receptionService,
		log:                      handlerLog,
		messageProcessingTimeout: timeout,
	}
}

func (h *Handler) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *Handler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *Handler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				h.log.Info("parcels.scanned: claim messages closed, exiting ConsumeClaim")
				return nil
			}

			if shouldExit := h.messageProcessing(sess, message); shouldExit {
				return nil
			}

		case <-sess.Context().Done():
			// rebalance или остановка consumer group
			h.log.Info("parcels.scanned: session context done, exiting ConsumeClaim")
			return nil
		}
	}
}

// messageProcessing обрабатывает одну пачку сканов.
// Возвращает true, если ConsumeClaim нужно прервать без коммита сообщения.
func (h *Handler) messageProcessing(sess sarama.ConsumerGroupSession, message *sarama.ConsumerMessage) bool {
	ctx, cancel := context.WithTimeout(sess.Context(), h.messageProcessingTimeout)
	defer cancel()

	event, err := decodeEvent(message.Value)
	if err != nil {
		h.log.With(
			logger.NewField("error", err),
			logger.NewField("offset", message.Offset),
		).Error("parcels.scanned handler received bad message")
		sess.MarkMessage(message, "")
		return false
	}

	msgLog := h.log.With(
		logger.NewField("receiver_agency_id", event.ReceiverAgencyID),
		logger.NewField("user_id", event.UserID),
		logger.NewField("scanned", len(event.TrackingNumbers)),
		logger.NewField("offset", message.Offset),
	)

	msgLog.Info("parcels.scanned processing")

	role, capped := scannerRole(event.Role)
	if capped {
		msgLog.With(
			logger.NewField("role", event.Role),
		).Warn("parcels.scanned role lowered to agency supervisor")
	}
	actor := entities.Actor{
		UserID:   event.UserID,
		AgencyID: event.ReceiverAgencyID,
		Role:     role,
	}

	summary, err := h.receptionService.SmartReceive(ctx, event.TrackingNumbers, event.ReceiverAgencyID, actor)
	if err != nil {
		switch {
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			msgLog.With(
				logger.NewField("error", err),
			).Warn("parcels.scanned handler context cancelled, message will be reprocessed")
			return true

		case errors.Is(err, entities.ErrValidation) || errors.Is(err, entities.ErrForbidden):
			msgLog.With(
				logger.NewField("error", err),
			).Warn("parcels.scanned handler rejected batch")

		default:
			msgLog.With(
				logger.NewField("error", err),
			).Error("parcels.scanned handler failed to process batch")
		}
		sess.MarkMessage(message, "")
		return false
	}

	msgLog.With(
		logger.NewField("batch_id", summary.BatchID),
		logger.NewField("received", summary.Received),
		logger.NewField("surplus_added", summary.SurplusAdded),
		logger.NewField("skipped", summary.Skipped),
		logger.NewField("warnings", len(summary.Warnings)),
	).Info("parcels.scanned: processed")

	sess.MarkMessage(message, "")
	return false
}

var errEmptyBatch = errors.New("no tracking numbers in batch")

func decodeEvent(value []byte) (*scannedEvent, error) {
	var event scannedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		return nil, err
	}
	if len(event.TrackingNumbers) == 0 {
		return nil, errEmptyBatch
	}
	return &event, nil
}

// scannerRole - роль из сообщения. Продюсер топика не аутентифицирован, поэтому
// повышенные и неизвестные роли понижаются: сканер принимает только за свое агентство.
func scannerRole(raw string) (entities.Role, bool) {
	role := entities.Role(strings.ToUpper(strings.TrimSpace(raw)))
	if !role.IsValid() || role.CanBypass() {
		return entities.RoleAgencySupervisor, true
	}
	return role, false
}
