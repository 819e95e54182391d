package dispatch_payments_post

import (
	"net/http"

	"shipping/internal/entities"
	"shipping/internal/handlers/rest/dto"
	"shipping/internal/handlers/rest/respond"
	"shipping/internal/service/payment"
)

type Handler struct {
	log     handlerLogger
	service Service
}

func New(log handlerLogger, service Service) *Handler {
	handlerLog := log.With()

	return &Handler{
		log:     handlerLog,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	actor, err := respond.Actor(r)
	if err != nil {
		respond.Error(w, r, h.log, err)
		return
	}

	id, err := respond.PathID(r, "id")
	if err != nil {
		respond.Error(w, r, h.log, err)
		return
	}

	var request dto.PaymentCreate
	if err := respond.DecodeBody(r, &request); err != nil {
		respond.Error(w, r, h.log, err)
		return
	}

	input := payment.Input{
		DispatchID:    id,
		AmountInCents: request.AmountInCents,
		Method:        entities.PaymentMethod(request.Method),
		Reference:     request.Reference,
		Notes:         request.Notes,
	}
	// без даты сервис подставит текущую
	if request.Date != nil {
		input.Date = *request.Date
	}

	receipt, err := h.service.AddPayment(r.Context(), input, actor)
	if err != nil {
		respond.Error(w, r, h.log, err)
		return
	}

	respond.JSON(w, h.log, http.StatusCreated, dto.FromReceipt(receipt))
}
