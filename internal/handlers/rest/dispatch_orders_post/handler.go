package dispatch_orders_post

import (
	"net/http"

	"shipping/internal/handlers/rest/dto"
	"shipping/internal/handlers/rest/respond"
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

// ServeHTTP добавляет в отправку все посылки заказа. Ответ содержит
// исход по каждой посылке, включая пропущенные.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	actor, err := respond.Actor(r)
	if err != nil {
		respond.Error(w, r, h.log, err)
		return
	}

	dispatchID, err := respond.PathID(r, "id")
	if err != nil {
		respond.Error(w, r, h.log, err)
		return
	}

	var request dto.OrderAdd
	if err := respond.DecodeBody(r, &request); err != nil {
		respond.Error(w, r, h.log, err)
		return
	}

	outcomes, err := h.service.AddParcelsByOrder(r.Context(), request.OrderID, dispatchID, actor)
	if err != nil {
		respond.Error(w, r, h.log, err)
		return
	}

	respond.JSON(w, h.log, http.StatusOK, dto.CountOutcomes(outcomes))
}
