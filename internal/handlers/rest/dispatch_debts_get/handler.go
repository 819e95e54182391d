package dispatch_debts_get

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

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := respond.PathID(r, "id")
	if err != nil {
		respond.Error(w, r, h.log, err)
		return
	}

	debts, err := h.service.GetDispatchDebts(r.Context(), id)
	if err != nil {
		respond.Error(w, r, h.log, err)
		return
	}

	respond.JSON(w, h.log, http.StatusOK, dto.FromDebts(debts))
}
