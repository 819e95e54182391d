package dispatch_delete

import (
	"net/http"

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

	if err := h.service.DeleteDispatch(r.Context(), id, actor); err != nil {
		respond.Error(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
