package ping_get

import (
	"net/http"

	"shipping/internal/handlers/rest/dto"
	"shipping/internal/handlers/rest/respond"
	"shipping/pkg/logger"
)

const serviceName = "shipping"

// Handler отвечает без похода в базу, в отличие от /healthcheck.
type Handler struct {
	log handlerLogger
}

func New(log handlerLogger) *Handler {
	return &Handler{
		log: log.With(logger.NewField("handler", "ping_get")),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, h.log, http.StatusOK, dto.PingResponse{
		Message: "pong",
		Service: serviceName,
	})
}
