package dispatch_scan_post

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

// ServeHTTP создает отправку из списка отсканированных номеров.
// 201 возвращается, только если отправка действительно создана.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	actor, err := respond.Actor(r)
	if err != nil {
		respond.Error(w, r, h.log, err)
		return
	}

	var request dto.DispatchScan
	if err := respond.DecodeBody(r, &request); err != nil {
		respond.Error(w, r, h.log, err)
		return
	}

	res, err := h.service.CreateFromScan(r.Context(), request.TrackingNumbers, request.SenderAgencyID, actor)
	if err != nil {
		respond.Error(w, r, h.log, err)
		return
	}

	status := http.StatusOK
	if res.Dispatch != nil {
		status = http.StatusCreated
	}

	respond.JSON(w, h.log, status, dto.FromScanResult(res))
}
