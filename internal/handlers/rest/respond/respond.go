package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"shipping/internal/entities"
	"shipping/internal/pkg/middlewares/actor"
	"shipping/pkg/logger"
)

var (
	ErrInvalidPathParam = fmt.Errorf("invalid path parameter: %w", entities.ErrValidation)
	ErrInvalidBody      = fmt.Errorf("invalid request body: %w", entities.ErrValidation)
	ErrNoActor          = errors.New("actor is not resolved")
)

type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Status - HTTP статус по классу ошибки.
func Status(err error) int {
	switch {
	case errors.Is(err, entities.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNoActor):
		return http.StatusUnauthorized
	case errors.Is(err, entities.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, entities.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, entities.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, entities.ErrInvalidState):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Error пишет ошибку в едином формате. Внутренние ошибки логируются,
// клиенту уходит только класс.
func Error(w http.ResponseWriter, r *http.Request, log handlerLogger, err error) {
	status := Status(err)
	body := ErrorBody{
		Error:   entities.ErrorClass(err),
		Message: err.Error(),
	}

	switch status {
	case http.StatusInternalServerError:
		log.With(
			logger.NewField("method", r.Method),
			logger.NewField("path", r.URL.Path),
			logger.NewField("error", err),
		).Error("request failed")
		body.Message = http.StatusText(status)
	case http.StatusUnauthorized:
		body.Error = "unauthorized"
	}

	JSON(w, log, status, body)
}

func JSON(w http.ResponseWriter, log handlerLogger, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		log.With(
			logger.NewField("error", err),
		).Error("encode JSON response")
	}
}

// PathID читает положительный int64 из переменной маршрута.
func PathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s: %w", name, ErrInvalidPathParam)
	}
	return id, nil
}

// DecodeBody разбирает JSON тело запроса, неизвестные поля отклоняются.
func DecodeBody(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidBody, err.Error())
	}
	return nil
}

// Actor - пользователь запроса, выставленный middleware actor.
func Actor(r *http.Request) (entities.Actor, error) {
	a, ok := actor.FromContext(r.Context())
	if !ok {
		return entities.Actor{}, ErrNoActor
	}
	return a, nil
}
