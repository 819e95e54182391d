package actor

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"shipping/internal/entities"
	"shipping/pkg/logger"
)

const (
	HeaderUserID   = "X-User-ID"
	HeaderAgencyID = "X-Agency-ID"
	HeaderRole     = "X-User-Role"
)

var (
	errMissingUser   = errors.New("missing " + HeaderUserID + " header")
	errInvalidAgency = errors.New("invalid " + HeaderAgencyID + " header")
	errInvalidRole   = errors.New("invalid " + HeaderRole + " header")
)

type ctxKey struct{}

func WithActor(ctx context.Context, actor entities.Actor) context.Context {
	return context.WithValue(ctx, ctxKey{}, actor)
}

func FromContext(ctx context.Context) (entities.Actor, bool) {
	actor, ok := ctx.Value(ctxKey{}).(entities.Actor)
	return actor, ok
}

// Middleware собирает entities.Actor из заголовков. Аутентификация выполняется
// на шлюзе перед сервисом, здесь заголовки только разбираются.
func Middleware(log handlerLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, err := parse(r.Header)
			if err != nil {
				log.With(
					logger.NewField("method", r.Method),
					logger.NewField("path", r.URL.Path),
					logger.NewField("error", err.Error()),
				).Warn("unauthorized request")

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, err := w.Write([]byte(`{"error":"unauthorized","message":"` + err.Error() + `"}`))
				if err != nil {
					log.With(
						logger.NewField("error", err),
						logger.NewField("path", r.URL.Path),
					).Error("failed to write unauthorized response")
				}
				return
			}

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

func parse(header http.Header) (entities.Actor, error) {
	userID := strings.TrimSpace(header.Get(HeaderUserID))
	if userID == "" {
		return entities.Actor{}, errMissingUser
	}

	agencyID, err := strconv.ParseInt(strings.TrimSpace(header.Get(HeaderAgencyID)), 10, 64)
	if err != nil || agencyID <= 0 {
		return entities.Actor{}, errInvalidAgency
	}

	role := entities.Role(strings.ToUpper(strings.TrimSpace(header.Get(HeaderRole))))
	if !role.IsValid() {
		return entities.Actor{}, errInvalidRole
	}

	return entities.Actor{UserID: userID, AgencyID: agencyID, Role: role}, nil
}
