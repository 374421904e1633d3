package controllers

import (
	"net/http"

	"github.com/kardzapp/kardz-backend/api/responses"
	"github.com/kardzapp/kardz-backend/api/validators"
	usersvc "github.com/kardzapp/kardz-backend/internal/users"
	pkgerrors "github.com/kardzapp/kardz-backend/pkg/errors"
	"github.com/kardzapp/kardz-backend/pkg/logger"
)

type loginRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	FullName *string `json:"fullName,omitempty"`
	ImageURL *string `json:"imageUrl,omitempty"`
}

// Login resolves or provisions the account for the supplied email and returns
// it. There is no credential; callers identify themselves on later requests
// with the returned id.
func Login(svc usersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		var payload loginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.Login(r.Context(), usersvc.LoginInput{
			Email:    payload.Email,
			FullName: payload.FullName,
			ImageURL: payload.ImageURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, user)
	}
}
