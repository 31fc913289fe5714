package auth

import (
	"abadas_server/api/middleware"
	"abadas_server/lib"
	"errors"
	"net/http"

	"github.com/MonkyMars/gecho"
)

// HandleMe returns the authenticated user's account details.
func (arm *AuthRoutesManager) HandleMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaimsFromContext(r.Context())
	if !ok {
		gecho.Unauthorized(w, gecho.WithMessage("error.auth.missingSession"), gecho.Send())
		return
	}

	user, err := arm.authService.GetUserByID(r.Context(), claims.Sub)
	if err != nil {
		if errors.Is(err, lib.ErrNotFound) {
			gecho.NotFound(w, gecho.WithMessage("error.auth.userNotFound"), gecho.Send())
			return
		}
		arm.logger.Error("Failed to fetch user",
			gecho.Field("user_id", claims.Sub),
			gecho.Field("error", err))
		gecho.InternalServerError(w, gecho.Send())
		return
	}

	gecho.Success(w,
		gecho.WithData(user),
		gecho.Send(),
	)
}
