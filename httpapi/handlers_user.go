package httpapi

import (
	"errors"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	authcore "github.com/lumenlms/authcore"
	"github.com/lumenlms/authcore/directory"
	"github.com/lumenlms/authcore/middleware"
)

func (api *API) handleMe(w http.ResponseWriter, r *http.Request) {
	principal, ok := authcore.PrincipalFromContext(r.Context())
	if !ok {
		middleware.WriteError(w, authcore.Unauthenticated("Please log in to access this resource"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    principal,
	})
}

type updateUserInfoRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (api *API) handleUpdateUserInfo(w http.ResponseWriter, r *http.Request) {
	principal, ok := authcore.PrincipalFromContext(r.Context())
	if !ok {
		middleware.WriteError(w, authcore.Unauthenticated("Please log in to access this resource"))
		return
	}

	var req updateUserInfoRequest
	if err := decodeJSON(r, &req); err != nil {
		middleware.WriteError(w, authcore.BadRequest("Invalid request body"))
		return
	}

	user, err := api.users.FindByID(r.Context(), principal.ID)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			middleware.WriteError(w, authcore.BadRequest("User not found"))
			return
		}
		middleware.WriteError(w, err)
		return
	}

	if req.Email != "" && req.Email != user.Email {
		if _, err := api.users.FindByEmail(r.Context(), req.Email); err == nil {
			middleware.WriteError(w, authcore.BadRequest("Email already exists"))
			return
		} else if !errors.Is(err, directory.ErrNotFound) {
			middleware.WriteError(w, err)
			return
		}
		user.Email = req.Email
	}
	if req.Name != "" {
		user.Name = req.Name
	}

	if err := api.users.Update(r.Context(), user); err != nil {
		if errors.Is(err, directory.ErrDuplicateEmail) {
			middleware.WriteError(w, authcore.BadRequest("Email already exists"))
			return
		}
		middleware.WriteError(w, err)
		return
	}

	// Keep the session cache authoritative after the profile change.
	if err := api.auth.SyncSession(r.Context(), user.Principal()); err != nil {
		middleware.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user.Principal(),
	})
}

type updatePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

func (api *API) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	principal, ok := authcore.PrincipalFromContext(r.Context())
	if !ok {
		middleware.WriteError(w, authcore.Unauthenticated("Please log in to access this resource"))
		return
	}

	var req updatePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		middleware.WriteError(w, authcore.BadRequest("Invalid request body"))
		return
	}
	if req.OldPassword == "" || req.NewPassword == "" {
		middleware.WriteError(w, authcore.BadRequest("Please enter old and new password"))
		return
	}

	user, err := api.users.FindByID(r.Context(), principal.ID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	if user.PasswordHash == "" {
		middleware.WriteError(w, authcore.BadRequest("Invalid user"))
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)) != nil {
		middleware.WriteError(w, authcore.BadRequest("Invalid old password"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	user.PasswordHash = string(hash)

	if err := api.users.Update(r.Context(), user); err != nil {
		middleware.WriteError(w, err)
		return
	}
	if err := api.auth.SyncSession(r.Context(), user.Principal()); err != nil {
		middleware.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user.Principal(),
		"message": "Password updated successfully",
	})
}
