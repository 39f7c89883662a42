package httpapi

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	authcore "github.com/lumenlms/authcore"
	"github.com/lumenlms/authcore/directory"
	"github.com/lumenlms/authcore/middleware"
	"github.com/lumenlms/authcore/token"
)

type registrationRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (api *API) handleRegistration(w http.ResponseWriter, r *http.Request) {
	var req registrationRequest
	if err := decodeJSON(r, &req); err != nil {
		middleware.WriteError(w, authcore.BadRequest("Invalid request body"))
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		middleware.WriteError(w, authcore.BadRequest("Please provide all required fields"))
		return
	}

	if _, err := api.users.FindByEmail(r.Context(), req.Email); err == nil {
		middleware.WriteError(w, authcore.BadRequest("Email already exist"))
		return
	} else if !errors.Is(err, directory.ErrNotFound) {
		api.log.Error().Err(err).Msg("registration: directory lookup failed")
		middleware.WriteError(w, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	code, err := activationCode()
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	activationToken, err := api.auth.Codec().IssueActivation(token.ActivationClaims{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Code:         code,
	}, api.auth.Config().Token.ActivationTTL)
	if err != nil {
		api.log.Error().Err(err).Msg("registration: activation token issue failed")
		middleware.WriteError(w, err)
		return
	}

	if err := api.mailer.SendActivation(r.Context(), req.Email, req.Name, code); err != nil {
		api.log.Error().Err(err).Str("email", req.Email).Msg("registration: activation mail failed")
		middleware.WriteError(w, authcore.BadRequest("Could not send activation email"))
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success":         true,
		"message":         fmt.Sprintf("Please check your email: %s to activate your account", req.Email),
		"activationToken": activationToken,
	})
}

type activationRequest struct {
	ActivationToken string `json:"activation_Token"`
	ActivationCode  string `json:"activation_Code"`
}

func (api *API) handleActivateUser(w http.ResponseWriter, r *http.Request) {
	var req activationRequest
	if err := decodeJSON(r, &req); err != nil {
		middleware.WriteError(w, authcore.BadRequest("Invalid request body"))
		return
	}
	if req.ActivationToken == "" || req.ActivationCode == "" {
		middleware.WriteError(w, authcore.BadRequest("Activation code and token are required"))
		return
	}

	claims, err := api.auth.Codec().VerifyActivation(req.ActivationToken)
	if err != nil {
		middleware.WriteError(w, authcore.BadRequest("Invalid or expired activation token"))
		return
	}
	if claims.Code != req.ActivationCode {
		middleware.WriteError(w, authcore.BadRequest("Invalid activation code"))
		return
	}

	user := &directory.User{
		ID:           uuid.NewString(),
		Name:         claims.Name,
		Email:        claims.Email,
		PasswordHash: claims.PasswordHash,
		Role:         "user",
		IsVerified:   true,
	}
	if err := api.users.Create(r.Context(), user); err != nil {
		if errors.Is(err, directory.ErrDuplicateEmail) {
			middleware.WriteError(w, authcore.BadRequest("User already exists"))
			return
		}
		middleware.WriteError(w, err)
		return
	}

	api.log.Info().Str("email", user.Email).Msg("account activated")
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Account activated successfully",
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (api *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		middleware.WriteError(w, authcore.BadRequest("Invalid request body"))
		return
	}
	if req.Email == "" || req.Password == "" {
		middleware.WriteError(w, authcore.BadRequest("Please enter email and password"))
		return
	}

	user, err := api.users.FindByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			middleware.WriteError(w, authcore.BadRequest("Invalid email or password"))
			return
		}
		middleware.WriteError(w, err)
		return
	}

	// Social-auth accounts have no password hash and cannot log in here.
	if user.PasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		middleware.WriteError(w, authcore.BadRequest("Invalid email or password"))
		return
	}

	api.issueSession(w, r, user, "login")
}

type socialAuthRequest struct {
	Email  string          `json:"email"`
	Name   string          `json:"name"`
	Avatar authcore.Avatar `json:"avatar"`
}

func (api *API) handleSocialAuth(w http.ResponseWriter, r *http.Request) {
	var req socialAuthRequest
	if err := decodeJSON(r, &req); err != nil {
		middleware.WriteError(w, authcore.BadRequest("Invalid request body"))
		return
	}
	if req.Email == "" || req.Name == "" {
		middleware.WriteError(w, authcore.BadRequest("Please provide all required fields"))
		return
	}

	user, err := api.users.FindByEmail(r.Context(), req.Email)
	if errors.Is(err, directory.ErrNotFound) {
		user = &directory.User{
			ID:     uuid.NewString(),
			Name:   req.Name,
			Email:  req.Email,
			Role:   "user",
			Avatar: req.Avatar,
		}
		if createErr := api.users.Create(r.Context(), user); createErr != nil {
			middleware.WriteError(w, createErr)
			return
		}
	} else if err != nil {
		middleware.WriteError(w, err)
		return
	}

	api.issueSession(w, r, user, "social-auth")
}

func (api *API) issueSession(w http.ResponseWriter, r *http.Request, user *directory.User, entry string) {
	principal := user.Principal()
	pair, err := api.auth.IssueSession(r.Context(), api.carrier(w, r), principal)
	if err != nil {
		api.log.Error().Err(err).Str("entry", entry).Msg("session issue failed")
		middleware.WriteError(w, err)
		return
	}

	api.log.Info().Str("entry", entry).Str("user", principal.ID).Msg("session issued")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"user":         principal,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

func (api *API) handleRefresh(w http.ResponseWriter, r *http.Request) {
	carrier := api.carrier(w, r)

	refreshToken, ok := carrier.RefreshToken()
	if !ok {
		middleware.WriteError(w, authcore.Unauthenticated("Please log in to access this resource"))
		return
	}

	_, pair, err := api.auth.RefreshSession(r.Context(), carrier, refreshToken)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

func (api *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	principal, _ := authcore.PrincipalFromContext(r.Context())

	id := ""
	if principal != nil {
		id = principal.ID
	}
	if err := api.auth.Logout(r.Context(), api.carrier(w, r), id); err != nil {
		middleware.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Logged out successfully",
	})
}

func (api *API) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, api.auth.Metrics().Snapshot())
}

// activationCode draws a 4-digit one-time code from crypto/rand.
func activationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d", n.Int64()+1000), nil
}
