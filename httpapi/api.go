package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	authcore "github.com/lumenlms/authcore"
	"github.com/lumenlms/authcore/directory"
	"github.com/lumenlms/authcore/middleware"
)

// API bundles the authenticator with its external collaborators: the
// principal directory and the outbound mailer.
type API struct {
	auth   *authcore.Authenticator
	users  directory.Directory
	mailer Mailer
	log    zerolog.Logger
}

// New wires the HTTP surface. All dependencies are required; pass
// [NopMailer] when activation mail delivery is handled elsewhere.
func New(auth *authcore.Authenticator, users directory.Directory, mailer Mailer, log zerolog.Logger) *API {
	return &API{auth: auth, users: users, mailer: mailer, log: log}
}

// Router builds the versioned route table. Authenticated routes chain the
// middleware guards; /metrics additionally requires the admin role.
func (api *API) Router() *mux.Router {
	r := mux.NewRouter()
	v1 := r.PathPrefix("/api/v1").Subrouter()

	v1.HandleFunc("/registration", api.handleRegistration).Methods(http.MethodPost)
	v1.HandleFunc("/activate-user", api.handleActivateUser).Methods(http.MethodPost)
	v1.HandleFunc("/login", api.handleLogin).Methods(http.MethodPost)
	v1.HandleFunc("/social-auth", api.handleSocialAuth).Methods(http.MethodPost)
	v1.HandleFunc("/refresh", api.handleRefresh).Methods(http.MethodGet)

	authed := v1.NewRoute().Subrouter()
	authed.Use(middleware.IsAuthenticated(api.auth))
	authed.HandleFunc("/logout", api.handleLogout).Methods(http.MethodGet)
	authed.HandleFunc("/me", api.handleMe).Methods(http.MethodGet)
	authed.HandleFunc("/update-user-info", api.handleUpdateUserInfo).Methods(http.MethodPut)
	authed.HandleFunc("/update-user-password", api.handleUpdatePassword).Methods(http.MethodPut)

	admin := v1.NewRoute().Subrouter()
	admin.Use(middleware.IsAuthenticated(api.auth), middleware.AuthorizeRoles("admin"))
	admin.HandleFunc("/metrics", api.handleMetrics).Methods(http.MethodGet)

	return r
}

func (api *API) carrier(w http.ResponseWriter, r *http.Request) *middleware.Cookies {
	return middleware.NewCookies(w, r, api.auth.Config().Cookie)
}
