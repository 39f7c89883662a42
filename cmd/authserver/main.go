// Command authserver runs the authentication API against Redis. User
// documents live in the in-memory directory here; production deployments
// plug their document store into httpapi.New instead.
package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	authcore "github.com/lumenlms/authcore"
	"github.com/lumenlms/authcore/directory"
	"github.com/lumenlms/authcore/httpapi"
)

type envConfig struct {
	Addr          string `env:"AUTH_ADDR" env-default:":8080"`
	RedisAddr     string `env:"REDIS_ADDR" env-default:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	AccessSecret     string `env:"ACCESS_TOKEN_SECRET" env-required:"true"`
	RefreshSecret    string `env:"REFRESH_TOKEN_SECRET" env-required:"true"`
	ActivationSecret string `env:"ACTIVATION_TOKEN_SECRET" env-required:"true"`

	AccessTTL  time.Duration `env:"ACCESS_TOKEN_TTL" env-default:"15m"`
	RefreshTTL time.Duration `env:"REFRESH_TOKEN_TTL" env-default:"168h"`

	// Production toggles Secure plus SameSite=None on the credential
	// cookies for cross-site clients.
	Production bool `env:"PRODUCTION" env-default:"false"`
}

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Str("service", "authserver").Logger()

	var env envConfig
	if err := cleanenv.ReadEnv(&env); err != nil {
		log.Fatal().Err(err).Msg("configuration")
	}

	cfg := authcore.Config{
		Token: authcore.TokenConfig{
			AccessSecret:     []byte(env.AccessSecret),
			RefreshSecret:    []byte(env.RefreshSecret),
			ActivationSecret: []byte(env.ActivationSecret),
			AccessTTL:        env.AccessTTL,
			RefreshTTL:       env.RefreshTTL,
		},
	}
	if env.Production {
		cfg.Cookie.Secure = true
		cfg.Cookie.SameSite = http.SameSiteNoneMode
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     env.RedisAddr,
		Password: env.RedisPassword,
	})
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Fatal().Err(err).Str("addr", env.RedisAddr).Msg("redis unreachable")
	}

	auth, err := authcore.New(cfg, rdb)
	if err != nil {
		log.Fatal().Err(err).Msg("authenticator")
	}

	api := httpapi.New(auth, directory.NewMemory(), httpapi.LogMailer{Log: log}, log)

	srv := &http.Server{
		Addr:              env.Addr,
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Info().Str("addr", env.Addr).Msg("listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server")
	}
}
