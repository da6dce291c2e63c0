// Command marinad runs the marina resource API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/marinadb/marina/bolt"
	"github.com/marinadb/marina/harbor"
	"github.com/marinadb/marina/jsonweb"
	"github.com/marinadb/marina/logger"
	"github.com/marinadb/marina/rand"
	"github.com/marinadb/marina/session"
)

func main() {
	if err := newCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type options struct {
	boltPath        string
	httpBindAddress string

	jwtKeyID  string
	jwtSecret string

	oauthClientID     string
	oauthClientSecret string
	oauthRedirectURL  string
	oauthAuthURL      string
	oauthTokenURL     string
	oauthUserInfoURL  string
}

func newCommand() *cobra.Command {
	o := &options{}

	cmd := &cobra.Command{
		Use:   "marinad",
		Short: "marina resource API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(o)
		},
	}

	v := viper.New()
	v.SetEnvPrefix("MARINAD")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	flags := cmd.Flags()
	flags.StringVar(&o.boltPath, "bolt-path", "marinad.bolt", "path to the boltdb file")
	flags.StringVar(&o.httpBindAddress, "http-bind-address", ":8080", "address to listen on")
	flags.StringVar(&o.jwtKeyID, "jwt-key-id", "default", "identifier of the bearer token signing key")
	flags.StringVar(&o.jwtSecret, "jwt-secret", "", "bearer token signing key")
	flags.StringVar(&o.oauthClientID, "oauth-client-id", "", "oauth client id")
	flags.StringVar(&o.oauthClientSecret, "oauth-client-secret", "", "oauth client secret")
	flags.StringVar(&o.oauthRedirectURL, "oauth-redirect-url", "http://localhost:8080/oauth", "oauth callback url")
	flags.StringVar(&o.oauthAuthURL, "oauth-auth-url", "https://accounts.google.com/o/oauth2/auth", "provider authorization endpoint")
	flags.StringVar(&o.oauthTokenURL, "oauth-token-url", "https://oauth2.googleapis.com/token", "provider token endpoint")
	flags.StringVar(&o.oauthUserInfoURL, "oauth-userinfo-url", "https://openidconnect.googleapis.com/v1/userinfo", "provider profile endpoint")

	bindFlags(v, cmd)

	return cmd
}

// bindFlags lets MARINAD_* environment variables stand in for any flag
// not set on the command line.
func bindFlags(v *viper.Viper, cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if err := v.BindPFlag(f.Name, f); err != nil {
			return
		}
		if !f.Changed && v.IsSet(f.Name) {
			_ = cmd.Flags().Set(f.Name, v.GetString(f.Name))
		}
	})
}

func run(o *options) error {
	log := logger.New(os.Stdout)
	defer func() { _ = log.Sync() }()

	if o.jwtSecret == "" {
		return fmt.Errorf("a bearer token signing key is required, set MARINAD_JWT_SECRET")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	store := bolt.NewKVStore(o.boltPath)
	store.WithLogger(log.With(zap.String("service", "bolt")))
	if err := store.Open(ctx); err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	svc := harbor.NewService(log.With(zap.String("service", "harbor")), harbor.NewStore(store))

	keyStore := jsonweb.KeyStoreFunc(func(kid string) ([]byte, error) {
		if kid != o.jwtKeyID {
			return nil, jsonweb.ErrKeyNotFound
		}
		return []byte(o.jwtSecret), nil
	})
	parser := jsonweb.NewTokenParser(keyStore)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	sessionHandler := session.NewHTTPHandler(
		log.With(zap.String("service", "session")),
		svc,
		session.NewStore(store),
		rand.NewTokenGenerator(32),
		session.Config{
			OAuth: &oauth2.Config{
				ClientID:     o.oauthClientID,
				ClientSecret: o.oauthClientSecret,
				RedirectURL:  o.oauthRedirectURL,
				Scopes:       []string{"openid", "profile"},
				Endpoint: oauth2.Endpoint{
					AuthURL:  o.oauthAuthURL,
					TokenURL: o.oauthTokenURL,
				},
			},
			UserInfoURL:   o.oauthUserInfoURL,
			TokenKeyID:    o.jwtKeyID,
			TokenKey:      []byte(o.jwtSecret),
			TokenDuration: time.Hour,
		},
	)

	r := chi.NewRouter()
	r.Get("/login", sessionHandler.ServeHTTP)
	r.Get("/oauth", sessionHandler.ServeHTTP)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	r.Mount("/", harbor.NewHTTPHandler(log, svc, parser, reg))

	srv := &http.Server{
		Addr:    o.httpBindAddress,
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Listening", zap.String("addr", o.httpBindAddress))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
