package serve

import (
	"fmt"
	"os"
	"time"

	adapthttp "gatekeeper/internal/adapter/http"
	"gatekeeper/internal/adapter/postgres"
	"gatekeeper/internal/adapter/sqlite"
	"gatekeeper/internal/app"
	"gatekeeper/internal/domain"
	"gatekeeper/internal/httpserver"
	"gatekeeper/internal/logutil"

	"github.com/urfave/cli/v2"
)

// SecretEnvVar is the default environment variable holding the token
// signing secret.
const SecretEnvVar = "GATEKEEPER_SECRET"

// Cmd returns the serve command, which runs the authentication API.
func Cmd() *cli.Command {
	var (
		addr         = ":8080"
		databaseURL  string
		sqlitePath   = "gatekeeper.db"
		secretEnvVar = SecretEnvVar
		tokenTTL     = 30 * time.Minute
	)
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the authentication and session verification API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "Address to bind the HTTP server to",
				EnvVars:     []string{"ADDR"},
				Value:       addr,
				Destination: &addr,
			},
			&cli.StringFlag{
				Name:        "database-url",
				Usage:       "PostgreSQL connection string; when empty, the SQLite store is used",
				EnvVars:     []string{"DATABASE_URL"},
				Destination: &databaseURL,
			},
			&cli.StringFlag{
				Name:        "db",
				Usage:       "Path to the SQLite database file",
				EnvVars:     []string{"GATEKEEPER_DB"},
				Value:       sqlitePath,
				Destination: &sqlitePath,
			},
			&cli.StringFlag{
				Name:        "secret-envvar-name",
				Usage:       "Name of the environment variable that holds the token signing secret. The secret itself should not be passed as an argument",
				Value:       secretEnvVar,
				Destination: &secretEnvVar,
			},
			&cli.DurationFlag{
				Name:        "token-ttl",
				Usage:       "Lifetime of issued session tokens",
				Value:       tokenTTL,
				Destination: &tokenTTL,
			},
		},
		Action: func(c *cli.Context) error {
			secret, err := secretFromEnv(secretEnvVar)
			if err != nil {
				return err
			}

			var store domain.UserRepository
			if databaseURL != "" {
				pg, err := postgres.Open(databaseURL)
				if err != nil {
					return fmt.Errorf("open postgres store: %w", err)
				}
				defer func() { _ = pg.Close() }()
				store = pg
			} else {
				lite, err := sqlite.Open(sqlitePath)
				if err != nil {
					return fmt.Errorf("open sqlite store: %w", err)
				}
				defer func() { _ = lite.Close() }()
				store = lite
			}

			auth := app.NewAuthService(store, app.NewHasher(), app.NewTokenIssuer(secret, tokenTTL))
			srv := adapthttp.New(auth, logutil.GetOrDefault(c.Context))
			return httpserver.Serve(c.Context, addr, srv.Handler())
		},
	}
}

// secretFromEnv reads the signing secret from the named environment variable
// and clears it so child processes cannot observe it.
func secretFromEnv(name string) ([]byte, error) {
	val := os.Getenv(name)
	_ = os.Setenv(name, "")
	if val == "" {
		return nil, fmt.Errorf("environment variable %s must hold the token signing secret", name)
	}
	return []byte(val), nil
}
