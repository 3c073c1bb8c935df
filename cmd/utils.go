package cmd

import (
	"context"
	"fmt"

	"github.com/offerdeck/offerdeck/pkg/client"
	"github.com/offerdeck/offerdeck/pkg/config"
	"github.com/offerdeck/offerdeck/pkg/log"
	"github.com/offerdeck/offerdeck/pkg/offers"
	"github.com/offerdeck/offerdeck/pkg/session"
	"github.com/urfave/cli/v3"
)

// appContext bundles everything a command needs to talk to the service.
type appContext struct {
	cfg     *config.Config
	session *session.Session
	client  *client.Client
	user    *offers.User
}

// setupApp loads config, reads the credential and resolves the caller's
// identity. Every command that talks to the service starts here.
func setupApp(ctx context.Context, c *cli.Command) (*appContext, error) {
	if c.Bool("debug") {
		log.SetGlobalDebug(true)
	}

	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	sess, err := session.Load(cfg.TokenFile)
	if err != nil {
		return nil, err
	}

	cl := client.New(cfg.APIBaseURL, client.Options{
		Tokens:  sess,
		Timeout: cfg.RequestTimeout.Duration,
	})

	user, err := sess.Identify(ctx, cl)
	if err != nil {
		return nil, err
	}

	return &appContext{cfg: cfg, session: sess, client: cl, user: user}, nil
}

// offersPath resolves the listing endpoint for the caller's role.
func (a *appContext) offersPath() string {
	return a.cfg.PathForRole(string(a.user.Role))
}
