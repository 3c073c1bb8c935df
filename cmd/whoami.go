package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"
)

// WhoamiCommand creates the whoami command
func WhoamiCommand() *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "Show the identity behind the configured credential",
		Action: func(ctx context.Context, c *cli.Command) error {
			app, err := setupApp(ctx, c)
			if err != nil {
				return err
			}

			u := app.user
			fmt.Printf("%s %s <%s>\n", u.FirstName, u.LastName, u.Email)
			fmt.Printf("Role: %s\n", u.Role)
			if len(u.Permissions) > 0 {
				fmt.Printf("Permissions: %s\n", strings.Join(u.Permissions, ", "))
			}
			return nil
		},
	}
}
