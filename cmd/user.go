package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/offerdeck/offerdeck/pkg/client"
)

// UserCommand creates the user command for account and permission
// administration. The server decides who may perform these operations.
func UserCommand() *cli.Command {
	return &cli.Command{
		Name:  "user",
		Usage: "Manage users and their permissions",
		Commands: []*cli.Command{
			userListCommand(),
			userSetPermissionsCommand(),
			userAddPermissionCommand(),
		},
	}
}

func userListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List the emails of every known user",
		Action: func(ctx context.Context, c *cli.Command) error {
			app, err := setupApp(ctx, c)
			if err != nil {
				return err
			}
			emails, err := app.client.ListUserEmails(ctx)
			if err != nil {
				return fmt.Errorf("%s", client.ServerMessage(err, "Failed to fetch users"))
			}
			if len(emails) == 0 {
				fmt.Println(listMetaStyle.Render("No users found"))
				return nil
			}
			for _, email := range emails {
				fmt.Println(email)
			}
			return nil
		},
	}
}

func userSetPermissionsCommand() *cli.Command {
	return &cli.Command{
		Name:      "set-permissions",
		Usage:     "Replace a user's permission set",
		ArgsUsage: "<email>",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "permission",
				Aliases: []string{"p"},
				Usage:   "Permission to grant (repeatable); none clears the set",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			email := c.Args().First()
			if email == "" {
				return fmt.Errorf("user email is required")
			}
			app, err := setupApp(ctx, c)
			if err != nil {
				return err
			}
			permissions := c.StringSlice("permission")
			if err := app.client.UpdatePermissions(ctx, email, permissions); err != nil {
				return fmt.Errorf("%s", client.ServerMessage(err, "Failed to update permission"))
			}
			if len(permissions) == 0 {
				fmt.Printf("Cleared permissions for %s\n", email)
			} else {
				fmt.Printf("Updated permissions for %s (%d granted)\n", email, len(permissions))
			}
			return nil
		},
	}
}

func userAddPermissionCommand() *cli.Command {
	return &cli.Command{
		Name:      "add-permission",
		Usage:     "Register a new named permission",
		ArgsUsage: "<name>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "description",
				Usage: "What the permission allows",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			name := c.Args().First()
			if name == "" {
				return fmt.Errorf("permission name is required")
			}
			app, err := setupApp(ctx, c)
			if err != nil {
				return err
			}
			if err := app.client.AddPermission(ctx, name, c.String("description")); err != nil {
				return fmt.Errorf("%s", client.ServerMessage(err, "Failed to create permission"))
			}
			fmt.Printf("Permission %q created\n", name)
			return nil
		},
	}
}
