package cmd

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/offerdeck/offerdeck/pkg/client"
	"github.com/offerdeck/offerdeck/pkg/offers"
)

// OfferCommand creates the offer command with its mutation subcommands
func OfferCommand() *cli.Command {
	return &cli.Command{
		Name:  "offer",
		Usage: "Create and act on offers",
		Commands: []*cli.Command{
			offerShowCommand(),
			offerCreateCommand(),
			offerActionCommand("accept", "Accept an offer", func(ctx context.Context, cl *client.Client, id string) error {
				return cl.AcceptOffer(ctx, id)
			}, "Failed to accept offer"),
			offerActionCommand("reject", "Reject an offer", func(ctx context.Context, cl *client.Client, id string) error {
				return cl.RejectOffer(ctx, id)
			}, "Failed to reject offer"),
			offerActionCommand("sign", "E-sign an offer", func(ctx context.Context, cl *client.Client, id string) error {
				return cl.ESignOffer(ctx, id)
			}, "Failed to sign offer"),
		},
	}
}

func offerShowCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show the details of one offer",
		ArgsUsage: "<offer-id>",
		Action: func(ctx context.Context, c *cli.Command) error {
			id := c.Args().First()
			if id == "" {
				return fmt.Errorf("offer id is required")
			}
			app, err := setupApp(ctx, c)
			if err != nil {
				return err
			}

			// The service has no single-offer lookup; walk the listing.
			offer, err := findOffer(ctx, app, id)
			if err != nil {
				return err
			}
			printOffer(*offer)
			return nil
		},
	}
}

func findOffer(ctx context.Context, app *appContext, id string) (*offers.Offer, error) {
	path := app.offersPath()
	query := url.Values{"limit": {strconv.Itoa(app.cfg.PageSize)}}
	for page := 1; ; page++ {
		query.Set("page", strconv.Itoa(page))
		result, err := app.client.ListOffers(ctx, path, query)
		if err != nil {
			return nil, fmt.Errorf("%s", client.ServerMessage(err, "Failed to load offers"))
		}
		for _, o := range result.Rows {
			if o.ID == id {
				return &o, nil
			}
		}
		if !result.Meta.HasNextPage {
			return nil, fmt.Errorf("offer %s not found", id)
		}
	}
}

func printOffer(o offers.Offer) {
	sign := func(on bool) string {
		if on {
			return "signed"
		}
		return "not signed"
	}
	rows := [][2]string{
		{"ID", o.ID},
		{"Name", o.Name},
		{"Position", o.Position},
		{"Salary", o.Salary},
		{"Status", string(o.Status)},
		{"Recruiter", fmt.Sprintf("%s <%s>", o.Recruiter.FullName(), o.Recruiter.Email)},
		{"Candidate", fmt.Sprintf("%s <%s>", o.Candidate.FullName(), o.Candidate.Email)},
		{"Signatures", fmt.Sprintf("recruiter %s, candidate %s", sign(o.ESignByRecruiter), sign(o.ESignByCandidate))},
	}
	if o.CreatedAt != nil {
		rows = append(rows, [2]string{"Created", o.CreatedAt.Local().Format("Jan 2, 2006 15:04")})
	}
	for _, row := range rows {
		fmt.Printf("%s %s\n", listHeaderStyle.Render(fmt.Sprintf("%-11s", row[0])), row[1])
	}
}

func offerCreateCommand() *cli.Command {
	return &cli.Command{
		Name:  "create",
		Usage: "Create a new offer",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "name",
				Usage:    "Offer name",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "position",
				Usage:    "Position the offer is for",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "salary",
				Usage:    "Salary",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "candidate-first-name",
				Usage:    "Candidate first name",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "candidate-last-name",
				Usage: "Candidate last name",
			},
			&cli.StringFlag{
				Name:     "candidate-email",
				Usage:    "Candidate email",
				Required: true,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			in := offers.CreateOffer{
				Name:     c.String("name"),
				Position: c.String("position"),
				Salary:   c.String("salary"),
				Candidate: offers.Party{
					FirstName: c.String("candidate-first-name"),
					LastName:  c.String("candidate-last-name"),
					Email:     c.String("candidate-email"),
				},
			}
			if errs := in.Validate(); len(errs) > 0 {
				fields := make([]string, 0, len(errs))
				for field := range errs {
					fields = append(fields, field)
				}
				sort.Strings(fields)
				for _, field := range fields {
					fmt.Printf("%s: %s\n", field, errs[field])
				}
				return fmt.Errorf("invalid offer input")
			}

			app, err := setupApp(ctx, c)
			if err != nil {
				return err
			}
			if app.user.Role != offers.RoleRecruiter {
				return fmt.Errorf("only recruiters can create offers")
			}
			if err := app.client.CreateOffer(ctx, in); err != nil {
				return fmt.Errorf("%s", client.ServerMessage(err, "Failed to create offer"))
			}
			fmt.Printf("Offer %q created\n", in.Name)
			return nil
		},
	}
}

func offerActionCommand(name, usage string, action func(context.Context, *client.Client, string) error, fallback string) *cli.Command {
	return &cli.Command{
		Name:      name,
		Usage:     usage,
		ArgsUsage: "<offer-id>",
		Action: func(ctx context.Context, c *cli.Command) error {
			id := c.Args().First()
			if id == "" {
				return fmt.Errorf("offer id is required")
			}
			app, err := setupApp(ctx, c)
			if err != nil {
				return err
			}
			if err := action(ctx, app.client, id); err != nil {
				return fmt.Errorf("%s", client.ServerMessage(err, fallback))
			}
			fmt.Printf("Offer %s: %s acknowledged by the service\n", id, name)
			return nil
		},
	}
}
