package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aussiebroadwan/campus/internal/app"
	"github.com/aussiebroadwan/campus/internal/pages"
	"github.com/aussiebroadwan/campus/pkg/hubsdk"
	"github.com/spf13/cobra"
)

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func (c *cli) meCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Sign in and print the current user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withClient(cmd, func(ctx context.Context, client *app.Client) error {
				if err := signIn(ctx, client); err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), client.Session.User())
			})
		},
	}
}

func (c *cli) newsCmd() *cobra.Command {
	var tag string

	cmd := &cobra.Command{
		Use:   "news [id]",
		Short: "List news posts or show one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withClient(cmd, func(ctx context.Context, client *app.Client) error {
				news := pages.NewNews(client.API)
				if len(args) == 0 {
					list, err := news.List(ctx, tag)
					if err != nil {
						return err
					}
					return printJSON(cmd.OutOrStdout(), list)
				}

				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				n, err := news.Get(ctx, id)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), n)
			})
		},
	}

	cmd.Flags().StringVarP(&tag, "tag", "t", "", "Only list posts with this tag")
	return cmd
}

func (c *cli) hackathonsCmd() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "hackathons",
		Short: "List hackathons",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withClient(cmd, func(ctx context.Context, client *app.Client) error {
				list, err := client.API.ListHackathons(ctx, status)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), list)
			})
		},
	}
	cmd.Flags().StringVarP(&status, "status", "s", "", "Filter by status (upcoming, active, finished)")

	var team string
	apply := &cobra.Command{
		Use:   "apply <id>",
		Short: "Apply to a hackathon with a team",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return c.withClient(cmd, func(ctx context.Context, client *app.Client) error {
				if err := signIn(ctx, client); err != nil {
					return err
				}
				page := pages.NewHackathon(client.API, client.Session)
				if err := page.Load(ctx, id); err != nil {
					return err
				}
				application, err := page.Apply(ctx, team)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), application)
			})
		},
	}
	apply.Flags().StringVar(&team, "team", "", "Team name")
	cmd.AddCommand(apply)

	return cmd
}

func (c *cli) clubsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clubs",
		Short: "List clubs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withClient(cmd, func(ctx context.Context, client *app.Client) error {
				if err := signIn(ctx, client); err != nil {
					return err
				}
				list, err := client.API.ListClubs(ctx)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), list)
			})
		},
	}

	membership := func(use, short string, join bool) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <id>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				return c.withClient(cmd, func(ctx context.Context, client *app.Client) error {
					if err := signIn(ctx, client); err != nil {
						return err
					}
					page := pages.NewClub(client.API, client.Session)
					if err := page.Load(ctx, id); err != nil {
						return err
					}
					if join {
						err = page.Join(ctx)
					} else {
						err = page.Leave(ctx)
					}
					if err != nil {
						return err
					}
					return printJSON(cmd.OutOrStdout(), page.Club())
				})
			},
		}
	}
	cmd.AddCommand(
		membership("join", "Join a club", true),
		membership("leave", "Leave a club", false),
	)

	return cmd
}

func (c *cli) shopCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shop",
		Short: "List shop items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withClient(cmd, func(ctx context.Context, client *app.Client) error {
				if err := signIn(ctx, client); err != nil {
					return err
				}
				shop := pages.NewShop(client.API, client.Session)
				if err := shop.Load(ctx); err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), shop.Items())
			})
		},
	}

	buy := &cobra.Command{
		Use:   "buy <id>",
		Short: "Buy one unit of an item with coins",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return c.withClient(cmd, func(ctx context.Context, client *app.Client) error {
				if err := signIn(ctx, client); err != nil {
					return err
				}
				shop := pages.NewShop(client.API, client.Session)
				if err := shop.Load(ctx); err != nil {
					return err
				}
				p, err := shop.Buy(ctx, id)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), struct {
					Purchase *hubsdk.Purchase `json:"purchase"`
					Coins    int              `json:"coins"`
				}{p, client.Session.User().Coins})
			})
		},
	}
	cmd.AddCommand(buy)

	return cmd
}

func (c *cli) govCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gov",
		Short: "List the student government",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withClient(cmd, func(ctx context.Context, client *app.Client) error {
				if err := signIn(ctx, client); err != nil {
					return err
				}
				list, err := client.API.ListGovMembers(ctx)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), list)
			})
		},
	}
}

func (c *cli) verifySchoolCmd() *cobra.Command {
	var login, password string

	cmd := &cobra.Command{
		Use:   "verify-school",
		Short: "Link a school account to the current user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withClient(cmd, func(ctx context.Context, client *app.Client) error {
				if err := signIn(ctx, client); err != nil {
					return err
				}
				profile := pages.NewProfile(client.API, client.Session)
				if err := profile.VerifySchool(ctx, login, password); err != nil {
					return err
				}
				_, u := profile.View()
				return printJSON(cmd.OutOrStdout(), u)
			})
		},
	}

	cmd.Flags().StringVar(&login, "login", "", "School login")
	cmd.Flags().StringVar(&password, "password", "", "School password")
	_ = cmd.MarkFlagRequired("login")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func (c *cli) checkInCmd() *cobra.Command {
	var (
		event string
		coins int
	)

	cmd := &cobra.Command{
		Use:   "check-in <user-code>",
		Short: "Record attendance for a scanned user (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withClient(cmd, func(ctx context.Context, client *app.Client) error {
				if err := signIn(ctx, client); err != nil {
					return err
				}
				scanner := pages.NewScanner(client.API, client.Session)
				a, err := scanner.CheckInCode(ctx, args[0], event, coins)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), a)
			})
		},
	}

	cmd.Flags().StringVarP(&event, "event", "e", "", "Event name")
	cmd.Flags().IntVar(&coins, "coins", pages.DefaultCheckInCoins, "Coins to award")
	return cmd
}
