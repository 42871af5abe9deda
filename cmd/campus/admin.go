package main

import (
	"context"
	"fmt"
	"time"

	"github.com/aussiebroadwan/campus/internal/app"
	"github.com/aussiebroadwan/campus/internal/pages"
	"github.com/aussiebroadwan/campus/pkg/hubsdk"
	"github.com/spf13/cobra"
)

func (c *cli) adminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage news, clubs, hackathons, the shop and the student government (admin)",
	}
	cmd.AddCommand(
		c.adminNewsCmd(),
		c.adminClubsCmd(),
		c.adminHackathonsCmd(),
		c.adminShopCmd(),
		c.adminGovCmd(),
	)
	return cmd
}

// adminRun signs in, runs fn and prints what it returns. A nil result prints
// nothing.
func (c *cli) adminRun(cmd *cobra.Command, fn func(ctx context.Context, client *app.Client) (any, error)) error {
	return c.withClient(cmd, func(ctx context.Context, client *app.Client) error {
		if err := signIn(ctx, client); err != nil {
			return err
		}
		v, err := fn(ctx, client)
		if err != nil || v == nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), v)
	})
}

// deleteCmd builds "delete <id>" around del.
func (c *cli) deleteCmd(short string, del func(ctx context.Context, client *app.Client, id int64) error) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return c.adminRun(cmd, func(ctx context.Context, client *app.Client) (any, error) {
				return nil, del(ctx, client, id)
			})
		},
	}
}

func (c *cli) adminNewsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "news",
		Short: "List every news post",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.adminRun(cmd, func(ctx context.Context, client *app.Client) (any, error) {
				news := pages.NewNewsAdmin(client.API, client.Session)
				if err := news.Load(ctx); err != nil {
					return nil, err
				}
				return news.Articles(), nil
			})
		},
	}

	var in hubsdk.NewsInput
	create := &cobra.Command{
		Use:   "create",
		Short: "Publish a news post",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.adminRun(cmd, func(ctx context.Context, client *app.Client) (any, error) {
				return pages.NewNewsAdmin(client.API, client.Session).Create(ctx, in)
			})
		},
	}
	newsFlags(create, &in)

	var edit hubsdk.NewsInput
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace a news post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return c.adminRun(cmd, func(ctx context.Context, client *app.Client) (any, error) {
				return pages.NewNewsAdmin(client.API, client.Session).Update(ctx, id, edit)
			})
		},
	}
	newsFlags(update, &edit)

	cmd.AddCommand(create, update, c.deleteCmd("Delete a news post", func(ctx context.Context, client *app.Client, id int64) error {
		return pages.NewNewsAdmin(client.API, client.Session).Delete(ctx, id)
	}))
	return cmd
}

func newsFlags(cmd *cobra.Command, in *hubsdk.NewsInput) {
	cmd.Flags().StringVar(&in.Title, "title", "", "Headline")
	cmd.Flags().StringVar(&in.Content, "content", "", "Body text")
	cmd.Flags().StringVar(&in.Tag, "tag", "", "Tag (the server defaults to general)")
	cmd.Flags().StringVar(&in.ImageURL, "image-url", "", "Cover image")
}

func (c *cli) adminClubsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clubs",
		Short: "List clubs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.adminRun(cmd, func(ctx context.Context, client *app.Client) (any, error) {
				clubs := pages.NewClubAdmin(client.API, client.Session)
				if err := clubs.Load(ctx); err != nil {
					return nil, err
				}
				return clubs.Clubs(), nil
			})
		},
	}

	var in hubsdk.ClubInput
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a club",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.adminRun(cmd, func(ctx context.Context, client *app.Client) (any, error) {
				return pages.NewClubAdmin(client.API, client.Session).Create(ctx, in)
			})
		},
	}
	create.Flags().StringVar(&in.Name, "name", "", "Club name")
	create.Flags().StringVar(&in.Description, "description", "", "What the club does")
	create.Flags().StringVar(&in.Schedule, "schedule", "", "When it meets")
	create.Flags().StringVar(&in.ImageURL, "image-url", "", "Cover image")

	cmd.AddCommand(create, c.deleteCmd("Delete a club", func(ctx context.Context, client *app.Client, id int64) error {
		return pages.NewClubAdmin(client.API, client.Session).Delete(ctx, id)
	}))
	return cmd
}

func (c *cli) adminHackathonsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hackathons",
		Short: "List hackathons of every status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.adminRun(cmd, func(ctx context.Context, client *app.Client) (any, error) {
				hacks := pages.NewHackathonAdmin(client.API, client.Session)
				if err := hacks.Load(ctx); err != nil {
					return nil, err
				}
				return hacks.Hackathons(), nil
			})
		},
	}

	var (
		in         hubsdk.HackathonInput
		start, end string
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a hackathon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if in.StartDate, err = parseDate(start); err != nil {
				return fmt.Errorf("--start: %w", err)
			}
			if in.EndDate, err = parseDate(end); err != nil {
				return fmt.Errorf("--end: %w", err)
			}
			return c.adminRun(cmd, func(ctx context.Context, client *app.Client) (any, error) {
				return pages.NewHackathonAdmin(client.API, client.Session).Create(ctx, in)
			})
		},
	}
	create.Flags().StringVar(&in.Title, "title", "", "Title")
	create.Flags().StringVar(&in.Description, "description", "", "Description")
	create.Flags().StringVar(&in.Status, "status", "", "upcoming, active or finished (default upcoming)")
	create.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD or RFC 3339)")
	create.Flags().StringVar(&end, "end", "", "End date (YYYY-MM-DD or RFC 3339)")

	applications := &cobra.Command{
		Use:   "applications <id>",
		Short: "List the teams that applied to a hackathon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return c.adminRun(cmd, func(ctx context.Context, client *app.Client) (any, error) {
				return pages.NewHackathonAdmin(client.API, client.Session).Applications(ctx, id)
			})
		},
	}

	cmd.AddCommand(create, applications, c.deleteCmd("Delete a hackathon", func(ctx context.Context, client *app.Client, id int64) error {
		return pages.NewHackathonAdmin(client.API, client.Session).Delete(ctx, id)
	}))
	return cmd
}

// parseDate accepts a calendar date or a full RFC 3339 timestamp. An empty
// string gives the zero time, which Create then rejects.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func (c *cli) adminShopCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shop",
		Short: "List shop items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.adminRun(cmd, func(ctx context.Context, client *app.Client) (any, error) {
				shop := pages.NewShopAdmin(client.API, client.Session)
				if err := shop.Load(ctx); err != nil {
					return nil, err
				}
				return shop.Items(), nil
			})
		},
	}

	var in hubsdk.ShopItemInput
	create := &cobra.Command{
		Use:   "create",
		Short: "Add an item to the shop",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.adminRun(cmd, func(ctx context.Context, client *app.Client) (any, error) {
				return pages.NewShopAdmin(client.API, client.Session).Create(ctx, in)
			})
		},
	}
	create.Flags().StringVar(&in.Name, "name", "", "Item name")
	create.Flags().StringVar(&in.Description, "description", "", "Description")
	create.Flags().StringVar(&in.ImageURL, "image-url", "", "Picture")
	create.Flags().IntVar(&in.PriceCoins, "price", 0, "Price in coins")
	create.Flags().IntVar(&in.Stock, "stock", hubsdk.UnlimitedStock, "Units available (negative = unlimited)")

	cmd.AddCommand(create, c.deleteCmd("Remove an item from the shop", func(ctx context.Context, client *app.Client, id int64) error {
		return pages.NewShopAdmin(client.API, client.Session).Delete(ctx, id)
	}))
	return cmd
}

func (c *cli) adminGovCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gov",
		Short: "List the student government",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.adminRun(cmd, func(ctx context.Context, client *app.Client) (any, error) {
				gov := pages.NewGovAdmin(client.API, client.Session)
				if err := gov.Load(ctx); err != nil {
					return nil, err
				}
				return gov.Members(), nil
			})
		},
	}

	var in hubsdk.GovMemberInput
	create := &cobra.Command{
		Use:   "create",
		Short: "Add a student government member",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.adminRun(cmd, func(ctx context.Context, client *app.Client) (any, error) {
				return pages.NewGovAdmin(client.API, client.Session).Create(ctx, in)
			})
		},
	}
	create.Flags().StringVar(&in.Name, "name", "", "Full name")
	create.Flags().StringVar(&in.RoleTitle, "role-title", "", "Position held")
	create.Flags().StringVar(&in.PhotoURL, "photo-url", "", "Portrait")
	create.Flags().StringVar(&in.ContactURL, "contact-url", "", "Contact link")
	create.Flags().IntVar(&in.DisplayOrder, "order", 0, "Position in the list")

	cmd.AddCommand(create, c.deleteCmd("Remove a student government member", func(ctx context.Context, client *app.Client, id int64) error {
		return pages.NewGovAdmin(client.API, client.Session).Delete(ctx, id)
	}))
	return cmd
}
