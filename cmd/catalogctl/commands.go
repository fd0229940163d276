package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/micca12/Progetto-IW/pkg/client"
)

func idArg(c *cli.Command) (uint, error) {
	raw := c.Args().First()
	if raw == "" {
		return 0, errors.New("missing product id")
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("invalid product id %q", raw)
	}
	return uint(n), nil
}

func table() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}

func printProducts(products []client.Product) {
	w := table()
	fmt.Fprintln(w, "ID\tNOME\tMARCA\tCOLORI")
	for _, p := range products {
		brand := ""
		if p.Brand != nil {
			brand = p.Brand.Name
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", p.ID, p.Name, brand, len(p.Colors))
	}
	w.Flush()
}

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:      "login",
		Usage:     "Log in and store the token",
		ArgsUsage: "<email>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Sources: cli.EnvVars("CATALOG_PASSWORD"), Required: true},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			app, err := newApp(c)
			if err != nil {
				return err
			}
			if err := app.Auth.Login(ctx, c.Args().First(), c.String("password")); err != nil {
				return errors.New(app.Auth.Err())
			}
			u := app.Auth.User()
			fmt.Printf("logged in as %s (%s)\n", u.Email, u.Role)
			return nil
		},
	}
}

func logoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "Forget the stored token",
		Action: func(ctx context.Context, c *cli.Command) error {
			app, err := newApp(c)
			if err != nil {
				return err
			}
			return app.Logout()
		},
	}
}

func whoamiCommand() *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "Show the logged in account",
		Action: func(ctx context.Context, c *cli.Command) error {
			app, err := newApp(c)
			if err != nil {
				return err
			}
			if !app.Auth.IsAuthenticated() {
				return errors.New("not logged in")
			}
			if err := app.Auth.FetchCurrentUser(ctx); err != nil {
				return fmt.Errorf("session expired: %s", client.ErrorMessage(err, ""))
			}
			u := app.Auth.User()
			fmt.Printf("%d %s %s <%s> %s", u.ID, u.FirstName, u.LastName, u.Email, u.Role)
			if u.BrandName != "" {
				fmt.Printf(" [%s]", u.BrandName)
			}
			fmt.Println()
			return nil
		},
	}
}

func productsCommand() *cli.Command {
	return &cli.Command{
		Name:  "products",
		Usage: "List catalog products",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "ambiente"},
			&cli.StringFlag{Name: "materiale"},
			&cli.StringFlag{Name: "marca"},
			&cli.IntFlag{Name: "page", Value: 1},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			app, err := newApp(c)
			if err != nil {
				return err
			}
			if err := app.Catalog.Init(ctx); err != nil {
				return errors.New(app.Catalog.Err())
			}
			f := client.Filters{
				Environment: c.String("ambiente"),
				Material:    c.String("materiale"),
				Brand:       c.String("marca"),
			}
			if err := app.Catalog.FetchProducts(ctx, f, int(c.Int("page"))); err != nil {
				return errors.New(app.Catalog.Err())
			}
			printProducts(app.Catalog.Products())
			pg := app.Catalog.Pagination()
			fmt.Printf("page %d/%d, %d products\n", pg.Page, pg.TotalPages, pg.Total)
			return nil
		},
	}
}

func productCommand() *cli.Command {
	return &cli.Command{
		Name:      "product",
		Usage:     "Show one product with colors and prices",
		ArgsUsage: "<id>",
		Action: func(ctx context.Context, c *cli.Command) error {
			id, err := idArg(c)
			if err != nil {
				return err
			}
			app, err := newApp(c)
			if err != nil {
				return err
			}
			p, err := app.Catalog.FetchDetail(ctx, id, false)
			if err != nil {
				return errors.New(app.Catalog.Err())
			}
			fmt.Printf("%d %s\n", p.ID, p.Name)
			if p.Description != nil {
				fmt.Println(*p.Description)
			}
			w := table()
			for _, col := range p.Colors {
				for _, pr := range col.Prices {
					liters := ""
					if pr.Dimension != nil {
						liters = pr.Dimension.Liters.String() + " L"
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", col.Name, col.HexCode, liters, pr.Amount.StringFixed(2))
				}
			}
			return w.Flush()
		},
	}
}

func trendingCommand() *cli.Command {
	return &cli.Command{
		Name:  "trending",
		Usage: "Most favorited products",
		Action: func(ctx context.Context, c *cli.Command) error {
			app, err := newApp(c)
			if err != nil {
				return err
			}
			items, err := app.Catalog.FetchTrending(ctx)
			if err != nil {
				return errors.New(app.Catalog.Err())
			}
			w := table()
			fmt.Fprintln(w, "ID\tNOME\tPREFERITI")
			for _, it := range items {
				fmt.Fprintf(w, "%d\t%s\t%d\n", it.ID, it.Name, it.FavoritesCount)
			}
			return w.Flush()
		},
	}
}

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Full text product search",
		ArgsUsage: "<text>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "page", Value: 1},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			app, err := newApp(c)
			if err != nil {
				return err
			}
			res, err := app.Catalog.Search(ctx, c.Args().First(), int(c.Int("page")))
			if err != nil {
				return errors.New(app.Catalog.Err())
			}
			printProducts(res.Data)
			fmt.Printf("%d results\n", res.Pagination.Total)
			return nil
		},
	}
}

func favoritesCommand() *cli.Command {
	return &cli.Command{
		Name:  "favorites",
		Usage: "Manage your favorites",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List favorites",
				Action: func(ctx context.Context, c *cli.Command) error {
					app, err := newApp(c)
					if err != nil {
						return err
					}
					if err := app.Favorites.Fetch(ctx); err != nil {
						return errors.New(app.Favorites.Err())
					}
					if !app.Auth.IsAuthenticated() {
						return errors.New("not logged in")
					}
					w := table()
					fmt.Fprintln(w, "PRODOTTO\tNOME\tAGGIUNTO")
					for _, f := range app.Favorites.Favorites() {
						name := ""
						if f.Product != nil {
							name = f.Product.Name
						}
						fmt.Fprintf(w, "%d\t%s\t%s\n", f.ProductID, name, f.AddedAt.Format("2006-01-02"))
					}
					return w.Flush()
				},
			},
			{
				Name:      "toggle",
				Usage:     "Add or remove a product",
				ArgsUsage: "<product id>",
				Action: func(ctx context.Context, c *cli.Command) error {
					id, err := idArg(c)
					if err != nil {
						return err
					}
					app, err := newApp(c)
					if err != nil {
						return err
					}
					if err := app.Favorites.Fetch(ctx); err != nil {
						return errors.New(app.Favorites.Err())
					}
					on, err := app.Favorites.Toggle(ctx, id)
					if err != nil {
						return errors.New(app.Favorites.Err())
					}
					if on {
						fmt.Println("added")
					} else {
						fmt.Println("removed")
					}
					return nil
				},
			},
		},
	}
}

func brandCommand() *cli.Command {
	return &cli.Command{
		Name:  "brand",
		Usage: "Manage the products of your brand",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List your products",
				Action: func(ctx context.Context, c *cli.Command) error {
					app, err := newApp(c)
					if err != nil {
						return err
					}
					if err := app.Brand.Fetch(ctx); err != nil {
						return errors.New(app.Brand.Err())
					}
					printProducts(app.Brand.Products())
					return nil
				},
			},
			{
				Name:      "create",
				Usage:     "Create an empty product",
				ArgsUsage: "<name>",
				Action: func(ctx context.Context, c *cli.Command) error {
					app, err := newApp(c)
					if err != nil {
						return err
					}
					id, err := app.Brand.Create(ctx, c.Args().First())
					if errors.Is(err, client.ErrEmptyName) {
						return err
					}
					if err != nil {
						return errors.New(app.Brand.Err())
					}
					fmt.Println(id)
					return nil
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete a product",
				ArgsUsage: "<product id>",
				Action: func(ctx context.Context, c *cli.Command) error {
					id, err := idArg(c)
					if err != nil {
						return err
					}
					app, err := newApp(c)
					if err != nil {
						return err
					}
					if err := app.Brand.Delete(ctx, id); err != nil {
						return errors.New(app.Brand.Err())
					}
					return nil
				},
			},
		},
	}
}

func themeCommand() *cli.Command {
	return &cli.Command{
		Name:      "theme",
		Usage:     "Show or set the color theme",
		ArgsUsage: "[dark|light|toggle]",
		Action: func(ctx context.Context, c *cli.Command) error {
			sess, err := client.OpenSession(c.String("session"))
			if err != nil {
				return err
			}
			switch arg := c.Args().First(); arg {
			case "":
			case client.ThemeDark, client.ThemeLight:
				if err := sess.SetDark(arg == client.ThemeDark); err != nil {
					return err
				}
			case "toggle":
				if _, err := sess.ToggleTheme(); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown theme %q", arg)
			}
			fmt.Println(sess.Theme())
			return nil
		},
	}
}
