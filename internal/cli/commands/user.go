package commands

import (
	"fmt"

	"github.com/kutbudev/blog/pkg/models"
	"github.com/kutbudev/blog/pkg/repository"
	"github.com/urfave/cli/v2"
)

// NewUserCommand creates all subcommands for the 'user' command group.
func NewUserCommand() *cli.Command {
	return &cli.Command{
		Name:    "user",
		Aliases: []string{"u"},
		Usage:   "Manage users",
		Subcommands: []*cli.Command{
			userCreateCmd(),
			userListCmd(),
		},
	}
}

func userCreateCmd() *cli.Command {
	return &cli.Command{
		Name:      "create",
		Usage:     "Create a user",
		ArgsUsage: "[username]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Email address"},
			&cli.BoolFlag{Name: "staff", Usage: "Allow the user to author posts"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return fmt.Errorf("username is required")
			}
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			user := &models.User{
				Username: c.Args().First(),
				Email:    c.String("email"),
				IsStaff:  c.Bool("staff"),
			}
			if err := repository.NewUserRepository(db).Create(c.Context, user); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "✅ User '%s' created.\nID: %s\n", user.Username, user.ID)
			return nil
		},
	}
}

func userListCmd() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List users alphabetically",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "staff", Usage: "Only staff users"},
		},
		Action: func(c *cli.Context) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			users, err := repository.NewUserRepository(db).List(c.Context, c.Bool("staff"))
			if err != nil {
				return err
			}

			heading("Users")
			if len(users) == 0 {
				fmt.Fprintln(stdout, "No users found.")
				return nil
			}
			w := newTable()
			fmt.Fprintln(w, "ID\tUSERNAME\tEMAIL\tSTAFF")
			for _, u := range users {
				fmt.Fprintf(w, "%s\t%s\t%s\t%t\n", shortID(u.ID), u.Username, u.Email, u.IsStaff)
			}
			w.Flush()
			return nil
		},
	}
}
