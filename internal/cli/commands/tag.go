package commands

import (
	"fmt"

	"github.com/kutbudev/blog/pkg/models"
	"github.com/kutbudev/blog/pkg/repository"
	"github.com/urfave/cli/v2"
)

// NewTagCommand creates all subcommands for the 'tag' command group.
func NewTagCommand() *cli.Command {
	return &cli.Command{
		Name:    "tag",
		Aliases: []string{"t"},
		Usage:   "Manage tags",
		Subcommands: []*cli.Command{
			tagListCmd(),
			tagPopularCmd(),
			tagCreateCmd(),
			tagDeleteCmd(),
		},
	}
}

func tagListCmd() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List tags alphabetically",
		Action: func(c *cli.Context) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			tags, err := repository.NewTagRepository(db).List(c.Context)
			if err != nil {
				return err
			}
			heading("Tags")
			printTags(tags)
			return nil
		},
	}
}

func tagPopularCmd() *cli.Command {
	return &cli.Command{
		Name:  "popular",
		Usage: "List tags by number of posts",
		Flags: []cli.Flag{limitFlag},
		Action: func(c *cli.Context) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			tags, err := repository.NewTagRepository(db).Popular(c.Context, c.Int("limit"))
			if err != nil {
				return err
			}
			heading("Tags (popular)")
			printTags(tags)
			return nil
		},
	}
}

func printTags(tags []*models.Tag) {
	if len(tags) == 0 {
		fmt.Fprintln(stdout, "No tags found. Use 'blog tag create' to add one.")
		return
	}
	w := newTable()
	fmt.Fprintln(w, "ID\tTITLE\tPOSTS")
	for _, t := range tags {
		fmt.Fprintf(w, "%s\t%s\t%d\n", shortID(t.ID), t.Title, t.PostsCount)
	}
	w.Flush()
}

func tagCreateCmd() *cli.Command {
	return &cli.Command{
		Name:      "create",
		Usage:     "Create a tag (stored lowercase)",
		ArgsUsage: "[title]",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return fmt.Errorf("tag title is required")
			}
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			tag := &models.Tag{Title: c.Args().First()}
			if err := repository.NewTagRepository(db).Create(c.Context, tag); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "✅ Tag '%s' created.\nID: %s\n", tag.Title, tag.ID)
			return nil
		},
	}
}

func tagDeleteCmd() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Aliases:   []string{"rm"},
		Usage:     "Delete a tag; its posts are kept",
		ArgsUsage: "[title]",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return fmt.Errorf("tag title is required")
			}
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			tags := repository.NewTagRepository(db)
			tag, err := tags.GetByTitle(c.Context, c.Args().First())
			if err != nil {
				return err
			}
			if err := tags.Delete(c.Context, tag.ID); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "✅ Tag '%s' deleted.\n", tag.Title)
			return nil
		},
	}
}
