package commands

import (
	"fmt"
	"time"

	"github.com/kutbudev/blog/pkg/models"
	"github.com/kutbudev/blog/pkg/repository"
	"github.com/urfave/cli/v2"
)

// NewCommentCommand creates all subcommands for the 'comment' command group.
func NewCommentCommand() *cli.Command {
	return &cli.Command{
		Name:    "comment",
		Aliases: []string{"c"},
		Usage:   "Read and add comments",
		Subcommands: []*cli.Command{
			commentListCmd(),
			commentAddCmd(),
		},
	}
}

func commentListCmd() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Aliases:   []string{"ls"},
		Usage:     "List a post's comments, oldest first",
		ArgsUsage: "[post-id]",
		Action: func(c *cli.Context) error {
			postID, err := parseID(c.Args().First(), "post")
			if err != nil {
				return err
			}
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			comments, err := repository.NewCommentRepository(db).ListForPost(c.Context, postID)
			if err != nil {
				return err
			}

			heading("Comments")
			if len(comments) == 0 {
				fmt.Fprintln(stdout, "No comments yet.")
				return nil
			}
			w := newTable()
			fmt.Fprintln(w, "ID\tPUBLISHED\tAUTHOR\tTEXT")
			for _, cm := range comments {
				author := ""
				if cm.Author != nil {
					author = cm.Author.Username
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					shortID(cm.ID),
					cm.PublishedAt.Format("2006-01-02 15:04"),
					author,
					truncateString(cm.Text, 50))
			}
			w.Flush()
			return nil
		},
	}
}

func commentAddCmd() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Comment on a post",
		ArgsUsage: "[post-id] [text]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "author",
				Aliases:  []string{"a"},
				Usage:    "Username of the commenter",
				Required: true,
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 2 {
				return fmt.Errorf("post ID and text are required")
			}
			postID, err := parseID(c.Args().Get(0), "post")
			if err != nil {
				return err
			}
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			author, err := repository.NewUserRepository(db).GetByUsername(c.Context, c.String("author"))
			if err != nil {
				return fmt.Errorf("user %q: %w", c.String("author"), err)
			}

			comment := &models.Comment{
				PostID:      postID,
				AuthorID:    author.ID,
				Text:        c.Args().Get(1),
				PublishedAt: time.Now().UTC(),
			}
			if err := repository.NewCommentRepository(db).Create(c.Context, comment); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "✅ Comment added.\nID: %s\n", comment.ID)
			return nil
		},
	}
}
