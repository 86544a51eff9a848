package commands

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/kutbudev/blog/pkg/models"
	"github.com/kutbudev/blog/pkg/repository"
	"github.com/urfave/cli/v2"
)

// NewPostCommand creates all subcommands for the 'post' command group.
func NewPostCommand() *cli.Command {
	return &cli.Command{
		Name:    "post",
		Aliases: []string{"p"},
		Usage:   "Browse and manage posts",
		Subcommands: []*cli.Command{
			postListCmd(),
			postRankingCmd("popular", "List posts by number of likes", "LIKES"),
			postRankingCmd("fresh", "List newest posts with their comment counts", "COMMENTS"),
			postShowCmd(),
			postDeleteCmd(),
			postLikeCmd(),
		},
	}
}

var limitFlag = &cli.IntFlag{
	Name:    "limit",
	Aliases: []string{"n"},
	Usage:   "Maximum number of rows (0 for all)",
}

// postListCmd lists posts newest first.
func postListCmd() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List posts, newest first",
		Flags: []cli.Flag{
			limitFlag,
			&cli.StringFlag{
				Name:    "tag",
				Aliases: []string{"t"},
				Usage:   "Only posts carrying this tag",
			},
		},
		Action: func(c *cli.Context) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			posts := repository.NewPostRepository(db)
			var list []*models.Post
			if tag := c.String("tag"); tag != "" {
				list, err = posts.ListByTag(c.Context, tag, c.Int("limit"))
			} else {
				list, err = posts.List(c.Context, c.Int("limit"))
			}
			if err != nil {
				return err
			}

			heading("Posts")
			printPosts(list, "COMMENTS", func(p *models.Post) int64 { return p.CommentsCount })
			return nil
		},
	}
}

// postRankingCmd lists posts through one of the ranking helpers; column names
// the count shown next to each post.
func postRankingCmd(name, usage, column string) *cli.Command {
	return &cli.Command{
		Name:  name,
		Usage: usage,
		Flags: []cli.Flag{limitFlag},
		Action: func(c *cli.Context) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			posts := repository.NewPostRepository(db)
			count := func(p *models.Post) int64 { return p.CommentsCount }
			var list []*models.Post
			if name == "popular" {
				list, err = posts.Popular(c.Context, c.Int("limit"))
				count = func(p *models.Post) int64 { return p.LikesCount }
			} else {
				list, err = posts.Fresh(c.Context, c.Int("limit"))
			}
			if err != nil {
				return err
			}

			heading(fmt.Sprintf("Posts (%s)", name))
			printPosts(list, column, count)
			return nil
		},
	}
}

func printPosts(posts []*models.Post, column string, count func(*models.Post) int64) {
	if len(posts) == 0 {
		fmt.Fprintln(stdout, "No posts found.")
		return
	}

	w := newTable()
	fmt.Fprintf(w, "ID\tPUBLISHED\tTITLE\tAUTHOR\t%s\n", column)
	for _, p := range posts {
		author := ""
		if p.Author != nil {
			author = p.Author.Username
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
			shortID(p.ID),
			p.PublishedAt.Format("2006-01-02 15:04"),
			truncateString(p.Title, 40),
			author,
			count(p))
	}
	w.Flush()
}

// postShowCmd shows one post by slug or ID.
func postShowCmd() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show details for a post",
		ArgsUsage: "[slug-or-id]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "raw", Usage: "Print the body as stored instead of rendering markdown"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return fmt.Errorf("post slug or ID is required")
			}
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			posts := repository.NewPostRepository(db)
			var post *models.Post
			if id, parseErr := uuid.Parse(c.Args().First()); parseErr == nil {
				post, err = posts.Get(c.Context, id)
			} else {
				post, err = posts.GetBySlug(c.Context, c.Args().First())
			}
			if err != nil {
				return err
			}

			heading(post.Title)
			fmt.Fprintf(stdout, "ID:        %s\n", post.ID)
			fmt.Fprintf(stdout, "URL:       %s\n", post.URL())
			fmt.Fprintf(stdout, "Published: %s\n", post.PublishedAt.Format("2006-01-02 15:04:05"))
			if post.Author != nil {
				fmt.Fprintf(stdout, "Author:    %s\n", post.Author.Username)
			}
			if img := post.Image.Data(); img.Path != "" {
				fmt.Fprintf(stdout, "Image:     %s (%dx%d)\n", img.Path, img.Width, img.Height)
			}
			fmt.Fprintf(stdout, "Likes:     %d\n", len(post.Likes))
			fmt.Fprintf(stdout, "Comments:  %d\n", post.CommentsCount)
			fmt.Fprint(stdout, "Tags:     ")
			for _, t := range post.Tags {
				fmt.Fprintf(stdout, " %s(%d)", t.Title, t.PostsCount)
			}
			fmt.Fprint(stdout, "\n\n")
			if c.Bool("raw") {
				fmt.Fprintln(stdout, post.Text)
			} else {
				fmt.Fprint(stdout, renderMarkdown(post.Text))
			}
			return nil
		},
	}
}

// postDeleteCmd deletes a post together with its comments.
func postDeleteCmd() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Aliases:   []string{"rm"},
		Usage:     "Delete a post and its comments",
		ArgsUsage: "[post-id]",
		Action: func(c *cli.Context) error {
			id, err := parseID(c.Args().First(), "post")
			if err != nil {
				return err
			}
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			if err := repository.NewPostRepository(db).Delete(c.Context, id); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "✅ Post %s deleted.\n", shortID(id))
			return nil
		},
	}
}

// postLikeCmd records (or with --undo removes) a user's like.
func postLikeCmd() *cli.Command {
	return &cli.Command{
		Name:      "like",
		Usage:     "Like a post as a user",
		ArgsUsage: "[post-id] [username]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "undo", Usage: "Remove the like instead"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 2 {
				return fmt.Errorf("post ID and username are required")
			}
			id, err := parseID(c.Args().Get(0), "post")
			if err != nil {
				return err
			}
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			user, err := repository.NewUserRepository(db).GetByUsername(c.Context, c.Args().Get(1))
			if err != nil {
				return fmt.Errorf("user %q: %w", c.Args().Get(1), err)
			}

			posts := repository.NewPostRepository(db)
			if c.Bool("undo") {
				err = posts.Unlike(c.Context, id, user.ID)
			} else {
				err = posts.Like(c.Context, id, user.ID)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, "✅ Likes updated.")
			return nil
		},
	}
}
