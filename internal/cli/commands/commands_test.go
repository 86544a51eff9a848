package commands

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kutbudev/blog/pkg/models"
	"github.com/kutbudev/blog/pkg/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/sqlite"
)

// useTestDB points the commands at a fresh in-memory database and captures
// their output.
func useTestDB(t *testing.T) (*repository.Database, *bytes.Buffer) {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=on"
	// Commands close their own handle; this one keeps the shared in-memory
	// database alive between runs.
	db, err := repository.Open(sqlite.Open(dsn), false)
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { _ = db.Close() })

	prevOpen, prevOut := openDB, stdout
	openDB = func() (*repository.Database, error) {
		return repository.Open(sqlite.Open(dsn), false)
	}
	var out bytes.Buffer
	stdout = &out
	prevPlain := plainMarkdown
	plainMarkdown = true
	t.Cleanup(func() { openDB, stdout, plainMarkdown = prevOpen, prevOut, prevPlain })

	return db, &out
}

func run(t *testing.T, args ...string) error {
	t.Helper()
	app := &cli.App{
		Name: "blog",
		Commands: []*cli.Command{
			NewPostCommand(),
			NewTagCommand(),
			NewCommentCommand(),
			NewUserCommand(),
		},
	}
	return app.Run(append([]string{"blog"}, args...))
}

func TestUserAndTagCommands(t *testing.T) {
	db, out := useTestDB(t)

	require.NoError(t, run(t, "user", "create", "--staff", "--email", "ed@example.com", "editor"))
	require.NoError(t, run(t, "tag", "create", "GoLang"))
	assert.Contains(t, out.String(), "Tag 'golang' created")

	assert.Error(t, run(t, "tag", "create", "golang"))

	out.Reset()
	require.NoError(t, run(t, "user", "list", "--staff"))
	assert.Contains(t, out.String(), "editor")

	require.NoError(t, run(t, "tag", "delete", "GOLANG"))
	tags, err := repository.NewTagRepository(db).List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestPostCommands(t *testing.T) {
	db, out := useTestDB(t)
	ctx := context.Background()

	users := repository.NewUserRepository(db)
	author := &models.User{Username: "editor", IsStaff: true}
	require.NoError(t, users.Create(ctx, author))
	require.NoError(t, users.Create(ctx, &models.User{Username: "reader"}))

	tag := &models.Tag{Title: "go"}
	require.NoError(t, repository.NewTagRepository(db).Create(ctx, tag))

	posts := repository.NewPostRepository(db)
	post := &models.Post{
		Title:       "Hello",
		Text:        "Some **bold** words",
		Slug:        "hello",
		PublishedAt: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
		AuthorID:    author.ID,
		Tags:        []*models.Tag{tag},
	}
	require.NoError(t, posts.Create(ctx, post))

	require.NoError(t, run(t, "post", "like", post.ID.String(), "reader"))
	require.NoError(t, run(t, "comment", "add", "--author", "reader", post.ID.String(), "great read"))

	out.Reset()
	require.NoError(t, run(t, "post", "popular"))
	assert.Contains(t, out.String(), "LIKES")
	assert.Contains(t, out.String(), "Hello")

	out.Reset()
	require.NoError(t, run(t, "post", "show", "hello"))
	assert.Contains(t, out.String(), "/post/hello")
	assert.Contains(t, out.String(), "Likes:     1")
	assert.Contains(t, out.String(), "Comments:  1")
	assert.Contains(t, out.String(), "bold")

	out.Reset()
	require.NoError(t, run(t, "post", "show", "--raw", "hello"))
	assert.Contains(t, out.String(), "Some **bold** words")

	out.Reset()
	require.NoError(t, run(t, "comment", "list", post.ID.String()))
	assert.Contains(t, out.String(), "great read")

	require.NoError(t, run(t, "post", "delete", post.ID.String()))
	n, err := repository.NewCommentRepository(db).CountForPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.Error(t, run(t, "post", "delete", "not-an-id"))
}

func TestRenderMarkdownPlain(t *testing.T) {
	prev := plainMarkdown
	plainMarkdown = true
	t.Cleanup(func() { plainMarkdown = prev })

	out := renderMarkdown("# Title\n\nA paragraph of text.")
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "A paragraph of text.")
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", truncateString("short", 10))
	assert.Equal(t, "abcdefg...", truncateString("abcdefghijklmnop", 10))
	assert.Equal(t, "çççç...", truncateString("ççççççççç", 7))
}
