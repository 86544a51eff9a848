package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kutbudev/blog/pkg/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
)

// fixture bundles a migrated in-memory database with every repository.
type fixture struct {
	db       *Database
	posts    *PostRepository
	tags     *TagRepository
	comments *CommentRepository
	users    *UserRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=on"
	db, err := Open(sqlite.Open(dsn), false)
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { _ = db.Close() })

	return &fixture{
		db:       db,
		posts:    NewPostRepository(db),
		tags:     NewTagRepository(db),
		comments: NewCommentRepository(db),
		users:    NewUserRepository(db),
	}
}

var epoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func (f *fixture) user(t *testing.T, name string, staff bool) *models.User {
	t.Helper()
	u := &models.User{Username: name, Email: name + "@example.com", IsStaff: staff}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func (f *fixture) tag(t *testing.T, title string) *models.Tag {
	t.Helper()
	tag := &models.Tag{Title: title}
	require.NoError(t, f.tags.Create(context.Background(), tag))
	return tag
}

// post creates a post published dayOffset days after epoch.
func (f *fixture) post(t *testing.T, author *models.User, slug string, dayOffset int, tags ...*models.Tag) *models.Post {
	t.Helper()
	p := &models.Post{
		Title:       "Post " + slug,
		Text:        "Body of " + slug,
		Slug:        slug,
		PublishedAt: epoch.AddDate(0, 0, dayOffset),
		AuthorID:    author.ID,
		Tags:        tags,
	}
	require.NoError(t, f.posts.Create(context.Background(), p))
	return p
}

func (f *fixture) comment(t *testing.T, post *models.Post, author *models.User, minuteOffset int) *models.Comment {
	t.Helper()
	c := &models.Comment{
		PostID:      post.ID,
		AuthorID:    author.ID,
		Text:        "nice",
		PublishedAt: epoch.Add(time.Duration(minuteOffset) * time.Minute),
	}
	require.NoError(t, f.comments.Create(context.Background(), c))
	return c
}

func (f *fixture) like(t *testing.T, post *models.Post, users ...*models.User) {
	t.Helper()
	for _, u := range users {
		require.NoError(t, f.posts.Like(context.Background(), post.ID, u.ID))
	}
}

func postIDs(posts []*models.Post) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	return ids
}

func tagTitles(tags []*models.Tag) []string {
	titles := make([]string, 0, len(tags))
	for _, tag := range tags {
		titles = append(titles, tag.Title)
	}
	return titles
}
