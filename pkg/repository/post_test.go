package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kutbudev/blog/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestPostCreateAndGet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	author := f.user(t, "editor", true)
	golang := f.tag(t, "go")
	sql := f.tag(t, "sql")

	p := &models.Post{
		Title:       "Intro",
		Text:        "Hello",
		Slug:        "intro",
		Image:       datatypes.NewJSONType(models.Image{Path: "covers/intro.png", Width: 640, Height: 480}),
		PublishedAt: epoch,
		AuthorID:    author.ID,
		Tags:        []*models.Tag{{ID: sql.ID}, {ID: golang.ID}},
	}
	require.NoError(t, f.posts.Create(ctx, p))
	assert.NotEqual(t, uuid.Nil, p.ID)

	got, err := f.posts.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Intro", got.Title)
	assert.Equal(t, "covers/intro.png", got.Image.Data().Path)
	assert.Equal(t, 640, got.Image.Data().Width)
	require.NotNil(t, got.Author)
	assert.Equal(t, "editor", got.Author.Username)
	assert.Equal(t, []string{"go", "sql"}, tagTitles(got.Tags))
	assert.Empty(t, got.Likes)

	bySlug, err := f.posts.GetBySlug(ctx, "intro")
	require.NoError(t, err)
	assert.Equal(t, p.ID, bySlug.ID)
}

func TestPostCreateRejectsNonStaffAuthor(t *testing.T) {
	f := newFixture(t)
	reader := f.user(t, "reader", false)

	err := f.posts.Create(context.Background(), &models.Post{
		Title: "Nope", Text: "x", Slug: "nope", PublishedAt: epoch, AuthorID: reader.ID,
	})
	assert.ErrorIs(t, err, ErrAuthorNotStaff)
}

func TestPostCreateRequiresPublishedAt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "editor", true)

	err := f.posts.Create(ctx, &models.Post{Title: "t", Text: "x", Slug: "s", AuthorID: author.ID})
	assert.ErrorIs(t, err, models.ErrValidation)

	p := f.post(t, author, "dated", 0)
	p.PublishedAt = time.Time{}
	assert.ErrorIs(t, f.posts.Update(ctx, p), models.ErrValidation)

	posts, err := f.posts.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.True(t, posts[0].PublishedAt.Equal(epoch))
}

func TestPostCreateRejectsUnknownReferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "editor", true)

	err := f.posts.Create(ctx, &models.Post{
		Title: "x", Text: "x", Slug: "x", PublishedAt: epoch, AuthorID: uuid.New(),
	})
	assert.ErrorIs(t, err, ErrInvalidReference)

	err = f.posts.Create(ctx, &models.Post{
		Title: "x", Text: "x", Slug: "x", PublishedAt: epoch, AuthorID: author.ID,
		Tags: []*models.Tag{{ID: uuid.New()}},
	})
	assert.ErrorIs(t, err, ErrInvalidReference)

	// Nothing was written by the failed attempts
	posts, err := f.posts.List(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestPostCreateValidates(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "editor", true)

	err := f.posts.Create(context.Background(), &models.Post{
		Title: "Bad slug", Text: "x", Slug: "has spaces", PublishedAt: epoch, AuthorID: author.ID,
	})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestPostListDefaultOrdering(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "editor", true)

	oldest := f.post(t, author, "oldest", 0)
	newest := f.post(t, author, "newest", 2)
	middle := f.post(t, author, "middle", 1)

	posts, err := f.posts.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{newest.ID, middle.ID, oldest.ID}, postIDs(posts))

	limited, err := f.posts.List(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{newest.ID, middle.ID}, postIDs(limited))
}

func TestPopularOrdersByLikesDescending(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "editor", true)
	alice := f.user(t, "alice", false)
	bob := f.user(t, "bob", false)
	carol := f.user(t, "carol", false)

	one := f.post(t, author, "one-like", 2)
	three := f.post(t, author, "three-likes", 0)
	none := f.post(t, author, "no-likes", 1)
	two := f.post(t, author, "two-likes", 3)

	f.like(t, one, alice)
	f.like(t, three, alice, bob, carol)
	f.like(t, two, bob, carol)

	posts, err := f.posts.Popular(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{three.ID, two.ID, one.ID, none.ID}, postIDs(posts))

	wantLikes := []int64{3, 2, 1, 0}
	for i, p := range posts {
		assert.Equal(t, wantLikes[i], p.LikesCount, p.Slug)
		require.NotNil(t, p.Author)
	}
}

func TestLikeIsIdempotentAndUnlike(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "editor", true)
	alice := f.user(t, "alice", false)
	p := f.post(t, author, "post", 0)

	f.like(t, p, alice, alice)

	got, err := f.posts.Get(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, got.Likes, 1)
	assert.Equal(t, alice.ID, got.Likes[0].ID)

	require.NoError(t, f.posts.Unlike(ctx, p.ID, alice.ID))
	got, err = f.posts.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Likes)

	assert.ErrorIs(t, f.posts.Like(ctx, uuid.New(), alice.ID), ErrNotFound)
	assert.ErrorIs(t, f.posts.Like(ctx, p.ID, uuid.New()), ErrInvalidReference)
}

func TestFreshOrdersByPublishedAtWithCommentCounts(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "editor", true)
	reader := f.user(t, "reader", false)

	older := f.post(t, author, "older", 0)
	newer := f.post(t, author, "newer", 5)
	f.comment(t, older, reader, 1)
	f.comment(t, older, reader, 2)
	f.comment(t, newer, reader, 3)

	posts, err := f.posts.Fresh(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, posts, 2)

	assert.Equal(t, []uuid.UUID{newer.ID, older.ID}, postIDs(posts))
	assert.Equal(t, int64(1), posts[0].CommentsCount)
	assert.Equal(t, int64(2), posts[1].CommentsCount)
}

func TestFetchWithCommentsCountMatchesIndividualCounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "editor", true)
	reader := f.user(t, "reader", false)

	var posts []*models.Post
	for i, n := range []int{0, 3, 1, 5} {
		p := f.post(t, author, "post-"+string(rune('a'+i)), i)
		for j := 0; j < n; j++ {
			f.comment(t, p, reader, j)
		}
		posts = append(posts, &models.Post{ID: p.ID})
	}

	require.NoError(t, f.posts.FetchWithCommentsCount(ctx, posts))

	for _, p := range posts {
		want, err := f.comments.CountForPost(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, want, p.CommentsCount)
	}

	assert.NoError(t, f.posts.FetchWithCommentsCount(ctx, nil))
}

func TestWithTagsCount(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "editor", true)
	a, b := f.tag(t, "a"), f.tag(t, "b")

	two := f.post(t, author, "two", 1, a, b)
	zero := f.post(t, author, "zero", 0)

	posts, err := f.posts.WithTagsCount(context.Background(), 0)
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{two.ID, zero.ID}, postIDs(posts))
	assert.Equal(t, int64(2), posts[0].TagsCount)
	assert.Equal(t, int64(0), posts[1].TagsCount)
}

func TestPrefetchedTagsCarryPostCounts(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "editor", true)
	common, rare := f.tag(t, "common"), f.tag(t, "rare")

	f.post(t, author, "first", 0, common)
	f.post(t, author, "second", 1, common, rare)

	posts, err := f.posts.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, posts, 2)

	second := posts[0]
	require.Equal(t, []string{"common", "rare"}, tagTitles(second.Tags))
	assert.Equal(t, int64(2), second.Tags[0].PostsCount)
	assert.Equal(t, int64(1), second.Tags[1].PostsCount)

	first := posts[1]
	require.Len(t, first.Tags, 1)
	assert.Equal(t, int64(2), first.Tags[0].PostsCount)
}

func TestListByTag(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "editor", true)
	golang, rust := f.tag(t, "go"), f.tag(t, "rust")

	gp := f.post(t, author, "go-post", 0, golang)
	both := f.post(t, author, "both", 1, golang, rust)
	f.post(t, author, "rust-post", 2, rust)

	posts, err := f.posts.ListByTag(context.Background(), "Go", 0)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{both.ID, gp.ID}, postIDs(posts))
	assert.Equal(t, []string{"go", "rust"}, tagTitles(posts[0].Tags))
}

func TestPostUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "editor", true)
	a, b := f.tag(t, "a"), f.tag(t, "b")
	p := f.post(t, author, "draft", 0, a)

	p.Title = "Final"
	p.Tags = []*models.Tag{{ID: b.ID}}
	require.NoError(t, f.posts.Update(ctx, p))

	got, err := f.posts.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Final", got.Title)
	assert.Equal(t, []string{"b"}, tagTitles(got.Tags))

	// nil leaves tags alone, empty clears them
	got.Tags = nil
	require.NoError(t, f.posts.Update(ctx, got))
	got, err = f.posts.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, got.Tags, 1)

	got.Tags = []*models.Tag{}
	require.NoError(t, f.posts.Update(ctx, got))
	got, err = f.posts.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Tags)

	missing := *p
	missing.ID = uuid.New()
	assert.ErrorIs(t, f.posts.Update(ctx, &missing), ErrNotFound)
}

func TestSetTags(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "editor", true)
	a, b := f.tag(t, "a"), f.tag(t, "b")
	p := f.post(t, author, "post", 0, a)

	require.NoError(t, f.posts.SetTags(ctx, p.ID, []uuid.UUID{a.ID, b.ID, b.ID}))
	got, err := f.posts.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, tagTitles(got.Tags))

	assert.ErrorIs(t, f.posts.SetTags(ctx, p.ID, []uuid.UUID{uuid.New()}), ErrInvalidReference)
}

func TestDeletePostCascadesToComments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "editor", true)
	reader := f.user(t, "reader", false)
	tag := f.tag(t, "go")

	doomed := f.post(t, author, "doomed", 0, tag)
	kept := f.post(t, author, "kept", 1, tag)
	f.comment(t, doomed, reader, 0)
	f.comment(t, doomed, reader, 1)
	keptComment := f.comment(t, kept, reader, 2)
	f.like(t, doomed, reader)

	require.NoError(t, f.posts.Delete(ctx, doomed.ID))

	_, err := f.posts.Get(ctx, doomed.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	n, err := f.comments.CountForPost(ctx, doomed.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	all, err := f.comments.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, keptComment.ID, all[0].ID)

	// The tag survives and only counts the remaining post
	got, err := f.tags.Get(ctx, tag.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.PostsCount)

	assert.ErrorIs(t, f.posts.Delete(ctx, doomed.ID), ErrNotFound)
}
