package repository

import (
	"gorm.io/gorm"
)

// Default orderings of each entity.
const (
	postOrdering    = "posts.published_at DESC"
	tagOrdering     = "tags.title ASC"
	commentOrdering = "comments.published_at ASC"
	userOrdering    = "users.username ASC"
)

// Annotation columns, one correlated count per row.
const (
	likesCountColumn    = "(SELECT COUNT(*) FROM post_likes WHERE post_likes.post_id = posts.id) AS likes_count"
	commentsCountColumn = "(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comments_count"
	tagsCountColumn     = "(SELECT COUNT(*) FROM post_tags WHERE post_tags.post_id = posts.id) AS tags_count"
	postsCountColumn    = "(SELECT COUNT(*) FROM post_tags WHERE post_tags.tag_id = tags.id) AS posts_count"
)

// PopularPosts annotates each post with likes_count and orders by it, most liked first.
func PopularPosts(db *gorm.DB) *gorm.DB {
	return db.Select("posts.*, " + likesCountColumn).Order("likes_count DESC")
}

// FreshPosts annotates each post with comments_count and orders newest first.
func FreshPosts(db *gorm.DB) *gorm.DB {
	return db.Select("posts.*, " + commentsCountColumn).Order(postOrdering)
}

// PostsWithTagsCount annotates each post with tags_count.
func PostsWithTagsCount(db *gorm.DB) *gorm.DB {
	return db.Select("posts.*, " + tagsCountColumn)
}

// TagsWithPostsCount annotates each tag with posts_count.
func TagsWithPostsCount(db *gorm.DB) *gorm.DB {
	return db.Select("tags.*, " + postsCountColumn)
}

// PopularTags annotates each tag with posts_count and orders by it, most used first.
func PopularTags(db *gorm.DB) *gorm.DB {
	return TagsWithPostsCount(db).Order("posts_count DESC")
}

// PrefetchTagsWithPostsCount preloads each post's tags, every tag carrying its
// posts_count, with a single query for all tags of the result set.
func PrefetchTagsWithPostsCount(db *gorm.DB) *gorm.DB {
	return db.Preload("Tags", func(tx *gorm.DB) *gorm.DB {
		return tx.Scopes(TagsWithPostsCount).Order(tagOrdering)
	})
}

// withAuthor preloads the post author.
func withAuthor(db *gorm.DB) *gorm.DB {
	return db.Preload("Author")
}

func limited(limit int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if limit > 0 {
			return db.Limit(limit)
		}
		return db
	}
}
