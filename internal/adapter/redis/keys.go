package redis

import "github.com/google/uuid"

// DetailKey is the cache key of a single post's read model.
func DetailKey(postID uuid.UUID) string {
	return "post:detail:" + postID.String()
}

// AuthorListKey is the cache key of an author's post list.
func AuthorListKey(authorID uuid.UUID) string {
	return "post:list:author:" + authorID.String()
}
