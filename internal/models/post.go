package models

import "time"

// Post represents a published image post.
type Post struct {
	ID        int64     `json:"id"`
	AuthorID  int64     `json:"authorId"`
	ImageURL  string    `json:"imageUrl"`
	Caption   string    `json:"caption"`
	CreatedAt time.Time `json:"createdAt"`
}

// FeedItem is a post joined with its author's username, as shown in the feed.
type FeedItem struct {
	Post
	AuthorUsername string `json:"authorUsername"`
}
