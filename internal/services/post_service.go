package services

import (
	"database/sql"
	"strings"
	"time"

	"github.com/avelin/snapfeed-be/internal/database"
	"github.com/avelin/snapfeed-be/internal/models"
)

// PostServiceProvider defines the interface for post services.
type PostServiceProvider interface {
	Create(authorID int64, imageURL, caption string) (models.Post, error)
	Feed() ([]models.FeedItem, error)
}

// PostService provides business logic for publishing and browsing posts.
type PostService struct {
	db *sql.DB
}

// NewPostService creates a new PostService.
func NewPostService(db *sql.DB) *PostService {
	return &PostService{db: db}
}

// Create publishes a new post. The image URL is stored as an opaque string but
// must not be blank.
func (s *PostService) Create(authorID int64, imageURL, caption string) (models.Post, error) {
	if strings.TrimSpace(imageURL) == "" {
		return models.Post{}, models.ErrEmptyImageURL
	}

	post := models.Post{
		AuthorID:  authorID,
		ImageURL:  imageURL,
		Caption:   caption,
		CreatedAt: time.Now().UTC(),
	}

	err := withBusyRetry(func() error {
		res, err := s.db.Exec(
			"INSERT INTO posts (author_id, image_url, caption, created_at) VALUES (?, ?, ?, ?)",
			post.AuthorID, post.ImageURL, post.Caption, post.CreatedAt,
		)
		if err != nil {
			return err
		}
		post.ID, err = res.LastInsertId()
		return err
	})
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			// Author row vanished before the insert landed.
			return models.Post{}, models.ErrNotFound
		}
		return models.Post{}, err
	}
	return post, nil
}

// Feed returns every post joined with its author's username, newest first.
// Posts sharing a timestamp come back in insertion order so the feed is
// deterministic.
func (s *PostService) Feed() ([]models.FeedItem, error) {
	rows, err := s.db.Query(`
		SELECT posts.id, posts.author_id, posts.image_url, posts.caption, posts.created_at, users.username
		FROM posts
		JOIN users ON posts.author_id = users.id
		ORDER BY posts.created_at DESC, posts.id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var feed []models.FeedItem
	for rows.Next() {
		var (
			item    models.FeedItem
			caption sql.NullString
		)
		if err := rows.Scan(&item.ID, &item.AuthorID, &item.ImageURL, &caption, &item.CreatedAt, &item.AuthorUsername); err != nil {
			return nil, err
		}
		item.Caption = caption.String
		feed = append(feed, item)
	}
	return feed, rows.Err()
}
