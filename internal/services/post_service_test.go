package services

import (
	"testing"
	"time"

	"github.com/avelin/snapfeed-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePostEmptyImageURL(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	posts := NewPostService(db)

	author, err := users.Register("alice", "password")
	require.NoError(t, err)

	for _, url := range []string{"", "   ", "\t\n"} {
		_, err := posts.Create(author.ID, url, "caption")
		assert.ErrorIs(t, err, models.ErrEmptyImageURL)
	}

	// Nothing was persisted.
	feed, err := posts.Feed()
	require.NoError(t, err)
	assert.Empty(t, feed)
}

func TestCreatePostUnknownAuthor(t *testing.T) {
	posts := NewPostService(newTestDB(t))

	_, err := posts.Create(9999, "https://pics.example/a.png", "")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestFeedNewestFirst(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	posts := NewPostService(db)

	alice, err := users.Register("alice", "password")
	require.NoError(t, err)
	bob, err := users.Register("bob", "password")
	require.NoError(t, err)

	first, err := posts.Create(alice.ID, "https://pics.example/1.png", "first")
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	second, err := posts.Create(bob.ID, "https://pics.example/2.png", "second")
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	third, err := posts.Create(alice.ID, "https://pics.example/3.png", "third")
	require.NoError(t, err)

	feed, err := posts.Feed()
	require.NoError(t, err)
	require.Len(t, feed, 3)

	assert.Equal(t, third.ID, feed[0].ID)
	assert.Equal(t, second.ID, feed[1].ID)
	assert.Equal(t, first.ID, feed[2].ID)

	assert.Equal(t, "alice", feed[0].AuthorUsername)
	assert.Equal(t, "bob", feed[1].AuthorUsername)
	assert.Equal(t, "alice", feed[2].AuthorUsername)
}

func TestFeedTieBreaksByInsertionOrder(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	posts := NewPostService(db)

	alice, err := users.Register("alice", "password")
	require.NoError(t, err)

	// Force identical timestamps to exercise the deterministic tie-break.
	stamp := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for _, url := range []string{"https://pics.example/a.png", "https://pics.example/b.png"} {
		_, err := db.Exec(
			"INSERT INTO posts (author_id, image_url, caption, created_at) VALUES (?, ?, ?, ?)",
			alice.ID, url, "", stamp,
		)
		require.NoError(t, err)
	}

	feed, err := posts.Feed()
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, "https://pics.example/a.png", feed[0].ImageURL)
	assert.Equal(t, "https://pics.example/b.png", feed[1].ImageURL)
	assert.Less(t, feed[0].ID, feed[1].ID)
}
