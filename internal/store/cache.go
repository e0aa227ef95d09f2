package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/tempo/internal/client"
	"github.com/desertthunder/tempo/internal/shared"
)

const trackSchema = `
	CREATE TABLE IF NOT EXISTS tracks (
		id TEXT PRIMARY KEY,
		spotify_id TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL,
		artists TEXT,
		album TEXT,
		duration_ms INTEGER,
		isrc TEXT,
		cached_at TIMESTAMP NOT NULL
	)
`

// CachedTrack is a locally persisted snapshot of a fetched track.
type CachedTrack struct {
	ID         string
	SpotifyID  string
	Title      string
	Artists    string
	Album      string
	DurationMS int
	ISRC       string
	CachedAt   time.Time
}

// TrackCache persists track metadata seen during searches and fetches.
//
// Tracks are cached silently on lookup paths so repeated searches can be
// answered locally and ISRC matches survive restarts. Duplicates are ignored
// via the spotify_id UNIQUE constraint.
type TrackCache struct {
	db *sql.DB
}

// NewTrackCache creates a cache over the given database connection,
// creating the tracks table if needed.
func NewTrackCache(db *sql.DB) (*TrackCache, error) {
	if _, err := db.Exec(trackSchema); err != nil {
		return nil, fmt.Errorf("failed to create tracks table: %w", err)
	}
	return &TrackCache{db: db}, nil
}

// Cache stores a track, ignoring duplicates.
func (c *TrackCache) Cache(track client.Track) error {
	names := make([]string, len(track.Artists))
	for i, a := range track.Artists {
		names[i] = a.Name
	}

	query := `
		INSERT INTO tracks (id, spotify_id, title, artists, album, duration_ms, isrc, cached_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(spotify_id) DO NOTHING
	`

	_, err := c.db.Exec(query,
		shared.GenerateID(),
		track.ID,
		track.Name,
		strings.Join(names, ", "),
		track.Album.Name,
		track.DurationMS,
		track.ExternalIDs.ISRC,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to cache track: %w", err)
	}

	return nil
}

// CacheAll stores every track in the slice, stopping at the first failure.
func (c *TrackCache) CacheAll(tracks []client.Track) error {
	for _, track := range tracks {
		if err := c.Cache(track); err != nil {
			return err
		}
	}
	return nil
}

// GetBySpotifyID retrieves a cached track by its Spotify ID.
// Wraps [shared.ErrNotFound] when the track has not been cached.
func (c *TrackCache) GetBySpotifyID(spotifyID string) (*CachedTrack, error) {
	query := `
		SELECT id, spotify_id, title, artists, album, duration_ms, isrc, cached_at
		FROM tracks
		WHERE spotify_id = ?
	`

	return c.scanOne(c.db.QueryRow(query, spotifyID))
}

// GetByISRC retrieves a cached track by ISRC code.
// Wraps [shared.ErrNotFound] when no track carries the code.
func (c *TrackCache) GetByISRC(isrc string) (*CachedTrack, error) {
	query := `
		SELECT id, spotify_id, title, artists, album, duration_ms, isrc, cached_at
		FROM tracks
		WHERE isrc = ?
		LIMIT 1
	`

	return c.scanOne(c.db.QueryRow(query, isrc))
}

// Recent returns the most recently cached tracks, newest first.
func (c *TrackCache) Recent(limit int) ([]CachedTrack, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, spotify_id, title, artists, album, duration_ms, isrc, cached_at
		FROM tracks
		ORDER BY cached_at DESC
		LIMIT ?
	`

	rows, err := c.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list cached tracks: %w", err)
	}
	defer rows.Close()

	var tracks []CachedTrack
	for rows.Next() {
		var t CachedTrack
		if err := rows.Scan(&t.ID, &t.SpotifyID, &t.Title, &t.Artists, &t.Album, &t.DurationMS, &t.ISRC, &t.CachedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cached track: %w", err)
		}
		tracks = append(tracks, t)
	}

	return tracks, rows.Err()
}

// Count returns the number of cached tracks.
func (c *TrackCache) Count() (int, error) {
	var count int
	if err := c.db.QueryRow(`SELECT COUNT(*) FROM tracks`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count cached tracks: %w", err)
	}
	return count, nil
}

// Clear removes every cached track.
func (c *TrackCache) Clear() error {
	if _, err := c.db.Exec(`DELETE FROM tracks`); err != nil {
		return fmt.Errorf("failed to clear track cache: %w", err)
	}
	return nil
}

func (c *TrackCache) scanOne(row *sql.Row) (*CachedTrack, error) {
	var t CachedTrack

	err := row.Scan(&t.ID, &t.SpotifyID, &t.Title, &t.Artists, &t.Album, &t.DurationMS, &t.ISRC, &t.CachedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: track not cached", shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan cached track: %w", err)
	}

	return &t, nil
}
