// Profile endpoints
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package client

import (
	"context"

	"github.com/desertthunder/tempo/internal/auth"
)

type followers struct {
	Total int `json:"total"`
}

// User represents a Spotify user profile.
type User struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	Country     string    `json:"country"`
	Product     string    `json:"product"` // premium, free, etc.
	Followers   followers `json:"followers"`
	Images      []Image   `json:"images"`
}

// Image represents an image resource.
type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// Me retrieves the current authenticated user's profile.
//
// The country, product, and email fields are only populated when the grant
// includes user-read-private and user-read-email respectively.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.getJSON(ctx, "/me", nil, auth.NewScopeSet(), &user); err != nil {
		return nil, err
	}
	return &user, nil
}
