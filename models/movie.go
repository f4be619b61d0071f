package models

import (
	"encoding/json"
	"time"
)

// ReleaseDateLayout is the wire format of a movie's release date
const ReleaseDateLayout = "2006-01-02"

// Movie is a production actors are cast in
type Movie struct {
	ID          int64     `db:"id"`
	Title       string    `db:"title"`
	ReleaseDate time.Time `db:"release_date"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// TableName returns the table name for the Movie model
func (Movie) TableName() string {
	return "movies"
}

// NewMovie creates a new Movie instance
func NewMovie(id int64, title string, releaseDate time.Time) *Movie {
	now := time.Now().UTC()
	return &Movie{
		ID:          id,
		Title:       title,
		ReleaseDate: releaseDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// ReleaseYear returns the four digit release year
func (m Movie) ReleaseYear() string {
	return m.ReleaseDate.Format("2006")
}

type movieJSON struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	ReleaseYear string `json:"release_year"`
	ReleaseDate string `json:"release_date"`
}

// MarshalJSON renders the release date as release_year and release_date
func (m Movie) MarshalJSON() ([]byte, error) {
	return json.Marshal(movieJSON{
		ID:          m.ID,
		Title:       m.Title,
		ReleaseYear: m.ReleaseYear(),
		ReleaseDate: m.ReleaseDate.Format(ReleaseDateLayout),
	})
}
