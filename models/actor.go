package models

import "time"

// Actor is a performer that can be cast in movies
type Actor struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Age       int       `json:"age" db:"age"`
	Gender    string    `json:"gender" db:"gender"`
	CreatedAt time.Time `json:"-" db:"created_at"`
	UpdatedAt time.Time `json:"-" db:"updated_at"`
}

// TableName returns the table name for the Actor model
func (Actor) TableName() string {
	return "actors"
}

// NewActor creates a new Actor instance. id may be zero to let the
// database assign one.
func NewActor(id int64, name string, age int, gender string) *Actor {
	now := time.Now().UTC()
	return &Actor{
		ID:        id,
		Name:      name,
		Age:       age,
		Gender:    gender,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
