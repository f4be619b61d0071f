package models

import "time"

// Casting assigns an actor to a role in a movie. ActorName and MovieTitle
// are filled from the joined rows on reads.
type Casting struct {
	ID         int64     `json:"id" db:"id"`
	RoleName   string    `json:"role_name" db:"role_name"`
	ActorID    int64     `json:"actor_id" db:"actor_id"`
	ActorName  string    `json:"actor_name"`
	MovieID    int64     `json:"movie_id" db:"movie_id"`
	MovieTitle string    `json:"movie_name"`
	CreatedAt  time.Time `json:"-" db:"created_at"`
}

// TableName returns the table name for the Casting model
func (Casting) TableName() string {
	return "castings"
}

// NewCasting creates a new Casting instance
func NewCasting(id int64, roleName string, actorID, movieID int64) *Casting {
	return &Casting{
		ID:        id,
		RoleName:  roleName,
		ActorID:   actorID,
		MovieID:   movieID,
		CreatedAt: time.Now().UTC(),
	}
}
