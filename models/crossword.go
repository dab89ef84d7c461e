package models

import "time"

// WordDirection is the placement axis of a crossword answer.
type WordDirection string

const (
	DirectionAcross WordDirection = "across"
	DirectionDown   WordDirection = "down"
)

// CrosswordPuzzle is the puzzle catalog entry. Words carry the placements
// the grid helpers verify against.
type CrosswordPuzzle struct {
	ID         string        `gorm:"primaryKey;type:uuid" json:"id"`
	Title      string        `gorm:"not null" json:"title"`
	Slug       string        `gorm:"uniqueIndex;not null" json:"slug"`
	Difficulty string        `gorm:"type:varchar(16);default:'easy'" json:"difficulty"`
	Rows       int           `gorm:"not null" json:"rows"`
	Cols       int           `gorm:"not null" json:"cols"`
	Status     ContentStatus `gorm:"not null;default:'draft'" json:"status"`
	PublishAt  *time.Time    `json:"publish_at,omitempty"`

	Words []PuzzleWord `gorm:"foreignKey:PuzzleID" json:"words,omitempty"`

	Timestamps
}

// PuzzleWord is one placed answer with its clue.
type PuzzleWord struct {
	ID        string        `gorm:"primaryKey;type:uuid" json:"id"`
	PuzzleID  string        `gorm:"index;not null" json:"puzzle_id"`
	Number    int           `json:"number"`
	Answer    string        `gorm:"not null" json:"answer"`
	Clue      string        `gorm:"type:text" json:"clue"`
	Row       int           `json:"row"`
	Col       int           `json:"col"`
	Direction WordDirection `gorm:"type:varchar(8);not null" json:"direction"`
}

// UserPuzzleProgress is the single mutable row tracking one user's attempt
// at one puzzle. The composite unique index turns a double-start race into
// a clean conflict instead of a duplicate row.
type UserPuzzleProgress struct {
	ID          string     `gorm:"primaryKey;type:uuid" json:"id"`
	UserID      string     `gorm:"index:idx_user_puzzle,unique;not null" json:"user_id"`
	PuzzleID    string     `gorm:"index:idx_user_puzzle,unique;not null" json:"puzzle_id"`
	CurrentGrid string     `gorm:"type:text" json:"current_grid"`
	IsCompleted bool       `gorm:"default:false" json:"is_completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	TimeSpent   int        `gorm:"default:0" json:"time_spent"` // seconds, client-reported
	HintsUsed   int        `gorm:"default:0" json:"hints_used"`
	Score       int        `gorm:"default:0" json:"score"`
	StartedAt   time.Time  `json:"started_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
