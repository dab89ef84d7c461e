// services/crossword.go
package services

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"campus-tour-system/models"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// Scoring constants: a completion is worth the base score, plus a bonus that
// decays one point per minute spent, minus a flat penalty per hint.
const (
	baseScore    = 1000
	maxTimeBonus = 300
	hintPenalty  = 50
)

// ComputeScore is a pure function of the client-reported time and hint
// count. Floors at zero.
func ComputeScore(timeSpentSec, hintsUsed int) int {
	bonus := maxTimeBonus - timeSpentSec/60
	if bonus < 0 {
		bonus = 0
	}
	score := baseScore + bonus - hintPenalty*hintsUsed
	if score < 0 {
		score = 0
	}
	return score
}

// CrosswordService owns the puzzle catalog and the per-(user, puzzle)
// progress tracker.
type CrosswordService struct {
	DB *gorm.DB

	now func() time.Time
}

func NewCrosswordService(db *gorm.DB) *CrosswordService {
	return &CrosswordService{DB: db, now: time.Now}
}

// Start creates the progress row for (user, puzzle). No existence pre-check:
// the composite unique index converts a concurrent double-start into a
// conflict instead of leaving a race window.
func (s *CrosswordService) Start(userID, puzzleID string) (*models.UserPuzzleProgress, error) {
	if userID == "" || puzzleID == "" {
		return nil, models.NewDomainError(models.ErrKindValidation, "user id and puzzle id are required")
	}

	var puzzle models.CrosswordPuzzle
	if err := s.DB.Where("id = ? AND status = ?", puzzleID, models.ContentStatusPublished).
		First(&puzzle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewDomainError(models.ErrKindNotFound, "puzzle not found")
		}
		return nil, err
	}

	progress := models.UserPuzzleProgress{
		ID:        uuid.NewString(),
		UserID:    userID,
		PuzzleID:  puzzleID,
		StartedAt: s.now(),
	}
	if err := s.DB.Create(&progress).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, models.NewDomainError(models.ErrKindConflict, "puzzle already started")
		}
		return nil, err
	}
	return &progress, nil
}

// GetProgress returns the user's progress row, or nil when the puzzle was
// never started (the endpoint serves that as a null payload, not an error).
func (s *CrosswordService) GetProgress(userID, puzzleID string) (*models.UserPuzzleProgress, error) {
	var progress models.UserPuzzleProgress
	err := s.DB.Where("user_id = ? AND puzzle_id = ?", userID, puzzleID).First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// ProgressPatch is a partial update; only non-nil fields are written.
type ProgressPatch struct {
	CurrentGrid *string `json:"current_grid"`
	TimeSpent   *int    `json:"time_spent"`
	HintsUsed   *int    `json:"hints_used"`
	Score       *int    `json:"score"`
	Completed   *bool   `json:"completed"`
}

// UpdateProgress applies the patch to an existing progress row. The client's
// completed flag is honored as-is; completion is stamped once and the score
// is computed server-side when the patch carries none. A completed row never
// reverts to in-progress.
func (s *CrosswordService) UpdateProgress(userID, puzzleID string, patch ProgressPatch) (*models.UserPuzzleProgress, error) {
	var progress models.UserPuzzleProgress
	if err := s.DB.Where("user_id = ? AND puzzle_id = ?", userID, puzzleID).
		First(&progress).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewDomainError(models.ErrKindNotFound, "puzzle not started")
		}
		return nil, err
	}

	if patch.CurrentGrid != nil {
		progress.CurrentGrid = *patch.CurrentGrid
	}
	if patch.TimeSpent != nil {
		progress.TimeSpent = *patch.TimeSpent
	}
	if patch.HintsUsed != nil {
		progress.HintsUsed = *patch.HintsUsed
	}
	if patch.Score != nil {
		progress.Score = *patch.Score
	}
	if patch.Completed != nil && *patch.Completed && !progress.IsCompleted {
		progress.IsCompleted = true
		now := s.now()
		progress.CompletedAt = &now
		if patch.Score == nil {
			progress.Score = ComputeScore(progress.TimeSpent, progress.HintsUsed)
		}
	}

	if err := s.DB.Save(&progress).Error; err != nil {
		return nil, err
	}
	return &progress, nil
}

// ListPuzzles returns the published catalog without word answers.
func (s *CrosswordService) ListPuzzles() ([]models.CrosswordPuzzle, error) {
	var puzzles []models.CrosswordPuzzle
	if err := s.DB.Where("status = ?", models.ContentStatusPublished).
		Order("created_at ASC").
		Find(&puzzles).Error; err != nil {
		return nil, err
	}
	return puzzles, nil
}

// CreatePuzzleInput is the admin payload for a new puzzle with its placed
// words.
type CreatePuzzleInput struct {
	Title      string               `json:"title"`
	Difficulty string               `json:"difficulty"`
	Rows       int                  `json:"rows"`
	Cols       int                  `json:"cols"`
	Status     models.ContentStatus `json:"status"`
	PublishAt  *time.Time           `json:"publish_at"`
	Words      []PuzzleWordInput    `json:"words"`
}

type PuzzleWordInput struct {
	Number    int                  `json:"number"`
	Answer    string               `json:"answer"`
	Clue      string               `json:"clue"`
	Row       int                  `json:"row"`
	Col       int                  `json:"col"`
	Direction models.WordDirection `json:"direction"`
}

// CreatePuzzle validates the word placements against the board (bounds and
// crossing-cell agreement) and persists puzzle plus words in one transaction.
func (s *CrosswordService) CreatePuzzle(in CreatePuzzleInput) (*models.CrosswordPuzzle, error) {
	if in.Title == "" {
		return nil, models.NewDomainError(models.ErrKindValidation, "title is required")
	}
	if in.Rows <= 0 || in.Cols <= 0 {
		return nil, models.NewDomainError(models.ErrKindValidation, "rows and cols must be positive")
	}
	if len(in.Words) == 0 {
		return nil, models.NewDomainError(models.ErrKindValidation, "at least one word is required")
	}
	if in.Status == "" {
		in.Status = models.ContentStatusDraft
	}
	if in.Status == models.ContentStatusScheduled && in.PublishAt == nil {
		return nil, models.NewDomainError(models.ErrKindValidation, "publish_at is required for scheduled puzzles")
	}

	puzzle := models.CrosswordPuzzle{
		ID:         uuid.NewString(),
		Title:      in.Title,
		Slug:       slug.Make(in.Title),
		Difficulty: in.Difficulty,
		Rows:       in.Rows,
		Cols:       in.Cols,
		Status:     in.Status,
		PublishAt:  in.PublishAt,
	}
	for _, w := range in.Words {
		if w.Answer == "" {
			return nil, models.NewDomainError(models.ErrKindValidation, "word answers must not be empty")
		}
		if w.Direction != models.DirectionAcross && w.Direction != models.DirectionDown {
			return nil, models.NewDomainError(models.ErrKindValidation, "word direction must be across or down")
		}
		puzzle.Words = append(puzzle.Words, models.PuzzleWord{
			ID:        uuid.NewString(),
			PuzzleID:  puzzle.ID,
			Number:    w.Number,
			Answer:    strings.ToUpper(w.Answer),
			Clue:      w.Clue,
			Row:       w.Row,
			Col:       w.Col,
			Direction: w.Direction,
		})
	}

	if _, err := BuildSolutionGrid(in.Rows, in.Cols, puzzle.Words); err != nil {
		return nil, err
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&puzzle).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return models.NewDomainError(models.ErrKindConflict, "a puzzle with this title already exists")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &puzzle, nil
}

// BuildSolutionGrid lays every word onto an empty board, failing on
// out-of-bounds placements or crossing cells that disagree.
func BuildSolutionGrid(rows, cols int, words []models.PuzzleWord) ([][]string, error) {
	grid := make([][]string, rows)
	for r := range grid {
		grid[r] = make([]string, cols)
	}
	for _, w := range words {
		answer := strings.ToUpper(w.Answer)
		for i, ch := range []rune(answer) {
			r, c := w.Row, w.Col
			if w.Direction == models.DirectionAcross {
				c += i
			} else {
				r += i
			}
			if r < 0 || r >= rows || c < 0 || c >= cols {
				return nil, models.NewDomainError(models.ErrKindValidation, "word placement out of bounds: "+answer)
			}
			letter := string(ch)
			if grid[r][c] != "" && grid[r][c] != letter {
				return nil, models.NewDomainError(models.ErrKindValidation, "conflicting letters at crossing cell for "+answer)
			}
			grid[r][c] = letter
		}
	}
	return grid, nil
}

// ParseGrid decodes the serialized board state stored in CurrentGrid.
func ParseGrid(serialized string) ([][]string, error) {
	var grid [][]string
	if err := json.Unmarshal([]byte(serialized), &grid); err != nil {
		return nil, models.NewDomainError(models.ErrKindValidation, "malformed grid state")
	}
	return grid, nil
}

// GridSatisfiesWords checks every placed word against the submitted grid,
// letter by letter, case-insensitively. Completion currently trusts the
// client flag; this is the hook for verifying it server-side instead.
func GridSatisfiesWords(grid [][]string, words []models.PuzzleWord) bool {
	for _, w := range words {
		answer := strings.ToUpper(w.Answer)
		for i, ch := range []rune(answer) {
			r, c := w.Row, w.Col
			if w.Direction == models.DirectionAcross {
				c += i
			} else {
				r += i
			}
			if r < 0 || r >= len(grid) || c < 0 || c >= len(grid[r]) {
				return false
			}
			if strings.ToUpper(grid[r][c]) != string(ch) {
				return false
			}
		}
	}
	return true
}
