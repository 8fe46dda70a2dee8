package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// WorkoutList groups planned workouts.
type WorkoutList struct {
	ID        string
	UserID    string
	Name      string
	CreatedAt time.Time
}

// Workout is one exercise entry in a list.
type Workout struct {
	ID        string
	ListID    string
	UserID    string
	Exercise  string
	Sets      int
	Reps      int
	WeightKg  *float64
	CreatedAt time.Time
}

// Exercise describes a movement from the exercise catalog or provider.
type Exercise struct {
	Name         string   `json:"name"`
	Type         string   `json:"type,omitempty"`
	Muscle       string   `json:"muscle,omitempty"`
	Equipment    string   `json:"equipment,omitempty"`
	Difficulty   string   `json:"difficulty,omitempty"`
	Instructions string   `json:"instructions,omitempty"`
	Targets      []string `json:"targets,omitempty"`
}

// ExerciseSearcher finds exercises by name.
type ExerciseSearcher interface {
	SearchExercises(ctx context.Context, query string, limit int) ([]Exercise, error)
}

// WorkoutRepository captures list and workout persistence.
type WorkoutRepository interface {
	CreateList(ctx context.Context, list WorkoutList) error
	GetList(ctx context.Context, userID, listID string) (*WorkoutList, error)
	ListLists(ctx context.Context, userID string) ([]WorkoutList, error)
	RenameList(ctx context.Context, userID, listID, name string) error
	DeleteList(ctx context.Context, userID, listID string) error
	AddWorkout(ctx context.Context, workout Workout) error
	ListWorkouts(ctx context.Context, userID, listID string) ([]Workout, error)
	RemoveWorkout(ctx context.Context, userID, listID, workoutID string) error
	CountWorkoutsSince(ctx context.Context, userID string, since time.Time) (int, error)
}

// WorkoutService orchestrates workout lists.
type WorkoutService struct {
	repo      WorkoutRepository
	exercises ExerciseSearcher
	now       func() time.Time
}

// NewWorkoutService constructs a WorkoutService.
func NewWorkoutService(repo WorkoutRepository, exercises ExerciseSearcher) *WorkoutService {
	return &WorkoutService{repo: repo, exercises: exercises, now: time.Now}
}

// CreateList stores a named list.
func (s *WorkoutService) CreateList(ctx context.Context, userID, name string) (*WorkoutList, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationError("name is required")
	}
	list := WorkoutList{ID: uuid.NewString(), UserID: userID, Name: name, CreatedAt: s.now().UTC()}
	if err := s.repo.CreateList(ctx, list); err != nil {
		return nil, err
	}
	return &list, nil
}

// ListLists returns the user's lists.
func (s *WorkoutService) ListLists(ctx context.Context, userID string) ([]WorkoutList, error) {
	return s.repo.ListLists(ctx, userID)
}

// RenameList changes the list name.
func (s *WorkoutService) RenameList(ctx context.Context, userID, listID, name string) (*WorkoutList, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationError("name is required")
	}
	list, err := s.getList(ctx, userID, listID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.RenameList(ctx, userID, listID, name); err != nil {
		return nil, err
	}
	list.Name = name
	return list, nil
}

// DeleteList removes a list and its workouts.
func (s *WorkoutService) DeleteList(ctx context.Context, userID, listID string) error {
	if _, err := s.getList(ctx, userID, listID); err != nil {
		return err
	}
	return s.repo.DeleteList(ctx, userID, listID)
}

// AddWorkoutInput captures the payload from the API layer.
type AddWorkoutInput struct {
	UserID   string
	ListID   string
	Exercise string
	Sets     int
	Reps     int
	WeightKg *float64
}

// AddWorkout appends a workout to a list.
func (s *WorkoutService) AddWorkout(ctx context.Context, input AddWorkoutInput) (*Workout, error) {
	exercise := strings.TrimSpace(input.Exercise)
	if exercise == "" {
		return nil, validationError("exercise is required")
	}
	if input.Sets <= 0 || input.Reps <= 0 {
		return nil, validationError("sets and reps must be > 0")
	}
	if input.WeightKg != nil && *input.WeightKg < 0 {
		return nil, validationError("weight_kg must be >= 0")
	}
	if _, err := s.getList(ctx, input.UserID, input.ListID); err != nil {
		return nil, err
	}

	workout := Workout{
		ID:        uuid.NewString(),
		ListID:    input.ListID,
		UserID:    input.UserID,
		Exercise:  exercise,
		Sets:      input.Sets,
		Reps:      input.Reps,
		WeightKg:  input.WeightKg,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.AddWorkout(ctx, workout); err != nil {
		return nil, err
	}
	return &workout, nil
}

// ListWorkouts returns the workouts of a list.
func (s *WorkoutService) ListWorkouts(ctx context.Context, userID, listID string) ([]Workout, error) {
	if _, err := s.getList(ctx, userID, listID); err != nil {
		return nil, err
	}
	return s.repo.ListWorkouts(ctx, userID, listID)
}

// RemoveWorkout deletes one workout from a list.
func (s *WorkoutService) RemoveWorkout(ctx context.Context, userID, listID, workoutID string) error {
	if strings.TrimSpace(workoutID) == "" {
		return validationError("workout id is required")
	}
	return s.repo.RemoveWorkout(ctx, userID, listID, workoutID)
}

// SearchExercises queries the exercise provider.
func (s *WorkoutService) SearchExercises(ctx context.Context, query string, limit int) ([]Exercise, error) {
	if s.exercises == nil {
		return nil, errors.New("exercise search is not configured")
	}
	return s.exercises.SearchExercises(ctx, strings.TrimSpace(query), clampLimit(limit, 10, 50))
}

func (s *WorkoutService) getList(ctx context.Context, userID, listID string) (*WorkoutList, error) {
	if strings.TrimSpace(listID) == "" {
		return nil, validationError("list id is required")
	}
	list, err := s.repo.GetList(ctx, userID, listID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		return nil, ErrNotFound
	}
	return list, nil
}
