package exercises

import (
	"context"
	"sort"
	"strings"

	"example.com/habitkick/internal/domain"
)

// Catalog is a fixed set of common exercises searched by name substring.
type Catalog struct {
	entries []domain.Exercise
}

// NewCatalog returns the built-in catalog.
func NewCatalog() *Catalog {
	entries := make([]domain.Exercise, len(builtin))
	copy(entries, builtin)
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return &Catalog{entries: entries}
}

var builtin = []domain.Exercise{
	{Name: "Bodyweight Squat", Type: "strength", Muscle: "quadriceps", Equipment: "none", Difficulty: "beginner", Targets: []string{"quadriceps", "glutes"}},
	{Name: "Barbell Back Squat", Type: "strength", Muscle: "quadriceps", Equipment: "barbell", Difficulty: "intermediate", Targets: []string{"quadriceps", "glutes", "hamstrings"}},
	{Name: "Deadlift", Type: "strength", Muscle: "hamstrings", Equipment: "barbell", Difficulty: "intermediate", Targets: []string{"hamstrings", "glutes", "lower_back"}},
	{Name: "Push-Up", Type: "strength", Muscle: "chest", Equipment: "none", Difficulty: "beginner", Targets: []string{"chest", "triceps"}},
	{Name: "Bench Press", Type: "strength", Muscle: "chest", Equipment: "barbell", Difficulty: "intermediate", Targets: []string{"chest", "triceps", "shoulders"}},
	{Name: "Pull-Up", Type: "strength", Muscle: "lats", Equipment: "pull-up bar", Difficulty: "intermediate", Targets: []string{"lats", "biceps"}},
	{Name: "Dumbbell Row", Type: "strength", Muscle: "middle_back", Equipment: "dumbbell", Difficulty: "beginner", Targets: []string{"middle_back", "biceps"}},
	{Name: "Overhead Press", Type: "strength", Muscle: "shoulders", Equipment: "barbell", Difficulty: "intermediate", Targets: []string{"shoulders", "triceps"}},
	{Name: "Walking Lunge", Type: "strength", Muscle: "quadriceps", Equipment: "none", Difficulty: "beginner", Targets: []string{"quadriceps", "glutes"}},
	{Name: "Plank", Type: "strength", Muscle: "abdominals", Equipment: "mat", Difficulty: "beginner", Targets: []string{"abdominals"}},
	{Name: "Easy Run", Type: "cardio", Equipment: "running shoes", Difficulty: "beginner", Targets: []string{"cardio"}},
	{Name: "Long Run", Type: "cardio", Equipment: "running shoes", Difficulty: "advanced", Targets: []string{"cardio", "legs"}},
	{Name: "Tempo Ride", Type: "cardio", Equipment: "bike", Difficulty: "intermediate", Targets: []string{"cardio", "legs"}},
	{Name: "Recovery Ride", Type: "cardio", Equipment: "bike", Difficulty: "beginner", Targets: []string{"cardio"}},
	{Name: "Jump Rope", Type: "cardio", Equipment: "rope", Difficulty: "beginner", Targets: []string{"cardio", "calves"}},
	{Name: "Yoga Flow", Type: "stretching", Equipment: "mat", Difficulty: "beginner", Targets: []string{"flexibility", "balance"}},
}

// SearchExercises implements domain.ExerciseSearcher. An empty query lists the catalog.
func (c *Catalog) SearchExercises(_ context.Context, query string, limit int) ([]domain.Exercise, error) {
	normalized := strings.ToLower(strings.TrimSpace(query))
	results := make([]domain.Exercise, 0)
	for _, ex := range c.entries {
		if len(results) >= limit {
			break
		}
		if normalized == "" || strings.Contains(strings.ToLower(ex.Name), normalized) {
			results = append(results, ex)
		}
	}
	return results, nil
}
