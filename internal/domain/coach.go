package domain

import (
	"context"
	"fmt"
	"strings"
)

const maxCoachMessages = 20

// ChatMessage is one turn of a coach conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatModel answers a conversation.
type ChatModel interface {
	Chat(ctx context.Context, messages []ChatMessage) (ChatMessage, error)
}

// CoachService answers fitness questions with the user's context.
type CoachService struct {
	model   ChatModel
	weights WeightRepository
	goals   GoalRepository
}

// NewCoachService constructs a CoachService.
func NewCoachService(model ChatModel, weights WeightRepository, goals GoalRepository) *CoachService {
	return &CoachService{model: model, weights: weights, goals: goals}
}

// Chat prepends a system prompt describing the user and forwards the conversation.
func (s *CoachService) Chat(ctx context.Context, userID string, messages []ChatMessage) (ChatMessage, error) {
	if len(messages) == 0 {
		return ChatMessage{}, validationError("messages are required")
	}
	if len(messages) > maxCoachMessages {
		messages = messages[len(messages)-maxCoachMessages:]
	}
	for _, m := range messages {
		if m.Role != "user" && m.Role != "assistant" {
			return ChatMessage{}, validationError("role must be user or assistant")
		}
		if strings.TrimSpace(m.Content) == "" {
			return ChatMessage{}, validationError("message content is required")
		}
	}

	prompt, err := s.systemPrompt(ctx, userID)
	if err != nil {
		return ChatMessage{}, err
	}
	conversation := append([]ChatMessage{{Role: "system", Content: prompt}}, messages...)

	reply, err := s.model.Chat(ctx, conversation)
	if err != nil {
		return ChatMessage{}, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	return reply, nil
}

func (s *CoachService) systemPrompt(ctx context.Context, userID string) (string, error) {
	var b strings.Builder
	b.WriteString("You are HabitKick's fitness coach. Give short, practical, encouraging advice. ")
	b.WriteString("Do not give medical diagnoses.")

	latest, err := s.weights.LatestWeight(ctx, userID)
	if err != nil {
		return "", err
	}
	if latest != nil {
		fmt.Fprintf(&b, " The user's latest weight is %.1f kg (logged %s).", latest.WeightKg, latest.RecordedAt.Format(dayLayout))
	}

	goals, err := s.goals.ListGoals(ctx, userID, GoalStatusActive)
	if err != nil {
		return "", err
	}
	for _, g := range goals {
		fmt.Fprintf(&b, " Active %s goal: target %.1f.", g.Type, g.TargetValue)
	}
	return b.String(), nil
}
