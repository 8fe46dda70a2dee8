package domain

import "time"

// Clock setters let external tests pin time.

func (s *WeightService) SetClock(now func() time.Time)      { s.now = now }
func (s *GoalService) SetClock(now func() time.Time)        { s.now = now }
func (s *WaterService) SetClock(now func() time.Time)       { s.now = now }
func (s *CompetitionService) SetClock(now func() time.Time) { s.now = now }
func (s *ChallengeService) SetClock(now func() time.Time)   { s.now = now }
func (s *AccountService) SetClock(now func() time.Time)     { s.now = now }

// SetCost lowers the bcrypt cost in tests.
func (s *AccountService) SetCost(cost int) { s.cost = cost }
