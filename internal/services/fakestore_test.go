package services

import (
	"context"
	"time"

	"tally/internal/core"
)

// memStore is an in-memory Store used across the service tests. It
// mirrors the contract of the real repository: owner scoping, patch
// semantics and the boolean delete result.
type memStore struct {
	nextID       int64
	transactions []core.Transaction
	budgets      []core.Budget
	goals        []core.Goal
	profiles     map[int64]core.OwnerProfile

	listBudgetCalls      int
	listTransactionCalls int
	failWith             error
}

func newMemStore() *memStore {
	return &memStore{profiles: make(map[int64]core.OwnerProfile)}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) CreateTransaction(_ context.Context, ownerID int64, t core.Transaction) (core.Transaction, error) {
	if s.failWith != nil {
		return core.Transaction{}, s.failWith
	}
	t.ID = s.id()
	t.OwnerID = ownerID
	t.CreatedAt = time.Now().UTC()
	t.UpdatedAt = t.CreatedAt
	s.transactions = append(s.transactions, t)
	return t, nil
}

func (s *memStore) ListTransactions(_ context.Context, ownerID int64, filter core.TransactionFilter) ([]core.Transaction, error) {
	s.listTransactionCalls++
	if s.failWith != nil {
		return nil, s.failWith
	}
	var out []core.Transaction
	for _, t := range s.transactions {
		if t.OwnerID == ownerID && filter.Matches(t) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *memStore) UpdateTransaction(_ context.Context, ownerID, id int64, patch core.TransactionPatch) (core.Transaction, error) {
	for i, t := range s.transactions {
		if t.ID == id && t.OwnerID == ownerID {
			patch.Apply(&s.transactions[i])
			s.transactions[i].UpdatedAt = time.Now().UTC()
			return s.transactions[i], nil
		}
	}
	return core.Transaction{}, core.ErrNotFound
}

func (s *memStore) DeleteTransaction(_ context.Context, ownerID, id int64) (bool, error) {
	for i, t := range s.transactions {
		if t.ID == id && t.OwnerID == ownerID {
			s.transactions = append(s.transactions[:i], s.transactions[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) CreateBudget(_ context.Context, ownerID int64, b core.Budget) (core.Budget, error) {
	b.ID = s.id()
	b.OwnerID = ownerID
	s.budgets = append(s.budgets, b)
	return b, nil
}

func (s *memStore) ListBudgets(_ context.Context, ownerID int64) ([]core.Budget, error) {
	s.listBudgetCalls++
	if s.failWith != nil {
		return nil, s.failWith
	}
	var out []core.Budget
	for _, b := range s.budgets {
		if b.OwnerID == ownerID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *memStore) UpdateBudget(_ context.Context, ownerID, id int64, patch core.BudgetPatch) (core.Budget, error) {
	for i, b := range s.budgets {
		if b.ID == id && b.OwnerID == ownerID {
			patch.Apply(&s.budgets[i])
			return s.budgets[i], nil
		}
	}
	return core.Budget{}, core.ErrNotFound
}

func (s *memStore) DeleteBudget(_ context.Context, ownerID, id int64) (bool, error) {
	for i, b := range s.budgets {
		if b.ID == id && b.OwnerID == ownerID {
			s.budgets = append(s.budgets[:i], s.budgets[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) CreateGoal(_ context.Context, ownerID int64, g core.Goal) (core.Goal, error) {
	g.ID = s.id()
	g.OwnerID = ownerID
	s.goals = append(s.goals, g)
	return g, nil
}

func (s *memStore) ListGoals(_ context.Context, ownerID int64) ([]core.Goal, error) {
	var out []core.Goal
	for _, g := range s.goals {
		if g.OwnerID == ownerID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (s *memStore) UpdateGoal(_ context.Context, ownerID, id int64, patch core.GoalPatch) (core.Goal, error) {
	for i, g := range s.goals {
		if g.ID == id && g.OwnerID == ownerID {
			patch.Apply(&s.goals[i])
			return s.goals[i], nil
		}
	}
	return core.Goal{}, core.ErrNotFound
}

func (s *memStore) AddGoalFunds(_ context.Context, ownerID, id int64, delta core.Money) (core.Goal, error) {
	for i, g := range s.goals {
		if g.ID == id && g.OwnerID == ownerID {
			s.goals[i].Current = s.goals[i].Current.Add(delta)
			return s.goals[i], nil
		}
	}
	return core.Goal{}, core.ErrNotFound
}

func (s *memStore) DeleteGoal(_ context.Context, ownerID, id int64) (bool, error) {
	for i, g := range s.goals {
		if g.ID == id && g.OwnerID == ownerID {
			s.goals = append(s.goals[:i], s.goals[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) UpsertOwnerProfile(_ context.Context, profile core.OwnerProfile) (core.OwnerProfile, error) {
	if err := profile.Validate(); err != nil {
		return core.OwnerProfile{}, err
	}
	s.profiles[profile.ID] = profile
	return profile, nil
}
