package core

import (
	"errors"
	"strings"
	"time"
)

// Kind is the polarity of a transaction.
type Kind string

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

func (k Kind) Valid() bool {
	return k == Income || k == Expense
}

// Category is the closed set of spending/income classifications.
type Category string

const (
	CategoryFood           Category = "food"
	CategoryTransportation Category = "transportation"
	CategoryEntertainment  Category = "entertainment"
	CategoryUtilities      Category = "utilities"
	CategoryHealthcare     Category = "healthcare"
	CategoryShopping       Category = "shopping"
	CategorySalary         Category = "salary"
	CategoryFreelance      Category = "freelance"
	CategoryInvestment     Category = "investment"
	CategoryOther          Category = "other"
)

// Categories lists every valid category in a fixed order.
var Categories = []Category{
	CategoryFood,
	CategoryTransportation,
	CategoryEntertainment,
	CategoryUtilities,
	CategoryHealthcare,
	CategoryShopping,
	CategorySalary,
	CategoryFreelance,
	CategoryInvestment,
	CategoryOther,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Period is the recurrence unit of a budget. It is not enforced against
// transaction dates by the store; the budget monitor interprets it.
type Period string

const (
	Weekly  Period = "weekly"
	Monthly Period = "monthly"
	Yearly  Period = "yearly"
)

func (p Period) Valid() bool {
	return p == Weekly || p == Monthly || p == Yearly
}

var (
	ErrNotFound = errors.New("not found")

	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidKind      = errors.New("invalid kind")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrInvalidPeriod    = errors.New("invalid period")
	ErrInvalidDate      = errors.New("invalid date")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyName        = errors.New("empty name")
	ErrInvalidTarget    = errors.New("target amount must be positive")
	ErrInvalidDelta     = errors.New("delta amount must be positive")
	ErrInvalidOwner     = errors.New("invalid owner id")
)

var validationErrs = []error{
	ErrInvalidAmount,
	ErrInvalidKind,
	ErrInvalidCategory,
	ErrInvalidPeriod,
	ErrInvalidDate,
	ErrEmptyDescription,
	ErrEmptyName,
	ErrInvalidTarget,
	ErrInvalidDelta,
	ErrInvalidOwner,
}

// IsValidation reports whether err belongs to the validation taxonomy:
// malformed input rejected before any store mutation, recoverable by
// the caller correcting it.
func IsValidation(err error) bool {
	for _, verr := range validationErrs {
		if errors.Is(err, verr) {
			return true
		}
	}
	return false
}

// DefaultCurrency is used when a request omits the currency code.
// Codes are stored and echoed back, never converted.
const DefaultCurrency = "EUR"

// Transaction is a dated income or expense entry. Amount is always
// non-negative; sign is implied by Kind.
type Transaction struct {
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"owner_id"`
	Kind        Kind      `json:"kind"`
	Description string    `json:"description"`
	Amount      Money     `json:"amount"`
	Category    Category  `json:"category"`
	Date        Date      `json:"date"`
	Currency    string    `json:"currency_code"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (t Transaction) Validate() error {
	if !t.Kind.Valid() {
		return ErrInvalidKind
	}
	if !t.Category.Valid() {
		return ErrInvalidCategory
	}
	if t.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	return nil
}

// TransactionPatch carries the fields of a partial update. Nil fields
// leave the stored value untouched.
type TransactionPatch struct {
	Kind        *Kind     `json:"kind,omitempty"`
	Description *string   `json:"description,omitempty"`
	Amount      *Money    `json:"amount,omitempty"`
	Category    *Category `json:"category,omitempty"`
	Date        *Date     `json:"date,omitempty"`
	Currency    *string   `json:"currency_code,omitempty"`
}

func (p TransactionPatch) Validate() error {
	if p.Kind != nil && !p.Kind.Valid() {
		return ErrInvalidKind
	}
	if p.Category != nil && !p.Category.Valid() {
		return ErrInvalidCategory
	}
	if p.Amount != nil && p.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if p.Date != nil {
		if err := p.Date.Validate(); err != nil {
			return err
		}
	}
	if p.Description != nil && len(strings.TrimSpace(*p.Description)) == 0 {
		return ErrEmptyDescription
	}
	return nil
}

// Apply overlays the present patch fields onto t.
func (p TransactionPatch) Apply(t *Transaction) {
	if p.Kind != nil {
		t.Kind = *p.Kind
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.Currency != nil {
		t.Currency = *p.Currency
	}
}

// TransactionFilter narrows a listing. Every field is independently
// optional; date bounds are inclusive, category and kind match exactly.
type TransactionFilter struct {
	Start    *Date
	End      *Date
	Category *Category
	Kind     *Kind
}

// Matches reports whether t satisfies every present predicate.
func (f TransactionFilter) Matches(t Transaction) bool {
	if f.Start != nil && t.Date.Before(f.Start.Time) {
		return false
	}
	if f.End != nil && t.Date.After(f.End.Time) {
		return false
	}
	if f.Category != nil && t.Category != *f.Category {
		return false
	}
	if f.Kind != nil && t.Kind != *f.Kind {
		return false
	}
	return true
}

// Budget is a spending limit for one category over a recurring period.
// Several budgets may exist for the same (owner, category): readers
// treat them as independent limits and never merge them.
type Budget struct {
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"owner_id"`
	Category  Category  `json:"category"`
	Amount    Money     `json:"amount"`
	Period    Period    `json:"period"`
	Currency  string    `json:"currency_code"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b Budget) Validate() error {
	if !b.Category.Valid() {
		return ErrInvalidCategory
	}
	if !b.Period.Valid() {
		return ErrInvalidPeriod
	}
	if b.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}

type BudgetPatch struct {
	Category *Category `json:"category,omitempty"`
	Amount   *Money    `json:"amount,omitempty"`
	Period   *Period   `json:"period,omitempty"`
	Currency *string   `json:"currency_code,omitempty"`
}

func (p BudgetPatch) Validate() error {
	if p.Category != nil && !p.Category.Valid() {
		return ErrInvalidCategory
	}
	if p.Period != nil && !p.Period.Valid() {
		return ErrInvalidPeriod
	}
	if p.Amount != nil && p.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}

func (p BudgetPatch) Apply(b *Budget) {
	if p.Category != nil {
		b.Category = *p.Category
	}
	if p.Amount != nil {
		b.Amount = *p.Amount
	}
	if p.Period != nil {
		b.Period = *p.Period
	}
	if p.Currency != nil {
		b.Currency = *p.Currency
	}
}

// Goal is an independent savings tracker. Current is only ever moved by
// explicit add-funds operations, never recomputed from transactions.
type Goal struct {
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Target      Money     `json:"target_amount"`
	Current     Money     `json:"current_amount"`
	TargetDate  Date      `json:"target_date,omitempty"`
	Currency    string    `json:"currency_code"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (g Goal) Validate() error {
	if len(strings.TrimSpace(g.Name)) == 0 {
		return ErrEmptyName
	}
	if g.Target.Cents <= 0 {
		return ErrInvalidTarget
	}
	if g.Current.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}

// Remaining returns how much is still missing to reach the target.
func (g Goal) Remaining() Money {
	return g.Target.Sub(g.Current)
}

// Reached reports whether the goal has been fully funded.
func (g Goal) Reached() bool {
	return g.Current.Cents >= g.Target.Cents
}

type GoalPatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Target      *Money  `json:"target_amount,omitempty"`
	TargetDate  *Date   `json:"target_date,omitempty"`
	Currency    *string `json:"currency_code,omitempty"`
}

func (p GoalPatch) Validate() error {
	if p.Name != nil && len(strings.TrimSpace(*p.Name)) == 0 {
		return ErrEmptyName
	}
	if p.Target != nil && p.Target.Cents <= 0 {
		return ErrInvalidTarget
	}
	return nil
}

func (p GoalPatch) Apply(g *Goal) {
	if p.Name != nil {
		g.Name = *p.Name
	}
	if p.Description != nil {
		g.Description = *p.Description
	}
	if p.Target != nil {
		g.Target = *p.Target
	}
	if p.TargetDate != nil {
		g.TargetDate = *p.TargetDate
	}
	if p.Currency != nil {
		g.Currency = *p.Currency
	}
}

// OwnerProfile holds the mutable profile fields of an owner. The id is
// assigned by the access gateway, not by the store.
type OwnerProfile struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Currency  string    `json:"currency_code"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (o OwnerProfile) Validate() error {
	if o.ID <= 0 {
		return ErrInvalidOwner
	}
	return nil
}
