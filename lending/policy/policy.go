// Package policy maps user roles to loan terms: the loan period in days and the daily fine rate.
package policy

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/AntonStoeckl/library-lending/lending/core"
)

const (
	DefaultStudentPeriodDays = 7
	DefaultTeacherPeriodDays = 14
	DefaultAdminPeriodDays   = 14
)

var (
	DefaultDailyFineRate = decimal.NewFromInt(5)

	ErrInvalidPeriod         = errors.New("loan period must be positive")
	ErrNegativeDailyFineRate = errors.New("daily fine rate must not be negative")
)

// Provider is a fixed role → terms table, safe for concurrent use after construction.
type Provider struct {
	terms map[core.Role]core.LoanTerms
}

// Option configures a Provider.
type Option func(*Provider) error

// WithTerms overrides the terms of one role.
func WithTerms(role core.Role, terms core.LoanTerms) Option {
	return func(p *Provider) error {
		if !role.IsValid() {
			return fmt.Errorf("%w: %q", core.ErrUnknownRole, role)
		}

		if terms.PeriodDays <= 0 {
			return fmt.Errorf("%w: %s has %d days", ErrInvalidPeriod, role, terms.PeriodDays)
		}

		if terms.DailyFineRate.IsNegative() {
			return fmt.Errorf("%w: %s has %s", ErrNegativeDailyFineRate, role, terms.DailyFineRate)
		}

		p.terms[role] = terms

		return nil
	}
}

// WithPeriodDays overrides only the loan period of one role.
func WithPeriodDays(role core.Role, days int) Option {
	return func(p *Provider) error {
		terms := p.terms[role]
		terms.PeriodDays = days

		return WithTerms(role, terms)(p)
	}
}

// WithRoleDailyFineRate overrides only the daily fine rate of one role.
func WithRoleDailyFineRate(role core.Role, rate decimal.Decimal) Option {
	return func(p *Provider) error {
		terms := p.terms[role]
		terms.DailyFineRate = rate

		return WithTerms(role, terms)(p)
	}
}

// WithDailyFineRate sets the same daily fine rate for every role.
func WithDailyFineRate(rate decimal.Decimal) Option {
	return func(p *Provider) error {
		for _, role := range core.AllRoles() {
			terms := p.terms[role]
			terms.DailyFineRate = rate

			if err := WithTerms(role, terms)(p); err != nil {
				return err
			}
		}

		return nil
	}
}

// NewProvider starts from the defaults and applies the options in order.
func NewProvider(opts ...Option) (*Provider, error) {
	p := &Provider{
		terms: map[core.Role]core.LoanTerms{
			core.RoleStudent: {PeriodDays: DefaultStudentPeriodDays, DailyFineRate: DefaultDailyFineRate},
			core.RoleTeacher: {PeriodDays: DefaultTeacherPeriodDays, DailyFineRate: DefaultDailyFineRate},
			core.RoleAdmin:   {PeriodDays: DefaultAdminPeriodDays, DailyFineRate: DefaultDailyFineRate},
		},
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Default is the provider with the built-in terms.
func Default() *Provider {
	p, _ := NewProvider() //nolint:errcheck // the defaults are valid

	return p
}

func (p *Provider) TermsFor(role core.Role) (core.LoanTerms, error) {
	terms, ok := p.terms[role]
	if !ok {
		return core.LoanTerms{}, fmt.Errorf("%w: %q", core.ErrUnknownRole, role)
	}

	return terms, nil
}

func (p *Provider) PeriodFor(role core.Role) (int, error) {
	terms, err := p.TermsFor(role)
	if err != nil {
		return 0, err
	}

	return terms.PeriodDays, nil
}

func (p *Provider) DailyRateFor(role core.Role) (decimal.Decimal, error) {
	terms, err := p.TermsFor(role)
	if err != nil {
		return decimal.Decimal{}, err
	}

	return terms.DailyFineRate, nil
}
