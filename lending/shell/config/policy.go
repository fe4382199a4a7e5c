package config

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/AntonStoeckl/library-lending/lending/core"
	"github.com/AntonStoeckl/library-lending/lending/policy"
)

// PolicyConfig overrides the built-in loan terms. Money is given as a decimal string, e.g. "5" or "0.50".
//
//	policy:
//	  dailyFineRate: "5"
//	  roles:
//	    student: {periodDays: 7}
//	    teacher: {periodDays: 14, dailyFineRate: "2.50"}
type PolicyConfig struct {
	DailyFineRate string                `yaml:"dailyFineRate"`
	Roles         map[string]RolePolicy `yaml:"roles"`
}

type RolePolicy struct {
	PeriodDays    int    `yaml:"periodDays"`
	DailyFineRate string `yaml:"dailyFineRate"`
}

// Options translates the configuration into policy options: the global rate first, then each role
// in the stable order of core.AllRoles, so a role rate wins over the global one.
func (c PolicyConfig) Options() ([]policy.Option, error) {
	var opts []policy.Option

	if c.DailyFineRate != "" {
		rate, err := decimal.NewFromString(c.DailyFineRate)
		if err != nil {
			return nil, fmt.Errorf("policy.dailyFineRate %q: %w", c.DailyFineRate, err)
		}

		opts = append(opts, policy.WithDailyFineRate(rate))
	}

	byRole := make(map[core.Role]RolePolicy, len(c.Roles))
	for name, rp := range c.Roles {
		role, err := core.ParseRole(name)
		if err != nil {
			return nil, fmt.Errorf("policy.roles: %w", err)
		}

		byRole[role] = rp
	}

	for _, role := range core.AllRoles() {
		rp, ok := byRole[role]
		if !ok {
			continue
		}

		if rp.PeriodDays != 0 {
			opts = append(opts, policy.WithPeriodDays(role, rp.PeriodDays))
		}

		if rp.DailyFineRate != "" {
			rate, err := decimal.NewFromString(rp.DailyFineRate)
			if err != nil {
				return nil, fmt.Errorf("policy.roles.%s.dailyFineRate %q: %w", role, rp.DailyFineRate, err)
			}

			opts = append(opts, policy.WithRoleDailyFineRate(role, rate))
		}
	}

	return opts, nil
}

// Provider builds the policy provider, validating the terms.
func (c PolicyConfig) Provider() (*policy.Provider, error) {
	opts, err := c.Options()
	if err != nil {
		return nil, err
	}

	return policy.NewProvider(opts...)
}
