package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending/lending/core"
	"github.com/AntonStoeckl/library-lending/lending/policy"
	"github.com/AntonStoeckl/library-lending/lending/shell/config"
)

func Test_PolicyConfig_Provider_RoleRateWinsOverGlobalRate(t *testing.T) {
	// arrange
	cfg := config.PolicyConfig{
		DailyFineRate: "2",
		Roles: map[string]config.RolePolicy{
			"Teacher": {PeriodDays: 21, DailyFineRate: "0.50"},
		},
	}

	// act
	provider, err := cfg.Provider()

	// assert
	require.NoError(t, err)

	teacher, err := provider.TermsFor(core.RoleTeacher)
	require.NoError(t, err)
	assert.Equal(t, 21, teacher.PeriodDays)
	assert.Equal(t, "0.5", teacher.DailyFineRate.String())

	student, err := provider.TermsFor(core.RoleStudent)
	require.NoError(t, err)
	assert.Equal(t, policy.DefaultStudentPeriodDays, student.PeriodDays)
	assert.Equal(t, "2", student.DailyFineRate.String())
}

func Test_PolicyConfig_Provider_WithoutOverrides_IsTheDefault(t *testing.T) {
	// act
	provider, err := config.PolicyConfig{}.Provider()

	// assert
	require.NoError(t, err)

	for _, role := range core.AllRoles() {
		expected, err := policy.Default().TermsFor(role)
		require.NoError(t, err)

		actual, err := provider.TermsFor(role)
		require.NoError(t, err)

		assert.Equal(t, expected.PeriodDays, actual.PeriodDays, role.String())
		assert.True(t, expected.DailyFineRate.Equal(actual.DailyFineRate), role.String())
	}
}

func Test_PolicyConfig_Provider_Fails_WhenTermsAreInvalid(t *testing.T) {
	// arrange
	cfg := config.PolicyConfig{Roles: map[string]config.RolePolicy{"student": {PeriodDays: -1}}}

	// act
	provider, err := cfg.Provider()

	// assert
	assert.ErrorIs(t, err, policy.ErrInvalidPeriod)
	assert.Nil(t, provider)
}
