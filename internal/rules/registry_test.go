package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	testCases := []struct {
		in, want string
	}{
		{"RuleBgCasual", "RuleBgCasual"},
		{"../../etc/passwd", "etcpasswd"},
		{"Rule Bg-Casual_2!", "RuleBg-Casual_2"},
		{"", ""},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, SanitizeName(tc.in), tc.in)
	}
}

func TestDefaultRegistryLookup(t *testing.T) {
	r := DefaultRegistry()
	assert.Equal(t, []string{"RuleBgCasual", "RuleBgNackgammon"}, r.Names())

	e, err := r.Lookup("RuleBgCasual")
	require.NoError(t, err)
	assert.Equal(t, "RuleBgCasual", e.Name())
	assert.Equal(t, 24, e.MaxPoints())

	// lookups are sanitized before they hit the map
	e, err = r.Lookup("Rule/Bg.Casual")
	require.NoError(t, err)
	assert.Equal(t, "RuleBgCasual", e.Name())

	_, err = r.Lookup("RuleBgMissing")
	assert.ErrorIs(t, err, ErrUnknownRule)
}

type namedRule struct {
	*Backgammon
	name string
}

func (n namedRule) Name() string { return n.name }

func TestRegisterRejectsBadNames(t *testing.T) {
	r := NewRegistry()

	assert.ErrorIs(t, r.Register(namedRule{NewBgCasual(), ""}), ErrInvalidRuleName)
	assert.ErrorIs(t, r.Register(namedRule{NewBgCasual(), "rule.js"}), ErrInvalidRuleName)

	require.NoError(t, r.Register(NewBgCasual()))
	assert.ErrorIs(t, r.Register(NewBgCasual()), ErrDuplicateRule)
}
