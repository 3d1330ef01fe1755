package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venturescope/venturescope/core"
)

func TestDefault_OrderAndIdentity(t *testing.T) {
	reg := Default()

	keys := reg.Keys()
	assert.Equal(t, []string{
		KeyCompanyOverview,
		KeyKeyPeople,
		KeyMarketSizing,
		KeyCompetitorLandscape,
		KeyGrowthMetrics,
	}, keys)

	seen := map[string]bool{}
	for _, d := range reg.List() {
		assert.False(t, seen[d.Key], "duplicate task %s", d.Key)
		seen[d.Key] = true
		assert.NotEmpty(t, d.Label)
		assert.NotEmpty(t, d.Instructions)
		assert.NotEmpty(t, d.Requires)
		assert.NotEmpty(t, d.RequiredKeys)
	}
}

func TestRegistry_Filter(t *testing.T) {
	reg := Default()

	// Empty focus selects all tasks.
	assert.Len(t, reg.Filter(nil), 5)
	assert.Len(t, reg.Filter([]string{}), 5)

	// Subset preserves registry order regardless of focus order.
	defs := reg.Filter([]string{KeyGrowthMetrics, KeyCompanyOverview})
	require.Len(t, defs, 2)
	assert.Equal(t, KeyCompanyOverview, defs[0].Key)
	assert.Equal(t, KeyGrowthMetrics, defs[1].Key)
}

func TestRegistry_Unknown(t *testing.T) {
	reg := Default()
	assert.Empty(t, reg.Unknown([]string{KeyKeyPeople}))
	assert.Equal(t, []string{"nonsense"}, reg.Unknown([]string{KeyKeyPeople, "nonsense"}))
}

func TestRegistry_Get(t *testing.T) {
	reg := Default()

	d, ok := reg.Get(KeyMarketSizing)
	require.True(t, ok)
	assert.Equal(t, core.TypeStat, d.Shape)
	assert.Equal(t, core.SizeSmall, d.Size)
	assert.Equal(t, []core.Capability{core.CapabilitySearch}, d.Requires)

	_, ok = reg.Get("missing")
	assert.False(t, ok)
}
