package today

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixed_StripsClock(t *testing.T) {
	p := Fixed(time.Date(2024, 6, 30, 23, 15, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC), p.Today())
}

func TestSystem_IsMidnightUTC(t *testing.T) {
	d := System{}.Today()
	assert.Equal(t, time.UTC, d.Location())
	assert.Zero(t, d.Hour())
	assert.Zero(t, d.Minute())
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvVar, "2024-07-01")
	p, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), p.Today())

	t.Setenv(EnvVar, "")
	p, err = FromEnv()
	require.NoError(t, err)
	assert.IsType(t, System{}, p)

	t.Setenv(EnvVar, "01-07-2024")
	_, err = FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvVar)
}
