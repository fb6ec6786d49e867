package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONMapScan(t *testing.T) {
	var m JSONMap
	require.NoError(t, m.Scan([]byte(`{"tokens": 12, "cached": true}`)))
	assert.Equal(t, float64(12), m["tokens"])
	assert.Equal(t, true, m["cached"])

	require.NoError(t, m.Scan(nil))
	assert.Empty(t, m)

	assert.Error(t, m.Scan(42))

	v, err := JSONMap(nil).Value()
	assert.NoError(t, err)
	assert.Nil(t, v)
}

func TestTranslationStatus(t *testing.T) {
	assert.True(t, (&Translation{Status: StatusSuccess}).Succeeded())
	assert.False(t, (&Translation{Status: StatusFailed}).Succeeded())
	assert.Equal(t, "translations", Translation{}.TableName())
}
