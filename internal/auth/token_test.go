package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/dangerclosesec/transpiler/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := auth.NewTokenManager("test_secret", time.Hour)

	token, err := tm.Generate("ops", auth.ScopeGrammarAdmin)
	require.NoError(t, err)

	claims, err := tm.Authorize(token, auth.ScopeGrammarAdmin)
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.Subject)
	assert.True(t, claims.HasScope(auth.ScopeGrammarAdmin))
}

func TestTokenRejections(t *testing.T) {
	tm := auth.NewTokenManager("test_secret", time.Hour)

	t.Run("missing scope", func(t *testing.T) {
		token, err := tm.Generate("reader")
		require.NoError(t, err)

		_, err = tm.Validate(token)
		require.NoError(t, err)

		_, err = tm.Authorize(token, auth.ScopeGrammarAdmin)
		assert.True(t, errors.Is(err, auth.ErrMissingScope))
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := auth.NewTokenManager("other_secret", time.Hour)
		token, err := other.Generate("ops", auth.ScopeGrammarAdmin)
		require.NoError(t, err)

		_, err = tm.Validate(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		expired := auth.NewTokenManager("test_secret", -time.Minute)
		token, err := expired.Generate("ops", auth.ScopeGrammarAdmin)
		require.NoError(t, err)

		_, err = tm.Validate(token)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := tm.Validate("not-a-token")
		assert.Error(t, err)
	})
}
