package permissions_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldport/authzkit/pkg/permissions"
)

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("valid keys", func(t *testing.T) {
		t.Parallel()

		key, err := permissions.Parse("contracts:read:own")
		require.NoError(t, err)
		assert.Equal(t, "contracts", key.Resource)
		assert.Equal(t, "read", key.Action)
		assert.Equal(t, "own", key.Scope)
		assert.Equal(t, "contracts:read:own", key.String())

		key, err = permissions.Parse("company:manage:all")
		require.NoError(t, err)
		assert.Equal(t, "all", key.Scope)
	})

	t.Run("rejects malformed keys", func(t *testing.T) {
		t.Parallel()

		invalid := []string{
			"",
			"contracts",
			"contracts:read",
			"contracts:read:own:extra",
			"contracts::own",
			"contracts:read:global",
			"contracts:read :own",
			"*",
			"contracts:*",
		}
		for _, p := range invalid {
			_, err := permissions.Parse(p)
			assert.ErrorIs(t, err, permissions.ErrInvalidPermission, "key %q", p)
		}
	})
}

func TestMatches(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		permission string
		pattern    string
		want       bool
	}{
		{"exact match", "contracts:read:own", "contracts:read:own", true},
		{"different key", "contracts:read:own", "contracts:write:own", false},
		{"global wildcard", "company:manage:all", "*", true},
		{"resource wildcard", "contracts:read:own", "contracts:*", true},
		{"resource wildcard other resource", "workforce:read:own", "contracts:*", false},
		{"action wildcard covers both scopes", "contracts:read:all", "contracts:read:*", true},
		{"wildcard does not match bare resource", "contracts", "contracts:*", false},
		{"no partial prefix match", "contractsx:read:own", "contracts:*", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, permissions.Matches(tt.permission, tt.pattern))
		})
	}
}

func TestGranted(t *testing.T) {
	t.Parallel()

	grants := []string{"contracts:*", "workforce:read:own"}

	assert.True(t, permissions.Granted(grants, "contracts:read:own"))
	assert.True(t, permissions.Granted(grants, "contracts:delete:all"))
	assert.True(t, permissions.Granted(grants, "workforce:read:own"))
	assert.False(t, permissions.Granted(grants, "workforce:read:all"))
	assert.False(t, permissions.Granted(grants, "company:manage:all"))
	assert.False(t, permissions.Granted(nil, "contracts:read:own"))
}

func TestGrantedAny(t *testing.T) {
	t.Parallel()

	grants := []string{"contracts:read:own", "workforce:read:own"}

	t.Run("one of several required matches", func(t *testing.T) {
		t.Parallel()
		assert.True(t, permissions.GrantedAny(grants, []string{"company:manage:all", "workforce:read:own"}))
	})

	t.Run("none match", func(t *testing.T) {
		t.Parallel()
		assert.False(t, permissions.GrantedAny(grants, []string{"company:manage:all", "billing:read:all"}))
	})

	t.Run("empty required is satisfied", func(t *testing.T) {
		t.Parallel()
		assert.True(t, permissions.GrantedAny(grants, nil))
	})

	t.Run("empty grants deny non-empty required", func(t *testing.T) {
		t.Parallel()
		assert.False(t, permissions.GrantedAny(nil, []string{"contracts:read:own"}))
	})

	t.Run("global wildcard grants everything", func(t *testing.T) {
		t.Parallel()
		assert.True(t, permissions.GrantedAny([]string{"*"}, []string{"anything:at:all"}))
	})
}

func TestGrantedAll(t *testing.T) {
	t.Parallel()

	grants := []string{"contracts:*", "workforce:read:own"}

	assert.True(t, permissions.GrantedAll(grants, []string{"contracts:read:own", "contracts:write:all"}))
	assert.False(t, permissions.GrantedAll(grants, []string{"contracts:read:own", "company:manage:all"}))
	assert.True(t, permissions.GrantedAll(grants, nil))
	assert.True(t, permissions.GrantedAll([]string{"*"}, []string{"company:manage:all"}))
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	t.Run("deduplicates and sorts", func(t *testing.T) {
		t.Parallel()
		got := permissions.Normalize([]string{"b:read:own", "a:read:own", "b:read:own"})
		assert.Equal(t, []string{"a:read:own", "b:read:own"}, got)
	})

	t.Run("removes patterns covered by wildcard", func(t *testing.T) {
		t.Parallel()
		got := permissions.Normalize([]string{"contracts:*", "contracts:read:own", "workforce:read:own"})
		assert.Equal(t, []string{"contracts:*", "workforce:read:own"}, got)
	})

	t.Run("global wildcard collapses everything", func(t *testing.T) {
		t.Parallel()
		got := permissions.Normalize([]string{"contracts:read:own", "*", "workforce:*"})
		assert.Equal(t, []string{"*"}, got)
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, permissions.Normalize(nil))
		assert.Nil(t, permissions.Normalize([]string{"", "  "}))
	})
}

func TestValidate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, permissions.Validate("contracts:read:own", "company:manage:all"))
	assert.ErrorIs(t, permissions.Validate("contracts:read:own", "contracts:*"), permissions.ErrInvalidPermission)
	assert.NoError(t, permissions.Validate())
}
