package store

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := fs.ReadDir(migrations, "migrations")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	data, err := fs.ReadFile(migrations, "migrations/"+entries[0].Name())
	require.NoError(t, err)
	sql := string(data)
	assert.Contains(t, sql, "-- +goose Up")
	assert.Contains(t, sql, "-- +goose Down")
	for _, table := range []string{"users", "portfolio_items", "content", "services", "testimonials", "contacts"} {
		assert.True(t, strings.Contains(sql, "CREATE TABLE "+table+" "), table)
	}
	assert.Contains(t, sql, "users_username_key")
	assert.Contains(t, sql, "users_email_key")
}
