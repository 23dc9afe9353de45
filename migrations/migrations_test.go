package migrations

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFiles(t *testing.T) {
	names, err := Files()
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "0001_init.sql", names[0])
}

func TestSchemaTables(t *testing.T) {
	sql, err := files.ReadFile("0001_init.sql")
	require.NoError(t, err)

	for _, table := range []string{
		"tenants", "admins", "registration_fields", "guests", "rooms", "events",
		"campaigns", "tickets", "activities", "app_settings", "audit_logs",
	} {
		assert.Contains(t, string(sql), "CREATE TABLE IF NOT EXISTS "+table+" (", table)
	}

	// duplicate guest emails are guarded by a lookup, not a constraint
	assert.False(t, strings.Contains(string(sql), "UNIQUE INDEX IF NOT EXISTS idx_guests"))
}
