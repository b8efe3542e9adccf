package keepass

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	m := Kaspersky()

	tests := []struct {
		label string
		want  Column
	}{
		{"Application", ColumnTitle},
		{"Website name", ColumnTitle},
		{"Login", ColumnUserName},
		{"Password", ColumnPassword},
		{"Website URL", ColumnURL},
		{"Comment", ColumnNotes},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			col, ok, err := m.Lookup(tt.label)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, tt.want, col)
		})
	}
}

func TestLookupDropped(t *testing.T) {
	col, ok, err := Kaspersky().Lookup("Login name")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, col)
}

func TestLookupUnknown(t *testing.T) {
	for _, label := range []string{"Secret Note", "", "login", "Password "} {
		_, ok, err := Kaspersky().Lookup(label)
		assert.False(t, ok)

		var unknown *UnknownFieldError
		require.True(t, errors.As(err, &unknown), "label %q should be rejected", label)
		assert.Equal(t, label, unknown.Label)
		assert.Contains(t, err.Error(), "unknown field label")
	}
}

func TestIsSecret(t *testing.T) {
	m := Kaspersky()
	assert.True(t, m.IsSecret("Password"))
	assert.False(t, m.IsSecret("Login"))
	assert.False(t, m.IsSecret("Secret Note"))
}

func TestLabels(t *testing.T) {
	assert.Equal(t, []string{
		"Application", "Comment", "Login", "Login name", "Password", "Website URL", "Website name",
	}, Kaspersky().Labels())
}
