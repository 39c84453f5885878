package smartfolderservice

import (
	"testing"
	"time"

	"docvault/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefinition_FullShape(t *testing.T) {
	t.Parallel()

	query, err := ParseDefinition(`{
		"query": " contract ",
		"documentTypes": ["contract", "invoice"],
		"departments": ["legal"],
		"uploadedBy": ["docowner1"],
		"tags": ["nda", "2024"],
		"isActive": true,
		"createdFrom": "2024-01-01",
		"createdTo": "2024-12-31T23:59:59Z",
		"minConfidence": 0.8
	}`)

	require.NoError(t, err)
	assert.Equal(t, "contract", query.Text)
	assert.Equal(t, []string{"contract", "invoice"}, query.Types)
	assert.Equal(t, []string{"legal"}, query.Departments)
	assert.Equal(t, []string{"docowner1"}, query.Uploaders)
	assert.Equal(t, []string{"nda", "2024"}, query.Tags)
	require.NotNil(t, query.Active)
	assert.True(t, *query.Active)
	require.NotNil(t, query.CreatedFrom)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), query.CreatedFrom.UTC())
	require.NotNil(t, query.MinConfidence)
	assert.InDelta(t, 0.8, *query.MinConfidence, 0.001)
}

func TestParseDefinition_ScalarsAcceptedAsLists(t *testing.T) {
	t.Parallel()

	query, err := ParseDefinition(`{"documentTypes":"invoice","tags":"urgent"}`)

	require.NoError(t, err)
	assert.Equal(t, []string{"invoice"}, query.Types)
	assert.Equal(t, []string{"urgent"}, query.Tags)
}

func TestParseDefinition_EmptyObject(t *testing.T) {
	t.Parallel()

	query, err := ParseDefinition(`{}`)

	require.NoError(t, err)
	assert.Empty(t, query.Text)
	assert.Nil(t, query.Active)
}

func TestParseDefinition_Malformed(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"truncated":       `{"query":`,
		"wrong type":      `{"documentTypes":42}`,
		"unknown field":   `{"colour":"red"}`,
		"bad date":        `{"createdFrom":"soon"}`,
		"inverted window": `{"createdFrom":"2024-06-01","createdTo":"2024-01-01"}`,
		"not an object":   `[1,2,3]`,
	}

	for name, definition := range cases {
		definition := definition
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseDefinition(definition)
			assert.ErrorIs(t, err, models.ErrBadDefinition)
		})
	}
}
