package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memorylane/memorylane/internal/client/models"
)

func TestUnmarshalList_AllShapesAgree(t *testing.T) {
	items := `[{"id":"a","title":"First"},{"id":"b","title":"Second"}]`

	shapes := map[string]string{
		"bare array":  items,
		"data field":  `{"data":` + items + `}`,
		"named field": `{"memories":` + items + `}`,
	}

	var want []models.Memory
	for name, body := range shapes {
		t.Run(name, func(t *testing.T) {
			got, err := UnmarshalList[models.Memory]([]byte(body), "memories")
			require.NoError(t, err)
			require.Len(t, got, 2)
			assert.Equal(t, "a", got[0].ID)
			assert.Equal(t, "b", got[1].ID)
			if want == nil {
				want = got
			} else {
				assert.Equal(t, want, got, "every shape normalizes to the identical sequence")
			}
		})
	}
}

func TestUnmarshalList_NamedFieldWinsOverData(t *testing.T) {
	body := `{"memories":[{"id":"named"}],"data":[{"id":"generic"}]}`
	got, err := UnmarshalList[models.Memory]([]byte(body), "memories")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "named", got[0].ID)
}

func TestUnmarshalList_Degenerates(t *testing.T) {
	for name, body := range map[string]string{
		"empty body":      ``,
		"null":            `null`,
		"unknown keys":    `{"pagination":{"totalPages":3}}`,
		"null list field": `{"data":null}`,
	} {
		t.Run(name, func(t *testing.T) {
			got, err := UnmarshalList[models.Memory]([]byte(body), "memories")
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}
}

func TestUnmarshalObject_Shapes(t *testing.T) {
	for name, body := range map[string]string{
		"bare":  `{"id":"a1","name":"Trip"}`,
		"data":  `{"data":{"id":"a1","name":"Trip"}}`,
		"named": `{"album":{"id":"a1","name":"Trip"}}`,
	} {
		t.Run(name, func(t *testing.T) {
			got, err := UnmarshalObject[models.Album]([]byte(body), "album")
			require.NoError(t, err)
			assert.Equal(t, "a1", got.ID)
			assert.Equal(t, "Trip", got.Name)
		})
	}
}

func TestUnmarshalObject_ScalarFieldDoesNotShadow(t *testing.T) {
	// A stats payload whose "data" would match, next to a scalar named field.
	body := `{"album":3,"data":{"id":"a1"}}`
	got, err := UnmarshalObject[models.Album]([]byte(body), "album")
	require.NoError(t, err)
	assert.Equal(t, "a1", got.ID)
}

func TestParseTotalPages(t *testing.T) {
	assert.Equal(t, 4, parseTotalPages([]byte(`{"memories":[],"pagination":{"totalPages":4}}`)))
	assert.Equal(t, 0, parseTotalPages([]byte(`{"memories":[]}`)))
	assert.Equal(t, 0, parseTotalPages([]byte(`[]`)))
}
