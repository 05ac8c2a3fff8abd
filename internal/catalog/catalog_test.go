package catalog

import (
	"net/http"
	"testing"

	"jaggery_back_end/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	list := c.List()
	require.NotEmpty(t, list)
	for i := 1; i < len(list); i++ {
		assert.Less(t, list[i-1].ID, list[i].ID)
	}

	p, err := c.Lookup(1)
	require.NoError(t, err)
	assert.Equal(t, "Organic Jaggery Block", p.Title)

	_, err = c.Lookup(999)
	assert.Equal(t, http.StatusNotFound, apperr.Status(err))
}
