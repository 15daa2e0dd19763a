package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPagination_HasMore(t *testing.T) {
	assert.True(t, Pagination{Page: 1, TotalPages: 3}.HasMore())
	assert.False(t, Pagination{Page: 3, TotalPages: 3}.HasMore())
	assert.False(t, Pagination{}.HasMore())
	assert.False(t, SinglePage([]string{"a", "b"}).Pagination.HasMore())
}

func TestEnvelope_OmitsEmptyData(t *testing.T) {
	raw, err := json.Marshal(Envelope[any]{Message: "Not authenticated"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"message":"Not authenticated"}`, string(raw))

	raw, err = json.Marshal(Envelope[any]{Success: true, Data: []string{}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"data":[]}`, string(raw))
}
