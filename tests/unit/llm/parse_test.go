package llm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridbill/internal/llm"
)

type payload struct {
	Total    float64 `json:"total"`
	Currency string  `json:"currency"`
}

func TestParseJSON(t *testing.T) {
	t.Run("clean json", func(t *testing.T) {
		var p payload
		err := llm.ParseJSON(`{"total": 184.27, "currency": "USD"}`, &p)
		require.NoError(t, err)
		assert.Equal(t, 184.27, p.Total)
	})

	t.Run("fenced block with language tag", func(t *testing.T) {
		var p payload
		err := llm.ParseJSON("Here is the result:\n```json\n{\"total\": 184.27, \"currency\": \"USD\"}\n```", &p)
		require.NoError(t, err)
		assert.Equal(t, "USD", p.Currency)
	})

	t.Run("fenced block without language tag", func(t *testing.T) {
		var p payload
		err := llm.ParseJSON("```\n{\"total\": 12.5, \"currency\": \"EUR\"}\n```", &p)
		require.NoError(t, err)
		assert.Equal(t, 12.5, p.Total)
	})

	t.Run("prose around the object", func(t *testing.T) {
		var p payload
		err := llm.ParseJSON(`The extracted totals are {"total": 99.0, "currency": "GBP"} as requested.`, &p)
		require.NoError(t, err)
		assert.Equal(t, "GBP", p.Currency)
	})

	t.Run("trailing comma repaired", func(t *testing.T) {
		var p payload
		err := llm.ParseJSON(`{"total": 42.0, "currency": "USD",}`, &p)
		require.NoError(t, err)
		assert.Equal(t, 42.0, p.Total)
	})

	t.Run("unrecoverable content fails permanently", func(t *testing.T) {
		var p payload
		err := llm.ParseJSON("I could not read the document at all.", &p)
		require.Error(t, err)

		var parseErr *llm.ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.False(t, llm.IsTransient(err))
	})
}
