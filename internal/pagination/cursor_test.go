package pagination

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUUID = "b8c1f9a0-4f5f-4f1c-9d3e-2a6b7c8d9e0f"

func TestParseCursor(t *testing.T) {
	t.Run("both absent means first page", func(t *testing.T) {
		cur, err := ParseCursor("", "")
		assert.NoError(t, err)
		assert.Nil(t, cur)
	})

	t.Run("valid pair", func(t *testing.T) {
		cur, err := ParseCursor(testUUID, "2025-04-11 12:22:00.212")
		require.NoError(t, err)
		require.NotNil(t, cur)
		assert.Equal(t, testUUID, cur.ID)
		assert.Equal(t, time.Date(2025, 4, 11, 12, 22, 0, 212_000_000, time.UTC), cur.CreatedAt)
	})

	t.Run("only id is rejected", func(t *testing.T) {
		_, err := ParseCursor(testUUID, "")
		assert.ErrorIs(t, err, ErrInvalidCursor)
	})

	t.Run("only timestamp is rejected", func(t *testing.T) {
		_, err := ParseCursor("", "2025-04-11 12:22:00.212")
		assert.ErrorIs(t, err, ErrInvalidCursor)
	})

	t.Run("non-uuid id is rejected", func(t *testing.T) {
		_, err := ParseCursor("not-a-uuid", "2025-04-11 12:22:00.212")
		assert.ErrorIs(t, err, ErrInvalidCursor)
	})

	t.Run("unparsable timestamp is rejected", func(t *testing.T) {
		_, err := ParseCursor(testUUID, "2025-04-11T12:22:00Z")
		assert.ErrorIs(t, err, ErrInvalidCursor)
	})
}

func TestTimeFormatRoundTrip(t *testing.T) {
	at := time.Date(2025, 4, 11, 12, 22, 0, 212_000_000, time.UTC)
	parsed, err := ParseTime(FormatTime(at))
	require.NoError(t, err)
	assert.True(t, at.Equal(parsed))
}

func TestCursorMarshalJSON(t *testing.T) {
	cur := Cursor{ID: testUUID, CreatedAt: time.Date(2025, 4, 11, 12, 22, 0, 212_000_000, time.UTC)}
	b, err := json.Marshal(cur)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"`+testUUID+`","created_at":"2025-04-11 12:22:00.212"}`, string(b))
}

func TestParseScoreCursor(t *testing.T) {
	t.Run("both absent means first page", func(t *testing.T) {
		cur, err := ParseScoreCursor("", "")
		assert.NoError(t, err)
		assert.Nil(t, cur)
	})

	t.Run("valid pair", func(t *testing.T) {
		cur, err := ParseScoreCursor(testUUID, "42")
		require.NoError(t, err)
		assert.Equal(t, int64(42), cur.Score)
	})

	t.Run("partial pair is rejected", func(t *testing.T) {
		_, err := ParseScoreCursor(testUUID, "")
		assert.ErrorIs(t, err, ErrInvalidCursor)
	})

	t.Run("negative score is rejected", func(t *testing.T) {
		_, err := ParseScoreCursor(testUUID, "-1")
		assert.ErrorIs(t, err, ErrInvalidCursor)
	})

	t.Run("non-numeric score is rejected", func(t *testing.T) {
		_, err := ParseScoreCursor(testUUID, "many")
		assert.ErrorIs(t, err, ErrInvalidCursor)
	})
}

func TestParseDirection(t *testing.T) {
	dir, err := ParseDirection("", Desc)
	assert.NoError(t, err)
	assert.Equal(t, Desc, dir)

	dir, err = ParseDirection("asc", Desc)
	assert.NoError(t, err)
	assert.Equal(t, Asc, dir)

	dir, err = ParseDirection("desc", Asc)
	assert.NoError(t, err)
	assert.Equal(t, Desc, dir)

	_, err = ParseDirection("sideways", Desc)
	assert.True(t, errors.Is(err, ErrInvalidDirection))
}
