package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedBankIsValid(t *testing.T) {
	qs, err := Questions()
	require.NoError(t, err)
	assert.Len(t, qs, 10)

	qs[0].Question = "changed"
	again, err := Questions()
	require.NoError(t, err)
	assert.NotEqual(t, "changed", again[0].Question)
}

func TestParseRejectsBadBanks(t *testing.T) {
	cases := map[string]string{
		"empty":     `[]`,
		"malformed": `{`,
		"duplicate": `[{"id":1,"options":["a","b"],"answer":0},{"id":1,"options":["a","b"],"answer":0}]`,
		"options":   `[{"id":1,"options":["a"],"answer":0}]`,
		"answer":    `[{"id":1,"options":["a","b"],"answer":2}]`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(body))
			assert.Error(t, err)
		})
	}
}

func TestScore(t *testing.T) {
	qs, err := Questions()
	require.NoError(t, err)

	all := make(map[int]int, len(qs))
	for _, q := range qs {
		all[q.ID] = q.Answer
	}
	assert.Equal(t, len(qs), Score(qs, all))
	assert.Zero(t, Score(qs, nil))
	assert.Equal(t, 1, Score(qs, map[int]int{1: 1, 2: 0}))
}
