package domain

import (
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateParseVerify(t *testing.T) {
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	plaintext, record, err := Generate(node, "staff key", "staff", time.Now())
	require.NoError(t, err)
	assert.Equal(t, "staff", record.Role)

	id, secret, err := Parse(plaintext)
	require.NoError(t, err)
	assert.Equal(t, record.ID, id)
	require.NoError(t, record.Verify(secret))

	assert.ErrorIs(t, record.Verify("wrong-secret"), ErrKeyMismatch)
}

func TestParseRejectsMalformedKeys(t *testing.T) {
	for _, presented := range []string{"", "gt_", "gt_abc", "nope_1_x", "gt_notanumber_secret"} {
		_, _, err := Parse(presented)
		assert.ErrorIs(t, err, ErrMalformedKey, presented)
	}
}
