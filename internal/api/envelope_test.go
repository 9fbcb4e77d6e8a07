package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeTransformerSuccess(t *testing.T) {
	out, err := EnvelopeTransformer(nil, "200", map[string]string{"hello": "world"})
	require.NoError(t, err)

	env, ok := out.(Envelope)
	require.True(t, ok)
	assert.Equal(t, envelopeVersion, env.V)
	assert.True(t, env.Success)
	assert.NotNil(t, env.Data)
	assert.Nil(t, env.Error)
}

func TestEnvelopeTransformerError(t *testing.T) {
	apiErr := &APIError{status: 404, Code: "NOT_FOUND", Message: "missing"}

	out, err := EnvelopeTransformer(nil, "404", apiErr)
	require.NoError(t, err)

	env, ok := out.(Envelope)
	require.True(t, ok)
	assert.False(t, env.Success)
	assert.Nil(t, env.Data)
	assert.Equal(t, apiErr, env.Error)
}
