package hashalg_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onyx/pkg/hashalg"
)

func TestDigestName(t *testing.T) {
	assert.Equal(t, "sha256", hashalg.DigestName("ES256K"))
	assert.Equal(t, "sha512", hashalg.DigestName("EdDSA"))
	assert.Equal(t, "sha384", hashalg.DigestName("SHA-384"))
}

func TestNew(t *testing.T) {
	h, err := hashalg.New("ES256K")
	require.NoError(t, err)
	require.NotNil(t, h)

	_, err = h.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Len(t, h.Sum(nil), 32)
}

func TestNewUnsupported(t *testing.T) {
	_, err := hashalg.New("PS256")
	assert.ErrorIs(t, err, hashalg.ErrUnsupportedAlg)
}
