package credential_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onyx/pkg/credential"
)

func TestCreateCredentialShape(t *testing.T) {
	subject := map[string]any{"fname": "John"}
	vc := credential.CreateCredential("did:key:issuer", "did:key:subject", subject, []string{"PersonalID"}, 1700000000)

	assert.Equal(t, "did:key:issuer", vc.Iss)
	assert.Equal(t, "did:key:subject", vc.Sub)
	assert.Contains(t, vc.VC.Type, "VerifiableCredential")
	assert.Contains(t, vc.VC.Type, "PersonalID")
	assert.Equal(t, "John", vc.VC.CredentialSubject["fname"])
}

func TestCreateCredentialDoesNotAliasInputSubject(t *testing.T) {
	subject := map[string]any{"fname": "John"}
	vc := credential.CreateCredential("did:key:issuer", "did:key:subject", subject, nil, 0)

	vc.VC.CredentialSubject["fname"] = "Jane"
	assert.Equal(t, "John", subject["fname"])
}

func TestPayloadClaimsRoundTrip(t *testing.T) {
	vc := credential.CreateCredential("did:key:issuer", "did:key:subject", map[string]any{"fname": "John"}, []string{"PersonalID"}, 1700000000)

	claims, err := vc.ToClaims()
	require.NoError(t, err)

	back, err := credential.PayloadFromClaims(claims)
	require.NoError(t, err)

	assert.Equal(t, vc.Iss, back.Iss)
	assert.Equal(t, vc.VC.CredentialSubject["fname"], back.VC.CredentialSubject["fname"])
}

func TestVPPayloadClaimsRoundTrip(t *testing.T) {
	vp := credential.CreateVP("did:key:holder", []string{"jws1", "jws2"}, 1700000100)

	claims, err := vp.ToClaims()
	require.NoError(t, err)

	back, err := credential.VPPayloadFromClaims(claims)
	require.NoError(t, err)

	assert.Equal(t, vp.VP.VerifiableCredential, back.VP.VerifiableCredential)
}
