package sdjwt_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onyx/pkg/credential"
	"onyx/pkg/disclosure"
	"onyx/pkg/resolver"
	"onyx/pkg/sdjwt"
	"onyx/pkg/signing"
)

func issuerKey(t *testing.T) signing.KeyMaterial {
	t.Helper()
	key, err := signing.GenerateKeyMaterial("did:key:issuer", signing.AlgES256K)
	require.NoError(t, err)
	return key
}

func holderKey(t *testing.T) signing.KeyMaterial {
	t.Helper()
	key, err := signing.GenerateKeyMaterial("did:key:holder", signing.AlgEdDSA)
	require.NoError(t, err)
	return key
}

func samplePayload(issuer signing.KeyMaterial) credential.Payload {
	subject := map[string]any{
		"fname":      "John",
		"sname":      "Doe",
		"nationalId": "ajj3i23293f290",
	}
	return credential.CreateCredential(issuer.DID, "did:key:subject", subject, []string{"PersonalID"}, 1700000000)
}

func TestIssueSDShape(t *testing.T) {
	issuer := issuerKey(t)
	payload := samplePayload(issuer)

	sdJWT, err := sdjwt.IssueSD(context.Background(), signing.DefaultSigner{}, issuer, payload, "ES256K", []string{"fname", "sname"})
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(sdJWT, "~"))

	jws, rest, _ := strings.Cut(sdJWT, "~")
	discs := strings.Split(rest, "~")
	require.Len(t, discs, 2)

	_ = jws
}

func TestIssueSDRejectsUnknownClaim(t *testing.T) {
	issuer := issuerKey(t)
	payload := samplePayload(issuer)

	_, err := sdjwt.IssueSD(context.Background(), signing.DefaultSigner{}, issuer, payload, "ES256K", []string{"nope"})
	assert.ErrorIs(t, err, sdjwt.ErrClaimNotFound)
}

func TestIssueSDRejectsNestedValue(t *testing.T) {
	issuer := issuerKey(t)
	payload := samplePayload(issuer)
	payload.VC.CredentialSubject["address"] = map[string]any{"street": "Main St"}

	_, err := sdjwt.IssueSD(context.Background(), signing.DefaultSigner{}, issuer, payload, "ES256K", []string{"address"})
	assert.ErrorIs(t, err, disclosure.ErrNestedNotSupported)
}

func setupVerifiedVP(t *testing.T, revealNames []string) (sdjwt.VerifyResult, error) {
	t.Helper()
	issuer := issuerKey(t)
	holder := holderKey(t)
	payload := samplePayload(issuer)

	sdJWT, err := sdjwt.IssueSD(context.Background(), signing.DefaultSigner{}, issuer, payload, "ES256K", []string{"fname", "sname"})
	require.NoError(t, err)

	vp, err := sdjwt.PresentVP(context.Background(), signing.DefaultSigner{}, holder, []string{sdJWT}, [][]string{revealNames}, 1700000100)
	require.NoError(t, err)

	res := resolver.NewInMemory()
	require.NoError(t, res.Register(issuer))
	require.NoError(t, res.Register(holder))

	return sdjwt.VerifyVP(context.Background(), signing.DefaultVerifier{}, res, vp)
}

func TestVerifyVPZeroClaims(t *testing.T) {
	result, err := setupVerifiedVP(t, nil)
	require.NoError(t, err)
	assert.True(t, result.Verified)
	require.Len(t, result.Disclosed, 1)
	assert.Empty(t, result.Disclosed[0])
}

func TestVerifyVPSingleClaim(t *testing.T) {
	result, err := setupVerifiedVP(t, []string{"fname"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"fname": "John"}, result.Disclosed[0])
}

func TestVerifyVPBothClaims(t *testing.T) {
	result, err := setupVerifiedVP(t, []string{"fname", "sname"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"fname": "John", "sname": "Doe"}, result.Disclosed[0])
}

func TestVerifyVPTamperedDisclosureRejected(t *testing.T) {
	issuer := issuerKey(t)
	holder := holderKey(t)
	payload := samplePayload(issuer)

	sdJWT, err := sdjwt.IssueSD(context.Background(), signing.DefaultSigner{}, issuer, payload, "ES256K", []string{"fname"})
	require.NoError(t, err)

	vp, err := sdjwt.PresentVP(context.Background(), signing.DefaultSigner{}, holder, []string{sdJWT}, [][]string{{"fname"}}, 1700000100)
	require.NoError(t, err)

	// Flip the last byte of the single disclosure to break its digest.
	tampered := vp[:len(vp)-1] + "x"

	res := resolver.NewInMemory()
	require.NoError(t, res.Register(issuer))
	require.NoError(t, res.Register(holder))

	_, err = sdjwt.VerifyVP(context.Background(), signing.DefaultVerifier{}, res, tampered)
	assert.Error(t, err)
}

func TestVerifyVPGroupCountMismatch(t *testing.T) {
	issuer := issuerKey(t)
	holder := holderKey(t)
	payload := samplePayload(issuer)

	sdJWT, err := sdjwt.IssueSD(context.Background(), signing.DefaultSigner{}, issuer, payload, "ES256K", []string{"fname"})
	require.NoError(t, err)

	vp, err := sdjwt.PresentVP(context.Background(), signing.DefaultSigner{}, holder, []string{sdJWT}, [][]string{{"fname"}}, 1700000100)
	require.NoError(t, err)

	res := resolver.NewInMemory()
	require.NoError(t, res.Register(issuer))
	require.NoError(t, res.Register(holder))

	_, err = sdjwt.VerifyVP(context.Background(), signing.DefaultVerifier{}, res, vp+"&")
	assert.ErrorIs(t, err, sdjwt.ErrGroupCountMismatch)
}

func TestDiscloseFiltersByName(t *testing.T) {
	issuer := issuerKey(t)
	payload := samplePayload(issuer)

	sdJWT, err := sdjwt.IssueSD(context.Background(), signing.DefaultSigner{}, issuer, payload, "ES256K", []string{"fname", "sname"})
	require.NoError(t, err)

	disclosed, err := sdjwt.Disclose(sdJWT, []string{"fname"})
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(disclosed, "~"))
}

func TestDiscloseNoSeparatorFails(t *testing.T) {
	_, err := sdjwt.Disclose("not-an-sdjwt", nil)
	assert.ErrorIs(t, err, sdjwt.ErrNoDisclosures)
}

func TestPresentVPMultiCredential(t *testing.T) {
	issuer := issuerKey(t)
	holder := holderKey(t)

	sub1 := samplePayload(issuer)
	sub2 := credential.CreateCredential(issuer.DID, "did:key:subject2", map[string]any{"role": "admin"}, []string{"RoleCredential"}, 1700000000)

	sd1, err := sdjwt.IssueSD(context.Background(), signing.DefaultSigner{}, issuer, sub1, "ES256K", []string{"fname"})
	require.NoError(t, err)
	sd2, err := sdjwt.IssueSD(context.Background(), signing.DefaultSigner{}, issuer, sub2, "ES256K", []string{"role"})
	require.NoError(t, err)

	vp, err := sdjwt.PresentVP(context.Background(), signing.DefaultSigner{}, holder, []string{sd1, sd2}, [][]string{{"fname"}, nil}, 1700000100)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(vp, "&"))

	res := resolver.NewInMemory()
	require.NoError(t, res.Register(issuer))
	require.NoError(t, res.Register(holder))

	result, err := sdjwt.VerifyVP(context.Background(), signing.DefaultVerifier{}, res, vp)
	require.NoError(t, err)
	require.Len(t, result.Disclosed, 2)
	assert.Equal(t, map[string]any{"fname": "John"}, result.Disclosed[0])
	assert.Empty(t, result.Disclosed[1])
}

func TestPresentVPLengthMismatch(t *testing.T) {
	holder := holderKey(t)
	_, err := sdjwt.PresentVP(context.Background(), signing.DefaultSigner{}, holder, []string{"a", "b"}, [][]string{{"x"}}, 0)
	assert.ErrorIs(t, err, sdjwt.ErrGroupCountMismatch)
}
