package sdjwt

import (
	"context"
	"fmt"
	"strings"

	"onyx/pkg/credential"
	"onyx/pkg/disclosure"
	"onyx/pkg/signing"
)

// VerifyResult is the outcome of VerifyVP: whether the outer VP and every
// enclosed VC JWS verified, plus one disclosed-claims map per credential in
// vp.verifiableCredential, positionally aligned with it.
type VerifyResult struct {
	Verified  bool
	Disclosed []map[string]any
}

// VerifyVP verifies the VP JWS, then for each credential it wraps verifies
// the credential's own JWS, recomputes the digest of every disclosure
// supplied for it, checks membership in that credential's _sd array, and
// accumulates the disclosed {name: value} claims. Disclosure groups are
// matched to credentials by position; group count mismatches, unknown
// disclosures, and tampered digests all abort verification with a typed
// error rather than a partial result.
func VerifyVP(ctx context.Context, verifier signing.Verifier, resolver signing.DIDResolver, vpString string) (VerifyResult, error) {
	if err := ctx.Err(); err != nil {
		return VerifyResult{}, err
	}

	vpJWS, tail, ok := strings.Cut(vpString, "~")
	if !ok {
		return VerifyResult{}, ErrNoDisclosures
	}

	vpClaims, err := verifier.Verify(ctx, resolver, vpJWS)
	if err != nil {
		return VerifyResult{}, err
	}
	vp, err := credential.VPPayloadFromClaims(vpClaims)
	if err != nil {
		return VerifyResult{}, err
	}

	groups := strings.Split(tail, "&")
	if len(groups) != len(vp.VP.VerifiableCredential) {
		return VerifyResult{}, fmt.Errorf("%w: %d groups but %d credentials", ErrGroupCountMismatch, len(groups), len(vp.VP.VerifiableCredential))
	}

	disclosed := make([]map[string]any, len(vp.VP.VerifiableCredential))
	for i, vcJWS := range vp.VP.VerifiableCredential {
		if err := ctx.Err(); err != nil {
			return VerifyResult{}, err
		}

		vcClaims, err := verifier.Verify(ctx, resolver, vcJWS)
		if err != nil {
			return VerifyResult{}, err
		}
		payload, err := credential.PayloadFromClaims(vcClaims)
		if err != nil {
			return VerifyResult{}, err
		}

		claims, err := disclosedClaims(payload.VC.SDAlg, payload.VC.CredentialSubject, groups[i])
		if err != nil {
			return VerifyResult{}, err
		}
		disclosed[i] = claims
	}

	return VerifyResult{Verified: true, Disclosed: disclosed}, nil
}

// disclosedClaims recomputes the digest of each disclosure in group against
// subject's "_sd" array and returns the revealed {name: value} map. An
// empty group yields an empty map, not an error.
func disclosedClaims(sdAlg string, subject map[string]any, group string) (map[string]any, error) {
	sd, err := sdDigests(subject)
	if err != nil {
		return nil, err
	}

	claims := make(map[string]any)
	if group == "" {
		return claims, nil
	}

	for _, d := range strings.Split(group, "~") {
		digest, err := disclosure.Digest(sdAlg, d)
		if err != nil {
			return nil, err
		}
		if !sd[digest] {
			return nil, fmt.Errorf("%w: %s", ErrDisclosureMismatch, digest)
		}

		parsed, err := disclosure.Parse(d)
		if err != nil {
			return nil, err
		}
		claims[parsed.Name] = parsed.Value.Any()
	}
	return claims, nil
}

// sdDigests extracts credentialSubject._sd as a set, tolerating its absence
// (a credential that hid nothing has no _sd array at all).
func sdDigests(subject map[string]any) (map[string]bool, error) {
	raw, ok := subject["_sd"]
	if !ok {
		return map[string]bool{}, nil
	}

	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: _sd is not an array", ErrDisclosureMismatch)
	}

	sd := make(map[string]bool, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%w: _sd entry is not a string", ErrDisclosureMismatch)
		}
		sd[s] = true
	}
	return sd, nil
}
