package sdjwt

import (
	"context"
	"fmt"
	"strings"

	"onyx/pkg/credential"
	"onyx/pkg/disclosure"
	"onyx/pkg/signing"
)

// splitWireForm splits a single-credential SD-JWT wire form into its JWS
// and ordered disclosure strings. ok is false when s carries no "~" at
// all.
func splitWireForm(s string) (jws string, disclosures []string, ok bool) {
	idx := strings.IndexByte(s, '~')
	if idx < 0 {
		return s, nil, false
	}
	return s[:idx], strings.Split(s[idx+1:], "~"), true
}

func filterDisclosures(all []string, revealNames []string) ([]string, error) {
	reveal := make(map[string]bool, len(revealNames))
	for _, n := range revealNames {
		reveal[n] = true
	}

	kept := make([]string, 0, len(all))
	for _, d := range all {
		parsed, err := disclosure.Parse(d)
		if err != nil {
			return nil, err
		}
		if reveal[parsed.Name] {
			kept = append(kept, d)
		}
	}
	return kept, nil
}

// Disclose filters a single-credential SD-JWT down to the disclosures whose
// name is in revealNames, reassembling "jws~kept1~...~keptk". An empty
// revealNames yields the bare jws. Fails with ErrNoDisclosures if sdJWT has
// no "~" segment.
func Disclose(sdJWT string, revealNames []string) (string, error) {
	jws, all, ok := splitWireForm(sdJWT)
	if !ok {
		return "", ErrNoDisclosures
	}

	kept, err := filterDisclosures(all, revealNames)
	if err != nil {
		return "", err
	}
	return combine(jws, kept), nil
}

// PresentVP assembles a multi-credential selective-disclosure VP: one
// signed VP JWS wrapping the bare (disclosure-stripped) credential JWSs,
// followed by "~g0&g1&...&g_{n-1}" where gi is credentials[i]'s filtered
// disclosure list. len(credentials) must equal len(revealSets).
func PresentVP(ctx context.Context, signer signing.Signer, holderKey signing.KeyMaterial, credentials []string, revealSets [][]string, iat int64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(credentials) != len(revealSets) {
		return "", fmt.Errorf("%w: %d credentials but %d reveal sets", ErrGroupCountMismatch, len(credentials), len(revealSets))
	}

	bareJWSs := make([]string, len(credentials))
	groups := make([]string, len(credentials))

	for i, cred := range credentials {
		jws, all, _ := splitWireForm(cred)
		bareJWSs[i] = jws

		kept, err := filterDisclosures(all, revealSets[i])
		if err != nil {
			return "", err
		}
		groups[i] = strings.Join(kept, "~")
	}

	vp := credential.CreateVP(holderKey.DID, bareJWSs, iat)
	claims, err := vp.ToClaims()
	if err != nil {
		return "", err
	}

	vpJWS, err := signer.Sign(ctx, holderKey, claims)
	if err != nil {
		return "", err
	}

	return vpJWS + "~" + strings.Join(groups, "&"), nil
}
