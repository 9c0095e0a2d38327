// Package sdjwt implements the Selective Disclosure JWT pipeline: issuance,
// single- and multi-credential presentation, and verification, plus the
// non-standard "~...&..." multi-credential grammar.
package sdjwt

import (
	"context"
	"fmt"
	"sort"

	"onyx/pkg/credential"
	"onyx/pkg/disclosure"
	"onyx/pkg/signing"
)

// IssueSD issues a selectively-disclosable JWT-VC. payload is never
// mutated: a new payload is built with claimsToHide stripped from
// credentialSubject and replaced by a sorted _sd commitment array plus
// _sd_alg. Returns the wire form "jws~d1~d2~...~dn" (bare jws, with no
// trailing "~", when claimsToHide is empty).
func IssueSD(ctx context.Context, signer signing.Signer, key signing.KeyMaterial, payload credential.Payload, hashAlg string, claimsToHide []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	subject := make(map[string]any, len(payload.VC.CredentialSubject))
	for k, v := range payload.VC.CredentialSubject {
		subject[k] = v
	}

	disclosures := make([]string, 0, len(claimsToHide))
	digests := make([]string, 0, len(claimsToHide))

	for _, name := range claimsToHide {
		raw, ok := subject[name]
		if !ok {
			return "", fmt.Errorf("%w: %q", ErrClaimNotFound, name)
		}

		value, err := disclosure.FromAny(raw)
		if err != nil {
			return "", err
		}

		salt, err := disclosure.NewSalt()
		if err != nil {
			return "", err
		}

		encoded, err := disclosure.Encode(salt, name, value)
		if err != nil {
			return "", err
		}

		digest, err := disclosure.Digest(hashAlg, encoded)
		if err != nil {
			return "", err
		}

		delete(subject, name)
		disclosures = append(disclosures, encoded)
		digests = append(digests, digest)
	}

	sort.Strings(digests)
	if len(digests) > 0 {
		subject["_sd"] = digests
	}

	newPayload := payload
	newPayload.VC.CredentialSubject = subject
	newPayload.VC.SDAlg = hashAlg

	claims, err := newPayload.ToClaims()
	if err != nil {
		return "", err
	}

	jws, err := signer.Sign(ctx, key, claims)
	if err != nil {
		return "", err
	}

	return combine(jws, disclosures), nil
}
