package sdjwt

import "errors"

var (
	// ErrClaimNotFound is returned when a claim listed in claimsToHide is
	// not present in the credential's credentialSubject.
	ErrClaimNotFound = errors.New("sdjwt: claim not found in credentialSubject")
	// ErrNoDisclosures is returned by Disclose when its input carries no
	// "~" segment at all.
	ErrNoDisclosures = errors.New("sdjwt: input has no disclosure segment")
	// ErrGroupCountMismatch is returned when a VP's disclosure groups
	// don't match its verifiableCredential count.
	ErrGroupCountMismatch = errors.New("sdjwt: disclosure group count mismatch")
	// ErrDisclosureMismatch is returned when a disclosure's digest is not
	// a member of the credential's _sd array.
	ErrDisclosureMismatch = errors.New("sdjwt: disclosure digest not found in _sd")
)
