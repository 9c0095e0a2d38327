package statuslist

import "errors"

var (
	// ErrIndexOutOfRange is returned by Revoke/IsRevoked for an index
	// outside [0, Capacity).
	ErrIndexOutOfRange = errors.New("statuslist: index out of range")
	// ErrBadLength is returned by Parse when the decompressed bitmap is
	// not exactly Words*8 bytes.
	ErrBadLength = errors.New("statuslist: decoded bitmap has wrong length")
	// ErrNotStatusListEntry is returned by RevokeSL21 when a
	// StatusList2021Entry's id is not of the form "{listUrl}#{index}". A
	// credentialStatus of any other type is not an error: RevokeSL21 then
	// returns (false, nil).
	ErrNotStatusListEntry = errors.New("statuslist: credentialStatus is not a StatusList2021Entry")
	// ErrFetchFailure wraps a failure fetching the current list.json.
	ErrFetchFailure = errors.New("statuslist: fetch failed")
	// ErrPublishFailure wraps a failure publishing the updated list.
	ErrPublishFailure = errors.New("statuslist: publish failed")
)
