package statuslist

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"onyx/pkg/credential"
)

// statusList2021EntryType is the credentialStatus.type value a revocable
// credential must carry for RevokeSL21 to act on it.
const statusList2021EntryType = "StatusList2021Entry"

// RevokeSL21 fetches the StatusList2021 credential named by vc's
// credentialStatus, flips the bit at its index, and republishes a fresh
// StatusList2021 credential payload via fetcher. The republished payload is
// not signed: it is posted as a plain credential.Payload. It returns (true,
// nil) on success, (false, nil) when vc does not carry a StatusList2021Entry
// status (nothing to do), and (false, err) when the fetch or publish step
// fails — the local bit flip always operates on the fetched copy, so a
// failed publish leaves the remote list unchanged.
func RevokeSL21(ctx context.Context, vc credential.Payload, issuerDID, subjectDID string, fetcher Fetcher) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	status := vc.VC.CredentialStatus
	if status == nil || status.Type != statusList2021EntryType {
		return false, nil
	}

	listURL, credID, err := parseStatusID(status.ID)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrNotStatusListEntry, err)
	}

	current, err := fetcher.Get(ctx, listURL)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrFetchFailure, err)
	}

	encodedList, ok := current.VC.CredentialSubject["encodedList"].(string)
	if !ok {
		return false, fmt.Errorf("%w: missing encodedList", ErrFetchFailure)
	}

	list, err := Parse(encodedList)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrFetchFailure, err)
	}

	if err := list.Revoke(credID); err != nil {
		return false, err
	}

	reencoded, err := list.Serialize()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrPublishFailure, err)
	}

	subject := map[string]any{
		"id":          listURL,
		"type":        "StatusList2021",
		"purpose":     "revocation",
		"encodedList": reencoded,
	}
	updated := credential.CreateCredential(issuerDID, subjectDID, subject, []string{"StatusList2021"}, time.Now().Unix())

	if err := fetcher.Post(ctx, listURL, updated); err != nil {
		return false, fmt.Errorf("%w: %v", ErrPublishFailure, err)
	}

	return true, nil
}

// parseStatusID splits a credentialStatus.id of the form "{listUrl}#{index}"
// into its URL and integer index parts.
func parseStatusID(id string) (listURL string, index int, err error) {
	url, idxStr, ok := strings.Cut(id, "#")
	if !ok {
		return "", 0, fmt.Errorf("statuslist: malformed status id %q", id)
	}
	idx, err := strconv.Atoi(idxStr)
	if err != nil {
		return "", 0, fmt.Errorf("statuslist: malformed status index %q: %w", idxStr, err)
	}
	return url, idx, nil
}
