package sdjwt

import "strings"

// combine assembles the "jws~d1~d2~...~dn" wire form, adapted from the
// teacher's own pkg/sdjwt3.Combine helper (used there to glue a signed
// token to its disclosures plus an optional key-binding JWT). Combine always
// appends a trailing "~" even with zero disclosures, reserving the slot for
// a key-binding JWT this toolkit doesn't issue (§1 places key binding out of
// scope); this spec instead requires the bare jws with no trailing "~" at
// all when there are no disclosures, so that unconditional-"~" behavior is
// deliberately not carried over.
func combine(jws string, disclosures []string) string {
	if len(disclosures) == 0 {
		return jws
	}
	return jws + "~" + strings.Join(disclosures, "~")
}
