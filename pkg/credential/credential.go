// Package credential defines the Verifiable Credential / Verifiable
// Presentation payload shapes the SD-JWT core signs and parses, along with
// the createCredential helper named (but not fully specified) by the
// revocation flow.
package credential

import (
	"encoding/json"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultContext is the JSON-LD context every credential/presentation here
// carries.
var DefaultContext = []string{"https://www.w3.org/2018/credentials/v1"}

// Status identifies where to look up a credential's revocation bit.
type Status struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// VC is the `vc` claim of a JWT-VC payload.
type VC struct {
	Context           []string       `json:"@context"`
	ID                string         `json:"id"`
	Type              []string       `json:"type"`
	Issuer            string         `json:"issuer"`
	CredentialSubject map[string]any `json:"credentialSubject"`
	CredentialStatus  *Status        `json:"credentialStatus,omitempty"`
	SDAlg             string         `json:"_sd_alg,omitempty"`
}

// Payload is the top-level JWT claim set for a VC: iss/sub/iat plus the vc
// claim.
type Payload struct {
	Iss string `json:"iss"`
	Sub string `json:"sub"`
	Iat int64  `json:"iat"`
	VC  VC     `json:"vc"`
}

// CreateCredential builds a fresh VC payload for subjectDID, issued by
// issuerDID, carrying the given credentialSubject claims and VC types. It
// is the createCredential(issuer_did, subject_did, subject, types) helper
// named by the revocation flow.
func CreateCredential(issuerDID, subjectDID string, subject map[string]any, types []string, iat int64) Payload {
	cs := make(map[string]any, len(subject))
	for k, v := range subject {
		cs[k] = v
	}

	return Payload{
		Iss: issuerDID,
		Sub: subjectDID,
		Iat: iat,
		VC: VC{
			Context:           DefaultContext,
			ID:                "urn:uuid:" + uuid.NewString(),
			Type:              append([]string{"VerifiableCredential"}, types...),
			Issuer:            issuerDID,
			CredentialSubject: cs,
		},
	}
}

// ToClaims renders the payload as jwt.MapClaims, the shape pkg/signing's
// Signer/Verifier operate on.
func (p Payload) ToClaims() (jwt.MapClaims, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	var claims jwt.MapClaims
	if err := json.Unmarshal(b, &claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// PayloadFromClaims parses a verified jwt.MapClaims back into a Payload.
func PayloadFromClaims(claims jwt.MapClaims) (Payload, error) {
	b, err := json.Marshal(claims)
	if err != nil {
		return Payload{}, err
	}
	var p Payload
	if err := json.Unmarshal(b, &p); err != nil {
		return Payload{}, fmt.Errorf("credential: decode payload: %w", err)
	}
	return p, nil
}

// VP is the `vp` claim of a JWT-VP payload.
type VP struct {
	Context              []string `json:"@context"`
	Type                 []string `json:"type"`
	VerifiableCredential []string `json:"verifiableCredential"`
}

// VPPayload is the top-level JWT claim set for a VP.
type VPPayload struct {
	Iss string `json:"iss"`
	Iat int64  `json:"iat"`
	VP  VP     `json:"vp"`
}

// CreateVP builds a VP payload wrapping the given bare credential JWSs,
// issued (presented) by holderDID.
func CreateVP(holderDID string, credentialJWSs []string, iat int64) VPPayload {
	return VPPayload{
		Iss: holderDID,
		Iat: iat,
		VP: VP{
			Context:              DefaultContext,
			Type:                 []string{"VerifiablePresentation"},
			VerifiableCredential: credentialJWSs,
		},
	}
}

// ToClaims renders the VP payload as jwt.MapClaims.
func (p VPPayload) ToClaims() (jwt.MapClaims, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	var claims jwt.MapClaims
	if err := json.Unmarshal(b, &claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// VPPayloadFromClaims parses a verified jwt.MapClaims back into a VPPayload.
func VPPayloadFromClaims(claims jwt.MapClaims) (VPPayload, error) {
	b, err := json.Marshal(claims)
	if err != nil {
		return VPPayload{}, err
	}
	var p VPPayload
	if err := json.Unmarshal(b, &p); err != nil {
		return VPPayload{}, fmt.Errorf("credential: decode vp payload: %w", err)
	}
	return p, nil
}
