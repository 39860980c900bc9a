// ABOUTME: WebAuthn wire-format construction for the software authenticator
// ABOUTME: Builds client data, authenticator data, COSE keys, and attestation objects

package authenticator

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Authenticator data flags
const (
	flagUserPresent        = 0x01
	flagUserVerified       = 0x04
	flagAttestedCredential = 0x40
)

// ctap2 encodes CBOR the way authenticators must (CTAP2 canonical form).
var ctap2 = func() cbor.EncMode {
	em, err := cbor.CTAP2EncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

// clientData is the JSON document the relying party compares against its
// issued challenge and expected origin.
type clientData struct {
	Type        string `json:"type"`
	Challenge   string `json:"challenge"`
	Origin      string `json:"origin"`
	CrossOrigin bool   `json:"crossOrigin"`
}

// buildClientDataJSON encodes client data for one ceremony phase.
// ceremonyType is "webauthn.create" or "webauthn.get".
func buildClientDataJSON(ceremonyType string, challenge []byte, origin string) ([]byte, error) {
	data := clientData{
		Type:        ceremonyType,
		Challenge:   base64.RawURLEncoding.EncodeToString(challenge),
		Origin:      origin,
		CrossOrigin: false,
	}

	out, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encoding client data: %w", err)
	}
	return out, nil
}

// buildAuthenticatorData assembles rpIdHash || flags || signCount || attested.
// Pass nil attested data for assertions.
func buildAuthenticatorData(rpID string, signCount uint32, attested []byte) []byte {
	rpIDHash := sha256.Sum256([]byte(rpID))

	flags := byte(flagUserPresent | flagUserVerified)
	if attested != nil {
		flags |= flagAttestedCredential
	}

	data := make([]byte, 0, 37+len(attested))
	data = append(data, rpIDHash[:]...)
	data = append(data, flags)
	data = binary.BigEndian.AppendUint32(data, signCount)
	data = append(data, attested...)
	return data
}

// buildAttestedCredentialData assembles aaguid || credIdLen || credId || cosePublicKey.
func buildAttestedCredentialData(credentialID []byte, cosePublicKey []byte) []byte {
	var aaguid [16]byte // zeroed: this authenticator makes no model claims

	data := make([]byte, 0, 18+len(credentialID)+len(cosePublicKey))
	data = append(data, aaguid[:]...)
	data = binary.BigEndian.AppendUint16(data, uint16(len(credentialID)))
	data = append(data, credentialID...)
	data = append(data, cosePublicKey...)
	return data
}

// encodeCOSEPublicKey encodes a P-256 public key as a COSE_Key (EC2, ES256).
func encodeCOSEPublicKey(pub *ecdsa.PublicKey) ([]byte, error) {
	x := make([]byte, 32)
	y := make([]byte, 32)
	pub.X.FillBytes(x)
	pub.Y.FillBytes(y)

	// COSE labels: 1=kty(2 EC2), 3=alg(-7 ES256), -1=crv(1 P-256), -2=x, -3=y
	key := map[int]any{
		1:  2,
		3:  -7,
		-1: 1,
		-2: x,
		-3: y,
	}

	out, err := ctap2.Marshal(key)
	if err != nil {
		return nil, fmt.Errorf("encoding COSE key: %w", err)
	}
	return out, nil
}

// attestationObject is the CBOR envelope for registration responses.
// This authenticator only emits the "none" format.
type attestationObject struct {
	AuthData []byte         `cbor:"authData"`
	Fmt      string         `cbor:"fmt"`
	AttStmt  map[string]any `cbor:"attStmt"`
}

// buildAttestationObject wraps authenticator data in a "none" attestation.
func buildAttestationObject(authData []byte) ([]byte, error) {
	obj := attestationObject{
		AuthData: authData,
		Fmt:      "none",
		AttStmt:  map[string]any{},
	}

	out, err := ctap2.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("encoding attestation object: %w", err)
	}
	return out, nil
}
