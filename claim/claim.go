package claim

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/mosaicmint/mosaic/common"
	"github.com/mosaicmint/mosaic/logx"
)

// Limits to prevent DoS via oversized inputs
const (
	maxSignatureBase58Len  = 2048
	maxSignatureDecodedLen = 4096
)

// Request is a signed claim submission. The claimer address is the base58
// encoding of an ed25519 public key; the signature covers the deterministic
// serialization below, so payload, value and unit price cannot be swapped
// after signing.
type Request struct {
	Claimer   string       `json:"claimer"`
	Payload   []byte       `json:"payload"`
	Value     *uint256.Int `json:"value"`
	UnitPrice *uint256.Int `json:"unit_price"`
	Timestamp uint64       `json:"timestamp"`
	Signature string       `json:"signature,omitempty"`
}

func (r *Request) Serialize() []byte {
	payloadDigest := sha256.Sum256(r.Payload)
	metadata := fmt.Sprintf(
		"%s|%s|%s|%s|%d",
		r.Claimer, hex.EncodeToString(payloadDigest[:]),
		common.Uint256ToString(r.Value), common.Uint256ToString(r.UnitPrice),
		r.Timestamp,
	)
	return []byte(metadata)
}

// Hash identifies the request for event subscription and logging
func (r *Request) Hash() string {
	sum := sha256.Sum256(r.Serialize())
	return hex.EncodeToString(sum[:])
}

// Verify checks the request signature against the claimer address
func (r *Request) Verify() bool {
	if r.Signature == "" {
		logx.Error("CLAIM_VERIFY", "missing signature")
		return false
	}
	if len(r.Signature) > maxSignatureBase58Len {
		logx.Error("CLAIM_VERIFY", "signature too large")
		return false
	}

	signature, err := common.DecodeBase58ToBytes(r.Signature)
	if err != nil {
		logx.Error("CLAIM_VERIFY", "failed to decode signature", err)
		return false
	}
	if len(signature) > maxSignatureDecodedLen {
		logx.Error("CLAIM_VERIFY", "decoded signature too large")
		return false
	}

	pubKey, err := common.DecodeBase58ToBytes(r.Claimer)
	if err != nil {
		logx.Error("CLAIM_VERIFY", "failed to decode claimer address", err)
		return false
	}
	if len(pubKey) != ed25519.PublicKeySize {
		logx.Error("CLAIM_VERIFY", "claimer address is not an ed25519 public key")
		return false
	}

	return ed25519.Verify(ed25519.PublicKey(pubKey), r.Serialize(), signature)
}

// Sign signs the request with priv and fills in the signature field
func (r *Request) Sign(priv ed25519.PrivateKey) {
	sig := ed25519.Sign(priv, r.Serialize())
	r.Signature = common.EncodeBytesToBase58(sig)
}

// WithdrawRequest is a signed sweep of the accumulated balance by the
// configured owner identity.
type WithdrawRequest struct {
	Owner     string `json:"owner"`
	Timestamp uint64 `json:"timestamp"`
	Signature string `json:"signature,omitempty"`
}

func (r *WithdrawRequest) Serialize() []byte {
	return []byte(fmt.Sprintf("withdraw|%s|%d", r.Owner, r.Timestamp))
}

func (r *WithdrawRequest) Verify() bool {
	if r.Signature == "" || len(r.Signature) > maxSignatureBase58Len {
		return false
	}
	signature, err := common.DecodeBase58ToBytes(r.Signature)
	if err != nil || len(signature) > maxSignatureDecodedLen {
		return false
	}
	pubKey, err := common.DecodeBase58ToBytes(r.Owner)
	if err != nil || len(pubKey) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(pubKey), r.Serialize(), signature)
}

func (r *WithdrawRequest) Sign(priv ed25519.PrivateKey) {
	sig := ed25519.Sign(priv, r.Serialize())
	r.Signature = common.EncodeBytesToBase58(sig)
}
