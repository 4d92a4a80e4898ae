package client

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"

	"github.com/holiman/uint256"
	"github.com/mr-tron/base58"

	"github.com/mosaicmint/mosaic/claim"
)

var ErrUnsupportedKey = errors.New("crypto: unsupported private key length")

// NewKeypair generates an ed25519 keypair and returns the base58 address
// derived from the public key
func NewKeypair() (addr string, priv ed25519.PrivateKey, err error) {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		return "", nil, err
	}
	return base58.Encode(pub), priv, nil
}

func expandKey(privKey []byte) (ed25519.PrivateKey, error) {
	switch len(privKey) {
	case ed25519.SeedSize:
		return ed25519.NewKeyFromSeed(privKey), nil
	case ed25519.PrivateKeySize:
		return ed25519.PrivateKey(privKey), nil
	default:
		return nil, ErrUnsupportedKey
	}
}

// SignClaim builds and signs a claim submission for payload. The claimer
// address must correspond to privKey or the server will reject the signature.
func SignClaim(claimer string, payload []byte, value, unitPrice *uint256.Int, timestamp uint64, privKey []byte) (*ClaimSubmission, error) {
	priv, err := expandKey(privKey)
	if err != nil {
		return nil, err
	}

	req := &claim.Request{
		Claimer:   claimer,
		Payload:   payload,
		Value:     value,
		UnitPrice: unitPrice,
		Timestamp: timestamp,
	}
	req.Sign(priv)

	return &ClaimSubmission{
		Claimer:   claimer,
		Payload:   base64.StdEncoding.EncodeToString(payload),
		Value:     value.Dec(),
		UnitPrice: unitPrice.Dec(),
		Timestamp: timestamp,
		Signature: req.Signature,
	}, nil
}

// SignWithdraw builds and signs a withdraw submission for the owner key
func SignWithdraw(owner string, timestamp uint64, privKey []byte) (*WithdrawSubmission, error) {
	priv, err := expandKey(privKey)
	if err != nil {
		return nil, err
	}

	req := &claim.WithdrawRequest{
		Owner:     owner,
		Timestamp: timestamp,
	}
	req.Sign(priv)

	return &WithdrawSubmission{
		Owner:     owner,
		Timestamp: timestamp,
		Signature: req.Signature,
	}, nil
}
