package common

import (
	"encoding/hex"
	"fmt"

	"github.com/mr-tron/base58"
)

// EncodeToBase58 encodes a hex string to base58
func EncodeToBase58(hexStr string) (string, error) {
	if len(hexStr) >= 2 && hexStr[:2] == "0x" {
		hexStr = hexStr[2:]
	}

	bytes, err := hex.DecodeString(hexStr)
	if err != nil {
		return "", fmt.Errorf("failed to decode hex string: %w", err)
	}

	return base58.Encode(bytes), nil
}

// EncodeBytesToBase58 encodes bytes directly to base58
func EncodeBytesToBase58(bytes []byte) string {
	return base58.Encode(bytes)
}

// DecodeBase58ToBytes decodes a base58 string to raw bytes
func DecodeBase58ToBytes(base58Str string) ([]byte, error) {
	bytes, err := base58.Decode(base58Str)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base58 string: %w", err)
	}
	if len(bytes) == 0 {
		return nil, fmt.Errorf("failed to decode base58 string")
	}
	return bytes, nil
}
