package registry

import (
	"crypto/sha256"
	"fmt"

	"github.com/mosaicmint/mosaic/errors"
)

const (
	// ChunkCount is the fixed number of pre-registered chunks.
	ChunkCount = 100
	// DigestSize is the byte length of an expected chunk digest.
	DigestSize = sha256.Size
)

// ChunkRegistry is the immutable set of expected chunk digests plus the
// header and footer fragments. Established once at construction, read-only
// afterward.
type ChunkRegistry struct {
	header []byte
	footer []byte
	hashes [ChunkCount][DigestSize]byte
}

// NewChunkRegistry builds the registry from exactly ChunkCount digests. Any
// other count fails construction.
func NewChunkRegistry(header, footer []byte, hashes [][DigestSize]byte) (*ChunkRegistry, error) {
	if len(hashes) != ChunkCount {
		return nil, errors.NewError(errors.ErrCodeInvalidConfiguration,
			fmt.Sprintf("%s: expected %d chunk hashes, got %d", errors.ErrMsgInvalidConfiguration, ChunkCount, len(hashes)))
	}

	r := &ChunkRegistry{
		header: append([]byte(nil), header...),
		footer: append([]byte(nil), footer...),
	}
	copy(r.hashes[:], hashes)
	return r, nil
}

// ExpectedHash returns the registered digest for index
func (r *ChunkRegistry) ExpectedHash(index uint32) ([DigestSize]byte, error) {
	if index >= ChunkCount {
		return [DigestSize]byte{}, errors.NewError(errors.ErrCodeIndexOutOfRange, errors.ErrMsgIndexOutOfRange)
	}
	return r.hashes[index], nil
}

// VerifyPayload checks the payload digest against the registered hash for
// index. Content is validated by hash equality only.
func (r *ChunkRegistry) VerifyPayload(index uint32, payload []byte) error {
	expected, err := r.ExpectedHash(index)
	if err != nil {
		return err
	}
	if sha256.Sum256(payload) != expected {
		return errors.NewError(errors.ErrCodeHashMismatch, errors.ErrMsgHashMismatch)
	}
	return nil
}

// Header returns a copy of the header fragment
func (r *ChunkRegistry) Header() []byte {
	return append([]byte(nil), r.header...)
}

// Footer returns a copy of the footer fragment
func (r *ChunkRegistry) Footer() []byte {
	return append([]byte(nil), r.footer...)
}
