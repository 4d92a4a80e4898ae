package errors

import (
	goerrors "errors"

	"github.com/mosaicmint/mosaic/jsonx"
)

// MintErrorCode represents standardized error codes for mint operations
type MintErrorCode string

const (
	// General errors
	ErrCodeInternal MintErrorCode = "internal_error"

	// Configuration errors
	ErrCodeInvalidConfiguration MintErrorCode = "invalid_configuration"

	// Claim path errors
	ErrCodeIndexOutOfRange     MintErrorCode = "index_out_of_range"
	ErrCodeAlreadyParticipated MintErrorCode = "already_participated"
	ErrCodeMintingComplete     MintErrorCode = "minting_complete"
	ErrCodeHashMismatch        MintErrorCode = "hash_mismatch"
	ErrCodeInsufficientPayment MintErrorCode = "insufficient_payment"
	ErrCodeInvalidSignature    MintErrorCode = "invalid_signature"

	// Read path errors
	ErrCodeNotYetClaimed MintErrorCode = "not_yet_claimed"

	// Authorization errors
	ErrCodeNotAuthorized MintErrorCode = "not_authorized"

	// Internal invariant violations. ErrCodeAlreadyClaimed means a chunk slot
	// was written twice, which the cursor discipline rules out; treat as a
	// fatal assertion failure, never a user-facing condition.
	ErrCodeAlreadyClaimed MintErrorCode = "already_claimed"
)

// MintError represents a standardized mint error
type MintError struct {
	Code    MintErrorCode `json:"code"`
	Message string        `json:"message"`
}

// Error implements the error interface
func (e *MintError) Error() string {
	err, _ := jsonx.Marshal(MintError{
		Code:    e.Code,
		Message: e.Message,
	})
	return string(err)
}

// Error message constants - user-friendly and concise
const (
	ErrMsgInvalidConfiguration = "Mint configuration is invalid"
	ErrMsgIndexOutOfRange      = "Chunk index is out of range"
	ErrMsgAlreadyParticipated  = "This address has already claimed a chunk"
	ErrMsgMintingComplete      = "All chunks have been claimed"
	ErrMsgHashMismatch         = "Wrong data"
	ErrMsgInsufficientPayment  = "Attached value is below the required fee"
	ErrMsgInvalidSignature     = "Claim signature is invalid"
	ErrMsgNotYetClaimed        = "Chunk has not been claimed yet"
	ErrMsgNotAuthorized        = "Caller is not authorized"
	ErrMsgAlreadyClaimed       = "Chunk slot was written twice"
	ErrMsgInternal             = "Server error, please try again"
)

// NewError creates a new MintError and returns it as error interface
func NewError(code MintErrorCode, message string) error {
	return &MintError{
		Code:    code,
		Message: message,
	}
}

// CodeOf extracts the mint error code from err, ErrCodeInternal if err does
// not wrap a MintError.
func CodeOf(err error) MintErrorCode {
	var me *MintError
	if goerrors.As(err, &me) {
		return me.Code
	}
	return ErrCodeInternal
}

// Is reports whether err carries the given mint error code.
func Is(err error, code MintErrorCode) bool {
	var me *MintError
	return goerrors.As(err, &me) && me.Code == code
}
