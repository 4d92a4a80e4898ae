package store

// Declare database key prefix for objects
const (
	PrefixChunk         = "chunk:"
	PrefixParticipant   = "participant:"
	PrefixTokenOwner    = "token_owner:"
	PrefixTokenApproval = "token_approval:"

	StateKeyCursor  = "state:cursor"
	StateKeyBalance = "state:balance"
)
