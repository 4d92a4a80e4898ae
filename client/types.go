package client

// Wire types for the mint JSON-RPC API. Field names match the server side;
// amounts travel as decimal strings and binary payloads as base64.

type ClaimSubmission struct {
	Claimer   string `json:"claimer"`
	Payload   string `json:"payload"` // base64
	Value     string `json:"value"`
	UnitPrice string `json:"unit_price"`
	Timestamp uint64 `json:"timestamp"`
	Signature string `json:"signature"`
}

type ClaimResult struct {
	Index        uint32 `json:"index"`
	RequiredCost uint64 `json:"required_cost"`
	Fee          string `json:"fee"`
	Refund       string `json:"refund"`
	Phase        string `json:"phase"`
}

type ExpectedHashResult struct {
	Index uint32 `json:"index"`
	Hash  string `json:"hash"`
}

type PhaseResult struct {
	Index uint32 `json:"index"`
	Phase string `json:"phase"`
}

type AssembleResult struct {
	Data   string `json:"data"` // base64
	SizeKB uint64 `json:"size_kb"`
	Phase  string `json:"phase"`
}

type HasClaimedResult struct {
	Address    string `json:"address"`
	HasClaimed bool   `json:"has_claimed"`
}

type NextIndexResult struct {
	NextIndex uint32 `json:"next_index"`
	Complete  bool   `json:"complete"`
}

type BalanceResult struct {
	Balance string `json:"balance"`
}

type WithdrawSubmission struct {
	Owner     string `json:"owner"`
	Timestamp uint64 `json:"timestamp"`
	Signature string `json:"signature"`
}

type WithdrawResult struct {
	Amount string `json:"amount"`
}

type OwnerOfResult struct {
	TokenID uint32 `json:"token_id"`
	Owner   string `json:"owner"`
}

type OkResult struct {
	Ok bool `json:"ok"`
}

type HealthResult struct {
	Ok        bool   `json:"ok"`
	NextIndex uint32 `json:"next_index"`
}
