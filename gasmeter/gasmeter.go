package gasmeter

// Tariff prices the work a claim performs in execution-cost units. Storing
// more bytes and copying a larger cumulative image cost more, which is why
// later claims measure a higher spent cost without any lookup table.
type Tariff struct {
	// StepUnits is charged once per claim operation
	StepUnits uint64
	// UnitsPerByte is charged per payload byte written
	UnitsPerByte uint64
	// CumulativeUnits is charged per already-claimed chunk, covering the
	// growing offset bookkeeping
	CumulativeUnits uint64
}

// DefaultTariff mirrors the conventional base-transaction / per-byte costs.
func DefaultTariff() Tariff {
	return Tariff{
		StepUnits:       21000,
		UnitsPerByte:    68,
		CumulativeUnits: 640,
	}
}

// TallyMeter is the default CostMeter: a plain monotonic tally, one per
// claim operation.
type TallyMeter struct {
	consumed uint64
}

func NewTallyMeter() *TallyMeter {
	return &TallyMeter{}
}

func (m *TallyMeter) Charge(units uint64) {
	m.consumed += units
}

func (m *TallyMeter) Consumed() uint64 {
	return m.consumed
}
