package interfaces

// CostMeter reports the execution cost consumed so far by the operation it
// was created for. The fee engine reads it at the fee-check point; it is an
// injected capability so the metering mechanism stays replaceable.
type CostMeter interface {
	// Charge records units of consumed execution cost
	Charge(units uint64)

	// Consumed returns the total units consumed so far
	Consumed() uint64
}
