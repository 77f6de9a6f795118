package domain

// Order is the trade the router decided to place, after sizing, risk
// checks and limit-price calculation.
type Order struct {
	TokenID  string
	Side     string  // "BUY" | "SELL"
	Price    float64 // slippage-adjusted limit price
	Shares   float64
	USDValue float64
}

// OrderResult is the outcome of dispatching an Order.
type OrderResult struct {
	Success       bool
	OrderID       string
	ExecutedPrice float64
	ExecutedSize  float64
	Error         string
}

// ExecutionResult is the uniform record returned for every signal,
// whether it was skipped, simulated or executed.
type ExecutionResult struct {
	TradeID    string
	Skipped    bool
	SkipReason string
	DryRun     bool
	Order      *Order
	Result     *OrderResult
}

// Skip builds a skipped result with a human-readable reason.
func Skip(tradeID, reason string) ExecutionResult {
	return ExecutionResult{TradeID: tradeID, Skipped: true, SkipReason: reason}
}
