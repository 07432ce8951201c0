package strategy

// Outcome is the settlement result of a closed position.
type Outcome int

// Settlement outcomes.
const (
	OutcomeOpen Outcome = iota
	OutcomeWin
	OutcomeLoss
	OutcomeTie
)

// Position is a binary-option position: it settles at expiry against the
// entry price. A position is owned exclusively by the strategy instance that
// opened it.
type Position interface {
	// HasExpired reports whether the position expires at or before the given
	// time (epoch seconds).
	HasExpired(timestamp int64) bool

	// Close settles the position at the settlement price.
	Close(settlementPrice float64, timestamp int64)

	// Outcome returns the settlement outcome, OutcomeOpen before Close.
	Outcome() Outcome

	// ProfitLoss returns the realized profit or loss. Zero before Close.
	ProfitLoss() float64

	// Investment returns the amount staked.
	Investment() float64
}

// position carries the lifecycle shared by call and put positions.
type position struct {
	entryPrice    float64
	openedAt      int64
	expiresAt     int64
	investment    float64
	profitability float64

	closed     bool
	outcome    Outcome
	profitLoss float64
}

func newPosition(entryPrice float64, timestamp int64, investment, profitability float64, expiryMinutes int64) position {
	return position{
		entryPrice:    entryPrice,
		openedAt:      timestamp,
		expiresAt:     timestamp + expiryMinutes*60,
		investment:    investment,
		profitability: profitability,
	}
}

func (p *position) HasExpired(timestamp int64) bool { return timestamp >= p.expiresAt }

func (p *position) Outcome() Outcome { return p.outcome }

func (p *position) ProfitLoss() float64 { return p.profitLoss }

func (p *position) Investment() float64 { return p.investment }

// settle resolves the position given whether the direction was right.
// A settlement exactly at the entry price is a tie and returns the stake.
func (p *position) settle(settlementPrice float64, won bool) {
	if p.closed {
		return
	}
	p.closed = true

	switch {
	case settlementPrice == p.entryPrice:
		p.outcome = OutcomeTie
		p.profitLoss = 0
	case won:
		p.outcome = OutcomeWin
		p.profitLoss = p.investment * p.profitability
	default:
		p.outcome = OutcomeLoss
		p.profitLoss = -p.investment
	}
}

// CallPosition wins when the settlement price is above the entry price.
type CallPosition struct {
	position
}

// NewCall opens a call position.
func NewCall(entryPrice float64, timestamp int64, investment, profitability float64, expiryMinutes int64) *CallPosition {
	return &CallPosition{position: newPosition(entryPrice, timestamp, investment, profitability, expiryMinutes)}
}

// Close implements Position.
func (p *CallPosition) Close(settlementPrice float64, _ int64) {
	p.settle(settlementPrice, settlementPrice > p.entryPrice)
}

// PutPosition wins when the settlement price is below the entry price.
type PutPosition struct {
	position
}

// NewPut opens a put position.
func NewPut(entryPrice float64, timestamp int64, investment, profitability float64, expiryMinutes int64) *PutPosition {
	return &PutPosition{position: newPosition(entryPrice, timestamp, investment, profitability, expiryMinutes)}
}

// Close implements Position.
func (p *PutPosition) Close(settlementPrice float64, _ int64) {
	p.settle(settlementPrice, settlementPrice < p.entryPrice)
}

var (
	_ Position = (*CallPosition)(nil)
	_ Position = (*PutPosition)(nil)
)
