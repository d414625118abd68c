package model

import (
	"math"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Currency is an ISO 4217 currency code.
type Currency string

// Supported currencies.
const (
	USD Currency = "USD"
	QAR Currency = "QAR"
)

// DefaultExchangeRate converts USD amounts to QAR.
const DefaultExchangeRate = 3.64

// Price maps a currency to the price of 1000 tokens.
type Price map[Currency]float64

// PriceTable maps model identifiers to their price rows.
type PriceTable map[ModelID]Price

// DefaultPrices contains the static price table used when none is configured.
var DefaultPrices = PriceTable{
	ModelGPT4oMini:  {USD: 0.015},
	ModelGPT4o:      {USD: 2.50},
	ModelGPT41Mini:  {USD: 0.015},
	ModelGPT35Turbo: {USD: 0.002},
}

// Amount is a monetary value in a single currency.
type Amount struct {
	Currency Currency `json:"currency"`
	Value    float64  `json:"amount"`
}

// Cost is the priced result of a completion call.
type Cost struct {
	// Amounts lists the cost per currency, primary currency first.
	Amounts []Amount `json:"amounts"`

	// PricedAs is the price-table row that was applied.
	PricedAs ModelID `json:"priced_as"`

	// DefaultPriceUsed is set when the requested model was not in the table.
	DefaultPriceUsed bool `json:"default_price_used,omitempty"`
}

// In returns the amount in the given currency.
func (c Cost) In(cur Currency) (float64, bool) {
	for _, a := range c.Amounts {
		if a.Currency == cur {
			return a.Value, true
		}
	}
	return 0, false
}

// CostModel prices token counts using a static price table.
// It holds no mutable state and is safe for concurrent use.
type CostModel struct {
	table        PriceTable
	defaultModel ModelID
	primary      Currency
	display      Currency
	rate         float64
	logger       *zap.Logger
}

// Option configures a CostModel.
type Option func(*CostModel)

// WithPriceTable replaces the default price table.
func WithPriceTable(table PriceTable) Option {
	return func(m *CostModel) { m.table = table }
}

// WithDefaultModel sets the row used for unknown models.
func WithDefaultModel(id ModelID) Option {
	return func(m *CostModel) { m.defaultModel = id }
}

// WithDisplayCurrency sets the secondary currency and its exchange rate from
// the primary currency. An empty currency disables the secondary amount.
func WithDisplayCurrency(cur Currency, rate float64) Option {
	return func(m *CostModel) {
		m.display = cur
		m.rate = rate
	}
}

// WithLogger sets the logger used to report default-price fallbacks.
func WithLogger(logger *zap.Logger) Option {
	return func(m *CostModel) { m.logger = logger }
}

// NewCostModel creates a cost model with USD as the primary costing currency
// and QAR as the display currency.
func NewCostModel(opts ...Option) *CostModel {
	m := &CostModel{
		table:        DefaultPrices,
		defaultModel: DefaultModel,
		primary:      USD,
		display:      QAR,
		rate:         DefaultExchangeRate,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Lookup returns the price row for modelID and the key it was found under.
// The bool is false when the default row was substituted.
func (m *CostModel) Lookup(modelID string) (Price, ModelID, bool) {
	id := NormalizeModelID(modelID)
	if row, ok := m.table[id]; ok {
		return row, id, true
	}
	return m.table[m.defaultModel], m.defaultModel, false
}

// Price computes the cost of tokens for modelID.
// Unknown models are priced with the default row; this is logged, never an error.
func (m *CostModel) Price(modelID string, tokens int) Cost {
	row, pricedAs, found := m.Lookup(modelID)
	if !found {
		m.logger.Warn("model not in price table, using default price",
			zap.String("model", modelID),
			zap.String("default_model", string(m.defaultModel)))
	}
	if tokens < 0 {
		tokens = 0
	}

	cost := Cost{PricedAs: pricedAs, DefaultPriceUsed: !found}
	thousands := float64(tokens) / 1000

	primary, hasPrimary := row[m.primary]
	if hasPrimary {
		raw := thousands * primary
		cost.Amounts = append(cost.Amounts, Amount{Currency: m.primary, Value: round(raw, 4)})

		if m.display != "" && m.display != m.primary {
			if unit, ok := row[m.display]; ok {
				cost.Amounts = append(cost.Amounts, Amount{Currency: m.display, Value: round(thousands*unit, 2)})
			} else if m.rate > 0 {
				cost.Amounts = append(cost.Amounts, Amount{Currency: m.display, Value: round(raw*m.rate, 2)})
			}
		}
	}

	// Any other currencies quoted in the row, in stable order.
	var others []Currency
	for cur := range row {
		if cur == m.primary || (hasPrimary && cur == m.display) {
			continue
		}
		others = append(others, cur)
	}
	sort.Slice(others, func(i, j int) bool { return others[i] < others[j] })
	for _, cur := range others {
		cost.Amounts = append(cost.Amounts, Amount{Currency: cur, Value: round(thousands*row[cur], 4)})
	}

	return cost
}

// Estimate returns an upper-bound cost for a prompt of promptTokens that may
// produce up to maxCompletion tokens.
func (m *CostModel) Estimate(modelID string, promptTokens, maxCompletion int) Cost {
	return m.Price(modelID, promptTokens+maxCompletion)
}

// round rounds v to the given number of decimal places.
func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

// Usage tracks token usage and spend for a model.
type Usage struct {
	Tokens   int
	Requests int
	Spend    map[Currency]float64
}

// CostTracker tracks token usage and costs across models.
// Safe for concurrent use.
type CostTracker struct {
	mu     sync.RWMutex
	totals map[ModelID]Usage
}

// NewCostTracker creates a new cost tracker.
func NewCostTracker() *CostTracker {
	return &CostTracker{
		totals: make(map[ModelID]Usage),
	}
}

// Record adds a priced request for the given model.
func (t *CostTracker) Record(modelID string, tokens int, cost Cost) {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := NormalizeModelID(modelID)
	u := t.totals[id]
	if u.Spend == nil {
		u.Spend = make(map[Currency]float64)
	}
	u.Tokens += tokens
	u.Requests++
	for _, a := range cost.Amounts {
		u.Spend[a.Currency] += a.Value
	}
	t.totals[id] = u
}

// Usage returns the usage for a specific model.
func (t *CostTracker) Usage(modelID string) Usage {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return copyUsage(t.totals[NormalizeModelID(modelID)])
}

// TotalTokens returns the tokens recorded across all models.
func (t *CostTracker) TotalTokens() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var total int
	for _, u := range t.totals {
		total += u.Tokens
	}
	return total
}

// TotalCost returns the spend recorded in cur across all models.
func (t *CostTracker) TotalCost(cur Currency) float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var total float64
	for _, u := range t.totals {
		total += u.Spend[cur]
	}
	return total
}

// Reset clears all tracked usage.
func (t *CostTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.totals = make(map[ModelID]Usage)
}

func copyUsage(u Usage) Usage {
	spend := make(map[Currency]float64, len(u.Spend))
	for k, v := range u.Spend {
		spend[k] = v
	}
	u.Spend = spend
	return u
}
