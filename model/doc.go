// Package model provides model identifiers, per-model pricing, and cost
// accounting for completion calls.
//
// Prices are quoted per 1000 tokens in one or more currencies. Costs are
// computed from the total token count reported by the provider:
//
//	costs := model.NewCostModel()
//	cost := costs.Price("gpt-4o-mini", 900)
//	usd, _ := cost.In(model.USD) // 0.0135
//	qar, _ := cost.In(model.QAR) // 0.05
//
// Unknown models are priced with the DefaultModel row; the returned Cost
// reports DefaultPriceUsed so callers can surface it, but pricing never fails.
//
// # Cost Tracking
//
//	tracker := model.NewCostTracker()
//	tracker.Record("gpt-4o-mini", 900, cost)
//	total := tracker.TotalCost(model.USD)
package model
