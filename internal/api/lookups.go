package api

import "context"

// Reference listings used to resolve names into UUIDs before a write.
// All of them are small enough to fetch unbounded.

// Staff returns the account's active staff members.
func (s LookupsService) Staff(ctx context.Context) ([]Staff, error) {
	return listRecords[Staff](ctx, s.Client, "staff", nil, false, nil, 0)
}

// Queues returns the account's active job queues.
func (s LookupsService) Queues(ctx context.Context) ([]Queue, error) {
	return listRecords[Queue](ctx, s.Client, "queue", nil, false, nil, 0)
}

// AllocationWindows returns the account's active allocation windows.
func (s LookupsService) AllocationWindows(ctx context.Context) ([]AllocationWindow, error) {
	return listRecords[AllocationWindow](ctx, s.Client, "allocationWindow", nil, false, nil, 0)
}

// Categories returns the account's active job categories.
func (s LookupsService) Categories(ctx context.Context) ([]Category, error) {
	return listRecords[Category](ctx, s.Client, "category", nil, false, nil, 0)
}

// TaxRates returns the account's active tax rates.
func (s LookupsService) TaxRates(ctx context.Context) ([]TaxRate, error) {
	return listRecords[TaxRate](ctx, s.Client, "taxRate", nil, false, nil, 0)
}
