package service

import (
	"math"
	"sort"

	billingdomain "github.com/greentruckerlabs/greentrucker/internal/billing/domain"
	paymentdomain "github.com/greentruckerlabs/greentrucker/internal/payment/domain"
	pricingdomain "github.com/greentruckerlabs/greentrucker/internal/pricing/domain"
	wastedomain "github.com/greentruckerlabs/greentrucker/internal/waste/domain"
)

// recordTotals is the priced outcome of a single collection record.
type recordTotals struct {
	garbageCost     float64
	recyclingReward float64
	totalPrice      float64
}

type breakdownKey struct {
	wasteType wastedomain.WasteType
	category  string
}

// accumulator folds priced waste items for one resident.
type accumulator struct {
	totals   recordTotals
	lines    map[breakdownKey]*billingdomain.CategoryLine
	unpriced map[string]struct{}
}

func newAccumulator() *accumulator {
	return &accumulator{
		lines:    make(map[breakdownKey]*billingdomain.CategoryLine),
		unpriced: make(map[string]struct{}),
	}
}

func (a *accumulator) add(record wastedomain.WasteCollection, catalog pricingdomain.Catalog) {
	for _, item := range record.Garbage {
		unitPrice, priced := catalog[item.Category]
		if !priced {
			// Unmatched categories contribute exactly zero; whether that is
			// acceptable is decided by the caller's policy.
			a.unpriced[item.Category] = struct{}{}
			unitPrice = 0
		}
		amount := item.Weight * unitPrice

		switch item.WasteType {
		case wastedomain.WasteTypeRecyclable:
			a.totals.recyclingReward += amount
			a.totals.totalPrice -= amount
		default:
			a.totals.garbageCost += amount
			a.totals.totalPrice += amount
		}

		key := breakdownKey{wasteType: item.WasteType, category: item.Category}
		line, ok := a.lines[key]
		if !ok {
			line = &billingdomain.CategoryLine{
				WasteType:    item.WasteType,
				Category:     item.Category,
				PricePerUnit: unitPrice,
			}
			a.lines[key] = line
		}
		line.Weight += item.Weight
		line.Amount += amount
	}
}

func (a *accumulator) statement(residentID string, payments []paymentdomain.PaymentRecord) *billingdomain.Statement {
	var priorPayments float64
	for _, p := range payments {
		priorPayments += p.Amount
	}

	return &billingdomain.Statement{
		ResidentID:           residentID,
		TotalGarbageCost:     a.totals.garbageCost,
		TotalRecyclingReward: a.totals.recyclingReward,
		TotalPrice:           a.totals.totalPrice,
		PriorPaymentsTotal:   priorPayments,
		OutstandingBalance:   math.Max(a.totals.totalPrice-priorPayments, 0),
		PerCategoryBreakdown: a.breakdown(),
		UnpricedCategories:   a.unpricedList(),
	}
}

func (a *accumulator) breakdown() []billingdomain.CategoryLine {
	lines := make([]billingdomain.CategoryLine, 0, len(a.lines))
	for _, line := range a.lines {
		lines = append(lines, *line)
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].WasteType != lines[j].WasteType {
			return lines[i].WasteType < lines[j].WasteType
		}
		return lines[i].Category < lines[j].Category
	})
	return lines
}

func (a *accumulator) unpricedList() []string {
	if len(a.unpriced) == 0 {
		return nil
	}
	categories := make([]string, 0, len(a.unpriced))
	for category := range a.unpriced {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	return categories
}

// BuildStatement computes the cost breakdown and outstanding balance for one
// resident. Pure: same inputs always produce the same statement.
func BuildStatement(
	residentID string,
	records []wastedomain.WasteCollection,
	catalog pricingdomain.Catalog,
	payments []paymentdomain.PaymentRecord,
	policy billingdomain.UnpricedPolicy,
) (*billingdomain.Statement, error) {
	acc := newAccumulator()
	for _, record := range records {
		acc.add(record, catalog)
	}
	if policy == billingdomain.UnpricedPolicyReject {
		if unpriced := acc.unpricedList(); len(unpriced) > 0 {
			return nil, &billingdomain.UnpricedCategoryError{Categories: unpriced}
		}
	}
	return acc.statement(residentID, payments), nil
}

// BuildOverview computes one statement per resident across all records, the
// administrator view. Residents that only appear in the payment ledger are
// included with empty totals so overpayments stay visible.
func BuildOverview(
	records []wastedomain.WasteCollection,
	catalog pricingdomain.Catalog,
	payments []paymentdomain.PaymentRecord,
	policy billingdomain.UnpricedPolicy,
) ([]billingdomain.Statement, error) {
	recordsByResident := make(map[string][]wastedomain.WasteCollection)
	for _, record := range records {
		recordsByResident[record.ResidentID] = append(recordsByResident[record.ResidentID], record)
	}
	paymentsByResident := make(map[string][]paymentdomain.PaymentRecord)
	for _, payment := range payments {
		paymentsByResident[payment.CustomerID] = append(paymentsByResident[payment.CustomerID], payment)
	}

	residents := make([]string, 0, len(recordsByResident))
	for resident := range recordsByResident {
		residents = append(residents, resident)
	}
	for resident := range paymentsByResident {
		if _, ok := recordsByResident[resident]; !ok {
			residents = append(residents, resident)
		}
	}
	sort.Strings(residents)

	statements := make([]billingdomain.Statement, 0, len(residents))
	for _, resident := range residents {
		statement, err := BuildStatement(resident, recordsByResident[resident], catalog, paymentsByResident[resident], policy)
		if err != nil {
			return nil, err
		}
		statements = append(statements, *statement)
	}
	return statements, nil
}
