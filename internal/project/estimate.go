package project

import "math"

// Category is a cost estimate line category.
type Category string

const (
	CategoryFoundation   Category = "Foundation"
	CategoryFraming      Category = "Framing"
	CategoryRoofing      Category = "Roofing"
	CategorySiding       Category = "Siding"
	CategoryWindowsDoors Category = "Windows/Doors"
	CategoryInterior     Category = "Interior"
)

// Categories lists the estimate categories in line order.
var Categories = []Category{
	CategoryFoundation,
	CategoryFraming,
	CategoryRoofing,
	CategorySiding,
	CategoryWindowsDoors,
	CategoryInterior,
}

// categorySelection returns the selection a category's rate is keyed by.
// Categories missing here only have a default rate.
var categorySelection = map[Category]func(p *Project) string{
	CategoryFoundation: func(p *Project) string { return string(p.FoundationType) },
	CategoryFraming:    func(p *Project) string { return string(p.WallMaterial) },
	CategoryRoofing:    func(p *Project) string { return string(p.RoofMaterial) },
	CategorySiding:     func(p *Project) string { return string(p.WallMaterial) },
}

// Rate is the cost of a category: a flat base plus a per-square-foot amount.
type Rate struct {
	Base    Money `json:"base_cents"`
	PerSqFt Money `json:"per_sq_ft_cents"`
}

// CostTable maps (category, selection) to a Rate, with a default row per
// category for missing or unknown selections.
type CostTable struct {
	Defaults    map[Category]Rate
	BySelection map[Category]map[string]Rate
}

// DefaultCostTable returns the built-in cost table.
func DefaultCostTable() *CostTable {
	return &CostTable{
		Defaults: map[Category]Rate{
			CategoryFoundation:   {Base: 250000, PerSqFt: 1200},
			CategoryFraming:      {Base: 300000, PerSqFt: 1800},
			CategoryRoofing:      {Base: 150000, PerSqFt: 900},
			CategorySiding:       {Base: 100000, PerSqFt: 800},
			CategoryWindowsDoors: {Base: 320000, PerSqFt: 200},
			CategoryInterior:     {Base: 400000, PerSqFt: 2500},
		},
		BySelection: map[Category]map[string]Rate{
			CategoryFoundation: {
				string(FoundationConcreteSlab): {Base: 200000, PerSqFt: 1000},
				string(FoundationPier):         {Base: 150000, PerSqFt: 750},
				string(FoundationCrawlSpace):   {Base: 300000, PerSqFt: 1400},
			},
			CategoryFraming: {
				string(Wall2x6Wood): {Base: 300000, PerSqFt: 1800},
				string(Wall2x8Wood): {Base: 350000, PerSqFt: 2100},
				string(WallLog):     {Base: 600000, PerSqFt: 3200},
				string(WallSteel):   {Base: 500000, PerSqFt: 2600},
			},
			CategoryRoofing: {
				string(RoofMetal):   {Base: 180000, PerSqFt: 1100},
				string(RoofAsphalt): {Base: 120000, PerSqFt: 700},
				string(RoofCedar):   {Base: 220000, PerSqFt: 1400},
			},
			CategorySiding: {
				// Log walls are their own exterior finish.
				string(WallLog):   {Base: 0, PerSqFt: 0},
				string(WallSteel): {Base: 80000, PerSqFt: 600},
			},
		},
	}
}

// Rate resolves the rate for a category and selection.
func (t *CostTable) Rate(c Category, selection string) Rate {
	if selection != "" {
		if rates, ok := t.BySelection[c]; ok {
			if r, ok := rates[selection]; ok {
				return r
			}
		}
	}
	return t.Defaults[c]
}

// LineItem is one category of a cost estimate.
type LineItem struct {
	Category Category `json:"category"`
	Amount   Money    `json:"amount_cents"`

	// RunningTotal is the sum of this and all earlier line amounts
	RunningTotal Money `json:"running_total_cents"`
}

// Estimate is an itemized cost estimate. Total always equals the sum of
// LineItems amounts.
type Estimate struct {
	LineItems []LineItem `json:"line_items"`
	Total     Money      `json:"total_cents"`
}

// Estimator computes cost estimates from a cost table and a regional factor.
type Estimator struct {
	table  *CostTable
	factor float64
}

// NewEstimator creates an Estimator. A nil table uses DefaultCostTable and a
// non-positive factor is treated as 1.
func NewEstimator(table *CostTable, factor float64) *Estimator {
	if table == nil {
		table = DefaultCostTable()
	}
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		factor = 1
	}
	return &Estimator{table: table, factor: factor}
}

// Estimate maps the project's selections to line items and a total.
// Missing selections fall back to each category's default rate.
func (e *Estimator) Estimate(p Project) Estimate {
	area := Area(p.Width, p.Length)

	items := make([]LineItem, 0, len(Categories))
	var total Money
	for _, c := range Categories {
		selection := ""
		if sel, ok := categorySelection[c]; ok {
			selection = sel(&p)
		}
		amount := e.amount(e.table.Rate(c, selection), area)
		total += amount
		items = append(items, LineItem{
			Category:     c,
			Amount:       amount,
			RunningTotal: total,
		})
	}

	return Estimate{LineItems: items, Total: total}
}

// amount prices a rate for an area, rounded to the cent and never negative.
func (e *Estimator) amount(r Rate, area float64) Money {
	v := math.Round((float64(r.Base) + float64(r.PerSqFt)*area) * e.factor)
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v >= float64(maxLineAmount) {
		return maxLineAmount
	}
	return Money(v)
}

// maxLineAmount caps a single line so the summed total cannot overflow.
const maxLineAmount = Money(math.MaxInt64 / 8)
