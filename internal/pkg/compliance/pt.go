package compliance

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Professional tax is levied per state on monthly gross salary. Most states
// deduct every month; Tamil Nadu and Kerala collect half-yearly, so their slab
// amounts apply only in the listed months. A few states reconcile the annual
// total by charging a higher amount in February on the top slab.

// noCap marks an unbounded slab.
const noCap int64 = -1

type PTSlab struct {
	Min    int64
	Max    int64 // noCap when unbounded
	Amount int64
}

// FebOverride swaps the slab amount in February when the base lookup landed
// on WhenAmount. Table-driven, applied after the slab match.
type FebOverride struct {
	WhenAmount int64
	Amount     int64
}

type PTStateRule struct {
	Slabs           []PTSlab
	DeductionMonths []int // empty = every month
	FebOverride     *FebOverride
}

var ptRules = map[string]PTStateRule{
	// Andhra Pradesh
	"AP": {
		Slabs: []PTSlab{
			{Min: 0, Max: 15000, Amount: 0},
			{Min: 15001, Max: 20000, Amount: 150},
			{Min: 20001, Max: noCap, Amount: 200},
		},
	},
	// Telangana, same slabs as AP
	"TS": {
		Slabs: []PTSlab{
			{Min: 0, Max: 15000, Amount: 0},
			{Min: 15001, Max: 20000, Amount: 150},
			{Min: 20001, Max: noCap, Amount: 200},
		},
	},
	// Maharashtra, 300 in February on the top slab
	"MH": {
		Slabs: []PTSlab{
			{Min: 0, Max: 7500, Amount: 0},
			{Min: 7501, Max: 10000, Amount: 175},
			{Min: 10001, Max: noCap, Amount: 200},
		},
		FebOverride: &FebOverride{WhenAmount: 200, Amount: 300},
	},
	// Karnataka
	"KA": {
		Slabs: []PTSlab{
			{Min: 0, Max: 15000, Amount: 0},
			{Min: 15001, Max: noCap, Amount: 200},
		},
	},
	// Gujarat
	"GJ": {
		Slabs: []PTSlab{
			{Min: 0, Max: 5999, Amount: 0},
			{Min: 6000, Max: 8999, Amount: 80},
			{Min: 9000, Max: 11999, Amount: 150},
			{Min: 12000, Max: noCap, Amount: 200},
		},
	},
	// Madhya Pradesh, 212 in February (208×11 + 212 = 2500 annual)
	"MP": {
		Slabs: []PTSlab{
			{Min: 0, Max: 18750, Amount: 0},
			{Min: 18751, Max: noCap, Amount: 208},
		},
		FebOverride: &FebOverride{WhenAmount: 208, Amount: 212},
	},
	// West Bengal
	"WB": {
		Slabs: []PTSlab{
			{Min: 0, Max: 10000, Amount: 0},
			{Min: 10001, Max: 15000, Amount: 110},
			{Min: 15001, Max: 25000, Amount: 130},
			{Min: 25001, Max: 40000, Amount: 150},
			{Min: 40001, Max: noCap, Amount: 200},
		},
	},
	// Odisha, 300 in February on the top slab
	"OR": {
		Slabs: []PTSlab{
			{Min: 0, Max: 13304, Amount: 0},
			{Min: 13305, Max: 25000, Amount: 125},
			{Min: 25001, Max: noCap, Amount: 200},
		},
		FebOverride: &FebOverride{WhenAmount: 200, Amount: 300},
	},
	// Punjab
	"PB": {
		Slabs: []PTSlab{
			{Min: 0, Max: 20833, Amount: 0},
			{Min: 20834, Max: noCap, Amount: 200},
		},
	},
	// Bihar
	"BR": {
		Slabs: []PTSlab{
			{Min: 0, Max: 25000, Amount: 0},
			{Min: 25001, Max: 41666, Amount: 125},
			{Min: 41667, Max: 83333, Amount: 167},
			{Min: 83334, Max: noCap, Amount: 208},
		},
	},
	// Assam
	"AS": {
		Slabs: []PTSlab{
			{Min: 0, Max: 10000, Amount: 0},
			{Min: 10001, Max: 15000, Amount: 150},
			{Min: 15001, Max: 25000, Amount: 180},
			{Min: 25001, Max: noCap, Amount: 208},
		},
	},
	// Jharkhand
	"JH": {
		Slabs: []PTSlab{
			{Min: 0, Max: 25000, Amount: 0},
			{Min: 25001, Max: 41666, Amount: 125},
			{Min: 41667, Max: 83333, Amount: 167},
			{Min: 83334, Max: noCap, Amount: 208},
		},
	},
	// Meghalaya
	"ML": {
		Slabs: []PTSlab{
			{Min: 0, Max: 4166, Amount: 0},
			{Min: 4167, Max: 6250, Amount: 6},
			{Min: 6251, Max: 8333, Amount: 12},
			{Min: 8334, Max: 10416, Amount: 18},
			{Min: 10417, Max: 12500, Amount: 24},
			{Min: 12501, Max: 14583, Amount: 30},
			{Min: 14584, Max: 16666, Amount: 36},
			{Min: 16667, Max: noCap, Amount: 50},
		},
	},
	// Tripura
	"TR": {
		Slabs: []PTSlab{
			{Min: 0, Max: 7500, Amount: 0},
			{Min: 7501, Max: 15000, Amount: 150},
			{Min: 15001, Max: noCap, Amount: 208},
		},
	},
	// Sikkim
	"SK": {
		Slabs: []PTSlab{
			{Min: 0, Max: 20000, Amount: 0},
			{Min: 20001, Max: 30000, Amount: 125},
			{Min: 30001, Max: 40000, Amount: 150},
			{Min: 40001, Max: noCap, Amount: 200},
		},
	},
	// Manipur
	"MN": {
		Slabs: []PTSlab{
			{Min: 0, Max: 4166, Amount: 0},
			{Min: 4167, Max: noCap, Amount: 200},
		},
	},
	// Mizoram
	"MZ": {
		Slabs: []PTSlab{
			{Min: 0, Max: 12500, Amount: 50},
			{Min: 12501, Max: 25000, Amount: 100},
			{Min: 25001, Max: noCap, Amount: 150},
		},
	},
	// Nagaland
	"NL": {
		Slabs: []PTSlab{
			{Min: 0, Max: 3333, Amount: 0},
			{Min: 3334, Max: noCap, Amount: 35},
		},
	},
	// Tamil Nadu, half-yearly: deducted in March and September
	"TN": {
		DeductionMonths: []int{3, 9},
		Slabs: []PTSlab{
			{Min: 0, Max: 21000, Amount: 0},
			{Min: 21001, Max: 30000, Amount: 100},
			{Min: 30001, Max: 45000, Amount: 315},
			{Min: 45001, Max: 60000, Amount: 690},
			{Min: 60001, Max: 75000, Amount: 1025},
			{Min: 75001, Max: noCap, Amount: 1250},
		},
	},
	// Kerala, half-yearly: deducted in February and August
	"KL": {
		DeductionMonths: []int{2, 8},
		Slabs: []PTSlab{
			{Min: 0, Max: 11999, Amount: 0},
			{Min: 12000, Max: 17999, Amount: 120},
			{Min: 18000, Max: 29999, Amount: 180},
			{Min: 30000, Max: 44999, Amount: 300},
			{Min: 45000, Max: 59999, Amount: 450},
			{Min: 60000, Max: 74999, Amount: 600},
			{Min: 75000, Max: 99999, Amount: 750},
			{Min: 100000, Max: 124999, Amount: 1000},
			{Min: 125000, Max: noCap, Amount: 1250},
		},
	},
	// Goa
	"GA": {
		Slabs: []PTSlab{
			{Min: 0, Max: 15000, Amount: 0},
			{Min: 15001, Max: noCap, Amount: 200},
		},
	},
}

var stateCodeMap = map[string]string{
	"ANDHRA PRADESH":    "AP",
	"ARUNACHAL PRADESH": "AR",
	"ASSAM":             "AS",
	"BIHAR":             "BR",
	"CHHATTISGARH":      "CG",
	"GOA":               "GA",
	"GUJARAT":           "GJ",
	"HARYANA":           "HR",
	"HIMACHAL PRADESH":  "HP",
	"JHARKHAND":         "JH",
	"KARNATAKA":         "KA",
	"KERALA":            "KL",
	"MADHYA PRADESH":    "MP",
	"MAHARASHTRA":       "MH",
	"MANIPUR":           "MN",
	"MEGHALAYA":         "ML",
	"MIZORAM":           "MZ",
	"NAGALAND":          "NL",
	"ODISHA":            "OR",
	"PUNJAB":            "PB",
	"RAJASTHAN":         "RJ",
	"SIKKIM":            "SK",
	"TAMIL NADU":        "TN",
	"TELANGANA":         "TS",
	"TRIPURA":           "TR",
	"UTTAR PRADESH":     "UP",
	"UTTARAKHAND":       "UK",
	"WEST BENGAL":       "WB",
	"DELHI":             "DL",
	"CHANDIGARH":        "CH",
	"LADAKH":            "LA",
	"JAMMU AND KASHMIR": "JK",
	"PUDUCHERRY":        "PY",
	"ANDAMAN AND NICOBAR ISLANDS":              "AN",
	"LAKSHADWEEP":                              "LD",
	"DADRA AND NAGAR HAVELI AND DAMAN AND DIU": "DN",
}

// NormalizeState maps a state name or code to its 2-letter code. Unrecognized
// names come back empty, which downstream resolves to "no rule".
func NormalizeState(nameOrCode string) string {
	s := strings.ToUpper(strings.TrimSpace(nameOrCode))
	if len(s) <= 2 {
		return s
	}
	return stateCodeMap[s]
}

// AmountFor returns the professional tax to deduct for the given state, gross
// monthly salary and calendar month (1-12). States without a rule, and months
// outside a half-yearly state's deduction months, yield zero.
func AmountFor(stateNameOrCode string, gross decimal.Decimal, month int) decimal.Decimal {
	code := NormalizeState(stateNameOrCode)
	rule, ok := ptRules[code]
	if !ok {
		return decimal.Zero
	}

	if len(rule.DeductionMonths) > 0 && !containsMonth(rule.DeductionMonths, month) {
		return decimal.Zero
	}

	for _, slab := range rule.Slabs {
		if gross.Cmp(decimal.NewFromInt(slab.Min)) < 0 {
			continue
		}
		if slab.Max != noCap && gross.Cmp(decimal.NewFromInt(slab.Max)) > 0 {
			continue
		}

		amount := slab.Amount
		if month == 2 && rule.FebOverride != nil && rule.FebOverride.WhenAmount == amount {
			amount = rule.FebOverride.Amount
		}
		return decimal.NewFromInt(amount)
	}

	return decimal.Zero
}

func containsMonth(months []int, month int) bool {
	for _, m := range months {
		if m == month {
			return true
		}
	}
	return false
}
