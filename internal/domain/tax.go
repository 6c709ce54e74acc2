package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// PTKPStatus is the marital/dependent code that fixes an employee's
// non-taxable income threshold, e.g. "TK/0" or "K/2".
type PTKPStatus string

const (
	PTKPTK0 PTKPStatus = "TK/0"
	PTKPTK1 PTKPStatus = "TK/1"
	PTKPTK2 PTKPStatus = "TK/2"
	PTKPTK3 PTKPStatus = "TK/3"
	PTKPK0  PTKPStatus = "K/0"
	PTKPK1  PTKPStatus = "K/1"
	PTKPK2  PTKPStatus = "K/2"
	PTKPK3  PTKPStatus = "K/3"
)

// TERCategory is the rate-bracket category a PTKP status maps to.
type TERCategory string

const (
	TERCategoryA TERCategory = "A"
	TERCategoryB TERCategory = "B"
	TERCategoryC TERCategory = "C"
)

var (
	ptkpBase       = decimal.NewFromInt(54_000_000)
	ptkpMarried    = decimal.NewFromInt(4_500_000)
	ptkpDependent  = decimal.NewFromInt(4_500_000)
	taxableRounder = decimal.NewFromInt(1_000)
	monthsPerYear  = decimal.NewFromInt(12)
)

type taxBracket struct {
	upTo decimal.Decimal // zero means unbounded
	rate decimal.Decimal
}

// Annual progressive brackets for individual income.
var taxBrackets = []taxBracket{
	{upTo: decimal.NewFromInt(60_000_000), rate: decimal.RequireFromString("0.05")},
	{upTo: decimal.NewFromInt(250_000_000), rate: decimal.RequireFromString("0.15")},
	{upTo: decimal.NewFromInt(500_000_000), rate: decimal.RequireFromString("0.25")},
	{upTo: decimal.NewFromInt(5_000_000_000), rate: decimal.RequireFromString("0.30")},
	{upTo: decimal.Zero, rate: decimal.RequireFromString("0.35")},
}

// ParsePTKPStatus normalizes and validates a status code.
func ParsePTKPStatus(s string) (PTKPStatus, error) {
	status := PTKPStatus(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", "")))
	if _, _, ok := status.split(); !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidPTKPStatus, s)
	}
	return status, nil
}

func (s PTKPStatus) split() (married bool, dependents int, ok bool) {
	switch s {
	case PTKPTK0:
		return false, 0, true
	case PTKPTK1:
		return false, 1, true
	case PTKPTK2:
		return false, 2, true
	case PTKPTK3:
		return false, 3, true
	case PTKPK0:
		return true, 0, true
	case PTKPK1:
		return true, 1, true
	case PTKPK2:
		return true, 2, true
	case PTKPK3:
		return true, 3, true
	}
	return false, 0, false
}

// Valid reports whether s is one of the eight known codes.
func (s PTKPStatus) Valid() bool {
	_, _, ok := s.split()
	return ok
}

// AnnualExemption returns the yearly non-taxable amount for s.
// Unknown codes get the single-no-dependents exemption.
func (s PTKPStatus) AnnualExemption() decimal.Decimal {
	married, dependents, _ := s.split()
	amount := ptkpBase
	if married {
		amount = amount.Add(ptkpMarried)
	}
	return amount.Add(ptkpDependent.Mul(decimal.NewFromInt(int64(dependents))))
}

// Category returns the rate-bracket category for s. It selects the
// monthly effective-rate table.
func (s PTKPStatus) Category() TERCategory {
	switch s {
	case PTKPTK2, PTKPTK3, PTKPK1, PTKPK2:
		return TERCategoryB
	case PTKPK3:
		return TERCategoryC
	default:
		return TERCategoryA
	}
}

// terBracket is one row of a monthly effective-rate table: gross up to
// and including upTo is taxed at rate.
type terBracket struct {
	upTo int64 // zero means unbounded
	rate string
}

// Monthly effective rates (TER) per category, applied to the month's gross.
var terTables = map[TERCategory][]terBracket{
	TERCategoryA: {
		{5_400_000, "0"}, {5_650_000, "0.0025"}, {5_950_000, "0.005"}, {6_300_000, "0.0075"},
		{6_750_000, "0.01"}, {7_500_000, "0.0125"}, {8_550_000, "0.015"}, {9_650_000, "0.0175"},
		{10_050_000, "0.02"}, {10_350_000, "0.0225"}, {10_700_000, "0.025"}, {11_050_000, "0.03"},
		{11_600_000, "0.035"}, {12_500_000, "0.04"}, {13_750_000, "0.05"}, {15_100_000, "0.06"},
		{16_950_000, "0.07"}, {19_750_000, "0.08"}, {24_150_000, "0.09"}, {26_450_000, "0.10"},
		{28_000_000, "0.11"}, {30_050_000, "0.12"}, {32_400_000, "0.13"}, {35_400_000, "0.14"},
		{39_100_000, "0.15"}, {43_850_000, "0.16"}, {47_800_000, "0.17"}, {51_400_000, "0.18"},
		{56_300_000, "0.19"}, {62_200_000, "0.20"}, {68_600_000, "0.21"}, {77_500_000, "0.22"},
		{89_000_000, "0.23"}, {103_000_000, "0.24"}, {125_000_000, "0.25"}, {157_000_000, "0.26"},
		{206_000_000, "0.27"}, {337_000_000, "0.28"}, {454_000_000, "0.29"}, {550_000_000, "0.30"},
		{695_000_000, "0.31"}, {910_000_000, "0.32"}, {1_400_000_000, "0.33"}, {0, "0.34"},
	},
	TERCategoryB: {
		{6_200_000, "0"}, {6_500_000, "0.0025"}, {6_850_000, "0.005"}, {7_300_000, "0.0075"},
		{9_200_000, "0.01"}, {10_750_000, "0.015"}, {11_250_000, "0.02"}, {11_600_000, "0.025"},
		{12_600_000, "0.03"}, {13_600_000, "0.04"}, {14_950_000, "0.05"}, {16_400_000, "0.06"},
		{18_450_000, "0.07"}, {21_850_000, "0.08"}, {26_000_000, "0.09"}, {27_700_000, "0.10"},
		{29_350_000, "0.11"}, {31_450_000, "0.12"}, {33_950_000, "0.13"}, {37_100_000, "0.14"},
		{41_100_000, "0.15"}, {45_800_000, "0.16"}, {49_500_000, "0.17"}, {53_800_000, "0.18"},
		{58_500_000, "0.19"}, {64_000_000, "0.20"}, {71_000_000, "0.21"}, {80_000_000, "0.22"},
		{93_000_000, "0.23"}, {109_000_000, "0.24"}, {129_000_000, "0.25"}, {163_000_000, "0.26"},
		{211_000_000, "0.27"}, {374_000_000, "0.28"}, {459_000_000, "0.29"}, {555_000_000, "0.30"},
		{704_000_000, "0.31"}, {957_000_000, "0.32"}, {1_405_000_000, "0.33"}, {0, "0.34"},
	},
	TERCategoryC: {
		{6_600_000, "0"}, {6_950_000, "0.0025"}, {7_350_000, "0.005"}, {7_800_000, "0.0075"},
		{8_850_000, "0.01"}, {9_800_000, "0.0125"}, {10_950_000, "0.015"}, {11_200_000, "0.0175"},
		{12_050_000, "0.02"}, {12_950_000, "0.03"}, {14_150_000, "0.04"}, {15_550_000, "0.05"},
		{17_050_000, "0.06"}, {19_500_000, "0.07"}, {22_700_000, "0.08"}, {26_600_000, "0.09"},
		{28_100_000, "0.10"}, {30_100_000, "0.11"}, {32_600_000, "0.12"}, {35_400_000, "0.13"},
		{38_900_000, "0.14"}, {43_000_000, "0.15"}, {47_400_000, "0.16"}, {51_200_000, "0.17"},
		{55_800_000, "0.18"}, {60_400_000, "0.19"}, {66_700_000, "0.20"}, {74_500_000, "0.21"},
		{83_200_000, "0.22"}, {95_600_000, "0.23"}, {110_000_000, "0.24"}, {134_000_000, "0.25"},
		{169_000_000, "0.26"}, {221_000_000, "0.27"}, {390_000_000, "0.28"}, {463_000_000, "0.29"},
		{561_000_000, "0.30"}, {709_000_000, "0.31"}, {965_000_000, "0.32"}, {1_419_000_000, "0.33"},
		{0, "0.34"},
	},
}

// TERRate returns the monthly effective rate category c applies to gross.
func TERRate(c TERCategory, grossMonthly decimal.Decimal) decimal.Decimal {
	table, ok := terTables[c]
	if !ok {
		table = terTables[TERCategoryA]
	}
	for _, b := range table {
		if b.upTo == 0 || !grossMonthly.GreaterThan(decimal.NewFromInt(b.upTo)) {
			return decimal.RequireFromString(b.rate)
		}
	}
	return decimal.RequireFromString(table[len(table)-1].rate)
}

// WithholdingMethod tells how MonthlyTax was derived.
type WithholdingMethod string

const (
	// MethodTER applies the category's monthly effective rate to the gross.
	MethodTER WithholdingMethod = "TER"
	// MethodAnnualized settles the year in December: annual progressive tax
	// less eleven months withheld under TER.
	MethodAnnualized WithholdingMethod = "ANNUALIZED"
)

// FinalTaxMonth is the month whose withholding settles the tax year.
const FinalTaxMonth = 12

// Withholding is the full breakdown of a monthly withholding computation.
// The annual fields are always filled so a non-final month can be compared
// with the year-end position.
type Withholding struct {
	Status        PTKPStatus        `json:"ptkp_status"`
	Category      TERCategory       `json:"category"`
	Method        WithholdingMethod `json:"method"`
	TERRate       decimal.Decimal   `json:"ter_rate"`
	GrossMonthly  decimal.Decimal   `json:"gross_monthly"`
	AnnualGross   decimal.Decimal   `json:"annual_gross"`
	Exemption     decimal.Decimal   `json:"exemption"`
	TaxableIncome decimal.Decimal   `json:"taxable_income"`
	AnnualTax     decimal.Decimal   `json:"annual_tax"`
	MonthlyTax    decimal.Decimal   `json:"monthly_tax"`
}

// ComputeWithholding returns the withholding for a month outside December:
// the gross times the effective rate of the status's category, rounded to
// whole rupiah.
func ComputeWithholding(status PTKPStatus, grossMonthly decimal.Decimal) Withholding {
	category := status.Category()
	rate := TERRate(category, grossMonthly)

	annual := grossMonthly.Mul(monthsPerYear)
	exemption := status.AnnualExemption()

	taxable := annual.Sub(exemption)
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}
	taxable = taxable.Div(taxableRounder).Floor().Mul(taxableRounder)

	return Withholding{
		Status:        status,
		Category:      category,
		Method:        MethodTER,
		TERRate:       rate,
		GrossMonthly:  grossMonthly,
		AnnualGross:   annual,
		Exemption:     exemption,
		TaxableIncome: taxable,
		AnnualTax:     progressiveTax(taxable),
		MonthlyTax:    grossMonthly.Mul(rate).Round(0),
	}
}

// ComputeWithholdingForMonth is ComputeWithholding for a payroll month. In
// FinalTaxMonth the gross is annualized, the PTKP exemption and progressive
// brackets applied, and the eleven TER withholdings at the same gross are
// deducted. Taxable income is rounded down to the nearest thousand. An
// over-withheld year yields zero.
func ComputeWithholdingForMonth(status PTKPStatus, grossMonthly decimal.Decimal, month int) Withholding {
	w := ComputeWithholding(status, grossMonthly)
	if month != FinalTaxMonth {
		return w
	}

	withheld := w.MonthlyTax.Mul(decimal.NewFromInt(FinalTaxMonth - 1))
	due := w.AnnualTax.Sub(withheld).Round(0)
	if due.IsNegative() {
		due = decimal.Zero
	}
	w.Method = MethodAnnualized
	w.MonthlyTax = due
	return w
}

// ComputeMonthlyWithholding returns only the monthly tax for status and
// grossMonthly in a non-final month.
func ComputeMonthlyWithholding(status PTKPStatus, grossMonthly decimal.Decimal) decimal.Decimal {
	return ComputeWithholding(status, grossMonthly).MonthlyTax
}

func progressiveTax(taxable decimal.Decimal) decimal.Decimal {
	tax := decimal.Zero
	lower := decimal.Zero

	for _, b := range taxBrackets {
		if !taxable.GreaterThan(lower) {
			break
		}
		upper := taxable
		if !b.upTo.IsZero() && taxable.GreaterThan(b.upTo) {
			upper = b.upTo
		}
		tax = tax.Add(upper.Sub(lower).Mul(b.rate))
		if b.upTo.IsZero() {
			break
		}
		lower = b.upTo
	}

	return tax
}
