// Package finance implements the pure loan sizing, amortization, and
// credit-application validation functions. No I/O, no state.
package finance

import (
	"math"
	"regexp"
)

var taxIDPattern = regexp.MustCompile(`^\d{2}-\d{7}$`)

// Application is a credit application as submitted from the origination form.
type Application struct {
	BusinessName string
	TaxID        string
	LoanAmount   float64
}

// ValidationResult accumulates per-field validation failures.
// Valid is true iff Errors is empty.
type ValidationResult struct {
	Valid  bool
	Errors map[string]string
}

// LoanAmount returns the financed amount for an asset purchase:
// max(0, assetPrice - downPayment). Operands are not individually
// validated; negative inputs are the caller's responsibility and only the
// subtraction result is clamped at zero.
func LoanAmount(assetPrice, downPayment float64) float64 {
	amount := assetPrice - downPayment
	if amount < 0 {
		return 0
	}
	return amount
}

// MonthlyPayment computes the amortized monthly payment for a loan.
// A zero rate degenerates to simple division. termMonths <= 0 returns 0
// rather than NaN; callers validate the term at the boundary.
func MonthlyPayment(loanAmount, annualRatePercent float64, termMonths int) float64 {
	if termMonths <= 0 {
		return 0
	}
	r := annualRatePercent / 100 / 12
	if r == 0 {
		return loanAmount / float64(termMonths)
	}
	pow := math.Pow(1+r, float64(termMonths))
	return loanAmount * r * pow / (pow - 1)
}

// ValidateApplication checks the three application fields independently and
// accumulates every failure; it never short-circuits.
func ValidateApplication(app Application) ValidationResult {
	errs := make(map[string]string)

	if app.BusinessName == "" {
		errs["businessName"] = "Business name is required"
	}

	switch {
	case app.TaxID == "":
		errs["taxId"] = "Tax ID is required"
	case !taxIDPattern.MatchString(app.TaxID):
		errs["taxId"] = "Tax ID must be in format XX-XXXXXXX"
	}

	if app.LoanAmount <= 0 {
		errs["loanAmount"] = "Loan amount must be greater than zero"
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}
