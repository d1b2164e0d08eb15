package finance

import (
	"math"
	"testing"
)

func TestLoanAmount(t *testing.T) {
	tests := []struct {
		name        string
		assetPrice  float64
		downPayment float64
		want        float64
	}{
		{"standard purchase", 100000, 20000, 80000},
		{"down payment exceeds price", 100000, 120000, 0},
		{"exact down payment", 50000, 50000, 0},
		{"zero inputs", 0, 0, 0},
		{"negative down payment increases amount", 100000, -5000, 105000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LoanAmount(tt.assetPrice, tt.downPayment); got != tt.want {
				t.Errorf("LoanAmount(%v, %v) = %v, want %v", tt.assetPrice, tt.downPayment, got, tt.want)
			}
		})
	}
}

func TestLoanAmount_NeverNegative(t *testing.T) {
	pairs := [][2]float64{{0, 1}, {1, 100}, {-50, 50}, {1e9, 2e9}}
	for _, p := range pairs {
		if got := LoanAmount(p[0], p[1]); got < 0 {
			t.Errorf("LoanAmount(%v, %v) = %v, want >= 0", p[0], p[1], got)
		}
	}
}

func TestMonthlyPayment_Amortized(t *testing.T) {
	got := MonthlyPayment(10000, 5, 36)
	if math.Abs(got-299.71) > 0.1 {
		t.Errorf("MonthlyPayment(10000, 5, 36) = %v, want ~299.71", got)
	}
}

func TestMonthlyPayment_ZeroRate(t *testing.T) {
	if got := MonthlyPayment(12000, 0, 48); got != 250 {
		t.Errorf("MonthlyPayment(12000, 0, 48) = %v, want 250", got)
	}
}

func TestMonthlyPayment_InvalidTerm(t *testing.T) {
	if got := MonthlyPayment(10000, 5, 0); got != 0 {
		t.Errorf("MonthlyPayment with zero term = %v, want 0", got)
	}
	if got := MonthlyPayment(10000, 5, -12); got != 0 {
		t.Errorf("MonthlyPayment with negative term = %v, want 0", got)
	}
}

func TestValidateApplication_AccumulatesAllErrors(t *testing.T) {
	res := ValidateApplication(Application{
		BusinessName: "",
		TaxID:        "invalid",
		LoanAmount:   0,
	})
	if res.Valid {
		t.Error("expected invalid result")
	}
	if len(res.Errors) != 3 {
		t.Fatalf("expected 3 errors, got %d: %v", len(res.Errors), res.Errors)
	}
	if res.Errors["businessName"] != "Business name is required" {
		t.Errorf("unexpected businessName error: %q", res.Errors["businessName"])
	}
	if res.Errors["taxId"] != "Tax ID must be in format XX-XXXXXXX" {
		t.Errorf("unexpected taxId error: %q", res.Errors["taxId"])
	}
	if res.Errors["loanAmount"] != "Loan amount must be greater than zero" {
		t.Errorf("unexpected loanAmount error: %q", res.Errors["loanAmount"])
	}
}

func TestValidateApplication_MissingTaxID(t *testing.T) {
	res := ValidateApplication(Application{
		BusinessName: "Acme Logistics LLC",
		TaxID:        "",
		LoanAmount:   75000,
	})
	if res.Valid {
		t.Error("expected invalid result")
	}
	if res.Errors["taxId"] != "Tax ID is required" {
		t.Errorf("unexpected taxId error: %q", res.Errors["taxId"])
	}
}

func TestValidateApplication_Valid(t *testing.T) {
	res := ValidateApplication(Application{
		BusinessName: "Acme Logistics LLC",
		TaxID:        "12-3456789",
		LoanAmount:   75000,
	})
	if !res.Valid {
		t.Errorf("expected valid result, got errors: %v", res.Errors)
	}
	if len(res.Errors) != 0 {
		t.Errorf("expected empty errors map, got %v", res.Errors)
	}
}

func TestValidateApplication_TaxIDFormat(t *testing.T) {
	malformed := []string{"123456789", "1-2345678", "12-345678", "12-34567890", "ab-1234567", "12_3456789"}
	for _, id := range malformed {
		res := ValidateApplication(Application{BusinessName: "B", TaxID: id, LoanAmount: 1})
		if res.Errors["taxId"] != "Tax ID must be in format XX-XXXXXXX" {
			t.Errorf("taxId %q: expected format error, got %q", id, res.Errors["taxId"])
		}
	}
}
