package amortization_test

import (
	"math"
	"testing"

	"Obriga/internal/domain/amortization"
	appErrors "Obriga/internal/errors"

	"github.com/shopspring/decimal"
)

func TestPeriodicPayment(t *testing.T) {
	tests := []struct {
		name           string
		principal      float64
		annualRate     float64
		termPeriods    int
		periodsPerYear int
		want           float64
		tolerance      float64
	}{
		{
			name:           "loan with monthly rate matches level payment formula",
			principal:      100000,
			annualRate:     12,
			termPeriods:    12,
			periodsPerYear: 12,
			want:           8884.88,
			tolerance:      0.01,
		},
		{
			name:           "zero rate degrades to principal over term",
			principal:      1200,
			annualRate:     0,
			termPeriods:    12,
			periodsPerYear: 12,
			want:           100.00,
			tolerance:      0.001,
		},
		{
			name:           "single period pays principal plus one period of interest",
			principal:      1000,
			annualRate:     12,
			termPeriods:    1,
			periodsPerYear: 12,
			want:           1010.00,
			tolerance:      0.001,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			payment, err := amortization.PeriodicPayment(tt.principal, tt.annualRate, tt.termPeriods, tt.periodsPerYear)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got := payment.InexactFloat64()
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Fatalf("expected payment near %.2f, got %.6f", tt.want, got)
			}
		})
	}
}

func TestPeriodicPaymentValidation(t *testing.T) {
	tests := []struct {
		name        string
		principal   float64
		annualRate  float64
		termPeriods int
		wantCode    string
	}{
		{
			name:        "zero principal",
			principal:   0,
			annualRate:  10,
			termPeriods: 12,
			wantCode:    appErrors.ErrValidation.Code,
		},
		{
			name:        "negative principal",
			principal:   -500,
			annualRate:  10,
			termPeriods: 12,
			wantCode:    appErrors.ErrValidation.Code,
		},
		{
			name:        "zero term",
			principal:   1000,
			annualRate:  10,
			termPeriods: 0,
			wantCode:    appErrors.ErrValidation.Code,
		},
		{
			name:        "negative rate",
			principal:   1000,
			annualRate:  -1,
			termPeriods: 12,
			wantCode:    appErrors.ErrValidation.Code,
		},
		{
			name:        "NaN rate",
			principal:   1000,
			annualRate:  math.NaN(),
			termPeriods: 12,
			wantCode:    appErrors.ErrCalculation.Code,
		},
		{
			name:        "infinite principal",
			principal:   math.Inf(1),
			annualRate:  10,
			termPeriods: 12,
			wantCode:    appErrors.ErrCalculation.Code,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := amortization.PeriodicPayment(tt.principal, tt.annualRate, tt.termPeriods, 12)
			if err == nil {
				t.Fatalf("expected error")
			}
			appErr, ok := appErrors.AsAppError(err)
			if !ok {
				t.Fatalf("expected AppError, got %T", err)
			}
			if appErr.Code != tt.wantCode {
				t.Fatalf("expected code %s, got %s", tt.wantCode, appErr.Code)
			}
		})
	}
}

func TestSplitPayment(t *testing.T) {
	rate := decimal.NewFromFloat(0.01)

	t.Run("interest from live balance, remainder amortizes", func(t *testing.T) {
		remaining := decimal.NewFromInt(100000)
		payment := decimal.NewFromFloat(8884.88)

		principal, interest := amortization.SplitPayment(remaining, rate, payment)

		if !interest.Equal(decimal.NewFromInt(1000)) {
			t.Fatalf("expected interest 1000.00, got %s", interest)
		}
		if !principal.Equal(decimal.NewFromFloat(7884.88)) {
			t.Fatalf("expected principal 7884.88, got %s", principal)
		}
	})

	t.Run("principal clamped to remaining balance", func(t *testing.T) {
		remaining := decimal.NewFromInt(50)
		payment := decimal.NewFromInt(100)

		principal, interest := amortization.SplitPayment(remaining, rate, payment)

		if !principal.Equal(decimal.NewFromInt(50)) {
			t.Fatalf("expected principal clamped to 50, got %s", principal)
		}
		if !interest.Equal(decimal.NewFromFloat(0.50)) {
			t.Fatalf("expected interest 0.50, got %s", interest)
		}
	})

	t.Run("principal never negative", func(t *testing.T) {
		remaining := decimal.NewFromInt(100000)
		payment := decimal.NewFromInt(500)

		principal, _ := amortization.SplitPayment(remaining, rate, payment)

		if principal.IsNegative() {
			t.Fatalf("expected non-negative principal, got %s", principal)
		}
		if !principal.IsZero() {
			t.Fatalf("expected zero principal when interest exceeds payment, got %s", principal)
		}
	})

	t.Run("banker's rounding on interest", func(t *testing.T) {
		// 1000.50 * 0.01 = 10.005 → arredonda para o par: 10.00
		principal, interest := amortization.SplitPayment(
			decimal.NewFromFloat(1000.50),
			rate,
			decimal.NewFromInt(100),
		)

		if !interest.Equal(decimal.NewFromInt(10)) {
			t.Fatalf("expected interest 10.00 (half-to-even), got %s", interest)
		}
		if !principal.Equal(decimal.NewFromInt(90)) {
			t.Fatalf("expected principal 90.00, got %s", principal)
		}
	})
}

func TestBuildSchedule(t *testing.T) {
	schedule, err := amortization.BuildSchedule(100000, 12, 12, 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(schedule) != 12 {
		t.Fatalf("expected 12 installments, got %d", len(schedule))
	}

	totalPrincipal := decimal.Zero
	balance := decimal.NewFromInt(100000)
	for _, inst := range schedule {
		principal := decimal.NewFromFloat(inst.Principal)
		interest := decimal.NewFromFloat(inst.Interest)
		payment := decimal.NewFromFloat(inst.Payment)

		if !principal.Add(interest).Equal(payment) {
			t.Fatalf("period %d: principal %s + interest %s != payment %s",
				inst.Period, principal, interest, payment)
		}
		if interest.IsNegative() || principal.IsNegative() {
			t.Fatalf("period %d: negative component", inst.Period)
		}

		balance = balance.Sub(principal)
		totalPrincipal = totalPrincipal.Add(principal)
	}

	last := schedule[len(schedule)-1]
	if last.Balance != 0 {
		t.Fatalf("expected final balance exactly zero, got %f", last.Balance)
	}
	if !totalPrincipal.Equal(decimal.NewFromInt(100000)) {
		t.Fatalf("expected total principal to equal loan amount, got %s", totalPrincipal)
	}
}

func TestBuildScheduleZeroRate(t *testing.T) {
	schedule, err := amortization.BuildSchedule(1200, 0, 12, 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, inst := range schedule {
		if inst.Interest != 0 {
			t.Fatalf("period %d: expected zero interest, got %f", inst.Period, inst.Interest)
		}
		if inst.Principal != 100 {
			t.Fatalf("period %d: expected principal 100.00, got %f", inst.Period, inst.Principal)
		}
	}
	if schedule[len(schedule)-1].Balance != 0 {
		t.Fatalf("expected final balance zero")
	}
}

func TestBuildScheduleDecreasingInterest(t *testing.T) {
	schedule, err := amortization.BuildSchedule(50000, 18, 24, 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 1; i < len(schedule); i++ {
		if schedule[i].Interest > schedule[i-1].Interest {
			t.Fatalf("period %d: interest grew from %f to %f",
				schedule[i].Period, schedule[i-1].Interest, schedule[i].Interest)
		}
	}
}
