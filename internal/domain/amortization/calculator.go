package amortization

import (
	"math"

	appErrors "Obriga/internal/errors"

	"github.com/shopspring/decimal"
)

// Precisão monetária: duas casas (menor unidade das moedas suportadas).
// O arredondamento é bancário (half-to-even) e acontece apenas na fronteira
// de postagem; os cálculos intermediários mantêm a precisão completa.
const minorUnitPlaces = 2

var one = decimal.NewFromInt(1)

// PeriodicRate converte a taxa anual percentual na taxa do período.
func PeriodicRate(annualRatePercent float64, periodsPerYear int) decimal.Decimal {
	if periodsPerYear <= 0 {
		periodsPerYear = 12
	}
	return decimal.NewFromFloat(annualRatePercent).
		Div(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(periodsPerYear)))
}

// PeriodicPayment calcula a prestação fixa pela fórmula de pagamento
// nivelado: P·r·(1+r)^n / ((1+r)^n − 1). Com taxa zero degrada para
// principal/prazo. O valor devolvido não é arredondado.
func PeriodicPayment(principal, annualRatePercent float64, termPeriods, periodsPerYear int) (decimal.Decimal, error) {
	if err := validateLoanInput(principal, annualRatePercent, termPeriods); err != nil {
		return decimal.Zero, err
	}

	p := decimal.NewFromFloat(principal)
	n := decimal.NewFromInt(int64(termPeriods))
	rate := PeriodicRate(annualRatePercent, periodsPerYear)

	if rate.IsZero() {
		return p.Div(n), nil
	}

	factor := one.Add(rate).Pow(n)
	return p.Mul(rate).Mul(factor).Div(factor.Sub(one)), nil
}

// SplitPayment reparte uma prestação entre juros e amortização a partir do
// saldo devedor vivo: juros = saldo·taxa; principal = prestação − juros,
// limitado ao saldo para que a última prestação zere a dívida exatamente.
// As parcelas devolvidas já estão arredondadas à menor unidade e somam o
// pagamento efetivo.
func SplitPayment(remainingPrincipal, periodicRate, payment decimal.Decimal) (principal, interest decimal.Decimal) {
	interest = remainingPrincipal.Mul(periodicRate).RoundBank(minorUnitPlaces)
	principal = payment.RoundBank(minorUnitPlaces).Sub(interest)

	remaining := remainingPrincipal.RoundBank(minorUnitPlaces)
	if principal.GreaterThan(remaining) {
		principal = remaining
	}
	if principal.IsNegative() {
		principal = decimal.Zero
	}
	return principal, interest
}

// Installment é uma linha do cronograma materializado, para exibição e
// exportação. O caminho quente de postagem não usa o cronograma completo;
// reparte incrementalmente com SplitPayment.
type Installment struct {
	Period    int     `json:"period"`
	Payment   float64 `json:"payment"`
	Principal float64 `json:"principal"`
	Interest  float64 `json:"interest"`
	Balance   float64 `json:"balance"`
}

// BuildSchedule materializa o cronograma completo de amortização. O saldo
// da última parcela é exatamente zero; o resíduo de arredondamento é
// absorvido pela prestação final.
func BuildSchedule(principal, annualRatePercent float64, termPeriods, periodsPerYear int) ([]Installment, error) {
	payment, err := PeriodicPayment(principal, annualRatePercent, termPeriods, periodsPerYear)
	if err != nil {
		return nil, err
	}

	rate := PeriodicRate(annualRatePercent, periodsPerYear)
	balance := decimal.NewFromFloat(principal)

	schedule := make([]Installment, 0, termPeriods)
	for period := 1; period <= termPeriods; period++ {
		principalPart, interestPart := SplitPayment(balance, rate, payment)
		if period == termPeriods {
			// última parcela quita o saldo integral
			principalPart = balance.RoundBank(minorUnitPlaces)
		}
		balance = balance.Sub(principalPart)
		if balance.IsNegative() {
			balance = decimal.Zero
		}

		effectivePayment := principalPart.Add(interestPart)
		schedule = append(schedule, Installment{
			Period:    period,
			Payment:   effectivePayment.InexactFloat64(),
			Principal: principalPart.InexactFloat64(),
			Interest:  interestPart.InexactFloat64(),
			Balance:   balance.RoundBank(minorUnitPlaces).InexactFloat64(),
		})
	}

	return schedule, nil
}

func validateLoanInput(principal, annualRatePercent float64, termPeriods int) error {
	if principal <= 0 {
		return appErrors.NewValidationError("principal", "deve ser maior que zero")
	}
	if termPeriods <= 0 {
		return appErrors.NewValidationError("term_periods", "deve ser maior que zero")
	}
	if annualRatePercent < 0 {
		return appErrors.NewValidationError("annual_rate", "nao pode ser negativa")
	}
	if math.IsNaN(annualRatePercent) || math.IsInf(annualRatePercent, 0) ||
		math.IsNaN(principal) || math.IsInf(principal, 0) {
		return appErrors.NewCalculationError("entrada numerica invalida")
	}
	return nil
}
