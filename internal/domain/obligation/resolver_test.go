package obligation_test

import (
	"testing"
	"time"

	"Obriga/internal/domain/obligation"
	appErrors "Obriga/internal/errors"
	"Obriga/internal/pkg"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func activeObligation(frequency obligation.FrequencyType, start time.Time) *obligation.RecurringObligation {
	return &obligation.RecurringObligation{
		Id:        pkg.GenerateULIDObject(),
		UserId:    pkg.GenerateULIDObject(),
		Kind:      obligation.KindPlain,
		Direction: obligation.DirectionDebit,
		Amount:    100,
		Currency:  "BRL",
		Frequency: frequency,
		StartDate: start,
		Status:    obligation.StatusActive,
	}
}

func TestNextAfterMonthEndClamping(t *testing.T) {
	tests := []struct {
		name      string
		frequency obligation.FrequencyType
		from      time.Time
		want      time.Time
	}{
		{
			name:      "jan 31 clamps to feb 28 in non-leap year",
			frequency: obligation.FrequencyMonthly,
			from:      date(2025, time.January, 31),
			want:      date(2025, time.February, 28),
		},
		{
			name:      "jan 31 clamps to feb 29 in leap year",
			frequency: obligation.FrequencyMonthly,
			from:      date(2024, time.January, 31),
			want:      date(2024, time.February, 29),
		},
		{
			name:      "feb 28 advances to mar 28, not mar 3",
			frequency: obligation.FrequencyMonthly,
			from:      date(2025, time.February, 28),
			want:      date(2025, time.March, 28),
		},
		{
			name:      "feb 29 advances to mar 29 in leap year",
			frequency: obligation.FrequencyMonthly,
			from:      date(2024, time.February, 29),
			want:      date(2024, time.March, 29),
		},
		{
			name:      "may 31 clamps to jun 30",
			frequency: obligation.FrequencyMonthly,
			from:      date(2025, time.May, 31),
			want:      date(2025, time.June, 30),
		},
		{
			name:      "dec 31 rolls into next year",
			frequency: obligation.FrequencyMonthly,
			from:      date(2025, time.December, 31),
			want:      date(2026, time.January, 31),
		},
		{
			name:      "yearly feb 29 clamps to feb 28 in non-leap year",
			frequency: obligation.FrequencyYearly,
			from:      date(2024, time.February, 29),
			want:      date(2025, time.February, 28),
		},
		{
			name:      "daily adds one day",
			frequency: obligation.FrequencyDaily,
			from:      date(2025, time.June, 30),
			want:      date(2025, time.July, 1),
		},
		{
			name:      "weekly adds seven days",
			frequency: obligation.FrequencyWeekly,
			from:      date(2025, time.June, 27),
			want:      date(2025, time.July, 4),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got := obligation.NextAfter(tt.from, tt.frequency)
			if !got.Equal(tt.want) {
				t.Fatalf("expected %s, got %s", tt.want.Format("2006-01-02"), got.Format("2006-01-02"))
			}
		})
	}
}

func TestResolveDueFirstOccurrenceIsStartDate(t *testing.T) {
	today := date(2025, time.June, 15)
	ob := activeObligation(obligation.FrequencyMonthly, today)

	due, err := obligation.ResolveDue(ob, today, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(due) != 1 {
		t.Fatalf("expected exactly one due occurrence, got %d", len(due))
	}
	if !due[0].Equal(today) {
		t.Fatalf("expected first occurrence on start date %s, got %s", today, due[0])
	}
}

func TestResolveDueResumesAfterCursor(t *testing.T) {
	ob := activeObligation(obligation.FrequencyMonthly, date(2025, time.January, 15))
	last := date(2025, time.February, 15)
	ob.LastProcessed = &last

	due, err := obligation.ResolveDue(ob, date(2025, time.April, 20), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []time.Time{
		date(2025, time.March, 15),
		date(2025, time.April, 15),
	}
	if len(due) != len(want) {
		t.Fatalf("expected %d occurrences, got %d", len(want), len(due))
	}
	for i := range want {
		if !due[i].Equal(want[i]) {
			t.Fatalf("occurrence %d: expected %s, got %s", i, want[i], due[i])
		}
	}
}

func TestResolveDueIsStrictlyIncreasingAndPure(t *testing.T) {
	ob := activeObligation(obligation.FrequencyWeekly, date(2025, time.January, 1))
	asOf := date(2025, time.March, 1)

	first, err := obligation.ResolveDue(ob, asOf, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := obligation.ResolveDue(ob, asOf, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(first) == 0 || len(first) != len(second) {
		t.Fatalf("expected identical non-empty sequences, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if !first[i].Equal(second[i]) {
			t.Fatalf("sequence differs at %d: %s vs %s", i, first[i], second[i])
		}
		if i > 0 && !first[i].After(first[i-1]) {
			t.Fatalf("sequence not strictly increasing at %d", i)
		}
	}
}

func TestResolveDueCapsCatchUpStorm(t *testing.T) {
	ob := activeObligation(obligation.FrequencyDaily, date(2025, time.January, 1))

	due, err := obligation.ResolveDue(ob, date(2025, time.June, 1), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(due) != obligation.DefaultMaxOccurrences {
		t.Fatalf("expected cap of %d occurrences, got %d", obligation.DefaultMaxOccurrences, len(due))
	}

	limited, err := obligation.ResolveDue(ob, date(2025, time.June, 1), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(limited) != 5 {
		t.Fatalf("expected explicit cap of 5, got %d", len(limited))
	}
}

func TestResolveDueRespectsEndDate(t *testing.T) {
	ob := activeObligation(obligation.FrequencyMonthly, date(2025, time.January, 10))
	end := date(2025, time.March, 10)
	ob.EndDate = &end

	due, err := obligation.ResolveDue(ob, date(2025, time.December, 1), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(due) != 3 {
		t.Fatalf("expected 3 occurrences up to end date, got %d", len(due))
	}
	if !due[len(due)-1].Equal(end) {
		t.Fatalf("expected last occurrence on end date, got %s", due[len(due)-1])
	}
}

func TestResolveDueEmptyWhenEndDatePassedAndCaughtUp(t *testing.T) {
	ob := activeObligation(obligation.FrequencyMonthly, date(2025, time.January, 10))
	end := date(2025, time.February, 10)
	ob.EndDate = &end
	last := date(2025, time.February, 10)
	ob.LastProcessed = &last

	due, err := obligation.ResolveDue(ob, date(2025, time.August, 1), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(due) != 0 {
		t.Fatalf("expected empty sequence, got %d occurrences", len(due))
	}
}

func TestResolveDueRejectsAsOfBeforeStartDate(t *testing.T) {
	ob := activeObligation(obligation.FrequencyMonthly, date(2025, time.October, 1))

	_, err := obligation.ResolveDue(ob, date(2025, time.June, 1), 0)
	if err == nil {
		t.Fatalf("expected precondition error for asOf before start date")
	}
	appErr, ok := appErrors.AsAppError(err)
	if !ok || appErr.Code != appErrors.ErrValidation.Code {
		t.Fatalf("expected code %s, got %v", appErrors.ErrValidation.Code, err)
	}
}

func TestResolveDueRejectsInactiveObligation(t *testing.T) {
	ob := activeObligation(obligation.FrequencyMonthly, date(2025, time.January, 1))
	ob.Status = obligation.StatusCompleted

	_, err := obligation.ResolveDue(ob, date(2025, time.June, 1), 0)
	if err == nil {
		t.Fatalf("expected error for inactive obligation")
	}
	appErr, ok := appErrors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != appErrors.ErrObligationInactive.Code {
		t.Fatalf("expected code %s, got %s", appErrors.ErrObligationInactive.Code, appErr.Code)
	}
}

func TestPeriodIndex(t *testing.T) {
	ob := activeObligation(obligation.FrequencyMonthly, date(2025, time.January, 31))

	tests := []struct {
		occurrence time.Time
		want       int
	}{
		{occurrence: date(2025, time.January, 31), want: 1},
		{occurrence: date(2025, time.February, 28), want: 2},
		{occurrence: date(2025, time.March, 28), want: 3},
		{occurrence: date(2025, time.December, 28), want: 12},
	}

	for _, tt := range tests {
		if got := obligation.PeriodIndex(ob, tt.occurrence); got != tt.want {
			t.Fatalf("occurrence %s: expected period %d, got %d",
				tt.occurrence.Format("2006-01-02"), tt.want, got)
		}
	}
}

func TestNextDueAfterClearsBeyondEndDate(t *testing.T) {
	ob := activeObligation(obligation.FrequencyMonthly, date(2025, time.January, 10))
	end := date(2025, time.March, 10)
	ob.EndDate = &end

	next := obligation.NextDueAfter(ob, date(2025, time.February, 10))
	if next == nil || !next.Equal(date(2025, time.March, 10)) {
		t.Fatalf("expected next due on end date, got %v", next)
	}

	if next := obligation.NextDueAfter(ob, date(2025, time.March, 10)); next != nil {
		t.Fatalf("expected nil next due past end date, got %s", *next)
	}
}
