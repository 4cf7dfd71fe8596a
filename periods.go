package finsight

import (
	"fmt"

	"github.com/maxencebernardhub/smb-finsight/date"
)

// FiscalYear is the accounting exercise window, boundaries included.
type FiscalYear struct {
	Start date.Date
	End   date.Date
}

// Range returns the fiscal year as an inclusive date range.
func (fy FiscalYear) Range() date.Range { return date.NewRange(fy.Start, fy.End) }

// Period is a reporting window with a human-readable label.
type Period struct {
	Start date.Date
	End   date.Date
	Label string
}

// Range returns the period as an inclusive date range.
func (p Period) Range() date.Range { return date.NewRange(p.Start, p.End) }

// PeriodFY is the full current fiscal year.
func PeriodFY(fy FiscalYear) Period {
	return Period{
		Start: fy.Start,
		End:   fy.End,
		Label: fmt.Sprintf("Fiscal year %d", fy.Start.Year()),
	}
}

// PeriodYTD is the year-to-date window inside the fiscal year, clamped to
// its boundaries.
func PeriodYTD(fy FiscalYear, today date.Date) Period {
	end := date.Min(date.Max(today, fy.Start), fy.End)
	return Period{Start: fy.Start, End: end, Label: "Year to date"}
}

// PeriodMTD is the month-to-date window. When today falls outside the
// fiscal year it falls back to the full fiscal year.
func PeriodMTD(fy FiscalYear, today date.Date) Period {
	if today.Before(fy.Start) || today.After(fy.End) {
		return PeriodFY(fy)
	}
	return Period{Start: today.StartOfMonth(), End: today, Label: "Month to date"}
}

// PeriodLastMonth is the full previous calendar month, clamped to the
// fiscal year. When the previous month does not overlap the fiscal year at
// all, it falls back to the full fiscal year.
func PeriodLastMonth(fy FiscalYear, today date.Date) Period {
	start := today.StartOfMonth().AddMonths(-1)
	end := start.EndOfMonth()
	if end.Before(fy.Start) || start.After(fy.End) {
		return PeriodFY(fy)
	}
	return Period{
		Start: date.Max(start, fy.Start),
		End:   date.Min(end, fy.End),
		Label: "Last month",
	}
}

// PeriodLastFY is the previous fiscal year, approximated as the calendar
// year before the fiscal year's starting year.
func PeriodLastFY(fy FiscalYear) Period {
	prev := fy.Start.Year() - 1
	return Period{
		Start: date.New(prev, 1, 1),
		End:   date.New(prev, 12, 31),
		Label: fmt.Sprintf("Previous fiscal year (%d)", prev),
	}
}

// PeriodCustom is an arbitrary window. Empty boundaries default to the
// fiscal year's.
func PeriodCustom(from, to date.Date, fy FiscalYear) (Period, error) {
	start, end := from, to
	if start.IsZero() {
		start = fy.Start
	}
	if end.IsZero() {
		end = fy.End
	}
	if end.Before(start) {
		return Period{}, fmt.Errorf("custom period end %s is before start %s", end, start)
	}
	return Period{
		Start: start,
		End:   end,
		Label: fmt.Sprintf("Custom period (%s → %s)", start, end),
	}, nil
}

// ResolvePeriod turns a period selector into a Period. Selectors, highest
// precedence first: a named period ("fy", "ytd", "mtd", "last-month",
// "last-fy"), then custom from/to boundaries, then the full fiscal year.
func ResolvePeriod(name string, from, to date.Date, fy FiscalYear, today date.Date) (Period, error) {
	switch name {
	case "fy":
		return PeriodFY(fy), nil
	case "ytd":
		return PeriodYTD(fy, today), nil
	case "mtd":
		return PeriodMTD(fy, today), nil
	case "last-month":
		return PeriodLastMonth(fy, today), nil
	case "last-fy":
		return PeriodLastFY(fy), nil
	case "":
		if !from.IsZero() || !to.IsZero() {
			return PeriodCustom(from, to, fy)
		}
		return PeriodFY(fy), nil
	default:
		return Period{}, fmt.Errorf("unknown period %q", name)
	}
}

// FilterByPeriod keeps the entries dated inside the period, boundaries
// included.
func FilterByPeriod(entries []Entry, period Period) []Entry {
	rng := period.Range()
	var kept []Entry
	for _, e := range entries {
		if rng.Contains(e.Date) {
			kept = append(kept, e)
		}
	}
	return kept
}
