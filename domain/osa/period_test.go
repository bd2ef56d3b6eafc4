package osa

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuarterMonths(t *testing.T) {
	tests := []struct {
		name string
		ref  time.Time
		want Periods
	}{
		{"first month", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), Periods{"202401", "202402", "202403"}},
		{"last day of quarter", time.Date(2024, 3, 31, 23, 59, 0, 0, time.UTC), Periods{"202401", "202402", "202403"}},
		{"second quarter", time.Date(2023, 5, 31, 0, 0, 0, 0, time.UTC), Periods{"202304", "202305", "202306"}},
		{"fourth quarter", time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), Periods{"202310", "202311", "202312"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := QuarterMonths(tt.ref)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, QuarterMonths(tt.ref))
		})
	}
}

func TestQuarterMonthsAscendingForEveryDay(t *testing.T) {
	day := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 366; i++ {
		ref := day.AddDate(0, 0, i)
		p := QuarterMonths(ref)
		for j, m := range p {
			_, err := time.Parse(monthLayout, m)
			require.NoError(t, err, "month %q of %s", m, ref)
			if j > 0 {
				assert.Less(t, p[j-1], m)
			}
		}
		assert.Equal(t, (int(ref.Month())-1)%3, p.Index(ref.Format(monthLayout)))
	}
}

func TestPreviousQuarterHandlesMonthEnd(t *testing.T) {
	// Month-end dates still resolve to the quarter before.
	got := PreviousQuarter(time.Date(2024, 5, 31, 10, 0, 0, 0, time.UTC))
	assert.Equal(t, "2024Q1", QuarterLabel(got))

	got = PreviousQuarter(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "2023Q4", QuarterLabel(got))
	assert.Equal(t, Periods{"202310", "202311", "202312"}, QuarterMonths(got))
}

func TestParseQuarter(t *testing.T) {
	got, err := ParseQuarter("2024Q3")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), got)

	got, err = ParseQuarter(" 2022q4 ")
	require.NoError(t, err)
	assert.Equal(t, "2022Q4", QuarterLabel(got))

	for _, bad := range []string{"", "2024", "2024Q5", "2024Q0", "24Q1", "abcdQ1", "2024Q12"} {
		_, err := ParseQuarter(bad)
		assert.Error(t, err, bad)
	}
}

func TestResolveQuarter(t *testing.T) {
	now := time.Date(2024, 8, 20, 0, 0, 0, 0, time.UTC)
	got, err := ResolveQuarter("", now)
	require.NoError(t, err)
	assert.Equal(t, "2024Q2", QuarterLabel(got))

	got, err = ResolveQuarter("2021Q1", now)
	require.NoError(t, err)
	assert.Equal(t, "2021Q1", QuarterLabel(got))
}

func TestDateStamp(t *testing.T) {
	assert.Equal(t, 20240305, DateStamp(time.Date(2024, 3, 5, 22, 0, 0, 0, time.UTC)))
}
