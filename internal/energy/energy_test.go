package energy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javiermolinar/pacer/internal/clock"
)

func testCurve(t *testing.T) Curve {
	t.Helper()
	p, err := ParsePattern("09:00", "11:30", "14:00", "15:30")
	require.NoError(t, err)
	return NewCurve(p)
}

func TestParseTier(t *testing.T) {
	for _, name := range []string{"high", "Medium", " LOW ", "recharge"} {
		tier, err := ParseTier(name)
		require.NoError(t, err, name)
		assert.True(t, tier.Valid())
	}

	_, err := ParseTier("turbo")
	assert.ErrorIs(t, err, ErrInvalidTier)
}

func TestRankOrdering(t *testing.T) {
	assert.Greater(t, Rank(High), Rank(Medium))
	assert.Greater(t, Rank(Medium), Rank(Low))
	assert.Greater(t, Rank(Low), Rank(Recharge))
	assert.Equal(t, 0, Rank(Recharge))
	assert.Equal(t, 3, Distance(High, Recharge))
	assert.Equal(t, 3, Distance(Recharge, High))
}

func TestIsSignificantMismatch(t *testing.T) {
	assert.True(t, IsSignificantMismatch(High, Recharge))
	assert.True(t, IsSignificantMismatch(High, Low))
	assert.True(t, IsSignificantMismatch(Recharge, Medium))
	assert.False(t, IsSignificantMismatch(High, Medium))
	assert.False(t, IsSignificantMismatch(Medium, Low))
	assert.False(t, IsSignificantMismatch(Low, Low))
}

func TestAlign(t *testing.T) {
	assert.Equal(t, Aligned, Align(Medium, Medium))
	assert.Equal(t, SoftMismatch, Align(Medium, Low))
	assert.Equal(t, SignificantMismatch, Align(High, Low))
	assert.Equal(t, "significant", SignificantMismatch.String())
}

func TestClassifyHour(t *testing.T) {
	c := testCurve(t)

	tests := []struct {
		hour float64
		want Tier
	}{
		{hour: 10, want: High},
		{hour: 9, want: High},
		{hour: 11.49, want: High},
		{hour: 11.5, want: Medium},
		{hour: 14, want: Low},
		{hour: 15.25, want: Low},
		{hour: 15.5, want: Medium},
		{hour: 6, want: Medium},
		{hour: 5.99, want: Recharge},
		{hour: 19.9, want: Medium},
		{hour: 20, want: Recharge},
		{hour: 21, want: Recharge},
		{hour: 0, want: Recharge},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, c.ClassifyHour(tt.hour), "hour %v", tt.hour)
	}
}

func TestClassifyMatchesClassifyHour(t *testing.T) {
	c := testCurve(t)
	for m := 0; m < clock.MinutesPerDay; m++ {
		at := clock.Time(m)
		require.Equal(t, c.ClassifyHour(at.Hour()), c.Classify(at), "minute %d", m)
	}
}

func TestClassify_PeakWinsOverDip(t *testing.T) {
	p, err := ParsePattern("13:00", "15:00", "14:00", "16:00")
	require.NoError(t, err)
	c := NewCurve(p)

	assert.True(t, p.Overlapping())
	assert.Equal(t, High, c.Classify(clock.MustParse("14:30")))
	assert.Equal(t, Low, c.Classify(clock.MustParse("15:00")))
}

func TestClassify_CustomDaytimeWindow(t *testing.T) {
	c := testCurve(t)
	c.DaytimeStart = clock.MustParse("07:00")
	c.DaytimeEnd = clock.MustParse("22:00")

	assert.Equal(t, Recharge, c.Classify(clock.MustParse("06:30")))
	assert.Equal(t, Medium, c.Classify(clock.MustParse("21:00")))
}

func TestParsePattern_Invalid(t *testing.T) {
	_, err := ParsePattern("9am", "11:30", "14:00", "15:30")
	assert.ErrorIs(t, err, clock.ErrInvalidTime)
	assert.Contains(t, err.Error(), "peak_start")
}

func TestCurveValidate(t *testing.T) {
	c := testCurve(t)
	require.NoError(t, c.Validate())

	c.Pattern.PeakEnd = c.Pattern.PeakStart
	assert.Error(t, c.Validate())
}
