package chart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"despesas/internal/report"
)

type countingRenderer struct{ calls int }

func (r *countingRenderer) Pie(s report.ChartSeries) ([]byte, error) {
	r.calls++
	if len(s.Values) == 0 {
		return nil, ErrNothingToPlot
	}
	return []byte{byte(r.calls)}, nil
}

func TestCachedRendererReusesSameSeries(t *testing.T) {
	next := &countingRenderer{}
	r := NewCachedRenderer(next, 4, time.Hour)
	may := report.ChartSeries{Labels: []string{"Casa", "Lazer"}, Values: []float64{650, 42.5}}

	first, err := r.Pie(may)
	require.NoError(t, err)
	second, err := r.Pie(may)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, next.calls)

	changed := report.ChartSeries{Labels: []string{"Casa", "Lazer"}, Values: []float64{650, 50}}
	_, err = r.Pie(changed)
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls)
}

func TestCachedRendererDoesNotCacheErrors(t *testing.T) {
	next := &countingRenderer{}
	r := NewCachedRenderer(next, 4, time.Hour)

	_, err := r.Pie(report.ChartSeries{})
	assert.ErrorIs(t, err, ErrNothingToPlot)
	_, err = r.Pie(report.ChartSeries{})
	assert.ErrorIs(t, err, ErrNothingToPlot)
	assert.Equal(t, 2, next.calls)
}
