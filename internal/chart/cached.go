package chart

import (
	"strconv"
	"strings"
	"time"

	"despesas/internal/cache"
	"despesas/internal/report"
)

// PieRenderer draws one series as a PNG pie chart.
type PieRenderer interface {
	Pie(series report.ChartSeries) ([]byte, error)
}

// CachedRenderer reuses the PNG of a series it has already drawn. The key is
// the series content, so a month with new expenses is drawn again.
type CachedRenderer struct {
	next  PieRenderer
	cache cache.Cache[[]byte]
}

func NewCachedRenderer(next PieRenderer, size int, ttl time.Duration) *CachedRenderer {
	return &CachedRenderer{next: next, cache: cache.NewLRUCache[[]byte](size, ttl)}
}

func (r *CachedRenderer) Pie(series report.ChartSeries) ([]byte, error) {
	key := seriesKey(series)
	if png, ok := r.cache.Get(key); ok {
		return png, nil
	}
	png, err := r.next.Pie(series)
	if err != nil {
		return nil, err
	}
	r.cache.Set(key, png)
	return png, nil
}

func seriesKey(s report.ChartSeries) string {
	var b strings.Builder
	for i, label := range s.Labels {
		b.WriteString(label)
		b.WriteByte('=')
		if i < len(s.Values) {
			b.WriteString(strconv.FormatFloat(s.Values[i], 'f', -1, 64))
		}
		b.WriteByte(';')
	}
	return b.String()
}
