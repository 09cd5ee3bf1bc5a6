package ledger_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/ledger"
)

func TestClassify_Ventana(t *testing.T) {
	today := day("2024-06-10")
	cases := []struct {
		expiry string
		want   string
	}{
		{"2024-06-09", ledger.HealthExpired},
		{"2024-06-10", ledger.HealthExpiringSoon},
		{"2024-06-20", ledger.HealthExpiringSoon},
		{"2024-07-10", ledger.HealthExpiringSoon}, // hoy+30, inclusivo
		{"2024-07-11", ledger.HealthGood},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ledger.Classify(day(tc.expiry), today, 30), tc.expiry)
	}
}

func TestSummarize_LoteADiezDiasCuentaComoPorVencer(t *testing.T) {
	today := day("2024-06-10")
	p := &entity.Product{ID: "p-1", MinLevel: 0}
	b := batch("A", "2024-06-20", 8)

	s := ledger.Summarize(p, []*entity.Batch{b}, today, 30)

	assert.Equal(t, int64(8), s.CurrentStock)
	assert.Equal(t, int64(8), s.Bucket(ledger.HealthExpiringSoon))
	assert.Equal(t, int64(0), s.Bucket(ledger.HealthGood))
	assert.Equal(t, int64(0), s.Bucket(ledger.HealthExpired))
	// los buckets vacíos se omiten
	require.Len(t, s.Health, 1)
}

func TestSummarize_BucketsYProximoVencimiento(t *testing.T) {
	today := day("2024-06-10")
	p := &entity.Product{ID: "p-1", MinLevel: 5}
	exhausted := batch("X", "2024-01-01", 3)
	exhausted.Quantity = 0

	s := ledger.Summarize(p, []*entity.Batch{
		batch("A", "2024-05-01", 2),
		batch("B", "2024-06-30", 3),
		batch("C", "2025-01-01", 10),
		exhausted,
	}, today, 30)

	assert.Equal(t, int64(15), s.CurrentStock)
	assert.Equal(t, []ledger.HealthBucket{
		{Bucket: ledger.HealthGood, Quantity: 10},
		{Bucket: ledger.HealthExpiringSoon, Quantity: 3},
		{Bucket: ledger.HealthExpired, Quantity: 2},
	}, s.Health)
	require.NotNil(t, s.NextExpiry)
	assert.Equal(t, day("2024-05-01"), *s.NextExpiry, "un lote agotado no cuenta como próximo vencimiento")
	assert.False(t, s.IsLowStock)
}

func TestSummarize_StockBajoEnElLimite(t *testing.T) {
	today := day("2024-06-10")
	p := &entity.Product{ID: "p-1", MinLevel: 10}

	s := ledger.Summarize(p, []*entity.Batch{batch("A", "2025-01-01", 10)}, today, 30)
	assert.True(t, s.IsLowStock, "10 <= 10 es stock bajo")

	s = ledger.Summarize(p, []*entity.Batch{batch("A", "2025-01-01", 11)}, today, 30)
	assert.False(t, s.IsLowStock)
}

func TestSummarize_SinLotes(t *testing.T) {
	s := ledger.Summarize(&entity.Product{ID: "p-1"}, nil, day("2024-06-10"), 30)
	assert.Equal(t, int64(0), s.CurrentStock)
	assert.Nil(t, s.NextExpiry)
	assert.Empty(t, s.Health)
	assert.True(t, s.IsLowStock)
}

func TestCalendarDay_UsaLaZonaConfigurada(t *testing.T) {
	bangkok := time.FixedZone("ICT", 7*3600)
	// 20:00 UTC del 9 ya es día 10 en UTC+7
	now := time.Date(2024, 6, 9, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, day("2024-06-10"), ledger.CalendarDay(now, bangkok))
	assert.Equal(t, day("2024-06-09"), ledger.CalendarDay(now, time.UTC))
}
