package executor

import (
	"sync"
	"time"
)

// DailyVolume acumula el notional USD operado por día natural (UTC), total
// y por mercado. El risk gate lo consulta; sólo se registra volumen después
// de colocar una orden de verdad, para no contar trades denegados.
type DailyVolume struct {
	mu        sync.Mutex
	day       string
	total     float64
	perMarket map[string]float64
	now       func() time.Time
}

// NewDailyVolume crea un acumulador vacío.
func NewDailyVolume() *DailyVolume {
	return &DailyVolume{
		perMarket: make(map[string]float64),
		now:       time.Now,
	}
}

// Record suma el notional de una orden colocada al día actual.
func (d *DailyVolume) Record(marketSlug string, usd float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rollover()
	d.total += usd
	d.perMarket[marketSlug] += usd
}

// TotalToday devuelve el volumen total del día actual.
func (d *DailyVolume) TotalToday() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rollover()
	return d.total
}

// MarketToday devuelve el volumen del día actual para un mercado.
func (d *DailyVolume) MarketToday(marketSlug string) float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rollover()
	return d.perMarket[marketSlug]
}

// rollover resetea los acumuladores al cruzar la medianoche UTC.
// Caller debe tener el lock.
func (d *DailyVolume) rollover() {
	today := d.now().UTC().Format("2006-01-02")
	if d.day != today {
		d.day = today
		d.total = 0
		d.perMarket = make(map[string]float64)
	}
}
