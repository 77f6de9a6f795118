package polymarket

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"time"

	"github.com/TONKAFREAK/polymarket-copy-trading-bot-sub002/internal/domain"
)

const (
	activityPath  = "/activity"
	activityLimit = 100
)

// ActivityFeed implementa ports.ActivityProvider sobre el Data-API.
type ActivityFeed struct {
	client *Client
}

// NewActivityFeed crea el feed de actividad.
func NewActivityFeed(client *Client) *ActivityFeed {
	return &ActivityFeed{client: client}
}

// FetchActivity devuelve la actividad de un wallet desde el instante dado,
// ordenada de más antigua a más reciente. El Data-API devuelve lo más
// reciente primero; aquí se filtra y se invierte el orden.
func (f *ActivityFeed) FetchActivity(ctx context.Context, wallet string, since time.Time) ([]domain.TradeSignal, error) {
	u := fmt.Sprintf("%s%s?user=%s&limit=%d&sortBy=TIMESTAMP&sortDirection=DESC",
		f.client.dataBase, activityPath, url.QueryEscape(wallet), activityLimit)

	var raw []rawActivity
	if err := f.client.get(ctx, f.client.dataLimiter, u, &raw); err != nil {
		return nil, fmt.Errorf("polymarket.FetchActivity: wallet %s: %w", wallet, err)
	}

	signals := make([]domain.TradeSignal, 0, len(raw))
	for _, r := range raw {
		sig := mapActivity(r)
		if !sig.Timestamp.After(since) {
			continue
		}
		signals = append(signals, sig)
	}

	sort.Slice(signals, func(i, j int) bool {
		return signals[i].Timestamp.Before(signals[j].Timestamp)
	})
	return signals, nil
}
