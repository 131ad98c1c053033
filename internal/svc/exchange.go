package svc

import (
	"context"

	syncpkg "candlesync/internal/sync"
	"candlesync/pkg/coinbase"
)

// exchangeSource adapts the Coinbase client to the syncer's catalog and
// rate-source capabilities.
type exchangeSource struct {
	client *coinbase.Client
}

var (
	_ syncpkg.Catalog    = exchangeSource{}
	_ syncpkg.RateSource = exchangeSource{}
)

func (e exchangeSource) Markets(ctx context.Context) ([]string, error) {
	return e.client.Markets(ctx)
}

func (e exchangeSource) HistoricRates(ctx context.Context, market string, start, end, granularity int64) ([]syncpkg.Candle, error) {
	candles, err := e.client.HistoricRates(ctx, market, start, end, granularity)
	if err != nil {
		return nil, err
	}
	rows := make([]syncpkg.Candle, 0, len(candles))
	for _, c := range candles {
		rows = append(rows, syncpkg.Candle{
			Time:   c.Time,
			Low:    c.Low,
			High:   c.High,
			Open:   c.Open,
			Close:  c.Close,
			Volume: c.Volume,
		})
	}
	return rows, nil
}
