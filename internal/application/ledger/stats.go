package ledger

import "math"

// recordFee actualiza los acumuladores tras un trade sin P&L realizado (BUY).
// Caller debe tener el lock.
func (l *Ledger) recordFee(fee, volume float64) {
	s := &l.state.Stats
	s.TotalTrades++
	s.TotalFees += fee
	s.TotalVolume += volume
	if s.TotalTrades > 0 {
		s.AvgTradeSize = s.TotalVolume / float64(s.TotalTrades)
	}
}

// recordRealized actualiza los acumuladores tras una realización de P&L
// (SELL o settlement). Caller debe tener el lock.
func (l *Ledger) recordRealized(pnl, fee, volume float64) {
	s := &l.state.Stats
	s.TotalTrades++
	s.TotalFees += fee
	s.TotalVolume += volume
	s.RealizedPnL += pnl

	if pnl > 0 {
		s.WinningTrades++
		s.GrossProfit += pnl
		if pnl > s.LargestWin {
			s.LargestWin = pnl
		}
	} else if pnl < 0 {
		s.LosingTrades++
		s.GrossLoss += -pnl
		if pnl < s.LargestLoss {
			s.LargestLoss = pnl
		}
	}

	decided := s.WinningTrades + s.LosingTrades
	if decided > 0 {
		s.WinRate = float64(s.WinningTrades) / float64(decided) * 100
	}

	switch {
	case s.GrossLoss > 0:
		s.ProfitFactor = s.GrossProfit / s.GrossLoss
	case s.GrossProfit > 0:
		s.ProfitFactor = math.Inf(1)
	default:
		s.ProfitFactor = 0
	}

	if s.TotalTrades > 0 {
		s.AvgTradeSize = s.TotalVolume / float64(s.TotalTrades)
	}
}
