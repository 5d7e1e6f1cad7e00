package importer

import "trading-journal-go/internal/models"

// PlatformName identifies the broker whose export format this pipeline
// understands.
const PlatformName = "Ebinex"

// ToTrade maps a parsed row into a canonical trade record. Owner and
// import-batch linkage are filled in later by the import service. The
// binary source status maps WIN to win and LOSE to loss; tie is not
// reachable from imported data.
func ToTrade(row *ParsedRow) models.Trade {
	result := models.ResultLoss
	if row.Status == models.StatusWin {
		result = models.ResultWin
	}

	// A zero stake would divide to NaN/Inf; 0 is the documented
	// sentinel payout in that case.
	payout := 0.0
	if row.Amount != 0 {
		payout = row.Profit / row.Amount * 100
	}

	return models.Trade{
		TradeID:    row.TradeID,
		Asset:      row.Asset,
		Direction:  row.Direction,
		Amount:     row.Amount,
		EntryPrice: row.EntryPrice,
		ExitPrice:  row.ExitPrice,
		EntryTime:  row.Timestamp,
		ExitTime:   row.Timestamp,
		Timeframe:  row.Timeframe,
		CandleTime: row.CandleTime,
		Refunded:   row.Refunded,
		Executed:   row.Executed,
		Status:     row.Status,
		Result:     result,
		Profit:     row.Profit,
		Payout:     payout,
		Platform:   PlatformName,
	}
}
