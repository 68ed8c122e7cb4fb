package domain

// AssetStat is per-asset aggregate volume and trade count.
type AssetStat struct {
	Mint   string  `json:"mint"`
	Symbol string  `json:"symbol"`
	Volume float64 `json:"volume"`
	Trades int     `json:"trades"`
}

// AnalyticsSnapshot is an immutable aggregate over a swap collection.
//
// Invariant: TradeCount == 0 implies every numeric field is zero and
// TopAssets is empty.
type AnalyticsSnapshot struct {
	TotalVolume  float64     `json:"totalVolume"`
	TradeCount   int         `json:"tradeCount"`
	WinRate      float64     `json:"winRate"` // 0-100, placeholder heuristic
	AvgTradeSize float64     `json:"avgTradeSize"`
	ProfitLoss   float64     `json:"profitLoss"`
	TopAssets    []AssetStat `json:"topAssets"` // <=5, descending by volume
	TradingDays  int         `json:"tradingDays"`

	FirstTradeTime int64 `json:"firstTradeTime"` // Unix seconds, 0 if no trades
	LastTradeTime  int64 `json:"lastTradeTime"`

	// RecentSwaps holds the most recent swaps for display, newest first.
	RecentSwaps []SwapEvent `json:"recentSwaps"`
}
