package polymarket

// DTOs for the Gamma and CLOB APIs. Prices and sizes arrive as strings.

type gammaEvent struct {
	Slug    string        `json:"slug"`
	Title   string        `json:"title"`
	Markets []gammaMarket `json:"markets"`
}

type gammaMarket struct {
	Question    string `json:"question"`
	ConditionID string `json:"conditionId"`
	// JSON-encoded string arrays, e.g. "[\"token1\", \"token2\"]".
	ClobTokenIDs string `json:"clobTokenIds"`
	Outcomes     string `json:"outcomes"`
}

type bookLevel struct {
	Price string `json:"price"`
	Size  string `json:"size"`
}

type clobBook struct {
	AssetID      string      `json:"asset_id"`
	Bids         []bookLevel `json:"bids"`
	Asks         []bookLevel `json:"asks"`
	TickSize     string      `json:"tick_size"`
	MinOrderSize string      `json:"min_order_size"`
}

type clobOpenOrder struct {
	ID           string `json:"id"`
	AssetID      string `json:"asset_id"`
	Market       string `json:"market"`
	Side         string `json:"side"`
	OriginalSize string `json:"original_size"`
	SizeMatched  string `json:"size_matched"`
	Price        string `json:"price"`
	Outcome      string `json:"outcome"`
	CreatedAt    int64  `json:"created_at"`
}

type clobTrade struct {
	Market       string          `json:"market"`
	AssetID      string          `json:"asset_id"`
	MakerAddress string          `json:"maker_address"`
	Side         string          `json:"side"`
	Size         string          `json:"size"`
	Price        string          `json:"price"`
	Status       string          `json:"status"`
	Outcome      string          `json:"outcome"`
	MakerOrders  []clobMakerFill `json:"maker_orders"`
	TraderSide   string          `json:"trader_side"`
	MatchTime    string          `json:"match_time"`
}

type clobMakerFill struct {
	MakerAddress  string `json:"maker_address"`
	MatchedAmount string `json:"matched_amount"`
	Price         string `json:"price"`
	Side          string `json:"side"`
}

type clobOrderResponse struct {
	ErrorMsg string `json:"errorMsg"`
	OrderID  string `json:"orderID"`
	Status   string `json:"status"`
	Success  bool   `json:"success"`
}

type clobPagedOrders struct {
	Data       []clobOpenOrder `json:"data"`
	NextCursor string          `json:"next_cursor"`
}

type clobPagedTrades struct {
	Data       []clobTrade `json:"data"`
	NextCursor string      `json:"next_cursor"`
}
