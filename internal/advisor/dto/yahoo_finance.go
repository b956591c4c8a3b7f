package dto

// YahooError is the error envelope Yahoo returns inside a 200 or 4xx body.
type YahooError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// YahooChartResponse is the body of /v8/finance/chart/{symbol}.
type YahooChartResponse struct {
	Chart struct {
		Result []YahooChartResult `json:"result"`
		Error  *YahooError        `json:"error"`
	} `json:"chart"`
}

type YahooChartResult struct {
	Meta       YahooChartMeta `json:"meta"`
	Timestamp  []int64        `json:"timestamp"`
	Indicators struct {
		Quote []YahooQuoteIndicator `json:"quote"`
	} `json:"indicators"`
}

type YahooChartMeta struct {
	Symbol               string  `json:"symbol"`
	Currency             string  `json:"currency"`
	LongName             string  `json:"longName"`
	ExchangeTimezoneName string  `json:"exchangeTimezoneName"`
	RegularMarketPrice   float64 `json:"regularMarketPrice"`
	RegularMarketTime    int64   `json:"regularMarketTime"`
	ChartPreviousClose   float64 `json:"chartPreviousClose"`
	PreviousClose        float64 `json:"previousClose"`
	FiftyTwoWeekHigh     float64 `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow      float64 `json:"fiftyTwoWeekLow"`
}

// YahooQuoteIndicator holds OHLC columns. Missing bars are null.
type YahooQuoteIndicator struct {
	Open  []*float64 `json:"open"`
	High  []*float64 `json:"high"`
	Low   []*float64 `json:"low"`
	Close []*float64 `json:"close"`
}

// YahooQuoteResponse is the body of /v7/finance/quote.
type YahooQuoteResponse struct {
	QuoteResponse struct {
		Result []YahooQuote `json:"result"`
		Error  *YahooError  `json:"error"`
	} `json:"quoteResponse"`
}

type YahooQuote struct {
	Symbol                     string   `json:"symbol"`
	LongName                   string   `json:"longName"`
	ShortName                  string   `json:"shortName"`
	RegularMarketPrice         float64  `json:"regularMarketPrice"`
	RegularMarketPreviousClose float64  `json:"regularMarketPreviousClose"`
	RegularMarketChangePercent float64  `json:"regularMarketChangePercent"`
	RegularMarketTime          int64    `json:"regularMarketTime"`
	TrailingPE                 *float64 `json:"trailingPE"`
	ForwardPE                  *float64 `json:"forwardPE"`
	FiftyTwoWeekHigh           float64  `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow            float64  `json:"fiftyTwoWeekLow"`
}
