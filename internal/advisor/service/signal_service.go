package service

import (
	"context"
	"time"

	"golang-stock-advisor/internal/advisor/config"
	"golang-stock-advisor/internal/advisor/drawdown"
	"golang-stock-advisor/internal/advisor/ledger"
	"golang-stock-advisor/internal/advisor/repository"
	"golang-stock-advisor/pkg/logger"
	"golang-stock-advisor/pkg/metrics"
	"golang-stock-advisor/pkg/utils"
)

// SignalView is a drawdown evaluation together with its inputs.
type SignalView struct {
	Ticker     string              `json:"ticker"`
	Signal     drawdown.Signal     `json:"signal"`
	State      drawdown.State      `json:"drawdown"`
	Portfolio  ledger.Portfolio    `json:"portfolio"`
	Guiderails drawdown.Guiderails `json:"guiderails"`
}

// SignalHistory is the drawdown chart of a ticker.
type SignalHistory struct {
	Ticker  string                  `json:"ticker"`
	Data    []drawdown.HistoryPoint `json:"data"`
	Current *drawdown.HistoryPoint  `json:"current"`
}

// SignalService evaluates the drawdown strategy. It never writes the ledger.
type SignalService interface {
	GetSignal(ctx context.Context, ticker string) (*SignalView, error)
	GetSignalHistory(ctx context.Context, ticker string) (*SignalHistory, error)
}

type signalService struct {
	cfg        config.Guiderails
	log        *logger.Logger
	marketData repository.MarketDataRepository
	ledger     LedgerService
	now        func() time.Time
}

// NewSignalService creates a new SignalService.
func NewSignalService(cfg config.Guiderails, log *logger.Logger, marketData repository.MarketDataRepository, ledgerService LedgerService) SignalService {
	return &signalService{
		cfg:        cfg,
		log:        log,
		marketData: marketData,
		ledger:     ledgerService,
		now:        time.Now,
	}
}

func (s *signalService) guiderails() drawdown.Guiderails {
	return drawdown.Guiderails{
		MaxPosition:            s.cfg.MaxPosition,
		StopLossPct:            s.cfg.StopLossPct,
		ProfitTakePct:          s.cfg.ProfitTakePct,
		DrawdownThresholdPct:   s.cfg.DrawdownThresholdPct,
		NormalBuyAmount:        s.cfg.NormalBuyAmount,
		AggressiveBuyAmount:    s.cfg.AggressiveBuyAmount,
		NormalCooldownDays:     s.cfg.NormalCooldownDays,
		AggressiveCooldownDays: s.cfg.AggressiveCooldownDays,
		ProfitTakeFraction:     s.cfg.ProfitTakeFraction,
	}
}

// lookbackCalendarDays converts trading days to a calendar window with room for weekends and holidays.
func lookbackCalendarDays(tradingDays int) int {
	return tradingDays*7/5 + 10
}

func (s *signalService) GetSignal(ctx context.Context, ticker string) (*SignalView, error) {
	ticker, err := tracked(s.cfg.Tickers, ticker)
	if err != nil {
		return nil, err
	}
	now := s.now()
	today := utils.DateOnly(now)

	series, err := s.marketData.GetPriceSeries(ctx, ticker, today.AddDate(0, 0, -lookbackCalendarDays(s.cfg.LookbackDays)), today)
	if err != nil {
		return nil, err
	}
	quote, err := s.marketData.GetCurrentPrice(ctx, ticker)
	if err != nil {
		return nil, err
	}
	state, err := drawdown.ComputeState(ticker, series, *quote, s.cfg.LookbackDays)
	if err != nil {
		return nil, err
	}

	portfolio, err := s.ledger.PortfolioAt(ctx, ticker, state.CurrentPrice)
	if err != nil {
		return nil, err
	}

	g := s.guiderails()
	signal := drawdown.Evaluate(g, state, *portfolio, now)
	metrics.SignalsEmitted.WithLabelValues(string(signal.Kind)).Inc()
	s.log.DebugContext(ctx, "Drawdown signal evaluated",
		logger.StringField("ticker", ticker),
		logger.StringField("kind", string(signal.Kind)),
		logger.FloatField("drawdown_pct", state.DrawdownPct),
		logger.FloatField("pnl_pct", signal.PnLPct))

	return &SignalView{
		Ticker:     ticker,
		Signal:     signal,
		State:      state,
		Portfolio:  *portfolio,
		Guiderails: g,
	}, nil
}

func (s *signalService) GetSignalHistory(ctx context.Context, ticker string) (*SignalHistory, error) {
	ticker, err := tracked(s.cfg.Tickers, ticker)
	if err != nil {
		return nil, err
	}
	today := utils.DateOnly(s.now())
	series, err := s.marketData.GetPriceSeries(ctx, ticker, today.AddDate(0, 0, -lookbackCalendarDays(s.cfg.LookbackDays)), today)
	if err != nil {
		return nil, err
	}

	points := drawdown.History(series, s.cfg.HistoryDays)
	h := &SignalHistory{Ticker: ticker, Data: points}
	if len(points) > 0 {
		h.Current = &points[len(points)-1]
	}
	return h, nil
}
