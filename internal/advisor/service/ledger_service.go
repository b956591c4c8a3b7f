package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang-stock-advisor/internal/advisor/config"
	"golang-stock-advisor/internal/advisor/ledger"
	"golang-stock-advisor/internal/advisor/repository"
	"golang-stock-advisor/internal/entity"
	"golang-stock-advisor/pkg/common"
	"golang-stock-advisor/pkg/logger"

	"github.com/shopspring/decimal"
)

// ExecutionRequest is a user-confirmed trade to record.
// A buy carries Amount; a sell carries either Shares or Fraction.
type ExecutionRequest struct {
	Action     entity.LedgerAction
	Amount     decimal.Decimal
	Shares     decimal.Decimal
	Fraction   decimal.Decimal
	Price      decimal.Decimal
	ExecutedAt time.Time
	Note       string
}

// LedgerService records executions and derives the portfolio of a tracked ticker.
type LedgerService interface {
	RecordExecution(ctx context.Context, ticker string, req ExecutionRequest) (*entity.LedgerEntry, error)
	GetPortfolio(ctx context.Context, ticker string) (*ledger.Portfolio, error)
	// PortfolioAt values the ledger at an already known price.
	PortfolioAt(ctx context.Context, ticker string, price float64) (*ledger.Portfolio, error)
}

type ledgerService struct {
	cfg        config.Guiderails
	log        *logger.Logger
	ledgerRepo repository.LedgerRepository
	marketData repository.MarketDataRepository
	locks      sync.Map
	now        func() time.Time
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(cfg config.Guiderails, log *logger.Logger, ledgerRepo repository.LedgerRepository, marketData repository.MarketDataRepository) LedgerService {
	return &ledgerService{
		cfg:        cfg,
		log:        log,
		ledgerRepo: ledgerRepo,
		marketData: marketData,
		now:        time.Now,
	}
}

// tracked normalizes ticker and checks it against the configured list.
func tracked(tickers []string, ticker string) (string, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	for _, t := range tickers {
		if strings.EqualFold(t, ticker) {
			return ticker, nil
		}
	}
	return "", fmt.Errorf("ticker %s is not tracked: %w", ticker, common.ErrNotFound)
}

func (s *ledgerService) tickerLock(ticker string) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(ticker, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

func (s *ledgerService) RecordExecution(ctx context.Context, ticker string, req ExecutionRequest) (*entity.LedgerEntry, error) {
	ticker, err := tracked(s.cfg.Tickers, ticker)
	if err != nil {
		return nil, err
	}
	at := req.ExecutedAt
	if at.IsZero() {
		at = s.now().UTC()
	}

	mu := s.tickerLock(ticker)
	mu.Lock()
	defer mu.Unlock()

	entry, err := s.ledgerRepo.Append(ctx, ticker, func(entries []entity.LedgerEntry) (*entity.LedgerEntry, error) {
		var e entity.LedgerEntry
		var err error
		switch req.Action {
		case entity.LedgerActionBuy:
			e, err = ledger.NewBuy(ticker, req.Amount, req.Price, at)
		case entity.LedgerActionSell:
			held := ledger.SharesAt(entries, at)
			e, err = ledger.NewSell(ticker, held, req.Shares, req.Fraction, req.Price, at)
		default:
			err = fmt.Errorf("%w: unknown action %q", common.ErrInvalidInput, req.Action)
		}
		if err != nil {
			return nil, err
		}
		// a backdated entry must not strand a later sell
		if err := ledger.CheckBalance(ticker, append(entries[:len(entries):len(entries)], e)); err != nil {
			return nil, err
		}
		e.Note = req.Note
		return &e, nil
	})
	if err != nil {
		s.log.WarnContext(ctx, "Execution rejected",
			logger.StringField("ticker", ticker),
			logger.StringField("action", string(req.Action)),
			logger.ErrorField(err))
		return nil, err
	}

	s.log.InfoContext(ctx, "Execution recorded",
		logger.StringField("ticker", ticker),
		logger.StringField("action", string(entry.Action)),
		logger.StringField("amount", entry.Amount.String()),
		logger.StringField("shares", entry.Shares.String()),
		logger.StringField("price", entry.Price.String()))
	return entry, nil
}

func (s *ledgerService) GetPortfolio(ctx context.Context, ticker string) (*ledger.Portfolio, error) {
	ticker, err := tracked(s.cfg.Tickers, ticker)
	if err != nil {
		return nil, err
	}
	entries, err := s.ledgerRepo.ListByTicker(ctx, ticker)
	if err != nil {
		return nil, err
	}

	price := decimal.Zero
	quote, err := s.marketData.GetCurrentPrice(ctx, ticker)
	switch {
	case err == nil:
		price = decimal.NewFromFloat(quote.Price)
	case common.IsDataGap(err) && len(entries) > 0:
		price = entries[len(entries)-1].Price
		s.log.WarnContext(ctx, "No quote, valuing portfolio at last execution price", logger.StringField("ticker", ticker), logger.ErrorField(err))
	case common.IsDataGap(err):
		s.log.WarnContext(ctx, "No quote for empty portfolio", logger.StringField("ticker", ticker), logger.ErrorField(err))
	default:
		return nil, err
	}

	p, err := ledger.Aggregate(ticker, entries, price, decimal.NewFromFloat(s.cfg.MaxPosition))
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ledgerService) PortfolioAt(ctx context.Context, ticker string, price float64) (*ledger.Portfolio, error) {
	entries, err := s.ledgerRepo.ListByTicker(ctx, ticker)
	if err != nil {
		return nil, err
	}
	p, err := ledger.Aggregate(ticker, entries, decimal.NewFromFloat(price), decimal.NewFromFloat(s.cfg.MaxPosition))
	if err != nil {
		return nil, err
	}
	return &p, nil
}
