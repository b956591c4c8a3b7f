package strategy

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"golang-stock-advisor/internal/advisor/drawdown"
	"golang-stock-advisor/internal/advisor/service"
	"golang-stock-advisor/internal/advisor/verification"
	"golang-stock-advisor/internal/entity"
	"golang-stock-advisor/pkg/common"
	"golang-stock-advisor/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	messages []string
	err      error
}

func (n *recordingNotifier) SendMessage(text string) error {
	if n.err != nil {
		return n.err
	}
	n.messages = append(n.messages, text)
	return nil
}

type fakeSignalService struct {
	views map[string]*service.SignalView
}

func (f *fakeSignalService) GetSignal(_ context.Context, ticker string) (*service.SignalView, error) {
	v, ok := f.views[ticker]
	if !ok {
		return nil, common.ErrNotFound
	}
	return v, nil
}

func (f *fakeSignalService) GetSignalHistory(context.Context, string) (*service.SignalHistory, error) {
	return nil, errors.New("not used")
}

type fakeSignalRepo struct {
	stored []entity.DrawdownSignal
	now    time.Time
}

func (f *fakeSignalRepo) Create(_ context.Context, s *entity.DrawdownSignal) error {
	s.CreatedAt = f.now
	f.stored = append(f.stored, *s)
	return nil
}

func (f *fakeSignalRepo) FindLatestNotified(_ context.Context, ticker, kind string) (*entity.DrawdownSignal, error) {
	for i := len(f.stored) - 1; i >= 0; i-- {
		if f.stored[i].Ticker == ticker && f.stored[i].Kind == kind && f.stored[i].Notified {
			s := f.stored[i]
			return &s, nil
		}
	}
	return nil, nil
}

type fakeDigestService struct {
	created bool
	force   bool
	today   time.Time
}

func (f *fakeDigestService) GenerateDigest(_ context.Context, date time.Time, force bool) (*service.DigestResult, error) {
	f.force = force
	return &service.DigestResult{Digest: &entity.Digest{Date: date, Budget: 10000}, Created: f.created}, nil
}

func (f *fakeDigestService) GetDigest(context.Context, time.Time, *float64) (*entity.Digest, error) {
	return nil, common.ErrNotFound
}

func (f *fakeDigestService) GetLatestDigest(context.Context, *float64) (*entity.Digest, error) {
	return nil, common.ErrNotFound
}

func (f *fakeDigestService) Today() time.Time { return f.today }

type fakeVerificationService struct {
	run *service.VerificationRun
}

func (f *fakeVerificationService) RunVerification(context.Context) (*service.VerificationRun, error) {
	return f.run, nil
}

func (f *fakeVerificationService) RecalculateStats(context.Context) (*entity.VerificationStats, error) {
	return &entity.VerificationStats{}, nil
}

func (f *fakeVerificationService) GetStatus(context.Context) (*verification.Status, error) {
	return &verification.Status{Mode: common.ModeObservation, Reason: "not enough data"}, nil
}

func (f *fakeVerificationService) ListPredictions(context.Context, int) ([]entity.Prediction, error) {
	return nil, nil
}

var evaluatedAt = time.Date(2025, 6, 2, 14, 0, 0, 0, time.UTC)

func buyView(ticker string) *service.SignalView {
	return &service.SignalView{
		Ticker: ticker,
		Signal: drawdown.Signal{Kind: drawdown.KindBuyNormal, Amount: 500, Shares: 1.1, Reason: "Normal conditions, buy 500.00.", EvaluatedAt: evaluatedAt},
		State:  drawdown.State{Ticker: ticker, PeakPrice: 480, CurrentPrice: 455, DrawdownPct: 5.2},
	}
}

func TestParsePayload(t *testing.T) {
	p, err := parsePayload("")
	require.NoError(t, err)
	assert.Equal(t, TaskPayload{SendNotif: true}, p)

	p, err = parsePayload(`{"force": true}`)
	require.NoError(t, err)
	assert.Equal(t, TaskPayload{Force: true, SendNotif: true}, p)

	p, err = parsePayload(`{"send_notif": false}`)
	require.NoError(t, err)
	assert.False(t, p.SendNotif)

	_, err = parsePayload(`{force}`)
	assert.Error(t, err)
}

func TestDrawdownMonitor_NotifiesOncePerDay(t *testing.T) {
	signals := &fakeSignalService{views: map[string]*service.SignalView{"QQQ": buyView("QQQ")}}
	repo := &fakeSignalRepo{now: evaluatedAt}
	bot := &recordingNotifier{}
	st := NewDrawdownMonitorStrategy(logger.NewNop(), []string{"qqq"}, signals, repo, bot)
	task := &entity.TaskExecutionHistory{TaskType: entity.TaskTypeDrawdownMonitor}

	out, err := st.Execute(context.Background(), task)
	require.NoError(t, err)
	var results []DrawdownMonitorResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "BUY_NORMAL", results[0].Kind)
	assert.True(t, results[0].Notified)
	assert.Len(t, bot.messages, 1)

	_, err = st.Execute(context.Background(), task)
	require.NoError(t, err)
	assert.Len(t, bot.messages, 1)
	require.Len(t, repo.stored, 2)
	assert.True(t, repo.stored[0].Notified)
	assert.False(t, repo.stored[1].Notified)

	repo.now = evaluatedAt.AddDate(0, 0, -1)
	repo.stored[0].CreatedAt = repo.now
	repo.stored[1].CreatedAt = repo.now
	_, err = st.Execute(context.Background(), task)
	require.NoError(t, err)
	assert.Len(t, bot.messages, 2)
}

func TestDrawdownMonitor_HoldInBetweenDoesNotResendBuy(t *testing.T) {
	view := buyView("QQQ")
	signals := &fakeSignalService{views: map[string]*service.SignalView{"QQQ": view}}
	repo := &fakeSignalRepo{now: evaluatedAt}
	bot := &recordingNotifier{}
	st := NewDrawdownMonitorStrategy(logger.NewNop(), []string{"QQQ"}, signals, repo, bot)
	task := &entity.TaskExecutionHistory{TaskType: entity.TaskTypeDrawdownMonitor}

	for _, kind := range []drawdown.Kind{drawdown.KindBuyNormal, drawdown.KindHold, drawdown.KindBuyNormal} {
		view.Signal.Kind = kind
		_, err := st.Execute(context.Background(), task)
		require.NoError(t, err)
	}

	assert.Len(t, bot.messages, 1)
	require.Len(t, repo.stored, 3)
	assert.Equal(t, "HOLD", repo.stored[1].Kind)
	assert.False(t, repo.stored[2].Notified)
}

func TestDrawdownMonitor_HoldIsStoredButNotSent(t *testing.T) {
	view := buyView("QQQ")
	view.Signal.Kind = drawdown.KindHold
	signals := &fakeSignalService{views: map[string]*service.SignalView{"QQQ": view}}
	repo := &fakeSignalRepo{now: evaluatedAt}
	bot := &recordingNotifier{}
	st := NewDrawdownMonitorStrategy(logger.NewNop(), []string{"QQQ"}, signals, repo, bot)

	_, err := st.Execute(context.Background(), &entity.TaskExecutionHistory{})
	require.NoError(t, err)
	assert.Empty(t, bot.messages)
	require.Len(t, repo.stored, 1)
	assert.Equal(t, "HOLD", repo.stored[0].Kind)
	assert.NotEmpty(t, repo.stored[0].Data)
}

func TestDrawdownMonitor_StoresSignalWhenDataCannotBeEncoded(t *testing.T) {
	view := buyView("QQQ")
	view.State.DrawdownPct = math.NaN()
	signals := &fakeSignalService{views: map[string]*service.SignalView{"QQQ": view}}
	repo := &fakeSignalRepo{now: evaluatedAt}
	st := NewDrawdownMonitorStrategy(logger.NewNop(), []string{"QQQ"}, signals, repo, &recordingNotifier{})

	_, err := st.Execute(context.Background(), &entity.TaskExecutionHistory{})
	require.NoError(t, err)
	require.Len(t, repo.stored, 1)
	assert.Equal(t, "BUY_NORMAL", repo.stored[0].Kind)
	assert.Empty(t, repo.stored[0].Data)
}

func TestDrawdownMonitor_FailsWhenEveryTickerFails(t *testing.T) {
	signals := &fakeSignalService{views: map[string]*service.SignalView{"QQQ": buyView("QQQ")}}
	repo := &fakeSignalRepo{now: evaluatedAt}
	st := NewDrawdownMonitorStrategy(logger.NewNop(), []string{"SPY", "DIA"}, signals, repo, &recordingNotifier{})

	_, err := st.Execute(context.Background(), &entity.TaskExecutionHistory{})
	assert.Error(t, err)

	partial := NewDrawdownMonitorStrategy(logger.NewNop(), []string{"SPY", "QQQ"}, signals, repo, &recordingNotifier{})
	_, err = partial.Execute(context.Background(), &entity.TaskExecutionHistory{})
	assert.NoError(t, err)
}

func TestGenerateDigest_NotifiesOnlyNewDigests(t *testing.T) {
	digests := &fakeDigestService{created: true, today: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)}
	bot := &recordingNotifier{}
	st := NewGenerateDigestStrategy(logger.NewNop(), digests, &fakeVerificationService{}, bot)

	out, err := st.Execute(context.Background(), &entity.TaskExecutionHistory{Payload: `{"force": true}`})
	require.NoError(t, err)
	assert.Contains(t, out, "digest 2025-06-02")
	assert.True(t, digests.force)
	assert.NotEmpty(t, bot.messages)

	sent := len(bot.messages)
	digests.created = false
	_, err = st.Execute(context.Background(), &entity.TaskExecutionHistory{})
	require.NoError(t, err)
	assert.Len(t, bot.messages, sent)
}

func TestRunVerification_NotifiesWhenSomethingResolved(t *testing.T) {
	verifier := &fakeVerificationService{run: &service.VerificationRun{}}
	bot := &recordingNotifier{}
	st := NewRunVerificationStrategy(logger.NewNop(), verifier, bot)

	out, err := st.Execute(context.Background(), &entity.TaskExecutionHistory{})
	require.NoError(t, err)
	assert.Equal(t, "verified 1d=0 7d=0 30d=0 skipped=0 errors=0", out)
	assert.Empty(t, bot.messages)

	verifier.run = &service.VerificationRun{Verified1D: 3, Verified7D: 1}
	_, err = st.Execute(context.Background(), &entity.TaskExecutionHistory{})
	require.NoError(t, err)
	assert.Len(t, bot.messages, 1)
}
