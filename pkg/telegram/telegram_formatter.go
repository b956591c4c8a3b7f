package telegram

import (
	"fmt"
	"strings"

	"golang-stock-advisor/internal/entity"
	"golang-stock-advisor/pkg/common"
	"golang-stock-advisor/pkg/utils"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const maxMessageLen = 4090

// SignalSummary is the subset of a drawdown evaluation rendered in a notification.
type SignalSummary struct {
	Ticker       string
	Kind         string
	Amount       float64
	Shares       float64
	Reason       string
	CurrentPrice float64
	PeakPrice    float64
	DrawdownPct  float64
	PnLPct       float64
}

// VerificationSummary is the result of a verification run with the resulting mode.
type VerificationSummary struct {
	Verified1D  int
	Verified7D  int
	Verified30D int
	Errors      int
	Mode        string
	Reason      string
	Stats       *entity.VerificationStats
}

func escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}

// chunk splits entries into messages below the Telegram size limit.
// header is written at the start of every part.
func chunk(header func(part int) string, entries []string) []string {
	var messages []string
	var current strings.Builder
	part := 1
	current.WriteString(header(part))

	for _, e := range entries {
		if current.Len()+len(e) > maxMessageLen {
			messages = append(messages, current.String())
			part++
			current.Reset()
			current.WriteString(header(part))
		}
		current.WriteString(e)
	}
	return append(messages, current.String())
}

// FormatDigest renders a digest as one or more Markdown messages.
func FormatDigest(d *entity.Digest, mode string) []string {
	date := utils.FormatDate(d.Date)
	header := func(part int) string {
		if part == 1 {
			var b strings.Builder
			b.WriteString(fmt.Sprintf("📊 *Daily Digest %s*\n", date))
			b.WriteString(fmt.Sprintf("💰 Budget: $%.2f | Universe: %d | Data gaps: %d\n", d.Budget, d.UniverseSize, d.DataGaps))
			if mode == common.ModeObservation {
				b.WriteString("👀 _Observation mode: do not act on these picks yet._\n")
			}
			b.WriteString("\n")
			return b.String()
		}
		return fmt.Sprintf("---*Digest %s Part %d*---\n\n", date, part)
	}

	buys, sells := d.BuyPicks(), d.SellPicks()
	if len(buys) == 0 && len(sells) == 0 {
		msg := d.Message
		if msg == "" {
			msg = "No picks today."
		}
		return []string{header(1) + escape(msg) + "\n"}
	}

	var entries []string
	if len(buys) > 0 {
		entries = append(entries, "🟢 *BUY*\n")
		for _, p := range buys {
			entries = append(entries, formatPick(p))
		}
	}
	if len(sells) > 0 {
		entries = append(entries, "🔴 *SELL*\n")
		for _, p := range sells {
			entries = append(entries, formatPick(p))
		}
	}
	return chunk(header, entries)
}

func formatPick(p entity.StockPick) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📈 *%s* %s\n", p.Ticker, escape(p.Name)))
	b.WriteString(fmt.Sprintf("🎯 *Score:* %.0f (%s)\n", p.Score*100, p.Signal))
	b.WriteString(fmt.Sprintf("💵 *Price:* $%.2f (%+.2f%%)\n", p.CurrentPrice, p.DayChangePct))
	b.WriteString(fmt.Sprintf("🧮 *Position:* $%.2f\n", p.SuggestedPosition))
	b.WriteString(fmt.Sprintf("💬 %s\n", escape(p.Explanation)))
	for _, h := range p.Headlines {
		b.WriteString(fmt.Sprintf("  - %s\n", escape(h)))
	}
	b.WriteString("\n")
	return b.String()
}

// FormatSignal renders an actionable drawdown signal.
func FormatSignal(s SignalSummary) string {
	var icon string
	switch s.Kind {
	case "BUY_NORMAL", "BUY_AGGRESSIVE":
		icon = "🟢"
	case "SELL":
		icon = "🟡"
	case "STOP_LOSS":
		icon = "🛑"
	default:
		icon = "⚪"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s *%s: %s*\n\n", icon, s.Ticker, s.Kind))
	b.WriteString(fmt.Sprintf("💵 *Price:* $%.2f (peak $%.2f)\n", s.CurrentPrice, s.PeakPrice))
	b.WriteString(fmt.Sprintf("📉 *Drawdown:* %.1f%%\n", s.DrawdownPct))
	b.WriteString(fmt.Sprintf("📊 *P&L:* %+.1f%%\n", s.PnLPct))
	if s.Amount > 0 {
		b.WriteString(fmt.Sprintf("🛒 *Amount:* $%.2f\n", s.Amount))
	}
	if s.Shares > 0 {
		b.WriteString(fmt.Sprintf("📦 *Shares:* %.4f\n", s.Shares))
	}
	b.WriteString(fmt.Sprintf("\n💡 %s\n", escape(s.Reason)))
	return b.String()
}

// FormatVerification renders the outcome of a verification run.
func FormatVerification(v VerificationSummary) string {
	var b strings.Builder
	b.WriteString("✅ *Verification Run*\n\n")
	b.WriteString(fmt.Sprintf("1d: %d | 7d: %d | 30d: %d verified", v.Verified1D, v.Verified7D, v.Verified30D))
	if v.Errors > 0 {
		b.WriteString(fmt.Sprintf(" | %d errors", v.Errors))
	}
	b.WriteString("\n")

	if v.Stats != nil {
		for _, h := range entity.Horizons {
			acc := v.Stats.Accuracy(h)
			if acc == nil {
				continue
			}
			b.WriteString(fmt.Sprintf("🎯 *%s accuracy:* %.1f%% (%d)\n", h, *acc, v.Stats.VerifiedCount(h)))
		}
		if v.Stats.HypotheticalReturnTotal != nil {
			b.WriteString(fmt.Sprintf("💰 *Hypothetical 7d return:* %+.2f%%\n", *v.Stats.HypotheticalReturnTotal))
		}
	}

	icon := "👀"
	if v.Mode == common.ModeActive {
		icon = "🚀"
	}
	b.WriteString(fmt.Sprintf("\n%s *Mode:* %s\n_%s_\n", icon, v.Mode, escape(v.Reason)))
	return b.String()
}
