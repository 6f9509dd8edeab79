package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"MarketForecast/internal/model"
)

// FormatPrice renders a price rounded to 2 decimals in the given currency,
// e.g. "1,950.25 JOD". Unknown currency codes fall back to a plain suffix.
func FormatPrice(v float64, currency string) string {
	d := decimal.NewFromFloat(v).Round(2)
	if currency == "" {
		return d.StringFixed(2)
	}
	cur := money.GetCurrency(currency)
	if cur == nil {
		return d.StringFixed(2) + " " + currency
	}
	f := *cur.Formatter()
	f.Fraction = 2
	f.Grapheme = cur.Code
	f.Template = "1 $"
	return f.Format(d.Shift(2).IntPart())
}

// FormatRate renders a per-day rate with 5 decimals.
func FormatRate(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(5)
}

// FormatForecastReport formats a forecast into a Telegram HTML message.
func FormatForecastReport(fc *model.Forecast, currency string) string {
	var b strings.Builder
	s := fc.Summary

	b.WriteString(fmt.Sprintf("📊 <b>Simulation Summary</b> | %s %s\n\n", fc.Symbol, time.Now().Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("Initial Price (S₀): %s\n", FormatPrice(fc.S0, currency)))
	b.WriteString(fmt.Sprintf("Drift (μ): %s\n", FormatRate(fc.Estimate.Mu)))
	b.WriteString(fmt.Sprintf("Volatility (σ): %s\n", FormatRate(fc.Estimate.Sigma)))
	b.WriteString(fmt.Sprintf("Trend: %s\n\n", s.Trend.Label()))

	b.WriteString("📈 <b>Final Day Price Overview</b>\n")
	b.WriteString(fmt.Sprintf("Max Price: %s\n", FormatPrice(s.MaxFinal, currency)))
	b.WriteString(fmt.Sprintf("Min Price: %s\n", FormatPrice(s.MinFinal, currency)))
	b.WriteString(fmt.Sprintf("Avg Price: %s\n\n", FormatPrice(s.MeanFinal, currency)))

	b.WriteString("🛠 <b>Simulation Details</b>\n")
	b.WriteString(fmt.Sprintf("Duration: %d days\n", fc.Params.HorizonDays))
	b.WriteString(fmt.Sprintf("Paths: %d\n", fc.Params.PathCount))
	b.WriteString(fmt.Sprintf("Confidence: %d%%\n", fc.Params.Confidence))
	return b.String()
}

// FormatForecastMarkdown formats a forecast as markdown for terminal rendering.
func FormatForecastMarkdown(fc *model.Forecast, currency string) string {
	var b strings.Builder
	s := fc.Summary

	b.WriteString(fmt.Sprintf("# Simulation Summary: %s\n\n", fc.Symbol))
	b.WriteString("| | |\n|---|---|\n")
	b.WriteString(fmt.Sprintf("| Initial Price (S₀) | %s |\n", FormatPrice(fc.S0, currency)))
	b.WriteString(fmt.Sprintf("| Drift (μ) | %s |\n", FormatRate(fc.Estimate.Mu)))
	b.WriteString(fmt.Sprintf("| Volatility (σ) | %s |\n", FormatRate(fc.Estimate.Sigma)))
	b.WriteString(fmt.Sprintf("| Trend | %s |\n\n", s.Trend.Label()))

	b.WriteString("## Final Day Price Overview\n\n")
	b.WriteString(fmt.Sprintf("- **Max Price:** %s\n", FormatPrice(s.MaxFinal, currency)))
	b.WriteString(fmt.Sprintf("- **Min Price:** %s\n", FormatPrice(s.MinFinal, currency)))
	b.WriteString(fmt.Sprintf("- **Avg Price:** %s\n\n", FormatPrice(s.MeanFinal, currency)))

	b.WriteString("## Simulation Details\n\n")
	b.WriteString(fmt.Sprintf("- **Duration:** %d days\n", fc.Params.HorizonDays))
	b.WriteString(fmt.Sprintf("- **Paths:** %d\n", fc.Params.PathCount))
	b.WriteString(fmt.Sprintf("- **Confidence:** %d%%\n", fc.Params.Confidence))
	b.WriteString(fmt.Sprintf("- **History:** %d prices\n", fc.PriceCount))
	b.WriteString(fmt.Sprintf("- **Run:** `%s`\n", fc.RunID))
	return b.String()
}

// FormatEstimate formats the drift/volatility of a series.
func FormatEstimate(series *model.PriceSeries, est model.Estimate, currency string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📐 <b>%s parameters</b>\n\n", series.Symbol))
	b.WriteString(fmt.Sprintf("Prices: %d (%s)\n", series.Len(), series.Source))
	b.WriteString(fmt.Sprintf("Last Price: %s\n", FormatPrice(series.Last(), currency)))
	b.WriteString(fmt.Sprintf("Drift (μ): %s\n", FormatRate(est.Mu)))
	b.WriteString(fmt.Sprintf("Volatility (σ): %s\n", FormatRate(est.Sigma)))
	return b.String()
}
