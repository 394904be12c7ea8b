package insights

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"fleetsnap/pkg/contracts/domain"
)

// TrendFallback is the narrative used when trend insight generation is
// unavailable.
const TrendFallback = "Trend analysis not available."

// Service resolves insight text for report sections, consulting the
// cache first and degrading to fallback sentences on any failure.
type Service struct {
	client *Client
	cache  *Cache
	logger *slog.Logger
}

// NewService creates an insights service. The cache is owned by the
// caller and may be shared across requests.
func NewService(client *Client, cache *Cache, logger *slog.Logger) *Service {
	return &Service{
		client: client,
		cache:  cache,
		logger: logger.With(slog.String("component", "insights")),
	}
}

// SummaryFallback renders the deterministic sentence for a summary:
// direction and magnitude of the week-over-week change.
func SummaryFallback(summary domain.SummaryRecord) string {
	switch {
	case summary.TotalChange > 0:
		return fmt.Sprintf("Violations increased by %d.", summary.TotalChange)
	case summary.TotalChange < 0:
		return fmt.Sprintf("Violations decreased by %d.", -summary.TotalChange)
	default:
		return "Violations were unchanged week over week."
	}
}

// SummaryInsight returns narrative text for a weekly summary.
func (s *Service) SummaryInsight(ctx context.Context, summary domain.SummaryRecord) string {
	return s.resolve(ctx, Key("summary", summary), summaryPrompt(summary), SummaryFallback(summary))
}

// TrendInsight returns narrative text for a 4-week trend.
func (s *Service) TrendInsight(ctx context.Context, trend domain.TrendRecord) string {
	return s.resolve(ctx, Key("trend", trend), trendPrompt(trend), TrendFallback)
}

func (s *Service) resolve(ctx context.Context, key, prompt, fallback string) string {
	if s.client == nil || !s.client.Enabled() {
		return fallback
	}
	if text, ok := s.cache.Get(key); ok {
		return text
	}

	text, err := s.client.Complete(ctx, prompt)
	if err != nil {
		s.logger.WarnContext(ctx, "insight generation failed, using fallback",
			slog.String("error", err.Error()))
		return fallback
	}

	s.cache.Set(key, text)
	return text
}

func summaryPrompt(summary domain.SummaryRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a two-sentence executive summary of this fleet compliance week. ")
	fmt.Fprintf(&b, "Current week violations: %d. Previous week: %d. Change: %+d.",
		summary.TotalCurrent, summary.TotalPrevious, summary.TotalChange)
	if len(summary.ByRegion) > 0 {
		b.WriteString(" By region:")
		for _, e := range summary.ByRegion {
			fmt.Fprintf(&b, " %s %d (%+d);", e.Name, e.Current, e.Change)
		}
	}
	if len(summary.ByType) > 0 {
		b.WriteString(" Top violation types:")
		for i, e := range summary.ByType {
			if i == 3 {
				break
			}
			fmt.Fprintf(&b, " %s %d;", e.Name, e.Current)
		}
	}
	b.WriteString(" Plain prose, no markdown, no recommendations.")
	return b.String()
}

func trendPrompt(trend domain.TrendRecord) string {
	var b strings.Builder
	b.WriteString("Write one sentence describing the 4-week violation trend. Weekly buckets ")
	fmt.Fprintf(&b, "(%s):", strings.Join(trend.Weeks, ", "))
	for name, counts := range trend.Series {
		fmt.Fprintf(&b, " %s %v;", name, counts)
	}
	b.WriteString(" Plain prose, no markdown.")
	return b.String()
}
