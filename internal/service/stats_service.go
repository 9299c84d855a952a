package service

import (
	"math"
	"sort"
	"time"

	"github.com/nordvik-interiors/ops-api/internal/domain"
)

// FollowUpAfter is how long a marketing lead can sit without activity
// before it counts as needing follow-up.
const FollowUpAfter = 14 * 24 * time.Hour

// ComputePipelineStats folds the full client collection into the
// pipeline stat cards. Active deals are everything outside the two
// terminal states; the monthly completion count uses the calendar month
// of now, not a rolling window.
func ComputePipelineStats(clients []domain.PipelineClient, now time.Time) domain.PipelineStatsDTO {
	stats := domain.PipelineStatsDTO{
		ByStage: make(map[domain.PipelineStage]int),
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	for _, client := range clients {
		stage := domain.NormalizeStage(string(client.Stage))
		stats.ByStage[stage]++

		if stage == domain.StageSubmitted {
			stats.NewSubmissions++
		}

		if !stage.IsTerminal() {
			stats.ActiveDeals++
			stats.TotalPipelineValue += domain.EffectiveValue(client.QuoteValue, client.SelectionValue)
		}

		if stage == domain.StageCompleted && client.CompletedAt != nil && !client.CompletedAt.Before(monthStart) {
			stats.CompletedThisMonth++
		}
	}

	return stats
}

// ComputeMarketingStats folds the marketing-lead collection into the
// distribution cards. A lead needs follow-up when it has no recorded
// activity at all or none within the follow-up window.
func ComputeMarketingStats(leads []domain.MarketingLead, now time.Time) domain.MarketingStatsDTO {
	stats := domain.MarketingStatsDTO{
		Total:      len(leads),
		ByInterest: make(map[domain.InterestLevel]int),
		ByStatus:   make(map[domain.MarketingStatus]int),
		BySource:   make(map[domain.LeadSource]int),
	}

	cutoff := now.Add(-FollowUpAfter)

	for _, lead := range leads {
		stats.ByInterest[domain.NormalizeInterest(string(lead.Interest))]++
		stats.ByStatus[domain.NormalizeMarketingStatus(string(lead.Status))]++
		stats.BySource[domain.NormalizeSource(string(lead.Source))]++

		if lead.LastActivityAt == nil || lead.LastActivityAt.Before(cutoff) {
			stats.NeedsFollowUp++
		}
	}

	return stats
}

// ComputeQuoteStats folds the quote collection into win/loss figures.
// Accepted quotes count as won; rejected and expired as lost; draft,
// sent, and viewed as pending. The win rate is won over all decided
// quotes, rounded to one decimal.
func ComputeQuoteStats(quotes []domain.Quote) domain.QuoteStatsDTO {
	stats := domain.QuoteStatsDTO{
		LossReasons: []domain.LossReasonCountDTO{},
	}

	reasons := make(map[domain.QuoteLossReason]int)
	var wonValue float64

	for _, quote := range quotes {
		switch domain.NormalizeQuoteStatus(string(quote.Status)) {
		case domain.QuoteStatusAccepted:
			stats.Won++
			wonValue += quote.Total
		case domain.QuoteStatusRejected, domain.QuoteStatusExpired:
			stats.Lost++
			reason := domain.LossReasonOther
			if quote.Status == domain.QuoteStatusExpired {
				reason = domain.LossReasonNoResponse
			}
			if quote.LossReason != nil && quote.LossReason.IsValid() {
				reason = *quote.LossReason
			}
			reasons[reason]++
		default:
			stats.Pending++
		}
	}

	decided := stats.Won + stats.Lost
	if decided > 0 {
		stats.WinRate = math.Round(float64(stats.Won)/float64(decided)*1000) / 10
	}
	if stats.Won > 0 {
		stats.AvgWonValue = wonValue / float64(stats.Won)
	}

	for reason, count := range reasons {
		entry := domain.LossReasonCountDTO{
			Reason: reason,
			Count:  count,
		}
		if stats.Lost > 0 {
			entry.PctOfLost = math.Round(float64(count)/float64(stats.Lost)*1000) / 10
		}
		stats.LossReasons = append(stats.LossReasons, entry)
	}

	sort.Slice(stats.LossReasons, func(i, j int) bool {
		if stats.LossReasons[i].Count != stats.LossReasons[j].Count {
			return stats.LossReasons[i].Count > stats.LossReasons[j].Count
		}
		return stats.LossReasons[i].Reason < stats.LossReasons[j].Reason
	})

	return stats
}
