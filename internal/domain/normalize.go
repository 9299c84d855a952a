package domain

import "strings"

// The persistence layer stores these values as free-text columns, so
// every read goes through one of these functions before the value is
// used anywhere else. Unknown or empty input degrades to the default
// instead of failing the read.

// NormalizeStage maps a raw stage string to a valid PipelineStage,
// defaulting to submitted
func NormalizeStage(raw string) PipelineStage {
	s := PipelineStage(strings.TrimSpace(raw))
	if s.IsValid() {
		return s
	}
	return StageSubmitted
}

// NormalizePriority maps a raw priority string to a valid Priority,
// defaulting to normal
func NormalizePriority(raw string) Priority {
	switch Priority(strings.TrimSpace(raw)) {
	case PriorityNormal:
		return PriorityNormal
	case PriorityHigh:
		return PriorityHigh
	case PriorityUrgent:
		return PriorityUrgent
	}
	return PriorityNormal
}

// NormalizeInterest maps a raw interest string to a valid
// InterestLevel, defaulting to warm
func NormalizeInterest(raw string) InterestLevel {
	switch InterestLevel(strings.TrimSpace(raw)) {
	case InterestCold:
		return InterestCold
	case InterestWarm:
		return InterestWarm
	case InterestHot:
		return InterestHot
	}
	return InterestWarm
}

// NormalizeSource maps a raw source string to a valid LeadSource,
// defaulting to other. "website" is a legacy alias for website_signup.
func NormalizeSource(raw string) LeadSource {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "website" {
		return SourceWebsiteSignup
	}
	switch LeadSource(trimmed) {
	case SourceWebsiteSignup:
		return SourceWebsiteSignup
	case SourceShowroomVisit:
		return SourceShowroomVisit
	case SourceReferral:
		return SourceReferral
	case SourceSocialMedia:
		return SourceSocialMedia
	case SourcePhoneInquiry:
		return SourcePhoneInquiry
	case SourceOther:
		return SourceOther
	}
	return SourceOther
}

// NormalizeMarketingStatus maps a raw status string to a valid
// MarketingStatus, defaulting to registered
func NormalizeMarketingStatus(raw string) MarketingStatus {
	switch MarketingStatus(strings.TrimSpace(raw)) {
	case MarketingStatusRegistered:
		return MarketingStatusRegistered
	case MarketingStatusBrowsing:
		return MarketingStatusBrowsing
	case MarketingStatusNewsletterOnly:
		return MarketingStatusNewsletterOnly
	}
	return MarketingStatusRegistered
}

// NormalizeQuoteStatus maps a raw status string to a valid QuoteStatus,
// defaulting to draft
func NormalizeQuoteStatus(raw string) QuoteStatus {
	switch QuoteStatus(strings.TrimSpace(raw)) {
	case QuoteStatusDraft:
		return QuoteStatusDraft
	case QuoteStatusSent:
		return QuoteStatusSent
	case QuoteStatusViewed:
		return QuoteStatusViewed
	case QuoteStatusAccepted:
		return QuoteStatusAccepted
	case QuoteStatusRejected:
		return QuoteStatusRejected
	case QuoteStatusExpired:
		return QuoteStatusExpired
	}
	return QuoteStatusDraft
}

// NormalizeOrderStatus maps a raw status string to a valid OrderStatus,
// defaulting to pending
func NormalizeOrderStatus(raw string) OrderStatus {
	switch OrderStatus(strings.TrimSpace(raw)) {
	case OrderStatusPending:
		return OrderStatusPending
	case OrderStatusConfirmed:
		return OrderStatusConfirmed
	case OrderStatusInProduction:
		return OrderStatusInProduction
	case OrderStatusReadyDelivery:
		return OrderStatusReadyDelivery
	case OrderStatusDelivered:
		return OrderStatusDelivered
	case OrderStatusCompleted:
		return OrderStatusCompleted
	case OrderStatusCancelled:
		return OrderStatusCancelled
	}
	return OrderStatusPending
}

// NormalizeDeliveryStatus maps a raw status string to a valid
// DeliveryStatus, defaulting to scheduled
func NormalizeDeliveryStatus(raw string) DeliveryStatus {
	switch DeliveryStatus(strings.TrimSpace(raw)) {
	case DeliveryStatusScheduled:
		return DeliveryStatusScheduled
	case DeliveryStatusInTransit:
		return DeliveryStatusInTransit
	case DeliveryStatusDelivered:
		return DeliveryStatusDelivered
	case DeliveryStatusFailed:
		return DeliveryStatusFailed
	case DeliveryStatusRescheduled:
		return DeliveryStatusRescheduled
	}
	return DeliveryStatusScheduled
}

// NormalizeTaskStatus maps a raw status string to a valid TaskStatus,
// defaulting to pending
func NormalizeTaskStatus(raw string) TaskStatus {
	switch TaskStatus(strings.TrimSpace(raw)) {
	case TaskStatusPending:
		return TaskStatusPending
	case TaskStatusInProgress:
		return TaskStatusInProgress
	case TaskStatusCompleted:
		return TaskStatusCompleted
	case TaskStatusCancelled:
		return TaskStatusCancelled
	}
	return TaskStatusPending
}

// NormalizeTaskPriority maps a raw priority string to a valid
// TaskPriority, defaulting to normal
func NormalizeTaskPriority(raw string) TaskPriority {
	switch TaskPriority(strings.TrimSpace(raw)) {
	case TaskPriorityLow:
		return TaskPriorityLow
	case TaskPriorityNormal:
		return TaskPriorityNormal
	case TaskPriorityHigh:
		return TaskPriorityHigh
	case TaskPriorityUrgent:
		return TaskPriorityUrgent
	}
	return TaskPriorityNormal
}

// NormalizePaymentType maps a raw type string to a valid PaymentType.
// "final" is accepted as an alias for delivery, which settles the last
// milestone.
func NormalizePaymentType(raw string) PaymentType {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "final" {
		return PaymentTypeDelivery
	}
	switch PaymentType(trimmed) {
	case PaymentTypeDeposit:
		return PaymentTypeDeposit
	case PaymentTypeProduction:
		return PaymentTypeProduction
	case PaymentTypeDelivery:
		return PaymentTypeDelivery
	}
	return PaymentTypeDeposit
}
