package mapper

import (
	"time"

	"github.com/nordvik-interiors/ops-api/internal/domain"
)

const timeFormat = "2006-01-02T15:04:05Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

// ToPipelineClientDTO converts PipelineClient to PipelineClientDTO,
// computing the derived payment fields from the stored totals
func ToPipelineClientDTO(client *domain.PipelineClient) domain.PipelineClientDTO {
	paid := domain.PaymentTotals{
		DepositPaid:    client.DepositPaid,
		ProductionPaid: client.ProductionPaid,
		FinalPaid:      client.FinalPaid,
	}
	totalPaid := paid.Total()
	effective := domain.EffectiveValue(client.QuoteValue, client.SelectionValue)
	milestones := domain.MilestoneAmounts(effective)

	dto := domain.PipelineClientDTO{
		ID:                client.ID,
		ProfileID:         client.ProfileID,
		Name:              client.Name,
		Email:             client.Email,
		Phone:             client.Phone,
		Stage:             client.Stage,
		Priority:          client.Priority,
		Source:            client.Source,
		SelectionCount:    client.SelectionCount,
		SelectionValue:    client.SelectionValue,
		QuoteValue:        client.QuoteValue,
		DepositPaid:       client.DepositPaid,
		ProductionPaid:    client.ProductionPaid,
		FinalPaid:         client.FinalPaid,
		TotalPaid:         totalPaid,
		TotalDue:          domain.TotalDue(client.QuoteValue, client.SelectionValue, totalPaid),
		PaymentPercentage: domain.PaymentPercentage(client.QuoteValue, client.SelectionValue, totalPaid),
		Milestones: domain.MilestonePlanDTO{
			Deposit:    milestones.Deposit,
			Production: milestones.Production,
			Final:      milestones.Final,
		},
		AssignedToID:    client.AssignedToID,
		AssignedToName:  client.AssignedToName,
		SubmittedAt:     formatTime(client.SubmittedAt),
		LastContactedAt: formatTimePtr(client.LastContactedAt),
		MeetingAt:       formatTimePtr(client.MeetingAt),
		CompletedAt:     formatTimePtr(client.CompletedAt),
		LostReason:      client.LostReason,
		Notes:           client.Notes,
		CreatedAt:       formatTime(client.CreatedAt),
		UpdatedAt:       formatTime(client.UpdatedAt),
	}

	if len(client.Items) > 0 {
		dto.Items = make([]domain.SelectionItemDTO, len(client.Items))
		for i, item := range client.Items {
			dto.Items[i] = ToSelectionItemDTO(&item)
		}
	}

	if len(client.Payments) > 0 {
		dto.Payments = make([]domain.PaymentDTO, len(client.Payments))
		for i, payment := range client.Payments {
			dto.Payments[i] = ToPaymentDTO(&payment)
		}
	}

	return dto
}

// ToSelectionItemDTO converts SelectionItem to SelectionItemDTO
func ToSelectionItemDTO(item *domain.SelectionItem) domain.SelectionItemDTO {
	return domain.SelectionItemDTO{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Quantity:    item.Quantity,
		UnitPrice:   item.UnitPrice,
	}
}

// ToPaymentDTO converts Payment to PaymentDTO
func ToPaymentDTO(payment *domain.Payment) domain.PaymentDTO {
	return domain.PaymentDTO{
		ID:        payment.ID,
		ClientID:  payment.ClientID,
		Type:      payment.Type,
		Status:    payment.Status,
		Amount:    payment.Amount,
		Reference: payment.Reference,
		PaidAt:    formatTimePtr(payment.PaidAt),
		CreatedAt: formatTime(payment.CreatedAt),
	}
}

// ToMarketingLeadDTO converts MarketingLead to MarketingLeadDTO
func ToMarketingLeadDTO(lead *domain.MarketingLead) domain.MarketingLeadDTO {
	tags := []string(lead.Tags)
	if tags == nil {
		tags = []string{}
	}

	dto := domain.MarketingLeadDTO{
		ID:             lead.ID,
		ProfileID:      lead.ProfileID,
		Name:           lead.Name,
		Email:          lead.Email,
		Phone:          lead.Phone,
		Interest:       lead.Interest,
		Status:         lead.Status,
		Source:         lead.Source,
		Tags:           tags,
		LastActivityAt: formatTimePtr(lead.LastActivityAt),
		CreatedAt:      formatTime(lead.CreatedAt),
		UpdatedAt:      formatTime(lead.UpdatedAt),
	}

	if len(lead.Outreaches) > 0 {
		dto.Outreaches = make([]domain.OutreachDTO, len(lead.Outreaches))
		for i, outreach := range lead.Outreaches {
			dto.Outreaches[i] = ToOutreachDTO(&outreach)
		}
	}

	return dto
}

// ToOutreachDTO converts Outreach to OutreachDTO
func ToOutreachDTO(outreach *domain.Outreach) domain.OutreachDTO {
	return domain.OutreachDTO{
		ID:            outreach.ID,
		LeadID:        outreach.LeadID,
		Type:          outreach.Type,
		Outcome:       outreach.Outcome,
		Note:          outreach.Note,
		FollowUpAt:    formatTimePtr(outreach.FollowUpAt),
		CreatedByID:   outreach.CreatedByID,
		CreatedByName: outreach.CreatedByName,
		CreatedAt:     formatTime(outreach.CreatedAt),
	}
}

// ToQuoteDTO converts Quote to QuoteDTO
func ToQuoteDTO(quote *domain.Quote) domain.QuoteDTO {
	items := make([]domain.QuoteItemDTO, len(quote.Items))
	for i, item := range quote.Items {
		items[i] = domain.QuoteItemDTO{
			ID:          item.ID,
			Name:        item.Name,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		}
	}

	dto := domain.QuoteDTO{
		ID:             quote.ID,
		ClientID:       quote.ClientID,
		QuoteNumber:    quote.QuoteNumber,
		Status:         quote.Status,
		Items:          items,
		Subtotal:       quote.Subtotal,
		DiscountAmount: quote.DiscountAmount,
		Total:          quote.Total,
		ValidUntil:     formatTimePtr(quote.ValidUntil),
		SentAt:         formatTimePtr(quote.SentAt),
		ViewedAt:       formatTimePtr(quote.ViewedAt),
		RespondedAt:    formatTimePtr(quote.RespondedAt),
		LossReason:     quote.LossReason,
		Notes:          quote.Notes,
		CreatedByID:    quote.CreatedByID,
		CreatedByName:  quote.CreatedByName,
		CreatedAt:      formatTime(quote.CreatedAt),
		UpdatedAt:      formatTime(quote.UpdatedAt),
	}

	if quote.Client != nil {
		dto.ClientName = quote.Client.Name
	}

	return dto
}

// ToOrderDTO converts Order to OrderDTO
func ToOrderDTO(order *domain.Order) domain.OrderDTO {
	items := make([]domain.OrderItemDTO, len(order.Items))
	for i, item := range order.Items {
		items[i] = domain.OrderItemDTO{
			ID:        item.ID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}

	dto := domain.OrderDTO{
		ID:                 order.ID,
		ClientID:           order.ClientID,
		OrderNumber:        order.OrderNumber,
		Status:             order.Status,
		Amount:             order.Amount,
		Items:              items,
		ExpectedDeliveryAt: formatTimePtr(order.ExpectedDeliveryAt),
		AssignedToID:       order.AssignedToID,
		AssignedToName:     order.AssignedToName,
		Notes:              order.Notes,
		CreatedAt:          formatTime(order.CreatedAt),
		UpdatedAt:          formatTime(order.UpdatedAt),
	}

	if order.Client != nil {
		dto.ClientName = order.Client.Name
	}

	return dto
}

// ToDeliveryDTO converts Delivery to DeliveryDTO
func ToDeliveryDTO(delivery *domain.Delivery) domain.DeliveryDTO {
	dto := domain.DeliveryDTO{
		ID:            delivery.ID,
		OrderID:       delivery.OrderID,
		Status:        delivery.Status,
		Address:       delivery.Address,
		City:          delivery.City,
		PostalCode:    delivery.PostalCode,
		ScheduledAt:   formatTime(delivery.ScheduledAt),
		TimeWindow:    delivery.TimeWindow,
		DriverID:      delivery.DriverID,
		DriverName:    delivery.DriverName,
		FailureReason: delivery.FailureReason,
		DeliveredAt:   formatTimePtr(delivery.DeliveredAt),
		CreatedAt:     formatTime(delivery.CreatedAt),
		UpdatedAt:     formatTime(delivery.UpdatedAt),
	}

	if delivery.Order != nil {
		dto.OrderNumber = delivery.Order.OrderNumber
	}

	return dto
}

// ToTaskDTO converts Task to TaskDTO
func ToTaskDTO(task *domain.Task) domain.TaskDTO {
	return domain.TaskDTO{
		ID:             task.ID,
		Title:          task.Title,
		Description:    task.Description,
		Status:         task.Status,
		Priority:       task.Priority,
		DueAt:          formatTimePtr(task.DueAt),
		AssignedToID:   task.AssignedToID,
		AssignedToName: task.AssignedToName,
		ClientID:       task.ClientID,
		OrderID:        task.OrderID,
		QuoteID:        task.QuoteID,
		DeliveryID:     task.DeliveryID,
		CompletedAt:    formatTimePtr(task.CompletedAt),
		CreatedAt:      formatTime(task.CreatedAt),
		UpdatedAt:      formatTime(task.UpdatedAt),
	}
}

// ToTeamMemberDTO converts AdminUser to TeamMemberDTO
func ToTeamMemberDTO(user *domain.AdminUser) domain.TeamMemberDTO {
	return domain.TeamMemberDTO{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Phone:      user.Phone,
		Role:       user.Role,
		IsActive:   user.IsActive,
		LastSeenAt: formatTimePtr(user.LastSeenAt),
		CreatedAt:  formatTime(user.CreatedAt),
	}
}

// ToNotificationDTO converts Notification to NotificationDTO
func ToNotificationDTO(notification *domain.Notification) domain.NotificationDTO {
	return domain.NotificationDTO{
		ID:         notification.ID,
		UserID:     notification.UserID,
		Type:       notification.Type,
		Title:      notification.Title,
		Message:    notification.Message,
		Read:       notification.Read,
		ReadAt:     formatTimePtr(notification.ReadAt),
		EntityID:   notification.EntityID,
		EntityType: notification.EntityType,
		CreatedAt:  formatTime(notification.CreatedAt),
	}
}

// ToStageHistoryDTO converts StageHistory to StageHistoryDTO
func ToStageHistoryDTO(entry *domain.StageHistory) domain.StageHistoryDTO {
	return domain.StageHistoryDTO{
		ID:            entry.ID,
		ClientID:      entry.ClientID,
		FromStage:     entry.FromStage,
		ToStage:       entry.ToStage,
		ChangedByID:   entry.ChangedByID,
		ChangedByName: entry.ChangedByName,
		Notes:         entry.Notes,
		ChangedAt:     formatTime(entry.ChangedAt),
	}
}
