package domain

import (
	"time"

	"github.com/google/uuid"
)

// DTOs for API responses

type PipelineClientDTO struct {
	ID                uuid.UUID          `json:"id"`
	ProfileID         uuid.UUID          `json:"profileId"`
	Name              string             `json:"name"`
	Email             string             `json:"email"`
	Phone             string             `json:"phone,omitempty"`
	Stage             PipelineStage      `json:"stage"`
	Priority          Priority           `json:"priority"`
	Source            LeadSource         `json:"source"`
	SelectionCount    int                `json:"selectionCount"`
	SelectionValue    float64            `json:"selectionValue"`
	QuoteValue        *float64           `json:"quoteValue,omitempty"`
	DepositPaid       float64            `json:"depositPaid"`
	ProductionPaid    float64            `json:"productionPaid"`
	FinalPaid         float64            `json:"finalPaid"`
	TotalPaid         float64            `json:"totalPaid"`
	TotalDue          float64            `json:"totalDue"`
	PaymentPercentage int                `json:"paymentPercentage"`
	Milestones        MilestonePlanDTO   `json:"milestones"`
	AssignedToID      *uuid.UUID         `json:"assignedToId,omitempty"`
	AssignedToName    string             `json:"assignedToName,omitempty"`
	SubmittedAt       string             `json:"submittedAt"` // ISO 8601
	LastContactedAt   *string            `json:"lastContactedAt,omitempty"`
	MeetingAt         *string            `json:"meetingAt,omitempty"`
	CompletedAt       *string            `json:"completedAt,omitempty"`
	LostReason        string             `json:"lostReason,omitempty"`
	Notes             string             `json:"notes,omitempty"`
	Items             []SelectionItemDTO `json:"items,omitempty"`
	Payments          []PaymentDTO       `json:"payments,omitempty"`
	CreatedAt         string             `json:"createdAt"`
	UpdatedAt         string             `json:"updatedAt"`
}

type MilestonePlanDTO struct {
	Deposit    float64 `json:"deposit"`
	Production float64 `json:"production"`
	Final      float64 `json:"final"`
}

type SelectionItemDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Quantity    int       `json:"quantity"`
	UnitPrice   *float64  `json:"unitPrice,omitempty"`
}

type PaymentDTO struct {
	ID        uuid.UUID     `json:"id"`
	ClientID  uuid.UUID     `json:"clientId"`
	Type      PaymentType   `json:"type"`
	Status    PaymentStatus `json:"status"`
	Amount    float64       `json:"amount"`
	Reference string        `json:"reference,omitempty"`
	PaidAt    *string       `json:"paidAt,omitempty"`
	CreatedAt string        `json:"createdAt"`
}

type MarketingLeadDTO struct {
	ID             uuid.UUID       `json:"id"`
	ProfileID      uuid.UUID       `json:"profileId"`
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone,omitempty"`
	Interest       InterestLevel   `json:"interest"`
	Status         MarketingStatus `json:"status"`
	Source         LeadSource      `json:"source"`
	Tags           []string        `json:"tags"`
	LastActivityAt *string         `json:"lastActivityAt,omitempty"`
	Outreaches     []OutreachDTO   `json:"outreaches,omitempty"`
	CreatedAt      string          `json:"createdAt"`
	UpdatedAt      string          `json:"updatedAt"`
}

type OutreachDTO struct {
	ID            uuid.UUID       `json:"id"`
	LeadID        uuid.UUID       `json:"leadId"`
	Type          OutreachType    `json:"type"`
	Outcome       OutreachOutcome `json:"outcome,omitempty"`
	Note          string          `json:"note,omitempty"`
	FollowUpAt    *string         `json:"followUpAt,omitempty"`
	CreatedByID   *uuid.UUID      `json:"createdById,omitempty"`
	CreatedByName string          `json:"createdByName,omitempty"`
	CreatedAt     string          `json:"createdAt"`
}

type QuoteDTO struct {
	ID             uuid.UUID        `json:"id"`
	ClientID       uuid.UUID        `json:"clientId"`
	ClientName     string           `json:"clientName,omitempty"`
	QuoteNumber    string           `json:"quoteNumber,omitempty"`
	Status         QuoteStatus      `json:"status"`
	Items          []QuoteItemDTO   `json:"items"`
	Subtotal       float64          `json:"subtotal"`
	DiscountAmount float64          `json:"discountAmount"`
	Total          float64          `json:"total"`
	ValidUntil     *string          `json:"validUntil,omitempty"`
	SentAt         *string          `json:"sentAt,omitempty"`
	ViewedAt       *string          `json:"viewedAt,omitempty"`
	RespondedAt    *string          `json:"respondedAt,omitempty"`
	LossReason     *QuoteLossReason `json:"lossReason,omitempty"`
	Notes          string           `json:"notes,omitempty"`
	CreatedByID    *uuid.UUID       `json:"createdById,omitempty"`
	CreatedByName  string           `json:"createdByName,omitempty"`
	CreatedAt      string           `json:"createdAt"`
	UpdatedAt      string           `json:"updatedAt"`
}

type QuoteItemDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Quantity    int       `json:"quantity"`
	UnitPrice   float64   `json:"unitPrice"`
}

type OrderDTO struct {
	ID                 uuid.UUID      `json:"id"`
	ClientID           uuid.UUID      `json:"clientId"`
	ClientName         string         `json:"clientName,omitempty"`
	OrderNumber        string         `json:"orderNumber,omitempty"`
	Status             OrderStatus    `json:"status"`
	Amount             float64        `json:"amount"`
	Items              []OrderItemDTO `json:"items"`
	ExpectedDeliveryAt *string        `json:"expectedDeliveryAt,omitempty"`
	AssignedToID       *uuid.UUID     `json:"assignedToId,omitempty"`
	AssignedToName     string         `json:"assignedToName,omitempty"`
	Notes              string         `json:"notes,omitempty"`
	CreatedAt          string         `json:"createdAt"`
	UpdatedAt          string         `json:"updatedAt"`
}

type OrderItemDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	UnitPrice float64   `json:"unitPrice"`
}

type DeliveryDTO struct {
	ID            uuid.UUID      `json:"id"`
	OrderID       uuid.UUID      `json:"orderId"`
	OrderNumber   string         `json:"orderNumber,omitempty"`
	Status        DeliveryStatus `json:"status"`
	Address       string         `json:"address"`
	City          string         `json:"city,omitempty"`
	PostalCode    string         `json:"postalCode,omitempty"`
	ScheduledAt   string         `json:"scheduledAt"`
	TimeWindow    string         `json:"timeWindow,omitempty"`
	DriverID      *uuid.UUID     `json:"driverId,omitempty"`
	DriverName    string         `json:"driverName,omitempty"`
	FailureReason string         `json:"failureReason,omitempty"`
	DeliveredAt   *string        `json:"deliveredAt,omitempty"`
	CreatedAt     string         `json:"createdAt"`
	UpdatedAt     string         `json:"updatedAt"`
}

type TaskDTO struct {
	ID             uuid.UUID    `json:"id"`
	Title          string       `json:"title"`
	Description    string       `json:"description,omitempty"`
	Status         TaskStatus   `json:"status"`
	Priority       TaskPriority `json:"priority"`
	DueAt          *string      `json:"dueAt,omitempty"`
	AssignedToID   *uuid.UUID   `json:"assignedToId,omitempty"`
	AssignedToName string       `json:"assignedToName,omitempty"`
	ClientID       *uuid.UUID   `json:"clientId,omitempty"`
	OrderID        *uuid.UUID   `json:"orderId,omitempty"`
	QuoteID        *uuid.UUID   `json:"quoteId,omitempty"`
	DeliveryID     *uuid.UUID   `json:"deliveryId,omitempty"`
	CompletedAt    *string      `json:"completedAt,omitempty"`
	CreatedAt      string       `json:"createdAt"`
	UpdatedAt      string       `json:"updatedAt"`
}

type TeamMemberDTO struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone,omitempty"`
	Role       AdminRole `json:"role"`
	IsActive   bool      `json:"isActive"`
	LastSeenAt *string   `json:"lastSeenAt,omitempty"`
	CreatedAt  string    `json:"createdAt"`
}

type NotificationDTO struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"userId"`
	Type       string     `json:"type"`
	Title      string     `json:"title"`
	Message    string     `json:"message"`
	Read       bool       `json:"read"`
	ReadAt     *string    `json:"readAt,omitempty"`
	EntityID   *uuid.UUID `json:"entityId,omitempty"`
	EntityType string     `json:"entityType,omitempty"`
	CreatedAt  string     `json:"createdAt"`
}

type StageHistoryDTO struct {
	ID            uuid.UUID      `json:"id"`
	ClientID      uuid.UUID      `json:"clientId"`
	FromStage     *PipelineStage `json:"fromStage,omitempty"`
	ToStage       PipelineStage  `json:"toStage"`
	ChangedByID   *uuid.UUID     `json:"changedById,omitempty"`
	ChangedByName string         `json:"changedByName,omitempty"`
	Notes         string         `json:"notes,omitempty"`
	ChangedAt     string         `json:"changedAt"`
}

// Board DTOs

// BoardColumnDTO is one kanban column: a stage plus the cards in it
type BoardColumnDTO struct {
	Stage   PipelineStage       `json:"stage"`
	Clients []PipelineClientDTO `json:"clients"`
	Count   int                 `json:"count"`
	Value   float64             `json:"value"`
}

type BoardDTO struct {
	Columns []BoardColumnDTO `json:"columns"`
	Stats   PipelineStatsDTO `json:"stats"`
}

// Stats DTOs

type PipelineStatsDTO struct {
	ByStage            map[PipelineStage]int `json:"byStage"`
	ActiveDeals        int                   `json:"activeDeals"`
	TotalPipelineValue float64               `json:"totalPipelineValue"`
	NewSubmissions     int                   `json:"newSubmissions"`
	CompletedThisMonth int                   `json:"completedThisMonth"`
}

type MarketingStatsDTO struct {
	Total         int                       `json:"total"`
	ByInterest    map[InterestLevel]int     `json:"byInterest"`
	ByStatus      map[MarketingStatus]int   `json:"byStatus"`
	BySource      map[LeadSource]int        `json:"bySource"`
	NeedsFollowUp int                       `json:"needsFollowUp"`
}

type LossReasonCountDTO struct {
	Reason     QuoteLossReason `json:"reason"`
	Count      int             `json:"count"`
	PctOfLost  float64         `json:"pctOfLost"`
}

type QuoteStatsDTO struct {
	Won         int                  `json:"won"`
	Lost        int                  `json:"lost"`
	Pending     int                  `json:"pending"`
	WinRate     float64              `json:"winRate"`
	AvgWonValue float64              `json:"avgWonValue"`
	LossReasons []LossReasonCountDTO `json:"lossReasons"`
}

// DashboardSummaryDTO aggregates the stat cards for the landing page
type DashboardSummaryDTO struct {
	Pipeline        PipelineStatsDTO  `json:"pipeline"`
	Marketing       MarketingStatsDTO `json:"marketing"`
	Quotes          QuoteStatsDTO     `json:"quotes"`
	OpenTasks       int               `json:"openTasks"`
	OverdueTasks    int               `json:"overdueTasks"`
	DeliveriesToday int               `json:"deliveriesToday"`
	FailedDeliveries int              `json:"failedDeliveries"`
}

// UnreadCountDTO reports the unread notification badge count
type UnreadCountDTO struct {
	Count int `json:"count"`
}

// Pagination response wrapper
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// Request DTOs

type CreatePipelineClientRequest struct {
	ProfileID uuid.UUID                    `json:"profileId" validate:"required"`
	Name      string                       `json:"name" validate:"required,max=200"`
	Email     string                       `json:"email" validate:"required,email,max=255"`
	Phone     string                       `json:"phone,omitempty" validate:"max=50"`
	Source    string                       `json:"source,omitempty"`
	Priority  string                       `json:"priority,omitempty"`
	Items     []CreateSelectionItemRequest `json:"items" validate:"required,min=1,dive"`
	Notes     string                       `json:"notes,omitempty"`
}

type CreateSelectionItemRequest struct {
	Name        string   `json:"name" validate:"required,max=200"`
	Description string   `json:"description,omitempty"`
	Quantity    int      `json:"quantity" validate:"required,gte=1"`
	UnitPrice   *float64 `json:"unitPrice,omitempty"`
}

type UpdatePipelineClientRequest struct {
	Name           string     `json:"name" validate:"required,max=200"`
	Email          string     `json:"email" validate:"required,email,max=255"`
	Phone          string     `json:"phone,omitempty" validate:"max=50"`
	Priority       string     `json:"priority,omitempty"`
	QuoteValue     *float64   `json:"quoteValue,omitempty"`
	AssignedToID   *uuid.UUID `json:"assignedToId,omitempty"`
	MeetingAt      *time.Time `json:"meetingAt,omitempty"`
	Notes          string     `json:"notes,omitempty"`
}

// MoveStageRequest resolves a board drop. Exactly one of targetStage
// (dropped on a column) or targetCardId (dropped on another card,
// inheriting its stage) must be set.
type MoveStageRequest struct {
	TargetStage  string     `json:"targetStage,omitempty"`
	TargetCardID *uuid.UUID `json:"targetCardId,omitempty"`
}

type MarkLostRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

type RegisterLeadRequest struct {
	ProfileID uuid.UUID `json:"profileId" validate:"required"`
	Name      string    `json:"name" validate:"required,max=200"`
	Email     string    `json:"email" validate:"required,email,max=255"`
	Phone     string    `json:"phone,omitempty" validate:"max=50"`
	Interest  string    `json:"interest,omitempty"`
	Source    string    `json:"source,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
}

type UpdateInterestRequest struct {
	Interest string `json:"interest" validate:"required"`
}

type LogOutreachRequest struct {
	Type       string     `json:"type" validate:"required"`
	Outcome    string     `json:"outcome,omitempty"`
	Note       string     `json:"note,omitempty"`
	FollowUpAt *time.Time `json:"followUpAt,omitempty"`
	SendEmail  bool       `json:"sendEmail,omitempty"`
	Subject    string     `json:"subject,omitempty" validate:"max=200"`
}

type RecordPaymentRequest struct {
	Type      string  `json:"type" validate:"required"`
	Amount    float64 `json:"amount" validate:"required,gt=0"`
	Reference string  `json:"reference,omitempty" validate:"max=100"`
}

type CreateQuoteRequest struct {
	ClientID       uuid.UUID                `json:"clientId" validate:"required"`
	Items          []CreateQuoteItemRequest `json:"items" validate:"required,min=1,dive"`
	DiscountAmount float64                  `json:"discountAmount,omitempty" validate:"gte=0"`
	ValidUntil     *time.Time               `json:"validUntil,omitempty"`
	Notes          string                   `json:"notes,omitempty"`
}

type CreateQuoteItemRequest struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Description string  `json:"description,omitempty"`
	Quantity    int     `json:"quantity" validate:"required,gte=1"`
	UnitPrice   float64 `json:"unitPrice" validate:"gte=0"`
}

type UpdateQuoteRequest struct {
	Items          []CreateQuoteItemRequest `json:"items" validate:"required,min=1,dive"`
	DiscountAmount float64                  `json:"discountAmount,omitempty" validate:"gte=0"`
	ValidUntil     *time.Time               `json:"validUntil,omitempty"`
	Notes          string                   `json:"notes,omitempty"`
}

type RejectQuoteRequest struct {
	LossReason string `json:"lossReason" validate:"required"`
}

type CreateOrderRequest struct {
	ClientID           uuid.UUID                `json:"clientId" validate:"required"`
	Items              []CreateOrderItemRequest `json:"items" validate:"required,min=1,dive"`
	ExpectedDeliveryAt *time.Time               `json:"expectedDeliveryAt,omitempty"`
	AssignedToID       *uuid.UUID               `json:"assignedToId,omitempty"`
	Notes              string                   `json:"notes,omitempty"`
}

type CreateOrderItemRequest struct {
	Name      string  `json:"name" validate:"required,max=200"`
	Quantity  int     `json:"quantity" validate:"required,gte=1"`
	UnitPrice float64 `json:"unitPrice" validate:"gte=0"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type ScheduleDeliveryRequest struct {
	OrderID     uuid.UUID  `json:"orderId" validate:"required"`
	Address     string     `json:"address" validate:"required,max=500"`
	City        string     `json:"city,omitempty" validate:"max=100"`
	PostalCode  string     `json:"postalCode,omitempty" validate:"max=20"`
	ScheduledAt time.Time  `json:"scheduledAt" validate:"required"`
	TimeWindow  string     `json:"timeWindow,omitempty" validate:"max=50"`
	DriverID    *uuid.UUID `json:"driverId,omitempty"`
}

type UpdateDeliveryStatusRequest struct {
	Status        string `json:"status" validate:"required"`
	FailureReason string `json:"failureReason,omitempty" validate:"max=500"`
}

type CreateTaskRequest struct {
	Title        string     `json:"title" validate:"required,max=200"`
	Description  string     `json:"description,omitempty"`
	Priority     string     `json:"priority,omitempty"`
	DueAt        *time.Time `json:"dueAt,omitempty"`
	AssignedToID *uuid.UUID `json:"assignedToId,omitempty"`
	ClientID     *uuid.UUID `json:"clientId,omitempty"`
	OrderID      *uuid.UUID `json:"orderId,omitempty"`
	QuoteID      *uuid.UUID `json:"quoteId,omitempty"`
	DeliveryID   *uuid.UUID `json:"deliveryId,omitempty"`
}

type UpdateTaskRequest struct {
	Title        string     `json:"title" validate:"required,max=200"`
	Description  string     `json:"description,omitempty"`
	Status       string     `json:"status,omitempty"`
	Priority     string     `json:"priority,omitempty"`
	DueAt        *time.Time `json:"dueAt,omitempty"`
	AssignedToID *uuid.UUID `json:"assignedToId,omitempty"`
}

type CreateTeamMemberRequest struct {
	Name  string `json:"name" validate:"required,max=200"`
	Email string `json:"email" validate:"required,email,max=255"`
	Phone string `json:"phone,omitempty" validate:"max=50"`
	Role  string `json:"role" validate:"required,oneof=admin manager sales operations"`
}

type UpdateTeamMemberRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Phone    string `json:"phone,omitempty" validate:"max=50"`
	Role     string `json:"role" validate:"required,oneof=admin manager sales operations"`
	IsActive *bool  `json:"isActive,omitempty"`
}

type ConvertLeadRequest struct {
	Items []CreateSelectionItemRequest `json:"items" validate:"required,min=1,dive"`
	Notes string                       `json:"notes,omitempty"`
}
