package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns an ID when the caller did not set one
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// PipelineStage represents a client's position in the sales funnel
type PipelineStage string

const (
	StageSubmitted        PipelineStage = "submitted"
	StageContacted        PipelineStage = "contacted"
	StageMeetingScheduled PipelineStage = "meeting_scheduled"
	StageQuoted           PipelineStage = "quoted"
	StageDepositPaid      PipelineStage = "deposit_paid"
	StageInProduction     PipelineStage = "in_production"
	StageReadyDelivery    PipelineStage = "ready_delivery"
	StageCompleted        PipelineStage = "completed"
	StageLost             PipelineStage = "lost"
)

// StageOrder is the fixed linear funnel order. Lost sits outside the
// order as an absorbing state reachable by explicit action.
var StageOrder = []PipelineStage{
	StageSubmitted,
	StageContacted,
	StageMeetingScheduled,
	StageQuoted,
	StageDepositPaid,
	StageInProduction,
	StageReadyDelivery,
	StageCompleted,
}

// IsValid checks if the PipelineStage is a valid enum value
func (s PipelineStage) IsValid() bool {
	if s == StageLost {
		return true
	}
	for _, stage := range StageOrder {
		if s == stage {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are offered
func (s PipelineStage) IsTerminal() bool {
	return s == StageCompleted || s == StageLost
}

// Next returns the following stage in the linear order, or false at
// completed, lost, or an unknown value
func (s PipelineStage) Next() (PipelineStage, bool) {
	for i, stage := range StageOrder {
		if s == stage && i < len(StageOrder)-1 {
			return StageOrder[i+1], true
		}
	}
	return "", false
}

// Priority represents how urgently a pipeline client needs attention
type Priority string

const (
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// LeadSource represents the channel a prospect came through
type LeadSource string

const (
	SourceWebsiteSignup LeadSource = "website_signup"
	SourceShowroomVisit LeadSource = "showroom_visit"
	SourceReferral      LeadSource = "referral"
	SourceSocialMedia   LeadSource = "social_media"
	SourcePhoneInquiry  LeadSource = "phone_inquiry"
	SourceOther         LeadSource = "other"
)

// InterestLevel represents a marketing lead's engagement temperature
type InterestLevel string

const (
	InterestCold InterestLevel = "cold"
	InterestWarm InterestLevel = "warm"
	InterestHot  InterestLevel = "hot"
)

// MarketingStatus represents where a not-yet-submitted prospect stands
type MarketingStatus string

const (
	MarketingStatusRegistered     MarketingStatus = "registered"
	MarketingStatusBrowsing       MarketingStatus = "browsing"
	MarketingStatusNewsletterOnly MarketingStatus = "newsletter_only"
)

// PipelineClient represents a prospect who submitted a furniture
// selection and is being worked through the sales funnel
type PipelineClient struct {
	BaseModel
	ProfileID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex;column:profile_id"`
	Name            string          `gorm:"type:varchar(200);not null;index"`
	Email           string          `gorm:"type:varchar(255);not null"`
	Phone           string          `gorm:"type:varchar(50)"`
	Stage           PipelineStage   `gorm:"type:varchar(50);not null;default:'submitted';index"`
	Priority        Priority        `gorm:"type:varchar(20);not null;default:'normal'"`
	Source          LeadSource      `gorm:"type:varchar(50);not null;default:'other'"`
	SelectionCount  int             `gorm:"not null;default:0;column:selection_count"`
	SelectionValue  float64         `gorm:"type:decimal(15,2);not null;default:0;column:selection_value"`
	QuoteValue      *float64        `gorm:"type:decimal(15,2);column:quote_value"`
	DepositPaid     float64         `gorm:"type:decimal(15,2);not null;default:0;column:deposit_paid"`
	ProductionPaid  float64         `gorm:"type:decimal(15,2);not null;default:0;column:production_paid"`
	FinalPaid       float64         `gorm:"type:decimal(15,2);not null;default:0;column:final_paid"`
	AssignedToID    *uuid.UUID      `gorm:"type:uuid;index;column:assigned_to_id"`
	AssignedToName  string          `gorm:"type:varchar(200);column:assigned_to_name"`
	SubmittedAt     time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP;column:submitted_at"`
	LastContactedAt *time.Time      `gorm:"column:last_contacted_at"`
	MeetingAt       *time.Time      `gorm:"column:meeting_at"`
	CompletedAt     *time.Time      `gorm:"column:completed_at"`
	LostReason      string          `gorm:"type:varchar(500);column:lost_reason"`
	Notes           string          `gorm:"type:text"`
	Items           []SelectionItem `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE"`
	Payments        []Payment       `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE"`
}

// SelectionItem represents one line of a submitted furniture selection.
// Unit price is nullable because selections can reference catalog items
// that were priced later or removed.
type SelectionItem struct {
	BaseModel
	ClientID    uuid.UUID `gorm:"type:uuid;not null;index;column:client_id"`
	Name        string    `gorm:"type:varchar(200);not null"`
	Description string    `gorm:"type:text"`
	Quantity    int       `gorm:"not null;default:1"`
	UnitPrice   *float64  `gorm:"type:decimal(15,2);column:unit_price"`
}

// PaymentType represents which milestone a payment belongs to
type PaymentType string

const (
	PaymentTypeDeposit    PaymentType = "deposit"
	PaymentTypeProduction PaymentType = "production"
	PaymentTypeDelivery   PaymentType = "delivery"
)

// PaymentStatus represents the settlement state of a payment
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// Payment represents a recorded payment against a pipeline client.
// Only payments with status paid count toward the paid totals.
type Payment struct {
	BaseModel
	ClientID  uuid.UUID     `gorm:"type:uuid;not null;index;column:client_id"`
	Type      PaymentType   `gorm:"type:varchar(20);not null"`
	Status    PaymentStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	Amount    float64       `gorm:"type:decimal(15,2);not null"`
	Reference string        `gorm:"type:varchar(100)"`
	PaidAt    *time.Time    `gorm:"column:paid_at"`
}

// MarketingLead represents a registered prospect who has not submitted
// a selection yet. A profile with a submission belongs to the pipeline
// and must never appear in the marketing-lead set.
type MarketingLead struct {
	BaseModel
	ProfileID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex;column:profile_id"`
	Name           string          `gorm:"type:varchar(200);not null"`
	Email          string          `gorm:"type:varchar(255);not null;index"`
	Phone          string          `gorm:"type:varchar(50)"`
	Interest       InterestLevel   `gorm:"type:varchar(20);not null;default:'warm'"`
	Status         MarketingStatus `gorm:"type:varchar(30);not null;default:'registered'"`
	Source         LeadSource      `gorm:"type:varchar(50);not null;default:'other'"`
	Tags           pq.StringArray  `gorm:"type:text[]"`
	LastActivityAt *time.Time      `gorm:"column:last_activity_at"`
	Outreaches     []Outreach      `gorm:"foreignKey:LeadID;constraint:OnDelete:CASCADE"`
}

// OutreachType represents the channel of a logged contact attempt
type OutreachType string

const (
	OutreachEmail   OutreachType = "email"
	OutreachCall    OutreachType = "call"
	OutreachSMS     OutreachType = "sms"
	OutreachMeeting OutreachType = "meeting"
	OutreachOther   OutreachType = "other"
)

// OutreachOutcome represents what came of a contact attempt
type OutreachOutcome string

const (
	OutcomeReached        OutreachOutcome = "reached"
	OutcomeNoAnswer       OutreachOutcome = "no_answer"
	OutcomeInterested     OutreachOutcome = "interested"
	OutcomeNotInterested  OutreachOutcome = "not_interested"
	OutcomeMeetingBooked  OutreachOutcome = "meeting_booked"
	OutcomeFollowUpNeeded OutreachOutcome = "follow_up_needed"
)

// IsValid checks if the OutreachType is a valid enum value
func (ot OutreachType) IsValid() bool {
	switch ot {
	case OutreachEmail, OutreachCall, OutreachSMS, OutreachMeeting, OutreachOther:
		return true
	}
	return false
}

// Outreach represents a logged contact attempt against a marketing lead
type Outreach struct {
	BaseModel
	LeadID        uuid.UUID       `gorm:"type:uuid;not null;index;column:lead_id"`
	Type          OutreachType    `gorm:"type:varchar(20);not null"`
	Outcome       OutreachOutcome `gorm:"type:varchar(30)"`
	Note          string          `gorm:"type:text"`
	FollowUpAt    *time.Time      `gorm:"column:follow_up_at"`
	CreatedByID   *uuid.UUID      `gorm:"type:uuid;column:created_by_id"`
	CreatedByName string          `gorm:"type:varchar(200);column:created_by_name"`
}

// QuoteStatus represents the lifecycle state of a quote. Forward-only:
// draft, sent, viewed, then accepted or rejected. Expired is a
// time-based terminal applied when valid_until elapses unanswered.
type QuoteStatus string

const (
	QuoteStatusDraft    QuoteStatus = "draft"
	QuoteStatusSent     QuoteStatus = "sent"
	QuoteStatusViewed   QuoteStatus = "viewed"
	QuoteStatusAccepted QuoteStatus = "accepted"
	QuoteStatusRejected QuoteStatus = "rejected"
	QuoteStatusExpired  QuoteStatus = "expired"
)

// QuoteLossReason represents the categorized reason a quote was rejected
type QuoteLossReason string

const (
	LossReasonPriceTooHigh    QuoteLossReason = "price_too_high"
	LossReasonChoseCompetitor QuoteLossReason = "chose_competitor"
	LossReasonTimingNotRight  QuoteLossReason = "timing_not_right"
	LossReasonChangedMind     QuoteLossReason = "changed_mind"
	LossReasonNoResponse      QuoteLossReason = "no_response"
	LossReasonOther           QuoteLossReason = "other"
)

// IsValid checks if the QuoteLossReason is a valid enum value
func (lr QuoteLossReason) IsValid() bool {
	switch lr {
	case LossReasonPriceTooHigh, LossReasonChoseCompetitor, LossReasonTimingNotRight,
		LossReasonChangedMind, LossReasonNoResponse, LossReasonOther:
		return true
	}
	return false
}

// Quote represents a priced proposal sent to a pipeline client
type Quote struct {
	BaseModel
	ClientID       uuid.UUID        `gorm:"type:uuid;not null;index;column:client_id"`
	Client         *PipelineClient  `gorm:"foreignKey:ClientID"`
	QuoteNumber    string           `gorm:"type:varchar(50);unique;column:quote_number"`
	Status         QuoteStatus      `gorm:"type:varchar(20);not null;default:'draft';index"`
	Items          []QuoteItem      `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE"`
	Subtotal       float64          `gorm:"type:decimal(15,2);not null;default:0"`
	DiscountAmount float64          `gorm:"type:decimal(15,2);not null;default:0;column:discount_amount"`
	Total          float64          `gorm:"type:decimal(15,2);not null;default:0"`
	ValidUntil     *time.Time       `gorm:"column:valid_until"`
	SentAt         *time.Time       `gorm:"column:sent_at"`
	ViewedAt       *time.Time       `gorm:"column:viewed_at"`
	RespondedAt    *time.Time       `gorm:"column:responded_at"`
	LossReason     *QuoteLossReason `gorm:"type:varchar(50);column:loss_reason"`
	Notes          string           `gorm:"type:text"`
	CreatedByID    *uuid.UUID       `gorm:"type:uuid;column:created_by_id"`
	CreatedByName  string           `gorm:"type:varchar(200);column:created_by_name"`
}

// QuoteItem represents a line item in a quote
type QuoteItem struct {
	BaseModel
	QuoteID     uuid.UUID `gorm:"type:uuid;not null;index;column:quote_id"`
	Name        string    `gorm:"type:varchar(200);not null"`
	Description string    `gorm:"type:text"`
	Quantity    int       `gorm:"not null;default:1"`
	UnitPrice   float64   `gorm:"type:decimal(15,2);not null;default:0;column:unit_price"`
}

// OrderStatus represents the fulfillment state of a confirmed order
type OrderStatus string

const (
	OrderStatusPending       OrderStatus = "pending"
	OrderStatusConfirmed     OrderStatus = "confirmed"
	OrderStatusInProduction  OrderStatus = "in_production"
	OrderStatusReadyDelivery OrderStatus = "ready_delivery"
	OrderStatusDelivered     OrderStatus = "delivered"
	OrderStatusCompleted     OrderStatus = "completed"
	OrderStatusCancelled     OrderStatus = "cancelled"
)

// Order represents a confirmed purchase
type Order struct {
	BaseModel
	ClientID           uuid.UUID       `gorm:"type:uuid;not null;index;column:client_id"`
	Client             *PipelineClient `gorm:"foreignKey:ClientID"`
	OrderNumber        string          `gorm:"type:varchar(50);unique;column:order_number"`
	Status             OrderStatus     `gorm:"type:varchar(30);not null;default:'pending';index"`
	Amount             float64         `gorm:"type:decimal(15,2);not null;default:0"`
	Items              []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	ExpectedDeliveryAt *time.Time      `gorm:"column:expected_delivery_at"`
	AssignedToID       *uuid.UUID      `gorm:"type:uuid;column:assigned_to_id"`
	AssignedToName     string          `gorm:"type:varchar(200);column:assigned_to_name"`
	Notes              string          `gorm:"type:text"`
}

// OrderItem represents a line item in an order
type OrderItem struct {
	BaseModel
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index;column:order_id"`
	Name      string    `gorm:"type:varchar(200);not null"`
	Quantity  int       `gorm:"not null;default:1"`
	UnitPrice float64   `gorm:"type:decimal(15,2);not null;default:0;column:unit_price"`
}

// DeliveryStatus represents the state of a scheduled handoff
type DeliveryStatus string

const (
	DeliveryStatusScheduled   DeliveryStatus = "scheduled"
	DeliveryStatusInTransit   DeliveryStatus = "in_transit"
	DeliveryStatusDelivered   DeliveryStatus = "delivered"
	DeliveryStatusFailed      DeliveryStatus = "failed"
	DeliveryStatusRescheduled DeliveryStatus = "rescheduled"
)

// Delivery represents the scheduled physical handoff of an order
type Delivery struct {
	BaseModel
	OrderID       uuid.UUID      `gorm:"type:uuid;not null;index;column:order_id"`
	Order         *Order         `gorm:"foreignKey:OrderID"`
	Status        DeliveryStatus `gorm:"type:varchar(20);not null;default:'scheduled';index"`
	Address       string         `gorm:"type:varchar(500);not null"`
	City          string         `gorm:"type:varchar(100)"`
	PostalCode    string         `gorm:"type:varchar(20);column:postal_code"`
	ScheduledAt   time.Time      `gorm:"not null;column:scheduled_at"`
	TimeWindow    string         `gorm:"type:varchar(50);column:time_window"`
	DriverID      *uuid.UUID     `gorm:"type:uuid;column:driver_id"`
	DriverName    string         `gorm:"type:varchar(200);column:driver_name"`
	FailureReason string         `gorm:"type:varchar(500);column:failure_reason"`
	DeliveredAt   *time.Time     `gorm:"column:delivered_at"`
}

// TaskStatus represents the state of an internal to-do
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// TaskPriority represents how urgent a task is
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityNormal TaskPriority = "normal"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

// Task represents an internal to-do, optionally linked to a pipeline
// client, order, quote, or delivery
type Task struct {
	BaseModel
	Title          string       `gorm:"type:varchar(200);not null"`
	Description    string       `gorm:"type:text"`
	Status         TaskStatus   `gorm:"type:varchar(20);not null;default:'pending';index"`
	Priority       TaskPriority `gorm:"type:varchar(20);not null;default:'normal'"`
	DueAt          *time.Time   `gorm:"column:due_at"`
	AssignedToID   *uuid.UUID   `gorm:"type:uuid;index;column:assigned_to_id"`
	AssignedToName string       `gorm:"type:varchar(200);column:assigned_to_name"`
	ClientID       *uuid.UUID   `gorm:"type:uuid;index;column:client_id"`
	OrderID        *uuid.UUID   `gorm:"type:uuid;column:order_id"`
	QuoteID        *uuid.UUID   `gorm:"type:uuid;column:quote_id"`
	DeliveryID     *uuid.UUID   `gorm:"type:uuid;column:delivery_id"`
	CompletedAt    *time.Time   `gorm:"column:completed_at"`
}

// AdminRole represents a staff member's role. The role gates which
// dashboard sections and actions are available.
type AdminRole string

const (
	RoleAdmin      AdminRole = "admin"
	RoleManager    AdminRole = "manager"
	RoleSales      AdminRole = "sales"
	RoleOperations AdminRole = "operations"
)

// IsValid checks if the AdminRole is a valid enum value
func (r AdminRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleSales, RoleOperations:
		return true
	}
	return false
}

// AdminUser represents an internal staff member
type AdminUser struct {
	BaseModel
	Name       string     `gorm:"type:varchar(200);not null"`
	Email      string     `gorm:"type:varchar(255);not null;unique"`
	Phone      string     `gorm:"type:varchar(50)"`
	Role       AdminRole  `gorm:"type:varchar(20);not null;default:'sales';index"`
	IsActive   bool       `gorm:"not null;default:true;column:is_active"`
	LastSeenAt *time.Time `gorm:"column:last_seen_at"`
}

// NotificationType represents the kind of event a notification reports
type NotificationType string

const (
	NotificationStageChanged   NotificationType = "stage_changed"
	NotificationQuoteAccepted  NotificationType = "quote_accepted"
	NotificationQuoteRejected  NotificationType = "quote_rejected"
	NotificationQuoteExpired   NotificationType = "quote_expired"
	NotificationTaskAssigned   NotificationType = "task_assigned"
	NotificationDeliveryFailed NotificationType = "delivery_failed"
	NotificationFollowUpDue    NotificationType = "follow_up_due"
)

// Notification represents a user notification
type Notification struct {
	BaseModel
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	Type       string     `gorm:"type:varchar(50);not null"`
	Title      string     `gorm:"type:varchar(200);not null"`
	Message    string     `gorm:"type:varchar(500);not null"`
	Read       bool       `gorm:"column:read;not null;default:false;index"`
	ReadAt     *time.Time
	EntityID   *uuid.UUID `gorm:"type:uuid"`
	EntityType string     `gorm:"type:varchar(50)"`
}

// StageHistory tracks stage changes for audit purposes
type StageHistory struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key"`
	ClientID      uuid.UUID      `gorm:"type:uuid;not null;index;column:client_id"`
	Client        *PipelineClient `gorm:"foreignKey:ClientID"`
	FromStage     *PipelineStage `gorm:"type:varchar(50);column:from_stage"`
	ToStage       PipelineStage  `gorm:"type:varchar(50);not null;column:to_stage"`
	ChangedByID   *uuid.UUID     `gorm:"type:uuid;column:changed_by_id"`
	ChangedByName string         `gorm:"type:varchar(200);column:changed_by_name"`
	Notes         string         `gorm:"type:text"`
	ChangedAt     time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP;column:changed_at"`
}

// TableName overrides the default table name to match the migration
func (StageHistory) TableName() string {
	return "stage_history"
}

// BeforeCreate assigns an ID when the caller did not set one
func (h *StageHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}
