package models

type VulnerabilityLevel string

const (
	VulnerabilityNone     VulnerabilityLevel = "Sem vulnerabilidade"
	VulnerabilityLow      VulnerabilityLevel = "Baixa"
	VulnerabilityModerate VulnerabilityLevel = "Moderada"
	VulnerabilityHigh     VulnerabilityLevel = "Alta"
	VulnerabilityExtreme  VulnerabilityLevel = "Extrema"
)

// VulnerabilityWeights orders levels for eligibility thresholds and the
// official report average (0 = none .. 4 = extreme).
var VulnerabilityWeights = map[VulnerabilityLevel]int{
	VulnerabilityNone:     0,
	VulnerabilityLow:      1,
	VulnerabilityModerate: 2,
	VulnerabilityHigh:     3,
	VulnerabilityExtreme:  4,
}

func (v VulnerabilityLevel) Weight() int {
	return VulnerabilityWeights[v]
}

type FoodBasketStatus string

const (
	FoodBasketScheduled FoodBasketStatus = "SCHEDULED"
	FoodBasketDelivered FoodBasketStatus = "DELIVERED"
	FoodBasketCancelled FoodBasketStatus = "CANCELLED"
)

type DeliveryEventStatus string

const (
	DeliveryEventOpen   DeliveryEventStatus = "OPEN"
	DeliveryEventClosed DeliveryEventStatus = "CLOSED"
)

type DeliveryInviteStatus string

const (
	DeliveryInvitePending   DeliveryInviteStatus = "PENDING"
	DeliveryInviteConfirmed DeliveryInviteStatus = "CONFIRMED"
	DeliveryInviteDeclined  DeliveryInviteStatus = "DECLINED"
)

type EquipmentType string

const (
	EquipmentWheelchair EquipmentType = "WHEELCHAIR"
	EquipmentCrutch     EquipmentType = "CRUTCH"
	EquipmentWalker     EquipmentType = "WALKER"
	EquipmentBed        EquipmentType = "BED"
	EquipmentOther      EquipmentType = "OTHER"
)

type EquipmentStatus string

const (
	EquipmentAvailable   EquipmentStatus = "AVAILABLE"
	EquipmentLoaned      EquipmentStatus = "LOANED"
	EquipmentMaintenance EquipmentStatus = "MAINTENANCE"
	EquipmentRetired     EquipmentStatus = "RETIRED"
)

type EquipmentCondition string

const (
	EquipmentConditionGood    EquipmentCondition = "GOOD"
	EquipmentConditionRegular EquipmentCondition = "REGULAR"
	EquipmentConditionBad     EquipmentCondition = "BAD"
)

type LoanStatus string

const (
	LoanActive   LoanStatus = "ACTIVE"
	LoanReturned LoanStatus = "RETURNED"
	LoanOverdue  LoanStatus = "OVERDUE"
)

type VisitRequestStatus string

const (
	VisitRequestPending   VisitRequestStatus = "PENDING"
	VisitRequestScheduled VisitRequestStatus = "SCHEDULED"
	VisitRequestDone      VisitRequestStatus = "DONE"
	VisitRequestCancelled VisitRequestStatus = "CANCELLED"
)

type VisitExecutionResult string

const (
	VisitResultCompleted   VisitExecutionResult = "COMPLETED"
	VisitResultAbsent      VisitExecutionResult = "ABSENT"
	VisitResultRescheduled VisitExecutionResult = "RESCHEDULED"
)

type ReferralTarget string

const (
	ReferralCRAS     ReferralTarget = "CRAS"
	ReferralCAPS     ReferralTarget = "CAPS"
	ReferralUBS      ReferralTarget = "UBS"
	ReferralShelter  ReferralTarget = "SHELTER"
	ReferralOtherOrg ReferralTarget = "OTHER"
)

type ReferralStatus string

const (
	ReferralReferred    ReferralStatus = "REFERRED"
	ReferralFollowUp    ReferralStatus = "FOLLOW_UP"
	ReferralCompleted   ReferralStatus = "COMPLETED"
	ReferralInterrupted ReferralStatus = "INTERRUPTED"
)

type MonthlyClosureStatus string

const (
	MonthlyClosureOpen   MonthlyClosureStatus = "OPEN"
	MonthlyClosureClosed MonthlyClosureStatus = "CLOSED"
)

// EligibilityReason codes accumulated by the eligibility engine. A family can
// fail more than one rule; all failed codes are reported together.
type EligibilityReason string

const (
	ReasonLowVulnerability  EligibilityReason = "LOW_VULNERABILITY"
	ReasonDocPending        EligibilityReason = "DOC_PENDING"
	ReasonRecentDelivery    EligibilityReason = "RECENT_DELIVERY"
	ReasonMonthLimitReached EligibilityReason = "MONTH_LIMIT_REACHED"
)

// Audit action names, kept stable: reports and downstream tooling match on
// these strings.
const (
	AuditActionMonthClose               = "MONTH_CLOSE"
	AuditActionOfficialReportGenerated  = "MONTHLY_OFFICIAL_REPORT_GENERATED"
	AuditActionOfficialReportRegenerate = "MONTHLY_OFFICIAL_REPORT_REGENERATED"
	AuditActionOfficialReportOverride   = "MONTHLY_OFFICIAL_REPORT_OVERRIDE"
	AuditActionSettingsUpdated          = "SYSTEM_SETTINGS_UPDATED"
	AuditActionUserLogin                = "USER_LOGIN"
)

const (
	RoleAdmin     = "admin"
	RoleOperator  = "operator"
	RoleVolunteer = "volunteer"
)
