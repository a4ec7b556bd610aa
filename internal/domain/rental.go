package domain

import "time"

type RentalStatus string

const (
	RentalStatusReserved  RentalStatus = "reserved"
	RentalStatusActive    RentalStatus = "active"
	RentalStatusCompleted RentalStatus = "completed"
	RentalStatusCancelled RentalStatus = "cancelled"

	// RentalStatusOverdue is never persisted. It is derived from an Active
	// application whose end date has elapsed in the business time zone.
	RentalStatusOverdue RentalStatus = "overdue"
)

var allowedTransitions = map[RentalStatus][]RentalStatus{
	RentalStatusReserved:  {RentalStatusActive, RentalStatusCancelled},
	RentalStatusActive:    {RentalStatusCompleted, RentalStatusCancelled},
	RentalStatusCompleted: {},
	RentalStatusCancelled: {},
}

func ParseRentalStatus(s string) (RentalStatus, bool) {
	st := RentalStatus(s)
	_, ok := allowedTransitions[st]
	return st, ok
}

// IsTerminal reports whether no ordinary transition leaves the status.
func (s RentalStatus) IsTerminal() bool {
	return len(allowedTransitions[s]) == 0
}

// Blocks reports whether an application in this status occupies its transport.
func (s RentalStatus) Blocks() bool {
	return s == RentalStatusReserved || s == RentalStatusActive
}

func (s RentalStatus) CanTransitionTo(target RentalStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// ValidateTransition checks a requested status change. Privileged actors are
// not checked against the transition table, but the target must still be a
// persisted status.
func ValidateTransition(from, to RentalStatus, privileged bool) error {
	if _, ok := allowedTransitions[to]; !ok {
		return &IllegalStatusTransitionError{From: from, To: to}
	}
	if privileged {
		return nil
	}
	if !from.CanTransitionTo(to) {
		return &IllegalStatusTransitionError{From: from, To: to}
	}
	return nil
}

type DiscoverySource string

const (
	DiscoveryFriends        DiscoverySource = "friends"
	DiscoveryInternet       DiscoverySource = "internet"
	DiscoveryAds            DiscoverySource = "ads"
	DiscoveryRepeatCustomer DiscoverySource = "repeat_customer"
	DiscoveryCatalog        DiscoverySource = "catalog"
	DiscoveryOther          DiscoverySource = "other"
)

func (d DiscoverySource) Valid() bool {
	switch d {
	case "", DiscoveryFriends, DiscoveryInternet, DiscoveryAds, DiscoveryRepeatCustomer, DiscoveryCatalog, DiscoveryOther:
		return true
	}
	return false
}

var AllowedDiscounts = []int{0, 10, 20}

func ValidDiscount(p int) bool {
	for _, d := range AllowedDiscounts {
		if d == p {
			return true
		}
	}
	return false
}

type RentalApplication struct {
	ID                int32           `json:"id"`
	ClientID          *int32          `json:"client_id,omitempty"`
	TransportID       *int32          `json:"transport_id,omitempty"`
	FullName          string          `json:"full_name"`
	PhoneNumber       string          `json:"phone_number"`
	PassportNumber    string          `json:"passport_number"`
	PassportIssuedBy  string          `json:"passport_issued_by"`
	PassportIssueDate *time.Time      `json:"passport_issue_date,omitempty"`
	HowDidYouFindUs   DiscoverySource `json:"how_did_you_find_us"`
	City              string          `json:"city"`
	StartDate         time.Time       `json:"rental_start_date"`
	EndDate           time.Time       `json:"rental_end_date"`
	Status            RentalStatus    `json:"status"`
	DiscountPercent   int             `json:"discount_percent"`
	SecurityDeposit   int64           `json:"security_deposit"`
	// OriginalTotalCost is captured once, on the first activation.
	OriginalTotalCost *int64          `json:"original_total_cost,omitempty"`
	CreatedBy         *int32          `json:"created_by,omitempty"`
	ActivatedAt       *time.Time      `json:"activated_at,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// IsOverdue reports whether an Active application's end date has fully
// elapsed, i.e. now is at or after the start of the day following the end
// date in loc.
func (a *RentalApplication) IsOverdue(now time.Time, loc *time.Location) bool {
	if a.Status != RentalStatusActive {
		return false
	}
	y, m, d := a.EndDate.Date()
	cutoff := time.Date(y, m, d+1, 0, 0, 0, 0, loc)
	return !now.Before(cutoff)
}

func (a *RentalApplication) DisplayStatus(now time.Time, loc *time.Location) RentalStatus {
	if a.IsOverdue(now, loc) {
		return RentalStatusOverdue
	}
	return a.Status
}

// Activate records the activation time and snapshots the total cost the
// first time the application becomes Active.
func (a *RentalApplication) Activate(now time.Time, totalCost int64) {
	a.Status = RentalStatusActive
	activated := now
	a.ActivatedAt = &activated
	if a.OriginalTotalCost == nil {
		cost := totalCost
		a.OriginalTotalCost = &cost
	}
}

func (a *RentalApplication) HasTransport() bool {
	return a.TransportID != nil && *a.TransportID != 0
}

type RentalFilter struct {
	Status      RentalStatus
	TransportID *int32
	ClientID    *int32
	From        *time.Time
	To          *time.Time
}
