package domain

import "fmt"

// StateMachine lists the allowed edges of one status enum.
type StateMachine struct {
	name  string
	edges map[string][]string
}

func (m StateMachine) Valid(state string) bool {
	if _, ok := m.edges[state]; ok {
		return true
	}
	for _, targets := range m.edges {
		for _, t := range targets {
			if t == state {
				return true
			}
		}
	}
	return false
}

func (m StateMachine) Can(from, to string) bool {
	for _, t := range m.edges[from] {
		if t == to {
			return true
		}
	}
	return false
}

// Transition returns ErrValidation for unknown states and ErrInvalidTransition
// for known states that are not connected.
func (m StateMachine) Transition(from, to string) error {
	if !m.Valid(to) {
		return fmt.Errorf("%w: unknown %s status %q", ErrValidation, m.name, to)
	}
	if !m.Can(from, to) {
		return fmt.Errorf("%w: %s cannot move from %s to %s", ErrInvalidTransition, m.name, from, to)
	}
	return nil
}

var InstallationFlow = StateMachine{
	name: "installation",
	edges: map[string][]string{
		InstallationPending:    {InstallationScheduled, InstallationCancelled},
		InstallationScheduled:  {InstallationScheduled, InstallationInProgress, InstallationCancelled},
		InstallationInProgress: {InstallationCompleted, InstallationCancelled},
		InstallationCompleted:  {},
		InstallationCancelled:  {},
	},
}

var TicketFlow = StateMachine{
	name: "ticket",
	edges: map[string][]string{
		TicketNew:        {TicketInProgress},
		TicketInProgress: {TicketInProgress, TicketResolved},
		TicketResolved:   {TicketClosed},
		TicketClosed:     {},
	},
}

var JobFlow = StateMachine{
	name: "job",
	edges: map[string][]string{
		JobScheduled:  {JobInProgress, JobCancelled},
		JobInProgress: {JobCompleted, JobCancelled},
		JobCompleted:  {},
		JobCancelled:  {},
	},
}

// BillFlow: overdue is an operator label and never set by a timer.
var BillFlow = StateMachine{
	name: "bill",
	edges: map[string][]string{
		BillUnpaid:    {BillPending, BillOverdue, BillCancelled},
		BillOverdue:   {BillPending, BillCancelled},
		BillPending:   {BillPaid, BillUnpaid, BillCancelled},
		BillPaid:      {},
		BillCancelled: {},
	},
}

var SubscriptionFlow = StateMachine{
	name: "subscription",
	edges: map[string][]string{
		SubscriptionActive:    {SubscriptionSuspended, SubscriptionCancelled},
		SubscriptionSuspended: {SubscriptionActive, SubscriptionCancelled},
		SubscriptionCancelled: {},
	},
}

func IsValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

func IsValidJobType(t string) bool {
	switch t {
	case JobTypeInstallation, JobTypeSupport, JobTypeMaintenance:
		return true
	}
	return false
}

func IsValidNotificationType(t string) bool {
	switch t {
	case NotificationAnnouncement, NotificationMaintenance, NotificationOutage,
		NotificationBilling, NotificationSupport, NotificationInstallation:
		return true
	}
	return false
}
