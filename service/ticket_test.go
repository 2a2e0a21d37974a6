package service

import (
	"context"
	"errors"
	"sekarnet/domain"
	"sekarnet/repository"
	"testing"
)

func TestTicketFlow(t *testing.T) {
	w := newWorld(t)
	svc := NewTicketService(repository.NewTicketRepository(w.db), w.users())
	ctx := context.Background()

	if _, err := svc.Create(ctx, actorOf(w.customer), &domain.SupportTicket{UserID: w.other.ID, Subject: "s", Description: "d"}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	ticket, err := svc.Create(ctx, actorOf(w.customer), &domain.SupportTicket{Subject: "Internet lambat", Description: "Sejak pagi"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if ticket.Priority != domain.PriorityMedium || ticket.Status != domain.TicketNew {
		t.Fatalf("unexpected defaults %+v", ticket)
	}

	if _, err := svc.Update(ctx, actorOf(w.customer), ticket.ID, domain.TicketUpdate{Status: ptr(domain.TicketClosed)}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("customers cannot change status, got %v", err)
	}
	edited, err := svc.Update(ctx, actorOf(w.customer), ticket.ID, domain.TicketUpdate{Subject: ptr("Internet mati")})
	if err != nil || edited.Subject != "Internet mati" {
		t.Fatalf("customer edit: %+v %v", edited, err)
	}

	assigned, job, err := svc.Assign(ctx, actorOf(w.admin), ticket.ID, w.tech.ID)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if assigned.Status != domain.TicketInProgress || job.TicketID == nil || *job.TicketID != ticket.ID {
		t.Fatalf("unexpected assign result %+v %+v", assigned, job)
	}

	responded, err := svc.Update(ctx, actorOf(w.tech), ticket.ID, domain.TicketUpdate{Response: ptr("Sedang dicek")})
	if err != nil {
		t.Fatalf("respond: %v", err)
	}
	if responded.Response == nil || responded.RespondedAt == nil {
		t.Fatalf("response not recorded: %+v", responded)
	}
	if n := w.count(t, &domain.OutboxMessage{}, "template = ?", "supportTicketUpdate"); n != 1 {
		t.Fatalf("expected one ticket update email, got %d", n)
	}

	if _, err := svc.Get(ctx, actorOf(w.other), ticket.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	resolved, err := svc.Update(ctx, actorOf(w.tech), ticket.ID, domain.TicketUpdate{Status: ptr(domain.TicketResolved)})
	if err != nil || resolved.Status != domain.TicketResolved {
		t.Fatalf("resolve: %+v %v", resolved, err)
	}
	if _, err := svc.Update(ctx, actorOf(w.admin), ticket.ID, domain.TicketUpdate{Status: ptr(domain.TicketNew)}); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}
