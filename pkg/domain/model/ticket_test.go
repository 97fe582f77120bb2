package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/Anoopsmohan/monstor-tickets/pkg/domain/model"
	"github.com/Anoopsmohan/monstor-tickets/pkg/domain/types"
)

func newTicket() *model.Ticket {
	return &model.Ticket{
		ID:      types.NewTicketID(),
		Subject: "Printer on fire",
		Message: "Third floor printer is smoking",
		Status:  types.TicketStatusNew,
		Owner:   "alice",
	}
}

func TestTicket_Validate(t *testing.T) {
	gt.NoError(t, newTicket().Validate())

	tests := []struct {
		name   string
		mutate func(*model.Ticket)
	}{
		{"empty subject", func(tk *model.Ticket) { tk.Subject = "" }},
		{"empty message", func(tk *model.Ticket) { tk.Message = "" }},
		{"invalid status", func(tk *model.Ticket) { tk.Status = "done" }},
		{"missing owner", func(tk *model.Ticket) { tk.Owner = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tk := newTicket()
			tt.mutate(tk)
			gt.Error(t, tk.Validate())
		})
	}
}

func TestAssertOwnedBy(t *testing.T) {
	tk := newTicket()

	gt.NoError(t, model.AssertOwnedBy(tk, "alice"))
	gt.Error(t, model.AssertOwnedBy(tk, "bob")).Is(model.ErrTicketNotFound)
	gt.Error(t, model.AssertOwnedBy(tk, "")).Is(model.ErrTicketNotFound)
	gt.Error(t, model.AssertOwnedBy(nil, "alice")).Is(model.ErrTicketNotFound)
}

func TestTicket_AppendCommentKeepsStatus(t *testing.T) {
	tk := newTicket()
	tk.AppendComment(model.Comment{Author: "alice", Text: "any update?", Status: types.TicketStatusClosed})
	tk.AppendComment(model.Comment{Author: "alice", Text: "still broken", Status: types.TicketStatusProgress})

	gt.A(t, tk.Comments).Length(2)
	gt.S(t, tk.Comments[0].Text).Equal("any update?")
	gt.S(t, tk.Comments[1].Text).Equal("still broken")
	gt.V(t, tk.Status).Equal(types.TicketStatusNew)
}

func TestTicket_Clone(t *testing.T) {
	tk := newTicket()
	tk.AppendComment(model.Comment{Author: "alice", Text: "first", Status: types.TicketStatusNew})

	cloned := tk.Clone()
	cloned.Comments[0].Text = "changed"
	cloned.AppendComment(model.Comment{Author: "alice", Text: "second", Status: types.TicketStatusNew})

	gt.S(t, tk.Comments[0].Text).Equal("first")
	gt.A(t, tk.Comments).Length(1)
}

func TestComment_Validate(t *testing.T) {
	c := model.Comment{Author: "alice", Text: "hi", Status: types.TicketStatusNew}
	gt.NoError(t, c.Validate())

	c.Status = ""
	gt.Error(t, c.Validate())
}
