package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/Anoopsmohan/monstor-tickets/pkg/domain/types"
)

func TestTicketStatus_IsValid(t *testing.T) {
	tests := []struct {
		name   string
		status types.TicketStatus
		want   bool
	}{
		{name: "new", status: types.TicketStatusNew, want: true},
		{name: "progress", status: types.TicketStatusProgress, want: true},
		{name: "closed", status: types.TicketStatusClosed, want: true},
		{name: "upper case is invalid", status: types.TicketStatus("NEW"), want: false},
		{name: "unknown", status: types.TicketStatus("resolved"), want: false},
		{name: "empty", status: types.TicketStatus(""), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.want {
				gt.B(t, tt.status.IsValid()).True()
			} else {
				gt.B(t, tt.status.IsValid()).False()
			}
		})
	}
}

func TestParseTicketStatus(t *testing.T) {
	got, err := types.ParseTicketStatus("progress")
	gt.NoError(t, err).Required()
	gt.V(t, got).Equal(types.TicketStatusProgress)

	_, err = types.ParseTicketStatus("")
	gt.Error(t, err)

	_, err = types.ParseTicketStatus("open")
	gt.Error(t, err)
}

func TestTicketStatus_Normalize(t *testing.T) {
	gt.V(t, types.TicketStatus("").Normalize()).Equal(types.TicketStatusNew)
	gt.V(t, types.TicketStatusClosed.Normalize()).Equal(types.TicketStatusClosed)
}

func TestAllTicketStatuses(t *testing.T) {
	statuses := types.AllTicketStatuses()
	gt.A(t, statuses).Length(3)
	for _, s := range statuses {
		gt.B(t, s.IsValid()).Describef("status %s should be valid", s).True()
	}
	gt.S(t, types.TicketStatusProgress.Label()).Equal("Progress")
}
