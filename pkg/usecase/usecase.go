package usecase

import (
	"github.com/Anoopsmohan/monstor-tickets/pkg/domain/interfaces"
	"github.com/Anoopsmohan/monstor-tickets/pkg/domain/model/view"
)

type UseCases struct {
	repo   interfaces.Repository
	labels view.StatusLabels
	Ticket *TicketUseCase
	Auth   AuthUseCaseInterface
}

type Option func(*UseCases)

// WithStatusLabels overrides the display names of ticket statuses
func WithStatusLabels(labels view.StatusLabels) Option {
	return func(uc *UseCases) {
		uc.labels = labels
	}
}

func WithAuth(auth AuthUseCaseInterface) Option {
	return func(uc *UseCases) {
		uc.Auth = auth
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo: repo,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Ticket = NewTicketUseCase(repo, uc.labels)

	return uc
}
