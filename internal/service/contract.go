package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/iliyamo/services-marketplace/internal/model"
	"github.com/iliyamo/services-marketplace/internal/queue"
	"github.com/iliyamo/services-marketplace/internal/repository"
)

// ContractService offers, lists and transitions contracts.
//
// Every transition resolves the caller's role profile first, then checks
// that the contract belongs to it, then checks the current status, in that
// order.  A rejected request never changes the status.
type ContractService struct {
	Profiles  *repository.ProfileRepo
	Services  *repository.ServiceRepo
	Contracts *repository.ContractRepo
	Events    EventPublisher
	Log       *zap.Logger
}

// Offer creates a pending contract from the calling client for a visible
// service.  The price is frozen at hourly price times hours.
func (s *ContractService) Offer(ctx context.Context, userID, serviceID uint64, hours int) (model.Contract, error) {
	clientID, err := requireClient(ctx, s.Profiles, userID)
	if err != nil {
		return model.Contract{}, err
	}
	svc, err := s.Services.GetVisible(ctx, serviceID)
	if err != nil {
		return model.Contract{}, notFound(err)
	}
	if own, err := s.Profiles.ProviderIDByUser(ctx, userID); err == nil && own == svc.ProviderID {
		return model.Contract{}, ErrNotPermitted
	}

	id, err := s.Contracts.Create(ctx, clientID, svc.ID, hours, model.ContractPrice(svc.HourlyPrice, hours))
	if err != nil {
		return model.Contract{}, err
	}
	k, err := s.Contracts.GetByID(ctx, id)
	if err != nil {
		return model.Contract{}, err
	}
	s.emit(ctx, queue.ContractOffered, k)
	return k, nil
}

// List returns the caller's contracts as client and as provider.
func (s *ContractService) List(ctx context.Context, userID uint64) (asClient, asProvider []model.Contract, err error) {
	p, err := s.Profiles.Lookup(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if p.ClientID == nil && p.ProviderID == nil {
		return nil, nil, ErrRoleRequired
	}
	asClient, asProvider = []model.Contract{}, []model.Contract{}
	if p.ClientID != nil {
		if asClient, err = s.Contracts.ListForClient(ctx, *p.ClientID); err != nil {
			return nil, nil, err
		}
	}
	if p.ProviderID != nil {
		if asProvider, err = s.Contracts.ListForProvider(ctx, *p.ProviderID); err != nil {
			return nil, nil, err
		}
	}
	return asClient, asProvider, nil
}

// Get returns a contract to one of its two parties.
func (s *ContractService) Get(ctx context.Context, userID, id uint64) (model.Contract, error) {
	p, err := s.Profiles.Lookup(ctx, userID)
	if err != nil {
		return model.Contract{}, err
	}
	if p.ClientID == nil && p.ProviderID == nil {
		return model.Contract{}, ErrRoleRequired
	}
	k, err := s.Contracts.GetByID(ctx, id)
	if err != nil {
		return model.Contract{}, notFound(err)
	}
	if (p.ClientID != nil && *p.ClientID == k.ClientID) || (p.ProviderID != nil && *p.ProviderID == k.ProviderID) {
		return k, nil
	}
	return model.Contract{}, ErrNotPermitted
}

// Respond accepts or denies a pending contract on behalf of the provider
// that owns its service.
func (s *ContractService) Respond(ctx context.Context, userID, id uint64, accept bool) (model.Contract, error) {
	// 1. the caller needs a provider profile at all
	providerID, err := requireProvider(ctx, s.Profiles, userID)
	if err != nil {
		return model.Contract{}, err
	}
	// 2. the contract's service must belong to that profile
	k, err := s.Contracts.GetByID(ctx, id)
	if err != nil {
		return model.Contract{}, notFound(err)
	}
	if k.ProviderID != providerID {
		return model.Contract{}, ErrNotPermitted
	}
	// 3. only a pending contract can be answered
	if k.Status != model.ContractPending {
		return model.Contract{}, ErrAlreadyResponded
	}

	to := model.ContractDenied
	if accept {
		to = model.ContractAccepted
	}
	ok, err := s.Contracts.Transition(ctx, id, model.ContractPending, to)
	if err != nil {
		return model.Contract{}, err
	}
	if !ok {
		// another response won the race
		return model.Contract{}, ErrAlreadyResponded
	}
	if k, err = s.Contracts.GetByID(ctx, id); err != nil {
		return model.Contract{}, err
	}
	s.emit(ctx, queue.ContractResponded, k)
	return k, nil
}

// Complete marks an accepted contract as completed on behalf of the client
// that offered it.
func (s *ContractService) Complete(ctx context.Context, userID, id uint64) (model.Contract, error) {
	clientID, err := requireClient(ctx, s.Profiles, userID)
	if err != nil {
		return model.Contract{}, err
	}
	k, err := s.Contracts.GetByID(ctx, id)
	if err != nil {
		return model.Contract{}, notFound(err)
	}
	if k.ClientID != clientID {
		return model.Contract{}, ErrNotPermitted
	}
	if k.Status != model.ContractAccepted {
		return model.Contract{}, ErrContractNotActive
	}
	ok, err := s.Contracts.Transition(ctx, id, model.ContractAccepted, model.ContractCompleted)
	if err != nil {
		return model.Contract{}, err
	}
	if !ok {
		return model.Contract{}, ErrContractNotActive
	}
	if k, err = s.Contracts.GetByID(ctx, id); err != nil {
		return model.Contract{}, err
	}
	s.emit(ctx, queue.ContractCompleted, k)
	return k, nil
}

func (s *ContractService) emit(ctx context.Context, typ string, k model.Contract) {
	emit(ctx, s.Events, nopIfNil(s.Log), typ, queue.ContractPayload{
		ContractID: k.ID,
		ClientID:   k.ClientID,
		ProviderID: k.ProviderID,
		ServiceID:  k.ServiceID,
		Hours:      k.Hours,
		Price:      k.Price,
		Status:     string(k.Status),
	})
}
