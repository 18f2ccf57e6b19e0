package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/iliyamo/services-marketplace/internal/model"
	"github.com/iliyamo/services-marketplace/internal/queue"
	"github.com/iliyamo/services-marketplace/internal/repository"
)

// ChatService manages conversations and their polled message streams.
type ChatService struct {
	Profiles      *repository.ProfileRepo
	Services      *repository.ServiceRepo
	Conversations *repository.ConversationRepo
	Messages      *repository.MessageRepo
	Events        EventPublisher
	Log           *zap.Logger
}

// Open returns the conversation between the calling client and the
// provider of serviceID, creating it on first use.  created is true only
// when a row was inserted.
func (s *ChatService) Open(ctx context.Context, userID, serviceID uint64) (model.Conversation, bool, error) {
	clientID, err := requireClient(ctx, s.Profiles, userID)
	if err != nil {
		return model.Conversation{}, false, err
	}
	svc, err := s.Services.GetVisible(ctx, serviceID)
	if err != nil {
		return model.Conversation{}, false, notFound(err)
	}
	if own, err := s.Profiles.ProviderIDByUser(ctx, userID); err == nil && own == svc.ProviderID {
		return model.Conversation{}, false, ErrNotPermitted
	}
	return s.Conversations.FindOrCreate(ctx, clientID, svc.ProviderID, svc.ID)
}

// List returns the caller's conversations from both sides.
func (s *ChatService) List(ctx context.Context, userID uint64) ([]model.Conversation, error) {
	p, err := s.Profiles.Lookup(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p.ClientID == nil && p.ProviderID == nil {
		return nil, ErrRoleRequired
	}
	out := []model.Conversation{}
	if p.ClientID != nil {
		list, err := s.Conversations.ListForClient(ctx, *p.ClientID)
		if err != nil {
			return nil, err
		}
		out = append(out, list...)
	}
	if p.ProviderID != nil {
		list, err := s.Conversations.ListForProvider(ctx, *p.ProviderID)
		if err != nil {
			return nil, err
		}
		out = append(out, list...)
	}
	return out, nil
}

// History returns messages newer than afterID to a participant, oldest
// first.  Clients poll it with the last id they have seen.
func (s *ChatService) History(ctx context.Context, userID, conversationID, afterID uint64, limit int) ([]model.Message, error) {
	if _, err := s.participant(ctx, userID, conversationID); err != nil {
		return nil, err
	}
	return s.Messages.ListAfter(ctx, conversationID, afterID, limit)
}

// Send appends a message from a participant.
func (s *ChatService) Send(ctx context.Context, userID, conversationID uint64, content string) (model.Message, error) {
	if _, err := s.participant(ctx, userID, conversationID); err != nil {
		return model.Message{}, err
	}
	m, err := s.Messages.Create(ctx, conversationID, userID, content)
	if err != nil {
		return model.Message{}, err
	}
	emit(ctx, s.Events, nopIfNil(s.Log), queue.MessageSent, queue.MessagePayload{
		ConversationID: conversationID, MessageID: m.ID, SenderUserID: userID,
	})
	return m, nil
}

// participant loads a conversation and checks that the caller is its
// client or its provider.
func (s *ChatService) participant(ctx context.Context, userID, conversationID uint64) (model.Conversation, error) {
	p, err := s.Profiles.Lookup(ctx, userID)
	if err != nil {
		return model.Conversation{}, err
	}
	if p.ClientID == nil && p.ProviderID == nil {
		return model.Conversation{}, ErrRoleRequired
	}
	c, err := s.Conversations.GetByID(ctx, conversationID)
	if err != nil {
		return model.Conversation{}, notFound(err)
	}
	if (p.ClientID != nil && *p.ClientID == c.ClientID) || (p.ProviderID != nil && *p.ProviderID == c.ProviderID) {
		return c, nil
	}
	return model.Conversation{}, ErrNotPermitted
}
