package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/travel-together/internal/apperror"
	"github.com/sakif/travel-together/internal/model"
	"github.com/sakif/travel-together/internal/repository"
)

// MessageService handles the per-trip chat log.
type MessageService struct {
	messages repository.MessageRepository
	logger   *slog.Logger
}

func NewMessageService(messages repository.MessageRepository, logger *slog.Logger) *MessageService {
	return &MessageService{messages: messages, logger: logger}
}

// List returns a trip's messages, oldest first, with sender names.
// An empty log is an empty, non-nil slice.
func (s *MessageService) List(ctx context.Context, tripID int64) ([]model.Message, error) {
	msgs, err := s.messages.ListMessages(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service/message: listing trip %d: %w", tripID, err)
	}
	if msgs == nil {
		msgs = []model.Message{}
	}
	return msgs, nil
}

// Post appends a message from senderID. Content is trimmed; if nothing is
// left, apperror.ErrEmptyContent is returned and nothing is written.
func (s *MessageService) Post(ctx context.Context, tripID, senderID int64, content string) (*model.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperror.ErrEmptyContent
	}

	msg := &model.Message{TripID: tripID, SenderID: senderID, Content: content}
	if err := s.messages.CreateMessage(ctx, msg); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		s.logger.Error("failed to post message",
			slog.Int64("tripID", tripID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("service/message: posting to trip %d: %w", tripID, err)
	}

	s.logger.Debug("message posted", slog.Int64("tripID", tripID), slog.Int64("messageID", msg.ID))
	return msg, nil
}
