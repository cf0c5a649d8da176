package services

import (
	"context"
	"errors"
	"strings"

	"github.com/agrolink/farm-exchange/internal/authz"
	"github.com/agrolink/farm-exchange/internal/models"
	"github.com/agrolink/farm-exchange/internal/repository"
	"github.com/google/uuid"
)

var (
	ErrMessageNotFound   = errors.New("message not found")
	ErrRecipientNotFound = errors.New("recipient not found")
)

const replyPrefix = "Re: "

type MessageService struct {
	messageRepo *repository.MessageRepository
	profileRepo *repository.ProfileRepository
	harvestRepo *repository.HarvestRepository
}

func NewMessageService(
	messageRepo *repository.MessageRepository,
	profileRepo *repository.ProfileRepository,
	harvestRepo *repository.HarvestRepository,
) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		profileRepo: profileRepo,
		harvestRepo: harvestRepo,
	}
}

func (s *MessageService) Send(ctx context.Context, senderID, recipientID uuid.UUID, subject, body string, harvestID *uuid.UUID) (*models.Message, error) {
	sender, err := s.profileRepo.FindByID(senderID)
	if err != nil {
		return nil, err
	}
	if sender == nil {
		return nil, ErrProfileNotFound
	}

	recipient, err := s.profileRepo.FindByID(recipientID)
	if err != nil {
		return nil, err
	}
	if recipient == nil {
		return nil, ErrRecipientNotFound
	}

	if err := authz.Authorize(sender, authz.ActionMessageSend, authz.Resource{Recipient: recipient}); err != nil {
		return nil, err
	}

	if harvestID != nil {
		harvest, err := s.harvestRepo.FindByID(*harvestID)
		if err != nil {
			return nil, err
		}
		if harvest == nil {
			return nil, ErrHarvestNotFound
		}
	}

	message := &models.Message{
		SenderID:    senderID,
		RecipientID: recipientID,
		HarvestID:   harvestID,
		Subject:     subject,
		Body:        body,
		IsRead:      false,
	}

	if err := s.messageRepo.Create(message); err != nil {
		return nil, err
	}
	return message, nil
}

// Reply sends a message back to whichever party of the original is not the
// replier. The subject gets a single "Re: " prefix; replying to a reply
// does not stack prefixes.
func (s *MessageService) Reply(ctx context.Context, originalID, senderID uuid.UUID, body string) (*models.Message, error) {
	original, err := s.messageRepo.FindByID(originalID)
	if err != nil {
		return nil, err
	}
	if original == nil {
		return nil, ErrMessageNotFound
	}

	sender, err := s.profileRepo.FindByID(senderID)
	if err != nil {
		return nil, err
	}
	if sender == nil {
		return nil, ErrProfileNotFound
	}

	if err := authz.Authorize(sender, authz.ActionMessageRead, authz.Resource{Message: original}); err != nil {
		return nil, err
	}

	recipientID := original.SenderID
	if original.SenderID == senderID {
		recipientID = original.RecipientID
	}

	subject := original.Subject
	if !strings.HasPrefix(subject, replyPrefix) {
		subject = replyPrefix + subject
	}

	return s.Send(ctx, senderID, recipientID, subject, body, original.HarvestID)
}

// MarkRead flips is_read for the recipient. The transition is one-way and
// idempotent: marking an already-read message succeeds without change.
func (s *MessageService) MarkRead(ctx context.Context, messageID, callerID uuid.UUID) (*models.Message, error) {
	message, err := s.messageRepo.FindByID(messageID)
	if err != nil {
		return nil, err
	}
	if message == nil {
		return nil, ErrMessageNotFound
	}

	caller, err := s.profileRepo.FindByID(callerID)
	if err != nil {
		return nil, err
	}
	if caller == nil {
		return nil, ErrProfileNotFound
	}

	if err := authz.Authorize(caller, authz.ActionMessageMarkRead, authz.Resource{Message: message}); err != nil {
		return nil, err
	}

	if message.IsRead {
		return message, nil
	}

	message.IsRead = true
	if err := s.messageRepo.Update(message); err != nil {
		return nil, err
	}
	return message, nil
}

func (s *MessageService) Get(ctx context.Context, messageID, callerID uuid.UUID) (*models.Message, error) {
	message, err := s.messageRepo.FindByID(messageID)
	if err != nil {
		return nil, err
	}
	if message == nil {
		return nil, ErrMessageNotFound
	}

	caller, err := s.profileRepo.FindByID(callerID)
	if err != nil {
		return nil, err
	}
	if caller == nil {
		return nil, ErrProfileNotFound
	}

	if err := authz.Authorize(caller, authz.ActionMessageRead, authz.Resource{Message: message}); err != nil {
		return nil, err
	}
	return message, nil
}

func (s *MessageService) UnreadCount(ctx context.Context, profileID uuid.UUID) (int64, error) {
	return s.messageRepo.CountUnread(profileID)
}

// Inbox returns all messages the profile sent or received, newest first.
func (s *MessageService) Inbox(ctx context.Context, profileID uuid.UUID) ([]models.Message, error) {
	profile, err := s.profileRepo.FindByID(profileID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	return s.messageRepo.FindByProfile(profileID)
}
