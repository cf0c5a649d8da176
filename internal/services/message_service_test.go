package services

import (
	"context"
	"testing"
	"time"

	"github.com/agrolink/farm-exchange/internal/authz"
	"github.com/agrolink/farm-exchange/internal/database"
	"github.com/agrolink/farm-exchange/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMessageTest(t *testing.T) (*repository.ProfileRepository, *repository.HarvestRepository, *MessageService) {
	db, err := database.Connect(":memory:")
	require.NoError(t, err)

	err = database.Migrate(db)
	require.NoError(t, err)

	profileRepo := repository.NewProfileRepository(db)
	harvestRepo := repository.NewHarvestRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	messageService := NewMessageService(messageRepo, profileRepo, harvestRepo)

	return profileRepo, harvestRepo, messageService
}

func TestMessageService_Send(t *testing.T) {
	profileRepo, _, messageService := setupMessageTest(t)
	farmer := createFarmer(t, profileRepo, "farmer@example.com")
	buyer := createBuyer(t, profileRepo, "buyer@example.com")

	message, err := messageService.Send(context.Background(), buyer.ID, farmer.ID, "Carrots", "Still available?", nil)
	assert.NoError(t, err)
	assert.Equal(t, buyer.ID, message.SenderID)
	assert.Equal(t, farmer.ID, message.RecipientID)
	assert.False(t, message.IsRead)
}

func TestMessageService_Send_SelfDenied(t *testing.T) {
	profileRepo, _, messageService := setupMessageTest(t)
	buyer := createBuyer(t, profileRepo, "buyer@example.com")

	_, err := messageService.Send(context.Background(), buyer.ID, buyer.ID, "hi", "me again", nil)
	var denial *authz.Denial
	require.ErrorAs(t, err, &denial)
	assert.Equal(t, authz.CodeSelfMessage, denial.Code)
}

func TestMessageService_Send_UnknownRecipient(t *testing.T) {
	profileRepo, _, messageService := setupMessageTest(t)
	buyer := createBuyer(t, profileRepo, "buyer@example.com")

	_, err := messageService.Send(context.Background(), buyer.ID, uuid.New(), "hi", "anyone there?", nil)
	assert.ErrorIs(t, err, ErrRecipientNotFound)
}

func TestMessageService_Send_AttachedHarvestMustExist(t *testing.T) {
	profileRepo, _, messageService := setupMessageTest(t)
	farmer := createFarmer(t, profileRepo, "farmer@example.com")
	buyer := createBuyer(t, profileRepo, "buyer@example.com")

	missing := uuid.New()
	_, err := messageService.Send(context.Background(), buyer.ID, farmer.ID, "Carrots", "about this one", &missing)
	assert.ErrorIs(t, err, ErrHarvestNotFound)
}

func TestMessageService_Reply(t *testing.T) {
	profileRepo, _, messageService := setupMessageTest(t)
	farmer := createFarmer(t, profileRepo, "farmer@example.com")
	buyer := createBuyer(t, profileRepo, "buyer@example.com")

	original, err := messageService.Send(context.Background(), buyer.ID, farmer.ID, "Carrots", "Still available?", nil)
	require.NoError(t, err)

	reply, err := messageService.Reply(context.Background(), original.ID, farmer.ID, "Yes, plenty left.")
	assert.NoError(t, err)
	assert.Equal(t, farmer.ID, reply.SenderID)
	assert.Equal(t, buyer.ID, reply.RecipientID)
	assert.Equal(t, "Re: Carrots", reply.Subject)

	// Replying to a reply keeps a single prefix.
	replyToReply, err := messageService.Reply(context.Background(), reply.ID, buyer.ID, "Great, I'll take some.")
	assert.NoError(t, err)
	assert.Equal(t, "Re: Carrots", replyToReply.Subject)
	assert.Equal(t, farmer.ID, replyToReply.RecipientID)
}

func TestMessageService_Reply_OutsiderDenied(t *testing.T) {
	profileRepo, _, messageService := setupMessageTest(t)
	farmer := createFarmer(t, profileRepo, "farmer@example.com")
	buyer := createBuyer(t, profileRepo, "buyer@example.com")
	stranger := createBuyer(t, profileRepo, "stranger@example.com")

	original, err := messageService.Send(context.Background(), buyer.ID, farmer.ID, "Carrots", "Still available?", nil)
	require.NoError(t, err)

	_, err = messageService.Reply(context.Background(), original.ID, stranger.ID, "let me in")
	var denial *authz.Denial
	require.ErrorAs(t, err, &denial)
	assert.Equal(t, authz.CodeNotParticipant, denial.Code)
}

func TestMessageService_MarkRead(t *testing.T) {
	profileRepo, _, messageService := setupMessageTest(t)
	farmer := createFarmer(t, profileRepo, "farmer@example.com")
	buyer := createBuyer(t, profileRepo, "buyer@example.com")

	message, err := messageService.Send(context.Background(), buyer.ID, farmer.ID, "Carrots", "Still available?", nil)
	require.NoError(t, err)

	// Only the recipient may mark; the sender is denied.
	_, err = messageService.MarkRead(context.Background(), message.ID, buyer.ID)
	var denial *authz.Denial
	require.ErrorAs(t, err, &denial)
	assert.Equal(t, authz.CodeNotRecipient, denial.Code)

	marked, err := messageService.MarkRead(context.Background(), message.ID, farmer.ID)
	assert.NoError(t, err)
	assert.True(t, marked.IsRead)

	// Idempotent on repeat.
	again, err := messageService.MarkRead(context.Background(), message.ID, farmer.ID)
	assert.NoError(t, err)
	assert.True(t, again.IsRead)
}

func TestMessageService_UnreadCount(t *testing.T) {
	profileRepo, _, messageService := setupMessageTest(t)
	farmer := createFarmer(t, profileRepo, "farmer@example.com")
	buyer := createBuyer(t, profileRepo, "buyer@example.com")

	first, err := messageService.Send(context.Background(), buyer.ID, farmer.ID, "Carrots", "Still available?", nil)
	require.NoError(t, err)
	_, err = messageService.Send(context.Background(), buyer.ID, farmer.ID, "Potatoes", "And these?", nil)
	require.NoError(t, err)

	count, err := messageService.UnreadCount(context.Background(), farmer.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// Sent messages never count against the sender.
	count, err = messageService.UnreadCount(context.Background(), buyer.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), count)

	_, err = messageService.MarkRead(context.Background(), first.ID, farmer.ID)
	require.NoError(t, err)

	count, err = messageService.UnreadCount(context.Background(), farmer.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestMessageService_Inbox(t *testing.T) {
	profileRepo, _, messageService := setupMessageTest(t)
	farmer := createFarmer(t, profileRepo, "farmer@example.com")
	buyer := createBuyer(t, profileRepo, "buyer@example.com")
	stranger := createBuyer(t, profileRepo, "stranger@example.com")

	// Sends are spaced out so created_at ordering is unambiguous.
	_, err := messageService.Send(context.Background(), buyer.ID, farmer.ID, "Carrots", "Still available?", nil)
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	_, err = messageService.Send(context.Background(), farmer.ID, buyer.ID, "Re: Carrots", "Yes.", nil)
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	_, err = messageService.Send(context.Background(), stranger.ID, farmer.ID, "Hello", "Unrelated.", nil)
	require.NoError(t, err)

	// Both sides of a thread land in each participant's inbox.
	inbox, err := messageService.Inbox(context.Background(), buyer.ID)
	assert.NoError(t, err)
	assert.Len(t, inbox, 2)

	inbox, err = messageService.Inbox(context.Background(), farmer.ID)
	assert.NoError(t, err)
	require.Len(t, inbox, 3)

	// Newest first.
	assert.Equal(t, "Hello", inbox[0].Subject)
	assert.Equal(t, "Re: Carrots", inbox[1].Subject)
	assert.Equal(t, "Carrots", inbox[2].Subject)
	assert.True(t, inbox[0].CreatedAt.After(inbox[1].CreatedAt))
	assert.True(t, inbox[1].CreatedAt.After(inbox[2].CreatedAt))

	inbox, err = messageService.Inbox(context.Background(), stranger.ID)
	assert.NoError(t, err)
	assert.Len(t, inbox, 1)
}

func TestMessageService_Get_ParticipantsOnly(t *testing.T) {
	profileRepo, _, messageService := setupMessageTest(t)
	farmer := createFarmer(t, profileRepo, "farmer@example.com")
	buyer := createBuyer(t, profileRepo, "buyer@example.com")
	stranger := createBuyer(t, profileRepo, "stranger@example.com")

	message, err := messageService.Send(context.Background(), buyer.ID, farmer.ID, "Carrots", "Still available?", nil)
	require.NoError(t, err)

	got, err := messageService.Get(context.Background(), message.ID, buyer.ID)
	assert.NoError(t, err)
	assert.Equal(t, message.ID, got.ID)

	_, err = messageService.Get(context.Background(), message.ID, stranger.ID)
	var denial *authz.Denial
	require.ErrorAs(t, err, &denial)
	assert.Equal(t, authz.CodeNotParticipant, denial.Code)
}
