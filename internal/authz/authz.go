// Package authz decides whether a caller may perform an action on a
// resource. Every mutating service path runs through Authorize before
// touching the store; the gate itself holds no state.
package authz

import (
	"github.com/agrolink/farm-exchange/internal/models"
	"github.com/shopspring/decimal"
)

type Action string

const (
	ActionListingCreate     Action = "listing:create"
	ActionListingEdit       Action = "listing:edit"
	ActionListingDelete     Action = "listing:delete"
	ActionPurchase          Action = "purchase"
	ActionTransactionUpdate Action = "transaction:update_status"
	ActionMessageSend       Action = "message:send"
	ActionMessageRead       Action = "message:read"
	ActionMessageMarkRead   Action = "message:mark_read"
)

// Denial codes are stable identifiers consumed by the request layer; the
// wording of Error() is not part of the contract.
const (
	CodeUnauthenticated    = "unauthenticated"
	CodeFarmerRoleRequired = "farmer_role_required"
	CodeBuyerRoleRequired  = "buyer_role_required"
	CodeNotOwner           = "not_owner"
	CodeNotSeller          = "not_seller"
	CodeNotPending         = "not_pending"
	CodeNotRecipient       = "not_recipient"
	CodeNotParticipant     = "not_participant"
	CodeSelfMessage        = "self_message"
	CodeListingUnavailable = "listing_unavailable"
	CodeInvalidQuantity    = "invalid_quantity"
	CodeUnknownAction      = "unknown_action"
)

type Denial struct {
	Code string
}

func (d *Denial) Error() string {
	return "authorization denied: " + d.Code
}

func deny(code string) error {
	return &Denial{Code: code}
}

// Resource carries the entities an action is judged against. Only the
// fields relevant to the action need to be set.
type Resource struct {
	Harvest     *models.Harvest
	Transaction *models.Transaction
	Message     *models.Message
	Recipient   *models.Profile
	Quantity    decimal.Decimal
}

// Authorize returns nil when the caller may perform the action, or a
// *Denial with a stable reason code. Rules are evaluated in order; the
// first failing check wins.
func Authorize(caller *models.Profile, action Action, res Resource) error {
	if caller == nil {
		return deny(CodeUnauthenticated)
	}

	switch action {
	case ActionListingCreate:
		if caller.Role != models.RoleFarmer {
			return deny(CodeFarmerRoleRequired)
		}
		return nil

	case ActionListingEdit, ActionListingDelete:
		if caller.Role != models.RoleFarmer {
			return deny(CodeFarmerRoleRequired)
		}
		if res.Harvest == nil || res.Harvest.OwnerID != caller.ID {
			return deny(CodeNotOwner)
		}
		return nil

	case ActionPurchase:
		if caller.Role != models.RoleBuyer {
			return deny(CodeBuyerRoleRequired)
		}
		if res.Harvest == nil || res.Harvest.Status != models.HarvestAvailable {
			return deny(CodeListingUnavailable)
		}
		if res.Quantity.Sign() <= 0 || res.Quantity.GreaterThan(res.Harvest.QuantityAvailable) {
			return deny(CodeInvalidQuantity)
		}
		return nil

	case ActionTransactionUpdate:
		if res.Transaction == nil || res.Transaction.SellerID != caller.ID {
			return deny(CodeNotSeller)
		}
		if res.Transaction.Status != models.TransactionPending {
			return deny(CodeNotPending)
		}
		return nil

	case ActionMessageSend:
		if res.Recipient == nil {
			return deny(CodeNotParticipant)
		}
		if res.Recipient.ID == caller.ID {
			return deny(CodeSelfMessage)
		}
		return nil

	case ActionMessageRead:
		if res.Message == nil ||
			(res.Message.SenderID != caller.ID && res.Message.RecipientID != caller.ID) {
			return deny(CodeNotParticipant)
		}
		return nil

	case ActionMessageMarkRead:
		if res.Message == nil || res.Message.RecipientID != caller.ID {
			return deny(CodeNotRecipient)
		}
		return nil
	}

	return deny(CodeUnknownAction)
}
