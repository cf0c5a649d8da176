package authz

import (
	"testing"

	"github.com/agrolink/farm-exchange/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorize(t *testing.T) {
	farmer := &models.Profile{ID: uuid.New(), Role: models.RoleFarmer}
	otherFarmer := &models.Profile{ID: uuid.New(), Role: models.RoleFarmer}
	buyer := &models.Profile{ID: uuid.New(), Role: models.RoleBuyer}

	harvest := &models.Harvest{
		ID:                uuid.New(),
		OwnerID:           farmer.ID,
		Status:            models.HarvestAvailable,
		QuantityAvailable: decimal.RequireFromString("10"),
	}
	soldOut := &models.Harvest{
		ID:      uuid.New(),
		OwnerID: farmer.ID,
		Status:  models.HarvestSoldOut,
	}
	harvestID := harvest.ID
	transaction := &models.Transaction{
		ID:        uuid.New(),
		HarvestID: &harvestID,
		BuyerID:   buyer.ID,
		SellerID:  farmer.ID,
		Status:    models.TransactionPending,
	}
	completed := &models.Transaction{
		ID:       uuid.New(),
		BuyerID:  buyer.ID,
		SellerID: farmer.ID,
		Status:   models.TransactionCompleted,
	}
	message := &models.Message{
		ID:          uuid.New(),
		SenderID:    buyer.ID,
		RecipientID: farmer.ID,
	}

	tests := []struct {
		name     string
		caller   *models.Profile
		action   Action
		res      Resource
		wantCode string
	}{
		{"nil caller", nil, ActionListingCreate, Resource{}, CodeUnauthenticated},
		{"farmer creates listing", farmer, ActionListingCreate, Resource{}, ""},
		{"buyer cannot create listing", buyer, ActionListingCreate, Resource{}, CodeFarmerRoleRequired},
		{"owner edits listing", farmer, ActionListingEdit, Resource{Harvest: harvest}, ""},
		{"other farmer cannot edit", otherFarmer, ActionListingEdit, Resource{Harvest: harvest}, CodeNotOwner},
		{"buyer cannot delete", buyer, ActionListingDelete, Resource{Harvest: harvest}, CodeFarmerRoleRequired},
		{"owner deletes listing", farmer, ActionListingDelete, Resource{Harvest: harvest}, ""},
		{"buyer purchases in range", buyer, ActionPurchase, Resource{Harvest: harvest, Quantity: decimal.RequireFromString("10")}, ""},
		{"farmer cannot purchase", farmer, ActionPurchase, Resource{Harvest: harvest, Quantity: decimal.RequireFromString("1")}, CodeBuyerRoleRequired},
		{"purchase sold out", buyer, ActionPurchase, Resource{Harvest: soldOut, Quantity: decimal.RequireFromString("1")}, CodeListingUnavailable},
		{"purchase zero quantity", buyer, ActionPurchase, Resource{Harvest: harvest, Quantity: decimal.Zero}, CodeInvalidQuantity},
		{"purchase over available", buyer, ActionPurchase, Resource{Harvest: harvest, Quantity: decimal.RequireFromString("11")}, CodeInvalidQuantity},
		{"seller updates pending", farmer, ActionTransactionUpdate, Resource{Transaction: transaction}, ""},
		{"buyer cannot update status", buyer, ActionTransactionUpdate, Resource{Transaction: transaction}, CodeNotSeller},
		{"seller cannot touch terminal", farmer, ActionTransactionUpdate, Resource{Transaction: completed}, CodeNotPending},
		{"send to someone else", buyer, ActionMessageSend, Resource{Recipient: farmer}, ""},
		{"self message", buyer, ActionMessageSend, Resource{Recipient: buyer}, CodeSelfMessage},
		{"sender reads thread", buyer, ActionMessageRead, Resource{Message: message}, ""},
		{"recipient reads thread", farmer, ActionMessageRead, Resource{Message: message}, ""},
		{"outsider cannot read", otherFarmer, ActionMessageRead, Resource{Message: message}, CodeNotParticipant},
		{"recipient marks read", farmer, ActionMessageMarkRead, Resource{Message: message}, ""},
		{"sender cannot mark read", buyer, ActionMessageMarkRead, Resource{Message: message}, CodeNotRecipient},
		{"unknown action", buyer, Action("listing:promote"), Resource{}, CodeUnknownAction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.caller, tt.action, tt.res)
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			var denial *Denial
			require.ErrorAs(t, err, &denial)
			assert.Equal(t, tt.wantCode, denial.Code)
		})
	}
}
