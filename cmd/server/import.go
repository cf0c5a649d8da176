package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/agrolink/farm-exchange/internal/config"
	"github.com/agrolink/farm-exchange/internal/database"
	"github.com/agrolink/farm-exchange/internal/models"
	"github.com/agrolink/farm-exchange/internal/repository"
	"github.com/agrolink/farm-exchange/internal/services"
)

type ProfileImport struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Location string `json:"location"`
	Phone    string `json:"phone"`
}

type HarvestImport struct {
	OwnerEmail  string          `json:"owner_email"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Unit        string          `json:"unit"`
	Quantity    decimal.Decimal `json:"quantity"`
}

type SeedImport struct {
	Profiles []ProfileImport `json:"profiles"`
	Harvests []HarvestImport `json:"harvests"`
}

var (
	importFile  string
	skipInvalid bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import profiles and harvest listings from a JSON file",
	Long: `Import marketplace seed data from a JSON file.

Expected JSON format:
{
  "profiles": [
    {"full_name": "Ana Reyes", "email": "ana@example.com", "role": "farmer", "location": "Laguna"}
  ],
  "harvests": [
    {"owner_email": "ana@example.com", "title": "Red Rice", "category": "grains",
     "price": "85.00", "unit": "kg", "quantity": "120"}
  ]
}

By default invalid records are skipped with a warning.`,
	Example: `  farm-exchange import -f seed.json
  farm-exchange import --file seed.json --skip-invalid=false`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runImport(); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	importCmd.Flags().StringVarP(&importFile, "file", "f", "", "JSON file to import (required)")
	importCmd.Flags().BoolVar(&skipInvalid, "skip-invalid", true, "Skip invalid records instead of failing")
	importCmd.MarkFlagRequired("file")
}

func runImport() error {
	data, err := os.ReadFile(importFile)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var seed SeedImport
	if err := json.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := database.Connect(cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	profileRepo := repository.NewProfileRepository(db)
	harvestRepo := repository.NewHarvestRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	profileService := services.NewProfileService(profileRepo)
	listingService := services.NewListingService(harvestRepo, profileRepo, transactionRepo, messageRepo, db, cfg.ReserveTimeout)

	ctx := context.Background()
	start := time.Now()
	imported, skipped := 0, 0

	for _, p := range seed.Profiles {
		_, err := profileService.CreateProfile(ctx, services.ProfileInput{
			FullName: p.FullName,
			Email:    p.Email,
			Role:     models.Role(p.Role),
			Location: p.Location,
			Phone:    p.Phone,
		})
		if err != nil {
			if !skipInvalid {
				return fmt.Errorf("profile %q: %w", p.Email, err)
			}
			log.Printf("skipping profile %q: %v", p.Email, err)
			skipped++
			continue
		}
		imported++
	}

	for _, h := range seed.Harvests {
		owner, err := profileRepo.FindByEmail(h.OwnerEmail)
		if err != nil {
			return err
		}
		if owner == nil {
			if !skipInvalid {
				return fmt.Errorf("harvest %q: owner %q not found", h.Title, h.OwnerEmail)
			}
			log.Printf("skipping harvest %q: owner %q not found", h.Title, h.OwnerEmail)
			skipped++
			continue
		}

		_, err = listingService.CreateListing(ctx, owner.ID, services.ListingInput{
			Title:       h.Title,
			Description: h.Description,
			Category:    h.Category,
			Price:       h.Price,
			Unit:        h.Unit,
			Quantity:    h.Quantity,
		})
		if err != nil {
			if !skipInvalid {
				return fmt.Errorf("harvest %q: %w", h.Title, err)
			}
			log.Printf("skipping harvest %q: %v", h.Title, err)
			skipped++
			continue
		}
		imported++
	}

	log.Printf("Import finished in %s: %d imported, %d skipped", time.Since(start).Round(time.Millisecond), imported, skipped)
	return nil
}
