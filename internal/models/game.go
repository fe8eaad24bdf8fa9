package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// GameDefinition is a catalog entry for a supported game. Games are never
// hard-deleted: deactivation flips IsActive and keeps realms and wallet
// history intact. Slug is unique (exact match) and treated as immutable by
// convention; editing it goes through the same uniqueness re-check as create.
type GameDefinition struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Icon      string    `json:"icon,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedBy uuid.UUID `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GameRealm is a server/world instance within a game; the scoping unit for
// gold wallets. RealmName is unique per game, case-insensitive. GameID is
// immutable after creation.
type GameRealm struct {
	ID          uuid.UUID `json:"id"`
	GameID      uuid.UUID `json:"game_id"`
	GameName    string    `json:"game_name"`
	RealmName   string    `json:"realm_name"`
	DisplayName string    `json:"display_name"`
	StatusURL   *string   `json:"status_url,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedBy   uuid.UUID `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RealmDisplayName derives the wallet-facing label from a realm name.
// Must be re-derived whenever the realm is renamed.
func RealmDisplayName(realmName string) string {
	return fmt.Sprintf("%s Gold", realmName)
}

// RealmStatusSnapshot is a point-in-time population reading scraped from a
// realm's public status page. Worker-written, newest wins.
type RealmStatusSnapshot struct {
	ID         uuid.UUID `json:"id"`
	RealmID    uuid.UUID `json:"realm_id"`
	Population *int      `json:"population,omitempty"`
	Online     *bool     `json:"online,omitempty"`
	Queue      *int      `json:"queue,omitempty"`
	FetchedAt  time.Time `json:"fetched_at"`
}
