package services

import (
	"context"
	"errors"
	"strings"

	"github.com/gaming-marketplace/backend/internal/apperrors"
	"github.com/gaming-marketplace/backend/internal/events"
	"github.com/gaming-marketplace/backend/internal/models"
	"github.com/gaming-marketplace/backend/internal/repositories"
	"github.com/gaming-marketplace/backend/internal/validation"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// CatalogService manages the game and realm catalog. Records are never hard
// deleted: deactivation flips is_active and reactivation is a plain update.
type CatalogService struct {
	gameRepo  *repositories.GameRepo
	realmRepo *repositories.RealmRepo
	auditRepo *repositories.AuditRepo
	publisher events.Publisher
	log       *zap.Logger
}

func NewCatalogService(
	gameRepo *repositories.GameRepo,
	realmRepo *repositories.RealmRepo,
	auditRepo *repositories.AuditRepo,
	publisher events.Publisher,
	log *zap.Logger,
) *CatalogService {
	return &CatalogService{
		gameRepo:  gameRepo,
		realmRepo: realmRepo,
		auditRepo: auditRepo,
		publisher: publisher,
		log:       log,
	}
}

func (s *CatalogService) CreateGame(ctx context.Context, name, slug, icon string, adminID uuid.UUID) (*models.GameDefinition, error) {
	name = strings.TrimSpace(name)
	slug = strings.TrimSpace(slug)

	res := validation.GameName(name)
	res.Merge(validation.GameSlug(slug))
	if err := res.Err(); err != nil {
		return nil, err
	}

	taken, err := s.gameRepo.SlugExists(ctx, slug, nil)
	if err != nil {
		return nil, apperrors.New(apperrors.CodeStorageError, "slug lookup failed").WithCause(err)
	}
	if taken {
		res.AddError(validation.FieldGameSlug, apperrors.CodeValidationFailed, "slug is already in use")
		return nil, res.Err()
	}

	game := &models.GameDefinition{
		Name:      name,
		Slug:      slug,
		Icon:      icon,
		CreatedBy: adminID,
	}
	if err := s.gameRepo.Create(ctx, game); err != nil {
		return nil, apperrors.New(apperrors.CodeStorageError, "failed to save game").WithCause(err)
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &adminID,
		ActorType:   "admin",
		Action:      "game_created",
		EntityType:  "game",
		EntityID:    &game.ID,
		Meta:        map[string]any{"slug": slug},
	})
	s.publishCatalog(ctx, events.EventGameUpdated, game.ID)

	s.log.Info("game created", zap.String("slug", slug), zap.String("game_id", game.ID.String()))
	return game, nil
}

func (s *CatalogService) GetGame(ctx context.Context, id uuid.UUID) (*models.GameDefinition, error) {
	game, err := s.gameRepo.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.Newf(apperrors.CodeGameNotFound, "game %s not found", id)
	}
	return game, err
}

func (s *CatalogService) ListGames(ctx context.Context, includeInactive bool) ([]models.GameDefinition, error) {
	return s.gameRepo.List(ctx, includeInactive)
}

// UpdateGameInput carries optional field changes; nil means keep.
type UpdateGameInput struct {
	Name *string
	Slug *string
	Icon *string
}

// UpdateGame re-validates uniqueness only for fields that actually change.
// Identity and creation fields cannot be overwritten.
func (s *CatalogService) UpdateGame(ctx context.Context, id uuid.UUID, input UpdateGameInput, adminID uuid.UUID) (*models.GameDefinition, error) {
	game, err := s.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}

	res := validation.Valid()

	if input.Name != nil && strings.TrimSpace(*input.Name) != game.Name {
		res.Merge(validation.GameName(*input.Name))
		game.Name = strings.TrimSpace(*input.Name)
	}
	if input.Slug != nil && strings.TrimSpace(*input.Slug) != game.Slug {
		slug := strings.TrimSpace(*input.Slug)
		res.Merge(validation.GameSlug(slug))
		if res.IsValid {
			taken, err := s.gameRepo.SlugExists(ctx, slug, &id)
			if err != nil {
				return nil, apperrors.New(apperrors.CodeStorageError, "slug lookup failed").WithCause(err)
			}
			if taken {
				res.AddError(validation.FieldGameSlug, apperrors.CodeValidationFailed, "slug is already in use")
			}
		}
		game.Slug = slug
	}
	if input.Icon != nil {
		game.Icon = *input.Icon
	}
	if err := res.Err(); err != nil {
		return nil, err
	}

	if err := s.gameRepo.Update(ctx, game); err != nil {
		return nil, apperrors.New(apperrors.CodeStorageError, "failed to update game").WithCause(err)
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &adminID,
		ActorType:   "admin",
		Action:      "game_updated",
		EntityType:  "game",
		EntityID:    &game.ID,
	})
	s.publishCatalog(ctx, events.EventGameUpdated, game.ID)
	return game, nil
}

func (s *CatalogService) SetGameActive(ctx context.Context, id uuid.UUID, active bool, adminID uuid.UUID) error {
	if _, err := s.GetGame(ctx, id); err != nil {
		return err
	}
	if err := s.gameRepo.SetActive(ctx, id, active); err != nil {
		return apperrors.New(apperrors.CodeStorageError, "failed to update game").WithCause(err)
	}

	action := "game_deactivated"
	if active {
		action = "game_reactivated"
	}
	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &adminID,
		ActorType:   "admin",
		Action:      action,
		EntityType:  "game",
		EntityID:    &id,
	})
	s.publishCatalog(ctx, events.EventGameUpdated, id)
	return nil
}

func (s *CatalogService) CreateRealm(ctx context.Context, gameID uuid.UUID, realmName string, statusURL *string, adminID uuid.UUID) (*models.GameRealm, error) {
	realmName = strings.TrimSpace(realmName)

	game, err := s.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	res := validation.RealmName(realmName)
	if err := res.Err(); err != nil {
		return nil, err
	}

	taken, err := s.realmRepo.NameExists(ctx, gameID, realmName, nil)
	if err != nil {
		return nil, apperrors.New(apperrors.CodeStorageError, "realm lookup failed").WithCause(err)
	}
	if taken {
		return nil, apperrors.Newf(apperrors.CodeDuplicateRealm,
			"realm %q already exists in game %s", realmName, game.Slug)
	}

	realm := &models.GameRealm{
		GameID:      gameID,
		GameName:    game.Name,
		RealmName:   realmName,
		DisplayName: models.RealmDisplayName(realmName),
		StatusURL:   statusURL,
		CreatedBy:   adminID,
	}
	if err := s.realmRepo.Create(ctx, realm); err != nil {
		return nil, apperrors.New(apperrors.CodeStorageError, "failed to save realm").WithCause(err)
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &adminID,
		ActorType:   "admin",
		Action:      "realm_created",
		EntityType:  "realm",
		EntityID:    &realm.ID,
		Meta:        map[string]any{"game_id": gameID.String(), "realm_name": realmName},
	})
	s.publishCatalog(ctx, events.EventRealmUpdated, realm.ID)
	return realm, nil
}

func (s *CatalogService) GetRealm(ctx context.Context, id uuid.UUID) (*models.GameRealm, error) {
	realm, err := s.realmRepo.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.Newf(apperrors.CodeRealmNotFound, "realm %s not found", id)
	}
	return realm, err
}

func (s *CatalogService) ListRealms(ctx context.Context, gameID uuid.UUID, includeInactive bool) ([]models.GameRealm, error) {
	if _, err := s.GetGame(ctx, gameID); err != nil {
		return nil, err
	}
	return s.realmRepo.ListByGame(ctx, gameID, includeInactive)
}

type UpdateRealmInput struct {
	RealmName *string
	StatusURL *string
}

// UpdateRealm re-derives the display name when the realm is renamed. GameID
// is immutable.
func (s *CatalogService) UpdateRealm(ctx context.Context, id uuid.UUID, input UpdateRealmInput, adminID uuid.UUID) (*models.GameRealm, error) {
	realm, err := s.GetRealm(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.RealmName != nil && strings.TrimSpace(*input.RealmName) != realm.RealmName {
		name := strings.TrimSpace(*input.RealmName)
		res := validation.RealmName(name)
		if err := res.Err(); err != nil {
			return nil, err
		}
		taken, err := s.realmRepo.NameExists(ctx, realm.GameID, name, &id)
		if err != nil {
			return nil, apperrors.New(apperrors.CodeStorageError, "realm lookup failed").WithCause(err)
		}
		if taken {
			return nil, apperrors.Newf(apperrors.CodeDuplicateRealm,
				"realm %q already exists in this game", name)
		}
		realm.RealmName = name
		realm.DisplayName = models.RealmDisplayName(name)
	}
	if input.StatusURL != nil {
		realm.StatusURL = input.StatusURL
	}

	if err := s.realmRepo.Update(ctx, realm); err != nil {
		return nil, apperrors.New(apperrors.CodeStorageError, "failed to update realm").WithCause(err)
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &adminID,
		ActorType:   "admin",
		Action:      "realm_updated",
		EntityType:  "realm",
		EntityID:    &realm.ID,
	})
	s.publishCatalog(ctx, events.EventRealmUpdated, realm.ID)
	return realm, nil
}

func (s *CatalogService) SetRealmActive(ctx context.Context, id uuid.UUID, active bool, adminID uuid.UUID) error {
	if _, err := s.GetRealm(ctx, id); err != nil {
		return err
	}
	if err := s.realmRepo.SetActive(ctx, id, active); err != nil {
		return apperrors.New(apperrors.CodeStorageError, "failed to update realm").WithCause(err)
	}

	action := "realm_deactivated"
	if active {
		action = "realm_reactivated"
	}
	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &adminID,
		ActorType:   "admin",
		Action:      action,
		EntityType:  "realm",
		EntityID:    &id,
	})
	s.publishCatalog(ctx, events.EventRealmUpdated, id)
	return nil
}

func (s *CatalogService) GetRealmStatus(ctx context.Context, realmID uuid.UUID) (*models.RealmStatusSnapshot, error) {
	if _, err := s.GetRealm(ctx, realmID); err != nil {
		return nil, err
	}
	snap, err := s.realmRepo.GetLatestStatus(ctx, realmID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.Newf(apperrors.CodeRealmNotFound, "no status recorded for realm %s", realmID)
	}
	return snap, err
}

func (s *CatalogService) publishCatalog(ctx context.Context, eventType string, id uuid.UUID) {
	_ = s.publisher.Publish(ctx, events.ChannelCatalog, events.Event{
		Type:    eventType,
		Payload: map[string]any{"id": id.String()},
	})
}
