package service

import (
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/iliyamo/services-marketplace/internal/repository"
	"github.com/iliyamo/services-marketplace/internal/utils"
)

// Deps are the collaborators shared by the services.  Verifier, Events and
// Store may be nil.
type Deps struct {
	Verifier   IdentityVerifier
	Events     EventPublisher
	Store      ObjectStore
	Secret     string
	BcryptCost int
	ResetTTL   time.Duration
	Log        *zap.Logger
}

// Set groups every service built over one database.
type Set struct {
	Auth      *AuthService
	Catalog   *CatalogService
	Contracts *ContractService
	Chat      *ChatService
	Favorites *FavoriteService
	Reviews   *ReviewService
}

// NewSet builds the repositories over db and the services over them.
func NewSet(db *sqlx.DB, d Deps) Set {
	users := repository.NewUserRepo(db)
	profiles := repository.NewProfileRepo(db)
	services := repository.NewServiceRepo(db)
	log := nopIfNil(d.Log)

	return Set{
		Auth: &AuthService{
			Users:     users,
			Profiles:  profiles,
			Resets:    repository.NewResetTokenRepo(db),
			Roles:     NewRoleResolver(profiles),
			Verifier:  d.Verifier,
			Events:    d.Events,
			Store:     d.Store,
			Secret:    d.Secret,
			Passwords: utils.NewPasswordHasher(d.BcryptCost),
			ResetTTL:  d.ResetTTL,
			Log:       log.Named("auth"),
		},
		Catalog: &CatalogService{
			Profiles:   profiles,
			Categories: repository.NewCategoryRepo(db),
			Services:   services,
		},
		Contracts: &ContractService{
			Profiles:  profiles,
			Services:  services,
			Contracts: repository.NewContractRepo(db),
			Events:    d.Events,
			Log:       log.Named("contracts"),
		},
		Chat: &ChatService{
			Profiles:      profiles,
			Services:      services,
			Conversations: repository.NewConversationRepo(db),
			Messages:      repository.NewMessageRepo(db),
			Events:        d.Events,
			Log:           log.Named("chat"),
		},
		Favorites: &FavoriteService{Profiles: profiles, Services: services, Favorites: repository.NewFavoriteRepo(db)},
		Reviews:   &ReviewService{Profiles: profiles, Services: services, Reviews: repository.NewReviewRepo(db)},
	}
}
