package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/services-marketplace/internal/database/dbtest"
	"github.com/iliyamo/services-marketplace/internal/model"
)

type fixture struct {
	db        *sqlx.DB
	users     *UserRepo
	profiles  *ProfileRepo
	services  *ServiceRepo
	contracts *ContractRepo
}

func newFixture(t *testing.T) fixture {
	db := dbtest.New(t)
	return fixture{
		db:        db,
		users:     NewUserRepo(db),
		profiles:  NewProfileRepo(db),
		services:  NewServiceRepo(db),
		contracts: NewContractRepo(db),
	}
}

// seedProvider creates a user with a provider profile and one service.
func (f fixture) seedProvider(t *testing.T, email string) (providerID, serviceID uint64) {
	ctx := context.Background()
	uid, err := f.users.Create(ctx, NewUser{Email: email, FullName: "Pat Provider", PasswordHash: "x"})
	require.NoError(t, err)
	providerID, err = f.profiles.CreateProvider(ctx, uid)
	require.NoError(t, err)
	serviceID, err = f.services.Create(ctx, providerID, ServiceInput{
		CategoryID: 1, Name: "Deep clean", Description: "kitchen and bath", HourlyPrice: 25, ExperienceYears: 3,
	})
	require.NoError(t, err)
	return providerID, serviceID
}

func (f fixture) seedClient(t *testing.T, email string) (userID, clientID uint64) {
	ctx := context.Background()
	userID, err := f.users.Create(ctx, NewUser{Email: email, FullName: "Casey Client", PasswordHash: "x"})
	require.NoError(t, err)
	clientID, err = f.profiles.CreateClient(ctx, userID)
	require.NoError(t, err)
	return userID, clientID
}

func TestUserRepo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.users.Create(ctx, NewUser{Email: "  Alice@Example.com ", FullName: "Alice", PasswordHash: "hash"})
	require.NoError(t, err)

	_, err = f.users.Create(ctx, NewUser{Email: "alice@example.com"})
	assert.ErrorIs(t, err, ErrConflict)

	u, err := f.users.GetByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.True(t, u.HasPassword())
	assert.Equal(t, model.AuthLocal, u.AuthProvider)

	bridged, err := f.users.Create(ctx, NewUser{Email: "bob@example.com", AuthProvider: model.AuthGoogle})
	require.NoError(t, err)
	b, err := f.users.GetByID(ctx, bridged)
	require.NoError(t, err)
	assert.False(t, b.HasPassword())
	assert.False(t, b.PasswordHash.Valid)

	city := "Lisbon"
	require.NoError(t, f.users.UpdateProfile(ctx, id, ProfileUpdate{City: &city}))
	require.NoError(t, f.users.SetPicture(ctx, id, "profiles/1/abc.png"))
	u, err = f.users.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Lisbon", u.City.String)
	assert.Equal(t, "profiles/1/abc.png", u.PictureKey.String)

	_, err = f.users.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.ErrorIs(t, f.users.UpdatePassword(ctx, 999, "h"), sql.ErrNoRows)
}

func TestResetTokenSingleUse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tokens := NewResetTokenRepo(f.db)

	uid, err := f.users.Create(ctx, NewUser{Email: "r@example.com", PasswordHash: "x"})
	require.NoError(t, err)

	require.NoError(t, tokens.StoreReset(ctx, uid, "h1", time.Now().Add(time.Hour)))
	got, err := tokens.ConsumeReset(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, uid, got)

	_, err = tokens.ConsumeReset(ctx, "h1")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	require.NoError(t, tokens.StoreReset(ctx, uid, "h2", time.Now().Add(-time.Minute)))
	_, err = tokens.ConsumeReset(ctx, "h2")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestProfileRepoLookup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	uid, err := f.users.Create(ctx, NewUser{Email: "p@example.com"})
	require.NoError(t, err)

	p, err := f.profiles.Lookup(ctx, uid)
	require.NoError(t, err)
	assert.Nil(t, p.ClientID)
	assert.Nil(t, p.ProviderID)

	pid, err := f.profiles.CreateProvider(ctx, uid)
	require.NoError(t, err)
	_, err = f.profiles.CreateProvider(ctx, uid)
	assert.ErrorIs(t, err, ErrConflict)

	p, err = f.profiles.Lookup(ctx, uid)
	require.NoError(t, err)
	require.NotNil(t, p.ProviderID)
	assert.Equal(t, pid, *p.ProviderID)
	assert.Nil(t, p.ClientID)
}

func TestServiceRepoOwnershipAndVisibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p1, sid := f.seedProvider(t, "p1@example.com")
	p2, _ := f.seedProvider(t, "p2@example.com")

	s, err := f.services.GetVisible(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, "Cleaning", s.CategoryName)
	assert.Equal(t, "Pat Provider", s.ProviderName)
	assert.Equal(t, 25.0, s.HourlyPrice)

	in := ServiceInput{CategoryID: 2, Name: "Pipes", Description: "d", HourlyPrice: 40}
	assert.ErrorIs(t, f.services.Update(ctx, sid, p2, in), ErrForbidden)
	assert.ErrorIs(t, f.services.Hide(ctx, sid, p2), ErrForbidden)
	assert.ErrorIs(t, f.services.Hide(ctx, 12345, p1), sql.ErrNoRows)
	require.NoError(t, f.services.Update(ctx, sid, p1, in))

	list, err := f.services.ListVisible(ctx, model.ServiceFilter{Query: "pipe"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, sid, list[0].ID)

	require.NoError(t, f.services.Hide(ctx, sid, p1))
	_, err = f.services.GetVisible(ctx, sid)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	hidden, err := f.services.GetByID(ctx, sid)
	require.NoError(t, err)
	assert.True(t, hidden.IsHidden)

	mine, err := f.services.ListByProvider(ctx, p1)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	list, err = f.services.ListVisible(ctx, model.ServiceFilter{CategoryID: 2})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestContractTransitionIsConditional(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	providerID, sid := f.seedProvider(t, "prov@example.com")
	_, clientID := f.seedClient(t, "cli@example.com")

	id, err := f.contracts.Create(ctx, clientID, sid, 3, 75)
	require.NoError(t, err)

	k, err := f.contracts.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, providerID, k.ProviderID)
	assert.Equal(t, model.ContractPending, k.Status)
	assert.Nil(t, k.RespondedAt)

	ok, err := f.contracts.Transition(ctx, id, model.ContractPending, model.ContractAccepted)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.contracts.Transition(ctx, id, model.ContractPending, model.ContractDenied)
	require.NoError(t, err)
	assert.False(t, ok)

	k, err = f.contracts.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.ContractAccepted, k.Status)
	assert.NotNil(t, k.RespondedAt)

	byProvider, err := f.contracts.ListForProvider(ctx, providerID)
	require.NoError(t, err)
	assert.Len(t, byProvider, 1)
	byClient, err := f.contracts.ListForClient(ctx, clientID)
	require.NoError(t, err)
	assert.Len(t, byClient, 1)
}

func TestConversationFindOrCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	conversations := NewConversationRepo(f.db)
	messages := NewMessageRepo(f.db)
	providerID, sid := f.seedProvider(t, "prov@example.com")
	uid, clientID := f.seedClient(t, "cli@example.com")

	c1, created, err := conversations.FindOrCreate(ctx, clientID, providerID, sid)
	require.NoError(t, err)
	assert.True(t, created)
	c2, created, err := conversations.FindOrCreate(ctx, clientID, providerID, sid)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, c1.ID, c2.ID)

	var n int
	require.NoError(t, f.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM conversations"))
	assert.Equal(t, 1, n)

	m1, err := messages.Create(ctx, c1.ID, uid, "hello")
	require.NoError(t, err)
	_, err = messages.Create(ctx, c1.ID, uid, "anyone there?")
	require.NoError(t, err)

	all, err := messages.ListAfter(ctx, c1.ID, 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	newer, err := messages.ListAfter(ctx, c1.ID, m1.ID, 10)
	require.NoError(t, err)
	require.Len(t, newer, 1)
	assert.Equal(t, "anyone there?", newer[0].Content)
}

func TestFavoritesAndReviews(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	favorites := NewFavoriteRepo(f.db)
	reviews := NewReviewRepo(f.db)
	_, sid := f.seedProvider(t, "prov@example.com")
	_, clientID := f.seedClient(t, "cli@example.com")

	require.NoError(t, favorites.Add(ctx, clientID, sid))
	assert.ErrorIs(t, favorites.Add(ctx, clientID, sid), ErrConflict)
	favs, err := favorites.ListForClient(ctx, clientID)
	require.NoError(t, err)
	assert.Len(t, favs, 1)
	require.NoError(t, favorites.Remove(ctx, clientID, sid))
	assert.ErrorIs(t, favorites.Remove(ctx, clientID, sid), sql.ErrNoRows)

	_, avg, err := reviews.ListForService(ctx, sid)
	require.NoError(t, err)
	assert.Zero(t, avg)

	_, err = reviews.Create(ctx, sid, clientID, 5, "great")
	require.NoError(t, err)
	_, err = reviews.Create(ctx, sid, clientID, 4, "good")
	require.NoError(t, err)
	list, avg, err := reviews.ListForService(ctx, sid)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.InDelta(t, 4.5, avg, 0.001)
	assert.Equal(t, "Casey Client", list[0].ClientName)
}

func TestIsDuplicate(t *testing.T) {
	assert.False(t, isDuplicate(nil))
	assert.False(t, isDuplicate(sql.ErrNoRows))
}
