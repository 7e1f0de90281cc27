package account

import (
	"testing"

	bookingRepo "villagestay/database/repository/booking"
	"villagestay/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	byID    map[string]*models.User
	byEmail map[string]*models.User
	// phone or whatsapp identity -> user
	byPhone map[string]*models.User

	patternsTried []string
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[string]*models.User),
		byEmail: make(map[string]*models.User),
		byPhone: make(map[string]*models.User),
	}
}

func (r *fakeUserRepo) add(u *models.User) {
	r.byID[u.ID] = u
	if u.Email != "" {
		r.byEmail[u.Email] = u
	}
	if u.Phone != "" {
		r.byPhone[u.Phone] = u
	}
	if u.WhatsAppPhone != "" {
		r.byPhone[u.WhatsAppPhone] = u
	}
}

func (r *fakeUserRepo) GetByID(id string) (*models.User, error)       { return r.byID[id], nil }
func (r *fakeUserRepo) GetByEmail(email string) (*models.User, error) { return r.byEmail[email], nil }

func (r *fakeUserRepo) FindByPhonePattern(pattern, whatsappID string) (*models.User, error) {
	r.patternsTried = append(r.patternsTried, pattern)
	if u, ok := r.byPhone[pattern]; ok {
		return u, nil
	}
	if u, ok := r.byPhone[whatsappID]; ok {
		return u, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) Create(u *models.User) error {
	r.add(u)
	return nil
}

func (r *fakeUserRepo) Update(u *models.User) error {
	r.add(u)
	return nil
}

func (r *fakeUserRepo) UpdateWithDocument(id string, update bson.M) error {
	return nil
}

// fakeBookings stubs the two booking-repository calls the account service
// makes; the embedded interface panics on anything else.
type fakeBookings struct {
	bookingRepo.BookingRepository

	reparented map[string]string // phone -> user ID
	guestName  string
	guestEmail string
}

func (b *fakeBookings) ReparentByPhone(touristPhone, touristID string) (int64, error) {
	if b.reparented == nil {
		b.reparented = make(map[string]string)
	}
	b.reparented[touristPhone] = touristID
	return 2, nil
}

func (b *fakeBookings) UpdateGuestDetails(touristID, name, email string) error {
	b.guestName, b.guestEmail = name, email
	return nil
}

func newTestService() (*DefaultAccountService, *fakeUserRepo, *fakeBookings) {
	repo := newFakeUserRepo()
	bookings := &fakeBookings{}
	return &DefaultAccountService{Repo: repo, Bookings: bookings}, repo, bookings
}

func TestRegister(t *testing.T) {
	svc, repo, _ := newTestService()

	draft := &models.ProfileDraft{
		FullName: "Asha Patel",
		Email:    "asha@example.com",
		Password: "sunrise42",
		Address:  "Jaipur",
	}
	user, err := svc.Register(draft, "919876543210@c.us")
	require.NoError(t, err)

	assert.Len(t, user.ID, 24)
	assert.Equal(t, "+919876543210", user.Phone)
	assert.Equal(t, "919876543210@c.us", user.WhatsAppPhone)
	assert.Equal(t, "tourist", user.UserType)
	assert.Equal(t, models.BookingSourceWhatsApp, user.CreatedVia)
	assert.NotNil(t, user.WhatsAppLinkedAt)

	// Password is stored hashed, never verbatim.
	assert.NotEqual(t, "sunrise42", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("sunrise42")))

	assert.NotNil(t, repo.byEmail["asha@example.com"])
}

func TestRegisterEmailTaken(t *testing.T) {
	svc, repo, _ := newTestService()
	repo.add(&models.User{ID: "existing", Email: "asha@example.com"})

	_, err := svc.Register(&models.ProfileDraft{Email: "asha@example.com", Password: "sunrise42"}, "919876543210@c.us")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthenticatePatternPriority(t *testing.T) {
	svc, repo, _ := newTestService()
	repo.add(&models.User{ID: "u1", Phone: "+919876543210", FullName: "Asha Patel"})

	user, err := svc.Authenticate("919876543210@c.us")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "u1", user.ID)

	// The raw number is probed before any prefixed variant.
	require.NotEmpty(t, repo.patternsTried)
	assert.Equal(t, "919876543210", repo.patternsTried[0])
}

func TestAuthenticateCountryCodeStripped(t *testing.T) {
	svc, repo, _ := newTestService()
	repo.add(&models.User{ID: "u1", Phone: "9876543210"})

	user, err := svc.Authenticate("919876543210@c.us")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, []string{"919876543210", "+919876543210", "9876543210"}, repo.patternsTried)
}

func TestAuthenticateUnknown(t *testing.T) {
	svc, repo, _ := newTestService()

	user, err := svc.Authenticate("910000000000@c.us")
	require.NoError(t, err)
	assert.Nil(t, user)
	// All four normalizations were tried.
	assert.Len(t, repo.patternsTried, 4)
}

func TestLinkByEmail(t *testing.T) {
	svc, repo, bookings := newTestService()
	repo.add(&models.User{ID: "u1", Email: "asha@example.com", FullName: "Asha Patel"})

	user, err := svc.LinkByEmail("919876543210@c.us", "asha@example.com")
	require.NoError(t, err)
	assert.Equal(t, "919876543210@c.us", user.WhatsAppPhone)
	assert.NotNil(t, user.WhatsAppLinkedAt)

	// Anonymous bookings under this identity now belong to the account.
	assert.Equal(t, "u1", bookings.reparented["919876543210@c.us"])
}

func TestLinkByEmailUnknown(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.LinkByEmail("919876543210@c.us", "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestChangePassword(t *testing.T) {
	svc, _, _ := newTestService()

	hash, err := bcrypt.GenerateFromPassword([]byte("oldpass1"), bcrypt.DefaultCost)
	require.NoError(t, err)
	user := &models.User{ID: "u1", PasswordHash: string(hash)}

	assert.ErrorIs(t, svc.ChangePassword(user, "wrongpass", "newpass99"), ErrWrongPassword)
	assert.ErrorIs(t, svc.ChangePassword(user, "oldpass1", "123456"), ErrWeakPassword)

	require.NoError(t, svc.ChangePassword(user, "oldpass1", "newpass99"))
	assert.True(t, svc.VerifyPassword(user, "newpass99"))
	assert.False(t, svc.VerifyPassword(user, "oldpass1"))
}

func TestCompleteProfile(t *testing.T) {
	svc, _, bookings := newTestService()
	user := &models.User{ID: "u1", NeedsProfileCompletion: true, IsTemporaryAccount: true}

	draft := &models.ProfileDraft{FullName: "Asha Patel", Email: "asha@example.com", Address: "Jaipur"}
	require.NoError(t, svc.CompleteProfile(user, draft))

	assert.False(t, user.NeedsProfileCompletion)
	assert.False(t, user.IsTemporaryAccount)
	assert.Equal(t, "asha@example.com", user.Email)

	// The guest snapshot on existing bookings follows the upgrade.
	assert.Equal(t, "Asha Patel", bookings.guestName)
	assert.Equal(t, "asha@example.com", bookings.guestEmail)
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("asha@example.com"))
	assert.True(t, IsValidEmail("a.b+c@sub.domain.in"))
	assert.False(t, IsValidEmail("not-an-email"))
	assert.False(t, IsValidEmail("two words@example.com"))
	assert.False(t, IsValidEmail("missing@tld"))
}

func TestIsWeakPassword(t *testing.T) {
	assert.True(t, IsWeakPassword("short"))
	assert.True(t, IsWeakPassword("password1"))
	assert.True(t, IsWeakPassword("MyPASSWORDx"))
	assert.True(t, IsWeakPassword("123456"))
	assert.True(t, IsWeakPassword("qwerty"))

	assert.False(t, IsWeakPassword("sunrise42"))
	assert.False(t, IsWeakPassword("qwerty1"))
}
