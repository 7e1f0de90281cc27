package conversation

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"villagestay/config"
	"villagestay/models"
	"villagestay/services/account"
	"villagestay/services/booking"
	"villagestay/services/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testIdentity = "919876543210@c.us"

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

// recordingMessenger captures every outbound reply.
type recordingMessenger struct {
	mu   sync.Mutex
	sent []string
}

func (m *recordingMessenger) Send(_ context.Context, to, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, body)
	return nil
}

func (m *recordingMessenger) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func (m *recordingMessenger) last() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return ""
	}
	return m.sent[len(m.sent)-1]
}

// fakeAccounts is an in-memory account.Service.
type fakeAccounts struct {
	mu         sync.Mutex
	byIdentity map[string]*models.User
	byEmail    map[string]*models.User
	passwords  map[string]string
	nextID     int
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{
		byIdentity: make(map[string]*models.User),
		byEmail:    make(map[string]*models.User),
		passwords:  make(map[string]string),
	}
}

func (a *fakeAccounts) add(identity string, u *models.User, password string) {
	a.byIdentity[identity] = u
	if u.Email != "" {
		a.byEmail[u.Email] = u
	}
	a.passwords[u.ID] = password
}

func (a *fakeAccounts) Register(draft *models.ProfileDraft, identity string) (*models.User, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, taken := a.byEmail[draft.Email]; taken {
		return nil, account.ErrEmailTaken
	}
	a.nextID++
	now := time.Now()
	u := &models.User{
		ID:               fmt.Sprintf("user-%d", a.nextID),
		Email:            draft.Email,
		FullName:         draft.FullName,
		Phone:            "+" + account.ChannelPhone(identity),
		Address:          draft.Address,
		WhatsAppPhone:    identity,
		WhatsAppLinkedAt: &now,
		CreatedAt:        now,
	}
	a.add(identity, u, draft.Password)
	return u, nil
}

func (a *fakeAccounts) Authenticate(identity string) (*models.User, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.byIdentity[identity], nil
}

func (a *fakeAccounts) FindByEmail(email string) (*models.User, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.byEmail[email], nil
}

func (a *fakeAccounts) LinkByEmail(identity, email string) (*models.User, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	u, ok := a.byEmail[email]
	if !ok {
		return nil, account.ErrNotFound
	}
	u.WhatsAppPhone = identity
	a.byIdentity[identity] = u
	return u, nil
}

func (a *fakeAccounts) VerifyPassword(user *models.User, password string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.passwords[user.ID] == password
}

func (a *fakeAccounts) ChangePassword(user *models.User, current, newPassword string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.passwords[user.ID] != current {
		return account.ErrWrongPassword
	}
	if account.IsWeakPassword(newPassword) {
		return account.ErrWeakPassword
	}
	a.passwords[user.ID] = newPassword
	return nil
}

func (a *fakeAccounts) CompleteProfile(user *models.User, draft *models.ProfileDraft) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	user.Email = draft.Email
	user.FullName = draft.FullName
	user.Address = draft.Address
	user.NeedsProfileCompletion = false
	user.IsTemporaryAccount = false
	a.byEmail[draft.Email] = user
	return nil
}

// fakeInventory serves a fixed catalogue.
type fakeInventory struct {
	listings []models.Listing
}

func testListings() []models.Listing {
	return []models.Listing{
		{
			ID: "listing-1", Title: "Pottery Village Homestay", Location: "Khurja, Uttar Pradesh",
			PricePerNight: 2000, PropertyType: "village_house", MaxGuests: 4, HostID: "host-1",
			Rating: 4.5, ReviewCount: 12, Description: "Learn pottery with a local artisan family.",
			Amenities: []string{"Home-cooked meals", "Pottery workshop"},
			IsActive:  true, IsApproved: true,
		},
		{
			ID: "listing-2", Title: "Kerala Backwater Farmstay", Location: "Alleppey, Kerala",
			PricePerNight: 2500, PropertyType: "farmstay", MaxGuests: 6, HostID: "host-2",
			Rating: 4.8, ReviewCount: 30, Description: "Organic farm on the backwaters.",
			IsActive: true, IsApproved: true,
		},
	}
}

func (f *fakeInventory) Featured() ([]models.Listing, error) { return f.listings, nil }
func (f *fakeInventory) Popular() ([]models.Listing, error)  { return f.listings, nil }

func (f *fakeInventory) Search(query string) ([]models.Listing, error) {
	var out []models.Listing
	for _, l := range f.listings {
		haystack := strings.ToLower(l.Title + " " + l.Description + " " + l.Location)
		for _, term := range strings.Fields(strings.ToLower(query)) {
			if strings.Contains(haystack, term) {
				out = append(out, l)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeInventory) Similar(l models.Listing) ([]models.Listing, error) {
	var out []models.Listing
	for _, other := range f.listings {
		if other.ID != l.ID {
			out = append(out, other)
		}
	}
	return out, nil
}

func (f *fakeInventory) Get(id string) (*models.Listing, error) {
	for i := range f.listings {
		if f.listings[i].ID == id {
			return &f.listings[i], nil
		}
	}
	return nil, nil
}

func (f *fakeInventory) Host(hostID string) (*models.User, error) { return nil, nil }

// fakeAdvisor answers every query the same way.
type fakeAdvisor struct{}

func (fakeAdvisor) Advise(_ context.Context, query string) (string, bool) {
	return "Rural India has wonderful experiences for you.", true
}

// fakeBookingRepo backs a real booking engine.
type fakeBookingRepo struct {
	mu       sync.Mutex
	inserted []*models.Booking
}

func (r *fakeBookingRepo) Insert(b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inserted = append(r.inserted, b)
	return nil
}

func (r *fakeBookingRepo) HasOverlap(string, time.Time, time.Time) (bool, error) { return false, nil }
func (r *fakeBookingRepo) GetByReference(string) (*models.Booking, error)        { return nil, nil }

func (r *fakeBookingRepo) FindByTourist(touristID string, limit int64) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.inserted {
		if b.TouristID == touristID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) CountByTourist(touristID string) (int64, error) {
	bookings, _ := r.FindByTourist(touristID, 0)
	return int64(len(bookings)), nil
}

func (r *fakeBookingRepo) FindUpcomingCheckIns(from, to time.Time) ([]models.Booking, error) {
	return nil, nil
}

func (r *fakeBookingRepo) ReparentByPhone(string, string) (int64, error) { return 0, nil }
func (r *fakeBookingRepo) UpdateGuestDetails(string, string, string) error {
	return nil
}

type fixture struct {
	engine    *Engine
	accounts  *fakeAccounts
	messenger *recordingMessenger
	repo      *fakeBookingRepo
	clock     *fakeClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	clock := &fakeClock{now: time.Date(2024, 8, 10, 12, 0, 0, 0, time.UTC)}
	accounts := newFakeAccounts()
	messenger := &recordingMessenger{}
	repo := &fakeBookingRepo{}

	cfg := &config.Config{BotName: "VillageStay Assistant", AdminPhone: "+911234567890"}
	engine, err := NewEngine(
		session.NewMemoryStore(clock),
		accounts,
		&fakeInventory{listings: testListings()},
		&booking.DefaultBookingEngine{Repo: repo, Clock: clock},
		fakeAdvisor{},
		messenger,
		clock,
		cfg,
	)
	require.NoError(t, err)

	return &fixture{engine: engine, accounts: accounts, messenger: messenger, repo: repo, clock: clock}
}

func (f *fixture) addUser() *models.User {
	u := &models.User{
		ID: "user-1", Email: "asha@example.com", FullName: "Asha Patel",
		Phone: "+919876543210", WhatsAppPhone: testIdentity,
		CreatedAt: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
	}
	f.accounts.add(testIdentity, u, "sunrise42")
	return u
}

// say sends one inbound message and returns the single reply it produced.
func (f *fixture) say(t *testing.T, body string) string {
	t.Helper()
	before := f.messenger.count()
	f.engine.Dispatch(context.Background(), models.InboundMessage{From: testIdentity, Body: body})
	require.Equal(t, before+1, f.messenger.count(), "expected exactly one reply to %q", body)
	return f.messenger.last()
}

func TestRouteTableCoversEveryState(t *testing.T) {
	f := newFixture(t)
	assert.NoError(t, f.engine.routes.validate())

	incomplete := routeTable{}
	assert.Error(t, incomplete.validate())
}

func TestGreetingUnknownText(t *testing.T) {
	f := newFixture(t)
	reply := f.say(t, "good morning")
	assert.Contains(t, reply, `Type "start" to begin`)
}

func TestGreetingKnownUserShowsMenu(t *testing.T) {
	f := newFixture(t)
	f.addUser()

	reply := f.say(t, "hi")
	assert.Contains(t, reply, "Welcome back, Asha Patel")
	assert.Contains(t, reply, "1️⃣ *Browse Listings*")
}

func TestNewUserRegistrationFlow(t *testing.T) {
	f := newFixture(t)

	reply := f.say(t, "hello")
	assert.Contains(t, reply, "What's your full name?")

	assert.Contains(t, f.say(t, "A"), "at least 2 characters")
	assert.Contains(t, f.say(t, "Asha Patel"), "email address")

	assert.Contains(t, f.say(t, "not-an-email"), "valid email")
	assert.Contains(t, f.say(t, "asha@example.com"), "Set your password")

	// Weak passwords are rejected at every tier.
	assert.Contains(t, f.say(t, "abc"), "at least 6 characters")
	assert.Contains(t, f.say(t, "password1"), "stronger password")
	assert.Contains(t, f.say(t, "123456"), "stronger password")
	assert.Contains(t, f.say(t, "qwerty"), "stronger password")

	assert.Contains(t, f.say(t, "sunrise42"), "Where are you located?")

	reply = f.say(t, "skip")
	assert.Contains(t, reply, "Account Created Successfully")
	assert.Contains(t, reply, "asha@example.com")
	assert.NotContains(t, reply, "Location:")

	user, _ := f.accounts.Authenticate(testIdentity)
	require.NotNil(t, user)
	assert.Equal(t, "Asha Patel", user.FullName)
}

func TestRegistrationEmailConflictLinks(t *testing.T) {
	f := newFixture(t)
	f.accounts.byEmail["asha@example.com"] = &models.User{
		ID: "user-9", Email: "asha@example.com", FullName: "Asha Patel",
	}

	f.say(t, "hi")
	f.say(t, "Asha Patel")
	reply := f.say(t, "asha@example.com")
	assert.Contains(t, reply, "already exists")

	reply = f.say(t, "yes")
	assert.Contains(t, reply, "Account Successfully Linked")

	user, _ := f.accounts.Authenticate(testIdentity)
	require.NotNil(t, user)
	assert.Equal(t, "user-9", user.ID)
}

func TestBookingFlowEndToEnd(t *testing.T) {
	f := newFixture(t)
	f.addUser()
	f.say(t, "hi")

	reply := f.say(t, "1")
	assert.Contains(t, reply, "Featured Rural Experiences")
	assert.Contains(t, reply, "Pottery Village Homestay")

	reply = f.say(t, "1")
	assert.Contains(t, reply, "Book this experience")

	reply = f.say(t, "1")
	assert.Contains(t, reply, "check-in date")

	assert.Contains(t, f.say(t, "15-08-2024"), "valid date")
	assert.Contains(t, f.say(t, "10/08/2024"), "at least tomorrow")

	assert.Contains(t, f.say(t, "15/08/2024"), "check-out date")
	assert.Contains(t, f.say(t, "14/08/2024"), "after check-in")

	reply = f.say(t, "18/08/2024")
	assert.Contains(t, reply, "Total nights: 3")

	assert.Contains(t, f.say(t, "9"), "Maximum 4 guests")
	assert.Contains(t, f.say(t, "0"), "minimum 1")

	reply = f.say(t, "2")
	assert.Contains(t, reply, "special requests")

	reply = f.say(t, "none")
	assert.Contains(t, reply, "Booking Summary")
	assert.Contains(t, reply, "Base Amount: ₹6000")
	assert.Contains(t, reply, "Platform Fee: ₹300")
	assert.Contains(t, reply, "Total Amount: ₹6300")

	reply = f.say(t, "confirm")
	assert.Contains(t, reply, "Booking Confirmed")
	assert.Contains(t, reply, "VS20240810")

	require.Len(t, f.repo.inserted, 1)
	b := f.repo.inserted[0]
	assert.Equal(t, "user-1", b.TouristID)
	assert.Equal(t, 3, b.Nights)
	assert.Equal(t, 2, b.Guests)
	assert.Equal(t, 6300.0, b.TotalAmount)
}

func TestBookingCancel(t *testing.T) {
	f := newFixture(t)
	f.addUser()
	f.say(t, "hi")
	f.say(t, "1")
	f.say(t, "1")
	f.say(t, "1")
	f.say(t, "15/08/2024")
	f.say(t, "18/08/2024")
	f.say(t, "2")
	f.say(t, "none")

	reply := f.say(t, "cancel")
	assert.Contains(t, reply, "Booking cancelled")
	assert.Empty(t, f.repo.inserted)
}

func TestNaturalLanguageSearch(t *testing.T) {
	f := newFixture(t)
	f.addUser()
	f.say(t, "hi")

	reply := f.say(t, "show me pottery experiences")
	assert.Contains(t, reply, "Search Results")
	assert.Contains(t, reply, "Pottery Village Homestay")
}

func TestNaturalLanguageFallsThroughToAdvisor(t *testing.T) {
	f := newFixture(t)
	f.addUser()
	f.say(t, "hi")

	reply := f.say(t, "what should I pack for monsoon season")
	assert.Contains(t, reply, "Rural India has wonderful experiences")
}

func TestAIChatRelatedExperiences(t *testing.T) {
	f := newFixture(t)
	f.addUser()
	f.say(t, "hi")
	f.say(t, "3")

	reply := f.say(t, "I want to learn pottery")
	assert.Contains(t, reply, "Rural India has wonderful experiences")
	assert.Contains(t, reply, "Related Experiences")
	assert.Contains(t, reply, "Pottery Village Homestay")
}

func TestPasswordChangeFlow(t *testing.T) {
	f := newFixture(t)
	user := f.addUser()
	f.say(t, "hi")

	assert.Contains(t, f.say(t, "change password"), "Choose an option")
	assert.Contains(t, f.say(t, "1"), "current password")

	assert.Contains(t, f.say(t, "wrongpass"), "incorrect")
	assert.Contains(t, f.say(t, "sunrise42"), "new password")

	assert.Contains(t, f.say(t, "qwerty"), "stronger password")
	assert.Contains(t, f.say(t, "monsoon77"), "Re-enter")

	assert.Contains(t, f.say(t, "different"), "don't match")
	f.say(t, "monsoon77")
	reply := f.say(t, "monsoon77")
	assert.Contains(t, reply, "Password Changed Successfully")

	assert.True(t, f.engine.Accounts.VerifyPassword(user, "monsoon77"))
}

func TestMyBookingsEmpty(t *testing.T) {
	f := newFixture(t)
	f.addUser()
	f.say(t, "hi")

	reply := f.say(t, "2")
	assert.Contains(t, reply, "don't have any bookings yet")
}

func TestIgnoredMessagesGetNoReply(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.engine.Dispatch(ctx, models.InboundMessage{From: "group@g.us", Body: "hi", IsGroup: true})
	f.engine.Dispatch(ctx, models.InboundMessage{From: testIdentity, Body: "", IsStatus: true})
	f.engine.Dispatch(ctx, models.InboundMessage{From: testIdentity, Body: "hi", IsFromSelf: true})

	assert.Zero(t, f.messenger.count())
}

func TestPanicProducesRecoveryReply(t *testing.T) {
	f := newFixture(t)
	f.addUser()
	ctx := context.Background()

	// Force a state whose handler dereferences a listing that is gone.
	sess, err := f.engine.Sessions.GetOrCreate(ctx, testIdentity)
	require.NoError(t, err)
	sess.Step = models.StepListingDetails
	sess.SelectedListing = nil
	require.NoError(t, f.engine.Sessions.Save(ctx, sess))

	reply := f.say(t, "3")
	assert.Contains(t, reply, "something went wrong")
}

func TestSameIdentityMessagesAppliedInOrder(t *testing.T) {
	f := newFixture(t)

	// Two messages in quick succession: the greeting must start the profile
	// flow before the name arrives, or the name bounces off the greeting
	// handler and is lost.
	f.engine.Enqueue(models.InboundMessage{From: testIdentity, Body: "hi"})
	f.engine.Enqueue(models.InboundMessage{From: testIdentity, Body: "Asha Patel"})

	require.Eventually(t, func() bool { return f.messenger.count() == 2 },
		2*time.Second, 5*time.Millisecond)

	sess, err := f.engine.Sessions.GetOrCreate(context.Background(), testIdentity)
	require.NoError(t, err)
	assert.Equal(t, models.StepNewUserProfile, sess.Step)
	assert.Equal(t, models.SubStepEmail, sess.SubStep)
	require.NotNil(t, sess.Profile)
	assert.Equal(t, "Asha Patel", sess.Profile.FullName)

	// Drained queues leave no per-sender state behind.
	assert.True(t, f.engine.mail.idle())
}

func TestEnqueueOrderHeldAcrossManySenders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const senders = 20
	for i := 0; i < senders; i++ {
		identity := fmt.Sprintf("9190000000%02d@c.us", i)
		f.engine.Enqueue(models.InboundMessage{From: identity, Body: "hi"})
		f.engine.Enqueue(models.InboundMessage{From: identity, Body: "Asha Patel"})
	}

	require.Eventually(t, func() bool { return f.messenger.count() == senders*2 },
		5*time.Second, 5*time.Millisecond)

	for i := 0; i < senders; i++ {
		sess, err := f.engine.Sessions.GetOrCreate(ctx, fmt.Sprintf("9190000000%02d@c.us", i))
		require.NoError(t, err)
		assert.Equal(t, models.StepNewUserProfile, sess.Step)
		assert.Equal(t, models.SubStepEmail, sess.SubStep)
	}

	require.Eventually(t, func() bool { return f.engine.mail.idle() },
		time.Second, 5*time.Millisecond)
}

func TestEnqueueIgnoresNonUserMessages(t *testing.T) {
	f := newFixture(t)

	f.engine.Enqueue(models.InboundMessage{From: "group@g.us", Body: "hi", IsGroup: true})
	f.engine.Enqueue(models.InboundMessage{From: testIdentity, Body: "", IsStatus: true})
	f.engine.Enqueue(models.InboundMessage{From: testIdentity, Body: "hi", IsFromSelf: true})

	assert.True(t, f.engine.mail.idle())
	assert.Zero(t, f.messenger.count())
}

func TestDistinctIdentitiesProceedConcurrently(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const senders = 8
	var wg sync.WaitGroup
	for i := 0; i < senders; i++ {
		identity := fmt.Sprintf("91900000000%d@c.us", i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.engine.Dispatch(ctx, models.InboundMessage{From: identity, Body: "hi"})
			f.engine.Dispatch(ctx, models.InboundMessage{From: identity, Body: "Asha Patel"})
		}()
	}
	wg.Wait()

	// Two replies per sender, and every session advanced past the name step.
	assert.Equal(t, senders*2, f.messenger.count())
	for i := 0; i < senders; i++ {
		sess, err := f.engine.Sessions.GetOrCreate(ctx, fmt.Sprintf("91900000000%d@c.us", i))
		require.NoError(t, err)
		assert.Equal(t, models.StepNewUserProfile, sess.Step)
		assert.Equal(t, models.SubStepEmail, sess.SubStep)
	}
}
