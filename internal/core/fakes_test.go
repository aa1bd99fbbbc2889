package core

import (
	"context"
	"sync"
	"time"

	"songbook-backend-go/internal/billing"
	"songbook-backend-go/internal/db"
	"songbook-backend-go/internal/models"
)

// fakeUserRepo is an in-memory db.UserRepository with the same
// compare-and-set semantics as the Firestore implementation.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User

	patchCalls []map[string]interface{}
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[string]*models.User)}
	for _, u := range users {
		copied := *u
		repo.users[u.ID] = &copied
	}
	return repo
}

func (r *fakeUserRepo) GetByID(ctx context.Context, userID string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return nil, db.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByStripeCustomerID(ctx context.Context, customerID string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.StripeCustomerID == customerID {
			copied := *user
			return &copied, nil
		}
	}
	return nil, db.ErrNotFound
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *user
	copied.CreatedAt = time.Now()
	copied.UpdatedAt = copied.CreatedAt
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) Patch(ctx context.Context, userID string, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return db.ErrNotFound
	}
	r.patchCalls = append(r.patchCalls, fields)
	for path, value := range fields {
		str, _ := value.(string)
		switch path {
		case "displayName":
			user.DisplayName = str
		case "firstName":
			user.FirstName = str
		case "lastName":
			user.LastName = str
		case "phoneNumber":
			user.PhoneNumber = str
		case "photoURL":
			user.PhotoURL = str
		case "location":
			user.Location = str
		case "bio":
			user.Bio = str
		}
	}
	user.UpdatedAt = time.Now()
	return nil
}

func (r *fakeUserRepo) SetStripeCustomerID(ctx context.Context, userID, customerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return db.ErrNotFound
	}
	user.StripeCustomerID = customerID
	user.UpdatedAt = time.Now()
	return nil
}

func (r *fakeUserRepo) SetSubscriptionState(ctx context.Context, userID string, status models.SubscriptionStatus, subscriptionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return db.ErrNotFound
	}
	user.SubscriptionStatus = status
	user.StripeSubscriptionID = subscriptionID
	user.UpdatedAt = time.Now()
	return nil
}

func (r *fakeUserRepo) ApplyBillingEvent(ctx context.Context, upd db.BillingEventUpdate) (bool, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var target *models.User
	for _, user := range r.users {
		if user.StripeCustomerID == upd.CustomerID {
			target = user
			break
		}
	}
	if target == nil {
		return false, "", nil
	}
	if upd.EventAt.Before(target.LastBillingEventAt) {
		return false, "", nil
	}
	if upd.EventAt.Equal(target.LastBillingEventAt) && upd.EventID == target.LastBillingEventID {
		return false, "", nil
	}
	target.SubscriptionStatus = upd.Status
	if upd.SetSubscriptionID {
		target.StripeSubscriptionID = upd.SubscriptionID
	}
	target.LastBillingEventID = upd.EventID
	target.LastBillingEventAt = upd.EventAt
	target.UpdatedAt = time.Now()
	return true, target.ID, nil
}

func (r *fakeUserRepo) snapshot(userID string) models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.users[userID]
}

// fakeCache is an in-memory cache.Cache that records deletions.
type fakeCache struct {
	mu      sync.Mutex
	entries map[string]string
	deleted []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]string)}
}

func (c *fakeCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries[key], nil
}

func (c *fakeCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	c.deleted = append(c.deleted, key)
	return nil
}

// fakeGateway is a configurable billing.Gateway that counts calls.
type fakeGateway struct {
	mu sync.Mutex

	customers     map[string]*billing.Customer // by id
	byEmail       map[string]*billing.Customer
	subscriptions map[string]*billing.Subscription // by id
	activeSub     map[string]*billing.Subscription // by customer id
	sessions      map[string]*billing.CheckoutSession

	checkoutURL string
	portalURL   string
	event       *billing.Event
	parseErr    error

	createCustomerCalls int
	createSessionCalls  int
	calls               int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		customers:     make(map[string]*billing.Customer),
		byEmail:       make(map[string]*billing.Customer),
		subscriptions: make(map[string]*billing.Subscription),
		activeSub:     make(map[string]*billing.Subscription),
		sessions:      make(map[string]*billing.CheckoutSession),
		checkoutURL:   "https://checkout.example.com/cs_test_1",
		portalURL:     "https://portal.example.com/bps_test_1",
	}
}

func (g *fakeGateway) addCustomer(c *billing.Customer) {
	g.customers[c.ID] = c
	if c.Email != "" {
		g.byEmail[c.Email] = c
	}
}

func (g *fakeGateway) record() {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()
}

func (g *fakeGateway) CreateCustomer(ctx context.Context, email, userID string) (*billing.Customer, error) {
	g.record()
	g.mu.Lock()
	defer g.mu.Unlock()
	g.createCustomerCalls++
	c := &billing.Customer{ID: "cus_new_" + userID, Email: email}
	g.customers[c.ID] = c
	return c, nil
}

func (g *fakeGateway) RetrieveCustomer(ctx context.Context, customerID string) (*billing.Customer, error) {
	g.record()
	if c, ok := g.customers[customerID]; ok {
		return c, nil
	}
	return nil, billing.ErrCustomerNotFound
}

func (g *fakeGateway) FindCustomerByEmail(ctx context.Context, email string) (*billing.Customer, error) {
	g.record()
	if c, ok := g.byEmail[email]; ok {
		return c, nil
	}
	return nil, billing.ErrCustomerNotFound
}

func (g *fakeGateway) CreateCheckoutSession(ctx context.Context, customerID, priceID, successURL, cancelURL, userID string) (*billing.CheckoutSession, error) {
	g.record()
	g.mu.Lock()
	defer g.mu.Unlock()
	g.createSessionCalls++
	return &billing.CheckoutSession{ID: "cs_test_1", URL: g.checkoutURL, CustomerID: customerID}, nil
}

func (g *fakeGateway) RetrieveCheckoutSession(ctx context.Context, sessionID string) (*billing.CheckoutSession, error) {
	g.record()
	if s, ok := g.sessions[sessionID]; ok {
		return s, nil
	}
	return nil, billing.ErrCustomerNotFound
}

func (g *fakeGateway) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	g.record()
	return g.portalURL, nil
}

func (g *fakeGateway) GetSubscription(ctx context.Context, subscriptionID string) (*billing.Subscription, error) {
	g.record()
	if s, ok := g.subscriptions[subscriptionID]; ok {
		return s, nil
	}
	return nil, billing.ErrSubscriptionNotFound
}

func (g *fakeGateway) FindActiveSubscription(ctx context.Context, customerID string) (*billing.Subscription, error) {
	g.record()
	if s, ok := g.activeSub[customerID]; ok {
		return s, nil
	}
	return nil, billing.ErrSubscriptionNotFound
}

func (g *fakeGateway) CancelAtPeriodEnd(ctx context.Context, subscriptionID string) (*billing.Subscription, error) {
	g.record()
	s, ok := g.subscriptions[subscriptionID]
	if !ok {
		return nil, billing.ErrSubscriptionNotFound
	}
	canceled := *s
	canceled.CancelAtPeriodEnd = true
	return &canceled, nil
}

func (g *fakeGateway) ParseWebhookEvent(payload []byte, signature string) (*billing.Event, error) {
	g.record()
	if g.parseErr != nil {
		return nil, g.parseErr
	}
	return g.event, nil
}

func (g *fakeGateway) totalCalls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

// fakePlaylistRepo is an in-memory db.PlaylistRepository.
type fakePlaylistRepo struct {
	mu        sync.Mutex
	playlists map[string]*models.Playlist
	access    map[string]map[string]*models.PlaylistAccess
}

func newFakePlaylistRepo(playlists ...*models.Playlist) *fakePlaylistRepo {
	repo := &fakePlaylistRepo{
		playlists: make(map[string]*models.Playlist),
		access:    make(map[string]map[string]*models.PlaylistAccess),
	}
	for _, p := range playlists {
		copied := *p
		repo.playlists[p.ID] = &copied
	}
	return repo
}

func (r *fakePlaylistRepo) Create(ctx context.Context, playlist *models.Playlist) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *playlist
	copied.CreatedAt = time.Now()
	copied.UpdatedAt = copied.CreatedAt
	r.playlists[playlist.ID] = &copied
	return nil
}

func (r *fakePlaylistRepo) GetByID(ctx context.Context, playlistID string) (*models.Playlist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.playlists[playlistID]
	if !ok {
		return nil, db.ErrNotFound
	}
	copied := *p
	copied.Songs = append([]string{}, p.Songs...)
	return &copied, nil
}

func (r *fakePlaylistRepo) ListByOwner(ctx context.Context, ownerID string) ([]*models.Playlist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Playlist
	for _, p := range r.playlists {
		if p.OwnerID == ownerID {
			copied := *p
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakePlaylistRepo) Update(ctx context.Context, playlistID string, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.playlists[playlistID]
	if !ok {
		return db.ErrNotFound
	}
	for path, value := range fields {
		switch path {
		case "name":
			p.Name = value.(string)
		case "description":
			p.Description = value.(string)
		case "isPublic":
			p.IsPublic = value.(bool)
		case "tags":
			p.Tags = value.([]string)
		case "shareCount":
			p.ShareCount = value.(int)
		}
	}
	p.UpdatedAt = time.Now()
	return nil
}

func (r *fakePlaylistRepo) ReplaceSongs(ctx context.Context, playlistID string, songs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.playlists[playlistID]
	if !ok {
		return db.ErrNotFound
	}
	p.Songs = append([]string{}, songs...)
	p.UpdatedAt = time.Now()
	return nil
}

func (r *fakePlaylistRepo) Delete(ctx context.Context, playlistID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.playlists, playlistID)
	delete(r.access, playlistID)
	return nil
}

func (r *fakePlaylistRepo) GetAccess(ctx context.Context, playlistID, userID string) (*models.PlaylistAccess, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if grants, ok := r.access[playlistID]; ok {
		if a, ok := grants[userID]; ok {
			copied := *a
			return &copied, nil
		}
	}
	return nil, db.ErrNotFound
}

func (r *fakePlaylistRepo) SetAccess(ctx context.Context, playlistID string, access *models.PlaylistAccess) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.access[playlistID] == nil {
		r.access[playlistID] = make(map[string]*models.PlaylistAccess)
	}
	copied := *access
	r.access[playlistID][access.UserID] = &copied
	return nil
}

func (r *fakePlaylistRepo) RemoveAccess(ctx context.Context, playlistID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if grants, ok := r.access[playlistID]; ok {
		delete(grants, userID)
	}
	return nil
}
