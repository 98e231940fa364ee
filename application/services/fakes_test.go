package services

import (
	"context"
	"sort"
	"sync"
	"testing"

	"meetgraph/domain/chat"
	"meetgraph/domain/connection"
	"meetgraph/domain/events"
	"meetgraph/domain/user"
	"meetgraph/infrastructure/cache"
	apperrors "meetgraph/pkg/errors"

	"go.uber.org/zap"
)

// fakeUserRepo is an in-memory ports.UserRepository
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*user.User
}

func newFakeUserRepo(users ...*user.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*user.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) FindByID(_ context.Context, userID string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return nil, apperrors.NewNotFoundError("user")
	}
	clone := *u
	return &clone, nil
}

func (r *fakeUserRepo) FindUsersExcluding(_ context.Context, excludeIDs map[string]struct{}, skip, limit int) ([]user.PublicProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []user.PublicProfile
	for _, u := range r.users {
		if _, excluded := excludeIDs[u.ID]; excluded {
			continue
		}
		out = append(out, u.Public())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	if skip >= len(out) {
		return []user.PublicProfile{}, nil
	}
	end := skip + limit
	if end > len(out) {
		end = len(out)
	}
	return out[skip:end], nil
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, userID string, update user.ProfileUpdate) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return nil, apperrors.NewNotFoundError("user")
	}
	update.Apply(u)
	clone := *u
	return &clone, nil
}

func (r *fakeUserRepo) SetPremium(_ context.Context, userID string, membership user.MembershipType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return apperrors.NewNotFoundError("user")
	}
	u.IsPremium = true
	u.MembershipType = membership
	return nil
}

func (r *fakeUserRepo) Save(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *u
	r.users[u.ID] = &clone
	return nil
}

// fakeConnRepo is an in-memory ports.ConnectionRepository enforcing the
// same pair-uniqueness rule as the DynamoDB implementation.
type fakeConnRepo struct {
	mu    sync.Mutex
	byID  map[string]*connection.Connection
	pairs map[string]string
}

func newFakeConnRepo() *fakeConnRepo {
	return &fakeConnRepo{
		byID:  make(map[string]*connection.Connection),
		pairs: make(map[string]string),
	}
}

func (r *fakeConnRepo) Create(_ context.Context, conn *connection.Connection) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	pair := connection.PairKey(conn.FromUserID, conn.ToUserID)
	if _, exists := r.pairs[pair]; exists {
		return apperrors.NewDuplicateEdgeError(conn.FromUserID, conn.ToUserID)
	}

	clone := *conn
	r.byID[conn.ID] = &clone
	r.pairs[pair] = conn.ID
	return nil
}

func (r *fakeConnRepo) FindByID(_ context.Context, connectionID string) (*connection.Connection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	conn, ok := r.byID[connectionID]
	if !ok {
		return nil, apperrors.NewNotFoundError("connection")
	}
	clone := *conn
	return &clone, nil
}

func (r *fakeConnRepo) findForUser(userID string, keep func(*connection.Connection) bool) []*connection.Connection {
	var out []*connection.Connection
	for _, conn := range r.byID {
		if conn.Involves(userID) && keep(conn) {
			clone := *conn
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *fakeConnRepo) FindAllForUser(_ context.Context, userID string) ([]*connection.Connection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.findForUser(userID, func(*connection.Connection) bool { return true }), nil
}

func (r *fakeConnRepo) FindAcceptedForUser(_ context.Context, userID string) ([]*connection.Connection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.findForUser(userID, func(c *connection.Connection) bool {
		return c.Status == connection.StatusAccepted
	}), nil
}

func (r *fakeConnRepo) FindPendingForUser(_ context.Context, userID string) ([]*connection.Connection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.findForUser(userID, func(c *connection.Connection) bool {
		return c.ToUserID == userID && c.Status == connection.StatusInterested
	}), nil
}

func (r *fakeConnRepo) UpdateStatus(_ context.Context, connectionID string, status connection.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	conn, ok := r.byID[connectionID]
	if !ok {
		return apperrors.NewNotFoundError("connection")
	}
	conn.Status = status
	return nil
}

// fakeChatRepo is an in-memory ports.ChatRepository
type fakeChatRepo struct {
	mu      sync.Mutex
	threads map[string][]*chat.Message
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{threads: make(map[string][]*chat.Message)}
}

func (r *fakeChatRepo) GetThread(_ context.Context, userID, targetUserID string, limit int) ([]*chat.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msgs := r.threads[chat.ThreadKey(userID, targetUserID)]
	if len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	out := make([]*chat.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (r *fakeChatRepo) Append(_ context.Context, msg *chat.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := chat.ThreadKey(msg.SenderID, msg.RecipientID)
	clone := *msg
	r.threads[key] = append(r.threads[key], &clone)
	return nil
}

// capturingPublisher records published events
type capturingPublisher struct {
	mu     sync.Mutex
	events []events.DomainEvent
}

func (p *capturingPublisher) Publish(_ context.Context, event events.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.GetEventType()
	}
	return out
}

// testEnv wires the services over in-memory infrastructure
type testEnv struct {
	users       *fakeUserRepo
	conns       *fakeConnRepo
	chats       *fakeChatRepo
	publisher   *capturingPublisher
	store       *cache.MemoryStore
	engine      *cache.Engine
	invalidator *cache.Invalidator

	feed        *FeedService
	connections *ConnectionService
	profiles    *ProfileService
	chat        *ChatService
}

func newTestEnv(t *testing.T, users ...*user.User) *testEnv {
	t.Helper()

	logger := zap.NewNop()
	store := cache.NewMemoryStore()
	t.Cleanup(func() { store.Close() })

	engine := cache.NewEngine(store, cache.NewMetrics(), logger)
	invalidator := cache.NewInvalidator(engine, logger)

	env := &testEnv{
		users:       newFakeUserRepo(users...),
		conns:       newFakeConnRepo(),
		chats:       newFakeChatRepo(),
		publisher:   &capturingPublisher{},
		store:       store,
		engine:      engine,
		invalidator: invalidator,
	}
	env.feed = NewFeedService(env.users, env.conns, engine, logger)
	env.connections = NewConnectionService(env.users, env.conns, engine, invalidator, env.publisher, logger)
	env.profiles = NewProfileService(env.users, engine, invalidator, env.publisher, logger)
	env.chat = NewChatService(env.chats, env.connections, engine, invalidator, logger)
	return env
}

func testUser(id, firstName string) *user.User {
	return &user.User{
		ID:        id,
		FirstName: firstName,
		LastName:  "Tester",
		Email:     firstName + "@example.com",
		Age:       30,
	}
}
