package assistant

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifex-api/internal/application/ads"
	"lifex-api/internal/application/quota"
	"lifex-api/internal/application/recommend"
	"lifex-api/internal/config"
	"lifex-api/internal/domain/entity"
	"lifex-api/internal/domain/repository"
	"lifex-api/internal/domain/service"
	"lifex-api/internal/infrastructure/llm"
	apperrors "lifex-api/pkg/errors"
)

const (
	testUserID      = "8f6e2f61-2a0f-44f5-9a51-54c4b913f001"
	testOtherUserID = "3c1d9a04-7be2-4f0e-8d23-0a9f5cd2a002"
)

// fakeUserRepo 内存用户仓储
type fakeUserRepo struct {
	users map[string]*entity.User
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error { return nil }
func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.users[id], nil
}
func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return nil, nil
}
func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error { return nil }
func (r *fakeUserRepo) TouchLastLogin(ctx context.Context, id string) error { return nil }

// fakeConvRepo 内存对话仓储，记录 CreatePair 调用
type fakeConvRepo struct {
	pairs [][2]*entity.ConversationMessage
}

func (r *fakeConvRepo) Create(ctx context.Context, msg *entity.ConversationMessage) error {
	return nil
}

func (r *fakeConvRepo) CreatePair(ctx context.Context, userMsg, assistantMsg *entity.ConversationMessage) error {
	r.pairs = append(r.pairs, [2]*entity.ConversationMessage{userMsg, assistantMsg})
	return nil
}

func (r *fakeConvRepo) ListBySession(ctx context.Context, userID, sessionID string, p repository.Pagination) (*repository.PagedResult[*entity.ConversationMessage], error) {
	var items []*entity.ConversationMessage
	for _, pair := range r.pairs {
		for _, m := range pair {
			if m.UserID == userID && m.SessionID == sessionID {
				items = append(items, m)
			}
		}
	}
	return repository.NewPagedResult(items, int64(len(items)), p), nil
}

func (r *fakeConvRepo) LatestBySession(ctx context.Context, userID, sessionID string, n int) ([]*entity.ConversationMessage, error) {
	return nil, nil
}

func (r *fakeConvRepo) CountByUser(ctx context.Context, userID string) (int64, error) {
	return int64(len(r.pairs) * 2), nil
}

// fakeBusinessRepo 内存商家仓储，Search 固定返回预置商家
type fakeBusinessRepo struct {
	businesses []*entity.Business
}

func (r *fakeBusinessRepo) Create(ctx context.Context, b *entity.Business) error { return nil }
func (r *fakeBusinessRepo) GetByID(ctx context.Context, id string) (*entity.Business, error) {
	return nil, nil
}
func (r *fakeBusinessRepo) GetByIDs(ctx context.Context, ids []string) ([]*entity.Business, error) {
	return nil, nil
}
func (r *fakeBusinessRepo) Search(ctx context.Context, filter repository.BusinessFilter, p repository.Pagination) (*repository.PagedResult[*entity.Business], error) {
	var items []*entity.Business
	for _, b := range r.businesses {
		if filter.Category == "" || b.Category == filter.Category {
			items = append(items, b)
		}
	}
	return repository.NewPagedResult(items, int64(len(items)), p), nil
}
func (r *fakeBusinessRepo) TopRated(ctx context.Context, category entity.BusinessCategory, n int) ([]*entity.Business, error) {
	return r.businesses, nil
}

// fakePublisher 记录发布的用量事件
type fakePublisher struct {
	events []service.UsageEventInput
}

func (p *fakePublisher) Publish(ctx context.Context, in service.UsageEventInput) error {
	p.events = append(p.events, in)
	return nil
}

// memoryStore 内存用量存储
type memoryStore struct {
	counts map[string]int
	incErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{counts: make(map[string]int)}
}

func (s *memoryStore) key(identityKey string, feature entity.Feature, periodKey string) string {
	return fmt.Sprintf("%s|%s|%s", identityKey, feature, periodKey)
}

func (s *memoryStore) GetCount(ctx context.Context, identityKey string, feature entity.Feature, periodKey string) (int, error) {
	return s.counts[s.key(identityKey, feature, periodKey)], nil
}

func (s *memoryStore) Increment(ctx context.Context, identityKey string, feature entity.Feature, periodKey string) (int, error) {
	if s.incErr != nil {
		return 0, s.incErr
	}
	k := s.key(identityKey, feature, periodKey)
	s.counts[k]++
	return s.counts[k], nil
}

type serviceFixture struct {
	service   *Service
	policy    *quota.Policy
	stores    *quota.StoreSet
	store     *memoryStore
	convRepo  *fakeConvRepo
	publisher *fakePublisher
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	quotaCfg := &config.QuotaConfig{
		AnonymousLimits: map[string]int{"chat": 2},
		TierLimits: map[string]map[string]config.FeatureLimit{
			"free": {
				"chat": {Max: 5, Period: "day"},
			},
			"premium": {
				"chat": {Max: -1, Period: "day"},
			},
		},
	}
	policy := quota.NewPolicy(quotaCfg)

	store := newMemoryStore()
	stores := quota.NewStoreSet(store, store)

	// 空 provider 表：模型不可用，对话路径必然降级
	factory := llm.NewEinoFactory(&config.Config{
		LLM: config.LLMConfig{Providers: map[string]config.ProviderConfig{}},
	})

	businessRepo := &fakeBusinessRepo{businesses: []*entity.Business{
		{ID: "b-1", Name: "Grind House", Category: entity.CategoryCoffee, Rating: 4.8, Active: true},
		{ID: "b-2", Name: "Bean Scene", Category: entity.CategoryCoffee, Rating: 4.5, Active: true},
	}}

	convRepo := &fakeConvRepo{}
	publisher := &fakePublisher{}

	assistantCfg := &config.AssistantConfig{
		DefaultPersona:  "coly",
		ReplyTimeout:    time.Second,
		HistoryTurns:    3,
		MaxMessageChars: 200,
	}

	responder := NewResponder(
		factory,
		recommend.NewEngine(businessRepo, nil, nil),
		ads.NewSelector(nil, false),
		convRepo,
		assistantCfg,
	)

	svc := NewService(
		quota.NewGate(policy, stores),
		quota.NewRecorder(policy, stores, false),
		responder,
		&fakeUserRepo{users: map[string]*entity.User{
			testUserID:      {ID: testUserID, Email: "a@b.c", Name: "A", Tier: entity.TierFree},
			testOtherUserID: {ID: testOtherUserID, Email: "b@b.c", Name: "B", Tier: entity.TierFree},
		}},
		convRepo,
		publisher,
		assistantCfg,
	)

	return &serviceFixture{
		service:   svc,
		policy:    policy,
		stores:    stores,
		store:     store,
		convRepo:  convRepo,
		publisher: publisher,
	}
}

func TestChatRecommendationIntent(t *testing.T) {
	f := newServiceFixture(t)

	out, err := f.service.Chat(context.Background(), ChatInput{
		UserID:    "anonymous",
		SessionID: "session-1",
		Message:   "find me a good coffee shop nearby",
	})

	require.NoError(t, err)
	require.NotNil(t, out.Reply)
	assert.Equal(t, SourceModel, out.Reply.Source)
	assert.Equal(t, IntentRecommendation, out.Reply.Intent)
	assert.Len(t, out.Reply.Recommendations, 2)
	assert.Equal(t, entity.PersonaColy, out.Persona)
	assert.Equal(t, 1, out.Quota.Current)
	assert.Equal(t, 2, out.Quota.Limit)
	assert.Equal(t, 1, out.Quota.Remaining)
}

// 模型不可用时对话路径降级为人设固定话术，不返回错误
func TestChatFallsBackWhenModelUnavailable(t *testing.T) {
	f := newServiceFixture(t)

	out, err := f.service.Chat(context.Background(), ChatInput{
		UserID:    "anonymous",
		SessionID: "session-1",
		Message:   "tell me a joke",
	})

	require.NoError(t, err)
	require.NotNil(t, out.Reply)
	assert.Equal(t, SourceFallback, out.Reply.Source)
	assert.Equal(t, personaProfiles[entity.PersonaColy].FallbackMessage, out.Reply.Message)
	assert.NotEmpty(t, out.Reply.FollowUpQuestions)
}

func TestChatQuotaDeniedReturnsSnapshot(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := f.service.Chat(ctx, ChatInput{
			UserID:    "anonymous",
			SessionID: "session-1",
			Message:   "hello there",
		})
		require.NoError(t, err)
	}

	out, err := f.service.Chat(ctx, ChatInput{
		UserID:    "anonymous",
		SessionID: "session-1",
		Message:   "one more",
	})

	require.ErrorIs(t, err, apperrors.ErrQuotaExceeded)
	require.NotNil(t, out)
	assert.Nil(t, out.Reply)
	assert.Equal(t, 2, out.Quota.Current)
	assert.Equal(t, 2, out.Quota.Limit)
	assert.Equal(t, 0, out.Quota.Remaining)
	assert.Equal(t, "session-1", out.SessionID)
}

// 匿名配额以会话为键，换会话重新计数
func TestChatAnonymousQuotaIsPerSession(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := f.service.Chat(ctx, ChatInput{UserID: "anonymous", SessionID: "session-a", Message: "hi"})
		require.NoError(t, err)
	}
	_, err := f.service.Chat(ctx, ChatInput{UserID: "anonymous", SessionID: "session-a", Message: "hi"})
	require.ErrorIs(t, err, apperrors.ErrQuotaExceeded)

	out, err := f.service.Chat(ctx, ChatInput{UserID: "anonymous", SessionID: "session-b", Message: "hi"})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Quota.Current)
}

func TestChatDemoUnlimitedAndNotPersisted(t *testing.T) {
	f := newServiceFixture(t)

	out, err := f.service.Chat(context.Background(), ChatInput{
		UserID:    "demo-user",
		SessionID: "session-1",
		Message:   "hello",
	})

	require.NoError(t, err)
	assert.Equal(t, quota.Unlimited, out.Quota.Limit)
	assert.Equal(t, quota.Unlimited, out.Quota.Remaining)
	assert.Empty(t, f.store.counts)
	assert.Empty(t, f.convRepo.pairs)
}

func TestChatRegisteredPersistsConversation(t *testing.T) {
	f := newServiceFixture(t)

	out, err := f.service.Chat(context.Background(), ChatInput{
		UserID:    testUserID,
		SessionID: "session-1",
		Message:   "hello",
	})

	require.NoError(t, err)
	assert.Equal(t, 5, out.Quota.Limit)
	require.Len(t, f.convRepo.pairs, 1)
	pair := f.convRepo.pairs[0]
	assert.Equal(t, entity.RoleUser, pair[0].Role)
	assert.Equal(t, "hello", pair[0].Content)
	assert.Equal(t, entity.RoleAssistant, pair[1].Role)
	assert.Equal(t, out.Reply.Message, pair[1].Content)
}

func TestChatUnknownRegisteredUser(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.service.Chat(context.Background(), ChatInput{
		UserID:    "3b9556a4-07a3-4cb4-b7e6-1d2c5936c002",
		SessionID: "session-1",
		Message:   "hello",
	})

	require.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestChatAnonymousCannotUseMaxPersona(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.service.Chat(context.Background(), ChatInput{
		UserID:        "anonymous",
		SessionID:     "session-1",
		Message:       "hello",
		AssistantType: "max",
	})

	require.ErrorIs(t, err, apperrors.ErrPersonaForbidden)
}

func TestChatRejectsEmptyAndOversizedMessage(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.service.Chat(ctx, ChatInput{UserID: "anonymous", SessionID: "s", Message: "   "})
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeInvalidParam, appErr.Code)

	long := make([]rune, 201)
	for i := range long {
		long[i] = 'x'
	}
	_, err = f.service.Chat(ctx, ChatInput{UserID: "anonymous", SessionID: "s", Message: string(long)})
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeInvalidParam, appErr.Code)
}

func TestChatGeneratesSessionIDWhenMissing(t *testing.T) {
	f := newServiceFixture(t)

	out, err := f.service.Chat(context.Background(), ChatInput{
		UserID:  "anonymous",
		Message: "hello",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, out.SessionID)
}

// 非严格模式下记账失败静默放行，按裁决时的用量推算计数
func TestChatLenientAccountingContinues(t *testing.T) {
	f := newServiceFixture(t)
	f.store.incErr = errors.New("store down")

	out, err := f.service.Chat(context.Background(), ChatInput{
		UserID:    "anonymous",
		SessionID: "session-1",
		Message:   "hello",
	})

	require.NoError(t, err)
	require.NotNil(t, out.Reply)
	assert.False(t, out.Quota.Degraded)
	assert.Equal(t, 1, out.Quota.Current)
}

// 严格模式下记账失败也不回滚已生成的回复，只标记配额快照降级
func TestChatStrictAccountingDegradesButReplies(t *testing.T) {
	f := newServiceFixture(t)
	f.service.recorder = quota.NewRecorder(f.policy, f.stores, true)
	f.store.incErr = errors.New("store down")

	out, err := f.service.Chat(context.Background(), ChatInput{
		UserID:    "anonymous",
		SessionID: "session-1",
		Message:   "hello",
	})

	require.NoError(t, err)
	require.NotNil(t, out.Reply)
	assert.True(t, out.Quota.Degraded)
	assert.Equal(t, 1, out.Quota.Current)
}

func TestChatPublishesUsageEvent(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.service.Chat(context.Background(), ChatInput{
		UserID:    "anonymous",
		SessionID: "session-1",
		Message:   "hello",
	})

	require.NoError(t, err)
	require.Len(t, f.publisher.events, 1)
	ev := f.publisher.events[0]
	assert.Equal(t, "anon:session-1", ev.IdentityKey)
	assert.Equal(t, "anonymous", ev.IdentityClass)
	assert.Equal(t, "chat", ev.Feature)
	assert.True(t, ev.Fallback)
}

// 只读查询不消耗配额也不预留名额
func TestQuotaStateIsReadOnly(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	info, err := f.service.QuotaState(ctx, "anonymous", "session-1", entity.FeatureChat)
	require.NoError(t, err)
	assert.Equal(t, 0, info.Current)
	assert.Equal(t, 2, info.Limit)
	assert.Equal(t, 2, info.Remaining)

	_, err = f.service.Chat(ctx, ChatInput{UserID: "anonymous", SessionID: "session-1", Message: "hi"})
	require.NoError(t, err)

	info, err = f.service.QuotaState(ctx, "anonymous", "session-1", entity.FeatureChat)
	require.NoError(t, err)
	assert.Equal(t, 1, info.Current)
	assert.Equal(t, 1, info.Remaining)
}

func TestHistoryAnonymousForbidden(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.service.History(context.Background(), "anonymous", "session-1", repository.NewPagination(1, 20))

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeForbidden, appErr.Code)
}

func TestHistoryReturnsSessionMessages(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.service.Chat(ctx, ChatInput{UserID: testUserID, SessionID: "session-1", Message: "hello"})
	require.NoError(t, err)

	result, err := f.service.History(ctx, testUserID, "session-1", repository.NewPagination(1, 20))
	require.NoError(t, err)
	assert.Len(t, result.Items, 2)
	assert.EqualValues(t, 2, result.Total)
}

func TestHistoryScopedToOwner(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.service.Chat(ctx, ChatInput{UserID: testUserID, SessionID: "session-1", Message: "hello"})
	require.NoError(t, err)

	// 其他注册用户即便拿到会话 ID 也读不到消息
	result, err := f.service.History(ctx, testOtherUserID, "session-1", repository.NewPagination(1, 20))
	require.NoError(t, err)
	assert.Empty(t, result.Items)
	assert.EqualValues(t, 0, result.Total)
}
