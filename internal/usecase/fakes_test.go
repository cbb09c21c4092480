package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"court-booking/internal/data/entity"
	"court-booking/internal/data/repository"
	"court-booking/internal/gateway"
	"court-booking/internal/notifier"
	"court-booking/pkg/money"
	"court-booking/pkg/timerange"
	"court-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memStore backs every fake repository. Each call takes the store lock;
// memTx serialises whole transactions on top of that.
type memStore struct {
	mu       sync.Mutex
	courts   map[uuid.UUID]entity.Court
	bookings map[uuid.UUID]entity.Booking
	txns     map[uuid.UUID]entity.Transaction
	rules    map[uuid.UUID]entity.PricingRule
	vouchers map[uuid.UUID]entity.Voucher
	usages   []entity.VoucherUsage
}

func newMemStore() *memStore {
	return &memStore{
		courts:   make(map[uuid.UUID]entity.Court),
		bookings: make(map[uuid.UUID]entity.Booking),
		txns:     make(map[uuid.UUID]entity.Transaction),
		rules:    make(map[uuid.UUID]entity.PricingRule),
		vouchers: make(map[uuid.UUID]entity.Voucher),
	}
}

func (s *memStore) repository() *repository.Repository {
	repo := &repository.Repository{
		Court:        &memCourtRepo{s},
		Booking:      &memBookingRepo{s},
		Transaction:  &memTransactionRepo{s},
		PricingRule:  &memPricingRuleRepo{s},
		Voucher:      &memVoucherRepo{s},
		VoucherUsage: &memVoucherUsageRepo{s},
	}
	repo.Tx = &memTx{repo: repo}
	return repo
}

type memTx struct {
	mu   sync.Mutex
	repo *repository.Repository
}

func (t *memTx) WithinTx(_ context.Context, fn func(repo *repository.Repository) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(t.repo)
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	end := min(offset+limit, len(items))
	return items[offset:end]
}

type memCourtRepo struct{ s *memStore }

func (r *memCourtRepo) Create(_ context.Context, court *entity.Court) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.courts[court.ID] = *court
	return nil
}

func (r *memCourtRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Court, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.courts[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *memCourtRepo) Update(_ context.Context, court *entity.Court) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.courts[court.ID]; !ok {
		return fmt.Errorf("court %s not found", court.ID)
	}
	r.s.courts[court.ID] = *court
	return nil
}

func (r *memCourtRepo) UpdateStatus(_ context.Context, id uuid.UUID, status entity.CourtStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.courts[id]
	if !ok {
		return fmt.Errorf("court %s not found", id)
	}
	c.Status = status
	r.s.courts[id] = c
	return nil
}

func (r *memCourtRepo) filtered(activeOnly bool) []*entity.Court {
	var out []*entity.Court
	for _, c := range r.s.courts {
		if activeOnly && c.Status != entity.CourtStatusActive {
			continue
		}
		out = append(out, &c)
	}
	slices.SortFunc(out, func(a, b *entity.Court) int { return strings.Compare(a.Name, b.Name) })
	return out
}

func (r *memCourtRepo) List(_ context.Context, activeOnly bool, limit, offset int) ([]*entity.Court, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return page(r.filtered(activeOnly), limit, offset), nil
}

func (r *memCourtRepo) Count(_ context.Context, activeOnly bool) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.filtered(activeOnly))), nil
}

type memBookingRepo struct{ s *memStore }

func (r *memBookingRepo) overlapping(courtID uuid.UUID, start, end time.Time) []*entity.Booking {
	var out []*entity.Booking
	for _, b := range r.s.bookings {
		if b.CourtID != courtID || b.Status == entity.BookingStatusCancelled {
			continue
		}
		if timerange.Overlaps(b.StartTime, b.EndTime, start, end) {
			out = append(out, &b)
		}
	}
	slices.SortFunc(out, func(a, b *entity.Booking) int { return a.StartTime.Compare(b.StartTime) })
	return out
}

// Create enforces the same rule as the exclusion constraint
func (r *memBookingRepo) Create(_ context.Context, booking *entity.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if booking.Status != entity.BookingStatusCancelled &&
		len(r.overlapping(booking.CourtID, booking.StartTime, booking.EndTime)) > 0 {
		return repository.ErrBookingOverlap
	}
	r.s.bookings[booking.ID] = *booking
	return nil
}

func (r *memBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r *memBookingRepo) FindOverlapping(_ context.Context, courtID uuid.UUID, start, end time.Time) ([]*entity.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.overlapping(courtID, start, end), nil
}

func (r *memBookingRepo) FindByCourtInRange(ctx context.Context, courtID uuid.UUID, from, to time.Time) ([]*entity.Booking, error) {
	return r.FindOverlapping(ctx, courtID, from, to)
}

func (r *memBookingRepo) LockCourt(context.Context, uuid.UUID) error {
	return nil
}

func (r *memBookingRepo) UpdateStatus(_ context.Context, id uuid.UUID, status entity.BookingStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok {
		return fmt.Errorf("booking %s not found", id)
	}
	b.Status = status
	r.s.bookings[id] = b
	return nil
}

func (r *memBookingRepo) TransitionStatus(_ context.Context, id uuid.UUID, from, to entity.BookingStatus) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok || b.Status != from {
		return false, nil
	}
	b.Status = to
	r.s.bookings[id] = b
	return true, nil
}

func (r *memBookingRepo) byUser(userID uuid.UUID, scope repository.BookingScope, now time.Time) []*entity.Booking {
	var out []*entity.Booking
	for _, b := range r.s.bookings {
		if b.UserID != userID {
			continue
		}
		if scope == repository.ScopeUpcoming && b.EndTime.Before(now) {
			continue
		}
		if scope == repository.ScopePast && !b.EndTime.Before(now) {
			continue
		}
		out = append(out, &b)
	}
	slices.SortFunc(out, func(a, b *entity.Booking) int {
		if scope == repository.ScopeUpcoming {
			return a.StartTime.Compare(b.StartTime)
		}
		return b.StartTime.Compare(a.StartTime)
	})
	return out
}

func (r *memBookingRepo) FindByUserID(_ context.Context, userID uuid.UUID, scope repository.BookingScope, now time.Time, limit, offset int) ([]*entity.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return page(r.byUser(userID, scope, now), limit, offset), nil
}

func (r *memBookingRepo) CountByUserID(_ context.Context, userID uuid.UUID, scope repository.BookingScope, now time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.byUser(userID, scope, now))), nil
}

func (r *memBookingRepo) matching(f repository.BookingFilter) []*entity.Booking {
	var out []*entity.Booking
	for _, b := range r.s.bookings {
		if f.CourtID != nil && b.CourtID != *f.CourtID {
			continue
		}
		if f.UserID != nil && b.UserID != *f.UserID {
			continue
		}
		if f.Status != nil && b.Status != *f.Status {
			continue
		}
		out = append(out, &b)
	}
	slices.SortFunc(out, func(a, b *entity.Booking) int { return b.StartTime.Compare(a.StartTime) })
	return out
}

func (r *memBookingRepo) List(_ context.Context, filter repository.BookingFilter, limit, offset int) ([]*entity.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return page(r.matching(filter), limit, offset), nil
}

func (r *memBookingRepo) Count(_ context.Context, filter repository.BookingFilter) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.matching(filter))), nil
}

type memTransactionRepo struct{ s *memStore }

func (r *memTransactionRepo) Create(_ context.Context, txn *entity.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.txns[txn.ID] = *txn
	return nil
}

func (r *memTransactionRepo) FindByBookingID(_ context.Context, bookingID uuid.UUID) (*entity.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.txns {
		if t.BookingID == bookingID {
			return &t, nil
		}
	}
	return nil, nil
}

func (r *memTransactionRepo) UpdateStatus(_ context.Context, id uuid.UUID, status entity.TransactionStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.txns[id]
	if !ok {
		return fmt.Errorf("transaction %s not found", id)
	}
	t.Status = status
	r.s.txns[id] = t
	return nil
}

type memPricingRuleRepo struct{ s *memStore }

func (r *memPricingRuleRepo) Create(_ context.Context, rule *entity.PricingRule) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.rules[rule.ID] = *rule
	return nil
}

func (r *memPricingRuleRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.PricingRule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rule, ok := r.s.rules[id]
	if !ok {
		return nil, nil
	}
	return &rule, nil
}

// FindCandidates returns map order on purpose; the resolver sorts
func (r *memPricingRuleRepo) FindCandidates(_ context.Context, courtID uuid.UUID) ([]*entity.PricingRule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.PricingRule
	for _, rule := range r.s.rules {
		if rule.Status != entity.RuleStatusActive {
			continue
		}
		if rule.CourtID != nil && *rule.CourtID != courtID {
			continue
		}
		out = append(out, &rule)
	}
	return out, nil
}

func (r *memPricingRuleRepo) UpdateStatus(_ context.Context, id uuid.UUID, status entity.RuleStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rule, ok := r.s.rules[id]
	if !ok {
		return fmt.Errorf("pricing rule %s not found", id)
	}
	rule.Status = status
	r.s.rules[id] = rule
	return nil
}

func (r *memPricingRuleRepo) filtered(courtID *uuid.UUID) []*entity.PricingRule {
	var out []*entity.PricingRule
	for _, rule := range r.s.rules {
		if courtID != nil && (rule.CourtID == nil || *rule.CourtID != *courtID) {
			continue
		}
		out = append(out, &rule)
	}
	sortRules(out)
	return out
}

func (r *memPricingRuleRepo) List(_ context.Context, courtID *uuid.UUID, limit, offset int) ([]*entity.PricingRule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return page(r.filtered(courtID), limit, offset), nil
}

func (r *memPricingRuleRepo) Count(_ context.Context, courtID *uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.filtered(courtID))), nil
}

type memVoucherRepo struct{ s *memStore }

func (r *memVoucherRepo) Create(_ context.Context, voucher *entity.Voucher) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	voucher.Code = strings.ToUpper(voucher.Code)
	for _, v := range r.s.vouchers {
		if v.Code == voucher.Code {
			return repository.ErrDuplicateCode
		}
	}
	r.s.vouchers[voucher.ID] = *voucher
	return nil
}

func (r *memVoucherRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Voucher, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.vouchers[id]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (r *memVoucherRepo) FindByCode(_ context.Context, code string) (*entity.Voucher, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, v := range r.s.vouchers {
		if v.Code == code {
			return &v, nil
		}
	}
	return nil, nil
}

func (r *memVoucherRepo) FindByCodeForUpdate(ctx context.Context, code string) (*entity.Voucher, error) {
	return r.FindByCode(ctx, code)
}

func (r *memVoucherRepo) IncrementUsage(_ context.Context, id uuid.UUID) (*entity.Voucher, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.vouchers[id]
	if !ok || v.CurrentUses >= v.MaxUses {
		return nil, fmt.Errorf("voucher %s has no remaining uses", id)
	}
	v.CurrentUses++
	if v.CurrentUses >= v.MaxUses {
		v.Status = entity.VoucherStatusDepleted
	}
	r.s.vouchers[id] = v
	return &v, nil
}

func (r *memVoucherRepo) UpdateStatus(_ context.Context, id uuid.UUID, status entity.VoucherStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.vouchers[id]
	if !ok {
		return fmt.Errorf("voucher %s not found", id)
	}
	v.Status = status
	r.s.vouchers[id] = v
	return nil
}

func (r *memVoucherRepo) List(_ context.Context, limit, offset int) ([]*entity.Voucher, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Voucher
	for _, v := range r.s.vouchers {
		out = append(out, &v)
	}
	slices.SortFunc(out, func(a, b *entity.Voucher) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return page(out, limit, offset), nil
}

func (r *memVoucherRepo) Count(context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.vouchers)), nil
}

type memVoucherUsageRepo struct{ s *memStore }

func (r *memVoucherUsageRepo) Create(_ context.Context, usage *entity.VoucherUsage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.usages = append(r.s.usages, *usage)
	return nil
}

func (r *memVoucherUsageRepo) FindByVoucherID(_ context.Context, voucherID uuid.UUID) ([]*entity.VoucherUsage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.VoucherUsage
	for _, u := range r.s.usages {
		if u.VoucherID == voucherID {
			out = append(out, &u)
		}
	}
	return out, nil
}

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) AuthorizeAndCapture(ctx context.Context, amount money.Money, description string) (*gateway.CaptureResult, error) {
	args := m.Called(ctx, amount, description)
	result, _ := args.Get(0).(*gateway.CaptureResult)
	return result, args.Error(1)
}

func (m *mockGateway) Refund(ctx context.Context, reference string) error {
	return m.Called(ctx, reference).Error(0)
}

func (m *mockGateway) Name() string {
	return entity.PaymentMethodMock
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) NotifyBookingConfirmed(ctx context.Context, event notifier.BookingConfirmed) error {
	return m.Called(ctx, event).Error(0)
}

// fixedNow is Sunday 2026-03-01 09:00 UTC
var fixedNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	store *memStore
	repo  *repository.Repository
	gw    *mockGateway
	ntf   *mockNotifier
	svc   *Service
	now   time.Time
}

func testConfig() *utils.Config {
	return &utils.Config{
		App:     utils.AppConfig{Timezone: "UTC"},
		Booking: utils.BookingConfig{OpenHour: 8, CloseHour: 22, SlotMinutes: 60},
		Payment: utils.PaymentConfig{Timeout: time.Second},
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := newMemStore()
	repo := store.repository()
	gw := &mockGateway{}
	ntf := &mockNotifier{}
	svc := NewService(repo, gw, ntf, testConfig(), zap.NewNop())

	f := &fixture{store: store, repo: repo, gw: gw, ntf: ntf, svc: svc, now: fixedNow}
	clock := func() time.Time { return f.now }

	svc.Court.(*courtService).now = clock
	svc.Pricing.(*pricingService).now = clock
	svc.Voucher.(*voucherService).now = clock
	svc.Booking.(*bookingService).now = clock

	return f
}

func (f *fixture) addCourt(t *testing.T, price string) *entity.Court {
	t.Helper()
	court := &entity.Court{
		Base:             entity.NewBase(f.now),
		Name:             "Court " + uuid.NewString()[:4],
		CourtType:        "hard",
		BasePricePerHour: money.MustParse(price),
		Status:           entity.CourtStatusActive,
		OpenHour:         8,
		CloseHour:        22,
	}
	require.NoError(t, f.repo.Court.Create(context.Background(), court))
	return court
}

func (f *fixture) addRule(t *testing.T, rule entity.PricingRule) *entity.PricingRule {
	t.Helper()
	if rule.ID == uuid.Nil {
		rule.Base = entity.NewBase(f.now)
	}
	if rule.Status == "" {
		rule.Status = entity.RuleStatusActive
	}
	require.NoError(t, f.repo.PricingRule.Create(context.Background(), &rule))
	return &rule
}

func (f *fixture) addVoucher(t *testing.T, code, value string, maxUses int) *entity.Voucher {
	t.Helper()
	v := &entity.Voucher{
		Base:    entity.NewBase(f.now),
		Code:    code,
		Value:   money.MustParse(value),
		MaxUses: maxUses,
		Status:  entity.VoucherStatusActive,
	}
	require.NoError(t, f.repo.Voucher.Create(context.Background(), v))
	return v
}

// addBooking inserts directly, bypassing the service checks
func (f *fixture) addBooking(t *testing.T, court *entity.Court, userID uuid.UUID, start, end time.Time, status entity.BookingStatus) *entity.Booking {
	t.Helper()
	b := &entity.Booking{
		Base:      entity.NewBase(f.now),
		UserID:    userID,
		CourtID:   court.ID,
		StartTime: start,
		EndTime:   end,
		Status:    status,
	}
	require.NoError(t, f.repo.Booking.Create(context.Background(), b))
	return b
}

func customer() utils.Actor {
	return utils.Actor{UserID: uuid.New(), Role: utils.RoleCustomer}
}

func admin() utils.Actor {
	return utils.Actor{UserID: uuid.New(), Role: utils.RoleAdmin}
}

func ptr[T any](v T) *T {
	return &v
}
