package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/IngCristianAraya/bodegapp-sub000/internal/dto"
	"github.com/IngCristianAraya/bodegapp-sub000/internal/model"
	"github.com/IngCristianAraya/bodegapp-sub000/internal/reconcile"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type registerFixture struct {
	registers *fakeRegisterRepo
	movements *fakeMovementRepo
	sales     *fakeSaleRepo
	tenants   *fakeTenantRepo
	svc       RegisterService
	movSvc    MovementService
}

func newRegisterFixture() *registerFixture {
	registers := newFakeRegisterRepo()
	movements := &fakeMovementRepo{}
	sales := &fakeSaleRepo{}
	tenants := newFakeTenantRepo()
	return &registerFixture{
		registers: registers,
		movements: movements,
		sales:     sales,
		tenants:   tenants,
		svc:       NewRegisterService(registers, movements, sales, tenants),
		movSvc:    NewMovementService(registers, movements),
	}
}

func (f *registerFixture) openRegister(t *testing.T, tenantID uuid.UUID, amount string) uuid.UUID {
	t.Helper()
	resp, err := f.svc.Open(context.Background(), tenantID, dto.OpenRegisterRequest{OpeningAmount: d(amount)})
	require.NoError(t, err)
	return uuid.MustParse(resp.ID)
}

func (f *registerFixture) configurePIN(t *testing.T, tenantID uuid.UUID, pin string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.MinCost)
	require.NoError(t, err)
	h := string(hash)
	f.tenants.settings[tenantID] = &model.TenantSettings{TenantID: tenantID, AdminPINHash: &h}
}

// ── Open ─────────────────────────────────────────────────────────────────────

func TestOpenRegister(t *testing.T) {
	f := newRegisterFixture()
	tenant := uuid.New()

	resp, err := f.svc.Open(context.Background(), tenant, dto.OpenRegisterRequest{OpeningAmount: d("100.00")})
	require.NoError(t, err)
	assert.Equal(t, model.RegisterOpen, resp.Status)
	assert.True(t, resp.OpeningAmount.Equal(d("100.00")))
	assert.Nil(t, resp.ClosedAt)
}

func TestOpenRejectsNegativeFloat(t *testing.T) {
	f := newRegisterFixture()

	_, err := f.svc.Open(context.Background(), uuid.New(), dto.OpenRegisterRequest{OpeningAmount: d("-1")})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestOpenConflictsWithExistingSession(t *testing.T) {
	f := newRegisterFixture()
	tenant := uuid.New()
	f.openRegister(t, tenant, "100.00")

	_, err := f.svc.Open(context.Background(), tenant, dto.OpenRegisterRequest{OpeningAmount: d("50.00")})
	assert.ErrorIs(t, err, ErrConflict)

	// A different tenant is unaffected.
	_, err = f.svc.Open(context.Background(), uuid.New(), dto.OpenRegisterRequest{OpeningAmount: d("50.00")})
	assert.NoError(t, err)
}

func TestOpenRaceLosesToUniqueIndex(t *testing.T) {
	// Two terminals pass the read-check simultaneously; the store's partial
	// unique index rejects the second insert and the service reports the
	// same conflict as the friendly check.
	f := newRegisterFixture()
	tenant := uuid.New()
	f.registers.raceMode = true

	_, err := f.svc.Open(context.Background(), tenant, dto.OpenRegisterRequest{OpeningAmount: d("100.00")})
	require.NoError(t, err)

	_, err = f.svc.Open(context.Background(), tenant, dto.OpenRegisterRequest{OpeningAmount: d("100.00")})
	assert.ErrorIs(t, err, ErrConflict)
}

// ── Live summary / windowing ─────────────────────────────────────────────────

func TestLiveSummaryRecomputesFromRawRows(t *testing.T) {
	f := newRegisterFixture()
	tenant := uuid.New()
	regID := f.openRegister(t, tenant, "100.00")
	reg, err := f.registers.FindByID(context.Background(), regID)
	require.NoError(t, err)

	f.sales.add(tenant, "45.50", "cash", reg.OpenedAt.Add(time.Minute))
	f.sales.add(tenant, "30.00", "card", reg.OpenedAt.Add(2*time.Minute))

	_, err = f.movSvc.Record(context.Background(), tenant, dto.MovementRequest{
		RegisterID: regID.String(), Type: "ingreso", Amount: d("20.00"), Description: "sencillo",
	})
	require.NoError(t, err)
	_, err = f.movSvc.Record(context.Background(), tenant, dto.MovementRequest{
		RegisterID: regID.String(), Type: "egreso", Amount: d("15.00"), Description: "delivery",
	})
	require.NoError(t, err)

	sum, err := f.svc.LiveSummary(context.Background(), tenant)
	require.NoError(t, err)
	assert.True(t, sum.TotalSalesCash.Equal(d("45.50")))
	assert.True(t, sum.TotalSalesDigital.Equal(d("30.00")))
	assert.True(t, sum.ExpectedAmount.Equal(d("150.50")))
}

func TestSalesOutsideWindowAreExcluded(t *testing.T) {
	f := newRegisterFixture()
	tenant := uuid.New()
	regID := f.openRegister(t, tenant, "100.00")
	reg, err := f.registers.FindByID(context.Background(), regID)
	require.NoError(t, err)

	// The tenant's only sale that day predates the open instant.
	f.sales.add(tenant, "99.00", "cash", reg.OpenedAt.Add(-time.Hour))

	sum, err := f.svc.LiveSummary(context.Background(), tenant)
	require.NoError(t, err)
	assert.True(t, sum.TotalSalesCash.IsZero())
	assert.True(t, sum.ExpectedAmount.Equal(d("100.00")))
}

func TestDigitalSaleChangesDigitalTotalOnly(t *testing.T) {
	f := newRegisterFixture()
	tenant := uuid.New()
	regID := f.openRegister(t, tenant, "100.00")
	reg, err := f.registers.FindByID(context.Background(), regID)
	require.NoError(t, err)

	before, err := f.svc.LiveSummary(context.Background(), tenant)
	require.NoError(t, err)

	f.sales.add(tenant, "30.00", "plin", reg.OpenedAt.Add(time.Minute))

	after, err := f.svc.LiveSummary(context.Background(), tenant)
	require.NoError(t, err)
	assert.True(t, after.ExpectedAmount.Equal(before.ExpectedAmount))
	assert.True(t, after.TotalSalesDigital.Equal(before.TotalSalesDigital.Add(d("30.00"))))
}

// ── Close ────────────────────────────────────────────────────────────────────

func TestCloseBalanced(t *testing.T) {
	f := newRegisterFixture()
	tenant := uuid.New()
	regID := f.openRegister(t, tenant, "100.00")
	reg, err := f.registers.FindByID(context.Background(), regID)
	require.NoError(t, err)

	f.sales.add(tenant, "45.50", "cash", reg.OpenedAt.Add(time.Minute))
	f.sales.add(tenant, "30.00", "card", reg.OpenedAt.Add(time.Minute))
	_, err = f.movSvc.Record(context.Background(), tenant, dto.MovementRequest{
		RegisterID: regID.String(), Type: "ingreso", Amount: d("20.00"), Description: "sencillo",
	})
	require.NoError(t, err)
	_, err = f.movSvc.Record(context.Background(), tenant, dto.MovementRequest{
		RegisterID: regID.String(), Type: "egreso", Amount: d("15.00"), Description: "delivery",
	})
	require.NoError(t, err)

	resp, err := f.svc.Close(context.Background(), tenant, dto.CloseRegisterRequest{
		RegisterID:    regID.String(),
		PhysicalCount: d("150.50"),
	})
	require.NoError(t, err)
	assert.Equal(t, reconcile.Balanced, resp.Classification)
	assert.True(t, resp.Discrepancy.IsZero())
	assert.Equal(t, model.RegisterClosed, resp.Register.Status)
	require.NotNil(t, resp.Register.ExpectedAmount)
	assert.True(t, resp.Register.ExpectedAmount.Equal(d("150.50")))
	require.NotNil(t, resp.Register.ClosingAmount)
	assert.True(t, resp.Register.ClosingAmount.Equal(d("150.50")))

	// Conservation on the frozen snapshot.
	r := resp.Register
	want := r.OpeningAmount.Add(*r.TotalSalesCash).Add(*r.TotalIngresos).Sub(*r.TotalEgresos)
	assert.True(t, r.ExpectedAmount.Equal(want))
}

func TestCloseShortage(t *testing.T) {
	f := newRegisterFixture()
	tenant := uuid.New()
	regID := f.openRegister(t, tenant, "100.00")
	reg, err := f.registers.FindByID(context.Background(), regID)
	require.NoError(t, err)
	f.sales.add(tenant, "45.50", "cash", reg.OpenedAt.Add(time.Minute))

	resp, err := f.svc.Close(context.Background(), tenant, dto.CloseRegisterRequest{
		RegisterID:    regID.String(),
		PhysicalCount: d("145.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, reconcile.Shortage, resp.Classification)
	assert.True(t, resp.Discrepancy.Equal(d("-0.50")))
}

func TestCloseTwiceFails(t *testing.T) {
	f := newRegisterFixture()
	tenant := uuid.New()
	regID := f.openRegister(t, tenant, "50.00")

	_, err := f.svc.Close(context.Background(), tenant, dto.CloseRegisterRequest{
		RegisterID: regID.String(), PhysicalCount: d("50.00"),
	})
	require.NoError(t, err)

	_, err = f.svc.Close(context.Background(), tenant, dto.CloseRegisterRequest{
		RegisterID: regID.String(), PhysicalCount: d("50.00"),
	})
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestCloseIsTenantScoped(t *testing.T) {
	f := newRegisterFixture()
	owner := uuid.New()
	intruder := uuid.New()
	regID := f.openRegister(t, owner, "50.00")

	_, err := f.svc.Close(context.Background(), intruder, dto.CloseRegisterRequest{
		RegisterID: regID.String(), PhysicalCount: d("50.00"),
	})
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestCloseRepromptsWhenSalesLandMidClose(t *testing.T) {
	f := newRegisterFixture()
	tenant := uuid.New()
	regID := f.openRegister(t, tenant, "100.00")
	reg, err := f.registers.FindByID(context.Background(), regID)
	require.NoError(t, err)

	// A sale lands between the first recompute and the pre-persist check.
	openedAt := reg.OpenedAt
	f.sales.onSecondList = func(r *fakeSaleRepo) {
		r.add(tenant, "12.00", "cash", openedAt.Add(time.Millisecond))
	}

	_, err = f.svc.Close(context.Background(), tenant, dto.CloseRegisterRequest{
		RegisterID: regID.String(), PhysicalCount: d("100.00"),
	})
	assert.ErrorIs(t, err, ErrStaleSummary)

	// The register is still open; a fresh close succeeds.
	resp, err := f.svc.Close(context.Background(), tenant, dto.CloseRegisterRequest{
		RegisterID: regID.String(), PhysicalCount: d("112.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, reconcile.Balanced, resp.Classification)
}

// ── Blind close / PIN gate ───────────────────────────────────────────────────

func TestBlindClosePINChallenge(t *testing.T) {
	f := newRegisterFixture()
	tenant := uuid.New()
	f.configurePIN(t, tenant, "4321")
	regID := f.openRegister(t, tenant, "100.00")

	// Missing PIN.
	_, err := f.svc.Close(context.Background(), tenant, dto.CloseRegisterRequest{
		RegisterID: regID.String(), PhysicalCount: d("100.00"),
	})
	assert.ErrorIs(t, err, ErrAuthorization)

	// Wrong PIN.
	wrong := "0000"
	_, err = f.svc.Close(context.Background(), tenant, dto.CloseRegisterRequest{
		RegisterID: regID.String(), PhysicalCount: d("100.00"), PIN: &wrong,
	})
	assert.ErrorIs(t, err, ErrAuthorization)

	// Correct PIN closes and still reports the discrepancy honestly.
	pin := "4321"
	resp, err := f.svc.Close(context.Background(), tenant, dto.CloseRegisterRequest{
		RegisterID: regID.String(), PhysicalCount: d("98.00"), PIN: &pin,
	})
	require.NoError(t, err)
	assert.Equal(t, reconcile.Shortage, resp.Classification)
}

func TestCloseContextWithholdsSummaryInBlindMode(t *testing.T) {
	f := newRegisterFixture()
	tenant := uuid.New()
	f.configurePIN(t, tenant, "4321")
	f.openRegister(t, tenant, "100.00")

	ctx, err := f.svc.CloseContext(context.Background(), tenant)
	require.NoError(t, err)
	assert.True(t, ctx.Blind)
	assert.Nil(t, ctx.Summary, "blind mode must not reveal the expected figure pre-count")
}

func TestCloseContextShowsSummaryInVisibleMode(t *testing.T) {
	f := newRegisterFixture()
	tenant := uuid.New()
	f.openRegister(t, tenant, "100.00")

	ctx, err := f.svc.CloseContext(context.Background(), tenant)
	require.NoError(t, err)
	assert.False(t, ctx.Blind)
	require.NotNil(t, ctx.Summary)
	assert.True(t, ctx.Summary.ExpectedAmount.Equal(d("100.00")))
}

// ── Active ───────────────────────────────────────────────────────────────────

func TestActiveReturnsNilWhenNothingOpen(t *testing.T) {
	f := newRegisterFixture()

	resp, err := f.svc.Active(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, resp)
}
