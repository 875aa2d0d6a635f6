package integration

import (
	"context"
	"testing"
	"time"

	membershipapp "github.com/lewlewstore/backend/internal/application/membership"
	notificationapp "github.com/lewlewstore/backend/internal/application/notification"
	"github.com/lewlewstore/backend/internal/domain/ledger"
	"github.com/lewlewstore/backend/internal/domain/role"
	"github.com/lewlewstore/backend/internal/domain/tier"
	"github.com/lewlewstore/backend/internal/infrastructure/discord"
	"github.com/lewlewstore/backend/internal/infrastructure/event"
	"github.com/lewlewstore/backend/internal/infrastructure/persistence"
	"github.com/lewlewstore/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	flowGuild    = "900000000000000001"
	flowAdmin    = "900000000000000002"
	flowChannel  = "900000000000000003"
	customerA    = "100000000000000001"
	customerB    = "100000000000000002"
	customerC    = "100000000000000003"
	bronzeRoleID = "800000000000000001"
	silverRoleID = "800000000000000002"
	goldRoleID   = "800000000000000003"
)

type flowFixture struct {
	service   *membershipapp.Service
	ledger    *ledger.Ledger
	roles     *discord.MemoryRoleStore
	messenger *discord.LogMessenger
	events    *testutil.MockEventHandler
}

func newFlowFixture(t *testing.T, tdb *TestDB) *flowFixture {
	t.Helper()
	ctx := context.Background()

	purchases := persistence.NewGormPurchaseRepository(tdb.DB)
	tiers := persistence.NewGormTierRepository(tdb.DB)
	channels := persistence.NewGormLogChannelRepository(tdb.DB)

	l := ledger.NewLedger(purchases)
	registry, err := tier.NewRegistry(ctx, tiers)
	require.NoError(t, err)

	roles := discord.NewMemoryRoleStore(zap.NewNop())
	messenger := discord.NewLogMessenger(zap.NewNop())
	recorder := testutil.NewMockEventHandler(
		ledger.EventTypePurchaseRecorded,
		role.EventTypeMemberReconciled,
		tier.EventTypeTierThresholdSet,
	)

	bus := event.NewInMemoryEventBus(zap.NewNop())
	bus.Subscribe(recorder)
	bus.Subscribe(notificationapp.NewPurchaseNotifier(channels, messenger, zap.NewNop()))
	require.NoError(t, bus.Start(ctx))
	t.Cleanup(func() { _ = bus.Stop(context.Background()) })

	_, err = notificationapp.NewService(channels, zap.NewNop()).
		SetLogChannel(ctx, flowGuild, notificationapp.SetLogChannelRequest{ChannelID: flowChannel})
	require.NoError(t, err)

	service := membershipapp.NewService(l, registry, roles,
		membershipapp.WithEventPublisher(bus),
		membershipapp.WithLogger(zap.NewNop()),
	)
	return &flowFixture{service: service, ledger: l, roles: roles, messenger: messenger, events: recorder}
}

func (f *flowFixture) setTiers(t *testing.T) {
	t.Helper()
	for id, threshold := range map[string]int64{bronzeRoleID: 0, silverRoleID: 20000, goldRoleID: 50000} {
		th := threshold
		_, err := f.service.SetThreshold(context.Background(), id, membershipapp.SetThresholdRequest{Threshold: &th})
		require.NoError(t, err)
	}
}

func (f *flowFixture) record(t *testing.T, customerID string, quantity int64, product string, price int64) *membershipapp.RecordPurchaseResponse {
	t.Helper()
	p := price
	resp, err := f.service.RecordPurchase(context.Background(), flowGuild, flowAdmin, membershipapp.RecordPurchaseRequest{
		CustomerID: customerID,
		Quantity:   quantity,
		Product:    product,
		Price:      &p,
	})
	require.NoError(t, err)
	return resp
}

func TestLedgerFlow_Postgres(t *testing.T) {
	tdb := NewTestDB(t)
	ctx := context.Background()

	t.Run("purchases accumulate and sync the tier role", func(t *testing.T) {
		tdb.CleanTables()
		f := newFlowFixture(t, tdb)
		f.setTiers(t)

		f.record(t, customerA, 2, "Sticker", 10000)
		resp := f.record(t, customerA, 1, "Poster", 25000)
		f.service.Wait()

		assert.Equal(t, int64(35000), resp.Total)
		assert.Equal(t, "35.000 VND", resp.TotalFormatted)
		assert.Equal(t, silverRoleID, resp.TierID)

		total, err := f.ledger.TotalOf(ctx, customerA)
		require.NoError(t, err)
		assert.Equal(t, int64(35000), total)

		held, err := f.roles.CurrentRoles(ctx, customerA, flowGuild)
		require.NoError(t, err)
		assert.Equal(t, []string{silverRoleID}, held)

		status, err := f.service.Status(ctx, customerA)
		require.NoError(t, err)
		require.Len(t, status.Purchases, 2)
		assert.Equal(t, "Sticker", status.Purchases[0].Product)
		assert.Equal(t, "Poster", status.Purchases[1].Product)
		assert.Equal(t, silverRoleID, status.TierID)
	})

	t.Run("log channel receives purchase messages", func(t *testing.T) {
		tdb.CleanTables()
		f := newFlowFixture(t, tdb)
		f.setTiers(t)

		f.record(t, customerA, 2, "Sticker", 10000)
		f.service.Wait()

		messages := f.messenger.Messages()
		require.Len(t, messages, 1)
		assert.Equal(t, flowChannel, messages[0].ChannelID)
		assert.Equal(t, "<@"+customerA+"> bought **2×Sticker** for **10.000 VND**", messages[0].Content)

		assert.True(t, testutil.WaitForEventCount(t, f.events, 2, time.Second))
		assert.Len(t, f.events.HandledOfType(ledger.EventTypePurchaseRecorded), 1)
		assert.Len(t, f.events.HandledOfType(role.EventTypeMemberReconciled), 1)
	})

	t.Run("ranking orders by total with ties in first-recorded order", func(t *testing.T) {
		tdb.CleanTables()
		f := newFlowFixture(t, tdb)

		f.record(t, customerA, 1, "Keychain", 100)
		f.record(t, customerB, 1, "Badge", 50)
		f.record(t, customerC, 1, "Keychain", 100)
		f.service.Wait()

		ranking, err := f.service.Ranking(ctx, nil)
		require.NoError(t, err)
		require.Len(t, ranking.Entries, 3)
		assert.Equal(t, customerA, ranking.Entries[0].CustomerID)
		assert.Equal(t, customerC, ranking.Entries[1].CustomerID)
		assert.Equal(t, customerB, ranking.Entries[2].CustomerID)
		assert.Equal(t, 1, ranking.Entries[0].Rank)

		zero := 0
		empty, err := f.service.Ranking(ctx, &zero)
		require.NoError(t, err)
		assert.Empty(t, empty.Entries)
	})

	t.Run("reconcile repairs inconsistent roles", func(t *testing.T) {
		tdb.CleanTables()
		f := newFlowFixture(t, tdb)
		f.setTiers(t)

		f.record(t, customerA, 1, "Poster", 35000)
		f.service.Wait()
		require.NoError(t, f.roles.AddRole(ctx, customerA, flowGuild, goldRoleID, "manual"))

		resp, err := f.service.Reconcile(ctx, flowGuild, customerA)
		require.NoError(t, err)
		assert.Empty(t, resp.Granted)
		assert.Equal(t, []string{goldRoleID}, resp.Revoked)

		held, err := f.roles.CurrentRoles(ctx, customerA, flowGuild)
		require.NoError(t, err)
		assert.Equal(t, []string{silverRoleID}, held)
	})

	t.Run("tiers survive a registry reload", func(t *testing.T) {
		tdb.CleanTables()
		f := newFlowFixture(t, tdb)
		f.setTiers(t)

		raised := int64(30000)
		resp, err := f.service.SetThreshold(ctx, silverRoleID, membershipapp.SetThresholdRequest{Threshold: &raised})
		require.NoError(t, err)
		assert.False(t, resp.Created)
		require.NotNil(t, resp.Previous)
		assert.Equal(t, int64(20000), *resp.Previous)

		reloaded := newFlowFixture(t, tdb)
		tiers := reloaded.service.ListTiers(ctx)
		require.Len(t, tiers, 3)
		thresholds := make(map[string]int64, len(tiers))
		for _, tr := range tiers {
			thresholds[tr.TierID] = tr.Threshold
		}
		assert.Equal(t, int64(30000), thresholds[silverRoleID])
	})
}
