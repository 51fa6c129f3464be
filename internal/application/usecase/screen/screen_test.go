package screen

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pjackim/webbuddy/adapters/persistence"
	"github.com/pjackim/webbuddy/internal/application/usecase/notify"
	"github.com/pjackim/webbuddy/internal/domain/asset"
	"github.com/pjackim/webbuddy/internal/domain/canvas"
	"github.com/pjackim/webbuddy/internal/domain/screen"
	"github.com/pjackim/webbuddy/internal/testutil"
	"github.com/pjackim/webbuddy/pkg/apperror"
	"github.com/pjackim/webbuddy/pkg/logger"
)

type fixture struct {
	store canvas.Store
	relay *testutil.Relay
	hub   *testutil.Broadcaster
	pub   *testutil.Publisher
	uc    *ScreenUseCase
}

func newFixture() *fixture {
	log := logger.NewNopLogger()
	f := &fixture{
		store: persistence.NewMemoryStore(log),
		relay: &testutil.Relay{},
		hub:   &testutil.Broadcaster{},
		pub:   &testutil.Publisher{},
	}
	f.uc = NewScreenUseCase(f.store, f.relay, notify.NewNotifier(f.hub, f.pub, log), log)
	return f
}

func ptr[T any](v T) *T { return &v }

func TestCreateScreenBroadcasts(t *testing.T) {
	f := newFixture()

	sc, err := f.uc.CreateScreen(context.Background(), screen.Draft{Name: "Lobby", Width: 1920, Height: 1080})
	require.NoError(t, err)

	events := f.hub.Events()
	require.Len(t, events, 1)
	assert.Equal(t, canvas.EventScreenAdded, events[0].Event)
	assert.Equal(t, *sc, events[0].Payload)

	assert.Eventually(t, func() bool { return len(f.pub.CanvasEvents()) == 1 }, time.Second, 10*time.Millisecond)
}

func TestCreateScreenRejectsInvalidDraft(t *testing.T) {
	f := newFixture()

	_, err := f.uc.CreateScreen(context.Background(), screen.Draft{Name: "", Width: 10, Height: 10})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	_, err = f.uc.CreateScreen(context.Background(), screen.Draft{Name: "x", Width: 0, Height: 10})
	assert.ErrorIs(t, err, screen.ErrInvalidDimension)

	assert.Empty(t, f.hub.Events())
	assert.Empty(t, f.store.ListScreens())
}

func TestUpdateMissingScreenIsNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.uc.UpdateScreen(context.Background(), "missing", screen.Patch{X: ptr(1)})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Empty(t, f.hub.Events())
}

func TestUpdateScreenMergesPatch(t *testing.T) {
	f := newFixture()
	sc, err := f.uc.CreateScreen(context.Background(), screen.Draft{Name: "Main", Width: 800, Height: 600, Y: 7})
	require.NoError(t, err)

	updated, err := f.uc.UpdateScreen(context.Background(), sc.ID, screen.Patch{Name: ptr("Renamed")})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, 7, updated.Y)
	assert.Equal(t, []string{canvas.EventScreenAdded, canvas.EventScreenUpdated}, f.hub.Names())
}

func TestDeleteScreenCascadesThroughRelayAndBroadcast(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	sc, err := f.uc.CreateScreen(ctx, screen.Draft{Name: "Wall", Width: 100, Height: 100})
	require.NoError(t, err)
	a1 := f.store.CreateAsset(asset.Draft{ScreenID: sc.ID, Type: asset.KindText})
	a2 := f.store.CreateAsset(asset.Draft{ScreenID: sc.ID, Type: asset.KindText})
	other := f.store.CreateAsset(asset.Draft{ScreenID: "elsewhere", Type: asset.KindText})

	require.NoError(t, f.uc.DeleteScreen(ctx, sc.ID))

	assert.Equal(t, []testutil.RelayCall{
		{Op: "remove", AssetID: a1.Common().ID},
		{Op: "remove", AssetID: a2.Common().ID},
	}, f.relay.Calls())

	events := f.hub.Events()
	require.Len(t, events, 4)
	assert.Equal(t, canvas.EventAssetDeleted, events[1].Event)
	assert.Equal(t, canvas.Deleted{ID: a1.Common().ID}, events[1].Payload)
	assert.Equal(t, canvas.EventAssetDeleted, events[2].Event)
	assert.Equal(t, canvas.EventScreenDeleted, events[3].Event)
	assert.Equal(t, canvas.Deleted{ID: sc.ID}, events[3].Payload)

	assert.Equal(t, []asset.Asset{other}, f.store.ListAssets(""))
}

func TestDeleteScreenRelayFailureSkipsBroadcast(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	sc, err := f.uc.CreateScreen(ctx, screen.Draft{Name: "Wall", Width: 100, Height: 100})
	require.NoError(t, err)
	f.store.CreateAsset(asset.Draft{ScreenID: sc.ID, Type: asset.KindText})
	f.relay.FailFor = map[string]error{"*": apperror.NewExternalService("remove", errors.New("down"))}

	err = f.uc.DeleteScreen(ctx, sc.ID)
	require.Error(t, err)
	assert.Equal(t, 502, apperror.ToHTTPStatus(err))

	_, ok := f.store.GetScreen(sc.ID)
	assert.False(t, ok, "store change is not rolled back")
	assert.Equal(t, []string{canvas.EventScreenAdded}, f.hub.Names())
}

func TestDeleteMissingScreen(t *testing.T) {
	f := newFixture()
	assert.ErrorIs(t, f.uc.DeleteScreen(context.Background(), "nope"), apperror.ErrNotFound)
}
