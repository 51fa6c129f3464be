package persistence

import (
	"maps"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pjackim/webbuddy/internal/domain/asset"
	"github.com/pjackim/webbuddy/internal/domain/canvas"
	"github.com/pjackim/webbuddy/internal/domain/screen"
	"github.com/pjackim/webbuddy/pkg/logger"
)

type screenEntry struct {
	seq   uint64
	value screen.Screen
}

type assetEntry struct {
	seq   uint64
	value asset.Asset
}

// canvasState is never modified after it is published.
type canvasState struct {
	screens map[string]screenEntry
	assets  map[string]assetEntry
}

// memoryStore keeps the canvas in an immutable snapshot swapped atomically.
// Writers serialize on mu and publish a new snapshot; readers only Load.
type memoryStore struct {
	mu     sync.Mutex
	seq    uint64
	state  atomic.Pointer[canvasState]
	newID  func() string
	logger logger.Logger
}

func NewMemoryStore(log logger.Logger) canvas.Store {
	s := &memoryStore{
		newID:  uuid.NewString,
		logger: log.With(zap.String("component", "memory-store")),
	}
	s.state.Store(&canvasState{
		screens: map[string]screenEntry{},
		assets:  map[string]assetEntry{},
	})
	return s
}

func (s *memoryStore) ListScreens() []screen.Screen {
	entries := slices.Collect(maps.Values(s.state.Load().screens))
	slices.SortFunc(entries, func(a, b screenEntry) int { return compareSeq(a.seq, b.seq) })

	out := make([]screen.Screen, len(entries))
	for i, e := range entries {
		out[i] = e.value
	}
	return out
}

func (s *memoryStore) GetScreen(id string) (screen.Screen, bool) {
	e, ok := s.state.Load().screens[id]
	return e.value, ok
}

func (s *memoryStore) CreateScreen(d screen.Draft) screen.Screen {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.state.Load()
	sc := screen.Screen{
		ID:     s.freshID(cur),
		Name:   d.Name,
		Width:  d.Width,
		Height: d.Height,
		X:      d.X,
		Y:      d.Y,
	}
	screens := maps.Clone(cur.screens)
	screens[sc.ID] = screenEntry{seq: s.nextSeq(), value: sc}
	s.state.Store(&canvasState{screens: screens, assets: cur.assets})

	s.logger.Debug("screen created", zap.String("screen_id", sc.ID))
	return sc
}

func (s *memoryStore) UpdateScreen(id string, p screen.Patch) (screen.Screen, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.state.Load()
	e, ok := cur.screens[id]
	if !ok {
		return screen.Screen{}, false
	}
	e.value = e.value.Apply(p)
	screens := maps.Clone(cur.screens)
	screens[id] = e
	s.state.Store(&canvasState{screens: screens, assets: cur.assets})
	return e.value, true
}

func (s *memoryStore) DeleteScreen(id string) ([]asset.Asset, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.state.Load()
	if _, ok := cur.screens[id]; !ok {
		return nil, false
	}

	screens := maps.Clone(cur.screens)
	delete(screens, id)

	var removed []assetEntry
	assets := make(map[string]assetEntry, len(cur.assets))
	for aid, e := range cur.assets {
		if e.value.Common().ScreenID == id {
			removed = append(removed, e)
			continue
		}
		assets[aid] = e
	}
	s.state.Store(&canvasState{screens: screens, assets: assets})

	slices.SortFunc(removed, func(a, b assetEntry) int { return compareSeq(a.seq, b.seq) })
	out := make([]asset.Asset, len(removed))
	for i, e := range removed {
		out[i] = e.value
	}
	s.logger.Debug("screen deleted", zap.String("screen_id", id), zap.Int("cascaded_assets", len(out)))
	return out, true
}

func (s *memoryStore) ListAssets(screenID string) []asset.Asset {
	entries := make([]assetEntry, 0)
	for _, e := range s.state.Load().assets {
		if screenID == "" || e.value.Common().ScreenID == screenID {
			entries = append(entries, e)
		}
	}
	slices.SortFunc(entries, func(a, b assetEntry) int { return compareSeq(a.seq, b.seq) })

	out := make([]asset.Asset, len(entries))
	for i, e := range entries {
		out[i] = e.value
	}
	return out
}

func (s *memoryStore) GetAsset(id string) (asset.Asset, bool) {
	e, ok := s.state.Load().assets[id]
	return e.value, ok
}

func (s *memoryStore) CreateAsset(d asset.Draft) asset.Asset {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.state.Load()
	a := d.Build(s.freshID(cur))
	assets := maps.Clone(cur.assets)
	assets[a.Common().ID] = assetEntry{seq: s.nextSeq(), value: a}
	s.state.Store(&canvasState{screens: cur.screens, assets: assets})

	s.logger.Debug("asset created", zap.String("asset_id", a.Common().ID), zap.String("type", string(a.Kind())))
	return a
}

func (s *memoryStore) UpdateAsset(id string, p asset.Patch) (asset.Asset, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.state.Load()
	e, ok := cur.assets[id]
	if !ok {
		return nil, false
	}
	e.value = asset.Apply(e.value, p)
	assets := maps.Clone(cur.assets)
	assets[id] = e
	s.state.Store(&canvasState{screens: cur.screens, assets: assets})
	return e.value, true
}

func (s *memoryStore) DeleteAsset(id string) (asset.Asset, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.state.Load()
	e, ok := cur.assets[id]
	if !ok {
		return nil, false
	}
	assets := maps.Clone(cur.assets)
	delete(assets, id)
	s.state.Store(&canvasState{screens: cur.screens, assets: assets})
	return e.value, true
}

// freshID must be called with mu held.
func (s *memoryStore) freshID(cur *canvasState) string {
	for {
		id := s.newID()
		_, screenTaken := cur.screens[id]
		_, assetTaken := cur.assets[id]
		if !screenTaken && !assetTaken {
			return id
		}
		s.logger.Warn("generated id already in use, retrying", zap.String("id", id))
	}
}

func (s *memoryStore) nextSeq() uint64 {
	s.seq++
	return s.seq
}

func compareSeq(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
