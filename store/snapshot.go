package store

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/caffeinepub/sprint-lane-7/domain"
)

// snapshotState is the serialized form of the whole store. The identifier
// indexes are rebuilt from profiles on restore rather than persisted.
type snapshotState struct {
	Boards   []domain.Board       `json:"boards"`
	Columns  []domain.Column      `json:"columns"`
	Cards    []domain.Card        `json:"cards"`
	Tags     []domain.Tag         `json:"tags"`
	Invites  []domain.BoardInvite `json:"invites"`
	Members  []domain.BoardMember `json:"members"`
	Profiles []domain.UserProfile `json:"profiles"`

	NextBoardID  uint64 `json:"nextBoardId"`
	NextColumnID uint64 `json:"nextColumnId"`
	NextCardID   uint64 `json:"nextCardId"`
	NextTagID    uint64 `json:"nextTagId"`
	NextInviteID uint64 `json:"nextInviteId"`
}

// Dump serializes the full store state.
func (s *Store) Dump() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := snapshotState{
		NextBoardID:  s.nextBoardID,
		NextColumnID: s.nextColumnID,
		NextCardID:   s.nextCardID,
		NextTagID:    s.nextTagID,
		NextInviteID: s.nextInviteID,
	}
	for _, b := range s.boards {
		state.Boards = append(state.Boards, *b)
	}
	for _, c := range s.columns {
		state.Columns = append(state.Columns, *c)
	}
	for _, c := range s.cards {
		state.Cards = append(state.Cards, *c)
	}
	for _, t := range s.tags {
		state.Tags = append(state.Tags, *t)
	}
	for _, i := range s.invites {
		state.Invites = append(state.Invites, *i)
	}
	for _, m := range s.members {
		state.Members = append(state.Members, *m)
	}
	for _, p := range s.profiles {
		state.Profiles = append(state.Profiles, *p)
	}
	sort.Slice(state.Boards, func(i, j int) bool { return state.Boards[i].ID < state.Boards[j].ID })
	sort.Slice(state.Columns, func(i, j int) bool { return state.Columns[i].ID < state.Columns[j].ID })
	sort.Slice(state.Cards, func(i, j int) bool { return state.Cards[i].ID < state.Cards[j].ID })

	return sonic.Marshal(state)
}

// Restore replaces the store state with a previously dumped snapshot and
// rebuilds the username/email indexes.
func (s *Store) Restore(data []byte) error {
	var state snapshotState
	if err := sonic.Unmarshal(data, &state); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.boards = make(map[uint64]*domain.Board, len(state.Boards))
	for i := range state.Boards {
		b := state.Boards[i]
		s.boards[b.ID] = &b
	}
	s.columns = make(map[uint64]*domain.Column, len(state.Columns))
	for i := range state.Columns {
		c := state.Columns[i]
		s.columns[c.ID] = &c
	}
	s.cards = make(map[uint64]*domain.Card, len(state.Cards))
	for i := range state.Cards {
		c := state.Cards[i]
		s.cards[c.ID] = &c
	}
	s.tags = make(map[uint64]*domain.Tag, len(state.Tags))
	for i := range state.Tags {
		t := state.Tags[i]
		s.tags[t.ID] = &t
	}
	s.invites = make(map[uint64]*domain.BoardInvite, len(state.Invites))
	for i := range state.Invites {
		inv := state.Invites[i]
		s.invites[inv.ID] = &inv
	}
	s.members = make(map[memberKey]*domain.BoardMember, len(state.Members))
	for i := range state.Members {
		m := state.Members[i]
		s.members[memberKey{m.BoardID, m.UserID}] = &m
	}
	s.profiles = make(map[string]*domain.UserProfile, len(state.Profiles))
	s.usernameIndex = make(map[string]string, len(state.Profiles))
	s.emailIndex = make(map[string]string, len(state.Profiles))
	for i := range state.Profiles {
		p := state.Profiles[i]
		s.profiles[p.UserID] = &p
		s.usernameIndex[strings.ToLower(p.Username)] = p.UserID
		s.emailIndex[strings.ToLower(p.Email)] = p.UserID
	}

	s.nextBoardID = state.NextBoardID
	s.nextColumnID = state.NextColumnID
	s.nextCardID = state.NextCardID
	s.nextTagID = state.NextTagID
	s.nextInviteID = state.NextInviteID
	return nil
}

// Snapshotter persists store snapshots to redis: one sonic-marshalled blob
// under a fixed key, written by a debounced background goroutine whenever the
// store reports a mutation.
type Snapshotter struct {
	store    *Store
	client   *redis.Client
	key      string
	debounce time.Duration
	logger   *log.Logger

	kick   chan struct{}
	stopCh chan struct{}
	wg     sync.WaitGroup
}

const snapshotSaveTimeout = 15 * time.Second

// NewSnapshotter creates a snapshotter flushing to the given redis key.
// Mutations arriving within the debounce window coalesce into one write.
func NewSnapshotter(store *Store, client *redis.Client, key string, debounce time.Duration, logger *log.Logger) *Snapshotter {
	if debounce <= 0 {
		debounce = 250 * time.Millisecond
	}
	return &Snapshotter{
		store:    store,
		client:   client,
		key:      key,
		debounce: debounce,
		logger:   logger,
		kick:     make(chan struct{}, 1),
		stopCh:   make(chan struct{}),
	}
}

// Restore loads the latest snapshot into the store. A missing key is not an
// error: the service simply starts empty.
func (f *Snapshotter) Restore(ctx context.Context) error {
	data, err := f.client.Get(ctx, f.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return err
	}
	return f.store.Restore(data)
}

// Start registers the store change hook and launches the flush goroutine.
func (f *Snapshotter) Start() {
	f.store.OnChange(f.markDirty)
	f.wg.Add(1)
	go f.run()
	f.logger.Infof("snapshotter started, key: %s, debounce: %v", f.key, f.debounce)
}

// Close flushes one final snapshot and stops the goroutine.
func (f *Snapshotter) Close() {
	close(f.stopCh)
	f.wg.Wait()
	if err := f.Save(context.Background()); err != nil {
		f.logger.Errorf("final snapshot failed: %v", err)
	}
}

// Save writes the current store state to redis.
func (f *Snapshotter) Save(ctx context.Context) error {
	data, err := f.store.Dump()
	if err != nil {
		return err
	}
	return f.client.Set(ctx, f.key, data, 0).Err()
}

func (f *Snapshotter) markDirty() {
	select {
	case f.kick <- struct{}{}:
	default:
	}
}

func (f *Snapshotter) run() {
	defer f.wg.Done()
	for {
		select {
		case <-f.stopCh:
			return
		case <-f.kick:
		}

		// Debounce: absorb the burst before writing.
		timer := time.NewTimer(f.debounce)
		select {
		case <-f.stopCh:
			timer.Stop()
			return
		case <-timer.C:
		}

		ctx, cancel := context.WithTimeout(context.Background(), snapshotSaveTimeout)
		err := f.Save(ctx)
		cancel()
		if err != nil {
			f.logger.Errorf("snapshot save failed: %v", err)
			// Leave the dirty signal set so the next mutation retries.
			f.markDirty()
		}
	}
}
