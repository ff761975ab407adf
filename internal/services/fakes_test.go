package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/whyteferrari/RECALLR/internal/storage"
	"github.com/whyteferrari/RECALLR/internal/store"
	"github.com/whyteferrari/RECALLR/types"
)

type fakeDeckRepo struct {
	decks  map[int]types.Deck
	nextID int
}

func newFakeDeckRepo(decks ...types.Deck) *fakeDeckRepo {
	repo := &fakeDeckRepo{decks: map[int]types.Deck{}, nextID: 1}
	for _, deck := range decks {
		repo.decks[deck.ID] = deck
		if deck.ID >= repo.nextID {
			repo.nextID = deck.ID + 1
		}
	}
	return repo
}

func (r *fakeDeckRepo) Get(_ context.Context, id int) (types.Deck, error) {
	deck, ok := r.decks[id]
	if !ok {
		return types.Deck{}, store.ErrNotFound
	}
	return deck, nil
}

func (r *fakeDeckRepo) ListByUser(_ context.Context, userID int, archived bool) ([]types.Deck, error) {
	out := make([]types.Deck, 0)
	for _, deck := range r.sorted() {
		if deck.UserID == userID && deck.Archived == archived {
			out = append(out, deck)
		}
	}
	return out, nil
}

func (r *fakeDeckRepo) ListSummaries(_ context.Context, userID int) ([]types.DeckSummary, error) {
	out := make([]types.DeckSummary, 0)
	for _, deck := range r.sorted() {
		if deck.UserID == userID && !deck.Archived {
			out = append(out, types.DeckSummary{ID: deck.ID, Name: deck.Name})
		}
	}
	return out, nil
}

func (r *fakeDeckRepo) Folders(_ context.Context, userID int) ([]types.Folder, error) {
	counts := map[string]int{}
	for _, deck := range r.decks {
		if deck.UserID == userID {
			counts[deck.Folder]++
		}
	}
	out := make([]types.Folder, 0, len(counts))
	for name, count := range counts {
		out = append(out, types.Folder{Name: name, DeckCount: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeDeckRepo) Create(_ context.Context, deck types.Deck) (types.Deck, error) {
	deck.ID = r.nextID
	r.nextID++
	r.decks[deck.ID] = deck
	return deck, nil
}

func (r *fakeDeckRepo) Update(_ context.Context, deck types.Deck) (types.Deck, error) {
	current, ok := r.decks[deck.ID]
	if !ok || current.UserID != deck.UserID {
		return types.Deck{}, store.ErrNotFound
	}
	r.decks[deck.ID] = deck
	return deck, nil
}

func (r *fakeDeckRepo) SetArchived(_ context.Context, id int, archived bool) error {
	deck, ok := r.decks[id]
	if !ok {
		return store.ErrNotFound
	}
	deck.Archived = archived
	r.decks[id] = deck
	return nil
}

func (r *fakeDeckRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.decks[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.decks, id)
	return nil
}

func (r *fakeDeckRepo) sorted() []types.Deck {
	out := make([]types.Deck, 0, len(r.decks))
	for _, deck := range r.decks {
		out = append(out, deck)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// fakeFlashcardStore keeps flashcards in memory. WithTx works on a copy and
// only swaps it in when fn succeeds.
type fakeFlashcardStore struct {
	cards  map[int]types.Flashcard
	nextID int

	failOn string
}

func newFakeFlashcardStore(cards ...types.Flashcard) *fakeFlashcardStore {
	s := &fakeFlashcardStore{cards: map[int]types.Flashcard{}, nextID: 1}
	for _, card := range cards {
		s.cards[card.ID] = card
		if card.ID >= s.nextID {
			s.nextID = card.ID + 1
		}
	}
	return s
}

func (s *fakeFlashcardStore) clone() *fakeFlashcardStore {
	c := &fakeFlashcardStore{cards: make(map[int]types.Flashcard, len(s.cards)), nextID: s.nextID, failOn: s.failOn}
	for id, card := range s.cards {
		c.cards[id] = card
	}
	return c
}

func (s *fakeFlashcardStore) WithTx(ctx context.Context, fn func(ctx context.Context, w store.FlashcardWriter) error) error {
	tx := s.clone()
	if err := fn(ctx, tx); err != nil {
		return err
	}
	s.cards = tx.cards
	s.nextID = tx.nextID
	return nil
}

func (s *fakeFlashcardStore) ListByDeck(_ context.Context, deckID int) ([]types.Flashcard, error) {
	out := make([]types.Flashcard, 0)
	for _, card := range s.sorted() {
		if card.DeckID == deckID {
			out = append(out, card)
		}
	}
	return out, nil
}

func (s *fakeFlashcardStore) ListByUser(_ context.Context, _ int) ([]types.Flashcard, error) {
	return s.sorted(), nil
}

func (s *fakeFlashcardStore) Create(_ context.Context, card types.Flashcard) (types.Flashcard, error) {
	card.ID = s.nextID
	s.nextID++
	s.cards[card.ID] = card
	return card, nil
}

func (s *fakeFlashcardStore) ListIDsByDeck(ctx context.Context, deckID int) ([]int, error) {
	if s.failOn == "list" {
		return nil, errors.New("list failed")
	}
	cards, _ := s.ListByDeck(ctx, deckID)
	ids := make([]int, 0, len(cards))
	for _, card := range cards {
		ids = append(ids, card.ID)
	}
	return ids, nil
}

func (s *fakeFlashcardStore) DeleteByIDs(_ context.Context, deckID int, ids []int) (int64, error) {
	if s.failOn == "delete" {
		return 0, errors.New("delete failed")
	}
	var n int64
	for _, id := range ids {
		if card, ok := s.cards[id]; ok && card.DeckID == deckID {
			delete(s.cards, id)
			n++
		}
	}
	return n, nil
}

func (s *fakeFlashcardStore) UpdateContent(_ context.Context, deckID int, card types.Flashcard) (int64, error) {
	if s.failOn == "update" {
		return 0, errors.New("update failed")
	}
	current, ok := s.cards[card.ID]
	if !ok || current.DeckID != deckID {
		return 0, nil
	}
	current.Term = card.Term
	current.Definition = card.Definition
	s.cards[card.ID] = current
	return 1, nil
}

func (s *fakeFlashcardStore) InsertMany(_ context.Context, deckID int, cards []types.Flashcard) ([]types.Flashcard, error) {
	if s.failOn == "insert" {
		return nil, errors.New("insert failed")
	}
	out := make([]types.Flashcard, 0, len(cards))
	for _, card := range cards {
		card.ID = s.nextID
		card.DeckID = deckID
		s.nextID++
		s.cards[card.ID] = card
		out = append(out, card)
	}
	return out, nil
}

func (s *fakeFlashcardStore) sorted() []types.Flashcard {
	out := make([]types.Flashcard, 0, len(s.cards))
	for _, card := range s.cards {
		out = append(out, card)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type fakeUserRepo struct {
	mu         sync.Mutex
	users      map[int]types.User
	nextID     int
	lastLogins map[int]time.Time
	loginErr   error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int]types.User{}, nextID: 1, lastLogins: map[int]time.Time{}}
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) find(match func(types.User) bool) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if match(user) {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (types.User, error) {
	return r.find(func(u types.User) bool { return u.Username == username })
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (types.User, error) {
	return r.find(func(u types.User) bool { return u.Email == email })
}

func (r *fakeUserRepo) GetByLogin(_ context.Context, login string) (types.User, error) {
	return r.find(func(u types.User) bool { return u.Email == login || u.Username == login })
}

func (r *fakeUserRepo) Create(_ context.Context, user types.User) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = r.nextID
	r.nextID++
	user.CreatedAt = time.Now()
	r.users[user.ID] = user
	return user, nil
}

func (r *fakeUserRepo) UpdateLastLogin(_ context.Context, id int, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loginErr != nil {
		return r.loginErr
	}
	r.lastLogins[id] = at
	return nil
}

type fakeTaskRepo struct {
	tasks  map[int]types.Task
	nextID int
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: map[int]types.Task{}, nextID: 1}
}

func (r *fakeTaskRepo) ListByUser(_ context.Context, userID int) ([]types.Task, error) {
	out := make([]types.Task, 0)
	for id := 1; id < r.nextID; id++ {
		if task, ok := r.tasks[id]; ok && task.UserID == userID {
			out = append(out, task)
		}
	}
	return out, nil
}

func (r *fakeTaskRepo) Create(_ context.Context, task types.Task) (types.Task, error) {
	task.ID = r.nextID
	r.nextID++
	r.tasks[task.ID] = task
	return task, nil
}

func (r *fakeTaskRepo) SetCompleted(_ context.Context, userID, taskID int, completed bool) error {
	task, ok := r.tasks[taskID]
	if !ok || task.UserID != userID {
		return store.ErrNotFound
	}
	task.Completed = completed
	r.tasks[taskID] = task
	return nil
}

func (r *fakeTaskRepo) Delete(_ context.Context, userID, taskID int) error {
	task, ok := r.tasks[taskID]
	if !ok || task.UserID != userID {
		return store.ErrNotFound
	}
	delete(r.tasks, taskID)
	return nil
}

type fakeEvents struct {
	events []types.Event
	err    error
}

func (f *fakeEvents) Publish(_ context.Context, event types.Event) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

type fakeObjects struct {
	objects  map[string][]byte
	types    map[string]string
	modified map[string]time.Time
	clock    time.Time
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{
		objects:  map[string][]byte{},
		types:    map[string]string{},
		modified: map[string]time.Time{},
		clock:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *fakeObjects) Put(_ context.Context, key string, r io.Reader, _ int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.objects[key] = data
	f.types[key] = contentType
	f.clock = f.clock.Add(time.Minute)
	f.modified[key] = f.clock
	return nil
}

func (f *fakeObjects) Get(_ context.Context, key string) (io.ReadCloser, error) {
	data, ok := f.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeObjects) Delete(_ context.Context, key string) error {
	if _, ok := f.objects[key]; !ok {
		return storage.ErrObjectNotFound
	}
	delete(f.objects, key)
	return nil
}

func (f *fakeObjects) List(_ context.Context, prefix string) ([]storage.ObjectInfo, error) {
	var objects []storage.ObjectInfo
	for key, data := range f.objects {
		if strings.HasPrefix(key, prefix) {
			objects = append(objects, storage.ObjectInfo{Key: key, Size: int64(len(data)), LastModified: f.modified[key]})
		}
	}
	return objects, nil
}

func (f *fakeObjects) Bucket() string { return "recallr" }

// syncLauncher runs background work inline.
type syncLauncher struct{}

func (syncLauncher) Go(fn func()) { fn() }
