package handlers

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/whyteferrari/RECALLR/internal/store"
	"github.com/whyteferrari/RECALLR/types"
)

type memUsers struct {
	mu    sync.Mutex
	users []types.User
}

func (m *memUsers) find(match func(types.User) bool) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if match(u) {
			return u, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (m *memUsers) GetByID(_ context.Context, id int) (types.User, error) {
	return m.find(func(u types.User) bool { return u.ID == id })
}

func (m *memUsers) GetByUsername(_ context.Context, username string) (types.User, error) {
	return m.find(func(u types.User) bool { return u.Username == username })
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (types.User, error) {
	return m.find(func(u types.User) bool { return u.Email == email })
}

func (m *memUsers) GetByLogin(_ context.Context, login string) (types.User, error) {
	return m.find(func(u types.User) bool { return u.Username == login || u.Email == login })
}

func (m *memUsers) Create(_ context.Context, user types.User) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user.ID = len(m.users) + 1
	m.users = append(m.users, user)
	return user, nil
}

func (m *memUsers) UpdateLastLogin(_ context.Context, id int, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.users {
		if m.users[i].ID == id {
			m.users[i].LastLogin = &at
			return nil
		}
	}
	return store.ErrNotFound
}

type memDecks struct {
	decks map[int]types.Deck
	next  int
}

func (m *memDecks) Get(_ context.Context, id int) (types.Deck, error) {
	deck, ok := m.decks[id]
	if !ok {
		return types.Deck{}, store.ErrNotFound
	}
	return deck, nil
}

func (m *memDecks) ListByUser(_ context.Context, userID int, archived bool) ([]types.Deck, error) {
	out := make([]types.Deck, 0)
	for _, deck := range m.decks {
		if deck.UserID == userID && deck.Archived == archived {
			out = append(out, deck)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memDecks) ListSummaries(ctx context.Context, userID int) ([]types.DeckSummary, error) {
	decks, _ := m.ListByUser(ctx, userID, false)
	out := make([]types.DeckSummary, 0, len(decks))
	for _, deck := range decks {
		out = append(out, types.DeckSummary{ID: deck.ID, Name: deck.Name})
	}
	return out, nil
}

func (m *memDecks) Folders(_ context.Context, userID int) ([]types.Folder, error) {
	counts := map[string]int{}
	for _, deck := range m.decks {
		if deck.UserID == userID {
			counts[deck.Folder]++
		}
	}
	out := make([]types.Folder, 0, len(counts))
	for name, n := range counts {
		out = append(out, types.Folder{Name: name, DeckCount: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memDecks) Create(_ context.Context, deck types.Deck) (types.Deck, error) {
	m.next++
	deck.ID = m.next
	m.decks[deck.ID] = deck
	return deck, nil
}

func (m *memDecks) Update(_ context.Context, deck types.Deck) (types.Deck, error) {
	m.decks[deck.ID] = deck
	return deck, nil
}

func (m *memDecks) SetArchived(_ context.Context, id int, archived bool) error {
	deck := m.decks[id]
	deck.Archived = archived
	m.decks[id] = deck
	return nil
}

func (m *memDecks) Delete(_ context.Context, id int) error {
	delete(m.decks, id)
	return nil
}

type memFlashcards struct {
	cards map[int]types.Flashcard
	next  int
}

func (m *memFlashcards) WithTx(ctx context.Context, fn func(ctx context.Context, w store.FlashcardWriter) error) error {
	tx := &memFlashcards{cards: make(map[int]types.Flashcard, len(m.cards)), next: m.next}
	for id, card := range m.cards {
		tx.cards[id] = card
	}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	m.cards, m.next = tx.cards, tx.next
	return nil
}

func (m *memFlashcards) ListByDeck(_ context.Context, deckID int) ([]types.Flashcard, error) {
	out := make([]types.Flashcard, 0)
	for _, card := range m.cards {
		if card.DeckID == deckID {
			out = append(out, card)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memFlashcards) ListByUser(_ context.Context, _ int) ([]types.Flashcard, error) {
	out := make([]types.Flashcard, 0, len(m.cards))
	for _, card := range m.cards {
		out = append(out, card)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memFlashcards) Create(_ context.Context, card types.Flashcard) (types.Flashcard, error) {
	m.next++
	card.ID = m.next
	m.cards[card.ID] = card
	return card, nil
}

func (m *memFlashcards) ListIDsByDeck(ctx context.Context, deckID int) ([]int, error) {
	cards, _ := m.ListByDeck(ctx, deckID)
	ids := make([]int, 0, len(cards))
	for _, card := range cards {
		ids = append(ids, card.ID)
	}
	return ids, nil
}

func (m *memFlashcards) DeleteByIDs(_ context.Context, deckID int, ids []int) (int64, error) {
	var n int64
	for _, id := range ids {
		if card, ok := m.cards[id]; ok && card.DeckID == deckID {
			delete(m.cards, id)
			n++
		}
	}
	return n, nil
}

func (m *memFlashcards) UpdateContent(_ context.Context, deckID int, card types.Flashcard) (int64, error) {
	current, ok := m.cards[card.ID]
	if !ok || current.DeckID != deckID {
		return 0, nil
	}
	current.Term, current.Definition = card.Term, card.Definition
	m.cards[card.ID] = current
	return 1, nil
}

func (m *memFlashcards) InsertMany(ctx context.Context, deckID int, cards []types.Flashcard) ([]types.Flashcard, error) {
	out := make([]types.Flashcard, 0, len(cards))
	for _, card := range cards {
		card.DeckID = deckID
		created, _ := m.Create(ctx, card)
		out = append(out, created)
	}
	return out, nil
}

type memTasks struct {
	tasks map[int]types.Task
	next  int
}

func (m *memTasks) ListByUser(_ context.Context, userID int) ([]types.Task, error) {
	out := make([]types.Task, 0)
	for _, task := range m.tasks {
		if task.UserID == userID {
			out = append(out, task)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memTasks) Create(_ context.Context, task types.Task) (types.Task, error) {
	m.next++
	task.ID = m.next
	m.tasks[task.ID] = task
	return task, nil
}

func (m *memTasks) SetCompleted(_ context.Context, userID, taskID int, completed bool) error {
	task, ok := m.tasks[taskID]
	if !ok || task.UserID != userID {
		return store.ErrNotFound
	}
	task.Completed = completed
	m.tasks[taskID] = task
	return nil
}

func (m *memTasks) Delete(_ context.Context, userID, taskID int) error {
	task, ok := m.tasks[taskID]
	if !ok || task.UserID != userID {
		return store.ErrNotFound
	}
	delete(m.tasks, taskID)
	return nil
}
