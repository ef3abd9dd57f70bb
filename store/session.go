package store

import (
	"sort"
	"strings"
	"sync"
	"time"

	"docchat/index"
	"docchat/logger"
	"docchat/types"

	"github.com/patrickmn/go-cache"
)

// Session is the unit of isolation: one conversation, at most one indexed
// document. All mutation goes through the owning store, which serializes
// writers per session.
type Session struct {
	ID        string
	Title     string
	CreatedAt time.Time

	mu      sync.Mutex
	history []types.Turn
	idx     index.Index
}

// Index returns the session's current document index, nil when no document
// has been uploaded yet.
func (s *Session) Index() index.Index {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.idx
}

// History returns a copy of the recorded turns in insertion order.
func (s *Session) History() []types.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Turn, len(s.history))
	copy(out, s.history)
	return out
}

func (s *Session) info() types.SessionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return types.SessionInfo{
		ID:          s.ID,
		Title:       s.Title,
		CreatedAt:   s.CreatedAt,
		Turns:       len(s.history),
		HasDocument: s.idx != nil,
	}
}

// SessionStorer is the session store contract. GetOrCreate is the only way
// sessions come into existence, so reads on unknown ids never fail.
type SessionStorer interface {
	GetOrCreate(id string) *Session
	Peek(id string) (*Session, bool)
	ReplaceIndex(id string, idx index.Index) index.Index
	AppendTurn(id string, turn types.Turn)
	History(id string) []types.Turn
	Delete(id string) (index.Index, bool)
	List() []types.SessionInfo
}

// MemoryStore keeps sessions in a process-local cache. Entries never
// expire; a session lives until an explicit Delete.
type MemoryStore struct {
	cache    *cache.Cache
	log      *logger.Logger
	snapshot *Snapshot
}

var _ SessionStorer = &MemoryStore{}

func NewMemoryStore(log *logger.Logger, snapshot *Snapshot) *MemoryStore {
	c := cache.New(cache.NoExpiration, 0)
	s := &MemoryStore{cache: c, log: log, snapshot: snapshot}
	s.restore()
	return s
}

func (s *MemoryStore) restore() {
	if s.snapshot == nil {
		return
	}
	records, err := s.snapshot.Load()
	if err != nil {
		s.log.Warn("store", "could not restore session snapshot", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	for _, rec := range records {
		sess := &Session{
			ID:        rec.ID,
			Title:     rec.Title,
			CreatedAt: rec.CreatedAt,
			history:   rec.History,
		}
		s.cache.Set(rec.ID, sess, cache.NoExpiration)
	}
	if len(records) > 0 {
		s.log.Info("store", "restored sessions from snapshot", map[string]interface{}{
			"sessions": len(records),
		})
	}
}

func (s *MemoryStore) GetOrCreate(id string) *Session {
	for {
		if x, found := s.cache.Get(id); found {
			return x.(*Session)
		}
		sess := &Session{ID: id, CreatedAt: time.Now().UTC()}
		// Add fails when another request created the session in between.
		if err := s.cache.Add(id, sess, cache.NoExpiration); err == nil {
			return sess
		}
	}
}

func (s *MemoryStore) Peek(id string) (*Session, bool) {
	if x, found := s.cache.Get(id); found {
		return x.(*Session), true
	}
	return nil, false
}

// ReplaceIndex swaps the session's document index and returns the previous
// one so the caller can release it. Histories are untouched: a new document
// does not erase the conversation.
func (s *MemoryStore) ReplaceIndex(id string, idx index.Index) index.Index {
	sess := s.GetOrCreate(id)
	sess.mu.Lock()
	old := sess.idx
	sess.idx = idx
	sess.mu.Unlock()
	s.persist()
	return old
}

func (s *MemoryStore) AppendTurn(id string, turn types.Turn) {
	sess := s.GetOrCreate(id)
	sess.mu.Lock()
	if sess.Title == "" {
		sess.Title = makeTitle(turn.Question)
	}
	sess.history = append(sess.history, turn)
	sess.mu.Unlock()
	s.persist()
}

// History returns the session's turns, oldest first. Unknown sessions read
// as empty, they are not created.
func (s *MemoryStore) History(id string) []types.Turn {
	sess, ok := s.Peek(id)
	if !ok {
		return []types.Turn{}
	}
	return sess.History()
}

// Delete removes the session and returns its index, if any, for disposal.
// The boolean reports whether the session existed.
func (s *MemoryStore) Delete(id string) (index.Index, bool) {
	sess, ok := s.Peek(id)
	if !ok {
		return nil, false
	}
	sess.mu.Lock()
	old := sess.idx
	sess.idx = nil
	sess.mu.Unlock()
	s.cache.Delete(id)
	s.persist()
	return old, true
}

func (s *MemoryStore) List() []types.SessionInfo {
	items := s.cache.Items()
	infos := make([]types.SessionInfo, 0, len(items))
	for _, item := range items {
		infos = append(infos, item.Object.(*Session).info())
	}
	sort.Slice(infos, func(i, j int) bool {
		if !infos[i].CreatedAt.Equal(infos[j].CreatedAt) {
			return infos[i].CreatedAt.After(infos[j].CreatedAt)
		}
		return infos[i].ID < infos[j].ID
	})
	return infos
}

func (s *MemoryStore) persist() {
	if s.snapshot == nil {
		return
	}
	records := make([]SessionRecord, 0)
	for _, item := range s.cache.Items() {
		sess := item.Object.(*Session)
		sess.mu.Lock()
		records = append(records, SessionRecord{
			ID:        sess.ID,
			Title:     sess.Title,
			CreatedAt: sess.CreatedAt,
			History:   append([]types.Turn(nil), sess.history...),
		})
		sess.mu.Unlock()
	}
	sort.Slice(records, func(i, j int) bool {
		if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CreatedAt.Before(records[j].CreatedAt)
		}
		return records[i].ID < records[j].ID
	})
	if err := s.snapshot.Save(records); err != nil {
		s.log.Warn("store", "could not write session snapshot", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// makeTitle derives a short listing title from the first question.
func makeTitle(question string) string {
	title := strings.TrimSpace(question)
	const max = 80
	runes := []rune(title)
	if len(runes) > max {
		title = string(runes[:max]) + "..."
	}
	return title
}
