package chat

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"finchat/internal/pkg/maturity"
)

// Stage names the next piece of input the conversation is waiting for.
type Stage string

const (
	StageRisk        Stage = "risk"
	StageGoal        Stage = "goal"
	StageHorizon     Stage = "horizon"
	StageProductType Stage = "product_type"
	StageCalculate   Stage = "calculate"
)

// Profile is the investment profile collected before recommending.
type Profile struct {
	Risk    string `json:"risk"`
	Goal    string `json:"goal"`
	Horizon string `json:"horizon"`
}

// Session is the explicit state of one conversation. It is owned by the
// dialogue driver; the parser and calculator only read from it. The
// category is set once at the product-type stage and never reassigned.
type Session struct {
	ID             string
	Stage          Stage
	Profile        Profile
	Category       maturity.Category
	Recommendation string
	CreatedAt      time.Time
}

// Store keeps sessions in memory for the process lifetime.
type Store struct {
	mutex    sync.Mutex
	sessions map[string]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

func (s *Store) Create() *Session {
	session := &Session{
		ID:        uuid.NewString(),
		Stage:     StageRisk,
		CreatedAt: time.Now(),
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.sessions[session.ID] = session

	return session
}

func (s *Store) Get(id string) (*Session, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	session, ok := s.sessions[id]
	return session, ok
}
