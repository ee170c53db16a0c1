// Package session holds the recovery-code session. The code is both the
// account identifier and the implicit shared secret for cloud sync.
package session

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"weedoo/internal/storage"
)

const sessionKey = "weedoo_auth_storage"

// codeAlphabet excludes visually ambiguous characters (0, O, I, l).
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ123456789"

const (
	codePrefix = "wd-"
	codeLength = 10
)

var ErrEmptyCode = errors.New("recovery code is empty")

type state struct {
	SaveCode   string `json:"saveCode"`
	IsLoggedIn bool   `json:"isLoggedIn"`
}

type Store struct {
	mu       sync.Mutex
	db       storage.Store
	code     string
	loggedIn bool
	subs     []func()
}

func New(db storage.Store) (*Store, error) {
	s := &Store{db: db}

	data, ok, err := db.Get(sessionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if ok {
		var st state
		if err := json.Unmarshal(data, &st); err != nil {
			return nil, fmt.Errorf("failed to parse session: %w", err)
		}
		s.code = st.SaveCode
		s.loggedIn = st.IsLoggedIn
	}
	return s, nil
}

// GenerateCode produces a new candidate recovery code. It does not change
// session state; the caller logs in with it explicitly.
func GenerateCode() string {
	// Bytes at or above the largest multiple of the alphabet size are
	// resampled; taking them modulo would skew the distribution.
	limit := byte(256 - 256%len(codeAlphabet))

	var b strings.Builder
	b.WriteString(codePrefix)
	buf := make([]byte, 1)
	for n := 0; n < codeLength; {
		if _, err := rand.Read(buf); err != nil {
			// crypto/rand never fails on supported platforms.
			panic(err)
		}
		if buf[0] >= limit {
			continue
		}
		b.WriteByte(codeAlphabet[int(buf[0])%len(codeAlphabet)])
		n++
	}
	return b.String()
}

// LoginWithCode trims and stores the code. Logging in again with a different
// code overwrites the previous one.
func (s *Store) LoginWithCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return ErrEmptyCode
	}

	s.mu.Lock()
	s.code = code
	s.loggedIn = true
	s.persistLocked()
	s.mu.Unlock()
	s.notify()
	return nil
}

// Logout discards the code. Domain stores are intentionally left alone: local
// data outlives the session.
func (s *Store) Logout() {
	s.mu.Lock()
	s.code = ""
	s.loggedIn = false
	s.persistLocked()
	s.mu.Unlock()
	s.notify()
}

func (s *Store) Code() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.code
}

func (s *Store) IsLoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loggedIn
}

// Subscribe registers fn to run on login and logout.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

func (s *Store) notify() {
	s.mu.Lock()
	subs := make([]func(), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}

func (s *Store) persistLocked() {
	data, err := json.Marshal(state{SaveCode: s.code, IsLoggedIn: s.loggedIn})
	if err != nil {
		log.Printf("Failed to serialize session: %v", err)
		return
	}
	if err := s.db.Put(sessionKey, data); err != nil {
		log.Printf("Failed to persist session: %v", err)
	}
}
