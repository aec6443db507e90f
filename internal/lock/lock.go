// Package lock implements the application lock state: a process-wide
// gate in front of the point-of-sale, sales history and settings
// sections. The state is deliberately not persisted; a restart comes
// back unlocked.
package lock

import (
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrWrongPIN   = errors.New("incorrect pin")
	ErrInvalidPIN = errors.New("pin must be 4 digits")
)

type Service struct {
	mu      sync.Mutex
	locked  bool
	pinHash []byte
}

func New(pin string) (*Service, error) {
	if !validPIN(pin) {
		return nil, ErrInvalidPIN
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &Service{pinHash: hash}, nil
}

func validPIN(pin string) bool {
	if len(pin) != 4 {
		return false
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (s *Service) Locked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locked
}

func (s *Service) Lock() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locked = true
}

func (s *Service) Unlock(pin string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if bcrypt.CompareHashAndPassword(s.pinHash, []byte(pin)) != nil {
		return ErrWrongPIN
	}
	s.locked = false
	return nil
}

// SetPIN replaces the code after verifying the current one.
func (s *Service) SetPIN(current, next string) error {
	if !validPIN(next) {
		return ErrInvalidPIN
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if bcrypt.CompareHashAndPassword(s.pinHash, []byte(current)) != nil {
		return ErrWrongPIN
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.pinHash = hash
	return nil
}
