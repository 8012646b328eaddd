package app

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/pbkdf2"

	"quizdesk/internal/domain"
)

// UserStore abstracts the user table for the identity service.
type UserStore interface {
	Init() error
	AddUser(username, passwordDigest, role string) (int64, error)
	FindUser(username string) (domain.User, bool, error)
	Users() ([]domain.User, error)
	ReplaceUsers(users []domain.User) error
}

// Login matching scans for an exact (username, digest) pair, so the digest
// must be deterministic: pbkdf2 over a fixed application salt rather than a
// per-call random one.
var passwordSalt = []byte("quizdesk/v1")

const pbkdf2Iterations = 4096

func digestPassword(password string) string {
	return hex.EncodeToString(pbkdf2.Key([]byte(password), passwordSalt, pbkdf2Iterations, 32, sha256.New))
}

// AuthService registers accounts and authenticates logins against the user
// table.
type AuthService struct {
	store UserStore
	log   *slog.Logger
}

func NewAuthService(store UserStore, log *slog.Logger) *AuthService {
	return &AuthService{store: store, log: log}
}

// Register creates an account and returns its id. The username is trimmed
// and must be unique (case-sensitive exact match); a taken name returns
// domain.ErrDuplicateUsername so callers can report it distinctly from a
// generic failure.
func (s *AuthService) Register(username, password, role string) (int64, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return 0, fmt.Errorf("%w: username and password are required", domain.ErrValidation)
	}
	if !domain.ValidRole(role) {
		return 0, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, role)
	}

	if err := s.store.Init(); err != nil {
		return 0, err
	}
	if _, taken, err := s.store.FindUser(username); err != nil {
		return 0, err
	} else if taken {
		return 0, domain.ErrDuplicateUsername
	}

	id, err := s.store.AddUser(username, digestPassword(password), role)
	if err != nil {
		return 0, err
	}
	s.log.Info("user registered", "id", id, "username", username, "role", role)
	return id, nil
}

// Login authenticates a username/password pair. Both inputs are trimmed;
// matching is case-sensitive.
func (s *AuthService) Login(username, password string) (domain.UserSession, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)

	if err := s.store.Init(); err != nil {
		return domain.UserSession{}, err
	}

	digest := digestPassword(password)
	users, err := s.store.Users()
	if err != nil {
		return domain.UserSession{}, err
	}
	for _, u := range users {
		if u.Username == username && u.PasswordDigest == digest {
			return domain.UserSession{UserID: u.ID, Name: username, Role: u.Role}, nil
		}
	}
	return domain.UserSession{}, domain.ErrInvalidCredentials
}

// ListStudents returns student accounts in storage order, de-duplicated by
// username (first occurrence wins).
func (s *AuthService) ListStudents() ([]domain.Student, error) {
	users, err := s.store.Users()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	var out []domain.Student
	for _, u := range users {
		if u.Role != domain.RoleStudent {
			continue
		}
		if _, dup := seen[u.Username]; dup {
			continue
		}
		seen[u.Username] = struct{}{}
		out = append(out, domain.Student{ID: u.ID, Username: u.Username})
	}
	return out, nil
}

// ListTeachers returns teacher accounts in storage order.
func (s *AuthService) ListTeachers() ([]domain.Student, error) {
	users, err := s.store.Users()
	if err != nil {
		return nil, err
	}
	var out []domain.Student
	for _, u := range users {
		if u.Role == domain.RoleTeacher {
			out = append(out, domain.Student{ID: u.ID, Username: u.Username})
		}
	}
	return out, nil
}

// CleanupStudents removes duplicate student rows (first occurrence per
// username wins), keeping ids intact. Teacher rows are never touched.
// Returns the number of rows removed.
func (s *AuthService) CleanupStudents() (int, error) {
	users, err := s.store.Users()
	if err != nil {
		return 0, err
	}
	seen := make(map[string]struct{})
	kept := make([]domain.User, 0, len(users))
	for _, u := range users {
		if u.Role == domain.RoleStudent {
			if _, dup := seen[u.Username]; dup {
				continue
			}
			seen[u.Username] = struct{}{}
		}
		kept = append(kept, u)
	}
	removed := len(users) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err := s.store.ReplaceUsers(kept); err != nil {
		return 0, err
	}
	s.log.Info("student roster cleaned", "removed", removed)
	return removed, nil
}
