package handlers

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dietitianpushpakumari-ship-it/nutricarewellness-connect/internal/models"
	"github.com/dietitianpushpakumari-ship-it/nutricarewellness-connect/internal/services"
	"github.com/dietitianpushpakumari-ship-it/nutricarewellness-connect/internal/utils"
)

type memoryClientStore struct {
	mu       sync.Mutex
	profiles map[string]models.ClientProfile
	err      error
	queries  []string
}

func newMemoryClientStore(profiles ...models.ClientProfile) *memoryClientStore {
	s := &memoryClientStore{profiles: map[string]models.ClientProfile{}}
	for _, p := range profiles {
		s.profiles[p.ID()] = p
	}
	return s
}

func (s *memoryClientStore) FindOneBy(_ context.Context, field, value string) (models.ClientProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, field)
	if s.err != nil {
		return nil, s.err
	}
	for _, p := range s.profiles {
		if p[field] == value {
			return p, nil
		}
	}
	return nil, services.ErrClientNotFound
}

func (s *memoryClientStore) FindSummary(_ context.Context, patientID, mobile string) (models.ClientSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, "summary")
	if s.err != nil {
		return models.ClientSummary{}, s.err
	}
	for _, p := range s.profiles {
		if p[models.FieldPatientID] == patientID && p[models.FieldMobile] == mobile {
			summary := models.ClientSummary{ID: p.ID()}
			summary.HasPasswordSet, _ = p[models.FieldHasPasswordSet].(bool)
			summary.Status, _ = p["status"].(string)
			summary.IsArchived, _ = p["isArchived"].(bool)
			summary.IsSoftDeleted, _ = p["isSoftDeleted"].(bool)
			return summary, nil
		}
	}
	return models.ClientSummary{}, services.ErrClientNotFound
}

func (s *memoryClientStore) Patch(_ context.Context, clientID string, fields map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	p, ok := s.profiles[clientID]
	if !ok {
		return fmt.Errorf("patch client %s: %w", clientID, services.ErrClientNotFound)
	}
	for k, v := range fields {
		p[k] = v
	}
	p[models.FieldUpdatedAt] = time.Now()
	return nil
}

func (s *memoryClientStore) Ping(context.Context) error { return s.err }

type memoryOtpStore struct {
	mu    sync.Mutex
	seq   int
	saved []models.OtpSession
	err   error
}

func (s *memoryOtpStore) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return fmt.Sprintf("session-%d", s.seq)
}

func (s *memoryOtpStore) Save(_ context.Context, session models.OtpSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, session)
	return nil
}

type memoryIdentity struct {
	mu     sync.Mutex
	creds  map[string]models.Credential
	getErr error
	calls  []string
}

func newMemoryIdentity() *memoryIdentity {
	return &memoryIdentity{creds: map[string]models.Credential{}}
}

func (m *memoryIdentity) GetCredential(_ context.Context, id string) (models.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "get")
	if m.getErr != nil {
		return models.Credential{}, m.getErr
	}
	cred, ok := m.creds[id]
	if !ok {
		return models.Credential{}, services.ErrCredentialNotFound
	}
	return cred, nil
}

func (m *memoryIdentity) GetCredentialByEmail(_ context.Context, email string) (models.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return models.Credential{}, m.getErr
	}
	for _, cred := range m.creds {
		if strings.EqualFold(cred.Email, email) {
			return cred, nil
		}
	}
	return models.Credential{}, services.ErrCredentialNotFound
}

func (m *memoryIdentity) CreateCredential(_ context.Context, nc models.NewCredential) (models.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "create")
	hash, err := utils.HashPassword(nc.Password)
	if err != nil {
		return models.Credential{}, err
	}
	cred := models.Credential{
		ID:            nc.ID,
		Email:         nc.Email,
		PasswordHash:  hash,
		DisplayName:   nc.DisplayName,
		EmailVerified: nc.EmailVerified,
	}
	m.creds[nc.ID] = cred
	return cred, nil
}

func (m *memoryIdentity) UpdateCredential(_ context.Context, id string, u models.CredentialUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "update")
	cred, ok := m.creds[id]
	if !ok {
		return services.ErrCredentialNotFound
	}
	hash, err := utils.HashPassword(u.Password)
	if err != nil {
		return err
	}
	cred.PasswordHash = hash
	cred.EmailVerified = u.EmailVerified
	m.creds[id] = cred
	return nil
}

type stubSender struct {
	mu   sync.Mutex
	sent []models.PushMessage
	err  error
}

func (s *stubSender) Send(_ context.Context, msg models.PushMessage) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	if s.err != nil {
		return "", s.err
	}
	return "projects/test/messages/1", nil
}
