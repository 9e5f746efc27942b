package services

import (
	"sync"
	"time"

	"github.com/matthewhartstonge/argon2"

	"marketplace/logger"
	"marketplace/repositories"
	"marketplace/utils"
)

type fixture struct {
	users    *repositories.MemoryUserRepository
	items    *repositories.MemoryItemRepository
	store    *repositories.MemorySessionStore
	sessions *SessionManager
	auth     *AuthService
	catalog  *CatalogService
	user     *UserService
	mailer   *fakeMailer
}

func cheapHasher() *utils.PasswordHasher {
	cfg := argon2.DefaultConfig()
	cfg.MemoryCost = 1024
	cfg.TimeCost = 1
	cfg.Parallelism = 1
	return utils.NewPasswordHasherWithConfig(cfg)
}

func newFixture() *fixture {
	log := logger.Nop()
	f := &fixture{
		users:  repositories.NewMemoryUserRepository(),
		items:  repositories.NewMemoryItemRepository(),
		store:  repositories.NewMemorySessionStore(),
		mailer: &fakeMailer{sent: make(chan string, 4)},
	}
	tx := repositories.NewMemoryTxManager()
	f.sessions = NewSessionManager(f.store, "test-secret", time.Hour)
	f.auth = NewAuthService(f.users, cheapHasher(), f.sessions, f.mailer, log)
	f.catalog = NewCatalogService(f.items, f.users, tx, log)
	f.user = NewUserService(f.users, f.items, tx, log)
	return f
}

type fakeMailer struct {
	mu   sync.Mutex
	sent chan string
	err  error
}

func (m *fakeMailer) SendWelcome(toEmail, name string, category string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent <- toEmail
	return m.err
}
