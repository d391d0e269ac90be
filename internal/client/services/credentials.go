package services

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/dmitrijs2005/recetario/internal/client/models"
	"github.com/dmitrijs2005/recetario/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/recetario/internal/common"
	"github.com/dmitrijs2005/recetario/internal/cryptox"
	"github.com/dmitrijs2005/recetario/internal/logging"
)

const (
	deviceSecretSize = 32
	credentialSalt   = "recetario.credentials.v1"
)

// CredentialStore keeps "remember me" logins, one per email. Passwords are
// sealed with a key derived from a random per-device secret.
type CredentialStore struct {
	repo metadata.Repository
	log  logging.Logger

	mu     sync.Mutex
	loaded bool
	key    []byte
	creds  []models.SavedCredential
}

func NewCredentialStore(repo metadata.Repository, log logging.Logger) *CredentialStore {
	if log == nil {
		log = logging.Nop()
	}
	return &CredentialStore{repo: repo, log: log}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// deviceKey loads the device secret, creating it on first use.
func (c *CredentialStore) deviceKey(ctx context.Context) ([]byte, error) {
	if c.key != nil {
		return c.key, nil
	}

	secret, err := c.repo.Get(ctx, common.KeyDeviceSecret)
	if err != nil {
		return nil, fmt.Errorf("read device secret: %w", err)
	}
	if len(secret) == 0 {
		secret = common.GenerateRandByteArray(deviceSecretSize)
		if err := c.repo.Set(ctx, common.KeyDeviceSecret, secret); err != nil {
			return nil, fmt.Errorf("store device secret: %w", err)
		}
	}

	c.key = cryptox.DeriveKey(secret, []byte(credentialSalt))
	common.WipeByteArray(secret)
	return c.key, nil
}

// Load reads the saved list from storage. Entries that cannot be opened
// (e.g. the device secret was reset) are skipped.
func (c *CredentialStore) Load(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load(ctx)
}

func (c *CredentialStore) load(ctx context.Context) error {
	raw, err := c.repo.Get(ctx, common.KeyCredentials)
	if err != nil {
		return fmt.Errorf("read credentials: %w", err)
	}

	c.creds = nil
	c.loaded = true
	if len(raw) == 0 {
		return nil
	}

	var sealed []models.SavedCredential
	if err := json.Unmarshal(raw, &sealed); err != nil {
		c.log.Warn(ctx, "saved credentials unreadable, ignoring", "error", err)
		return nil
	}

	key, err := c.deviceKey(ctx)
	if err != nil {
		return err
	}

	for _, s := range sealed {
		plain, err := cryptox.Open(key, s.Password)
		if err != nil {
			c.log.Warn(ctx, "dropping unreadable saved credential", "email", s.Email)
			continue
		}
		c.creds = append(c.creds, models.SavedCredential{Email: s.Email, Password: string(plain)})
	}
	return nil
}

func (c *CredentialStore) ensureLoaded(ctx context.Context) error {
	if c.loaded {
		return nil
	}
	return c.load(ctx)
}

func (c *CredentialStore) persist(ctx context.Context, creds []models.SavedCredential) error {
	key, err := c.deviceKey(ctx)
	if err != nil {
		return err
	}

	sealed := make([]models.SavedCredential, 0, len(creds))
	for _, cr := range creds {
		s, err := cryptox.Seal(key, []byte(cr.Password))
		if err != nil {
			return err
		}
		sealed = append(sealed, models.SavedCredential{Email: cr.Email, Password: s})
	}

	raw, err := json.Marshal(sealed)
	if err != nil {
		return err
	}
	if err := c.repo.Set(ctx, common.KeyCredentials, raw); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}

func (c *CredentialStore) indexOf(email string) int {
	return slices.IndexFunc(c.creds, func(cr models.SavedCredential) bool {
		return cr.Email == email
	})
}

// Remember stores or replaces the password saved for email.
func (c *CredentialStore) Remember(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)
	if err := models.NewValidator().Required("email", email).Required("password", password).Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureLoaded(ctx); err != nil {
		return err
	}

	next := slices.Clone(c.creds)
	entry := models.SavedCredential{Email: email, Password: password}
	if i := c.indexOf(email); i >= 0 {
		next[i] = entry
	} else {
		next = append(next, entry)
	}

	if err := c.persist(ctx, next); err != nil {
		return err
	}
	c.creds = next
	return nil
}

// Forget removes the entry for email. It reports whether one existed.
func (c *CredentialStore) Forget(ctx context.Context, email string) (bool, error) {
	email = normalizeEmail(email)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureLoaded(ctx); err != nil {
		return false, err
	}

	i := c.indexOf(email)
	if i < 0 {
		return false, nil
	}

	next := slices.Delete(slices.Clone(c.creds), i, i+1)
	if err := c.persist(ctx, next); err != nil {
		return false, err
	}
	c.creds = next
	return true, nil
}

// Lookup returns the saved entry for email.
func (c *CredentialStore) Lookup(ctx context.Context, email string) (models.SavedCredential, bool, error) {
	email = normalizeEmail(email)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureLoaded(ctx); err != nil {
		return models.SavedCredential{}, false, err
	}
	if i := c.indexOf(email); i >= 0 {
		return c.creds[i], true, nil
	}
	return models.SavedCredential{}, false, nil
}

// List returns the saved entries in insertion order.
func (c *CredentialStore) List(ctx context.Context) ([]models.SavedCredential, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return slices.Clone(c.creds), nil
}
