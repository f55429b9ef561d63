// Package domain holds API keys and their verification rules. A key is
// issued once in plaintext as "gt_<id>_<secret>"; only the bcrypt hash of the
// secret is stored.
package domain

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"golang.org/x/crypto/bcrypt"
)

const keyPrefix = "gt_"

var (
	ErrMalformedKey = errors.New("malformed api key")
	ErrKeyMismatch  = errors.New("api key does not match")
)

type APIKey struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"-"`
	Name      string       `gorm:"type:text;not null" json:"name"`
	Role      string       `gorm:"type:text;not null" json:"role"`
	KeyHash   string       `gorm:"type:text;not null" json:"-"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
}

func (APIKey) TableName() string { return "api_keys" }

// Generate mints a new key. The returned plaintext is shown to the operator
// once and cannot be recovered from the stored record.
func Generate(node *snowflake.Node, name, role string, now time.Time) (string, *APIKey, error) {
	raw := make([]byte, 24)
	if _, err := rand.Read(raw); err != nil {
		return "", nil, err
	}
	secret := hex.EncodeToString(raw)

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, err
	}

	id := node.Generate()
	record := &APIKey{
		ID:        id,
		Name:      name,
		Role:      role,
		KeyHash:   string(hash),
		CreatedAt: now,
	}
	return keyPrefix + id.String() + "_" + secret, record, nil
}

// Parse splits a presented key into its id and secret parts.
func Parse(presented string) (snowflake.ID, string, error) {
	if !strings.HasPrefix(presented, keyPrefix) {
		return 0, "", ErrMalformedKey
	}
	rest := strings.TrimPrefix(presented, keyPrefix)
	idPart, secret, ok := strings.Cut(rest, "_")
	if !ok || idPart == "" || secret == "" {
		return 0, "", ErrMalformedKey
	}
	id, err := snowflake.ParseString(idPart)
	if err != nil {
		return 0, "", ErrMalformedKey
	}
	return id, secret, nil
}

// Verify checks a presented secret against the stored hash.
func (k *APIKey) Verify(secret string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(k.KeyHash), []byte(secret)); err != nil {
		return ErrKeyMismatch
	}
	return nil
}
