// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package flash provides Valkey-backed one-time notification messages that
// survive the redirect after a form submission. Messages are keyed by a
// random cookie and removed when read.
package flash

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// CookieName is the name of the cookie identifying a browser's flash queue.
	CookieName = "tb_flash"

	// DefaultTTL bounds how long an unread message is kept.
	DefaultTTL = 10 * time.Minute

	// keyPrefix namespaces flash keys in Valkey to avoid collisions.
	keyPrefix = "flash:"

	// idLength is the byte length of the random queue ID (16 bytes = 32 hex chars).
	idLength = 16
)

// Message types understood by the templates.
const (
	TypeSuccess = "success"
	TypeError   = "error"
)

// Message is a single notification shown once on the next rendered page.
type Message struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Success returns a success message.
func Success(text string) Message {
	return Message{Type: TypeSuccess, Text: text}
}

// Error returns an error message.
func Error(text string) Message {
	return Message{Type: TypeError, Text: text}
}

// Store manages flash queues in Valkey.
type Store struct {
	client *redis.Client
	ttl    time.Duration
	secure bool
}

// NewStore creates a flash store backed by the given Valkey client.
// secure marks the cookie HTTPS-only.
func NewStore(client *redis.Client, secure bool) *Store {
	return &Store{
		client: client,
		ttl:    DefaultTTL,
		secure: secure,
	}
}

// Add appends a message to the requester's queue, creating the queue
// cookie on first use.
func (s *Store) Add(ctx context.Context, w http.ResponseWriter, r *http.Request, msg Message) error {
	id := queueID(r)
	if id == "" {
		var err error
		if id, err = generateID(); err != nil {
			return fmt.Errorf("flash id: %w", err)
		}
		http.SetCookie(w, &http.Cookie{
			Name:     CookieName,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			Secure:   s.secure,
			SameSite: http.SameSiteLaxMode,
		})
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("flash marshal: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, keyPrefix+id, payload)
		pipe.Expire(ctx, keyPrefix+id, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("flash add: %w", err)
	}
	return nil
}

// Pending reports whether the requester has unread messages, without
// consuming them.
func (s *Store) Pending(ctx context.Context, r *http.Request) (bool, error) {
	id := queueID(r)
	if id == "" {
		return false, nil
	}
	n, err := s.client.Exists(ctx, keyPrefix+id).Result()
	if err != nil {
		return false, fmt.Errorf("flash pending: %w", err)
	}
	return n > 0, nil
}

// Pop returns and removes every queued message for the requester.
// Requests without a queue cookie yield nil.
func (s *Store) Pop(ctx context.Context, r *http.Request) ([]Message, error) {
	id := queueID(r)
	if id == "" {
		return nil, nil
	}

	var lrange *redis.StringSliceCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		lrange = pipe.LRange(ctx, keyPrefix+id, 0, -1)
		pipe.Del(ctx, keyPrefix+id)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("flash pop: %w", err)
	}

	raw := lrange.Val()
	msgs := make([]Message, 0, len(raw))
	for _, item := range raw {
		var m Message
		if err := json.Unmarshal([]byte(item), &m); err != nil {
			return nil, fmt.Errorf("flash unmarshal: %w", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}

// queueID returns the queue cookie value, or "" when absent.
func queueID(r *http.Request) string {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// generateID creates a cryptographically random queue identifier.
func generateID() (string, error) {
	b := make([]byte, idLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
