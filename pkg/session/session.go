// Package session manages the local credential and the identity of the
// caller. The bearer token is obtained out of band (log in to the web app
// and save the token to the token file); offerdeck never performs a login
// flow itself.
package session

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/oauth2"

	"github.com/offerdeck/offerdeck/pkg/client"
	"github.com/offerdeck/offerdeck/pkg/log"
	"github.com/offerdeck/offerdeck/pkg/offers"
)

// Session holds the bearer token read from the token file and, once
// Identify has run, the server-reported identity. It implements
// oauth2.TokenSource so it can be handed directly to the API client.
type Session struct {
	path   string
	logger *log.Logger

	mu    sync.RWMutex
	token string
	user  *offers.User
}

// Load reads the token file at path. A missing or empty file is an error:
// there is no way to talk to the service without a credential.
func Load(path string) (*Session, error) {
	s := &Session{
		path:   path,
		logger: log.ForComponent("session"),
	}
	if err := s.reload(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) reload() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return fmt.Errorf("no credential at %s: log in to the web application and save the bearer token there", s.path)
	}
	if err != nil {
		return fmt.Errorf("reading token file: %w", err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return fmt.Errorf("token file %s is empty: log in to the web application and save the bearer token there", s.path)
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

// Token implements oauth2.TokenSource.
func (s *Session) Token() (*oauth2.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return nil, fmt.Errorf("no credential loaded")
	}
	return &oauth2.Token{AccessToken: s.token, TokenType: "Bearer"}, nil
}

// Identify fetches the caller's identity once and caches it. Role and
// permissions are read-only facts reported by the server.
func (s *Session) Identify(ctx context.Context, c *client.Client) (*offers.User, error) {
	user, err := c.CurrentUser(ctx)
	if err != nil {
		if client.IsUnauthorized(err) {
			return nil, fmt.Errorf("credential rejected: refresh the token in %s", s.path)
		}
		return nil, err
	}
	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
	return user, nil
}

// User returns the cached identity, or nil before Identify has run.
func (s *Session) User() *offers.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Role returns the cached role, or the empty role before Identify.
func (s *Session) Role() offers.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return ""
	}
	return s.user.Role
}

// Watch re-reads the token file whenever it changes on disk, so a token
// refreshed in another terminal is picked up by long-running commands.
// It blocks until ctx is cancelled.
func (s *Session) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating token file watcher: %w", err)
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			s.logger.Errorf("closing token file watcher: %v", err)
		}
	}()

	if err := watcher.Add(s.path); err != nil {
		return fmt.Errorf("watching token file %s: %w", s.path, err)
	}
	s.logger.Debugf("watching token file for changes: %s", s.path)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Editors and credential helpers often replace the file
			// atomically, which surfaces as rename or remove.
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				if event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
					time.Sleep(200 * time.Millisecond)
					if _, err := os.Stat(s.path); os.IsNotExist(err) {
						s.logger.Debugf("token file removed and not replaced, keeping current credential")
						continue
					}
					if err := watcher.Add(s.path); err != nil {
						s.logger.Errorf("re-watching token file: %v", err)
					}
				} else {
					time.Sleep(100 * time.Millisecond)
				}
				if err := s.reload(); err != nil {
					s.logger.Errorf("reloading token file: %v", err)
				} else {
					s.logger.Debugf("token reloaded from %s", s.path)
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Errorf("token file watcher: %v", err)
		}
	}
}
