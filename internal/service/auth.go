package service

import (
	"context"
	"fmt"

	"github.com/atinyakov/ImpactMatch/internal/models"
	"go.uber.org/zap"
)

// Registration is the candidate account passed to Register.
type Registration struct {
	Username    string      `json:"username"`
	Password    string      `json:"password"`
	Role        models.Role `json:"role"`
	DisplayName string      `json:"displayName,omitempty"`
	// Skills are kept for volunteers only.
	Skills []string `json:"skills,omitempty"`
}

// Authenticate logs in the user with exactly matching username and password.
// On success the session pointer is persisted. The returned user has no password.
func (s *Store) Authenticate(ctx context.Context, username, password string) (u models.User, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.observe("authenticate", err) }()

	idx := -1
	for i, cand := range s.data.Users {
		if cand.Username == username {
			idx = i
			break
		}
	}
	var legacy bool
	if idx >= 0 {
		var ok bool
		ok, legacy = checkPassword(s.data.Users[idx].Password, password)
		if !ok {
			idx = -1
		}
	}
	if idx < 0 {
		s.log.Warn("login failed", zap.String("username", username))
		s.notify.Notify(Notification{Title: "Login failed", Description: "Invalid username or password", Destructive: true})
		return models.User{}, ErrInvalidCredentials
	}

	if legacy {
		next := s.data.Clone()
		hash, err := hashPassword(password, s.hashCost)
		if err != nil {
			return models.User{}, err
		}
		next.Users[idx].Password = hash
		if err := s.saveData(ctx, next); err != nil {
			return models.User{}, err
		}
		s.data = next
		s.log.Info("upgraded plaintext password", zap.String("user_id", next.Users[idx].ID))
	}

	user := s.data.Users[idx]
	if err := s.saveSession(ctx, user); err != nil {
		return models.User{}, err
	}
	s.current = user.ID

	s.log.Info("user logged in", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	s.notify.Notify(Notification{Title: "Welcome back!", Description: "Logged in as " + user.Name()})
	return redact(user), nil
}

// Register creates a new account and makes it the current session.
func (s *Store) Register(ctx context.Context, r Registration) (u models.User, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.observe("register", err) }()

	username := r.Username
	switch {
	case username == "":
		return models.User{}, invalidInput("username is required")
	case cleanText(username) != username:
		return models.User{}, invalidInput("username must not contain markup or surrounding spaces")
	case r.Password == "":
		return models.User{}, invalidInput("password is required")
	case len(r.Password) > maxPasswordBytes:
		return models.User{}, invalidInput(fmt.Sprintf("password must be at most %d bytes", maxPasswordBytes))
	case !r.Role.Valid():
		return models.User{}, invalidInput(fmt.Sprintf("unknown role %q", r.Role))
	}

	for _, existing := range s.data.Users {
		if existing.Username == username {
			s.log.Warn("username taken", zap.String("username", username))
			s.notify.Notify(Notification{Title: "Registration failed", Description: "Username already exists", Destructive: true})
			return models.User{}, ErrUsernameTaken
		}
	}

	hash, err := hashPassword(r.Password, s.hashCost)
	if err != nil {
		return models.User{}, err
	}
	user := models.User{
		ID:                s.newID(),
		Username:          username,
		Password:          hash,
		Role:              r.Role,
		DisplayName:       cleanText(r.DisplayName),
		AppliedProjectIDs: []string{},
	}
	if r.Role == models.RoleVolunteer {
		user.Skills = cleanSkills(r.Skills)
	}

	next := s.data.Clone()
	next.Users = append(next.Users, user)
	if err := s.saveData(ctx, next); err != nil {
		return models.User{}, err
	}
	s.data = next

	if err := s.saveSession(ctx, user); err != nil {
		return models.User{}, err
	}
	s.current = user.ID

	s.log.Info("user registered", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	s.notify.Notify(Notification{Title: "Welcome to Impact Match!", Description: "Account created successfully"})
	return redact(user), nil
}

// Logout ends the session and removes the persisted session pointer.
func (s *Store) Logout(ctx context.Context) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.observe("logout", err) }()

	if err := s.clearSession(ctx); err != nil {
		return err
	}
	if s.current != "" {
		s.log.Info("user logged out", zap.String("user_id", s.current))
	}
	s.current = ""
	s.notify.Notify(Notification{Title: "Logged out", Description: "See you next time!"})
	return nil
}
