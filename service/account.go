package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ncobase/staffing/config"
	"github.com/ncobase/staffing/crypto"
	"github.com/ncobase/staffing/data"
	"github.com/ncobase/staffing/data/repository"
	"github.com/ncobase/staffing/ecode"
	"github.com/ncobase/staffing/event"
	"github.com/ncobase/staffing/logging/logger"
	"github.com/ncobase/staffing/messaging/email"
	"github.com/ncobase/staffing/nanoid"
	"github.com/ncobase/staffing/security/jwt"
	"github.com/ncobase/staffing/structs"
)

// AccountService handles staff registration, verification, logins and
// profile updates.
type AccountService struct {
	staff    repository.StaffRepository
	managers repository.ManagerRepository
	tokens   *jwt.TokenManager
	auth     *config.Auth
	sender   email.Sender
	brand    string
	events   *emitter
	logger   *logger.Logger
	now      func() time.Time
}

// NewAccountService creates a new account service. sender may be nil, in
// which case OTP mails are skipped and only logged.
func NewAccountService(d *data.Data, auth *config.Auth, sender email.Sender, brand string, events *emitter, logger *logger.Logger) *AccountService {
	return &AccountService{
		staff:    d.StaffRepo,
		managers: d.ManagerRepo,
		tokens:   jwt.NewTokenManager(auth.JWT.Secret, auth.JWT.Expire),
		auth:     auth,
		sender:   sender,
		brand:    brand,
		events:   events,
		logger:   logger,
		now:      time.Now,
	}
}

// Register creates an unverified staff profile and mails it a one-time
// code. Nothing is stored when the mail cannot be sent.
func (s *AccountService) Register(ctx context.Context, body *structs.RegisterBody) error {
	if len(body.Skills) == 0 {
		return ecode.Validation("Skills must be a non-empty array")
	}

	if _, err := s.staff.Get(ctx, body.Email); err == nil {
		return ecode.ConflictErr("Email already registered")
	} else if !isNotFound(err) {
		return internalError(ctx, s.logger, "get staff", err)
	}

	hash, err := crypto.HashPassword(body.Password)
	if err != nil {
		return internalError(ctx, s.logger, "hash password", err)
	}

	otp := nanoid.Number(s.auth.OTP.Length)
	if err := s.sendOTP(ctx, body.Email, otp); err != nil {
		return internalError(ctx, s.logger, "send otp", err)
	}

	now := s.now().UTC()
	_, err = s.staff.Create(ctx, &structs.StaffProfile{
		Email:        body.Email,
		Name:         body.Name,
		Password:     hash,
		Skills:       body.Skills,
		IsVerified:   false,
		OTP:          otp,
		OTPExpiresAt: now.Add(s.auth.OTP.Expire),
		CreatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ecode.ConflictErr("Email already registered")
		}
		return internalError(ctx, s.logger, "create staff", err)
	}

	s.events.emit(ctx, &event.Event{
		Type:          event.EventTypeStaffRegistered,
		AggregateID:   body.Email,
		AggregateName: "staff",
		Payload:       map[string]any{"email": body.Email, "name": body.Name},
	})
	return nil
}

func (s *AccountService) sendOTP(ctx context.Context, to, otp string) error {
	if s.sender == nil {
		s.logger.Warn(ctx, "email provider not configured, OTP mail skipped", "to", to)
		return nil
	}
	id, err := s.sender.SendTemplateEmail(to, otpTemplate(s.brand, otp, s.auth.OTP.Expire))
	if err != nil {
		return err
	}
	s.logger.Info(ctx, "OTP mail sent", "to", to, "message_id", id)
	return nil
}

// VerifyOTP marks a staff profile verified when the code matches and has
// not expired.
func (s *AccountService) VerifyOTP(ctx context.Context, email, otp string) error {
	staff, err := s.staff.Get(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return ecode.NotFoundErr("Staff not found")
		}
		return internalError(ctx, s.logger, "get staff", err)
	}
	if staff.IsVerified {
		return ecode.ConflictErr("Email already verified")
	}
	if staff.OTP == "" || staff.OTP != otp {
		return ecode.Validation("Invalid OTP")
	}
	if !staff.OTPExpiresAt.IsZero() && s.now().After(staff.OTPExpiresAt) {
		return ecode.Validation("OTP has expired")
	}

	if err := s.staff.MarkVerified(ctx, email); err != nil {
		if isNotFound(err) {
			return ecode.NotFoundErr("Staff not found")
		}
		return internalError(ctx, s.logger, "verify staff", err)
	}

	s.logger.Info(ctx, "staff verified", "email", email)
	s.events.emit(ctx, &event.Event{
		Type:          event.EventTypeStaffVerified,
		AggregateID:   email,
		AggregateName: "staff",
		Payload:       map[string]any{"email": email},
	})
	return nil
}

// StaffLogin checks staff credentials and issues an access token.
func (s *AccountService) StaffLogin(ctx context.Context, email, password string) (*structs.AccessToken, error) {
	staff, err := s.staff.Get(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return nil, ecode.Unauthenticated("Invalid credentials")
		}
		return nil, internalError(ctx, s.logger, "get staff", err)
	}
	if !crypto.ComparePassword(staff.Password, password) {
		return nil, ecode.Unauthenticated("Invalid credentials")
	}
	if !staff.IsVerified {
		return nil, ecode.Forbidden("Please verify your email first")
	}

	token, err := s.issueToken(staff.Email, structs.RoleStaff)
	if err != nil {
		return nil, internalError(ctx, s.logger, "issue token", err)
	}

	s.logger.Info(ctx, "staff logged in", "email", email)
	return &structs.AccessToken{
		Message: "Login successful",
		Token:   token,
		Name:    staff.Name,
		Email:   staff.Email,
		Role:    structs.RoleStaff,
	}, nil
}

// ManagerLogin checks manager credentials and issues an access token.
func (s *AccountService) ManagerLogin(ctx context.Context, email, password string) (*structs.AccessToken, error) {
	manager, err := s.managers.Get(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return nil, ecode.Unauthenticated("Invalid credentials")
		}
		return nil, internalError(ctx, s.logger, "get manager", err)
	}
	if !crypto.ComparePassword(manager.Password, password) {
		return nil, ecode.Unauthenticated("Invalid credentials")
	}

	token, err := s.issueToken(manager.Email, structs.RoleManager)
	if err != nil {
		return nil, internalError(ctx, s.logger, "issue token", err)
	}

	s.logger.Info(ctx, "manager logged in", "email", email)
	return &structs.AccessToken{
		Message: "Login successful",
		Token:   token,
		Name:    manager.Name,
		Email:   manager.Email,
		Role:    structs.RoleManager,
	}, nil
}

func (s *AccountService) issueToken(email, role string) (string, error) {
	return s.tokens.Issue(jwt.Identity{Email: email, Role: role})
}

// Authenticate validates an access token and returns the identity it
// carries.
func (s *AccountService) Authenticate(token string) (email, role string, err error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return "", "", ecode.Unauthenticated("Invalid or expired token")
	}
	return claims.Payload.Email, claims.Payload.Role, nil
}

// UpdateAvailability replaces a staff member's availability window.
func (s *AccountService) UpdateAvailability(ctx context.Context, email string, window structs.DateRange) error {
	if err := window.Validate(false); err != nil {
		return ecode.Validation(err.Error())
	}

	if err := s.staff.UpdateAvailability(ctx, email, &window); err != nil {
		if isNotFound(err) {
			return ecode.NotFoundErr("Staff not found")
		}
		return internalError(ctx, s.logger, "update availability", err)
	}

	s.logger.Info(ctx, "availability updated", "email", email, "start", window.StartDate, "end", window.EndDate)
	return nil
}

// EnsureManagers seeds the configured manager accounts. Existing accounts
// are left untouched.
func (s *AccountService) EnsureManagers(ctx context.Context, accounts []config.ManagerAccount) error {
	for _, a := range accounts {
		if a.Email == "" || a.Password == "" {
			continue
		}
		hash, err := crypto.HashPassword(a.Password)
		if err != nil {
			return fmt.Errorf("failed to hash manager password: %w", err)
		}
		_, err = s.managers.Create(ctx, &structs.Manager{Email: a.Email, Name: a.Name, Password: hash})
		if err != nil && !errors.Is(err, repository.ErrDuplicate) {
			return fmt.Errorf("failed to seed manager %s: %w", a.Email, err)
		}
		if err == nil {
			s.logger.Info(ctx, "manager account seeded", "email", a.Email)
		}
	}
	return nil
}
