package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/Jow12560/bizlens-backend/internal/auth"
	"github.com/Jow12560/bizlens-backend/internal/config"
	"github.com/Jow12560/bizlens-backend/internal/domain"
	"github.com/Jow12560/bizlens-backend/internal/events"
	"github.com/Jow12560/bizlens-backend/internal/observability"
	"github.com/Jow12560/bizlens-backend/internal/repository"
	"github.com/Jow12560/bizlens-backend/pkg/util"
)

// Caller-visible failure messages. Deliberately identical whether the
// identity does not exist or the password is wrong.
const (
	MsgInvalidStaffCredentials = "Invalid email or password"
	MsgInvalidTechCredentials  = "Invalid username or password"
	MsgLoginSuccessful         = "Login successful"
)

const (
	flowStaff      = "staff"
	flowTechnician = "technician"
)

// LoginResult carries the issued token back to the handler.
type LoginResult struct {
	Token     string
	Message   string
	ExpiresAt int64
}

// AuthService coordinates the two login flows. Each request is stateless:
// no retries, no shared per-identity state, one response per request.
type AuthService struct {
	users        repository.UserRepository
	technicians  repository.TechnicianRepository
	tokens       *auth.TokenManager
	staffVerify  auth.CredentialVerifier
	techVerify   auth.CredentialVerifier
	attempts     *AttemptRecorder
	dispatcher   events.Dispatcher
	metrics      *observability.Metrics
	logger       *zap.Logger
	debugLookups bool
}

// AuthDependencies encapsulates collaborator requirements for the service.
type AuthDependencies struct {
	UserRepo       repository.UserRepository
	TechnicianRepo repository.TechnicianRepository
	TokenManager   *auth.TokenManager
	Attempts       *AttemptRecorder
	Dispatcher     events.Dispatcher
	Metrics        *observability.Metrics
	Logger         *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	tokens := deps.TokenManager
	if tokens == nil {
		tokens = auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
	}
	return &AuthService{
		users:        deps.UserRepo,
		technicians:  deps.TechnicianRepo,
		tokens:       tokens,
		staffVerify:  auth.HashedVerifier{},
		techVerify:   auth.PlaintextVerifier{},
		attempts:     deps.Attempts,
		dispatcher:   deps.Dispatcher,
		metrics:      deps.Metrics,
		logger:       logger,
		debugLookups: cfg.Auth.Debug,
	}
}

// LoginStaff authenticates a back-office account by email and password hash.
// The email is trimmed but never case-normalized.
func (s *AuthService) LoginStaff(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)

	users, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		// Store errors fail closed: an internal error, never "not found".
		s.logStoreError("staff login select", err)
		return nil, util.NewUpstreamError(err)
	}

	if len(users) == 0 {
		if s.debugLookups {
			s.runStaffDiagnostics(ctx, email)
		}
		s.logger.Warn("no user found for email", zap.String("email", email))
		return nil, s.failStaff(ctx, email, "not_found")
	}

	// First-returned row wins when duplicates exist.
	user := users[0]

	if err := s.staffVerify.Verify(password, user.PasswordHash); err != nil {
		if errors.Is(err, auth.ErrCredentialMismatch) {
			s.logger.Warn("staff password mismatch",
				zap.Int64("user_id", user.ID),
				zap.Bool("stored_hash_recognized", auth.LooksLikeBcryptHash(user.PasswordHash)),
			)
			return nil, s.failStaff(ctx, email, "mismatch")
		}
		s.logger.Error("hash comparison failed", zap.Int64("user_id", user.ID), zap.Error(err))
		return nil, util.NewInternalError(err)
	}

	token, exp, err := s.tokens.IssueStaffToken(&user)
	if err != nil {
		s.logger.Error("failed to sign staff token", zap.Int64("user_id", user.ID), zap.Error(err))
		return nil, util.NewSigningError(err)
	}

	s.recordAttempt(ctx, flowStaff, email, true)
	s.publish(ctx, events.NewEvent(events.EventStaffLoggedIn, events.StaffLoggedInPayload{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	}))

	return &LoginResult{Token: token, Message: MsgLoginSuccessful, ExpiresAt: exp.Unix()}, nil
}

// LoginTechnician authenticates a field technician by username and plaintext
// password equality.
func (s *AuthService) LoginTechnician(ctx context.Context, username, password string) (*LoginResult, error) {
	technicians, err := s.technicians.FindByUsername(ctx, username)
	if err != nil {
		s.logStoreError("technician login select", err)
		return nil, util.NewUpstreamError(err)
	}

	if len(technicians) == 0 {
		return nil, s.failTechnician(ctx, username, "not_found")
	}

	tech := technicians[0]

	if err := s.techVerify.Verify(password, tech.Password); err != nil {
		if errors.Is(err, auth.ErrCredentialMismatch) {
			return nil, s.failTechnician(ctx, username, "mismatch")
		}
		return nil, util.NewInternalError(err)
	}

	token, exp, err := s.tokens.IssueTechnicianToken(&tech)
	if err != nil {
		s.logger.Error("failed to sign technician token", zap.Int64("technician_id", tech.ID), zap.Error(err))
		return nil, util.NewSigningError(err)
	}

	s.recordAttempt(ctx, flowTechnician, username, true)
	s.publish(ctx, events.NewEvent(events.EventTechnicianLoggedIn, events.TechnicianLoggedInPayload{
		TechnicianID: tech.ID,
		Username:     tech.Username,
	}))

	return &LoginResult{Token: token, Message: MsgLoginSuccessful, ExpiresAt: exp.Unix()}, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

// runStaffDiagnostics performs the debug-only fallback lookups that help an
// operator distinguish "no such user" from casing or whitespace drift in the
// stored email. Results go to the log only; they never authenticate and
// never alter the response.
func (s *AuthService) runStaffDiagnostics(ctx context.Context, email string) {
	folded, err := s.users.FindByEmailFold(ctx, email)
	if err != nil {
		s.logStoreError("staff login fallback ilike", err)
	} else {
		s.logger.Debug("fallback case-insensitive lookup",
			zap.String("email", email),
			zap.Int("matches", len(folded)),
			zap.Strings("candidate_emails", emailsOf(folded)),
		)
	}

	prefixed, err := s.users.FindByEmailPrefix(ctx, email)
	if err != nil {
		s.logStoreError("staff login fallback prefix", err)
	} else {
		s.logger.Debug("fallback prefix lookup",
			zap.String("email", email),
			zap.Int("matches", len(prefixed)),
			zap.Strings("candidate_emails", emailsOf(prefixed)),
		)
	}
}

func (s *AuthService) failStaff(ctx context.Context, email, reason string) error {
	s.recordAttempt(ctx, flowStaff, email, false)
	s.publish(ctx, events.NewEvent(events.EventLoginFailed, events.LoginFailedPayload{
		Flow:       flowStaff,
		Identifier: email,
		Reason:     reason,
	}))
	return util.NewInvalidCredentials(MsgInvalidStaffCredentials)
}

func (s *AuthService) failTechnician(ctx context.Context, username, reason string) error {
	s.recordAttempt(ctx, flowTechnician, username, false)
	s.publish(ctx, events.NewEvent(events.EventLoginFailed, events.LoginFailedPayload{
		Flow:       flowTechnician,
		Identifier: username,
		Reason:     reason,
	}))
	return util.NewInvalidCredentials(MsgInvalidTechCredentials)
}

func (s *AuthService) recordAttempt(ctx context.Context, flow, identifier string, success bool) {
	s.metrics.RecordLogin(flow, success)
	s.attempts.Record(ctx, flow, identifier, success)
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}

// logStoreError logs store-provided diagnostics; none of it reaches callers.
func (s *AuthService) logStoreError(tag string, err error) {
	fields := []zap.Field{zap.Error(err)}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		fields = append(fields,
			zap.String("code", pgErr.Code),
			zap.String("detail", pgErr.Detail),
			zap.String("hint", pgErr.Hint),
		)
	}
	s.logger.Error(tag, fields...)
}

func emailsOf(users []domain.User) []string {
	emails := make([]string, 0, len(users))
	for i := range users {
		emails = append(emails, users[i].Email)
	}
	return emails
}
