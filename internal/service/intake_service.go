package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"claimos/internal/domain"
	"claimos/internal/flow"
	"claimos/internal/port"
)

// SendMessageInput is the DTO for one claimant message to a session.
type SendMessageInput struct {
	SessionID string
	UserID    uuid.UUID
	Message   string
}

// IntakeService defines the conversational intake contract.
type IntakeService interface {
	// SendMessage drives the session forward with one claimant message,
	// streaming assistant output through emit. Concurrent messages to the
	// same session fail with domain.ErrSessionBusy.
	SendMessage(ctx context.Context, input *SendMessageInput, emit flow.Emit) error
	GetState(ctx context.Context, sessionID string) (*domain.FlowState, error)
	Reset(ctx context.Context, sessionID string) error
}

type intakeService struct {
	orchestrator *flow.Orchestrator
	lock         port.SessionLock
	lockTTL      time.Duration
}

// NewIntakeService creates a new IntakeService implementation.
func NewIntakeService(orchestrator *flow.Orchestrator, lock port.SessionLock, lockTTL time.Duration) IntakeService {
	return &intakeService{
		orchestrator: orchestrator,
		lock:         lock,
		lockTTL:      lockTTL,
	}
}

func (s *intakeService) SendMessage(ctx context.Context, input *SendMessageInput, emit flow.Emit) error {
	release, err := s.lock.Acquire(ctx, input.SessionID, s.lockTTL)
	if err != nil {
		return fmt.Errorf("intakeService.SendMessage: %w", err)
	}
	defer func() {
		// Release on a fresh context so a canceled request cannot leave the
		// session locked until the TTL expires.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := release(releaseCtx); err != nil {
			log.Printf("intakeService.SendMessage: releasing lock for session %s: %v", input.SessionID, err)
		}
	}()

	return s.orchestrator.Run(ctx, input.SessionID, input.UserID, flow.Input{Message: input.Message}, emit)
}

func (s *intakeService) GetState(ctx context.Context, sessionID string) (*domain.FlowState, error) {
	return s.orchestrator.State(ctx, sessionID)
}

func (s *intakeService) Reset(ctx context.Context, sessionID string) error {
	release, err := s.lock.Acquire(ctx, sessionID, s.lockTTL)
	if err != nil {
		return fmt.Errorf("intakeService.Reset: %w", err)
	}
	defer func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := release(releaseCtx); err != nil {
			log.Printf("intakeService.Reset: releasing lock for session %s: %v", sessionID, err)
		}
	}()

	return s.orchestrator.Reset(ctx, sessionID)
}
