package services

import (
	"errors"

	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/core/tenant"
)

var (
	ErrTenantNotFound       = tenant.ErrTenantNotFound
	ErrNoMessage            = errors.New("payload carries no message")
	ErrVerificationFailed   = errors.New("webhook verification failed")
	ErrSlotUnavailable      = errors.New("slot already booked")
	ErrOutsideBusinessHours = errors.New("outside business hours")
	ErrInvalidDirective     = errors.New("invalid directive")
)
