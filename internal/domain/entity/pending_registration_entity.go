package entity

import "time"

// PendingRegistration stages an unconfirmed sign-up. OTPExpiresAt bounds the
// code, ExpiresAt bounds the record itself; OTPExpiresAt never exceeds ExpiresAt.
type PendingRegistration struct {
	Email        string
	Name         string
	PasswordHash string
	OTP          string
	OTPExpiresAt time.Time
	ExpiresAt    time.Time
	CreatedAt    time.Time
}

func (p *PendingRegistration) OTPExpired(now time.Time) bool {
	return now.After(p.OTPExpiresAt)
}

func (p *PendingRegistration) Expired(now time.Time) bool {
	return !now.Before(p.ExpiresAt)
}
