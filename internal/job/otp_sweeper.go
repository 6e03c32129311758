// Package job holds the background workers started alongside the server.
package job

import (
	"context"
	"log"
	"time"

	"github.com/skippergoroye/Accman-Server/internal/repositories"
)

// OTPSweeper periodically removes expired verification codes. Expiry is
// still checked at lookup time; the sweep only keeps the table small.
type OTPSweeper struct {
	verifications repositories.VerificationRepository
	interval      time.Duration
}

func NewOTPSweeper(verifications repositories.VerificationRepository, interval time.Duration) *OTPSweeper {
	return &OTPSweeper{verifications: verifications, interval: interval}
}

// Run blocks until ctx is cancelled, sweeping once per interval.
func (s *OTPSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := s.verifications.DeleteExpired(time.Now())
			if err != nil {
				log.Printf("otp sweeper: %v", err)
				continue
			}
			if removed > 0 {
				log.Printf("otp sweeper: removed %d expired codes", removed)
			}
		}
	}
}
