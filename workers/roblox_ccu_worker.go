// workers/roblox_ccu_worker.go
package workers

import (
	"context"
	"log"
	"time"

	"creator-rewards-system/services"
)

// PollCCU samples the Roblox player count on an interval, appending to the
// metrics table until the context is cancelled.
func PollCCU(ctx context.Context, svc *services.RobloxService, pollInterval time.Duration) {
	log.Println("Starting Roblox CCU polling...")

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Roblox CCU polling stopped.")
			return
		case <-ticker.C:
			ccu, err := svc.SampleCCU(ctx)
			if err != nil {
				log.Printf("❌ Error sampling Roblox CCU: %v", err)
				continue
			}
			log.Printf("📥 Sampled Roblox CCU: %d", ccu)
		}
	}
}
