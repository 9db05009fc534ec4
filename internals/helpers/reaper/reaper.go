// file: internals/helpers/reaper/reaper.go
package reaper

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Task: satu pembersihan, return jumlah baris yang dihapus
type Task struct {
	Name string
	Run  func(ctx context.Context, now time.Time) (int64, error)
}

type Config struct {
	CronSchedule string        // "@every 1h", "0 3 * * *", dst
	Timeout      time.Duration // batas per putaran
	Now          func() time.Time
}

// RunOnce: jalankan semua task berurutan. Error satu task tidak menghentikan
// task berikutnya.
func RunOnce(ctx context.Context, now time.Time, tasks []Task) map[string]int64 {
	out := make(map[string]int64, len(tasks))
	for _, t := range tasks {
		n, err := t.Run(ctx, now)
		if err != nil {
			log.Printf("[REAPER] %s error: %v", t.Name, err)
			continue
		}
		out[t.Name] = n
		if n > 0 {
			log.Printf("[REAPER] %s: %d baris dihapus", t.Name, n)
		}
	}
	return out
}

// Start: jadwalkan RunOnce dengan cron. Putaran yang masih jalan tidak ditumpuk.
func Start(cfg Config, tasks []Task) (*cron.Cron, error) {
	if cfg.CronSchedule == "" {
		cfg.CronSchedule = "@every 1h"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 4 * time.Minute
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	_, err := c.AddFunc(cfg.CronSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
		defer cancel()
		RunOnce(ctx, cfg.Now(), tasks)
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[REAPER] started schedule=%q tasks=%d", cfg.CronSchedule, len(tasks))
	c.Start()
	return c, nil
}
