package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bnema/wayfinder/internal/infrastructure/config"
	"github.com/bnema/wayfinder/internal/mainloop"
)

func TestCoalesceReloads_BurstAppliesLatestOnce(t *testing.T) {
	var queue []func()
	tasks := mainloop.NewCoalescer(func(fn func()) { queue = append(queue, fn) })

	var applied []string
	onChange := coalesceReloads(tasks, func(cfg *config.Config) {
		applied = append(applied, cfg.Adblock.CustomRules)
	})

	for _, rules := range []string{"||a.test^", "||b.test^", "||c.test^"} {
		cfg := config.DefaultConfig()
		cfg.Adblock.CustomRules = rules
		onChange(cfg)
	}
	assert.Len(t, queue, 1, "one loop task per burst")

	for _, fn := range queue {
		fn()
	}
	assert.Equal(t, []string{"||c.test^"}, applied)

	queue = nil
	onChange(config.DefaultConfig())
	assert.Len(t, queue, 1, "a later change schedules again")
}
