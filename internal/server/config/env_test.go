package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_parseEnv(t *testing.T) {
	t.Run("set variables override", func(t *testing.T) {
		t.Setenv("NEWSLETTER_HTTP_ADDR", ":9999")
		t.Setenv("NEWSLETTER_SESSION_TTL", "30m")
		t.Setenv("NEWSLETTER_HASH_WORKERS", "8")
		t.Setenv("NEWSLETTER_ARGON2_PARALLELISM", "2")
		t.Setenv("NEWSLETTER_EMAIL_PROVIDER", "mailgun")

		var c Config
		c.LoadDefaults()
		parseEnv(&c)

		assert.Equal(t, ":9999", c.HTTPAddr)
		assert.Equal(t, 30*time.Minute, c.SessionTTL)
		assert.Equal(t, 8, c.HashWorkers)
		assert.Equal(t, uint8(2), c.Argon2Parallelism)
		assert.Equal(t, "mailgun", c.EmailProvider)
		assert.Equal(t, ":50051", c.GRPCHealthAddr, "unset variables keep the previous value")
	})

	t.Run("malformed value panics", func(t *testing.T) {
		t.Setenv("NEWSLETTER_HASH_WORKERS", "many")

		var c Config
		c.LoadDefaults()
		require.Panics(t, func() { parseEnv(&c) })
	})
}
