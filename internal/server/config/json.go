package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/newsletter/internal/flagx"
	"github.com/dmitrijs2005/newsletter/internal/timex"
)

// JsonConfig mirrors Config for JSON files. Durations use timex.Duration so
// both "15m" and integer nanoseconds are accepted. Keys missing from the file
// keep the value already in Config.
type JsonConfig struct {
	Env            string `json:"env"`
	HTTPAddr       string `json:"http_addr"`
	GRPCHealthAddr string `json:"grpc_health_addr"`
	BaseURL        string `json:"base_url"`
	DatabaseDSN    string `json:"database_dsn"`

	HMACSecret    string         `json:"hmac_secret"`
	SessionSecret string         `json:"session_secret"`
	SessionTTL    timex.Duration `json:"session_ttl"`

	DummyPasswordHash string `json:"dummy_password_hash"`
	Argon2Memory      uint32 `json:"argon2_memory"`
	Argon2Iterations  uint32 `json:"argon2_iterations"`
	Argon2Parallelism uint8  `json:"argon2_parallelism"`
	HashWorkers       int    `json:"hash_workers"`

	DispatchConcurrency int `json:"dispatch_concurrency"`

	EmailProvider string         `json:"email_provider"`
	EmailSender   string         `json:"email_sender"`
	EmailTimeout  timex.Duration `json:"email_timeout"`

	SMTPHost     string `json:"smtp_host"`
	SMTPPort     int    `json:"smtp_port"`
	SMTPUser     string `json:"smtp_user"`
	SMTPPassword string `json:"smtp_password"`

	SESRegion    string `json:"ses_region"`
	SESAccessKey string `json:"ses_access_key"`
	SESSecretKey string `json:"ses_secret_key"`

	MailgunDomain  string `json:"mailgun_domain"`
	MailgunAPIKey  string `json:"mailgun_api_key"`
	MailgunBaseURL string `json:"mailgun_base_url"`

	AMQPURL   string `json:"amqp_url"`
	AMQPQueue string `json:"amqp_queue"`

	RedisAddr         string         `json:"redis_addr"`
	RedisPassword     string         `json:"redis_password"`
	FailedLoginWindow timex.Duration `json:"failed_login_window"`

	S3Bucket       string `json:"s3_bucket"`
	S3Region       string `json:"s3_region"`
	S3BaseEndpoint string `json:"s3_base_endpoint"`
	S3AccessKey    string `json:"s3_access_key"`
	S3SecretKey    string `json:"s3_secret_key"`
}

func set[T comparable](dst *T, v T) {
	var zero T
	if v != zero {
		*dst = v
	}
}

// parseJson loads the file named by -c/-config, if any, into config.
// An unreadable file or invalid JSON panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	set(&config.Env, c.Env)
	set(&config.HTTPAddr, c.HTTPAddr)
	set(&config.GRPCHealthAddr, c.GRPCHealthAddr)
	set(&config.BaseURL, c.BaseURL)
	set(&config.DatabaseDSN, c.DatabaseDSN)

	set(&config.HMACSecret, c.HMACSecret)
	set(&config.SessionSecret, c.SessionSecret)
	set(&config.SessionTTL, c.SessionTTL.Duration)

	set(&config.DummyPasswordHash, c.DummyPasswordHash)
	set(&config.Argon2Memory, c.Argon2Memory)
	set(&config.Argon2Iterations, c.Argon2Iterations)
	set(&config.Argon2Parallelism, c.Argon2Parallelism)
	set(&config.HashWorkers, c.HashWorkers)

	set(&config.DispatchConcurrency, c.DispatchConcurrency)

	set(&config.EmailProvider, c.EmailProvider)
	set(&config.EmailSender, c.EmailSender)
	set(&config.EmailTimeout, c.EmailTimeout.Duration)

	set(&config.SMTPHost, c.SMTPHost)
	set(&config.SMTPPort, c.SMTPPort)
	set(&config.SMTPUser, c.SMTPUser)
	set(&config.SMTPPassword, c.SMTPPassword)

	set(&config.SESRegion, c.SESRegion)
	set(&config.SESAccessKey, c.SESAccessKey)
	set(&config.SESSecretKey, c.SESSecretKey)

	set(&config.MailgunDomain, c.MailgunDomain)
	set(&config.MailgunAPIKey, c.MailgunAPIKey)
	set(&config.MailgunBaseURL, c.MailgunBaseURL)

	set(&config.AMQPURL, c.AMQPURL)
	set(&config.AMQPQueue, c.AMQPQueue)

	set(&config.RedisAddr, c.RedisAddr)
	set(&config.RedisPassword, c.RedisPassword)
	set(&config.FailedLoginWindow, c.FailedLoginWindow.Duration)

	set(&config.S3Bucket, c.S3Bucket)
	set(&config.S3Region, c.S3Region)
	set(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	set(&config.S3AccessKey, c.S3AccessKey)
	set(&config.S3SecretKey, c.S3SecretKey)
}
