package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/newsletter/internal/flagx"
)

// parseFlags overlays the most common settings from the command line.
//
// Supported flags:
//
//	-e string   environment (local, dev, prod)
//	-a string   HTTP bind address (e.g., ":8000")
//	-g string   gRPC health bind address
//	-u string   public base URL
//	-d string   PostgreSQL DSN
//	-k string   HMAC secret for signed messages
//	-s string   session signing secret
//	-t int      session lifetime, minutes
//	-w int      password verification workers
//	-n int      parallel sends per publish
//	-m string   email provider (log, smtp, ses, mailgun, amqp)
//	-r string   Redis address for failed login counters
//	-b string   S3 bucket for the issue archive
//
// os.Args is filtered with flagx.FilterArgs first so -c/-config and flags
// owned by other packages do not trip the parser.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-e", "-a", "-g", "-u", "-d", "-k", "-s", "-t", "-w", "-n", "-m", "-r", "-b"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.Env, "e", config.Env, "environment: local, dev or prod")
	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "HTTP address and port")
	fs.StringVar(&config.GRPCHealthAddr, "g", config.GRPCHealthAddr, "gRPC health address and port")
	fs.StringVar(&config.BaseURL, "u", config.BaseURL, "public base URL")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.HMACSecret, "k", config.HMACSecret, "HMAC secret")
	fs.StringVar(&config.SessionSecret, "s", config.SessionSecret, "session secret")

	sessionTTL := fs.Int("t", int(config.SessionTTL.Minutes()), "session lifetime (in minutes)")

	fs.IntVar(&config.HashWorkers, "w", config.HashWorkers, "password verification workers")
	fs.IntVar(&config.DispatchConcurrency, "n", config.DispatchConcurrency, "parallel sends per publish")
	fs.StringVar(&config.EmailProvider, "m", config.EmailProvider, "email provider")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "Redis address")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 archive bucket")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionTTL = time.Duration(*sessionTTL) * time.Minute
}
