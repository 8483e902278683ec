// Package admin implements the operator commands of cmd/admin.
package admin

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/newsletter/internal/common"
	"github.com/dmitrijs2005/newsletter/internal/flagx"
	"github.com/dmitrijs2005/newsletter/internal/server/models"
	"github.com/dmitrijs2005/newsletter/internal/server/repositories/repomanager"
	"github.com/google/uuid"
	"golang.org/x/term"
)

// MinPasswordLength is enforced when provisioning a publisher.
const MinPasswordLength = 12

var (
	ErrUsage            = errors.New("usage: admin add-publisher -u <username>")
	ErrPasswordMismatch = errors.New("passwords do not match")
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

type PasswordHasher interface {
	Hash(pw string) (string, error)
}

// Provisioner creates publisher credentials.
type Provisioner struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      PasswordHasher
}

func NewProvisioner(db *sql.DB, m repomanager.RepositoryManager, h PasswordHasher) *Provisioner {
	return &Provisioner{db: db, repomanager: m, hasher: h}
}

// AddPublisher hashes pw and stores a new credential record. The password
// bytes are wiped before returning.
func (p *Provisioner) AddPublisher(ctx context.Context, username string, pw []byte) (uuid.UUID, error) {
	defer common.WipeByteArray(pw)

	username = strings.TrimSpace(username)
	if username == "" {
		return uuid.Nil, fmt.Errorf("%w: username is empty", common.ErrorValidation)
	}
	if len(pw) < MinPasswordLength {
		return uuid.Nil, fmt.Errorf("%w: password must be at least %d characters", common.ErrorValidation, MinPasswordLength)
	}

	hash, err := p.hasher.Hash(string(pw))
	if err != nil {
		return uuid.Nil, fmt.Errorf("hash password: %w", err)
	}

	c := &models.Credential{UserID: uuid.New(), Username: username, PasswordHash: hash}
	if err := p.repomanager.Credentials(p.db).Create(ctx, c); err != nil {
		return uuid.Nil, err
	}
	return c.UserID, nil
}

// PromptPassword asks for the password twice without echo.
func PromptPassword(w io.Writer) ([]byte, error) {
	first, err := promptOnce(w, "Enter password: ")
	if err != nil {
		return nil, err
	}
	second, err := promptOnce(w, "Repeat password: ")
	if err != nil {
		common.WipeByteArray(first)
		return nil, err
	}
	defer common.WipeByteArray(second)

	if string(first) != string(second) {
		common.WipeByteArray(first)
		return nil, ErrPasswordMismatch
	}
	return first, nil
}

func promptOnce(w io.Writer, prompt string) ([]byte, error) {
	if _, err := fmt.Fprint(w, prompt); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

// ParseAddPublisher extracts the username from "add-publisher -u <name>".
// Flags that belong to the config layer are ignored.
func ParseAddPublisher(args []string) (string, error) {
	if len(args) == 0 || args[0] != "add-publisher" {
		return "", ErrUsage
	}

	var username string
	fs := flag.NewFlagSet("add-publisher", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&username, "u", "", "publisher username")
	if err := fs.Parse(flagx.FilterArgs(args[1:], []string{"-u"})); err != nil {
		return "", ErrUsage
	}
	if username == "" {
		return "", ErrUsage
	}
	return username, nil
}
