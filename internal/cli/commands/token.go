package commands

import (
	"context"
	"fmt"
	"time"

	fsrepo "LendIt/internal/cli/repo/fs"
	"LendIt/internal/config"
	"LendIt/internal/middleware"
)

// TokenStore — хранилище API-токена на клиенте.
type TokenStore interface {
	Save(token string) error
	Load() (string, error)
}

// tokenStore хранит выданный токен для команды remote.
var tokenStore TokenStore = fsrepo.TokenFSStore{}

type tokenCmd struct{}

func (tokenCmd) Name() string { return "token" }
func (tokenCmd) Description() string {
	return "Выпустить JWT для API сервера и сохранить его"
}
func (tokenCmd) Usage() string { return "token [-ttl 720h] [-print] <subject>" }

func (tokenCmd) Run(_ context.Context, cfg *config.Config, args []string) error {
	fs := newFlagSet("token")
	ttl := fs.Duration("ttl", middleware.TokenTTL, "")
	printOnly := fs.Bool("print", false, "")
	if err := fs.Parse(args); err != nil || fs.NArg() != 1 || fs.Arg(0) == "" {
		return ErrUsage
	}
	tok, err := middleware.IssueToken(cfg.AuthSecret, fs.Arg(0), *ttl)
	if err != nil {
		return err
	}
	if *printOnly {
		fmt.Fprintln(Out, tok)
		return nil
	}
	if err := tokenStore.Save(tok); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	fmt.Fprintf(Out, "✓ Токен сохранён (действует до %s)\n", time.Now().Add(*ttl).Format("2006-01-02 15:04"))
	return nil
}

func init() { RegisterCmd(tokenCmd{}) }
