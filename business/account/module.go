// Package account implements the account bounded context: address
// validation and the signing key.
package account

import (
	"context"

	"github.com/fd1az/pool-arbitrage/business/account/app"
	accountDI "github.com/fd1az/pool-arbitrage/business/account/di"
	"github.com/fd1az/pool-arbitrage/internal/config"
	"github.com/fd1az/pool-arbitrage/internal/di"
	"github.com/fd1az/pool-arbitrage/internal/monolith"
)

// Module implements the account bounded context.
type Module struct{}

// RegisterServices registers the account service. An invalid configured key
// panics at resolution; Startup checks it first so that never happens.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, accountDI.AccountService, func(sr di.ServiceRegistry) *app.Service {
		cfg := sr.Get("config").(*config.Config)
		if !cfg.Account.HasKey() {
			return app.NewService(nil)
		}
		signer, err := app.NewSigner(cfg.Account.PrivateKey)
		if err != nil {
			panic("invalid account.private_key: " + err.Error())
		}
		return app.NewService(signer)
	})
	return nil
}

// Startup validates the configured key before anything resolves the service.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	cfg := mono.Config()
	if cfg.Account.HasKey() {
		if _, err := app.NewSigner(cfg.Account.PrivateKey); err != nil {
			return err
		}
	}

	svc := accountDI.GetAccountService(mono.Services())
	if s := svc.Signer(); s != nil {
		mono.Logger().Info(ctx, "account module started", "address", s.Address().Hex())
	} else {
		mono.Logger().Info(ctx, "account module started", "address", "none")
	}
	return nil
}
