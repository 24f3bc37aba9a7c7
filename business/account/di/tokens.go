// Package di contains dependency injection tokens for the account context.
package di

import (
	"github.com/fd1az/pool-arbitrage/business/account/app"
	"github.com/fd1az/pool-arbitrage/internal/di"
)

// Public service tokens - exposed to other modules
var (
	AccountService = di.NewToken[*app.Service]("account.Service")
)

func GetAccountService(c di.ServiceRegistry) *app.Service {
	return di.GetToken(c, AccountService)
}
