package dependencies

import (
	"context"

	"github.com/zhenzou/executors"
	"go.uber.org/fx"

	"github.com/Ukvalley1218/bestkitchennet-backend/internal/log"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/mail"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/models"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/pkg/xcache"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/server/db"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/uploads"
)

var Module = fx.Module("dependencies",
	fx.Provide(log.New),
	fx.Provide(db.NewClient),
	fx.Provide(mail.New),
	fx.Provide(uploads.New),
	fx.Provide(NewExecutors),
	fx.Provide(func(cfg xcache.Config) xcache.Cache[*models.Tenant] {
		return xcache.NewFromConfig[*models.Tenant](cfg)
	}),
	fx.Invoke(func(lc fx.Lifecycle, executor executors.ScheduledExecutor) {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return executor.Shutdown(ctx)
			},
		})
	}),
)
