package db_fx

import (
	"context"

	"cloud.google.com/go/firestore"
	"go.uber.org/fx"
	"tripy/internal/infra"
)

var Module = fx.Options(
	fx.Provide(provideFirestore),
	fx.Invoke(registerClose),
)

func provideFirestore() *firestore.Client {
	return infra.InitFirestore()
}

func registerClose(lc fx.Lifecycle, client *firestore.Client) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			infra.CloseFirestore(client)
			return nil
		},
	})
}
