package controllers_fx

import (
	"go.uber.org/fx"
	"tripy/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewTripController),
	fx.Provide(controllers.NewPlacesController))
