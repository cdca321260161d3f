package modules

import (
	"github.com/aristech/fieldservice/modules/fieldservice"
	"github.com/aristech/fieldservice/pkg/application"
)

var BuiltInModules = []application.Module{
	fieldservice.NewModule(),
}

func Load(app application.Application, externalModules ...application.Module) error {
	if err := app.RegisterModules(BuiltInModules...); err != nil {
		return err
	}
	for _, module := range externalModules {
		if err := module.Register(app); err != nil {
			return err
		}
	}
	return nil
}
