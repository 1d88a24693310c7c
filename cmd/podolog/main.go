// Command podolog runs the podiatry booking bot.
package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/9304065865a/podolog/core/bootstrap"
	corecmd "github.com/9304065865a/podolog/core/cmd"
	"github.com/9304065865a/podolog/internal/app"
)

func main() {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	err := corecmd.Run(corecmd.Options{
		ConfigEnvVar:      "CONFIG_PATH",
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			return app.LoadConfig(path)
		},
		Bootstrap: func(carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
			cfg := carrier.(*app.Config)
			res, err := bootstrap.Run(bootstrap.Options{
				Config:   cfg.CoreConfig(),
				Database: cfg.Database,
			})
			if err != nil {
				return nil, err
			}
			return app.New(cfg, res.DB)
		},
	})
	if err != nil {
		log.Fatal(err)
	}
}
