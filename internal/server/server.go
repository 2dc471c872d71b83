package server

import (
	"net/http"

	"freshmart/internal/config"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// New はechoインスタンスを組み立てて返す。起動はmain側。
func New(cfg config.Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	//CORSはフロントのoriginだけ許可（未設定なら全許可＝dev想定）
	cors := echomw.DefaultCORSConfig
	if cfg.FEURL != "" {
		cors.AllowOrigins = []string{cfg.FEURL}
	}
	e.Use(echomw.CORSWithConfig(cors))

	e.GET("/api/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status": "healthy",
			"app":    cfg.AppName,
		})
	})

	return e
}
