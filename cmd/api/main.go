package main

import (
	"log"

	"freshmart/internal/config"
	"freshmart/internal/domain/model"
	"freshmart/internal/handler"
	"freshmart/internal/infra/db"
	infraRepo "freshmart/internal/infra/repository"
	"freshmart/internal/server"
	"freshmart/internal/usecase"

	"github.com/joho/godotenv"
)

func main() {
	//.envはあれば読む（本番はenv直接注入）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatal(err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.Cart{},
		&model.CartItem{},
		&model.Wishlist{},
		&model.WishlistItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.OTPCode{},
		&model.AuditLog{},
	); err != nil {
		log.Fatal(err)
	}

	//初期データ（商品が空のときだけ）
	if err := db.Seed(gormDB); err != nil {
		log.Fatal(err)
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	categoryRepo := infraRepo.NewCategoryGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	wishlistRepo := infraRepo.NewWishlistGormRepository(gormDB)
	otpRepo := infraRepo.NewOTPGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//Usecase生成
	authUC := usecase.NewAuthUsecase(txManager, userRepo, otpRepo, cfg.JWTSecret, cfg.Debug)
	userUC := usecase.NewUserUsecase(userRepo, orderRepo, wishlistRepo, wishlistRepo)
	productUC := usecase.NewProductUsecase(productRepo, categoryRepo)
	cartUC := usecase.NewCartUsecase(txManager)
	wishlistUC := usecase.NewWishlistUsecase(txManager)
	orderUC := usecase.NewOrderUsecase(txManager)
	adminOrderUC := usecase.NewAdminOrderUsecase(txManager)

	//Server組み立て
	e := server.New(cfg)
	server.RegisterRoutes(e, cfg, server.Handlers{
		Auth:       handler.NewAuthHandler(authUC),
		User:       handler.NewUserHandler(userUC),
		Product:    handler.NewProductHandler(productUC),
		Cart:       handler.NewCartHandler(cartUC),
		Wishlist:   handler.NewWishlistHandler(wishlistUC),
		Order:      handler.NewOrderHandler(orderUC),
		AdminOrder: handler.NewAdminOrderHandler(adminOrderUC),
	})

	addr := ":" + cfg.Port
	if cfg.Port[0] == ':' {
		addr = cfg.Port
	}

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
