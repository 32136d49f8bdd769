package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-pos-ws/internal/handler"
	"go-pos-ws/internal/middleware"
	"go-pos-ws/internal/model"
	"go-pos-ws/internal/repository"
	"go-pos-ws/internal/service"
	"go-pos-ws/internal/ws"
	"go-pos-ws/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		logrus.Warn(".env file not found, relying on environment")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	if err := database.Migrate(db); err != nil {
		logrus.WithError(err).Fatal("database migration failed")
	}

	// 3. Seed default privileges, roles, store, and admin user
	seedDefaults(db)

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	movementRepo := repository.NewStockMovementRepo(db)
	sessionRepo := repository.NewCashSessionRepo(db)
	expenseRepo := repository.NewExpenseRepo(db)
	storeRepo := repository.NewStoreRepo(db)
	userRepo := repository.NewUserRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	checkoutService := service.NewCheckoutService(productRepo, saleRepo, movementRepo, sessionRepo, db, wsHub)
	sessionService := service.NewCashSessionService(sessionRepo, saleRepo, expenseRepo, wsHub)
	catalogService := service.NewCatalogService(productRepo, movementRepo, db, wsHub)
	expenseService := service.NewExpenseService(expenseRepo, wsHub)
	reportService := service.NewReportService(saleRepo, productRepo)
	authService := service.NewAuthService(userRepo, wsHub)
	userService := service.NewUserService(userRepo, privilegeRepo, roleRepo, storeRepo)

	checkoutHandler := handler.NewCheckoutHandler(checkoutService)
	sessionHandler := handler.NewCashSessionHandler(sessionService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	expenseHandler := handler.NewExpenseHandler(expenseService)
	reportHandler := handler.NewReportHandler(reportService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleRepo)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "POS Backend v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// Checkout is rate-limited per cashier. The limiter keys on the
	// authenticated user so one hammering terminal cannot starve others.
	checkoutLimiter := limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			if id, ok := c.Locals("user_id").(string); ok {
				return id
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(429).JSON(fiber.Map{"code": "RATE_LIMITED", "error": "Too many checkout attempts, slow down"})
		},
	})

	// 7. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)
	auth.Post("/heartbeat", middleware.RequireAuth(userRepo), authHandler.Heartbeat)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Checkout and sales
	protected.Post("/checkout", middleware.RequirePrivilege("sale:create"), checkoutLimiter, checkoutHandler.Checkout)
	protected.Get("/sales", middleware.RequirePrivilege("sale:view"), checkoutHandler.GetSales)
	protected.Get("/sales/:id", middleware.RequirePrivilege("sale:view"), checkoutHandler.GetSale)
	protected.Post("/sales/:id/void", middleware.RequirePrivilege("sale:void"), checkoutHandler.VoidSale)
	protected.Get("/customers", middleware.RequirePrivilege("sale:view"), checkoutHandler.GetCustomers)

	// Cash sessions
	protected.Get("/cash-sessions", middleware.RequirePrivilege("cash_session:view"), sessionHandler.GetSessions)
	protected.Get("/cash-sessions/current", middleware.RequirePrivilege("cash_session:view"), sessionHandler.CurrentSession)
	protected.Post("/cash-sessions/open", middleware.RequirePrivilege("cash_session:open"), sessionHandler.OpenSession)
	protected.Post("/cash-sessions/:id/close", middleware.RequirePrivilege("cash_session:close"), sessionHandler.CloseSession)

	// Catalog and stock
	protected.Get("/products", middleware.RequirePrivilege("product:view"), catalogHandler.GetProducts)
	protected.Post("/products", middleware.RequirePrivilege("product:create"), catalogHandler.CreateProduct)
	protected.Put("/products/:id", middleware.RequirePrivilege("product:update"), catalogHandler.UpdateProduct)
	protected.Get("/products/:id/movements", middleware.RequirePrivilege("product:view"), catalogHandler.GetProductMovements)
	protected.Get("/stock/movements", middleware.RequirePrivilege("product:view"), catalogHandler.GetStoreMovements)
	protected.Post("/stock/adjust", middleware.RequirePrivilege("stock:adjust"), catalogHandler.AdjustStock)

	// Expenses
	protected.Get("/expenses", middleware.RequirePrivilege("expense:view"), expenseHandler.GetExpenses)
	protected.Post("/expenses", middleware.RequirePrivilege("expense:create"), expenseHandler.CreateExpense)

	// Reports
	protected.Get("/dashboard/stats", middleware.RequirePrivilege("report:view"), reportHandler.GetDashboardStats)
	protected.Get("/dashboard/sales-by-day", middleware.RequirePrivilege("report:view"), reportHandler.GetSalesByDay)

	// User Management Routes
	protected.Get("/users", userHandler.GetUsers)
	protected.Get("/users/:id", userHandler.GetUser)
	protected.Post("/users", middleware.RequirePrivilege("user:create"), userHandler.CreateUser)
	protected.Put("/users/:id", middleware.RequirePrivilege("user:update"), userHandler.UpdateUser)
	protected.Delete("/users/:id", middleware.RequirePrivilege("user:delete"), userHandler.DeleteUser)
	protected.Put("/users/:id/privileges", middleware.RequirePrivilege("user:update_privilege"), userHandler.UpdateUserPrivileges)

	// Role Routes
	protected.Get("/roles", roleHandler.GetRoles)

	// Stores Route (list all stores, for user assignment screens)
	protected.Get("/stores", func(c *fiber.Ctx) error {
		stores, err := storeRepo.FindAll()
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch stores"})
		}
		return c.JSON(stores)
	})

	// Privileges Route (list all available privileges)
	protected.Get("/privileges", func(c *fiber.Ctx) error {
		privileges, err := privilegeRepo.FindAll()
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch privileges"})
		}
		return c.JSON(privileges)
	})

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			logrus.WithError(err).Fatal("server stopped")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		logrus.WithError(err).Fatal("Server forced to shutdown")
	}

	logrus.Info("Server exited")
}

// seedDefaults creates privileges, roles, the default store, and the
// admin user if they don't exist yet.
func seedDefaults(db *gorm.DB) {
	privilegeRepo := repository.NewPrivilegeRepo(db)
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	storeRepo := repository.NewStoreRepo(db)

	// 1. Seed privileges first
	if err := privilegeRepo.SeedDefaults(); err != nil {
		logrus.WithError(err).Warn("failed to seed privileges")
	}

	// 2. Seed roles
	if err := roleRepo.SeedDefaults(); err != nil {
		logrus.WithError(err).Warn("failed to seed roles")
	}

	// 3. Assign privileges to roles
	allPrivileges, _ := privilegeRepo.FindAll()

	// MASTER_ADMIN gets ALL privileges
	masterRole, err := roleRepo.FindByCode(model.RoleMasterAdmin)
	if err == nil && len(masterRole.Privileges) == 0 {
		db.Model(&masterRole).Association("Privileges").Replace(allPrivileges)
		logrus.Info("MASTER_ADMIN role assigned all privileges")
	}

	// ADMIN gets everything except user management
	adminRole, err := roleRepo.FindByCode(model.RoleAdmin)
	if err == nil && len(adminRole.Privileges) == 0 {
		adminPrivileges := []model.Privilege{}
		for _, p := range allPrivileges {
			if p.Code != "user:create" && p.Code != "user:update" && p.Code != "user:delete" && p.Code != "user:update_privilege" {
				adminPrivileges = append(adminPrivileges, p)
			}
		}
		db.Model(&adminRole).Association("Privileges").Replace(adminPrivileges)
		logrus.Info("ADMIN role assigned limited privileges")
	}

	// CASHIER gets the front-of-house subset
	cashierRole, err := roleRepo.FindByCode(model.RoleCashier)
	if err == nil && len(cashierRole.Privileges) == 0 {
		allowed := make(map[string]bool, len(model.CashierPrivilegeCodes))
		for _, code := range model.CashierPrivilegeCodes {
			allowed[code] = true
		}
		cashierPrivileges := []model.Privilege{}
		for _, p := range allPrivileges {
			if allowed[p.Code] {
				cashierPrivileges = append(cashierPrivileges, p)
			}
		}
		db.Model(&cashierRole).Association("Privileges").Replace(cashierPrivileges)
		logrus.Info("CASHIER role assigned front-of-house privileges")
	}

	// 4. Create the default store
	store, err := storeRepo.FindByName("Main Store")
	if err != nil {
		store = &model.Store{Name: "Main Store", IsActive: true}
		store.CreatedBy = "system"
		store.UpdatedBy = "system"
		if err := storeRepo.Create(store); err != nil {
			logrus.WithError(err).Warn("failed to create default store")
			return
		}
		logrus.Info("Default store created: Main Store")
	}

	// 5. Create default admin user with MASTER_ADMIN role
	if _, err := userRepo.FindByEmail("admin@example.com"); err != nil {
		masterRole, _ := roleRepo.FindByCode(model.RoleMasterAdmin)

		admin := &model.User{
			Email:       "admin@example.com",
			FullName:    "Master Administrator",
			PhoneNumber: "",
			RoleID:      &masterRole.ID,
			StoreID:     &store.ID,
			IsActive:    true,
			Privileges:  masterRole.Privileges,
		}
		admin.CreatedBy = "system"
		admin.UpdatedBy = "system"

		if err := admin.SetPassword("admin123"); err != nil {
			logrus.WithError(err).Warn("failed to hash admin password")
			return
		}

		if err := userRepo.Create(admin); err != nil {
			logrus.WithError(err).Warn("failed to create admin user")
		} else {
			logrus.Info("Admin user created: admin@example.com / admin123 (MASTER_ADMIN)")
		}
	}
}
