package routes

import (
	"github.com/gin-gonic/gin"

	"laptoppos/auth"
	"laptoppos/controllers"
	"laptoppos/database"
	"laptoppos/middleware"
)

// SetupRoutes wires controllers to the router. The store and persistence
// adapters are injected here; controllers hold no global state.
func SetupRoutes(r *gin.Engine, store *database.Store, syncer *database.RelationalSyncer, bulk *database.BulkRestorer) {
	authController := controllers.AuthController{Store: store}
	laptopController := controllers.LaptopController{Store: store}
	customerController := controllers.CustomerController{Store: store}
	saleController := controllers.SaleController{Store: store}
	repairController := controllers.RepairController{Store: store}
	userController := controllers.UserController{Store: store}
	reportController := controllers.ReportController{Store: store}
	paymentController := controllers.PaymentController{Store: store}
	backupController := controllers.BackupController{Store: store, Syncer: syncer, Bulk: bulk}
	emailController := controllers.EmailController{}

	// Public routes (no authentication required)
	public := r.Group("/api")
	{
		authGroup := public.Group("/auth")
		{
			authGroup.POST("/login", authController.Login)
			authGroup.POST("/register", authController.Register)
			authGroup.GET("/confirm", authController.ConfirmEmail)
		}
	}

	// Protected routes (authentication required)
	protected := r.Group("/api")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.POST("/auth/refresh", authController.RefreshToken)
		protected.GET("/auth/session", authController.SessionStatus)
		protected.POST("/auth/change-password", authController.ChangePassword)

		// Inventory
		protected.GET("/laptops", laptopController.GetLaptops)
		protected.GET("/laptops/:id", laptopController.GetLaptopByID)
		inventory := protected.Group("/laptops")
		inventory.Use(middleware.RequirePermission(auth.PermManageInventory))
		{
			inventory.POST("", laptopController.CreateLaptop)
			inventory.PUT("/:id", laptopController.UpdateLaptop)
			inventory.DELETE("/:id", laptopController.DeleteLaptop)
		}

		// Customers
		protected.GET("/customers", customerController.GetCustomers)
		protected.GET("/customers/:id", customerController.GetCustomerByID)
		customersGroup := protected.Group("/customers")
		customersGroup.Use(middleware.RequirePermission(auth.PermManageCustomers))
		{
			customersGroup.POST("", customerController.CreateCustomer)
			customersGroup.PUT("/:id", customerController.UpdateCustomer)
			customersGroup.DELETE("/:id", customerController.DeleteCustomer)
		}

		// Sales and installments
		protected.POST("/sales", saleController.CreateSale)
		protected.GET("/sales", middleware.RequirePermission(auth.PermViewSales), saleController.GetSales)
		protected.GET("/sales/:id", middleware.RequirePermission(auth.PermViewSales), saleController.GetSaleByID)
		protected.POST("/sales/:id/cancel", middleware.RequirePermission(auth.PermCancelSale), saleController.CancelSale)
		protected.GET("/installments", saleController.GetInstallments)
		protected.GET("/installments/due", saleController.GetDueInstallments)
		protected.POST("/installments/:id/pay", saleController.RecordInstallmentPayment)
		protected.POST("/installments/:id/collect", paymentController.CollectInstallment)
		protected.POST("/payments/verify", paymentController.VerifyPayment)

		// Repairs
		protected.GET("/repairs", repairController.GetRepairs)
		protected.GET("/repairs/:id", repairController.GetRepairByID)
		protected.POST("/repairs", repairController.CreateRepair)
		protected.PUT("/repairs/:id", repairController.UpdateRepair)

		// Reports
		reportsGroup := protected.Group("/reports")
		reportsGroup.Use(middleware.RequirePermission(auth.PermViewReports))
		{
			reportsGroup.GET("/customers", reportController.GetCustomerInsights)
			reportsGroup.GET("/profits", reportController.GetSaleProfits)
			reportsGroup.GET("/stock-alerts", reportController.GetStockAlerts)
			reportsGroup.GET("/summary", reportController.GetSummary)
			reportsGroup.GET("/export", reportController.ExportWorkbook)
		}

		// Admin routes
		admin := protected.Group("/admin")
		admin.Use(middleware.AdminAuthMiddleware())
		{
			admin.GET("/users", userController.GetUsers)
			admin.GET("/users/:id", userController.GetUserByID)
			admin.POST("/users", userController.CreateUser)
			admin.PUT("/users/:id", userController.UpdateUser)

			admin.GET("/registrations", userController.GetRegistrationRequests)
			admin.POST("/registrations/:id/approve", userController.ApproveRegistration)
			admin.POST("/registrations/:id/reject", userController.RejectRegistration)

			admin.GET("/audit-logs", userController.GetAuditLogs)

			admin.GET("/backup", backupController.Download)
			admin.POST("/backup/restore", backupController.Restore)

			admin.POST("/email", emailController.Send)
		}
	}
}
