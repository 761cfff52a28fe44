package server

import (
	"context"
	"net/http"
	"time"

	appointmentH "github.com/fekuna/omnipos-pharmacy-service/internal/appointment/handler"
	"github.com/fekuna/omnipos-pharmacy-service/internal/auth"
	inventoryH "github.com/fekuna/omnipos-pharmacy-service/internal/inventory/handler"
	"github.com/fekuna/omnipos-pharmacy-service/internal/model"
	productH "github.com/fekuna/omnipos-pharmacy-service/internal/product/handler"
	saleH "github.com/fekuna/omnipos-pharmacy-service/internal/sale/handler"
	userH "github.com/fekuna/omnipos-pharmacy-service/internal/user/handler"
	"github.com/fekuna/omnipos-pharmacy-service/pkg/i18n"
	"github.com/fekuna/omnipos-pharmacy-service/pkg/logger"
	"github.com/fekuna/omnipos-pharmacy-service/pkg/middleware"
	"github.com/fekuna/omnipos-pharmacy-service/pkg/response"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Product     *productH.ProductHandler
	Inventory   *inventoryH.InventoryHandler
	Sale        *saleH.SaleHandler
	User        *userH.UserHandler
	Appointment *appointmentH.AppointmentHandler
}

// Check reports whether a dependency is reachable.
type Check func(ctx context.Context) error

type Deps struct {
	Handlers   Handlers
	Tokens     *auth.TokenManager
	Translator *i18n.Translator
	Logger     logger.ZapLogger
	Checks     map[string]Check
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(d.Logger),
		middleware.Recovery(d.Logger),
		response.Localizer(d.Translator),
	)

	r.GET("/health", healthHandler(d.Checks))

	authenticated := auth.Authenticate(d.Tokens)
	adminOnly := auth.RequireRoles(model.RoleAdmin)
	h := d.Handlers

	r.POST("/auth/login", h.User.Login)

	usuarios := r.Group("/usuarios")
	usuarios.POST("/create", auth.OptionalAuthenticate(d.Tokens), h.User.CreateUser)
	usuarios.GET("/findById/:id", authenticated, adminOnly, h.User.GetUser)
	usuarios.PUT("/update/:id", authenticated, adminOnly, h.User.UpdateUser)
	usuarios.DELETE("/delete/:id", authenticated, adminOnly, h.User.DeleteUser)

	produtos := r.Group("/produtos", authenticated)
	produtos.GET("/findById/:id", h.Product.GetProduct)
	produtos.GET("/movimentacoes/:id", h.Inventory.Movements)
	produtos.GET("/criticalStorage", h.Inventory.CriticalStock)
	produtos.GET("/expirationDate", h.Inventory.CriticalExpiry)
	produtos.POST("/create", adminOnly, h.Product.CreateProduct)
	produtos.PUT("/update/:id", adminOnly, h.Product.UpdateProduct)
	produtos.DELETE("/delete/:id", adminOnly, h.Product.DeleteProduct)
	produtos.POST("/entrada/:id", adminOnly, h.Inventory.Entry)
	produtos.POST("/saida/:id", adminOnly, h.Inventory.Exit)

	vendas := r.Group("/vendas", authenticated)
	vendas.POST("/registrar", h.Sale.RegisterSale)
	vendas.GET("/relatorio", adminOnly, h.Sale.ListSales)

	atendimentos := r.Group("/atendimentos", authenticated)
	atendimentos.POST("/criar", h.Appointment.CreateAppointment)
	atendimentos.GET("/listar", h.Appointment.ListAppointments)
	atendimentos.PUT("/status/:id", h.Appointment.UpdateStatus)

	return r
}

func healthHandler(checks map[string]Check) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		failed := gin.H{}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				failed[name] = err.Error()
			}
		}
		if len(failed) > 0 {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "checks": failed})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
