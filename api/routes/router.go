package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ipa-digital/safra-backend/api/controllers"
	"github.com/ipa-digital/safra-backend/api/middleware"
	agentsvc "github.com/ipa-digital/safra-backend/internal/agents"
	authsvc "github.com/ipa-digital/safra-backend/internal/auth"
	ordersvc "github.com/ipa-digital/safra-backend/internal/orders"
	productsvc "github.com/ipa-digital/safra-backend/internal/products"
	requestsvc "github.com/ipa-digital/safra-backend/internal/requests"
	seedsvc "github.com/ipa-digital/safra-backend/internal/seeds"
	usersvc "github.com/ipa-digital/safra-backend/internal/users"
	"github.com/ipa-digital/safra-backend/pkg/auth/session"
	"github.com/ipa-digital/safra-backend/pkg/config"
	"github.com/ipa-digital/safra-backend/pkg/db"
	"github.com/ipa-digital/safra-backend/pkg/enums"
	"github.com/ipa-digital/safra-backend/pkg/logger"
	"github.com/ipa-digital/safra-backend/pkg/metrics"
	"github.com/ipa-digital/safra-backend/pkg/redis"
)

// Services bundles the domain services the router exposes.
type Services struct {
	Auth     authsvc.Service
	Users    usersvc.Service
	Agents   agentsvc.Service
	Products productsvc.Service
	Seeds    seedsvc.Service
	Orders   ordersvc.Service
	Requests requestsvc.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessions session.Checker,
	httpMetrics *metrics.HTTPMetrics,
	services Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginCPFLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterCPFLimit,
	)

	requireAuth := middleware.Auth(cfg.JWT, sessions, logg)
	requireAgente := middleware.RequireRole(enums.ActorRoleAgente, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(services.Auth, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(services.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(services.Auth, logg))
		r.Get("/validate", controllers.AuthValidate(services.Auth, logg))
	})

	r.Route("/api/usuarios", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/", controllers.ListUsuarios(services.Users, logg))
		r.Post("/", controllers.CreateUsuario(services.Users, logg))
		r.Get("/cpf/{cpf}", controllers.GetUsuarioByCPF(services.Users, logg))
		r.Get("/verificar-cpf/{cpf}", controllers.VerificarCPF(services.Users, logg))
		r.Get("/{id}", controllers.GetUsuario(services.Users, logg))
		r.Put("/{id}", controllers.UpdateUsuario(services.Users, logg))
		r.With(requireAgente).Delete("/{id}", controllers.DeleteUsuario(services.Users, logg))
	})

	r.Route("/api/usuarios-ipa", func(r chi.Router) {
		r.Use(requireAuth, requireAgente)
		r.Get("/", controllers.ListUsuariosIpa(services.Agents, logg))
		r.Post("/", controllers.CreateUsuarioIpa(services.Agents, logg))
		r.Get("/{id}", controllers.GetUsuarioIpa(services.Agents, logg))
		r.Put("/{id}", controllers.UpdateUsuarioIpa(services.Agents, logg))
		r.Delete("/{id}", controllers.DeleteUsuarioIpa(services.Agents, logg))
	})

	r.Route("/api/produtos", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/", controllers.ListProdutos(services.Products, logg))
		r.With(requireAgente).Post("/", controllers.CreateProduto(services.Products, logg))
		r.Get("/categoria/{categoria}", controllers.ListProdutosByCategoria(services.Products, logg))
		r.Get("/{id}", controllers.GetProduto(services.Products, logg))
		r.With(requireAgente).Put("/{id}", controllers.UpdateProduto(services.Products, logg))
		r.With(requireAgente).Patch("/{id}/estoque", controllers.AdjustProdutoEstoque(services.Products, logg))
		r.With(requireAgente).Delete("/{id}", controllers.DeleteProduto(services.Products, logg))
	})

	r.Route("/api/sementes", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/", controllers.ListSementes(services.Seeds, logg))
		r.With(requireAgente).Post("/", controllers.CreateSemente(services.Seeds, logg))
		r.Get("/ativas", controllers.ListSementesAtivas(services.Seeds, logg))
		r.Get("/tipo/{tipo}", controllers.ListSementesByTipo(services.Seeds, logg))
		r.Get("/{id}", controllers.GetSemente(services.Seeds, logg))
		r.With(requireAgente).Put("/{id}", controllers.UpdateSemente(services.Seeds, logg))
		r.With(requireAgente).Patch("/{id}/estoque", controllers.SetSementeEstoque(services.Seeds, logg))
		r.With(requireAgente).Patch("/{id}/status", controllers.ToggleSementeStatus(services.Seeds, logg))
		r.With(requireAgente).Delete("/{id}", controllers.DeleteSemente(services.Seeds, logg))
	})

	r.Route("/api/pedidos", func(r chi.Router) {
		// Tracking codes are shareable lookups, the code is the credential.
		r.Get("/rastrear/{codigo}", controllers.RastrearPedido(services.Orders, logg))

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", controllers.ListPedidos(services.Orders, logg))
			r.Post("/", controllers.CreatePedido(services.Orders, logg))
			r.Get("/status/{status}", controllers.ListPedidosByStatus(services.Orders, logg))
			r.Get("/usuario/{usuarioId}", controllers.ListPedidosByUsuario(services.Orders, logg))
			r.Get("/{id}", controllers.GetPedido(services.Orders, logg))
			r.With(requireAgente).Patch("/{id}/status", controllers.UpdatePedidoStatus(services.Orders, logg))
			r.With(requireAgente).Delete("/{id}", controllers.DeletePedido(services.Orders, logg))
		})
	})

	r.Route("/api/solicitacoes", func(r chi.Router) {
		r.Get("/rastrear/{codigo}", controllers.RastrearSolicitacao(services.Requests, logg))

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", controllers.ListSolicitacoes(services.Requests, logg))
			r.Post("/", controllers.CreateSolicitacao(services.Requests, logg))
			r.Get("/status/{status}", controllers.ListSolicitacoesByStatus(services.Requests, logg))
			r.Get("/solicitante/{cpf}", controllers.ListSolicitacoesBySolicitante(services.Requests, logg))
			r.Get("/beneficiario/{cpf}", controllers.ListSolicitacoesByBeneficiario(services.Requests, logg))
			r.Get("/{id}", controllers.GetSolicitacao(services.Requests, logg))
			r.Put("/{id}", controllers.UpdateSolicitacao(services.Requests, logg))
			r.With(requireAgente).Patch("/{id}/status", controllers.UpdateSolicitacaoStatus(services.Requests, logg))
			r.With(requireAgente).Delete("/{id}", controllers.DeleteSolicitacao(services.Requests, logg))
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/api/ping", controllers.PrivatePing())
	})

	return r
}
