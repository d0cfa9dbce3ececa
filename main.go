package main

import (
	"fmt"
	"log"
	"os"

	"volunteer-connect-server/routes"
	"volunteer-connect-server/storage"
	"volunteer-connect-server/utils"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	// Only load .env in development
	if os.Getenv("APP_ENV") != "production" {
		godotenv.Load()
	}

	// Initialize services
	storage.InitializeDB()
	storage.InitializeRedis()

	app := iris.New()
	app.Validator = validator.New()

	// CORS configuration
	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With, Idempotency-Key")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	// Minimal middleware - compression only
	app.Use(iris.Compression)

	// JWT Verifiers
	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		err := ctx.ReadJSON(&tokenInput)
		if err != nil {
			return ""
		}
		return tokenInput.RefreshToken
	})

	// Health check endpoint
	app.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"status": "ok"})
	})

	// Routes
	user := app.Party("/api/user")
	{
		user.Post("/register", routes.Register)
		user.Post("/login", routes.Login)
	}

	organization := app.Party("/api/organization")
	{
		organization.Post("/", accessTokenVerifierMiddleware, utils.OrganizationOnlyMiddleware, routes.CreateOrganization)
		organization.Post("/project", accessTokenVerifierMiddleware, utils.OrganizationOnlyMiddleware, routes.CreateProject)
		organization.Get("/projects", routes.ListProjects)
	}

	booking := app.Party("/api/booking")
	{
		booking.Post("/project/{id:uint}", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.CreateBooking)
		booking.Post("/quote", routes.QuoteBookingPrice)
		booking.Get("/mine", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.GetMyBookings)
		booking.Get("/organization", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.GetOrganizationBookings)
		booking.Patch("/{id:uint}/status", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.UpdateBookingStatus)
		booking.Get("/{id:uint}/ledger", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.GetBookingLedger)
		booking.Get("/{id:uint}/audit", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.GetBookingAudit)
	}

	payment := app.Party("/api/payment")
	{
		payment.Post("/intent", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.CreatePaymentIntent)
		payment.Post("/confirm", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.ConfirmPayment)
		payment.Get("/booking/{id:uint}", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.ListBookingPayments)
	}

	contact := app.Party("/api/contact")
	{
		contact.Post("/request", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.RequestContact)
		contact.Post("/{id:uint}/decide", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.DecideContact)
		contact.Get("/status", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.GetContactStatus)
	}

	messages := app.Party("/api/messages")
	{
		messages.Post("/", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.SendMessage)
		messages.Get("/", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.ListMessages)
		messages.Post("/read", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.MarkMessagesRead)
	}

	conversation := app.Party("/api/conversation")
	{
		conversation.Get("/", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.GetConversations)
	}

	ws := app.Party("/api/ws")
	{
		ws.Get("/conversation", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.SubscribeConversation)
	}

	app.Post("/api/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)

	// Get port from environment
	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	addr := "0.0.0.0:" + port

	fmt.Printf("Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
