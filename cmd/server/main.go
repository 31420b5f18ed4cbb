// cmd/server/main.go
package main

import (
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/unclebandit/mailblast-backend/internal/controller"
	"github.com/unclebandit/mailblast-backend/internal/db"
	"github.com/unclebandit/mailblast-backend/internal/handler"
	"github.com/unclebandit/mailblast-backend/internal/mailer"
	"github.com/unclebandit/mailblast-backend/internal/queue"
	"github.com/unclebandit/mailblast-backend/internal/repository"
	"github.com/unclebandit/mailblast-backend/internal/service"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on OS environment variables")
	}

	// Init DB
	db.Init()

	addressRepo := &repository.EmailAddressRepository{DB: db.DB}
	templateRepo := &repository.MessageTemplateRepository{DB: db.DB}
	logRepo := &repository.EmailLogRepository{DB: db.DB}

	mailingService := &service.MailingService{
		AddressRepo:  addressRepo,
		TemplateRepo: templateRepo,
		LogRepo:      logRepo,
		Mailer:       mailer.NewSMTPMailerFromEnv(),
	}
	addressService := &service.AddressService{Repo: addressRepo}
	templateService := &service.TemplateService{Repo: templateRepo}

	// Async runs go through RabbitMQ when AMQP_URL is set, otherwise an
	// in-process queue handles them inside this server.
	var q queue.Queue
	if url := os.Getenv("AMQP_URL"); url != "" {
		amqpQueue, err := queue.NewAMQPQueue(url)
		if err != nil {
			log.Fatal("failed to connect to RabbitMQ:", err)
		}
		q = amqpQueue
		log.Println("✅ Async mailing runs go to RabbitMQ")
	} else {
		memQueue := queue.NewInMemoryQueue()
		queue.StartMailingRunSubscriber(memQueue, mailingService)
		q = memQueue
	}

	mailingController := &controller.MailingController{
		MailingService: mailingService,
		Queue:          q,
	}
	addressHandler := &handler.AddressHandler{Service: addressService}
	templateHandler := &handler.TemplateHandler{Service: templateService}
	logHandler := &handler.LogHandler{Service: mailingService}

	r := chi.NewRouter()

	// Address routes
	r.Get("/addresses/search", addressHandler.SearchAddresses)
	r.Get("/addresses/stats", addressHandler.GetAddressStats)
	r.Get("/addresses", addressHandler.ListAddresses)
	r.Post("/addresses", addressHandler.CreateAddress)
	r.Get("/addresses/{id}", addressHandler.GetAddress)
	r.Put("/addresses/{id}", addressHandler.UpdateAddress)
	r.Delete("/addresses/{id}", addressHandler.DeleteAddress)

	// Template routes
	r.Get("/templates/search", templateHandler.SearchTemplates)
	r.Get("/templates/stats", templateHandler.GetTemplateStats)
	r.Get("/templates", templateHandler.ListTemplates)
	r.Post("/templates", templateHandler.CreateTemplate)
	r.Get("/templates/{id}", templateHandler.GetTemplate)
	r.Put("/templates/{id}", templateHandler.UpdateTemplate)
	r.Delete("/templates/{id}", templateHandler.DeleteTemplate)
	r.Post("/templates/{id}/placeholders", templateHandler.GetTemplateWithPlaceholders)

	// Mailing routes
	r.Get("/mailing/addresses", mailingController.GetAddressesForMailing)
	r.Get("/mailing/templates", mailingController.GetTemplatesForMailing)
	r.Post("/mailing/send", mailingController.SendMailing)
	r.Post("/mailing/send-async", mailingController.SendMailingAsync)
	r.Post("/mailing/preview", mailingController.PersonalizedPreview)
	r.Get("/mailing/logs", logHandler.GetMailingLogs)
	r.Get("/mailing/stats", logHandler.GetMailingStats)
	r.Delete("/mailing/logs/cleanup", logHandler.CleanupOldLogs)
	r.Get("/mailing/logs/{status}", logHandler.GetLogsByStatus)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Println("🚀 Server running on :" + port)
	log.Fatal(http.ListenAndServe(":"+port, r))
}
