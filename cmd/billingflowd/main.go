package main

import (
	"log"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	"github.com/andrewpillar/billingflow"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
)

const defaultAddr = ":8080"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("File .env not found!")
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	useTrial, _ := strconv.ParseBool(os.Getenv("STRIPE_TRIAL"))
	trialDays, _ := strconv.Atoi(os.Getenv("STRIPE_TRIAL_DAYS"))

	cfg := billingflow.Config{
		DefaultPriceID:  mustGetenv("STRIPE_PRICE"),
		UseTrial:        useTrial,
		TrialPeriodDays: trialDays,
		WebhookSecret:   mustGetenv("STRIPE_WEBHOOK_SECRET"),
		Account:         os.Getenv("STRIPE_ACCOUNT"),
		FulfillOrder: func(sess *billingflow.CheckoutSession) error {
			logger.Info("order paid",
				"session", sess.ID,
				"reference", sess.ClientReferenceID,
			)
			return nil
		},
	}

	st := billingflow.New(mustGetenv("STRIPE_SECRET"), cfg)

	hook := billingflow.CheckoutHook(cfg, func(err error) {
		logger.Error("webhook error", "err", err)
	})

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Post("/billing/provision", billingflow.ProvisionHandler(st, logger))
	r.Post("/billing/portal", billingflow.PortalHandler(st, logger))
	r.Post("/billing/checkout", billingflow.CheckoutHandler(st, logger))
	r.Post("/billing/webhook", hook.HandlerFunc)

	addr := os.Getenv("ADDR")

	if addr == "" {
		addr = defaultAddr
	}

	logger.Info("listening", "addr", addr)
	log.Fatal(http.ListenAndServe(addr, r))
}

func mustGetenv(k string) string {
	v := os.Getenv(k)

	if v == "" {
		log.Fatalf("%s environment variable not set\n", k)
	}
	return v
}
