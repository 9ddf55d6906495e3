package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"html/template"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/wneessen/go-mail"

	"github.com/rotaworks-dev/staffhub/backend/internal/config"
	"github.com/rotaworks-dev/staffhub/backend/internal/domain"
	"github.com/rotaworks-dev/staffhub/backend/internal/repository"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// The notifier drains notification_queue and delivers each event as an email
// to the recipient staff member. Malformed events are dropped, transient
// delivery failures are requeued.
func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		return
	}

	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("failed to create database pool", slog.String("error", err.Error()))
		return
	}
	defer dbpool.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()
	if err := dbpool.PingContext(pingCtx); err != nil {
		logger.Error("failed to connect to database", slog.String("error", err.Error()))
		return
	}

	repo := repository.NewRepository(cfg, dbpool)

	client, err := mail.NewClient(cfg.Email.SMTP.Host,
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithSSL(),
		mail.WithPort(cfg.Email.SMTP.Port),
		mail.WithUsername(cfg.Email.SMTP.Username),
		mail.WithPassword(cfg.Email.SMTP.Password),
	)
	if err != nil {
		logger.Error("failed to create mail client", slog.String("error", err.Error()))
		return
	}
	defer client.Close()

	dialCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Email.SMTP.DialTimeout)*time.Second)
	defer cancel()
	if err := client.DialWithContext(dialCtx); err != nil {
		logger.Error("failed to connect to mail server", slog.String("error", err.Error()))
		return
	}

	tmpl, err := template.ParseFiles("./templates/notification_email.html")
	if err != nil {
		logger.Error("failed to parse email template", slog.String("error", err.Error()))
		return
	}

	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("failed to connect to rabbitmq", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Error("failed to open rabbitmq channel", slog.String("error", err.Error()))
		return
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(
		"notification_queue",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		logger.Error("failed to declare notification queue", slog.String("error", err.Error()))
		return
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	msgs, err := ch.Consume(
		q.Name,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		logger.Error("failed to start consuming", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-msgs:
				deliver(logger, cfg, repo, client, tmpl, msg)
			}
		}
	}()

	logger.Info("waiting for notifications (CTRL+C to exit)")
	<-sigChan

	slog.Info("shutting down notifier")
	cancel()
	wg.Wait()
	slog.Info("notifier stopped")
}

func deliver(logger *slog.Logger, cfg *config.Config, repo *repository.Repository, client *mail.Client, tmpl *template.Template, msg amqp.Delivery) {
	notification := domain.NotificationMessage{}
	if err := json.Unmarshal(msg.Body, &notification); err != nil {
		logger.Error("failed to decode notification", slog.String("error", err.Error()))
		_ = msg.Nack(false, false)
		return
	}

	recipient, err := repo.GetStaffByID(notification.RecipientID)
	if err != nil {
		// a vanished recipient makes the event permanently undeliverable
		logger.Error("failed to resolve recipient", "recipientID", notification.RecipientID, slog.String("error", err.Error()))
		_ = msg.Nack(false, false)
		return
	}

	email := mail.NewMsg()
	if err := email.From(cfg.Email.From); err != nil {
		logger.Error("failed to set sender", slog.String("error", err.Error()))
		_ = msg.Nack(false, false)
		return
	}
	if err := email.To(recipient.Email); err != nil {
		logger.Error("failed to set recipient", slog.String("error", err.Error()))
		_ = msg.Nack(false, false)
		return
	}

	email.Subject("StaffHub - " + notification.Title)
	if err := email.SetBodyHTMLTemplate(tmpl, struct {
		FullName string
		domain.NotificationMessage
	}{recipient.FullName, notification}); err != nil {
		logger.Error("failed to render email body", slog.String("error", err.Error()))
		_ = msg.Nack(false, false)
		return
	}

	if err := client.DialAndSend(email); err != nil {
		logger.Error("failed to send email, requeueing", slog.String("error", err.Error()))
		_ = msg.Nack(false, true)
		return
	}

	_ = msg.Ack(false)
}
