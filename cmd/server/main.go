package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/qbacid/DentorAcademy/internal/config"
	"github.com/qbacid/DentorAcademy/internal/container"
	"github.com/qbacid/DentorAcademy/internal/router"
)

func main() {
	c := container.New()

	handler := router.New(router.RouterConfig{
		UserHandler:   c.UserContainer.Handler,
		CourseHandler: c.CourseContainer.Handler,
		QuizHandler:   c.QuizContainer.Handler,
	})

	addr := ":" + config.Getenv("PORT", "8080")
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		config.Logger.WithField("addr", addr).Info("Server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			config.Logger.WithError(err).Fatal("Server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		config.Logger.WithError(err).Error("Graceful shutdown failed")
	}
}
