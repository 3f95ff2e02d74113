package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"

	"github.com/portfolio-chat/backend/internal/app"
	"github.com/portfolio-chat/backend/internal/config"
	lambdahandler "github.com/portfolio-chat/backend/internal/handler/lambda"
	"github.com/portfolio-chat/backend/internal/logging"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load configuration: %v", err)
	}
	logging.Setup(cfg.LogLevel, true)

	chatSvc, err := app.NewChatService(ctx, cfg)
	if err != nil {
		logrus.Fatalf("failed to start chat service: %v", err)
	}

	h := lambdahandler.New(chatSvc, cfg.Development())
	lambda.Start(h.Handle)
}
