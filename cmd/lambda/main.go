package main

import (
	"context"
	"log"
	"time"

	"meetgraph/infrastructure/config"
	"meetgraph/infrastructure/di"
	"meetgraph/interfaces/http/rest"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	chiadapter "github.com/awslabs/aws-lambda-go-api-proxy/chi"
	"go.uber.org/zap"
)

var (
	chiLambda *chiadapter.ChiLambdaV2
	container *di.Container
	coldStart = true
)

// init runs during cold start
func init() {
	start := time.Now()
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, err = di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	router := rest.NewRouter(rest.RouterConfig{
		Feed:         container.FeedHandler,
		Profile:      container.ProfileHandler,
		Connections:  container.ConnectionHandler,
		Chat:         container.ChatHandler,
		Cache:        container.CacheHandler,
		Payment:      container.PaymentHandler,
		JWTValidator: container.JWTValidator,
		RateLimiter:  container.RateLimiter,
		Logger:       container.Logger,
		Metrics:      container.MetricsPublisher,
		EnableCORS:   cfg.EnableCORS,
	})

	chiLambda = chiadapter.NewV2(router)

	container.Logger.Info("Lambda cold start complete",
		zap.Duration("duration", time.Since(start)),
	)
}

func handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	if coldStart {
		coldStart = false
		container.Logger.Debug("First invocation after cold start",
			zap.String("path", req.RawPath),
		)
	}
	return chiLambda.ProxyWithContextV2(ctx, req)
}

func main() {
	lambda.Start(handler)
}
