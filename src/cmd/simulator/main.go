package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/darshanhiteshshah/virtual-stock-simulator/src/eventpubsub"
	"github.com/darshanhiteshshah/virtual-stock-simulator/src/execution"
	"github.com/darshanhiteshshah/virtual-stock-simulator/src/services"
	"github.com/darshanhiteshshah/virtual-stock-simulator/src/utils"
)

type RunArgs struct {
	PollInterval time.Duration
}

var runCmd = &cobra.Command{
	Use:   "simulator",
	Short: "Run the deferred order execution daemon",
	Run: func(cmd *cobra.Command, args []string) {
		interval, err := cmd.Flags().GetDuration("interval")
		if err != nil {
			log.Fatalf("error getting interval: %v", err)
		}

		if err := Run(RunArgs{PollInterval: interval}); err != nil {
			log.Fatalf("Error: %v", err)
		}

		log.Info("Done")
	},
}

func Run(args RunArgs) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wg := sync.WaitGroup{}

	if err := utils.InitEnvironmentVariables(); err != nil {
		return fmt.Errorf("failed to init environment variables: %w", err)
	}

	// ORDER_POLL_INTERVAL (seconds) overrides the flag when set
	pollSeconds, err := utils.GetEnvInt("ORDER_POLL_INTERVAL", 0)
	if err != nil {
		return err
	}
	if pollSeconds > 0 {
		args.PollInterval = time.Duration(pollSeconds) * time.Second
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return fmt.Errorf("missing DATABASE_URL environment variable")
	}

	db, err := services.NewGormDatabaseService(dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	polygonAPIKey := os.Getenv("POLYGON_API_KEY")
	if polygonAPIKey == "" {
		return fmt.Errorf("missing POLYGON_API_KEY environment variable")
	}

	quoteTTL, err := utils.GetEnvInt("QUOTE_CACHE_TTL_SECONDS", 30)
	if err != nil {
		return err
	}

	provider := services.NewCachedQuoteProvider(
		services.NewPolygonQuoteProvider(polygonAPIKey),
		time.Duration(quoteTTL)*time.Second,
	)

	brokerageFee, err := utils.GetEnvDecimal("BROKERAGE_FEE", decimal.Zero)
	if err != nil {
		return err
	}

	bus := eventpubsub.NewBus()
	err = bus.Subscribe(eventpubsub.TradeExecutedTopic, func(event services.TradeExecutedEvent) {
		log.Infof("trade executed for %s: %v (realized %s)", event.Email, event.Transaction, event.RealizedPL.StringFixed(2))
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", eventpubsub.TradeExecutedTopic, err)
	}

	notifier := services.NewBusTradeNotifier(bus)
	executor := execution.NewExecutor(db, notifier, brokerageFee)
	scheduler := execution.NewScheduler(&wg, db, provider, executor, args.PollInterval)

	scheduler.Start(ctx)

	log.Infof("Simulator started with poll interval %v, brokerage fee %s", args.PollInterval, brokerageFee.StringFixed(2))

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("Shutting down")
	cancel()
	wg.Wait()
	bus.WaitAsync()

	return nil
}

func main() {
	runCmd.Flags().Duration("interval", execution.DefaultPollInterval, "How often pending orders are polled against quotes")

	if err := runCmd.Execute(); err != nil {
		log.Fatalf("failed to run command: %v", err)
	}
}
