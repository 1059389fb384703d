package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/Infernoman/yiimp/models"
	"github.com/Infernoman/yiimp/pkg/report"
	"github.com/Infernoman/yiimp/pkg/repository"
	"github.com/Infernoman/yiimp/pkg/service"
	"github.com/Infernoman/yiimp/pkg/walletrpc"
)

func main() {
	logrus.SetFormatter(new(logrus.JSONFormatter))

	if err := godotenv.Load(); err != nil {
		logrus.Infof("no .env file loaded: %s", err)
	}
	if err := initConfig(); err != nil {
		logrus.Fatalf("reading config: %s", err)
	}

	args := os.Args[1:]
	if len(args) < 2 || args[0] != "check" || args[1] == "" || args[1] == "help" {
		printUsage()
		os.Exit(1)
	}
	symbol := args[1]
	fix := len(args) > 2 && args[2] == "fixit"

	db, err := repository.NewPostgresDB(repository.Config{
		Host:     viper.GetString("db.host"),
		Port:     viper.GetString("db.port"),
		Username: viper.GetString("db.username"),
		Password: os.Getenv("DB_PASSWORD"),
		DBName:   viper.GetString("db.dbname"),
		SSLMode:  viper.GetString("db.sslmode"),
	})
	if err != nil {
		logrus.Fatalf("connecting to database: %s", err)
	}

	repos := repository.NewRepository(db)
	svc := service.NewService(repos, dialWallet, decimal.NewFromFloat(viper.GetFloat64("payments.minimum")))

	rep, err := svc.Check(symbol, fix)
	if err != nil {
		if errors.Is(err, repository.ErrCoinNotFound) {
			fmt.Printf("wallet %s not found!\n", symbol)
		} else {
			fmt.Printf("payout check failed: %s\n", err)
		}
		os.Exit(1)
	}

	fmt.Print(report.NewTextFormatter().Format(rep))
}

func dialWallet(coin models.Coin) service.TransactionLister {
	timeout := viper.GetDuration("wallet.timeout")
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return walletrpc.NewClient(coin, timeout)
}

func initConfig() error {
	viper.AddConfigPath("configs")
	viper.SetConfigName("config")
	return viper.ReadInConfig()
}

func printUsage() {
	fmt.Println("Yiimp payout command")
	fmt.Println("Usage: payout check <symbol> [fixit]")
}
