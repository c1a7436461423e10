package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"quiz-widget/internal/cli"
	"quiz-widget/internal/quiz"
	"quiz-widget/internal/userclient"
)

func main() {
	server := flag.String("server", "", "quiz service base URL; plays locally when empty")
	timeout := flag.Duration("timeout", 5*time.Second, "HTTP timeout")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, *server, *timeout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, server string, timeout time.Duration) error {
	if server == "" {
		driver, err := cli.NewLocalDriver(quiz.DefaultQuestions())
		if err != nil {
			return err
		}
		return cli.Run(ctx, os.Stdin, os.Stdout, driver)
	}

	driver := userclient.NewRemoteDriver(userclient.Config{
		ServerURL:   server,
		HTTPTimeout: timeout,
	})
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		_ = driver.Close(closeCtx)
	}()
	return cli.Run(ctx, os.Stdin, os.Stdout, driver)
}
