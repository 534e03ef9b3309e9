package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"tooza/internal/bot"
	"tooza/internal/config"
	"tooza/internal/logx"
	"tooza/internal/ports/ws"
	"tooza/internal/room"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "toozad",
	Short: "Tooza game server",
	Long:  `Authoritative server for the Tooza trick-taking card game.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}
		logx.Init("toozad", cfg.Log.Level)

		if err := bot.LoadIdentities(cfg.Bot.IdentitiesPath); err != nil {
			return err
		}

		rules, err := cfg.GameRules()
		if err != nil {
			return err
		}
		minDelay, maxDelay := cfg.BotDelay()
		manager := room.NewManager(room.Options{
			Rules:       rules,
			TurnTimeout: cfg.TurnTimeout(),
			BotMinDelay: minDelay,
			BotMaxDelay: maxDelay,
		})

		srv := &http.Server{
			Addr:    cfg.Addr,
			Handler: ws.New(manager),
		}

		errCh := make(chan error, 1)
		go func() {
			logx.Info("listening on %s", cfg.Addr)
			errCh <- srv.ListenAndServe()
		}()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
		case sig := <-stop:
			logx.Info("received %s, shutting down", sig)
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		manager.Close()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.Flags().StringVar(&configFile, "configFile", "", "configuration file (optional)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logx.Error("%v", err)
		os.Exit(1)
	}
}
