package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"ptieasy-service/internal/app"
	"ptieasy-service/internal/config"
	"ptieasy-service/internal/pkg/jwt"
	"ptieasy-service/internal/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	keyOutDir  string
	keyBits    int
)

// rootCmd serves the API when no subcommand is given
var rootCmd = &cobra.Command{
	Use:   "ptieasy",
	Short: "PTIEasy fleet inspection dashboard API",
	Long: `PTIEasy serves the fleet pre-trip inspection dashboard: employee,
vehicle and PTI session management, the driver walkthrough, live
notifications over websocket, and compliance statistics.

Run without arguments to start the server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP and websocket server",
	RunE:  runServe,
}

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Write an RSA key pair for signing access tokens",
	Long: `Generate an RSA key pair in PEM format.

The files are named jwt_private.pem and jwt_public.pem; point
JWT_PRIVATE_KEY_PATH and JWT_PUBLIC_KEY_PATH at them.`,
	RunE: runKeygen,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "TOML config overlay (default $PTI_CONFIG_FILE)")

	keygenCmd.Flags().StringVar(&keyOutDir, "out-dir", "secrets", "directory the key pair is written to")
	keygenCmd.Flags().IntVar(&keyBits, "bits", jwt.DefaultKeyBits, "RSA key size")

	rootCmd.AddCommand(serveCmd, keygenCmd)
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("[MAIN] No .env file found, relying on system env vars")
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	zl, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, err := app.NewServer(ctx, cfg, zl)
	if err != nil {
		zl.Error("failed to build server", zap.Error(err))
		return err
	}

	if err := srv.Run(ctx); err != nil {
		zl.Error("server stopped with error", zap.Error(err))
		return err
	}
	return nil
}

func runKeygen(cmd *cobra.Command, args []string) error {
	key, err := jwt.GenerateRSAKey(keyBits)
	if err != nil {
		return fmt.Errorf("failed to generate key: %w", err)
	}

	privPath := filepath.Join(keyOutDir, "jwt_private.pem")
	pubPath := filepath.Join(keyOutDir, "jwt_public.pem")
	if err := jwt.WriteKeyPair(key, privPath, pubPath); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s and %s\n", privPath, pubPath)
	return nil
}
