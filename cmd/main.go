package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
	"github.com/xeptore/flaw/v8"

	"github.com/xeptore/aliscan/config"
	"github.com/xeptore/aliscan/constant"
	"github.com/xeptore/aliscan/errutil"
	"github.com/xeptore/aliscan/log"
	"github.com/xeptore/aliscan/scan"
	"github.com/xeptore/aliscan/scan/model"
)

const (
	flagConfigFilePath = "config"
	flagPacked         = "packed"
)

func main() {
	logger := log.NewPretty(os.Stderr).Level(zerolog.TraceLevel)
	if err := godotenv.Load(); nil != err {
		if errors.Is(err, os.ErrNotExist) {
			logger.Debug().Msg(".env file was not found")
		} else {
			logger.Fatal().Err(err).Msg("Failed to load .env file")
		}
	}

	configFlag := &cli.StringFlag{ //nolint:exhaustruct
		Name:     flagConfigFilePath,
		Aliases:  []string{"c"},
		Usage:    "Config file path",
		Required: false,
	}

	//nolint:exhaustruct
	app := &cli.App{
		Name:     "aliscan",
		Version:  constant.Version,
		Compiled: constant.CompileTime,
		Suggest:  true,
		Usage:    "Aliyun Drive QR code login",
		Flags: []cli.Flag{
			//nolint:exhaustruct
			&cli.BoolFlag{
				Name:  flagPacked,
				Usage: "Write logs as packed JSON lines",
			},
		},
		Commands: []*cli.Command{
			//nolint:exhaustruct
			{
				Name:    "login",
				Aliases: []string{"l"},
				Usage:   "Login by scanning a QR code and print the obtained tokens",
				Action:  login,
				Flags:   []cli.Flag{configFlag},
			},
			//nolint:exhaustruct
			{
				Name:   "refresh",
				Usage:  "Refresh the token set in REFRESH_TOKEN environment variable and print the new tokens",
				Action: refresh,
				Flags:  []cli.Flag{configFlag},
			},
			//nolint:exhaustruct
			{
				Name:      "code",
				Usage:     "Print the authorization code of a login redirect URL",
				ArgsUsage: "<goto-url>",
				Action:    code,
			},
		},
	}

	if err := app.Run(os.Args); nil != err {
		if errors.Is(err, context.Canceled) {
			logger.Trace().Msg("Application was canceled")
			return
		}
		if flawErr := new(flaw.Flaw); errors.As(err, &flawErr) {
			logger.Fatal().Func(log.Flaw(flawErr)).Msg("Application exited with flaw")
			return
		}
		logger.Fatal().Err(err).Msg("Application exited with error")
	}
}

func newLogger(cliCtx *cli.Context) zerolog.Logger {
	if cliCtx.Bool(flagPacked) {
		return log.NewPacked(os.Stderr).Level(zerolog.TraceLevel)
	}
	return log.NewPretty(os.Stderr).Level(zerolog.TraceLevel)
}

func loadConfig(cliCtx *cli.Context, logger zerolog.Logger) (*config.Config, error) {
	cfgEnv := os.Getenv("CONFIG")
	cfgFilePath := cliCtx.String(flagConfigFilePath)
	switch {
	case cfgFilePath != "" && cfgEnv != "":
		return nil, errors.New("config file path and config environment variable are both set. specify only one")
	case cfgFilePath != "":
		logger.Debug().Str("config_file_path", cfgFilePath).Msg("Loading config from file")
		cfg, err := config.FromFile(cfgFilePath)
		if nil != err {
			return nil, fmt.Errorf("failed to load config file: %v", err)
		}
		return cfg, nil
	case cfgEnv != "":
		logger.Debug().Msg("Loading config from environment variable")
		cfg, err := config.FromString(cfgEnv)
		if nil != err {
			return nil, fmt.Errorf("failed to load config from environment variable: %v", err)
		}
		return cfg, nil
	default:
		logger.Debug().Msg("Using default config")
		cfg := config.Default()
		return &cfg, nil
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); nil != err {
		flawP := flaw.P{"err_debug_tree": errutil.Tree(err).FlawP()}
		return flaw.From(fmt.Errorf("failed to write output: %v", err)).Append(flawP)
	}
	return nil
}

func login(cliCtx *cli.Context) error {
	ctx, cancel := signal.NotifyContext(cliCtx.Context, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := newLogger(cliCtx)
	cfg, err := loadConfig(cliCtx, logger)
	if nil != err {
		return err
	}

	client := scan.NewClient(cfg.Endpoints, cfg.RequestTimeout)
	authorization, wait, err := scan.NewAuthorizer(ctx, client, *cfg, logger.With().Str("module", "authorizer").Logger())
	if nil != err {
		switch {
		case errors.Is(ctx.Err(), context.Canceled):
			return context.Canceled
		case errors.Is(err, context.DeadlineExceeded):
			return fmt.Errorf("failed to generate login QR code due to deadline exceeded: %v", err)
		case errutil.IsFlaw(err):
			return err
		default:
			panic(errutil.UnknownError(err))
		}
	}

	logger.
		Info().
		Str("qr_code_content", authorization.CodeContent).
		Stringer("expires_in", authorization.ExpiresIn).
		Msg("Scan the QR code encoding the content with the mobile app to login")

	res := <-wait
	if err := res.Err(); nil != err {
		switch {
		case errors.Is(ctx.Err(), context.Canceled):
			return context.Canceled
		case errors.Is(err, scan.ErrAuthWaitTimeout):
			return errors.New("login QR code expired before it was confirmed")
		case errors.Is(err, scan.ErrQRCodeExpired), errors.Is(err, scan.ErrQRCodeCanceled):
			return fmt.Errorf("login was not confirmed: %v", err)
		case errors.Is(err, scan.ErrUnauthorized):
			return errors.New("login token was rejected by the server")
		case errutil.IsFlaw(err):
			logger.Error().Func(log.Flaw(err)).Msg("Login failed")
			return err
		default:
			// Protocol errors of the redirect and login responses
			return fmt.Errorf("login failed due to unexpected server response: %v", err)
		}
	}

	creds := res.Unwrap()
	logEvent := logger.Info().Str("access_token", log.RedactString(creds.AccessToken))
	if expiresAt, ok := model.AccessTokenExpiry(creds.AccessToken); ok {
		logEvent = logEvent.Time("access_token_expires_at", expiresAt)
	}
	logEvent.Msg("Login was successful")
	return printJSON(creds)
}

func refresh(cliCtx *cli.Context) error {
	ctx, cancel := signal.NotifyContext(cliCtx.Context, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := newLogger(cliCtx)
	refreshToken := os.Getenv("REFRESH_TOKEN")
	if refreshToken == "" {
		return errors.New("REFRESH_TOKEN environment variable is empty")
	}

	cfg, err := loadConfig(cliCtx, logger)
	if nil != err {
		return err
	}

	client := scan.NewClient(cfg.Endpoints, cfg.RequestTimeout)
	res, err := client.Refresh(ctx, refreshToken)
	if nil != err {
		switch {
		case errors.Is(ctx.Err(), context.Canceled):
			return context.Canceled
		case errors.Is(err, context.DeadlineExceeded):
			return fmt.Errorf("failed to refresh token due to deadline exceeded: %v", err)
		case errors.Is(err, scan.ErrUnauthorized):
			return errors.New("refresh token is invalid or expired. login again")
		case errors.Is(err, scan.ErrTooManyRequests):
			return errors.New("refresh request was rate limited. try again later")
		case errors.Is(err, model.ErrMissingMandatoryField):
			return fmt.Errorf("server responded with malformed refresh response: %v", err)
		case errutil.IsFlaw(err):
			return err
		default:
			panic(errutil.UnknownError(err))
		}
	}

	logEvent := logger.Info().Str("access_token", log.RedactString(res.AccessToken)).Uint64("expires_in", res.ExpiresIn)
	if expiresAt, ok := model.AccessTokenExpiry(res.AccessToken); ok {
		logEvent = logEvent.Time("access_token_expires_at", expiresAt)
	}
	logEvent.Msg("Token was refreshed")
	return printJSON(res)
}

func code(cliCtx *cli.Context) error {
	if cliCtx.NArg() != 1 {
		return errors.New("expected exactly one goto url argument")
	}

	c, err := model.NewGotoResponse(cliCtx.Args().First()).ExtractAuthorizationCode()
	if nil != err {
		return fmt.Errorf("failed to extract authorization code: %v", err)
	}
	_, err = fmt.Fprintln(os.Stdout, c)
	return err
}
