package main

import (
	"bufio"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/danmuck/otrwire/internal/config"
	"github.com/danmuck/otrwire/internal/logging"
	"github.com/danmuck/otrwire/internal/observability"
	"github.com/danmuck/otrwire/internal/protocol/armor"
	"github.com/danmuck/otrwire/internal/protocol/schema"
	"github.com/danmuck/otrwire/internal/protocol/tlv"
	"github.com/rs/zerolog/log"
)

const maxLineBytes = 16 * 1024 * 1024

var errFragment = errors.New("otrdecode: fragmented message, reassemble before decoding")

type mode int

const (
	modeMessage mode = iota
	modeSignedKey
	modePlaintext
)

type options struct {
	format  string
	mode    mode
	profile config.Profile
}

func main() {
	configPath := flag.String("config", "", "path to otrdecode config.toml")
	format := flag.String("format", "", "input format: auto|hex|armor (overrides config)")
	signedKey := flag.Bool("signed-key", false, "decode input as a decrypted AKE signature payload")
	plaintext := flag.Bool("plaintext", false, "decode input as decrypted data message plaintext with TLVs")
	metricsAddr := flag.String("metrics-addr", "", "serve Prometheus metrics on this address (overrides config)")
	logLevel := flag.String("log-level", "", "log level (overrides config and OTRWIRE_LOG_LEVEL)")
	flag.Parse()

	logging.ConfigureRuntime()
	observability.InitLogger("otrdecode")

	cfg := defaultCLIConfig()
	if *configPath != "" {
		loaded, err := loadCLIConfig(*configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load otrdecode config")
		}
		cfg = loaded
		log.Info().Str("path", *configPath).Msg("loaded otrdecode config")
	}
	if *format != "" {
		cfg.InputFormat = strings.ToLower(strings.TrimSpace(*format))
	}
	if *metricsAddr != "" {
		cfg.MetricsAddr = *metricsAddr
	}
	if err := validateCLIConfig(cfg); err != nil {
		log.Fatal().Err(err).Msg("invalid otrdecode config")
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if !applyLogLevel(cfg.LogLevel) {
		log.Warn().Str("log_level", cfg.LogLevel).Msg("ignoring unknown log level")
	}

	profile := config.DefaultProfile()
	if cfg.ProfilePath != "" {
		loaded, err := config.LoadProfile(cfg.ProfilePath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load decode profile")
		}
		profile = loaded
	}

	if cfg.MetricsAddr != "" {
		go serveMetrics(cfg.MetricsAddr)
	}

	if *signedKey && *plaintext {
		log.Fatal().Msg("-signed-key and -plaintext are mutually exclusive")
	}
	opts := options{format: cfg.InputFormat, mode: modeMessage, profile: profile}
	switch {
	case *signedKey:
		opts.mode = modeSignedKey
	case *plaintext:
		opts.mode = modePlaintext
	}

	in := io.Reader(os.Stdin)
	if flag.NArg() > 0 {
		f, err := os.Open(flag.Arg(0))
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open input")
		}
		defer f.Close()
		in = f
	}

	decoded, failed, err := run(in, opts)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read input")
	}
	log.Info().Int("decoded", decoded).Int("failed", failed).Msg("otrdecode done")
	if failed > 0 {
		os.Exit(1)
	}
}

// applyLogLevel sets the global level only when one was configured, so an
// unset log_level leaves OTRWIRE_LOG_LEVEL in effect.
func applyLogLevel(level string) bool {
	if strings.TrimSpace(level) == "" {
		return true
	}
	return logging.SetLevel(level)
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", observability.Handler())
	log.Info().Str("addr", addr).Msg("serving metrics")
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error().Err(err).Msg("metrics server stopped")
	}
}

// run decodes one message per non-empty input line.
func run(r io.Reader, opts options) (decoded, failed int, err error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if err := decodeLine(text, opts); err != nil {
			failed++
			log.Error().Err(err).Int("line", line).Msg("decode failed")
			continue
		}
		decoded++
	}
	return decoded, failed, scanner.Err()
}

func decodeLine(text string, opts options) error {
	payload, err := parsePayload(text, opts.format)
	if err != nil {
		return err
	}
	switch opts.mode {
	case modeSignedKey:
		values, err := schema.DecodeSignedKey(payload, opts.profile)
		if err != nil {
			return err
		}
		log.Info().Str("layout", schema.SignedKey.Name).Msg("decoded")
		logValues(values)
	case modePlaintext:
		msg, records, err := tlv.SplitPlaintext(payload)
		if err != nil {
			return err
		}
		log.Info().Str("message", string(msg)).Int("tlvs", len(records)).Msg("decoded plaintext")
		for _, rec := range records {
			log.Info().
				Str("type", tlv.TypeName(rec.Type)).
				Str("value", hex.EncodeToString(rec.Value)).
				Msg("tlv")
		}
	default:
		msg, err := schema.DecodeMessage(payload, opts.profile)
		if err != nil {
			return err
		}
		log.Info().
			Str("layout", msg.Layout).
			Uint16("version", msg.Header.Version).
			Uint32("sender_instance", msg.Header.SenderInstance).
			Uint32("receiver_instance", msg.Header.ReceiverInstance).
			Msg("decoded")
		logValues(msg.Fields)
	}
	return nil
}

func logValues(values []schema.Value) {
	for _, v := range values {
		log.Info().
			Str("field", v.Name).
			Str("kind", v.Kind.String()).
			Str("value", v.String()).
			Msg("field")
	}
}

func parsePayload(text, format string) ([]byte, error) {
	if format == formatAuto {
		switch {
		case armor.IsFragment([]byte(text)):
			return nil, errFragment
		case armor.IsArmored([]byte(text)):
			format = formatArmor
		default:
			format = formatHex
		}
	}
	switch format {
	case formatArmor:
		return armor.Decode([]byte(text))
	case formatHex:
		b, err := hex.DecodeString(strings.Join(strings.Fields(text), ""))
		if err != nil {
			return nil, fmt.Errorf("otrdecode: invalid hex input: %w", err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("otrdecode: unsupported input format %q", format)
	}
}
