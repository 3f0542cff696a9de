package main

import (
	"flag"

	"github.com/danmuck/otrwire/internal/config"
	"github.com/danmuck/otrwire/internal/observability"
	"github.com/rs/zerolog/log"
)

func main() {
	kind := flag.String("kind", "profile", "config kind: profile|otrdecode")
	output := flag.String("output", "", "output path for config template")
	validate := flag.Bool("validate", false, "validate an existing profile file")
	input := flag.String("input", "cmd/otrdecode/profile.toml", "profile path for validation")
	force := flag.Bool("force", false, "overwrite existing config file")
	flag.Parse()
	observability.InitLogger("configgen")

	if *validate {
		if *kind != "profile" {
			log.Fatal().Str("kind", *kind).Msg("validation supports kind=profile only")
		}
		if _, err := config.LoadProfile(*input); err != nil {
			log.Fatal().Err(err).Msg("profile invalid")
		}
		log.Info().Str("path", *input).Msg("validated profile")
		return
	}

	target := *output
	if target == "" {
		switch *kind {
		case "profile":
			target = "cmd/otrdecode/profile.toml"
		case "otrdecode":
			target = "cmd/otrdecode/config.toml"
		default:
			log.Fatal().Str("kind", *kind).Msg("unknown config kind")
		}
	}

	if err := config.WriteTemplate(target, *kind, *force); err != nil {
		log.Fatal().Err(err).Msg("failed to write config template")
	}
	log.Info().Str("kind", *kind).Str("path", target).Msg("wrote config template")
}
