package main

import (
	"flag"
	"log"

	"github.com/danmuck/calcnet/internal/config"
)

func main() {
	kind := flag.String("kind", "all", "config kind: server|client|all")
	output := flag.String("output", "config.toml", "output path for config template")
	validate := flag.Bool("validate", false, "validate an existing config file")
	input := flag.String("input", "config.toml", "config path for validation")
	force := flag.Bool("force", false, "overwrite existing config file")
	flag.Parse()

	if *validate {
		cfg, err := config.ValidateStrict(*input)
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("Validated config at %s (layout=%s tcp=%d udp=%d)", *input, cfg.WireLayout, cfg.Server.TCPPort, cfg.Server.UDPPort)
		return
	}

	if err := config.WriteTemplate(*output, *kind, *force); err != nil {
		log.Fatal(err)
	}
	log.Printf("Wrote %s config template to %s", *kind, *output)
}
