package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"

	"github.com/reoring/codable"
)

type MainConfig struct {
	Y        bool `cli:"name=y aliases=yaml desc='read input as yaml'"`
	Color    bool `cli:"name=color desc='force colored output'"`
	Verbose  bool `cli:"name=v desc='log decoding details to stderr'"`
	Strict   bool `cli:"name=strict desc='fail on duplicate keys instead of warning'"`
	MaxDepth int  `cli:"name=depth desc='maximum nesting depth, 0 for none'"`
	StdJSON  bool `cli:"name=stdjson desc='tokenize json with encoding/json for exact error offsets'"`

	log *slog.Logger

	Main *cli.Command
}

type GetConfig struct {
	*MainConfig

	Get *cli.Command
}

type KeysConfig struct {
	*MainConfig
	Pointer bool `cli:"name=p desc='print keys as json pointers'"`

	Keys *cli.Command
}

type DupsConfig struct {
	*MainConfig

	Dups *cli.Command
}

type DiffConfig struct {
	*MainConfig

	Diff *cli.Command
}

type ConvertConfig struct {
	*MainConfig
	To string `cli:"name=to desc='output format: json or yaml'"`

	Convert *cli.Command
}

func (cfg *MainConfig) logger() *slog.Logger {
	if cfg.log != nil {
		return cfg.log
	}
	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	cfg.log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))
	return cfg.log
}

func (cfg *MainConfig) readOpt() codable.ReadOpt {
	sev := codable.SeverityWarn
	if cfg.Strict {
		sev = codable.SeverityError
	}
	log := cfg.logger()
	return codable.ReadOpt{
		Strictness: codable.Strictness{OnDuplicateKey: sev},
		MaxDepth:   cfg.MaxDepth,
		OnWarning: func(e *codable.Error) {
			log.Warn(e.Error(), "code", e.Code, "path", e.Path.Pointer())
		},
	}
}

func (cfg *MainConfig) decodingContext() *codable.DecodingContext {
	ctx := codable.NewDecodingContext()
	ctx.SetLogger(cfg.logger())
	return ctx
}

// colored reports whether output to w should carry color codes.
func (cfg *MainConfig) colored(w io.Writer) bool {
	if cfg.Color {
		return true
	}
	if cfg.Main != nil {
		for _, opt := range cfg.Main.Opts {
			if opt.Name == "color" && opt.Value != nil {
				return false
			}
		}
	}
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
