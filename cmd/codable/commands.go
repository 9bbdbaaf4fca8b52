package main

import (
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Main, "codable").
		WithSynopsis("codable [opts] command [opts]").
		WithDescription("codable reads JSON or YAML documents into ordered trees and queries them.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return codableMain(cfg, cc, args)
		}).
		WithSubs(
			GetCommand(cfg),
			KeysCommand(cfg),
			DupsCommand(cfg),
			DiffCommand(cfg),
			ConvertCommand(cfg))
}

func GetCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &GetConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Get, "get").
		WithAliases("g").
		WithSynopsis("get <path> [files]").
		WithDescription("print the node at path, given as a.b[0] or /a/b/0").
		WithRun(func(cc *cli.Context, args []string) error {
			return get(cfg, cc, args)
		})
}

func KeysCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &KeysConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Keys, "keys").
		WithAliases("k").
		WithSynopsis("keys [-p] <path> [files]").
		WithDescription("list the keys of the mapping or sequence at path").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return keys(cfg, cc, args)
		})
}

func DupsCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DupsConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Dups, "dups").
		WithSynopsis("dups [files]").
		WithDescription("report duplicated object keys in JSON documents").
		WithRun(func(cc *cli.Context, args []string) error {
			return dups(cfg, cc, args)
		})
}

func DiffCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DiffConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Diff, "diff").
		WithAliases("d").
		WithSynopsis("diff <file1> <file2>").
		WithDescription("compare two documents after normalizing their layout").
		WithRun(func(cc *cli.Context, args []string) error {
			return diff(cfg, cc, args)
		})
}

func ConvertCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ConvertConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Convert, "convert").
		WithAliases("c").
		WithSynopsis("convert [-to json|yaml] [files]").
		WithDescription("rewrite documents in the other format, keeping key order").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return convert(cfg, cc, args)
		})
}
