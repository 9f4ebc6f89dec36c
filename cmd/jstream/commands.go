package main

import (
	"context"

	"github.com/scott-cotton/cli"
)

func MainCommand(ctx context.Context) *cli.Command {
	cfg := &MainConfig{Ctx: ctx}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, &cli.Opt{
		Name:        "o",
		Description: "output file (default stdout)",
		Type:        cli.NamedFuncOpt(cfg.outOpt, "(filepath)"),
	})

	return cli.NewCommandAt(&cfg.Main, "jstream").
		WithSynopsis("jstream [opts] [files] | jstream [opts] command [opts]").
		WithDescription(mainDescription).
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return jstreamMain(cfg, cc, args)
		}).
		WithSubs(
			DiffCommand(cfg),
			VerifyCommand(cfg),
			WritersCommand(cfg))
}

const mainDescription = `jstream prints one line per terminal value of JSON documents: the path
of the value and the value itself.

  $ echo '{"a":[1,{"b":null}]}' | jstream
  /a/0	1
  /a/1/b	null

Paths are JSON Pointers by default; -w kpath and -w jsonpath select kinded
paths (a[1].b) and RFC 9535 normalized paths ($['a'][1]['b']). -w digest
prints an order independent digest of the records instead of the records.

With -e, empty objects and arrays are written as {} and [] values.

Files may be compressed with gzip, zstd, lz4 or s2. With no files, or the
file -, jstream reads stdin. When more than one file is given, each line
is prefixed with the file name and files are processed in parallel (-j).

-where filters records with an expr-lang expression over path, kpath,
value, text, kind, depth, key and index, e.g.

  jstream -where 'kind == "number" && value > 10' data.json

Debug tracing is enabled with the environment variables
JSTREAM_DEBUG_EVENTS, JSTREAM_DEBUG_RECORDS and JSTREAM_DEBUG_SOURCE.`

func DiffCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DiffConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Diff, "diff").
		WithAliases("d", "di").
		WithSynopsis("diff [-a] a b").
		WithDescription("diff the path-value records of two documents, exit 1 if they differ").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return diff(cfg, cc, args)
		})
}

func VerifyCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &VerifyConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Verify, "verify").
		WithAliases("ve").
		WithSynopsis("verify [-q] [files]").
		WithDescription("check that every record of a JSON document resolves to its value, exit 1 on mismatch").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return verifyCmd(cfg, cc, args)
		})
}

func WritersCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &WritersConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Writers, "writers").
		WithSynopsis("writers").
		WithDescription("list the available writers and input drivers").
		WithRun(func(cc *cli.Context, args []string) error {
			return writers(cfg, cc, args)
		})
}
