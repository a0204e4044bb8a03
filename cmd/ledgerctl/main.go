package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/google/subcommands"
	"max.ks1230/personal-ledger/internal/clients/cache"
	"max.ks1230/personal-ledger/internal/config"
	"max.ks1230/personal-ledger/internal/logger"
	"max.ks1230/personal-ledger/internal/model/auth"
	"max.ks1230/personal-ledger/internal/model/balance"
	"max.ks1230/personal-ledger/internal/model/ledger"
	"max.ks1230/personal-ledger/internal/model/reports"
	"max.ks1230/personal-ledger/internal/model/storage"
)

// engine is handed to every command through Execute's variadic args.
type engine struct {
	gate     *auth.Gate
	ledger   *ledger.Service
	balance  *balance.Aggregator
	reports  *reports.Service
	renderer *reports.Renderer
}

var commands = []subcommands.Command{
	&registerCmd{},
	&addCmd{},
	&listCmd{},
	&deleteCmd{},
	&wipeCmd{},
	&balanceCmd{},
	&reportCmd{},
}

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	for _, c := range commands {
		commander.Register(c, "ledger")
	}
	flag.Parse()

	if flag.NArg() == 0 || !isLedgerCommand(flag.Arg(0)) {
		os.Exit(int(commander.Execute(context.Background())))
	}

	conf, err := config.New()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cannot read config:", err)
		os.Exit(int(subcommands.ExitFailure))
	}
	if conf.Storage().Driver() == storage.DriverMemory {
		fmt.Fprintln(os.Stderr, "warning: storage.driver is memory, nothing will be kept after this command")
	}

	store, err := storage.Open(conf.Storage(), conf.Postgres())
	if err != nil {
		fmt.Fprintln(os.Stderr, "cannot open storage:", err)
		os.Exit(int(subcommands.ExitFailure))
	}

	reportsCache := cache.NewReportCache(conf.Memcached())
	renderer := reports.NewRenderer(conf.App().DisplayCurrency())
	generator := reports.NewGenerator(conf.App(), store)
	e := &engine{
		gate:     auth.NewGate(store, conf.App()),
		ledger:   ledger.NewService(store, conf.App(), reports.NewCacheInvalidator(reportsCache, generator)),
		balance:  balance.NewAggregator(store),
		reports:  reports.NewService(generator, renderer, reportsCache, nil),
		renderer: renderer,
	}

	status := commander.Execute(context.Background(), e)

	_ = store.Close()
	logger.Sync()
	os.Exit(int(status))
}

func isLedgerCommand(name string) bool {
	for _, c := range commands {
		if c.Name() == name {
			return true
		}
	}
	return false
}
