package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joeydtaylor/steeze-client/pkg/admin"
	"github.com/joeydtaylor/steeze-client/pkg/clientfx"
	"github.com/joeydtaylor/steeze-client/pkg/codec"
	"github.com/joeydtaylor/steeze-client/pkg/config"
	"go.uber.org/fx"
)

func main() {
	cfgPath := flag.String("config", "", "path to client.toml (default $STEEZE_CLIENT_CONFIG or client.toml)")
	probe := flag.String("probe", "", "probe this URL once and exit (\"-\" uses client.probe_url)")
	flag.Parse()

	opts := []clientfx.Option{clientfx.WithService("connprobe"), clientfx.WithConfigPath(*cfgPath)}

	if *probe == "" {
		fx.New(clientfx.Module(append(opts, clientfx.WithProbeOnBoot(true))...)).Run()
		return
	}

	os.Exit(oneShot(opts, *probe))
}

func oneShot(opts []clientfx.Option, target string) int {
	var (
		client *http.Client
		cfg    config.Config
	)
	app := fx.New(
		clientfx.Module(append(opts, clientfx.WithAdmin(false))...),
		fx.Populate(&client, &cfg),
		fx.NopLogger,
	)
	if err := app.Err(); err != nil {
		fmt.Fprintln(os.Stderr, "connprobe:", err)
		return 2
	}

	if target == "-" {
		target = cfg.Client.ProbeURL
	}
	if target == "" {
		fmt.Fprintln(os.Stderr, "connprobe: no probe url (set -probe or client.probe_url)")
		return 2
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Client.Timeout()+5*time.Second)
	defer cancel()
	res := admin.Probe(ctx, client, target)

	b, _ := codec.JSONStrict.Marshal(res)
	fmt.Println(string(b))
	if res.Error != "" {
		return 1
	}
	return 0
}
