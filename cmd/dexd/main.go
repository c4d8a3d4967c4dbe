// Command dexd runs the matching engine behind a TCP listener, standing
// in for the node's interception of transactions targeting the enshrined
// DEX contract address.
package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/haardikk21/enshrined-dex/internal/host"
	"github.com/haardikk21/enshrined-dex/internal/netsrv"
	"github.com/haardikk21/enshrined-dex/internal/pool"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
	)
	defer stop()

	mgr := pool.New()

	var srv *netsrv.Server
	adapter := host.New(mgr, reporterFunc(func() *netsrv.Server { return srv }))
	srv = netsrv.New("0.0.0.0", 9001, adapter)

	go srv.Run(ctx)

	log.Info().Msg("dexd running")
	<-ctx.Done()
}

// reporterFunc lets the Adapter hold a Reporter that resolves to the
// server after it's constructed, since the server and adapter need a
// reference to each other.
type reporterFunc func() *netsrv.Server

func (f reporterFunc) ReportEvent(clientAddress string, payload []byte) error {
	return f().ReportEvent(clientAddress, payload)
}

func (f reporterFunc) ReportError(clientAddress string, err error) error {
	return f().ReportError(clientAddress, err)
}
